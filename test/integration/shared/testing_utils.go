// Package shared contains testing utilities shared between integration tests.
// It provides common functions for setting up test environments, scaffolding
// projects with encrypted vaults, and capturing CLI output.
package shared

import (
	"bytes"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"filippo.io/age"
	"filippo.io/age/armor"

	"github.com/Pamacea/shadow-secret/cmd"
	"github.com/Pamacea/shadow-secret/internal/configs"
	logger "github.com/Pamacea/shadow-secret/internal/logging"
)

// SetupTestEnvironment points the working directory and user settings at
// temporary directories, restoring both when the test ends.
func SetupTestEnvironment(t *testing.T, tempDir, tempUserDir string) {
	t.Helper()

	originalWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	if err := os.Chdir(tempDir); err != nil {
		t.Fatalf("Failed to change to temp directory: %v", err)
	}

	originalSettings := configs.UserShadowSettings
	configs.UserShadowSettings = &configs.UserSettings{
		UserConfigsPath: filepath.Join(tempUserDir, "config"),
		UserDataPath:    filepath.Join(tempUserDir, "data"),
		Username:        "testuser",
	}

	cmd.ResetGlobalState()
	cmd.SetLogger(logger.Logger{})

	t.Cleanup(func() {
		if err := os.Chdir(originalWd); err != nil {
			t.Fatalf("Failed to change to original directory: %v", err)
		}
		configs.UserShadowSettings = originalSettings
		cmd.ResetGlobalState()
	})
}

// CreateTestProject writes a full project into dir: a config, an armored
// age-encrypted vault with the given dotenv plaintext, the identity file,
// and a .env target.
func CreateTestProject(t *testing.T, dir, plaintext string) {
	t.Helper()

	identity, err := age.GenerateX25519Identity()
	if err != nil {
		t.Fatalf("Failed to generate identity: %v", err)
	}
	keyPath := filepath.Join(dir, "key.txt")
	if err := os.WriteFile(keyPath, []byte(identity.String()+"\n"), 0600); err != nil {
		t.Fatalf("Failed to write identity: %v", err)
	}

	out, err := os.Create(filepath.Join(dir, ".enc.env"))
	if err != nil {
		t.Fatalf("Failed to create vault: %v", err)
	}
	armorWriter := armor.NewWriter(out)
	encWriter, err := age.Encrypt(armorWriter, identity.Recipient())
	if err != nil {
		t.Fatalf("Failed to start encryption: %v", err)
	}
	if _, err := encWriter.Write([]byte(plaintext)); err != nil {
		t.Fatalf("Failed to encrypt: %v", err)
	}
	if err := encWriter.Close(); err != nil {
		t.Fatalf("Failed to finish encryption: %v", err)
	}
	if err := armorWriter.Close(); err != nil {
		t.Fatalf("Failed to finish armor: %v", err)
	}
	if err := out.Close(); err != nil {
		t.Fatalf("Failed to close vault: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("API_KEY=$API_KEY\n"), 0644); err != nil {
		t.Fatalf("Failed to write target: %v", err)
	}

	config := `vault:
  source: .enc.env
  engine: age
  age_key_path: key.txt
targets:
  - name: env
    path: .env
    placeholders: ["$API_KEY"]
`
	if err := os.WriteFile(filepath.Join(dir, "shadow-secret.yaml"), []byte(config), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
}

// CaptureOutput captures both stdout and stderr during function execution.
func CaptureOutput(fn func() error) (string, error) {
	originalStdout := os.Stdout
	originalStderr := os.Stderr

	stdoutReader, stdoutWriter, _ := os.Pipe()
	stderrReader, stderrWriter, _ := os.Pipe()

	os.Stdout = stdoutWriter
	os.Stderr = stderrWriter

	outputChan := make(chan string, 2)

	go func() {
		var buf bytes.Buffer
		if _, err := io.Copy(&buf, stdoutReader); err != nil {
			log.Fatalf("Failed to copy stdout: %s", err)
		}
		outputChan <- buf.String()
	}()

	go func() {
		var buf bytes.Buffer
		if _, err := io.Copy(&buf, stderrReader); err != nil {
			log.Fatalf("Failed to copy stderr: %s", err)
		}
		outputChan <- buf.String()
	}()

	err := fn()

	stdoutWriter.Close()
	stderrWriter.Close()

	os.Stdout = originalStdout
	os.Stderr = originalStderr

	stdout := <-outputChan
	stderr := <-outputChan

	return stdout + stderr, err
}

// RunCommand executes the CLI with the given args, capturing all output.
func RunCommand(args ...string) (string, error) {
	root := cmd.GetRootCmd()
	root.SetArgs(args)
	return CaptureOutput(func() error {
		return root.Execute()
	})
}

package workflows

import (
	"os"
	"path/filepath"
	"testing"

	"filippo.io/age"
	"filippo.io/age/armor"

	"github.com/Pamacea/shadow-secret/internal/configs"
)

// withTempUserSettings points the per-user settings at a temp directory
// so workflows never touch the real user config or audit log.
func withTempUserSettings(t *testing.T) string {
	t.Helper()
	tempDir, err := os.MkdirTemp("", "shadow-secret-workflow-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	original := configs.UserShadowSettings
	configs.UserShadowSettings = &configs.UserSettings{
		UserConfigsPath: tempDir,
		UserDataPath:    tempDir,
		Username:        "tester",
	}
	t.Cleanup(func() { configs.UserShadowSettings = original })
	return tempDir
}

// writeProjectFile writes one file under the project dir.
func writeProjectFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create dirs for %s: %v", name, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

// setupVault writes an armored age-encrypted vault and its identity file
// into the project dir, returning the identity path.
func setupVault(t *testing.T, dir, plaintext string) string {
	t.Helper()

	identity, err := age.GenerateX25519Identity()
	if err != nil {
		t.Fatalf("Failed to generate identity: %v", err)
	}
	identityPath := writeProjectFile(t, dir, "key.txt", identity.String()+"\n")

	out, err := os.Create(filepath.Join(dir, ".enc.env"))
	if err != nil {
		t.Fatalf("Failed to create vault file: %v", err)
	}
	armorWriter := armor.NewWriter(out)
	encWriter, err := age.Encrypt(armorWriter, identity.Recipient())
	if err != nil {
		t.Fatalf("Failed to start encryption: %v", err)
	}
	if _, err := encWriter.Write([]byte(plaintext)); err != nil {
		t.Fatalf("Failed to write ciphertext: %v", err)
	}
	if err := encWriter.Close(); err != nil {
		t.Fatalf("Failed to finish encryption: %v", err)
	}
	if err := armorWriter.Close(); err != nil {
		t.Fatalf("Failed to finish armor: %v", err)
	}
	if err := out.Close(); err != nil {
		t.Fatalf("Failed to close vault file: %v", err)
	}
	return identityPath
}

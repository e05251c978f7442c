package initproject_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Pamacea/shadow-secret/cmd"
	"github.com/Pamacea/shadow-secret/test/integration/shared"
)

func TestInitProjectCreatesWorkingSetup(t *testing.T) {
	tempDir := t.TempDir()
	tempUserDir := t.TempDir()
	shared.SetupTestEnvironment(t, tempDir, tempUserDir)

	output, err := shared.RunCommand("init-project")
	if err != nil {
		t.Fatalf("init-project failed: %v\noutput: %s", err, output)
	}

	for _, name := range []string{"shadow-secret.yaml", ".enc.env", ".sops.yaml", ".env"} {
		if _, err := os.Stat(filepath.Join(tempDir, name)); err != nil {
			t.Errorf("%s was not created: %v", name, err)
		}
	}
	if !strings.Contains(output, "Project scaffolded") {
		t.Errorf("unexpected output: %s", output)
	}

	// The scaffolded project must pass doctor.
	cmd.SetDoctorExitFunc(func(code int) {
		if code != 0 {
			t.Errorf("doctor exit code = %d on a fresh project", code)
		}
	})
	doctorOutput, err := shared.RunCommand("doctor")
	if err != nil {
		t.Fatalf("doctor failed on a fresh project: %v\noutput: %s", err, doctorOutput)
	}

	// And a full unlock/restore cycle must work.
	unlockOutput, err := shared.RunCommand("unlock", "--once")
	if err != nil {
		t.Fatalf("unlock --once failed on a fresh project: %v\noutput: %s", err, unlockOutput)
	}
}

func TestInitProjectRefusesSecondRun(t *testing.T) {
	tempDir := t.TempDir()
	tempUserDir := t.TempDir()
	shared.SetupTestEnvironment(t, tempDir, tempUserDir)

	if output, err := shared.RunCommand("init-project"); err != nil {
		t.Fatalf("first init-project failed: %v\noutput: %s", err, output)
	}
	if output, err := shared.RunCommand("init-project"); err == nil {
		t.Fatalf("second init-project should fail without --force\noutput: %s", output)
	}
	if output, err := shared.RunCommand("init-project", "--force"); err != nil {
		t.Fatalf("init-project --force failed: %v\noutput: %s", err, output)
	}
}

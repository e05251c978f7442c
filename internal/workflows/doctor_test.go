package workflows

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func healthyProject(t *testing.T) (dir, configPath string) {
	t.Helper()
	dir = t.TempDir()
	setupVault(t, dir, "API_KEY=x\n")
	writeProjectFile(t, dir, ".env", "API_KEY=$API_KEY\n")
	configPath = writeProjectFile(t, dir, "shadow-secret.yaml", `vault:
  source: .enc.env
  engine: age
  age_key_path: key.txt
targets:
  - name: env
    path: .env
    placeholders: ["$API_KEY"]
`)
	return dir, configPath
}

func TestDoctorHealthySetup(t *testing.T) {
	withTempUserSettings(t)
	_, configPath := healthyProject(t)

	result, err := Doctor(context.Background(), DoctorOptions{ConfigPath: configPath})
	if err != nil {
		t.Fatalf("Doctor failed: %v", err)
	}

	if result.Summary.Errors != 0 {
		t.Errorf("Errors = %d, want 0; checks: %+v", result.Summary.Errors, result.Checks)
	}
	if result.Summary.Passed == 0 {
		t.Error("expected at least one passing check")
	}
	if len(result.Checks) != 5 {
		t.Errorf("got %d checks, want 5", len(result.Checks))
	}
}

func TestDoctorMissingConfig(t *testing.T) {
	withTempUserSettings(t)

	result, err := Doctor(context.Background(), DoctorOptions{
		ConfigPath: filepath.Join(t.TempDir(), "shadow-secret.yaml"),
	})
	if err != nil {
		t.Fatalf("Doctor failed: %v", err)
	}

	if result.Summary.Errors == 0 {
		t.Error("expected a config error")
	}
	if len(result.Checks) != 1 {
		t.Errorf("got %d checks, want only the config check", len(result.Checks))
	}
	if len(result.Suggestions) == 0 {
		t.Error("expected a suggestion for the missing config")
	}
}

func TestDoctorMissingVaultSource(t *testing.T) {
	withTempUserSettings(t)
	dir, configPath := healthyProject(t)
	if err := os.Remove(filepath.Join(dir, ".enc.env")); err != nil {
		t.Fatalf("Failed to remove vault: %v", err)
	}

	result, err := Doctor(context.Background(), DoctorOptions{ConfigPath: configPath})
	if err != nil {
		t.Fatalf("Doctor failed: %v", err)
	}

	var found bool
	for _, check := range result.Checks {
		if check.Name == "Vault source" && check.Status == CheckError {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a vault source error; checks: %+v", result.Checks)
	}
}

func TestDoctorMissingTarget(t *testing.T) {
	withTempUserSettings(t)
	dir, configPath := healthyProject(t)
	if err := os.Remove(filepath.Join(dir, ".env")); err != nil {
		t.Fatalf("Failed to remove target: %v", err)
	}

	result, err := Doctor(context.Background(), DoctorOptions{ConfigPath: configPath})
	if err != nil {
		t.Fatalf("Doctor failed: %v", err)
	}

	var found bool
	for _, check := range result.Checks {
		if check.Name == "Target files" && check.Status == CheckError {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a target error; checks: %+v", result.Checks)
	}
}

func TestDoctorUnusedPlaceholderWarns(t *testing.T) {
	withTempUserSettings(t)
	dir := t.TempDir()
	setupVault(t, dir, "API_KEY=x\n")
	writeProjectFile(t, dir, ".env", "STATIC=value\n")
	configPath := writeProjectFile(t, dir, "shadow-secret.yaml", `vault:
  source: .enc.env
  engine: age
  age_key_path: key.txt
targets:
  - name: env
    path: .env
    placeholders: ["$API_KEY"]
`)

	result, err := Doctor(context.Background(), DoctorOptions{ConfigPath: configPath})
	if err != nil {
		t.Fatalf("Doctor failed: %v", err)
	}

	var found bool
	for _, check := range result.Checks {
		if check.Name == "Placeholder usage" && check.Status == CheckWarning {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a placeholder warning; checks: %+v", result.Checks)
	}
}

func TestDoctorResultMarshalsToJSON(t *testing.T) {
	withTempUserSettings(t)
	_, configPath := healthyProject(t)

	result, err := Doctor(context.Background(), DoctorOptions{ConfigPath: configPath})
	if err != nil {
		t.Fatalf("Doctor failed: %v", err)
	}

	data, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	checks, ok := decoded["checks"].([]any)
	if !ok || len(checks) == 0 {
		t.Fatalf("unexpected JSON shape: %s", data)
	}
	first := checks[0].(map[string]any)
	if first["status"] != "pass" && first["status"] != "warning" && first["status"] != "error" {
		t.Errorf("status should marshal as a string, got %v", first["status"])
	}
}

package audit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Pamacea/shadow-secret/internal/configs"
)

// withTempConfigDir points the user settings at a temp directory for the
// duration of a test.
func withTempConfigDir(t *testing.T) string {
	t.Helper()
	tempDir, err := os.MkdirTemp("", "shadow-secret-audit-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	original := configs.UserShadowSettings
	configs.UserShadowSettings = &configs.UserSettings{
		UserConfigsPath: tempDir,
		Username:        original.Username,
	}
	t.Cleanup(func() { configs.UserShadowSettings = original })
	return tempDir
}

func TestLog_CreatesFile(t *testing.T) {
	tempDir := withTempConfigDir(t)

	Log(Entry{
		User:      "alice",
		UserUUID:  "test-uuid",
		Operation: "unlock",
		Targets:   []string{".env"},
	})

	logPath := filepath.Join(tempDir, "audit.jsonl")
	if _, err := os.Stat(logPath); os.IsNotExist(err) {
		t.Fatalf("Audit log file was not created")
	}
}

func TestLog_AppendsEntries(t *testing.T) {
	tempDir := withTempConfigDir(t)

	Log(Entry{User: "alice", Operation: "unlock"})
	Log(Entry{User: "alice", Operation: "restore"})
	Log(Entry{User: "bob", Operation: "push-cloud"})

	data, err := os.ReadFile(filepath.Join(tempDir, "audit.jsonl"))
	if err != nil {
		t.Fatalf("Failed to read audit log: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Errorf("Expected 3 lines, got %d", len(lines))
	}
}

func TestLog_ValidJSON(t *testing.T) {
	tempDir := withTempConfigDir(t)

	Log(Entry{
		User:         "alice",
		UserUUID:     "test-uuid",
		Operation:    "unlock",
		Session:      "session-1",
		Targets:      []string{".env", "config.json"},
		SecretsCount: 4,
	})

	data, err := os.ReadFile(filepath.Join(tempDir, "audit.jsonl"))
	if err != nil {
		t.Fatalf("Failed to read audit log: %v", err)
	}

	var parsed Entry
	if err := json.Unmarshal([]byte(strings.TrimSpace(string(data))), &parsed); err != nil {
		t.Fatalf("Entry is not valid JSON: %v", err)
	}

	if parsed.User != "alice" {
		t.Errorf("Expected user alice, got %s", parsed.User)
	}
	if parsed.Operation != "unlock" {
		t.Errorf("Expected operation unlock, got %s", parsed.Operation)
	}
	if len(parsed.Targets) != 2 {
		t.Errorf("Expected 2 targets, got %d", len(parsed.Targets))
	}
	if parsed.SecretsCount != 4 {
		t.Errorf("Expected 4 secrets, got %d", parsed.SecretsCount)
	}
}

func TestLog_TimestampFormat(t *testing.T) {
	tempDir := withTempConfigDir(t)

	Log(Entry{User: "alice", Operation: "unlock"})

	data, err := os.ReadFile(filepath.Join(tempDir, "audit.jsonl"))
	if err != nil {
		t.Fatalf("Failed to read audit log: %v", err)
	}

	var parsed Entry
	if err := json.Unmarshal([]byte(strings.TrimSpace(string(data))), &parsed); err != nil {
		t.Fatalf("Entry is not valid JSON: %v", err)
	}

	if parsed.Timestamp == "" {
		t.Errorf("Timestamp should be auto-set")
	}
	if !strings.HasSuffix(parsed.Timestamp, "Z") {
		t.Errorf("Timestamp should end with Z, got %s", parsed.Timestamp)
	}
	if !strings.Contains(parsed.Timestamp, ".") {
		t.Errorf("Timestamp should contain microseconds, got %s", parsed.Timestamp)
	}
}

func TestLog_OmitsEmptyFields(t *testing.T) {
	tempDir := withTempConfigDir(t)

	Log(Entry{User: "alice", Operation: "restore"})

	data, err := os.ReadFile(filepath.Join(tempDir, "audit.jsonl"))
	if err != nil {
		t.Fatalf("Failed to read audit log: %v", err)
	}

	line := strings.TrimSpace(string(data))
	for _, field := range []string{`"targets"`, `"session"`, `"secrets_count"`, `"outcome"`} {
		if strings.Contains(line, field) {
			t.Errorf("Empty %s field should be omitted", field)
		}
	}
}

func TestParseEntries_ValidData(t *testing.T) {
	data := []byte(`{"ts":"2026-01-15T10:30:00.123456Z","user":"alice","op":"unlock"}
{"ts":"2026-01-15T10:35:00.456789Z","user":"bob","op":"restore"}
`)

	entries, err := ParseEntries(data)
	if err != nil {
		t.Fatalf("ParseEntries failed: %v", err)
	}

	if len(entries) != 2 {
		t.Errorf("Expected 2 entries, got %d", len(entries))
	}
	if entries[0].User != "alice" {
		t.Errorf("Expected first user alice, got %s", entries[0].User)
	}
	if entries[1].Operation != "restore" {
		t.Errorf("Expected second op restore, got %s", entries[1].Operation)
	}
}

func TestParseEntries_SkipsMalformedLines(t *testing.T) {
	data := []byte(`{"ts":"2026-01-15T10:30:00.123456Z","user":"alice","op":"unlock"}
this is not valid json
{"ts":"2026-01-15T10:35:00.456789Z","user":"bob","op":"restore"}
`)

	entries, err := ParseEntries(data)
	if err != nil {
		t.Fatalf("ParseEntries failed: %v", err)
	}

	if len(entries) != 2 {
		t.Errorf("Expected 2 valid entries (malformed should be skipped), got %d", len(entries))
	}
}

func TestParseEntries_EmptyData(t *testing.T) {
	entries, err := ParseEntries([]byte{})
	if err != nil {
		t.Fatalf("ParseEntries failed: %v", err)
	}
	if entries != nil {
		t.Errorf("Expected nil entries for empty data, got %v", entries)
	}
}

func TestReadEntries_MissingLog(t *testing.T) {
	withTempConfigDir(t)

	entries, err := ReadEntries()
	if err != nil {
		t.Fatalf("ReadEntries failed: %v", err)
	}
	if entries != nil {
		t.Errorf("Expected nil entries for a missing log, got %v", entries)
	}
}

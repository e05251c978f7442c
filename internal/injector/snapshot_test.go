package injector

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	kerrors "github.com/Pamacea/shadow-secret/internal/errors"
)

// writeTestFile is a helper to write test files with 0644 permissions.
func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
}

func TestCreateSnapshot(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, ".env")
	content := "API_KEY=$API_KEY\nSECRET=value"
	writeTestFile(t, path, content)

	snapshot, err := CreateSnapshot(path)
	if err != nil {
		t.Fatalf("CreateSnapshot failed: %v", err)
	}

	if snapshot.Content() != content {
		t.Errorf("Content() = %q, want %q", snapshot.Content(), content)
	}
	if snapshot.Path() != path {
		t.Errorf("Path() = %q, want %q", snapshot.Path(), path)
	}
}

func TestCreateSnapshotMissingFile(t *testing.T) {
	_, err := CreateSnapshot(filepath.Join(t.TempDir(), "nonexistent.json"))
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
	if !errors.Is(err, kerrors.ErrTargetNotFound) {
		t.Errorf("expected ErrTargetNotFound, got: %v", err)
	}
	var ioErr *kerrors.IoError
	if !errors.As(err, &ioErr) {
		t.Errorf("expected *IoError, got %T", err)
	}
}

func TestCreateSnapshotRejectsBinary(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "blob")
	if err := os.WriteFile(path, []byte{0xff, 0xfe, 0x00, 0x80}, 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	_, err := CreateSnapshot(path)
	if !errors.Is(err, kerrors.ErrNotUTF8) {
		t.Errorf("expected ErrNotUTF8, got: %v", err)
	}
}

func TestSnapshotRestore(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, ".env")
	original := "API_KEY=$API_KEY\nSECRET=value"
	writeTestFile(t, path, original)

	snapshot, err := CreateSnapshot(path)
	if err != nil {
		t.Fatalf("CreateSnapshot failed: %v", err)
	}

	// Modify the file.
	writeTestFile(t, path, "MODIFIED CONTENT")

	if err := snapshot.Restore(); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}

	restored, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read restored file: %v", err)
	}
	if string(restored) != original {
		t.Errorf("restored content = %q, want %q", restored, original)
	}
}

func TestSnapshotRestoreUnmodifiedIsNoOp(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.json")
	content := `{"key": "value"}`
	writeTestFile(t, path, content)

	snapshot, err := CreateSnapshot(path)
	if err != nil {
		t.Fatalf("CreateSnapshot failed: %v", err)
	}

	if err := snapshot.Restore(); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}

	after, _ := os.ReadFile(path)
	if string(after) != content {
		t.Errorf("restore on unmodified file changed content: %q", after)
	}
}

func TestSnapshotRestoreIdempotent(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, ".env")
	original := "KEY=value"
	writeTestFile(t, path, original)

	snapshot, err := CreateSnapshot(path)
	if err != nil {
		t.Fatalf("CreateSnapshot failed: %v", err)
	}

	writeTestFile(t, path, "changed")

	if err := snapshot.Restore(); err != nil {
		t.Fatalf("first Restore failed: %v", err)
	}
	if err := snapshot.Restore(); err != nil {
		t.Fatalf("second Restore failed: %v", err)
	}

	after, _ := os.ReadFile(path)
	if string(after) != original {
		t.Errorf("content after double restore = %q, want %q", after, original)
	}
}

func TestSnapshotRestoresPermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not meaningful on Windows")
	}

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, ".env")
	writeTestFile(t, path, "KEY=value")
	if err := os.Chmod(path, 0600); err != nil {
		t.Fatalf("Failed to chmod test file: %v", err)
	}

	snapshot, err := CreateSnapshot(path)
	if err != nil {
		t.Fatalf("CreateSnapshot failed: %v", err)
	}

	// Loosen permissions, then restore.
	if err := os.Chmod(path, 0644); err != nil {
		t.Fatalf("Failed to chmod test file: %v", err)
	}
	if err := snapshot.Restore(); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Failed to stat restored file: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("restored mode = %v, want 0600", info.Mode().Perm())
	}
}

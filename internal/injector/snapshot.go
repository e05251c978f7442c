package injector

import (
	"io/fs"
	"os"
	"unicode/utf8"

	kerrors "github.com/Pamacea/shadow-secret/internal/errors"
)

// Snapshot holds a file's original content and mode so the file can later be
// restored byte-for-byte. Immutable after creation; restoring is idempotent.
type Snapshot struct {
	path    string
	content string
	mode    fs.FileMode
}

// CreateSnapshot reads the file at path and captures its content and
// permission bits. Fails with an *kerrors.IoError if the file does not
// exist, cannot be read, or is not valid UTF-8 text.
func CreateSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &kerrors.IoError{Op: "read", Path: path, Err: kerrors.ErrTargetNotFound}
		}
		return nil, &kerrors.IoError{Op: "read", Path: path, Err: err}
	}

	if !utf8.Valid(data) {
		return nil, &kerrors.IoError{Op: "read", Path: path, Err: kerrors.ErrNotUTF8}
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, &kerrors.IoError{Op: "stat", Path: path, Err: err}
	}

	return &Snapshot{
		path:    path,
		content: string(data),
		mode:    info.Mode().Perm(),
	}, nil
}

// Restore truncates and rewrites the file with the captured content, then
// reapplies the captured permission bits. Safe to call multiple times with
// identical effect.
func (s *Snapshot) Restore() error {
	// os.WriteFile only applies the mode on creation; the file already
	// exists, so the mode is reapplied explicitly afterwards.
	if err := os.WriteFile(s.path, []byte(s.content), s.mode); err != nil {
		return &kerrors.IoError{Op: "write", Path: s.path, Err: err}
	}
	if err := os.Chmod(s.path, s.mode); err != nil {
		return &kerrors.IoError{Op: "chmod", Path: s.path, Err: err}
	}
	return nil
}

// Path returns the file path the snapshot was taken from.
func (s *Snapshot) Path() string { return s.path }

// Content returns the original file content.
func (s *Snapshot) Content() string { return s.content }

// Mode returns the original permission bits.
func (s *Snapshot) Mode() fs.FileMode { return s.mode }

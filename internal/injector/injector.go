package injector

import (
	"os"

	kerrors "github.com/Pamacea/shadow-secret/internal/errors"
)

// Inject substitutes placeholders in the file at path and overwrites it in
// place, returning the pre-image Snapshot for later restoration.
//
// The sequence is snapshot, substitute, write. Substitution runs on the
// snapshot's content rather than a second read, so the backup always matches
// what was on disk when injection started. On any failure the file is left
// in its pre-injection state and no Snapshot is returned: substitution
// happens entirely in memory and the single write either fully replaces the
// file or fails before mutating it.
func Inject(path string, secrets map[string]string, placeholders []string) (*Snapshot, error) {
	snapshot, err := CreateSnapshot(path)
	if err != nil {
		return nil, err
	}

	modified, err := Substitute(path, snapshot.Content(), secrets, placeholders)
	if err != nil {
		return nil, err
	}

	if err := os.WriteFile(path, []byte(modified), snapshot.Mode()); err != nil {
		return nil, &kerrors.IoError{Op: "write", Path: path, Err: err}
	}

	return snapshot, nil
}

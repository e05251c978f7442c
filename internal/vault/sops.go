package vault

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	kerrors "github.com/Pamacea/shadow-secret/internal/errors"
)

// SopsInstalled reports whether the sops binary is available on PATH.
func SopsInstalled() bool {
	_, err := exec.LookPath("sops")
	return err == nil
}

// SopsVersion returns the installed sops version string, for doctor output.
func SopsVersion(ctx context.Context) (string, error) {
	out, err := exec.CommandContext(ctx, "sops", "--version").Output()
	if err != nil {
		return "", fmt.Errorf("failed to run sops --version: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// decryptWithSops shells out to sops to decrypt the vault file. Key
// discovery (age identities, KMS, PGP) is sops's own business; we only
// surface its stderr when it fails.
func decryptWithSops(ctx context.Context, source string) ([]byte, error) {
	if !SopsInstalled() {
		return nil, kerrors.ErrSopsNotInstalled
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, "sops", "-d", source)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return nil, fmt.Errorf("sops failed to decrypt %s: %s", source, msg)
	}

	return stdout.Bytes(), nil
}

package vault

import (
	"context"
	"fmt"
	"os"

	kerrors "github.com/Pamacea/shadow-secret/internal/errors"
)

// Vault holds decrypted secrets for one session. Values never leave
// process memory; nothing here writes plaintext to disk.
type Vault struct {
	secrets map[string]string
}

func New(secrets map[string]string) *Vault {
	return &Vault{secrets: secrets}
}

// Get returns the value for key and whether it exists.
func (v *Vault) Get(key string) (string, bool) {
	value, ok := v.secrets[key]
	return value, ok
}

// All returns a copy of the secret map.
func (v *Vault) All() map[string]string {
	out := make(map[string]string, len(v.secrets))
	for k, val := range v.secrets {
		out[k] = val
	}
	return out
}

func (v *Vault) Len() int {
	return len(v.secrets)
}

// LoadOptions configures how the vault source is located and decrypted.
type LoadOptions struct {
	// Source is the path to the encrypted vault file.
	Source string
	// Engine selects the decryption backend, "sops" or "age".
	Engine string
	// IdentityFile points at an age identity for the age engine.
	// "-" reads the identity from stdin.
	IdentityFile string
}

// Load decrypts the vault source with the configured engine and parses
// the plaintext into a Vault.
func Load(ctx context.Context, opts LoadOptions) (*Vault, error) {
	if _, err := os.Stat(opts.Source); err != nil {
		return nil, &kerrors.IoError{Op: "stat", Path: opts.Source, Err: err}
	}

	var plaintext []byte
	var err error

	switch opts.Engine {
	case "sops", "":
		plaintext, err = decryptWithSops(ctx, opts.Source)
	case "age":
		plaintext, err = decryptWithAge(opts.Source, opts.IdentityFile)
	default:
		return nil, fmt.Errorf("%w: %q", kerrors.ErrUnknownEngine, opts.Engine)
	}
	if err != nil {
		return nil, err
	}

	secrets, err := parseSecrets(opts.Source, plaintext)
	if err != nil {
		return nil, err
	}

	return New(secrets), nil
}

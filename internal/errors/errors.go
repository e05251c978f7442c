package errors

import (
	"errors"
	"fmt"
)

// Configuration errors indicate issues with shadow-secret configuration files.
var (
	// ErrConfigNotFound indicates no shadow-secret.yaml could be located.
	ErrConfigNotFound = errors.New("no shadow-secret configuration found")

	// ErrInvalidConfig indicates the configuration is malformed or incomplete.
	ErrInvalidConfig = errors.New("configuration is invalid")

	// ErrUnknownEngine indicates the vault engine is not supported.
	ErrUnknownEngine = errors.New("unknown vault engine")
)

// Vault errors indicate failures while loading or decrypting secrets.
var (
	// ErrSopsNotInstalled indicates the sops binary is missing from PATH.
	ErrSopsNotInstalled = errors.New("sops is not installed or not in PATH")

	// ErrNoIdentities indicates no age identity could be found for decryption.
	ErrNoIdentities = errors.New("no age identities available")

	// ErrNoSecrets indicates the decrypted vault contained no usable secrets.
	ErrNoSecrets = errors.New("no secrets found in vault output")
)

// Injection errors indicate issues with target files.
var (
	// ErrTargetNotFound indicates a target file does not exist.
	// Injection never creates files; the target must already exist.
	ErrTargetNotFound = errors.New("target file not found")

	// ErrNotUTF8 indicates a target file is not valid UTF-8 text.
	ErrNotUTF8 = errors.New("file content is not valid UTF-8")
)

// Cloud errors indicate failures while syncing secrets to a provider.
var (
	// ErrVercelTokenMissing indicates no Vercel API token is configured.
	ErrVercelTokenMissing = errors.New("VERCEL_TOKEN is not set")

	// ErrPushFailed indicates one or more variables failed to push.
	ErrPushFailed = errors.New("failed to push one or more variables")
)

// IoError wraps a filesystem failure with the path and operation that caused it.
// Use errors.As to recover it, or errors.Is against the wrapped cause.
type IoError struct {
	Op   string // "read", "write", "stat", "chmod"
	Path string
	Err  error
}

func (e *IoError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IoError) Unwrap() error { return e.Err }

// FormatError indicates a structured file with a recognized extension failed
// to parse. Substitution never falls back to literal mode on a parse failure,
// so this always aborts the injection of that target.
type FormatError struct {
	Path string
	Err  error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

// Package errors provides typed error values for shadow-secret.
//
// Using sentinel errors allows callers to handle specific error conditions
// programmatically with errors.Is() rather than string matching. This makes
// error handling more robust and refactoring-safe.
//
// # Error Categories
//
// Errors are grouped by category:
//
//   - Configuration errors: missing or invalid shadow-secret.yaml
//   - Vault errors: decryption and identity failures (ErrSopsNotInstalled)
//   - Injection errors: target file issues (ErrTargetNotFound, ErrNotUTF8)
//   - Cloud errors: provider sync failures (ErrVercelTokenMissing)
//
// Two wrapper types carry structured context across package boundaries:
//
//   - IoError: a filesystem failure with the operation and path
//   - FormatError: a parse failure on a recognized structured file
//
// A placeholder with no matching secret key is deliberately NOT an error;
// the placeholder is left verbatim in the output.
//
// # Usage
//
// Return errors from internal packages:
//
//	if _, err := os.Stat(path); os.IsNotExist(err) {
//	    return nil, fmt.Errorf("%s: %w", path, errors.ErrTargetNotFound)
//	}
//
// Handle errors in the CLI layer:
//
//	result, err := workflows.Unlock(ctx, opts)
//	var ferr *kerrors.FormatError
//	if errors.As(err, &ferr) {
//	    // Report the unparseable target file
//	}
package errors

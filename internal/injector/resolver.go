package injector

import "strings"

// ResolveKey extracts the secret key name from a placeholder token.
//
// Supports:
//   - ${KEY} -> "KEY"
//   - $KEY   -> "KEY"
//   - KEY    -> "KEY"
//
// Resolution is total: any input yields a key, and malformed tokens are
// returned unchanged.
func ResolveKey(placeholder string) string {
	if strings.HasPrefix(placeholder, "${") && strings.HasSuffix(placeholder, "}") {
		return placeholder[2 : len(placeholder)-1]
	}
	if strings.HasPrefix(placeholder, "$") {
		return placeholder[1:]
	}
	return placeholder
}

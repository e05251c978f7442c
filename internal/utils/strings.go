package utils

import (
	"regexp"
	"strings"

	"github.com/Pamacea/shadow-secret/internal/ui"
)

// placeholderRegex matches $NAME and ${NAME} placeholder tokens.
var placeholderRegex = regexp.MustCompile(`^\$(\{[A-Za-z_][A-Za-z0-9_]*\}|[A-Za-z_][A-Za-z0-9_]*)$`)

// FormatPaths formats a slice of paths into a readable string.
func FormatPaths(paths []string) string {
	var b strings.Builder
	b.WriteString("\n")
	for _, path := range paths {
		b.WriteString("    - ")
		b.WriteString(ui.Path.Sprint(path))
		b.WriteString("\n")
	}
	return b.String()
}

// IsValidPlaceholder reports whether s is a well-formed placeholder token,
// either $NAME or ${NAME}. Used by doctor checks; the substitution engine
// itself accepts any string and treats malformed tokens as plain literals.
func IsValidPlaceholder(s string) bool {
	return placeholderRegex.MatchString(s)
}

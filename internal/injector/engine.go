package injector

import (
	"path/filepath"
	"strings"
)

// byteOrderMark is the UTF-8 BOM. Structured parsers reject it, so it is
// stripped before parsing and not restored; the backup snapshot still holds
// the original bytes.
const byteOrderMark = "\uFEFF"

// Format identifies the substitution mode for a target file.
type Format int

const (
	// FormatText replaces placeholder substrings literally.
	FormatText Format = iota
	// FormatJSON parses content as JSON and substitutes inside string values.
	FormatJSON
	// FormatYAML parses content as YAML and substitutes inside string scalars.
	FormatYAML
)

// String returns a string representation of Format.
func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	default:
		return "text"
	}
}

// ClassifyFormat chooses the substitution mode for a file from its extension,
// falling back to content sniffing for unrecognized extensions.
func ClassifyFormat(path, content string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	case ".env", ".dotenv":
		return FormatText
	}

	// Unrecognized extension: JSON-looking content gets structural treatment
	// so a config file named e.g. "settings" still keeps valid syntax.
	trimmed := strings.TrimSpace(strings.TrimPrefix(content, byteOrderMark))
	if strings.HasPrefix(trimmed, "{") {
		return FormatJSON
	}
	return FormatText
}

// Substitute replaces placeholders in content with values from the secret
// mapping, dispatching on the format classified from path and content.
// Placeholders with no matching secret key are left verbatim. A parse
// failure in a structural mode returns a *kerrors.FormatError; literal mode
// cannot fail.
func Substitute(path, content string, secrets map[string]string, placeholders []string) (string, error) {
	switch ClassifyFormat(path, content) {
	case FormatJSON:
		return substituteJSON(path, content, secrets, placeholders)
	case FormatYAML:
		return substituteYAML(path, content, secrets, placeholders)
	default:
		return replaceLiteral(content, secrets, placeholders), nil
	}
}

// replaceLiteral substitutes each placeholder whose resolved key exists in
// the secret mapping, replacing every occurrence. Replacement follows the
// input list order, and substituted values are never re-scanned, so there is
// no recursive expansion.
func replaceLiteral(content string, secrets map[string]string, placeholders []string) string {
	for _, placeholder := range placeholders {
		key := ResolveKey(placeholder)
		if value, ok := secrets[key]; ok {
			content = strings.ReplaceAll(content, placeholder, value)
		}
	}
	return content
}

// Package injector substitutes secret values for placeholders inside
// existing configuration files and captures the pre-image needed to undo it.
//
// # Guarantees
//
//   - No new files are created: only existing files are modified in place.
//   - Pre-image-or-nothing: a failed injection leaves the target untouched.
//   - A Snapshot of the original content (and file mode) is taken before any
//     write, so the file can always be restored byte-for-byte.
//   - Structured files keep their key order: JSON substitution splices values
//     into the original text, YAML substitution round-trips through a
//     yaml.Node tree.
//
// # Placeholder Format
//
// Placeholders are written as $KEY_NAME or ${KEY_NAME}. A placeholder whose
// key has no entry in the secret mapping is left verbatim in the output; it
// is never an error and never replaced with an empty string.
//
// # Format Dispatch
//
// The substitution mode is chosen by file extension: .json is structural
// JSON, .yaml/.yml is structural YAML, everything else is literal text.
// Unrecognized extensions whose content starts with '{' are treated as JSON.
package injector

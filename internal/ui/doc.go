// Package ui provides semantic text formatting for CLI output.
//
// Formatters apply color when the terminal supports it and fall back to
// plain-text decorations (backticks, quotes, parentheses) when color is
// disabled via NO_COLOR or terminal detection.
//
// # Usage
//
//	msg := ui.Success.Sprint("✓") + " Secrets injected into " + ui.Path.Sprint(".env.local")
//
// Each formatter has a semantic meaning (Code, Path, Success, Error, ...)
// so output stays consistent across commands.
package ui

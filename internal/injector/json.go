package injector

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	kerrors "github.com/Pamacea/shadow-secret/internal/errors"
)

// substituteJSON rewrites string values containing placeholders while leaving
// the rest of the document bytes untouched. Each replacement is a positional
// splice into the original text (sjson), so key order, indentation, and the
// formatting of unrelated values survive exactly.
func substituteJSON(path, content string, secrets map[string]string, placeholders []string) (string, error) {
	content = strings.TrimPrefix(content, byteOrderMark)

	if !gjson.Valid(content) {
		return "", &kerrors.FormatError{Path: path, Err: errors.New("invalid JSON")}
	}

	root := gjson.Parse(content)
	out := content
	var walkErr error

	var walk func(prefix string, value gjson.Result)
	walk = func(prefix string, value gjson.Result) {
		switch {
		case value.IsObject():
			value.ForEach(func(key, child gjson.Result) bool {
				walk(joinJSONPath(prefix, escapeJSONKey(key.String())), child)
				return walkErr == nil
			})
		case value.IsArray():
			index := 0
			value.ForEach(func(_, child gjson.Result) bool {
				walk(joinJSONPath(prefix, strconv.Itoa(index)), child)
				index++
				return walkErr == nil
			})
		case value.Type == gjson.String:
			replaced := replaceLiteral(value.String(), secrets, placeholders)
			if replaced == value.String() {
				return
			}
			updated, err := sjson.Set(out, prefix, replaced)
			if err != nil {
				walkErr = fmt.Errorf("setting %q: %w", prefix, err)
				return
			}
			out = updated
		}
		// Numbers, booleans, and null are never substitution targets.
	}

	switch {
	case root.IsObject() || root.IsArray():
		walk("", root)
	case root.Type == gjson.String:
		// A document that is a single bare string has no path to splice
		// into, so it is re-encoded wholesale.
		if replaced := replaceLiteral(root.String(), secrets, placeholders); replaced != root.String() {
			encoded, err := json.Marshal(replaced)
			if err != nil {
				return "", &kerrors.FormatError{Path: path, Err: err}
			}
			out = string(encoded)
		}
	}
	if walkErr != nil {
		return "", &kerrors.FormatError{Path: path, Err: walkErr}
	}

	return out, nil
}

func joinJSONPath(prefix, component string) string {
	if prefix == "" {
		return component
	}
	return prefix + "." + component
}

// escapeJSONKey escapes characters that have meaning in gjson/sjson path
// syntax so object keys are always addressed literally.
func escapeJSONKey(key string) string {
	var b strings.Builder
	for _, r := range key {
		switch r {
		case '\\', '.', '*', '?', '|', '#', '@':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

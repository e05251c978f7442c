package vault

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"

	kerrors "github.com/Pamacea/shadow-secret/internal/errors"
)

var dotenvLineRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*=`)

// parseSecrets turns decrypted plaintext into a flat key/value map.
// JSON, YAML, and dotenv payloads are recognized by shape; the "sops"
// metadata key is always dropped.
func parseSecrets(source string, plaintext []byte) (map[string]string, error) {
	trimmed := bytes.TrimSpace(plaintext)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: %s", kerrors.ErrNoSecrets, source)
	}

	var secrets map[string]string
	var err error
	switch {
	case trimmed[0] == '{':
		secrets, err = parseJSONSecrets(source, trimmed)
	case looksLikeDotenv(trimmed):
		secrets = parseDotenv(string(trimmed))
	default:
		secrets, err = parseYAMLSecrets(source, trimmed)
	}
	if err != nil {
		return nil, err
	}
	if len(secrets) == 0 {
		return nil, fmt.Errorf("%w: %s", kerrors.ErrNoSecrets, source)
	}
	return secrets, nil
}

func parseJSONSecrets(source string, data []byte) (map[string]string, error) {
	if !gjson.ValidBytes(data) {
		return nil, &kerrors.FormatError{Path: source, Err: fmt.Errorf("invalid JSON in decrypted vault")}
	}
	parsed := gjson.ParseBytes(data)

	// sops wraps dotenv payloads as {"data": "KEY=VALUE\n..."}.
	if wrapped, ok := sopsDataPayload(parsed); ok {
		return parseDotenv(wrapped), nil
	}

	secrets := make(map[string]string)
	var nested error
	parsed.ForEach(func(key, value gjson.Result) bool {
		if key.String() == "sops" {
			return true
		}
		if value.IsObject() || value.IsArray() {
			nested = fmt.Errorf("vault key %q has a nested value, only flat maps are supported", key.String())
			return false
		}
		secrets[key.String()] = value.String()
		return true
	})
	if nested != nil {
		return nil, nested
	}
	return secrets, nil
}

// sopsDataPayload detects the sops dotenv wrapper: an object whose only
// key besides "sops" is a string named "data".
func sopsDataPayload(parsed gjson.Result) (string, bool) {
	data := parsed.Get("data")
	if data.Type != gjson.String {
		return "", false
	}
	wrapper := true
	parsed.ForEach(func(key, _ gjson.Result) bool {
		if key.String() != "data" && key.String() != "sops" {
			wrapper = false
			return false
		}
		return true
	})
	if !wrapper {
		return "", false
	}
	return data.String(), true
}

func parseYAMLSecrets(source string, data []byte) (map[string]string, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &kerrors.FormatError{Path: source, Err: err}
	}

	secrets := make(map[string]string)
	for key, value := range raw {
		if key == "sops" {
			continue
		}
		switch v := value.(type) {
		case string:
			secrets[key] = v
		case bool, int, int64, uint64, float64:
			secrets[key] = fmt.Sprint(v)
		case nil:
			secrets[key] = ""
		default:
			return nil, fmt.Errorf("vault key %q has a nested value, only flat maps are supported", key)
		}
	}
	return secrets, nil
}

// parseDotenv reads KEY=VALUE lines, skipping blanks and comments.
// Surrounding single or double quotes on values are stripped.
func parseDotenv(content string) map[string]string {
	secrets := make(map[string]string)
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		value = strings.TrimSpace(value)
		if len(value) >= 2 {
			if (value[0] == '"' && value[len(value)-1] == '"') ||
				(value[0] == '\'' && value[len(value)-1] == '\'') {
				value = value[1 : len(value)-1]
			}
		}
		secrets[key] = value
	}
	return secrets
}

// looksLikeDotenv reports whether the first meaningful line is KEY=VALUE.
func looksLikeDotenv(data []byte) bool {
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		return dotenvLineRegex.MatchString(line)
	}
	return false
}

package vault

import (
	"errors"
	"testing"

	kerrors "github.com/Pamacea/shadow-secret/internal/errors"
)

func TestParseSecretsDotenv(t *testing.T) {
	plaintext := []byte(`# project secrets
API_KEY=sk-live-12345
DB_URL="postgres://localhost/app"
EMPTY=
QUOTED='single'
`)
	secrets, err := parseSecrets(".enc.env", plaintext)
	if err != nil {
		t.Fatalf("parseSecrets failed: %v", err)
	}

	want := map[string]string{
		"API_KEY": "sk-live-12345",
		"DB_URL":  "postgres://localhost/app",
		"EMPTY":   "",
		"QUOTED":  "single",
	}
	for key, value := range want {
		if got := secrets[key]; got != value {
			t.Errorf("secrets[%q] = %q, want %q", key, got, value)
		}
	}
	if len(secrets) != len(want) {
		t.Errorf("got %d secrets, want %d", len(secrets), len(want))
	}
}

func TestParseSecretsJSON(t *testing.T) {
	plaintext := []byte(`{"API_KEY": "sk-live-12345", "PORT": 8080, "DEBUG": true, "sops": {"version": "3.9.0"}}`)
	secrets, err := parseSecrets("secrets.json", plaintext)
	if err != nil {
		t.Fatalf("parseSecrets failed: %v", err)
	}

	if secrets["API_KEY"] != "sk-live-12345" {
		t.Errorf("API_KEY = %q", secrets["API_KEY"])
	}
	if secrets["PORT"] != "8080" {
		t.Errorf("PORT = %q, want scalar stringified", secrets["PORT"])
	}
	if secrets["DEBUG"] != "true" {
		t.Errorf("DEBUG = %q", secrets["DEBUG"])
	}
	if _, ok := secrets["sops"]; ok {
		t.Error("sops metadata should be dropped")
	}
}

func TestParseSecretsJSONSopsDataWrapper(t *testing.T) {
	plaintext := []byte(`{"data": "API_KEY=sk-live-12345\nDB_URL=postgres://localhost/app", "sops": {"version": "3.9.0"}}`)
	secrets, err := parseSecrets(".enc.env", plaintext)
	if err != nil {
		t.Fatalf("parseSecrets failed: %v", err)
	}

	if secrets["API_KEY"] != "sk-live-12345" {
		t.Errorf("API_KEY = %q", secrets["API_KEY"])
	}
	if secrets["DB_URL"] != "postgres://localhost/app" {
		t.Errorf("DB_URL = %q", secrets["DB_URL"])
	}
	if _, ok := secrets["data"]; ok {
		t.Error("wrapper key should not leak into the secret map")
	}
}

func TestParseSecretsJSONNestedRejected(t *testing.T) {
	plaintext := []byte(`{"API_KEY": "x", "nested": {"deep": "value"}}`)
	if _, err := parseSecrets("secrets.json", plaintext); err == nil {
		t.Fatal("expected an error for a nested JSON value")
	}
}

func TestParseSecretsYAML(t *testing.T) {
	plaintext := []byte("API_KEY: sk-live-12345\nREPLICAS: 3\nsops:\n  version: 3.9.0\n")
	secrets, err := parseSecrets("secrets.yaml", plaintext)
	if err != nil {
		t.Fatalf("parseSecrets failed: %v", err)
	}

	if secrets["API_KEY"] != "sk-live-12345" {
		t.Errorf("API_KEY = %q", secrets["API_KEY"])
	}
	if secrets["REPLICAS"] != "3" {
		t.Errorf("REPLICAS = %q", secrets["REPLICAS"])
	}
	if _, ok := secrets["sops"]; ok {
		t.Error("sops metadata should be dropped")
	}
}

func TestParseSecretsYAMLNestedRejected(t *testing.T) {
	plaintext := []byte("database:\n  password: hunter2\n")
	if _, err := parseSecrets("secrets.yaml", plaintext); err == nil {
		t.Fatal("expected an error for a nested YAML value")
	}
}

func TestParseSecretsEmpty(t *testing.T) {
	for _, plaintext := range []string{"", "   \n\n", "# only comments\n"} {
		_, err := parseSecrets(".enc.env", []byte(plaintext))
		if !errors.Is(err, kerrors.ErrNoSecrets) {
			t.Errorf("parseSecrets(%q) error = %v, want ErrNoSecrets", plaintext, err)
		}
	}
}

func TestLooksLikeDotenv(t *testing.T) {
	tests := []struct {
		content string
		want    bool
	}{
		{"API_KEY=value", true},
		{"# comment\n\nAPI_KEY=value", true},
		{"API_KEY: value", false},
		{"{\"a\": 1}", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := looksLikeDotenv([]byte(tt.content)); got != tt.want {
			t.Errorf("looksLikeDotenv(%q) = %v, want %v", tt.content, got, tt.want)
		}
	}
}

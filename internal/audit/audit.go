package audit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/Pamacea/shadow-secret/internal/configs"
	"github.com/Pamacea/shadow-secret/internal/utils"
)

// Entry represents a single audit log entry.
type Entry struct {
	Timestamp string `json:"ts"`             // RFC3339 with microseconds.
	User      string `json:"user"`           // Name of the user running the session.
	UserUUID  string `json:"uuid"`           // UUID of the user running the session.
	Host      string `json:"host,omitempty"` // Hostname the session ran on.
	Operation string `json:"op"`             // "unlock", "restore", "push-cloud", "init".

	// Optional fields depending on operation.
	Session      string   `json:"session,omitempty"`       // Session ID tying unlock and restore together.
	ConfigPath   string   `json:"config_path,omitempty"`   // Project config that drove the session.
	Targets      []string `json:"targets,omitempty"`       // Files injected this session.
	SecretsCount int      `json:"secrets_count,omitempty"` // Secrets loaded from the vault.
	Attempted    int      `json:"attempted,omitempty"`     // For restore.
	Restored     int      `json:"restored,omitempty"`      // For restore.
	Pushed       int      `json:"pushed,omitempty"`        // For push-cloud.
	Outcome      string   `json:"outcome,omitempty"`       // "signal", "panic", "error", "ok".
}

// Log appends an entry to the audit log.
// If logging fails, the operation carries on; sessions must never fail
// because the audit log was unwritable.
func Log(entry Entry) {
	if entry.Timestamp == "" {
		entry.Timestamp = time.Now().UTC().Format("2006-01-02T15:04:05.000000Z")
	}

	logPath := LogPath()

	if err := os.MkdirAll(filepath.Dir(logPath), 0700); err != nil {
		return
	}

	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return
	}
	defer f.Close()

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}

	_, _ = f.Write(append(data, '\n'))
}

// NewEntry starts an entry for op with user fields populated from the
// user config.
func NewEntry(op string) Entry {
	entry := Entry{Operation: op}

	if host, err := utils.GetHostname(); err == nil {
		entry.Host = host
	}

	userConfig, err := configs.LoadUserConfig()
	if err != nil {
		return entry
	}

	entry.User = userConfig.User.Name
	entry.UserUUID = userConfig.User.UUID
	return entry
}

// LogPath returns the path to the audit log file.
func LogPath() string {
	return filepath.Join(configs.UserShadowSettings.UserConfigsPath, "audit.jsonl")
}

// ReadEntries reads all entries from the audit log.
// Returns an empty slice if the log doesn't exist.
func ReadEntries() ([]Entry, error) {
	data, err := os.ReadFile(LogPath())
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return ParseEntries(data)
}

// ParseEntries parses JSON Lines data into audit entries.
// Malformed lines are silently skipped.
func ParseEntries(data []byte) ([]Entry, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var entries []Entry
	start := 0

	for i := 0; i <= len(data); i++ {
		if i == len(data) || data[i] == '\n' {
			line := data[start:i]
			start = i + 1

			if len(line) == 0 {
				continue
			}

			var entry Entry
			if err := json.Unmarshal(line, &entry); err != nil {
				continue
			}
			entries = append(entries, entry)
		}
	}

	return entries, nil
}

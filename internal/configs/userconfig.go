package configs

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// UserConfig is the per-user config.toml. It identifies the user for
// audit entries and lets them extend the process kill list.
type UserConfig struct {
	User    User    `toml:"user"`
	Cleaner Cleaner `toml:"cleaner"`
}

type User struct {
	Name string `toml:"name"`
	UUID string `toml:"user_uuid"`
}

type Cleaner struct {
	// Processes are extra process names to stop before restoration,
	// on top of the built-in defaults.
	Processes []string `toml:"processes"`
}

func userConfigPath() string {
	return filepath.Join(UserShadowSettings.UserConfigsPath, "config.toml")
}

// LoadUserConfig loads the user configuration from the config file.
// A missing file yields an empty config, not an error.
func LoadUserConfig() (*UserConfig, error) {
	configPath := userConfigPath()

	config := &UserConfig{}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return config, nil
	}

	if err := LoadTOML(configPath, config); err != nil {
		return nil, fmt.Errorf("failed to load user config: %w", err)
	}
	return config, nil
}

// SaveUserConfig saves the user configuration to the config file.
func SaveUserConfig(config *UserConfig) error {
	if err := SaveTOML(userConfigPath(), config); err != nil {
		return fmt.Errorf("failed to save user config: %w", err)
	}
	return nil
}

// EnsureUserConfig ensures the user configuration exists with a name and
// UUID, writing it back when either was missing.
func EnsureUserConfig() (*UserConfig, error) {
	config, err := LoadUserConfig()
	if err != nil {
		return nil, err
	}

	dirty := false
	if config.User.Name == "" {
		config.User.Name = UserShadowSettings.Username
		dirty = true
	}
	if config.User.UUID == "" {
		config.User.UUID = uuid.New().String()
		dirty = true
	}
	if dirty {
		if err := SaveUserConfig(config); err != nil {
			return nil, err
		}
	}
	return config, nil
}

// KillList combines the built-in process names with the user's extras,
// dropping duplicates while keeping order.
func (c *UserConfig) KillList(defaults []string) []string {
	seen := make(map[string]bool)
	var list []string
	for _, name := range append(append([]string{}, defaults...), c.Cleaner.Processes...) {
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		list = append(list, name)
	}
	return list
}

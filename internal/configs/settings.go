package configs

import (
	"log"
	"os"
	"path/filepath"

	"github.com/Pamacea/shadow-secret/internal/utils"
)

type UserSettings struct {
	UserConfigsPath string
	UserDataPath    string
	Username        string
}

var UserShadowSettings *UserSettings

func init() {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("error getting home directory: %s", err)
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		log.Fatalf("error getting config directory: %s", err)
	}

	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		dataDir = filepath.Join(homeDir, ".local", "share")
	}

	username, err := utils.GetUsername()
	if err != nil {
		log.Fatalf("error getting username: %s", err)
	}

	// This is independent of what project you are in, so it is ok to init here
	UserShadowSettings = &UserSettings{
		UserConfigsPath: filepath.Join(configDir, "shadow-secret"),
		UserDataPath:    filepath.Join(dataDir, "shadow-secret"),
		Username:        username,
	}
}

package utils

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// ConfigFileName is the per-project configuration file shadow-secret looks for.
const ConfigFileName = "shadow-secret.yaml"

// FindProjectRoot traverses up directories to find the directory containing
// shadow-secret.yaml. Returns the directory path if found, empty string
// otherwise. Stops searching one level above the user's home directory.
func FindProjectRoot() (string, error) {
	currentDir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	for {
		// Stop searching at one level above home directory
		if currentDir == path.Join(homeDir, "..") {
			return "", nil
		}

		configPath := filepath.Join(currentDir, ConfigFileName)
		fileInfo, err := os.Stat(configPath)
		// No error means the path exists
		if err == nil {
			if !fileInfo.IsDir() {
				return currentDir, nil
			}
		} else if !os.IsNotExist(err) {
			// Return any error that's not "file not found" (like permission issues)
			return "", fmt.Errorf("error checking for %s at %s: %w", ConfigFileName, currentDir, err)
		}

		parentDir := filepath.Dir(currentDir)

		// If we've reached the filesystem root without finding a config
		if parentDir == currentDir {
			return "", nil
		}
		currentDir = parentDir
	}
}

// ExpandHome expands a leading "~" or "~/" in a path to the user's home
// directory. Paths without the prefix are returned unchanged.
func ExpandHome(p string) (string, error) {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	if p == "~" {
		return homeDir, nil
	}
	return filepath.Join(homeDir, p[2:]), nil
}

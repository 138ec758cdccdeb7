package config

import (
	"os"
	"path/filepath"
)

// GetHome returns SIDEBARKIT_HOME or ~/.sidebarkit by default
func GetHome() string {
	home := os.Getenv("SIDEBARKIT_HOME")
	if home == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return ".sidebarkit"
		}
		return filepath.Join(homeDir, ".sidebarkit")
	}
	return ExpandPath(home)
}

// GetDBPath returns $SIDEBARKIT_HOME/state.db
func GetDBPath() string {
	return filepath.Join(GetHome(), "state.db")
}

// GetStateDir returns $SIDEBARKIT_HOME/state, the file storage directory
func GetStateDir() string {
	return filepath.Join(GetHome(), "state")
}

// GetSettingsPath returns $SIDEBARKIT_HOME/settings.json
func GetSettingsPath() string {
	return filepath.Join(GetHome(), "settings.json")
}

// GetSSHDir returns $SIDEBARKIT_HOME/ssh, where the server host key lives
func GetSSHDir() string {
	return filepath.Join(GetHome(), "ssh")
}

// ExpandPath expands ~ to home directory
func ExpandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			if len(path) == 1 {
				return homeDir
			}
			return filepath.Join(homeDir, path[1:])
		}
	}
	return path
}

package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// AppName names the per-user data directory.
const AppName = "quillkit"

// GetAppDataDir returns the application data directory based on OS
func GetAppDataDir() (string, error) {
	var appDataDir string

	switch runtime.GOOS {
	case "windows":
		localAppData := os.Getenv("LOCALAPPDATA")
		if localAppData == "" {
			appData := os.Getenv("APPDATA")
			if appData == "" {
				return "", fmt.Errorf("neither LOCALAPPDATA nor APPDATA environment variables are set")
			}
			localAppData = appData
		}
		appDataDir = filepath.Join(localAppData, AppName)
	case "linux":
		// XDG base directories
		xdgDataHome := os.Getenv("XDG_DATA_HOME")
		if xdgDataHome == "" {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get user home directory: %w", err)
			}
			xdgDataHome = filepath.Join(homeDir, ".local", "share")
		}
		appDataDir = filepath.Join(xdgDataHome, AppName)
	case "darwin":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get user home directory: %w", err)
		}
		appDataDir = filepath.Join(homeDir, "Library", "Application Support", AppName)
	default:
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get user home directory: %w", err)
		}
		appDataDir = filepath.Join(homeDir, "."+AppName)
	}

	return appDataDir, nil
}

// EnsureDirs creates each directory that does not exist yet. Empty entries
// are skipped.
func EnsureDirs(dirs ...string) error {
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

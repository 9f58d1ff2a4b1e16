package app

import (
	"os"
	"path/filepath"
	"runtime"

	"tardis-go/internal/tardis"
)

// GetDefaults returns application default paths, checking environment variables first.
// Environment variables:
//   - TARDIS_CONFIG_PATH: config file location (default: ~/.config/tardis.toml)
//   - TARDIS_HOME: base directory for tardis data (default: ~/.local/share/tardis)
//   - TARDIS_HISTORY_DIR: the editor's local history store (default: platform specific)
func GetDefaults() (map[string]string, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return nil, err
	}

	baseDir, err := getBaseDir()
	if err != nil {
		return nil, err
	}

	historyDir, err := getHistoryDir()
	if err != nil {
		return nil, err
	}

	return map[string]string{
		"config_path": configPath,
		"base_dir":    baseDir,
		"log_dir":     filepath.Join(baseDir, "log"),
		"history_dir": historyDir,
	}, nil
}

// getConfigPath returns the config file path, checking TARDIS_CONFIG_PATH env var first,
// then falling back to the default ~/.config/tardis.toml.
func getConfigPath() (string, error) {
	if path := os.Getenv("TARDIS_CONFIG_PATH"); path != "" {
		return path, nil
	}

	homeDir, err := userHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "tardis.toml"), nil
}

// getBaseDir returns the base directory for tardis data, checking TARDIS_HOME env var first,
// then falling back to the XDG default ~/.local/share/tardis.
func getBaseDir() (string, error) {
	if path := os.Getenv("TARDIS_HOME"); path != "" {
		return path, nil
	}

	homeDir, err := userHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".local", "share", "tardis"), nil
}

// getHistoryDir returns the editor's local history directory, checking
// TARDIS_HISTORY_DIR env var first.
func getHistoryDir() (string, error) {
	if path := os.Getenv("TARDIS_HISTORY_DIR"); path != "" {
		return path, nil
	}

	homeDir, err := userHomeDir()
	if err != nil {
		return "", err
	}
	return historyDirFor(runtime.GOOS, homeDir, os.Getenv), nil
}

// historyDirFor returns where VS Code keeps local history on goos.
func historyDirFor(goos, homeDir string, getenv func(string) string) string {
	var userDir string
	switch goos {
	case "darwin":
		userDir = filepath.Join(homeDir, "Library", "Application Support")
	case "windows":
		userDir = getenv("APPDATA")
		if userDir == "" {
			userDir = filepath.Join(homeDir, "AppData", "Roaming")
		}
	default:
		userDir = getenv("XDG_CONFIG_HOME")
		if userDir == "" {
			userDir = filepath.Join(homeDir, ".config")
		}
	}
	return filepath.Join(userDir, "Code", "User", "History")
}

func userHomeDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", &tardis.ConfigError{Msg: "cannot determine home directory", Err: err}
	}
	return homeDir, nil
}

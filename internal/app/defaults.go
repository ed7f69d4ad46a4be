package app

import (
	"fmt"
	"os"
	"path/filepath"
)

// GetDefaults returns application default paths, checking environment
// variables first.
// Environment variables:
//   - GITCMS_CONFIG_PATH: config file location (default: ~/.config/gitcms.toml)
//   - GITCMS_HOME: working directory for all projects (default: ~/.local/share/gitcms)
func GetDefaults() (map[string]string, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return nil, err
	}

	workDir, err := getWorkDir()
	if err != nil {
		return nil, err
	}

	return map[string]string{
		"config_path": configPath,
		"work_dir":    workDir,
		"log_dir":     filepath.Join(workDir, "logs"),
	}, nil
}

// getConfigPath returns the config file path, checking GITCMS_CONFIG_PATH
// first, then falling back to ~/.config/gitcms.toml.
func getConfigPath() (string, error) {
	if path := os.Getenv("GITCMS_CONFIG_PATH"); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "gitcms.toml"), nil
}

// getWorkDir returns the working directory, checking GITCMS_HOME first,
// then falling back to the XDG default ~/.local/share/gitcms.
func getWorkDir() (string, error) {
	if path := os.Getenv("GITCMS_HOME"); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".local", "share", "gitcms"), nil
}

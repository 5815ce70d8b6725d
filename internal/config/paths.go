package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const baseDirName = ".librarian"

// BaseDir returns the per-user directory holding config, state, data and logs.
func BaseDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, baseDirName), nil
}

// DefaultConfigPath returns the default location of the YAML config file.
func DefaultConfigPath() (string, error) {
	base, err := BaseDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "config.yaml"), nil
}

// DefaultStatePath returns the default location of the persisted state document.
func DefaultStatePath() (string, error) {
	base, err := BaseDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "state.yaml"), nil
}

// DataDir returns the directory holding the per-collection metadata databases.
func DataDir() (string, error) {
	base, err := BaseDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "data"), nil
}

// LogsDir returns the directory for per-run log files.
func LogsDir() (string, error) {
	base, err := BaseDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "logs"), nil
}

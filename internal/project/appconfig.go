// Package project persists jobs, application config, the machine and sheet
// inventory and full backups under ~/.thermolayout.
package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/piwi3910/thermolayout/internal/model"
)

// DefaultConfigDir returns the default directory for application configuration.
// On all platforms this is ~/.thermolayout/
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".thermolayout")
}

// DefaultConfigPath returns the default path for the application config file.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.json")
}

// DefaultCacheDir returns the directory used for cached HTTP responses.
func DefaultCacheDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "thermolayout")
	}
	return filepath.Join(DefaultConfigDir(), "cache")
}

// SaveAppConfig persists an AppConfig to the given path as JSON.
// It creates any missing parent directories automatically.
func SaveAppConfig(path string, config model.AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// LoadAppConfig reads an AppConfig from the given path.
// If the file does not exist, it returns DefaultAppConfig with no error.
// Fields missing from the file keep their default values.
func LoadAppConfig(path string) (model.AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.DefaultAppConfig(), nil
		}
		return model.AppConfig{}, err
	}
	config := model.DefaultAppConfig()
	if err := json.Unmarshal(data, &config); err != nil {
		return model.AppConfig{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	// Ensure RecentJobs is never nil
	if config.RecentJobs == nil {
		config.RecentJobs = []string{}
	}
	return config, nil
}

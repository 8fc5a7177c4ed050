package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"myges/pkg/logging"

	"gopkg.in/yaml.v3"
)

const (
	userConfigDir  = ".config/myges"
	configFileName = "config.yaml"

	// EnvConfigPath overrides the default configuration directory.
	EnvConfigPath = "MYGES_CONFIG_PATH"
)

// DefaultDir returns the configuration directory: $MYGES_CONFIG_PATH when
// set, ~/.config/myges otherwise.
func DefaultDir() (string, error) {
	if dir := os.Getenv(EnvConfigPath); dir != "" {
		return dir, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine user config directory: %w", err)
	}
	return filepath.Join(homeDir, userConfigDir), nil
}

// FilePath returns the path of config.yaml inside dir.
func FilePath(dir string) string {
	return filepath.Join(dir, configFileName)
}

// Load reads config.yaml from dir. A missing file yields the defaults.
func Load(dir string) (*Config, error) {
	path := FilePath(dir)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logging.Debug("Config", "No config.yaml found at %s, using defaults", path)
			return Default(), nil
		}
		return nil, &ConfigurationError{FilePath: path, ErrorType: "io", Err: err}
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, &ConfigurationError{FilePath: path, ErrorType: "parse", Err: err}
	}
	cfg.applyDefaults()

	logging.Debug("Config", "Loaded configuration from %s", path)
	return cfg, nil
}

// Save writes cfg to dir/config.yaml. The directory is created owner-only
// and the file is readable by its owner only since it holds tokens.
func Save(dir string, cfg *Config) error {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	path := FilePath(dir)
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	// WriteFile keeps the mode of an existing file.
	if err := os.Chmod(path, 0600); err != nil {
		return fmt.Errorf("failed to restrict config file permissions: %w", err)
	}

	logging.Debug("Config", "Saved configuration to %s", path)
	return nil
}

// Erase replaces the configuration in dir with the defaults, dropping the
// session and the Google token.
func Erase(dir string) error {
	return Save(dir, Default())
}

// Package config provides functions for loading and saving chainlink configuration files.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/alan/chainlink/cmd"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// LoadConfig loads the configuration from the specified file. A missing file
// yields the defaults; keys absent from the file keep their default values.
func LoadConfig(filename string) (*cmd.Config, error) {
	config := cmd.DefaultConfig()

	data, err := os.ReadFile(filename) //nolint:gosec // Config filename is from command-line flag
	if errors.Is(err, os.ErrNotExist) {
		slog.Debug("Config file not found, using defaults", "file", filename)
		return config, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	config.ApplyDefaults()

	return config, nil
}

// SaveConfig saves the configuration to the specified file
func SaveConfig(filename string, config *cmd.Config) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// LoadEnv loads environment variables from the given dotenv files. Missing
// files are ignored; variables already set in the environment win.
func LoadEnv(filenames ...string) error {
	for _, name := range filenames {
		if err := godotenv.Load(name); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load env file %s: %w", name, err)
		}
		slog.Debug("Loaded env file", "file", name)
	}
	return nil
}

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"dai/pkg/logging"

	"gopkg.in/yaml.v3"
)

const (
	userConfigDir  = ".config/dai"
	configFileName = "config.yaml"
)

// GetDefaultConfigPathOrPanic returns ~/.config/dai.
func GetDefaultConfigPathOrPanic() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		panic(fmt.Errorf("could not determine user config directory: %w", err))
	}

	return filepath.Join(homeDir, userConfigDir)
}

// FilePath returns the path of config.yaml inside configPath.
func FilePath(configPath string) string {
	return filepath.Join(configPath, configFileName)
}

// LoadConfig loads configuration from a single specified directory. Values in
// config.yaml override DefaultConfig.
func LoadConfig(configPath string) (Config, error) {
	configFilePath := FilePath(configPath)
	config := DefaultConfig()

	data, err := os.ReadFile(configFilePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logging.Info("Config", "No config.yaml found at %s, using defaults", configFilePath)
			return config, nil
		}
		logging.Info("Config", "Error loading config.yaml from %s: %s", configFilePath, err)
		return Config{}, newFileError(configFilePath, KindRead, err)
	}

	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, newFileError(configFilePath, KindParse, err,
			"run 'dai config init --force' to regenerate a default file")
	}

	logging.Info("Config", "Loaded configuration from %s", configFilePath)
	return config, nil
}

// SaveConfig writes cfg to config.yaml inside configPath, creating the
// directory if needed.
func SaveConfig(configPath string, cfg Config) error {
	data, err := cfg.YAML()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(configPath, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory %s: %w", configPath, err)
	}
	if err := os.WriteFile(FilePath(configPath), data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", FilePath(configPath), err)
	}
	return nil
}

package app

import (
	"dai/internal/config"
)

// Config holds the application configuration
type Config struct {
	// Debug forces debug logging regardless of the configured log level.
	Debug bool

	// Silent discards all log output.
	Silent bool

	// ConfigPath is the directory holding config.yaml. Empty means the
	// default ~/.config/dai.
	ConfigPath string

	// Watch reloads the services when config.yaml changes (serve only).
	Watch bool

	// MetricsAddress overrides metrics.address from the file and enables
	// the endpoint when set (serve only).
	MetricsAddress string

	// DaiConfig is the loaded configuration. When set before
	// NewApplication, loading from disk is skipped.
	DaiConfig *config.Config
}

// NewConfig creates a new application configuration
func NewConfig(debug bool, configPath string) *Config {
	return &Config{
		Debug:      debug,
		ConfigPath: configPath,
	}
}

func (c *Config) configDir() string {
	if c.ConfigPath != "" {
		return c.ConfigPath
	}
	return config.GetDefaultConfigPathOrPanic()
}

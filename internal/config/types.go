package config

import (
	"fmt"

	sigsyaml "sigs.k8s.io/yaml"

	"gopkg.in/yaml.v3"
)

// Preset names a base configuration the Maker starts from.
const (
	PresetTest = "test"
	PresetHTTP = "http"
)

// KnownPresets lists the accepted values of Config.Preset.
var KnownPresets = []string{PresetTest, PresetHTTP}

// Config is the top-level configuration structure for dai.
type Config struct {
	Preset           string                 `yaml:"preset" json:"preset"`
	LogLevel         string                 `yaml:"logLevel,omitempty" json:"logLevel,omitempty"`
	URL              string                 `yaml:"url,omitempty" json:"url,omitempty"` // JSON-RPC endpoint of the web3 service
	AutoAuthenticate bool                   `yaml:"autoAuthenticate" json:"autoAuthenticate"`
	Accounts         []AccountConfig        `yaml:"accounts,omitempty" json:"accounts,omitempty"`
	Plugins          []string               `yaml:"plugins,omitempty" json:"plugins,omitempty"`
	Services         map[string]interface{} `yaml:"services,omitempty" json:"services,omitempty"` // role -> shorthand
	// ExtractedServices maps service names that moved into plugins to the plugin name.
	ExtractedServices map[string]string `yaml:"extractedServices,omitempty" json:"extractedServices,omitempty"`
	Metrics           MetricsConfig     `yaml:"metrics" json:"metrics"`
}

// AccountConfig describes an account the accounts service starts with.
type AccountConfig struct {
	Name    string `yaml:"name" json:"name"`
	Address string `yaml:"address" json:"address"`
}

// MetricsConfig controls the prometheus endpoint started by `dai serve`.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Address string `yaml:"address,omitempty" json:"address,omitempty"`
}

// YAML renders the configuration as YAML.
func (c Config) YAML() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal configuration: %w", err)
	}
	return data, nil
}

// JSON renders the configuration as JSON. Service settings decoded from YAML
// are converted along the way.
func (c Config) JSON() ([]byte, error) {
	data, err := c.YAML()
	if err != nil {
		return nil, err
	}
	out, err := sigsyaml.YAMLToJSON(data)
	if err != nil {
		return nil, fmt.Errorf("failed to convert configuration to JSON: %w", err)
	}
	return out, nil
}

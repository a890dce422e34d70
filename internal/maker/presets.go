package maker

import (
	"fmt"
	"maps"

	"dai/internal/builtin"
	"dai/internal/config"
	"dai/internal/provider"
	"dai/internal/services"
)

// presetServices returns the role configuration a preset starts with. The
// test preset has no node connection; http adds the web3 service.
func presetServices(preset string) (map[string]interface{}, error) {
	base := map[string]interface{}{
		builtin.LogRole:      true,
		builtin.TimerRole:    true,
		builtin.EventRole:    true,
		builtin.AccountsRole: true,
	}

	switch preset {
	case config.PresetTest:
		return base, nil
	case config.PresetHTTP:
		base[builtin.Web3Role] = true
		return base, nil
	default:
		return nil, &UnknownPresetError{Preset: preset}
	}
}

// UnknownPresetError is returned by Create for a preset it does not know.
type UnknownPresetError struct {
	Preset string
}

func (e *UnknownPresetError) Error() string {
	return fmt.Sprintf("unknown preset %q, expected one of %v", e.Preset, config.KnownPresets)
}

// serviceConfigs merges the preset with the option overrides, parses the
// result and fills in settings derived from the other options.
func serviceConfigs(preset string, opts Options) (map[string]provider.ServiceConfig, error) {
	raw, err := presetServices(preset)
	if err != nil {
		return nil, err
	}
	maps.Copy(raw, opts.Services)

	configs, err := provider.ParseAll(raw)
	if err != nil {
		return nil, err
	}

	if cfg, ok := configs[builtin.Web3Role]; ok && opts.URL != "" {
		configs[builtin.Web3Role] = withDefaultSetting(cfg, "url", opts.URL)
	}
	if cfg, ok := configs[builtin.AccountsRole]; ok && len(opts.Accounts) > 0 {
		configs[builtin.AccountsRole] = withDefaultSetting(cfg, "accounts", opts.Accounts)
	}
	return configs, nil
}

// withDefaultSetting sets key unless the role's own settings already do.
func withDefaultSetting(cfg provider.ServiceConfig, key string, value interface{}) provider.ServiceConfig {
	if _, ok := cfg.Settings[key]; ok {
		return cfg
	}
	settings := make(services.Settings, len(cfg.Settings)+1)
	maps.Copy(settings, cfg.Settings)
	settings[key] = value
	cfg.Settings = settings
	return cfg
}

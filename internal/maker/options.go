package maker

import (
	"maps"
	"slices"

	"dai/internal/builtin"
	"dai/internal/config"
	"dai/internal/provider"
)

// Options customize a Maker on top of its preset.
type Options struct {
	// URL is the JSON-RPC endpoint given to the web3 service when its
	// settings do not name one.
	URL string
	// Accounts seed the accounts service.
	Accounts []builtin.Account
	// Services overrides role configurations of the preset. Values use the
	// shorthand accepted by provider.Parse.
	Services map[string]interface{}
	// Resolver adds implementations that Services may refer to by name.
	Resolver provider.Resolver
	Plugins  []Plugin
	// AutoAuthenticate makes Create authenticate all services before it
	// returns.
	AutoAuthenticate bool
	// ExtractedServices maps service names that moved into plugins to the
	// plugin that provides them.
	ExtractedServices map[string]string
}

// OptionsFromConfig converts the configuration file into Options. Plugins
// are looked up in the registry.
func OptionsFromConfig(cfg config.Config) (Options, error) {
	registered, err := resolvePlugins(cfg.Plugins)
	if err != nil {
		return Options{}, err
	}

	accounts := make([]builtin.Account, 0, len(cfg.Accounts))
	for _, acc := range cfg.Accounts {
		accounts = append(accounts, builtin.Account{Name: acc.Name, Address: acc.Address})
	}

	extracted := maps.Clone(config.DefaultExtractedServices)
	maps.Copy(extracted, cfg.ExtractedServices)

	return Options{
		URL:               cfg.URL,
		Accounts:          accounts,
		Services:          maps.Clone(cfg.Services),
		Plugins:           registered,
		AutoAuthenticate:  cfg.AutoAuthenticate,
		ExtractedServices: extracted,
	}, nil
}

func (o Options) clone() Options {
	o.Accounts = slices.Clone(o.Accounts)
	o.Services = maps.Clone(o.Services)
	o.Plugins = slices.Clone(o.Plugins)
	o.ExtractedServices = maps.Clone(o.ExtractedServices)
	return o
}

package provider

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"dai/internal/services"
)

// Parse normalizes the configuration value of role. Accepted values are
// nil and bool (RoleDefault), string (ByName), Factory, services.Service,
// a Descriptor, a ServiceConfig, a settings map (the role's default with
// those settings) and a two element list of descriptor and settings.
func Parse(role string, raw interface{}) (ServiceConfig, error) {
	if cfg, ok := raw.(ServiceConfig); ok {
		if cfg.Descriptor == nil {
			cfg.Descriptor = RoleDefault(true)
		}
		return cfg, nil
	}

	if settings, ok, err := parseSettings(role, raw); ok {
		if err != nil {
			return ServiceConfig{}, err
		}
		return Enabled(settings), nil
	}

	if pair, ok := raw.([]interface{}); ok {
		return parsePair(role, pair)
	}

	d, err := parseDescriptor(role, raw)
	if err != nil {
		return ServiceConfig{}, err
	}
	return ServiceConfig{Descriptor: d}, nil
}

// ParseAll parses every role of a configuration section. All invalid roles
// are reported together.
func ParseAll(raw map[string]interface{}) (map[string]ServiceConfig, error) {
	out := make(map[string]ServiceConfig, len(raw))
	var errs []error
	for _, role := range slices.Sorted(maps.Keys(raw)) {
		cfg, err := Parse(role, raw[role])
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out[role] = cfg
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return out, nil
}

func parsePair(role string, pair []interface{}) (ServiceConfig, error) {
	if len(pair) != 2 {
		return ServiceConfig{}, &ConfigError{Role: role, Reason: fmt.Sprintf("expected [service, settings], got %d elements", len(pair))}
	}

	d, err := parseDescriptor(role, pair[0])
	if err != nil {
		return ServiceConfig{}, err
	}

	settings, ok, err := parseSettings(role, pair[1])
	if err != nil {
		return ServiceConfig{}, err
	}
	if !ok && pair[1] != nil {
		return ServiceConfig{}, &ConfigError{Role: role, Reason: fmt.Sprintf("settings must be a map, got %T", pair[1])}
	}
	return ServiceConfig{Descriptor: d, Settings: settings}, nil
}

func parseDescriptor(role string, raw interface{}) (Descriptor, error) {
	switch v := raw.(type) {
	case nil:
		return RoleDefault(true), nil
	case bool:
		return RoleDefault(v), nil
	case string:
		if v == "" {
			return nil, &ConfigError{Role: role, Reason: "service name must not be empty"}
		}
		return ByName(v), nil
	case Descriptor:
		return v, nil
	case Factory:
		if v == nil {
			return nil, &ConfigError{Role: role, Reason: "nil factory"}
		}
		return ByFactory(v), nil
	case func() (services.Service, error):
		if v == nil {
			return nil, &ConfigError{Role: role, Reason: "nil factory"}
		}
		return ByFactory(v), nil
	case services.Service:
		if v == nil || v.Manager() == nil {
			return nil, &services.InvalidServiceError{Name: role}
		}
		return ByInstance{Service: v}, nil
	default:
		return nil, &ConfigError{Role: role, Reason: fmt.Sprintf("unsupported value of type %T", raw)}
	}
}

// parseSettings reports ok when raw is a map. Keys of maps decoded from
// YAML into interface{} values must all be strings.
func parseSettings(role string, raw interface{}) (services.Settings, bool, error) {
	switch v := raw.(type) {
	case services.Settings:
		return v, true, nil
	case map[string]interface{}:
		return services.Settings(v), true, nil
	case map[interface{}]interface{}:
		out := make(services.Settings, len(v))
		for k, val := range v {
			key, ok := k.(string)
			if !ok {
				return nil, true, &ConfigError{Role: role, Reason: fmt.Sprintf("settings key %v is not a string", k)}
			}
			out[key] = val
		}
		return out, true, nil
	default:
		return nil, false, nil
	}
}

package provider

import (
	"fmt"

	"dai/internal/services"
)

// Resolver holds the implementations a role configuration can refer to.
type Resolver struct {
	// Services maps implementation names to factories.
	Services map[string]Factory
	// Defaults maps a role to the implementation used for RoleDefault(true).
	Defaults map[string]string
	// Disabled maps a role to the implementation used for RoleDefault(false).
	Disabled map[string]string
}

// Merge returns a resolver containing r and other; entries of other win.
func (r Resolver) Merge(other Resolver) Resolver {
	return Resolver{
		Services: mergeMaps(r.Services, other.Services),
		Defaults: mergeMaps(r.Defaults, other.Defaults),
		Disabled: mergeMaps(r.Disabled, other.Disabled),
	}
}

// Resolve builds the service selected by cfg for role and returns it with
// the settings it should be initialized with.
func Resolve(role string, cfg ServiceConfig, resolver Resolver) (services.Service, services.Settings, error) {
	var (
		svc services.Service
		err error
	)

	switch d := cfg.Descriptor.(type) {
	case nil:
		svc, err = resolveDefault(role, true, resolver)
	case RoleDefault:
		svc, err = resolveDefault(role, bool(d), resolver)
	case ByName:
		svc, err = resolveName(role, string(d), resolver)
	case ByFactory:
		svc, err = build(role, Factory(d))
	case ByInstance:
		svc = d.Service
	default:
		err = &ConfigError{Role: role, Reason: fmt.Sprintf("unsupported descriptor %T", d)}
	}
	if err != nil {
		return nil, nil, err
	}

	if svc == nil || svc.Manager() == nil {
		return nil, nil, &services.InvalidServiceError{Name: role}
	}
	return svc, cfg.Settings, nil
}

func resolveDefault(role string, enabled bool, resolver Resolver) (services.Service, error) {
	names := resolver.Defaults
	if !enabled {
		names = resolver.Disabled
	}
	name, ok := names[role]
	if !ok {
		return nil, &UnknownServiceError{Role: role}
	}
	return resolveName(role, name, resolver)
}

func resolveName(role, name string, resolver Resolver) (services.Service, error) {
	factory, ok := resolver.Services[name]
	if !ok || factory == nil {
		return nil, &UnknownServiceError{Role: role, Name: name}
	}
	return build(role, factory)
}

func build(role string, factory Factory) (svc services.Service, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("factory for role %s panicked: %v", role, r)
		}
	}()

	svc, err = factory()
	if err != nil {
		return nil, fmt.Errorf("failed to create service for role %s: %w", role, err)
	}
	return svc, nil
}

func mergeMaps[V any](a, b map[string]V) map[string]V {
	out := make(map[string]V, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}

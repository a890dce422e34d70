package provider

import (
	"fmt"
	"maps"
	"slices"

	"dai/internal/services"
	"dai/pkg/logging"
)

// Provider builds a Container from role configurations.
type Provider struct {
	configs  map[string]ServiceConfig
	resolver Resolver
}

// New creates a provider. Roles absent from configs are only instantiated
// when another service depends on them.
func New(configs map[string]ServiceConfig, resolver Resolver) *Provider {
	return &Provider{
		configs:  maps.Clone(configs),
		resolver: resolver,
	}
}

// HasService reports whether role is explicitly configured.
func (p *Provider) HasService(role string) bool {
	_, ok := p.configs[role]
	return ok
}

// Roles returns the configured roles sorted alphabetically.
func (p *Provider) Roles() []string {
	return slices.Sorted(maps.Keys(p.configs))
}

// Config returns the configuration of role.
func (p *Provider) Config(role string) (ServiceConfig, bool) {
	cfg, ok := p.configs[role]
	return cfg, ok
}

// BuildContainer instantiates every configured role, then keeps adding the
// default implementation of any dependency that is not registered yet until
// the graph is closed, and finally injects all dependencies.
func (p *Provider) BuildContainer(opts ...services.ContainerOption) (*services.Container, error) {
	container := services.NewContainer(opts...)

	for _, role := range p.Roles() {
		if err := p.add(container, role, p.configs[role]); err != nil {
			return nil, err
		}
	}

	for {
		added := 0
		for _, name := range container.ServiceNames() {
			svc, err := container.Service(name)
			if err != nil {
				return nil, err
			}
			for _, dep := range svc.Manager().Dependencies() {
				if container.HasService(dep) {
					continue
				}
				if err := p.add(container, dep, Enabled(nil)); err != nil {
					if IsUnknownService(err) {
						return nil, &services.ServiceNotFoundError{Name: dep, RequiredBy: name}
					}
					return nil, err
				}
				logging.Debug("Provider", "Added default %s service required by %s", dep, name)
				added++
			}
		}
		if added == 0 {
			break
		}
	}

	if err := container.InjectDependencies(); err != nil {
		return nil, err
	}
	return container, nil
}

func (p *Provider) add(container *services.Container, role string, cfg ServiceConfig) error {
	svc, settings, err := Resolve(role, cfg, p.resolver)
	if err != nil {
		return err
	}

	manager := svc.Manager()
	if manager.Name() != role {
		return &RoleMismatchError{Role: role, Name: manager.Name()}
	}
	if settings != nil {
		manager.SetSettings(settings)
	}

	if err := container.Register(svc); err != nil {
		return fmt.Errorf("failed to register %s: %w", role, err)
	}
	logging.Debug("Provider", "Registered %s as %s (%s)", role, cfg, manager.Type())
	return nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sort"
	"sync"

	"dai/internal/dependency"
	"dai/pkg/logging"
)

// ContainerOption configures a Container.
type ContainerOption func(*Container)

// WithExtractedServices lists service names that used to be built in and now
// live in plugins (name -> plugin). Looking one of them up returns an
// ExtractedServiceError that names the plugin.
func WithExtractedServices(extracted map[string]string) ContainerOption {
	return func(c *Container) {
		for name, plugin := range extracted {
			c.extracted[name] = plugin
		}
	}
}

// Container holds the registered services, wires their dependencies and
// drives lifecycle stages across the whole graph in dependency order.
type Container struct {
	mu            sync.RWMutex
	services      map[string]Service
	extracted     map[string]string
	order         []string
	authenticated bool
}

// NewContainer creates an empty container.
func NewContainer(opts ...ContainerOption) *Container {
	c := &Container{
		services:  make(map[string]Service),
		extracted: make(map[string]string),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Register adds a service under its manager's name.
func (c *Container) Register(svc Service) error {
	if !isValidService(svc) {
		return &InvalidServiceError{}
	}
	return c.RegisterAs(svc.Manager().Name(), svc)
}

// RegisterAs adds a service under name. Registering the same instance twice
// under one name is a no-op; a different instance under a taken name fails.
func (c *Container) RegisterAs(name string, svc Service) error {
	if !isValidService(svc) {
		return &InvalidServiceError{Name: name}
	}
	if name == "" {
		name = svc.Manager().Name()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.services[name]; ok {
		if existing == svc {
			return nil
		}
		return &ServiceAlreadyRegisteredError{Name: name}
	}

	c.services[name] = svc
	// The graph changed, so the cached order is stale.
	c.order = nil
	logging.Debug("Container", "Registered service %s (%s)", name, svc.Manager().Type())
	return nil
}

// Service returns the service registered under name.
func (c *Container) Service(name string) (Service, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if svc, ok := c.services[name]; ok {
		return svc, nil
	}
	if plugin, ok := c.extracted[name]; ok {
		return nil, &ExtractedServiceError{Name: name, Plugin: plugin}
	}
	return nil, &ServiceNotFoundError{Name: name}
}

// HasService reports whether name is registered.
func (c *Container) HasService(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.services[name]
	return ok
}

// ServiceNames returns the registered names sorted alphabetically.
func (c *Container) ServiceNames() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := slices.Collect(maps.Keys(c.services))
	sort.Strings(names)
	return names
}

// InjectDependencies resolves every declared dependency of every registered
// service against the registry. It must run once all services are
// registered and before any lifecycle stage.
func (c *Container) InjectDependencies() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := slices.Collect(maps.Keys(c.services))
	sort.Strings(names)

	for _, name := range names {
		manager := c.services[name].Manager()
		for _, depName := range manager.Dependencies() {
			dep, ok := c.services[depName]
			if !ok {
				return &ServiceNotFoundError{Name: depName, RequiredBy: name}
			}
			if err := manager.Inject(depName, dep); err != nil {
				return fmt.Errorf("failed to inject %s into %s: %w", depName, name, err)
			}
		}
	}
	return nil
}

// OrderedServiceNames returns the registered names so that every dependency
// precedes its dependents. The order is cached until the next registration.
func (c *Container) OrderedServiceNames() ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.order != nil {
		return slices.Clone(c.order), nil
	}

	g := dependency.New()
	for name, svc := range c.services {
		deps := svc.Manager().Dependencies()
		ids := make([]dependency.NodeID, len(deps))
		for i, d := range deps {
			ids[i] = dependency.NodeID(d)
		}
		g.AddNode(dependency.Node{ID: dependency.NodeID(name), DependsOn: ids})
	}

	sorted, err := g.TopologicalSort()
	if err != nil {
		var missing *dependency.MissingDependencyError
		if errors.As(err, &missing) {
			return nil, &ServiceNotFoundError{Name: string(missing.Dependency), RequiredBy: string(missing.Node)}
		}
		return nil, err
	}

	order := make([]string, len(sorted))
	for i, id := range sorted {
		order[i] = string(id)
	}
	c.order = order
	return slices.Clone(order), nil
}

// Initialize initializes every service in dependency order.
func (c *Container) Initialize(ctx context.Context) error {
	return c.sweep(ctx, StageInitialize, func(ctx context.Context, m *Manager) error {
		return m.Initialize(ctx)
	})
}

// Connect connects every service in dependency order.
func (c *Container) Connect(ctx context.Context) error {
	return c.sweep(ctx, StageConnect, func(ctx context.Context, m *Manager) error {
		return m.Connect(ctx)
	})
}

// Authenticate authenticates every service in dependency order and marks the
// container authenticated once all of them returned.
func (c *Container) Authenticate(ctx context.Context) error {
	err := c.sweep(ctx, StageAuthenticate, func(ctx context.Context, m *Manager) error {
		return m.Authenticate(ctx)
	})
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.authenticated = true
	c.mu.Unlock()
	return nil
}

// IsAuthenticated reports whether an Authenticate sweep completed.
func (c *Container) IsAuthenticated() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.authenticated
}

// Services returns the registered services in dependency order.
func (c *Container) Services() ([]Service, error) {
	var out []Service
	err := c.Walk(func(_ string, svc Service) {
		out = append(out, svc)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Walk calls fn for every service in dependency order.
func (c *Container) Walk(fn func(name string, svc Service)) error {
	order, err := c.OrderedServiceNames()
	if err != nil {
		return err
	}
	for _, name := range order {
		svc, err := c.Service(name)
		if err != nil {
			return err
		}
		fn(name, svc)
	}
	return nil
}

// sweep runs stage on each service sequentially, in dependency order,
// stopping at the first error.
func (c *Container) sweep(ctx context.Context, stage Stage, run func(context.Context, *Manager) error) error {
	order, err := c.OrderedServiceNames()
	if err != nil {
		return err
	}

	logging.Debug("Container", "Running %s across %d services", stage, len(order))
	for _, name := range order {
		if err := ctx.Err(); err != nil {
			return err
		}
		svc, err := c.Service(name)
		if err != nil {
			return err
		}
		if err := run(ctx, svc.Manager()); err != nil {
			logging.Error("Container", err, "Failed to %s service %s", stage, name)
			return fmt.Errorf("failed to %s service %s: %w", stage, name, err)
		}
	}
	return nil
}

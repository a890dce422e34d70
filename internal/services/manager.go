package services

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"dai/internal/dependency"

	"golang.org/x/sync/errgroup"
)

// Manager is a ManagerBase with a name and a fixed set of named
// dependencies. Each lifecycle stage first completes the same stage on every
// dependency and only then runs the service's own callback.
type Manager struct {
	*ManagerBase

	dependencies []string

	mu       sync.RWMutex
	injected map[string]Service
}

// NewManager creates a manager for the service called name. Duplicate
// dependency names are collapsed.
func NewManager(name string, dependencies []string, init InitFunc, connect ConnectFunc, auth AuthFunc) (*Manager, error) {
	if name == "" {
		return nil, &InvalidArgumentError{Message: "service name must not be empty"}
	}

	base, err := NewManagerBase(init, connect, auth)
	if err != nil {
		return nil, fmt.Errorf("service %s: %w", name, err)
	}
	base.name = name

	deps := make([]string, 0, len(dependencies))
	injected := make(map[string]Service, len(dependencies))
	for _, dep := range dependencies {
		if dep == "" {
			return nil, &InvalidArgumentError{Message: fmt.Sprintf("service %s declares an empty dependency name", name)}
		}
		if _, seen := injected[dep]; seen {
			continue
		}
		deps = append(deps, dep)
		injected[dep] = nil
	}

	m := &Manager{
		ManagerBase:  base,
		dependencies: deps,
		injected:     injected,
	}
	base.initSelf = m.Initialize
	base.connectSelf = m.Connect
	return m, nil
}

// Name returns the service name.
func (m *Manager) Name() string {
	return m.name
}

// Dependencies returns the declared dependency names in declaration order.
func (m *Manager) Dependencies() []string {
	return slices.Clone(m.dependencies)
}

// HasDependency reports whether name was declared as a dependency.
func (m *Manager) HasDependency(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.injected[name]
	return ok
}

// Inject resolves a declared dependency.
func (m *Manager) Inject(name string, svc Service) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.injected[name]; !ok {
		return &UnknownDependencyError{Service: m.name, Dependency: name}
	}
	if !isValidService(svc) {
		return &InvalidServiceError{Name: name}
	}
	m.injected[name] = svc
	return nil
}

// Dependency returns an injected dependency.
func (m *Manager) Dependency(name string) (Service, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	svc, ok := m.injected[name]
	if !ok {
		return nil, &UnknownDependencyError{Service: m.name, Dependency: name}
	}
	if svc == nil {
		return nil, &DependencyNotResolvedError{Service: m.name, Dependency: name}
	}
	return svc, nil
}

// Initialize initializes every dependency, then this service with its stored
// settings.
func (m *Manager) Initialize(ctx context.Context) error {
	if err := m.InitializeDependencies(ctx); err != nil {
		return err
	}
	return m.ManagerBase.Initialize(ctx, m.Settings())
}

// Connect connects every dependency, then this service. Initializing this
// service on the way goes back through Initialize.
func (m *Manager) Connect(ctx context.Context) error {
	if err := m.ConnectDependencies(ctx); err != nil {
		return err
	}
	return m.ManagerBase.Connect(ctx)
}

// Authenticate authenticates every dependency, then this service. Connecting
// this service on the way goes back through Connect.
func (m *Manager) Authenticate(ctx context.Context) error {
	if err := m.AuthenticateDependencies(ctx); err != nil {
		return err
	}
	return m.ManagerBase.Authenticate(ctx)
}

// InitializeDependencies waits for every dependency to initialize.
func (m *Manager) InitializeDependencies(ctx context.Context) error {
	return m.eachDependency(ctx, func(ctx context.Context, dep *Manager) error {
		return dep.Initialize(ctx)
	})
}

// ConnectDependencies waits for every dependency to connect.
func (m *Manager) ConnectDependencies(ctx context.Context) error {
	return m.eachDependency(ctx, func(ctx context.Context, dep *Manager) error {
		return dep.Connect(ctx)
	})
}

// AuthenticateDependencies waits for every dependency to authenticate.
func (m *Manager) AuthenticateDependencies(ctx context.Context) error {
	return m.eachDependency(ctx, func(ctx context.Context, dep *Manager) error {
		return dep.Authenticate(ctx)
	})
}

// pathKey carries the managers whose stage is waiting on the current one.
type pathKey struct{}

// eachDependency runs stage on all dependencies concurrently and returns the
// first error. A dependency that is already waiting further up the chain is
// reported as a *dependency.CycleError.
func (m *Manager) eachDependency(ctx context.Context, stage func(context.Context, *Manager) error) error {
	if len(m.dependencies) == 0 {
		return nil
	}

	path, _ := ctx.Value(pathKey{}).([]*Manager)
	path = append(slices.Clip(path), m)

	managers := make([]*Manager, 0, len(m.dependencies))
	for _, name := range m.dependencies {
		svc, err := m.Dependency(name)
		if err != nil {
			return err
		}
		dep := svc.Manager()
		if i := slices.Index(path, dep); i >= 0 {
			return cycleAt(path[i:], dep)
		}
		managers = append(managers, dep)
	}

	ctx = context.WithValue(ctx, pathKey{}, path)
	g, gctx := errgroup.WithContext(ctx)
	for _, dep := range managers {
		g.Go(func() error {
			return stage(gctx, dep)
		})
	}
	return g.Wait()
}

func cycleAt(chain []*Manager, back *Manager) error {
	ids := make([]dependency.NodeID, 0, len(chain)+1)
	for _, m := range chain {
		ids = append(ids, dependency.NodeID(m.Name()))
	}
	ids = append(ids, dependency.NodeID(back.Name()))
	return &dependency.CycleError{Path: ids}
}

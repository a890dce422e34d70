package maker

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"dai/internal/builtin"
	"dai/internal/events"
	"dai/internal/provider"
	"dai/internal/services"
	"dai/pkg/logging"
)

// Maker owns a container of services built from a preset.
type Maker struct {
	id        string
	preset    string
	opts      Options
	container *services.Container
	events    *events.EventGenerator

	mu       sync.Mutex
	shutdown bool
}

// ServiceStatus is a snapshot of one service's lifecycle.
type ServiceStatus struct {
	Name         string   `json:"name" yaml:"name"`
	Type         string   `json:"type" yaml:"type"`
	State        string   `json:"state" yaml:"state"`
	Ready        bool     `json:"ready" yaml:"ready"`
	Dependencies []string `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
}

// Create builds a Maker. Plugins run their AddConfig hooks, then their
// BeforeCreate hooks; the container is built and wired to the event service;
// AfterCreate hooks run; finally all services are authenticated when
// opts.AutoAuthenticate is set.
func Create(ctx context.Context, preset string, opts Options) (*Maker, error) {
	opts = opts.clone()

	for _, p := range opts.Plugins {
		if adder, ok := p.(ConfigAdder); ok {
			if err := adder.AddConfig(&opts); err != nil {
				return nil, &PluginError{Plugin: p.Name(), Hook: "AddConfig", Err: err}
			}
		}
	}
	for _, p := range opts.Plugins {
		if before, ok := p.(BeforeCreator); ok {
			if err := before.BeforeCreate(&opts); err != nil {
				return nil, &PluginError{Plugin: p.Name(), Hook: "BeforeCreate", Err: err}
			}
		}
	}

	configs, err := serviceConfigs(preset, opts)
	if err != nil {
		return nil, fmt.Errorf("invalid service configuration: %w", err)
	}

	resolver := builtin.Resolver().Merge(opts.Resolver)
	container, err := provider.New(configs, resolver).BuildContainer(
		services.WithExtractedServices(opts.ExtractedServices),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build services: %w", err)
	}

	m := &Maker{
		id:        uuid.New().String(),
		preset:    preset,
		opts:      opts,
		container: container,
	}

	if svc, err := container.Service(builtin.EventRole); err == nil {
		if sink, ok := svc.(events.Sink); ok {
			m.events, err = events.WatchContainer(container, sink)
			if err != nil {
				return nil, fmt.Errorf("failed to watch services: %w", err)
			}
		}
	}

	for _, p := range opts.Plugins {
		if after, ok := p.(AfterCreator); ok {
			if err := after.AfterCreate(m); err != nil {
				m.Shutdown()
				return nil, &PluginError{Plugin: p.Name(), Hook: "AfterCreate", Err: err}
			}
		}
	}

	logging.Info("Maker", "Created maker %s with preset %s (%d services)", m.id, preset, len(container.ServiceNames()))

	if opts.AutoAuthenticate {
		if err := m.Authenticate(ctx); err != nil {
			// Services that got further than the failing one may own timers.
			m.Shutdown()
			return nil, err
		}
	}
	return m, nil
}

// ID identifies this Maker in logs and events.
func (m *Maker) ID() string {
	return m.id
}

// Preset returns the preset the Maker was created with.
func (m *Maker) Preset() string {
	return m.preset
}

// Container returns the underlying container.
func (m *Maker) Container() *services.Container {
	return m.container
}

// Events returns the generator publishing lifecycle events, or nil when no
// event service is configured.
func (m *Maker) Events() *events.EventGenerator {
	return m.events
}

// Authenticate initializes, connects and authenticates every service in
// dependency order.
func (m *Maker) Authenticate(ctx context.Context) error {
	if err := m.container.Authenticate(ctx); err != nil {
		return fmt.Errorf("failed to authenticate services: %w", err)
	}
	logging.Info("Maker", "Services of maker %s authenticated", m.id)
	return nil
}

// Service returns the service registered under name.
func (m *Maker) Service(name string) (services.Service, error) {
	return m.container.Service(name)
}

// ServiceAs returns the service registered under name as S.
func ServiceAs[S services.Service](m *Maker, name string) (S, error) {
	var zero S
	svc, err := m.Service(name)
	if err != nil {
		return zero, err
	}
	typed, ok := svc.(S)
	if !ok {
		return zero, fmt.Errorf("service %s is a %T, not a %T", name, svc, zero)
	}
	return typed, nil
}

// Status returns the state of every service in dependency order.
func (m *Maker) Status() ([]ServiceStatus, error) {
	var out []ServiceStatus
	err := m.container.Walk(func(name string, svc services.Service) {
		manager := svc.Manager()
		out = append(out, ServiceStatus{
			Name:         name,
			Type:         manager.Type().String(),
			State:        string(manager.State()),
			Ready:        manager.IsReady(),
			Dependencies: manager.Dependencies(),
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Shutdown stops background work: every timer is disposed so polling stops.
// It is safe to call more than once.
func (m *Maker) Shutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.shutdown {
		return
	}
	m.shutdown = true

	if timers, err := ServiceAs[*builtin.TimerService](m, builtin.TimerRole); err == nil {
		timers.DisposeAllTimers()
	}
	logging.Info("Maker", "Maker %s shut down", m.id)
}

package app

import (
	"context"
	"fmt"

	"dai/internal/config"
	"dai/internal/maker"
	"dai/internal/metrics"
	"dai/pkg/logging"
)

// Services holds the components built from one configuration.
type Services struct {
	// Maker owns the service container.
	Maker *maker.Maker

	// Metrics records the container's lifecycle transitions.
	Metrics *metrics.Collector
}

// InitializeServices builds a Maker from cfg and attaches the metrics
// collector before any service runs, so the first transitions are counted.
// Services are authenticated afterwards when cfg.AutoAuthenticate is set.
func InitializeServices(ctx context.Context, cfg config.Config, collector *metrics.Collector) (*Services, error) {
	opts, err := maker.OptionsFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("invalid plugin configuration: %w", err)
	}
	autoAuthenticate := opts.AutoAuthenticate
	opts.AutoAuthenticate = false

	m, err := maker.Create(ctx, cfg.Preset, opts)
	if err != nil {
		return nil, err
	}

	if collector != nil {
		if err := collector.Attach(m.Container()); err != nil {
			m.Shutdown()
			return nil, fmt.Errorf("failed to attach metrics: %w", err)
		}
	}

	if autoAuthenticate {
		if err := m.Authenticate(ctx); err != nil {
			m.Shutdown()
			return nil, err
		}
	}

	logging.Info("Bootstrap", "Services ready (preset %s, maker %s)", cfg.Preset, m.ID())
	return &Services{Maker: m, Metrics: collector}, nil
}

// Shutdown stops the background work of the services.
func (s *Services) Shutdown() {
	if s != nil && s.Maker != nil {
		s.Maker.Shutdown()
	}
}

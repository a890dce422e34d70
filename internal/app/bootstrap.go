package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"dai/internal/config"
	"dai/internal/maker"
	"dai/internal/metrics"
	"dai/pkg/logging"
)

// Application loads the configuration and owns the services built from it.
//
//	cfg := app.NewConfig(false, "")
//	application, err := app.NewApplication(ctx, cfg)
//	if err != nil {
//	    return fmt.Errorf("failed to create application: %w", err)
//	}
//	defer application.Shutdown()
//	return application.Run(ctx)
type Application struct {
	config  *Config
	metrics *metrics.Collector

	mu          sync.RWMutex
	daiCfg      config.Config
	services    *Services
	metricsAddr string
}

// NewApplication performs the bootstrap sequence:
//
//  1. Loads config.yaml (unless cfg.DaiConfig is already set) and validates it
//  2. Configures logging from the configured level and the debug flag
//  3. Builds the services and authenticates them when configured to
func NewApplication(ctx context.Context, cfg *Config) (*Application, error) {
	var daiCfg config.Config
	if cfg.DaiConfig != nil {
		daiCfg = *cfg.DaiConfig
	} else {
		loaded, err := config.LoadConfig(cfg.configDir())
		if err != nil {
			logging.Error("Bootstrap", err, "Failed to load configuration from %s", cfg.configDir())
			return nil, fmt.Errorf("failed to load configuration: %w", err)
		}
		daiCfg = loaded
	}

	if err := daiCfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	initLogging(cfg, daiCfg)
	logging.Debug("Bootstrap", "Using configuration directory %s", cfg.configDir())

	collector, err := metrics.NewCollector()
	if err != nil {
		return nil, err
	}

	services, err := InitializeServices(ctx, daiCfg, collector)
	if err != nil {
		logging.Error("Bootstrap", err, "Failed to initialize services")
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	cfg.DaiConfig = &daiCfg
	return &Application{
		config:   cfg,
		metrics:  collector,
		daiCfg:   daiCfg,
		services: services,
	}, nil
}

func initLogging(cfg *Config, daiCfg config.Config) {
	// Validate has already rejected unknown levels.
	level, _ := logging.ParseLevel(daiCfg.LogLevel)
	if cfg.Debug {
		level = logging.LevelDebug
	}

	var out io.Writer = os.Stderr
	if cfg.Silent {
		out = io.Discard
	}
	logging.InitForCLI(level, out)
}

// Maker returns the current Maker. It changes when the configuration is
// reloaded.
func (a *Application) Maker() *maker.Maker {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.services.Maker
}

// DaiConfig returns the configuration the current services were built from.
func (a *Application) DaiConfig() config.Config {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.daiCfg
}

// Status returns the state of every service.
func (a *Application) Status() ([]maker.ServiceStatus, error) {
	return a.Maker().Status()
}

// Reload reads config.yaml again and swaps in services built from it. On
// any error the running services are kept.
func (a *Application) Reload(ctx context.Context) error {
	cfg, err := config.LoadConfig(a.config.configDir())
	if err != nil {
		return fmt.Errorf("failed to reload configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	services, err := InitializeServices(ctx, cfg, a.metrics)
	if err != nil {
		return fmt.Errorf("failed to rebuild services: %w", err)
	}

	a.mu.Lock()
	old := a.services
	a.services = services
	a.daiCfg = cfg
	a.mu.Unlock()

	old.Shutdown()
	logging.Info("Bootstrap", "Configuration reloaded, maker %s replaced by %s", old.Maker.ID(), services.Maker.ID())
	return nil
}

// Run keeps the services running until ctx is cancelled or the process is
// interrupted, serving metrics and reloading on config changes if enabled.
func (a *Application) Run(ctx context.Context) error {
	return runServe(ctx, a)
}

// Shutdown stops the current services.
func (a *Application) Shutdown() {
	a.mu.RLock()
	services := a.services
	a.mu.RUnlock()
	services.Shutdown()
}

// metricsAddress returns the address the metrics endpoint should listen on,
// or "" when it is disabled.
func (a *Application) metricsAddress() string {
	if a.config.MetricsAddress != "" {
		return a.config.MetricsAddress
	}
	cfg := a.DaiConfig()
	if !cfg.Metrics.Enabled {
		return ""
	}
	if cfg.Metrics.Address == "" {
		return config.DefaultMetricsAddress
	}
	return cfg.Metrics.Address
}

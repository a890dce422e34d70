package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dai/internal/config"
	"dai/pkg/logging"
)

const shutdownTimeout = 5 * time.Second

// runServe blocks until SIGINT, SIGTERM or cancellation of ctx.
//
// While running it:
//   - serves /metrics when a metrics address is configured
//   - rebuilds the services whenever config.yaml changes, if watching is on
//
// A failed reload is logged and the previous services keep running.
func runServe(ctx context.Context, a *Application) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if addr := a.metricsAddress(); addr != "" {
		srv, err := a.startMetricsServer(addr)
		if err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logging.Warn("Metrics", "Metrics server did not shut down cleanly: %v", err)
			}
		}()
	}

	var changes chan struct{}
	if a.config.Watch {
		changes = make(chan struct{}, 1)
		watcher := config.NewWatcher(a.config.configDir(), 0)
		if err := watcher.Start(ctx, changes); err != nil {
			return err
		}
		defer watcher.Stop()
		logging.Info("Config", "Watching %s for changes", config.FilePath(a.config.configDir()))
	}

	logging.Info("Bootstrap", "Services running. Press Ctrl+C to stop.")
	for {
		select {
		case <-ctx.Done():
			logging.Info("Bootstrap", "Shutting down services")
			a.Shutdown()
			return nil
		case <-changes:
			logging.Info("Config", "Configuration changed, reloading")
			if err := a.Reload(ctx); err != nil {
				logging.Error("Config", err, "Reload failed, keeping the running services")
			}
		}
	}
}

func (a *Application) startMetricsServer(addr string) (*http.Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", a.metrics.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})

	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("Metrics", err, "Metrics server stopped")
		}
	}()

	a.mu.Lock()
	a.metricsAddr = ln.Addr().String()
	a.mu.Unlock()

	logging.Info("Metrics", "Serving metrics on http://%s/metrics", ln.Addr())
	return srv, nil
}

// MetricsAddr returns the address the metrics endpoint listens on, once
// Run has started it.
func (a *Application) MetricsAddr() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.metricsAddr
}

// Package metrics exports service lifecycle transitions as prometheus
// metrics.
package metrics

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"dai/internal/services"
	"dai/pkg/logging"
)

// Collector holds the lifecycle metrics of one or more containers.
type Collector struct {
	registry *prometheus.Registry

	transitions *prometheus.CounterVec
	state       *prometheus.GaugeVec
	failures    *prometheus.CounterVec
	serviceInfo *prometheus.GaugeVec
}

// NewCollector creates a collector with its own registry.
func NewCollector() (*Collector, error) {
	c := &Collector{
		registry: prometheus.NewRegistry(),

		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dai",
			Subsystem: "service",
			Name:      "transitions_total",
			Help:      "Total number of lifecycle state transitions",
		}, []string{"service", "from", "to"}),

		state: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "dai",
			Subsystem: "service",
			Name:      "state",
			Help:      "Current lifecycle state (1 for the current state, 0 otherwise)",
		}, []string{"service", "state"}),

		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dai",
			Subsystem: "service",
			Name:      "failures_total",
			Help:      "Total number of failed lifecycle callbacks",
		}, []string{"service", "stage"}),

		serviceInfo: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "dai",
			Subsystem: "service",
			Name:      "info",
			Help:      "Static service information, always 1",
		}, []string{"service", "type"}),
	}

	for _, collector := range []prometheus.Collector{c.transitions, c.state, c.failures, c.serviceInfo} {
		if err := c.registry.Register(collector); err != nil {
			return nil, fmt.Errorf("failed to register metric: %w", err)
		}
	}
	return c, nil
}

// Registry returns the registry the metrics live in.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the metrics in the prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Attach starts recording the lifecycle of every service in container.
func (c *Collector) Attach(container *services.Container) error {
	return container.Walk(func(name string, svc services.Service) {
		c.attachManager(name, svc.Manager())
	})
}

func (c *Collector) attachManager(name string, m *services.Manager) {
	c.serviceInfo.WithLabelValues(name, m.Type().String()).Set(1)

	for _, s := range m.Type().States() {
		c.state.WithLabelValues(name, string(s)).Set(0)
	}
	c.state.WithLabelValues(name, string(m.State())).Set(1)

	m.OnStateChanged(func(oldState, newState services.ServiceState) {
		c.transitions.WithLabelValues(name, string(oldState), string(newState)).Inc()
		c.state.WithLabelValues(name, string(oldState)).Set(0)
		c.state.WithLabelValues(name, string(newState)).Set(1)
	})

	m.OnError(func(stage services.Stage, err error) {
		c.failures.WithLabelValues(name, string(stage)).Inc()
	})

	logging.Debug("Metrics", "Recording lifecycle metrics for %s", name)
}

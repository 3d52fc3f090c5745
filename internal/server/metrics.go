package server

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the Prometheus collectors for the HTTP surface.
type Metrics struct {
	gatherer prometheus.Gatherer

	Requests  *prometheus.CounterVec
	Durations *prometheus.HistogramVec

	UndefinedAscendants prometheus.Counter
	ConfigReloads       prometheus.Counter
}

// NewMetrics registers the collectors against reg, defaulting to the global
// Prometheus registry when nil. Registering twice against the same registry
// reuses the existing collectors.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	requests, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "astrowheel_http_requests_total",
		Help: "Handled HTTP requests, labeled by route template and status code.",
	}, []string{"route", "code"}), "astrowheel_http_requests_total")
	if err != nil {
		return nil, err
	}

	durations, err := register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "astrowheel_chart_duration_seconds",
		Help:    "Time to compute and encode one chart, labeled by output format.",
		Buckets: []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	}, []string{"format"}), "astrowheel_chart_duration_seconds")
	if err != nil {
		return nil, err
	}

	undefined, err := register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "astrowheel_ascendant_undefined_total",
		Help: "Charts whose ascendant had no horizon crossing.",
	}), "astrowheel_ascendant_undefined_total")
	if err != nil {
		return nil, err
	}

	reloads, err := register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "astrowheel_config_reloads_total",
		Help: "Configuration files applied after startup.",
	}), "astrowheel_config_reloads_total")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		gatherer:            gatherer,
		Requests:            requests,
		Durations:           durations,
		UndefinedAscendants: undefined,
		ConfigReloads:       reloads,
	}, nil
}

// Handler exposes a ready-to-use /metrics handler.
func (m *Metrics) Handler() http.Handler {
	gatherer := m.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C, name string) (C, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
			var zero C
			return zero, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		var zero C
		return zero, err
	}
	return c, nil
}

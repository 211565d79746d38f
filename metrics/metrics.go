// Package metrics exposes Prometheus collectors for domain resolution and the
// server that publishes them.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ruteri/domain-resolution/interfaces"
)

// Outcome labels.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Metrics holds the resolution collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	lookups  *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics registers the resolution collectors under namespace.
func NewMetrics(namespace string) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		lookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "resolution",
				Name:      "lookups_total",
				Help:      "Total number of domain lookups by naming service, method and outcome.",
			},
			[]string{"service", "method", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "resolution",
				Name:      "lookup_duration_seconds",
				Help:      "Duration of domain lookups.",
				Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
			},
			[]string{"service", "method"},
		),
	}

	m.registry.MustRegister(
		m.lookups,
		m.duration,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
	return m
}

// ObserveLookup records one lookup. The outcome is the error code for typed
// resolution errors and "error" for anything else.
func (m *Metrics) ObserveLookup(service, method string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	if service == "" {
		service = "unknown"
	}

	m.lookups.WithLabelValues(service, method, outcome(err)).Inc()
	m.duration.WithLabelValues(service, method).Observe(duration.Seconds())
}

// Registry returns the registry the collectors are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the collected metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func outcome(err error) string {
	if err == nil {
		return OutcomeOK
	}
	if code, ok := interfaces.CodeOf(err); ok {
		return string(code)
	}
	return OutcomeError
}

// MetricsServer publishes Metrics on /metrics.
type MetricsServer struct {
	metrics *Metrics
	srv     *http.Server
}

// New creates the resolution collectors and a server for them listening on addr.
func New(namespace, addr string) (*MetricsServer, error) {
	if namespace == "" {
		return nil, errors.New("metrics namespace is required")
	}

	m := NewMetrics(namespace)

	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	return &MetricsServer{
		metrics: m,
		srv: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}, nil
}

func (s *MetricsServer) Metrics() *Metrics {
	return s.metrics
}

func (s *MetricsServer) ListenAndServe() error {
	return s.srv.ListenAndServe()
}

func (s *MetricsServer) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

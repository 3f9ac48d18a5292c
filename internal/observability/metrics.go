// Package observability defines the Prometheus metrics for the service.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and histograms for the HTTP API,
// the NASA client, and the astronomical calculation core.
type Metrics struct {
	HTTPRequests *prometheus.CounterVec   // labels: method, route, status
	HTTPDuration *prometheus.HistogramVec // labels: method, route

	NASARequests *prometheus.CounterVec   // labels: endpoint, outcome={success,error}
	NASADuration *prometheus.HistogramVec // labels: endpoint
	APODCache    *prometheus.CounterVec   // labels: result={hit,miss}

	EphemerisAcquire *prometheus.CounterVec // labels: outcome={hit,loaded,failed}
	PhasePath        *prometheus.CounterVec // labels: path={primary,fallback}
}

func newMetrics() *Metrics {
	return &Metrics{
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "skywatch",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route, and status code.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "skywatch",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"method", "route"}),
		NASARequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "skywatch",
			Name:      "nasa_requests_total",
			Help:      "NASA API requests by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		NASADuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "skywatch",
			Name:      "nasa_request_duration_seconds",
			Help:      "NASA API request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"endpoint"}),
		APODCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "skywatch",
			Name:      "apod_cache_total",
			Help:      "APOD cache lookups by result.",
		}, []string{"result"}),
		EphemerisAcquire: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "skywatch",
			Name:      "ephemeris_acquire_total",
			Help:      "Ephemeris backend acquisition attempts by outcome.",
		}, []string{"outcome"}),
		PhasePath: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "skywatch",
			Name:      "moon_phase_path_total",
			Help:      "Moon phase calculations by model path.",
		}, []string{"path"}),
	}
}

// NewMetrics creates the metric set and registers it with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.HTTPRequests,
		m.HTTPDuration,
		m.NASARequests,
		m.NASADuration,
		m.APODCache,
		m.EphemerisAcquire,
		m.PhasePath,
	)
	return m
}

// NewMetricsForTesting creates an unregistered metric set so parallel tests
// do not trip duplicate-registration panics.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

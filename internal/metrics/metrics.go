package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the signature service
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal          *prometheus.CounterVec
	HTTPRequestDurationSeconds *prometheus.HistogramVec
	HTTPErrorsTotal            *prometheus.CounterVec

	// Domain counters
	SignaturesRenderedTotal *prometheus.CounterVec
	DirectoryLookupsTotal   *prometheus.CounterVec
	TestSendsTotal          *prometheus.CounterVec

	// Rate limiting
	RateLimitExceededTotal prometheus.Counter

	registry *prometheus.Registry
}

// New creates a new Metrics instance with all metrics registered
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "signatures_http_requests_total",
				Help: "Total number of API requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDurationSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "signatures_http_request_duration_seconds",
				Help:    "API request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		HTTPErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "signatures_http_errors_total",
				Help: "Total number of API errors",
			},
			[]string{"error_type"},
		),

		SignaturesRenderedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "signatures_rendered_total",
				Help: "Total number of signatures rendered",
			},
			[]string{"variant", "mode"},
		),
		DirectoryLookupsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "signatures_directory_lookups_total",
				Help: "Total number of directory lookups",
			},
			[]string{"result"},
		),
		TestSendsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "signatures_test_sends_total",
				Help: "Total number of template test emails sent",
			},
			[]string{"result"},
		),

		RateLimitExceededTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "signatures_ratelimit_exceeded_total",
				Help: "Total number of rate limit exceeded events",
			},
		),

		registry: reg,
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDurationSeconds,
		m.HTTPErrorsTotal,
		m.SignaturesRenderedTotal,
		m.DirectoryLookupsTotal,
		m.TestSendsTotal,
		m.RateLimitExceededTotal,
	)

	return m
}

// Registry returns the Prometheus registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the scrape endpoint handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// IncSignatureRendered increments the rendered signature counter
func (m *Metrics) IncSignatureRendered(variant, mode string) {
	if m == nil {
		return
	}
	m.SignaturesRenderedTotal.WithLabelValues(variant, mode).Inc()
}

// IncDirectoryLookup increments the directory lookup counter
func (m *Metrics) IncDirectoryLookup(result string) {
	if m == nil {
		return
	}
	m.DirectoryLookupsTotal.WithLabelValues(result).Inc()
}

// IncTestSend increments the test send counter
func (m *Metrics) IncTestSend(result string) {
	if m == nil {
		return
	}
	m.TestSendsTotal.WithLabelValues(result).Inc()
}

// IncRateLimitExceeded increments the rate limit exceeded counter
func (m *Metrics) IncRateLimitExceeded() {
	if m == nil {
		return
	}
	m.RateLimitExceededTotal.Inc()
}

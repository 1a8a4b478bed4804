// Package metrics provides Prometheus metrics for the recommendation service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Core business metrics
	recommendationRequests prometheus.Counter
	recommendationLatency  prometheus.Histogram
	candidatesConsidered   prometheus.Histogram
	recommendationsServed  prometheus.Histogram
	unknownUsers           prometheus.Counter
	emptyCandidateSets     prometheus.Counter

	// Collaborator health metrics
	lookupLatency *prometheus.HistogramVec
	lookupErrors  *prometheus.CounterVec

	// HTTP performance metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpErrors          *prometheus.CounterVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "touchgrass",
		subsystem:        "recommendations",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.recommendationRequests = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "requests_total",
		Help:      "Total number of recommendation requests served",
	})

	m.recommendationLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "request_latency_milliseconds",
		Help:      "End-to-end recommendation computation latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.candidatesConsidered = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "candidates_considered",
		Help:      "Number of candidate events scored per request",
		Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250, 500},
	})

	m.recommendationsServed = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "served_per_request",
		Help:      "Number of recommendations returned per request",
		Buckets:   []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
	})

	m.unknownUsers = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "unknown_users_total",
		Help:      "Total number of requests for users that do not exist",
	})

	m.emptyCandidateSets = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "empty_candidate_sets_total",
		Help:      "Total number of requests where the proximity query returned no events",
	})

	m.lookupLatency = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "lookup_latency_milliseconds",
			Help:      "Collaborator lookup latency in milliseconds by component",
			Buckets:   m.histogramBuckets,
		},
		[]string{"component"},
	)

	m.lookupErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "lookup_errors_total",
			Help:      "Total number of collaborator lookup failures by component",
		},
		[]string{"component"},
	)

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_errors_total",
			Help:      "Total number of HTTP error responses by endpoint and class",
		},
		[]string{"endpoint", "method", "error_type"},
	)
}

// GetRegistry returns the custom Prometheus registry for serving /healthz.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Package-level helpers recording against the global manager.

// RecordRecommendationRequest counts one served recommendation request.
func RecordRecommendationRequest() {
	globalManager.recommendationRequests.Inc()
}

// RecordRecommendationLatency observes end-to-end latency in milliseconds.
func RecordRecommendationLatency(ms float64) {
	globalManager.recommendationLatency.Observe(ms)
}

// RecordCandidatesConsidered observes how many candidates one request scored.
func RecordCandidatesConsidered(n int) {
	globalManager.candidatesConsidered.Observe(float64(n))
}

// RecordRecommendationsServed observes how many entries one response carried.
func RecordRecommendationsServed(n int) {
	globalManager.recommendationsServed.Observe(float64(n))
}

// RecordUnknownUser counts a request for a user that does not exist.
func RecordUnknownUser() {
	globalManager.unknownUsers.Inc()
}

// RecordEmptyCandidateSet counts a request whose proximity query came back empty.
func RecordEmptyCandidateSet() {
	globalManager.emptyCandidateSets.Inc()
}

// RecordLookupLatency observes one collaborator lookup by component
// ("profile" or "events").
func RecordLookupLatency(component string, ms float64) {
	globalManager.lookupLatency.WithLabelValues(component).Observe(ms)
}

// RecordLookupError counts one collaborator lookup failure by component.
func RecordLookupError(component string) {
	globalManager.lookupErrors.WithLabelValues(component).Inc()
}

// RecordHTTPRequest counts one HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration observes HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, ms float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(ms)
}

// RecordHTTPError counts one HTTP error response.
func RecordHTTPError(endpoint, method, errorType string) {
	globalManager.httpErrors.WithLabelValues(endpoint, method, errorType).Inc()
}

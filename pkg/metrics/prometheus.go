// Package metrics provides Prometheus metrics for the portalkit client SDK.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager manages all Prometheus metrics for the portalkit client.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	registry         prometheus.Registerer

	// Analytics pipeline metrics
	eventsQueued    prometheus.Counter
	eventsDelivered prometheus.Counter
	eventsDropped   prometheus.Counter
	eventsRedacted  prometheus.Counter
	eventsRequeued  prometheus.Counter

	// Buffer health metrics
	bufferSize        prometheus.Gauge
	bufferCapacity    prometheus.Gauge
	bufferUtilization prometheus.Gauge

	// Flush metrics
	flushBatchSize prometheus.Histogram
	flushLatency   prometheus.Histogram
	flushErrors    prometheus.Counter
	flushTotal     prometheus.Counter

	// Session/auth metrics
	authLogins        prometheus.Counter
	authLoginFailures prometheus.Counter
	authLogouts       prometheus.Counter
	authRegistrations prometheus.Counter
	tokenWarnings     prometheus.Counter
	forcedLogouts     prometheus.Counter

	// Transport metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
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
		namespace:        "rozgar",
		subsystem:        "portalkit",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		registry:         prometheus.DefaultRegisterer,
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.eventsQueued = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "events_queued_total",
		Help:      "Total number of analytics events accepted into the buffer",
	})

	m.eventsDelivered = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "events_delivered_total",
		Help:      "Total number of analytics events acknowledged by the backend",
	})

	m.eventsDropped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "events_dropped_total",
		Help:      "Total number of analytics events dropped (buffer full or closed)",
	})

	m.eventsRedacted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "events_redacted_total",
		Help:      "Total number of events that had sensitive fields redacted",
	})

	m.eventsRequeued = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "events_requeued_total",
		Help:      "Total number of events requeued after a failed delivery",
	})

	m.bufferSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "buffer_size",
		Help:      "Current number of events waiting in the buffer",
	})

	m.bufferCapacity = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "buffer_capacity",
		Help:      "Configured capacity of the event buffer",
	})

	m.bufferUtilization = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "buffer_utilization_ratio",
		Help:      "Buffer utilization ratio (size / capacity)",
	})

	m.flushBatchSize = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "flush_batch_size",
		Help:      "Histogram of events per delivered batch",
		Buckets:   []float64{1, 2, 5, 10, 20, 50, 100},
	})

	m.flushLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "flush_latency_milliseconds",
		Help:      "Histogram of batch delivery latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.flushErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "flush_errors_total",
		Help:      "Total number of failed batch deliveries",
	})

	m.flushTotal = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "flush_total",
		Help:      "Total number of flush attempts (timer, threshold, and teardown)",
	})

	m.authLogins = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "auth_logins_total",
		Help:      "Total number of successful logins",
	})

	m.authLoginFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "auth_login_failures_total",
		Help:      "Total number of failed login attempts",
	})

	m.authLogouts = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "auth_logouts_total",
		Help:      "Total number of logouts (explicit and forced)",
	})

	m.authRegistrations = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "auth_registrations_total",
		Help:      "Total number of successful registrations",
	})

	m.tokenWarnings = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "token_expiry_warnings_total",
		Help:      "Total number of token expiring-soon warnings emitted",
	})

	m.forcedLogouts = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "forced_logouts_total",
		Help:      "Total number of sessions cleared due to invalid or expired tokens",
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of backend HTTP requests by endpoint and status",
		},
		[]string{"endpoint", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "Backend HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "status_code"},
	)
}

// Registry returns the registry the global manager registers metrics on.
// Host applications can expose it via promhttp if they want scraping.
func Registry() *prometheus.Registry {
	return customRegistry
}

// Package-level helpers operating on the global manager.

func RecordEventQueued()   { globalManager.eventsQueued.Inc() }
func RecordEventDropped()  { globalManager.eventsDropped.Inc() }
func RecordEventRedacted() { globalManager.eventsRedacted.Inc() }

// RecordEventsDelivered records n events acknowledged by the backend.
func RecordEventsDelivered(n int) { globalManager.eventsDelivered.Add(float64(n)) }

// RecordEventsRequeued records n events put back after a failed delivery.
func RecordEventsRequeued(n int) { globalManager.eventsRequeued.Add(float64(n)) }

// UpdateBufferSize sets the current buffer size gauge.
func UpdateBufferSize(n int) { globalManager.bufferSize.Set(float64(n)) }

// UpdateBufferCapacity sets the configured buffer capacity gauge.
func UpdateBufferCapacity(n int) { globalManager.bufferCapacity.Set(float64(n)) }

// UpdateBufferUtilization sets the buffer utilization ratio gauge.
func UpdateBufferUtilization(ratio float64) { globalManager.bufferUtilization.Set(ratio) }

// RecordFlush records a flush attempt with its batch size.
func RecordFlush(batchSize int) {
	globalManager.flushTotal.Inc()
	globalManager.flushBatchSize.Observe(float64(batchSize))
}

// RecordFlushLatency records batch delivery latency in milliseconds.
func RecordFlushLatency(ms float64) { globalManager.flushLatency.Observe(ms) }

// RecordFlushError records a failed batch delivery.
func RecordFlushError() { globalManager.flushErrors.Inc() }

func RecordLogin()        { globalManager.authLogins.Inc() }
func RecordLoginFailure() { globalManager.authLoginFailures.Inc() }
func RecordLogout()       { globalManager.authLogouts.Inc() }
func RecordRegistration() { globalManager.authRegistrations.Inc() }
func RecordTokenWarning() { globalManager.tokenWarnings.Inc() }
func RecordForcedLogout() { globalManager.forcedLogouts.Inc() }

// RecordHTTPRequest records a backend HTTP request outcome and duration.
func RecordHTTPRequest(endpoint, statusCode string, durationMS float64) {
	globalManager.httpRequests.WithLabelValues(endpoint, statusCode).Inc()
	globalManager.httpRequestDuration.WithLabelValues(endpoint, statusCode).Observe(durationMS)
}

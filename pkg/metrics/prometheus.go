// Package metrics provides Prometheus metrics for the gridpulse dashboard.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector exported by the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Dataset - loaded once at startup
	datasetRows         prometheus.Gauge
	datasetRowsDropped  prometheus.Counter
	datasetLoadDuration prometheus.Gauge

	// Recompute cycle
	recomputes          *prometheus.CounterVec
	recomputeLatency    prometheus.Histogram
	staleViewsDiscarded prometheus.Counter
	selectionSize       prometheus.Gauge
	filteredRows        prometheus.Gauge
	aggregateRows       prometheus.Gauge
	viewSequence        prometheus.Gauge

	// Rendering
	renderLatency *prometheus.HistogramVec
	renderErrors  *prometheus.CounterVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByType     *prometheus.CounterVec
	errorRateByEndpoint *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton used by the Record*/Update* helpers

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // served at /healthz

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "gridpulse",
		subsystem:        "dashboard",
		histogramBuckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000},
		constLabels:      map[string]string{},
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) histogram(name, help string) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
		Buckets: m.histogramBuckets,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) histogramVec(name, help string, labels ...string) *prometheus.HistogramVec {
	return promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
		Buckets: m.histogramBuckets,
	}, labels)
}

func (m *Manager) initializeMetrics() {
	m.datasetRows = m.gauge("dataset_rows", "Number of qualifying race result rows held in memory")
	m.datasetRowsDropped = m.counter("dataset_rows_dropped_total", "Rows discarded at load because the car had no grid slot")
	m.datasetLoadDuration = m.gauge("dataset_load_duration_milliseconds", "Time spent reading and parsing the dataset")

	m.recomputes = m.counterVec("recomputes_total", "Selection recomputes by result", "result")
	m.recomputeLatency = m.histogram("recompute_latency_milliseconds", "Filter, aggregate and chart build latency")
	m.staleViewsDiscarded = m.counter("stale_views_discarded_total", "Finished recomputes dropped because a newer view was already displayed")
	m.selectionSize = m.gauge("selection_size", "Circuits in the displayed selection")
	m.filteredRows = m.gauge("filtered_rows", "Rows behind the displayed charts")
	m.aggregateRows = m.gauge("aggregate_rows", "Aggregate rows behind the displayed proportion chart")
	m.viewSequence = m.gauge("view_sequence", "Sequence number of the displayed view")

	m.renderLatency = m.histogramVec("render_latency_milliseconds", "Chart render latency", "kind", "format")
	m.renderErrors = m.counterVec("render_errors_total", "Chart render failures", "kind")

	m.httpRequests = m.counterVec("http_requests_total", "Total number of HTTP requests by endpoint and method",
		"endpoint", "method", "status_code")
	m.httpRequestDuration = m.histogramVec("http_request_duration_milliseconds", "HTTP request duration in milliseconds",
		"endpoint", "method", "status_code")
	m.errorRateByType = m.counterVec("errors_by_type_total", "Errors by type and severity", "error_type", "severity")
	m.errorRateByEndpoint = m.counterVec("errors_by_endpoint_total", "Errors by endpoint", "endpoint", "method", "error_type")

	m.systemMemoryUsage = m.gauge("system_memory_bytes", "Heap bytes allocated")
	m.systemGoroutineCount = m.gauge("system_goroutines", "Number of goroutines")
	m.systemGCPauseTime = m.histogram("system_gc_pause_milliseconds", "Average GC pause time")
}

// UpdateDatasetRows sets the number of rows held in memory.
func UpdateDatasetRows(n int) {
	globalManager.datasetRows.Set(float64(n))
}

// RecordDatasetRowsDropped adds to the count of non-qualifying rows discarded at load.
func RecordDatasetRowsDropped(n int) {
	if n > 0 {
		globalManager.datasetRowsDropped.Add(float64(n))
	}
}

// RecordDatasetLoadDuration records how long the dataset took to load.
func RecordDatasetLoadDuration(ms float64) {
	globalManager.datasetLoadDuration.Set(ms)
}

// RecordRecompute counts one recompute with result "ok" or "error".
func RecordRecompute(result string) {
	globalManager.recomputes.WithLabelValues(result).Inc()
}

// RecordRecomputeLatency observes a recompute duration in milliseconds.
func RecordRecomputeLatency(ms float64) {
	globalManager.recomputeLatency.Observe(ms)
}

// RecordStaleViewDiscarded counts a finished recompute that lost to a newer one.
func RecordStaleViewDiscarded() {
	globalManager.staleViewsDiscarded.Inc()
}

// UpdateDisplayedView publishes the shape of the view currently displayed.
func UpdateDisplayedView(seq uint64, selection, rows, aggregates int) {
	globalManager.viewSequence.Set(float64(seq))
	globalManager.selectionSize.Set(float64(selection))
	globalManager.filteredRows.Set(float64(rows))
	globalManager.aggregateRows.Set(float64(aggregates))
}

// RecordRenderLatency observes chart render time.
func RecordRenderLatency(kind, format string, ms float64) {
	globalManager.renderLatency.WithLabelValues(kind, format).Observe(ms)
}

// RecordRenderError counts a failed render.
func RecordRenderError(kind string) {
	globalManager.renderErrors.WithLabelValues(kind).Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByType records an error by type and severity.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error by endpoint.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystemMemoryUsage sets allocated heap bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine count.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

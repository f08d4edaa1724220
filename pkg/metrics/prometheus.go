// Package metrics provides Prometheus metrics for the drafter service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector the service exports.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Recommendation metrics
	recommendationsServed prometheus.Counter
	recommendationLatency prometheus.Histogram
	candidatesScored      prometheus.Counter

	// Catalog metrics
	catalogHeroes       prometheus.Gauge
	catalogLoads        *prometheus.CounterVec
	catalogLoadDuration prometheus.Histogram
	watcherReloads      prometheus.Counter

	// Dataset metrics
	datasetAgeSeconds prometheus.Gauge
	datasetStale      prometheus.Gauge
	refreshRuns       *prometheus.CounterVec

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByEndpoint *prometheus.CounterVec

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "drafter",
		subsystem:        "api",
		histogramBuckets: prometheus.DefBuckets,
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
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
		ConstLabels: m.constLabels,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
		ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
		ConstLabels: m.constLabels,
	})
}

func (m *Manager) histogram(name, help string) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
		ConstLabels: m.constLabels, Buckets: m.histogramBuckets,
	})
}

func (m *Manager) initializeMetrics() {
	m.recommendationsServed = m.counter("recommendations_total", "Total number of recommendation requests answered")
	m.recommendationLatency = m.histogram("recommendation_latency_milliseconds", "Time to score and rank the candidate pool")
	m.candidatesScored = m.counter("candidates_scored_total", "Total number of candidate heroes scored")

	m.catalogHeroes = m.gauge("catalog_heroes", "Number of heroes in the loaded catalog")
	m.catalogLoads = m.counterVec("catalog_loads_total", "Catalog load attempts by result", "result")
	m.catalogLoadDuration = m.histogram("catalog_load_duration_milliseconds", "Catalog load duration")
	m.watcherReloads = m.counter("watcher_reloads_total", "Reloads triggered by data directory changes")

	m.datasetAgeSeconds = m.gauge("dataset_age_seconds", "Age of the scraped dataset file")
	m.datasetStale = m.gauge("dataset_stale", "1 when the dataset file is missing or older than the freshness window")
	m.refreshRuns = m.counterVec("refresh_runs_total", "Data refresh command runs by result", "result")

	m.httpRequests = m.counterVec("http_requests_total",
		"Total number of HTTP requests by endpoint and method", "endpoint", "method", "status_code")
	m.httpRequestDuration = promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_request_duration_milliseconds",
		Help:        "HTTP request duration in milliseconds",
		ConstLabels: m.constLabels,
		Buckets:     m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})
	m.errorRateByEndpoint = m.counterVec("errors_by_endpoint_total",
		"Errors by endpoint, method and error type", "endpoint", "method", "error_type")

	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "Heap memory in use")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Number of goroutines")
}

func ms(d time.Duration) float64 { return float64(d) / float64(time.Millisecond) }

// RecordRecommendation records one answered request and how many candidates
// it scored.
func RecordRecommendation(candidates int, latency time.Duration) {
	globalManager.recommendationsServed.Inc()
	globalManager.candidatesScored.Add(float64(candidates))
	globalManager.recommendationLatency.Observe(ms(latency))
}

// RecordCatalogLoad records a load attempt. result is "success" or "failure".
func RecordCatalogLoad(result string, d time.Duration) {
	globalManager.catalogLoads.WithLabelValues(result).Inc()
	globalManager.catalogLoadDuration.Observe(ms(d))
}

// UpdateCatalogHeroes sets the loaded hero count.
func UpdateCatalogHeroes(count int) {
	globalManager.catalogHeroes.Set(float64(count))
}

// RecordWatcherReload increments the watcher reload counter.
func RecordWatcherReload() {
	globalManager.watcherReloads.Inc()
}

// UpdateDatasetFreshness sets the dataset age and stale flag.
func UpdateDatasetFreshness(age time.Duration, fresh bool) {
	globalManager.datasetAgeSeconds.Set(age.Seconds())
	if fresh {
		globalManager.datasetStale.Set(0)
	} else {
		globalManager.datasetStale.Set(1)
	}
}

// RecordRefreshRun records a refresh command run by result.
func RecordRefreshRun(result string) {
	globalManager.refreshRuns.WithLabelValues(result).Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

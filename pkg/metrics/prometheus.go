// Package metrics provides Prometheus metrics for the resume ranking service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every collector exported by the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	llmBuckets       []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Ingestion
	resumesUploaded *prometheus.CounterVec
	parseFailures   *prometheus.CounterVec
	extractedChars  prometheus.Histogram

	// LLM boundary
	llmCalls       *prometheus.CounterVec
	llmLatency     *prometheus.HistogramVec
	schemaWarnings *prometheus.CounterVec

	// Ranking and screening
	rankingsTotal     prometheus.Counter
	rankedResumes     *prometheus.CounterVec
	questionsFallback prometheus.Counter

	// Certificates and accounts
	certificatesUploaded *prometheus.CounterVec
	authAttempts         *prometheus.CounterVec

	// Live updates
	liveConnections prometheus.Gauge
	liveBroadcasts  prometheus.Counter
	liveDropped     prometheus.Counter

	// Store
	storeLatency *prometheus.HistogramVec
	storeErrors  *prometheus.CounterVec

	// Worker pool and job queue
	workerActive  prometheus.Gauge
	workerLatency prometheus.Histogram
	queueDepth    *prometheus.GaugeVec
	queueRejected *prometheus.CounterVec

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

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // private registry without default Go collectors

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager registered on the configured registry.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "resumerank",
		subsystem:        "api",
		histogramBuckets: []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000},
		llmBuckets:       LLMLatencyBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	})
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	})
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.constLabels,
	})
}

func (m *Manager) histogramVec(name, help string, buckets []float64, labels ...string) *prometheus.HistogramVec {
	return promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) initializeMetrics() {
	m.resumesUploaded = m.counterVec("resumes_uploaded_total", "Resumes parsed and stored, by detected file type", "file_type")
	m.parseFailures = m.counterVec("resume_parse_failures_total", "Upload attempts rejected, by stage", "stage")
	m.extractedChars = m.histogram("resume_extracted_chars", "Characters of text extracted per upload",
		prometheus.ExponentialBuckets(100, 2, 10))

	m.llmCalls = m.counterVec("llm_calls_total", "Calls to the language model, by operation and outcome", "operation", "outcome")
	m.llmLatency = m.histogramVec("llm_latency_milliseconds", "Language model call latency in milliseconds",
		m.llmBuckets, "operation")
	m.schemaWarnings = m.counterVec("llm_schema_warnings_total", "Model payloads that failed schema validation", "schema")

	m.rankingsTotal = m.counter("rankings_total", "Ranking requests served")
	m.rankedResumes = m.counterVec("ranked_resumes_total", "Resumes ranked, by outcome", "outcome")
	m.questionsFallback = m.counter("screening_questions_fallback_total", "Screening requests answered with the canned list")

	m.certificatesUploaded = m.counterVec("certificates_uploaded_total", "Project certificates stored, by backend", "backend")
	m.authAttempts = m.counterVec("auth_attempts_total", "Authentication attempts, by action and outcome", "action", "outcome")

	m.liveConnections = m.gauge("live_connections", "Open live-update connections")
	m.liveBroadcasts = m.counter("live_broadcasts_total", "Live-update snapshots delivered")
	m.liveDropped = m.counter("live_dropped_total", "Live-update connections dropped after a failed write")

	m.storeLatency = m.histogramVec("store_latency_milliseconds", "Document store latency in milliseconds",
		m.histogramBuckets, "operation")
	m.storeErrors = m.counterVec("store_errors_total", "Document store failures, by operation", "operation")

	m.workerActive = m.gauge("worker_active", "Ranking tasks currently running")
	m.workerLatency = m.histogram("worker_task_latency_milliseconds", "Ranking task latency in milliseconds", m.histogramBuckets)
	m.queueDepth = promauto.With(m.registry).NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "queue_depth",
		Help:        "Jobs waiting in a named queue",
		ConstLabels: m.constLabels,
	}, []string{"queue"})
	m.queueRejected = m.counterVec("queue_rejected_total", "Jobs refused by a named queue, by reason", "queue", "reason")

	m.httpRequests = m.counterVec("http_requests_total", "HTTP requests by endpoint, method and status", "endpoint", "method", "status_code")
	m.httpRequestDuration = m.histogramVec("http_request_duration_milliseconds", "HTTP request duration in milliseconds",
		m.histogramBuckets, "endpoint", "method", "status_code")
	m.errorRateByType = m.counterVec("errors_by_type_total", "Errors by type and severity", "error_type", "severity")
	m.errorRateByEndpoint = m.counterVec("errors_by_endpoint_total", "Errors by endpoint", "endpoint", "method", "error_type")

	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "Heap memory in use")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Number of goroutines")
	m.systemGCPauseTime = m.histogram("system_gc_pause_time_milliseconds", "Average GC pause in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000})
}

// RecordResumeUploaded counts a stored resume.
func RecordResumeUploaded(fileType string, chars int) {
	globalManager.resumesUploaded.WithLabelValues(fileType).Inc()
	globalManager.extractedChars.Observe(float64(chars))
}

// RecordParseFailure counts an upload rejected at stage (type, extract, too_short, llm, store).
func RecordParseFailure(stage string) {
	globalManager.parseFailures.WithLabelValues(stage).Inc()
}

// RecordLLMCall records one model call.
func RecordLLMCall(operation, outcome string, latencyMs float64) {
	globalManager.llmCalls.WithLabelValues(operation, outcome).Inc()
	globalManager.llmLatency.WithLabelValues(operation).Observe(latencyMs)
}

// RecordSchemaWarning counts a payload that did not match its schema.
func RecordSchemaWarning(schema string) {
	globalManager.schemaWarnings.WithLabelValues(schema).Inc()
}

// RecordRanking records a ranking request and the per-resume outcomes.
func RecordRanking(ranked, failed int) {
	globalManager.rankingsTotal.Inc()
	globalManager.rankedResumes.WithLabelValues("success").Add(float64(ranked))
	globalManager.rankedResumes.WithLabelValues("default").Add(float64(failed))
}

// RecordQuestionsFallback counts a screening response built from the canned list.
func RecordQuestionsFallback() {
	globalManager.questionsFallback.Inc()
}

// RecordCertificateUploaded counts a stored certificate.
func RecordCertificateUploaded(backend string) {
	globalManager.certificatesUploaded.WithLabelValues(backend).Inc()
}

// RecordAuth counts a register/login/logout attempt.
func RecordAuth(action, outcome string) {
	globalManager.authAttempts.WithLabelValues(action, outcome).Inc()
}

// UpdateLiveConnections sets the open live-update connection gauge.
func UpdateLiveConnections(n int) {
	globalManager.liveConnections.Set(float64(n))
}

// RecordLiveBroadcast records one broadcast round.
func RecordLiveBroadcast(delivered, dropped int) {
	globalManager.liveBroadcasts.Add(float64(delivered))
	globalManager.liveDropped.Add(float64(dropped))
}

// RecordStoreOperation records a store call and counts it as failed when err is non-nil.
func RecordStoreOperation(operation string, latencyMs float64, err error) {
	globalManager.storeLatency.WithLabelValues(operation).Observe(latencyMs)
	if err != nil {
		globalManager.storeErrors.WithLabelValues(operation).Inc()
	}
}

// UpdateWorkerActiveCount adjusts the number of running worker tasks by delta.
func UpdateWorkerActiveCount(delta int) {
	globalManager.workerActive.Add(float64(delta))
}

// RecordWorkerTaskLatency records a ranking task duration.
func RecordWorkerTaskLatency(latencyMs float64) {
	globalManager.workerLatency.Observe(latencyMs)
}

// UpdateQueueDepth sets the number of jobs waiting in queue.
func UpdateQueueDepth(queue string, n int) {
	globalManager.queueDepth.WithLabelValues(queue).Set(float64(n))
}

// RecordQueueRejected counts a job the queue refused (closed, full, canceled).
func RecordQueueRejected(queue, reason string) {
	globalManager.queueRejected.WithLabelValues(queue, reason).Inc()
}

// RecordHTTPRequest increments the HTTP request counter.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
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

// UpdateSystemMemoryUsage updates memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount updates the goroutine count.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the registry backing the package-level helpers.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

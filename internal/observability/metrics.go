package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce          sync.Once
	httpRequestsTotal     *prometheus.CounterVec
	httpLatencySeconds    *prometheus.HistogramVec
	httpErrorsTotal       *prometheus.CounterVec
	submissionUploads     *prometheus.CounterVec
	uploadLatencySeconds  prometheus.Histogram
	dashboardCacheResults *prometheus.CounterVec
	domainEventsTotal     *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used by the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "classroom_http_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "classroom_http_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		httpErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "classroom_http_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		submissionUploads = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "classroom_submission_uploads_total",
			Help: "Submission upload attempts by result.",
		}, []string{"result"})

		uploadLatencySeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "classroom_submission_upload_seconds",
			Help:    "Time spent storing submission files.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		})

		dashboardCacheResults = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "classroom_dashboard_cache_total",
			Help: "Student dashboard cache lookups by result.",
		}, []string{"result"})

		domainEventsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "classroom_domain_events_total",
			Help: "Domain events published by action and result.",
		}, []string{"action", "result"})

		prometheus.MustRegister(
			httpRequestsTotal,
			httpLatencySeconds,
			httpErrorsTotal,
			submissionUploads,
			uploadLatencySeconds,
			dashboardCacheResults,
			domainEventsTotal,
		)
	})
}

// HTTPRequests exposes the counter for API requests.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the latency histogram for API requests.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}

// HTTPErrors exposes the counter for error responses.
func HTTPErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return httpErrorsTotal
}

// SubmissionUploads counts upload attempts labelled by result.
func SubmissionUploads() *prometheus.CounterVec {
	RegisterMetrics()
	return submissionUploads
}

// UploadLatency exposes the storage upload histogram.
func UploadLatency() prometheus.Histogram {
	RegisterMetrics()
	return uploadLatencySeconds
}

// DashboardCacheResults counts dashboard cache hits and misses.
func DashboardCacheResults() *prometheus.CounterVec {
	RegisterMetrics()
	return dashboardCacheResults
}

// DomainEvents counts published domain events.
func DomainEvents() *prometheus.CounterVec {
	RegisterMetrics()
	return domainEventsTotal
}

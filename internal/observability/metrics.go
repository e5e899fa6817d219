package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce         sync.Once
	visitsRecordedTotal  *prometheus.CounterVec
	scansSuppressedTotal prometheus.Counter
	reportLatencySeconds prometheus.Histogram
	apiRequestsTotal     *prometheus.CounterVec
	apiLatencySeconds    *prometheus.HistogramVec
	apiErrorsTotal       *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used by the kiosk API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		visitsRecordedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kiosk_visits_recorded_total",
			Help: "Total number of attendance check-ins recorded, per visit purpose.",
		}, []string{"purpose"})

		scansSuppressedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "kiosk_scans_suppressed_total",
			Help: "Total number of RFID scans suppressed by the duplicate cooldown.",
		})

		reportLatencySeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "kiosk_report_latency_seconds",
			Help:    "Latency distribution for monthly attendance report queries.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		})

		apiRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kiosk_api_requests_total",
			Help: "Total number of kiosk API requests served.",
		}, []string{"method", "route", "status"})

		apiLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "kiosk_api_latency_seconds",
			Help:    "Latency distribution for kiosk API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		apiErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kiosk_api_errors_total",
			Help: "Total number of error responses returned by the kiosk API.",
		}, []string{"method", "route", "status"})

		prometheus.MustRegister(
			visitsRecordedTotal, scansSuppressedTotal, reportLatencySeconds,
			apiRequestsTotal, apiLatencySeconds, apiErrorsTotal,
		)
	})
}

// VisitsRecorded exposes the per-purpose check-in counter.
func VisitsRecorded() *prometheus.CounterVec {
	RegisterMetrics()
	return visitsRecordedTotal
}

// ScansSuppressed exposes the duplicate-scan counter.
func ScansSuppressed() prometheus.Counter {
	RegisterMetrics()
	return scansSuppressedTotal
}

// ReportLatency exposes the report latency histogram.
func ReportLatency() prometheus.Histogram {
	RegisterMetrics()
	return reportLatencySeconds
}

// APIRequests exposes the counter for API requests.
func APIRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return apiRequestsTotal
}

// APILatency exposes the latency histogram for API requests.
func APILatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return apiLatencySeconds
}

// APIErrors exposes the counter for API error responses.
func APIErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return apiErrorsTotal
}

package service

import (
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the HTTP
// surface and the reconciliation/expiration pipelines.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	reconciledTotal prometheus.Counter
	skippedTotal    prometheus.Counter
	accruedTotal    *prometheus.CounterVec
	expiredTotal    *prometheus.CounterVec
	batchDuration   prometheus.Histogram
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	reconciledTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "attendance_reconciled_total",
		Help: "Attendance rows written by the reconciliation pipeline",
	})

	skippedTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "attendance_skipped_total",
		Help: "Employee-dates skipped during reconciliation",
	})

	accruedTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "points_accrued_total",
		Help: "Attendance points created, by point type",
	}, []string{"point_type"})

	expiredTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "points_expired_total",
		Help: "Attendance points expired, by roll-off rule",
	}, []string{"rule"})

	batchDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "reconciliation_batch_duration_seconds",
		Help:    "Duration of reconciliation batch runs",
		Buckets: prometheus.DefBuckets,
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, reconciledTotal, skippedTotal, accruedTotal, expiredTotal, batchDuration, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		reconciledTotal: reconciledTotal,
		skippedTotal:    skippedTotal,
		accruedTotal:    accruedTotal,
		expiredTotal:    expiredTotal,
		batchDuration:   batchDuration,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labels := prometheus.Labels{"method": method, "path": path, "status": httpStatusLabel(status)}
	m.requestDuration.With(labels).Observe(duration.Seconds())
	m.requestTotal.With(labels).Inc()
}

// AddReconciled counts attendance rows written by the pipeline.
func (m *MetricsService) AddReconciled(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.reconciledTotal.Add(float64(n))
}

// AddSkipped counts skipped employee-dates.
func (m *MetricsService) AddSkipped(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.skippedTotal.Add(float64(n))
}

// IncPointAccrued counts a created point by type.
func (m *MetricsService) IncPointAccrued(pointType string) {
	if m == nil {
		return
	}
	m.accruedTotal.WithLabelValues(pointType).Inc()
}

// AddPointsExpired counts expired points by roll-off rule.
func (m *MetricsService) AddPointsExpired(rule string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.expiredTotal.WithLabelValues(rule).Add(float64(n))
}

// ObserveBatch records a reconciliation batch duration.
func (m *MetricsService) ObserveBatch(duration time.Duration) {
	if m == nil {
		return
	}
	m.batchDuration.Observe(duration.Seconds())
}

func httpStatusLabel(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}

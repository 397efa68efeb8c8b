// Package metrics provides Prometheus metrics collection for the shipment packaging service.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestDuration tracks HTTP request duration by method, path, and status code.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status_code"},
	)

	// HTTPRequestTotal tracks total HTTP requests by method, path, and status code.
	HTTPRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)

	// PackagingRunsTotal counts packager invocations by packager and outcome.
	PackagingRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "packaging_runs_total",
			Help: "Total number of packager runs",
		},
		[]string{"packager", "status"},
	)

	// PackagingDuration tracks a full packaging chain run per shipping method.
	PackagingDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "packaging_duration_seconds",
			Help:    "Packaging chain duration in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		},
		[]string{"shipping_method"},
	)

	// PackagesCreatedTotal counts packages produced by packagers.
	PackagesCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "packages_created_total",
			Help: "Total number of packages created by packagers",
		},
		[]string{"packager"},
	)

	// BuilderOperationsTotal counts staged-edit operations by operation and status.
	BuilderOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shipment_builder_operations_total",
			Help: "Total number of shipment builder operations",
		},
		[]string{"operation", "status"},
	)

	// SessionStoreOperationsTotal tracks transient store operations.
	SessionStoreOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "session_store_operations_total",
			Help: "Total number of session store operations",
		},
		[]string{"operation", "result"},
	)

	// SessionStoreSize tracks the number of live in-memory sessions.
	SessionStoreSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "session_store_size",
			Help: "Current number of stored builder sessions",
		},
	)

	// AuditEntriesTotal counts audit trail entries by outcome: enqueued,
	// dropped, written or failed.
	AuditEntriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "audit_entries_total",
			Help: "Total number of audit trail entries by outcome",
		},
		[]string{"result"},
	)

	// CircuitBreakerState is 0 when closed, 1 when half-open and 2 when open.
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Current circuit breaker state (0 closed, 1 half-open, 2 open)",
		},
		[]string{"name"},
	)

	// CircuitBreakerRejectedTotal counts calls refused by an open breaker.
	CircuitBreakerRejectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_rejected_total",
			Help: "Total number of calls rejected by an open circuit breaker",
		},
		[]string{"name"},
	)

	// EventsPublishedTotal counts domain events handed to the broker.
	EventsPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_published_total",
			Help: "Total number of published domain events",
		},
		[]string{"event", "status"},
	)

	// RateLimitRejectedTotal counts requests refused with 429.
	RateLimitRejectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limit_rejected_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
		[]string{"scope"},
	)

	// PanicsRecoveredTotal counts handler panics turned into 500 responses.
	PanicsRecoveredTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_panics_recovered_total",
			Help: "Total number of handler panics recovered",
		},
		[]string{"route"},
	)
)

// PrometheusMiddleware returns a Gin middleware that collects HTTP metrics.
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		c.Next()

		duration := time.Since(start).Seconds()
		statusCode := strconv.Itoa(c.Writer.Status())
		method := c.Request.Method

		HTTPRequestDuration.WithLabelValues(method, path, statusCode).Observe(duration)
		HTTPRequestTotal.WithLabelValues(method, path, statusCode).Inc()
	}
}

// RecordPackagerRun records one packager invocation and the packages it created.
func RecordPackagerRun(packager, status string, packagesCreated int) {
	PackagingRunsTotal.WithLabelValues(packager, status).Inc()
	if packagesCreated > 0 {
		PackagesCreatedTotal.WithLabelValues(packager).Add(float64(packagesCreated))
	}
}

// RecordPackaging records the duration of a packaging chain.
func RecordPackaging(shippingMethod string, duration time.Duration) {
	PackagingDuration.WithLabelValues(shippingMethod).Observe(duration.Seconds())
}

// RecordBuilderOperation records a staged-edit operation.
func RecordBuilderOperation(operation string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	BuilderOperationsTotal.WithLabelValues(operation, status).Inc()
}

// RecordSessionStoreOperation records a transient store operation.
func RecordSessionStoreOperation(operation, result string) {
	SessionStoreOperationsTotal.WithLabelValues(operation, result).Inc()
}

// UpdateSessionStoreSize sets the live session gauge.
func UpdateSessionStoreSize(size int) {
	SessionStoreSize.Set(float64(size))
}

// RecordEventPublished records a publish attempt.
func RecordEventPublished(event string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	EventsPublishedTotal.WithLabelValues(event, status).Inc()
}

// RecordAuditEntry records the outcome of one audit trail entry.
func RecordAuditEntry(result string) {
	AuditEntriesTotal.WithLabelValues(result).Inc()
}

// SetCircuitBreakerState publishes the state of the named breaker.
func SetCircuitBreakerState(name string, state float64) {
	CircuitBreakerState.WithLabelValues(name).Set(state)
}

// RecordCircuitBreakerRejection counts a call refused by the named breaker.
func RecordCircuitBreakerRejection(name string) {
	CircuitBreakerRejectedTotal.WithLabelValues(name).Inc()
}

// RecordRateLimitRejection counts a request refused by the limiter of scope.
func RecordRateLimitRejection(scope string) {
	RateLimitRejectedTotal.WithLabelValues(scope).Inc()
}

// RecordPanic counts a recovered panic on route.
func RecordPanic(route string) {
	PanicsRecoveredTotal.WithLabelValues(route).Inc()
}

package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestPrometheusMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(PrometheusMiddleware())
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	router.GET("/error", func(c *gin.Context) {
		c.String(http.StatusInternalServerError, "error")
	})

	tests := []struct {
		name           string
		path           string
		expectedStatus int
	}{
		{
			name:           "records metrics for successful request",
			path:           "/test",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "records metrics for error request",
			path:           "/error",
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestRecordPackagerRun(t *testing.T) {
	before := testutil.ToFloat64(PackagesCreatedTotal.WithLabelValues("metrics_test"))

	RecordPackagerRun("metrics_test", "packaged", 3)
	RecordPackagerRun("metrics_test", "skipped", 0)

	assert.Equal(t, before+3, testutil.ToFloat64(PackagesCreatedTotal.WithLabelValues("metrics_test")))
	assert.Equal(t, float64(1), testutil.ToFloat64(PackagingRunsTotal.WithLabelValues("metrics_test", "skipped")))
}

func TestRecordBuilderOperation(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status string
	}{
		{name: "success", err: nil, status: "success"},
		{name: "failure", err: errors.New("boom"), status: "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			counter := BuilderOperationsTotal.WithLabelValues("metrics_test_"+tt.name, tt.status)
			before := testutil.ToFloat64(counter)

			RecordBuilderOperation("metrics_test_"+tt.name, tt.err)

			assert.Equal(t, before+1, testutil.ToFloat64(counter))
		})
	}
}

func TestSessionStoreMetrics(t *testing.T) {
	RecordSessionStoreOperation("get", "hit")
	UpdateSessionStoreSize(7)

	assert.Equal(t, float64(7), testutil.ToFloat64(SessionStoreSize))
}

func TestRecordPackagingAndEvents(t *testing.T) {
	RecordPackaging("flat_rate", 5*time.Millisecond)
	RecordEventPublished("shipment.packaged", nil)

	assert.GreaterOrEqual(t, testutil.ToFloat64(EventsPublishedTotal.WithLabelValues("shipment.packaged", "success")), float64(1))
}

func TestRecordAuditEntry(t *testing.T) {
	counter := AuditEntriesTotal.WithLabelValues("dropped")
	before := testutil.ToFloat64(counter)

	RecordAuditEntry("dropped")

	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}

func TestRecordRateLimitRejection(t *testing.T) {
	counter := RateLimitRejectedTotal.WithLabelValues("user")
	before := testutil.ToFloat64(counter)

	RecordRateLimitRejection("user")
	RecordRateLimitRejection("user")

	assert.Equal(t, before+2, testutil.ToFloat64(counter))
}

func TestRecordPanic(t *testing.T) {
	counter := PanicsRecoveredTotal.WithLabelValues("/api/v1/shipments")
	before := testutil.ToFloat64(counter)

	RecordPanic("/api/v1/shipments")

	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}

package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/shipment-packaging/internal/circuitbreaker"
)

func openBreaker(t *testing.T) *circuitbreaker.CircuitBreaker {
	t.Helper()
	cb := circuitbreaker.New(circuitbreaker.Config{
		Name:             "shipments",
		FailureThreshold: 1,
		SuccessThreshold: 1,
		Timeout:          time.Hour,
	})
	_ = cb.Execute(context.Background(), func() error { return errors.New("mongo down") })
	require.True(t, cb.IsOpen())
	return cb
}

func probe(t *testing.T, h *HealthHandler, path string) (int, readinessResponse) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h.Register(router)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))

	var body readinessResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestHealthHandler_Liveness(t *testing.T) {
	h := NewHealthHandler()
	h.RegisterCircuitBreaker("shipments", openBreaker(t))
	h.Drain()

	code, body := probe(t, h, "/healthz")

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, statusOK, body.Status)
}

func TestHealthHandler_Readiness(t *testing.T) {
	ok := CheckerFunc(func(context.Context) error { return nil })
	refused := CheckerFunc(func(context.Context) error { return errors.New("connection refused") })

	tests := []struct {
		name       string
		setup      func(*testing.T, *HealthHandler)
		wantCode   int
		wantStatus string
		wantChecks map[string]string
	}{
		{
			name:       "nothing registered",
			setup:      func(*testing.T, *HealthHandler) {},
			wantCode:   http.StatusOK,
			wantStatus: statusOK,
			wantChecks: map[string]string{"service": "ok"},
		},
		{
			name: "closed breaker",
			setup: func(_ *testing.T, h *HealthHandler) {
				h.RegisterCircuitBreaker("mongodb_shipments", circuitbreaker.New(circuitbreaker.DefaultConfig()))
			},
			wantCode:   http.StatusOK,
			wantStatus: statusOK,
			wantChecks: map[string]string{"mongodb_shipments_circuit": "closed"},
		},
		{
			name: "open breaker",
			setup: func(t *testing.T, h *HealthHandler) {
				h.RegisterCircuitBreaker("mongodb_shipments", openBreaker(t))
			},
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: statusDegraded,
			wantChecks: map[string]string{"mongodb_shipments_circuit": "open"},
		},
		{
			name: "one failing checker",
			setup: func(_ *testing.T, h *HealthHandler) {
				h.RegisterChecker("mongodb_ping", refused)
				h.RegisterChecker("kafka", ok)
			},
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: statusDegraded,
			wantChecks: map[string]string{"mongodb_ping": "connection refused", "kafka": "ok"},
		},
		{
			name: "draining overrides healthy checks",
			setup: func(_ *testing.T, h *HealthHandler) {
				h.RegisterChecker("mongodb_ping", ok)
				h.Drain()
			},
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: statusDraining,
			wantChecks: map[string]string{"mongodb_ping": "ok"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler()
			tt.setup(t, h)

			code, body := probe(t, h, "/readyz")

			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantStatus, body.Status)
			assert.Equal(t, tt.wantChecks, body.Checks)
		})
	}
}

func TestHealthHandler_SlowCheckTimesOut(t *testing.T) {
	h := NewHealthHandler()
	h.checkTimeout = 20 * time.Millisecond
	h.RegisterChecker("mongodb_ping", CheckerFunc(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}))

	start := time.Now()
	code, body := probe(t, h, "/readyz")

	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, context.DeadlineExceeded.Error(), body.Checks["mongodb_ping"])
}

package http

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/guttosm/shipment-packaging/internal/circuitbreaker"
)

// defaultCheckTimeout bounds every readiness check.
const defaultCheckTimeout = 2 * time.Second

// Readiness states.
const (
	statusOK       = "ok"
	statusDegraded = "degraded"
	statusDraining = "draining"
)

// HealthChecker probes one backing dependency.
type HealthChecker interface {
	Check(ctx context.Context) error
}

// CheckerFunc adapts a function to HealthChecker.
type CheckerFunc func(ctx context.Context) error

// Check implements HealthChecker.
func (f CheckerFunc) Check(ctx context.Context) error { return f(ctx) }

// readinessResponse is the body of /readyz.
type readinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// HealthHandler serves the liveness and readiness probes. Readiness runs
// every dependency check concurrently and reports the state of each
// registered circuit breaker under "<name>_circuit".
type HealthHandler struct {
	mu           sync.RWMutex
	checkers     map[string]HealthChecker
	breakers     map[string]*circuitbreaker.CircuitBreaker
	checkTimeout time.Duration
	draining     atomic.Bool
}

// NewHealthHandler creates a handler with no checks registered.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{
		checkers:     make(map[string]HealthChecker),
		breakers:     make(map[string]*circuitbreaker.CircuitBreaker),
		checkTimeout: defaultCheckTimeout,
	}
}

// RegisterChecker adds a dependency check to the readiness probe.
func (h *HealthHandler) RegisterChecker(name string, checker HealthChecker) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checkers[name] = checker
}

// RegisterCircuitBreaker reports cb in the readiness probe. An open breaker
// makes the service not ready.
func (h *HealthHandler) RegisterCircuitBreaker(name string, cb *circuitbreaker.CircuitBreaker) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.breakers[name] = cb
}

// Drain makes readiness fail from now on, so load balancers stop routing
// new requests while in-flight ones finish.
func (h *HealthHandler) Drain() {
	h.draining.Store(true)
}

// Register mounts /healthz and /readyz.
func (h *HealthHandler) Register(router *gin.Engine) {
	router.GET("/healthz", h.Liveness)
	router.GET("/readyz", h.Readiness)
}

// Liveness handles the liveness probe endpoint.
// @Summary     Liveness probe
// @Description Returns OK while the process is serving.
// @Tags        Health
// @Produce     json
// @Success     200 {object} map[string]string "Service is alive"
// @Router      /healthz [get]
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": statusOK})
}

// Readiness handles the readiness probe endpoint.
// @Summary     Readiness probe
// @Description Returns OK when every registered dependency check passes and no circuit breaker is open.
// @Tags        Health
// @Produce     json
// @Success     200 {object} map[string]interface{} "Service is ready"
// @Failure     503 {object} map[string]interface{} "Service is degraded or draining"
// @Router      /readyz [get]
func (h *HealthHandler) Readiness(c *gin.Context) {
	resp := h.evaluate(c.Request.Context())
	status := http.StatusOK
	if resp.Status != statusOK {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, resp)
}

func (h *HealthHandler) evaluate(ctx context.Context) readinessResponse {
	h.mu.RLock()
	defer h.mu.RUnlock()

	resp := readinessResponse{Status: statusOK, Checks: make(map[string]string)}
	var mu sync.Mutex
	record := func(name, result string, healthy bool) {
		mu.Lock()
		defer mu.Unlock()
		resp.Checks[name] = result
		if !healthy {
			resp.Status = statusDegraded
		}
	}

	var g errgroup.Group
	for name, checker := range h.checkers {
		name, checker := name, checker
		g.Go(func() error {
			checkCtx, cancel := context.WithTimeout(ctx, h.checkTimeout)
			defer cancel()
			if err := checker.Check(checkCtx); err != nil {
				record(name, err.Error(), false)
				return nil
			}
			record(name, statusOK, true)
			return nil
		})
	}
	_ = g.Wait()

	for name, cb := range h.breakers {
		stats := cb.GetStats()
		record(name+"_circuit", stats.State, stats.IsHealthy)
	}

	if len(resp.Checks) == 0 {
		resp.Checks["service"] = statusOK
	}
	if h.draining.Load() {
		resp.Status = statusDraining
	}
	return resp
}

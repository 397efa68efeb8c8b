package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingRouter counts handler runs behind the idempotency middleware.
func countingRouter(cfg IdempotencyConfig, runs *int) *gin.Engine {
	router := gin.New()
	router.Use(RequestID(), HeaderIdentity(), Idempotency(cfg))
	handler := func(c *gin.Context) {
		*runs++
		c.JSON(http.StatusCreated, gin.H{"run": *runs})
	}
	router.POST("/api/orders/:order/shipments", handler)
	router.GET("/api/orders/:order/shipments", handler)
	router.POST("/api/fail", func(c *gin.Context) {
		*runs++
		c.Status(http.StatusConflict)
	})
	return router
}

func idempotentRequest(method, path, key, user, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(UserIDHeader, user)
	if key != "" {
		req.Header.Set(IdempotencyKeyHeader, key)
	}
	return req
}

func TestIdempotency(t *testing.T) {
	gin.SetMode(gin.TestMode)
	const path = "/api/orders/o-1/shipments"

	tests := []struct {
		name       string
		first      *http.Request
		second     *http.Request
		wantRuns   int
		wantReplay bool
	}{
		{
			name:       "same key and body replays",
			first:      idempotentRequest(http.MethodPost, path, "k1", "u1", `{"a":1}`),
			second:     idempotentRequest(http.MethodPost, path, "k1", "u1", `{"a":1}`),
			wantRuns:   1,
			wantReplay: true,
		},
		{
			name:     "no key runs twice",
			first:    idempotentRequest(http.MethodPost, path, "", "u1", `{"a":1}`),
			second:   idempotentRequest(http.MethodPost, path, "", "u1", `{"a":1}`),
			wantRuns: 2,
		},
		{
			name:     "different body runs twice",
			first:    idempotentRequest(http.MethodPost, path, "k1", "u1", `{"a":1}`),
			second:   idempotentRequest(http.MethodPost, path, "k1", "u1", `{"a":2}`),
			wantRuns: 2,
		},
		{
			name:     "different user runs twice",
			first:    idempotentRequest(http.MethodPost, path, "k1", "u1", `{"a":1}`),
			second:   idempotentRequest(http.MethodPost, path, "k1", "u2", `{"a":1}`),
			wantRuns: 2,
		},
		{
			name:     "GET is never replayed",
			first:    idempotentRequest(http.MethodGet, path, "k1", "u1", ""),
			second:   idempotentRequest(http.MethodGet, path, "k1", "u1", ""),
			wantRuns: 2,
		},
		{
			name:     "error responses are not stored",
			first:    idempotentRequest(http.MethodPost, "/api/fail", "k1", "u1", ""),
			second:   idempotentRequest(http.MethodPost, "/api/fail", "k1", "u1", ""),
			wantRuns: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runs := 0
			cfg := IdempotencyConfig{Store: NewIdempotencyStore(100, time.Minute), Enabled: true}
			router := countingRouter(cfg, &runs)

			first := httptest.NewRecorder()
			router.ServeHTTP(first, tt.first)
			second := httptest.NewRecorder()
			router.ServeHTTP(second, tt.second)

			assert.Equal(t, tt.wantRuns, runs)
			assert.Equal(t, first.Code, second.Code)
			if tt.wantReplay {
				assert.Equal(t, "true", second.Header().Get(IdempotencyReplayedHeader))
				assert.Equal(t, first.Body.String(), second.Body.String())
				assert.Contains(t, second.Header().Get("Content-Type"), "application/json")
				assert.NotEqual(t, first.Header().Get(RequestIDHeader), second.Header().Get(RequestIDHeader))
			} else {
				assert.Empty(t, second.Header().Get(IdempotencyReplayedHeader))
			}
		})
	}
}

func TestIdempotency_Disabled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	runs := 0
	router := countingRouter(IdempotencyConfig{Store: NewIdempotencyStore(10, time.Minute)}, &runs)

	for i := 0; i < 2; i++ {
		router.ServeHTTP(httptest.NewRecorder(),
			idempotentRequest(http.MethodPost, "/api/orders/o-1/shipments", "k1", "u1", "{}"))
	}
	assert.Equal(t, 2, runs)
}

func TestIdempotencyStoreKey_RestoresBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/x", strings.NewReader("payload"))

	key, err := idempotencyStoreKey("k", "u", req)
	require.NoError(t, err)
	assert.Len(t, key, 64)

	body := make([]byte, 7)
	n, _ := req.Body.Read(body)
	assert.Equal(t, "payload", string(body[:n]))
}

func TestLoadResponse_IgnoresCorruptEntries(t *testing.T) {
	store := NewIdempotencyStore(10, time.Minute)
	store.Set("bad", []byte("not json"))

	_, ok := loadResponse(store, "bad")
	assert.False(t, ok)

	storeResponse(store, "good", cachedResponse{StatusCode: http.StatusCreated, Body: []byte("{}")})
	resp, ok := loadResponse(store, "good")
	require.True(t, ok)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

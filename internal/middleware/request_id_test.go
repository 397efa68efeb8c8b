package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name     string
		header   string
		wantEcho bool
	}{
		{name: "missing header gets a uuid"},
		{name: "client id is echoed", header: "pick-wave-7/order-42", wantEcho: true},
		{name: "oversized id is replaced", header: strings.Repeat("a", maxRequestIDLength+1)},
		{name: "id with spaces is replaced", header: "order 42"},
		{name: "id with control characters is replaced", header: "order-42\x1b[31m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen string
			var ctxLogged bool
			router := gin.New()
			router.Use(RequestID())
			router.GET("/api/shipments/:shipment", func(c *gin.Context) {
				seen = GetRequestID(c)
				ctxLogged = zerolog.Ctx(c.Request.Context()).GetLevel() != zerolog.Disabled
				c.Status(http.StatusNoContent)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/shipments/s-1", nil)
			if tt.header != "" {
				req.Header.Set(RequestIDHeader, tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			require.NotEmpty(t, seen)
			assert.True(t, ctxLogged)
			assert.Equal(t, seen, w.Header().Get(RequestIDHeader))
			if tt.wantEcho {
				assert.Equal(t, tt.header, seen)
				return
			}
			_, err := uuid.Parse(seen)
			assert.NoError(t, err)
		})
	}
}

func TestGetRequestID_OutsideMiddleware(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Empty(t, GetRequestID(c))

	c.Set(string(RequestIDKey), "req-9")
	assert.Equal(t, "req-9", GetRequestID(c))
}

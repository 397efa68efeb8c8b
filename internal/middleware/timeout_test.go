package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestTimeout(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		timeout        time.Duration
		handler        gin.HandlerFunc
		expectedStatus int
		expectedBody   string
	}{
		{
			name:    "fast handler",
			timeout: time.Second,
			handler: func(c *gin.Context) {
				_, hasDeadline := c.Request.Context().Deadline()
				assert.True(t, hasDeadline)
				c.String(http.StatusOK, "ok")
			},
			expectedStatus: http.StatusOK,
			expectedBody:   "ok",
		},
		{
			name:    "handler waits on the context",
			timeout: 10 * time.Millisecond,
			handler: func(c *gin.Context) {
				<-c.Request.Context().Done()
				_ = c.Error(c.Request.Context().Err())
			},
			expectedStatus: http.StatusGatewayTimeout,
			expectedBody:   "Request timeout",
		},
		{
			name:    "late handler that already wrote keeps its response",
			timeout: 10 * time.Millisecond,
			handler: func(c *gin.Context) {
				<-c.Request.Context().Done()
				c.String(http.StatusAccepted, "late")
			},
			expectedStatus: http.StatusAccepted,
			expectedBody:   "late",
		},
		{
			name:    "zero timeout leaves the context alone",
			timeout: 0,
			handler: func(c *gin.Context) {
				_, hasDeadline := c.Request.Context().Deadline()
				assert.False(t, hasDeadline)
				c.String(http.StatusOK, "ok")
			},
			expectedStatus: http.StatusOK,
			expectedBody:   "ok",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(RequestID(), ErrorHandler(), Timeout(tt.timeout))
			router.GET("/test", tt.handler)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
		})
	}
}

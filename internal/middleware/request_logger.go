package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/guttosm/shipment-packaging/internal/domain/model"
	"github.com/guttosm/shipment-packaging/internal/logger"
)

// probePaths are logged to the console but kept out of the stored request log.
var probePaths = map[string]struct{}{
	"/healthz": {},
	"/readyz":  {},
	"/metrics": {},
}

// RequestLogger writes one access line per request and, when al is not nil,
// queues a stored entry for everything except probes.
func RequestLogger(al *AsyncLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		elapsed := time.Since(start)
		status := c.Writer.Status()
		level := levelForStatus(status)
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		logger.Ctx(c.Request.Context()).WithLevel(level).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("route", route).
			Int("status_code", status).
			Dur("duration", elapsed).
			Str("user_id", GetUserID(c)).
			Str("ip", c.ClientIP()).
			Msg("HTTP request")

		if al == nil {
			return
		}
		if _, probe := probePaths[c.Request.URL.Path]; probe {
			return
		}

		entry := &model.LogEntry{
			Timestamp:  start.UTC(),
			Level:      level.String(),
			Message:    http.StatusText(status),
			RequestID:  GetRequestID(c),
			Method:     c.Request.Method,
			Path:       c.Request.URL.Path,
			StatusCode: status,
			Duration:   elapsed.Milliseconds(),
			IP:         c.ClientIP(),
			UserAgent:  c.Request.UserAgent(),
			UserID:     GetUserID(c),
		}
		if last := c.Errors.Last(); last != nil {
			entry.Error = last.Error()
		}
		al.Log(entry)
	}
}

func levelForStatus(status int) zerolog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return zerolog.ErrorLevel
	case status >= http.StatusBadRequest:
		return zerolog.WarnLevel
	default:
		return zerolog.InfoLevel
	}
}

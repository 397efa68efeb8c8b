package middleware

import (
	"errors"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/shipment-packaging/internal/domain/dto"
	"github.com/guttosm/shipment-packaging/internal/i18n"
	"github.com/guttosm/shipment-packaging/internal/logger"
	"github.com/guttosm/shipment-packaging/internal/metrics"
)

// Recovery turns a handler panic into a 500 carrying the request ID. The
// stack goes to the log, never to the client. http.ErrAbortHandler is
// re-raised so net/http can drop the connection quietly.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
				panic(rec)
			}

			route := c.FullPath()
			if route == "" {
				route = "unmatched"
			}
			metrics.RecordPanic(route)

			requestID := GetRequestID(c)
			logger.Ctx(c.Request.Context()).Error().
				Str("request_id", requestID).
				Str("route", route).
				Interface("panic", rec).
				Bytes("stack", debug.Stack()).
				Msg("Handler panicked")

			if c.Writer.Written() {
				c.Abort()
				return
			}
			message := i18n.GetTranslator().Translate(i18n.ErrKeyInternalError, i18n.GetLocale(c))
			c.AbortWithStatusJSON(http.StatusInternalServerError,
				dto.NewError(dto.ErrCodeInternal, message).WithRequestID(requestID))
		}()
		c.Next()
	}
}

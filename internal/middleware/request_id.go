// Package middleware provides the gin middleware of the shipment packaging API.
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/guttosm/shipment-packaging/internal/logger"
)

// RequestIDHeader carries the correlation id in both directions.
const RequestIDHeader = "X-Request-ID"

// maxRequestIDLength bounds client-supplied request ids.
const maxRequestIDLength = 128

// ContextKey namespaces values stored in the gin context.
type ContextKey string

// RequestIDKey holds the correlation id of the request.
const RequestIDKey ContextKey = "request_id"

// RequestID tags the request with the client X-Request-ID, or a new UUID when
// the header is unusable. The request context carries a logger bound to the
// id, so packager and builder logs line up with the access log.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if !validRequestID(id) {
			id = uuid.NewString()
		}

		c.Set(string(RequestIDKey), id)
		c.Header(RequestIDHeader, id)
		c.Request = c.Request.WithContext(logger.WithRequest(c.Request.Context(), id))
		c.Next()
	}
}

// validRequestID accepts non-empty printable ASCII up to maxRequestIDLength.
// Anything else would end up verbatim in log lines and response headers.
func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < 0x21 || id[i] > 0x7e {
			return false
		}
	}
	return true
}

// GetRequestID returns the correlation id, or "" outside RequestID.
func GetRequestID(c *gin.Context) string {
	return c.GetString(string(RequestIDKey))
}

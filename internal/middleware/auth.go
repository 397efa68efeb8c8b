package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/shipment-packaging/internal/i18n"
)

const (
	// APIKeyHeader is the HTTP header name for API key authentication.
	APIKeyHeader = "X-API-Key"
	// APIKeyQuery is the query parameter name for API key authentication.
	APIKeyQuery = "api_key"
)

// APIKeyAuth guards the token endpoint. The X-API-Key header wins over the
// api_key query parameter. With no configured keys every request passes.
func APIKeyAuth(validKeys map[string]bool) gin.HandlerFunc {
	keys := make([][]byte, 0, len(validKeys))
	for k, ok := range validKeys {
		if k = strings.TrimSpace(k); ok && k != "" {
			keys = append(keys, []byte(k))
		}
	}

	return func(c *gin.Context) {
		if len(keys) == 0 {
			c.Next()
			return
		}

		key := c.GetHeader(APIKeyHeader)
		if key == "" {
			key = c.Query(APIKeyQuery)
		}
		if key == "" {
			abortUnauthorized(c, i18n.ErrKeyAPIKeyRequired)
			return
		}
		if !matchesAnyKey(keys, []byte(key)) {
			abortUnauthorized(c, i18n.ErrKeyInvalidAPIKey)
			return
		}
		c.Next()
	}
}

func matchesAnyKey(keys [][]byte, candidate []byte) bool {
	matched := 0
	for _, k := range keys {
		matched |= subtle.ConstantTimeCompare(k, candidate)
	}
	return matched == 1
}

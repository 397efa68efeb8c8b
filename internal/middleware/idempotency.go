package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	// IdempotencyKeyHeader is the HTTP header name for idempotency keys.
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotencyReplayedHeader marks a response served from the store.
	IdempotencyReplayedHeader = "X-Idempotency-Replayed"
	// IdempotencyKeyTTL is how long an unused response stays replayable.
	IdempotencyKeyTTL = 5 * time.Minute
)

// IdempotencyConfig holds configuration for idempotency middleware.
type IdempotencyConfig struct {
	Store   IdempotencyStore
	Enabled bool
}

// DefaultIdempotencyConfig returns an enabled config with an in-memory store.
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		Store:   NewIdempotencyStore(10000, IdempotencyKeyTTL),
		Enabled: true,
	}
}

// Idempotency replays the stored 2xx response of a POST, PUT or PATCH that
// repeats an Idempotency-Key. The store key also covers the acting user,
// method, path and body, so a reused key with another payload runs normally.
func Idempotency(cfg IdempotencyConfig) gin.HandlerFunc {
	if !cfg.Enabled || cfg.Store == nil {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch:
		default:
			c.Next()
			return
		}

		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			c.Next()
			return
		}

		storeKey, err := idempotencyStoreKey(key, GetUserID(c), c.Request)
		if err != nil {
			_ = c.Error(err).SetType(gin.ErrorTypeBind)
			c.Abort()
			return
		}

		if cached, ok := loadResponse(cfg.Store, storeKey); ok {
			for name, values := range cached.Header {
				for _, v := range values {
					c.Writer.Header().Add(name, v)
				}
			}
			c.Header(IdempotencyReplayedHeader, "true")
			c.Data(cached.StatusCode, cached.Header.Get("Content-Type"), cached.Body)
			c.Abort()
			return
		}

		writer := &capturingWriter{ResponseWriter: c.Writer}
		c.Writer = writer

		c.Next()

		status := writer.Status()
		if status >= 200 && status < 300 {
			storeResponse(cfg.Store, storeKey, cachedResponse{
				StatusCode: status,
				Header:     replayableHeader(writer.Header()),
				Body:       writer.body.Bytes(),
			})
		}
	}
}

// idempotencyStoreKey hashes the client key with everything that makes the
// request distinct. The body is restored for the handler.
func idempotencyStoreKey(key, userID string, req *http.Request) (string, error) {
	h := sha256.New()
	for _, part := range []string{key, userID, req.Method, req.URL.Path} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}

	if req.Body != nil {
		body, err := io.ReadAll(req.Body)
		if err != nil {
			return "", err
		}
		req.Body = io.NopCloser(bytes.NewReader(body))
		h.Write(body)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func replayableHeader(h http.Header) http.Header {
	out := make(http.Header, len(h))
	for name, values := range h {
		switch http.CanonicalHeaderKey(name) {
		case http.CanonicalHeaderKey(RequestIDHeader), "Content-Length", "Date",
			"X-Ratelimit-Limit", "X-Ratelimit-Remaining":
			continue
		}
		out[name] = append([]string(nil), values...)
	}
	return out
}

// capturingWriter copies the response body for the store.
type capturingWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *capturingWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *capturingWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

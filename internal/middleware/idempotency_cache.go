package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/guttosm/shipment-packaging/internal/service"
)

// IdempotencyStore keeps encoded responses by key. *service.ShardedCache
// satisfies it.
type IdempotencyStore interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte)
}

// cachedResponse is a replayable 2xx response.
type cachedResponse struct {
	StatusCode int         `json:"status_code"`
	Header     http.Header `json:"header"`
	Body       []byte      `json:"body"`
}

// NewIdempotencyStore creates a sharded LRU store whose entries expire after
// ttl without use.
func NewIdempotencyStore(capacity int, ttl time.Duration) *service.ShardedCache {
	return service.NewShardedCache(service.CacheConfig{Capacity: capacity, TTL: ttl})
}

func loadResponse(store IdempotencyStore, key string) (*cachedResponse, bool) {
	raw, ok := store.Get(key)
	if !ok {
		return nil, false
	}
	var resp cachedResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, false
	}
	return &resp, true
}

func storeResponse(store IdempotencyStore, key string, resp cachedResponse) {
	raw, err := json.Marshal(resp)
	if err != nil {
		return
	}
	store.Set(key, raw)
}

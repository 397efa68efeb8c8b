package service

import (
	"context"
	"time"

	"github.com/guttosm/shipment-packaging/internal/metrics"
)

// TransientStore is a keyed store for short-lived state, scoped by collection.
type TransientStore interface {
	Get(ctx context.Context, collection, key string) ([]byte, bool, error)
	Set(ctx context.Context, collection, key string, value []byte) error
	Delete(ctx context.Context, collection, key string) error
}

// MemorySessionStore keeps builder sessions in a sharded LRU cache. Every Set
// refreshes the idle expiry of the entry.
type MemorySessionStore struct {
	cache *ShardedCache
}

// NewMemorySessionStore creates an in-memory transient store.
func NewMemorySessionStore(capacity int, ttl time.Duration) *MemorySessionStore {
	return &MemorySessionStore{
		cache: NewShardedCache(CacheConfig{
			Capacity: capacity,
			TTL:      ttl,
			Observe:  metrics.RecordSessionStoreOperation,
		}),
	}
}

func storeKey(collection, key string) string {
	return collection + "/" + key
}

// Get implements TransientStore.
func (s *MemorySessionStore) Get(ctx context.Context, collection, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	value, ok := s.cache.Get(storeKey(collection, key))
	return value, ok, nil
}

// Set implements TransientStore.
func (s *MemorySessionStore) Set(ctx context.Context, collection, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.cache.Set(storeKey(collection, key), value)
	metrics.UpdateSessionStoreSize(s.cache.Metrics().Size)
	return nil
}

// Delete implements TransientStore.
func (s *MemorySessionStore) Delete(ctx context.Context, collection, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.cache.Invalidate(storeKey(collection, key))
	metrics.UpdateSessionStoreSize(s.cache.Metrics().Size)
	return nil
}

// Stop releases the cache cleanup goroutines.
func (s *MemorySessionStore) Stop() {
	s.cache.Stop()
}

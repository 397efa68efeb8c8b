// Package cache defines the contract of the in-process keyed cache.
package cache

// Cache stores opaque values by string key.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte)
	Invalidate(key string)
	Clear()
	Stop()
}

// Metrics provides cache performance metrics.
type Metrics struct {
	Hits      int64
	Misses    int64
	Evictions int64
	Size      int
	Capacity  int
}

// CacheWithMetrics extends Cache with metrics reporting.
type CacheWithMetrics interface {
	Cache
	Metrics() Metrics
}

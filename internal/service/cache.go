// Package service contains the business logic for the shipment packaging service.
package service

import (
	"container/list"
	"hash/maphash"
	"sync"
	"time"

	"github.com/guttosm/shipment-packaging/internal/service/cache"
)

// defaultCacheShards is used when CacheConfig.Shards is not positive.
const defaultCacheShards = 16

// CacheConfig configures a ShardedCache.
type CacheConfig struct {
	// Capacity is the total entry budget, split evenly across shards.
	Capacity int
	// TTL is the idle lifetime. Get does not extend it, Set does.
	TTL time.Duration
	// Shards is rounded up to a power of two.
	Shards int
	// Observe, when set, is called with every operation and its result.
	Observe func(operation, result string)
	// SweepEvery is the period of the expired entry sweep. Defaults to a minute.
	SweepEvery time.Duration
}

var _ cache.CacheWithMetrics = (*ShardedCache)(nil)

// ShardedCache is a byte-value LRU cache with idle expiry. Keys are spread
// over independently locked shards.
type ShardedCache struct {
	shards  []*lruShard
	mask    uint64
	seed    maphash.Seed
	observe func(operation, result string)
	done    chan struct{}
	once    sync.Once
}

// NewShardedCache creates the cache and starts its sweeper. Call Stop to
// release it.
func NewShardedCache(cfg CacheConfig) *ShardedCache {
	n := 1
	for n < cfg.Shards {
		n <<= 1
	}
	if cfg.Shards <= 0 {
		n = defaultCacheShards
	}
	perShard := max(1, cfg.Capacity/n)
	if cfg.SweepEvery <= 0 {
		cfg.SweepEvery = time.Minute
	}

	c := &ShardedCache{
		shards:  make([]*lruShard, n),
		mask:    uint64(n - 1),
		seed:    maphash.MakeSeed(),
		observe: cfg.Observe,
		done:    make(chan struct{}),
	}
	if c.observe == nil {
		c.observe = func(string, string) {}
	}
	for i := range c.shards {
		c.shards[i] = &lruShard{
			capacity: perShard,
			ttl:      cfg.TTL,
			index:    make(map[string]*list.Element, perShard),
			order:    list.New(),
			now:      time.Now,
		}
	}
	go c.sweepLoop(cfg.SweepEvery)
	return c
}

func (c *ShardedCache) shard(key string) *lruShard {
	return c.shards[maphash.String(c.seed, key)&c.mask]
}

// Get returns a copy of the live value under key.
func (c *ShardedCache) Get(key string) ([]byte, bool) {
	value, result := c.shard(key).get(key)
	c.observe("get", result)
	return value, result == "hit"
}

// Set stores a copy of value and restarts its idle lifetime.
func (c *ShardedCache) Set(key string, value []byte) {
	if c.shard(key).set(key, value) {
		c.observe("evict", "capacity")
	}
	c.observe("set", "success")
}

// Invalidate drops key.
func (c *ShardedCache) Invalidate(key string) {
	if c.shard(key).remove(key) {
		c.observe("invalidate", "success")
	}
}

// Clear drops every entry and resets the counters.
func (c *ShardedCache) Clear() {
	for _, s := range c.shards {
		s.reset()
	}
	c.observe("clear", "success")
}

// Metrics sums the counters of all shards.
func (c *ShardedCache) Metrics() cache.Metrics {
	var total cache.Metrics
	for _, s := range c.shards {
		m := s.metrics()
		total.Hits += m.Hits
		total.Misses += m.Misses
		total.Evictions += m.Evictions
		total.Size += m.Size
		total.Capacity += m.Capacity
	}
	return total
}

// Stop ends the sweeper. It is safe to call more than once.
func (c *ShardedCache) Stop() {
	c.once.Do(func() { close(c.done) })
}

func (c *ShardedCache) sweepLoop(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.sweep()
		case <-c.done:
			return
		}
	}
}

// sweep drops expired entries from every shard.
func (c *ShardedCache) sweep() {
	for _, s := range c.shards {
		if n := s.dropExpired(); n > 0 {
			c.observe("expire", "swept")
		}
	}
}

// setClock replaces the time source of every shard.
func (c *ShardedCache) setClock(now func() time.Time) {
	for _, s := range c.shards {
		s.mu.Lock()
		s.now = now
		s.mu.Unlock()
	}
}

// lruEntry is the list payload. The front of the list is the most recently
// used entry.
type lruEntry struct {
	key       string
	value     []byte
	expiresAt time.Time
}

type lruShard struct {
	mu        sync.Mutex
	capacity  int
	ttl       time.Duration
	index     map[string]*list.Element
	order     *list.List
	now       func() time.Time
	hits      int64
	misses    int64
	evictions int64
}

// get returns the value and one of "hit", "miss" or "expired".
func (s *lruShard) get(key string) ([]byte, string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	el, ok := s.index[key]
	if !ok {
		s.misses++
		return nil, "miss"
	}
	entry := el.Value.(*lruEntry)
	if !s.now().Before(entry.expiresAt) {
		s.unlink(el)
		s.misses++
		return nil, "expired"
	}
	s.order.MoveToFront(el)
	s.hits++
	return append([]byte(nil), entry.value...), "hit"
}

// set reports whether an entry was evicted to make room.
func (s *lruShard) set(key string, value []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := append([]byte(nil), value...)
	expiresAt := s.now().Add(s.ttl)
	if el, ok := s.index[key]; ok {
		entry := el.Value.(*lruEntry)
		entry.value, entry.expiresAt = stored, expiresAt
		s.order.MoveToFront(el)
		return false
	}

	s.index[key] = s.order.PushFront(&lruEntry{key: key, value: stored, expiresAt: expiresAt})
	if s.order.Len() <= s.capacity {
		return false
	}
	s.unlink(s.order.Back())
	s.evictions++
	return true
}

func (s *lruShard) remove(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	el, ok := s.index[key]
	if ok {
		s.unlink(el)
	}
	return ok
}

func (s *lruShard) dropExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	dropped := 0
	for el := s.order.Back(); el != nil; {
		prev := el.Prev()
		if !now.Before(el.Value.(*lruEntry).expiresAt) {
			s.unlink(el)
			dropped++
		}
		el = prev
	}
	return dropped
}

func (s *lruShard) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.index = make(map[string]*list.Element, s.capacity)
	s.order.Init()
	s.hits, s.misses, s.evictions = 0, 0, 0
}

func (s *lruShard) metrics() cache.Metrics {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cache.Metrics{
		Hits:      s.hits,
		Misses:    s.misses,
		Evictions: s.evictions,
		Size:      s.order.Len(),
		Capacity:  s.capacity,
	}
}

func (s *lruShard) unlink(el *list.Element) {
	delete(s.index, el.Value.(*lruEntry).key)
	s.order.Remove(el)
}

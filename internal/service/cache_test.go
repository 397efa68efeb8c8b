package service

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// manualClock is moved forward by tests.
type manualClock struct {
	mu sync.Mutex
	t  time.Time
}

func (m *manualClock) now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.t
}

func (m *manualClock) advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.t = m.t.Add(d)
}

func newClockedCache(t *testing.T, cfg CacheConfig) (*ShardedCache, *manualClock) {
	t.Helper()
	clock := &manualClock{t: time.Date(2026, 2, 9, 8, 0, 0, 0, time.UTC)}
	c := NewShardedCache(cfg)
	c.setClock(clock.now)
	t.Cleanup(c.Stop)
	return c, clock
}

func TestNewShardedCache_Shards(t *testing.T) {
	tests := []struct {
		shards int
		want   int
	}{
		{shards: 0, want: defaultCacheShards},
		{shards: -4, want: defaultCacheShards},
		{shards: 1, want: 1},
		{shards: 3, want: 4},
		{shards: 8, want: 8},
		{shards: 9, want: 16},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.shards), func(t *testing.T) {
			c := NewShardedCache(CacheConfig{Capacity: 64, TTL: time.Minute, Shards: tt.shards})
			defer c.Stop()

			assert.Len(t, c.shards, tt.want)
			assert.Equal(t, uint64(tt.want-1), c.mask)
		})
	}
}

func TestShardedCache_GetSet(t *testing.T) {
	c, clock := newClockedCache(t, CacheConfig{Capacity: 10, TTL: time.Minute, Shards: 1})

	_, ok := c.Get("shipment_builder/picker-1")
	assert.False(t, ok)

	c.Set("shipment_builder/picker-1", []byte(`{"version":1}`))
	value, ok := c.Get("shipment_builder/picker-1")
	require.True(t, ok)
	assert.Equal(t, []byte(`{"version":1}`), value)

	clock.advance(time.Minute)
	_, ok = c.Get("shipment_builder/picker-1")
	assert.False(t, ok)

	m := c.Metrics()
	assert.Equal(t, int64(1), m.Hits)
	assert.Equal(t, int64(2), m.Misses)
	assert.Equal(t, 0, m.Size)
}

func TestShardedCache_SetRefreshesExpiry(t *testing.T) {
	c, clock := newClockedCache(t, CacheConfig{Capacity: 10, TTL: time.Minute, Shards: 1})

	c.Set("k", []byte("1"))
	clock.advance(40 * time.Second)
	c.Set("k", []byte("2"))
	clock.advance(40 * time.Second)

	value, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, []byte("2"), value)

	// Reads do not extend the lifetime.
	clock.advance(20 * time.Second)
	_, ok = c.Get("k")
	assert.False(t, ok)
}

func TestShardedCache_ValuesAreCopies(t *testing.T) {
	c, _ := newClockedCache(t, CacheConfig{Capacity: 10, TTL: time.Minute, Shards: 1})

	original := []byte("abc")
	c.Set("k", original)
	original[0] = 'z'

	value, _ := c.Get("k")
	value[1] = 'z'

	again, _ := c.Get("k")
	assert.Equal(t, []byte("abc"), again)
}

func TestShardedCache_EvictsLeastRecentlyUsed(t *testing.T) {
	var ops []string
	c, _ := newClockedCache(t, CacheConfig{
		Capacity: 2,
		TTL:      time.Minute,
		Shards:   1,
		Observe:  func(op, result string) { ops = append(ops, op+":"+result) },
	})

	c.Set("a", []byte("1"))
	c.Set("b", []byte("2"))
	_, _ = c.Get("a")
	c.Set("c", []byte("3"))

	_, okA := c.Get("a")
	_, okB := c.Get("b")
	_, okC := c.Get("c")
	assert.True(t, okA)
	assert.False(t, okB)
	assert.True(t, okC)
	assert.Equal(t, int64(1), c.Metrics().Evictions)
	assert.Contains(t, ops, "evict:capacity")
	assert.Contains(t, ops, "get:miss")
}

func TestShardedCache_Sweep(t *testing.T) {
	c, clock := newClockedCache(t, CacheConfig{Capacity: 100, TTL: time.Minute, Shards: 4})

	for i := 0; i < 10; i++ {
		c.Set(fmt.Sprintf("old-%d", i), []byte{byte(i)})
	}
	clock.advance(30 * time.Second)
	c.Set("fresh", []byte("x"))
	clock.advance(30 * time.Second)

	c.sweep()

	assert.Equal(t, 1, c.Metrics().Size)
	_, ok := c.Get("fresh")
	assert.True(t, ok)
}

func TestShardedCache_InvalidateAndClear(t *testing.T) {
	c, _ := newClockedCache(t, CacheConfig{Capacity: 1000, TTL: time.Minute, Shards: 4})

	for i := 0; i < 10; i++ {
		c.Set(fmt.Sprintf("key-%d", i), []byte{byte(i)})
	}

	c.Invalidate("key-3")
	c.Invalidate("never-set")
	_, ok := c.Get("key-3")
	assert.False(t, ok)
	_, ok = c.Get("key-4")
	assert.True(t, ok)

	c.Clear()
	m := c.Metrics()
	assert.Zero(t, m.Size)
	assert.Zero(t, m.Hits)
	assert.Equal(t, 1000, m.Capacity)
}

func TestShardedCache_ConcurrentUse(t *testing.T) {
	c, _ := newClockedCache(t, CacheConfig{Capacity: 4096, TTL: time.Minute})

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				key := fmt.Sprintf("shipment_builder/order-%d/picker-%d", i, w)
				c.Set(key, []byte{byte(i)})
				value, ok := c.Get(key)
				assert.True(t, ok)
				assert.Equal(t, []byte{byte(i)}, value)
			}
		}(w)
	}
	wg.Wait()

	assert.Equal(t, int64(800), c.Metrics().Hits)
}

func TestShardedCache_StopTwice(t *testing.T) {
	c := NewShardedCache(CacheConfig{Capacity: 1, TTL: time.Second})
	c.Stop()
	assert.NotPanics(t, c.Stop)
}

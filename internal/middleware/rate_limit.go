package middleware

import (
	"hash/maphash"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/shipment-packaging/internal/domain/dto"
	"github.com/guttosm/shipment-packaging/internal/i18n"
	"github.com/guttosm/shipment-packaging/internal/metrics"
)

// limiterShards is the number of independently locked counter maps.
const limiterShards = 16

// Rate limit scopes, also used as the metric label.
const (
	scopeIP   = "ip"
	scopeUser = "user"
)

// window is the fixed-window counter of one caller.
type window struct {
	used    int
	resetAt time.Time
}

type limiterShard struct {
	mu      sync.Mutex
	windows map[string]*window
}

// RateLimiter is a fixed-window request limiter keyed by caller. Callers are
// spread over locked shards, and expired windows are swept once a minute
// until Stop.
type RateLimiter struct {
	limit  int
	period time.Duration
	seed   maphash.Seed
	shards [limiterShards]limiterShard
	now    func() time.Time
	done   chan struct{}
	once   sync.Once
}

// decision is the outcome of one Allow call.
type decision struct {
	allowed   bool
	remaining int
	resetAt   time.Time
}

// NewRateLimiter allows limit requests per caller in every period.
func NewRateLimiter(limit int, period time.Duration) *RateLimiter {
	rl := &RateLimiter{
		limit:  limit,
		period: period,
		seed:   maphash.MakeSeed(),
		now:    time.Now,
		done:   make(chan struct{}),
	}
	for i := range rl.shards {
		rl.shards[i].windows = make(map[string]*window)
	}
	go rl.sweepLoop(time.Minute)
	return rl
}

func (rl *RateLimiter) shard(key string) *limiterShard {
	return &rl.shards[maphash.String(rl.seed, key)%limiterShards]
}

// allow charges one request to key.
func (rl *RateLimiter) allow(key string) decision {
	now := rl.now()
	s := rl.shard(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.windows[key]
	if !ok || !now.Before(w.resetAt) {
		w = &window{resetAt: now.Add(rl.period)}
		s.windows[key] = w
	}
	if w.used >= rl.limit {
		return decision{resetAt: w.resetAt}
	}
	w.used++
	return decision{allowed: true, remaining: rl.limit - w.used, resetAt: w.resetAt}
}

// RateLimit limits requests per client IP.
func (rl *RateLimiter) RateLimit() gin.HandlerFunc {
	return rl.middleware(scopeIP, func(c *gin.Context) string {
		return "ip:" + c.ClientIP()
	})
}

// UserRateLimit limits requests per acting user, falling back to the client
// IP before identity is resolved.
func (rl *RateLimiter) UserRateLimit() gin.HandlerFunc {
	return rl.middleware(scopeUser, rateLimitIdentifier)
}

func (rl *RateLimiter) middleware(scope string, key func(*gin.Context) string) gin.HandlerFunc {
	limit := strconv.Itoa(rl.limit)

	return func(c *gin.Context) {
		d := rl.allow(key(c))

		c.Header("X-RateLimit-Limit", limit)
		c.Header("X-RateLimit-Remaining", strconv.Itoa(d.remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(d.resetAt.Unix(), 10))
		if d.allowed {
			c.Next()
			return
		}

		wait := math.Ceil(d.resetAt.Sub(rl.now()).Seconds())
		c.Header("Retry-After", strconv.Itoa(max(1, int(wait))))
		metrics.RecordRateLimitRejection(scope)
		message := i18n.GetTranslator().Translate(i18n.ErrKeyRateLimitExceeded, i18n.GetLocale(c))
		c.AbortWithStatusJSON(http.StatusTooManyRequests,
			dto.NewError(dto.ErrCodeRateLimit, message).WithRequestID(GetRequestID(c)))
	}
}

func rateLimitIdentifier(c *gin.Context) string {
	if userID := GetUserID(c); userID != "" {
		return "user:" + userID
	}
	return "ip:" + c.ClientIP()
}

func (rl *RateLimiter) sweepLoop(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			rl.sweep()
		case <-rl.done:
			return
		}
	}
}

// sweep drops windows that have already reset.
func (rl *RateLimiter) sweep() {
	now := rl.now()
	for i := range rl.shards {
		s := &rl.shards[i]
		s.mu.Lock()
		for key, w := range s.windows {
			if !now.Before(w.resetAt) {
				delete(s.windows, key)
			}
		}
		s.mu.Unlock()
	}
}

// Tracked returns the number of callers with a live window.
func (rl *RateLimiter) Tracked() int {
	n := 0
	for i := range rl.shards {
		s := &rl.shards[i]
		s.mu.Lock()
		n += len(s.windows)
		s.mu.Unlock()
	}
	return n
}

// Stop ends the sweeper. It is safe to call more than once.
func (rl *RateLimiter) Stop() {
	rl.once.Do(func() { close(rl.done) })
}

package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/MuhsinADA/ese-backend/internal/auth"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimiterConfig holds the per-caller limits: authenticated API
// traffic and anonymous auth endpoints are throttled independently.
type RateLimiterConfig struct {
	UserRate        rate.Limit // req/sec per authenticated user
	UserBurst       int
	AnonRate        rate.Limit // req/sec per client IP on auth endpoints
	AnonBurst       int
	CleanupInterval time.Duration
}

// DefaultRateLimiterConfig matches 120 req/min per user and 30 req/min
// per anonymous IP.
func DefaultRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		UserRate:        rate.Limit(120.0 / 60.0),
		UserBurst:       120,
		AnonRate:        rate.Limit(30.0 / 60.0),
		AnonBurst:       30,
		CleanupInterval: 5 * time.Minute,
	}
}

type bucket struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// RateLimiter keeps one token bucket per caller. Stale buckets are
// dropped by a background sweep.
type RateLimiter struct {
	config RateLimiterConfig

	mu      sync.Mutex
	user    map[string]*bucket
	anon    map[string]*bucket
	stopCh  chan struct{}
}

// NewRateLimiter creates the limiter and starts the cleanup loop.
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	rl := &RateLimiter{
		config: config,
		user:   make(map[string]*bucket),
		anon:   make(map[string]*bucket),
		stopCh: make(chan struct{}),
	}
	go rl.cleanupLoop()
	return rl
}

// Stop terminates the cleanup goroutine.
func (rl *RateLimiter) Stop() {
	close(rl.stopCh)
}

// ForUser limits by authenticated user ID; place after RequireAuth.
func (rl *RateLimiter) ForUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := auth.UserIDFromContext(c)
		lim := rl.take(rl.user, userID.String(), rl.config.UserRate, rl.config.UserBurst)
		if !lim.Allow() {
			abortRateLimited(c, rl.config.UserRate)
			return
		}
		c.Next()
	}
}

// ForIP limits unauthenticated endpoints by client IP.
func (rl *RateLimiter) ForIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		lim := rl.take(rl.anon, c.ClientIP(), rl.config.AnonRate, rl.config.AnonBurst)
		if !lim.Allow() {
			abortRateLimited(c, rl.config.AnonRate)
			return
		}
		c.Next()
	}
}

func (rl *RateLimiter) take(m map[string]*bucket, key string, r rate.Limit, burst int) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	b, ok := m[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(r, burst)}
		m[key] = b
	}
	b.lastAccess = time.Now()
	return b.limiter
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.config.CleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stopCh:
			return
		}
	}
}

func (rl *RateLimiter) cleanup() {
	ttl := rl.config.CleanupInterval * 2
	now := time.Now()
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for _, m := range []map[string]*bucket{rl.user, rl.anon} {
		for key, b := range m {
			if now.Sub(b.lastAccess) > ttl {
				delete(m, key)
			}
		}
	}
}

// abortRateLimited writes a 429 with a Retry-After hint: the seconds
// until one token is refilled.
func abortRateLimited(c *gin.Context, r rate.Limit) {
	retryAfter := int(math.Ceil(1.0 / float64(r)))
	if retryAfter < 1 {
		retryAfter = 1
	}
	c.Header("Retry-After", strconv.Itoa(retryAfter))
	c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
		"error": "too many requests, please retry later",
	})
}

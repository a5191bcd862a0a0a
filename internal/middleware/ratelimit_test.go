package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

func limiterTestRouter(rl *RateLimiter, mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/ping", mw, func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func TestForIPThrottles(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{
		UserRate: 1, UserBurst: 1,
		AnonRate: rate.Limit(0.5), AnonBurst: 2,
		CleanupInterval: time.Minute,
	})
	defer rl.Stop()
	r := limiterTestRouter(rl, rl.ForIP())

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i+1, w.Code)
		}
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("over burst: status = %d, want 429", w.Code)
	}
	if w.Header().Get("Retry-After") != "2" {
		t.Errorf("Retry-After = %q, want 2 (1/rate rounded up)", w.Header().Get("Retry-After"))
	}
}

func TestForIPIsolatesClients(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{
		UserRate: 1, UserBurst: 1,
		AnonRate: 1, AnonBurst: 1,
		CleanupInterval: time.Minute,
	})
	defer rl.Stop()
	r := limiterTestRouter(rl, rl.ForIP())

	first := httptest.NewRequest(http.MethodGet, "/ping", nil)
	first.RemoteAddr = "10.0.0.1:1234"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, first)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, first)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("first client over burst: status = %d, want 429", w.Code)
	}

	// A different client has its own bucket.
	second := httptest.NewRequest(http.MethodGet, "/ping", nil)
	second.RemoteAddr = "10.0.0.2:1234"
	w = httptest.NewRecorder()
	r.ServeHTTP(w, second)
	if w.Code != http.StatusOK {
		t.Errorf("second client: status = %d, want 200", w.Code)
	}
}

func TestCleanupDropsStaleBuckets(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{
		UserRate: 1, UserBurst: 1,
		AnonRate: 1, AnonBurst: 1,
		CleanupInterval: 10 * time.Millisecond,
	})
	defer rl.Stop()

	rl.take(rl.anon, "10.0.0.1", rl.config.AnonRate, rl.config.AnonBurst)

	rl.mu.Lock()
	rl.anon["10.0.0.1"].lastAccess = time.Now().Add(-time.Hour)
	rl.mu.Unlock()

	rl.cleanup()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if _, ok := rl.anon["10.0.0.1"]; ok {
		t.Error("stale bucket should have been dropped")
	}
}

// ===============================
// internal/middleware/ratelimit.go - Per-IP fixed window rate limiting
// ===============================

package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

type RateLimiter struct {
	visitors map[string]*Visitor
	mutex    sync.Mutex
	now      func() time.Time
	stop     chan struct{}
	stopOnce sync.Once
}

type Visitor struct {
	requests    int
	windowStart time.Time
	lastSeen    time.Time
}

func NewRateLimiter() *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*Visitor),
		now:      time.Now,
		stop:     make(chan struct{}),
	}
	go rl.cleanupRoutine()
	return rl
}

// Allow counts one request for key and reports whether it fits in the window.
func (rl *RateLimiter) Allow(key string, limit int, window time.Duration) bool {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := rl.now()
	visitor, exists := rl.visitors[key]
	if !exists || now.Sub(visitor.windowStart) > window {
		rl.visitors[key] = &Visitor{requests: 1, windowStart: now, lastSeen: now}
		return true
	}

	visitor.lastSeen = now
	if visitor.requests >= limit {
		return false
	}
	visitor.requests++
	return true
}

func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

func (rl *RateLimiter) cleanupRoutine() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stop:
			return
		}
	}
}

func (rl *RateLimiter) cleanup() {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	cutoff := rl.now().Add(-10 * time.Minute)
	for key, visitor := range rl.visitors {
		if visitor.lastSeen.Before(cutoff) {
			delete(rl.visitors, key)
		}
	}
}

// limitFor picks the per-minute budget of a path. Writes get the tightest one.
func limitFor(method, path string) int {
	switch {
	case method == http.MethodPost && strings.HasSuffix(path, "/profile-picture"):
		return 10
	case method == http.MethodPost && strings.HasSuffix(path, "/comments"):
		return 30
	case strings.HasSuffix(path, "/watch"):
		return 120
	case strings.Contains(path, "/episodes") || strings.HasPrefix(path, "/api/v1/feed"):
		return 200
	default:
		return 300
	}
}

func RateLimit(rateLimiter *RateLimiter) gin.HandlerFunc {
	const window = time.Minute
	return func(c *gin.Context) {
		limit := limitFor(c.Request.Method, c.Request.URL.Path)
		key := c.ClientIP() + "|" + strconv.Itoa(limit)

		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		if !rateLimiter.Allow(key, limit, window) {
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("Retry-After", "60")
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":   "Rate limit exceeded",
				"message": "Too many requests, please try again later",
				"limit":   limit,
				"window":  window.String(),
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

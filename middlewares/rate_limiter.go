package middlewares

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tazabolsyn/cleaning-app/utils"
	"golang.org/x/time/rate"
)

var ErrRateLimited = errors.New("Too many attempts. Please wait a moment and try again.")

// RateLimiter menghitung percobaan per key (endpoint, IP) dalam sliding window.
// State hidup selama proses berjalan, cukup untuk deployment single-instance.
type RateLimiter struct {
	limit  int
	window time.Duration
	mu     sync.Mutex
	events map[string][]time.Time
}

func NewRateLimiter(limit int, windowSeconds int) *RateLimiter {
	return &RateLimiter{
		limit:  limit,
		window: time.Duration(windowSeconds) * time.Second,
		events: make(map[string][]time.Time),
	}
}

// Hit mencatat satu percobaan untuk key. Urutan evict-check-append
// dijalankan utuh di dalam satu lock supaya aman dipanggil concurrent.
func (rl *RateLimiter) Hit(key string) error {
	return rl.hitAt(key, time.Now())
}

func (rl *RateLimiter) hitAt(key string, now time.Time) error {
	cutoff := now.Add(-rl.window)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	q := rl.events[key]
	// Buang entri yang sudah keluar dari window
	i := 0
	for i < len(q) && q[i].Before(cutoff) {
		i++
	}
	q = q[i:]

	if len(q) >= rl.limit {
		rl.events[key] = q
		return ErrRateLimited
	}

	rl.events[key] = append(q, now)
	return nil
}

// Limit membatasi satu endpoint; key = nama endpoint + IP client.
func (rl *RateLimiter) Limit(endpoint string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := endpoint + "|" + c.ClientIP()
		if err := rl.Hit(key); err != nil {
			utils.RespondError(c, http.StatusTooManyRequests, err)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RateLimit membatasi seluruh traffic per IP (limiter global di main).
func (rl *RateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := rl.Hit(c.ClientIP()); err != nil {
			c.AbortWithStatus(http.StatusTooManyRequests)
			return
		}
		c.Next()
	}
}

// NewStrictRateLimiter -> limiter ketat untuk endpoint sensitif,
// 5 request per menit memakai token bucket.
func NewStrictRateLimiter() gin.HandlerFunc {
	limiter := rate.NewLimiter(rate.Every(12*time.Second), 5)
	return func(c *gin.Context) {
		if !limiter.Allow() {
			utils.RespondError(c, http.StatusTooManyRequests, ErrRateLimited)
			c.Abort()
			return
		}
		c.Next()
	}
}

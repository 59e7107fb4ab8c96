package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/windoze95/ingredai-api/internal/logger"
	"golang.org/x/time/rate"
)

// limiterInfo is a struct that holds a rate limiter and the last time it was seen.
type limiterInfo struct {
	mu       sync.Mutex
	limiter  *rate.Limiter
	lastSeen time.Time
}

func (l *limiterInfo) allow(now time.Time) bool {
	l.mu.Lock()
	l.lastSeen = now
	l.mu.Unlock()
	return l.limiter.Allow()
}

func (l *limiterInfo) idleSince(now time.Time) time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()
	return now.Sub(l.lastSeen)
}

// RateLimitByIP applies rate limiting to requests per IP address.
func RateLimitByIP(rps int, cleanupInterval time.Duration, expiration time.Duration) gin.HandlerFunc {
	return rateLimitBy(func(c *gin.Context) string { return c.ClientIP() }, rps, cleanupInterval, expiration)
}

// RateLimitByWorkspace applies rate limiting per workspace id. It must run
// after RequireWorkspace; requests without a workspace are limited by IP.
func RateLimitByWorkspace(rps int, cleanupInterval time.Duration, expiration time.Duration) gin.HandlerFunc {
	return rateLimitBy(func(c *gin.Context) string {
		if ws := c.GetString(logger.WorkspaceKey); ws != "" {
			return "ws:" + ws
		}
		return "ip:" + c.ClientIP()
	}, rps, cleanupInterval, expiration)
}

func rateLimitBy(keyOf func(*gin.Context) string, rps int, cleanupInterval time.Duration, expiration time.Duration) gin.HandlerFunc {
	if rps < 1 {
		rps = 1
	}
	var limiters sync.Map

	// Cleanup goroutine
	go func() {
		for range time.Tick(cleanupInterval) {
			now := time.Now()
			limiters.Range(func(key, value interface{}) bool {
				if value.(*limiterInfo).idleSince(now) > expiration {
					limiters.Delete(key)
				}
				return true
			})
		}
	}()

	return func(c *gin.Context) {
		// Use LoadOrStore to ensure thread safety
		actual, _ := limiters.LoadOrStore(keyOf(c), &limiterInfo{
			limiter:  rate.NewLimiter(rate.Limit(rps), rps),
			lastSeen: time.Now(),
		})

		if !actual.(*limiterInfo).allow(time.Now()) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
			c.Abort()
			return
		}

		c.Next()
	}
}

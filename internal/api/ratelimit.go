package api

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/smplat/fulfillment/internal/logger"
)

// RateLimiter throttles the protected API surface per client, adapted
// from the teacher's libs/go/middleware.RateLimiter: one
// golang.org/x/time/rate limiter per client key, evicted after an idle
// period so long-running processes don't leak limiters for one-off
// callers.
type RateLimiter struct {
	limiters        sync.Map
	rate            int
	burst           int
	cleanupInterval time.Duration
}

type limiterEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// NewRateLimiter starts a RateLimiter and its background eviction loop.
func NewRateLimiter(requestsPerSecond, burst int) *RateLimiter {
	rl := &RateLimiter{
		rate:            requestsPerSecond,
		burst:           burst,
		cleanupInterval: 5 * time.Minute,
	}
	go rl.cleanup()
	return rl
}

func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(rl.cleanupInterval)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		rl.limiters.Range(func(key, value interface{}) bool {
			if entry, ok := value.(*limiterEntry); ok {
				if now.Sub(entry.lastAccess) > 10*time.Minute {
					rl.limiters.Delete(key)
				}
			}
			return true
		})
	}
}

func (rl *RateLimiter) getLimiter(key string) *rate.Limiter {
	if val, ok := rl.limiters.Load(key); ok {
		entry := val.(*limiterEntry)
		entry.lastAccess = time.Now()
		return entry.limiter
	}

	entry := &limiterEntry{limiter: rate.NewLimiter(rate.Limit(rl.rate), rl.burst), lastAccess: time.Now()}
	actual, _ := rl.limiters.LoadOrStore(key, entry)
	return actual.(*limiterEntry).limiter
}

// clientIdentifier keys the limiter off the X-API-Key this core's
// single shared credential carries, falling back to the caller's IP
// for requests that never reach RequireAPIKey (the webhook route).
func clientIdentifier(c *gin.Context) string {
	if apiKey := c.GetHeader("X-API-Key"); apiKey != "" {
		if len(apiKey) >= 8 {
			return fmt.Sprintf("api:%s", apiKey[:8])
		}
		return fmt.Sprintf("api:%s", apiKey)
	}
	if forwardedFor := c.GetHeader("X-Forwarded-For"); forwardedFor != "" {
		return fmt.Sprintf("ip:%s", forwardedFor)
	}
	clientIP := c.ClientIP()
	if clientIP == "" {
		clientIP = "unknown"
	}
	return fmt.Sprintf("ip:%s", clientIP)
}

// Middleware rejects with 429 once a client exceeds its token bucket,
// skipping the bare health check route.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/health" {
			c.Next()
			return
		}

		clientID := clientIdentifier(c)
		limiter := rl.getLimiter(clientID)

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", rl.rate))

		if !limiter.Allow() {
			logger.Warn("rate limit exceeded",
				zap.String("client_id", clientID),
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method),
			)
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("Retry-After", "1")
			c.JSON(http.StatusTooManyRequests, ErrorDetail{Detail: "too many requests"})
			c.Abort()
			return
		}

		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", int(limiter.Tokens())))
		c.Next()
	}
}

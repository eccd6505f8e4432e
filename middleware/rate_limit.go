package middleware

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

var (
	limitersMu sync.Mutex
	limiters   = make(map[string]*rate.Limiter)
)

func limiterFor(ip string) *rate.Limiter {
	limitersMu.Lock()
	defer limitersMu.Unlock()
	l, ok := limiters[ip]
	if !ok {
		l = rate.NewLimiter(rate.Limit(10), 30)
		limiters[ip] = l
	}
	return l
}

// RateLimitMiddleware applies a per-client-IP token bucket. Anonymous token
// routes are the main reason this exists: review and sign-off links are
// reachable without authentication.
func RateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiterFor(c.ClientIP()).Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
			c.Abort()
			return
		}
		c.Next()
	}
}

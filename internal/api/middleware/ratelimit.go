package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"wallet-core/internal/ratelimit"
)

// RateLimit rejects requests once the caller's IP has exceeded the
// configured budget within the current window. A nil limiter (Redis
// disabled) makes this middleware a no-op.
func RateLimit(limiter *ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}

		result, err := limiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			// Fail open: a rate-limiter outage must not take the API down.
			c.Next()
			return
		}
		if !result.Allowed {
			c.Header("Retry-After", result.RetryAfter.String())
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"status":  http.StatusTooManyRequests,
				"message": "rate limit exceeded, please try again later",
			})
			return
		}
		c.Next()
	}
}

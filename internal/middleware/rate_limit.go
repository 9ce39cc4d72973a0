package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Limiter decides whether one more request from key is allowed
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// MsgTooManyRequests is returned to rate limited clients
const MsgTooManyRequests = "Too many requests, please try again in a minute."

// RateLimit rejects clients that exceed limiter's budget, keyed by client IP.
// A limiter error lets the request through.
func RateLimit(limiter Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, err := limiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			Logger(c).Warn("rate limiter failed, allowing request", zap.Error(err))
			c.Next()
			return
		}
		if !allowed {
			Logger(c).Info("rate limit exceeded", zap.String("client_ip", c.ClientIP()))
			c.Header("Retry-After", "60")
			c.String(http.StatusTooManyRequests, MsgTooManyRequests)
			c.Abort()
			return
		}
		c.Next()
	}
}

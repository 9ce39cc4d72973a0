package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/psycho-70/Eservice-frontend/internal/logging"
	"github.com/psycho-70/Eservice-frontend/internal/observability"
	"go.uber.org/zap"
)

const (
	requestIDKey = "RequestID"
	loggerKey    = "logger"
)

// RequestTracker tracks active connections
func RequestTracker() gin.HandlerFunc {
	return func(c *gin.Context) {
		observability.ActiveConnections.Inc()
		defer observability.ActiveConnections.Dec()
		c.Next()
	}
}

// RequestID adds a unique request ID to the context
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// RequestLogger attaches a logger carrying the request ID to the context
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := observability.Logger()
		if id := c.GetString(requestIDKey); id != "" {
			logger = logger.With(zap.String("request_id", id))
		}
		c.Set(loggerKey, logger)
		c.Next()
	}
}

// Logger returns the request-scoped logger, or the global one
func Logger(c *gin.Context) *logging.SafeLogger {
	if v, ok := c.Get(loggerKey); ok {
		if l, ok := v.(*logging.SafeLogger); ok {
			return l
		}
	}
	return observability.Logger()
}

// GetRequestID returns the request ID set by RequestID
func GetRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

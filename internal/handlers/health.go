package handlers

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/psycho-70/Eservice-frontend/internal/middleware"
	"github.com/psycho-70/Eservice-frontend/internal/utils"
	"go.uber.org/zap"
)

// HealthCheck probes one dependency
type HealthCheck func(ctx context.Context) error

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Services  map[string]string `json:"services"`
}

// HealthHandlers reports the state of the portal's own dependencies
type HealthHandlers struct {
	checks map[string]HealthCheck
}

// NewHealthHandlers creates health handlers running checks by name
func NewHealthHandlers(checks map[string]HealthCheck) *HealthHandlers {
	if checks == nil {
		checks = map[string]HealthCheck{}
	}
	return &HealthHandlers{checks: checks}
}

// Health answers 200 when every check passes and 503 otherwise
func (h *HealthHandlers) Health(c *gin.Context) {
	ctx, span, cleanup := utils.TraceOperation(c.Request.Context(), "health_check", nil)
	defer cleanup()

	health := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Services:  make(map[string]string, len(h.checks)),
	}

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		checkCtx, checkSpan, done := utils.TraceExternalService(ctx, name, "ping")
		checkCtx, cancel := context.WithTimeout(checkCtx, 2*time.Second)
		err := h.checks[name](checkCtx)
		cancel()

		if err != nil {
			utils.RecordErrorInSpan(checkSpan, err, map[string]interface{}{"service.name": name})
			middleware.Logger(c).Warn("health check failed", zap.String("service", name), zap.Error(err))
			health.Status = "unhealthy"
			health.Services[name] = "unhealthy"
		} else {
			utils.AddSpanAttribute(checkSpan, "service.status", "healthy")
			health.Services[name] = "healthy"
		}
		done()
	}

	utils.AddSpanAttribute(span, "health.status", health.Status)

	if health.Status != "healthy" {
		c.JSON(http.StatusServiceUnavailable, health)
		return
	}
	c.JSON(http.StatusOK, health)
}

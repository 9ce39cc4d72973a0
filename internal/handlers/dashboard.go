package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/psycho-70/Eservice-frontend/internal/middleware"
	"github.com/psycho-70/Eservice-frontend/internal/services"
	"go.uber.org/zap"
)

// MsgStatsUnavailable is shown when neither stats source answers
const MsgStatsUnavailable = "Failed to load dashboard statistics"

// DashboardHandlers serves the admin landing page
type DashboardHandlers struct {
	forms *services.FormService
}

// NewDashboardHandlers creates dashboard handlers
func NewDashboardHandlers(forms *services.FormService) *DashboardHandlers {
	return &DashboardHandlers{forms: forms}
}

// Dashboard renders the form counters
func (h *DashboardHandlers) Dashboard(c *gin.Context) {
	view := dashboardView{pageView: adminPage(c, "Dashboard")}

	stats, err := h.forms.DashboardStats(c.Request.Context())
	if err != nil {
		middleware.Logger(c).Error("failed to load dashboard stats", zap.Error(err))
		view.Error = MsgStatsUnavailable
	}
	if stats != nil {
		view.Stats = *stats
	}

	c.HTML(http.StatusOK, "dashboard.html", view)
}

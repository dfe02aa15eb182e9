package handlers

import (
	"net/http"

	"slotwise/services/dashboard"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type DashboardHandler struct {
	DashboardService dashboard.DashboardService
}

func NewDashboardHandler(ds dashboard.DashboardService) *DashboardHandler {
	return &DashboardHandler{DashboardService: ds}
}

func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, err := h.DashboardService.Stats(c.Request.Context())
	if err != nil {
		getLogger(c).Error("Failed to fetch dashboard statistics", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch dashboard statistics"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

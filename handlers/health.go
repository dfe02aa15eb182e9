package handlers

import (
	"net/http"

	"slotwise/utils"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct{}

func NewHealthHandler() *HealthHandler { return &HealthHandler{} }

// Check reports liveness plus the last dependency health check.
func (h *HealthHandler) Check(c *gin.Context) {
	status := utils.GetHealthStatus()
	c.JSON(http.StatusOK, gin.H{
		"status":       "ok",
		"dependencies": status,
	})
}

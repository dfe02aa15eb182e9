package handlers

import (
	"net/http"
	"strconv"

	"slotwise/config"
	"slotwise/models"
	"slotwise/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError writes a service failure using the status it carries.
func respondError(c *gin.Context, err error) {
	appErr := utils.AsAppError(err)
	if appErr.Code >= http.StatusInternalServerError {
		getLogger(c).Error(appErr.Message, zap.String("path", c.FullPath()), zap.Error(appErr.Err))
	}
	utils.JSONError(c, appErr.Code, appErr.Message, "")
}

// bindJSON decodes and validates the body, answering 400 on failure.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", utils.FormatValidationErrors(err))
		return false
	}
	return true
}

// pageRequest reads ?page&size; malformed values fall back to the defaults.
func pageRequest(c *gin.Context) models.PageRequest {
	page, err := strconv.Atoi(c.DefaultQuery("page", "0"))
	if err != nil {
		page = 0
	}
	size, err := strconv.Atoi(c.Query("size"))
	if err != nil {
		size = 0
	}
	return models.NewPageRequest(page, size, config.AppConfig.DefaultPageSize, config.AppConfig.MaxPageSize)
}

func message(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"message": msg})
}

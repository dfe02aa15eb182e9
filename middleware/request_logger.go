package middleware

import (
	"slotwise/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ContextLogger holds the request scoped *zap.Logger.
const ContextLogger = "logger"

// RequestIDHeader carries the id of a request, echoed back when the caller supplies one.
const RequestIDHeader = "X-Request-ID"

// RequestLogger attaches a logger tagged with the request id, method and path.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" || len(requestID) > 64 {
			requestID = uuid.New().String()
		}
		c.Header(RequestIDHeader, requestID)
		c.Set(ContextLogger, utils.GetLogger().With(
			zap.String("requestID", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
		))
		c.Next()
	}
}

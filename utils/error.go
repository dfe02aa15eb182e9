package utils

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse defines the structure of error responses
type ErrorResponse struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// AppError carries the HTTP status a service failure maps to.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

func newAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func NotFound(message string) *AppError   { return newAppError(http.StatusNotFound, message, nil) }
func Conflict(message string) *AppError   { return newAppError(http.StatusConflict, message, nil) }
func Forbidden(message string) *AppError  { return newAppError(http.StatusForbidden, message, nil) }
func BadRequest(message string) *AppError { return newAppError(http.StatusBadRequest, message, nil) }

func Unauthorized(message string) *AppError {
	return newAppError(http.StatusUnauthorized, message, nil)
}

func ServiceUnavailable(message string) *AppError {
	return newAppError(http.StatusServiceUnavailable, message, nil)
}

// Internal wraps an unexpected failure; the cause is logged, never returned to clients.
func Internal(message string, err error) *AppError {
	return newAppError(http.StatusInternalServerError, message, err)
}

// AsAppError extracts an AppError from err, treating anything else as internal.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal("Internal Server Error", err)
}

// ErrorHandler is a middleware to catch panics and return structured errors
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				GetLogger().Error("Unhandled panic", zap.Any("error", err), zap.String("path", c.Request.URL.Path))

				c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
					Message: "Internal Server Error",
					Details: "An unexpected error occurred. Please try again later.",
				})
			}
		}()
		c.Next()
	}
}

// JSONError sends a standardized JSON error response
func JSONError(c *gin.Context, status int, message string, details string) {
	if status >= http.StatusInternalServerError {
		GetLogger().Error(message, zap.String("details", details))
	} else {
		GetLogger().Debug(message, zap.String("details", details))
	}
	c.AbortWithStatusJSON(status, ErrorResponse{Message: message, Details: details})
}

package handlers

import (
	"net/http"

	"slotwise/middleware"
	"slotwise/models"
	"slotwise/services/user"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthHandler struct {
	UserService user.UserService
}

func NewAuthHandler(us user.UserService) *AuthHandler {
	return &AuthHandler{UserService: us}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}
	if _, err := h.UserService.Register(c.Request.Context(), req); err != nil {
		respondError(c, err)
		return
	}
	message(c, http.StatusOK, "User registered successfully")
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.UserService.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		getLogger(c).Info("Login failed", zap.String("username", req.Username))
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Logout handles POST /api/auth/logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.UserService.Logout(c.Request.Context(), middleware.CurrentActor(c).UserID); err != nil {
		respondError(c, err)
		return
	}
	message(c, http.StatusOK, "Logged out successfully")
}

package handlers

import (
	"net/http"

	"slotwise/middleware"
	"slotwise/models"
	"slotwise/services/user"
	"slotwise/utils"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	UserService user.UserService
}

func NewUserHandler(us user.UserService) *UserHandler {
	return &UserHandler{UserService: us}
}

// selfOrAdmin answers 403 unless the caller is the :id user or an admin.
func selfOrAdmin(c *gin.Context, userID string) bool {
	actor := middleware.CurrentActor(c)
	if actor.UserID == userID || actor.IsAdmin() {
		return true
	}
	utils.JSONError(c, http.StatusForbidden, "You can only access your own account", "")
	return false
}

// Create handles POST /api/users.
func (h *UserHandler) Create(c *gin.Context) {
	var req models.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}
	created, err := h.UserService.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Location", "/api/users/"+created.ID)
	c.JSON(http.StatusCreated, created)
}

func (h *UserHandler) List(c *gin.Context) {
	users, err := h.UserService.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *UserHandler) Page(c *gin.Context) {
	page, err := h.UserService.PageUsers(c.Request.Context(), pageRequest(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *UserHandler) Me(c *gin.Context) {
	u, err := h.UserService.GetUser(c.Request.Context(), middleware.CurrentActor(c).UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *UserHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if !selfOrAdmin(c, id) {
		return
	}
	u, err := h.UserService.GetUser(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *UserHandler) Update(c *gin.Context) {
	id := c.Param("id")
	if !selfOrAdmin(c, id) {
		return
	}
	var req models.UserUpdateRequest
	if !bindJSON(c, &req) {
		return
	}
	u, err := h.UserService.UpdateUser(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// ChangePassword handles POST /api/users/change-password for the caller.
func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req models.ChangePasswordRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.UserService.ChangePassword(c.Request.Context(), middleware.CurrentActor(c).UserID, req); err != nil {
		respondError(c, err)
		return
	}
	message(c, http.StatusOK, "Password changed successfully")
}

func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.UserService.DeleteUser(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	message(c, http.StatusOK, "User deleted successfully.")
}

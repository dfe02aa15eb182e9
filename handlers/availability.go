package handlers

import (
	"net/http"

	"slotwise/middleware"
	"slotwise/models"
	"slotwise/services/availability"

	"github.com/gin-gonic/gin"
)

type AvailabilityHandler struct {
	AvailabilityService availability.AvailabilityService
}

func NewAvailabilityHandler(as availability.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{AvailabilityService: as}
}

func (h *AvailabilityHandler) Create(c *gin.Context) {
	var req models.AvailabilityRequest
	if !bindJSON(c, &req) {
		return
	}
	slot, err := h.AvailabilityService.Create(c.Request.Context(), middleware.CurrentActor(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Location", "/api/availabilities/"+slot.ID)
	c.JSON(http.StatusCreated, slot)
}

func (h *AvailabilityHandler) CreateBulk(c *gin.Context) {
	var req models.BulkAvailabilityRequest
	if !bindJSON(c, &req) {
		return
	}
	slots, err := h.AvailabilityService.CreateBulk(c.Request.Context(), middleware.CurrentActor(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, slots)
}

func (h *AvailabilityHandler) List(c *gin.Context) {
	slots, err := h.AvailabilityService.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, slots)
}

func (h *AvailabilityHandler) ListForProvider(c *gin.Context) {
	slots, err := h.AvailabilityService.ListFreeForProvider(c.Request.Context(), c.Param("providerId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, slots)
}

func (h *AvailabilityHandler) Mine(c *gin.Context) {
	slots, err := h.AvailabilityService.ListMine(c.Request.Context(), middleware.CurrentActor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, slots)
}

func (h *AvailabilityHandler) Get(c *gin.Context) {
	slot, err := h.AvailabilityService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, slot)
}

func (h *AvailabilityHandler) Update(c *gin.Context) {
	var req models.AvailabilityRequest
	if !bindJSON(c, &req) {
		return
	}
	slot, err := h.AvailabilityService.Update(c.Request.Context(), middleware.CurrentActor(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, slot)
}

// Hold handles PUT /api/availabilities/:id/book.
func (h *AvailabilityHandler) Hold(c *gin.Context) {
	slot, err := h.AvailabilityService.Hold(c.Request.Context(), middleware.CurrentActor(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, slot)
}

func (h *AvailabilityHandler) Delete(c *gin.Context) {
	if err := h.AvailabilityService.Delete(c.Request.Context(), middleware.CurrentActor(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	message(c, http.StatusOK, "Availability deleted successfully")
}

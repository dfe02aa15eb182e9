package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"slotwise/middleware"
	"slotwise/models"
	"slotwise/services/appointment"
	"slotwise/utils"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

type AppointmentHandler struct {
	AppointmentService appointment.AppointmentService
}

func NewAppointmentHandler(as appointment.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{AppointmentService: as}
}

func (h *AppointmentHandler) Book(c *gin.Context) {
	var req models.BookAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}
	appt, err := h.AppointmentService.Book(c.Request.Context(), middleware.CurrentActor(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Location", "/api/appointments/"+appt.ID)
	c.JSON(http.StatusCreated, appt)
}

func (h *AppointmentHandler) List(c *gin.Context) {
	appts, err := h.AppointmentService.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, appts)
}

func (h *AppointmentHandler) Page(c *gin.Context) {
	page, err := h.AppointmentService.PageAll(c.Request.Context(), pageRequest(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *AppointmentHandler) ForUser(c *gin.Context) {
	appts, err := h.AppointmentService.ListForUser(c.Request.Context(), middleware.CurrentActor(c), c.Param("userId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, appts)
}

func (h *AppointmentHandler) ForUserPage(c *gin.Context) {
	page, err := h.AppointmentService.PageForUser(c.Request.Context(), middleware.CurrentActor(c), c.Param("userId"), pageRequest(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *AppointmentHandler) ForProvider(c *gin.Context) {
	appts, err := h.AppointmentService.ListForProvider(c.Request.Context(), middleware.CurrentActor(c), c.Param("providerId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, appts)
}

func (h *AppointmentHandler) ForProviderPage(c *gin.Context) {
	page, err := h.AppointmentService.PageForProvider(c.Request.Context(), middleware.CurrentActor(c), c.Param("providerId"), pageRequest(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *AppointmentHandler) Mine(c *gin.Context) {
	appts, err := h.AppointmentService.ListMine(c.Request.Context(), middleware.CurrentActor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, appts)
}

func (h *AppointmentHandler) MinePage(c *gin.Context) {
	page, err := h.AppointmentService.PageMine(c.Request.Context(), middleware.CurrentActor(c), pageRequest(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *AppointmentHandler) Get(c *gin.Context) {
	appt, err := h.AppointmentService.Get(c.Request.Context(), middleware.CurrentActor(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}

var errStatusRequired = errors.New("status is required")

// statusFromBody accepts either a bare JSON string or {"status": "..."}.
// The object form goes through the binding validator.
func statusFromBody(body []byte) (string, error) {
	var raw string
	if err := json.Unmarshal(body, &raw); err == nil {
		return strings.TrimSpace(raw), nil
	}
	if !json.Valid(body) {
		return "", errStatusRequired
	}
	var req models.StatusUpdateRequest
	if err := binding.JSON.BindBody(body, &req); err != nil {
		return "", err
	}
	return strings.TrimSpace(req.Status), nil
}

func (h *AppointmentHandler) UpdateStatus(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", "could not read request body")
		return
	}
	status, err := statusFromBody(body)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", utils.FormatValidationErrors(err))
		return
	}
	appt, appErr := h.AppointmentService.UpdateStatus(c.Request.Context(), middleware.CurrentActor(c), c.Param("id"), status)
	if appErr != nil {
		respondError(c, appErr)
		return
	}
	c.JSON(http.StatusOK, appt)
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	appt, err := h.AppointmentService.Cancel(c.Request.Context(), middleware.CurrentActor(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}

func (h *AppointmentHandler) Confirm(c *gin.Context) {
	appt, err := h.AppointmentService.Confirm(c.Request.Context(), middleware.CurrentActor(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}

func (h *AppointmentHandler) Delete(c *gin.Context) {
	if err := h.AppointmentService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	message(c, http.StatusOK, "Appointment deleted successfully.")
}

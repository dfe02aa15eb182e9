package handlers

import (
	"net/http"

	"slotwise/middleware"
	"slotwise/models"
	"slotwise/services/provider"
	"slotwise/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// maxImageBytes bounds a profile image upload.
const maxImageBytes = 5 << 20

type ProviderHandler struct {
	ProviderService provider.ProviderService
}

func NewProviderHandler(ps provider.ProviderService) *ProviderHandler {
	return &ProviderHandler{ProviderService: ps}
}

func (h *ProviderHandler) Create(c *gin.Context) {
	var req models.ProviderProfileRequest
	if !bindJSON(c, &req) {
		return
	}
	p, err := h.ProviderService.CreateProfile(c.Request.Context(), middleware.CurrentActor(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Location", "/api/providers/"+p.ID)
	c.JSON(http.StatusCreated, p)
}

func (h *ProviderHandler) List(c *gin.Context) {
	providers, err := h.ProviderService.ListProviders(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, providers)
}

func (h *ProviderHandler) Page(c *gin.Context) {
	page, err := h.ProviderService.PageProviders(c.Request.Context(), pageRequest(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// Search returns a handler matching the query parameter param against field.
func (h *ProviderHandler) Search(field models.ProviderSearchField, param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		providers, err := h.ProviderService.Search(c.Request.Context(), field, c.Query(param))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, providers)
	}
}

// SearchPage is the paginated form of Search.
func (h *ProviderHandler) SearchPage(field models.ProviderSearchField, param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, err := h.ProviderService.SearchPage(c.Request.Context(), field, c.Query(param), pageRequest(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, page)
	}
}

func (h *ProviderHandler) Get(c *gin.Context) {
	p, err := h.ProviderService.GetProvider(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProviderHandler) GetByUsername(c *gin.Context) {
	p, err := h.ProviderService.GetByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProviderHandler) Mine(c *gin.Context) {
	p, err := h.ProviderService.GetMine(c.Request.Context(), middleware.CurrentActor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProviderHandler) Update(c *gin.Context) {
	var req models.ProviderProfileRequest
	if !bindJSON(c, &req) {
		return
	}
	p, err := h.ProviderService.UpdateProfile(c.Request.Context(), middleware.CurrentActor(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// UploadImage handles POST /api/providers/me/image with a multipart "image" field.
func (h *ProviderHandler) UploadImage(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImageBytes)
	fileHeader, err := c.FormFile("image")
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", "multipart field 'image' is required")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		getLogger(c).Error("Failed to open uploaded image", zap.Error(err))
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", "could not read uploaded image")
		return
	}
	defer file.Close()

	p, err := h.ProviderService.UploadProfileImage(c.Request.Context(), middleware.CurrentActor(c), file)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProviderHandler) Delete(c *gin.Context) {
	if err := h.ProviderService.DeleteProvider(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	message(c, http.StatusOK, "Provider deleted successfully.")
}

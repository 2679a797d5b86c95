package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/RxPortal-2025/member-portal/internal/services"
	"github.com/RxPortal-2025/member-portal/internal/utils"
	"github.com/RxPortal-2025/member-portal/internal/validator"
)

type PersonalizationHandler struct {
	BaseHandler
	validator *validator.Validator
}

func NewPersonalizationHandler(v *validator.Validator, logger utils.Logger) *PersonalizationHandler {
	return &PersonalizationHandler{
		BaseHandler: NewBaseHandler(logger),
		validator:   v,
	}
}

// ===== BOOKMARK ENDPOINTS =====

// ListBookmarks returns the active profile's bookmarks
// @Summary List bookmarks
// @Description Get the active profile's bookmark collection and its load status
// @Tags personalization
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /personalization/bookmarks [get]
func (h *PersonalizationHandler) ListBookmarks(c *gin.Context) {
	o, err := GetOrchestratorFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Not authenticated"})
		return
	}

	bookmarks, status := o.Personalization.Bookmarks()
	c.JSON(http.StatusOK, gin.H{
		"status": status,
		"items":  bookmarks,
	})
}

// ToggleBookmark flips a bookmark for the active profile
// @Summary Toggle bookmark
// @Description Add the bookmark if absent, remove it if present; the local flip is reverted when the write fails
// @Tags personalization
// @Produce json
// @Param resource_id path string true "Resource ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse "Bad request"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 409 {object} ErrorResponse "No active profile"
// @Router /personalization/bookmarks/{resource_id}/toggle [post]
func (h *PersonalizationHandler) ToggleBookmark(c *gin.Context) {
	o, err := GetOrchestratorFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Not authenticated"})
		return
	}

	req := validator.BookmarkToggleRequest{ResourceID: c.Param("resource_id")}
	if errs := h.validator.Validate(&req); errs != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: errs.Error(),
		})
		return
	}

	h.LogRequest(c, "Toggling bookmark", "resource_id", req.ResourceID)

	if err := o.Personalization.ToggleBookmark(c.Request.Context(), req.ResourceID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	bookmarks, status := o.Personalization.Bookmarks()
	c.JSON(http.StatusOK, gin.H{
		"status": status,
		"items":  bookmarks,
	})
}

// ===== TRAINING PROGRESS ENDPOINTS =====

// ListTrainingProgress returns the active profile's training progress
// @Summary List training progress
// @Description Get the active profile's per-module progress and its load status
// @Tags personalization
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /personalization/training-progress [get]
func (h *PersonalizationHandler) ListTrainingProgress(c *gin.Context) {
	o, err := GetOrchestratorFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Not authenticated"})
		return
	}

	progress, status := o.Personalization.TrainingProgress()
	c.JSON(http.StatusOK, gin.H{
		"status": status,
		"items":  progress,
	})
}

// UpsertTrainingProgress records playback progress for a module
// @Summary Upsert training progress
// @Description Patch the local record and upsert remotely; percent and completion never regress
// @Tags personalization
// @Accept json
// @Produce json
// @Param module_id path string true "Module ID"
// @Param request body validator.TrainingProgressRequest true "Progress"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse "Bad request"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 409 {object} ErrorResponse "No active profile"
// @Router /personalization/training-progress/{module_id} [put]
func (h *PersonalizationHandler) UpsertTrainingProgress(c *gin.Context) {
	moduleID := c.Param("module_id")

	o, err := GetOrchestratorFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Not authenticated"})
		return
	}

	var req services.TrainingProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}
	req.ModuleID = moduleID

	h.LogRequest(c, "Upserting training progress",
		"module_id", moduleID, "percent", req.PercentComplete)

	if err := o.Personalization.UpsertTrainingProgress(c.Request.Context(), &req); err != nil {
		h.handleServiceError(c, err)
		return
	}

	progress, status := o.Personalization.TrainingProgress()
	c.JSON(http.StatusOK, gin.H{
		"status": status,
		"items":  progress,
	})
}

// ===== ERROR HANDLING =====

func (h *PersonalizationHandler) handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidationFailed):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: err.Error(),
		})
	case errors.Is(err, services.ErrNoActiveProfile):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "No active profile selected",
		})
	default:
		h.LogError(c, err, "Unexpected service error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
		})
	}
}

package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/RxPortal-2025/member-portal/internal/services"
	"github.com/RxPortal-2025/member-portal/internal/utils"
)

type ProfileHandler struct {
	BaseHandler
}

func NewProfileHandler(logger utils.Logger) *ProfileHandler {
	return &ProfileHandler{
		BaseHandler: NewBaseHandler(logger),
	}
}

// ===== PROFILE ENDPOINTS =====

// ListProfiles returns the account's profile collection
// @Summary List profiles
// @Description Get the visible profiles and the active selection for the signed-in account
// @Tags profiles
// @Produce json
// @Success 200 {object} services.DirectorySnapshot
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /profiles [get]
func (h *ProfileHandler) ListProfiles(c *gin.Context) {
	o, err := GetOrchestratorFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Not authenticated"})
		return
	}

	// A released-and-rebound session may not have loaded yet
	if o.Directory.State() == services.DirectoryIdle {
		if err := o.Directory.FetchProfiles(c.Request.Context()); err != nil {
			h.handleServiceError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"state":          o.Directory.State(),
		"profiles":       o.Directory.Profiles(),
		"active_profile": o.Directory.ActiveProfile(),
	})
}

// CreateProfile adds a profile to the account
// @Summary Create profile
// @Description Create a profile under the signed-in account; the new profile becomes active
// @Tags profiles
// @Accept json
// @Produce json
// @Param request body validator.ProfileCreateRequest true "Profile"
// @Success 201 {object} models.Profile
// @Failure 400 {object} ErrorResponse "Bad request"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /profiles [post]
func (h *ProfileHandler) CreateProfile(c *gin.Context) {
	h.LogRequest(c, "Creating profile")

	o, err := GetOrchestratorFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Not authenticated"})
		return
	}

	var req services.CreateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	profile, err := o.Directory.CreateProfile(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, profile)
}

// UpdateProfile patches a profile
// @Summary Update profile
// @Description Patch the named profile; nil fields are untouched
// @Tags profiles
// @Accept json
// @Produce json
// @Param id path string true "Profile ID"
// @Param request body validator.ProfileUpdateRequest true "Patch"
// @Success 200 {object} models.Profile
// @Failure 400 {object} ErrorResponse "Bad request"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Profile not found"
// @Router /profiles/{id} [put]
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	profileID := c.Param("id")
	h.LogRequest(c, "Updating profile", "profile_id", profileID)

	o, err := GetOrchestratorFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Not authenticated"})
		return
	}

	var req services.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	profile, err := o.Directory.UpdateProfile(c.Request.Context(), profileID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// DeleteProfile removes a profile
// @Summary Remove profile
// @Description Deactivate the profile, or hard-delete it together with its personalization data when hard=true
// @Tags profiles
// @Produce json
// @Param id path string true "Profile ID"
// @Param hard query bool false "Hard delete (default: false)"
// @Success 204 "Removed"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Profile not found"
// @Router /profiles/{id} [delete]
func (h *ProfileHandler) DeleteProfile(c *gin.Context) {
	profileID := c.Param("id")
	hard := c.Query("hard") == "true"
	h.LogRequest(c, "Removing profile", "profile_id", profileID, "hard", hard)

	o, err := GetOrchestratorFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Not authenticated"})
		return
	}

	if err := o.Directory.RemoveProfile(c.Request.Context(), profileID, hard); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// SelectProfile activates a profile
// @Summary Select profile
// @Description Make the named profile active and persist the selection; unknown ids are a no-op
// @Tags profiles
// @Produce json
// @Param id path string true "Profile ID"
// @Success 200 {object} services.SessionView
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /profiles/{id}/select [post]
func (h *ProfileHandler) SelectProfile(c *gin.Context) {
	profileID := c.Param("id")
	h.LogRequest(c, "Selecting profile", "profile_id", profileID)

	o, err := GetOrchestratorFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Not authenticated"})
		return
	}

	if err := o.Directory.SelectProfile(c.Request.Context(), profileID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, o.View())
}

// ===== ERROR HANDLING =====

func (h *ProfileHandler) handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidationFailed):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: err.Error(),
		})
	case errors.Is(err, services.ErrNoSession):
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "No active session",
		})
	case errors.Is(err, services.ErrProfileNotFound), errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Profile not found",
		})
	default:
		h.LogError(c, err, "Unexpected service error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
		})
	}
}

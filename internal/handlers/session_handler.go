package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/RxPortal-2025/member-portal/internal/services"
	"github.com/RxPortal-2025/member-portal/internal/utils"
	"github.com/RxPortal-2025/member-portal/internal/validator"
)

type SessionHandler struct {
	BaseHandler
	registry  *services.Registry
	validator *validator.Validator
}

func NewSessionHandler(registry *services.Registry, v *validator.Validator, logger utils.Logger) *SessionHandler {
	return &SessionHandler{
		BaseHandler: NewBaseHandler(logger),
		registry:    registry,
		validator:   v,
	}
}

// SignInResponse carries the provider token alongside the session view
type SignInResponse struct {
	AccessToken string               `json:"access_token"`
	Session     services.SessionView `json:"session"`
}

// ===== SESSION ENDPOINTS =====

// SignIn authenticates the account and boots its orchestrator
// @Summary Sign in
// @Description Authenticate with email and password, resolve the subscriber account and load its profiles
// @Tags session
// @Accept json
// @Produce json
// @Param request body validator.SignInRequest true "Credentials"
// @Success 200 {object} SignInResponse
// @Failure 400 {object} ErrorResponse "Bad request"
// @Failure 401 {object} ErrorResponse "Invalid credentials"
// @Failure 403 {object} ErrorResponse "No subscriber account"
// @Router /session/sign-in [post]
func (h *SessionHandler) SignIn(c *gin.Context) {
	h.LogRequest(c, "Signing in")

	var req services.SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	if errs := h.validator.Validate(&req); errs != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: errs.Error(),
		})
		return
	}

	// The account is unknown until the session resolves, so the
	// orchestrator starts unbound and is registered afterwards.
	o := h.registry.NewOrchestrator(c.Request.Context())

	if err := o.Session.SignIn(c.Request.Context(), req.Email, req.Password); err != nil {
		o.Dispose()
		h.handleServiceError(c, err)
		return
	}

	account := o.Session.CurrentAccount()
	h.registry.Bind(account.ID, o)

	c.JSON(http.StatusOK, SignInResponse{
		AccessToken: o.Session.AccessToken(),
		Session:     o.View(),
	})
}

// SignOut tears down the account's session and releases its orchestrator
// @Summary Sign out
// @Description Clear the session locally, revoke the provider session best-effort and release the orchestrator
// @Tags session
// @Produce json
// @Success 204 "Signed out"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /session/sign-out [post]
func (h *SessionHandler) SignOut(c *gin.Context) {
	h.LogRequest(c, "Signing out")

	accountID, err := GetAccountIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "Not authenticated",
		})
		return
	}

	if o := h.registry.Get(accountID); o != nil {
		if err := o.Session.SignOut(c.Request.Context()); err != nil {
			h.LogError(c, err, "Sign-out failed", "account_id", accountID)
		}
	}
	h.registry.Release(accountID)

	c.Status(http.StatusNoContent)
}

// GetSession returns the current session view
// @Summary Get session
// @Description Return the gate state, account, profile collection and active profile
// @Tags session
// @Produce json
// @Success 200 {object} services.SessionView
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /session [get]
func (h *SessionHandler) GetSession(c *gin.Context) {
	o, err := GetOrchestratorFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "Not authenticated",
		})
		return
	}

	c.JSON(http.StatusOK, o.View())
}

// ===== ERROR HANDLING =====

func (h *SessionHandler) handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "Invalid credentials",
		})
	case errors.Is(err, services.ErrAccountLookupFailed):
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: "No subscriber account for this identity",
		})
	case errors.Is(err, services.ErrValidationFailed):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: err.Error(),
		})
	default:
		h.LogError(c, err, "Unexpected service error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
		})
	}
}

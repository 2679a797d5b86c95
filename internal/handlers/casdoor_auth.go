package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/RxPortal-2025/member-portal/internal/models"
	"github.com/RxPortal-2025/member-portal/internal/repositories"
	"github.com/RxPortal-2025/member-portal/internal/services"
	"github.com/RxPortal-2025/member-portal/internal/utils"
)

// CasdoorAuthMiddleware authenticates requests against Casdoor-issued tokens
// and resolves the caller's session orchestrator.
type CasdoorAuthMiddleware struct {
	identity repositories.IdentityProvider
	registry *services.Registry
	logger   utils.Logger
}

// NewCasdoorAuthMiddleware creates the authentication middleware
func NewCasdoorAuthMiddleware(identity repositories.IdentityProvider, registry *services.Registry, logger utils.Logger) *CasdoorAuthMiddleware {
	return &CasdoorAuthMiddleware{
		identity: identity,
		registry: registry,
		logger:   logger,
	}
}

// AuthMiddleware validates the bearer token and sets the account identity
// in the request context
func (cam *CasdoorAuthMiddleware) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, ErrorResponse{
				Message: "authorization header missing",
			})
			c.Abort()
			return
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || strings.ToLower(tokenParts[0]) != "bearer" {
			c.JSON(http.StatusUnauthorized, ErrorResponse{
				Message: "invalid authorization header format",
			})
			c.Abort()
			return
		}

		token := tokenParts[1]

		identity, err := cam.identity.ParseToken(c.Request.Context(), token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, ErrorResponse{
				Message: "invalid token",
				Details: err.Error(),
			})
			c.Abort()
			return
		}

		c.Set("account_id", identity.ID)
		c.Set("account_email", identity.Email)
		c.Set("access_token", token)

		c.Next()
	}
}

// RequireOrchestrator resolves the signed-in account's orchestrator and sets
// it in the context. A valid token without a live orchestrator means the
// session was released or the process restarted; the client must sign in
// again.
func (cam *CasdoorAuthMiddleware) RequireOrchestrator() gin.HandlerFunc {
	return func(c *gin.Context) {
		accountID, err := GetAccountIDFromContext(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, ErrorResponse{
				Message: "not authenticated",
			})
			c.Abort()
			return
		}

		o := cam.registry.Get(accountID)
		if o == nil {
			c.JSON(http.StatusUnauthorized, ErrorResponse{
				Message: "no active session, sign in again",
			})
			c.Abort()
			return
		}

		c.Set("orchestrator", o)
		c.Next()
	}
}

// RequireRoleMiddleware checks the active profile's role. Admin profiles
// pass every check.
func (cam *CasdoorAuthMiddleware) RequireRoleMiddleware(requiredRoles ...models.ProfileRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		o, err := GetOrchestratorFromContext(c)
		if err != nil {
			c.JSON(http.StatusForbidden, ErrorResponse{
				Message: "no active session",
			})
			c.Abort()
			return
		}

		active := o.Directory.ActiveProfile()
		if active == nil {
			c.JSON(http.StatusForbidden, ErrorResponse{
				Message: "no active profile selected",
			})
			c.Abort()
			return
		}

		hasRequiredRole := false
		for _, requiredRole := range requiredRoles {
			if active.Role == requiredRole || active.Role == models.RoleAdmin {
				hasRequiredRole = true
				break
			}
		}

		if !hasRequiredRole {
			c.JSON(http.StatusForbidden, ErrorResponse{
				Message: fmt.Sprintf("insufficient permissions, required role: %v", requiredRoles),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetAccountIDFromContext extracts the authenticated account id from the
// Gin context
func GetAccountIDFromContext(c *gin.Context) (string, error) {
	accountID, exists := c.Get("account_id")
	if !exists {
		return "", fmt.Errorf("account id not found in context")
	}

	id, ok := accountID.(string)
	if !ok {
		return "", fmt.Errorf("invalid account id type in context")
	}

	return id, nil
}

// GetOrchestratorFromContext extracts the session orchestrator from the
// Gin context
func GetOrchestratorFromContext(c *gin.Context) (*services.Orchestrator, error) {
	v, exists := c.Get("orchestrator")
	if !exists {
		return nil, fmt.Errorf("orchestrator not found in context")
	}

	o, ok := v.(*services.Orchestrator)
	if !ok {
		return nil, fmt.Errorf("invalid orchestrator type in context")
	}

	return o, nil
}

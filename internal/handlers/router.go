package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/RxPortal-2025/member-portal/internal/models"
	"github.com/RxPortal-2025/member-portal/internal/repositories"
	"github.com/RxPortal-2025/member-portal/internal/services"
	"github.com/RxPortal-2025/member-portal/internal/utils"
	"github.com/RxPortal-2025/member-portal/internal/validator"
)

type HandlerManager struct {
	sessionHandler         *SessionHandler
	profileHandler         *ProfileHandler
	personalizationHandler *PersonalizationHandler
	accountHandler         *AccountHandler
	reportHandler          *ReportHandler
	authMiddleware         *CasdoorAuthMiddleware
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	validator *validator.Validator,
	logger utils.Logger,
	identity repositories.IdentityProvider,
) *HandlerManager {
	registry := serviceManager.Registry()
	authMiddleware := NewCasdoorAuthMiddleware(identity, registry, logger)

	return &HandlerManager{
		sessionHandler:         NewSessionHandler(registry, validator, logger),
		profileHandler:         NewProfileHandler(logger),
		personalizationHandler: NewPersonalizationHandler(validator, logger),
		accountHandler:         NewAccountHandler(serviceManager.Account(), logger),
		reportHandler:          NewReportHandler(serviceManager.Report(), logger),
		authMiddleware:         authMiddleware,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	v1 := router.Group("/api/v1")
	{
		// Sign-in is the only unauthenticated API route
		v1.POST("/session/sign-in", hm.sessionHandler.SignIn)

		authed := v1.Group("")
		authed.Use(hm.authMiddleware.AuthMiddleware())
		{
			// Session routes
			authed.POST("/session/sign-out", hm.sessionHandler.SignOut)
			authed.GET("/session", hm.authMiddleware.RequireOrchestrator(), hm.sessionHandler.GetSession)

			// Account routes
			authed.PUT("/account/contact", hm.accountHandler.UpdateContact)

			// Profile routes
			profiles := authed.Group("/profiles")
			profiles.Use(hm.authMiddleware.RequireOrchestrator())
			{
				profiles.GET("", hm.profileHandler.ListProfiles)
				profiles.POST("", hm.profileHandler.CreateProfile)
				profiles.PUT("/:id", hm.profileHandler.UpdateProfile)
				profiles.DELETE("/:id", hm.profileHandler.DeleteProfile)
				profiles.POST("/:id/select", hm.profileHandler.SelectProfile)
			}

			// Personalization routes for the active profile
			personalization := authed.Group("/personalization")
			personalization.Use(hm.authMiddleware.RequireOrchestrator())
			{
				personalization.GET("/bookmarks", hm.personalizationHandler.ListBookmarks)
				personalization.POST("/bookmarks/:resource_id/toggle", hm.personalizationHandler.ToggleBookmark)
				personalization.GET("/training-progress", hm.personalizationHandler.ListTrainingProgress)
				personalization.PUT("/training-progress/:module_id", hm.personalizationHandler.UpsertTrainingProgress)
			}

			// Report routes - pharmacist-in-charge profiles only (admin bypasses)
			reports := authed.Group("/reports")
			reports.Use(hm.authMiddleware.RequireOrchestrator())
			reports.Use(hm.authMiddleware.RequireRoleMiddleware(models.RolePharmacistPIC))
			{
				reports.GET("/training-progress.xlsx", hm.reportHandler.DownloadTrainingProgress)
			}
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "member-portal",
		})
	})
}

// Package routes handles the setup and configuration of API routes
package routes

import (
	_ "citygate/docs" // Import swagger docs
	"citygate/internal/api/handlers"
	"citygate/internal/api/middleware"
	"citygate/internal/auth"
	"citygate/internal/config"
	"citygate/internal/models"
	"citygate/internal/repository"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Dependencies are the services the routes are wired to
type Dependencies struct {
	DB          handlers.Pinger
	AuthService *auth.Service
	AccessRepo  repository.AccessRepository
	RateLimiter *middleware.RateLimiter
}

// SetupRoutes configures all API routes and their handlers
func SetupRoutes(cfg *config.Config, deps Dependencies) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	// Routes without rate limiting
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Apply rate limiting to all other routes
	if deps.RateLimiter != nil {
		r.Use(deps.RateLimiter.Middleware())
	}

	healthHandler := handlers.NewHealthHandler(deps.DB)
	authHandler := handlers.NewAuthHandler(deps.AuthService)
	accessHandler := handlers.NewAccessHandler(deps.AccessRepo)
	authMiddleware := middleware.NewAuthMiddleware(deps.AuthService)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		// Health check (no authentication required)
		v1.GET("/health", healthHandler.Health)

		// Auth routes
		authRoutes := v1.Group("/auth")
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.GET("/verify", authHandler.VerifyLink)
			authRoutes.POST("/verify", authHandler.Verify)
			authRoutes.POST("/forgot", authHandler.ForgotPassword)
			authRoutes.POST("/reset", authHandler.ResetPassword)
			authRoutes.GET("/token", authHandler.RefreshToken)
			authRoutes.GET("/me", authMiddleware.AuthRequired(), authHandler.Me)
		}

		// Admin routes
		admin := v1.Group("/admin")
		admin.Use(authMiddleware.AuthRequired(), authMiddleware.RoleRequired(models.RoleAdmin))
		{
			admin.GET("/access", accessHandler.ListAccess)
		}
	}

	return r
}

package http

import (
	"github.com/gin-gonic/gin"

	"github.com/lucasmoraes/devocional/internal/auth"
	"github.com/lucasmoraes/devocional/internal/entities"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Apply security headers to all responses
	router.Use(auth.SecurityHeadersMiddleware())

	// CSRF must run before session so that session context is preserved
	if len(cfg.CSRFSecret) > 0 {
		router.Use(auth.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))
	}

	// Session runs after CSRF so session context isn't overwritten by CSRF's
	// request replacement
	if cfg.SessionManager != nil {
		router.Use(cfg.SessionManager.SessionLoadSave())
	}

	if cfg.AuthMiddleware != nil {
		router.Use(cfg.AuthMiddleware.Handler())
	}

	// Register auth routes if auth is enabled
	if cfg.AuthService != nil && cfg.AuthService.IsAuthEnabled() {
		authController := auth.NewAuthController(cfg.AuthService, cfg.SessionManager, cfg.AuthConfig)
		authController.RegisterRoutes(router)
	}

	health := NewHealthController(cfg.Database, cfg.Version)
	devotionalsController := NewDevotionalsController(cfg.DevotionalStore)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// Devotional endpoints; reads are public, writes need a session
	router.GET("/api/devotionals", devotionalsController.List)
	router.GET("/api/devotionals/:slug", devotionalsController.GetBySlug)
	router.POST("/api/devotionals", devotionalsController.Create)
	router.PUT("/api/devotionals/:id", devotionalsController.Update)
	router.DELETE("/api/devotionals/:id", devotionalsController.Delete)

	// Tag endpoints
	if cfg.TagStore != nil {
		tagsController := NewTagsController(cfg.TagStore, cfg.TaskClient)
		router.GET("/api/tags", tagsController.List)
		router.POST("/api/tags", tagsController.Create)
		router.POST("/api/admin/tags/cleanup", tagsController.CleanupOrphans)
	}

	// Any authenticated user can list their own articles
	router.GET("/api/users/:id/devotionals", devotionalsController.ListByAuthor)

	// User management endpoints; admin-only when auth is enabled
	if cfg.AuthService != nil {
		usersController := NewUsersController(cfg.AuthService)
		users := router.Group("/api/users")
		if cfg.AuthMiddleware != nil {
			users.Use(cfg.AuthMiddleware.RequireRole(entities.UserRoleAdmin))
		}
		users.GET("", usersController.List)
		users.GET("/:id", usersController.Get)
		users.POST("", usersController.Create)
		users.PUT("/:id", usersController.Update)
		users.DELETE("/:id", usersController.Delete)
	}

	return router
}

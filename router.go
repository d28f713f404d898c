package main

import (
	"net/http"

	"gaddiyalibe/internal/app"
	"gaddiyalibe/internal/handlers"
	"gaddiyalibe/internal/middleware"
	"gaddiyalibe/internal/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
)

func setupRouter(a *app.App, authenticator middleware.Authenticator, rateLimiter *middleware.RateLimiter) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(a.Logger))

	// Media is already compressed
	router.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedExtensions([]string{
		".mp4", ".avi", ".mov", ".webm", ".mp3", ".wav", ".ogg", ".jpg", ".jpeg", ".png", ".webp"})))

	if rateLimiter != nil {
		router.Use(middleware.RateLimit(rateLimiter))
	}

	var origins []string
	if a.Config != nil {
		origins = a.Config.AllowedOrigins
	}
	if len(origins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins: origins,
			AllowMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowHeaders: []string{
				"Origin", "Content-Type", "Authorization",
				"Cache-Control", "If-None-Match", "X-Request-ID",
			},
			ExposeHeaders: []string{
				"Content-Length", "Cache-Control", "ETag", "X-Request-ID",
				"X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After",
			},
			AllowCredentials: true,
			MaxAge:           12 * 3600,
		}))
	}

	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.CacheControl())

	router.GET("/health", func(c *gin.Context) {
		storeErr := a.Health(c.Request.Context())
		status, health := http.StatusOK, "healthy"
		if storeErr != nil {
			status, health = http.StatusServiceUnavailable, "degraded"
		}
		backend := "memory"
		if a.Config != nil {
			backend = a.Config.StoreBackend
		}
		c.JSON(status, gin.H{
			"status": health,
			"store":  backend,
			"app":    "podcast-catalog",
			"features": gin.H{
				"auth":     authenticator != nil,
				"uploads":  a.Uploads.Enabled(),
				"catalog":  true,
				"comments": true,
			},
		})
	})

	setupRoutes(router, a, authenticator)
	return router
}

func setupRoutes(router *gin.Engine, a *app.App, authenticator middleware.Authenticator) {
	catalogHandler := handlers.NewCatalogHandler(a.Catalog)
	episodeHandler := handlers.NewEpisodeHandler(a.Watch, a.Comments)
	authHandler := handlers.NewAuthHandler(a.Users)
	userHandler := handlers.NewUserHandler(a.Users)
	uploadHandler := handlers.NewUploadHandler(a.Uploads)

	requireAuth := middleware.FirebaseAuth(authenticator, a.Logger)

	api := router.Group("/api/v1")

	// Public catalog routes
	api.GET("/feed", catalogHandler.GetFeed)
	episodes := api.Group("/episodes")
	{
		episodes.GET("", catalogHandler.GetEpisodes)
		episodes.GET("/seasons", catalogHandler.GetSeasons)
		episodes.GET("/:episodeId", episodeHandler.GetEpisode)
		episodes.GET("/:episodeId/watch", episodeHandler.GetWatchView)
		episodes.GET("/:episodeId/comments", episodeHandler.GetComments)
		episodes.POST("/:episodeId/comments", requireAuth, episodeHandler.CreateComment)
	}

	auth := api.Group("/auth")
	auth.Use(requireAuth)
	{
		auth.POST("/sync", authHandler.SyncUser)
		auth.GET("/user", authHandler.GetCurrentUser)
	}

	me := api.Group("/me")
	me.Use(requireAuth)
	{
		me.GET("/watch-later", userHandler.GetWatchLater)
		me.POST("/watch-later", userHandler.AddToWatchLater)
		me.DELETE("/watch-later/:episodeId", userHandler.RemoveFromWatchLater)
		me.POST("/profile-picture", middleware.BodyLimit(services.MaxProfilePictureSize+1024*1024), uploadHandler.UploadProfilePicture)
	}
}

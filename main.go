// main.go - Podcast catalog API server
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gaddiyalibe/internal/app"
	"gaddiyalibe/internal/config"
	"gaddiyalibe/internal/logging"
	"gaddiyalibe/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	bootLogger := logging.NewDefault()

	// Load environment variables
	if err := godotenv.Load(); err != nil {
		bootLogger.Warn(".env file not found")
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		bootLogger.Fatal("Failed to load configuration", zap.Error(err))
	}

	logger, err := logging.New(logging.Options{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		Development: cfg.Environment == gin.DebugMode,
	})
	if err != nil {
		bootLogger.Fatal("Failed to build logger", zap.Error(err))
	}
	defer logger.Sync() //nolint:errcheck

	// Set Gin mode
	gin.SetMode(cfg.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize application", zap.Error(err))
	}
	defer application.Close()

	rateLimiter := middleware.NewRateLimiter()
	defer rateLimiter.Stop()

	var authenticator middleware.Authenticator
	if application.Firebase != nil {
		authenticator = application.Firebase
	}
	router := setupRouter(application, authenticator, rateLimiter)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("podcast API starting",
			zap.String("port", cfg.Port),
			zap.String("environment", cfg.Environment),
			zap.String("store", cfg.StoreBackend),
			zap.Bool("auth", application.Firebase != nil),
			zap.Bool("uploads", application.Uploads.Enabled()))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

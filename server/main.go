package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/18steinc/watermark-server/internal/config"
	"github.com/18steinc/watermark-server/internal/http/handlers"
	"github.com/18steinc/watermark-server/internal/http/middleware"
	"github.com/18steinc/watermark-server/internal/http/routes"
	"github.com/18steinc/watermark-server/internal/services/storage"
	"github.com/18steinc/watermark-server/internal/services/sweeper"
	"github.com/18steinc/watermark-server/internal/services/watermark"
)

func main() {
	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Sync()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Initialize services
	store, err := storage.NewService(cfg.Storage)
	if err != nil {
		logger.Fatal("Failed to initialize storage service", zap.Error(err))
	}

	overlay, err := watermark.LoadOverlay(cfg.Watermark.LogoPath)
	if err != nil {
		logger.Fatal("Failed to load watermark overlay", zap.Error(err))
	}
	pipeline := watermark.NewPipeline(overlay, cfg.Watermark)

	// Retention sweeper runs for as long as the server does
	retention := &sweeper.Sweeper{
		Dirs:     []string{store.Staged().Dir(), store.Watermarked().Dir()},
		MaxAge:   cfg.Retention.MaxAge,
		Interval: cfg.Retention.SweepInterval,
		Logger:   logger,
	}
	retention.Start(context.Background())

	// 10 req/s with a burst of 20 per client IP
	rateLimiter := middleware.NewRateLimiter(rate.Limit(10), 20)

	// Initialize handlers
	photoHandler := handlers.NewPhotoHandler(pipeline, store, logger, cfg)

	router := routes.NewRouter(photoHandler, rateLimiter, logger, cfg.Server.MaxUploadSize)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		Handler:      router.SetupRoutes(),
	}

	// Start server
	go func() {
		logger.Info("Starting server", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	retention.Stop()
	rateLimiter.Stop()

	logger.Info("Server exited")
}

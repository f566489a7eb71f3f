package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/18steinc/watermark-server/internal/http/handlers"
	"github.com/18steinc/watermark-server/internal/http/middleware"
)

type Router struct {
	photoHandler  *handlers.PhotoHandler
	rateLimiter   *middleware.RateLimiter
	logger        *zap.Logger
	maxUploadSize int64
}

func NewRouter(
	photoHandler *handlers.PhotoHandler,
	rateLimiter *middleware.RateLimiter,
	logger *zap.Logger,
	maxUploadSize int64,
) *Router {
	return &Router{
		photoHandler:  photoHandler,
		rateLimiter:   rateLimiter,
		logger:        logger,
		maxUploadSize: maxUploadSize,
	}
}

func (r *Router) SetupRoutes() *gin.Engine {
	router := gin.New()
	router.MaxMultipartMemory = r.maxUploadSize

	router.Use(middleware.Logger(r.logger))
	router.Use(middleware.ErrorHandler(r.logger))
	router.Use(middleware.CORS())
	router.Use(middleware.SecurityHeaders())

	// API version 1
	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", r.photoHandler.HealthCheck)

		// Only photo traffic is rate limited; health probes stay free.
		photos := v1.Group("/photos")
		photos.Use(r.rateLimiter.Middleware())
		{
			photos.GET("", r.photoHandler.ListPhotos)
			photos.POST("/stage", middleware.ValidateContentType(), r.photoHandler.StagePhotos)
			photos.POST("/process", r.photoHandler.ProcessPhotos)
			photos.POST("/watermark", middleware.ValidateContentType(), r.photoHandler.WatermarkPhoto)

			photos.GET("/watermarked/:filename", r.photoHandler.DownloadPhoto)
			photos.DELETE("/watermarked/:filename", r.photoHandler.DeletePhoto)
			photos.GET("/originals/:filename", r.photoHandler.DownloadOriginal)
			photos.DELETE("/originals/:filename", r.photoHandler.DeleteOriginal)
		}
	}

	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{
			"status":  "OK",
			"message": "Photo watermark service is running",
		})
	})

	return router
}

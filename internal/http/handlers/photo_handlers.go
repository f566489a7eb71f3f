package handlers

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/18steinc/watermark-server/internal/config"
	"github.com/18steinc/watermark-server/internal/models"
	"github.com/18steinc/watermark-server/internal/services/storage"
	"github.com/18steinc/watermark-server/internal/services/watermark"
	"github.com/18steinc/watermark-server/internal/services/watermark/codec"
)

const (
	photoParamKey  = "photo"
	photosParamKey = "photos"
)

type PhotoHandler struct {
	pipeline *watermark.Pipeline
	storage  *storage.Service
	logger   *zap.Logger
	config   *config.Config
}

func NewPhotoHandler(
	pipeline *watermark.Pipeline,
	storage *storage.Service,
	logger *zap.Logger,
	config *config.Config,
) *PhotoHandler {
	return &PhotoHandler{
		pipeline: pipeline,
		storage:  storage,
		logger:   logger,
		config:   config,
	}
}

// === MAIN API ENDPOINTS ===

// StagePhotos accepts one or more uploads and holds them for processing.
// Every file is validated before the first byte is written, so a batch with
// one bad file stages nothing.
func (h *PhotoHandler) StagePhotos(c *gin.Context) {
	files, err := h.formFiles(c, photosParamKey)
	if err != nil {
		h.respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.validateUploads(files); err != nil {
		h.respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	staged := make([]string, 0, len(files))
	for _, fh := range files {
		name, err := h.stageOne(fh)
		if err != nil {
			h.logger.Error("Failed to stage upload", zap.String("filename", fh.Filename), zap.Error(err))
			h.respondError(c, http.StatusInternalServerError, "Failed to stage "+fh.Filename)
			return
		}
		staged = append(staged, name)
	}

	h.logger.Info("Staged uploads", zap.Int("count", len(staged)))
	c.JSON(http.StatusOK, models.APIResponse{
		Success: true,
		Data:    models.StageResult{Staged: len(staged), Filenames: staged},
	})
}

// ListPhotos returns both buckets: staged originals and watermarked copies.
func (h *PhotoHandler) ListPhotos(c *gin.Context) {
	staged, err := h.photosFrom(h.storage.Staged(), originalDownloadPath)
	if err != nil {
		h.logger.Error("Failed to list staged photos", zap.Error(err))
		h.respondError(c, http.StatusInternalServerError, "Failed to list photos")
		return
	}
	watermarked, err := h.photosFrom(h.storage.Watermarked(), downloadPath)
	if err != nil {
		h.logger.Error("Failed to list watermarked photos", zap.Error(err))
		h.respondError(c, http.StatusInternalServerError, "Failed to list photos")
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Success: true,
		Data:    models.PhotoListing{Staged: staged, Watermarked: watermarked},
	})
}

// ProcessPhotos watermarks every staged photo with a supported extension.
// Each original is removed once its watermarked copy is safely stored; the
// first failure aborts the run.
func (h *PhotoHandler) ProcessPhotos(c *gin.Context) {
	files, err := h.storage.Staged().List()
	if err != nil {
		h.logger.Error("Failed to list staged photos", zap.Error(err))
		h.respondError(c, http.StatusInternalServerError, "Failed to list photos")
		return
	}

	// Strays without a supported extension are skipped, matching the
	// listing filter; the sweeper reclaims them eventually.
	staged := make([]storage.FileInfo, 0, len(files))
	for _, f := range files {
		if codec.Supported(f.Name) {
			staged = append(staged, f)
		}
	}
	if len(staged) == 0 {
		h.respondError(c, http.StatusBadRequest, "No files to process")
		return
	}

	links := make([]models.DownloadLink, 0, len(staged))
	for _, f := range staged {
		link, err := h.processOne(f.Name)
		if err != nil {
			h.logger.Error("Processing failed", zap.String("filename", f.Name), zap.Error(err))
			h.respondProcessError(c, f.Name, err)
			return
		}
		links = append(links, link)
	}

	h.logger.Info("Processed staged photos", zap.Int("count", len(links)))
	c.JSON(http.StatusOK, models.APIResponse{
		Success: true,
		Data: models.ProcessResult{
			JobID:       uuid.New().String(),
			Processed:   len(links),
			Links:       links,
			ProcessedAt: time.Now(),
		},
	})
}

// WatermarkPhoto watermarks a single upload in one round trip and streams
// the result back as an attachment. The copy is also stored for later
// download.
func (h *PhotoHandler) WatermarkPhoto(c *gin.Context) {
	fh, err := c.FormFile(photoParamKey)
	if err != nil {
		h.respondError(c, http.StatusBadRequest, "No photo file provided")
		return
	}
	if err := h.validateUploads([]*multipart.FileHeader{fh}); err != nil {
		h.respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	data, err := readFormFile(fh)
	if err != nil {
		h.logger.Error("Failed to read upload", zap.String("filename", fh.Filename), zap.Error(err))
		h.respondError(c, http.StatusInternalServerError, "Failed to read upload")
		return
	}

	out, outName, err := h.pipeline.Apply(data, fh.Filename)
	if err != nil {
		h.logger.Error("Watermarking failed", zap.String("filename", fh.Filename), zap.Error(err))
		h.respondProcessError(c, fh.Filename, err)
		return
	}

	if err := h.storage.Watermarked().Save(outName, out); err != nil {
		h.logger.Error("Failed to store watermarked copy", zap.String("filename", outName), zap.Error(err))
		h.respondError(c, http.StatusInternalServerError, "Failed to store watermarked copy")
		return
	}

	cdc, _ := codec.ForFilename(outName)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", outName))
	c.Data(http.StatusOK, cdc.MIME(), out)
}

// DownloadPhoto serves a watermarked copy as an attachment.
func (h *PhotoHandler) DownloadPhoto(c *gin.Context) {
	h.serveFrom(c, h.storage.Watermarked())
}

// DownloadOriginal serves a staged original as an attachment.
func (h *PhotoHandler) DownloadOriginal(c *gin.Context) {
	h.serveFrom(c, h.storage.Staged())
}

// DeletePhoto removes a watermarked copy.
func (h *PhotoHandler) DeletePhoto(c *gin.Context) {
	h.deleteFrom(c, h.storage.Watermarked())
}

// DeleteOriginal removes a staged original.
func (h *PhotoHandler) DeleteOriginal(c *gin.Context) {
	h.deleteFrom(c, h.storage.Staged())
}

// HealthCheck
func (h *PhotoHandler) HealthCheck(c *gin.Context) {
	services := h.storage.HealthCheck()
	overall := h.calculateOverallHealth(services)

	statusCode := http.StatusOK
	if overall == "unhealthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, models.APIResponse{
		Success: overall == "healthy",
		Data: models.HealthCheck{
			Status:    overall,
			Timestamp: time.Now(),
			Services:  services,
		},
	})
}

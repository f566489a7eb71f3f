package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/18steinc/watermark-server/internal/models"
	"github.com/18steinc/watermark-server/internal/services/storage"
	"github.com/18steinc/watermark-server/internal/services/watermark/codec"
)

// === REQUEST PARSING ===

func (h *PhotoHandler) formFiles(c *gin.Context, key string) ([]*multipart.FileHeader, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, fmt.Errorf("failed to parse form data: %v", err)
	}

	files := form.File[key]
	if len(files) == 0 {
		return nil, fmt.Errorf("no files provided under %q", key)
	}
	return files, nil
}

func (h *PhotoHandler) validateUploads(files []*multipart.FileHeader) error {
	for _, fh := range files {
		if !codec.Supported(fh.Filename) {
			return fmt.Errorf("unsupported file type: %s", fh.Filename)
		}
		if fh.Size > h.config.Server.MaxUploadSize {
			return fmt.Errorf("file too large: %s (%d bytes)", fh.Filename, fh.Size)
		}
	}
	return nil
}

func readFormFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// === PROCESSING LOGIC ===

func (h *PhotoHandler) stageOne(fh *multipart.FileHeader) (string, error) {
	data, err := readFormFile(fh)
	if err != nil {
		return "", err
	}
	if err := h.storage.Staged().Save(fh.Filename, data); err != nil {
		return "", err
	}
	name, err := storage.CleanName(fh.Filename)
	if err != nil {
		return "", err
	}
	return name, nil
}

func (h *PhotoHandler) processOne(filename string) (models.DownloadLink, error) {
	data, err := h.storage.Staged().Read(filename)
	if err != nil {
		return models.DownloadLink{}, err
	}

	out, outName, err := h.pipeline.Apply(data, filename)
	if err != nil {
		return models.DownloadLink{}, err
	}

	if err := h.storage.Watermarked().Save(outName, out); err != nil {
		return models.DownloadLink{}, err
	}

	// The staged original goes away once its watermarked copy is safe. A
	// failed delete leaves a stray original for the sweeper, not a failed
	// request.
	if err := h.storage.Staged().Delete(filename); err != nil {
		h.logger.Warn("Failed to remove staged original", zap.String("filename", filename), zap.Error(err))
	}

	return models.DownloadLink{
		Filename: outName,
		URL:      downloadPath(outName),
	}, nil
}

// === FILE SERVING ===

func (h *PhotoHandler) serveFrom(c *gin.Context, bucket *storage.Bucket) {
	filename := c.Param("filename")
	path, err := bucket.Path(filename)
	if err != nil {
		h.respondStorageError(c, filename, err)
		return
	}
	c.FileAttachment(path, filepath.Base(path))
}

func (h *PhotoHandler) deleteFrom(c *gin.Context, bucket *storage.Bucket) {
	filename := c.Param("filename")
	if err := bucket.Delete(filename); err != nil {
		h.respondStorageError(c, filename, err)
		return
	}

	h.logger.Info("Deleted file", zap.String("filename", filename))
	c.JSON(http.StatusOK, models.APIResponse{Success: true})
}

// === RESPONSE HANDLING ===

func (h *PhotoHandler) respondError(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, models.APIResponse{
		Success: false,
		Error:   message,
	})
}

// respondProcessError maps pipeline failures onto statuses: problems with
// the input itself are the client's to fix, everything else is ours.
func (h *PhotoHandler) respondProcessError(c *gin.Context, filename string, err error) {
	if errors.Is(err, codec.ErrUnsupportedFormat) || errors.Is(err, codec.ErrDecode) {
		h.respondError(c, http.StatusBadRequest, fmt.Sprintf("Cannot process %s: %v", filename, err))
		return
	}
	h.respondError(c, http.StatusInternalServerError, fmt.Sprintf("Failed to process %s", filename))
}

func (h *PhotoHandler) respondStorageError(c *gin.Context, filename string, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		h.respondError(c, http.StatusNotFound, "File not found")
	case errors.Is(err, storage.ErrInvalidName):
		h.respondError(c, http.StatusBadRequest, "Invalid filename")
	default:
		h.logger.Error("Storage error", zap.String("filename", filename), zap.Error(err))
		h.respondError(c, http.StatusInternalServerError, "Storage error")
	}
}

// === UTILITY METHODS ===

func (h *PhotoHandler) photosFrom(bucket *storage.Bucket, urlFor func(string) string) ([]models.Photo, error) {
	files, err := bucket.List()
	if err != nil {
		return nil, err
	}

	photos := make([]models.Photo, 0, len(files))
	for _, f := range files {
		if !codec.Supported(f.Name) {
			continue
		}
		photos = append(photos, models.Photo{
			Filename:   f.Name,
			Size:       f.Size,
			ModifiedAt: f.ModTime,
			URL:        urlFor(f.Name),
		})
	}
	return photos, nil
}

func (h *PhotoHandler) calculateOverallHealth(services map[string]string) string {
	for _, status := range services {
		if status != "healthy" {
			return "unhealthy"
		}
	}
	return "healthy"
}

func downloadPath(filename string) string {
	return "/api/v1/photos/watermarked/" + url.PathEscape(filename)
}

func originalDownloadPath(filename string) string {
	return "/api/v1/photos/originals/" + url.PathEscape(filename)
}

package storage

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/18steinc/watermark-server/internal/config"
)

var (
	ErrNotFound    = errors.New("file not found")
	ErrInvalidName = errors.New("invalid filename")
)

// FileInfo describes one stored photo.
type FileInfo struct {
	Name    string
	Size    int64
	ModTime time.Time
}

// Service persists photos on the local filesystem in two buckets: staged
// uploads waiting for processing and finished watermarked copies.
type Service struct {
	staged      *Bucket
	watermarked *Bucket
}

func NewService(cfg config.StorageConfig) (*Service, error) {
	for _, dir := range []string{cfg.UploadPath, cfg.WatermarkedPath} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create storage dir %s: %w", dir, err)
		}
	}
	return &Service{
		staged:      &Bucket{dir: cfg.UploadPath},
		watermarked: &Bucket{dir: cfg.WatermarkedPath},
	}, nil
}

// Staged holds uploads that have not been watermarked yet.
func (s *Service) Staged() *Bucket { return s.staged }

// Watermarked holds finished outputs ready for download.
func (s *Service) Watermarked() *Bucket { return s.watermarked }

package sweeper

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// Sweeper deletes stored photos once they outlive the retention window,
// judged by modification time. It runs one pass immediately on Start and
// then once per interval until stopped.
type Sweeper struct {
	Dirs     []string
	MaxAge   time.Duration
	Interval time.Duration
	Logger   *zap.Logger

	cancel context.CancelFunc
	done   chan struct{}
}

func (s *Sweeper) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	go s.loop(ctx)
	s.Logger.Info("retention sweeper started",
		zap.Duration("max_age", s.MaxAge),
		zap.Duration("interval", s.Interval))
}

func (s *Sweeper) Stop() {
	if s.cancel != nil {
		s.cancel()
		<-s.done
	}
	s.Logger.Info("retention sweeper stopped")
}

func (s *Sweeper) loop(ctx context.Context) {
	defer close(s.done)

	s.RunOnce()

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.RunOnce()
		}
	}
}

// RunOnce sweeps every directory a single time. Failures on individual files
// are logged and skipped so one bad file never blocks the rest, and a file
// already removed by someone else is not an error.
func (s *Sweeper) RunOnce() {
	cutoff := time.Now().Add(-s.MaxAge)
	for _, dir := range s.Dirs {
		s.sweepDir(dir, cutoff)
	}
}

func (s *Sweeper) sweepDir(dir string, cutoff time.Time) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		s.Logger.Error("sweep: read dir", zap.String("dir", dir), zap.Error(err))
		return
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			s.Logger.Error("sweep: stat file", zap.String("file", entry.Name()), zap.Error(err))
			continue
		}
		if !info.ModTime().Before(cutoff) {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		if err := os.Remove(path); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			s.Logger.Error("sweep: remove file", zap.String("file", path), zap.Error(err))
			continue
		}
		removed++
		s.Logger.Debug("sweep: removed expired file", zap.String("file", path))
	}

	if removed > 0 {
		s.Logger.Info("sweep: removed expired files", zap.String("dir", dir), zap.Int("count", removed))
	}
}

package server

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
)

// StartScratchCleanup schedules a periodic sweep of the scratch directory,
// removing render and crop artifacts older than maxAge. The returned cron is
// already running; stop it on shutdown.
func StartScratchCleanup(schedule, scratchDir string, maxAge time.Duration, logger *slog.Logger) (*cron.Cron, error) {
	if logger == nil {
		logger = slog.Default()
	}
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		sweepScratch(scratchDir, maxAge, logger)
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	logger.Info("cleanup.scheduled", "schedule", schedule, "scratch_dir", scratchDir, "max_age", maxAge.String())
	return c, nil
}

func sweepScratch(scratchDir string, maxAge time.Duration, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	cutoff := time.Now().Add(-maxAge)
	entries, err := os.ReadDir(scratchDir)
	if err != nil {
		logger.Warn("cleanup.read_dir_failed", "dir", scratchDir, "error", err)
		return
	}

	removed := 0
	for _, e := range entries {
		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		path := filepath.Join(scratchDir, e.Name())
		if err := os.RemoveAll(path); err != nil {
			logger.Warn("cleanup.remove_failed", "path", path, "error", err)
			continue
		}
		removed++
	}
	if removed > 0 {
		logger.Info("cleanup.swept", "dir", scratchDir, "removed", removed)
	}
}

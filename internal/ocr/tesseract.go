package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"
)

// Runner matches the acquisition layer's command seam so both packages can
// share one implementation.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

// Config for the tesseract adapter. Language defaults to Spanish since every
// supported document class is Colombian.
type Config struct {
	Tesseract   string
	Language    string
	TessdataDir string
}

// Engine recognizes text from page images via the tesseract CLI.
type Engine struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewEngine(cfg Config, runner Runner, logger *slog.Logger) *Engine {
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.Language == "" {
		cfg.Language = "spa"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{cfg: cfg, runner: runner, logger: logger}
}

// Recognize runs OCR on one image and returns its non-empty lines.
func (e *Engine) Recognize(ctx context.Context, imagePath string) ([]string, error) {
	start := time.Now()

	args := []string{imagePath, "stdout", "-l", e.cfg.Language}
	if e.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", e.cfg.TessdataDir)
	}

	stdout, _, err := e.runner.Run(ctx, e.cfg.Tesseract, args...)
	if err != nil {
		return nil, fmt.Errorf("tesseract failed on %s: %w", filepath.Base(imagePath), err)
	}

	var lines []string
	for _, line := range strings.Split(string(stdout), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}

	e.logger.Debug("ocr.recognize.ok",
		"image", filepath.Base(imagePath),
		"lines", len(lines),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return lines, nil
}

// RecognizeMany OCRs a sequence of page images and joins their text in order.
func (e *Engine) RecognizeMany(ctx context.Context, imagePaths []string) (string, error) {
	var pages []string
	for _, p := range imagePaths {
		lines, err := e.Recognize(ctx, p)
		if err != nil {
			return "", err
		}
		pages = append(pages, strings.Join(lines, "\n"))
	}
	return strings.Join(pages, "\n"), nil
}

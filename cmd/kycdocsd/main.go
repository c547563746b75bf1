package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kycdocs/internal/acquire"
	"kycdocs/internal/common"
	"kycdocs/internal/llm"
	"kycdocs/internal/llm/openai"
	"kycdocs/internal/llm/vertex"
	"kycdocs/internal/ocr"
	"kycdocs/internal/pipeline"
	"kycdocs/internal/runstore"
	"kycdocs/internal/server"
	"kycdocs/internal/storage"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	if err := os.MkdirAll(cfg.Server.ScratchDir, 0o755); err != nil {
		logger.Error("failed to create scratch dir", "dir", cfg.Server.ScratchDir, "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		logger.Error("failed to initialize case store", "error", err)
		os.Exit(1)
	}

	runs, err := runstore.Open(cfg.RunDB.Path)
	if err != nil {
		logger.Error("failed to open run db", "path", cfg.RunDB.Path, "error", err)
		os.Exit(1)
	}
	defer runs.Close()

	runner := acquire.ExecRunner{}
	acquirer := acquire.NewAcquirer(acquire.Config{
		Pdftotext:  cfg.Acquire.Pdftotext,
		Pdftoppm:   cfg.Acquire.Pdftoppm,
		ScratchDir: cfg.Server.ScratchDir,
	}, runner, logger)
	engine := ocr.NewEngine(ocr.Config{
		Tesseract:   cfg.OCR.Tesseract,
		Language:    cfg.OCR.Language,
		TessdataDir: cfg.OCR.TessdataDir,
	}, runner, logger)

	drafter, closeDrafter, err := buildDrafter(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize llm client", "provider", cfg.LLM.Provider, "error", err)
		os.Exit(1)
	}
	defer closeDrafter()

	pipe := pipeline.New(acquirer, engine, drafter, logger)
	srv := server.New(store, pipe, runs, cfg.Server.ScratchDir, logger)

	sweeper, err := server.StartScratchCleanup(cfg.Server.CleanupSchedule,
		cfg.Server.ScratchDir, cfg.Server.ScratchMaxAge, logger)
	if err != nil {
		logger.Error("failed to schedule scratch cleanup", "error", err)
		os.Exit(1)
	}
	defer sweeper.Stop()

	httpServer := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("http serving", "addr", cfg.Server.Addr, "storage", cfg.Storage.Backend, "llm", cfg.LLM.Provider)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http serve failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown failed", "error", err)
	}
	logger.Info("stopped")
}

func buildDrafter(ctx context.Context, cfg *common.Config, logger *slog.Logger) (llm.FieldDrafter, func(), error) {
	switch cfg.LLM.Provider {
	case "vertex":
		client, err := vertex.NewClient(ctx, vertex.Config{
			ProjectID: cfg.LLM.VertexProject,
			Region:    cfg.LLM.VertexRegion,
			Model:     cfg.LLM.Model,
		}, logger)
		if err != nil {
			return nil, nil, err
		}
		return client, func() { _ = client.Close() }, nil
	default:
		client := openai.NewClient(openai.Config{
			APIKey:      cfg.LLM.APIKey,
			BaseURL:     cfg.LLM.BaseURL,
			Model:       cfg.LLM.Model,
			Temperature: cfg.LLM.Temperature,
			Timeout:     cfg.LLM.Timeout,
		}, logger)
		return client, func() {}, nil
	}
}

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"kycdocs/constants"
	"kycdocs/internal/acquire"
	"kycdocs/internal/common"
	"kycdocs/internal/export"
	"kycdocs/internal/llm/openai"
	"kycdocs/internal/ocr"
	"kycdocs/internal/pipeline"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		dir     = flag.String("dir", "", "directory with the case's PDF documents (required)")
		out     = flag.String("out", "", "output XLSX file path (optional, defaults to <dir>/extraccion.xlsx)")
		jsonOut = flag.String("json", "", "output JSON result path (optional)")
	)
	flag.Parse()

	if *dir == "" {
		printError("Error: --dir is required\n")
		os.Exit(1)
	}
	if *out == "" {
		*out = filepath.Join(*dir, "extraccion.xlsx")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	ctx := context.Background()
	cfg := common.LoadConfig()

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

	if cfg.LLM.APIKey == "" {
		logger.Warn("OPENAI_API_KEY not configured, drafts will fail and only regex correctors will fill fields")
	}
	drafter := openai.NewClient(openai.Config{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLM.Timeout,
	}, logger)

	items, err := collectDocuments(*dir)
	if err != nil {
		logger.Error("failed to scan input directory", "dir", *dir, "error", err)
		os.Exit(1)
	}
	if len(items) == 0 {
		printError("Error: no PDF documents found in %s\n", *dir)
		os.Exit(1)
	}
	logger.Info("starting extraction", "dir", *dir, "documents", len(items))

	pipe := pipeline.New(acquirer, engine, drafter, logger)
	result := pipe.Run(ctx, items)

	workbook, err := export.Workbook(result.Master)
	if err != nil {
		logger.Error("failed to build workbook", "error", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*out, workbook, 0o644); err != nil {
		logger.Error("failed to write output file", "path", *out, "error", err)
		os.Exit(1)
	}

	if *jsonOut != "" {
		payload, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			logger.Error("failed to marshal result", "error", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*jsonOut, payload, 0o644); err != nil {
			logger.Error("failed to write result file", "path", *jsonOut, "error", err)
			os.Exit(1)
		}
	}

	warnings, errorCount := 0, 0
	for _, e := range result.Logs {
		switch e.Severity {
		case "WARNING":
			warnings++
		case "ERROR":
			errorCount++
		}
	}

	logger.Info("extraction complete",
		"documents", len(items),
		"warnings", warnings,
		"errors", errorCount,
		"output_file", *out)

	fmt.Printf("Extraction complete!\n")
	fmt.Printf("- Documents: %d\n", len(items))
	fmt.Printf("- Warnings: %d\n", warnings)
	fmt.Printf("- Errors: %d\n", errorCount)
	fmt.Printf("- Output: %s\n", *out)
}

// collectDocuments gathers the directory's PDFs as pipeline inputs. The file
// name is what classifies each document, exactly as with HTTP uploads.
func collectDocuments(dir string) ([]pipeline.DocItem, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var items []pipeline.DocItem
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
			continue
		}
		items = append(items, pipeline.DocItem{
			Path:         filepath.Join(dir, e.Name()),
			OriginalName: e.Name(),
			ContentType:  "application/pdf",
		})
		if kind := constants.ClassifyFilename(e.Name()); kind != constants.Unknown {
			slog.Debug("classified document", "file", e.Name(), "doc_id", string(kind))
		}
	}
	return items, nil
}

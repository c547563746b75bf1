package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"kycdocs/internal/common"
	"kycdocs/internal/export"
	"kycdocs/internal/pipeline"
	"kycdocs/internal/runstore"
	"kycdocs/internal/storage"
)

const maxUploadBytes = 32 << 20

// Runner executes the extraction pipeline; split out so handler tests can
// substitute a canned implementation.
type Runner interface {
	Run(ctx context.Context, items []pipeline.DocItem) *pipeline.Result
}

// Server wires the HTTP surface to the pipeline and the case store.
type Server struct {
	router     chi.Router
	store      storage.CaseStore
	pipe       Runner
	runs       *runstore.Store
	scratchDir string
	logger     *slog.Logger
}

func New(store storage.CaseStore, pipe Runner, runs *runstore.Store, scratchDir string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if scratchDir == "" {
		scratchDir = os.TempDir()
	}
	s := &Server{
		store:      store,
		pipe:       pipe,
		runs:       runs,
		scratchDir: scratchDir,
		logger:     logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(5 * time.Minute))

	r.Get("/health", s.handleHealth)
	r.Post("/upload", s.handleUpload)
	r.Post("/process/{caseID}", s.handleProcess)
	r.Get("/results/{caseID}", s.handleResults)
	r.Get("/export/{caseID}", s.handleExport)
	r.Post("/approve/{caseID}", s.handleApprove)
	r.Get("/approve/{caseID}", s.handleApprovalStatus)
	r.Get("/runs", s.handleRuns)
	r.Handle("/metrics", promhttp.Handler())

	s.router = r
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleUpload receives the case's documents as multipart field "files",
// mints a case id and stores everything for later processing.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.writeError(w, common.TagError(common.ErrInvalidInput, "invalid multipart body", err))
		return
	}
	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		s.writeError(w, common.TagError(common.ErrInvalidInput, "no files uploaded", nil))
		return
	}

	caseID := uuid.New().String()
	var names []string
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			s.writeError(w, fmt.Errorf("open upload %q: %w", fh.Filename, err))
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			s.writeError(w, fmt.Errorf("read upload %q: %w", fh.Filename, err))
			return
		}
		if err := s.store.SaveUpload(r.Context(), caseID, fh.Filename, data); err != nil {
			s.writeError(w, err)
			return
		}
		names = append(names, filepath.Base(fh.Filename))
		uploadsTotal.Inc()
	}
	if err := s.store.SaveStatus(r.Context(), caseID, storage.StatusUploaded); err != nil {
		s.writeError(w, err)
		return
	}

	s.logger.Info("http.upload.ok", "case_id", caseID, "files", len(names))
	s.writeJSON(w, http.StatusOK, map[string]any{
		"case_id": caseID,
		"files":   names,
	})
}

// handleProcess runs the pipeline over a previously uploaded case and
// persists the result, the workbook and the run summary.
func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	caseID := chi.URLParam(r, "caseID")
	ctx := r.Context()
	start := time.Now()

	names, err := s.store.ListUploads(ctx, caseID)
	if err != nil {
		s.writeError(w, err)
		return
	}

	workDir := filepath.Join(s.scratchDir, "case-"+caseID+"-"+uuid.New().String())
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		s.writeError(w, err)
		return
	}

	items := make([]pipeline.DocItem, len(names))
	g, gctx := errgroup.WithContext(ctx)
	for i, name := range names {
		g.Go(func() error {
			data, err := s.store.Upload(gctx, caseID, name)
			if err != nil {
				return err
			}
			path := filepath.Join(workDir, name)
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return err
			}
			items[i] = pipeline.DocItem{
				Path:         path,
				OriginalName: name,
				ContentType:  "application/pdf",
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		_ = s.store.SaveStatus(ctx, caseID, storage.StatusFailed)
		runsTotal.WithLabelValues("failed").Inc()
		s.writeError(w, err)
		return
	}

	result := s.pipe.Run(ctx, items)

	payload, err := json.Marshal(result)
	if err != nil {
		s.writeError(w, err)
		return
	}
	workbook, err := export.Workbook(result.Master)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.store.SaveResult(ctx, caseID, payload); err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.store.SaveExcel(ctx, caseID, workbook); err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.store.SaveStatus(ctx, caseID, storage.StatusProcessed); err != nil {
		s.writeError(w, err)
		return
	}

	elapsed := time.Since(start)
	warnings, errorCount := tallyLogs(result)
	if s.runs != nil {
		summary := runstore.Summary{
			ID:         uuid.New().String(),
			CaseID:     caseID,
			CreatedAt:  start,
			Documents:  len(items),
			Warnings:   warnings,
			Errors:     errorCount,
			DurationMS: elapsed.Milliseconds(),
		}
		if err := s.runs.SaveSummary(ctx, summary); err != nil {
			s.logger.Warn("http.process.summary_failed", "case_id", caseID, "error", err)
		}
	}

	runsTotal.WithLabelValues("processed").Inc()
	runDuration.Observe(elapsed.Seconds())
	runWarnings.Observe(float64(warnings))

	s.logger.Info("http.process.ok",
		"case_id", caseID,
		"documents", len(items),
		"warnings", warnings,
		"errors", errorCount,
		"elapsed_ms", elapsed.Milliseconds(),
	)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	data, err := s.store.Result(r.Context(), chi.URLParam(r, "caseID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	caseID := chi.URLParam(r, "caseID")
	data, err := s.store.Excel(r.Context(), caseID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="extraccion_%s.xlsx"`, caseID))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// Approval is the reviewer's verdict on a processed case.
type Approval struct {
	Approved  bool   `json:"approved"`
	Reviewer  string `json:"reviewer"`
	Comment   string `json:"comment,omitempty"`
	Timestamp string `json:"timestamp"`
}

func (s *Server) handleApprove(w http.ResponseWriter, r *http.Request) {
	caseID := chi.URLParam(r, "caseID")

	// Approvals only make sense for processed cases.
	if _, err := s.store.Result(r.Context(), caseID); err != nil {
		s.writeError(w, err)
		return
	}

	var approval Approval
	if err := json.NewDecoder(r.Body).Decode(&approval); err != nil {
		s.writeError(w, common.TagError(common.ErrInvalidInput, "invalid approval body", err))
		return
	}
	approval.Timestamp = time.Now().UTC().Format(time.RFC3339)

	payload, err := json.Marshal(approval)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.store.SaveApproval(r.Context(), caseID, payload); err != nil {
		s.writeError(w, err)
		return
	}

	s.logger.Info("http.approve.ok", "case_id", caseID, "approved", approval.Approved, "reviewer", approval.Reviewer)
	s.writeJSON(w, http.StatusOK, approval)
}

func (s *Server) handleApprovalStatus(w http.ResponseWriter, r *http.Request) {
	data, err := s.store.Approval(r.Context(), chi.URLParam(r, "caseID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	if s.runs == nil {
		s.writeJSON(w, http.StatusOK, []runstore.Summary{})
		return
	}
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		if _, err := fmt.Sscanf(v, "%d", &limit); err != nil {
			s.writeError(w, common.TagError(common.ErrInvalidInput, "limit must be an integer", err))
			return
		}
	}
	recent, err := s.runs.Recent(r.Context(), limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if recent == nil {
		recent = []runstore.Summary{}
	}
	s.writeJSON(w, http.StatusOK, recent)
}

func tallyLogs(result *pipeline.Result) (warnings, errorCount int) {
	for _, e := range result.Logs {
		switch e.Severity {
		case "WARNING":
			warnings++
		case "ERROR":
			errorCount++
		}
	}
	return warnings, errorCount
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("http.write_json_failed", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, common.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, common.ErrInvalidInput):
		status = http.StatusBadRequest
	}
	s.logger.Error("http.request_failed", "status", status, "error", err)
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

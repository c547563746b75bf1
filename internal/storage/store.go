package storage

import (
	"context"
	"fmt"

	"kycdocs/internal/common"
)

// Case lifecycle states as persisted alongside each case.
const (
	StatusUploaded  = "uploaded"
	StatusProcessed = "processed"
	StatusFailed    = "failed"
)

// CaseStore persists everything belonging to one case: the raw uploads, the
// extraction result, the rendered workbook, the lifecycle status and the
// reviewer's approval. Implementations return common.ErrNotFound (wrapped)
// for anything that was never stored.
type CaseStore interface {
	SaveUpload(ctx context.Context, caseID, filename string, data []byte) error
	Upload(ctx context.Context, caseID, filename string) ([]byte, error)
	ListUploads(ctx context.Context, caseID string) ([]string, error)

	SaveResult(ctx context.Context, caseID string, data []byte) error
	Result(ctx context.Context, caseID string) ([]byte, error)

	SaveExcel(ctx context.Context, caseID string, data []byte) error
	Excel(ctx context.Context, caseID string) ([]byte, error)

	SaveStatus(ctx context.Context, caseID, status string) error
	Status(ctx context.Context, caseID string) (string, error)

	SaveApproval(ctx context.Context, caseID string, data []byte) error
	Approval(ctx context.Context, caseID string) ([]byte, error)
}

// New builds the backend named by the configuration.
func New(ctx context.Context, cfg common.StorageConfig) (CaseStore, error) {
	switch cfg.Backend {
	case "local", "":
		return NewLocalStore(cfg.DataDir)
	case "gcs":
		return NewGCSStore(ctx, cfg.GCSBucket)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

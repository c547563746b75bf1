package runstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Summary is one pipeline run as recorded for operators: enough to see
// throughput and failure trends without re-reading result payloads.
type Summary struct {
	ID         string
	CaseID     string
	CreatedAt  time.Time
	Documents  int
	Warnings   int
	Errors     int
	DurationMS int64
}

// Store keeps run summaries in a local sqlite database.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	case_id     TEXT NOT NULL,
	created_at  TIMESTAMP NOT NULL,
	documents   INTEGER NOT NULL,
	warnings    INTEGER NOT NULL,
	errors      INTEGER NOT NULL,
	duration_ms INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_case_id ON runs (case_id);
CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs (created_at);
`

func Open(path string) (*Store, error) {
	if path == "" {
		path = "runs.db"
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open run db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply run db schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) SaveSummary(ctx context.Context, sum Summary) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, case_id, created_at, documents, warnings, errors, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sum.ID, sum.CaseID, sum.CreatedAt.UTC(), sum.Documents, sum.Warnings, sum.Errors, sum.DurationMS)
	if err != nil {
		return fmt.Errorf("insert run summary: %w", err)
	}
	return nil
}

// Recent returns the newest run summaries, most recent first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Summary, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, case_id, created_at, documents, warnings, errors, duration_ms
		 FROM runs ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query run summaries: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var sum Summary
		if err := rows.Scan(&sum.ID, &sum.CaseID, &sum.CreatedAt,
			&sum.Documents, &sum.Warnings, &sum.Errors, &sum.DurationMS); err != nil {
			return nil, fmt.Errorf("scan run summary: %w", err)
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

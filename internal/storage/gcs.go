package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/iterator"

	"kycdocs/internal/common"
)

// GCSStore mirrors the local layout as object names inside one bucket:
// <caseID>/uploads/<filename>, <caseID>/result.json and so on.
type GCSStore struct {
	client *gcs.Client
	bucket string
}

func NewGCSStore(ctx context.Context, bucket string) (*GCSStore, error) {
	if bucket == "" {
		return nil, fmt.Errorf("gcs bucket name cannot be empty")
	}
	client, err := gcs.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create gcs client: %w", err)
	}
	return &GCSStore{client: client, bucket: bucket}, nil
}

func (s *GCSStore) Close() error {
	return s.client.Close()
}

func (s *GCSStore) write(ctx context.Context, object string, data []byte) error {
	w := s.client.Bucket(s.bucket).Object(object).NewWriter(ctx)
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return fmt.Errorf("write gs://%s/%s: %w", s.bucket, object, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close gs://%s/%s: %w", s.bucket, object, err)
	}
	return nil
}

func (s *GCSStore) read(ctx context.Context, object string) ([]byte, error) {
	r, err := s.client.Bucket(s.bucket).Object(object).NewReader(ctx)
	if errors.Is(err, gcs.ErrObjectNotExist) {
		return nil, common.TagError(common.ErrNotFound, object, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("open gs://%s/%s: %w", s.bucket, object, err)
	}
	defer r.Close()
	return io.ReadAll(r)
}

func (s *GCSStore) SaveUpload(ctx context.Context, caseID, filename string, data []byte) error {
	return s.write(ctx, path.Join(caseID, uploadsDir, path.Base(filename)), data)
}

func (s *GCSStore) Upload(ctx context.Context, caseID, filename string) ([]byte, error) {
	return s.read(ctx, path.Join(caseID, uploadsDir, path.Base(filename)))
}

func (s *GCSStore) ListUploads(ctx context.Context, caseID string) ([]string, error) {
	prefix := path.Join(caseID, uploadsDir) + "/"
	it := s.client.Bucket(s.bucket).Objects(ctx, &gcs.Query{Prefix: prefix})

	var names []string
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list gs://%s/%s: %w", s.bucket, prefix, err)
		}
		names = append(names, path.Base(attrs.Name))
	}
	if len(names) == 0 {
		return nil, common.TagError(common.ErrNotFound, "case "+caseID, nil)
	}
	return names, nil
}

func (s *GCSStore) SaveResult(ctx context.Context, caseID string, data []byte) error {
	return s.write(ctx, path.Join(caseID, resultFile), data)
}

func (s *GCSStore) Result(ctx context.Context, caseID string) ([]byte, error) {
	return s.read(ctx, path.Join(caseID, resultFile))
}

func (s *GCSStore) SaveExcel(ctx context.Context, caseID string, data []byte) error {
	return s.write(ctx, path.Join(caseID, excelFile), data)
}

func (s *GCSStore) Excel(ctx context.Context, caseID string) ([]byte, error) {
	return s.read(ctx, path.Join(caseID, excelFile))
}

func (s *GCSStore) SaveStatus(ctx context.Context, caseID, status string) error {
	return s.write(ctx, path.Join(caseID, statusFile), []byte(status))
}

func (s *GCSStore) Status(ctx context.Context, caseID string) (string, error) {
	data, err := s.read(ctx, path.Join(caseID, statusFile))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (s *GCSStore) SaveApproval(ctx context.Context, caseID string, data []byte) error {
	return s.write(ctx, path.Join(caseID, approvalFile), data)
}

func (s *GCSStore) Approval(ctx context.Context, caseID string) ([]byte, error) {
	return s.read(ctx, path.Join(caseID, approvalFile))
}

package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"kycdocs/internal/common"
)

const (
	resultFile   = "result.json"
	excelFile    = "output.xlsx"
	statusFile   = "status.txt"
	approvalFile = "approval.json"
	uploadsDir   = "uploads"
)

// LocalStore keeps each case in its own directory under the data root.
type LocalStore struct {
	root string
}

func NewLocalStore(root string) (*LocalStore, error) {
	if root == "" {
		root = "data_cases"
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &LocalStore{root: root}, nil
}

func (s *LocalStore) caseDir(caseID string) string {
	return filepath.Join(s.root, filepath.Base(caseID))
}

func (s *LocalStore) write(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func (s *LocalStore) read(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, common.TagError(common.ErrNotFound, path, nil)
	}
	return data, err
}

func (s *LocalStore) SaveUpload(_ context.Context, caseID, filename string, data []byte) error {
	return s.write(filepath.Join(s.caseDir(caseID), uploadsDir, filepath.Base(filename)), data)
}

func (s *LocalStore) Upload(_ context.Context, caseID, filename string) ([]byte, error) {
	return s.read(filepath.Join(s.caseDir(caseID), uploadsDir, filepath.Base(filename)))
}

func (s *LocalStore) ListUploads(_ context.Context, caseID string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.caseDir(caseID), uploadsDir))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, common.TagError(common.ErrNotFound, "case "+caseID, nil)
	}
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

func (s *LocalStore) SaveResult(_ context.Context, caseID string, data []byte) error {
	return s.write(filepath.Join(s.caseDir(caseID), resultFile), data)
}

func (s *LocalStore) Result(_ context.Context, caseID string) ([]byte, error) {
	return s.read(filepath.Join(s.caseDir(caseID), resultFile))
}

func (s *LocalStore) SaveExcel(_ context.Context, caseID string, data []byte) error {
	return s.write(filepath.Join(s.caseDir(caseID), excelFile), data)
}

func (s *LocalStore) Excel(_ context.Context, caseID string) ([]byte, error) {
	return s.read(filepath.Join(s.caseDir(caseID), excelFile))
}

func (s *LocalStore) SaveStatus(_ context.Context, caseID, status string) error {
	return s.write(filepath.Join(s.caseDir(caseID), statusFile), []byte(status))
}

func (s *LocalStore) Status(_ context.Context, caseID string) (string, error) {
	data, err := s.read(filepath.Join(s.caseDir(caseID), statusFile))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func (s *LocalStore) SaveApproval(_ context.Context, caseID string, data []byte) error {
	return s.write(filepath.Join(s.caseDir(caseID), approvalFile), data)
}

func (s *LocalStore) Approval(_ context.Context, caseID string) ([]byte, error) {
	return s.read(filepath.Join(s.caseDir(caseID), approvalFile))
}

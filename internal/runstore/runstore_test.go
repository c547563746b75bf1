package runstore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndRecent(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	for i, id := range []string{"run-a", "run-b", "run-c"} {
		require.NoError(t, store.SaveSummary(ctx, Summary{
			ID:         id,
			CaseID:     "case-" + id,
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
			Documents:  3,
			Warnings:   i,
			Errors:     0,
			DurationMS: 1500,
		}))
	}

	recent, err := store.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "run-c", recent[0].ID)
	assert.Equal(t, "run-b", recent[1].ID)
	assert.Equal(t, 2, recent[0].Warnings)
	assert.Equal(t, "case-run-c", recent[0].CaseID)
}

func TestRecentEmpty(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	defer store.Close()

	recent, err := store.Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, recent)
}

package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kycdocs/internal/common"
)

func TestLocalStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	caseID := "case-123"

	require.NoError(t, store.SaveUpload(ctx, caseID, "RUT.pdf", []byte("pdf-a")))
	require.NoError(t, store.SaveUpload(ctx, caseID, "CEDULA.pdf", []byte("pdf-b")))

	names, err := store.ListUploads(ctx, caseID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"RUT.pdf", "CEDULA.pdf"}, names)

	data, err := store.Upload(ctx, caseID, "RUT.pdf")
	require.NoError(t, err)
	assert.Equal(t, []byte("pdf-a"), data)

	require.NoError(t, store.SaveResult(ctx, caseID, []byte(`{"ok":true}`)))
	result, err := store.Result(ctx, caseID)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(result))

	require.NoError(t, store.SaveExcel(ctx, caseID, []byte{0x50, 0x4b}))
	xlsx, err := store.Excel(ctx, caseID)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x50, 0x4b}, xlsx)

	require.NoError(t, store.SaveStatus(ctx, caseID, StatusProcessed))
	status, err := store.Status(ctx, caseID)
	require.NoError(t, err)
	assert.Equal(t, StatusProcessed, status)

	require.NoError(t, store.SaveApproval(ctx, caseID, []byte(`{"approved":true}`)))
	approval, err := store.Approval(ctx, caseID)
	require.NoError(t, err)
	assert.JSONEq(t, `{"approved":true}`, string(approval))
}

func TestLocalStoreNotFound(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Result(ctx, "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, err = store.ListUploads(ctx, "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, err = store.Status(ctx, "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestLocalStoreCaseIDCannotEscapeRoot(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.SaveStatus(ctx, "../../etc/evil", StatusUploaded))
	status, err := store.Status(ctx, "evil")
	require.NoError(t, err)
	assert.Equal(t, StatusUploaded, status)
}

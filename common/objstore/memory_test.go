package objstore

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_WriteReadDelete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	exists, err := store.Exists(ctx, "msi/msi-v1.0.0.msi")
	require.NoError(t, err)
	assert.False(t, exists)

	w := store.NewWriter(ctx, "msi/msi-v1.0.0.msi", WriterOptions{ContentType: "application/x-msi"})
	_, err = w.Write([]byte("hello "))
	require.NoError(t, err)
	_, err = w.Write([]byte("world"))
	require.NoError(t, err)

	// Nothing visible before Close commits
	exists, err = store.Exists(ctx, "msi/msi-v1.0.0.msi")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, w.Close())

	attrs, err := store.Attrs(ctx, "msi/msi-v1.0.0.msi")
	require.NoError(t, err)
	assert.Equal(t, "application/x-msi", attrs.ContentType)
	assert.Equal(t, int64(len("hello world")), attrs.Size)

	r, err := store.NewReader(ctx, "msi/msi-v1.0.0.msi")
	require.NoError(t, err)
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	require.NoError(t, r.Close())
	assert.Equal(t, []byte("hello world"), data)

	require.NoError(t, store.Delete(ctx, "msi/msi-v1.0.0.msi"))
	_, err = store.NewReader(ctx, "msi/msi-v1.0.0.msi")
	assert.ErrorIs(t, err, ErrNotExist)
	assert.ErrorIs(t, store.Delete(ctx, "msi/msi-v1.0.0.msi"), ErrNotExist)
}

func TestMemoryStore_AbandonedWriterCommitsNothing(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	w := store.NewWriter(ctx, "vm/vm-v1.0.0.ova", WriterOptions{})
	_, err := w.Write([]byte("partial"))
	require.NoError(t, err)
	// Writer dropped without Close

	exists, err := store.Exists(ctx, "vm/vm-v1.0.0.ova")
	require.NoError(t, err)
	assert.False(t, exists)
}

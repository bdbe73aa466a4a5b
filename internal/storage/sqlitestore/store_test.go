package sqlitestore_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Fuzara/cashcraft/internal/storage"
	"github.com/Fuzara/cashcraft/internal/storage/sqlitestore"
)

func TestStore_SetGetDelete(t *testing.T) {
	store, err := sqlitestore.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	ctx := context.Background()

	_, err = store.Get(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrKeyNotFound)

	require.NoError(t, store.Set(ctx, "k", []byte(`{"a":1}`)))
	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"a":1}`), got)

	require.NoError(t, store.Set(ctx, "k", []byte(`{"a":2}`)))
	got, err = store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"a":2}`), got)

	require.NoError(t, store.Delete(ctx, "k"))
	_, err = store.Get(ctx, "k")
	assert.ErrorIs(t, err, storage.ErrKeyNotFound)

	require.NoError(t, store.Delete(ctx, "k"))
	require.NoError(t, store.Ping(ctx))
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()

	store, err := sqlitestore.New(path)
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, "k", []byte("v")))
	require.NoError(t, store.Close())

	reopened, err := sqlitestore.New(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	got, err := reopened.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)
}

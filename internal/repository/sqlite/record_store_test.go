package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trustbridge-auth/internal/storage"
)

func openStore(t *testing.T, path string) *RecordStore {
	t.Helper()
	db, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store := NewRecordStore(db)
	require.NoError(t, store.Init(context.Background()))
	return store
}

func TestRecordStore_PutGetDelete(t *testing.T) {
	ctx := context.Background()
	store := openStore(t, filepath.Join(t.TempDir(), "nested", "records.db"))

	_, err := store.Get(ctx, "tb_users")
	require.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, store.Put(ctx, "tb_users", []byte(`{"u_1":{}}`)))
	require.NoError(t, store.Put(ctx, "tb_users", []byte(`{}`)))

	got, err := store.Get(ctx, "tb_users")
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(got))

	require.NoError(t, store.Delete(ctx, "tb_users"))
	require.NoError(t, store.Delete(ctx, "tb_users"))
	_, err = store.Get(ctx, "tb_users")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestRecordStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "records.db")

	db, err := Open(path)
	require.NoError(t, err)
	store := NewRecordStore(db)
	require.NoError(t, store.Init(ctx))
	require.NoError(t, store.Put(ctx, "tb_current_user", []byte(`{"id":"u_1"}`)))
	require.NoError(t, db.Close())

	reopened := openStore(t, path)
	got, err := reopened.Get(ctx, "tb_current_user")
	require.NoError(t, err)
	assert.Equal(t, `{"id":"u_1"}`, string(got))
}

package repository

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trustbridge-auth/internal/domain"
	"trustbridge-auth/internal/storage"
)

func TestSessionStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	logger, _ := test.NewNullLogger()
	medium := storage.NewMemoryMedium()
	sessions := NewSessionStore(medium, "", logger)

	active, err := sessions.IsActive(ctx)
	require.NoError(t, err)
	assert.False(t, active)

	alice := domain.PublicUser{ID: "u_1", Username: "alice", Email: "alice@example.com"}
	require.NoError(t, sessions.Establish(ctx, alice))

	bob := domain.PublicUser{ID: "u_2", Username: "bob", Email: "bob@example.com"}
	require.NoError(t, sessions.Establish(ctx, bob))

	current, err := sessions.Current(ctx)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, bob, *current)

	// a fresh store over the same medium sees the same session
	restored, err := NewSessionStore(medium, "", logger).Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, bob, *restored)

	require.NoError(t, sessions.Clear(ctx))
	active, err = sessions.IsActive(ctx)
	require.NoError(t, err)
	assert.False(t, active)
}

func TestSessionStore_DoesNotTouchDirectory(t *testing.T) {
	ctx := context.Background()
	logger, _ := test.NewNullLogger()
	medium := storage.NewMemoryMedium()

	dirs := NewAccountDirectory(medium, "", logger)
	dir := domain.NewDirectory()
	dir.Put(&domain.Account{ID: "u_1", Username: "alice"})
	require.NoError(t, dirs.Save(ctx, dir))

	sessions := NewSessionStore(medium, "", logger)
	require.NoError(t, sessions.Establish(ctx, domain.PublicUser{ID: "u_1"}))
	require.NoError(t, sessions.Clear(ctx))

	loaded, err := dirs.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.Len())
}

func TestSessionStore_MalformedIsAbsent(t *testing.T) {
	ctx := context.Background()
	logger, hook := test.NewNullLogger()

	for _, raw := range []string{`{broken`, `null`, ``, `{}`} {
		medium := storage.NewMemoryMedium()
		require.NoError(t, medium.Put(ctx, DefaultSessionKey, []byte(raw)))

		current, err := NewSessionStore(medium, "", logger).Current(ctx)
		require.NoError(t, err, raw)
		assert.Nil(t, current, raw)
	}
	assert.Len(t, hook.AllEntries(), 1)
}

package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/andy/cotiza/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *db.DB {
	t.Helper()
	database, err := db.Open(filepath.Join(t.TempDir(), "test.db"), "test-key")
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations())
	t.Cleanup(func() { database.Close() })
	return database
}

func TestKVRepo(t *testing.T) {
	ctx := context.Background()
	repo := NewKVRepo(openTestDB(t))

	_, ok, err := repo.Get(ctx, "companyName")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.Set(ctx, "companyName", "ACME"))
	require.NoError(t, repo.Set(ctx, "companyName", "ACME 2"))
	require.NoError(t, repo.Set(ctx, "companyLogo", "data:image/png;base64,AA=="))

	v, ok, err := repo.Get(ctx, "companyName")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "ACME 2", v)

	updated, err := repo.UpdatedAt(ctx, "companyName")
	require.NoError(t, err)
	assert.False(t, updated.IsZero())

	keys, err := repo.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"companyLogo", "companyName"}, keys)

	require.NoError(t, repo.Delete(ctx, "companyLogo"))
	require.NoError(t, repo.Delete(ctx, "missing"))

	require.NoError(t, repo.Clear(ctx))
	keys, err = repo.Keys(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)
}

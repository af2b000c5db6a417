package db

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAndMigrate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cotiza.db")

	database, err := Open(path, "secret")
	require.NoError(t, err)
	defer database.Close()

	require.NoError(t, database.RunMigrations())
	// second run is a no-op
	require.NoError(t, database.RunMigrations())

	v, err := database.Version()
	require.NoError(t, err)
	assert.Equal(t, len(migrations), v)

	_, err = database.Exec("INSERT INTO kv_store (key, value) VALUES ('a', 'b')")
	assert.NoError(t, err)
}

func TestOpenWrongKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cotiza.db")

	database, err := Open(path, "right")
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations())
	require.NoError(t, database.Close())

	database, err = Open(path, "wrong")
	if err == nil {
		// sqlcipher may defer the key check until the first read
		err = database.RunMigrations()
		database.Close()
	}
	assert.Error(t, err)
}

func TestFileIsEncrypted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cotiza.db")

	database, err := Open(path, "right")
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations())
	_, err = database.Exec("INSERT INTO kv_store (key, value) VALUES ('companyName', 'SECRET-CO')")
	require.NoError(t, err)
	require.NoError(t, database.Close())

	for _, name := range []string{path, path + "-wal"} {
		data, err := os.ReadFile(name)
		if os.IsNotExist(err) {
			continue
		}
		require.NoError(t, err)
		assert.False(t, bytes.HasPrefix(data, []byte("SQLite format 3")), name)
		assert.False(t, bytes.Contains(data, []byte("SECRET-CO")), name)
	}
}

func TestOpenPasswordWithQuerySymbols(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cotiza.db")
	password := "p&ss=w?rd #1"

	database, err := Open(path, password)
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations())
	require.NoError(t, database.Close())

	database, err = Open(path, password)
	require.NoError(t, err)
	defer database.Close()

	v, err := database.Version()
	require.NoError(t, err)
	assert.Equal(t, len(migrations), v)
}

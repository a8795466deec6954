package db

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600))
	}
	return dir
}

func TestDiscoverMigrationsSortsAndHashes(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"002_b.sql": "SELECT 2;",
		"001_a.sql": "SELECT 1;",
		"notes.txt": "ignored",
	})

	got, err := DiscoverMigrations(dir)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "001", got[0].Version)
	assert.Equal(t, "001_a.sql", got[0].Filename)
	assert.Equal(t, "SELECT 2;", got[1].SQL)
	assert.Len(t, got[0].Checksum, 64)
	assert.NotEqual(t, got[0].Checksum, got[1].Checksum)
}

func TestDiscoverMigrationsRejectsBadNames(t *testing.T) {
	_, err := DiscoverMigrations(writeFiles(t, map[string]string{"init.sql": "SELECT 1;"}))
	assert.ErrorContains(t, err, "invalid migration filename")

	_, err = DiscoverMigrations(writeFiles(t, map[string]string{
		"001_a.sql": "SELECT 1;",
		"001_b.sql": "SELECT 2;",
	}))
	assert.ErrorContains(t, err, "duplicate migration version 001")
}

func TestDiscoverShippedMigrations(t *testing.T) {
	got, err := DiscoverMigrations("../../migrations")
	require.NoError(t, err)
	require.NotEmpty(t, got)
	assert.Contains(t, got[0].SQL, "CREATE TABLE IF NOT EXISTS documents")
}

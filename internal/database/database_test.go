package database

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	opts := NewDefaultOptions(filepath.Join(t.TempDir(), "test.db"))
	db, err := New(opts)
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, db.Close())
	})
	return db
}

func TestNewAppliesPragmas(t *testing.T) {
	db := newTestDB(t)

	var journal string
	require.NoError(t, db.Conn().QueryRow("PRAGMA journal_mode;").Scan(&journal))
	assert.Equal(t, "wal", journal)

	var foreignKeys int
	require.NoError(t, db.Conn().QueryRow("PRAGMA foreign_keys;").Scan(&foreignKeys))
	assert.Equal(t, 1, foreignKeys)
}

func TestMigrateDatabase(t *testing.T) {
	db := newTestDB(t)

	assert.False(t, db.IsMigrated())
	require.NoError(t, db.MigrateDatabase())
	assert.True(t, db.IsMigrated())

	// Schema is in place.
	var name string
	err := db.Conn().QueryRow(
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'schedules'",
	).Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "schedules", name)

	// Running migrations again is a no-op.
	require.NoError(t, db.MigrateDatabase())
}

func TestWithTransaction(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.MigrateDatabase())

	t.Run("commit on success", func(t *testing.T) {
		err := db.WithTransaction(context.Background(), func(tx *sql.Tx) error {
			_, err := tx.Exec(
				"INSERT INTO schedules (summary, schedule_date) VALUES (?, ?)",
				"committed", "2024-02-01",
			)
			return err
		})
		require.NoError(t, err)

		var count int
		require.NoError(t, db.Conn().QueryRow(
			"SELECT COUNT(*) FROM schedules WHERE summary = 'committed'",
		).Scan(&count))
		assert.Equal(t, 1, count)
	})

	t.Run("rollback on error", func(t *testing.T) {
		err := db.WithTransaction(context.Background(), func(tx *sql.Tx) error {
			if _, err := tx.Exec(
				"INSERT INTO schedules (summary, schedule_date) VALUES (?, ?)",
				"rolled back", "2024-02-02",
			); err != nil {
				return err
			}
			return fmt.Errorf("boom")
		})
		require.Error(t, err)

		var count int
		require.NoError(t, db.Conn().QueryRow(
			"SELECT COUNT(*) FROM schedules WHERE summary = 'rolled back'",
		).Scan(&count))
		assert.Zero(t, count)
	})
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HerbHall/contactbook/internal/plugin"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

var widgetMigrations = []plugin.Migration{
	{
		Version:     1,
		Description: "create widgets",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`CREATE TABLE widgets (id INTEGER PRIMARY KEY, name TEXT NOT NULL)`)
			return err
		},
	},
	{
		Version:     2,
		Description: "create parts",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`CREATE TABLE parts (
				id        INTEGER PRIMARY KEY,
				widget_id INTEGER NOT NULL REFERENCES widgets(id) ON DELETE CASCADE
			)`)
			return err
		},
	},
}

func TestMigrate_Idempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Migrate(ctx, "widgets", widgetMigrations))
	require.NoError(t, s.Migrate(ctx, "widgets", widgetMigrations))

	var n int
	require.NoError(t, s.DB().QueryRow(`SELECT COUNT(*) FROM _migrations WHERE module = 'widgets'`).Scan(&n))
	assert.Equal(t, 2, n)
}

func TestMigrate_RejectsUnorderedVersions(t *testing.T) {
	s := newTestStore(t)
	err := s.Migrate(context.Background(), "widgets", []plugin.Migration{widgetMigrations[1], widgetMigrations[0]})
	assert.Error(t, err)
}

func TestMigrate_FailedStepRollsBack(t *testing.T) {
	s := newTestStore(t)
	bad := []plugin.Migration{{
		Version:     1,
		Description: "broken",
		Up: func(tx *sql.Tx) error {
			if _, err := tx.Exec(`CREATE TABLE half (id INTEGER)`); err != nil {
				return err
			}
			return errors.New("boom")
		},
	}}
	require.Error(t, s.Migrate(context.Background(), "broken", bad))

	var n int
	require.NoError(t, s.DB().QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE name = 'half'`).Scan(&n))
	assert.Zero(t, n, "table from failed migration must not persist")
}

func TestForeignKeysCascade(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Migrate(ctx, "widgets", widgetMigrations))

	_, err := s.DB().Exec(`INSERT INTO widgets (id, name) VALUES (1, 'w')`)
	require.NoError(t, err)
	_, err = s.DB().Exec(`INSERT INTO parts (id, widget_id) VALUES (10, 1)`)
	require.NoError(t, err)

	_, err = s.DB().Exec(`INSERT INTO parts (id, widget_id) VALUES (11, 99)`)
	assert.Error(t, err, "orphan part must violate foreign key")

	_, err = s.DB().Exec(`DELETE FROM widgets WHERE id = 1`)
	require.NoError(t, err)

	var n int
	require.NoError(t, s.DB().QueryRow(`SELECT COUNT(*) FROM parts`).Scan(&n))
	assert.Zero(t, n)
}

func TestTx_RollbackOnError(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Migrate(ctx, "widgets", widgetMigrations[:1]))

	boom := errors.New("boom")
	err := s.Tx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`INSERT INTO widgets (id, name) VALUES (1, 'w')`); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var n int
	require.NoError(t, s.DB().QueryRow(`SELECT COUNT(*) FROM widgets`).Scan(&n))
	assert.Zero(t, n)

	require.NoError(t, s.Tx(ctx, func(tx *sql.Tx) error {
		_, err := tx.Exec(`INSERT INTO widgets (id, name) VALUES (2, 'kept')`)
		return err
	}))
	require.NoError(t, s.DB().QueryRow(`SELECT COUNT(*) FROM widgets`).Scan(&n))
	assert.Equal(t, 1, n)
}

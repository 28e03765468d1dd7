package sqlite

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"
)

// NewTestDB creates a new in-memory SQLite database for testing
func NewTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := New(":memory:")
	require.NoError(t, err, "failed to create test database")

	err = db.RunMigrations()
	require.NoError(t, err, "failed to run migrations")

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// TestMigrations verifies that migrations run successfully
func TestMigrations(t *testing.T) {
	db := NewTestDB(t)

	tables := []string{
		"clients",
		"projects",
		"project_tags",
		"favorites",
		"saved_views",
		"sessions",
		"activity_log",
		"api_keys",
		"schema_migrations",
	}

	for _, table := range tables {
		var count int
		err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&count)
		require.NoError(t, err, "failed to query table %s", table)
		require.Equal(t, 1, count, "table %s not found", table)
	}
}

func TestMigrations_Idempotent(t *testing.T) {
	db := NewTestDB(t)
	require.NoError(t, db.RunMigrations())

	var applied int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&applied))
	require.Equal(t, 1, applied)
}

// TestForeignKeys verifies that foreign key constraints are enabled
func TestForeignKeys(t *testing.T) {
	db := NewTestDB(t)

	var enabled int
	err := db.QueryRow("PRAGMA foreign_keys").Scan(&enabled)
	require.NoError(t, err)
	require.Equal(t, 1, enabled, "foreign keys not enabled")
}

func TestRunMigrations_OrderAndRollback(t *testing.T) {
	db, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	ctx := context.Background()

	fsys := fstest.MapFS{
		"002_add_column.up.sql": {Data: []byte(`ALTER TABLE widgets ADD COLUMN color TEXT;`)},
		"001_widgets.up.sql":    {Data: []byte(`CREATE TABLE widgets (id INTEGER PRIMARY KEY);`)},
		"notes.txt":             {Data: []byte(`ignored`)},
	}
	require.NoError(t, db.runMigrations(ctx, fsys))

	_, err = db.Exec(`INSERT INTO widgets (color) VALUES ('red')`)
	require.NoError(t, err)

	fsys["003_broken.up.sql"] = &fstest.MapFile{Data: []byte(`CREATE TABLE gadgets (id INTEGER); NOT SQL;`)}
	require.Error(t, db.runMigrations(ctx, fsys))

	var gadgets, recorded int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE name = 'gadgets'`).Scan(&gadgets))
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM schema_migrations`).Scan(&recorded))
	require.Zero(t, gadgets)
	require.Equal(t, 2, recorded)
}

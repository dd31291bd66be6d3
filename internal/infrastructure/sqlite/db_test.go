package sqlite

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewDB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// TestNewDB_RunsMigrations verifies that NewDB creates the registry tables.
func TestNewDB_RunsMigrations(t *testing.T) {
	db := newTestDB(t)

	for _, table := range []string{"services", "domains", "service_domains", "links"} {
		var name string
		err := db.conn.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		require.NoError(t, err, "%s table should exist after migrations", table)
	}

	var version int
	require.NoError(t, db.conn.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version))
	require.Equal(t, 1, version)
}

// TestNewDB_Isolated verifies that two databases never share state.
func TestNewDB_Isolated(t *testing.T) {
	a := newTestDB(t).RegistryStore()
	b := newTestDB(t).RegistryStore()

	require.NoError(t, a.AddService(registryService("s1")))

	require.True(t, a.HasService("s1"))
	require.False(t, b.HasService("s1"))
}

// TestRunMigrations_SkipsApplied verifies that re-running is a no-op.
func TestRunMigrations_SkipsApplied(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, runMigrations(db.conn, migrationsFS, "migrations"))

	var count int
	require.NoError(t, db.conn.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count))
	require.Equal(t, 1, count)
}

// TestRunMigrations_AppliesInOrder verifies that later versions build on earlier ones.
func TestRunMigrations_AppliesInOrder(t *testing.T) {
	db := newTestDB(t)

	fsys := fstest.MapFS{
		"m/000002_tags.up.sql":   {Data: []byte(`CREATE TABLE tags (id INTEGER PRIMARY KEY, name TEXT);`)},
		"m/000002_tags.down.sql": {Data: []byte(`DROP TABLE tags;`)},
		"m/000003_seed.up.sql":   {Data: []byte(`INSERT INTO tags (name) VALUES ('edge');`)},
	}
	require.NoError(t, runMigrations(db.conn, fsys, "m"))

	var name string
	require.NoError(t, db.conn.QueryRow("SELECT name FROM tags").Scan(&name))
	require.Equal(t, "edge", name)

	var version int
	require.NoError(t, db.conn.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version))
	require.Equal(t, 3, version)
}

// TestRunMigrations_BadSQL verifies that a failing migration is not recorded.
func TestRunMigrations_BadSQL(t *testing.T) {
	db := newTestDB(t)

	fsys := fstest.MapFS{
		"m/000005_broken.up.sql": {Data: []byte(`CREATE TABLE (`)},
	}
	err := runMigrations(db.conn, fsys, "m")
	require.ErrorContains(t, err, "apply migration 5")

	var version int
	require.NoError(t, db.conn.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version))
	require.Equal(t, 1, version)
}

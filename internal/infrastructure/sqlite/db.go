// Package sqlite provides a registry.Store backed by a private in-memory
// SQLite database (ncruces memdb VFS). Nothing is written to disk.
package sqlite

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"time"

	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
	_ "github.com/ncruces/go-sqlite3/vfs/memdb"

	"github.com/zjrosen/domainmesh/internal/log"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// DB wraps the connection to one in-memory registry database.
type DB struct {
	conn *sql.DB
	name string
}

// NewDB opens a fresh in-memory database and applies all migrations.
// Every call gets its own database, named by a random UUID.
func NewDB() (*DB, error) {
	name := uuid.NewString()
	dsn := fmt.Sprintf("file:/%s.db?vfs=memdb", name)

	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// A memdb database lives as long as a connection to it does; keep exactly one.
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxLifetime(0)

	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(conn, migrationsFS, "migrations"); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	log.Debug(log.CatDB, "Opened registry database", "name", name)
	return &DB{conn: conn, name: name}, nil
}

// Close closes the connection, discarding the database.
func (db *DB) Close() error {
	log.Debug(log.CatDB, "Closing registry database", "name", db.name)
	return db.conn.Close()
}

// RegistryStore returns the registry.Store view of this database.
func (db *DB) RegistryStore() *RegistryStore {
	return newRegistryStore(db)
}

// runMigrations applies every up migration in dir newer than the recorded
// schema version. Migration files follow golang-migrate naming
// (NNNNNN_name.up.sql) and are read through its iofs source driver.
func runMigrations(conn *sql.DB, fsys fs.FS, dir string) error {
	src, err := iofs.New(fsys, dir)
	if err != nil {
		return fmt.Errorf("open migration source: %w", err)
	}
	defer func() { _ = src.Close() }()

	if _, err := conn.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		applied_at INTEGER NOT NULL
	)`); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	var current uint
	if err := conn.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&current); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	version, err := src.First()
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("first migration: %w", err)
	}

	for {
		if version > current {
			if err := applyMigration(conn, src, version); err != nil {
				return err
			}
		}

		version, err = src.Next(version)
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("next migration: %w", err)
		}
	}
}

func applyMigration(conn *sql.DB, src source.Driver, version uint) error {
	r, identifier, err := src.ReadUp(version)
	if errors.Is(err, fs.ErrNotExist) {
		// down-only version
		return nil
	}
	if err != nil {
		return fmt.Errorf("read migration %d: %w", version, err)
	}
	body, err := io.ReadAll(r)
	_ = r.Close()
	if err != nil {
		return fmt.Errorf("read migration %d: %w", version, err)
	}

	tx, err := conn.Begin()
	if err != nil {
		return fmt.Errorf("begin migration %d: %w", version, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(string(body)); err != nil {
		return fmt.Errorf("apply migration %d (%s): %w", version, identifier, err)
	}
	if _, err := tx.Exec(
		`INSERT INTO schema_migrations (version, applied_at) VALUES (?, ?)`,
		int64(version), time.Now().Unix(),
	); err != nil {
		return fmt.Errorf("record migration %d: %w", version, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration %d: %w", version, err)
	}

	log.Info(log.CatDB, "Applied migration", "version", version, "name", identifier)
	return nil
}

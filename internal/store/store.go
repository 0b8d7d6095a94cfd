// Package store owns the durable clipboard history: insertion with
// content-addressed deduplication, pagination, full-text search,
// favorite/delete mutation, and the two eviction policies.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/mgeller/clipvault/internal/config"
)

// CurrentSchemaVersion is the latest schema version.
// Bump this when adding migrations.
const CurrentSchemaVersion = 1

// Store wraps the SQLite database and the image storage root. Every
// operation serializes through one mutex, so a multi-statement operation
// (insert plus count eviction, delete plus file cleanup) is a single
// critical section.
type Store struct {
	mu        sync.Mutex
	db        *sql.DB
	imagesDir string
}

// Open initializes the store at baseDir/clipvault.db and the image root at
// baseDir/images. The baseDir parameter allows tests to use t.TempDir()
// instead of ~/.clipvault.
func Open(baseDir string, cfg *config.Config) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}
	// Explicit chmod (best-effort, may not work on all platforms)
	_ = os.Chmod(baseDir, 0700)

	imagesDir := filepath.Join(baseDir, "images")
	if err := os.MkdirAll(imagesDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create images directory: %w", err)
	}
	_ = os.Chmod(imagesDir, 0700)

	dbPath := filepath.Join(baseDir, "clipvault.db")
	dsn := dbPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Pin the pool so all statements share one connection.
	maxConns := 1
	if cfg != nil && cfg.DBMaxOpenConns > 0 {
		maxConns = cfg.DBMaxOpenConns
	}
	db.SetMaxOpenConns(maxConns)

	if err := verifyWALMode(db); err != nil {
		db.Close()
		return nil, err
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	_ = os.Chmod(dbPath, 0600)

	return &Store{db: db, imagesDir: imagesDir}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// ImagesDir returns the image storage root.
func (s *Store) ImagesDir() string {
	return s.imagesDir
}

// migrate applies schema migrations based on user_version.
func migrate(db *sql.DB) error {
	version, err := getUserVersion(db)
	if err != nil {
		return err
	}

	// Migration 0 -> 1: initial schema
	if version < 1 {
		schema := `
		CREATE TABLE IF NOT EXISTS clipboard_items (
		  id           INTEGER PRIMARY KEY AUTOINCREMENT,
		  content      TEXT NOT NULL,
		  content_kind TEXT NOT NULL,
		  image_path   TEXT,
		  category     TEXT NOT NULL,
		  source_app   TEXT NOT NULL,
		  is_favorite  INTEGER NOT NULL DEFAULT 0,
		  is_sensitive INTEGER NOT NULL DEFAULT 0,
		  digest       TEXT NOT NULL UNIQUE,
		  preview      TEXT NOT NULL,
		  captured_at  INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_items_captured_at
		ON clipboard_items(captured_at);

		CREATE INDEX IF NOT EXISTS idx_items_favorite_captured
		ON clipboard_items(is_favorite DESC, captured_at DESC);

		CREATE INDEX IF NOT EXISTS idx_items_category
		ON clipboard_items(category);

		CREATE VIRTUAL TABLE IF NOT EXISTS clipboard_fts USING fts5(
		  content,
		  content='clipboard_items',
		  content_rowid='id'
		);

		CREATE TRIGGER IF NOT EXISTS clipboard_items_ai
		AFTER INSERT ON clipboard_items BEGIN
		  INSERT INTO clipboard_fts(rowid, content)
		  VALUES (new.id, new.content);
		END;

		CREATE TRIGGER IF NOT EXISTS clipboard_items_ad
		AFTER DELETE ON clipboard_items BEGIN
		  INSERT INTO clipboard_fts(clipboard_fts, rowid, content)
		  VALUES ('delete', old.id, old.content);
		END;

		CREATE TRIGGER IF NOT EXISTS clipboard_items_au
		AFTER UPDATE OF content ON clipboard_items BEGIN
		  INSERT INTO clipboard_fts(clipboard_fts, rowid, content)
		  VALUES ('delete', old.id, old.content);
		  INSERT INTO clipboard_fts(rowid, content)
		  VALUES (new.id, new.content);
		END;

		CREATE TABLE IF NOT EXISTS settings (
		  key   TEXT PRIMARY KEY,
		  value TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS app_exclusions (
		  app_name TEXT PRIMARY KEY
		);
		`
		if _, err := db.Exec(schema); err != nil {
			return fmt.Errorf("migration 1 failed: %w", err)
		}
		if err := setUserVersion(db, 1); err != nil {
			return err
		}
	}

	// Future migrations go here:
	// if version < 2 { ... }

	return nil
}

// verifyWALMode checks that WAL mode is active (set via connection string).
func verifyWALMode(db *sql.DB) error {
	var journalMode string
	if err := db.QueryRow("PRAGMA journal_mode;").Scan(&journalMode); err != nil {
		return fmt.Errorf("failed to verify journal mode: %w", err)
	}
	if journalMode != "wal" {
		return fmt.Errorf("expected WAL mode, got %s", journalMode)
	}
	return nil
}

// getUserVersion returns the current schema version (user_version pragma).
func getUserVersion(db *sql.DB) (int, error) {
	var version int
	if err := db.QueryRow("PRAGMA user_version;").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to get user_version: %w", err)
	}
	return version, nil
}

// setUserVersion sets the schema version (user_version pragma).
func setUserVersion(db *sql.DB, version int) error {
	_, err := db.Exec(fmt.Sprintf("PRAGMA user_version=%d", version))
	if err != nil {
		return fmt.Errorf("failed to set user_version: %w", err)
	}
	return nil
}

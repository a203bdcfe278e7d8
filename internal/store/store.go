package store

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 0 - Initial schema (pre-migration, or created by an older tool)
// 1 - Added UNIQUE index on assets.serial_number
const currentSchemaVersion = 1

var (
	// ErrMissingStore means the database file or its assets table does not
	// exist. Commands that need existing data report it and stop without
	// touching the filesystem.
	ErrMissingStore = errors.New("asset store not initialized")

	// ErrStoreUnavailable means the database could not be opened or written.
	ErrStoreUnavailable = errors.New("asset store unavailable")
)

// Store provides durable storage for calibrated assets.
// Uses SQLite with WAL mode for concurrent read access.
type Store struct {
	db   *sql.DB
	path string
}

// Open creates or opens a SQLite database at the given path and ensures the
// assets schema and its uniqueness constraint exist.
//
// This function is idempotent - safe to call multiple times.
func Open(path string) (*Store, error) {
	db, err := connect(path, "rwc")
	if err != nil {
		return nil, err
	}

	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: failed to apply schema: %w", ErrStoreUnavailable, err)
	}

	return &Store{db: db, path: path}, nil
}

// OpenExisting opens a store that must already hold the assets table.
// Returns ErrMissingStore, without creating anything, when the file or the
// table is absent. Existing stores are brought up to the current schema
// version.
func OpenExisting(path string) (*Store, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s does not exist", ErrMissingStore, path)
		}
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	db, err := connect(path, "rw")
	if err != nil {
		return nil, err
	}

	ok, err := hasAssetsTable(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	if !ok {
		db.Close()
		return nil, fmt.Errorf("%w: no assets table in %s", ErrMissingStore, path)
	}

	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: failed to apply schema: %w", ErrStoreUnavailable, err)
	}

	return &Store{db: db, path: path}, nil
}

// connect opens the database with the given SQLite open mode and applies
// the connection pragmas.
func connect(path, mode string) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?mode=%s&_txlock=immediate", path, mode)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open database: %w", ErrStoreUnavailable, err)
	}

	// Verify connection works
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: failed to connect to database: %w", ErrStoreUnavailable, err)
	}

	// SQLite only supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: failed to apply pragmas: %w", ErrStoreUnavailable, err)
	}

	return db, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// DB returns the underlying sql.DB for direct queries.
// Use with caution - prefer using Store methods when available.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

// applySchema creates tables if they don't exist and runs migrations.
// This function is idempotent.
func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	if err := runMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// runMigrations applies incremental schema migrations based on user_version.
func runMigrations(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}

	if version >= currentSchemaVersion {
		return nil
	}

	if version < 1 {
		if err := migrateToV1(db); err != nil {
			return err
		}
	}

	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}

	return nil
}

// migrateToV1 adds a UNIQUE index on assets.serial_number. Stores created by
// this tool already get uniqueness from schema.sql, but tables created by
// older tools may lack the inline constraint.
func migrateToV1(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_assets_serial_number
		ON assets(serial_number)
	`)
	if err != nil {
		return fmt.Errorf("migrate to v1: %w", err)
	}
	return nil
}

// hasAssetsTable reports whether the assets table exists.
func hasAssetsTable(db *sql.DB) (bool, error) {
	var count int
	err := db.QueryRow(
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'assets'",
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check assets table: %w", err)
	}
	return count > 0, nil
}

// verifyPragma checks that a pragma is set to the expected value.
// Used for testing.
func (s *Store) verifyPragma(name, expected string) error {
	var value string
	query := fmt.Sprintf("PRAGMA %s", name)
	if err := s.db.QueryRow(query).Scan(&value); err != nil {
		return fmt.Errorf("failed to query %s: %w", name, err)
	}
	if value != expected {
		return fmt.Errorf("%s = %q, expected %q", name, value, expected)
	}
	return nil
}

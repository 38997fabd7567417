package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"github.com/user/memory-beacon/internal/interfaces"
)

const schema = `CREATE TABLE IF NOT EXISTS blobs (
	key        TEXT PRIMARY KEY,
	data       BLOB NOT NULL,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

type sqliteConfig struct {
	busyTimeout int
	mkdirAll    bool
	journalMode string
}

func sqliteDefaults() sqliteConfig {
	return sqliteConfig{
		busyTimeout: 5000,
		journalMode: "WAL",
	}
}

// SQLiteOption customises OpenSQLite
type SQLiteOption func(*sqliteConfig)

// WithBusyTimeout sets PRAGMA busy_timeout in milliseconds. Default: 5000.
func WithBusyTimeout(ms int) SQLiteOption {
	return func(c *sqliteConfig) { c.busyTimeout = ms }
}

// WithJournalMode sets PRAGMA journal_mode. Default: WAL.
func WithJournalMode(mode string) SQLiteOption {
	return func(c *sqliteConfig) { c.journalMode = mode }
}

// WithMkdirAll creates parent directories of the database path before opening
func WithMkdirAll() SQLiteOption {
	return func(c *sqliteConfig) { c.mkdirAll = true }
}

// SQLiteStore keeps blobs in a single key/value table
type SQLiteStore struct {
	db *sql.DB
}

var _ interfaces.BlobStore = (*SQLiteStore)(nil)

// OpenSQLite opens (and if needed creates) the blob database at path
func OpenSQLite(path string, opts ...SQLiteOption) (*SQLiteStore, error) {
	cfg := sqliteDefaults()
	for _, o := range opts {
		o(&cfg)
	}

	if cfg.mkdirAll && path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}
	// every connection to :memory: is its own database
	db.SetMaxOpenConns(1)

	pragmas := []string{
		fmt.Sprintf("PRAGMA busy_timeout = %d", cfg.busyTimeout),
		fmt.Sprintf("PRAGMA journal_mode = %s", cfg.journalMode),
		schema,
	}
	for _, stmt := range pragmas {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to prepare sqlite db: %w", err)
		}
	}
	return &SQLiteStore{db: db}, nil
}

// Write upserts the blob stored under key
func (s *SQLiteStore) Write(key string, blob []byte) error {
	_, err := s.db.Exec(
		`INSERT INTO blobs (key, data, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		key, blob,
	)
	if err != nil {
		return fmt.Errorf("failed to write blob: %w", err)
	}
	return nil
}

// Read returns the blob stored under key and whether it exists
func (s *SQLiteStore) Read(key string) ([]byte, bool, error) {
	var data []byte
	err := s.db.QueryRow(`SELECT data FROM blobs WHERE key = ?`, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read blob: %w", err)
	}
	return data, true, nil
}

// Close releases the database handle
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite" // register "sqlite" driver
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS kv (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
)`

// SQLiteStore keeps the catalog as a JSON value in a key/value table.
type SQLiteStore struct {
	db  *sql.DB
	key string
}

// OpenSQLite opens (or creates) a SQLite database file.
// Use ":memory:" for a throwaway database.
func OpenSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite %s: %w", path, err)
	}
	// One connection: SQLite serializes writers and ":memory:" is per-connection.
	db.SetMaxOpenConns(1)
	return db, nil
}

// NewSQLiteStore creates the kv table if needed. An empty key uses
// DefaultRedisKey so both keyed stores share the same naming.
func NewSQLiteStore(ctx context.Context, db *sql.DB, key string) (*SQLiteStore, error) {
	if key == "" {
		key = DefaultRedisKey
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		return nil, fmt.Errorf("creating kv table: %w", err)
	}
	return &SQLiteStore{db: db, key: key}, nil
}

// Load reads the catalog row. A missing row is an empty catalog.
func (s *SQLiteStore) Load(ctx context.Context) ([]Asset, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, s.key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("selecting %s: %w", s.key, err)
	}
	return decodeAssets([]byte(value))
}

// Save upserts the catalog row.
func (s *SQLiteStore) Save(ctx context.Context, assets []Asset) error {
	data, err := encodeAssets(assets)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		s.key, string(data))
	if err != nil {
		return fmt.Errorf("upserting %s: %w", s.key, err)
	}
	return nil
}

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // cgo-free SQLite driver

	"sandyadmin/internal/model"
)

// Store is the device-local key/value store backing persisted session state
// ("token" and "user" entries). There is no versioning or migration logic
// beyond the initial schema.
//
// Concurrency: the session store is the single writer; concurrent reads are
// fine because SQLite serializes individual key operations.
type Store struct {
	db  *sqlx.DB
	box *SecretBox // nil disables sealing
}

const schema = `
CREATE TABLE IF NOT EXISTS kv (
	key        TEXT PRIMARY KEY,
	value      BLOB NOT NULL,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

// Open opens (creating if needed) the store at path. If key is non-nil it
// must be 32 bytes; values are then sealed at rest with secretbox.
func Open(path string, key []byte) (*Store, error) {
	db, err := sqlx.Connect("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open device store: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create kv table: %w", err)
	}

	var box *SecretBox
	if key != nil {
		box, err = NewSecretBox(key)
		if err != nil {
			db.Close()
			return nil, err
		}
	}

	return &Store{db: db, box: box}, nil
}

// Get returns the value stored under key, or model.ErrKeyNotFound.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.GetContext(ctx, &value, `SELECT value FROM kv WHERE key = ?`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %q: %w", key, err)
	}

	if s.box != nil {
		value, err = s.box.Open(value)
		if err != nil {
			return nil, fmt.Errorf("unseal %q: %w", key, err)
		}
	}
	return value, nil
}

// Set stores value under key, replacing any previous value.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	if s.box != nil {
		value = s.box.Seal(value)
	}

	query := `
		INSERT INTO kv (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (key) DO UPDATE SET
			value = excluded.value,
			updated_at = CURRENT_TIMESTAMP
	`
	if _, err := s.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	return nil
}

// Delete removes the entry under key. Deleting a missing key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

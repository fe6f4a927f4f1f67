package localstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// Fixed device-scoped keys. One blob per key, not per user.
const (
	KeyCart     = "cart"
	KeyWishlist = "wishlist"
)

var ErrKeyNotFound = errors.New("key not found in device store")

// Open opens (or creates) the device store database and ensures the schema.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open device store: %w", err)
	}

	// The store is touched from one goroutine at a time, but sqlite still
	// wants a single connection to avoid locking surprises.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS device_store (
			key        TEXT PRIMARY KEY,
			value      BLOB NOT NULL,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create device store schema: %w", err)
	}

	return db, nil
}

// Store is a small key/blob store over the device database. It is the
// library's stand-in for the browser's localStorage.
type Store interface {
	GetBlob(ctx context.Context, key string) ([]byte, error)
	PutBlob(ctx context.Context, key string, value []byte) error
	DeleteBlob(ctx context.Context, key string) error
}

type store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) Store {
	return &store{db: db}
}

func (s *store) GetBlob(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT value FROM device_store WHERE key = ?
	`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read %q blob: %w", key, err)
	}
	return value, nil
}

// PutBlob writes the whole blob in one statement; a reader never observes
// a partial write.
func (s *store) PutBlob(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO device_store (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = CURRENT_TIMESTAMP
	`, key, value)
	if err != nil {
		return fmt.Errorf("write %q blob: %w", key, err)
	}
	return nil
}

func (s *store) DeleteBlob(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM device_store WHERE key = ?
	`, key)
	if err != nil {
		return fmt.Errorf("delete %q blob: %w", key, err)
	}
	return nil
}

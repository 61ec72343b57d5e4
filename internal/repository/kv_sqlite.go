package repository

import (
	"context"
	"database/sql"
	"fmt"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS agent_kv (
    key        TEXT PRIMARY KEY,
    value      BLOB NOT NULL,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

// SQLiteKV stores records in the on-device sqlite file.
type SQLiteKV struct{ db *sql.DB }

// NewSQLiteKV creates a new SQLiteKV. Call EnsureSchema before first use.
func NewSQLiteKV(db *sql.DB) *SQLiteKV { return &SQLiteKV{db: db} }

// EnsureSchema creates the backing table if needed.
func (r *SQLiteKV) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("ensure agent_kv: %w", err)
	}
	return nil
}

// Get - returns the value stored under key, or nil.
func (r *SQLiteKV) Get(ctx context.Context, key string) ([]byte, error) {
	var v []byte
	err := r.db.QueryRowContext(ctx, `SELECT value FROM agent_kv WHERE key=?`, key).Scan(&v)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get %q: %w", key, err)
	}
	return v, nil
}

// Set - upserts the value under key.
func (r *SQLiteKV) Set(ctx context.Context, key string, value []byte) error {
	_, err := r.db.ExecContext(ctx, `
        INSERT INTO agent_kv(key, value, updated_at) VALUES(?, ?, CURRENT_TIMESTAMP)
        ON CONFLICT(key) DO UPDATE
        SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
    `, key, value)
	if err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	return nil
}

// Delete - removes key; missing keys are not an error.
func (r *SQLiteKV) Delete(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM agent_kv WHERE key=?`, key); err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	return nil
}

var _ KV = (*SQLiteKV)(nil)

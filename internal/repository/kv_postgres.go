package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const pgSchema = `
CREATE TABLE IF NOT EXISTS agent_kv (
    key        TEXT PRIMARY KEY,
    value      BYTEA NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// PostgresKV stores records in postgres, for agents that run next to a fleet
// backend rather than on a device.
type PostgresKV struct{ db *pgxpool.Pool }

// NewPostgresKV creates a new PostgresKV. Call EnsureSchema before first use.
func NewPostgresKV(db *pgxpool.Pool) *PostgresKV { return &PostgresKV{db: db} }

// EnsureSchema creates the backing table if needed.
func (r *PostgresKV) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, pgSchema); err != nil {
		return fmt.Errorf("ensure agent_kv: %w", err)
	}
	return nil
}

// Get - returns the value stored under key, or nil.
func (r *PostgresKV) Get(ctx context.Context, key string) ([]byte, error) {
	var v []byte
	err := r.db.QueryRow(ctx, `SELECT value FROM agent_kv WHERE key=$1`, key).Scan(&v)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get %q: %w", key, err)
	}
	return v, nil
}

// Set - upserts the value under key.
func (r *PostgresKV) Set(ctx context.Context, key string, value []byte) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO agent_kv(key, value, updated_at) VALUES($1, $2, now())
        ON CONFLICT (key) DO UPDATE
        SET value = EXCLUDED.value, updated_at = now()
    `, key, value)
	if err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	return nil
}

// Delete - removes key; missing keys are not an error.
func (r *PostgresKV) Delete(ctx context.Context, key string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM agent_kv WHERE key=$1`, key); err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	return nil
}

var _ KV = (*PostgresKV)(nil)

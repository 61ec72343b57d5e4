package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/EdilKulzhabay/courier/internal/config"
	"github.com/EdilKulzhabay/courier/internal/logx"
	"github.com/EdilKulzhabay/courier/internal/repository"
)

var (
	newPool    = repository.NewPool
	openSQLite = repository.OpenSQLite
)

// storeCloser releases the local store.
type storeCloser func() error

// storeOpener opens the key-value store selected by cfg.
type storeOpener func(ctx context.Context, logger logx.Logger, cfg config.Store) (repository.KV, storeCloser, error)

func connectDbWithRetry(ctx context.Context, logger logx.Logger, dsn string, retries int, delay time.Duration) (*pgxpool.Pool, error) {
	var lastErr error
	const attemptTimeout = 3 * time.Second
	for i := 1; i <= retries; i++ {
		retriesCtx, cancel := context.WithTimeout(ctx, attemptTimeout)
		pool, err := newPool(retriesCtx, dsn)
		cancel()
		if err == nil {
			logger.Info("db connected", logx.Int("attempt", i))
			return pool, nil
		}
		lastErr = err
		logger.Warn("db connect failed", logx.Int("attempt", i), logx.Int("retries", retries), logx.Err(err))
		if i < retries {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}
	}
	return nil, fmt.Errorf("db connect failed after %d attempts: %w", retries, lastErr)
}

// openStore opens the sqlite file on the device, or the shared postgres when
// the agent runs as a fleet worker, and makes sure the schema exists.
func openStore(ctx context.Context, logger logx.Logger, cfg config.Store) (repository.KV, storeCloser, error) {
	switch cfg.Driver {
	case config.StorePostgres:
		pool, err := connectDbWithRetry(ctx, logger, cfg.DB.DSN(), 10, time.Second)
		if err != nil {
			return nil, nil, err
		}
		kv := repository.NewPostgresKV(pool)
		if err := kv.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("postgres schema: %w", err)
		}
		return kv, func() error { pool.Close(); return nil }, nil
	case config.StoreSQLite:
		db, err := openSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		kv := repository.NewSQLiteKV(db)
		if err := kv.EnsureSchema(ctx); err != nil {
			return nil, nil, errors.Join(fmt.Errorf("sqlite schema: %w", err), db.Close())
		}
		logger.Info("sqlite store opened", logx.String("path", cfg.SQLitePath))
		return kv, db.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

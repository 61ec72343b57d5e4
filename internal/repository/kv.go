package repository

import "context"

// KV is an opaque key-value store for the agent's local records.
// Get returns (nil, nil) for a missing key.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

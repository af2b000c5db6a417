package repository

import (
	"context"
)

// KeyValueRepository stores opaque string values by key.
// Composite values are JSON encoded by the caller.
type KeyValueRepository interface {
	// Get returns the value and whether the key exists
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
	// Clear removes every key
	Clear(ctx context.Context) error
}

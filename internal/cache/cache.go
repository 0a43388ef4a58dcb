// Package cache holds the short lived cache for expensive lookups:
// repository status output, exported statistics payloads and similar.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss is returned when a key is not cached.
var ErrMiss = errors.New("cache: miss")

// Cache is a byte oriented cache with per key expiry.
type Cache interface {
	// Get retrieves a cached value, ErrMiss when absent or expired.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores a value under key for ttl.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Delete drops a key.
	Delete(ctx context.Context, key string) error
}

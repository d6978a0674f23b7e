package cache

import (
	"context"
	"time"
)

// Cache is a byte-value cache with per-entry TTL. It fronts slow collaborators such as
// the live catalog; values are always re-derivable, so losing them is harmless.
type Cache interface {
	// Get retrieves a value by key. Returns ErrCacheMiss if absent or expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with the given TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value by key.
	Delete(ctx context.Context, key string) error

	// Close releases resources.
	Close() error
}

// CacheError is a sentinel error type.
type CacheError string

func (e CacheError) Error() string { return string(e) }

const (
	// ErrCacheMiss indicates the key was not found in cache.
	ErrCacheMiss CacheError = "cache miss"
)

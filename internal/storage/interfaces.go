package storage

import "context"

// Storage is the key-value contract behind every persisted collection.
// One key holds one serialized collection.
type Storage interface {
	// Get returns the stored value or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend.
	Close() error
}

// StatsProvider is implemented by backends that can report usage for the admin endpoint.
type StatsProvider interface {
	Stats(ctx context.Context) (map[string]interface{}, error)
}

// StorageError is a sentinel error type for this package.
type StorageError string

func (e StorageError) Error() string { return string(e) }

const (
	// ErrNotFound indicates the key has never been written or was deleted.
	ErrNotFound StorageError = "storage: key not found"

	// ErrClosed indicates the backend was used after Close.
	ErrClosed StorageError = "storage: closed"
)

// Package collection implements the persisted-sequence pattern shared by every
// storefront store: load once from a storage key, write the whole sequence back after
// each mutation, and treat a missing or unreadable value as an empty sequence.
package collection

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"storefront-state-api/internal/storage"
)

// Storage keys, one per collection.
const (
	KeyCart           = "cart"
	KeyWishlist       = "wishlist"
	KeyCompare        = "compare"
	KeyRecentlyViewed = "recently_viewed"
)

// Collection is a JSON-array view of one storage key.
type Collection[T any] struct {
	storage storage.Storage
	key     string
}

// New returns a collection bound to key.
func New[T any](s storage.Storage, key string) *Collection[T] {
	return &Collection[T]{storage: s, key: key}
}

// Key returns the storage key.
func (c *Collection[T]) Key() string {
	return c.key
}

// Load returns the stored sequence. It never fails: absence, backend errors and
// malformed values all yield an empty, non-nil slice.
func (c *Collection[T]) Load(ctx context.Context) []T {
	data, err := c.storage.Get(ctx, c.key)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			log.Printf("[Collection] Load %s failed, starting empty: %v", c.key, err)
		}
		return []T{}
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		log.Printf("[Collection] Discarding malformed %s: %v", c.key, err)
		return []T{}
	}
	if items == nil {
		items = []T{}
	}
	return items
}

// SaveAll replaces the stored sequence with items.
func (c *Collection[T]) SaveAll(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", c.key, err)
	}
	if err := c.storage.Set(ctx, c.key, data); err != nil {
		return fmt.Errorf("failed to save %s: %w", c.key, err)
	}
	return nil
}

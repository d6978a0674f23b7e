package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"storefront-state-api/internal/collection"
	"storefront-state-api/internal/model"
	"storefront-state-api/internal/notify"
	"storefront-state-api/internal/storage"
)

// MaxCompare is the capacity of the comparison set.
const MaxCompare = 3

var (
	// ErrCompareFull is returned when the set already holds MaxCompare products.
	ErrCompareFull = errors.New("compare list is full")

	// ErrAlreadyInCompare is returned when the product is already being compared.
	ErrAlreadyInCompare = errors.New("product is already in compare list")
)

// Compare is a capacity-bounded product set. A full set rejects new products; it
// never evicts.
type Compare struct {
	observers

	mu       sync.Mutex
	items    []model.CompareItem
	coll     *collection.Collection[model.CompareItem]
	notifier notify.Notifier
}

// NewCompare rehydrates the set from s, dropping duplicates and anything past capacity.
func NewCompare(ctx context.Context, s storage.Storage, notifier notify.Notifier) *Compare {
	coll := collection.New[model.CompareItem](s, collection.KeyCompare)

	loaded := coll.Load(ctx)
	seen := make(map[string]struct{}, len(loaded))
	items := make([]model.CompareItem, 0, MaxCompare)
	for _, item := range loaded {
		if len(items) == MaxCompare {
			break
		}
		if _, dup := seen[item.ProductID]; dup {
			continue
		}
		seen[item.ProductID] = struct{}{}
		items = append(items, item)
	}

	return &Compare{items: items, coll: coll, notifier: notifier}
}

// AddProduct appends item. Returns ErrCompareFull or ErrAlreadyInCompare, leaving the
// set unchanged, when the product cannot be added.
func (c *Compare) AddProduct(ctx context.Context, item model.CompareItem) error {
	c.mu.Lock()
	if len(c.items) >= MaxCompare {
		c.mu.Unlock()
		c.notifier.Notify(fmt.Sprintf("You can compare up to %d products", MaxCompare), notify.DurationLong,
			&notify.Action{Label: "Compare Now", Target: "/compare"})
		return ErrCompareFull
	}
	if c.indexOf(item.ProductID) >= 0 {
		c.mu.Unlock()
		c.notifier.Notify("Product is already in compare list", notify.DurationShort, nil)
		return ErrAlreadyInCompare
	}

	c.items = append(c.items, item)
	persist(ctx, "Compare", c.coll.SaveAll, c.items)
	c.mu.Unlock()

	c.publish()
	c.notifier.Notify(addedMessage(item.Title, "compare"), notify.DurationShort,
		&notify.Action{Label: "Compare Now", Target: "/compare"})
	return nil
}

// RemoveProduct removes productID. It reports whether a product was removed.
func (c *Compare) RemoveProduct(ctx context.Context, productID string) bool {
	c.mu.Lock()
	idx := c.indexOf(productID)
	if idx < 0 {
		c.mu.Unlock()
		return false
	}
	c.items = append(c.items[:idx], c.items[idx+1:]...)
	persist(ctx, "Compare", c.coll.SaveAll, c.items)
	c.mu.Unlock()

	c.publish()
	return true
}

// ClearAll empties the set.
func (c *Compare) ClearAll(ctx context.Context) {
	c.mu.Lock()
	c.items = c.items[:0]
	persist(ctx, "Compare", c.coll.SaveAll, c.items)
	c.mu.Unlock()

	c.publish()
}

// IsInCompare reports whether productID is in the set.
func (c *Compare) IsInCompare(productID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.indexOf(productID) >= 0
}

// CanAdd reports whether the set has room.
func (c *Compare) CanAdd() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items) < MaxCompare
}

// Items returns a snapshot in insertion order.
func (c *Compare) Items() []model.CompareItem {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]model.CompareItem, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Compare) indexOf(productID string) int {
	for i := range c.items {
		if c.items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

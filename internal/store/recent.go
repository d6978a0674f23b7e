package store

import (
	"context"
	"sync"

	"storefront-state-api/internal/collection"
	"storefront-state-api/internal/model"
	"storefront-state-api/internal/storage"
	"storefront-state-api/pkg/clock"
)

// MaxRecentlyViewed is the history length.
const MaxRecentlyViewed = 12

// RecentlyViewed is a most-recently-used product history, newest first.
type RecentlyViewed struct {
	observers

	mu    sync.Mutex
	items []model.RecentItem
	coll  *collection.Collection[model.RecentItem]
	clock clock.Clock
}

// NewRecentlyViewed rehydrates the history from s. A product stored more than once
// keeps its first, most recent, entry.
func NewRecentlyViewed(ctx context.Context, s storage.Storage, clk clock.Clock) *RecentlyViewed {
	coll := collection.New[model.RecentItem](s, collection.KeyRecentlyViewed)

	loaded := coll.Load(ctx)
	seen := make(map[string]struct{}, len(loaded))
	items := make([]model.RecentItem, 0, MaxRecentlyViewed)
	for _, item := range loaded {
		if len(items) == MaxRecentlyViewed {
			break
		}
		if _, dup := seen[item.ProductID]; dup {
			continue
		}
		seen[item.ProductID] = struct{}{}
		items = append(items, item)
	}
	return &RecentlyViewed{items: items, coll: coll, clock: clk}
}

// AddProduct moves product to the front, stamped with the current time, and trims the
// history to MaxRecentlyViewed.
func (r *RecentlyViewed) AddProduct(ctx context.Context, product model.RecentProduct) {
	r.mu.Lock()
	next := make([]model.RecentItem, 0, MaxRecentlyViewed)
	next = append(next, model.RecentItem{RecentProduct: product, ViewedAt: r.clock.Now()})
	for _, item := range r.items {
		if item.ProductID == product.ProductID {
			continue
		}
		if len(next) == MaxRecentlyViewed {
			break
		}
		next = append(next, item)
	}
	r.items = next
	persist(ctx, "RecentlyViewed", r.coll.SaveAll, r.items)
	r.mu.Unlock()

	r.publish()
}

// ClearHistory empties the history.
func (r *RecentlyViewed) ClearHistory(ctx context.Context) {
	r.mu.Lock()
	r.items = r.items[:0]
	persist(ctx, "RecentlyViewed", r.coll.SaveAll, r.items)
	r.mu.Unlock()

	r.publish()
}

// Items returns the history, most recent first.
func (r *RecentlyViewed) Items() []model.RecentItem {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]model.RecentItem, len(r.items))
	copy(out, r.items)
	return out
}

package store

import (
	"context"
	"sync"

	"storefront-state-api/internal/collection"
	"storefront-state-api/internal/model"
	"storefront-state-api/internal/notify"
	"storefront-state-api/internal/storage"
	"storefront-state-api/pkg/clock"
	"storefront-state-api/pkg/uid"
)

// Wishlist is a set of products keyed by ProductID. Each entry freezes the price it
// was added at as the price-drop baseline.
type Wishlist struct {
	observers

	mu       sync.Mutex
	items    []model.WishlistItem
	coll     *collection.Collection[model.WishlistItem]
	notifier notify.Notifier
	clock    clock.Clock
}

// NewWishlist rehydrates the wishlist from s. Duplicate product ids in stored data
// keep their first occurrence.
func NewWishlist(ctx context.Context, s storage.Storage, notifier notify.Notifier, clk clock.Clock) *Wishlist {
	coll := collection.New[model.WishlistItem](s, collection.KeyWishlist)

	loaded := coll.Load(ctx)
	seen := make(map[string]struct{}, len(loaded))
	items := make([]model.WishlistItem, 0, len(loaded))
	for _, item := range loaded {
		if _, dup := seen[item.ProductID]; dup {
			continue
		}
		seen[item.ProductID] = struct{}{}
		items = append(items, item)
	}

	return &Wishlist{items: items, coll: coll, notifier: notifier, clock: clk}
}

// ToggleWishlist removes product when present, otherwise adds it with
// AddedPrice = product.Price. It reports whether the product is now wishlisted.
func (w *Wishlist) ToggleWishlist(ctx context.Context, product model.WishlistProduct) bool {
	w.mu.Lock()
	if idx := w.indexOf(product.ProductID); idx >= 0 {
		w.removeAt(ctx, idx)
		return false
	}

	w.items = append(w.items, model.WishlistItem{
		ID:              uid.New(),
		WishlistProduct: product,
		AddedPrice:      product.Price,
		AddedAt:         w.clock.Now(),
	})
	persist(ctx, "Wishlist", w.coll.SaveAll, w.items)
	w.mu.Unlock()

	w.publish()
	w.notifier.Notify(addedMessage(product.Title, "wishlist"), notify.DurationShort,
		&notify.Action{Label: "View Wishlist", Target: "/wishlist"})
	return true
}

// IsInWishlist reports whether productID is wishlisted.
func (w *Wishlist) IsInWishlist(productID string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.indexOf(productID) >= 0
}

// RemoveItem removes productID. It reports whether an entry was removed.
func (w *Wishlist) RemoveItem(ctx context.Context, productID string) bool {
	w.mu.Lock()
	idx := w.indexOf(productID)
	if idx < 0 {
		w.mu.Unlock()
		return false
	}
	w.removeAt(ctx, idx)
	return true
}

// removeAt deletes entry idx and offers an undo. Called with w.mu held; releases it.
func (w *Wishlist) removeAt(ctx context.Context, idx int) {
	removed := w.items[idx]
	w.items = append(w.items[:idx], w.items[idx+1:]...)
	persist(ctx, "Wishlist", w.coll.SaveAll, w.items)
	w.mu.Unlock()

	w.publish()
	w.notifier.Notify("Removed from wishlist", notify.DurationShort, &notify.Action{
		Label:      "Undo",
		OnActivate: func() { w.restore(context.Background(), removed, idx) },
	})
}

// restore puts a removed entry back at position at, keeping its original baseline
// price. It is a no-op when the product was wishlisted again in the meantime.
func (w *Wishlist) restore(ctx context.Context, item model.WishlistItem, at int) bool {
	w.mu.Lock()
	if w.indexOf(item.ProductID) >= 0 {
		w.mu.Unlock()
		return false
	}
	if at > len(w.items) {
		at = len(w.items)
	}
	w.items = append(w.items[:at], append([]model.WishlistItem{item}, w.items[at:]...)...)
	persist(ctx, "Wishlist", w.coll.SaveAll, w.items)
	w.mu.Unlock()

	w.publish()
	return true
}

// ClearWishlist empties the wishlist.
func (w *Wishlist) ClearWishlist(ctx context.Context) {
	w.mu.Lock()
	w.items = w.items[:0]
	persist(ctx, "Wishlist", w.coll.SaveAll, w.items)
	w.mu.Unlock()

	w.publish()
}

// Items returns a snapshot in insertion order.
func (w *Wishlist) Items() []model.WishlistItem {
	w.mu.Lock()
	defer w.mu.Unlock()

	out := make([]model.WishlistItem, len(w.items))
	copy(out, w.items)
	return out
}

// ProductIDs returns the wishlisted product ids in insertion order.
func (w *Wishlist) ProductIDs() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	ids := make([]string, len(w.items))
	for i, item := range w.items {
		ids[i] = item.ProductID
	}
	return ids
}

// Len returns the number of entries.
func (w *Wishlist) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.items)
}

func (w *Wishlist) indexOf(productID string) int {
	for i := range w.items {
		if w.items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

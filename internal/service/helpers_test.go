package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"storefront-state-api/internal/model"
	"storefront-state-api/internal/notify"
)

type recordingNotifier struct {
	mu   sync.Mutex
	sent []string
}

func (r *recordingNotifier) Notify(message string, _ time.Duration, _ *notify.Action) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, message)
}

func (r *recordingNotifier) messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.sent...)
}

type stubWishlist struct {
	mu    sync.Mutex
	items []model.WishlistItem
}

func (s *stubWishlist) Items() []model.WishlistItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.WishlistItem(nil), s.items...)
}

func (s *stubWishlist) set(items ...model.WishlistItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = items
}

// stubCatalog serves products from a map. onFetch, when set, runs inside FetchByIDs
// with the 1-based call number.
type stubCatalog struct {
	mu       sync.Mutex
	products map[string]model.CatalogProduct
	err      error
	calls    int
	onFetch  func(call int)
}

func newStubCatalog(products ...model.CatalogProduct) *stubCatalog {
	c := &stubCatalog{products: make(map[string]model.CatalogProduct)}
	for _, p := range products {
		c.products[p.ID] = p
	}
	return c
}

func (c *stubCatalog) FetchByIDs(ctx context.Context, ids []string) ([]model.CatalogProduct, error) {
	c.mu.Lock()
	c.calls++
	call := c.calls
	hook := c.onFetch
	err := c.err
	c.mu.Unlock()

	if hook != nil {
		hook(call)
	}
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.CatalogProduct, 0, len(ids))
	for _, id := range ids {
		if p, ok := c.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (c *stubCatalog) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func (c *stubCatalog) fail(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.err = err
}

func (c *stubCatalog) put(p model.CatalogProduct) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.products[p.ID] = p
}

var errCatalogDown = errors.New("catalog unavailable")

func wished(id string, addedPrice int64) model.WishlistItem {
	price := decimal.NewFromInt(addedPrice)
	return model.WishlistItem{
		ID:              "w-" + id,
		WishlistProduct: model.WishlistProduct{ProductID: id, Title: "Product " + id, Price: price},
		AddedPrice:      price,
	}
}

func live(id string, price int64, stock int) model.CatalogProduct {
	return model.CatalogProduct{
		ID:       id,
		Title:    "Product " + id,
		Images:   []string{"/img/" + id + ".jpg"},
		Stock:    stock,
		Price:    decimal.NewFromInt(price),
		Slug:     "product-" + id,
		IsActive: true,
	}
}

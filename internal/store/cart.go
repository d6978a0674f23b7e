package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"storefront-state-api/internal/collection"
	"storefront-state-api/internal/model"
	"storefront-state-api/internal/notify"
	"storefront-state-api/internal/storage"
	"storefront-state-api/pkg/uid"
)

// Cart holds quantity- and variant-aware line items.
type Cart struct {
	observers

	mu       sync.Mutex
	items    []model.CartItem
	coll     *collection.Collection[model.CartItem]
	notifier notify.Notifier
}

// NewCart rehydrates the cart from s. Stored lines sharing a product and variant are
// merged into the first one by summing quantities.
func NewCart(ctx context.Context, s storage.Storage, notifier notify.Notifier) *Cart {
	coll := collection.New[model.CartItem](s, collection.KeyCart)

	loaded := coll.Load(ctx)
	items := make([]model.CartItem, 0, len(loaded))
	for _, item := range loaded {
		if item.Quantity < 1 {
			continue
		}
		if idx := lineIndex(items, item.CartProduct); idx >= 0 {
			items[idx].Quantity += item.Quantity
			continue
		}
		items = append(items, item)
	}

	return &Cart{items: items, coll: coll, notifier: notifier}
}

// AddItem merges quantity into the line with the same product and variant, or appends
// a new line. Quantities below 1 count as 1.
func (c *Cart) AddItem(ctx context.Context, product model.CartProduct, quantity int) model.CartItem {
	if quantity < 1 {
		quantity = 1
	}

	c.mu.Lock()
	var line model.CartItem
	if idx := lineIndex(c.items, product); idx >= 0 {
		c.items[idx].Quantity += quantity
		line = c.items[idx]
	} else {
		line = model.CartItem{ID: uid.New(), CartProduct: product, Quantity: quantity}
		c.items = append(c.items, line)
	}
	persist(ctx, "Cart", c.coll.SaveAll, c.items)
	c.mu.Unlock()

	c.publish()
	c.notifier.Notify(addedMessage(product.Title, "cart"), notify.DurationShort,
		&notify.Action{Label: "View Cart", Target: "/cart"})
	return line
}

// RemoveItem deletes the line with id. It reports whether a line was removed.
func (c *Cart) RemoveItem(ctx context.Context, id string) bool {
	c.mu.Lock()
	idx := c.indexOf(id)
	if idx < 0 {
		c.mu.Unlock()
		return false
	}
	removed := c.items[idx]
	c.items = append(c.items[:idx], c.items[idx+1:]...)
	persist(ctx, "Cart", c.coll.SaveAll, c.items)
	c.mu.Unlock()

	c.publish()
	c.notifier.Notify("Item removed from cart", notify.DurationShort, &notify.Action{
		Label:      "Undo",
		OnActivate: func() { c.restore(context.Background(), removed, idx) },
	})
	return true
}

// restore puts a removed line back at position at. It is a no-op when a line for the
// same product and variant has been added since.
func (c *Cart) restore(ctx context.Context, line model.CartItem, at int) bool {
	c.mu.Lock()
	if lineIndex(c.items, line.CartProduct) >= 0 {
		c.mu.Unlock()
		return false
	}
	if at > len(c.items) {
		at = len(c.items)
	}
	c.items = append(c.items[:at], append([]model.CartItem{line}, c.items[at:]...)...)
	persist(ctx, "Cart", c.coll.SaveAll, c.items)
	c.mu.Unlock()

	c.publish()
	return true
}

// UpdateQuantity sets the quantity of line id. A quantity below 1 removes the line.
func (c *Cart) UpdateQuantity(ctx context.Context, id string, quantity int) bool {
	if quantity < 1 {
		return c.RemoveItem(ctx, id)
	}

	c.mu.Lock()
	idx := c.indexOf(id)
	if idx < 0 {
		c.mu.Unlock()
		return false
	}
	c.items[idx].Quantity = quantity
	persist(ctx, "Cart", c.coll.SaveAll, c.items)
	c.mu.Unlock()

	c.publish()
	return true
}

// ClearCart empties the cart.
func (c *Cart) ClearCart(ctx context.Context) {
	c.mu.Lock()
	c.items = c.items[:0]
	persist(ctx, "Cart", c.coll.SaveAll, c.items)
	c.mu.Unlock()

	c.publish()
}

// Items returns a snapshot of the lines in insertion order.
func (c *Cart) Items() []model.CartItem {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]model.CartItem, len(c.items))
	copy(out, c.items)
	return out
}

// Get returns line id.
func (c *Cart) Get(id string) (model.CartItem, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if idx := c.indexOf(id); idx >= 0 {
		return c.items[idx], true
	}
	return model.CartItem{}, false
}

// ItemCount is the sum of quantities.
func (c *Cart) ItemCount() int {
	return c.Summary().ItemCount
}

// Subtotal is the sum of price × quantity.
func (c *Cart) Subtotal() decimal.Decimal {
	return c.Summary().Subtotal
}

// Summary computes the derived totals from the current lines.
func (c *Cart) Summary() model.CartSummary {
	items := c.Items()

	summary := model.CartSummary{Items: items, Subtotal: decimal.Zero, Savings: decimal.Zero}
	for _, item := range items {
		qty := decimal.NewFromInt(int64(item.Quantity))
		summary.ItemCount += item.Quantity
		summary.Subtotal = summary.Subtotal.Add(item.LineTotal())
		if item.MRP.GreaterThan(item.Price) {
			summary.Savings = summary.Savings.Add(item.MRP.Sub(item.Price).Mul(qty))
		}
	}
	return summary
}

func (c *Cart) indexOf(id string) int {
	for i := range c.items {
		if c.items[i].ID == id {
			return i
		}
	}
	return -1
}

func lineIndex(items []model.CartItem, product model.CartProduct) int {
	for i := range items {
		if items[i].SameLine(product) {
			return i
		}
	}
	return -1
}

func addedMessage(title, target string) string {
	if title == "" {
		return fmt.Sprintf("Added to %s", target)
	}
	return fmt.Sprintf("%s added to %s", title, target)
}

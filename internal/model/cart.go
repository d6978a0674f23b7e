package model

import "github.com/shopspring/decimal"

// CartProduct is what the storefront hands to the cart when a product is added.
// ProductID and Variant together identify a cart line.
type CartProduct struct {
	ProductID string          `json:"product_id"`
	Variant   string          `json:"variant,omitempty"`
	Title     string          `json:"title"`
	Image     string          `json:"image"`
	Price     decimal.Decimal `json:"price"`
	MRP       decimal.Decimal `json:"mrp"`
}

// CartItem is a persisted cart line. Quantity is always >= 1; a line that would
// drop below that is deleted instead.
type CartItem struct {
	ID string `json:"id"`
	CartProduct
	Quantity int `json:"quantity"`
}

// SameLine reports whether p would merge into this line.
func (c CartItem) SameLine(p CartProduct) bool {
	return c.ProductID == p.ProductID && c.Variant == p.Variant
}

// LineTotal returns price × quantity.
func (c CartItem) LineTotal() decimal.Decimal {
	return c.Price.Mul(decimal.NewFromInt(int64(c.Quantity)))
}

// CartSummary is the derived view of the cart, recomputed on every read.
type CartSummary struct {
	Items     []CartItem      `json:"items"`
	ItemCount int             `json:"item_count"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Savings   decimal.Decimal `json:"savings"`
}

package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// WishlistProduct is the toggle input: a wishlist entry without id or baseline.
type WishlistProduct struct {
	ProductID string          `json:"product_id"`
	Title     string          `json:"title"`
	Image     string          `json:"image"`
	Price     decimal.Decimal `json:"price"`
	MRP       decimal.Decimal `json:"mrp"`
}

// WishlistItem is a persisted wishlist entry.
//
// AddedPrice is the price at the moment the product was wishlisted. It is set once
// on insertion and is the baseline for price-drop detection.
type WishlistItem struct {
	ID string `json:"id"`
	WishlistProduct
	AddedPrice decimal.Decimal `json:"added_price"`
	AddedAt    time.Time       `json:"added_at"`
}

// Baseline returns the price-drop baseline. Entries persisted without an
// added_price fall back to the price they were stored with.
func (w WishlistItem) Baseline() decimal.Decimal {
	if w.AddedPrice.IsZero() {
		return w.Price
	}
	return w.AddedPrice
}

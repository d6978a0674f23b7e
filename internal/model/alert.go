package model

import "github.com/shopspring/decimal"

// LowStockAlert is a wishlisted product with 0 < stock <= threshold.
type LowStockAlert struct {
	ProductID string `json:"product_id"`
	Title     string `json:"title"`
	Image     string `json:"image"`
	Slug      string `json:"slug"`
	Stock     int    `json:"stock"`
}

// PriceDropAlert is a wishlisted product now cheaper than its baseline.
type PriceDropAlert struct {
	ProductID   string          `json:"product_id"`
	Title       string          `json:"title"`
	Image       string          `json:"image"`
	Slug        string          `json:"slug"`
	OldPrice    decimal.Decimal `json:"old_price"`
	NewPrice    decimal.Decimal `json:"new_price"`
	DropPercent int64           `json:"drop_percent"`
}

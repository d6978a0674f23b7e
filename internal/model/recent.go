package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecentProduct is a product page view reported by the storefront.
type RecentProduct struct {
	ProductID string          `json:"product_id"`
	Title     string          `json:"title"`
	Price     decimal.Decimal `json:"price"`
	MRP       decimal.Decimal `json:"mrp"`
	Image     string          `json:"image"`
}

// RecentItem is a recently-viewed entry stamped with the view time.
type RecentItem struct {
	RecentProduct
	ViewedAt time.Time `json:"viewed_at"`
}

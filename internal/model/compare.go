package model

import "github.com/shopspring/decimal"

// CompareItem is one product in the comparison set.
type CompareItem struct {
	ProductID string          `json:"product_id"`
	Title     string          `json:"title"`
	Price     decimal.Decimal `json:"price"`
	MRP       decimal.Decimal `json:"mrp"`
	Image     string          `json:"image"`
	Rating    *float64        `json:"rating,omitempty"`
	Stock     *int            `json:"stock,omitempty"`
}

package model

import "github.com/shopspring/decimal"

// CatalogProduct is the live catalog projection read during alert reconciliation:
// {id, title, images, stock, price, slug, is_active}.
type CatalogProduct struct {
	ID       string          `json:"id"`
	Title    string          `json:"title"`
	Images   []string        `json:"images"`
	Stock    int             `json:"stock"`
	Price    decimal.Decimal `json:"price"`
	Slug     string          `json:"slug"`
	IsActive bool            `json:"is_active"`
}

// PrimaryImage returns the first image or "".
func (p CatalogProduct) PrimaryImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

package service

import (
	"fmt"

	"storefront-state-api/internal/model"
	"storefront-state-api/internal/notify"
)

// DefaultLowStockThreshold is the inclusive upper stock bound for a low-stock alert.
const DefaultLowStockThreshold = 5

// LowStockDetector qualifies wishlisted products with 0 < stock <= Threshold.
type LowStockDetector struct {
	Threshold int
}

// Name implements Detector.
func (LowStockDetector) Name() string { return "LowStock" }

// Detect returns qualifying products in catalog-fetch order. Out-of-stock products
// do not qualify.
func (d LowStockDetector) Detect(wishlist []model.WishlistItem, live []model.CatalogProduct) []model.LowStockAlert {
	threshold := d.Threshold
	if threshold <= 0 {
		threshold = DefaultLowStockThreshold
	}

	wanted := make(map[string]struct{}, len(wishlist))
	for _, item := range wishlist {
		wanted[item.ProductID] = struct{}{}
	}

	alerts := make([]model.LowStockAlert, 0)
	for _, p := range live {
		if _, ok := wanted[p.ID]; !ok {
			continue
		}
		if p.Stock <= 0 || p.Stock > threshold {
			continue
		}
		alerts = append(alerts, model.LowStockAlert{
			ProductID: p.ID,
			Title:     p.Title,
			Image:     p.PrimaryImage(),
			Slug:      p.Slug,
			Stock:     p.Stock,
		})
	}
	return alerts
}

// AlertID implements Detector.
func (LowStockDetector) AlertID(a model.LowStockAlert) string { return a.ProductID }

// Notify implements Detector.
func (LowStockDetector) Notify(n notify.Notifier, a model.LowStockAlert) {
	n.Notify(
		fmt.Sprintf("Hurry! Only %d left of %s", a.Stock, a.Title),
		notify.DurationLong,
		&notify.Action{Label: "View", Target: productPath(a.Slug, a.ProductID)},
	)
}

func productPath(slug, id string) string {
	if slug == "" {
		return "/product/" + id
	}
	return "/product/" + slug
}

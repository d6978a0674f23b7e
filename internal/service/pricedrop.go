package service

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"storefront-state-api/internal/model"
	"storefront-state-api/internal/notify"
)

var hundred = decimal.NewFromInt(100)

// PriceDropDetector qualifies wishlisted products whose live price is below the
// price they had when wishlisted.
type PriceDropDetector struct{}

// Name implements Detector.
func (PriceDropDetector) Name() string { return "PriceDrop" }

// Detect returns qualifying products ordered by DropPercent, largest first. Ties keep
// catalog-fetch order.
func (PriceDropDetector) Detect(wishlist []model.WishlistItem, live []model.CatalogProduct) []model.PriceDropAlert {
	byID := make(map[string]model.WishlistItem, len(wishlist))
	for _, item := range wishlist {
		byID[item.ProductID] = item
	}

	alerts := make([]model.PriceDropAlert, 0)
	for _, p := range live {
		entry, ok := byID[p.ID]
		if !ok {
			continue
		}
		baseline := entry.Baseline()
		if !baseline.IsPositive() || !p.Price.LessThan(baseline) {
			continue
		}
		alerts = append(alerts, model.PriceDropAlert{
			ProductID:   p.ID,
			Title:       p.Title,
			Image:       p.PrimaryImage(),
			Slug:        p.Slug,
			OldPrice:    baseline,
			NewPrice:    p.Price,
			DropPercent: DropPercent(baseline, p.Price),
		})
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].DropPercent > alerts[j].DropPercent
	})
	return alerts
}

// DropPercent returns round((old - now) / old * 100). Halves round away from zero.
func DropPercent(old, now decimal.Decimal) int64 {
	if old.IsZero() {
		return 0
	}
	return old.Sub(now).Mul(hundred).Div(old).Round(0).IntPart()
}

// AlertID implements Detector.
func (PriceDropDetector) AlertID(a model.PriceDropAlert) string { return a.ProductID }

// Notify implements Detector.
func (PriceDropDetector) Notify(n notify.Notifier, a model.PriceDropAlert) {
	n.Notify(
		fmt.Sprintf("Price drop! %s is now %s (%d%% off)", a.Title, a.NewPrice.StringFixed(2), a.DropPercent),
		notify.DurationLong,
		&notify.Action{Label: "View", Target: productPath(a.Slug, a.ProductID)},
	)
}

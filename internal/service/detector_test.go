package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"storefront-state-api/internal/model"
)

func TestPriceDropDetector_SortsByDropDescending(t *testing.T) {
	wishlist := []model.WishlistItem{wished("A", 100), wished("B", 100), wished("C", 100), wished("D", 100)}
	products := []model.CatalogProduct{
		live("A", 90, 1),
		live("B", 50, 1),
		live("C", 90, 1),
		live("D", 120, 1),
	}

	alerts := PriceDropDetector{}.Detect(wishlist, products)

	ids := make([]string, len(alerts))
	for i, a := range alerts {
		ids[i] = a.ProductID
	}
	assert.Equal(t, []string{"B", "A", "C"}, ids)
}

func TestPriceDropDetector_UsesAddedPriceNotCurrentEntryPrice(t *testing.T) {
	entry := wished("A", 100)
	entry.Price = decimal.NewFromInt(70)

	alerts := PriceDropDetector{}.Detect([]model.WishlistItem{entry}, []model.CatalogProduct{live("A", 80, 1)})

	assert.Len(t, alerts, 1)
	assert.Equal(t, int64(20), alerts[0].DropPercent)
}

func TestPriceDropDetector_IgnoresUnknownProducts(t *testing.T) {
	alerts := PriceDropDetector{}.Detect([]model.WishlistItem{wished("A", 100)}, []model.CatalogProduct{live("Z", 1, 1)})
	assert.Empty(t, alerts)
}

func TestDropPercent(t *testing.T) {
	tests := []struct {
		name string
		old  string
		now  string
		want int64
	}{
		{"whole", "100", "80", 20},
		{"rounds half up", "200", "199", 1},
		{"rounds down", "300", "299", 0},
		{"fractional prices", "49.99", "39.99", 20},
		{"zero baseline", "0", "0", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DropPercent(decimal.RequireFromString(tt.old), decimal.RequireFromString(tt.now))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLowStockDetector_DefaultThreshold(t *testing.T) {
	alerts := LowStockDetector{}.Detect(
		[]model.WishlistItem{wished("A", 1), wished("B", 1)},
		[]model.CatalogProduct{live("A", 1, 5), live("B", 1, 6)},
	)

	assert.Len(t, alerts, 1)
	assert.Equal(t, "A", alerts[0].ProductID)
	assert.Equal(t, "product-A", alerts[0].Slug)
	assert.Equal(t, "/img/A.jpg", alerts[0].Image)
}

func TestLedger_MarkNotified(t *testing.T) {
	l := NewLedger()

	assert.True(t, l.MarkNotified("A"))
	assert.False(t, l.MarkNotified("A"))
	assert.True(t, l.Contains("A"))
	assert.False(t, l.Contains("B"))
	assert.Equal(t, 1, l.Len())
}

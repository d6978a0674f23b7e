package store

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-state-api/internal/model"
	"storefront-state-api/internal/storage"
)

func compareItem(id string) model.CompareItem {
	rating := 4.5
	return model.CompareItem{
		ProductID: id,
		Title:     "Product " + id,
		Price:     decimal.NewFromInt(10),
		MRP:       decimal.NewFromInt(12),
		Rating:    &rating,
	}
}

func TestCompare_RejectsFourth(t *testing.T) {
	ctx := context.Background()
	n := &recordingNotifier{}
	c := NewCompare(ctx, storage.NewMemoryStorage(), n)

	for i := 1; i <= MaxCompare; i++ {
		require.NoError(t, c.AddProduct(ctx, compareItem(fmt.Sprint(i))))
	}
	assert.False(t, c.CanAdd())

	before := c.Items()
	err := c.AddProduct(ctx, compareItem("4"))
	assert.ErrorIs(t, err, ErrCompareFull)
	assert.Equal(t, before, c.Items(), "oldest entry must not be evicted")
	assert.Contains(t, n.messages(), "You can compare up to 3 products")
}

func TestCompare_RejectsDuplicate(t *testing.T) {
	ctx := context.Background()
	n := &recordingNotifier{}
	c := NewCompare(ctx, storage.NewMemoryStorage(), n)

	require.NoError(t, c.AddProduct(ctx, compareItem("1")))
	assert.ErrorIs(t, c.AddProduct(ctx, compareItem("1")), ErrAlreadyInCompare)
	assert.Len(t, c.Items(), 1)
	assert.True(t, c.CanAdd())
	assert.Contains(t, n.messages(), "Product is already in compare list")
}

func TestCompare_RemoveFreesCapacity(t *testing.T) {
	ctx := context.Background()
	c := NewCompare(ctx, storage.NewMemoryStorage(), &recordingNotifier{})

	for i := 1; i <= MaxCompare; i++ {
		require.NoError(t, c.AddProduct(ctx, compareItem(fmt.Sprint(i))))
	}
	assert.True(t, c.RemoveProduct(ctx, "2"))
	assert.False(t, c.IsInCompare("2"))
	assert.True(t, c.CanAdd())
	require.NoError(t, c.AddProduct(ctx, compareItem("4")))

	ids := []string{}
	for _, item := range c.Items() {
		ids = append(ids, item.ProductID)
	}
	assert.Equal(t, []string{"1", "3", "4"}, ids)

	c.ClearAll(ctx)
	assert.Empty(t, c.Items())
}

func TestCompare_RehydrateCapsCapacity(t *testing.T) {
	ctx := context.Background()
	s := storage.NewMemoryStorage()
	require.NoError(t, s.Set(ctx, "compare", []byte(`[
		{"product_id":"a"},{"product_id":"a"},{"product_id":"b"},{"product_id":"c"},{"product_id":"d"}
	]`)))

	c := NewCompare(ctx, s, &recordingNotifier{})
	require.Len(t, c.Items(), MaxCompare)
	assert.True(t, c.IsInCompare("c"))
	assert.False(t, c.IsInCompare("d"))
}

func TestCompare_Persists(t *testing.T) {
	ctx := context.Background()
	s := storage.NewMemoryStorage()
	c := NewCompare(ctx, s, &recordingNotifier{})
	require.NoError(t, c.AddProduct(ctx, compareItem("1")))

	reloaded := NewCompare(ctx, s, &recordingNotifier{})
	require.Len(t, reloaded.Items(), 1)
	require.NotNil(t, reloaded.Items()[0].Rating)
	assert.Equal(t, 4.5, *reloaded.Items()[0].Rating)
}

package store

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-state-api/internal/model"
	"storefront-state-api/internal/storage"
	"storefront-state-api/pkg/clock"
)

var wishlistEpoch = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func lamp(price string) model.WishlistProduct {
	return model.WishlistProduct{
		ProductID: "lamp-1",
		Title:     "Desk Lamp",
		Price:     decimal.RequireFromString(price),
		MRP:       decimal.RequireFromString("120"),
	}
}

func TestWishlist_ToggleIsInvolution(t *testing.T) {
	ctx := context.Background()
	w := NewWishlist(ctx, storage.NewMemoryStorage(), &recordingNotifier{}, clock.NewFake(wishlistEpoch))

	assert.True(t, w.ToggleWishlist(ctx, lamp("100")))
	assert.True(t, w.IsInWishlist("lamp-1"))

	assert.False(t, w.ToggleWishlist(ctx, lamp("100")))
	assert.False(t, w.IsInWishlist("lamp-1"))
	assert.Equal(t, 0, w.Len())
}

func TestWishlist_BaselineCapturedOnce(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewFake(wishlistEpoch)
	s := storage.NewMemoryStorage()
	w := NewWishlist(ctx, s, &recordingNotifier{}, clk)

	w.ToggleWishlist(ctx, lamp("100"))
	clk.Advance(time.Hour)

	items := w.Items()
	require.Len(t, items, 1)
	assert.True(t, decimal.NewFromInt(100).Equal(items[0].AddedPrice))
	assert.Equal(t, wishlistEpoch, items[0].AddedAt)
	assert.NotEmpty(t, items[0].ID)

	reloaded := NewWishlist(ctx, s, &recordingNotifier{}, clk)
	assert.True(t, decimal.NewFromInt(100).Equal(reloaded.Items()[0].AddedPrice))
}

func TestWishlist_RemoveAndClear(t *testing.T) {
	ctx := context.Background()
	n := &recordingNotifier{}
	w := NewWishlist(ctx, storage.NewMemoryStorage(), n, clock.NewFake(wishlistEpoch))

	w.ToggleWishlist(ctx, lamp("100"))
	w.ToggleWishlist(ctx, model.WishlistProduct{ProductID: "rug-1", Price: decimal.NewFromInt(50)})
	assert.Equal(t, []string{"lamp-1", "rug-1"}, w.ProductIDs())

	assert.True(t, w.RemoveItem(ctx, "lamp-1"))
	assert.False(t, w.RemoveItem(ctx, "lamp-1"))
	assert.Equal(t, []string{"rug-1"}, w.ProductIDs())

	w.ClearWishlist(ctx)
	assert.Empty(t, w.Items())

	assert.Equal(t, []string{
		"Desk Lamp added to wishlist",
		"Added to wishlist",
		"Removed from wishlist",
	}, n.messages())
}

func TestWishlist_RehydrateDeduplicates(t *testing.T) {
	ctx := context.Background()
	s := storage.NewMemoryStorage()
	require.NoError(t, s.Set(ctx, "wishlist", []byte(`[
		{"id":"1","product_id":"a","price":"10","mrp":"10","added_price":"12"},
		{"id":"2","product_id":"a","price":"9","mrp":"10","added_price":"9"}
	]`)))

	w := NewWishlist(ctx, s, &recordingNotifier{}, clock.NewFake(wishlistEpoch))
	items := w.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "1", items[0].ID)
	assert.True(t, decimal.NewFromInt(12).Equal(items[0].Baseline()))
}

func TestWishlist_SubscribeOnToggle(t *testing.T) {
	ctx := context.Background()
	w := NewWishlist(ctx, storage.NewMemoryStorage(), &recordingNotifier{}, clock.NewFake(wishlistEpoch))

	var seen [][]string
	w.Subscribe(func() { seen = append(seen, w.ProductIDs()) })

	w.ToggleWishlist(ctx, lamp("100"))
	w.ToggleWishlist(ctx, lamp("100"))

	assert.Equal(t, [][]string{{"lamp-1"}, {}}, seen)
}

func TestWishlist_RemoveOffersUndo(t *testing.T) {
	ctx := context.Background()
	n := &recordingNotifier{}
	clk := clock.NewFake(wishlistEpoch)
	w := NewWishlist(ctx, storage.NewMemoryStorage(), n, clk)

	w.ToggleWishlist(ctx, lamp("100"))
	w.ToggleWishlist(ctx, model.WishlistProduct{ProductID: "rug-1", Price: decimal.NewFromInt(50)})
	original := w.Items()[0]

	assert.False(t, w.ToggleWishlist(ctx, lamp("100")))
	undo := n.sent[len(n.sent)-1].Action
	require.NotNil(t, undo)
	assert.Equal(t, "Undo", undo.Label)

	clk.Advance(time.Hour)
	undo.OnActivate()
	assert.Equal(t, []string{"lamp-1", "rug-1"}, w.ProductIDs())
	assert.Equal(t, original, w.Items()[0], "baseline and added time survive the undo")

	// a second activation is harmless
	undo.OnActivate()
	assert.Equal(t, 2, w.Len())
}

package router

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-state-api/internal/handler"
	"storefront-state-api/internal/middleware"
	"storefront-state-api/internal/model"
	"storefront-state-api/internal/notify"
	"storefront-state-api/internal/repository"
	"storefront-state-api/internal/service"
	"storefront-state-api/internal/storage"
	"storefront-state-api/internal/store"
	"storefront-state-api/pkg/clock"
)

type testEnv struct {
	server   *httptest.Server
	catalog  *repository.MemoryCatalogRepository
	feed     *notify.Feed
	wishlist *store.Wishlist
}

func newTestEnv(t *testing.T, apiKeys ...string) *testEnv {
	t.Helper()
	ctx := context.Background()

	backend := storage.NewMemoryStorage()
	clk := clock.NewFake(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
	feed := notify.NewFeed(10, clk)
	catalog := repository.NewMemoryCatalogRepository()

	cart := store.NewCart(ctx, backend, feed)
	wishlist := store.NewWishlist(ctx, backend, feed, clk)
	compare := store.NewCompare(ctx, backend, feed)
	recent := store.NewRecentlyViewed(ctx, backend, clk)

	lowStock := service.NewEngine[model.LowStockAlert](wishlist, catalog, feed, service.LowStockDetector{Threshold: 5}, time.Second)
	priceDrops := service.NewEngine[model.PriceDropAlert](wishlist, catalog, feed, service.PriceDropDetector{}, time.Second)
	scheduler := service.NewScheduler(nil, service.SchedulerConfig{}, lowStock, priceDrops)

	mux := New(Config{
		Handler: handler.New("storefront-state-api", "test", map[string]handler.ReadinessCheck{
			"storage": func(ctx context.Context) error {
				_, err := backend.Get(ctx, "ready")
				if errors.Is(err, storage.ErrNotFound) {
					return nil
				}
				return err
			},
		}),
		CartHandler:          handler.NewCartHandler(cart),
		WishlistHandler:      handler.NewWishlistHandler(wishlist),
		CompareHandler:       handler.NewCompareHandler(compare),
		RecentHandler:        handler.NewRecentHandler(recent),
		AlertsHandler:        handler.NewAlertsHandler(lowStock, priceDrops, scheduler),
		NotificationsHandler: handler.NewNotificationsHandler(feed),
		AdminHandler: handler.NewAdminHandler(handler.AdminConfig{
			StorageType: "memory",
			Storage:     backend,
			Engines:     []handler.EngineStatser{lowStock, priceDrops},
			Collections: map[string]func() int{"wishlist": wishlist.Len, "cart": cart.ItemCount},
			FeedLen:     feed.Len,
		}),
		AuthMiddleware: middleware.NewAuthMiddleware(middleware.AuthConfig{APIKeys: apiKeys}),
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return &testEnv{server: srv, catalog: catalog, feed: feed, wishlist: wishlist}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Meta    *struct {
		Count    int `json:"count"`
		Capacity int `json:"capacity"`
	} `json:"meta"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) (int, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, e.server.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	if resp.StatusCode != http.StatusNoContent {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	}
	return resp.StatusCode, env
}

func decodeData(t *testing.T, env envelope, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, v))
}

func TestCartFlow(t *testing.T) {
	env := newTestEnv(t)

	product := map[string]interface{}{"product_id": "tee", "variant": "M", "title": "Tee", "price": "19.99", "mrp": "24.99"}
	body := map[string]interface{}{"quantity": 2}
	for k, v := range product {
		body[k] = v
	}

	status, res := env.do(t, http.MethodPost, "/api/v1/cart/items", body)
	require.Equal(t, http.StatusCreated, status)
	var item model.CartItem
	decodeData(t, res, &item)
	assert.Equal(t, 2, item.Quantity)

	body["quantity"] = 1
	_, _ = env.do(t, http.MethodPost, "/api/v1/cart/items", body)

	status, res = env.do(t, http.MethodGet, "/api/v1/cart", nil)
	require.Equal(t, http.StatusOK, status)
	var summary model.CartSummary
	decodeData(t, res, &summary)
	require.Len(t, summary.Items, 1)
	assert.Equal(t, 3, summary.ItemCount)
	assert.True(t, decimal.RequireFromString("59.97").Equal(summary.Subtotal))
	assert.True(t, decimal.RequireFromString("15").Equal(summary.Savings))

	status, _ = env.do(t, http.MethodPatch, "/api/v1/cart/items/"+item.ID, map[string]int{"quantity": 0})
	require.Equal(t, http.StatusOK, status)

	status, res = env.do(t, http.MethodDelete, "/api/v1/cart/items/"+item.ID, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", res.Error.Code)
}

func TestCart_Validation(t *testing.T) {
	env := newTestEnv(t)

	status, res := env.do(t, http.MethodPost, "/api/v1/cart/items", map[string]interface{}{"price": "-1"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_ERROR", res.Error.Code)

	status, res = env.do(t, http.MethodPatch, "/api/v1/cart/items/missing", map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_ERROR", res.Error.Code)
}

func TestWishlistToggle(t *testing.T) {
	env := newTestEnv(t)
	product := map[string]interface{}{"product_id": "lamp", "title": "Lamp", "price": "100"}

	status, res := env.do(t, http.MethodPost, "/api/v1/wishlist/toggle", product)
	require.Equal(t, http.StatusOK, status)
	var membership handler.MembershipResponse
	decodeData(t, res, &membership)
	assert.True(t, membership.InWishlist)

	_, res = env.do(t, http.MethodGet, "/api/v1/wishlist/lamp", nil)
	decodeData(t, res, &membership)
	assert.True(t, membership.InWishlist)

	_, res = env.do(t, http.MethodGet, "/api/v1/wishlist", nil)
	require.NotNil(t, res.Meta)
	assert.Equal(t, 1, res.Meta.Count)

	_, res = env.do(t, http.MethodPost, "/api/v1/wishlist/toggle", product)
	decodeData(t, res, &membership)
	assert.False(t, membership.InWishlist)

	status, _ = env.do(t, http.MethodDelete, "/api/v1/wishlist/lamp", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestCompareCapacity(t *testing.T) {
	env := newTestEnv(t)

	for _, id := range []string{"a", "b", "c"} {
		status, _ := env.do(t, http.MethodPost, "/api/v1/compare", map[string]string{"product_id": id, "title": id})
		require.Equal(t, http.StatusCreated, status)
	}

	status, res := env.do(t, http.MethodPost, "/api/v1/compare", map[string]string{"product_id": "d"})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "CONFLICT", res.Error.Code)

	status, _ = env.do(t, http.MethodPost, "/api/v1/compare", map[string]string{"product_id": "a"})
	assert.Equal(t, http.StatusConflict, status)

	_, res = env.do(t, http.MethodGet, "/api/v1/compare", nil)
	require.NotNil(t, res.Meta)
	assert.Equal(t, 3, res.Meta.Count)
	assert.Equal(t, 3, res.Meta.Capacity)

	status, _ = env.do(t, http.MethodDelete, "/api/v1/compare/b", nil)
	assert.Equal(t, http.StatusNoContent, status)
	status, _ = env.do(t, http.MethodDelete, "/api/v1/compare", nil)
	assert.Equal(t, http.StatusNoContent, status)
}

func TestRecentlyViewed(t *testing.T) {
	env := newTestEnv(t)

	_, _ = env.do(t, http.MethodPost, "/api/v1/recently-viewed", map[string]string{"product_id": "a"})
	_, _ = env.do(t, http.MethodPost, "/api/v1/recently-viewed", map[string]string{"product_id": "b"})
	status, res := env.do(t, http.MethodPost, "/api/v1/recently-viewed", map[string]string{"product_id": "a"})
	require.Equal(t, http.StatusOK, status)

	var items []model.RecentItem
	decodeData(t, res, &items)
	require.Len(t, items, 2)
	assert.Equal(t, "a", items[0].ProductID)
	assert.Equal(t, 12, res.Meta.Capacity)

	status, _ = env.do(t, http.MethodDelete, "/api/v1/recently-viewed", nil)
	assert.Equal(t, http.StatusNoContent, status)
}

func TestAlertsRefresh(t *testing.T) {
	env := newTestEnv(t)
	env.catalog.Upsert(model.CatalogProduct{ID: "A", Title: "A", Price: decimal.NewFromInt(100), Stock: 3, Slug: "a", IsActive: true})
	env.catalog.Upsert(model.CatalogProduct{ID: "B", Title: "B", Price: decimal.NewFromInt(200), Stock: 50, Slug: "b", IsActive: true})

	_, _ = env.do(t, http.MethodPost, "/api/v1/wishlist/toggle", map[string]string{"product_id": "A", "title": "A", "price": "100"})
	_, _ = env.do(t, http.MethodPost, "/api/v1/wishlist/toggle", map[string]string{"product_id": "B", "title": "B", "price": "200"})
	env.catalog.SetPrice("A", decimal.NewFromInt(80))

	status, res := env.do(t, http.MethodPost, "/api/v1/alerts/refresh", nil)
	require.Equal(t, http.StatusOK, status)

	var alerts handler.AlertsResponse
	decodeData(t, res, &alerts)
	require.Len(t, alerts.PriceDrops, 1)
	assert.Equal(t, "A", alerts.PriceDrops[0].ProductID)
	assert.Equal(t, int64(20), alerts.PriceDrops[0].DropPercent)
	require.Len(t, alerts.LowStock, 1)
	assert.Equal(t, 3, alerts.LowStock[0].Stock)

	_, res = env.do(t, http.MethodGet, "/api/v1/alerts/price-drops", nil)
	assert.Equal(t, 1, res.Meta.Count)

	before := env.feed.Len()
	_, _ = env.do(t, http.MethodPost, "/api/v1/alerts/refresh", nil)
	assert.Equal(t, before, env.feed.Len(), "second refresh must not notify again")
}

func TestNotifications(t *testing.T) {
	env := newTestEnv(t)
	lamp := map[string]string{"product_id": "A", "title": "Lamp"}
	_, _ = env.do(t, http.MethodPost, "/api/v1/wishlist/toggle", lamp)
	_, _ = env.do(t, http.MethodPost, "/api/v1/wishlist/toggle", lamp)

	status, res := env.do(t, http.MethodGet, "/api/v1/notifications", nil)
	require.Equal(t, http.StatusOK, status)
	var feed []notify.Notification
	decodeData(t, res, &feed)
	require.Len(t, feed, 2)
	assert.Equal(t, "Removed from wishlist", feed[0].Message)
	require.NotNil(t, feed[0].Action)
	assert.Equal(t, "Undo", feed[0].Action.Label)
	assert.Equal(t, "Lamp added to wishlist", feed[1].Message)
	assert.Equal(t, int64(2000), feed[1].DurationMs)

	status, _ = env.do(t, http.MethodPost, "/api/v1/notifications/"+feed[0].ID+"/activate", nil)
	assert.Equal(t, http.StatusNoContent, status)

	var membership handler.MembershipResponse
	_, res = env.do(t, http.MethodGet, "/api/v1/wishlist/A", nil)
	decodeData(t, res, &membership)
	assert.True(t, membership.InWishlist, "undo restores the entry")

	status, _ = env.do(t, http.MethodPost, "/api/v1/notifications/"+feed[0].ID+"/activate", nil)
	assert.Equal(t, http.StatusNotFound, status, "an action runs once")

	status, _ = env.do(t, http.MethodPost, "/api/v1/notifications/"+feed[1].ID+"/activate", nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = env.do(t, http.MethodGet, "/api/v1/notifications?since=yesterday", nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestProbesAndAdmin(t *testing.T) {
	env := newTestEnv(t, "secret")

	status, _ := env.do(t, http.MethodGet, "/api/v1/health", nil)
	assert.Equal(t, http.StatusOK, status)

	status, res := env.do(t, http.MethodGet, "/api/v1/ready", nil)
	assert.Equal(t, http.StatusOK, status)
	var ready handler.ReadyResponse
	decodeData(t, res, &ready)
	assert.True(t, ready.Ready)

	status, _ = env.do(t, http.MethodGet, "/api/status", nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = env.do(t, http.MethodGet, "/api/v1/admin/stats", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	req, err := http.NewRequest(http.MethodGet, env.server.URL+"/api/v1/admin/stats", nil)
	require.NoError(t, err)
	req.Header.Set("X-API-Key", "secret")
	resp, err := env.server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var stats envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&stats))
	var data map[string]interface{}
	decodeData(t, stats, &data)
	assert.Contains(t, data, "storage")
	assert.Contains(t, data, "alerts")
	assert.Contains(t, data, "collections")
}

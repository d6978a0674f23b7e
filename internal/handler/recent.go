package handler

import (
	"net/http"

	"storefront-state-api/internal/model"
	"storefront-state-api/internal/store"
	"storefront-state-api/pkg/response"
)

// RecentHandler exposes the recently-viewed history.
type RecentHandler struct {
	recent *store.RecentlyViewed
}

// NewRecentHandler creates a new recently-viewed handler.
func NewRecentHandler(recent *store.RecentlyViewed) *RecentHandler {
	return &RecentHandler{recent: recent}
}

// List handles GET /api/v1/recently-viewed
func (h *RecentHandler) List(w http.ResponseWriter, r *http.Request) {
	items := h.recent.Items()
	response.JSONWithMeta(w, http.StatusOK, items, len(items), store.MaxRecentlyViewed)
}

// Add handles POST /api/v1/recently-viewed
func (h *RecentHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req model.RecentProduct
	if err := decodeJSON(w, r, &req); err != nil {
		response.Error(w, err)
		return
	}

	v := &validator{}
	v.required("product_id", req.ProductID)
	if err := v.err(); err != nil {
		response.Error(w, err)
		return
	}

	h.recent.AddProduct(r.Context(), req)
	items := h.recent.Items()
	response.JSONWithMeta(w, http.StatusOK, items, len(items), store.MaxRecentlyViewed)
}

// Clear handles DELETE /api/v1/recently-viewed
func (h *RecentHandler) Clear(w http.ResponseWriter, r *http.Request) {
	h.recent.ClearHistory(r.Context())
	response.NoContent(w)
}

package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"storefront-state-api/internal/model"
	"storefront-state-api/internal/store"
	"storefront-state-api/pkg/apierror"
	"storefront-state-api/pkg/response"
)

// WishlistHandler exposes the wishlist store.
type WishlistHandler struct {
	wishlist *store.Wishlist
}

// NewWishlistHandler creates a new wishlist handler.
func NewWishlistHandler(wishlist *store.Wishlist) *WishlistHandler {
	return &WishlistHandler{wishlist: wishlist}
}

// MembershipResponse reports whether a product is wishlisted.
type MembershipResponse struct {
	ProductID  string `json:"product_id"`
	InWishlist bool   `json:"in_wishlist"`
}

// List handles GET /api/v1/wishlist
func (h *WishlistHandler) List(w http.ResponseWriter, r *http.Request) {
	items := h.wishlist.Items()
	response.JSONWithMeta(w, http.StatusOK, items, len(items), 0)
}

// Toggle handles POST /api/v1/wishlist/toggle
func (h *WishlistHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	var req model.WishlistProduct
	if err := decodeJSON(w, r, &req); err != nil {
		response.Error(w, err)
		return
	}

	v := &validator{}
	v.required("product_id", req.ProductID)
	v.nonNegative("price", req.Price)
	if err := v.err(); err != nil {
		response.Error(w, err)
		return
	}

	in := h.wishlist.ToggleWishlist(r.Context(), req)
	response.OK(w, MembershipResponse{ProductID: req.ProductID, InWishlist: in})
}

// Contains handles GET /api/v1/wishlist/{product_id}
func (h *WishlistHandler) Contains(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "product_id")
	response.OK(w, MembershipResponse{ProductID: id, InWishlist: h.wishlist.IsInWishlist(id)})
}

// Remove handles DELETE /api/v1/wishlist/{product_id}
func (h *WishlistHandler) Remove(w http.ResponseWriter, r *http.Request) {
	if !h.wishlist.RemoveItem(r.Context(), chi.URLParam(r, "product_id")) {
		response.Error(w, apierror.NotFound("product is not in wishlist"))
		return
	}
	response.NoContent(w)
}

// Clear handles DELETE /api/v1/wishlist
func (h *WishlistHandler) Clear(w http.ResponseWriter, r *http.Request) {
	h.wishlist.ClearWishlist(r.Context())
	response.NoContent(w)
}

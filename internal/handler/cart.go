package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"storefront-state-api/internal/model"
	"storefront-state-api/internal/store"
	"storefront-state-api/pkg/apierror"
	"storefront-state-api/pkg/response"
)

// CartHandler exposes the cart store.
type CartHandler struct {
	cart *store.Cart
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(cart *store.Cart) *CartHandler {
	return &CartHandler{cart: cart}
}

// AddItemRequest is the body of POST /api/v1/cart/items.
type AddItemRequest struct {
	model.CartProduct
	Quantity int `json:"quantity"`
}

// UpdateQuantityRequest is the body of PATCH /api/v1/cart/items/{id}.
type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity"`
}

// Get handles GET /api/v1/cart
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	response.OK(w, h.cart.Summary())
}

// AddItem handles POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.Error(w, err)
		return
	}

	v := &validator{}
	v.required("product_id", req.ProductID)
	v.nonNegative("price", req.Price)
	v.nonNegative("mrp", req.MRP)
	if err := v.err(); err != nil {
		response.Error(w, err)
		return
	}

	item := h.cart.AddItem(r.Context(), req.CartProduct, req.Quantity)
	response.Created(w, item)
}

// UpdateQuantity handles PATCH /api/v1/cart/items/{id}. A quantity below 1 removes
// the line.
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req UpdateQuantityRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.Error(w, err)
		return
	}
	if req.Quantity == nil {
		response.Error(w, apierror.ValidationError("", apierror.FieldError{Field: "quantity", Message: "is required"}))
		return
	}

	if !h.cart.UpdateQuantity(r.Context(), id, *req.Quantity) {
		response.Error(w, apierror.NotFound("cart item not found"))
		return
	}
	response.OK(w, h.cart.Summary())
}

// RemoveItem handles DELETE /api/v1/cart/items/{id}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	if !h.cart.RemoveItem(r.Context(), chi.URLParam(r, "id")) {
		response.Error(w, apierror.NotFound("cart item not found"))
		return
	}
	response.NoContent(w)
}

// Clear handles DELETE /api/v1/cart
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	h.cart.ClearCart(r.Context())
	response.NoContent(w)
}

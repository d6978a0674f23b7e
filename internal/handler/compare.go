package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"storefront-state-api/internal/model"
	"storefront-state-api/internal/store"
	"storefront-state-api/pkg/apierror"
	"storefront-state-api/pkg/response"
)

// CompareHandler exposes the comparison set.
type CompareHandler struct {
	compare *store.Compare
}

// NewCompareHandler creates a new compare handler.
func NewCompareHandler(compare *store.Compare) *CompareHandler {
	return &CompareHandler{compare: compare}
}

// List handles GET /api/v1/compare
func (h *CompareHandler) List(w http.ResponseWriter, r *http.Request) {
	items := h.compare.Items()
	response.JSONWithMeta(w, http.StatusOK, items, len(items), store.MaxCompare)
}

// Add handles POST /api/v1/compare
func (h *CompareHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req model.CompareItem
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

	err := h.compare.AddProduct(r.Context(), req)
	switch {
	case errors.Is(err, store.ErrCompareFull), errors.Is(err, store.ErrAlreadyInCompare):
		response.Error(w, apierror.Conflict(err.Error()))
		return
	case err != nil:
		response.Error(w, err)
		return
	}

	items := h.compare.Items()
	response.JSONWithMeta(w, http.StatusCreated, items, len(items), store.MaxCompare)
}

// Remove handles DELETE /api/v1/compare/{product_id}
func (h *CompareHandler) Remove(w http.ResponseWriter, r *http.Request) {
	if !h.compare.RemoveProduct(r.Context(), chi.URLParam(r, "product_id")) {
		response.Error(w, apierror.NotFound("product is not in compare list"))
		return
	}
	response.NoContent(w)
}

// Clear handles DELETE /api/v1/compare
func (h *CompareHandler) Clear(w http.ResponseWriter, r *http.Request) {
	h.compare.ClearAll(r.Context())
	response.NoContent(w)
}

package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/shopspring/decimal"

	"storefront-state-api/internal/model"
)

// MemoryCatalogRepository is an in-process catalog for development, demos and tests.
// Products can be updated at runtime to simulate price and stock changes.
type MemoryCatalogRepository struct {
	mu       sync.RWMutex
	order    []string
	products map[string]model.CatalogProduct
}

// NewMemoryCatalogRepository creates a catalog holding products.
func NewMemoryCatalogRepository(products ...model.CatalogProduct) *MemoryCatalogRepository {
	r := &MemoryCatalogRepository{products: make(map[string]model.CatalogProduct)}
	for _, p := range products {
		r.Upsert(p)
	}
	return r
}

// LoadMemoryCatalog reads a JSON array of products from path.
func LoadMemoryCatalog(path string) (*MemoryCatalogRepository, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog seed: %w", err)
	}
	var products []model.CatalogProduct
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("failed to parse catalog seed: %w", err)
	}
	return NewMemoryCatalogRepository(products...), nil
}

// Upsert adds or replaces a product.
func (r *MemoryCatalogRepository) Upsert(p model.CatalogProduct) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.products[p.ID]; !exists {
		r.order = append(r.order, p.ID)
	}
	r.products[p.ID] = p
}

// SetPrice changes the live price of id. It reports whether id exists.
func (r *MemoryCatalogRepository) SetPrice(id string, price decimal.Decimal) bool {
	return r.update(id, func(p *model.CatalogProduct) { p.Price = price })
}

// SetStock changes the live stock of id. It reports whether id exists.
func (r *MemoryCatalogRepository) SetStock(id string, stock int) bool {
	return r.update(id, func(p *model.CatalogProduct) { p.Stock = stock })
}

// SetActive toggles whether id is sellable. It reports whether id exists.
func (r *MemoryCatalogRepository) SetActive(id string, active bool) bool {
	return r.update(id, func(p *model.CatalogProduct) { p.IsActive = active })
}

func (r *MemoryCatalogRepository) update(id string, fn func(p *model.CatalogProduct)) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[id]
	if !ok {
		return false
	}
	fn(&p)
	r.products[id] = p
	return true
}

// FetchByIDs returns the requested products in catalog order.
func (r *MemoryCatalogRepository) FetchByIDs(ctx context.Context, ids []string) ([]model.CatalogProduct, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.CatalogProduct, 0, len(ids))
	for _, id := range r.order {
		if _, ok := wanted[id]; !ok {
			continue
		}
		p := r.products[id]
		p.Images = append([]string(nil), p.Images...)
		out = append(out, p)
	}
	return out, nil
}

// Ensure MemoryCatalogRepository implements CatalogRepository
var _ CatalogRepository = (*MemoryCatalogRepository)(nil)

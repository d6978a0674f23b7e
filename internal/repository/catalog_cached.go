package repository

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"storefront-state-api/internal/cache"
	"storefront-state-api/internal/model"
)

// CachedCatalogRepository is a read-through cache in front of another catalog. Each
// product is cached under its id for ttl, so overlapping alert cycles and refreshes
// share one catalog read. Unknown ids are never cached.
type CachedCatalogRepository struct {
	next  CatalogRepository
	cache cache.Cache
	ttl   time.Duration
}

// NewCachedCatalogRepository wraps next.
func NewCachedCatalogRepository(next CatalogRepository, c cache.Cache, ttl time.Duration) *CachedCatalogRepository {
	return &CachedCatalogRepository{next: next, cache: c, ttl: ttl}
}

// FetchByIDs serves cached products and fetches the rest in one call. Cache errors
// fall through to the wrapped catalog.
func (r *CachedCatalogRepository) FetchByIDs(ctx context.Context, ids []string) ([]model.CatalogProduct, error) {
	out := make([]model.CatalogProduct, 0, len(ids))
	var missing []string

	for _, id := range ids {
		data, err := r.cache.Get(ctx, id)
		if err != nil {
			if !errors.Is(err, cache.ErrCacheMiss) {
				log.Printf("[CatalogCache] Get %s failed: %v", id, err)
			}
			missing = append(missing, id)
			continue
		}

		var p model.CatalogProduct
		if err := json.Unmarshal(data, &p); err != nil {
			missing = append(missing, id)
			continue
		}
		out = append(out, p)
	}

	if len(missing) == 0 {
		return out, nil
	}

	fetched, err := r.next.FetchByIDs(ctx, missing)
	if err != nil {
		return nil, err
	}

	for _, p := range fetched {
		data, err := json.Marshal(p)
		if err == nil {
			err = r.cache.Set(ctx, p.ID, data, r.ttl)
		}
		if err != nil {
			log.Printf("[CatalogCache] Set %s failed: %v", p.ID, err)
		}
	}

	return append(out, fetched...), nil
}

// Close closes the cache.
func (r *CachedCatalogRepository) Close() error {
	return r.cache.Close()
}

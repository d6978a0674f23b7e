package repository

import (
	"context"

	"storefront-state-api/internal/model"
)

// CatalogRepository is the read side of the product catalog used during alert
// reconciliation.
type CatalogRepository interface {
	// FetchByIDs returns {id, title, images, stock, price, slug, is_active} for the
	// requested ids. Unknown ids are omitted and results carry no ordering guarantee.
	FetchByIDs(ctx context.Context, ids []string) ([]model.CatalogProduct, error)
}

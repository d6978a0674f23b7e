package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"storefront-state-api/internal/model"
)

// MySQLCatalogRepository reads the storefront catalog's products table.
type MySQLCatalogRepository struct {
	db *sql.DB
}

// NewMySQLCatalogRepository creates a catalog reader over an open MySQL pool.
func NewMySQLCatalogRepository(db *sql.DB) *MySQLCatalogRepository {
	return &MySQLCatalogRepository{db: db}
}

// FetchByIDs loads the requested products in one IN query.
func (r *MySQLCatalogRepository) FetchByIDs(ctx context.Context, ids []string) ([]model.CatalogProduct, error) {
	if len(ids) == 0 {
		return []model.CatalogProduct{}, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	query := `
		SELECT id, title, images, stock, price, slug, is_active
		FROM products
		WHERE id IN (` + placeholders + `)`

	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	defer rows.Close()

	products := make([]model.CatalogProduct, 0, len(ids))
	for rows.Next() {
		var (
			p      model.CatalogProduct
			images sql.NullString
			slug   sql.NullString
		)
		if err := rows.Scan(&p.ID, &p.Title, &images, &p.Stock, &p.Price, &slug, &p.IsActive); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		p.Slug = slug.String
		p.Images = decodeImages(p.ID, images)
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate products: %w", err)
	}

	return products, nil
}

// decodeImages parses a JSON array column. Bad data yields no images rather than
// failing the whole fetch.
func decodeImages(productID string, raw sql.NullString) []string {
	if !raw.Valid || raw.String == "" {
		return []string{}
	}
	var images []string
	if err := json.Unmarshal([]byte(raw.String), &images); err != nil {
		log.Printf("[CatalogRepository] Ignoring malformed images for %s: %v", productID, err)
		return []string{}
	}
	return images
}

// Ensure MySQLCatalogRepository implements CatalogRepository
var _ CatalogRepository = (*MySQLCatalogRepository)(nil)

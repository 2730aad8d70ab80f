package persistence

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"market_sim/internal/domain"
	"market_sim/internal/domain/entity"
	"market_sim/pkg/errcodes"
)

// ProductRepository reads immutable product definitions from the catalog
// database. The catalog is read-only at runtime; stock and price live in the
// state store.
type ProductRepository struct {
	db *sqlx.DB
}

func NewProductRepository(db *sqlx.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	query := `
		SELECT id, name, category, rarity, base_price, max_stock, yield_rate
		FROM products
		WHERE id = $1`

	var schema productSchema
	if err := r.db.GetContext(ctx, &schema, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewError(errcodes.ProductNotFound, "product not found")
		}
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to get product")
	}

	product := schema.toDomain()

	return &product, nil
}

func (r *ProductRepository) List(ctx context.Context) ([]entity.Product, error) {
	query := `
		SELECT id, name, category, rarity, base_price, max_stock, yield_rate
		FROM products
		ORDER BY id`

	var schemas []productSchema
	if err := r.db.SelectContext(ctx, &schemas, query); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to list products")
	}

	products := make([]entity.Product, 0, len(schemas))
	for _, s := range schemas {
		products = append(products, s.toDomain())
	}

	return products, nil
}

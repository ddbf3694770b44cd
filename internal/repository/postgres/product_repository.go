package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Birdie-1/stock-forcasting-with-react-fastapi/backend-go/internal/domain"
	"github.com/Birdie-1/stock-forcasting-with-react-fastapi/backend-go/internal/repository"
)

type productRepository struct {
	db *DB
}

// NewProductRepository creates a Postgres-backed product repository.
func NewProductRepository(db *DB) repository.ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	query := `
		SELECT id, code, name, category, unit, unit_cost, ordering_cost,
		       holding_cost_percentage, lead_time_days, current_stock, created_at
		FROM products
		WHERE id = $1
	`

	var product domain.Product
	if err := r.db.GetContext(ctx, &product, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrProductNotFound
		}
		return nil, fmt.Errorf("error getting product %d: %w", id, err)
	}

	return &product, nil
}

func (r *productRepository) ListProducts(ctx context.Context, search string) ([]domain.Product, error) {
	query := `
		SELECT id, code, name, category, unit, unit_cost, ordering_cost,
		       holding_cost_percentage, lead_time_days, current_stock, created_at
		FROM products
	`
	args := []interface{}{}
	if search != "" {
		query += ` WHERE code ILIKE $1 OR name ILIKE $1 OR category ILIKE $1`
		args = append(args, "%"+search+"%")
	}
	query += ` ORDER BY code`

	products := make([]domain.Product, 0)
	if err := r.db.SelectContext(ctx, &products, query, args...); err != nil {
		return nil, fmt.Errorf("error listing products: %w", err)
	}

	return products, nil
}

package postgres

import (
	"context"
	"fmt"

	"github.com/Birdie-1/stock-forcasting-with-react-fastapi/backend-go/internal/domain"
	"github.com/Birdie-1/stock-forcasting-with-react-fastapi/backend-go/internal/repository"
)

type salesRepository struct {
	db *DB
}

// NewSalesRepository creates a Postgres-backed sales history repository.
func NewSalesRepository(db *DB) repository.SalesRepository {
	return &salesRepository{db: db}
}

func (r *salesRepository) GetSalesHistory(ctx context.Context, productID int64) ([]domain.SaleRecord, error) {
	query := `
		SELECT id, product_id, sale_date, quantity
		FROM sales_history
		WHERE product_id = $1
		ORDER BY sale_date
	`

	sales := make([]domain.SaleRecord, 0)
	if err := r.db.SelectContext(ctx, &sales, query, productID); err != nil {
		return nil, fmt.Errorf("error getting sales history for product %d: %w", productID, err)
	}

	return sales, nil
}

func (r *salesRepository) GetDailyTotals(ctx context.Context, productID int64) ([]domain.DailySales, error) {
	query := `
		SELECT sale_date, SUM(quantity)::float8 AS total_qty
		FROM sales_history
		WHERE product_id = $1
		GROUP BY sale_date
		ORDER BY sale_date
	`

	totals := make([]domain.DailySales, 0)
	if err := r.db.SelectContext(ctx, &totals, query, productID); err != nil {
		return nil, fmt.Errorf("error getting daily totals for product %d: %w", productID, err)
	}

	return totals, nil
}

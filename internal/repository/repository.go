// backend-go/internal/repository/repository.go
package repository

import (
	"context"
	"errors"

	"github.com/Birdie-1/stock-forcasting-with-react-fastapi/backend-go/internal/domain"
)

// ErrProductNotFound reports a product ID with no catalog row.
var ErrProductNotFound = errors.New("product not found")

// ProductRepository reads the product catalog and its cost parameters.
type ProductRepository interface {
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	ListProducts(ctx context.Context, search string) ([]domain.Product, error)
}

// SalesRepository reads raw sales history.
type SalesRepository interface {
	GetSalesHistory(ctx context.Context, productID int64) ([]domain.SaleRecord, error)
	GetDailyTotals(ctx context.Context, productID int64) ([]domain.DailySales, error)
}

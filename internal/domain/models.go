// backend-go/internal/domain/models.go
package domain

import "time"

// Product carries the catalog row plus the cost parameters the inventory
// formulas need.
type Product struct {
	ID             int64     `json:"id" db:"id"`
	Code           string    `json:"code" db:"code"`
	Name           string    `json:"name" db:"name"`
	Category       string    `json:"category" db:"category"`
	Unit           string    `json:"unit" db:"unit"`
	UnitCost       float64   `json:"unit_cost" db:"unit_cost"`
	OrderingCost   float64   `json:"ordering_cost" db:"ordering_cost"`
	HoldingCostPct float64   `json:"holding_cost_percentage" db:"holding_cost_percentage"`
	LeadTimeDays   int       `json:"lead_time_days" db:"lead_time_days"`
	CurrentStock   int       `json:"current_stock" db:"current_stock"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// SaleRecord is one sale event; several records may share a date.
type SaleRecord struct {
	ID        int64     `json:"id" db:"id"`
	ProductID int64     `json:"product_id" db:"product_id"`
	SaleDate  time.Time `json:"sale_date" db:"sale_date"`
	Quantity  int       `json:"quantity" db:"quantity"`
}

// DailySales is the per-day total of sale quantities for one product.
type DailySales struct {
	Date     time.Time `json:"date" db:"sale_date"`
	Quantity float64   `json:"quantity" db:"total_qty"`
}

package domain

import (
	"github.com/Birdie-1/stock-forcasting-with-react-fastapi/backend-go/internal/analytics"
)

// SeriesQuery selects the product and shaping options for one analytics
// request.
type SeriesQuery struct {
	ProductID   int64                 `json:"product_id"`
	Periods     int                   `json:"periods"`
	RangeDays   int                   `json:"range_days"`
	Granularity analytics.Granularity `json:"granularity"`
}

// ModelParams is the ARIMA order reported by the forecast service.
type ModelParams struct {
	P int `json:"p"`
	D int `json:"d"`
	Q int `json:"q"`
}

// InventoryMetrics is the metrics block returned to consumers: control
// metrics plus the demand statistics they were derived from.
type InventoryMetrics struct {
	analytics.Metrics
	analytics.DemandStatistics
}

// AnalyticsOverview is the full decision-support payload for one product:
// merged chart series, inventory metrics, cost curve and reorder
// simulation. Built fresh per request, never persisted.
type AnalyticsOverview struct {
	Product    Product                      `json:"product"`
	Model      ModelParams                  `json:"model_params"`
	Series     []analytics.SeriesPoint      `json:"series"`
	Metrics    InventoryMetrics             `json:"metrics"`
	CostCurve  []analytics.CostCurvePoint   `json:"cost_curve"`
	Simulation []analytics.SimulationSample `json:"simulation"`
}

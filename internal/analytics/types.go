// Package analytics implements the decision-support computations behind
// the forecasting dashboard: chart series aggregation, continuous-review
// inventory metrics, the order-quantity cost curve and the sawtooth
// reorder simulation. Everything here is a pure function of its inputs.
package analytics

import "time"

// Granularity selects how a daily series is aggregated for charting.
type Granularity string

const (
	GranularityDaily  Granularity = "daily"
	GranularityWeekly Granularity = "weekly"
)

// ParseGranularity parses a query-string granularity value.
func ParseGranularity(s string) (Granularity, bool) {
	switch Granularity(s) {
	case GranularityDaily:
		return GranularityDaily, true
	case GranularityWeekly:
		return GranularityWeekly, true
	}
	return "", false
}

// DailyPoint is one day of observed (or point-forecast) demand.
type DailyPoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// BandedPoint is a forecast point together with its confidence interval.
type BandedPoint struct {
	Date  time.Time
	Value float64
	Lower float64
	Upper float64
}

// ConfidenceBand is a per-period uncertainty band around a forecast value.
// Lower is clamped to zero: demand cannot be negative.
type ConfidenceBand struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// Bucket is one calendar week (Monday start) of aggregated daily values.
// Normalized projects a partial week to a 7-day run rate.
type Bucket struct {
	PeriodStart time.Time       `json:"period_start"`
	Sum         float64         `json:"sum"`
	DaysCounted int             `json:"days_counted"`
	Normalized  float64         `json:"normalized_value"`
	IsPartial   bool            `json:"is_partial"`
	Band        *ConfidenceBand `json:"band,omitempty"`
}

// SeriesPoint is the merged renderable chart unit. Points derived from
// history carry only Actual; points derived from the forecast carry
// Forecast plus the confidence bounds.
type SeriesPoint struct {
	Date      time.Time `json:"date"`
	Actual    *float64  `json:"actual,omitempty"`
	Forecast  *float64  `json:"forecast,omitempty"`
	CILower   *float64  `json:"ci_lower,omitempty"`
	CIUpper   *float64  `json:"ci_upper,omitempty"`
	IsPartial bool      `json:"is_partial,omitempty"`
}

// DemandStatistics summarises daily demand over the observed span.
type DemandStatistics struct {
	AvgDailyDemand float64 `json:"avg_daily_demand"`
	DemandStdDev   float64 `json:"demand_std"`
	AnnualDemand   float64 `json:"annual_demand"`
}

// CostParameters are the per-product inputs to the inventory formulas.
type CostParameters struct {
	UnitCost       float64 `json:"unit_cost"`
	OrderingCost   float64 `json:"ordering_cost"`
	HoldingCostPct float64 `json:"holding_cost_percentage"`
	LeadTimeDays   int     `json:"lead_time_days"`
}

// StockStatus classifies current stock against the reorder point.
type StockStatus string

const (
	StatusNormal       StockStatus = "normal"
	StatusNeedsReorder StockStatus = "needs_reorder"
)

// Metrics holds the continuous-review inventory control outputs.
type Metrics struct {
	EOQ          float64     `json:"eoq"`
	SafetyStock  float64     `json:"safety_stock"`
	ReorderPoint float64     `json:"reorder_point"`
	CurrentStock float64     `json:"current_stock"`
	StockStatus  StockStatus `json:"stock_status"`
}

// CostCurvePoint is one sampled order quantity on the cost-tradeoff curve.
type CostCurvePoint struct {
	Quantity     float64 `json:"quantity"`
	HoldingCost  float64 `json:"holding_cost"`
	OrderingCost float64 `json:"ordering_cost"`
	TotalCost    float64 `json:"total_cost"`
	IsEOQ        bool    `json:"is_eoq"`
}

// SimulationSample is one measurement of the simulated stock level.
// Two samples may share a Day to render an instantaneous replenishment jump.
type SimulationSample struct {
	Day          int     `json:"day"`
	StockLevel   float64 `json:"stock_level"`
	ReorderPoint float64 `json:"reorder_point"`
	SafetyStock  float64 `json:"safety_stock"`
}

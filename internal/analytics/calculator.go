package analytics

import (
	"errors"
	"math"
	"sort"
	"time"
)

// ErrInsufficientData reports demand or cost inputs under which the
// continuous-review formulas are undefined. Downstream consumers (cost
// curve, simulator) must not run on undefined metrics.
var ErrInsufficientData = errors.New("insufficient data for inventory metrics")

// DefaultServiceLevelZ is the one-sided z multiplier for a ~95% service
// level, used when no target is supplied externally.
const DefaultServiceLevelZ = 1.65

// Calculator derives inventory control metrics from demand statistics and
// product cost parameters.
type Calculator struct {
	serviceLevelZ float64
}

// NewCalculator creates a calculator with the given service-level z
// multiplier. Non-positive values fall back to DefaultServiceLevelZ.
func NewCalculator(serviceLevelZ float64) *Calculator {
	if serviceLevelZ <= 0 {
		serviceLevelZ = DefaultServiceLevelZ
	}
	return &Calculator{serviceLevelZ: serviceLevelZ}
}

// HoldingCostPerUnit is the annual cost of holding one unit in stock.
func HoldingCostPerUnit(costs CostParameters) float64 {
	return costs.UnitCost * costs.HoldingCostPct
}

// Calculate computes EOQ, safety stock and reorder point, then classifies
// the current stock level against the reorder point.
func (c *Calculator) Calculate(stats DemandStatistics, costs CostParameters, currentStock float64) (Metrics, error) {
	holdingPerUnit := HoldingCostPerUnit(costs)
	if stats.AvgDailyDemand <= 0 || stats.AnnualDemand <= 0 || holdingPerUnit <= 0 {
		return Metrics{}, ErrInsufficientData
	}

	// 1. Economic order quantity
	eoq := math.Sqrt(2 * stats.AnnualDemand * costs.OrderingCost / holdingPerUnit)

	// 2. Safety stock = z * sigma * sqrt(lead time)
	safetyStock := c.serviceLevelZ * stats.DemandStdDev * math.Sqrt(float64(costs.LeadTimeDays))

	// 3. Reorder point = lead-time demand + safety stock
	reorderPoint := stats.AvgDailyDemand*float64(costs.LeadTimeDays) + safetyStock

	metrics := Metrics{
		EOQ:          roundFloat(eoq, 2),
		SafetyStock:  roundFloat(safetyStock, 2),
		ReorderPoint: roundFloat(reorderPoint, 2),
		CurrentStock: currentStock,
		StockStatus:  StatusNormal,
	}
	if currentStock <= metrics.ReorderPoint {
		metrics.StockStatus = StatusNeedsReorder
	}
	return metrics, nil
}

// ComputeDemandStatistics derives daily demand statistics from raw sales
// points. Days inside the observed span with no sales count as zero
// demand; the standard deviation is the sample deviation over that span.
func ComputeDemandStatistics(points []DailyPoint) DemandStatistics {
	if len(points) == 0 {
		return DemandStatistics{}
	}

	totals := make(map[time.Time]float64)
	for _, p := range points {
		totals[normalizeDate(p.Date)] += p.Value
	}

	days := make([]time.Time, 0, len(totals))
	for d := range totals {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	first, last := days[0], days[len(days)-1]
	span := int(last.Sub(first).Hours()/24) + 1

	var total float64
	for _, v := range totals {
		total += v
	}
	mean := total / float64(span)

	var sumSq float64
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		diff := totals[d] - mean
		sumSq += diff * diff
	}
	std := 0.0
	if span > 1 {
		std = math.Sqrt(sumSq / float64(span-1))
	}

	return DemandStatistics{
		AvgDailyDemand: mean,
		DemandStdDev:   std,
		AnnualDemand:   mean * 365,
	}
}

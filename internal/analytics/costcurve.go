package analytics

import (
	"math"
	"sort"
)

// costCurveSamples is the approximate number of step-sampled quantities.
const costCurveSamples = 20

// CostCurve samples annual holding, ordering and total cost as functions
// of order quantity, spanning 0.5x to 2x the EOQ. The exact EOQ quantity
// is always included and tagged, even when the step grid misses it.
func CostCurve(eoq, annualDemand, orderingCost, holdingPerUnit float64) ([]CostCurvePoint, error) {
	if eoq <= 0 || annualDemand <= 0 || holdingPerUnit <= 0 || orderingCost < 0 {
		return nil, ErrInsufficientData
	}

	startQ := math.Max(1, math.Floor(0.5*eoq))
	endQ := math.Ceil(2 * eoq)
	step := math.Max(1, math.Floor((endQ-startQ)/costCurveSamples))

	points := make([]CostCurvePoint, 0, costCurveSamples+2)
	for q := startQ; q <= endQ; q += step {
		points = append(points, costAt(q, annualDemand, orderingCost, holdingPerUnit, false))
	}
	points = append(points, costAt(math.Round(eoq), annualDemand, orderingCost, holdingPerUnit, true))

	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Quantity < points[j].Quantity
	})
	return points, nil
}

func costAt(q, annualDemand, orderingCost, holdingPerUnit float64, isEOQ bool) CostCurvePoint {
	holding := q / 2 * holdingPerUnit
	ordering := annualDemand / q * orderingCost
	return CostCurvePoint{
		Quantity:     q,
		HoldingCost:  roundFloat(holding, 2),
		OrderingCost: roundFloat(ordering, 2),
		TotalCost:    roundFloat(holding+ordering, 2),
		IsEOQ:        isEOQ,
	}
}

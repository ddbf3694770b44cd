package analytics

import "math"

// maxSimulationDays caps the sawtooth horizon.
const maxSimulationDays = 365

// Simulate runs a discrete-day simulation of on-hand stock under a
// continuous-review reorder policy, covering roughly three reorder cycles.
// One order at most is outstanding at a time; the reorder trigger compares
// the unclamped running stock, clamping to zero happens only in the
// reported samples. An arrival emits a second sample on the same day so
// the chart renders the vertical replenishment jump.
func Simulate(eoq, safetyStock, reorderPoint, avgDailyDemand float64, leadTimeDays int) ([]SimulationSample, error) {
	if eoq <= 0 || avgDailyDemand <= 0 || safetyStock < 0 || reorderPoint < 0 || leadTimeDays < 0 {
		return nil, ErrInsufficientData
	}

	horizon := int(math.Ceil(3*eoq/avgDailyDemand+3*float64(leadTimeDays))) + 10
	if horizon > maxSimulationDays {
		horizon = maxSimulationDays
	}

	stock := eoq + safetyStock
	awaiting := false
	arrivalDay := 0
	samples := make([]SimulationSample, 0, horizon+4)

	record := func(day int) {
		samples = append(samples, SimulationSample{
			Day:          day,
			StockLevel:   math.Max(0, stock),
			ReorderPoint: reorderPoint,
			SafetyStock:  safetyStock,
		})
	}

	for day := 1; day <= horizon; day++ {
		record(day)

		if awaiting && day >= arrivalDay {
			stock += eoq
			awaiting = false
			record(day)
		}

		stock -= avgDailyDemand

		if !awaiting && stock <= reorderPoint {
			awaiting = true
			arrivalDay = day + leadTimeDays
		}
	}

	return samples, nil
}

package analytics

import (
	"errors"
	"math"
	"sort"
	"time"
)

// ErrOverlappingRanges reports a forecast horizon that starts on or before
// the last historical date. The two sources must not share dates.
var ErrOverlappingRanges = errors.New("forecast range overlaps sales history")

// normalizeDate truncates t to a UTC calendar date.
func normalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// weekStart returns the Monday on or before t. Explicit weekday arithmetic
// keeps bucketing deterministic across locales (Monday = 0).
func weekStart(t time.Time) time.Time {
	d := normalizeDate(t)
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

// FilterRange keeps only points within the last rangeDays of the latest
// date present. rangeDays == 0 means unbounded.
func FilterRange(points []DailyPoint, rangeDays int) []DailyPoint {
	if len(points) == 0 || rangeDays <= 0 {
		return points
	}

	latest := normalizeDate(points[0].Date)
	for _, p := range points[1:] {
		if d := normalizeDate(p.Date); d.After(latest) {
			latest = d
		}
	}
	start := latest.AddDate(0, 0, -rangeDays)

	filtered := make([]DailyPoint, 0, len(points))
	for _, p := range points {
		if !normalizeDate(p.Date).Before(start) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

// BucketWeekly groups daily points into Monday-start calendar weeks.
// Normalized = round(sum / daysCounted * 7), projecting partial weeks to a
// full-week run rate. Buckets are sorted ascending by period start.
func BucketWeekly(points []DailyPoint) []Bucket {
	type group struct {
		sum  float64
		days map[time.Time]struct{}
	}

	groups := make(map[time.Time]*group)
	for _, p := range points {
		key := weekStart(p.Date)
		g, ok := groups[key]
		if !ok {
			g = &group{days: make(map[time.Time]struct{})}
			groups[key] = g
		}
		g.sum += p.Value
		g.days[normalizeDate(p.Date)] = struct{}{}
	}

	buckets := make([]Bucket, 0, len(groups))
	for key, g := range groups {
		days := len(g.days)
		buckets = append(buckets, Bucket{
			PeriodStart: key,
			Sum:         g.sum,
			DaysCounted: days,
			Normalized:  math.Round(g.sum / float64(days) * 7),
			IsPartial:   days < 7,
		})
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].PeriodStart.Before(buckets[j].PeriodStart)
	})
	return buckets
}

// BucketWeeklyBanded aggregates a forecast series carrying confidence
// bounds. The sum/normalize rule is applied independently to the point
// values and to each bound; the lower bound is clamped to zero afterwards.
func BucketWeeklyBanded(points []BandedPoint) []Bucket {
	values := make([]DailyPoint, len(points))
	lowers := make([]DailyPoint, len(points))
	uppers := make([]DailyPoint, len(points))
	for i, p := range points {
		values[i] = DailyPoint{Date: p.Date, Value: p.Value}
		lowers[i] = DailyPoint{Date: p.Date, Value: p.Lower}
		uppers[i] = DailyPoint{Date: p.Date, Value: p.Upper}
	}

	buckets := BucketWeekly(values)
	lowerBuckets := BucketWeekly(lowers)
	upperBuckets := BucketWeekly(uppers)
	for i := range buckets {
		buckets[i].Band = &ConfidenceBand{
			Lower: math.Max(0, lowerBuckets[i].Normalized),
			Upper: upperBuckets[i].Normalized,
		}
	}
	return buckets
}

// ActualSeries turns raw sales history points into chart points carrying
// only Actual values. Input order does not matter.
func ActualSeries(points []DailyPoint, rangeDays int, granularity Granularity) []SeriesPoint {
	filtered := FilterRange(points, rangeDays)

	if granularity == GranularityWeekly {
		buckets := BucketWeekly(filtered)
		out := make([]SeriesPoint, len(buckets))
		for i, b := range buckets {
			v := b.Normalized
			out[i] = SeriesPoint{Date: b.PeriodStart, Actual: &v, IsPartial: b.IsPartial}
		}
		return out
	}

	sorted := make([]DailyPoint, len(filtered))
	copy(sorted, filtered)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	out := make([]SeriesPoint, len(sorted))
	for i, p := range sorted {
		v := p.Value
		out[i] = SeriesPoint{Date: normalizeDate(p.Date), Actual: &v}
	}
	return out
}

// ForecastSeries turns a forecast horizon into chart points carrying
// Forecast values plus confidence bounds.
func ForecastSeries(points []BandedPoint, granularity Granularity) []SeriesPoint {
	if granularity == GranularityWeekly {
		buckets := BucketWeeklyBanded(points)
		out := make([]SeriesPoint, len(buckets))
		for i, b := range buckets {
			v := b.Normalized
			lo, hi := b.Band.Lower, b.Band.Upper
			out[i] = SeriesPoint{
				Date:      b.PeriodStart,
				Forecast:  &v,
				CILower:   &lo,
				CIUpper:   &hi,
				IsPartial: b.IsPartial,
			}
		}
		return out
	}

	sorted := make([]BandedPoint, len(points))
	copy(sorted, points)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	out := make([]SeriesPoint, len(sorted))
	for i, p := range sorted {
		v := p.Value
		lo := math.Max(0, p.Lower)
		hi := p.Upper
		out[i] = SeriesPoint{Date: normalizeDate(p.Date), Forecast: &v, CILower: &lo, CIUpper: &hi}
	}
	return out
}

// ValidateHorizon checks that the forecast horizon begins strictly after
// the last historical date. Overlapping date ranges are an input error,
// never silently merged.
func ValidateHorizon(history []DailyPoint, forecast []BandedPoint) error {
	if len(history) == 0 || len(forecast) == 0 {
		return nil
	}

	lastActual := normalizeDate(history[0].Date)
	for _, p := range history[1:] {
		if d := normalizeDate(p.Date); d.After(lastActual) {
			lastActual = d
		}
	}
	for _, p := range forecast {
		if !normalizeDate(p.Date).After(lastActual) {
			return ErrOverlappingRanges
		}
	}
	return nil
}

// MergeSeries concatenates an aggregated history series and an aggregated
// forecast series into one chart series. History precedes the forecast and
// each source keeps its own ordering; no cross-source re-sorting happens.
// In weekly mode the first forecast bucket may share the last history
// bucket's Monday, so only a strict ordering violation is rejected here.
// Date-range overlap is caught earlier by ValidateHorizon.
func MergeSeries(history, forecast []SeriesPoint) ([]SeriesPoint, error) {
	if len(history) > 0 && len(forecast) > 0 {
		if forecast[0].Date.Before(history[len(history)-1].Date) {
			return nil, ErrOverlappingRanges
		}
	}

	merged := make([]SeriesPoint, 0, len(history)+len(forecast))
	merged = append(merged, history...)
	merged = append(merged, forecast...)
	return merged, nil
}

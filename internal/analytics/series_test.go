package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestBucketWeeklyFullWeekIsIdentity(t *testing.T) {
	// 2024-01-01 is a Monday
	points := make([]DailyPoint, 7)
	sum := 0.0
	for i := 0; i < 7; i++ {
		v := float64(i + 1)
		points[i] = DailyPoint{Date: day(2024, time.January, 1+i), Value: v}
		sum += v
	}

	buckets := BucketWeekly(points)
	require.Len(t, buckets, 1)
	assert.Equal(t, day(2024, time.January, 1), buckets[0].PeriodStart)
	assert.Equal(t, sum, buckets[0].Sum)
	assert.Equal(t, 7, buckets[0].DaysCounted)
	assert.Equal(t, sum, buckets[0].Normalized)
	assert.False(t, buckets[0].IsPartial)
}

func TestBucketWeeklyPartialWeekProjection(t *testing.T) {
	points := []DailyPoint{
		{Date: day(2024, time.January, 1), Value: 10},
		{Date: day(2024, time.January, 2), Value: 20},
		{Date: day(2024, time.January, 3), Value: 5},
	}

	buckets := BucketWeekly(points)
	require.Len(t, buckets, 1)
	assert.Equal(t, 35.0, buckets[0].Sum)
	assert.Equal(t, 3, buckets[0].DaysCounted)
	assert.Equal(t, 82.0, buckets[0].Normalized)
	assert.True(t, buckets[0].IsPartial)
}

func TestBucketWeeklyMultipleSalesPerDayCountOnce(t *testing.T) {
	points := []DailyPoint{
		{Date: day(2024, time.January, 1), Value: 10},
		{Date: day(2024, time.January, 1), Value: 5},
		{Date: day(2024, time.January, 2), Value: 20},
	}

	buckets := BucketWeekly(points)
	require.Len(t, buckets, 1)
	assert.Equal(t, 35.0, buckets[0].Sum)
	assert.Equal(t, 2, buckets[0].DaysCounted)
}

func TestBucketWeeklySundayJoinsPrecedingMonday(t *testing.T) {
	points := []DailyPoint{
		{Date: day(2024, time.January, 7), Value: 3},  // Sunday
		{Date: day(2024, time.January, 8), Value: 4},  // next Monday
		{Date: day(2024, time.January, 10), Value: 6}, // Wednesday
	}

	buckets := BucketWeekly(points)
	require.Len(t, buckets, 2)
	assert.Equal(t, day(2024, time.January, 1), buckets[0].PeriodStart)
	assert.Equal(t, 3.0, buckets[0].Sum)
	assert.Equal(t, day(2024, time.January, 8), buckets[1].PeriodStart)
	assert.Equal(t, 10.0, buckets[1].Sum)
}

func TestBucketWeeklyBandedClampsLowerBound(t *testing.T) {
	points := []BandedPoint{
		{Date: day(2024, time.January, 1), Value: 5, Lower: -20, Upper: 30},
		{Date: day(2024, time.January, 2), Value: 6, Lower: -15, Upper: 25},
	}

	buckets := BucketWeeklyBanded(points)
	require.Len(t, buckets, 1)
	require.NotNil(t, buckets[0].Band)
	assert.GreaterOrEqual(t, buckets[0].Band.Lower, 0.0)
	assert.Greater(t, buckets[0].Band.Upper, 0.0)
}

func TestForecastSeriesDailyClampsLowerBound(t *testing.T) {
	points := []BandedPoint{
		{Date: day(2024, time.January, 1), Value: 2, Lower: -8, Upper: 12},
	}

	series := ForecastSeries(points, GranularityDaily)
	require.Len(t, series, 1)
	require.NotNil(t, series[0].CILower)
	assert.Equal(t, 0.0, *series[0].CILower)
	require.NotNil(t, series[0].CIUpper)
	assert.Equal(t, 12.0, *series[0].CIUpper)
}

func TestFilterRangeKeepsRecentWindow(t *testing.T) {
	points := []DailyPoint{
		{Date: day(2024, time.January, 1), Value: 1},
		{Date: day(2024, time.March, 1), Value: 2},
		{Date: day(2024, time.June, 1), Value: 3},
	}

	filtered := FilterRange(points, 30)
	require.Len(t, filtered, 1)
	assert.Equal(t, day(2024, time.June, 1), filtered[0].Date)

	// Zero means unbounded
	assert.Len(t, FilterRange(points, 0), 3)
}

func TestActualSeriesEmptyHistory(t *testing.T) {
	series := ActualSeries(nil, 180, GranularityWeekly)
	assert.Empty(t, series)
}

func TestActualSeriesDailySortedAscending(t *testing.T) {
	points := []DailyPoint{
		{Date: day(2024, time.January, 3), Value: 5},
		{Date: day(2024, time.January, 1), Value: 10},
		{Date: day(2024, time.January, 2), Value: 20},
	}

	series := ActualSeries(points, 0, GranularityDaily)
	require.Len(t, series, 3)
	assert.Equal(t, day(2024, time.January, 1), series[0].Date)
	assert.Equal(t, day(2024, time.January, 3), series[2].Date)
	require.NotNil(t, series[0].Actual)
	assert.Equal(t, 10.0, *series[0].Actual)
	assert.Nil(t, series[0].Forecast)
}

func TestBucketWeeklyIdempotent(t *testing.T) {
	points := []DailyPoint{
		{Date: day(2024, time.January, 3), Value: 5},
		{Date: day(2024, time.January, 1), Value: 10},
		{Date: day(2024, time.January, 9), Value: 7},
	}

	first := BucketWeekly(points)
	second := BucketWeekly(points)
	assert.Equal(t, first, second)
}

func TestValidateHorizonRejectsOverlap(t *testing.T) {
	history := []DailyPoint{
		{Date: day(2024, time.January, 1), Value: 10},
		{Date: day(2024, time.January, 10), Value: 20},
	}
	forecast := []BandedPoint{
		{Date: day(2024, time.January, 10), Value: 15},
	}

	err := ValidateHorizon(history, forecast)
	assert.ErrorIs(t, err, ErrOverlappingRanges)

	forecast[0].Date = day(2024, time.January, 11)
	assert.NoError(t, ValidateHorizon(history, forecast))
}

func TestValidateHorizonEmptyInputs(t *testing.T) {
	assert.NoError(t, ValidateHorizon(nil, nil))
	assert.NoError(t, ValidateHorizon([]DailyPoint{{Date: day(2024, time.January, 1)}}, nil))
}

func TestMergeSeriesHistoryPrecedesForecast(t *testing.T) {
	a, f := 10.0, 12.0
	history := []SeriesPoint{{Date: day(2024, time.January, 1), Actual: &a}}
	forecast := []SeriesPoint{{Date: day(2024, time.January, 8), Forecast: &f}}

	merged, err := MergeSeries(history, forecast)
	require.NoError(t, err)
	require.Len(t, merged, 2)
	assert.NotNil(t, merged[0].Actual)
	assert.NotNil(t, merged[1].Forecast)
}

func TestMergeSeriesToleratesSharedWeekStart(t *testing.T) {
	// Weekly buckets from adjacent daily ranges can land on the same Monday
	a, f := 10.0, 12.0
	history := []SeriesPoint{{Date: day(2024, time.January, 1), Actual: &a}}
	forecast := []SeriesPoint{{Date: day(2024, time.January, 1), Forecast: &f}}

	merged, err := MergeSeries(history, forecast)
	require.NoError(t, err)
	assert.Len(t, merged, 2)
}

func TestMergeSeriesRejectsOutOfOrderForecast(t *testing.T) {
	a, f := 10.0, 12.0
	history := []SeriesPoint{{Date: day(2024, time.January, 8), Actual: &a}}
	forecast := []SeriesPoint{{Date: day(2024, time.January, 1), Forecast: &f}}

	_, err := MergeSeries(history, forecast)
	assert.ErrorIs(t, err, ErrOverlappingRanges)
}

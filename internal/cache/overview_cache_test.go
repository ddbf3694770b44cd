package cache

import (
	"context"
	"strings"
	"testing"

	"github.com/Birdie-1/stock-forcasting-with-react-fastapi/backend-go/internal/analytics"
	"github.com/Birdie-1/stock-forcasting-with-react-fastapi/backend-go/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestBuildOverviewKeyStable(t *testing.T) {
	query := domain.SeriesQuery{ProductID: 7, Periods: 30, RangeDays: 180, Granularity: analytics.GranularityWeekly}

	assert.Equal(t, buildOverviewKey(query), buildOverviewKey(query))
}

func TestBuildOverviewKeyVariesWithQuery(t *testing.T) {
	base := domain.SeriesQuery{ProductID: 7, Periods: 30, RangeDays: 180, Granularity: analytics.GranularityWeekly}

	otherProduct := base
	otherProduct.ProductID = 8
	assert.NotEqual(t, buildOverviewKey(base), buildOverviewKey(otherProduct))

	otherPeriods := base
	otherPeriods.Periods = 60
	assert.NotEqual(t, buildOverviewKey(base), buildOverviewKey(otherPeriods))

	otherGranularity := base
	otherGranularity.Granularity = analytics.GranularityDaily
	assert.NotEqual(t, buildOverviewKey(base), buildOverviewKey(otherGranularity))
}

func TestBuildOverviewKeyNamespacedByProduct(t *testing.T) {
	query := domain.SeriesQuery{ProductID: 7, Periods: 30}
	assert.Contains(t, buildOverviewKey(query), "analytics:overview:7:")
}

func TestProductKeyPrefixMatchesStoredKeys(t *testing.T) {
	// the per-product invalidation scan pattern must cover every key
	// variant SetOverview can write for that product
	queries := []domain.SeriesQuery{
		{ProductID: 7},
		{ProductID: 7, Periods: 30},
		{ProductID: 7, Periods: 60, RangeDays: 90, Granularity: analytics.GranularityDaily},
	}
	for _, q := range queries {
		assert.True(t, strings.HasPrefix(buildOverviewKey(q), productKeyPrefix(7)))
	}

	// and must not touch other products
	other := domain.SeriesQuery{ProductID: 70, Periods: 30}
	assert.False(t, strings.HasPrefix(buildOverviewKey(other), productKeyPrefix(7)))
}

func TestOverviewQueryHashDefault(t *testing.T) {
	assert.Equal(t, "default", overviewQueryHash(domain.SeriesQuery{ProductID: 7}))
}

func TestNoopCacheAlwaysMisses(t *testing.T) {
	c := NewNoopOverviewCache()
	query := domain.SeriesQuery{ProductID: 1, Periods: 30}

	assert.NoError(t, c.SetOverview(context.Background(), query, &domain.AnalyticsOverview{}))

	_, ok, err := c.GetOverview(context.Background(), query)
	assert.NoError(t, err)
	assert.False(t, ok)
}

package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Birdie-1/stock-forcasting-with-react-fastapi/backend-go/internal/config"
	"github.com/Birdie-1/stock-forcasting-with-react-fastapi/backend-go/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	overviewKeyPrefix     = "analytics:overview"
	overviewScanBatchSize = 100
)

// OverviewCache stores assembled analytics overviews per product and query.
type OverviewCache interface {
	GetOverview(ctx context.Context, query domain.SeriesQuery) (*domain.AnalyticsOverview, bool, error)
	SetOverview(ctx context.Context, query domain.SeriesQuery, overview *domain.AnalyticsOverview) error
	InvalidateProduct(ctx context.Context, productID int64) error
	InvalidateAll(ctx context.Context) error
}

type redisOverviewCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopOverviewCache struct{}

func NewOverviewCache(cfg config.CacheConfig) (OverviewCache, error) {
	if !cfg.Enabled {
		return &noopOverviewCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisOverviewCache{
		client: client,
		ttl:    ttl,
	}, nil
}

func NewNoopOverviewCache() OverviewCache {
	return &noopOverviewCache{}
}

func (c *redisOverviewCache) GetOverview(ctx context.Context, query domain.SeriesQuery) (*domain.AnalyticsOverview, bool, error) {
	key := buildOverviewKey(query)

	payload, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var overview domain.AnalyticsOverview
	if err := json.Unmarshal(payload, &overview); err != nil {
		return nil, false, fmt.Errorf("decode overview cache: %w", err)
	}

	return &overview, true, nil
}

func (c *redisOverviewCache) SetOverview(ctx context.Context, query domain.SeriesQuery, overview *domain.AnalyticsOverview) error {
	key := buildOverviewKey(query)
	payload, err := json.Marshal(overview)
	if err != nil {
		return fmt.Errorf("encode overview cache: %w", err)
	}

	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisOverviewCache) InvalidateProduct(ctx context.Context, productID int64) error {
	return deleteKeysWithPrefix(ctx, c.client, productKeyPrefix(productID), overviewScanBatchSize)
}

func (c *redisOverviewCache) InvalidateAll(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, c.client, overviewKeyPrefix, overviewScanBatchSize)
}

func (n *noopOverviewCache) GetOverview(ctx context.Context, query domain.SeriesQuery) (*domain.AnalyticsOverview, bool, error) {
	return nil, false, nil
}

func (n *noopOverviewCache) SetOverview(ctx context.Context, query domain.SeriesQuery, overview *domain.AnalyticsOverview) error {
	return nil
}

func (n *noopOverviewCache) InvalidateProduct(ctx context.Context, productID int64) error {
	return nil
}

func (n *noopOverviewCache) InvalidateAll(ctx context.Context) error {
	return nil
}

// Keys are namespaced by product ID so one product can be invalidated
// without flushing the rest of the catalog.
func buildOverviewKey(query domain.SeriesQuery) string {
	return productKeyPrefix(query.ProductID) + overviewQueryHash(query)
}

// productKeyPrefix is the scan prefix matching every cached overview of
// one product.
func productKeyPrefix(productID int64) string {
	return fmt.Sprintf("%s:%d:", overviewKeyPrefix, productID)
}

func overviewQueryHash(query domain.SeriesQuery) string {
	parts := []string{}

	if query.Periods > 0 {
		parts = append(parts, fmt.Sprintf("periods=%d", query.Periods))
	}
	if query.RangeDays > 0 {
		parts = append(parts, fmt.Sprintf("range_days=%d", query.RangeDays))
	}
	if query.Granularity != "" {
		parts = append(parts, "granularity="+strings.ToLower(strings.TrimSpace(string(query.Granularity))))
	}

	if len(parts) == 0 {
		return "default"
	}

	sort.Strings(parts)
	raw := strings.Join(parts, "|")
	sum := sha1.Sum([]byte(raw))
	return hex.EncodeToString(sum[:])
}

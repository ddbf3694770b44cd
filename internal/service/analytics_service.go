package service

import (
	"context"
	"fmt"

	"github.com/Birdie-1/stock-forcasting-with-react-fastapi/backend-go/internal/analytics"
	"github.com/Birdie-1/stock-forcasting-with-react-fastapi/backend-go/internal/cache"
	"github.com/Birdie-1/stock-forcasting-with-react-fastapi/backend-go/internal/domain"
	"github.com/Birdie-1/stock-forcasting-with-react-fastapi/backend-go/internal/forecast"
	"github.com/Birdie-1/stock-forcasting-with-react-fastapi/backend-go/internal/repository"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// ForecastClient fetches a demand forecast for a product.
type ForecastClient interface {
	GetForecast(ctx context.Context, productID int64, periods int) (*forecast.Response, error)
}

// AnalyticsService assembles the decision-support payloads: it joins sales
// history and the external forecast, then runs the inventory computations.
type AnalyticsService struct {
	products  repository.ProductRepository
	sales     repository.SalesRepository
	forecasts ForecastClient
	cache     cache.OverviewCache
	calc      *analytics.Calculator
	gens      Generations
}

func NewAnalyticsService(
	products repository.ProductRepository,
	sales repository.SalesRepository,
	forecasts ForecastClient,
	cacheImpl cache.OverviewCache,
	calc *analytics.Calculator,
) *AnalyticsService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopOverviewCache()
	}
	if calc == nil {
		calc = analytics.NewCalculator(0)
	}
	return &AnalyticsService{
		products:  products,
		sales:     sales,
		forecasts: forecasts,
		cache:     cacheImpl,
		calc:      calc,
	}
}

// GetOverview builds the full analytics payload for one product. Sales
// history and the forecast are fetched concurrently and the request only
// publishes if no newer overview request has started meanwhile.
func (s *AnalyticsService) GetOverview(ctx context.Context, query domain.SeriesQuery) (*domain.AnalyticsOverview, error) {
	if overview, ok, err := s.cache.GetOverview(ctx, query); err == nil && ok {
		return overview, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("analytics: cache get overview failed")
	}

	gen := s.gens.Next()

	var (
		product    *domain.Product
		dailySales []domain.DailySales
		fcResp     *forecast.Response
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		product, err = s.products.GetProduct(gctx, query.ProductID)
		if err != nil {
			return err
		}
		dailySales, err = s.sales.GetDailyTotals(gctx, query.ProductID)
		return err
	})
	g.Go(func() error {
		var err error
		fcResp, err = s.forecasts.GetForecast(gctx, query.ProductID, query.Periods)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if !s.gens.IsCurrent(gen) {
		return nil, ErrSuperseded
	}

	overview, err := s.compose(product, dailySales, fcResp, query)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetOverview(ctx, query, overview); err != nil {
		log.Warn().Err(err).Msg("analytics: cache set overview failed")
	}

	return overview, nil
}

// compose runs the pure computations over the fetched inputs.
func (s *AnalyticsService) compose(product *domain.Product, dailySales []domain.DailySales, fcResp *forecast.Response, query domain.SeriesQuery) (*domain.AnalyticsOverview, error) {
	history := toDailyPoints(dailySales)

	forecastPoints, err := fcResp.Forecast.Points()
	if err != nil {
		return nil, err
	}
	if err := analytics.ValidateHorizon(history, forecastPoints); err != nil {
		return nil, err
	}

	actualSeries := analytics.ActualSeries(history, query.RangeDays, query.Granularity)
	forecastSeries := analytics.ForecastSeries(forecastPoints, query.Granularity)
	series, err := analytics.MergeSeries(actualSeries, forecastSeries)
	if err != nil {
		return nil, err
	}

	costs := analytics.CostParameters{
		UnitCost:       product.UnitCost,
		OrderingCost:   product.OrderingCost,
		HoldingCostPct: product.HoldingCostPct,
		LeadTimeDays:   product.LeadTimeDays,
	}
	metrics, err := s.resolveMetrics(fcResp.Metrics, history, costs, float64(product.CurrentStock))
	if err != nil {
		return nil, fmt.Errorf("product %d: %w", product.ID, err)
	}

	costCurve, err := analytics.CostCurve(metrics.EOQ, metrics.AnnualDemand, costs.OrderingCost, analytics.HoldingCostPerUnit(costs))
	if err != nil {
		return nil, fmt.Errorf("product %d: %w", product.ID, err)
	}

	simulation, err := analytics.Simulate(metrics.EOQ, metrics.SafetyStock, metrics.ReorderPoint, metrics.AvgDailyDemand, costs.LeadTimeDays)
	if err != nil {
		return nil, fmt.Errorf("product %d: %w", product.ID, err)
	}

	return &domain.AnalyticsOverview{
		Product:    *product,
		Model:      domain.ModelParams(fcResp.Forecast.ModelParams),
		Series:     series,
		Metrics:    metrics,
		CostCurve:  costCurve,
		Simulation: simulation,
	}, nil
}

// resolveMetrics prefers the metrics block computed by the forecast service
// when present; its numbers are taken verbatim and only the stock status is
// re-derived. Without that block the metrics are computed locally from the
// sales history.
func (s *AnalyticsService) resolveMetrics(remote *forecast.Metrics, history []analytics.DailyPoint, costs analytics.CostParameters, currentStock float64) (domain.InventoryMetrics, error) {
	if remote != nil {
		status := analytics.StatusNormal
		if remote.CurrentStock <= remote.ReorderPoint {
			status = analytics.StatusNeedsReorder
		}
		return domain.InventoryMetrics{
			Metrics: analytics.Metrics{
				EOQ:          remote.EOQ,
				SafetyStock:  remote.SafetyStock,
				ReorderPoint: remote.ReorderPoint,
				CurrentStock: remote.CurrentStock,
				StockStatus:  status,
			},
			DemandStatistics: analytics.DemandStatistics{
				AvgDailyDemand: remote.AvgDailyDemand,
				DemandStdDev:   remote.DemandStd,
				AnnualDemand:   remote.AnnualDemand,
			},
		}, nil
	}

	stats := analytics.ComputeDemandStatistics(history)
	metrics, err := s.calc.Calculate(stats, costs, currentStock)
	if err != nil {
		return domain.InventoryMetrics{}, err
	}
	return domain.InventoryMetrics{Metrics: metrics, DemandStatistics: stats}, nil
}

// GetSeries returns only the merged chart series.
func (s *AnalyticsService) GetSeries(ctx context.Context, query domain.SeriesQuery) ([]analytics.SeriesPoint, error) {
	overview, err := s.GetOverview(ctx, query)
	if err != nil {
		return nil, err
	}
	return overview.Series, nil
}

// GetMetrics returns only the inventory metrics block.
func (s *AnalyticsService) GetMetrics(ctx context.Context, query domain.SeriesQuery) (*domain.InventoryMetrics, error) {
	overview, err := s.GetOverview(ctx, query)
	if err != nil {
		return nil, err
	}
	return &overview.Metrics, nil
}

// GetCostCurve returns only the order-quantity cost curve.
func (s *AnalyticsService) GetCostCurve(ctx context.Context, query domain.SeriesQuery) ([]analytics.CostCurvePoint, error) {
	overview, err := s.GetOverview(ctx, query)
	if err != nil {
		return nil, err
	}
	return overview.CostCurve, nil
}

// GetSimulation returns only the reorder simulation samples.
func (s *AnalyticsService) GetSimulation(ctx context.Context, query domain.SeriesQuery) ([]analytics.SimulationSample, error) {
	overview, err := s.GetOverview(ctx, query)
	if err != nil {
		return nil, err
	}
	return overview.Simulation, nil
}

func toDailyPoints(dailySales []domain.DailySales) []analytics.DailyPoint {
	points := make([]analytics.DailyPoint, len(dailySales))
	for i, d := range dailySales {
		points[i] = analytics.DailyPoint{Date: d.Date, Value: d.Quantity}
	}
	return points
}

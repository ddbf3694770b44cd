package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Birdie-1/stock-forcasting-with-react-fastapi/backend-go/internal/analytics"
	"github.com/Birdie-1/stock-forcasting-with-react-fastapi/backend-go/internal/api"
	"github.com/Birdie-1/stock-forcasting-with-react-fastapi/backend-go/internal/config"
	"github.com/Birdie-1/stock-forcasting-with-react-fastapi/backend-go/internal/domain"
	"github.com/Birdie-1/stock-forcasting-with-react-fastapi/backend-go/internal/forecast"
	"github.com/Birdie-1/stock-forcasting-with-react-fastapi/backend-go/internal/repository"
	"github.com/Birdie-1/stock-forcasting-with-react-fastapi/backend-go/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProducts struct {
	product domain.Product
}

func (f *fakeProducts) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	if id != f.product.ID {
		return nil, repository.ErrProductNotFound
	}
	p := f.product
	return &p, nil
}

func (f *fakeProducts) ListProducts(ctx context.Context, search string) ([]domain.Product, error) {
	return []domain.Product{f.product}, nil
}

type fakeSales struct{}

func (f *fakeSales) GetSalesHistory(ctx context.Context, productID int64) ([]domain.SaleRecord, error) {
	return []domain.SaleRecord{
		{ID: 1, ProductID: productID, SaleDate: time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC), Quantity: 10},
	}, nil
}

func (f *fakeSales) GetDailyTotals(ctx context.Context, productID int64) ([]domain.DailySales, error) {
	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	totals := make([]domain.DailySales, 30)
	for i := range totals {
		totals[i] = domain.DailySales{Date: start.AddDate(0, 0, i), Quantity: 10}
	}
	return totals, nil
}

type fakeForecasts struct{}

func (f *fakeForecasts) GetForecast(ctx context.Context, productID int64, periods int) (*forecast.Response, error) {
	start := time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC)
	dates := make([]string, periods)
	values := make([]float64, periods)
	intervals := make([][]float64, periods)
	for i := 0; i < periods; i++ {
		dates[i] = start.AddDate(0, 0, i).Format("2006-01-02")
		values[i] = 10
		intervals[i] = []float64{5, 15}
	}
	return &forecast.Response{
		Forecast: forecast.Horizon{
			Dates:               dates,
			Values:              values,
			ConfidenceIntervals: intervals,
			ModelParams:         forecast.ModelParams{P: 1, D: 1, Q: 0},
		},
	}, nil
}

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	products := &fakeProducts{product: domain.Product{
		ID:             1,
		Code:           "SKU-001",
		Name:           "Widget",
		UnitCost:       100,
		OrderingCost:   500,
		HoldingCostPct: 0.2,
		LeadTimeDays:   5,
		CurrentStock:   1000,
	}}
	sales := &fakeSales{}
	svc := service.NewAnalyticsService(products, sales, &fakeForecasts{}, nil, analytics.NewCalculator(1.65))

	cfg := &config.Config{
		Server: config.ServerConfig{AllowedOrigins: []string{"*"}},
		Analytics: config.AnalyticsConfig{
			ServiceLevelZ:      1.65,
			DefaultPeriods:     30,
			DefaultRangeDays:   180,
			DefaultGranularity: "weekly",
		},
	}

	return api.NewRouter(&api.Services{
		Analytics: svc,
		Products:  products,
		Sales:     sales,
	}, cfg)
}

func doRequest(t *testing.T, router *gin.Engine, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	rec := doRequest(t, newTestRouter(), "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestListProducts(t *testing.T) {
	rec := doRequest(t, newTestRouter(), "/api/v1/products")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Products []domain.Product `json:"products"`
		Total    int              `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Total)
	assert.Equal(t, "SKU-001", body.Products[0].Code)
}

func TestGetProductNotFound(t *testing.T) {
	rec := doRequest(t, newTestRouter(), "/api/v1/products/99")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetProductInvalidID(t *testing.T) {
	rec := doRequest(t, newTestRouter(), "/api/v1/products/abc")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetSalesHistory(t *testing.T) {
	rec := doRequest(t, newTestRouter(), "/api/v1/sales/1")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Sales []domain.SaleRecord `json:"sales"`
		Total int                 `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Total)
}

func TestGetSalesHistoryUnknownProduct(t *testing.T) {
	rec := doRequest(t, newTestRouter(), "/api/v1/sales/99")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetOverviewEndpoint(t *testing.T) {
	rec := doRequest(t, newTestRouter(), "/api/v1/analytics/forecast/1/overview?periods=14&granularity=weekly")
	require.Equal(t, http.StatusOK, rec.Code)

	var overview domain.AnalyticsOverview
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &overview))
	assert.Equal(t, "SKU-001", overview.Product.Code)
	assert.NotEmpty(t, overview.Series)
	assert.NotEmpty(t, overview.CostCurve)
	assert.NotEmpty(t, overview.Simulation)
	assert.InDelta(t, 427.2, overview.Metrics.EOQ, 0.001)
}

func TestGetSeriesEndpointDefaults(t *testing.T) {
	rec := doRequest(t, newTestRouter(), "/api/v1/analytics/forecast/1/series")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Series []analytics.SeriesPoint `json:"series"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Series)
}

func TestGetMetricsEndpoint(t *testing.T) {
	rec := doRequest(t, newTestRouter(), "/api/v1/analytics/forecast/1/metrics")
	require.Equal(t, http.StatusOK, rec.Code)

	var metrics domain.InventoryMetrics
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &metrics))
	assert.InDelta(t, 10.0, metrics.AvgDailyDemand, 0.001)
}

func TestGetCostCurveEndpoint(t *testing.T) {
	rec := doRequest(t, newTestRouter(), "/api/v1/analytics/forecast/1/cost_curve")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		CostCurve []analytics.CostCurvePoint `json:"cost_curve"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body.CostCurve)
}

func TestGetSimulationEndpoint(t *testing.T) {
	rec := doRequest(t, newTestRouter(), "/api/v1/analytics/forecast/1/simulation")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Simulation []analytics.SimulationSample `json:"simulation"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Simulation)
}

func TestAnalyticsValidation(t *testing.T) {
	router := newTestRouter()

	assert.Equal(t, http.StatusBadRequest, doRequest(t, router, "/api/v1/analytics/forecast/abc/overview").Code)
	assert.Equal(t, http.StatusBadRequest, doRequest(t, router, "/api/v1/analytics/forecast/1/overview?periods=0").Code)
	assert.Equal(t, http.StatusBadRequest, doRequest(t, router, "/api/v1/analytics/forecast/1/overview?periods=999").Code)
	assert.Equal(t, http.StatusBadRequest, doRequest(t, router, "/api/v1/analytics/forecast/1/overview?granularity=hourly").Code)
	assert.Equal(t, http.StatusBadRequest, doRequest(t, router, "/api/v1/analytics/forecast/1/overview?range_days=-5").Code)
}

func TestAnalyticsUnknownProduct(t *testing.T) {
	rec := doRequest(t, newTestRouter(), "/api/v1/analytics/forecast/99/overview")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

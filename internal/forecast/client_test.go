package forecast

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validPayload = `{
	"product": {
		"unit": "pcs",
		"unit_cost": 100,
		"ordering_cost": 500,
		"holding_cost_percentage": 0.2,
		"lead_time_days": 5,
		"current_stock": 800
	},
	"forecast": {
		"dates": ["2024-02-01", "2024-02-02"],
		"values": [10.5, 11.2],
		"confidence_intervals": [[5.1, 15.9], [5.8, 16.6]],
		"arima_params": {"p": 2, "d": 1, "q": 1}
	},
	"metrics": {
		"avg_daily_demand": 10,
		"demand_std": 3,
		"annual_demand": 3650,
		"eoq": 427.2,
		"safety_stock": 11.07,
		"reorder_point": 61.07,
		"current_stock": 800,
		"stock_status": "normal"
	}
}`

func TestGetForecastDecodesPayload(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(validPayload))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	resp, err := client.GetForecast(context.Background(), 7, 2)
	require.NoError(t, err)

	assert.Equal(t, "/api/forecast/7", gotPath)
	assert.Equal(t, "periods=2", gotQuery)

	assert.Equal(t, 5, resp.Product.LeadTimeDays)
	assert.Equal(t, ModelParams{P: 2, D: 1, Q: 1}, resp.Forecast.ModelParams)
	require.NotNil(t, resp.Metrics)
	assert.Equal(t, 427.2, resp.Metrics.EOQ)

	points, err := resp.Forecast.Points()
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC), points[0].Date)
	assert.Equal(t, 10.5, points[0].Value)
	assert.Equal(t, 5.1, points[0].Lower)
	assert.Equal(t, 15.9, points[0].Upper)
}

func TestGetForecastRejectsMismatchedArrays(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"forecast":{"dates":["2024-02-01","2024-02-02"],"values":[10],"confidence_intervals":[[1,2]]}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	_, err := client.GetForecast(context.Background(), 1, 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disagree")
}

func TestGetForecastRejectsBadConfidencePairs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"forecast":{"dates":["2024-02-01"],"values":[10],"confidence_intervals":[[1,2,3]]}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	_, err := client.GetForecast(context.Background(), 1, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bounds")
}

func TestGetForecastRejectsEmptyHorizon(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"forecast":{"dates":[],"values":[],"confidence_intervals":[]}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	_, err := client.GetForecast(context.Background(), 1, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no periods")
}

func TestGetForecastSurfacesServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"model fitting failed"}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	_, err := client.GetForecast(context.Background(), 1, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
	assert.Contains(t, err.Error(), "model fitting failed")
}

func TestGetForecastMalformedDate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"forecast":{"dates":["02/01/2024"],"values":[10],"confidence_intervals":[[1,2]]}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	resp, err := client.GetForecast(context.Background(), 1, 1)
	require.NoError(t, err)

	_, err = resp.Forecast.Points()
	assert.Error(t, err)
}

func TestGetForecastHonorsContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	client := NewClient(srv.URL, 5*time.Second)
	_, err := client.GetForecast(ctx, 1, 1)
	assert.Error(t, err)
}

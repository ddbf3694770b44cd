// Package forecast is the HTTP client for the external ARIMA forecast
// service. The service fits the model and returns a point forecast with
// confidence intervals per future period; this package only transports
// and validates that payload.
package forecast

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Birdie-1/stock-forcasting-with-react-fastapi/backend-go/internal/analytics"
)

const dateLayout = "2006-01-02"

// Response mirrors the forecast service payload.
type Response struct {
	Product  ProductInfo `json:"product"`
	Forecast Horizon     `json:"forecast"`
	Metrics  *Metrics    `json:"metrics,omitempty"`
}

// ProductInfo is the cost-parameter block echoed by the forecast service.
type ProductInfo struct {
	Unit           string  `json:"unit"`
	UnitCost       float64 `json:"unit_cost"`
	OrderingCost   float64 `json:"ordering_cost"`
	HoldingCostPct float64 `json:"holding_cost_percentage"`
	LeadTimeDays   int     `json:"lead_time_days"`
	CurrentStock   float64 `json:"current_stock"`
}

// Horizon holds the per-period forecast arrays.
type Horizon struct {
	Dates               []string    `json:"dates"`
	Values              []float64   `json:"values"`
	ConfidenceIntervals [][]float64 `json:"confidence_intervals"`
	ModelParams         ModelParams `json:"arima_params"`
}

// ModelParams is the fitted ARIMA order.
type ModelParams struct {
	P int `json:"p"`
	D int `json:"d"`
	Q int `json:"q"`
}

// Metrics is the inventory metrics block computed by the forecast service.
type Metrics struct {
	AvgDailyDemand float64 `json:"avg_daily_demand"`
	DemandStd      float64 `json:"demand_std"`
	AnnualDemand   float64 `json:"annual_demand"`
	EOQ            float64 `json:"eoq"`
	SafetyStock    float64 `json:"safety_stock"`
	ReorderPoint   float64 `json:"reorder_point"`
	CurrentStock   float64 `json:"current_stock"`
	StockStatus    string  `json:"stock_status"`
}

// Points converts the horizon into banded daily points for aggregation.
func (h *Horizon) Points() ([]analytics.BandedPoint, error) {
	points := make([]analytics.BandedPoint, len(h.Dates))
	for i, raw := range h.Dates {
		date, err := time.Parse(dateLayout, raw)
		if err != nil {
			return nil, fmt.Errorf("forecast date %q: %w", raw, err)
		}
		points[i] = analytics.BandedPoint{
			Date:  date,
			Value: h.Values[i],
			Lower: h.ConfidenceIntervals[i][0],
			Upper: h.ConfidenceIntervals[i][1],
		}
	}
	return points, nil
}

func (r *Response) validate() error {
	h := r.Forecast
	if len(h.Dates) == 0 {
		return fmt.Errorf("forecast response has no periods")
	}
	if len(h.Values) != len(h.Dates) || len(h.ConfidenceIntervals) != len(h.Dates) {
		return fmt.Errorf("forecast response arrays disagree: %d dates, %d values, %d intervals",
			len(h.Dates), len(h.Values), len(h.ConfidenceIntervals))
	}
	for i, ci := range h.ConfidenceIntervals {
		if len(ci) != 2 {
			return fmt.Errorf("confidence interval %d has %d bounds, want 2", i, len(ci))
		}
	}
	return nil
}

// Client calls the forecast service over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the forecast service at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// GetForecast requests a forecast for productID over the given number of
// future periods. Malformed payloads are surfaced unchanged as errors.
func (c *Client) GetForecast(ctx context.Context, productID int64, periods int) (*Response, error) {
	url := fmt.Sprintf("%s/api/forecast/%d?periods=%d", c.baseURL, productID, periods)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build forecast request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("forecast service request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("forecast service returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload Response
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode forecast response: %w", err)
	}
	if err := payload.validate(); err != nil {
		return nil, err
	}

	return &payload, nil
}

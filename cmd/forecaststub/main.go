// Command forecaststub is a development stand-in for the ARIMA forecast
// service. It serves deterministic synthetic forecasts with the same
// payload shape, so the API server can run without the Python service.
package main

import (
	"encoding/json"
	"flag"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/Birdie-1/stock-forcasting-with-react-fastapi/backend-go/pkg/logger"
)

const (
	defaultPeriods = 30
	maxPeriods     = 90
)

type forecastPayload struct {
	Product  productBlock  `json:"product"`
	Forecast forecastBlock `json:"forecast"`
}

type productBlock struct {
	Unit           string  `json:"unit"`
	UnitCost       float64 `json:"unit_cost"`
	OrderingCost   float64 `json:"ordering_cost"`
	HoldingCostPct float64 `json:"holding_cost_percentage"`
	LeadTimeDays   int     `json:"lead_time_days"`
	CurrentStock   float64 `json:"current_stock"`
}

type forecastBlock struct {
	Dates               []string    `json:"dates"`
	Values              []float64   `json:"values"`
	ConfidenceIntervals [][]float64 `json:"confidence_intervals"`
	ModelParams         modelParams `json:"arima_params"`
}

type modelParams struct {
	P int `json:"p"`
	D int `json:"d"`
	Q int `json:"q"`
}

func main() {
	addr := flag.String("addr", ":8000", "listen address")
	flag.Parse()

	logger.SetLevel("debug")

	router := mux.NewRouter()
	router.HandleFunc("/api/forecast/{product_id:[0-9]+}", handleForecast).Methods(http.MethodGet)
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	log.Info().Str("addr", *addr).Msg("Starting forecast stub")
	if err := http.ListenAndServe(*addr, router); err != nil {
		log.Fatal().Err(err).Msg("Forecast stub failed")
	}
}

func handleForecast(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	productID, err := strconv.ParseInt(vars["product_id"], 10, 64)
	if err != nil || productID <= 0 {
		http.Error(w, `{"error":"invalid product id"}`, http.StatusBadRequest)
		return
	}

	periods := defaultPeriods
	if raw := r.URL.Query().Get("periods"); raw != "" {
		periods, err = strconv.Atoi(raw)
		if err != nil || periods <= 0 || periods > maxPeriods {
			http.Error(w, `{"error":"periods must be between 1 and 90"}`, http.StatusBadRequest)
			return
		}
	}

	payload := buildPayload(productID, periods, time.Now().UTC())

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("Failed to encode forecast payload")
	}
}

// buildPayload produces a smooth demand curve seeded by the product ID so
// repeated requests for the same product return identical forecasts.
func buildPayload(productID int64, periods int, now time.Time) forecastPayload {
	base := 20 + float64(productID%17)*3
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)

	dates := make([]string, periods)
	values := make([]float64, periods)
	intervals := make([][]float64, periods)
	for i := 0; i < periods; i++ {
		dates[i] = start.AddDate(0, 0, i).Format("2006-01-02")
		v := base + 5*math.Sin(float64(i)/7*2*math.Pi+float64(productID))
		v = math.Round(v*100) / 100
		spread := 4 + 0.1*float64(i)
		values[i] = v
		intervals[i] = []float64{
			math.Round((v-spread)*100) / 100,
			math.Round((v+spread)*100) / 100,
		}
	}

	return forecastPayload{
		Product: productBlock{
			Unit:           "pcs",
			UnitCost:       50,
			OrderingCost:   100,
			HoldingCostPct: 0.2,
			LeadTimeDays:   5,
			CurrentStock:   base * 10,
		},
		Forecast: forecastBlock{
			Dates:               dates,
			Values:              values,
			ConfidenceIntervals: intervals,
			ModelParams:         modelParams{P: 1, D: 1, Q: 1},
		},
	}
}

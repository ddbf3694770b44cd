package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/Birdie-1/stock-forcasting-with-react-fastapi/backend-go/internal/analytics"
	"github.com/Birdie-1/stock-forcasting-with-react-fastapi/backend-go/internal/config"
	"github.com/Birdie-1/stock-forcasting-with-react-fastapi/backend-go/internal/domain"
	"github.com/Birdie-1/stock-forcasting-with-react-fastapi/backend-go/internal/repository"
	"github.com/Birdie-1/stock-forcasting-with-react-fastapi/backend-go/internal/service"
	"github.com/gin-gonic/gin"
)

const maxForecastPeriods = 90

type AnalyticsHandler struct {
	service  *service.AnalyticsService
	defaults config.AnalyticsConfig
}

func NewAnalyticsHandler(service *service.AnalyticsService, defaults config.AnalyticsConfig) *AnalyticsHandler {
	return &AnalyticsHandler{service: service, defaults: defaults}
}

func (h *AnalyticsHandler) parseQuery(c *gin.Context) (domain.SeriesQuery, bool) {
	query := domain.SeriesQuery{
		Periods:   h.defaults.DefaultPeriods,
		RangeDays: h.defaults.DefaultRangeDays,
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return query, false
	}
	query.ProductID = id

	if raw := strings.TrimSpace(c.Query("periods")); raw != "" {
		periods, err := strconv.Atoi(raw)
		if err != nil || periods <= 0 || periods > maxForecastPeriods {
			c.JSON(http.StatusBadRequest, gin.H{"error": "periods must be between 1 and 90"})
			return query, false
		}
		query.Periods = periods
	}

	if raw := strings.TrimSpace(c.Query("range_days")); raw != "" {
		rangeDays, err := strconv.Atoi(raw)
		if err != nil || rangeDays <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "range_days must be a positive integer"})
			return query, false
		}
		query.RangeDays = rangeDays
	}

	granularity, ok := analytics.ParseGranularity(c.DefaultQuery("granularity", h.defaults.DefaultGranularity))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "granularity must be daily or weekly"})
		return query, false
	}
	query.Granularity = granularity

	return query, true
}

func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
	case errors.Is(err, analytics.ErrInsufficientData):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, analytics.ErrOverlappingRanges):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrSuperseded):
		c.JSON(http.StatusConflict, gin.H{"error": "request superseded by a newer one"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build analytics", "details": err.Error()})
	}
}

func (h *AnalyticsHandler) GetOverview(c *gin.Context) {
	query, ok := h.parseQuery(c)
	if !ok {
		return
	}

	overview, err := h.service.GetOverview(c.Request.Context(), query)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, overview)
}

func (h *AnalyticsHandler) GetSeries(c *gin.Context) {
	query, ok := h.parseQuery(c)
	if !ok {
		return
	}

	series, err := h.service.GetSeries(c.Request.Context(), query)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"series": series})
}

func (h *AnalyticsHandler) GetMetrics(c *gin.Context) {
	query, ok := h.parseQuery(c)
	if !ok {
		return
	}

	metrics, err := h.service.GetMetrics(c.Request.Context(), query)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, metrics)
}

func (h *AnalyticsHandler) GetCostCurve(c *gin.Context) {
	query, ok := h.parseQuery(c)
	if !ok {
		return
	}

	curve, err := h.service.GetCostCurve(c.Request.Context(), query)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"cost_curve": curve})
}

func (h *AnalyticsHandler) GetSimulation(c *gin.Context) {
	query, ok := h.parseQuery(c)
	if !ok {
		return
	}

	samples, err := h.service.GetSimulation(c.Request.Context(), query)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"simulation": samples})
}

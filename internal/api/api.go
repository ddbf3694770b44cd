// internal/api/api.go
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/Birdie-1/stock-forcasting-with-react-fastapi/backend-go/internal/api/handlers"
	"github.com/Birdie-1/stock-forcasting-with-react-fastapi/backend-go/internal/api/middleware"
	"github.com/Birdie-1/stock-forcasting-with-react-fastapi/backend-go/internal/config"
	"github.com/Birdie-1/stock-forcasting-with-react-fastapi/backend-go/internal/repository"
	"github.com/Birdie-1/stock-forcasting-with-react-fastapi/backend-go/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Services struct {
	Analytics *service.AnalyticsService
	Products  repository.ProductRepository
	Sales     repository.SalesRepository
}

func NewRouter(services *Services, cfg *config.Config) *gin.Engine {
	router := gin.New()

	// Add middleware
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.Server.AllowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(cfg.Server.AllowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api/v1")

	if services != nil {
		if services.Products != nil {
			productHandler := handlers.NewProductHandler(services.Products, services.Sales)
			apiGroup.GET("/products", productHandler.ListProducts)
			apiGroup.GET("/products/:id", productHandler.GetProduct)
			apiGroup.GET("/sales/:id", productHandler.GetSalesHistory)
		}

		if services.Analytics != nil {
			analyticsHandler := handlers.NewAnalyticsHandler(services.Analytics, cfg.Analytics)
			forecastGroup := apiGroup.Group("/analytics/forecast/:id")
			{
				forecastGroup.GET("/overview", analyticsHandler.GetOverview)
				forecastGroup.GET("/series", analyticsHandler.GetSeries)
				forecastGroup.GET("/metrics", analyticsHandler.GetMetrics)
				forecastGroup.GET("/cost_curve", analyticsHandler.GetCostCurve)
				forecastGroup.GET("/simulation", analyticsHandler.GetSimulation)
			}
		}
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}

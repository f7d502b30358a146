package api

import (
	"net/http"

	"commodity-forecast/internal/api/handlers"
	"commodity-forecast/internal/api/middleware"
	"commodity-forecast/internal/forecast"
	"commodity-forecast/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

// Deps is everything the router needs. Metrics may be nil.
type Deps struct {
	Service     *forecast.Service
	Store       handlers.Sized
	Logger      zerolog.Logger
	Metrics     *metrics.Recorder
	MetricsPath string
	CORS        cors.Options
}

// NewRouter wires middleware and routes. Every route is served both at the
// root and under /api/v1.
func NewRouter(d Deps) *gin.Engine {
	router := gin.New()

	router.Use(middleware.ErrorHandler())
	router.Use(middleware.CORS(d.CORS))
	router.Use(middleware.Logger(d.Logger))

	var observer handlers.ForecastObserver
	if d.Metrics != nil {
		router.Use(middleware.Metrics(d.Metrics))
		observer = d.Metrics
		path := d.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		router.GET(path, gin.WrapH(d.Metrics.Handler()))
	}

	forecastHandler := handlers.NewForecastHandler(d.Service, d.Logger, observer)
	catalogHandler := handlers.NewCatalogHandler(d.Service)
	analysisHandler := handlers.NewAnalysisHandler(d.Service)

	register := func(g gin.IRoutes) {
		g.GET("/health", handlers.Health(d.Store))
		g.POST("/predict", forecastHandler.Predict)
		g.GET("/markets", catalogHandler.ListMarkets)
		g.GET("/varieties", catalogHandler.ListVarieties)
		g.GET("/summary", analysisHandler.Summary)
		g.GET("/rank", analysisHandler.RankVarieties)
	}
	register(router)
	register(router.Group("/api/v1"))

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": gin.H{
				"code":    handlers.CodeNotFound,
				"message": "route not found",
			},
		})
	})

	return router
}

// CORSOptions builds rs/cors options from allowed lists.
func CORSOptions(origins, methods, headers []string) cors.Options {
	return cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: methods,
		AllowedHeaders: headers,
	}
}

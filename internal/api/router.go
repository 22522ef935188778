// Package api assembles the HTTP surface over sweep artifacts.
package api

import (
	"net/http"

	"frbus-sweep/internal/api/handlers"
	"frbus-sweep/internal/api/middleware"
	"frbus-sweep/internal/engine"
	"frbus-sweep/internal/store"
	"frbus-sweep/internal/sweep"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Deps are the collaborators the router serves. Output and Index may be nil.
type Deps struct {
	Output         *sweep.Output
	Index          *store.Index
	Engine         *engine.Engine
	Cache          *store.ResultCache
	Logger         *zap.Logger
	AllowedOrigins []string
}

// NewRouter builds the gin engine with middleware and routes.
func NewRouter(d Deps) *gin.Engine {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Engine == nil {
		d.Engine = engine.New(nil)
	}

	router := gin.New()
	router.Use(middleware.CORS(d.AllowedOrigins...))
	router.Use(middleware.Logger(d.Logger))
	router.Use(middleware.ErrorHandler(d.Logger))

	sweepHandler := handlers.NewSweepHandler(d.Output, d.Index, d.Logger)
	simulateHandler := handlers.NewSimulateHandler(d.Engine, d.Cache, d.Logger)
	modelHandler := handlers.NewModelHandler(*d.Engine.Structure())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "sweep_loaded": d.Output != nil})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/metadata", sweepHandler.GetMetadata)
		v1.GET("/simulations", sweepHandler.ListSimulations)
		v1.GET("/simulations/:id", sweepHandler.GetSimulation)
		v1.GET("/summary", sweepHandler.GetSummary)
		v1.POST("/simulate", simulateHandler.Simulate)
		v1.GET("/model", modelHandler.GetModel)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"code": "NOT_FOUND", "message": "Not found"}})
	})
	return router
}

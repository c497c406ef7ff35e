package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"fleet/internal/handler"
	"fleet/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	VehicleHandler  *handler.VehicleHandler
	CustomerHandler *handler.CustomerHandler
	RentalHandler   *handler.RentalHandler
	ReportHandler   *handler.ReportHandler
	RedisClient     *redis.Client
	NewRelicApp     *newrelic.Application
	Logger          *logrus.Logger
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	if deps.Logger != nil {
		router.Use(middleware.LoggingMiddleware(deps.Logger))
	}
	router.Use(middleware.CORSMiddleware())

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	if deps.RedisClient != nil {
		router.Use(middleware.IdempotencyMiddleware(deps.RedisClient))
	}

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		// Vehicle routes.
		vehicles := v1.Group("/vehicles")
		{
			vehicles.POST("", deps.VehicleHandler.Create)
			vehicles.GET("", deps.VehicleHandler.GetAll)
			vehicles.GET("/search", deps.VehicleHandler.Search)
			vehicles.GET("/:id", deps.VehicleHandler.Get)
			vehicles.DELETE("/:id", deps.VehicleHandler.Delete)
			vehicles.POST("/:id/maintenance", deps.VehicleHandler.ScheduleMaintenance)
			vehicles.POST("/:id/maintenance/complete", deps.VehicleHandler.CompleteMaintenance)
		}

		// Customer routes.
		customers := v1.Group("/customers")
		{
			customers.POST("", deps.CustomerHandler.Create)
			customers.GET("", deps.CustomerHandler.GetAll)
			customers.GET("/search", deps.CustomerHandler.Search)
			customers.GET("/:id", deps.CustomerHandler.Get)
			customers.DELETE("/:id", deps.CustomerHandler.Delete)
		}

		// Rental routes.
		rentals := v1.Group("/rentals")
		{
			rentals.POST("", deps.RentalHandler.Create)
			rentals.GET("", deps.RentalHandler.GetAll)
			rentals.GET("/:id", deps.RentalHandler.Get)
			rentals.POST("/:id/complete", deps.RentalHandler.Complete)
			rentals.POST("/:id/cancel", deps.RentalHandler.Cancel)
			rentals.POST("/:id/extend", deps.RentalHandler.Extend)
		}

		// Report routes.
		reports := v1.Group("/reports")
		{
			reports.GET("/fleet", deps.ReportHandler.Fleet)
			reports.GET("/rentals", deps.ReportHandler.Rentals)
			reports.GET("/revenue", deps.ReportHandler.Revenue)
			reports.GET("/customers", deps.ReportHandler.Customers)
		}
	}

	return router
}

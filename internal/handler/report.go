package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fleet/internal/fleet"
	"fleet/internal/redis"
)

// ReportHandler handles HTTP requests for reports. Report reads go
// through the cache when one is configured; mutating handlers
// invalidate it.
type ReportHandler struct {
	registry *fleet.Registry
	cache    *redis.CacheStore
}

// NewReportHandler creates a new ReportHandler. The cache may be nil.
func NewReportHandler(registry *fleet.Registry, cache *redis.CacheStore) *ReportHandler {
	return &ReportHandler{registry: registry, cache: cache}
}

// Fleet handles GET /v1/reports/fleet
func (h *ReportHandler) Fleet(c *gin.Context) {
	if h.cache != nil {
		var cached fleet.FleetReport
		if ok, err := h.cache.GetReport(c.Request.Context(), redis.ReportFleet, &cached); err == nil && ok {
			c.JSON(http.StatusOK, cached)
			return
		}
	}

	report := h.registry.GenerateFleetReport()
	h.store(c, redis.ReportFleet, report)
	c.JSON(http.StatusOK, report)
}

// Rentals handles GET /v1/reports/rentals
func (h *ReportHandler) Rentals(c *gin.Context) {
	if h.cache != nil {
		var cached fleet.ActiveRentalsReport
		if ok, err := h.cache.GetReport(c.Request.Context(), redis.ReportRentals, &cached); err == nil && ok {
			c.JSON(http.StatusOK, cached)
			return
		}
	}

	report := h.registry.GenerateActiveRentalsReport()
	h.store(c, redis.ReportRentals, report)
	c.JSON(http.StatusOK, report)
}

// Revenue handles GET /v1/reports/revenue
func (h *ReportHandler) Revenue(c *gin.Context) {
	if h.cache != nil {
		var cached fleet.RevenueReport
		if ok, err := h.cache.GetReport(c.Request.Context(), redis.ReportRevenue, &cached); err == nil && ok {
			c.JSON(http.StatusOK, cached)
			return
		}
	}

	report := h.registry.GenerateRevenueReport()
	h.store(c, redis.ReportRevenue, report)
	c.JSON(http.StatusOK, report)
}

// Customers handles GET /v1/reports/customers
func (h *ReportHandler) Customers(c *gin.Context) {
	if h.cache != nil {
		var cached fleet.CustomerStatistics
		if ok, err := h.cache.GetReport(c.Request.Context(), redis.ReportCustomers, &cached); err == nil && ok {
			c.JSON(http.StatusOK, cached)
			return
		}
	}

	stats := h.registry.GenerateCustomerStatistics()
	h.store(c, redis.ReportCustomers, stats)
	c.JSON(http.StatusOK, stats)
}

func (h *ReportHandler) store(c *gin.Context, name string, report any) {
	if h.cache != nil {
		_ = h.cache.SetReport(c.Request.Context(), name, report)
	}
}

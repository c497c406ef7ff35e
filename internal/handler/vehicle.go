package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"fleet/internal/domain"
	"fleet/internal/fleet"
	"fleet/internal/redis"
)

// VehicleHandler handles HTTP requests for vehicles.
type VehicleHandler struct {
	registry *fleet.Registry
	cache    *redis.CacheStore
}

// NewVehicleHandler creates a new VehicleHandler. The cache may be nil.
func NewVehicleHandler(registry *fleet.Registry, cache *redis.CacheStore) *VehicleHandler {
	return &VehicleHandler{registry: registry, cache: cache}
}

// CreateVehicleRequest is the HTTP request body for adding a vehicle.
type CreateVehicleRequest struct {
	Brand     string  `json:"brand"`
	Model     string  `json:"model"`
	Category  string  `json:"category"`
	DailyRate float64 `json:"daily_rate"`

	NumDoors        int     `json:"num_doors,omitempty"`
	FuelType        string  `json:"fuel_type,omitempty"`
	PayloadCapacity float64 `json:"payload_capacity,omitempty"`
	EngineCC        int     `json:"engine_cc,omitempty"`
}

// MaintenanceRequest is the HTTP request body for scheduling maintenance.
type MaintenanceRequest struct {
	Description   string `json:"description"`
	EstimatedDays int    `json:"estimated_days,omitempty"`
}

// VehicleResponse is the HTTP response for vehicle data.
type VehicleResponse struct {
	ID          int64   `json:"id"`
	Brand       string  `json:"brand"`
	Model       string  `json:"model"`
	Category    string  `json:"category"`
	DailyRate   float64 `json:"daily_rate"`
	State       string  `json:"state"`
	Description string  `json:"description"`
	MinimumAge  int     `json:"minimum_age"`
	RentalCount int     `json:"rental_count"`

	NumDoors        int     `json:"num_doors,omitempty"`
	FuelType        string  `json:"fuel_type,omitempty"`
	PayloadCapacity float64 `json:"payload_capacity,omitempty"`
	EngineCC        int     `json:"engine_cc,omitempty"`

	Maintenance []MaintenanceResponse `json:"maintenance,omitempty"`
}

// MaintenanceResponse is one maintenance log entry.
type MaintenanceResponse struct {
	Date          string `json:"date"`
	Description   string `json:"description"`
	EstimatedDays int    `json:"estimated_days"`
	Completed     bool   `json:"completed"`
	CompletedAt   string `json:"completed_at,omitempty"`
}

func vehicleResponse(v *domain.Vehicle) VehicleResponse {
	resp := VehicleResponse{
		ID:          v.ID,
		Brand:       v.Brand,
		Model:       v.Model,
		Category:    string(v.Category),
		DailyRate:   v.DailyRate,
		State:       string(v.State()),
		Description: v.Description(),
		MinimumAge:  v.MinimumAge(),
		RentalCount: v.RentalCount(),
	}

	switch k := v.Kind.(type) {
	case domain.CarKind:
		resp.NumDoors = k.NumDoors
		resp.FuelType = k.FuelType
	case domain.TruckKind:
		resp.PayloadCapacity = k.PayloadCapacity
	case domain.MotorcycleKind:
		resp.EngineCC = k.EngineCC
	}

	for _, m := range v.MaintenanceHistory() {
		entry := MaintenanceResponse{
			Date:          m.Date.Format(time.RFC3339),
			Description:   m.Description,
			EstimatedDays: m.EstimatedDays,
			Completed:     m.Completed,
		}
		if !m.CompletedAt.IsZero() {
			entry.CompletedAt = m.CompletedAt.Format(time.RFC3339)
		}
		resp.Maintenance = append(resp.Maintenance, entry)
	}
	return resp
}

func vehicleResponses(vehicles []*domain.Vehicle) []VehicleResponse {
	out := make([]VehicleResponse, 0, len(vehicles))
	for _, v := range vehicles {
		out = append(out, vehicleResponse(v))
	}
	return out
}

// Create handles POST /v1/vehicles
func (h *VehicleHandler) Create(c *gin.Context) {
	var req CreateVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if req.Brand == "" || req.Model == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "brand and model are required"})
		return
	}
	if req.DailyRate < 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "daily rate must be non-negative"})
		return
	}

	category, err := domain.ParseCategory(req.Category)
	if err != nil {
		respondError(c, err)
		return
	}

	vehicle, err := h.registry.AddVehicle(fleet.AddVehicleParams{
		Brand:           req.Brand,
		Model:           req.Model,
		Category:        category,
		DailyRate:       req.DailyRate,
		NumDoors:        req.NumDoors,
		FuelType:        req.FuelType,
		PayloadCapacity: req.PayloadCapacity,
		EngineCC:        req.EngineCC,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	h.invalidateReports(c)
	c.JSON(http.StatusCreated, vehicleResponse(vehicle))
}

// Get handles GET /v1/vehicles/:id
func (h *VehicleHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	vehicle, err := h.registry.GetVehicle(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, vehicleResponse(vehicle))
}

// GetAll handles GET /v1/vehicles
// Supports ?available_only=true and ?category= filters.
func (h *VehicleHandler) GetAll(c *gin.Context) {
	if category := c.Query("category"); category != "" {
		parsed, err := domain.ParseCategory(category)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, vehicleResponses(h.registry.GetVehiclesByCategory(parsed)))
		return
	}

	if available, _ := strconv.ParseBool(c.Query("available_only")); available {
		c.JSON(http.StatusOK, vehicleResponses(h.registry.GetAvailableVehicles()))
		return
	}

	c.JSON(http.StatusOK, vehicleResponses(h.registry.GetAllVehicles()))
}

// Search handles GET /v1/vehicles/search
func (h *VehicleHandler) Search(c *gin.Context) {
	availableOnly := true
	if raw := c.Query("available_only"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid available_only"})
			return
		}
		availableOnly = parsed
	}

	var maxPrice float64
	if raw := c.Query("max_price"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid max_price"})
			return
		}
		maxPrice = parsed
	}

	results := h.registry.SearchVehicles(fleet.VehicleSearch{
		Brand:         c.Query("brand"),
		Category:      c.Query("category"),
		MaxPrice:      maxPrice,
		AvailableOnly: availableOnly,
	})
	c.JSON(http.StatusOK, vehicleResponses(results))
}

// Delete handles DELETE /v1/vehicles/:id
func (h *VehicleHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.registry.RemoveVehicle(id); err != nil {
		respondError(c, err)
		return
	}

	h.invalidateReports(c)
	c.Status(http.StatusNoContent)
}

// ScheduleMaintenance handles POST /v1/vehicles/:id/maintenance
func (h *VehicleHandler) ScheduleMaintenance(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req MaintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	if req.Description == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "description is required"})
		return
	}

	estimatedDays := req.EstimatedDays
	if estimatedDays == 0 {
		estimatedDays = 1
	}

	if err := h.registry.ScheduleMaintenance(id, req.Description, estimatedDays); err != nil {
		respondError(c, err)
		return
	}

	vehicle, err := h.registry.GetVehicle(id)
	if err != nil {
		respondError(c, err)
		return
	}

	h.invalidateReports(c)
	c.JSON(http.StatusOK, vehicleResponse(vehicle))
}

// CompleteMaintenance handles POST /v1/vehicles/:id/maintenance/complete
func (h *VehicleHandler) CompleteMaintenance(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.registry.CompleteMaintenance(id); err != nil {
		respondError(c, err)
		return
	}

	vehicle, err := h.registry.GetVehicle(id)
	if err != nil {
		respondError(c, err)
		return
	}

	h.invalidateReports(c)
	c.JSON(http.StatusOK, vehicleResponse(vehicle))
}

func (h *VehicleHandler) invalidateReports(c *gin.Context) {
	if h.cache != nil {
		_ = h.cache.InvalidateReports(c.Request.Context())
	}
}

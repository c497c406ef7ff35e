package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"fleet/internal/domain"
	"fleet/internal/fleet"
	"fleet/internal/redis"
)

// RentalHandler handles HTTP requests for rentals.
type RentalHandler struct {
	registry *fleet.Registry
	cache    *redis.CacheStore
}

// NewRentalHandler creates a new RentalHandler. The cache may be nil.
func NewRentalHandler(registry *fleet.Registry, cache *redis.CacheStore) *RentalHandler {
	return &RentalHandler{registry: registry, cache: cache}
}

// CreateRentalRequest is the HTTP request body for creating a rental.
type CreateRentalRequest struct {
	CustomerID int64     `json:"customer_id"`
	VehicleID  int64     `json:"vehicle_id"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
}

// CompleteRentalRequest is the HTTP request body for completing a rental.
type CompleteRentalRequest struct {
	ActualReturnDate time.Time `json:"actual_return_date,omitempty"`
}

// ExtendRentalRequest is the HTTP request body for extending a rental.
type ExtendRentalRequest struct {
	NewEndDate time.Time `json:"new_end_date"`
}

// RentalResponse is the HTTP response for rental data.
type RentalResponse struct {
	ID                int64   `json:"id"`
	CustomerID        int64   `json:"customer_id"`
	VehicleID         int64   `json:"vehicle_id"`
	StartDate         string  `json:"start_date"`
	EndDate           string  `json:"end_date"`
	ActualReturnDate  string  `json:"actual_return_date,omitempty"`
	Status            string  `json:"status"`
	TotalCost         float64 `json:"total_cost"`
	LateReturnPenalty float64 `json:"late_return_penalty"`
	DurationDays      int     `json:"duration_days"`
	RemainingDays     int     `json:"remaining_days"`
	Overdue           bool    `json:"overdue"`
	CreatedAt         string  `json:"created_at"`
}

func rentalResponse(r *domain.Rental) RentalResponse {
	resp := RentalResponse{
		ID:                r.ID,
		CustomerID:        r.Customer.ID,
		VehicleID:         r.Vehicle.ID,
		StartDate:         r.StartDate.Format(time.RFC3339),
		EndDate:           r.EndDate().Format(time.RFC3339),
		Status:            string(r.Status()),
		TotalCost:         r.TotalCost(),
		LateReturnPenalty: r.LateReturnPenalty(),
		DurationDays:      r.DurationDays(),
		RemainingDays:     r.RemainingDays(),
		Overdue:           r.IsOverdue(),
		CreatedAt:         r.CreatedAt.Format(time.RFC3339),
	}
	if !r.ActualReturnDate().IsZero() {
		resp.ActualReturnDate = r.ActualReturnDate().Format(time.RFC3339)
	}
	return resp
}

func rentalResponses(rentals []*domain.Rental) []RentalResponse {
	out := make([]RentalResponse, 0, len(rentals))
	for _, r := range rentals {
		out = append(out, rentalResponse(r))
	}
	return out
}

// Create handles POST /v1/rentals
func (h *RentalHandler) Create(c *gin.Context) {
	var req CreateRentalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	rental, err := h.registry.CreateRental(req.CustomerID, req.VehicleID, req.StartDate, req.EndDate)
	if err != nil {
		respondError(c, err)
		return
	}

	h.invalidateReports(c)
	c.JSON(http.StatusCreated, rentalResponse(rental))
}

// Get handles GET /v1/rentals/:id
func (h *RentalHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	rental, err := h.registry.GetRental(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, rentalResponse(rental))
}

// GetAll handles GET /v1/rentals
// Supports ?status=active|completed|overdue.
func (h *RentalHandler) GetAll(c *gin.Context) {
	switch c.Query("status") {
	case "":
		c.JSON(http.StatusOK, rentalResponses(h.registry.GetAllRentals()))
	case "active":
		c.JSON(http.StatusOK, rentalResponses(h.registry.GetActiveRentals()))
	case "completed":
		c.JSON(http.StatusOK, rentalResponses(h.registry.GetCompletedRentals()))
	case "overdue":
		c.JSON(http.StatusOK, rentalResponses(h.registry.GetOverdueRentals()))
	default:
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid status filter"})
	}
}

// Complete handles POST /v1/rentals/:id/complete
func (h *RentalHandler) Complete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	// Body is optional; without one the return date defaults to now.
	var req CompleteRentalRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
			return
		}
	}

	rental, err := h.registry.CompleteRental(id, req.ActualReturnDate)
	if err != nil {
		respondError(c, err)
		return
	}

	h.invalidateReports(c)
	c.JSON(http.StatusOK, rentalResponse(rental))
}

// Cancel handles POST /v1/rentals/:id/cancel
func (h *RentalHandler) Cancel(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	rental, err := h.registry.CancelRental(id)
	if err != nil {
		respondError(c, err)
		return
	}

	h.invalidateReports(c)
	c.JSON(http.StatusOK, rentalResponse(rental))
}

// Extend handles POST /v1/rentals/:id/extend
func (h *RentalHandler) Extend(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req ExtendRentalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	rental, err := h.registry.ExtendRental(id, req.NewEndDate)
	if err != nil {
		respondError(c, err)
		return
	}

	h.invalidateReports(c)
	c.JSON(http.StatusOK, rentalResponse(rental))
}

func (h *RentalHandler) invalidateReports(c *gin.Context) {
	if h.cache != nil {
		_ = h.cache.InvalidateReports(c.Request.Context())
	}
}

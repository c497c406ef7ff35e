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

// CustomerHandler handles HTTP requests for customers.
type CustomerHandler struct {
	registry *fleet.Registry
	cache    *redis.CacheStore
}

// NewCustomerHandler creates a new CustomerHandler. The cache may be nil.
func NewCustomerHandler(registry *fleet.Registry, cache *redis.CacheStore) *CustomerHandler {
	return &CustomerHandler{registry: registry, cache: cache}
}

// CreateCustomerRequest is the HTTP request body for registering a customer.
type CreateCustomerRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Age       int    `json:"age"`
	License   string `json:"license"`
}

// CustomerResponse is the HTTP response for customer data.
type CustomerResponse struct {
	ID           int64   `json:"id"`
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	FullName     string  `json:"full_name"`
	Age          int     `json:"age"`
	License      string  `json:"license"`
	RegisteredAt string  `json:"registered_at"`
	RentalCount  int     `json:"rental_count"`
	TotalSpent   float64 `json:"total_spent"`
	DiscountRate float64 `json:"discount_rate"`
}

func customerResponse(c *domain.Customer) CustomerResponse {
	return CustomerResponse{
		ID:           c.ID,
		FirstName:    c.FirstName,
		LastName:     c.LastName,
		FullName:     c.FullName(),
		Age:          c.Age,
		License:      string(c.License),
		RegisteredAt: c.RegisteredAt.Format(time.RFC3339),
		RentalCount:  c.RentalCount(),
		TotalSpent:   c.TotalSpent(),
		DiscountRate: c.DiscountRate(),
	}
}

func customerResponses(customers []*domain.Customer) []CustomerResponse {
	out := make([]CustomerResponse, 0, len(customers))
	for _, c := range customers {
		out = append(out, customerResponse(c))
	}
	return out
}

// Create handles POST /v1/customers
func (h *CustomerHandler) Create(c *gin.Context) {
	var req CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if req.FirstName == "" || req.LastName == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "first_name and last_name are required"})
		return
	}
	if req.Age < 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "age must be non-negative"})
		return
	}

	license, ok := domain.ParseLicenseClass(req.License)
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid license class"})
		return
	}

	customer := h.registry.AddCustomer(req.FirstName, req.LastName, req.Age, license)

	h.invalidateReports(c)
	c.JSON(http.StatusCreated, customerResponse(customer))
}

// Get handles GET /v1/customers/:id
func (h *CustomerHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	customer, err := h.registry.GetCustomer(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, customerResponse(customer))
}

// GetAll handles GET /v1/customers
func (h *CustomerHandler) GetAll(c *gin.Context) {
	c.JSON(http.StatusOK, customerResponses(h.registry.GetAllCustomers()))
}

// Search handles GET /v1/customers/search
func (h *CustomerHandler) Search(c *gin.Context) {
	var minRentals int
	if raw := c.Query("min_rentals"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid min_rentals"})
			return
		}
		minRentals = parsed
	}

	results := h.registry.SearchCustomers(fleet.CustomerSearch{
		LastName:   c.Query("last_name"),
		MinRentals: minRentals,
	})
	c.JSON(http.StatusOK, customerResponses(results))
}

// Delete handles DELETE /v1/customers/:id
func (h *CustomerHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.registry.RemoveCustomer(id); err != nil {
		respondError(c, err)
		return
	}

	h.invalidateReports(c)
	c.Status(http.StatusNoContent)
}

func (h *CustomerHandler) invalidateReports(c *gin.Context) {
	if h.cache != nil {
		_ = h.cache.InvalidateReports(c.Request.Context())
	}
}

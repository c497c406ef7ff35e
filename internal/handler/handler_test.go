package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleet/internal/domain"
	"fleet/internal/fleet"
)

func newTestRouter(registry *fleet.Registry) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	vehicleHandler := NewVehicleHandler(registry, nil)
	customerHandler := NewCustomerHandler(registry, nil)
	rentalHandler := NewRentalHandler(registry, nil)
	reportHandler := NewReportHandler(registry, nil)

	v1 := router.Group("/v1")
	{
		v1.POST("/vehicles", vehicleHandler.Create)
		v1.GET("/vehicles", vehicleHandler.GetAll)
		v1.GET("/vehicles/search", vehicleHandler.Search)
		v1.GET("/vehicles/:id", vehicleHandler.Get)
		v1.DELETE("/vehicles/:id", vehicleHandler.Delete)
		v1.POST("/vehicles/:id/maintenance", vehicleHandler.ScheduleMaintenance)
		v1.POST("/vehicles/:id/maintenance/complete", vehicleHandler.CompleteMaintenance)

		v1.POST("/customers", customerHandler.Create)
		v1.GET("/customers", customerHandler.GetAll)
		v1.GET("/customers/:id", customerHandler.Get)
		v1.DELETE("/customers/:id", customerHandler.Delete)

		v1.POST("/rentals", rentalHandler.Create)
		v1.GET("/rentals", rentalHandler.GetAll)
		v1.GET("/rentals/:id", rentalHandler.Get)
		v1.POST("/rentals/:id/complete", rentalHandler.Complete)
		v1.POST("/rentals/:id/cancel", rentalHandler.Cancel)
		v1.POST("/rentals/:id/extend", rentalHandler.Extend)

		v1.GET("/reports/fleet", reportHandler.Fleet)
		v1.GET("/reports/revenue", reportHandler.Revenue)
	}
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeJSON[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestVehicleHandler_Create(t *testing.T) {
	router := newTestRouter(fleet.NewRegistry())

	w := doJSON(t, router, http.MethodPost, "/v1/vehicles", CreateVehicleRequest{
		Brand:     "Toyota",
		Model:     "Corolla",
		Category:  "car",
		DailyRate: 50,
		NumDoors:  2,
		FuelType:  "hybrid",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	resp := decodeJSON[VehicleResponse](t, w)
	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, "AVAILABLE", resp.State)
	assert.Equal(t, 17, resp.MinimumAge)
	assert.Equal(t, 2, resp.NumDoors)
	assert.Equal(t, "hybrid", resp.FuelType)
}

func TestVehicleHandler_CreateValidation(t *testing.T) {
	router := newTestRouter(fleet.NewRegistry())

	tests := []struct {
		name string
		req  CreateVehicleRequest
	}{
		{"missing brand", CreateVehicleRequest{Model: "Corolla", Category: "car", DailyRate: 50}},
		{"negative rate", CreateVehicleRequest{Brand: "Toyota", Model: "Corolla", Category: "car", DailyRate: -1}},
		{"unknown category", CreateVehicleRequest{Brand: "Boeing", Model: "747", Category: "plane", DailyRate: 50}},
	}

	for _, tt := range tests {
		w := doJSON(t, router, http.MethodPost, "/v1/vehicles", tt.req)
		assert.Equal(t, http.StatusBadRequest, w.Code, tt.name)
	}
}

func TestVehicleHandler_GetNotFound(t *testing.T) {
	router := newTestRouter(fleet.NewRegistry())

	w := doJSON(t, router, http.MethodGet, "/v1/vehicles/99", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, router, http.MethodGet, "/v1/vehicles/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestVehicleHandler_DeleteRented_Conflicts(t *testing.T) {
	registry := fleet.NewRegistry()
	router := newTestRouter(registry)

	v, err := registry.AddVehicle(fleet.AddVehicleParams{
		Brand: "Toyota", Model: "Corolla", Category: domain.CategoryCar, DailyRate: 50,
	})
	require.NoError(t, err)
	c := registry.AddCustomer("Ada", "Lovelace", 30, domain.LicenseLightAuto)

	start := time.Now()
	_, err = registry.CreateRental(c.ID, v.ID, start, start.AddDate(0, 0, 3))
	require.NoError(t, err)

	w := doJSON(t, router, http.MethodDelete, "/v1/vehicles/1", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestVehicleHandler_MaintenanceFlow(t *testing.T) {
	registry := fleet.NewRegistry()
	router := newTestRouter(registry)

	_, err := registry.AddVehicle(fleet.AddVehicleParams{
		Brand: "Toyota", Model: "Corolla", Category: domain.CategoryCar, DailyRate: 50,
	})
	require.NoError(t, err)

	w := doJSON(t, router, http.MethodPost, "/v1/vehicles/1/maintenance", MaintenanceRequest{
		Description: "oil change",
	})
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeJSON[VehicleResponse](t, w)
	assert.Equal(t, "MAINTENANCE", resp.State)
	require.Len(t, resp.Maintenance, 1)
	assert.Equal(t, 1, resp.Maintenance[0].EstimatedDays)

	w = doJSON(t, router, http.MethodPost, "/v1/vehicles/1/maintenance/complete", nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp = decodeJSON[VehicleResponse](t, w)
	assert.Equal(t, "AVAILABLE", resp.State)
	assert.True(t, resp.Maintenance[0].Completed)
}

func TestVehicleHandler_Search(t *testing.T) {
	registry := fleet.NewRegistry()
	router := newTestRouter(registry)

	for _, p := range []fleet.AddVehicleParams{
		{Brand: "Toyota", Model: "Corolla", Category: domain.CategoryCar, DailyRate: 50},
		{Brand: "Toyota", Model: "Hilux", Category: domain.CategoryTruck, DailyRate: 90},
		{Brand: "Honda", Model: "CB500", Category: domain.CategoryBike, DailyRate: 30},
	} {
		_, err := registry.AddVehicle(p)
		require.NoError(t, err)
	}

	w := doJSON(t, router, http.MethodGet, "/v1/vehicles/search?brand=toyota&max_price=60", nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeJSON[[]VehicleResponse](t, w)
	require.Len(t, resp, 1)
	assert.Equal(t, "Corolla", resp[0].Model)

	w = doJSON(t, router, http.MethodGet, "/v1/vehicles/search?max_price=abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCustomerHandler_CreateAndGet(t *testing.T) {
	router := newTestRouter(fleet.NewRegistry())

	w := doJSON(t, router, http.MethodPost, "/v1/customers", CreateCustomerRequest{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Age:       30,
		License:   "B",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	resp := decodeJSON[CustomerResponse](t, w)
	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, "Ada Lovelace", resp.FullName)

	w = doJSON(t, router, http.MethodGet, "/v1/customers/1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCustomerHandler_InvalidLicense(t *testing.T) {
	router := newTestRouter(fleet.NewRegistry())

	w := doJSON(t, router, http.MethodPost, "/v1/customers", CreateCustomerRequest{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Age:       30,
		License:   "Z",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func rentalTestFixture(t *testing.T) (*fleet.Registry, *gin.Engine) {
	t.Helper()

	registry := fleet.NewRegistry()
	router := newTestRouter(registry)

	_, err := registry.AddVehicle(fleet.AddVehicleParams{
		Brand: "Toyota", Model: "Corolla", Category: domain.CategoryCar, DailyRate: 50,
	})
	require.NoError(t, err)
	registry.AddCustomer("Ada", "Lovelace", 30, domain.LicenseLightAuto)
	return registry, router
}

func TestRentalHandler_Create(t *testing.T) {
	_, router := rentalTestFixture(t)

	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	w := doJSON(t, router, http.MethodPost, "/v1/rentals", CreateRentalRequest{
		CustomerID: 1,
		VehicleID:  1,
		StartDate:  start,
		EndDate:    start.AddDate(0, 0, 5),
	})
	require.Equal(t, http.StatusCreated, w.Code)

	resp := decodeJSON[RentalResponse](t, w)
	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, "ACTIVE", resp.Status)
	assert.Equal(t, 250.0, resp.TotalCost)
	assert.Equal(t, 5, resp.DurationDays)
}

func TestRentalHandler_ErrorMapping(t *testing.T) {
	registry, router := rentalTestFixture(t)
	minor := registry.AddCustomer("Young", "Driver", 14, domain.LicenseLightAuto)

	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 5)

	// Unknown customer: 404.
	w := doJSON(t, router, http.MethodPost, "/v1/rentals", CreateRentalRequest{
		CustomerID: 99, VehicleID: 1, StartDate: start, EndDate: end,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Ineligible customer: 403.
	w = doJSON(t, router, http.MethodPost, "/v1/rentals", CreateRentalRequest{
		CustomerID: minor.ID, VehicleID: 1, StartDate: start, EndDate: end,
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Inverted date range: 400.
	w = doJSON(t, router, http.MethodPost, "/v1/rentals", CreateRentalRequest{
		CustomerID: 1, VehicleID: 1, StartDate: end, EndDate: start,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Overlapping window: 409.
	w = doJSON(t, router, http.MethodPost, "/v1/rentals", CreateRentalRequest{
		CustomerID: 1, VehicleID: 1, StartDate: start, EndDate: end,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	w = doJSON(t, router, http.MethodPost, "/v1/rentals", CreateRentalRequest{
		CustomerID: 1, VehicleID: 1, StartDate: start, EndDate: end,
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRentalHandler_CompleteLate(t *testing.T) {
	_, router := rentalTestFixture(t)

	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	w := doJSON(t, router, http.MethodPost, "/v1/rentals", CreateRentalRequest{
		CustomerID: 1, VehicleID: 1, StartDate: start, EndDate: start.AddDate(0, 0, 5),
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, http.MethodPost, "/v1/rentals/1/complete", CompleteRentalRequest{
		ActualReturnDate: start.AddDate(0, 0, 7),
	})
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeJSON[RentalResponse](t, w)
	assert.Equal(t, "COMPLETED", resp.Status)
	assert.Equal(t, 50.0, resp.LateReturnPenalty)
	assert.Equal(t, 300.0, resp.TotalCost)

	// Completing again conflicts.
	w = doJSON(t, router, http.MethodPost, "/v1/rentals/1/complete", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRentalHandler_CancelAndExtend(t *testing.T) {
	_, router := rentalTestFixture(t)

	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	w := doJSON(t, router, http.MethodPost, "/v1/rentals", CreateRentalRequest{
		CustomerID: 1, VehicleID: 1, StartDate: start, EndDate: start.AddDate(0, 0, 5),
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, http.MethodPost, "/v1/rentals/1/extend", ExtendRentalRequest{
		NewEndDate: start.AddDate(0, 0, 8),
	})
	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeJSON[RentalResponse](t, w)
	assert.Equal(t, 400.0, resp.TotalCost)

	w = doJSON(t, router, http.MethodPost, "/v1/rentals/1/cancel", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp = decodeJSON[RentalResponse](t, w)
	assert.Equal(t, "CANCELLED", resp.Status)
	assert.Equal(t, 0.0, resp.TotalCost)
}

func TestRentalHandler_StatusFilter(t *testing.T) {
	_, router := rentalTestFixture(t)

	w := doJSON(t, router, http.MethodGet, "/v1/rentals?status=active", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeJSON[[]RentalResponse](t, w))

	w = doJSON(t, router, http.MethodGet, "/v1/rentals?status=bogus", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReportHandler_WithoutCache(t *testing.T) {
	registry, router := rentalTestFixture(t)

	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	r, err := registry.CreateRental(1, 1, start, start.AddDate(0, 0, 5))
	require.NoError(t, err)
	_, err = registry.CompleteRental(r.ID, start.AddDate(0, 0, 5))
	require.NoError(t, err)

	w := doJSON(t, router, http.MethodGet, "/v1/reports/fleet", nil)
	require.Equal(t, http.StatusOK, w.Code)
	fleetReport := decodeJSON[fleet.FleetReport](t, w)
	assert.Equal(t, 1, fleetReport.TotalVehicles)
	assert.Equal(t, 1, fleetReport.Available)

	w = doJSON(t, router, http.MethodGet, "/v1/reports/revenue", nil)
	require.Equal(t, http.StatusOK, w.Code)
	revenue := decodeJSON[fleet.RevenueReport](t, w)
	assert.Equal(t, 250.0, revenue.TotalRevenue)
	assert.Equal(t, 1, revenue.TotalRentals)
}

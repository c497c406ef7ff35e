package fleet

import (
	"sort"
	"strings"

	"fleet/internal/domain"
)

// VehicleSearch filters the fleet. Zero-valued fields are ignored.
type VehicleSearch struct {
	Brand         string
	Category      string
	MaxPrice      float64
	AvailableOnly bool
}

// SearchVehicles returns the vehicles matching every set filter,
// ordered by id.
func (g *Registry) SearchVehicles(q VehicleSearch) []*domain.Vehicle {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var out []*domain.Vehicle
	for _, v := range g.vehicles {
		if q.AvailableOnly && !v.IsAvailable() {
			continue
		}
		if q.Brand != "" && !strings.EqualFold(v.Brand, q.Brand) {
			continue
		}
		if q.Category != "" && !strings.EqualFold(string(v.Category), q.Category) {
			continue
		}
		if q.MaxPrice > 0 && v.DailyRate > q.MaxPrice {
			continue
		}
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// CustomerSearch filters customers. Zero-valued fields are ignored.
type CustomerSearch struct {
	LastName   string
	MinRentals int
}

// SearchCustomers returns the customers matching every set filter,
// ordered by id.
func (g *Registry) SearchCustomers(q CustomerSearch) []*domain.Customer {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var out []*domain.Customer
	for _, c := range g.customers {
		if q.LastName != "" && !strings.EqualFold(c.LastName, q.LastName) {
			continue
		}
		if q.MinRentals > 0 && c.RentalCount() < q.MinRentals {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

package fleet

import (
	"fmt"
	"sort"
	"time"

	"fleet/internal/domain"
)

// Snapshot is the engine state as plain records, the unit the
// persistence layer stores and loads. Records reference entities by id
// only; object graph links are rebuilt on restore.
type Snapshot struct {
	Vehicles  []VehicleRecord  `json:"vehicles"`
	Customers []CustomerRecord `json:"customers"`
	Rentals   []RentalRecord   `json:"rentals"`
}

// VehicleRecord is the flat persisted form of a vehicle. The kind-
// specific columns are meaningful per category, mirroring the nullable
// columns a relational schema uses for the variant fields.
type VehicleRecord struct {
	ID              int64              `json:"id"`
	Brand           string             `json:"brand"`
	Model           string             `json:"model"`
	Category        string             `json:"category"`
	DailyRate       float64            `json:"daily_rate"`
	State           string             `json:"state"`
	NumDoors        int                `json:"num_doors,omitempty"`
	FuelType        string             `json:"fuel_type,omitempty"`
	PayloadCapacity float64            `json:"payload_capacity,omitempty"`
	EngineCC        int                `json:"engine_cc,omitempty"`
	RentalCount     int                `json:"rental_count"`
	Removed         bool               `json:"removed,omitempty"`
	Maintenance     []MaintenanceEntry `json:"maintenance,omitempty"`
}

// MaintenanceEntry is the persisted form of one maintenance record.
type MaintenanceEntry struct {
	Date          time.Time `json:"date"`
	Description   string    `json:"description"`
	EstimatedDays int       `json:"estimated_days"`
	Completed     bool      `json:"completed"`
	CompletedAt   time.Time `json:"completed_at"`
}

// CustomerRecord is the persisted form of a customer.
type CustomerRecord struct {
	ID           int64     `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Age          int       `json:"age"`
	License      string    `json:"license"`
	RegisteredAt time.Time `json:"registered_at"`
	TotalSpent   float64   `json:"total_spent"`
	Removed      bool      `json:"removed,omitempty"`
}

// RentalRecord is the persisted form of a rental.
type RentalRecord struct {
	ID               int64     `json:"id"`
	CustomerID       int64     `json:"customer_id"`
	VehicleID        int64     `json:"vehicle_id"`
	StartDate        time.Time `json:"start_date"`
	EndDate          time.Time `json:"end_date"`
	ActualReturnDate time.Time `json:"actual_return_date"`
	Status           string    `json:"status"`
	TotalCost        float64   `json:"total_cost"`
	Penalty          float64   `json:"penalty"`
	CreatedAt        time.Time `json:"created_at"`
}

// Snapshot exports the full engine state, ordered by id. Rentals
// outlive removals, so vehicles and customers referenced only by
// rentals are exported too, flagged as removed; restore relinks those
// rentals without readmitting the entities to the fleet.
func (g *Registry) Snapshot() Snapshot {
	g.mu.RLock()
	defer g.mu.RUnlock()

	removedVehicles := make(map[int64]*domain.Vehicle)
	removedCustomers := make(map[int64]*domain.Customer)
	for _, r := range g.rentals {
		if _, ok := g.vehicles[r.Vehicle.ID]; !ok {
			removedVehicles[r.Vehicle.ID] = r.Vehicle
		}
		if _, ok := g.customers[r.Customer.ID]; !ok {
			removedCustomers[r.Customer.ID] = r.Customer
		}
	}

	var snap Snapshot
	for _, v := range g.sortedVehiclesLocked() {
		snap.Vehicles = append(snap.Vehicles, vehicleRecord(v, false))
	}
	for _, v := range sortedVehicles(removedVehicles) {
		snap.Vehicles = append(snap.Vehicles, vehicleRecord(v, true))
	}

	for _, c := range g.sortedCustomersLocked() {
		snap.Customers = append(snap.Customers, customerRecord(c, false))
	}
	for _, c := range sortedCustomers(removedCustomers) {
		snap.Customers = append(snap.Customers, customerRecord(c, true))
	}

	for _, r := range g.rentalsWhereLocked(func(*domain.Rental) bool { return true }) {
		snap.Rentals = append(snap.Rentals, RentalRecord{
			ID:               r.ID,
			CustomerID:       r.Customer.ID,
			VehicleID:        r.Vehicle.ID,
			StartDate:        r.StartDate,
			EndDate:          r.EndDate(),
			ActualReturnDate: r.ActualReturnDate(),
			Status:           string(r.Status()),
			TotalCost:        r.TotalCost(),
			Penalty:          r.LateReturnPenalty(),
			CreatedAt:        r.CreatedAt,
		})
	}
	return snap
}

func vehicleRecord(v *domain.Vehicle, removed bool) VehicleRecord {
	rec := VehicleRecord{
		ID:          v.ID,
		Brand:       v.Brand,
		Model:       v.Model,
		Category:    string(v.Category),
		DailyRate:   v.DailyRate,
		State:       string(v.State()),
		RentalCount: v.RentalCount(),
		Removed:     removed,
	}
	switch k := v.Kind.(type) {
	case domain.CarKind:
		rec.NumDoors = k.NumDoors
		rec.FuelType = k.FuelType
	case domain.TruckKind:
		rec.PayloadCapacity = k.PayloadCapacity
	case domain.MotorcycleKind:
		rec.EngineCC = k.EngineCC
	}
	for _, m := range v.MaintenanceHistory() {
		rec.Maintenance = append(rec.Maintenance, MaintenanceEntry{
			Date:          m.Date,
			Description:   m.Description,
			EstimatedDays: m.EstimatedDays,
			Completed:     m.Completed,
			CompletedAt:   m.CompletedAt,
		})
	}
	return rec
}

func customerRecord(c *domain.Customer, removed bool) CustomerRecord {
	return CustomerRecord{
		ID:           c.ID,
		FirstName:    c.FirstName,
		LastName:     c.LastName,
		Age:          c.Age,
		License:      string(c.License),
		RegisteredAt: c.RegisteredAt,
		TotalSpent:   c.TotalSpent(),
		Removed:      removed,
	}
}

// Restore replaces the engine state with the snapshot's. Rentals are
// relinked to their customer and vehicle by id; completed rentals are
// reappended to their customer's history in id order, which also
// reaccumulates each customer's spend. Records flagged removed are
// rebuilt only as rental link targets and stay out of the fleet. Id
// counters resume past the highest restored id, removed ids included.
func (g *Registry) Restore(snap Snapshot) error {
	vehicles := make(map[int64]*domain.Vehicle, len(snap.Vehicles))
	customers := make(map[int64]*domain.Customer, len(snap.Customers))
	rentals := make(map[int64]*domain.Rental, len(snap.Rentals))

	var nextVehicle, nextCustomer, nextRental int64 = 1, 1, 1
	var removedVehicleIDs, removedCustomerIDs []int64

	for _, rec := range snap.Vehicles {
		category, err := domain.ParseCategory(rec.Category)
		if err != nil {
			return fmt.Errorf("vehicle %d: %w", rec.ID, err)
		}
		var maintenance []domain.MaintenanceRecord
		for _, m := range rec.Maintenance {
			maintenance = append(maintenance, domain.MaintenanceRecord{
				Date:          m.Date,
				Description:   m.Description,
				EstimatedDays: m.EstimatedDays,
				Completed:     m.Completed,
				CompletedAt:   m.CompletedAt,
			})
		}
		vehicles[rec.ID] = domain.RestoreVehicle(domain.VehicleRestore{
			ID:          rec.ID,
			Brand:       rec.Brand,
			Model:       rec.Model,
			Category:    category,
			DailyRate:   rec.DailyRate,
			Kind:        kindForRecord(category, rec),
			State:       domain.VehicleState(rec.State),
			RentalCount: rec.RentalCount,
			Maintenance: maintenance,
		})
		if rec.Removed {
			removedVehicleIDs = append(removedVehicleIDs, rec.ID)
		}
		if rec.ID >= nextVehicle {
			nextVehicle = rec.ID + 1
		}
	}

	for _, rec := range snap.Customers {
		customers[rec.ID] = domain.RestoreCustomer(domain.CustomerRestore{
			ID:           rec.ID,
			FirstName:    rec.FirstName,
			LastName:     rec.LastName,
			Age:          rec.Age,
			License:      domain.LicenseClass(rec.License),
			RegisteredAt: rec.RegisteredAt,
		})
		if rec.Removed {
			removedCustomerIDs = append(removedCustomerIDs, rec.ID)
		}
		if rec.ID >= nextCustomer {
			nextCustomer = rec.ID + 1
		}
	}

	for _, rec := range snap.Rentals {
		customer, ok := customers[rec.CustomerID]
		if !ok {
			return fmt.Errorf("rental %d references customer %d: %w", rec.ID, rec.CustomerID, domain.ErrNotFound)
		}
		vehicle, ok := vehicles[rec.VehicleID]
		if !ok {
			return fmt.Errorf("rental %d references vehicle %d: %w", rec.ID, rec.VehicleID, domain.ErrNotFound)
		}
		r := domain.RestoreRental(domain.RentalRestore{
			ID:               rec.ID,
			Customer:         customer,
			Vehicle:          vehicle,
			StartDate:        rec.StartDate,
			EndDate:          rec.EndDate,
			ActualReturnDate: rec.ActualReturnDate,
			Status:           domain.RentalStatus(rec.Status),
			TotalCost:        rec.TotalCost,
			Penalty:          rec.Penalty,
			CreatedAt:        rec.CreatedAt,
		})
		rentals[rec.ID] = r
		if r.Status() == domain.RentalStatusCompleted {
			customer.AppendRentalToHistory(r)
		}
		if rec.ID >= nextRental {
			nextRental = rec.ID + 1
		}
	}

	for _, id := range removedVehicleIDs {
		delete(vehicles, id)
	}
	for _, id := range removedCustomerIDs {
		delete(customers, id)
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.vehicles = vehicles
	g.customers = customers
	g.rentals = rentals
	g.nextVehicleID = nextVehicle
	g.nextCustomerID = nextCustomer
	g.nextRentalID = nextRental
	return nil
}

func kindForRecord(category domain.Category, rec VehicleRecord) domain.VehicleKind {
	switch category {
	case domain.CategoryCar, domain.CategoryVan:
		return domain.CarKind{NumDoors: rec.NumDoors, FuelType: rec.FuelType}
	case domain.CategoryTruck:
		return domain.TruckKind{PayloadCapacity: rec.PayloadCapacity}
	default:
		return domain.MotorcycleKind{EngineCC: rec.EngineCC}
	}
}

func (g *Registry) sortedVehiclesLocked() []*domain.Vehicle {
	return sortedVehicles(g.vehicles)
}

func (g *Registry) sortedCustomersLocked() []*domain.Customer {
	return sortedCustomers(g.customers)
}

func sortedVehicles(vehicles map[int64]*domain.Vehicle) []*domain.Vehicle {
	out := make([]*domain.Vehicle, 0, len(vehicles))
	for _, v := range vehicles {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func sortedCustomers(customers map[int64]*domain.Customer) []*domain.Customer {
	out := make([]*domain.Customer, 0, len(customers))
	for _, c := range customers {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

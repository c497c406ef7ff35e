package fleet

import (
	"fmt"
	"sort"
	"sync"

	"fleet/internal/domain"
)

// Registry is the rental engine. It owns every vehicle, customer and
// rental, assigns their identities, and enforces the cross-entity
// invariants (availability, eligibility, overlap). All state lives in
// memory; persistence snapshots and restores it through plain records.
//
// A single mutex guards the three collections and the id counters:
// mutating operations hold it exclusively for their full duration so the
// overlap check and id assignment stay race-free, reads share it.
type Registry struct {
	mu sync.RWMutex

	vehicles  map[int64]*domain.Vehicle
	customers map[int64]*domain.Customer
	rentals   map[int64]*domain.Rental

	nextVehicleID  int64
	nextCustomerID int64
	nextRentalID   int64
}

// NewRegistry creates an empty registry. Ids start at 1.
func NewRegistry() *Registry {
	return &Registry{
		vehicles:       make(map[int64]*domain.Vehicle),
		customers:      make(map[int64]*domain.Customer),
		rentals:        make(map[int64]*domain.Rental),
		nextVehicleID:  1,
		nextCustomerID: 1,
		nextRentalID:   1,
	}
}

// AddVehicleParams contains the parameters for adding a vehicle.
// The kind-specific fields are read according to Category; zero values
// fall back to sensible defaults.
type AddVehicleParams struct {
	Brand     string
	Model     string
	Category  domain.Category
	DailyRate float64

	// Car and van.
	NumDoors int
	FuelType string

	// Truck.
	PayloadCapacity float64

	// Bike and scooter.
	EngineCC int
}

// AddVehicle constructs the vehicle variant matching the category,
// assigns the next vehicle id and stores it.
func (g *Registry) AddVehicle(p AddVehicleParams) (*domain.Vehicle, error) {
	kind, err := kindForCategory(p)
	if err != nil {
		return nil, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	id := g.nextVehicleID
	g.nextVehicleID++

	v := domain.NewVehicle(id, p.Brand, p.Model, p.Category, p.DailyRate, kind)
	g.vehicles[id] = v
	return v, nil
}

func kindForCategory(p AddVehicleParams) (domain.VehicleKind, error) {
	switch p.Category {
	case domain.CategoryCar, domain.CategoryVan:
		doors := p.NumDoors
		if doors == 0 {
			doors = 4
		}
		fuel := p.FuelType
		if fuel == "" {
			fuel = "petrol"
		}
		return domain.CarKind{NumDoors: doors, FuelType: fuel}, nil
	case domain.CategoryTruck:
		payload := p.PayloadCapacity
		if payload == 0 {
			payload = 5.0
		}
		return domain.TruckKind{PayloadCapacity: payload}, nil
	case domain.CategoryBike, domain.CategoryScooter:
		cc := p.EngineCC
		if cc == 0 {
			cc = 600
		}
		return domain.MotorcycleKind{EngineCC: cc}, nil
	default:
		return nil, fmt.Errorf("category %q: %w", p.Category, domain.ErrUnknownCategory)
	}
}

// RemoveVehicle deletes a vehicle from the fleet. Vehicles that are
// rented or in maintenance cannot be removed.
func (g *Registry) RemoveVehicle(id int64) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	v, ok := g.vehicles[id]
	if !ok {
		return fmt.Errorf("vehicle %d: %w", id, domain.ErrNotFound)
	}
	if v.State() == domain.VehicleStateRented || v.State() == domain.VehicleStateMaintenance {
		return fmt.Errorf("vehicle %d is %s: %w", id, v.State(), domain.ErrInvalidState)
	}
	delete(g.vehicles, id)
	return nil
}

// GetVehicle retrieves a vehicle by id.
func (g *Registry) GetVehicle(id int64) (*domain.Vehicle, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.vehicleLocked(id)
}

func (g *Registry) vehicleLocked(id int64) (*domain.Vehicle, error) {
	v, ok := g.vehicles[id]
	if !ok {
		return nil, fmt.Errorf("vehicle %d: %w", id, domain.ErrNotFound)
	}
	return v, nil
}

// GetAllVehicles returns every vehicle in the fleet, ordered by id.
func (g *Registry) GetAllVehicles() []*domain.Vehicle {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]*domain.Vehicle, 0, len(g.vehicles))
	for _, v := range g.vehicles {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// GetAvailableVehicles returns the vehicles currently available for rent.
func (g *Registry) GetAvailableVehicles() []*domain.Vehicle {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var out []*domain.Vehicle
	for _, v := range g.vehicles {
		if v.IsAvailable() {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// GetVehiclesByCategory returns the vehicles in the given category.
func (g *Registry) GetVehiclesByCategory(category domain.Category) []*domain.Vehicle {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var out []*domain.Vehicle
	for _, v := range g.vehicles {
		if v.Category == category {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ScheduleMaintenance puts a vehicle into maintenance.
func (g *Registry) ScheduleMaintenance(vehicleID int64, description string, estimatedDays int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	v, err := g.vehicleLocked(vehicleID)
	if err != nil {
		return err
	}
	return v.ScheduleMaintenance(description, estimatedDays)
}

// CompleteMaintenance finishes a vehicle's maintenance and makes it
// available again.
func (g *Registry) CompleteMaintenance(vehicleID int64) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	v, err := g.vehicleLocked(vehicleID)
	if err != nil {
		return err
	}
	v.CompleteMaintenance()
	return nil
}

// AddCustomer registers a customer and assigns the next customer id.
func (g *Registry) AddCustomer(firstName, lastName string, age int, license domain.LicenseClass) *domain.Customer {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := g.nextCustomerID
	g.nextCustomerID++

	c := domain.NewCustomer(id, firstName, lastName, age, license)
	g.customers[id] = c
	return c
}

// RemoveCustomer deletes a customer. Rentals referencing the customer
// are kept; they borrow the customer object, which stays alive through
// those references.
func (g *Registry) RemoveCustomer(id int64) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.customers[id]; !ok {
		return fmt.Errorf("customer %d: %w", id, domain.ErrNotFound)
	}
	delete(g.customers, id)
	return nil
}

// GetCustomer retrieves a customer by id.
func (g *Registry) GetCustomer(id int64) (*domain.Customer, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.customerLocked(id)
}

func (g *Registry) customerLocked(id int64) (*domain.Customer, error) {
	c, ok := g.customers[id]
	if !ok {
		return nil, fmt.Errorf("customer %d: %w", id, domain.ErrNotFound)
	}
	return c, nil
}

// GetAllCustomers returns every registered customer, ordered by id.
func (g *Registry) GetAllCustomers() []*domain.Customer {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]*domain.Customer, 0, len(g.customers))
	for _, c := range g.customers {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

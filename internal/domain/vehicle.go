package domain

import (
	"fmt"
	"time"
)

// VehicleState represents the current state of a vehicle.
type VehicleState string

const (
	VehicleStateAvailable   VehicleState = "AVAILABLE"
	VehicleStateRented      VehicleState = "RENTED"
	VehicleStateMaintenance VehicleState = "MAINTENANCE"
	VehicleStateReserved    VehicleState = "RESERVED"
)

// Category classifies vehicles for eligibility and licensing rules.
type Category string

const (
	CategoryCar     Category = "car"
	CategoryVan     Category = "van"
	CategoryTruck   Category = "truck"
	CategoryBike    Category = "bike"
	CategoryScooter Category = "scooter"
)

// ParseCategory validates a category string.
func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case CategoryCar, CategoryVan, CategoryTruck, CategoryBike, CategoryScooter:
		return Category(s), nil
	default:
		return "", fmt.Errorf("category %q: %w", s, ErrUnknownCategory)
	}
}

// VehicleKind carries the variant-specific attributes of a vehicle.
// Exactly one of CarKind, TruckKind or MotorcycleKind implements it;
// call sites resolve behavior with a type switch.
type VehicleKind interface {
	isVehicleKind()
}

// CarKind holds car and van specific attributes.
type CarKind struct {
	NumDoors int
	FuelType string
}

// TruckKind holds truck specific attributes.
type TruckKind struct {
	PayloadCapacity float64 // tons
}

// MotorcycleKind holds bike and scooter specific attributes.
type MotorcycleKind struct {
	EngineCC int
}

func (CarKind) isVehicleKind()        {}
func (TruckKind) isVehicleKind()      {}
func (MotorcycleKind) isVehicleKind() {}

// MaintenanceRecord is one entry in a vehicle's maintenance log.
type MaintenanceRecord struct {
	Date          time.Time
	Description   string
	EstimatedDays int
	Completed     bool
	CompletedAt   time.Time
}

// Vehicle represents a rentable vehicle in the fleet.
// Its state never changes except through the transition methods below,
// so a vehicle marked RENTED always corresponds to an engine operation.
type Vehicle struct {
	ID        int64
	Brand     string
	Model     string
	Category  Category
	DailyRate float64
	Kind      VehicleKind

	state       VehicleState
	maintenance []MaintenanceRecord
	rentalCount int
}

// NewVehicle creates a vehicle in the AVAILABLE state.
func NewVehicle(id int64, brand, model string, category Category, dailyRate float64, kind VehicleKind) *Vehicle {
	return &Vehicle{
		ID:        id,
		Brand:     brand,
		Model:     model,
		Category:  category,
		DailyRate: dailyRate,
		Kind:      kind,
		state:     VehicleStateAvailable,
	}
}

// State returns the current vehicle state.
func (v *Vehicle) State() VehicleState {
	return v.state
}

// IsAvailable reports whether the vehicle can start a rental.
func (v *Vehicle) IsAvailable() bool {
	return v.state == VehicleStateAvailable
}

// MarkRented transitions the vehicle to RENTED.
func (v *Vehicle) MarkRented() error {
	if v.state != VehicleStateAvailable {
		return fmt.Errorf("vehicle %d is %s: %w", v.ID, v.state, ErrInvalidState)
	}
	v.state = VehicleStateRented
	return nil
}

// MarkAvailable transitions the vehicle back to AVAILABLE.
func (v *Vehicle) MarkAvailable() {
	v.state = VehicleStateAvailable
}

// MarkReserved transitions the vehicle to RESERVED.
func (v *Vehicle) MarkReserved() error {
	if v.state != VehicleStateAvailable {
		return fmt.Errorf("vehicle %d is %s: %w", v.ID, v.state, ErrInvalidState)
	}
	v.state = VehicleStateReserved
	return nil
}

// ForceState sets the state without any transition check.
// Test scaffolding only; production code goes through the named transitions.
func (v *Vehicle) ForceState(state VehicleState) {
	v.state = state
}

// MinimumAge returns the minimum customer age for this vehicle's category.
func (v *Vehicle) MinimumAge() int {
	switch v.Category {
	case CategoryCar, CategoryVan:
		return 17
	case CategoryTruck:
		return 21
	case CategoryBike, CategoryScooter:
		return 18
	}
	return 0
}

// EligibleAge reports whether a customer of the given age meets the
// category's minimum age requirement.
func (v *Vehicle) EligibleAge(age int) bool {
	return age >= v.MinimumAge()
}

// Description returns a human-readable summary of the vehicle,
// resolved per kind.
func (v *Vehicle) Description() string {
	switch k := v.Kind.(type) {
	case CarKind:
		return fmt.Sprintf("%s %s - %s (%d-door, %s)", v.Brand, v.Model, v.Category, k.NumDoors, k.FuelType)
	case TruckKind:
		return fmt.Sprintf("%s %s - Payload: %.1fT", v.Brand, v.Model, k.PayloadCapacity)
	case MotorcycleKind:
		return fmt.Sprintf("%s %s - %dcc %s", v.Brand, v.Model, k.EngineCC, v.Category)
	}
	return fmt.Sprintf("%s %s", v.Brand, v.Model)
}

// ScheduleMaintenance appends a maintenance record and moves the vehicle
// to MAINTENANCE. A rented vehicle cannot enter maintenance.
func (v *Vehicle) ScheduleMaintenance(description string, estimatedDays int) error {
	if v.state == VehicleStateRented {
		return fmt.Errorf("vehicle %d is rented: %w", v.ID, ErrInvalidState)
	}
	v.maintenance = append(v.maintenance, MaintenanceRecord{
		Date:          time.Now(),
		Description:   description,
		EstimatedDays: estimatedDays,
	})
	v.state = VehicleStateMaintenance
	return nil
}

// CompleteMaintenance marks the most recent maintenance record completed
// and returns the vehicle to AVAILABLE. Idempotent: calling it with no
// pending maintenance still leaves the vehicle available.
func (v *Vehicle) CompleteMaintenance() {
	if n := len(v.maintenance); n > 0 {
		v.maintenance[n-1].Completed = true
		v.maintenance[n-1].CompletedAt = time.Now()
	}
	v.state = VehicleStateAvailable
}

// MaintenanceHistory returns a copy of the maintenance log.
func (v *Vehicle) MaintenanceHistory() []MaintenanceRecord {
	out := make([]MaintenanceRecord, len(v.maintenance))
	copy(out, v.maintenance)
	return out
}

// IncrementRentalCount bumps the completed-rental counter.
func (v *Vehicle) IncrementRentalCount() {
	v.rentalCount++
}

// RentalCount returns the number of completed rentals for this vehicle.
func (v *Vehicle) RentalCount() int {
	return v.rentalCount
}

package domain

import "time"

// The Restore constructors rebuild entities from persisted records,
// bypassing the normal transition rules. They exist for the snapshot
// path only; regular code constructs entities through the New functions
// and mutates them through their operations.

// VehicleRestore carries a vehicle's persisted fields.
type VehicleRestore struct {
	ID          int64
	Brand       string
	Model       string
	Category    Category
	DailyRate   float64
	Kind        VehicleKind
	State       VehicleState
	RentalCount int
	Maintenance []MaintenanceRecord
}

// RestoreVehicle rebuilds a vehicle from a persisted record.
func RestoreVehicle(p VehicleRestore) *Vehicle {
	return &Vehicle{
		ID:          p.ID,
		Brand:       p.Brand,
		Model:       p.Model,
		Category:    p.Category,
		DailyRate:   p.DailyRate,
		Kind:        p.Kind,
		state:       p.State,
		maintenance: append([]MaintenanceRecord(nil), p.Maintenance...),
		rentalCount: p.RentalCount,
	}
}

// CustomerRestore carries a customer's persisted fields. The rental
// history is reattached separately, rental by rental, which also
// reaccumulates the total spend.
type CustomerRestore struct {
	ID           int64
	FirstName    string
	LastName     string
	Age          int
	License      LicenseClass
	RegisteredAt time.Time
}

// RestoreCustomer rebuilds a customer with an empty history.
func RestoreCustomer(p CustomerRestore) *Customer {
	return &Customer{
		ID:           p.ID,
		FirstName:    p.FirstName,
		LastName:     p.LastName,
		Age:          p.Age,
		License:      p.License,
		RegisteredAt: p.RegisteredAt,
	}
}

// RentalRestore carries a rental's persisted fields.
type RentalRestore struct {
	ID               int64
	Customer         *Customer
	Vehicle          *Vehicle
	StartDate        time.Time
	EndDate          time.Time
	ActualReturnDate time.Time
	Status           RentalStatus
	TotalCost        float64
	Penalty          float64
	CreatedAt        time.Time
}

// RestoreRental rebuilds a rental without touching the customer or
// vehicle it references.
func RestoreRental(p RentalRestore) *Rental {
	return &Rental{
		ID:           p.ID,
		Customer:     p.Customer,
		Vehicle:      p.Vehicle,
		StartDate:    p.StartDate,
		CreatedAt:    p.CreatedAt,
		endDate:      p.EndDate,
		actualReturn: p.ActualReturnDate,
		status:       p.Status,
		totalCost:    p.TotalCost,
		penalty:      p.Penalty,
	}
}

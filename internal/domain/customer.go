package domain

import "time"

// LicenseClass represents a driver's license classification.
type LicenseClass string

const (
	LicenseLightAuto  LicenseClass = "B" // cars and vans
	LicenseHeavyAuto  LicenseClass = "C" // trucks, also covers cars and vans
	LicenseMotorcycle LicenseClass = "A" // bikes and scooters
)

// ParseLicenseClass validates a license class string.
func ParseLicenseClass(s string) (LicenseClass, bool) {
	switch LicenseClass(s) {
	case LicenseLightAuto, LicenseHeavyAuto, LicenseMotorcycle:
		return LicenseClass(s), true
	}
	return "", false
}

// Customer represents a registered customer.
// Rental history is append-only; totalSpent accumulates each rental's cost
// at the time it is appended and is never retroactively corrected.
type Customer struct {
	ID           int64
	FirstName    string
	LastName     string
	Age          int
	License      LicenseClass
	RegisteredAt time.Time

	history    []*Rental
	totalSpent float64
}

// NewCustomer creates a customer with an empty rental history.
func NewCustomer(id int64, firstName, lastName string, age int, license LicenseClass) *Customer {
	return &Customer{
		ID:           id,
		FirstName:    firstName,
		LastName:     lastName,
		Age:          age,
		License:      license,
		RegisteredAt: time.Now(),
	}
}

// FullName returns the customer's full name.
func (c *Customer) FullName() string {
	return c.FirstName + " " + c.LastName
}

// CanRent reports whether the customer may rent the given vehicle.
// The customer must meet the category's minimum age and hold a matching
// license class.
func (c *Customer) CanRent(v *Vehicle) bool {
	if !v.EligibleAge(c.Age) {
		return false
	}
	switch v.Category {
	case CategoryCar, CategoryVan:
		return c.License == LicenseLightAuto || c.License == LicenseHeavyAuto
	case CategoryTruck:
		return c.License == LicenseHeavyAuto
	case CategoryBike, CategoryScooter:
		return c.License == LicenseMotorcycle
	}
	return false
}

// AppendRentalToHistory records a rental and accumulates its cost.
// Called exactly once per rental, by the completion path.
func (c *Customer) AppendRentalToHistory(r *Rental) {
	c.history = append(c.history, r)
	c.totalSpent += r.TotalCost()
}

// RentalCount returns the number of rentals in the customer's history.
func (c *Customer) RentalCount() int {
	return len(c.history)
}

// RentalHistory returns a copy of the customer's rental history.
func (c *Customer) RentalHistory() []*Rental {
	out := make([]*Rental, len(c.history))
	copy(out, c.history)
	return out
}

// TotalSpent returns the accumulated spend across the rental history.
func (c *Customer) TotalSpent() float64 {
	return c.totalSpent
}

// DiscountRate returns the loyalty discount tier for the customer,
// derived from completed rentals. Informational only: rental cost is
// billed at the full daily rate.
func (c *Customer) DiscountRate() float64 {
	n := len(c.history)
	switch {
	case n >= 20:
		return 0.15
	case n >= 10:
		return 0.10
	case n >= 5:
		return 0.05
	}
	return 0
}

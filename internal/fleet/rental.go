package fleet

import (
	"fmt"
	"sort"
	"time"

	"fleet/internal/domain"
)

// CreateRental validates and creates a rental. The checks run strictly
// in order and the first failure wins; no state is touched until every
// check has passed.
//
//  1. Resolve customer and vehicle.
//  2. Availability: maintenance and reserved vehicles are rejected. A
//     vehicle marked RENTED is accepted only when an active rental backs
//     that state; a rented state with no backing rental means the state
//     was manipulated outside the engine, and is rejected.
//  3. Eligibility: the customer must satisfy the category's age and
//     license rules.
//  4. Date sanity: start must precede end.
//  5. Overlap: the window must not intersect any active rental on the
//     same vehicle (half-open interval test).
func (g *Registry) CreateRental(customerID, vehicleID int64, start, end time.Time) (*domain.Rental, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	customer, err := g.customerLocked(customerID)
	if err != nil {
		return nil, err
	}
	vehicle, err := g.vehicleLocked(vehicleID)
	if err != nil {
		return nil, err
	}

	switch vehicle.State() {
	case domain.VehicleStateMaintenance, domain.VehicleStateReserved:
		return nil, fmt.Errorf("vehicle %d is %s: %w", vehicleID, vehicle.State(), domain.ErrInvalidState)
	case domain.VehicleStateRented:
		if !g.hasActiveRentalLocked(vehicleID) {
			return nil, fmt.Errorf("vehicle %d is %s: %w", vehicleID, vehicle.State(), domain.ErrInvalidState)
		}
	}

	if !customer.CanRent(vehicle) {
		return nil, fmt.Errorf("customer %d cannot rent vehicle %d: %w", customerID, vehicleID, domain.ErrNotEligible)
	}

	if !start.Before(end) {
		return nil, fmt.Errorf("start date must be before end date: %w", domain.ErrInvalidDateRange)
	}

	for _, other := range g.rentals {
		if other.Vehicle.ID != vehicleID || !other.IsActive() {
			continue
		}
		if start.Before(other.EndDate()) && end.After(other.StartDate) {
			return nil, fmt.Errorf("vehicle %d is already reserved for these dates: %w", vehicleID, domain.ErrOverlap)
		}
	}

	id := g.nextRentalID
	g.nextRentalID++

	rental, err := domain.NewRental(id, customer, vehicle, start, end)
	if err != nil {
		g.nextRentalID--
		return nil, err
	}
	g.rentals[id] = rental

	if vehicle.IsAvailable() {
		if err := vehicle.MarkRented(); err != nil {
			delete(g.rentals, id)
			g.nextRentalID--
			return nil, err
		}
	}
	return rental, nil
}

func (g *Registry) hasActiveRentalLocked(vehicleID int64) bool {
	for _, r := range g.rentals {
		if r.Vehicle.ID == vehicleID && r.IsActive() {
			return true
		}
	}
	return false
}

// CompleteRental finishes a rental. A zero actualReturn means the
// vehicle came back now. Late returns are penalized by the rental.
func (g *Registry) CompleteRental(id int64, actualReturn time.Time) (*domain.Rental, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	r, err := g.rentalLocked(id)
	if err != nil {
		return nil, err
	}
	if err := r.Complete(actualReturn); err != nil {
		return nil, err
	}
	return r, nil
}

// CancelRental voids a rental and frees the vehicle.
func (g *Registry) CancelRental(id int64) (*domain.Rental, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	r, err := g.rentalLocked(id)
	if err != nil {
		return nil, err
	}
	if err := r.Cancel(); err != nil {
		return nil, err
	}
	r.Vehicle.MarkAvailable()
	return r, nil
}

// ExtendRental moves an active rental's end date forward.
func (g *Registry) ExtendRental(id int64, newEnd time.Time) (*domain.Rental, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	r, err := g.rentalLocked(id)
	if err != nil {
		return nil, err
	}
	if err := r.Extend(newEnd); err != nil {
		return nil, err
	}
	return r, nil
}

// GetRental retrieves a rental by id.
func (g *Registry) GetRental(id int64) (*domain.Rental, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.rentalLocked(id)
}

func (g *Registry) rentalLocked(id int64) (*domain.Rental, error) {
	r, ok := g.rentals[id]
	if !ok {
		return nil, fmt.Errorf("rental %d: %w", id, domain.ErrNotFound)
	}
	return r, nil
}

// GetAllRentals returns every rental, ordered by id. Rentals are never
// deleted; terminal ones stay for reporting.
func (g *Registry) GetAllRentals() []*domain.Rental {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.rentalsWhereLocked(func(*domain.Rental) bool { return true })
}

// GetActiveRentals returns the rentals that have not reached a terminal
// status.
func (g *Registry) GetActiveRentals() []*domain.Rental {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.rentalsWhereLocked((*domain.Rental).IsActive)
}

// GetCompletedRentals returns the completed rentals.
func (g *Registry) GetCompletedRentals() []*domain.Rental {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.rentalsWhereLocked(func(r *domain.Rental) bool {
		return r.Status() == domain.RentalStatusCompleted
	})
}

// GetOverdueRentals returns the active rentals whose end date has passed.
func (g *Registry) GetOverdueRentals() []*domain.Rental {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.rentalsWhereLocked((*domain.Rental).IsOverdue)
}

func (g *Registry) rentalsWhereLocked(keep func(*domain.Rental) bool) []*domain.Rental {
	var out []*domain.Rental
	for _, r := range g.rentals {
		if keep(r) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

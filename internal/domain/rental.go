package domain

import (
	"fmt"
	"time"
)

// RentalStatus represents the current status of a rental.
type RentalStatus string

const (
	RentalStatusActive    RentalStatus = "ACTIVE"
	RentalStatusCompleted RentalStatus = "COMPLETED"
	RentalStatusCancelled RentalStatus = "CANCELLED"
)

// lateReturnPenaltyRate is the fraction of the daily rate charged per day
// of late return.
const lateReturnPenaltyRate = 0.5

// Rental binds a customer to a vehicle over a date range.
// Customer and Vehicle are borrowed references; the registry owns both.
// Status moves ACTIVE -> COMPLETED or ACTIVE -> CANCELLED, both terminal.
type Rental struct {
	ID        int64
	Customer  *Customer
	Vehicle   *Vehicle
	StartDate time.Time
	CreatedAt time.Time

	endDate      time.Time
	actualReturn time.Time
	status       RentalStatus
	totalCost    float64
	penalty      float64
}

// NewRental creates an active rental and computes its initial cost.
func NewRental(id int64, customer *Customer, vehicle *Vehicle, start, end time.Time) (*Rental, error) {
	if !end.After(start) {
		return nil, fmt.Errorf("end date must be after start date: %w", ErrInvalidDateRange)
	}
	r := &Rental{
		ID:        id,
		Customer:  customer,
		Vehicle:   vehicle,
		StartDate: start,
		CreatedAt: time.Now(),
		endDate:   end,
		status:    RentalStatusActive,
	}
	r.totalCost = r.calculateCost()
	return r, nil
}

// calculateCost bills whole days at the vehicle's daily rate, with a
// minimum of one billable day.
func (r *Rental) calculateCost() float64 {
	days := wholeDaysBetween(r.StartDate, r.endDate)
	if days == 0 {
		days = 1
	}
	return float64(days) * r.Vehicle.DailyRate
}

// Complete finishes the rental. A zero actualReturn means "now".
// A return past the agreed end date incurs a penalty of half the daily
// rate per late day, added to the total cost. Completion also bumps the
// vehicle's rental counter, frees the vehicle and appends this rental to
// the customer's history.
func (r *Rental) Complete(actualReturn time.Time) error {
	if r.status != RentalStatusActive {
		return fmt.Errorf("rental %d is %s: %w", r.ID, r.status, ErrInvalidState)
	}
	if actualReturn.IsZero() {
		actualReturn = time.Now()
	}

	r.actualReturn = actualReturn
	r.status = RentalStatusCompleted

	if actualReturn.After(r.endDate) {
		lateDays := wholeDaysBetween(r.endDate, actualReturn)
		r.penalty = float64(lateDays) * r.Vehicle.DailyRate * lateReturnPenaltyRate
		r.totalCost += r.penalty
	}

	r.Vehicle.IncrementRentalCount()
	r.Vehicle.MarkAvailable()
	r.Customer.AppendRentalToHistory(r)
	return nil
}

// Cancel voids the rental. The customer is not charged.
func (r *Rental) Cancel() error {
	if r.status != RentalStatusActive {
		return fmt.Errorf("rental %d is %s: %w", r.ID, r.status, ErrInvalidState)
	}
	r.status = RentalStatusCancelled
	r.totalCost = 0
	r.penalty = 0
	return nil
}

// Extend moves the end date forward and recomputes the cost from scratch.
// Only active rentals can be extended.
func (r *Rental) Extend(newEnd time.Time) error {
	if r.status != RentalStatusActive {
		return fmt.Errorf("rental %d is %s: %w", r.ID, r.status, ErrInvalidState)
	}
	if !newEnd.After(r.endDate) {
		return fmt.Errorf("new end date must be after current end date: %w", ErrInvalidDateRange)
	}
	r.endDate = newEnd
	r.totalCost = r.calculateCost()
	return nil
}

// Status returns the current rental status.
func (r *Rental) Status() RentalStatus {
	return r.status
}

// IsActive reports whether the rental has not reached a terminal status.
func (r *Rental) IsActive() bool {
	return r.status == RentalStatusActive
}

// IsOverdue reports whether an active rental's end date has passed.
func (r *Rental) IsOverdue() bool {
	return r.status == RentalStatusActive && time.Now().After(r.endDate)
}

// EndDate returns the agreed end date.
func (r *Rental) EndDate() time.Time {
	return r.endDate
}

// ActualReturnDate returns the actual return date; zero until completion.
func (r *Rental) ActualReturnDate() time.Time {
	return r.actualReturn
}

// TotalCost returns the current total cost, including any penalty.
func (r *Rental) TotalCost() float64 {
	return r.totalCost
}

// LateReturnPenalty returns the penalty charged at completion, if any.
func (r *Rental) LateReturnPenalty() float64 {
	return r.penalty
}

// DurationDays returns the rental duration in billable days.
func (r *Rental) DurationDays() int {
	days := wholeDaysBetween(r.StartDate, r.endDate)
	if days < 1 {
		return 1
	}
	return days
}

// RemainingDays returns the whole days left until the end date, zero for
// terminal or already-due rentals.
func (r *Rental) RemainingDays() int {
	if r.status != RentalStatusActive {
		return 0
	}
	remaining := wholeDaysBetween(time.Now(), r.endDate)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// wholeDaysBetween truncates the interval between two instants to whole
// days. Negative if to precedes from.
func wholeDaysBetween(from, to time.Time) int {
	return int(to.Sub(from) / (24 * time.Hour))
}

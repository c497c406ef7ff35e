package domain

import "errors"

var (
	// ErrNotFound is returned when a referenced vehicle, customer or
	// rental does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrInvalidState is returned when an operation targets an entity in
	// an incompatible state.
	ErrInvalidState = errors.New("invalid state for operation")

	// ErrNotEligible is returned when a customer fails the age or license
	// requirement for a vehicle's category.
	ErrNotEligible = errors.New("customer not eligible for vehicle")

	// ErrInvalidDateRange is returned when an end date does not follow
	// its start date, or an extension does not move the end date forward.
	ErrInvalidDateRange = errors.New("invalid date range")

	// ErrOverlap is returned when a requested rental window conflicts
	// with another active rental on the same vehicle.
	ErrOverlap = errors.New("dates overlap an active rental")

	// ErrUnknownCategory is returned when a vehicle category is not
	// recognized.
	ErrUnknownCategory = errors.New("unknown vehicle category")
)

package fleet

import (
	"errors"
	"testing"
	"time"

	"fleet/internal/domain"
)

func TestSnapshotRestore_RoundTrip(t *testing.T) {
	t.Parallel()

	g := NewRegistry()
	car := addTestCar(t, g, 50)
	truck, err := g.AddVehicle(AddVehicleParams{
		Brand:           "Volvo",
		Model:           "FH16",
		Category:        domain.CategoryTruck,
		DailyRate:       120,
		PayloadCapacity: 12.5,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c := g.AddCustomer("Ada", "Lovelace", 30, domain.LicenseLightAuto)

	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	completed, err := g.CreateRental(c.ID, car.ID, start, start.AddDate(0, 0, 5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Two days late: total 300 including a 50 penalty.
	if _, err := g.CompleteRental(completed.ID, start.AddDate(0, 0, 7)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	future := time.Now().AddDate(0, 0, 1)
	active, err := g.CreateRental(c.ID, car.ID, future, future.AddDate(0, 0, 3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := g.ScheduleMaintenance(truck.ID, "engine check", 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	restored := NewRegistry()
	if err := restored.Restore(g.Snapshot()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Vehicles survive with state, kind and counters.
	gotCar, err := restored.GetVehicle(car.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotCar.State() != domain.VehicleStateRented {
		t.Errorf("expected car state %s, got %s", domain.VehicleStateRented, gotCar.State())
	}
	if gotCar.RentalCount() != 1 {
		t.Errorf("expected car rental count 1, got %d", gotCar.RentalCount())
	}

	gotTruck, err := restored.GetVehicle(truck.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotTruck.State() != domain.VehicleStateMaintenance {
		t.Errorf("expected truck state %s, got %s", domain.VehicleStateMaintenance, gotTruck.State())
	}
	kind, ok := gotTruck.Kind.(domain.TruckKind)
	if !ok || kind.PayloadCapacity != 12.5 {
		t.Errorf("expected truck kind with payload 12.5, got %#v", gotTruck.Kind)
	}
	if history := gotTruck.MaintenanceHistory(); len(history) != 1 || history[0].Description != "engine check" {
		t.Errorf("expected restored maintenance history, got %v", history)
	}

	// Customer history and spend are rebuilt from completed rentals.
	gotCustomer, err := restored.GetCustomer(c.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotCustomer.RentalCount() != 1 {
		t.Errorf("expected 1 rental in history, got %d", gotCustomer.RentalCount())
	}
	if gotCustomer.TotalSpent() != 300 {
		t.Errorf("expected total spent 300, got %.2f", gotCustomer.TotalSpent())
	}

	// Rentals relink to the restored objects.
	gotActive, err := restored.GetRental(active.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotActive.Customer != gotCustomer || gotActive.Vehicle != gotCar {
		t.Error("expected restored rental to reference restored entities")
	}
	if gotActive.TotalCost() != 150 {
		t.Errorf("expected active rental cost 150, got %.2f", gotActive.TotalCost())
	}

	gotCompleted, err := restored.GetRental(completed.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotCompleted.Status() != domain.RentalStatusCompleted {
		t.Errorf("expected status %s, got %s", domain.RentalStatusCompleted, gotCompleted.Status())
	}
	if gotCompleted.LateReturnPenalty() != 50 {
		t.Errorf("expected penalty 50, got %.2f", gotCompleted.LateReturnPenalty())
	}
}

func TestSnapshotRestore_AfterEntityRemoval(t *testing.T) {
	t.Parallel()

	g := NewRegistry()
	v := addTestCar(t, g, 50)
	keeper := g.AddCustomer("Ada", "Lovelace", 30, domain.LicenseLightAuto)
	leaver := g.AddCustomer("Alan", "Turing", 41, domain.LicenseHeavyAuto)

	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	r, err := g.CreateRental(leaver.ID, v.ID, start, start.AddDate(0, 0, 5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := g.CompleteRental(r.ID, start.AddDate(0, 0, 5)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Both removals are legal; the completed rental keeps its borrowed
	// references.
	if err := g.RemoveCustomer(leaver.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := g.RemoveVehicle(v.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	snap := g.Snapshot()

	restored := NewRegistry()
	if err := restored.Restore(snap); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The rental survives, still linked to the removed entities.
	gotRental, err := restored.GetRental(r.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotRental.Customer.ID != leaver.ID || gotRental.Vehicle.ID != v.ID {
		t.Errorf("expected rental to reference customer %d and vehicle %d, got %d and %d",
			leaver.ID, v.ID, gotRental.Customer.ID, gotRental.Vehicle.ID)
	}
	if gotRental.TotalCost() != 250 {
		t.Errorf("expected cost 250, got %.2f", gotRental.TotalCost())
	}

	// Removed entities stay out of the fleet.
	if _, err := restored.GetCustomer(leaver.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound for removed customer, got %v", err)
	}
	if _, err := restored.GetVehicle(v.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound for removed vehicle, got %v", err)
	}
	if got := restored.GetAllCustomers(); len(got) != 1 || got[0].ID != keeper.ID {
		t.Errorf("expected only customer %d, got %v", keeper.ID, got)
	}
	if got := restored.GetAllVehicles(); len(got) != 0 {
		t.Errorf("expected no vehicles, got %v", got)
	}

	// Removed ids are not reissued.
	if newVehicle := addTestCar(t, restored, 60); newVehicle.ID != v.ID+1 {
		t.Errorf("expected vehicle id %d, got %d", v.ID+1, newVehicle.ID)
	}
	if newCustomer := restored.AddCustomer("Grace", "Hopper", 35, domain.LicenseLightAuto); newCustomer.ID != leaver.ID+1 {
		t.Errorf("expected customer id %d, got %d", leaver.ID+1, newCustomer.ID)
	}
}

func TestSnapshotRestore_CountersResume(t *testing.T) {
	t.Parallel()

	g := NewRegistry()
	addTestCar(t, g, 50)
	addTestCar(t, g, 60)
	g.AddCustomer("Ada", "Lovelace", 30, domain.LicenseLightAuto)

	restored := NewRegistry()
	if err := restored.Restore(g.Snapshot()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	v := addTestCar(t, restored, 70)
	if v.ID != 3 {
		t.Errorf("expected next vehicle id 3, got %d", v.ID)
	}
	c := restored.AddCustomer("Alan", "Turing", 41, domain.LicenseHeavyAuto)
	if c.ID != 2 {
		t.Errorf("expected next customer id 2, got %d", c.ID)
	}
}

func TestSnapshotRestore_EmptySnapshot(t *testing.T) {
	t.Parallel()

	restored := NewRegistry()
	if err := restored.Restore(Snapshot{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(restored.GetAllVehicles()) != 0 || len(restored.GetAllCustomers()) != 0 || len(restored.GetAllRentals()) != 0 {
		t.Error("expected empty registry after restoring empty snapshot")
	}

	v := addTestCar(t, restored, 50)
	if v.ID != 1 {
		t.Errorf("expected ids to start at 1, got %d", v.ID)
	}
}

func TestSnapshotRestore_RejectsBadReferences(t *testing.T) {
	t.Parallel()

	snap := Snapshot{
		Rentals: []RentalRecord{{
			ID:         1,
			CustomerID: 42,
			VehicleID:  7,
			Status:     string(domain.RentalStatusActive),
		}},
	}

	err := NewRegistry().Restore(snap)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSnapshotRestore_RejectsUnknownCategory(t *testing.T) {
	t.Parallel()

	snap := Snapshot{
		Vehicles: []VehicleRecord{{
			ID:       1,
			Brand:    "Boeing",
			Model:    "747",
			Category: "plane",
			State:    string(domain.VehicleStateAvailable),
		}},
	}

	err := NewRegistry().Restore(snap)
	if !errors.Is(err, domain.ErrUnknownCategory) {
		t.Errorf("expected ErrUnknownCategory, got %v", err)
	}
}

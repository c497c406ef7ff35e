package fleet

import (
	"testing"
	"time"

	"fleet/internal/domain"
)

func searchFixture(t *testing.T) *Registry {
	t.Helper()

	g := NewRegistry()

	vehicles := []AddVehicleParams{
		{Brand: "Toyota", Model: "Corolla", Category: domain.CategoryCar, DailyRate: 50},
		{Brand: "Toyota", Model: "Hilux", Category: domain.CategoryTruck, DailyRate: 90},
		{Brand: "Honda", Model: "CB500", Category: domain.CategoryBike, DailyRate: 30},
		{Brand: "Ford", Model: "Transit", Category: domain.CategoryVan, DailyRate: 70},
	}
	for _, p := range vehicles {
		if _, err := g.AddVehicle(p); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	return g
}

func TestSearchVehicles(t *testing.T) {
	t.Parallel()

	g := searchFixture(t)

	tests := []struct {
		name  string
		query VehicleSearch
		want  int
	}{
		{"no filters", VehicleSearch{}, 4},
		{"by brand", VehicleSearch{Brand: "Toyota"}, 2},
		{"brand is case insensitive", VehicleSearch{Brand: "toyota"}, 2},
		{"by category", VehicleSearch{Category: "bike"}, 1},
		{"by max price", VehicleSearch{MaxPrice: 60}, 2},
		{"combined", VehicleSearch{Brand: "Toyota", MaxPrice: 60}, 1},
		{"no match", VehicleSearch{Brand: "Tesla"}, 0},
	}

	for _, tt := range tests {
		if got := g.SearchVehicles(tt.query); len(got) != tt.want {
			t.Errorf("%s: expected %d vehicles, got %d", tt.name, tt.want, len(got))
		}
	}
}

func TestSearchVehicles_AvailableOnly(t *testing.T) {
	t.Parallel()

	g := searchFixture(t)
	c := g.AddCustomer("Ada", "Lovelace", 30, domain.LicenseLightAuto)

	start := time.Now()
	if _, err := g.CreateRental(c.ID, 1, start, start.AddDate(0, 0, 3)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := g.SearchVehicles(VehicleSearch{AvailableOnly: true})
	if len(got) != 3 {
		t.Errorf("expected 3 available vehicles, got %d", len(got))
	}
	for _, v := range got {
		if v.ID == 1 {
			t.Error("rented vehicle must not appear in available-only search")
		}
	}
}

func TestSearchCustomers(t *testing.T) {
	t.Parallel()

	g := NewRegistry()
	g.AddCustomer("Ada", "Lovelace", 30, domain.LicenseLightAuto)
	g.AddCustomer("Alan", "Turing", 41, domain.LicenseHeavyAuto)
	g.AddCustomer("Grace", "Hopper", 35, domain.LicenseLightAuto)

	if got := g.SearchCustomers(CustomerSearch{LastName: "turing"}); len(got) != 1 || got[0].FirstName != "Alan" {
		t.Errorf("expected Alan Turing, got %v", got)
	}
	if got := g.SearchCustomers(CustomerSearch{}); len(got) != 3 {
		t.Errorf("expected 3 customers, got %d", len(got))
	}
	if got := g.SearchCustomers(CustomerSearch{LastName: "Doe"}); len(got) != 0 {
		t.Errorf("expected no customers, got %d", len(got))
	}
}

func TestSearchCustomers_MinRentals(t *testing.T) {
	t.Parallel()

	g := NewRegistry()
	v := addTestCar(t, g, 50)
	frequent := g.AddCustomer("Ada", "Lovelace", 30, domain.LicenseLightAuto)
	g.AddCustomer("Alan", "Turing", 41, domain.LicenseHeavyAuto)

	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 2; i++ {
		r, err := g.CreateRental(frequent.ID, v.ID, start, start.AddDate(0, 0, 2))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := g.CompleteRental(r.ID, start.AddDate(0, 0, 2)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		start = start.AddDate(0, 0, 5)
	}

	got := g.SearchCustomers(CustomerSearch{MinRentals: 2})
	if len(got) != 1 || got[0].ID != frequent.ID {
		t.Errorf("expected only the frequent customer, got %v", got)
	}
}

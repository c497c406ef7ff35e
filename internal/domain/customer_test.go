package domain

import (
	"testing"
	"time"
)

func TestCustomer_FullName(t *testing.T) {
	t.Parallel()

	c := NewCustomer(1, "Ada", "Lovelace", 30, LicenseLightAuto)
	if got := c.FullName(); got != "Ada Lovelace" {
		t.Errorf("expected %q, got %q", "Ada Lovelace", got)
	}
}

func TestCustomer_CanRent(t *testing.T) {
	t.Parallel()

	car := NewVehicle(1, "Toyota", "Corolla", CategoryCar, 50, CarKind{})
	van := NewVehicle(2, "Ford", "Transit", CategoryVan, 70, CarKind{})
	truck := NewVehicle(3, "Volvo", "FH16", CategoryTruck, 120, TruckKind{})
	bike := NewVehicle(4, "Honda", "CB500", CategoryBike, 30, MotorcycleKind{})

	tests := []struct {
		name    string
		age     int
		license LicenseClass
		vehicle *Vehicle
		want    bool
	}{
		{"adult B license rents car", 30, LicenseLightAuto, car, true},
		{"adult B license rents van", 30, LicenseLightAuto, van, true},
		{"C license covers car", 30, LicenseHeavyAuto, car, true},
		{"B license cannot rent truck", 30, LicenseLightAuto, truck, false},
		{"C license rents truck", 30, LicenseHeavyAuto, truck, true},
		{"A license rents bike", 30, LicenseMotorcycle, bike, true},
		{"A license cannot rent car", 30, LicenseMotorcycle, car, false},
		{"under 17 cannot rent car", 14, LicenseLightAuto, car, false},
		{"17 year old rents car", 17, LicenseLightAuto, car, true},
		{"under 21 cannot rent truck", 20, LicenseHeavyAuto, truck, false},
		{"under 18 cannot rent bike", 17, LicenseMotorcycle, bike, false},
	}

	for _, tt := range tests {
		c := NewCustomer(1, "Test", "Customer", tt.age, tt.license)
		if got := c.CanRent(tt.vehicle); got != tt.want {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.want, got)
		}
	}
}

func TestCustomer_HistoryAccumulatesSpend(t *testing.T) {
	t.Parallel()

	c := NewCustomer(1, "Ada", "Lovelace", 30, LicenseLightAuto)
	v := NewVehicle(1, "Toyota", "Corolla", CategoryCar, 50, CarKind{})

	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	r, err := NewRental(1, c, v, start, start.AddDate(0, 0, 5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if c.RentalCount() != 0 {
		t.Errorf("expected empty history before completion, got %d", c.RentalCount())
	}

	if err := r.Complete(start.AddDate(0, 0, 5)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if c.RentalCount() != 1 {
		t.Errorf("expected 1 rental in history, got %d", c.RentalCount())
	}
	if c.TotalSpent() != 250 {
		t.Errorf("expected total spent 250, got %.2f", c.TotalSpent())
	}

	history := c.RentalHistory()
	if len(history) != 1 || history[0].ID != 1 {
		t.Errorf("expected history to contain rental 1, got %v", history)
	}
}

func TestCustomer_DiscountRateTiers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		rentals int
		want    float64
	}{
		{0, 0},
		{4, 0},
		{5, 0.05},
		{9, 0.05},
		{10, 0.10},
		{19, 0.10},
		{20, 0.15},
		{25, 0.15},
	}

	for _, tt := range tests {
		c := NewCustomer(1, "Test", "Customer", 30, LicenseLightAuto)
		v := NewVehicle(1, "Toyota", "Corolla", CategoryCar, 50, CarKind{})
		start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
		for i := 0; i < tt.rentals; i++ {
			r, err := NewRental(int64(i+1), c, v, start, start.AddDate(0, 0, 1))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if err := r.Complete(start.AddDate(0, 0, 1)); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		}
		if got := c.DiscountRate(); got != tt.want {
			t.Errorf("%d rentals: expected discount %.2f, got %.2f", tt.rentals, tt.want, got)
		}
	}
}

func TestParseLicenseClass(t *testing.T) {
	t.Parallel()

	for _, valid := range []string{"A", "B", "C"} {
		if _, ok := ParseLicenseClass(valid); !ok {
			t.Errorf("expected %q to parse", valid)
		}
	}
	if _, ok := ParseLicenseClass("D"); ok {
		t.Error("expected unknown license class to fail")
	}
}

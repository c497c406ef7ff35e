package fleet

import "fleet/internal/domain"

// FleetReport summarizes the fleet by state and kind.
type FleetReport struct {
	TotalVehicles int `json:"total_vehicles"`
	Available     int `json:"available"`
	Rented        int `json:"rented"`
	InMaintenance int `json:"in_maintenance"`
	Reserved      int `json:"reserved"`

	Cars        int `json:"cars"`
	Trucks      int `json:"trucks"`
	Motorcycles int `json:"motorcycles"`
}

// GenerateFleetReport aggregates vehicle states and kinds.
func (g *Registry) GenerateFleetReport() FleetReport {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var report FleetReport
	report.TotalVehicles = len(g.vehicles)
	for _, v := range g.vehicles {
		switch v.State() {
		case domain.VehicleStateAvailable:
			report.Available++
		case domain.VehicleStateRented:
			report.Rented++
		case domain.VehicleStateMaintenance:
			report.InMaintenance++
		case domain.VehicleStateReserved:
			report.Reserved++
		}
		switch v.Kind.(type) {
		case domain.CarKind:
			report.Cars++
		case domain.TruckKind:
			report.Trucks++
		case domain.MotorcycleKind:
			report.Motorcycles++
		}
	}
	return report
}

// OverdueRentalDetail identifies one overdue rental.
type OverdueRentalDetail struct {
	RentalID     int64  `json:"rental_id"`
	CustomerName string `json:"customer_name"`
	VehicleID    int64  `json:"vehicle_id"`
}

// ActiveRentalsReport summarizes in-flight rentals.
type ActiveRentalsReport struct {
	TotalActiveRentals   int                   `json:"total_active_rentals"`
	OverdueRentals       int                   `json:"overdue_rentals"`
	OverdueDetails       []OverdueRentalDetail `json:"overdue_details"`
	TotalExpectedRevenue float64               `json:"total_expected_revenue"`
}

// GenerateActiveRentalsReport aggregates active and overdue rentals.
func (g *Registry) GenerateActiveRentalsReport() ActiveRentalsReport {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var report ActiveRentalsReport
	for _, r := range g.rentalsWhereLocked((*domain.Rental).IsActive) {
		report.TotalActiveRentals++
		report.TotalExpectedRevenue += r.TotalCost()
		if r.IsOverdue() {
			report.OverdueRentals++
			report.OverdueDetails = append(report.OverdueDetails, OverdueRentalDetail{
				RentalID:     r.ID,
				CustomerName: r.Customer.FullName(),
				VehicleID:    r.Vehicle.ID,
			})
		}
	}
	return report
}

// RevenueReport summarizes revenue over completed rentals.
type RevenueReport struct {
	TotalRevenue       float64 `json:"total_revenue"`
	TotalRentals       int     `json:"total_rentals"`
	AverageRentalValue float64 `json:"average_rental_value"`
	TotalPenalties     float64 `json:"total_penalties"`
	BaseRevenue        float64 `json:"base_revenue"`
}

// GenerateRevenueReport aggregates completed rentals. With no completed
// rentals every figure is zero.
func (g *Registry) GenerateRevenueReport() RevenueReport {
	g.mu.RLock()
	defer g.mu.RUnlock()

	completed := g.rentalsWhereLocked(func(r *domain.Rental) bool {
		return r.Status() == domain.RentalStatusCompleted
	})
	if len(completed) == 0 {
		return RevenueReport{}
	}

	var report RevenueReport
	report.TotalRentals = len(completed)
	for _, r := range completed {
		report.TotalRevenue += r.TotalCost()
		report.TotalPenalties += r.LateReturnPenalty()
	}
	report.AverageRentalValue = report.TotalRevenue / float64(len(completed))
	report.BaseRevenue = report.TotalRevenue - report.TotalPenalties
	return report
}

// CustomerStatistics summarizes the customer base.
type CustomerStatistics struct {
	TotalCustomers            int     `json:"total_customers"`
	TotalRentals              int     `json:"total_rentals"`
	AverageRentalsPerCustomer float64 `json:"average_rentals_per_customer"`
	TotalRevenueFromCustomers float64 `json:"total_revenue_from_customers"`
	AverageSpentPerCustomer   float64 `json:"average_spent_per_customer"`
}

// GenerateCustomerStatistics aggregates per-customer history and spend.
// With no customers every figure is zero.
func (g *Registry) GenerateCustomerStatistics() CustomerStatistics {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if len(g.customers) == 0 {
		return CustomerStatistics{}
	}

	var stats CustomerStatistics
	stats.TotalCustomers = len(g.customers)
	for _, c := range g.customers {
		stats.TotalRentals += c.RentalCount()
		stats.TotalRevenueFromCustomers += c.TotalSpent()
	}
	stats.AverageRentalsPerCustomer = float64(stats.TotalRentals) / float64(stats.TotalCustomers)
	stats.AverageSpentPerCustomer = stats.TotalRevenueFromCustomers / float64(stats.TotalCustomers)
	return stats
}

package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"fleet/internal/fleet"
	"fleet/internal/repository"
)

// SnapshotStore is a PostgreSQL implementation of repository.SnapshotStore.
// Each save rewrites the three tables inside one transaction, so a load
// always observes a consistent engine state.
type SnapshotStore struct {
	db *sql.DB
}

// NewSnapshotStore creates a new PostgreSQL snapshot store.
func NewSnapshotStore(db *sql.DB) *SnapshotStore {
	return &SnapshotStore{db: db}
}

// Ensure interface is satisfied.
var _ repository.SnapshotStore = (*SnapshotStore)(nil)

// EnsureSchema creates the snapshot tables if they do not exist.
func (s *SnapshotStore) EnsureSchema(ctx context.Context) error {
	const schema = `
		CREATE TABLE IF NOT EXISTS vehicles (
			id BIGINT PRIMARY KEY,
			brand TEXT NOT NULL,
			model TEXT NOT NULL,
			category TEXT NOT NULL,
			daily_rate DOUBLE PRECISION NOT NULL,
			state TEXT NOT NULL,
			num_doors INTEGER,
			fuel_type TEXT,
			payload_capacity DOUBLE PRECISION,
			engine_cc INTEGER,
			rental_count INTEGER NOT NULL,
			removed BOOLEAN NOT NULL DEFAULT FALSE,
			maintenance JSONB
		);
		CREATE TABLE IF NOT EXISTS customers (
			id BIGINT PRIMARY KEY,
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL,
			age INTEGER NOT NULL,
			license TEXT NOT NULL,
			registered_at TIMESTAMPTZ NOT NULL,
			total_spent DOUBLE PRECISION NOT NULL,
			removed BOOLEAN NOT NULL DEFAULT FALSE
		);
		CREATE TABLE IF NOT EXISTS rentals (
			id BIGINT PRIMARY KEY,
			customer_id BIGINT NOT NULL,
			vehicle_id BIGINT NOT NULL,
			start_date TIMESTAMPTZ NOT NULL,
			end_date TIMESTAMPTZ NOT NULL,
			actual_return_date TIMESTAMPTZ,
			status TEXT NOT NULL,
			total_cost DOUBLE PRECISION NOT NULL,
			penalty DOUBLE PRECISION NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		);
	`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create snapshot schema: %w", err)
	}
	return nil
}

// Save persists the snapshot, replacing the previous one.
func (s *SnapshotStore) Save(ctx context.Context, snap fleet.Snapshot) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, table := range []string{"rentals", "customers", "vehicles"} {
		if _, err = tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}

	if err = insertVehicles(ctx, tx, snap.Vehicles); err != nil {
		return err
	}
	if err = insertCustomers(ctx, tx, snap.Customers); err != nil {
		return err
	}
	if err = insertRentals(ctx, tx, snap.Rentals); err != nil {
		return err
	}

	return tx.Commit()
}

func insertVehicles(ctx context.Context, q Querier, records []fleet.VehicleRecord) error {
	const query = `
		INSERT INTO vehicles (id, brand, model, category, daily_rate, state, num_doors, fuel_type, payload_capacity, engine_cc, rental_count, removed, maintenance)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	for _, rec := range records {
		var maintenance []byte
		if len(rec.Maintenance) > 0 {
			data, err := json.Marshal(rec.Maintenance)
			if err != nil {
				return err
			}
			maintenance = data
		}

		var fuelType sql.NullString
		if rec.FuelType != "" {
			fuelType = sql.NullString{String: rec.FuelType, Valid: true}
		}

		if _, err := q.ExecContext(ctx, query,
			rec.ID,
			rec.Brand,
			rec.Model,
			rec.Category,
			rec.DailyRate,
			rec.State,
			rec.NumDoors,
			fuelType,
			rec.PayloadCapacity,
			rec.EngineCC,
			rec.RentalCount,
			rec.Removed,
			maintenance,
		); err != nil {
			return err
		}
	}
	return nil
}

func insertCustomers(ctx context.Context, q Querier, records []fleet.CustomerRecord) error {
	const query = `
		INSERT INTO customers (id, first_name, last_name, age, license, registered_at, total_spent, removed)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	for _, rec := range records {
		if _, err := q.ExecContext(ctx, query,
			rec.ID,
			rec.FirstName,
			rec.LastName,
			rec.Age,
			rec.License,
			rec.RegisteredAt,
			rec.TotalSpent,
			rec.Removed,
		); err != nil {
			return err
		}
	}
	return nil
}

func insertRentals(ctx context.Context, q Querier, records []fleet.RentalRecord) error {
	const query = `
		INSERT INTO rentals (id, customer_id, vehicle_id, start_date, end_date, actual_return_date, status, total_cost, penalty, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	for _, rec := range records {
		var actualReturn sql.NullTime
		if !rec.ActualReturnDate.IsZero() {
			actualReturn = sql.NullTime{Time: rec.ActualReturnDate, Valid: true}
		}

		if _, err := q.ExecContext(ctx, query,
			rec.ID,
			rec.CustomerID,
			rec.VehicleID,
			rec.StartDate,
			rec.EndDate,
			actualReturn,
			rec.Status,
			rec.TotalCost,
			rec.Penalty,
			rec.CreatedAt,
		); err != nil {
			return err
		}
	}
	return nil
}

// Load retrieves the last persisted snapshot. Returns
// repository.ErrNoSnapshot when the tables are empty.
func (s *SnapshotStore) Load(ctx context.Context) (fleet.Snapshot, error) {
	var snap fleet.Snapshot

	vehicles, err := s.loadVehicles(ctx)
	if err != nil {
		return fleet.Snapshot{}, err
	}
	customers, err := s.loadCustomers(ctx)
	if err != nil {
		return fleet.Snapshot{}, err
	}
	rentals, err := s.loadRentals(ctx)
	if err != nil {
		return fleet.Snapshot{}, err
	}

	if len(vehicles) == 0 && len(customers) == 0 && len(rentals) == 0 {
		return fleet.Snapshot{}, repository.ErrNoSnapshot
	}

	snap.Vehicles = vehicles
	snap.Customers = customers
	snap.Rentals = rentals
	return snap, nil
}

func (s *SnapshotStore) loadVehicles(ctx context.Context) ([]fleet.VehicleRecord, error) {
	const query = `
		SELECT id, brand, model, category, daily_rate, state, num_doors, fuel_type, payload_capacity, engine_cc, rental_count, removed, maintenance
		FROM vehicles ORDER BY id
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []fleet.VehicleRecord
	for rows.Next() {
		var rec fleet.VehicleRecord
		var fuelType sql.NullString
		var maintenance []byte
		if err := rows.Scan(
			&rec.ID,
			&rec.Brand,
			&rec.Model,
			&rec.Category,
			&rec.DailyRate,
			&rec.State,
			&rec.NumDoors,
			&fuelType,
			&rec.PayloadCapacity,
			&rec.EngineCC,
			&rec.RentalCount,
			&rec.Removed,
			&maintenance,
		); err != nil {
			return nil, err
		}
		if fuelType.Valid {
			rec.FuelType = fuelType.String
		}
		if len(maintenance) > 0 {
			if err := json.Unmarshal(maintenance, &rec.Maintenance); err != nil {
				return nil, err
			}
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *SnapshotStore) loadCustomers(ctx context.Context) ([]fleet.CustomerRecord, error) {
	const query = `
		SELECT id, first_name, last_name, age, license, registered_at, total_spent, removed
		FROM customers ORDER BY id
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []fleet.CustomerRecord
	for rows.Next() {
		var rec fleet.CustomerRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.FirstName,
			&rec.LastName,
			&rec.Age,
			&rec.License,
			&rec.RegisteredAt,
			&rec.TotalSpent,
			&rec.Removed,
		); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *SnapshotStore) loadRentals(ctx context.Context) ([]fleet.RentalRecord, error) {
	const query = `
		SELECT id, customer_id, vehicle_id, start_date, end_date, actual_return_date, status, total_cost, penalty, created_at
		FROM rentals ORDER BY id
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []fleet.RentalRecord
	for rows.Next() {
		var rec fleet.RentalRecord
		var actualReturn sql.NullTime
		if err := rows.Scan(
			&rec.ID,
			&rec.CustomerID,
			&rec.VehicleID,
			&rec.StartDate,
			&rec.EndDate,
			&actualReturn,
			&rec.Status,
			&rec.TotalCost,
			&rec.Penalty,
			&rec.CreatedAt,
		); err != nil {
			return nil, err
		}
		if actualReturn.Valid {
			rec.ActualReturnDate = actualReturn.Time
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

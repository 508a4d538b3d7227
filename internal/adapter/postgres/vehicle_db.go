package postgres

import (
	"context"
	"database/sql"

	"github.com/garageflow/garage_fleet_service/internal/core/domain"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type VehicleRepository struct {
	db *sql.DB
}

func NewVehicleRepository(db *sql.DB) *VehicleRepository {
	return &VehicleRepository{db: db}
}

func (r *VehicleRepository) CreateVehicle(ctx context.Context, vehicle *domain.Vehicle) (*domain.Vehicle, error) {
	query := `INSERT INTO vehicles (id, owner_id, make, model, year, registration_number, vin, initial_mileage)
		VALUES ($1, $2, $3, $4, NULLIF($5, 0), $6, NULLIF($7, ''), $8)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		vehicle.ID,
		vehicle.OwnerID,
		vehicle.Make,
		vehicle.Model,
		vehicle.Year,
		vehicle.RegistrationNumber,
		vehicle.VIN,
		vehicle.InitialMileage,
	).Scan(
		&vehicle.ID,
		&vehicle.CreatedAt,
		&vehicle.UpdatedAt,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return nil, domain.ErrDuplicateRegistration
		}
		return nil, err
	}

	return vehicle, nil
}

func (r *VehicleRepository) GetVehicleByID(ctx context.Context, vehicleID uuid.UUID) (*domain.Vehicle, error) {
	query := `SELECT id, owner_id, make, model, COALESCE(year, 0), registration_number, COALESCE(vin, ''),
			initial_mileage, average_daily_km, created_at, updated_at
		FROM vehicles WHERE id = $1`

	vehicle := &domain.Vehicle{}
	var avgDailyKm sql.NullFloat64
	err := r.db.QueryRowContext(ctx, query, vehicleID).Scan(
		&vehicle.ID,
		&vehicle.OwnerID,
		&vehicle.Make,
		&vehicle.Model,
		&vehicle.Year,
		&vehicle.RegistrationNumber,
		&vehicle.VIN,
		&vehicle.InitialMileage,
		&avgDailyKm,
		&vehicle.CreatedAt,
		&vehicle.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, domain.ErrVehicleNotFound
	}
	if err != nil {
		return nil, err
	}
	if avgDailyKm.Valid {
		vehicle.AverageDailyKm = &avgDailyKm.Float64
	}

	return vehicle, nil
}

func (r *VehicleRepository) GetVehiclesByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]*domain.Vehicle, error) {
	query := `SELECT id, owner_id, make, model, COALESCE(year, 0), registration_number, COALESCE(vin, ''),
			initial_mileage, average_daily_km, created_at, updated_at
		FROM vehicles WHERE owner_id = $1
		ORDER BY created_at DESC`

	return r.queryVehicles(ctx, query, ownerID)
}

func (r *VehicleRepository) ListVehicles(ctx context.Context) ([]*domain.Vehicle, error) {
	query := `SELECT id, owner_id, make, model, COALESCE(year, 0), registration_number, COALESCE(vin, ''),
			initial_mileage, average_daily_km, created_at, updated_at
		FROM vehicles
		ORDER BY created_at DESC`

	return r.queryVehicles(ctx, query)
}

func (r *VehicleRepository) queryVehicles(ctx context.Context, query string, args ...interface{}) ([]*domain.Vehicle, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vehicles []*domain.Vehicle
	for rows.Next() {
		vehicle := &domain.Vehicle{}
		var avgDailyKm sql.NullFloat64
		err := rows.Scan(
			&vehicle.ID,
			&vehicle.OwnerID,
			&vehicle.Make,
			&vehicle.Model,
			&vehicle.Year,
			&vehicle.RegistrationNumber,
			&vehicle.VIN,
			&vehicle.InitialMileage,
			&avgDailyKm,
			&vehicle.CreatedAt,
			&vehicle.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		if avgDailyKm.Valid {
			vehicle.AverageDailyKm = &avgDailyKm.Float64
		}
		vehicles = append(vehicles, vehicle)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return vehicles, nil
}

func (r *VehicleRepository) UpdateAverageDailyKm(ctx context.Context, vehicleID uuid.UUID, avgDailyKm float64) error {
	query := `UPDATE vehicles
		SET average_daily_km = $1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, avgDailyKm, vehicleID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return domain.ErrVehicleNotFound
	}

	return nil
}

func (r *VehicleRepository) DeleteVehicle(ctx context.Context, vehicleID uuid.UUID) error {
	query := `DELETE FROM vehicles WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, vehicleID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return domain.ErrVehicleNotFound
	}

	return nil
}

package ports

import (
	"context"

	"github.com/garageflow/garage_fleet_service/internal/core/domain"

	"github.com/google/uuid"
)

type VehicleRepository interface {
	CreateVehicle(ctx context.Context, vehicle *domain.Vehicle) (*domain.Vehicle, error)
	GetVehicleByID(ctx context.Context, vehicleID uuid.UUID) (*domain.Vehicle, error)
	GetVehiclesByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]*domain.Vehicle, error)
	ListVehicles(ctx context.Context) ([]*domain.Vehicle, error)
	// UpdateAverageDailyKm persists only the cached usage estimate.
	UpdateAverageDailyKm(ctx context.Context, vehicleID uuid.UUID, avgDailyKm float64) error
	DeleteVehicle(ctx context.Context, vehicleID uuid.UUID) error
}

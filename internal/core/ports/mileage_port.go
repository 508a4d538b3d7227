package ports

import (
	"context"

	"github.com/garageflow/garage_fleet_service/internal/core/domain"

	"github.com/google/uuid"
)

// MileageRepository gives ordered access to a vehicle's reading history.
// Latest/earliest lookups return domain.ErrMileageRecordNotFound when the
// vehicle has no readings.
type MileageRepository interface {
	CreateMileageRecord(ctx context.Context, record *domain.MileageRecord) (*domain.MileageRecord, error)
	GetMileageRecordByID(ctx context.Context, recordID uuid.UUID) (*domain.MileageRecord, error)
	// GetMileageRecordsByVehicleID returns records ordered newest first.
	GetMileageRecordsByVehicleID(ctx context.Context, vehicleID uuid.UUID) ([]*domain.MileageRecord, error)
	// GetLatestMileageRecord orders by recorded_at desc, insertion order desc.
	GetLatestMileageRecord(ctx context.Context, vehicleID uuid.UUID) (*domain.MileageRecord, error)
	GetEarliestMileageRecord(ctx context.Context, vehicleID uuid.UUID) (*domain.MileageRecord, error)
	// UpdateMileageRecord is the administrative correction path.
	UpdateMileageRecord(ctx context.Context, record *domain.MileageRecord) (*domain.MileageRecord, error)
	DeleteMileageRecord(ctx context.Context, recordID uuid.UUID) error
}

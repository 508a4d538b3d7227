package ports

import (
	"context"

	"github.com/garageflow/garage_fleet_service/internal/core/domain"

	"github.com/google/uuid"
)

type ServiceTypeRepository interface {
	CreateServiceType(ctx context.Context, serviceType *domain.ServiceType) (*domain.ServiceType, error)
	GetServiceTypeByID(ctx context.Context, serviceTypeID uuid.UUID) (*domain.ServiceType, error)
	ListServiceTypes(ctx context.Context) ([]*domain.ServiceType, error)
	UpdateServiceType(ctx context.Context, serviceType *domain.ServiceType) (*domain.ServiceType, error)
	// DeleteServiceType returns domain.ErrServiceTypeInUse while service
	// events still reference the type.
	DeleteServiceType(ctx context.Context, serviceTypeID uuid.UUID) error
}

type ServiceEventRepository interface {
	CreateServiceEvent(ctx context.Context, event *domain.ServiceEvent) (*domain.ServiceEvent, error)
	GetServiceEventByID(ctx context.Context, eventID uuid.UUID) (*domain.ServiceEvent, error)
	// GetServiceEventsByVehicleID returns events ordered newest first.
	GetServiceEventsByVehicleID(ctx context.Context, vehicleID uuid.UUID) ([]*domain.ServiceEvent, error)
	// GetLastServiceEvent orders by event_date desc, mileage_at_service desc
	// and returns domain.ErrServiceEventNotFound when no event matches.
	GetLastServiceEvent(ctx context.Context, vehicleID, serviceTypeID uuid.UUID) (*domain.ServiceEvent, error)
	DeleteServiceEvent(ctx context.Context, eventID uuid.UUID) error
}

package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/garageflow/garage_fleet_service/internal/core/domain"
	"github.com/garageflow/garage_fleet_service/internal/core/ports"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type ServiceEventService struct {
	eventRepo       ports.ServiceEventRepository
	serviceTypeRepo ports.ServiceTypeRepository
	vehicleRepo     ports.VehicleRepository
	mileageRepo     ports.MileageRepository
	engine          ports.PredictionEngine
	logger          ports.LoggerPort
	validate        *validator.Validate
	cache           ports.CachePort
}

func NewServiceEventService(
	eventRepo ports.ServiceEventRepository,
	serviceTypeRepo ports.ServiceTypeRepository,
	vehicleRepo ports.VehicleRepository,
	mileageRepo ports.MileageRepository,
	engine ports.PredictionEngine,
	logger ports.LoggerPort,
	validate *validator.Validate,
	cache ports.CachePort,
) *ServiceEventService {
	return &ServiceEventService{
		eventRepo:       eventRepo,
		serviceTypeRepo: serviceTypeRepo,
		vehicleRepo:     vehicleRepo,
		mileageRepo:     mileageRepo,
		engine:          engine,
		logger:          logger,
		validate:        validate,
		cache:           cache,
	}
}

// CreateServiceEvent records an intervention. If the vehicle has no mileage
// reading at all yet, one is synthesized from the event (source SERVICE,
// attributed to the owner) so the usage estimator has a baseline; the
// recompute then runs exactly once, after whichever write came last.
func (s *ServiceEventService) CreateServiceEvent(ctx context.Context, event *domain.ServiceEvent) (*domain.ServiceEvent, error) {
	if err := s.validate.Struct(event); err != nil {
		s.logger.Error("Service event validation failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, fmt.Errorf("validation error: %w", err)
	}

	vehicle, err := s.vehicleRepo.GetVehicleByID(ctx, event.VehicleID)
	if err != nil {
		s.logger.Error("Failed to get vehicle for service event", map[string]interface{}{
			"error":      err.Error(),
			"vehicle_id": event.VehicleID.String(),
		})
		return nil, err
	}

	if _, err := s.serviceTypeRepo.GetServiceTypeByID(ctx, event.ServiceTypeID); err != nil {
		s.logger.Error("Failed to get service type for service event", map[string]interface{}{
			"error":           err.Error(),
			"service_type_id": event.ServiceTypeID.String(),
		})
		return nil, err
	}

	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.EventDate.IsZero() {
		event.EventDate = time.Now()
	}

	created, err := s.eventRepo.CreateServiceEvent(ctx, event)
	if err != nil {
		s.logger.Error("Failed to create service event", map[string]interface{}{
			"error":      err.Error(),
			"vehicle_id": event.VehicleID.String(),
		})
		return nil, err
	}

	s.invalidateVehicleCache(event.VehicleID)

	s.logger.Info("Service event created successfully", map[string]interface{}{
		"event_id":        created.ID,
		"vehicle_id":      created.VehicleID,
		"service_type_id": created.ServiceTypeID,
		"mileage":         created.MileageAtService,
	})

	s.synthesizeFirstMileageRecord(ctx, vehicle, created)
	s.engine.RecomputeForVehicle(ctx, created.VehicleID)

	return created, nil
}

// synthesizeFirstMileageRecord creates a SERVICE-sourced reading from the
// event when the vehicle has no reading of any kind yet.
func (s *ServiceEventService) synthesizeFirstMileageRecord(ctx context.Context, vehicle *domain.Vehicle, event *domain.ServiceEvent) {
	_, err := s.mileageRepo.GetLatestMileageRecord(ctx, vehicle.ID)
	if err == nil {
		return
	}
	if !errors.Is(err, domain.ErrMileageRecordNotFound) {
		s.logger.Warn("Failed to check for existing mileage records", map[string]interface{}{
			"error":      err.Error(),
			"vehicle_id": vehicle.ID.String(),
		})
		return
	}

	ownerID := vehicle.OwnerID
	record := &domain.MileageRecord{
		ID:         uuid.New(),
		VehicleID:  vehicle.ID,
		Mileage:    event.MileageAtService,
		RecordedAt: event.EventDate,
		Source:     domain.SourceService,
		RecordedBy: &ownerID,
	}
	if _, err := s.mileageRepo.CreateMileageRecord(ctx, record); err != nil {
		s.logger.Error("Failed to synthesize mileage record from service event", map[string]interface{}{
			"error":      err.Error(),
			"vehicle_id": vehicle.ID.String(),
			"event_id":   event.ID.String(),
		})
		return
	}

	s.logger.Info("Synthesized first mileage record from service event", map[string]interface{}{
		"vehicle_id": vehicle.ID,
		"event_id":   event.ID,
		"mileage":    event.MileageAtService,
	})
}

func (s *ServiceEventService) GetServiceEventByID(ctx context.Context, eventID string) (*domain.ServiceEvent, error) {
	eventUUID, err := uuid.Parse(eventID)
	if err != nil {
		s.logger.Error("Invalid UUID format", map[string]interface{}{
			"event_id": eventID,
			"error":    err.Error(),
		})
		return nil, fmt.Errorf("invalid event ID: %w", err)
	}

	event, err := s.eventRepo.GetServiceEventByID(ctx, eventUUID)
	if err != nil {
		s.logger.Error("Failed to get service event", map[string]interface{}{
			"error":    err.Error(),
			"event_id": eventID,
		})
		return nil, err
	}

	return event, nil
}

func (s *ServiceEventService) GetServiceEventsByVehicleID(ctx context.Context, vehicleID string) ([]*domain.ServiceEvent, error) {
	vehicleUUID, err := uuid.Parse(vehicleID)
	if err != nil {
		s.logger.Error("Invalid UUID format", map[string]interface{}{
			"vehicle_id": vehicleID,
			"error":      err.Error(),
		})
		return nil, fmt.Errorf("invalid vehicle ID: %w", err)
	}

	events, err := s.eventRepo.GetServiceEventsByVehicleID(ctx, vehicleUUID)
	if err != nil {
		s.logger.Error("Failed to get service events", map[string]interface{}{
			"error":      err.Error(),
			"vehicle_id": vehicleID,
		})
		return nil, err
	}

	return events, nil
}

func (s *ServiceEventService) DeleteServiceEvent(ctx context.Context, eventID string) error {
	eventUUID, err := uuid.Parse(eventID)
	if err != nil {
		s.logger.Error("Invalid UUID format", map[string]interface{}{
			"event_id": eventID,
			"error":    err.Error(),
		})
		return fmt.Errorf("invalid event ID: %w", err)
	}

	event, err := s.eventRepo.GetServiceEventByID(ctx, eventUUID)
	if err != nil {
		s.logger.Error("Failed to get service event", map[string]interface{}{
			"error":    err.Error(),
			"event_id": eventID,
		})
		return err
	}

	if err := s.eventRepo.DeleteServiceEvent(ctx, eventUUID); err != nil {
		s.logger.Error("Failed to delete service event", map[string]interface{}{
			"error":    err.Error(),
			"event_id": eventID,
		})
		return err
	}

	s.invalidateVehicleCache(event.VehicleID)

	s.logger.Info("Service event deleted successfully", map[string]interface{}{
		"event_id": eventID,
	})

	return nil
}

func (s *ServiceEventService) invalidateVehicleCache(vehicleID uuid.UUID) {
	cacheKey := fmt.Sprintf("vehicle:%s", vehicleID.String())
	if err := s.cache.Delete(cacheKey); err != nil {
		s.logger.Warn("Failed to invalidate vehicle cache", map[string]interface{}{
			"error":      err.Error(),
			"vehicle_id": vehicleID.String(),
		})
	}
}

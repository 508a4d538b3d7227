package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/garageflow/garage_fleet_service/internal/core/domain"
	"github.com/garageflow/garage_fleet_service/internal/core/ports"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type VehicleService struct {
	vehicleRepo ports.VehicleRepository
	mileageRepo ports.MileageRepository
	engine      ports.PredictionEngine
	logger      ports.LoggerPort
	validate    *validator.Validate
	cache       ports.CachePort
}

func NewVehicleService(
	vehicleRepo ports.VehicleRepository,
	mileageRepo ports.MileageRepository,
	engine ports.PredictionEngine,
	logger ports.LoggerPort,
	validate *validator.Validate,
	cache ports.CachePort,
) *VehicleService {
	return &VehicleService{
		vehicleRepo: vehicleRepo,
		mileageRepo: mileageRepo,
		engine:      engine,
		logger:      logger,
		validate:    validate,
		cache:       cache,
	}
}

// CreateVehicle registers a vehicle at intake and writes its INITIAL mileage
// record from the declared odometer value, so the usage estimator always has
// a starting point.
func (s *VehicleService) CreateVehicle(ctx context.Context, vehicle *domain.Vehicle) (*domain.Vehicle, error) {
	if err := s.validate.Struct(vehicle); err != nil {
		s.logger.Error("Vehicle validation failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, fmt.Errorf("validation error: %w", err)
	}

	if vehicle.ID == uuid.Nil {
		vehicle.ID = uuid.New()
	}

	created, err := s.vehicleRepo.CreateVehicle(ctx, vehicle)
	if err != nil {
		s.logger.Error("Failed to create vehicle", map[string]interface{}{
			"error":    err.Error(),
			"owner_id": vehicle.OwnerID,
		})
		return nil, err
	}

	ownerID := created.OwnerID
	initialRecord := &domain.MileageRecord{
		ID:         uuid.New(),
		VehicleID:  created.ID,
		Mileage:    created.InitialMileage,
		RecordedAt: time.Now(),
		Source:     domain.SourceInitial,
		RecordedBy: &ownerID,
	}
	if _, err := s.mileageRepo.CreateMileageRecord(ctx, initialRecord); err != nil {
		s.logger.Error("Failed to create initial mileage record", map[string]interface{}{
			"error":      err.Error(),
			"vehicle_id": created.ID,
		})
		return nil, err
	}

	s.logger.Info("Vehicle created successfully", map[string]interface{}{
		"vehicle_id":      created.ID,
		"owner_id":        created.OwnerID,
		"initial_mileage": created.InitialMileage,
	})

	s.engine.RecomputeForVehicle(ctx, created.ID)

	return created, nil
}

func (s *VehicleService) GetVehicleByID(ctx context.Context, vehicleID string) (*domain.Vehicle, error) {
	vehicleUUID, err := uuid.Parse(vehicleID)
	if err != nil {
		s.logger.Error("Invalid UUID format", map[string]interface{}{
			"vehicle_id": vehicleID,
			"error":      err.Error(),
		})
		return nil, fmt.Errorf("invalid vehicle ID: %w", err)
	}

	cacheKey := fmt.Sprintf("vehicle:%s", vehicleID)
	cachedData, err := s.cache.Get(cacheKey)
	if err == nil {
		var cachedVehicle domain.Vehicle
		if err := json.Unmarshal(cachedData, &cachedVehicle); err == nil {
			return &cachedVehicle, nil
		}
	}

	vehicle, err := s.vehicleRepo.GetVehicleByID(ctx, vehicleUUID)
	if err != nil {
		s.logger.Error("Failed to get vehicle", map[string]interface{}{
			"error":      err.Error(),
			"vehicle_id": vehicleID,
		})
		return nil, err
	}

	vehicleData, err := json.Marshal(vehicle)
	if err != nil {
		s.logger.Warn("Failed to marshal vehicle for cache", map[string]interface{}{
			"error":      err.Error(),
			"vehicle_id": vehicleID,
		})
	} else {
		if err := s.cache.Set(cacheKey, vehicleData, 15*time.Minute); err != nil {
			s.logger.Warn("Failed to cache vehicle", map[string]interface{}{
				"error":      err.Error(),
				"vehicle_id": vehicleID,
			})
		}
	}

	return vehicle, nil
}

func (s *VehicleService) GetVehiclesByOwnerID(ctx context.Context, ownerID string) ([]*domain.Vehicle, error) {
	ownerUUID, err := uuid.Parse(ownerID)
	if err != nil {
		s.logger.Error("Invalid UUID format", map[string]interface{}{
			"owner_id": ownerID,
			"error":    err.Error(),
		})
		return nil, fmt.Errorf("invalid owner ID: %w", err)
	}

	vehicles, err := s.vehicleRepo.GetVehiclesByOwnerID(ctx, ownerUUID)
	if err != nil {
		s.logger.Error("Failed to get vehicles", map[string]interface{}{
			"error":    err.Error(),
			"owner_id": ownerID,
		})
		return nil, err
	}

	return vehicles, nil
}

func (s *VehicleService) ListVehicles(ctx context.Context) ([]*domain.Vehicle, error) {
	vehicles, err := s.vehicleRepo.ListVehicles(ctx)
	if err != nil {
		s.logger.Error("Failed to list vehicles", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, err
	}
	return vehicles, nil
}

// DeleteVehicle removes the vehicle and, via the schema's cascade rules, its
// mileage records, service events and predictions.
func (s *VehicleService) DeleteVehicle(ctx context.Context, vehicleID string) error {
	vehicleUUID, err := uuid.Parse(vehicleID)
	if err != nil {
		s.logger.Error("Invalid UUID format", map[string]interface{}{
			"vehicle_id": vehicleID,
			"error":      err.Error(),
		})
		return fmt.Errorf("invalid vehicle ID: %w", err)
	}

	if err := s.vehicleRepo.DeleteVehicle(ctx, vehicleUUID); err != nil {
		s.logger.Error("Failed to delete vehicle", map[string]interface{}{
			"error":      err.Error(),
			"vehicle_id": vehicleID,
		})
		return err
	}

	cacheKey := fmt.Sprintf("vehicle:%s", vehicleID)
	if err := s.cache.Delete(cacheKey); err != nil {
		s.logger.Warn("Failed to invalidate vehicle cache", map[string]interface{}{
			"error":      err.Error(),
			"vehicle_id": vehicleID,
		})
	}

	s.logger.Info("Vehicle deleted successfully", map[string]interface{}{
		"vehicle_id": vehicleID,
	})

	return nil
}

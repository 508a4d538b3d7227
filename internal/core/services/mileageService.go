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

type MileageService struct {
	mileageRepo ports.MileageRepository
	vehicleRepo ports.VehicleRepository
	engine      ports.PredictionEngine
	logger      ports.LoggerPort
	validate    *validator.Validate
	cache       ports.CachePort
}

func NewMileageService(
	mileageRepo ports.MileageRepository,
	vehicleRepo ports.VehicleRepository,
	engine ports.PredictionEngine,
	logger ports.LoggerPort,
	validate *validator.Validate,
	cache ports.CachePort,
) *MileageService {
	return &MileageService{
		mileageRepo: mileageRepo,
		vehicleRepo: vehicleRepo,
		engine:      engine,
		logger:      logger,
		validate:    validate,
		cache:       cache,
	}
}

// AddMileageRecord persists a new reading and synchronously recomputes the
// vehicle's predictions. The monotonicity check runs here, at the point of
// persistence: a reading below the latest stored value is a data-integrity
// violation, not a UX problem.
func (s *MileageService) AddMileageRecord(ctx context.Context, record *domain.MileageRecord) (*domain.MileageRecord, error) {
	if err := s.validate.Struct(record); err != nil {
		s.logger.Error("Mileage record validation failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, fmt.Errorf("validation error: %w", err)
	}

	if !record.Source.Valid() {
		return nil, &domain.ValidationError{Field: "source", Message: fmt.Sprintf("unknown mileage source %q", record.Source)}
	}

	if _, err := s.vehicleRepo.GetVehicleByID(ctx, record.VehicleID); err != nil {
		s.logger.Error("Failed to get vehicle for mileage record", map[string]interface{}{
			"error":      err.Error(),
			"vehicle_id": record.VehicleID.String(),
		})
		return nil, err
	}

	latest, err := s.mileageRepo.GetLatestMileageRecord(ctx, record.VehicleID)
	if err != nil && !errors.Is(err, domain.ErrMileageRecordNotFound) {
		s.logger.Error("Failed to get latest mileage record", map[string]interface{}{
			"error":      err.Error(),
			"vehicle_id": record.VehicleID.String(),
		})
		return nil, err
	}
	if latest != nil && record.Mileage < latest.Mileage {
		s.logger.Warn("Rejected mileage regression", map[string]interface{}{
			"vehicle_id": record.VehicleID.String(),
			"attempted":  record.Mileage,
			"latest":     latest.Mileage,
		})
		return nil, domain.NewMileageRegressionError(record.Mileage, latest.Mileage)
	}

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}

	created, err := s.mileageRepo.CreateMileageRecord(ctx, record)
	if err != nil {
		s.logger.Error("Failed to create mileage record", map[string]interface{}{
			"error":      err.Error(),
			"vehicle_id": record.VehicleID.String(),
		})
		return nil, err
	}

	s.invalidateVehicleCache(record.VehicleID)

	s.logger.Info("Mileage record created successfully", map[string]interface{}{
		"record_id":  created.ID,
		"vehicle_id": created.VehicleID,
		"mileage":    created.Mileage,
		"source":     created.Source,
	})

	// Derived-state refresh runs in the same request, after the durable write.
	s.engine.RecomputeForVehicle(ctx, record.VehicleID)

	return created, nil
}

func (s *MileageService) GetMileageRecordByID(ctx context.Context, recordID string) (*domain.MileageRecord, error) {
	recordUUID, err := uuid.Parse(recordID)
	if err != nil {
		s.logger.Error("Invalid UUID format", map[string]interface{}{
			"record_id": recordID,
			"error":     err.Error(),
		})
		return nil, fmt.Errorf("invalid record ID: %w", err)
	}

	record, err := s.mileageRepo.GetMileageRecordByID(ctx, recordUUID)
	if err != nil {
		s.logger.Error("Failed to get mileage record", map[string]interface{}{
			"error":     err.Error(),
			"record_id": recordID,
		})
		return nil, err
	}

	return record, nil
}

func (s *MileageService) GetMileageRecordsByVehicleID(ctx context.Context, vehicleID string) ([]*domain.MileageRecord, error) {
	vehicleUUID, err := uuid.Parse(vehicleID)
	if err != nil {
		s.logger.Error("Invalid UUID format", map[string]interface{}{
			"vehicle_id": vehicleID,
			"error":      err.Error(),
		})
		return nil, fmt.Errorf("invalid vehicle ID: %w", err)
	}

	records, err := s.mileageRepo.GetMileageRecordsByVehicleID(ctx, vehicleUUID)
	if err != nil {
		s.logger.Error("Failed to get mileage records", map[string]interface{}{
			"error":      err.Error(),
			"vehicle_id": vehicleID,
		})
		return nil, err
	}

	return records, nil
}

// UpdateMileageRecord is the administrative correction path. The corrected
// record is re-validated, re-checked against the rest of the vehicle's
// history, and predictions are recomputed afterwards.
func (s *MileageService) UpdateMileageRecord(ctx context.Context, record *domain.MileageRecord) (*domain.MileageRecord, error) {
	if err := s.validate.Struct(record); err != nil {
		s.logger.Error("Mileage record validation failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, fmt.Errorf("validation error: %w", err)
	}

	existing, err := s.mileageRepo.GetMileageRecordByID(ctx, record.ID)
	if err != nil {
		s.logger.Error("Failed to get mileage record for correction", map[string]interface{}{
			"error":     err.Error(),
			"record_id": record.ID,
		})
		return nil, err
	}
	record.VehicleID = existing.VehicleID

	if err := s.checkCorrectedOrdering(ctx, existing, record); err != nil {
		s.logger.Warn("Rejected mileage correction", map[string]interface{}{
			"record_id":  record.ID,
			"vehicle_id": record.VehicleID.String(),
			"error":      err.Error(),
		})
		return nil, err
	}

	updated, err := s.mileageRepo.UpdateMileageRecord(ctx, record)
	if err != nil {
		s.logger.Error("Failed to update mileage record", map[string]interface{}{
			"error":     err.Error(),
			"record_id": record.ID,
		})
		return nil, err
	}

	s.invalidateVehicleCache(updated.VehicleID)

	s.logger.Info("Mileage record updated successfully", map[string]interface{}{
		"record_id":  updated.ID,
		"vehicle_id": updated.VehicleID,
	})

	s.engine.RecomputeForVehicle(ctx, updated.VehicleID)

	return updated, nil
}

func (s *MileageService) DeleteMileageRecord(ctx context.Context, recordID string) error {
	recordUUID, err := uuid.Parse(recordID)
	if err != nil {
		s.logger.Error("Invalid UUID format", map[string]interface{}{
			"record_id": recordID,
			"error":     err.Error(),
		})
		return fmt.Errorf("invalid record ID: %w", err)
	}

	record, err := s.mileageRepo.GetMileageRecordByID(ctx, recordUUID)
	if err != nil {
		s.logger.Error("Failed to get mileage record", map[string]interface{}{
			"error":     err.Error(),
			"record_id": recordID,
		})
		return err
	}

	if err := s.mileageRepo.DeleteMileageRecord(ctx, recordUUID); err != nil {
		s.logger.Error("Failed to delete mileage record", map[string]interface{}{
			"error":     err.Error(),
			"record_id": recordID,
		})
		return err
	}

	s.invalidateVehicleCache(record.VehicleID)

	s.logger.Info("Mileage record deleted successfully", map[string]interface{}{
		"record_id": recordID,
	})

	return nil
}

// checkCorrectedOrdering re-runs the monotonicity invariant for a corrected
// reading: it must stay >= every reading recorded before it and <= every
// reading recorded after it. The corrected record keeps its insertion order
// for tie-breaking, only recorded_at may have moved.
func (s *MileageService) checkCorrectedOrdering(ctx context.Context, existing, corrected *domain.MileageRecord) error {
	records, err := s.mileageRepo.GetMileageRecordsByVehicleID(ctx, existing.VehicleID)
	if err != nil {
		return err
	}

	for _, other := range records {
		if other.ID == existing.ID {
			continue
		}
		if recordedBefore(other.RecordedAt, other.CreatedAt, corrected.RecordedAt, existing.CreatedAt) {
			if corrected.Mileage < other.Mileage {
				return domain.NewMileageRegressionError(corrected.Mileage, other.Mileage)
			}
		} else if corrected.Mileage > other.Mileage {
			return &domain.ValidationError{
				Field:     "mileage",
				Message:   fmt.Sprintf("mileage (%d km) cannot exceed the next recorded value (%d km)", corrected.Mileage, other.Mileage),
				Attempted: corrected.Mileage,
				Previous:  other.Mileage,
			}
		}
	}

	return nil
}

func recordedBefore(aRecorded, aCreated, bRecorded, bCreated time.Time) bool {
	if !aRecorded.Equal(bRecorded) {
		return aRecorded.Before(bRecorded)
	}
	return aCreated.Before(bCreated)
}

func (s *MileageService) invalidateVehicleCache(vehicleID uuid.UUID) {
	cacheKey := fmt.Sprintf("vehicle:%s", vehicleID.String())
	if err := s.cache.Delete(cacheKey); err != nil {
		s.logger.Warn("Failed to invalidate vehicle cache", map[string]interface{}{
			"error":      err.Error(),
			"vehicle_id": vehicleID.String(),
		})
	}
}

package services

import (
	"context"
	"errors"
	"time"

	"github.com/garageflow/garage_fleet_service/internal/core/domain"
	"github.com/garageflow/garage_fleet_service/internal/core/ports"

	"github.com/google/uuid"
)

// Day counts beyond this horizon mean the usage estimate is meaningless
// (tiny average against a huge remaining distance), so it is dropped.
const maxEstimateDays = 100 * 365

// PredictionService recomputes the derived state for a vehicle: its cached
// average daily km and one ServicePrediction per active rule. It runs
// synchronously after every mileage/service write and is strictly
// best-effort: failures are logged, never surfaced to the triggering write.
type PredictionService struct {
	vehicleRepo    ports.VehicleRepository
	mileageRepo    ports.MileageRepository
	eventRepo      ports.ServiceEventRepository
	ruleRepo       ports.PredictionRuleRepository
	predictionRepo ports.ServicePredictionRepository
	logger         ports.LoggerPort
	now            func() time.Time
}

func NewPredictionService(
	vehicleRepo ports.VehicleRepository,
	mileageRepo ports.MileageRepository,
	eventRepo ports.ServiceEventRepository,
	ruleRepo ports.PredictionRuleRepository,
	predictionRepo ports.ServicePredictionRepository,
	logger ports.LoggerPort,
) *PredictionService {
	return &PredictionService{
		vehicleRepo:    vehicleRepo,
		mileageRepo:    mileageRepo,
		eventRepo:      eventRepo,
		ruleRepo:       ruleRepo,
		predictionRepo: predictionRepo,
		logger:         logger,
		now:            time.Now,
	}
}

// CalculateAverageDailyKm estimates daily usage from the earliest and latest
// reading, comparing date parts only so time-of-day and DST cannot skew the
// day count. Returns 0 when there is not enough data, when both readings
// fall on the same date, or when the history is corrupt (negative delta).
func (s *PredictionService) CalculateAverageDailyKm(ctx context.Context, vehicleID uuid.UUID) (float64, error) {
	earliest, err := s.mileageRepo.GetEarliestMileageRecord(ctx, vehicleID)
	if errors.Is(err, domain.ErrMileageRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	latest, err := s.mileageRepo.GetLatestMileageRecord(ctx, vehicleID)
	if errors.Is(err, domain.ErrMileageRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	if earliest.ID == latest.ID {
		return 0, nil
	}

	deltaKm := latest.Mileage - earliest.Mileage
	deltaDays := daysBetween(dateOf(earliest.RecordedAt), dateOf(latest.RecordedAt))
	if deltaDays <= 0 || deltaKm < 0 {
		return 0, nil
	}

	return float64(deltaKm) / float64(deltaDays), nil
}

// RecomputeForVehicle refreshes the vehicle's average daily km and upserts
// one prediction per active rule. Derived state only: any failure aborts
// quietly and the next write will recompute from scratch.
func (s *PredictionService) RecomputeForVehicle(ctx context.Context, vehicleID uuid.UUID) {
	vehicle, err := s.vehicleRepo.GetVehicleByID(ctx, vehicleID)
	if errors.Is(err, domain.ErrVehicleNotFound) {
		// Concurrent deletion. Nothing left to predict for.
		s.logger.Warn("Vehicle disappeared before recompute", map[string]interface{}{
			"vehicle_id": vehicleID.String(),
		})
		return
	}
	if err != nil {
		s.logger.Error("Failed to load vehicle for recompute", map[string]interface{}{
			"error":      err.Error(),
			"vehicle_id": vehicleID.String(),
		})
		return
	}

	avgDailyKm, err := s.CalculateAverageDailyKm(ctx, vehicleID)
	if err != nil {
		s.logger.Error("Failed to calculate average daily km", map[string]interface{}{
			"error":      err.Error(),
			"vehicle_id": vehicleID.String(),
		})
		return
	}

	if vehicle.AverageDailyKm == nil || *vehicle.AverageDailyKm != avgDailyKm {
		if err := s.vehicleRepo.UpdateAverageDailyKm(ctx, vehicleID, avgDailyKm); err != nil {
			s.logger.Error("Failed to persist average daily km", map[string]interface{}{
				"error":      err.Error(),
				"vehicle_id": vehicleID.String(),
			})
			return
		}
	}

	currentMileage := vehicle.InitialMileage
	latest, err := s.mileageRepo.GetLatestMileageRecord(ctx, vehicleID)
	switch {
	case err == nil:
		currentMileage = latest.Mileage
	case errors.Is(err, domain.ErrMileageRecordNotFound):
		// No readings yet: fall back to the intake odometer value.
	default:
		s.logger.Error("Failed to load latest mileage record", map[string]interface{}{
			"error":      err.Error(),
			"vehicle_id": vehicleID.String(),
		})
		return
	}

	rules, err := s.ruleRepo.GetActivePredictionRules(ctx)
	if err != nil {
		s.logger.Error("Failed to load active prediction rules", map[string]interface{}{
			"error":      err.Error(),
			"vehicle_id": vehicleID.String(),
		})
		return
	}

	today := dateOf(s.now())

	for _, rule := range rules {
		prediction := s.buildPrediction(ctx, vehicle, rule, avgDailyKm, currentMileage, today)
		if _, err := s.predictionRepo.UpsertServicePrediction(ctx, prediction); err != nil {
			s.logger.Error("Failed to upsert service prediction", map[string]interface{}{
				"error":           err.Error(),
				"vehicle_id":      vehicleID.String(),
				"service_type_id": rule.ServiceTypeID.String(),
			})
			continue
		}
	}

	s.logger.Info("Recomputed predictions for vehicle", map[string]interface{}{
		"vehicle_id":       vehicleID.String(),
		"average_daily_km": avgDailyKm,
		"active_rules":     len(rules),
	})
}

// buildPrediction applies one rule to one vehicle. The final due date is the
// earliest of the rule-interval date (a ceiling the garage never exceeds)
// and the usage-based estimate (which pulls the date forward for
// high-mileage drivers).
func (s *PredictionService) buildPrediction(
	ctx context.Context,
	vehicle *domain.Vehicle,
	rule *domain.PredictionRule,
	avgDailyKm float64,
	currentMileage int,
	today time.Time,
) *domain.ServicePrediction {
	// Baseline: last matching service event, else the intake values.
	baseMileage := vehicle.InitialMileage
	baseDate := dateOf(vehicle.CreatedAt)

	lastEvent, err := s.eventRepo.GetLastServiceEvent(ctx, vehicle.ID, rule.ServiceTypeID)
	switch {
	case err == nil:
		baseMileage = lastEvent.MileageAtService
		baseDate = dateOf(lastEvent.EventDate)
	case errors.Is(err, domain.ErrServiceEventNotFound):
		// Never serviced: measure from intake.
	default:
		s.logger.Warn("Failed to load last service event, using intake baseline", map[string]interface{}{
			"error":           err.Error(),
			"vehicle_id":      vehicle.ID.String(),
			"service_type_id": rule.ServiceTypeID.String(),
		})
	}

	dueMileage := baseMileage + rule.IntervalKm

	var ruleDueDate *time.Time
	if rule.IntervalMonths != nil {
		due := baseDate.AddDate(0, *rule.IntervalMonths, 0)
		if due.Before(today) {
			// A past due date means "due now", not "was due then".
			due = today
		}
		ruleDueDate = &due
	}

	var estimatedDate *time.Time
	if avgDailyKm > 0 {
		remaining := dueMileage - currentMileage
		if remaining > 0 {
			days := int(float64(remaining) / avgDailyKm)
			if days <= maxEstimateDays {
				due := today.AddDate(0, 0, days)
				estimatedDate = &due
			}
		} else {
			// Target mileage already met or passed.
			due := today
			estimatedDate = &due
		}
	}

	return &domain.ServicePrediction{
		VehicleID:           vehicle.ID,
		ServiceTypeID:       rule.ServiceTypeID,
		PredictedDueMileage: &dueMileage,
		PredictedDueDate:    earliestDate(ruleDueDate, estimatedDate),
		Source:              domain.PredictionSourceRule,
		GeneratedAt:         s.now(),
	}
}

// GetPredictionsByVehicleID is the read surface consumed by the API layer.
func (s *PredictionService) GetPredictionsByVehicleID(ctx context.Context, vehicleID string) ([]*domain.ServicePrediction, error) {
	vehicleUUID, err := uuid.Parse(vehicleID)
	if err != nil {
		s.logger.Error("Invalid UUID format", map[string]interface{}{
			"vehicle_id": vehicleID,
			"error":      err.Error(),
		})
		return nil, errors.New("invalid vehicle ID")
	}

	predictions, err := s.predictionRepo.GetServicePredictionsByVehicleID(ctx, vehicleUUID)
	if err != nil {
		s.logger.Error("Failed to get predictions", map[string]interface{}{
			"error":      err.Error(),
			"vehicle_id": vehicleID,
		})
		return nil, err
	}

	return predictions, nil
}

func (s *PredictionService) ListPredictions(ctx context.Context) ([]*domain.ServicePrediction, error) {
	return s.predictionRepo.ListServicePredictions(ctx)
}

// dateOf truncates a timestamp to its calendar date, discarding time of day.
func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}

func earliestDate(a, b *time.Time) *time.Time {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	case b.Before(*a):
		return b
	default:
		return a
	}
}

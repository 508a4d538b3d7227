package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/garageflow/garage_fleet_service/internal/core/domain"

	"github.com/google/uuid"
)

// In-memory port implementations backing the service tests. They mirror the
// ordering and error semantics documented on the port interfaces.

type nopLogger struct{}

func (nopLogger) Info(string, map[string]interface{})  {}
func (nopLogger) Warn(string, map[string]interface{})  {}
func (nopLogger) Error(string, map[string]interface{}) {}

type nopCache struct{}

func (nopCache) Get(string) ([]byte, error)              { return nil, errors.New("cache miss") }
func (nopCache) Set(string, []byte, time.Duration) error { return nil }
func (nopCache) Delete(string) error                     { return nil }

type countingEngine struct {
	mu    sync.Mutex
	calls []uuid.UUID
}

func (e *countingEngine) RecomputeForVehicle(_ context.Context, vehicleID uuid.UUID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls = append(e.calls, vehicleID)
}

func (e *countingEngine) callCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.calls)
}

type fakeVehicleRepo struct {
	vehicles   map[uuid.UUID]*domain.Vehicle
	avgUpdates int
}

func newFakeVehicleRepo() *fakeVehicleRepo {
	return &fakeVehicleRepo{vehicles: make(map[uuid.UUID]*domain.Vehicle)}
}

func (r *fakeVehicleRepo) CreateVehicle(_ context.Context, vehicle *domain.Vehicle) (*domain.Vehicle, error) {
	for _, existing := range r.vehicles {
		if existing.RegistrationNumber == vehicle.RegistrationNumber {
			return nil, domain.ErrDuplicateRegistration
		}
	}
	stored := *vehicle
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}
	r.vehicles[stored.ID] = &stored
	return &stored, nil
}

func (r *fakeVehicleRepo) GetVehicleByID(_ context.Context, vehicleID uuid.UUID) (*domain.Vehicle, error) {
	vehicle, ok := r.vehicles[vehicleID]
	if !ok {
		return nil, domain.ErrVehicleNotFound
	}
	copied := *vehicle
	return &copied, nil
}

func (r *fakeVehicleRepo) GetVehiclesByOwnerID(_ context.Context, ownerID uuid.UUID) ([]*domain.Vehicle, error) {
	var result []*domain.Vehicle
	for _, vehicle := range r.vehicles {
		if vehicle.OwnerID == ownerID {
			copied := *vehicle
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (r *fakeVehicleRepo) ListVehicles(_ context.Context) ([]*domain.Vehicle, error) {
	var result []*domain.Vehicle
	for _, vehicle := range r.vehicles {
		copied := *vehicle
		result = append(result, &copied)
	}
	return result, nil
}

func (r *fakeVehicleRepo) UpdateAverageDailyKm(_ context.Context, vehicleID uuid.UUID, avgDailyKm float64) error {
	vehicle, ok := r.vehicles[vehicleID]
	if !ok {
		return domain.ErrVehicleNotFound
	}
	vehicle.AverageDailyKm = &avgDailyKm
	r.avgUpdates++
	return nil
}

func (r *fakeVehicleRepo) DeleteVehicle(_ context.Context, vehicleID uuid.UUID) error {
	if _, ok := r.vehicles[vehicleID]; !ok {
		return domain.ErrVehicleNotFound
	}
	delete(r.vehicles, vehicleID)
	return nil
}

type fakeMileageRepo struct {
	records []*domain.MileageRecord
	seq     int
}

func newFakeMileageRepo() *fakeMileageRepo {
	return &fakeMileageRepo{}
}

func (r *fakeMileageRepo) CreateMileageRecord(_ context.Context, record *domain.MileageRecord) (*domain.MileageRecord, error) {
	stored := *record
	r.seq++
	stored.CreatedAt = time.Unix(int64(r.seq), 0)
	r.records = append(r.records, &stored)
	copied := stored
	return &copied, nil
}

func (r *fakeMileageRepo) GetMileageRecordByID(_ context.Context, recordID uuid.UUID) (*domain.MileageRecord, error) {
	for _, record := range r.records {
		if record.ID == recordID {
			copied := *record
			return &copied, nil
		}
	}
	return nil, domain.ErrMileageRecordNotFound
}

func (r *fakeMileageRepo) GetMileageRecordsByVehicleID(_ context.Context, vehicleID uuid.UUID) ([]*domain.MileageRecord, error) {
	var result []*domain.MileageRecord
	for _, record := range r.records {
		if record.VehicleID == vehicleID {
			copied := *record
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (r *fakeMileageRepo) GetLatestMileageRecord(_ context.Context, vehicleID uuid.UUID) (*domain.MileageRecord, error) {
	var latest *domain.MileageRecord
	for _, record := range r.records {
		if record.VehicleID != vehicleID {
			continue
		}
		if latest == nil ||
			record.RecordedAt.After(latest.RecordedAt) ||
			(record.RecordedAt.Equal(latest.RecordedAt) && record.CreatedAt.After(latest.CreatedAt)) {
			latest = record
		}
	}
	if latest == nil {
		return nil, domain.ErrMileageRecordNotFound
	}
	copied := *latest
	return &copied, nil
}

func (r *fakeMileageRepo) GetEarliestMileageRecord(_ context.Context, vehicleID uuid.UUID) (*domain.MileageRecord, error) {
	var earliest *domain.MileageRecord
	for _, record := range r.records {
		if record.VehicleID != vehicleID {
			continue
		}
		if earliest == nil ||
			record.RecordedAt.Before(earliest.RecordedAt) ||
			(record.RecordedAt.Equal(earliest.RecordedAt) && record.CreatedAt.Before(earliest.CreatedAt)) {
			earliest = record
		}
	}
	if earliest == nil {
		return nil, domain.ErrMileageRecordNotFound
	}
	copied := *earliest
	return &copied, nil
}

func (r *fakeMileageRepo) UpdateMileageRecord(_ context.Context, record *domain.MileageRecord) (*domain.MileageRecord, error) {
	for i, existing := range r.records {
		if existing.ID == record.ID {
			updated := *record
			updated.CreatedAt = existing.CreatedAt
			r.records[i] = &updated
			copied := updated
			return &copied, nil
		}
	}
	return nil, domain.ErrMileageRecordNotFound
}

func (r *fakeMileageRepo) DeleteMileageRecord(_ context.Context, recordID uuid.UUID) error {
	for i, existing := range r.records {
		if existing.ID == recordID {
			r.records = append(r.records[:i], r.records[i+1:]...)
			return nil
		}
	}
	return domain.ErrMileageRecordNotFound
}

type fakeServiceTypeRepo struct {
	types map[uuid.UUID]*domain.ServiceType
	inUse map[uuid.UUID]bool
}

func newFakeServiceTypeRepo() *fakeServiceTypeRepo {
	return &fakeServiceTypeRepo{
		types: make(map[uuid.UUID]*domain.ServiceType),
		inUse: make(map[uuid.UUID]bool),
	}
}

func (r *fakeServiceTypeRepo) CreateServiceType(_ context.Context, serviceType *domain.ServiceType) (*domain.ServiceType, error) {
	stored := *serviceType
	r.types[stored.ID] = &stored
	copied := stored
	return &copied, nil
}

func (r *fakeServiceTypeRepo) GetServiceTypeByID(_ context.Context, serviceTypeID uuid.UUID) (*domain.ServiceType, error) {
	serviceType, ok := r.types[serviceTypeID]
	if !ok {
		return nil, domain.ErrServiceTypeNotFound
	}
	copied := *serviceType
	return &copied, nil
}

func (r *fakeServiceTypeRepo) ListServiceTypes(_ context.Context) ([]*domain.ServiceType, error) {
	var result []*domain.ServiceType
	for _, serviceType := range r.types {
		copied := *serviceType
		result = append(result, &copied)
	}
	return result, nil
}

func (r *fakeServiceTypeRepo) UpdateServiceType(_ context.Context, serviceType *domain.ServiceType) (*domain.ServiceType, error) {
	if _, ok := r.types[serviceType.ID]; !ok {
		return nil, domain.ErrServiceTypeNotFound
	}
	stored := *serviceType
	r.types[stored.ID] = &stored
	copied := stored
	return &copied, nil
}

func (r *fakeServiceTypeRepo) DeleteServiceType(_ context.Context, serviceTypeID uuid.UUID) error {
	if _, ok := r.types[serviceTypeID]; !ok {
		return domain.ErrServiceTypeNotFound
	}
	if r.inUse[serviceTypeID] {
		return domain.ErrServiceTypeInUse
	}
	delete(r.types, serviceTypeID)
	return nil
}

type fakeServiceEventRepo struct {
	events []*domain.ServiceEvent
}

func newFakeServiceEventRepo() *fakeServiceEventRepo {
	return &fakeServiceEventRepo{}
}

func (r *fakeServiceEventRepo) CreateServiceEvent(_ context.Context, event *domain.ServiceEvent) (*domain.ServiceEvent, error) {
	stored := *event
	r.events = append(r.events, &stored)
	copied := stored
	return &copied, nil
}

func (r *fakeServiceEventRepo) GetServiceEventByID(_ context.Context, eventID uuid.UUID) (*domain.ServiceEvent, error) {
	for _, event := range r.events {
		if event.ID == eventID {
			copied := *event
			return &copied, nil
		}
	}
	return nil, domain.ErrServiceEventNotFound
}

func (r *fakeServiceEventRepo) GetServiceEventsByVehicleID(_ context.Context, vehicleID uuid.UUID) ([]*domain.ServiceEvent, error) {
	var result []*domain.ServiceEvent
	for _, event := range r.events {
		if event.VehicleID == vehicleID {
			copied := *event
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (r *fakeServiceEventRepo) GetLastServiceEvent(_ context.Context, vehicleID, serviceTypeID uuid.UUID) (*domain.ServiceEvent, error) {
	var last *domain.ServiceEvent
	for _, event := range r.events {
		if event.VehicleID != vehicleID || event.ServiceTypeID != serviceTypeID {
			continue
		}
		if last == nil ||
			event.EventDate.After(last.EventDate) ||
			(event.EventDate.Equal(last.EventDate) && event.MileageAtService > last.MileageAtService) {
			last = event
		}
	}
	if last == nil {
		return nil, domain.ErrServiceEventNotFound
	}
	copied := *last
	return &copied, nil
}

func (r *fakeServiceEventRepo) DeleteServiceEvent(_ context.Context, eventID uuid.UUID) error {
	for i, event := range r.events {
		if event.ID == eventID {
			r.events = append(r.events[:i], r.events[i+1:]...)
			return nil
		}
	}
	return domain.ErrServiceEventNotFound
}

type fakeRuleRepo struct {
	rules []*domain.PredictionRule
}

func newFakeRuleRepo() *fakeRuleRepo {
	return &fakeRuleRepo{}
}

func (r *fakeRuleRepo) CreatePredictionRule(_ context.Context, rule *domain.PredictionRule) (*domain.PredictionRule, error) {
	if rule.IsActive {
		for _, existing := range r.rules {
			if existing.ServiceTypeID == rule.ServiceTypeID && existing.IsActive {
				return nil, domain.ErrActiveRuleExists
			}
		}
	}
	stored := *rule
	r.rules = append(r.rules, &stored)
	copied := stored
	return &copied, nil
}

func (r *fakeRuleRepo) GetPredictionRuleByID(_ context.Context, ruleID uuid.UUID) (*domain.PredictionRule, error) {
	for _, rule := range r.rules {
		if rule.ID == ruleID {
			copied := *rule
			return &copied, nil
		}
	}
	return nil, domain.ErrPredictionRuleNotFound
}

func (r *fakeRuleRepo) GetActivePredictionRules(_ context.Context) ([]*domain.PredictionRule, error) {
	var result []*domain.PredictionRule
	for _, rule := range r.rules {
		if rule.IsActive {
			copied := *rule
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (r *fakeRuleRepo) ListPredictionRules(_ context.Context) ([]*domain.PredictionRule, error) {
	var result []*domain.PredictionRule
	for _, rule := range r.rules {
		copied := *rule
		result = append(result, &copied)
	}
	return result, nil
}

func (r *fakeRuleRepo) UpdatePredictionRule(_ context.Context, rule *domain.PredictionRule) (*domain.PredictionRule, error) {
	for i, existing := range r.rules {
		if existing.ID == rule.ID {
			stored := *rule
			r.rules[i] = &stored
			copied := stored
			return &copied, nil
		}
	}
	return nil, domain.ErrPredictionRuleNotFound
}

func (r *fakeRuleRepo) DeletePredictionRule(_ context.Context, ruleID uuid.UUID) error {
	for i, existing := range r.rules {
		if existing.ID == ruleID {
			r.rules = append(r.rules[:i], r.rules[i+1:]...)
			return nil
		}
	}
	return domain.ErrPredictionRuleNotFound
}

type predictionKey struct {
	vehicleID     uuid.UUID
	serviceTypeID uuid.UUID
}

type fakePredictionRepo struct {
	predictions map[predictionKey]*domain.ServicePrediction
	upserts     int
}

func newFakePredictionRepo() *fakePredictionRepo {
	return &fakePredictionRepo{predictions: make(map[predictionKey]*domain.ServicePrediction)}
}

func (r *fakePredictionRepo) UpsertServicePrediction(_ context.Context, prediction *domain.ServicePrediction) (*domain.ServicePrediction, error) {
	key := predictionKey{vehicleID: prediction.VehicleID, serviceTypeID: prediction.ServiceTypeID}
	stored := *prediction
	if stored.ID == uuid.Nil {
		if existing, ok := r.predictions[key]; ok {
			stored.ID = existing.ID
		} else {
			stored.ID = uuid.New()
		}
	}
	r.predictions[key] = &stored
	r.upserts++
	copied := stored
	return &copied, nil
}

func (r *fakePredictionRepo) GetServicePrediction(_ context.Context, vehicleID, serviceTypeID uuid.UUID) (*domain.ServicePrediction, error) {
	prediction, ok := r.predictions[predictionKey{vehicleID: vehicleID, serviceTypeID: serviceTypeID}]
	if !ok {
		return nil, domain.ErrPredictionNotFound
	}
	copied := *prediction
	return &copied, nil
}

func (r *fakePredictionRepo) GetServicePredictionsByVehicleID(_ context.Context, vehicleID uuid.UUID) ([]*domain.ServicePrediction, error) {
	var result []*domain.ServicePrediction
	for _, prediction := range r.predictions {
		if prediction.VehicleID == vehicleID {
			copied := *prediction
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (r *fakePredictionRepo) ListServicePredictions(_ context.Context) ([]*domain.ServicePrediction, error) {
	var result []*domain.ServicePrediction
	for _, prediction := range r.predictions {
		copied := *prediction
		result = append(result, &copied)
	}
	return result, nil
}

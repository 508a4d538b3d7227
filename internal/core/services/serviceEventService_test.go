package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/garageflow/garage_fleet_service/internal/core/domain"

	"github.com/google/uuid"
)

type eventFixture struct {
	vehicleRepo     *fakeVehicleRepo
	mileageRepo     *fakeMileageRepo
	eventRepo       *fakeServiceEventRepo
	serviceTypeRepo *fakeServiceTypeRepo
	engine          *countingEngine
	svc             *ServiceEventService
}

func newEventFixture(t *testing.T) *eventFixture {
	t.Helper()
	f := &eventFixture{
		vehicleRepo:     newFakeVehicleRepo(),
		mileageRepo:     newFakeMileageRepo(),
		eventRepo:       newFakeServiceEventRepo(),
		serviceTypeRepo: newFakeServiceTypeRepo(),
		engine:          &countingEngine{},
	}
	f.svc = NewServiceEventService(
		f.eventRepo, f.serviceTypeRepo, f.vehicleRepo, f.mileageRepo,
		f.engine, nopLogger{}, newTestValidator(t), nopCache{})
	return f
}

func (f *eventFixture) addVehicle(t *testing.T) *domain.Vehicle {
	t.Helper()
	vehicle := &domain.Vehicle{
		ID:                 uuid.New(),
		OwnerID:            uuid.New(),
		Make:               "Volkswagen",
		Model:              "Polo",
		RegistrationNumber: "150TU900",
		InitialMileage:     30000,
		CreatedAt:          time.Now(),
	}
	if _, err := f.vehicleRepo.CreateVehicle(context.Background(), vehicle); err != nil {
		t.Fatalf("create vehicle: %v", err)
	}
	return vehicle
}

func (f *eventFixture) addServiceType(t *testing.T) *domain.ServiceType {
	t.Helper()
	serviceType := &domain.ServiceType{
		ID:   uuid.New(),
		Name: "Oil Change",
	}
	if _, err := f.serviceTypeRepo.CreateServiceType(context.Background(), serviceType); err != nil {
		t.Fatalf("create service type: %v", err)
	}
	return serviceType
}

func TestCreateServiceEventSynthesizesFirstReading(t *testing.T) {
	f := newEventFixture(t)
	vehicle := f.addVehicle(t)
	serviceType := f.addServiceType(t)
	eventDate := time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)

	created, err := f.svc.CreateServiceEvent(context.Background(), &domain.ServiceEvent{
		VehicleID:        vehicle.ID,
		ServiceTypeID:    serviceType.ID,
		EventDate:        eventDate,
		MileageAtService: 32000,
	})
	if err != nil {
		t.Fatalf("create service event: %v", err)
	}

	if len(f.mileageRepo.records) != 1 {
		t.Fatalf("expected a synthesized mileage record, have %d", len(f.mileageRepo.records))
	}
	record := f.mileageRepo.records[0]
	if record.Source != domain.SourceService {
		t.Errorf("expected source SERVICE, got %s", record.Source)
	}
	if record.Mileage != 32000 {
		t.Errorf("expected mileage 32000 from the event, got %d", record.Mileage)
	}
	if !record.RecordedAt.Equal(eventDate) {
		t.Errorf("expected recorded_at %v, got %v", eventDate, record.RecordedAt)
	}
	if record.RecordedBy == nil || *record.RecordedBy != vehicle.OwnerID {
		t.Errorf("expected synthesized record attributed to the owner")
	}
	if created.ID == uuid.Nil {
		t.Error("expected the event to get an ID")
	}
	if f.engine.callCount() != 1 {
		t.Errorf("expected exactly one recompute, got %d", f.engine.callCount())
	}
}

func TestCreateServiceEventSkipsSynthesisWithExistingReadings(t *testing.T) {
	f := newEventFixture(t)
	vehicle := f.addVehicle(t)
	serviceType := f.addServiceType(t)

	f.mileageRepo.CreateMileageRecord(context.Background(), &domain.MileageRecord{
		ID:         uuid.New(),
		VehicleID:  vehicle.ID,
		Mileage:    31000,
		RecordedAt: time.Now(),
		Source:     domain.SourceCustomer,
	})

	if _, err := f.svc.CreateServiceEvent(context.Background(), &domain.ServiceEvent{
		VehicleID:        vehicle.ID,
		ServiceTypeID:    serviceType.ID,
		EventDate:        time.Now(),
		MileageAtService: 32000,
	}); err != nil {
		t.Fatalf("create service event: %v", err)
	}

	if len(f.mileageRepo.records) != 1 {
		t.Errorf("expected no synthesized record when readings exist, have %d", len(f.mileageRepo.records))
	}
}

func TestCreateServiceEventDefaultsEventDate(t *testing.T) {
	f := newEventFixture(t)
	vehicle := f.addVehicle(t)
	serviceType := f.addServiceType(t)

	created, err := f.svc.CreateServiceEvent(context.Background(), &domain.ServiceEvent{
		VehicleID:        vehicle.ID,
		ServiceTypeID:    serviceType.ID,
		MileageAtService: 32000,
	})
	if err != nil {
		t.Fatalf("create service event: %v", err)
	}

	if created.EventDate.IsZero() {
		t.Error("expected a defaulted event date")
	}
}

func TestCreateServiceEventUnknownServiceType(t *testing.T) {
	f := newEventFixture(t)
	vehicle := f.addVehicle(t)

	_, err := f.svc.CreateServiceEvent(context.Background(), &domain.ServiceEvent{
		VehicleID:        vehicle.ID,
		ServiceTypeID:    uuid.New(),
		EventDate:        time.Now(),
		MileageAtService: 32000,
	})

	if !errors.Is(err, domain.ErrServiceTypeNotFound) {
		t.Fatalf("expected ErrServiceTypeNotFound, got %v", err)
	}
	if len(f.eventRepo.events) != 0 {
		t.Errorf("expected no event stored, have %d", len(f.eventRepo.events))
	}
	if f.engine.callCount() != 0 {
		t.Errorf("expected no recompute for a rejected event, got %d", f.engine.callCount())
	}
}

func TestCreateServiceEventUnknownVehicle(t *testing.T) {
	f := newEventFixture(t)
	serviceType := f.addServiceType(t)

	_, err := f.svc.CreateServiceEvent(context.Background(), &domain.ServiceEvent{
		VehicleID:        uuid.New(),
		ServiceTypeID:    serviceType.ID,
		EventDate:        time.Now(),
		MileageAtService: 32000,
	})

	if !errors.Is(err, domain.ErrVehicleNotFound) {
		t.Fatalf("expected ErrVehicleNotFound, got %v", err)
	}
}

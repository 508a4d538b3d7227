package services

import (
	"context"
	"testing"

	"github.com/garageflow/garage_fleet_service/internal/core/domain"

	"github.com/google/uuid"
)

type vehicleFixture struct {
	vehicleRepo *fakeVehicleRepo
	mileageRepo *fakeMileageRepo
	engine      *countingEngine
	svc         *VehicleService
}

func newVehicleFixture(t *testing.T) *vehicleFixture {
	t.Helper()
	f := &vehicleFixture{
		vehicleRepo: newFakeVehicleRepo(),
		mileageRepo: newFakeMileageRepo(),
		engine:      &countingEngine{},
	}
	f.svc = NewVehicleService(
		f.vehicleRepo, f.mileageRepo, f.engine, nopLogger{}, newTestValidator(t), nopCache{})
	return f
}

func TestCreateVehicleWritesInitialRecord(t *testing.T) {
	f := newVehicleFixture(t)
	ownerID := uuid.New()

	created, err := f.svc.CreateVehicle(context.Background(), &domain.Vehicle{
		OwnerID:            ownerID,
		Make:               "Peugeot",
		Model:              "301",
		RegistrationNumber: "99TU321",
		InitialMileage:     45000,
	})
	if err != nil {
		t.Fatalf("create vehicle: %v", err)
	}

	if len(f.mileageRepo.records) != 1 {
		t.Fatalf("expected one initial mileage record, have %d", len(f.mileageRepo.records))
	}
	record := f.mileageRepo.records[0]
	if record.Source != domain.SourceInitial {
		t.Errorf("expected source INITIAL, got %s", record.Source)
	}
	if record.Mileage != 45000 {
		t.Errorf("expected mileage 45000 from intake, got %d", record.Mileage)
	}
	if record.VehicleID != created.ID {
		t.Errorf("expected record bound to the new vehicle")
	}
	if record.RecordedBy == nil || *record.RecordedBy != ownerID {
		t.Errorf("expected initial record attributed to the owner")
	}
	if f.engine.callCount() != 1 {
		t.Errorf("expected one recompute after intake, got %d", f.engine.callCount())
	}
}

func TestCreateVehicleRejectsInvalidPlate(t *testing.T) {
	f := newVehicleFixture(t)

	_, err := f.svc.CreateVehicle(context.Background(), &domain.Vehicle{
		OwnerID:            uuid.New(),
		Make:               "Peugeot",
		Model:              "301",
		RegistrationNumber: "ABC-123",
		InitialMileage:     45000,
	})

	if err == nil {
		t.Fatal("expected validation error for a malformed plate")
	}
	if len(f.vehicleRepo.vehicles) != 0 {
		t.Errorf("expected no vehicle stored, have %d", len(f.vehicleRepo.vehicles))
	}
}

func TestCreateVehicleRejectsDuplicateRegistration(t *testing.T) {
	f := newVehicleFixture(t)
	ctx := context.Background()

	vehicle := domain.Vehicle{
		OwnerID:            uuid.New(),
		Make:               "Peugeot",
		Model:              "301",
		RegistrationNumber: "99TU321",
		InitialMileage:     45000,
	}
	if _, err := f.svc.CreateVehicle(ctx, &vehicle); err != nil {
		t.Fatalf("first create: %v", err)
	}

	duplicate := vehicle
	duplicate.ID = uuid.Nil
	if _, err := f.svc.CreateVehicle(ctx, &duplicate); err != domain.ErrDuplicateRegistration {
		t.Fatalf("expected ErrDuplicateRegistration, got %v", err)
	}
}

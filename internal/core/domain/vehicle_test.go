package domain

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

func TestTunisianPlateValidation(t *testing.T) {
	validate := validator.New()
	if err := RegisterValidations(validate); err != nil {
		t.Fatalf("register validations: %v", err)
	}

	vehicle := func(plate string) *Vehicle {
		return &Vehicle{
			OwnerID:            uuid.New(),
			Make:               "Peugeot",
			Model:              "208",
			RegistrationNumber: plate,
			InitialMileage:     1000,
		}
	}

	valid := []string{
		"1TU1",
		"123TU4567",
		"99tu456",
		"RS123456",
		"rs1",
	}
	for _, plate := range valid {
		if err := validate.Struct(vehicle(plate)); err != nil {
			t.Errorf("expected %q to be accepted: %v", plate, err)
		}
	}

	invalid := []string{
		"",
		"TU1234",
		"1234TU1",
		"123TU12345",
		"RS",
		"123AB456",
		"123TU45a",
		"ABC-123",
	}
	for _, plate := range invalid {
		if err := validate.Struct(vehicle(plate)); err == nil {
			t.Errorf("expected %q to be rejected", plate)
		}
	}
}

func TestMileageSourceValid(t *testing.T) {
	for _, source := range []MileageSource{SourceCustomer, SourceAdmin, SourceMechanic, SourceInitial, SourceService} {
		if !source.Valid() {
			t.Errorf("expected %s to be valid", source)
		}
	}
	if MileageSource("GUESS").Valid() {
		t.Error("expected unknown source to be invalid")
	}
}

package domain

import (
	"errors"
	"fmt"
)

var (
	ErrVehicleNotFound        = errors.New("vehicle not found")
	ErrMileageRecordNotFound  = errors.New("mileage record not found")
	ErrServiceTypeNotFound    = errors.New("service type not found")
	ErrServiceEventNotFound   = errors.New("service event not found")
	ErrPredictionRuleNotFound = errors.New("prediction rule not found")
	ErrPredictionNotFound     = errors.New("prediction not found")

	// Structural constraint violations, mapped from the database layer.
	ErrDuplicateRegistration = errors.New("registration number already in use")
	ErrActiveRuleExists      = errors.New("an active rule already exists for this service type")
	ErrServiceTypeInUse      = errors.New("service type is referenced by service events")
)

// ValidationError rejects a write before any state change. Attempted and
// Previous are set for the mileage regression case so callers can report
// both values.
type ValidationError struct {
	Field     string `json:"field"`
	Message   string `json:"message"`
	Attempted int    `json:"attempted,omitempty"`
	Previous  int    `json:"previous,omitempty"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

// NewMileageRegressionError reports an attempted reading below the latest
// stored reading for the same vehicle.
func NewMileageRegressionError(attempted, previous int) *ValidationError {
	return &ValidationError{
		Field:     "mileage",
		Message:   fmt.Sprintf("mileage (%d km) cannot be lower than the latest recorded value (%d km)", attempted, previous),
		Attempted: attempted,
		Previous:  previous,
	}
}

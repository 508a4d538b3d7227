package domain

import (
	"time"

	"github.com/google/uuid"
)

// PredictionRule is an admin-defined interval for one service type. At most
// one active rule may exist per service type (partial unique index).
type PredictionRule struct {
	ID             uuid.UUID `json:"id"`
	ServiceTypeID  uuid.UUID `json:"service_type_id" validate:"required"`
	IntervalKm     int       `json:"interval_km" validate:"required,min=1"`
	IntervalMonths *int      `json:"interval_months,omitempty" validate:"omitempty,min=1"`
	IsActive       bool      `json:"is_active"`
}

type PredictionSource string

const (
	PredictionSourceRule PredictionSource = "RULE"
	PredictionSourceML   PredictionSource = "ML"
)

// ServicePrediction is fully derived state: one row per (vehicle, service
// type), overwritten by the recomputation engine and never written directly
// by user action.
type ServicePrediction struct {
	ID                  uuid.UUID        `json:"id"`
	VehicleID           uuid.UUID        `json:"vehicle_id"`
	ServiceTypeID       uuid.UUID        `json:"service_type_id"`
	PredictedDueDate    *time.Time       `json:"predicted_due_date,omitempty"`
	PredictedDueMileage *int             `json:"predicted_due_mileage,omitempty"`
	Source              PredictionSource `json:"prediction_source"`
	GeneratedAt         time.Time        `json:"generated_at"`
}

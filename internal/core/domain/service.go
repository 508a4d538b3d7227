package domain

import (
	"time"

	"github.com/google/uuid"
)

// ServiceType is a catalog entry ("Oil Change", "Brake Pads", ...). Reference
// data, rarely mutated. Deletion is blocked while service events reference it.
type ServiceType struct {
	ID                    uuid.UUID `json:"id"`
	Name                  string    `json:"name" validate:"required,max=200"`
	Description           string    `json:"description,omitempty"`
	DefaultIntervalKm     *int      `json:"default_interval_km,omitempty" validate:"omitempty,min=1"`
	DefaultIntervalMonths *int      `json:"default_interval_months,omitempty" validate:"omitempty,min=1"`
	CreatedAt             time.Time `json:"created_at"`
}

// ServiceEvent is one intervention performed on a vehicle.
type ServiceEvent struct {
	ID               uuid.UUID `json:"id"`
	VehicleID        uuid.UUID `json:"vehicle_id" validate:"required"`
	ServiceTypeID    uuid.UUID `json:"service_type_id" validate:"required"`
	EventDate        time.Time `json:"event_date"`
	MileageAtService int       `json:"mileage_at_service" validate:"min=0"`
	Notes            string    `json:"notes,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

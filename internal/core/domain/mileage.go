package domain

import (
	"time"

	"github.com/google/uuid"
)

type MileageSource string

const (
	SourceCustomer MileageSource = "CUSTOMER"
	SourceAdmin    MileageSource = "ADMIN"
	SourceMechanic MileageSource = "MECHANIC"
	SourceInitial  MileageSource = "INITIAL"
	SourceService  MileageSource = "SERVICE"
)

func (s MileageSource) Valid() bool {
	switch s {
	case SourceCustomer, SourceAdmin, SourceMechanic, SourceInitial, SourceService:
		return true
	}
	return false
}

// MileageRecord is an odometer reading for a vehicle. Records are append-only:
// for one vehicle, readings ordered by RecordedAt must be non-decreasing in
// Mileage. Only admins may correct or delete a record after the fact.
type MileageRecord struct {
	ID         uuid.UUID     `json:"id"`
	VehicleID  uuid.UUID     `json:"vehicle_id" validate:"required"`
	Mileage    int           `json:"mileage" validate:"min=0"`
	RecordedAt time.Time     `json:"recorded_at"`
	Source     MileageSource `json:"source"`
	RecordedBy *uuid.UUID    `json:"recorded_by,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
}

package domain

import (
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Tunisian registration formats: 123TU1234 or RS123456.
var tunisianPlateRegex = regexp.MustCompile(`^(?:(?:\d{1,3}[Tt][Uu]\d{1,4})|(?:[Rr][Ss]\d+))$`)

type Vehicle struct {
	ID                 uuid.UUID `json:"id"`
	OwnerID            uuid.UUID `json:"owner_id" validate:"required"`
	Make               string    `json:"make" validate:"required,max=100"`
	Model              string    `json:"model" validate:"required,max=100"`
	Year               int       `json:"year,omitempty" validate:"omitempty,min=1900,max=2100"`
	RegistrationNumber string    `json:"registration_number" validate:"required,max=50,tn_plate"`
	VIN                string    `json:"vin,omitempty" validate:"omitempty,len=17"`
	InitialMileage     int       `json:"initial_mileage" validate:"min=0"`
	// Derived from the mileage history. nil means "not enough data yet".
	AverageDailyKm *float64  `json:"average_daily_km,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// RegisterValidations adds the custom tag validators the domain structs use.
// Must be called once on the validator instance before validating entities.
func RegisterValidations(validate *validator.Validate) error {
	return validate.RegisterValidation("tn_plate", func(fl validator.FieldLevel) bool {
		return tunisianPlateRegex.MatchString(fl.Field().String())
	})
}

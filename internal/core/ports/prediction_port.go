package ports

import (
	"context"

	"github.com/garageflow/garage_fleet_service/internal/core/domain"

	"github.com/google/uuid"
)

type PredictionRuleRepository interface {
	// CreatePredictionRule returns domain.ErrActiveRuleExists when an active
	// rule for the same service type already exists.
	CreatePredictionRule(ctx context.Context, rule *domain.PredictionRule) (*domain.PredictionRule, error)
	GetPredictionRuleByID(ctx context.Context, ruleID uuid.UUID) (*domain.PredictionRule, error)
	GetActivePredictionRules(ctx context.Context) ([]*domain.PredictionRule, error)
	ListPredictionRules(ctx context.Context) ([]*domain.PredictionRule, error)
	UpdatePredictionRule(ctx context.Context, rule *domain.PredictionRule) (*domain.PredictionRule, error)
	DeletePredictionRule(ctx context.Context, ruleID uuid.UUID) error
}

type ServicePredictionRepository interface {
	// UpsertServicePrediction inserts or overwrites the single row keyed by
	// (vehicle, service type).
	UpsertServicePrediction(ctx context.Context, prediction *domain.ServicePrediction) (*domain.ServicePrediction, error)
	GetServicePrediction(ctx context.Context, vehicleID, serviceTypeID uuid.UUID) (*domain.ServicePrediction, error)
	GetServicePredictionsByVehicleID(ctx context.Context, vehicleID uuid.UUID) ([]*domain.ServicePrediction, error)
	ListServicePredictions(ctx context.Context) ([]*domain.ServicePrediction, error)
}

// PredictionEngine is the synchronous recompute hook the write paths invoke
// after a mileage or service event is durably saved.
type PredictionEngine interface {
	RecomputeForVehicle(ctx context.Context, vehicleID uuid.UUID)
}

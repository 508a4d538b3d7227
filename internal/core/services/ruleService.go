package services

import (
	"context"
	"fmt"

	"github.com/garageflow/garage_fleet_service/internal/core/domain"
	"github.com/garageflow/garage_fleet_service/internal/core/ports"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// PredictionRuleService manages the admin-defined interval rules. The
// one-active-rule-per-service-type invariant is enforced structurally by the
// store (partial unique index), not checked here.
type PredictionRuleService struct {
	ruleRepo        ports.PredictionRuleRepository
	serviceTypeRepo ports.ServiceTypeRepository
	logger          ports.LoggerPort
	validate        *validator.Validate
}

func NewPredictionRuleService(
	ruleRepo ports.PredictionRuleRepository,
	serviceTypeRepo ports.ServiceTypeRepository,
	logger ports.LoggerPort,
	validate *validator.Validate,
) *PredictionRuleService {
	return &PredictionRuleService{
		ruleRepo:        ruleRepo,
		serviceTypeRepo: serviceTypeRepo,
		logger:          logger,
		validate:        validate,
	}
}

func (s *PredictionRuleService) CreatePredictionRule(ctx context.Context, rule *domain.PredictionRule) (*domain.PredictionRule, error) {
	if err := s.validate.Struct(rule); err != nil {
		s.logger.Error("Prediction rule validation failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, fmt.Errorf("validation error: %w", err)
	}

	if _, err := s.serviceTypeRepo.GetServiceTypeByID(ctx, rule.ServiceTypeID); err != nil {
		s.logger.Error("Failed to get service type for rule", map[string]interface{}{
			"error":           err.Error(),
			"service_type_id": rule.ServiceTypeID.String(),
		})
		return nil, err
	}

	if rule.ID == uuid.Nil {
		rule.ID = uuid.New()
	}

	created, err := s.ruleRepo.CreatePredictionRule(ctx, rule)
	if err != nil {
		s.logger.Error("Failed to create prediction rule", map[string]interface{}{
			"error":           err.Error(),
			"service_type_id": rule.ServiceTypeID.String(),
		})
		return nil, err
	}

	s.logger.Info("Prediction rule created successfully", map[string]interface{}{
		"rule_id":         created.ID,
		"service_type_id": created.ServiceTypeID,
		"interval_km":     created.IntervalKm,
	})

	return created, nil
}

func (s *PredictionRuleService) GetPredictionRuleByID(ctx context.Context, ruleID string) (*domain.PredictionRule, error) {
	ruleUUID, err := uuid.Parse(ruleID)
	if err != nil {
		s.logger.Error("Invalid UUID format", map[string]interface{}{
			"rule_id": ruleID,
			"error":   err.Error(),
		})
		return nil, fmt.Errorf("invalid rule ID: %w", err)
	}

	rule, err := s.ruleRepo.GetPredictionRuleByID(ctx, ruleUUID)
	if err != nil {
		s.logger.Error("Failed to get prediction rule", map[string]interface{}{
			"error":   err.Error(),
			"rule_id": ruleID,
		})
		return nil, err
	}

	return rule, nil
}

func (s *PredictionRuleService) ListPredictionRules(ctx context.Context) ([]*domain.PredictionRule, error) {
	rules, err := s.ruleRepo.ListPredictionRules(ctx)
	if err != nil {
		s.logger.Error("Failed to list prediction rules", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, err
	}
	return rules, nil
}

// UpdatePredictionRule covers interval changes and activation toggles.
// Deactivating a rule does not delete existing predictions for it; they
// simply stop being refreshed.
func (s *PredictionRuleService) UpdatePredictionRule(ctx context.Context, rule *domain.PredictionRule) (*domain.PredictionRule, error) {
	if err := s.validate.Struct(rule); err != nil {
		s.logger.Error("Prediction rule validation failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, fmt.Errorf("validation error: %w", err)
	}

	updated, err := s.ruleRepo.UpdatePredictionRule(ctx, rule)
	if err != nil {
		s.logger.Error("Failed to update prediction rule", map[string]interface{}{
			"error":   err.Error(),
			"rule_id": rule.ID,
		})
		return nil, err
	}

	s.logger.Info("Prediction rule updated successfully", map[string]interface{}{
		"rule_id":   updated.ID,
		"is_active": updated.IsActive,
	})

	return updated, nil
}

func (s *PredictionRuleService) DeletePredictionRule(ctx context.Context, ruleID string) error {
	ruleUUID, err := uuid.Parse(ruleID)
	if err != nil {
		s.logger.Error("Invalid UUID format", map[string]interface{}{
			"rule_id": ruleID,
			"error":   err.Error(),
		})
		return fmt.Errorf("invalid rule ID: %w", err)
	}

	if err := s.ruleRepo.DeletePredictionRule(ctx, ruleUUID); err != nil {
		s.logger.Error("Failed to delete prediction rule", map[string]interface{}{
			"error":   err.Error(),
			"rule_id": ruleID,
		})
		return err
	}

	s.logger.Info("Prediction rule deleted successfully", map[string]interface{}{
		"rule_id": ruleID,
	})

	return nil
}

package services

import (
	"context"
	"fmt"

	"github.com/garageflow/garage_fleet_service/internal/core/domain"
	"github.com/garageflow/garage_fleet_service/internal/core/ports"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// ServiceTypeService manages the garage's service catalog.
type ServiceTypeService struct {
	serviceTypeRepo ports.ServiceTypeRepository
	logger          ports.LoggerPort
	validate        *validator.Validate
}

func NewServiceTypeService(
	serviceTypeRepo ports.ServiceTypeRepository,
	logger ports.LoggerPort,
	validate *validator.Validate,
) *ServiceTypeService {
	return &ServiceTypeService{
		serviceTypeRepo: serviceTypeRepo,
		logger:          logger,
		validate:        validate,
	}
}

func (s *ServiceTypeService) CreateServiceType(ctx context.Context, serviceType *domain.ServiceType) (*domain.ServiceType, error) {
	if err := s.validate.Struct(serviceType); err != nil {
		s.logger.Error("Service type validation failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, fmt.Errorf("validation error: %w", err)
	}

	if serviceType.ID == uuid.Nil {
		serviceType.ID = uuid.New()
	}

	created, err := s.serviceTypeRepo.CreateServiceType(ctx, serviceType)
	if err != nil {
		s.logger.Error("Failed to create service type", map[string]interface{}{
			"error": err.Error(),
			"name":  serviceType.Name,
		})
		return nil, err
	}

	s.logger.Info("Service type created successfully", map[string]interface{}{
		"service_type_id": created.ID,
		"name":            created.Name,
	})

	return created, nil
}

func (s *ServiceTypeService) GetServiceTypeByID(ctx context.Context, serviceTypeID string) (*domain.ServiceType, error) {
	serviceTypeUUID, err := uuid.Parse(serviceTypeID)
	if err != nil {
		s.logger.Error("Invalid UUID format", map[string]interface{}{
			"service_type_id": serviceTypeID,
			"error":           err.Error(),
		})
		return nil, fmt.Errorf("invalid service type ID: %w", err)
	}

	serviceType, err := s.serviceTypeRepo.GetServiceTypeByID(ctx, serviceTypeUUID)
	if err != nil {
		s.logger.Error("Failed to get service type", map[string]interface{}{
			"error":           err.Error(),
			"service_type_id": serviceTypeID,
		})
		return nil, err
	}

	return serviceType, nil
}

func (s *ServiceTypeService) ListServiceTypes(ctx context.Context) ([]*domain.ServiceType, error) {
	serviceTypes, err := s.serviceTypeRepo.ListServiceTypes(ctx)
	if err != nil {
		s.logger.Error("Failed to list service types", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, err
	}
	return serviceTypes, nil
}

func (s *ServiceTypeService) UpdateServiceType(ctx context.Context, serviceType *domain.ServiceType) (*domain.ServiceType, error) {
	if err := s.validate.Struct(serviceType); err != nil {
		s.logger.Error("Service type validation failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, fmt.Errorf("validation error: %w", err)
	}

	updated, err := s.serviceTypeRepo.UpdateServiceType(ctx, serviceType)
	if err != nil {
		s.logger.Error("Failed to update service type", map[string]interface{}{
			"error":           err.Error(),
			"service_type_id": serviceType.ID,
		})
		return nil, err
	}

	s.logger.Info("Service type updated successfully", map[string]interface{}{
		"service_type_id": updated.ID,
	})

	return updated, nil
}

// DeleteServiceType fails with domain.ErrServiceTypeInUse while service
// events still reference the type; rules and predictions cascade.
func (s *ServiceTypeService) DeleteServiceType(ctx context.Context, serviceTypeID string) error {
	serviceTypeUUID, err := uuid.Parse(serviceTypeID)
	if err != nil {
		s.logger.Error("Invalid UUID format", map[string]interface{}{
			"service_type_id": serviceTypeID,
			"error":           err.Error(),
		})
		return fmt.Errorf("invalid service type ID: %w", err)
	}

	if err := s.serviceTypeRepo.DeleteServiceType(ctx, serviceTypeUUID); err != nil {
		s.logger.Error("Failed to delete service type", map[string]interface{}{
			"error":           err.Error(),
			"service_type_id": serviceTypeID,
		})
		return err
	}

	s.logger.Info("Service type deleted successfully", map[string]interface{}{
		"service_type_id": serviceTypeID,
	})

	return nil
}

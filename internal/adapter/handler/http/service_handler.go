package http

import (
	"net/http"
	"time"

	"github.com/garageflow/garage_fleet_service/internal/core/domain"
	"github.com/garageflow/garage_fleet_service/internal/core/ports"
	"github.com/garageflow/garage_fleet_service/internal/core/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ServiceTypeHandler struct {
	serviceTypeService *services.ServiceTypeService
	logger             ports.LoggerPort
	metrics            ports.MetricsPort
}

type ServiceTypeRequest struct {
	Name                  string `json:"name" binding:"required" example:"Oil Change"`
	Description           string `json:"description,omitempty" example:"Engine oil and filter replacement"`
	DefaultIntervalKm     *int   `json:"default_interval_km,omitempty" example:"10000"`
	DefaultIntervalMonths *int   `json:"default_interval_months,omitempty" example:"12"`
}

type UpdateServiceType struct {
	Name                  *string `json:"name,omitempty" example:"Oil Change"`
	Description           *string `json:"description,omitempty" example:"Engine oil and filter replacement"`
	DefaultIntervalKm     *int    `json:"default_interval_km,omitempty" example:"10000"`
	DefaultIntervalMonths *int    `json:"default_interval_months,omitempty" example:"12"`
}

func NewServiceTypeHandler(
	serviceTypeService *services.ServiceTypeService,
	logger ports.LoggerPort,
	metrics ports.MetricsPort,
) *ServiceTypeHandler {
	return &ServiceTypeHandler{
		serviceTypeService: serviceTypeService,
		logger:             logger,
		metrics:            metrics,
	}
}

func (h *ServiceTypeHandler) CreateServiceType(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	var req ServiceTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Failed JSON parse in create service type", map[string]interface{}{
			"error": err.Error(),
		})
		newErrorResponse(c, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	serviceType := &domain.ServiceType{
		Name:                  req.Name,
		Description:           req.Description,
		DefaultIntervalKm:     req.DefaultIntervalKm,
		DefaultIntervalMonths: req.DefaultIntervalMonths,
	}

	createdType, err := h.serviceTypeService.CreateServiceType(c.Request.Context(), serviceType)
	if err != nil {
		h.logger.Error("Failed to create service type", map[string]interface{}{
			"error": err.Error(),
			"name":  req.Name,
		})
		newErrorResponse(c, statusFromError(err), err.Error())
		return
	}

	newSuccessResponse(c, http.StatusCreated, "Service type created successfully", createdType)
}

func (h *ServiceTypeHandler) GetServiceType(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	serviceTypeID := c.Param("id")

	serviceType, err := h.serviceTypeService.GetServiceTypeByID(c.Request.Context(), serviceTypeID)
	if err != nil {
		h.logger.Error("Failed to get service type", map[string]interface{}{
			"error":           err.Error(),
			"service_type_id": serviceTypeID,
		})
		newErrorResponse(c, statusFromError(err), "Service type not found")
		return
	}

	newSuccessResponse(c, http.StatusOK, "Service type found", serviceType)
}

func (h *ServiceTypeHandler) ListServiceTypes(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	serviceTypes, err := h.serviceTypeService.ListServiceTypes(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list service types", map[string]interface{}{
			"error": err.Error(),
		})
		newErrorResponse(c, statusFromError(err), "Failed to list service types")
		return
	}

	newSuccessResponse(c, http.StatusOK, "Service types found", serviceTypes)
}

func (h *ServiceTypeHandler) UpdateServiceType(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	serviceTypeID := c.Param("id")

	existingType, err := h.serviceTypeService.GetServiceTypeByID(c.Request.Context(), serviceTypeID)
	if err != nil {
		h.logger.Error("Failed to get service type", map[string]interface{}{
			"error":           err.Error(),
			"service_type_id": serviceTypeID,
		})
		newErrorResponse(c, statusFromError(err), "Service type not found")
		return
	}

	var req UpdateServiceType
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Failed JSON parse in update service type", map[string]interface{}{
			"error": err.Error(),
		})
		newErrorResponse(c, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	serviceType := *existingType
	if req.Name != nil {
		serviceType.Name = *req.Name
	}
	if req.Description != nil {
		serviceType.Description = *req.Description
	}
	if req.DefaultIntervalKm != nil {
		serviceType.DefaultIntervalKm = req.DefaultIntervalKm
	}
	if req.DefaultIntervalMonths != nil {
		serviceType.DefaultIntervalMonths = req.DefaultIntervalMonths
	}

	updatedType, err := h.serviceTypeService.UpdateServiceType(c.Request.Context(), &serviceType)
	if err != nil {
		h.logger.Error("Failed to update service type", map[string]interface{}{
			"error":           err.Error(),
			"service_type_id": serviceTypeID,
		})
		newErrorResponse(c, statusFromError(err), err.Error())
		return
	}

	newSuccessResponse(c, http.StatusOK, "Service type updated successfully", updatedType)
}

func (h *ServiceTypeHandler) DeleteServiceType(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	serviceTypeID := c.Param("id")

	if err := h.serviceTypeService.DeleteServiceType(c.Request.Context(), serviceTypeID); err != nil {
		h.logger.Error("Failed to delete service type", map[string]interface{}{
			"error":           err.Error(),
			"service_type_id": serviceTypeID,
		})
		newErrorResponse(c, statusFromError(err), err.Error())
		return
	}

	newSuccessResponse(c, http.StatusOK, "Service type deleted successfully", nil)
}

type ServiceEventHandler struct {
	serviceEventService *services.ServiceEventService
	logger              ports.LoggerPort
	metrics             ports.MetricsPort
}

type ServiceEventRequest struct {
	VehicleID        string     `json:"vehicle_id" binding:"required" example:"123e4567-e89b-12d3-a456-426614174000"`
	ServiceTypeID    string     `json:"service_type_id" binding:"required" example:"123e4567-e89b-12d3-a456-426614174000"`
	EventDate        *time.Time `json:"event_date,omitempty"`
	MileageAtService int        `json:"mileage_at_service" binding:"required" example:"47500"`
	Notes            string     `json:"notes,omitempty" example:"Replaced oil filter as well"`
}

func NewServiceEventHandler(
	serviceEventService *services.ServiceEventService,
	logger ports.LoggerPort,
	metrics ports.MetricsPort,
) *ServiceEventHandler {
	return &ServiceEventHandler{
		serviceEventService: serviceEventService,
		logger:              logger,
		metrics:             metrics,
	}
}

func (h *ServiceEventHandler) CreateServiceEvent(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	var req ServiceEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Failed JSON parse in create service event", map[string]interface{}{
			"error": err.Error(),
		})
		newErrorResponse(c, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	vehicleUUID, err := uuid.Parse(req.VehicleID)
	if err != nil {
		newErrorResponse(c, http.StatusBadRequest, "Invalid vehicle ID")
		return
	}
	serviceTypeUUID, err := uuid.Parse(req.ServiceTypeID)
	if err != nil {
		newErrorResponse(c, http.StatusBadRequest, "Invalid service type ID")
		return
	}

	event := &domain.ServiceEvent{
		VehicleID:        vehicleUUID,
		ServiceTypeID:    serviceTypeUUID,
		MileageAtService: req.MileageAtService,
		Notes:            req.Notes,
	}
	if req.EventDate != nil {
		event.EventDate = *req.EventDate
	}

	createdEvent, err := h.serviceEventService.CreateServiceEvent(c.Request.Context(), event)
	if err != nil {
		h.logger.Error("Failed to create service event", map[string]interface{}{
			"error":      err.Error(),
			"vehicle_id": req.VehicleID,
		})
		newErrorResponse(c, statusFromError(err), err.Error())
		return
	}

	newSuccessResponse(c, http.StatusCreated, "Service event created successfully", createdEvent)
}

func (h *ServiceEventHandler) GetServiceEvent(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	eventID := c.Param("id")

	event, err := h.serviceEventService.GetServiceEventByID(c.Request.Context(), eventID)
	if err != nil {
		h.logger.Error("Failed to get service event", map[string]interface{}{
			"error":    err.Error(),
			"event_id": eventID,
		})
		newErrorResponse(c, statusFromError(err), "Service event not found")
		return
	}

	newSuccessResponse(c, http.StatusOK, "Service event found", event)
}

func (h *ServiceEventHandler) GetVehicleServiceEvents(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	vehicleID := c.Param("id")

	events, err := h.serviceEventService.GetServiceEventsByVehicleID(c.Request.Context(), vehicleID)
	if err != nil {
		h.logger.Error("Failed to get service events", map[string]interface{}{
			"error":      err.Error(),
			"vehicle_id": vehicleID,
		})
		newErrorResponse(c, statusFromError(err), "Failed to get service events")
		return
	}

	newSuccessResponse(c, http.StatusOK, "Service events found", events)
}

func (h *ServiceEventHandler) DeleteServiceEvent(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	eventID := c.Param("id")

	if err := h.serviceEventService.DeleteServiceEvent(c.Request.Context(), eventID); err != nil {
		h.logger.Error("Failed to delete service event", map[string]interface{}{
			"error":    err.Error(),
			"event_id": eventID,
		})
		newErrorResponse(c, statusFromError(err), "Delete failed")
		return
	}

	newSuccessResponse(c, http.StatusOK, "Service event deleted successfully", nil)
}

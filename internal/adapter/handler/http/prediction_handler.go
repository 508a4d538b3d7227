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

type PredictionHandler struct {
	predictionService *services.PredictionService
	ruleService       *services.PredictionRuleService
	logger            ports.LoggerPort
	metrics           ports.MetricsPort
}

type PredictionRuleRequest struct {
	ServiceTypeID  string `json:"service_type_id" binding:"required" example:"123e4567-e89b-12d3-a456-426614174000"`
	IntervalKm     int    `json:"interval_km" binding:"required" example:"10000"`
	IntervalMonths *int   `json:"interval_months,omitempty" example:"12"`
	IsActive       *bool  `json:"is_active,omitempty" example:"true"`
}

type UpdatePredictionRule struct {
	IntervalKm     *int  `json:"interval_km,omitempty" example:"10000"`
	IntervalMonths *int  `json:"interval_months,omitempty" example:"12"`
	IsActive       *bool `json:"is_active,omitempty" example:"false"`
}

func NewPredictionHandler(
	predictionService *services.PredictionService,
	ruleService *services.PredictionRuleService,
	logger ports.LoggerPort,
	metrics ports.MetricsPort,
) *PredictionHandler {
	return &PredictionHandler{
		predictionService: predictionService,
		ruleService:       ruleService,
		logger:            logger,
		metrics:           metrics,
	}
}

func (h *PredictionHandler) CreatePredictionRule(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	var req PredictionRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Failed JSON parse in create prediction rule", map[string]interface{}{
			"error": err.Error(),
		})
		newErrorResponse(c, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	serviceTypeUUID, err := uuid.Parse(req.ServiceTypeID)
	if err != nil {
		newErrorResponse(c, http.StatusBadRequest, "Invalid service type ID")
		return
	}

	rule := &domain.PredictionRule{
		ServiceTypeID:  serviceTypeUUID,
		IntervalKm:     req.IntervalKm,
		IntervalMonths: req.IntervalMonths,
		IsActive:       true,
	}
	if req.IsActive != nil {
		rule.IsActive = *req.IsActive
	}

	createdRule, err := h.ruleService.CreatePredictionRule(c.Request.Context(), rule)
	if err != nil {
		h.logger.Error("Failed to create prediction rule", map[string]interface{}{
			"error":           err.Error(),
			"service_type_id": req.ServiceTypeID,
		})
		newErrorResponse(c, statusFromError(err), err.Error())
		return
	}

	newSuccessResponse(c, http.StatusCreated, "Prediction rule created successfully", createdRule)
}

func (h *PredictionHandler) GetPredictionRule(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	ruleID := c.Param("id")

	rule, err := h.ruleService.GetPredictionRuleByID(c.Request.Context(), ruleID)
	if err != nil {
		h.logger.Error("Failed to get prediction rule", map[string]interface{}{
			"error":   err.Error(),
			"rule_id": ruleID,
		})
		newErrorResponse(c, statusFromError(err), "Prediction rule not found")
		return
	}

	newSuccessResponse(c, http.StatusOK, "Prediction rule found", rule)
}

func (h *PredictionHandler) ListPredictionRules(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	rules, err := h.ruleService.ListPredictionRules(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list prediction rules", map[string]interface{}{
			"error": err.Error(),
		})
		newErrorResponse(c, statusFromError(err), "Failed to list prediction rules")
		return
	}

	newSuccessResponse(c, http.StatusOK, "Prediction rules found", rules)
}

func (h *PredictionHandler) UpdatePredictionRule(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	ruleID := c.Param("id")

	existingRule, err := h.ruleService.GetPredictionRuleByID(c.Request.Context(), ruleID)
	if err != nil {
		h.logger.Error("Failed to get prediction rule", map[string]interface{}{
			"error":   err.Error(),
			"rule_id": ruleID,
		})
		newErrorResponse(c, statusFromError(err), "Prediction rule not found")
		return
	}

	var req UpdatePredictionRule
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Failed JSON parse in update prediction rule", map[string]interface{}{
			"error": err.Error(),
		})
		newErrorResponse(c, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	rule := *existingRule
	if req.IntervalKm != nil {
		rule.IntervalKm = *req.IntervalKm
	}
	if req.IntervalMonths != nil {
		rule.IntervalMonths = req.IntervalMonths
	}
	if req.IsActive != nil {
		rule.IsActive = *req.IsActive
	}

	updatedRule, err := h.ruleService.UpdatePredictionRule(c.Request.Context(), &rule)
	if err != nil {
		h.logger.Error("Failed to update prediction rule", map[string]interface{}{
			"error":   err.Error(),
			"rule_id": ruleID,
		})
		newErrorResponse(c, statusFromError(err), err.Error())
		return
	}

	newSuccessResponse(c, http.StatusOK, "Prediction rule updated successfully", updatedRule)
}

func (h *PredictionHandler) DeletePredictionRule(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	ruleID := c.Param("id")

	if err := h.ruleService.DeletePredictionRule(c.Request.Context(), ruleID); err != nil {
		h.logger.Error("Failed to delete prediction rule", map[string]interface{}{
			"error":   err.Error(),
			"rule_id": ruleID,
		})
		newErrorResponse(c, statusFromError(err), "Delete failed")
		return
	}

	newSuccessResponse(c, http.StatusOK, "Prediction rule deleted successfully", nil)
}

func (h *PredictionHandler) GetVehiclePredictions(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	vehicleID := c.Param("id")

	predictions, err := h.predictionService.GetPredictionsByVehicleID(c.Request.Context(), vehicleID)
	if err != nil {
		h.logger.Error("Failed to get predictions", map[string]interface{}{
			"error":      err.Error(),
			"vehicle_id": vehicleID,
		})
		newErrorResponse(c, statusFromError(err), "Failed to get predictions")
		return
	}

	newSuccessResponse(c, http.StatusOK, "Predictions found", predictions)
}

func (h *PredictionHandler) ListPredictions(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	predictions, err := h.predictionService.ListPredictions(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list predictions", map[string]interface{}{
			"error": err.Error(),
		})
		newErrorResponse(c, statusFromError(err), "Failed to list predictions")
		return
	}

	newSuccessResponse(c, http.StatusOK, "Predictions found", predictions)
}

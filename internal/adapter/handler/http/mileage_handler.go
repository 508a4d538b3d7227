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

type MileageHandler struct {
	mileageService *services.MileageService
	logger         ports.LoggerPort
	metrics        ports.MetricsPort
}

type MileageRecordRequest struct {
	VehicleID  string     `json:"vehicle_id" binding:"required" example:"123e4567-e89b-12d3-a456-426614174000"`
	Mileage    int        `json:"mileage" binding:"required" example:"47500"`
	RecordedAt *time.Time `json:"recorded_at,omitempty"`
	Source     string     `json:"source,omitempty" example:"CUSTOMER"`
	RecordedBy string     `json:"recorded_by,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
}

type UpdateMileageRecord struct {
	Mileage    *int       `json:"mileage,omitempty" example:"47500"`
	RecordedAt *time.Time `json:"recorded_at,omitempty"`
	Source     *string    `json:"source,omitempty" example:"ADMIN"`
}

func NewMileageHandler(
	mileageService *services.MileageService,
	logger ports.LoggerPort,
	metrics ports.MetricsPort,
) *MileageHandler {
	return &MileageHandler{
		mileageService: mileageService,
		logger:         logger,
		metrics:        metrics,
	}
}

func (h *MileageHandler) CreateMileageRecord(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	var req MileageRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Failed JSON parse in create mileage record", map[string]interface{}{
			"error": err.Error(),
		})
		newErrorResponse(c, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	vehicleUUID, err := uuid.Parse(req.VehicleID)
	if err != nil {
		h.logger.Error("Invalid vehicle ID format", map[string]interface{}{
			"vehicle_id": req.VehicleID,
		})
		newErrorResponse(c, http.StatusBadRequest, "Invalid vehicle ID")
		return
	}

	record := &domain.MileageRecord{
		VehicleID: vehicleUUID,
		Mileage:   req.Mileage,
		Source:    domain.SourceCustomer,
	}
	if req.RecordedAt != nil {
		record.RecordedAt = *req.RecordedAt
	} else {
		record.RecordedAt = time.Now()
	}
	if req.Source != "" {
		record.Source = domain.MileageSource(req.Source)
	}
	if req.RecordedBy != "" {
		recordedByUUID, err := uuid.Parse(req.RecordedBy)
		if err != nil {
			newErrorResponse(c, http.StatusBadRequest, "Invalid recorded_by ID")
			return
		}
		record.RecordedBy = &recordedByUUID
	}

	createdRecord, err := h.mileageService.AddMileageRecord(c.Request.Context(), record)
	if err != nil {
		h.logger.Error("Failed to create mileage record", map[string]interface{}{
			"error":      err.Error(),
			"vehicle_id": req.VehicleID,
		})
		newErrorResponse(c, statusFromError(err), err.Error())
		return
	}

	newSuccessResponse(c, http.StatusCreated, "Mileage record created successfully", createdRecord)
}

func (h *MileageHandler) GetMileageRecord(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	recordID := c.Param("id")

	record, err := h.mileageService.GetMileageRecordByID(c.Request.Context(), recordID)
	if err != nil {
		h.logger.Error("Failed to get mileage record", map[string]interface{}{
			"error":     err.Error(),
			"record_id": recordID,
		})
		newErrorResponse(c, statusFromError(err), "Mileage record not found")
		return
	}

	newSuccessResponse(c, http.StatusOK, "Mileage record found", record)
}

func (h *MileageHandler) GetVehicleMileageRecords(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	vehicleID := c.Param("id")

	records, err := h.mileageService.GetMileageRecordsByVehicleID(c.Request.Context(), vehicleID)
	if err != nil {
		h.logger.Error("Failed to get mileage records", map[string]interface{}{
			"error":      err.Error(),
			"vehicle_id": vehicleID,
		})
		newErrorResponse(c, statusFromError(err), "Failed to get mileage records")
		return
	}

	newSuccessResponse(c, http.StatusOK, "Mileage records found", records)
}

// UpdateMileageRecord is the admin correction endpoint. Only the provided
// fields are changed, the rest come from the stored record.
func (h *MileageHandler) UpdateMileageRecord(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	recordID := c.Param("id")

	existingRecord, err := h.mileageService.GetMileageRecordByID(c.Request.Context(), recordID)
	if err != nil {
		h.logger.Error("Failed to get mileage record", map[string]interface{}{
			"error":     err.Error(),
			"record_id": recordID,
		})
		newErrorResponse(c, statusFromError(err), "Mileage record not found")
		return
	}

	var req UpdateMileageRecord
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Failed JSON parse in update mileage record", map[string]interface{}{
			"error": err.Error(),
		})
		newErrorResponse(c, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	record := *existingRecord
	if req.Mileage != nil {
		record.Mileage = *req.Mileage
	}
	if req.RecordedAt != nil {
		record.RecordedAt = *req.RecordedAt
	}
	if req.Source != nil {
		record.Source = domain.MileageSource(*req.Source)
	}

	updatedRecord, err := h.mileageService.UpdateMileageRecord(c.Request.Context(), &record)
	if err != nil {
		h.logger.Error("Failed to update mileage record", map[string]interface{}{
			"error":     err.Error(),
			"record_id": recordID,
		})
		newErrorResponse(c, statusFromError(err), err.Error())
		return
	}

	newSuccessResponse(c, http.StatusOK, "Mileage record updated successfully", updatedRecord)
}

func (h *MileageHandler) DeleteMileageRecord(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	recordID := c.Param("id")

	if err := h.mileageService.DeleteMileageRecord(c.Request.Context(), recordID); err != nil {
		h.logger.Error("Failed to delete mileage record", map[string]interface{}{
			"error":     err.Error(),
			"record_id": recordID,
		})
		newErrorResponse(c, statusFromError(err), "Delete failed")
		return
	}

	newSuccessResponse(c, http.StatusOK, "Mileage record deleted successfully", nil)
}

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

type VehicleHandler struct {
	vehicleService *services.VehicleService
	logger         ports.LoggerPort
	metrics        ports.MetricsPort
}

type VehicleRequest struct {
	OwnerID            string `json:"owner_id" binding:"required" example:"123e4567-e89b-12d3-a456-426614174000"`
	Make               string `json:"make" binding:"required" example:"Peugeot"`
	Model              string `json:"model" binding:"required" example:"208"`
	Year               int    `json:"year,omitempty" example:"2021"`
	RegistrationNumber string `json:"registration_number" binding:"required" example:"123TU4567"`
	VIN                string `json:"vin,omitempty" example:"VF3CCBHY6JT012345"`
	InitialMileage     int    `json:"initial_mileage" example:"45000"`
}

type VehicleResponse struct {
	ID                 uuid.UUID `json:"id"`
	OwnerID            uuid.UUID `json:"owner_id"`
	Make               string    `json:"make"`
	Model              string    `json:"model"`
	Year               int       `json:"year,omitempty"`
	RegistrationNumber string    `json:"registration_number"`
	VIN                string    `json:"vin,omitempty"`
	InitialMileage     int       `json:"initial_mileage"`
	AverageDailyKm     *float64  `json:"average_daily_km,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

type ListVehiclesResponse struct {
	Vehicles []VehicleResponse `json:"vehicles"`
	Count    int               `json:"count"`
}

func NewVehicleHandler(
	vehicleService *services.VehicleService,
	logger ports.LoggerPort,
	metrics ports.MetricsPort,
) *VehicleHandler {
	return &VehicleHandler{
		vehicleService: vehicleService,
		logger:         logger,
		metrics:        metrics,
	}
}

func toVehicleResponse(vehicle *domain.Vehicle) VehicleResponse {
	return VehicleResponse{
		ID:                 vehicle.ID,
		OwnerID:            vehicle.OwnerID,
		Make:               vehicle.Make,
		Model:              vehicle.Model,
		Year:               vehicle.Year,
		RegistrationNumber: vehicle.RegistrationNumber,
		VIN:                vehicle.VIN,
		InitialMileage:     vehicle.InitialMileage,
		AverageDailyKm:     vehicle.AverageDailyKm,
		CreatedAt:          vehicle.CreatedAt,
		UpdatedAt:          vehicle.UpdatedAt,
	}
}

func (h *VehicleHandler) CreateVehicle(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	var req VehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Failed JSON parse in create vehicle", map[string]interface{}{
			"error": err.Error(),
		})
		newErrorResponse(c, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	ownerUUID, err := uuid.Parse(req.OwnerID)
	if err != nil {
		h.logger.Error("Invalid owner ID format", map[string]interface{}{
			"owner_id": req.OwnerID,
		})
		newErrorResponse(c, http.StatusBadRequest, "Invalid owner ID")
		return
	}

	vehicle := &domain.Vehicle{
		OwnerID:            ownerUUID,
		Make:               req.Make,
		Model:              req.Model,
		Year:               req.Year,
		RegistrationNumber: req.RegistrationNumber,
		VIN:                req.VIN,
		InitialMileage:     req.InitialMileage,
	}

	createdVehicle, err := h.vehicleService.CreateVehicle(c.Request.Context(), vehicle)
	if err != nil {
		h.logger.Error("Failed to create vehicle", map[string]interface{}{
			"error":    err.Error(),
			"owner_id": req.OwnerID,
		})
		newErrorResponse(c, statusFromError(err), err.Error())
		return
	}

	c.JSON(http.StatusCreated, toVehicleResponse(createdVehicle))
}

func (h *VehicleHandler) GetVehicle(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	vehicleID := c.Param("id")

	vehicle, err := h.vehicleService.GetVehicleByID(c.Request.Context(), vehicleID)
	if err != nil {
		h.logger.Error("Failed to get vehicle", map[string]interface{}{
			"error":      err.Error(),
			"vehicle_id": vehicleID,
		})
		newErrorResponse(c, statusFromError(err), "Vehicle not found")
		return
	}

	c.JSON(http.StatusOK, toVehicleResponse(vehicle))
}

func (h *VehicleHandler) ListVehicles(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	var (
		vehicles []*domain.Vehicle
		err      error
	)
	if ownerID := c.Query("owner_id"); ownerID != "" {
		vehicles, err = h.vehicleService.GetVehiclesByOwnerID(c.Request.Context(), ownerID)
	} else {
		vehicles, err = h.vehicleService.ListVehicles(c.Request.Context())
	}
	if err != nil {
		h.logger.Error("Failed to list vehicles", map[string]interface{}{
			"error": err.Error(),
		})
		newErrorResponse(c, statusFromError(err), "Failed to list vehicles")
		return
	}

	vehicleInfos := make([]VehicleResponse, len(vehicles))
	for i, vehicle := range vehicles {
		vehicleInfos[i] = toVehicleResponse(vehicle)
	}

	c.JSON(http.StatusOK, ListVehiclesResponse{
		Vehicles: vehicleInfos,
		Count:    len(vehicleInfos),
	})
}

func (h *VehicleHandler) DeleteVehicle(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	vehicleID := c.Param("id")

	if err := h.vehicleService.DeleteVehicle(c.Request.Context(), vehicleID); err != nil {
		h.logger.Error("Failed to delete vehicle", map[string]interface{}{
			"error":      err.Error(),
			"vehicle_id": vehicleID,
		})
		newErrorResponse(c, statusFromError(err), "Delete failed")
		return
	}

	newSuccessResponse(c, http.StatusOK, "Vehicle deleted successfully", nil)
}

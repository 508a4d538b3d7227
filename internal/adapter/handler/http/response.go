package http

import (
	"errors"
	"net/http"

	"github.com/garageflow/garage_fleet_service/internal/core/domain"

	"github.com/gin-gonic/gin"
)

type errorResponse struct {
	Error string `json:"error" example:"message"`
}

type successResponse struct {
	Message string      `json:"message" example:"ok"`
	Data    interface{} `json:"data,omitempty"`
}

func newErrorResponse(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, errorResponse{Error: message})
}

func newSuccessResponse(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, successResponse{Message: message, Data: data})
}

// statusFromError maps domain errors to HTTP statuses so handlers stay thin.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, domain.ErrVehicleNotFound),
		errors.Is(err, domain.ErrMileageRecordNotFound),
		errors.Is(err, domain.ErrServiceTypeNotFound),
		errors.Is(err, domain.ErrServiceEventNotFound),
		errors.Is(err, domain.ErrPredictionRuleNotFound),
		errors.Is(err, domain.ErrPredictionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateRegistration),
		errors.Is(err, domain.ErrActiveRuleExists),
		errors.Is(err, domain.ErrServiceTypeInUse):
		return http.StatusConflict
	}

	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		return http.StatusBadRequest
	}

	return http.StatusInternalServerError
}

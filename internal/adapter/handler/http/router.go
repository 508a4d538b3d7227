package http

import (
	"net/http"

	"github.com/garageflow/garage_fleet_service/internal/config"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Router struct {
	router *gin.Engine
}

func NewRouter(
	cfg *config.HTTP,
	vehicleHandler *VehicleHandler,
	mileageHandler *MileageHandler,
	serviceTypeHandler *ServiceTypeHandler,
	serviceEventHandler *ServiceEventHandler,
	predictionHandler *PredictionHandler,
) (*Router, error) {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	// CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.AllowedOrigins},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	// Metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Vehicles routes
	vehicles := router.Group("/vehicles")
	{
		vehicles.POST("", vehicleHandler.CreateVehicle)
		vehicles.GET("", vehicleHandler.ListVehicles)
		vehicles.GET("/:id", vehicleHandler.GetVehicle)
		vehicles.DELETE("/:id", vehicleHandler.DeleteVehicle)
		vehicles.GET("/:id/mileage-records", mileageHandler.GetVehicleMileageRecords)
		vehicles.GET("/:id/service-events", serviceEventHandler.GetVehicleServiceEvents)
		vehicles.GET("/:id/predictions", predictionHandler.GetVehiclePredictions)
	}

	// Mileage records routes
	mileageRecords := router.Group("/mileage-records")
	{
		mileageRecords.POST("", mileageHandler.CreateMileageRecord)
		mileageRecords.GET("/:id", mileageHandler.GetMileageRecord)
		mileageRecords.PUT("/:id", mileageHandler.UpdateMileageRecord)
		mileageRecords.DELETE("/:id", mileageHandler.DeleteMileageRecord)
	}

	// Service type catalog routes
	serviceTypes := router.Group("/service-types")
	{
		serviceTypes.POST("", serviceTypeHandler.CreateServiceType)
		serviceTypes.GET("", serviceTypeHandler.ListServiceTypes)
		serviceTypes.GET("/:id", serviceTypeHandler.GetServiceType)
		serviceTypes.PUT("/:id", serviceTypeHandler.UpdateServiceType)
		serviceTypes.DELETE("/:id", serviceTypeHandler.DeleteServiceType)
	}

	// Service events routes
	serviceEvents := router.Group("/service-events")
	{
		serviceEvents.POST("", serviceEventHandler.CreateServiceEvent)
		serviceEvents.GET("/:id", serviceEventHandler.GetServiceEvent)
		serviceEvents.DELETE("/:id", serviceEventHandler.DeleteServiceEvent)
	}

	// Prediction rules routes
	predictionRules := router.Group("/prediction-rules")
	{
		predictionRules.POST("", predictionHandler.CreatePredictionRule)
		predictionRules.GET("", predictionHandler.ListPredictionRules)
		predictionRules.GET("/:id", predictionHandler.GetPredictionRule)
		predictionRules.PUT("/:id", predictionHandler.UpdatePredictionRule)
		predictionRules.DELETE("/:id", predictionHandler.DeletePredictionRule)
	}

	// Predictions are read-only, the engine writes them
	predictions := router.Group("/predictions")
	{
		predictions.GET("", predictionHandler.ListPredictions)
	}

	return &Router{router: router}, nil
}

func (r *Router) Serve(addr string) error {
	return r.router.Run(addr)
}

func (r *Router) Engine() *gin.Engine {
	return r.router
}

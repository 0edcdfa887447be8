package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smartsuschef/backend-go/internal/api/middleware"
	"github.com/smartsuschef/backend-go/internal/service"
)

type MLHandler struct {
	forecast *service.ForecastService
}

func NewMLHandler(forecast *service.ForecastService) *MLHandler {
	return &MLHandler{forecast: forecast}
}

func (h *MLHandler) GetStatus(c *gin.Context) {
	status := h.forecast.MLStatus(c.Request.Context(), middleware.StoreID(c))
	c.JSON(http.StatusOK, gin.H{
		"service_available": status.ServiceAvailable,
		"has_models":        status.HasModels,
		"is_training":       status.IsTraining,
		"dishes":            status.Dishes,
		"days_available":    status.DaysAvailable,
		"training_progress": status.TrainingProgress,
	})
}

func (h *MLHandler) TriggerTraining(c *gin.Context) {
	result, err := h.forecast.TrainModels(c.Request.Context(), middleware.StoreID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": result.Status, "message": result.Message})
}

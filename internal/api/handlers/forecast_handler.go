package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smartsuschef/backend-go/internal/api/middleware"
	"github.com/smartsuschef/backend-go/internal/service"
)

type ForecastHandler struct {
	forecast *service.ForecastService
	export   *service.ExportService
}

func NewForecastHandler(forecast *service.ForecastService, export *service.ExportService) *ForecastHandler {
	return &ForecastHandler{forecast: forecast, export: export}
}

func (h *ForecastHandler) GetForecast(c *gin.Context) {
	days, ok := parseIntQuery(c, "days", 7)
	if !ok {
		return
	}
	includePastDays, ok := parseIntQuery(c, "include_past_days", 0)
	if !ok {
		return
	}

	forecasts, err := h.forecast.GetForecast(c.Request.Context(), middleware.StoreID(c), days, includePastDays)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"forecasts": forecasts, "count": len(forecasts)})
}

func (h *ForecastHandler) GetSummary(c *gin.Context) {
	days, ok := parseIntQuery(c, "days", 7)
	if !ok {
		return
	}
	includePastDays, ok := parseIntQuery(c, "include_past_days", 0)
	if !ok {
		return
	}

	summaries, err := h.forecast.GetForecastSummary(c.Request.Context(), middleware.StoreID(c), days, includePastDays)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": summaries})
}

func (h *ForecastHandler) ExportCSV(c *gin.Context) {
	days, ok := parseIntQuery(c, "days", 7)
	if !ok {
		return
	}
	includePastDays, ok := parseIntQuery(c, "include_past_days", 0)
	if !ok {
		return
	}

	data, filename, err := h.export.ExportForecastCSV(c.Request.Context(), middleware.StoreID(c), days, includePastDays)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv", data)
}

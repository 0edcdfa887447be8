package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/smartsuschef/backend-go/internal/api/middleware"
	"github.com/smartsuschef/backend-go/internal/service"
)

type DashboardHandler struct {
	dashboard *service.DashboardService
	signals   *service.SignalService
}

func NewDashboardHandler(dashboard *service.DashboardService, signals *service.SignalService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard, signals: signals}
}

func (h *DashboardHandler) GetSummary(c *gin.Context) {
	summary, err := h.dashboard.GetSummary(c.Request.Context(), middleware.StoreID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *DashboardHandler) GetHolidays(c *gin.Context) {
	year, ok := parseIntQuery(c, "year", time.Now().UTC().Year())
	if !ok {
		return
	}
	holidays, err := h.signals.GetHolidays(c.Request.Context(), middleware.StoreID(c), year)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"holidays": holidays})
}

func (h *DashboardHandler) SyncSignals(c *gin.Context) {
	start, ok := parseDateQuery(c, "start")
	if !ok {
		return
	}
	end, ok := parseDateQuery(c, "end")
	if !ok {
		return
	}
	synced, err := h.signals.SyncSignals(c.Request.Context(), middleware.StoreID(c), start, end)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"synced_days": synced})
}

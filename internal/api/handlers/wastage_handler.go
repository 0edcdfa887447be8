package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/smartsuschef/backend-go/internal/api/middleware"
	"github.com/smartsuschef/backend-go/internal/domain"
	"github.com/smartsuschef/backend-go/internal/service"
)

type WastageHandler struct {
	service *service.WastageService
}

func NewWastageHandler(service *service.WastageService) *WastageHandler {
	return &WastageHandler{service: service}
}

type wastageRequest struct {
	IngredientID int64           `json:"ingredient_id"`
	Date         string          `json:"date"`
	Quantity     decimal.Decimal `json:"quantity"`
}

func (r wastageRequest) toDomain() (*domain.WastageData, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, domain.Validationf("date must be a YYYY-MM-DD date")
	}
	return &domain.WastageData{IngredientID: r.IngredientID, Date: date, Quantity: r.Quantity}, nil
}

func (h *WastageHandler) List(c *gin.Context) {
	start, ok := parseDateQuery(c, "start")
	if !ok {
		return
	}
	end, ok := parseDateQuery(c, "end")
	if !ok {
		return
	}
	wastage, err := h.service.GetWastage(c.Request.Context(), middleware.StoreID(c), start, end)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"wastage": wastage})
}

func (h *WastageHandler) Create(c *gin.Context) {
	var req wastageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	row, err := req.toDomain()
	if err != nil {
		respondError(c, err)
		return
	}
	created, err := h.service.CreateWastage(c.Request.Context(), middleware.StoreID(c), row)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *WastageHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req wastageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	row, err := req.toDomain()
	if err != nil {
		respondError(c, err)
		return
	}
	updated, err := h.service.UpdateWastage(c.Request.Context(), middleware.StoreID(c), id, row)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *WastageHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteWastage(c.Request.Context(), middleware.StoreID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *WastageHandler) Trend(c *gin.Context) {
	start, ok := parseDateQuery(c, "start")
	if !ok {
		return
	}
	end, ok := parseDateQuery(c, "end")
	if !ok {
		return
	}
	trend, err := h.service.GetTrend(c.Request.Context(), middleware.StoreID(c), start, end)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trend": trend})
}

func (h *WastageHandler) CarbonImpact(c *gin.Context) {
	start, ok := parseDateQuery(c, "start")
	if !ok {
		return
	}
	end, ok := parseDateQuery(c, "end")
	if !ok {
		return
	}
	total, err := h.service.GetTotalCarbonImpact(c.Request.Context(), middleware.StoreID(c), start, end)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"total_carbon_impact_kg": total})
}

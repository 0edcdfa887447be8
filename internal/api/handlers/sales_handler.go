package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/smartsuschef/backend-go/internal/api/middleware"
	"github.com/smartsuschef/backend-go/internal/domain"
	"github.com/smartsuschef/backend-go/internal/service"
)

type SalesHandler struct {
	service *service.SalesService
}

func NewSalesHandler(service *service.SalesService) *SalesHandler {
	return &SalesHandler{service: service}
}

type saleRequest struct {
	RecipeID int64  `json:"recipe_id"`
	Date     string `json:"date"`
	Quantity int    `json:"quantity"`
}

func (r saleRequest) toDomain() (*domain.SalesData, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, domain.Validationf("date must be a YYYY-MM-DD date")
	}
	return &domain.SalesData{RecipeID: r.RecipeID, Date: date, Quantity: r.Quantity}, nil
}

func (h *SalesHandler) List(c *gin.Context) {
	start, ok := parseDateQuery(c, "start")
	if !ok {
		return
	}
	end, ok := parseDateQuery(c, "end")
	if !ok {
		return
	}
	sales, err := h.service.GetSales(c.Request.Context(), middleware.StoreID(c), start, end)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sales": sales})
}

func (h *SalesHandler) Create(c *gin.Context) {
	var req saleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	sale, err := req.toDomain()
	if err != nil {
		respondError(c, err)
		return
	}
	created, err := h.service.CreateSale(c.Request.Context(), middleware.StoreID(c), sale)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *SalesHandler) Import(c *gin.Context) {
	var req struct {
		Rows []saleRequest `json:"rows"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	rows := make([]domain.SalesData, 0, len(req.Rows))
	for _, r := range req.Rows {
		sale, err := r.toDomain()
		if err != nil {
			respondError(c, err)
			return
		}
		rows = append(rows, *sale)
	}

	imported, err := h.service.ImportSales(c.Request.Context(), middleware.StoreID(c), rows)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"imported": imported})
}

func (h *SalesHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req saleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	sale, err := req.toDomain()
	if err != nil {
		respondError(c, err)
		return
	}
	updated, err := h.service.UpdateSale(c.Request.Context(), middleware.StoreID(c), id, sale)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *SalesHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteSale(c.Request.Context(), middleware.StoreID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *SalesHandler) Trend(c *gin.Context) {
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

func (h *SalesHandler) IngredientUsage(c *gin.Context) {
	date, ok := parseDateQuery(c, "date")
	if !ok {
		return
	}
	usage, err := h.service.GetIngredientUsage(c.Request.Context(), middleware.StoreID(c), date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"usage": usage})
}

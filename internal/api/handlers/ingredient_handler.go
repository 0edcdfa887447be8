package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/smartsuschef/backend-go/internal/api/middleware"
	"github.com/smartsuschef/backend-go/internal/domain"
	"github.com/smartsuschef/backend-go/internal/service"
)

type IngredientHandler struct {
	service *service.IngredientService
}

func NewIngredientHandler(service *service.IngredientService) *IngredientHandler {
	return &IngredientHandler{service: service}
}

type ingredientRequest struct {
	Name            string          `json:"name"`
	Unit            string          `json:"unit"`
	CarbonFootprint decimal.Decimal `json:"carbon_footprint"`
}

func (r ingredientRequest) toDomain() *domain.Ingredient {
	return &domain.Ingredient{
		Name:            r.Name,
		Unit:            domain.Unit(r.Unit),
		CarbonFootprint: r.CarbonFootprint,
	}
}

func (h *IngredientHandler) List(c *gin.Context) {
	ingredients, err := h.service.ListIngredients(c.Request.Context(), middleware.StoreID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ingredients": ingredients})
}

func (h *IngredientHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	ing, err := h.service.GetIngredient(c.Request.Context(), middleware.StoreID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ing)
}

func (h *IngredientHandler) Create(c *gin.Context) {
	var req ingredientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	ing, err := h.service.CreateIngredient(c.Request.Context(), middleware.StoreID(c), req.toDomain())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ing)
}

func (h *IngredientHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req ingredientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	ing, err := h.service.UpdateIngredient(c.Request.Context(), middleware.StoreID(c), id, req.toDomain())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ing)
}

func (h *IngredientHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteIngredient(c.Request.Context(), middleware.StoreID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

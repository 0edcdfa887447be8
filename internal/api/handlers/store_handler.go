package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/smartsuschef/backend-go/internal/api/middleware"
	"github.com/smartsuschef/backend-go/internal/domain"
	"github.com/smartsuschef/backend-go/internal/service"
)

type StoreHandler struct {
	service *service.StoreService
}

func NewStoreHandler(service *service.StoreService) *StoreHandler {
	return &StoreHandler{service: service}
}

func (h *StoreHandler) Get(c *gin.Context) {
	store, err := h.service.GetStore(c.Request.Context(), middleware.StoreID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"store":          store,
		"setup_complete": store.SetupComplete(),
	})
}

func (h *StoreHandler) Register(c *gin.Context) {
	store, err := h.service.RegisterStore(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, store)
}

func (h *StoreHandler) Setup(c *gin.Context) {
	var req struct {
		Name        string          `json:"name"`
		Latitude    decimal.Decimal `json:"latitude"`
		Longitude   decimal.Decimal `json:"longitude"`
		CountryCode string          `json:"country_code"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	store, err := h.service.SetupStore(c.Request.Context(), middleware.StoreID(c), &domain.Store{
		Name:        req.Name,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		CountryCode: req.CountryCode,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, store)
}

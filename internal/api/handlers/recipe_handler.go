package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/smartsuschef/backend-go/internal/api/middleware"
	"github.com/smartsuschef/backend-go/internal/domain"
	"github.com/smartsuschef/backend-go/internal/service"
)

type RecipeHandler struct {
	service *service.RecipeService
}

func NewRecipeHandler(service *service.RecipeService) *RecipeHandler {
	return &RecipeHandler{service: service}
}

type recipeRequest struct {
	Name        string `json:"name"`
	Sellable    bool   `json:"sellable"`
	IsSubRecipe bool   `json:"is_sub_recipe"`
	Components  []struct {
		IngredientID  *int64          `json:"ingredient_id"`
		ChildRecipeID *int64          `json:"child_recipe_id"`
		Quantity      decimal.Decimal `json:"quantity"`
	} `json:"components"`
}

func (r recipeRequest) toDomain() *domain.Recipe {
	recipe := &domain.Recipe{
		Name:        r.Name,
		Sellable:    r.Sellable,
		IsSubRecipe: r.IsSubRecipe,
	}
	for i, c := range r.Components {
		recipe.Components = append(recipe.Components, domain.RecipeComponent{
			IngredientID:  c.IngredientID,
			ChildRecipeID: c.ChildRecipeID,
			Quantity:      c.Quantity,
			Position:      i,
		})
	}
	return recipe
}

func (h *RecipeHandler) List(c *gin.Context) {
	recipes, err := h.service.ListRecipes(c.Request.Context(), middleware.StoreID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

func (h *RecipeHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	recipe, err := h.service.GetRecipe(c.Request.Context(), middleware.StoreID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) Create(c *gin.Context) {
	var req recipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	recipe, err := h.service.CreateRecipe(c.Request.Context(), middleware.StoreID(c), req.toDomain())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, recipe)
}

func (h *RecipeHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req recipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	recipe, err := h.service.UpdateRecipe(c.Request.Context(), middleware.StoreID(c), id, req.toDomain())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteRecipe(c.Request.Context(), middleware.StoreID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) Expand(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	qty, ok := parseIntQuery(c, "quantity", 1)
	if !ok {
		return
	}

	ingredients, err := h.service.ExpandRecipe(c.Request.Context(), middleware.StoreID(c), id, decimal.NewFromInt(int64(qty)))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ingredients": ingredients})
}

func (h *RecipeHandler) CarbonFootprint(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	footprint, err := h.service.RecipeCarbonFootprint(c.Request.Context(), middleware.StoreID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"carbon_footprint_per_unit": footprint})
}

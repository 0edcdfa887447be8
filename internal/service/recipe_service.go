package service

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/smartsuschef/backend-go/internal/domain"
	"github.com/smartsuschef/backend-go/internal/repository"
)

type RecipeService struct {
	recipes     repository.RecipeRepository
	ingredients repository.IngredientRepository
}

func NewRecipeService(recipes repository.RecipeRepository, ingredients repository.IngredientRepository) *RecipeService {
	return &RecipeService{recipes: recipes, ingredients: ingredients}
}

func (s *RecipeService) ListRecipes(ctx context.Context, storeID int64) ([]domain.Recipe, error) {
	return s.recipes.GetAllWithComponents(ctx, storeID)
}

func (s *RecipeService) GetRecipe(ctx context.Context, storeID, id int64) (*domain.Recipe, error) {
	return s.recipes.GetByID(ctx, storeID, id)
}

func (s *RecipeService) CreateRecipe(ctx context.Context, storeID int64, input *domain.Recipe) (*domain.Recipe, error) {
	input.StoreID = storeID
	input.ID = 0
	if err := s.validateRecipe(ctx, input, 0); err != nil {
		return nil, err
	}
	if err := s.recipes.Create(ctx, input); err != nil {
		return nil, err
	}
	return input, nil
}

func (s *RecipeService) UpdateRecipe(ctx context.Context, storeID, id int64, input *domain.Recipe) (*domain.Recipe, error) {
	existing, err := s.recipes.GetByID(ctx, storeID, id)
	if err != nil {
		return nil, err
	}

	input.StoreID = storeID
	input.ID = id
	if err := s.validateRecipe(ctx, input, id); err != nil {
		return nil, err
	}

	// A sub-recipe still used as a component of other recipes cannot be
	// converted to a standalone recipe.
	if existing.IsSubRecipe && !input.IsSubRecipe {
		referenced, err := s.recipes.ReferencedAsChild(ctx, storeID, id)
		if err != nil {
			return nil, err
		}
		if referenced {
			return nil, domain.Conflictf("recipe %q is used as a component and cannot be converted to a standalone recipe", input.Name)
		}
	}

	if err := s.recipes.Update(ctx, input); err != nil {
		return nil, err
	}
	return input, nil
}

func (s *RecipeService) DeleteRecipe(ctx context.Context, storeID, id int64) error {
	recipe, err := s.recipes.GetByID(ctx, storeID, id)
	if err != nil {
		return err
	}

	referenced, err := s.recipes.ReferencedAsChild(ctx, storeID, id)
	if err != nil {
		return err
	}
	if referenced {
		return domain.Conflictf("recipe %q is used as a component of other recipes", recipe.Name)
	}
	return s.recipes.Delete(ctx, storeID, id)
}

// ExpandRecipe flattens a recipe into its ingredient requirements for the
// produced quantity.
func (s *RecipeService) ExpandRecipe(ctx context.Context, storeID, id int64, producedQty decimal.Decimal) ([]domain.ForecastIngredient, error) {
	if producedQty.IsNegative() {
		return nil, domain.Validationf("produced quantity must not be negative")
	}
	recipes, ingredients, err := loadCatalog(ctx, storeID, s.recipes, s.ingredients)
	if err != nil {
		return nil, err
	}
	return ExpandIngredients(id, producedQty, recipes, ingredients)
}

// RecipeCarbonFootprint computes the carbon footprint per unit produced.
func (s *RecipeService) RecipeCarbonFootprint(ctx context.Context, storeID, id int64) (decimal.Decimal, error) {
	recipes, ingredients, err := loadCatalog(ctx, storeID, s.recipes, s.ingredients)
	if err != nil {
		return decimal.Zero, err
	}
	return CarbonFootprintPerUnit(id, recipes, ingredients)
}

func (s *RecipeService) validateRecipe(ctx context.Context, r *domain.Recipe, excludeID int64) error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return domain.Validationf("recipe name is required")
	}

	exists, err := s.recipes.ExistsByName(ctx, r.StoreID, r.Name, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return domain.Validationf("a recipe named %q already exists", r.Name)
	}

	var needsCycleCheck bool
	for i := range r.Components {
		c := &r.Components[i]
		if (c.IngredientID == nil) == (c.ChildRecipeID == nil) {
			return domain.Validationf("each component must reference exactly one ingredient or sub-recipe")
		}
		if !c.Quantity.IsPositive() {
			return domain.Validationf("component quantity must be positive")
		}

		if c.IngredientID != nil {
			if _, err := s.ingredients.GetByID(ctx, r.StoreID, *c.IngredientID); err != nil {
				return domain.Validationf("ingredient %d does not exist", *c.IngredientID)
			}
			continue
		}

		if _, err := s.recipes.GetByID(ctx, r.StoreID, *c.ChildRecipeID); err != nil {
			return domain.Validationf("sub-recipe %d does not exist", *c.ChildRecipeID)
		}
		needsCycleCheck = true
	}

	// Reject graphs where a new child component leads back to this recipe.
	// Only updates can introduce a cycle: a recipe being created cannot be
	// referenced by anything yet.
	if needsCycleCheck && excludeID != 0 {
		recipes, _, err := loadCatalog(ctx, r.StoreID, s.recipes, s.ingredients)
		if err != nil {
			return err
		}
		for _, c := range r.Components {
			if c.ChildRecipeID == nil {
				continue
			}
			if *c.ChildRecipeID == excludeID || reachable(*c.ChildRecipeID, excludeID, recipes, map[int64]bool{}) {
				return domain.Validationf("component would create a cyclic recipe reference")
			}
		}
	}
	return nil
}

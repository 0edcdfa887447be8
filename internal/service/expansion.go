package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/smartsuschef/backend-go/internal/domain"
	"github.com/smartsuschef/backend-go/internal/repository"
)

// Recipe expansion flattens a recipe graph into per-ingredient totals. The
// traversal is pure: it walks pre-loaded recipe/ingredient maps and never
// touches a repository, so both the forecast engine and the sales usage view
// can share it. A path-based visited set turns a cyclic graph into
// ErrCyclicRecipe instead of unbounded recursion; diamonds (the same
// sub-recipe reached via two parents) stay legal.

// ingredientAccumulator merges repeated ingredient contributions while
// preserving first-encounter order.
type ingredientAccumulator struct {
	order  []int64
	totals map[int64]decimal.Decimal
}

func newIngredientAccumulator() *ingredientAccumulator {
	return &ingredientAccumulator{totals: make(map[int64]decimal.Decimal)}
}

func (a *ingredientAccumulator) add(ingredientID int64, qty decimal.Decimal) {
	if _, seen := a.totals[ingredientID]; !seen {
		a.order = append(a.order, ingredientID)
	}
	a.totals[ingredientID] = a.totals[ingredientID].Add(qty)
}

func (a *ingredientAccumulator) result(ingredients map[int64]*domain.Ingredient) []domain.ForecastIngredient {
	out := make([]domain.ForecastIngredient, 0, len(a.order))
	for _, id := range a.order {
		ing, ok := ingredients[id]
		if !ok {
			continue
		}
		out = append(out, domain.ForecastIngredient{
			IngredientID:   ing.ID,
			IngredientName: ing.Name,
			Unit:           ing.Unit,
			Quantity:       a.totals[id],
		})
	}
	return out
}

// ExpandIngredients flattens a recipe into its ingredient requirements for
// the given produced quantity.
func ExpandIngredients(recipeID int64, producedQty decimal.Decimal, recipes map[int64]*domain.Recipe, ingredients map[int64]*domain.Ingredient) ([]domain.ForecastIngredient, error) {
	acc := newIngredientAccumulator()
	if err := expand(recipeID, producedQty, recipes, acc, map[int64]bool{}); err != nil {
		return nil, err
	}
	return acc.result(ingredients), nil
}

func expand(recipeID int64, qty decimal.Decimal, recipes map[int64]*domain.Recipe, acc *ingredientAccumulator, path map[int64]bool) error {
	if path[recipeID] {
		return fmt.Errorf("recipe %d: %w", recipeID, domain.ErrCyclicRecipe)
	}
	recipe, ok := recipes[recipeID]
	if !ok {
		return fmt.Errorf("recipe %d: %w", recipeID, domain.ErrNotFound)
	}

	path[recipeID] = true
	defer delete(path, recipeID)

	for _, c := range recipe.Components {
		amount := c.Quantity.Mul(qty)
		switch {
		case c.IngredientID != nil:
			acc.add(*c.IngredientID, amount)
		case c.ChildRecipeID != nil:
			if err := expand(*c.ChildRecipeID, amount, recipes, acc, path); err != nil {
				return err
			}
		}
	}
	return nil
}

// CarbonFootprintPerUnit sums ingredient carbon footprints across the recipe
// graph for one unit produced. A recipe with no components contributes zero.
func CarbonFootprintPerUnit(recipeID int64, recipes map[int64]*domain.Recipe, ingredients map[int64]*domain.Ingredient) (decimal.Decimal, error) {
	return footprint(recipeID, recipes, ingredients, map[int64]bool{})
}

func footprint(recipeID int64, recipes map[int64]*domain.Recipe, ingredients map[int64]*domain.Ingredient, path map[int64]bool) (decimal.Decimal, error) {
	if path[recipeID] {
		return decimal.Zero, fmt.Errorf("recipe %d: %w", recipeID, domain.ErrCyclicRecipe)
	}
	recipe, ok := recipes[recipeID]
	if !ok {
		return decimal.Zero, fmt.Errorf("recipe %d: %w", recipeID, domain.ErrNotFound)
	}

	path[recipeID] = true
	defer delete(path, recipeID)

	total := decimal.Zero
	for _, c := range recipe.Components {
		switch {
		case c.IngredientID != nil:
			if ing, ok := ingredients[*c.IngredientID]; ok {
				total = total.Add(ing.CarbonFootprint.Mul(c.Quantity))
			}
		case c.ChildRecipeID != nil:
			child, err := footprint(*c.ChildRecipeID, recipes, ingredients, path)
			if err != nil {
				return decimal.Zero, err
			}
			total = total.Add(child.Mul(c.Quantity))
		}
	}
	return total, nil
}

// loadCatalog fetches the store's full recipe and ingredient sets as lookup
// maps for expansion.
func loadCatalog(ctx context.Context, storeID int64, recipeRepo repository.RecipeRepository, ingredientRepo repository.IngredientRepository) (map[int64]*domain.Recipe, map[int64]*domain.Ingredient, error) {
	recipeList, err := recipeRepo.GetAllWithComponents(ctx, storeID)
	if err != nil {
		return nil, nil, fmt.Errorf("load recipes: %w", err)
	}
	ingredientList, err := ingredientRepo.GetAll(ctx, storeID)
	if err != nil {
		return nil, nil, fmt.Errorf("load ingredients: %w", err)
	}

	recipes := make(map[int64]*domain.Recipe, len(recipeList))
	for i := range recipeList {
		recipes[recipeList[i].ID] = &recipeList[i]
	}
	ingredients := make(map[int64]*domain.Ingredient, len(ingredientList))
	for i := range ingredientList {
		ingredients[ingredientList[i].ID] = &ingredientList[i]
	}
	return recipes, ingredients, nil
}

// reachable reports whether target can be reached from recipeID by following
// child-recipe components. Used by the create-time cycle check.
func reachable(recipeID, target int64, recipes map[int64]*domain.Recipe, seen map[int64]bool) bool {
	if recipeID == target {
		return true
	}
	if seen[recipeID] {
		return false
	}
	seen[recipeID] = true

	recipe, ok := recipes[recipeID]
	if !ok {
		return false
	}
	for _, c := range recipe.Components {
		if c.ChildRecipeID != nil && reachable(*c.ChildRecipeID, target, recipes, seen) {
			return true
		}
	}
	return false
}

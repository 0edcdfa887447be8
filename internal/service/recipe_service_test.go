package service

import (
	"context"
	"errors"
	"testing"

	"github.com/smartsuschef/backend-go/internal/domain"
)

func newRecipeFixture() (*RecipeService, *fakeRecipeRepo) {
	recipes := &fakeRecipeRepo{recipes: []domain.Recipe{
		{ID: 1, StoreID: 1, Name: "Sambal Base", IsSubRecipe: true, Components: []domain.RecipeComponent{
			{IngredientID: int64Ptr(1), Quantity: dec("40")},
		}},
		{ID: 2, StoreID: 1, Name: "Nasi Lemak", Sellable: true, Components: []domain.RecipeComponent{
			{IngredientID: int64Ptr(1), Quantity: dec("250")},
			{ChildRecipeID: int64Ptr(1), Quantity: dec("1")},
		}},
	}}
	ingredients := &fakeIngredientRepo{ingredients: []domain.Ingredient{
		{ID: 1, StoreID: 1, Name: "Rice", Unit: domain.UnitGram, CarbonFootprint: dec("2.0")},
	}}
	return NewRecipeService(recipes, ingredients), recipes
}

func TestCreateRecipe_RejectsDuplicateNameCaseInsensitive(t *testing.T) {
	svc, _ := newRecipeFixture()

	_, err := svc.CreateRecipe(context.Background(), 1, &domain.Recipe{Name: "NASI lemak"})
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateRecipe_RejectsBadComponents(t *testing.T) {
	svc, _ := newRecipeFixture()

	// Both references set.
	_, err := svc.CreateRecipe(context.Background(), 1, &domain.Recipe{
		Name: "Broken",
		Components: []domain.RecipeComponent{
			{IngredientID: int64Ptr(1), ChildRecipeID: int64Ptr(1), Quantity: dec("1")},
		},
	})
	if !domain.IsValidation(err) {
		t.Errorf("both refs: expected validation error, got %v", err)
	}

	// Neither reference set.
	_, err = svc.CreateRecipe(context.Background(), 1, &domain.Recipe{
		Name:       "Broken",
		Components: []domain.RecipeComponent{{Quantity: dec("1")}},
	})
	if !domain.IsValidation(err) {
		t.Errorf("no refs: expected validation error, got %v", err)
	}

	// Non-positive quantity.
	_, err = svc.CreateRecipe(context.Background(), 1, &domain.Recipe{
		Name:       "Broken",
		Components: []domain.RecipeComponent{{IngredientID: int64Ptr(1), Quantity: dec("0")}},
	})
	if !domain.IsValidation(err) {
		t.Errorf("zero qty: expected validation error, got %v", err)
	}

	// Unknown ingredient.
	_, err = svc.CreateRecipe(context.Background(), 1, &domain.Recipe{
		Name:       "Broken",
		Components: []domain.RecipeComponent{{IngredientID: int64Ptr(99), Quantity: dec("1")}},
	})
	if !domain.IsValidation(err) {
		t.Errorf("unknown ingredient: expected validation error, got %v", err)
	}
}

func TestUpdateRecipe_RejectsCycle(t *testing.T) {
	svc, _ := newRecipeFixture()

	// Making the sub-recipe depend on its own parent closes a loop.
	_, err := svc.UpdateRecipe(context.Background(), 1, 1, &domain.Recipe{
		Name:        "Sambal Base",
		IsSubRecipe: true,
		Components: []domain.RecipeComponent{
			{ChildRecipeID: int64Ptr(2), Quantity: dec("1")},
		},
	})
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error for cycle, got %v", err)
	}

	// Direct self-reference.
	_, err = svc.UpdateRecipe(context.Background(), 1, 1, &domain.Recipe{
		Name:        "Sambal Base",
		IsSubRecipe: true,
		Components: []domain.RecipeComponent{
			{ChildRecipeID: int64Ptr(1), Quantity: dec("1")},
		},
	})
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error for self-reference, got %v", err)
	}
}

func TestUpdateRecipe_BlocksSubRecipeConversionWhileReferenced(t *testing.T) {
	svc, _ := newRecipeFixture()

	_, err := svc.UpdateRecipe(context.Background(), 1, 1, &domain.Recipe{
		Name:        "Sambal Base",
		IsSubRecipe: false,
		Components: []domain.RecipeComponent{
			{IngredientID: int64Ptr(1), Quantity: dec("40")},
		},
	})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestDeleteRecipe_BlocksReferencedChild(t *testing.T) {
	svc, repo := newRecipeFixture()

	if err := svc.DeleteRecipe(context.Background(), 1, 1); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict deleting referenced sub-recipe, got %v", err)
	}

	// The parent itself is unreferenced and deletable.
	if err := svc.DeleteRecipe(context.Background(), 1, 2); err != nil {
		t.Fatalf("DeleteRecipe failed: %v", err)
	}
	if len(repo.recipes) != 1 {
		t.Errorf("expected 1 recipe left, got %d", len(repo.recipes))
	}
}

func TestExpandRecipe_UsesStoreCatalog(t *testing.T) {
	svc, _ := newRecipeFixture()

	got, err := svc.ExpandRecipe(context.Background(), 1, 2, dec("10"))
	if err != nil {
		t.Fatalf("ExpandRecipe failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 merged ingredient, got %d", len(got))
	}
	// 10*250 direct + 10*1*40 via the sub-recipe.
	if !got[0].Quantity.Equal(dec("2900")) {
		t.Errorf("rice = %s, want 2900", got[0].Quantity)
	}
}

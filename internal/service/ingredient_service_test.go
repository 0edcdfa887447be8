package service

import (
	"context"
	"errors"
	"testing"

	"github.com/smartsuschef/backend-go/internal/domain"
)

func newIngredientFixture() (*IngredientService, *fakeIngredientRepo) {
	repo := &fakeIngredientRepo{ingredients: []domain.Ingredient{
		{ID: 1, StoreID: 1, Name: "Rice", Unit: domain.UnitGram, CarbonFootprint: dec("2.0")},
	}}
	return NewIngredientService(repo), repo
}

func TestCreateIngredient_Validation(t *testing.T) {
	svc, _ := newIngredientFixture()

	cases := []struct {
		name  string
		input domain.Ingredient
	}{
		{"empty name", domain.Ingredient{Name: "  ", Unit: domain.UnitGram}},
		{"bad unit", domain.Ingredient{Name: "Salt", Unit: "oz"}},
		{"negative carbon", domain.Ingredient{Name: "Salt", Unit: domain.UnitGram, CarbonFootprint: dec("-1")}},
		{"duplicate name", domain.Ingredient{Name: "RICE", Unit: domain.UnitGram}},
	}
	for _, tc := range cases {
		input := tc.input
		if _, err := svc.CreateIngredient(context.Background(), 1, &input); !domain.IsValidation(err) {
			t.Errorf("%s: expected validation error, got %v", tc.name, err)
		}
	}

	created, err := svc.CreateIngredient(context.Background(), 1, &domain.Ingredient{
		Name: "Coconut Milk", Unit: domain.UnitMilliliter, CarbonFootprint: dec("1.5"),
	})
	if err != nil {
		t.Fatalf("CreateIngredient failed: %v", err)
	}
	if created.ID == 0 {
		t.Error("expected assigned id")
	}
}

func TestUpdateIngredient_KeepsOwnName(t *testing.T) {
	svc, _ := newIngredientFixture()

	// Renaming to its own name must not trip the uniqueness check.
	if _, err := svc.UpdateIngredient(context.Background(), 1, 1, &domain.Ingredient{
		Name: "Rice", Unit: domain.UnitKilogram, CarbonFootprint: dec("2.0"),
	}); err != nil {
		t.Fatalf("UpdateIngredient failed: %v", err)
	}
}

func TestDeleteIngredient_BlocksWhenInUse(t *testing.T) {
	svc, repo := newIngredientFixture()
	repo.inUse = true

	if err := svc.DeleteIngredient(context.Background(), 1, 1); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}

	repo.inUse = false
	if err := svc.DeleteIngredient(context.Background(), 1, 1); err != nil {
		t.Fatalf("DeleteIngredient failed: %v", err)
	}
	if len(repo.ingredients) != 0 {
		t.Errorf("expected ingredient removed, %d left", len(repo.ingredients))
	}
}

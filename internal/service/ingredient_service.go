package service

import (
	"context"
	"strings"

	"github.com/smartsuschef/backend-go/internal/domain"
	"github.com/smartsuschef/backend-go/internal/repository"
)

type IngredientService struct {
	ingredients repository.IngredientRepository
}

func NewIngredientService(ingredients repository.IngredientRepository) *IngredientService {
	return &IngredientService{ingredients: ingredients}
}

func (s *IngredientService) ListIngredients(ctx context.Context, storeID int64) ([]domain.Ingredient, error) {
	return s.ingredients.GetAll(ctx, storeID)
}

func (s *IngredientService) GetIngredient(ctx context.Context, storeID, id int64) (*domain.Ingredient, error) {
	return s.ingredients.GetByID(ctx, storeID, id)
}

func (s *IngredientService) CreateIngredient(ctx context.Context, storeID int64, input *domain.Ingredient) (*domain.Ingredient, error) {
	input.StoreID = storeID
	input.ID = 0
	if err := s.validateIngredient(ctx, input, 0); err != nil {
		return nil, err
	}
	if err := s.ingredients.Create(ctx, input); err != nil {
		return nil, err
	}
	return input, nil
}

func (s *IngredientService) UpdateIngredient(ctx context.Context, storeID, id int64, input *domain.Ingredient) (*domain.Ingredient, error) {
	if _, err := s.ingredients.GetByID(ctx, storeID, id); err != nil {
		return nil, err
	}

	input.StoreID = storeID
	input.ID = id
	if err := s.validateIngredient(ctx, input, id); err != nil {
		return nil, err
	}
	if err := s.ingredients.Update(ctx, input); err != nil {
		return nil, err
	}
	return input, nil
}

func (s *IngredientService) DeleteIngredient(ctx context.Context, storeID, id int64) error {
	ing, err := s.ingredients.GetByID(ctx, storeID, id)
	if err != nil {
		return err
	}

	inUse, err := s.ingredients.InUse(ctx, storeID, id)
	if err != nil {
		return err
	}
	if inUse {
		return domain.Conflictf("ingredient %q is used by one or more recipes", ing.Name)
	}
	return s.ingredients.Delete(ctx, storeID, id)
}

func (s *IngredientService) validateIngredient(ctx context.Context, ing *domain.Ingredient, excludeID int64) error {
	ing.Name = strings.TrimSpace(ing.Name)
	if ing.Name == "" {
		return domain.Validationf("ingredient name is required")
	}

	unit, ok := domain.ParseUnit(string(ing.Unit))
	if !ok {
		return domain.Validationf("unit must be one of g, ml, kg, L")
	}
	ing.Unit = unit

	if ing.CarbonFootprint.IsNegative() {
		return domain.Validationf("carbon footprint must not be negative")
	}

	exists, err := s.ingredients.ExistsByName(ctx, ing.StoreID, ing.Name, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return domain.Validationf("an ingredient named %q already exists", ing.Name)
	}
	return nil
}

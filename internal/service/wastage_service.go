package service

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/smartsuschef/backend-go/internal/domain"
	"github.com/smartsuschef/backend-go/internal/repository"
)

type WastageService struct {
	wastage     repository.WastageRepository
	ingredients repository.IngredientRepository
}

func NewWastageService(wastage repository.WastageRepository, ingredients repository.IngredientRepository) *WastageService {
	return &WastageService{wastage: wastage, ingredients: ingredients}
}

func (s *WastageService) CreateWastage(ctx context.Context, storeID int64, input *domain.WastageData) (*domain.WastageData, error) {
	input.StoreID = storeID
	input.ID = 0
	if err := s.validateWastage(ctx, input); err != nil {
		return nil, err
	}
	if err := s.wastage.Create(ctx, input); err != nil {
		return nil, err
	}
	return input, nil
}

func (s *WastageService) UpdateWastage(ctx context.Context, storeID, id int64, input *domain.WastageData) (*domain.WastageData, error) {
	if _, err := s.wastage.GetByID(ctx, storeID, id); err != nil {
		return nil, err
	}

	input.StoreID = storeID
	input.ID = id
	if err := s.validateWastage(ctx, input); err != nil {
		return nil, err
	}
	if err := s.wastage.Update(ctx, input); err != nil {
		return nil, err
	}
	return input, nil
}

func (s *WastageService) DeleteWastage(ctx context.Context, storeID, id int64) error {
	return s.wastage.Delete(ctx, storeID, id)
}

func (s *WastageService) GetWastage(ctx context.Context, storeID int64, start, end time.Time) ([]domain.WastageData, error) {
	if err := validateRange(start, end); err != nil {
		return nil, err
	}
	return s.wastage.GetRange(ctx, storeID, start, end)
}

// GetTrend aggregates wastage per day with its carbon impact, one row per
// day that has wastage recorded, ascending by date.
func (s *WastageService) GetTrend(ctx context.Context, storeID int64, start, end time.Time) ([]domain.WastageTrend, error) {
	if err := validateRange(start, end); err != nil {
		return nil, err
	}

	rows, err := s.wastage.GetRange(ctx, storeID, domain.DateOnly(start), domain.DateOnly(end))
	if err != nil {
		return nil, err
	}

	footprints, err := s.footprintIndex(ctx, storeID)
	if err != nil {
		return nil, err
	}

	byDate := make(map[string]*domain.WastageTrend)
	var order []string
	for _, row := range rows {
		key := domain.DateOnly(row.Date).Format(domain.DateFormat)
		day, ok := byDate[key]
		if !ok {
			day = &domain.WastageTrend{Date: key, Ingredients: []domain.IngredientWastage{}}
			byDate[key] = day
			order = append(order, key)
		}

		impact := footprints[row.IngredientID].Mul(row.Quantity)
		day.TotalQuantity = day.TotalQuantity.Add(row.Quantity)
		day.CarbonImpact = day.CarbonImpact.Add(impact)
		day.Ingredients = append(day.Ingredients, domain.IngredientWastage{
			IngredientID:   row.IngredientID,
			IngredientName: row.IngredientName,
			Unit:           row.Unit,
			Quantity:       row.Quantity,
			CarbonImpact:   impact,
		})
	}

	sort.Strings(order)
	trend := make([]domain.WastageTrend, 0, len(order))
	for _, key := range order {
		trend = append(trend, *byDate[key])
	}
	return trend, nil
}

// GetTotalCarbonImpact sums the carbon impact of all wastage in the range.
func (s *WastageService) GetTotalCarbonImpact(ctx context.Context, storeID int64, start, end time.Time) (decimal.Decimal, error) {
	trend, err := s.GetTrend(ctx, storeID, start, end)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, day := range trend {
		total = total.Add(day.CarbonImpact)
	}
	return total, nil
}

func (s *WastageService) footprintIndex(ctx context.Context, storeID int64) (map[int64]decimal.Decimal, error) {
	ingredients, err := s.ingredients.GetAll(ctx, storeID)
	if err != nil {
		return nil, err
	}
	index := make(map[int64]decimal.Decimal, len(ingredients))
	for _, ing := range ingredients {
		index[ing.ID] = ing.CarbonFootprint
	}
	return index, nil
}

func (s *WastageService) validateWastage(ctx context.Context, w *domain.WastageData) error {
	if w.Quantity.IsNegative() {
		return domain.Validationf("wastage quantity must not be negative")
	}
	if w.Date.IsZero() {
		return domain.Validationf("wastage date is required")
	}
	w.Date = domain.DateOnly(w.Date)

	if _, err := s.ingredients.GetByID(ctx, w.StoreID, w.IngredientID); err != nil {
		return domain.Validationf("ingredient %d does not exist", w.IngredientID)
	}
	return nil
}

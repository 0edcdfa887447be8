package service

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/smartsuschef/backend-go/internal/domain"
	"github.com/smartsuschef/backend-go/internal/repository"
)

// maxTrendDays bounds trend queries to roughly one month of days.
const maxTrendDays = 31

type SalesService struct {
	sales       repository.SalesRepository
	recipes     repository.RecipeRepository
	ingredients repository.IngredientRepository
	signals     repository.SignalRepository
}

func NewSalesService(sales repository.SalesRepository, recipes repository.RecipeRepository, ingredients repository.IngredientRepository, signals repository.SignalRepository) *SalesService {
	return &SalesService{sales: sales, recipes: recipes, ingredients: ingredients, signals: signals}
}

func (s *SalesService) CreateSale(ctx context.Context, storeID int64, input *domain.SalesData) (*domain.SalesData, error) {
	input.StoreID = storeID
	input.ID = 0
	if err := s.validateSale(ctx, input); err != nil {
		return nil, err
	}
	if err := s.sales.Create(ctx, input); err != nil {
		return nil, err
	}
	return input, nil
}

// ImportSales records a batch of sales rows in one transaction. The whole
// batch is validated before anything is written.
func (s *SalesService) ImportSales(ctx context.Context, storeID int64, rows []domain.SalesData) (int, error) {
	if len(rows) == 0 {
		return 0, domain.Validationf("no sales rows to import")
	}
	for i := range rows {
		rows[i].StoreID = storeID
		rows[i].ID = 0
		if err := s.validateSale(ctx, &rows[i]); err != nil {
			return 0, err
		}
	}
	if err := s.sales.CreateBatch(ctx, rows); err != nil {
		return 0, err
	}
	return len(rows), nil
}

func (s *SalesService) UpdateSale(ctx context.Context, storeID, id int64, input *domain.SalesData) (*domain.SalesData, error) {
	if _, err := s.sales.GetByID(ctx, storeID, id); err != nil {
		return nil, err
	}

	input.StoreID = storeID
	input.ID = id
	if err := s.validateSale(ctx, input); err != nil {
		return nil, err
	}
	if err := s.sales.Update(ctx, input); err != nil {
		return nil, err
	}
	return input, nil
}

func (s *SalesService) DeleteSale(ctx context.Context, storeID, id int64) error {
	return s.sales.Delete(ctx, storeID, id)
}

func (s *SalesService) GetSales(ctx context.Context, storeID int64, start, end time.Time) ([]domain.SalesData, error) {
	if err := validateRange(start, end); err != nil {
		return nil, err
	}
	return s.sales.GetRange(ctx, storeID, start, end)
}

// GetTrend joins daily sales totals with calendar signals, producing exactly
// one row per calendar day in [start, end] inclusive. Days without sales get
// a zero total; days without a signal get neutral defaults.
func (s *SalesService) GetTrend(ctx context.Context, storeID int64, start, end time.Time) ([]domain.SalesWithSignals, error) {
	if err := validateRange(start, end); err != nil {
		return nil, err
	}
	start, end = domain.DateOnly(start), domain.DateOnly(end)

	sales, err := s.sales.GetRange(ctx, storeID, start, end)
	if err != nil {
		return nil, err
	}
	signals, err := s.signals.GetRange(ctx, start, end)
	if err != nil {
		return nil, err
	}

	salesByDate := make(map[string][]domain.SalesData)
	for _, row := range sales {
		key := domain.DateOnly(row.Date).Format(domain.DateFormat)
		salesByDate[key] = append(salesByDate[key], row)
	}
	signalByDate := make(map[string]domain.CalendarSignal, len(signals))
	for _, sig := range signals {
		signalByDate[domain.DateOnly(sig.Date).Format(domain.DateFormat)] = sig
	}

	// Output follows the enumerated date sequence, never query order.
	days := int(end.Sub(start).Hours()/24) + 1
	trend := make([]domain.SalesWithSignals, 0, days)
	for d := 0; d < days; d++ {
		date := start.AddDate(0, 0, d)
		key := date.Format(domain.DateFormat)

		row := domain.SalesWithSignals{
			Date:        key,
			HolidayName: "None",
			RainMm:      decimal.Zero,
			WeatherDesc: "No Data",
			Recipes:     []domain.RecipeSales{},
		}
		if sig, ok := signalByDate[key]; ok {
			row.IsHoliday = sig.IsHoliday
			if sig.HolidayName != "" {
				row.HolidayName = sig.HolidayName
			}
			row.RainMm = sig.RainMm
			if sig.WeatherDesc != "" {
				row.WeatherDesc = sig.WeatherDesc
			}
		}

		perRecipe := make(map[int64]*domain.RecipeSales)
		var order []int64
		for _, sale := range salesByDate[key] {
			row.TotalQuantity += sale.Quantity
			if agg, ok := perRecipe[sale.RecipeID]; ok {
				agg.Quantity += sale.Quantity
				continue
			}
			perRecipe[sale.RecipeID] = &domain.RecipeSales{
				RecipeID:   sale.RecipeID,
				RecipeName: sale.RecipeName,
				Quantity:   sale.Quantity,
			}
			order = append(order, sale.RecipeID)
		}
		sort.Slice(order, func(i, j int) bool {
			return perRecipe[order[i]].RecipeName < perRecipe[order[j]].RecipeName
		})
		for _, id := range order {
			row.Recipes = append(row.Recipes, *perRecipe[id])
		}

		trend = append(trend, row)
	}
	return trend, nil
}

// GetIngredientUsage expands a day's sales into the implied ingredient
// consumption, summed across recipes.
func (s *SalesService) GetIngredientUsage(ctx context.Context, storeID int64, date time.Time) ([]domain.IngredientUsage, error) {
	date = domain.DateOnly(date)
	sales, err := s.sales.GetRange(ctx, storeID, date, date)
	if err != nil {
		return nil, err
	}
	if len(sales) == 0 {
		return []domain.IngredientUsage{}, nil
	}

	recipes, ingredients, err := loadCatalog(ctx, storeID, s.recipes, s.ingredients)
	if err != nil {
		return nil, err
	}

	acc := newIngredientAccumulator()
	for _, sale := range sales {
		if err := expand(sale.RecipeID, decimal.NewFromInt(int64(sale.Quantity)), recipes, acc, map[int64]bool{}); err != nil {
			return nil, err
		}
	}

	expanded := acc.result(ingredients)
	usage := make([]domain.IngredientUsage, 0, len(expanded))
	for _, e := range expanded {
		usage = append(usage, domain.IngredientUsage(e))
	}
	return usage, nil
}

func (s *SalesService) validateSale(ctx context.Context, sale *domain.SalesData) error {
	if sale.Quantity < 0 {
		return domain.Validationf("sales quantity must not be negative")
	}
	if sale.Date.IsZero() {
		return domain.Validationf("sales date is required")
	}
	sale.Date = domain.DateOnly(sale.Date)

	if _, err := s.recipes.GetByID(ctx, sale.StoreID, sale.RecipeID); err != nil {
		return domain.Validationf("recipe %d does not exist", sale.RecipeID)
	}
	return nil
}

func validateRange(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return domain.Validationf("start and end dates are required")
	}
	if end.Before(start) {
		return domain.Validationf("end date must not be before start date")
	}
	days := int(domain.DateOnly(end).Sub(domain.DateOnly(start)).Hours()/24) + 1
	if days > maxTrendDays {
		return domain.Validationf("date range must not exceed %d days", maxTrendDays)
	}
	return nil
}

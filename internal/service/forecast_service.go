package service

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/smartsuschef/backend-go/internal/domain"
	"github.com/smartsuschef/backend-go/internal/repository"
	"github.com/smartsuschef/backend-go/pkg/clients/mlservice"
)

// horizonBuffer pads the requested horizon so predictions straddling a
// timezone boundary still cover the last requested day.
const horizonBuffer = 2

// Predictor is the external ML service as the engine sees it. Satisfied by
// *mlservice.Client.
type Predictor interface {
	GetStatus(ctx context.Context, storeID int64) mlservice.Status
	TriggerTraining(ctx context.Context, storeID int64) (*mlservice.TrainResult, error)
	GetPredictions(ctx context.Context, storeID int64, horizonDays int, latitude, longitude *decimal.Decimal, countryCode string) (*mlservice.PredictResult, error)
}

// ForecastService reconciles external predictions, the persisted forecast
// cache and fallbacks into per-store demand forecasts. Resolution order per
// call: external predictor, then fresh cache rows, then an empty list. No
// tier is retried; placeholder numbers are never synthesized.
type ForecastService struct {
	stores      repository.StoreRepository
	recipes     repository.RecipeRepository
	ingredients repository.IngredientRepository
	forecasts   repository.ForecastRepository
	predictor   Predictor

	now func() time.Time
}

func NewForecastService(
	stores repository.StoreRepository,
	recipes repository.RecipeRepository,
	ingredients repository.IngredientRepository,
	forecasts repository.ForecastRepository,
	predictor Predictor,
) *ForecastService {
	return &ForecastService{
		stores:      stores,
		recipes:     recipes,
		ingredients: ingredients,
		forecasts:   forecasts,
		predictor:   predictor,
		now:         time.Now,
	}
}

// GetForecast returns the demand forecast for dates in
// [today-includePastDays, today+days+buffer].
func (s *ForecastService) GetForecast(ctx context.Context, storeID int64, days, includePastDays int) ([]domain.Forecast, error) {
	if err := validateWindow(days, includePastDays); err != nil {
		return nil, err
	}

	recipes, ingredients, err := loadCatalog(ctx, storeID, s.recipes, s.ingredients)
	if err != nil {
		return nil, err
	}

	today := domain.DateOnly(s.now())

	rows, ok := s.tryExternal(ctx, storeID, days, includePastDays, today, recipes, ingredients)
	if ok {
		return rows, nil
	}
	return s.fromCache(ctx, storeID, days, includePastDays, today, recipes, ingredients), nil
}

// GetForecastSummary aggregates the forecast to per-day totals.
func (s *ForecastService) GetForecastSummary(ctx context.Context, storeID int64, days, includePastDays int) ([]domain.ForecastSummary, error) {
	forecasts, err := s.GetForecast(ctx, storeID, days, includePastDays)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]int)
	for _, f := range forecasts {
		totals[f.Date] += f.Quantity
	}

	summaries := make([]domain.ForecastSummary, 0, len(totals))
	for date, total := range totals {
		summaries = append(summaries, domain.ForecastSummary{
			Date:          date,
			TotalQuantity: total,
			// No historical baseline is computed here; comparisons are a
			// client-side concern for now.
			ChangePercent: decimal.Zero,
		})
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].Date < summaries[j].Date })
	return summaries, nil
}

// MLStatus reports the external service's model status for the store.
func (s *ForecastService) MLStatus(ctx context.Context, storeID int64) mlservice.Status {
	return s.predictor.GetStatus(ctx, storeID)
}

// TrainModels asks the external service to (re)train the store's models.
func (s *ForecastService) TrainModels(ctx context.Context, storeID int64) (*mlservice.TrainResult, error) {
	return s.predictor.TriggerTraining(ctx, storeID)
}

// tryExternal runs the predictor tier. ok=false means the caller should fall
// through to the cache tier: transport failure, a non-ok prediction status,
// or an ok reply that produced zero visible rows.
func (s *ForecastService) tryExternal(ctx context.Context, storeID int64, days, includePastDays int, today time.Time, recipes map[int64]*domain.Recipe, ingredients map[int64]*domain.Ingredient) ([]domain.Forecast, bool) {
	var latitude, longitude *decimal.Decimal
	var countryCode string
	if store, err := s.stores.GetByID(ctx, storeID); err == nil {
		latitude, longitude = &store.Latitude, &store.Longitude
		countryCode = store.CountryCode
	} else {
		log.Warn().Err(err).Int64("store_id", storeID).Msg("store profile unavailable, predicting without coordinates")
	}

	result, err := s.predictor.GetPredictions(ctx, storeID, days+horizonBuffer, latitude, longitude, countryCode)
	if err != nil {
		log.Warn().Err(err).Int64("store_id", storeID).Msg("external prediction failed, falling back to cache")
		return nil, false
	}
	if result.Status != mlservice.StatusOK {
		log.Info().Int64("store_id", storeID).Str("status", string(result.Status)).Str("message", result.Message).Msg("predictions not available, falling back to cache")
		return nil, false
	}

	byName := make(map[string]*domain.Recipe, len(recipes))
	for _, r := range recipes {
		byName[strings.ToLower(r.Name)] = r
	}

	// Dish names sorted so the output order is stable across calls.
	dishes := make([]string, 0, len(result.Predictions))
	for dish := range result.Predictions {
		dishes = append(dishes, dish)
	}
	sort.Strings(dishes)

	var records []domain.ForecastRecord
	var rows []domain.Forecast
	for _, dish := range dishes {
		prediction := result.Predictions[dish]
		if prediction.Err != "" {
			log.Warn().Int64("store_id", storeID).Str("dish", dish).Str("error", prediction.Err).Msg("skipping dish with prediction error")
			continue
		}

		recipe, ok := byName[strings.ToLower(dish)]
		if !ok {
			log.Warn().Int64("store_id", storeID).Str("dish", dish).Msg("predicted dish has no matching recipe")
			continue
		}

		for _, point := range prediction.Points {
			qty := int(math.Round(math.Max(0, point.Yhat)))
			date := domain.DateOnly(point.Date)

			// Persist the full predicted span even when the date falls
			// outside the response window.
			records = append(records, domain.ForecastRecord{
				StoreID:           storeID,
				RecipeID:          recipe.ID,
				ForecastDate:      date,
				PredictedQuantity: qty,
			})

			if !inWindow(date, today, days, includePastDays) {
				continue
			}
			row, err := s.buildRow(recipe, date, qty, recipes, ingredients)
			if err != nil {
				log.Warn().Err(err).Int64("recipe_id", recipe.ID).Msg("skipping unexpandable recipe")
				continue
			}
			rows = append(rows, row)
		}
	}

	if len(records) > 0 {
		// Best-effort cache refresh. A write failure never blocks the
		// already-computed response.
		if err := s.forecasts.ReplaceRange(ctx, storeID, records); err != nil {
			log.Warn().Err(err).Int64("store_id", storeID).Msg("forecast cache write failed")
		}
	}

	if len(rows) == 0 {
		log.Info().Int64("store_id", storeID).Msg("external predictions produced no matching rows, falling back to cache")
		return nil, false
	}
	return rows, true
}

// fromCache serves fresh persisted forecast rows, or an empty list when the
// cache has nothing usable. Cache read failures degrade to empty.
func (s *ForecastService) fromCache(ctx context.Context, storeID int64, days, includePastDays int, today time.Time, recipes map[int64]*domain.Recipe, ingredients map[int64]*domain.Ingredient) []domain.Forecast {
	start := today.AddDate(0, 0, -includePastDays)
	end := today.AddDate(0, 0, days+horizonBuffer)
	cutoff := s.now().Add(-domain.ForecastFreshness)

	cached, err := s.forecasts.GetCached(ctx, storeID, start, end, cutoff)
	if err != nil {
		log.Warn().Err(err).Int64("store_id", storeID).Msg("forecast cache read failed")
		return []domain.Forecast{}
	}

	rows := make([]domain.Forecast, 0, len(cached))
	for _, record := range cached {
		recipe, ok := recipes[record.RecipeID]
		if !ok {
			continue
		}
		row, err := s.buildRow(recipe, record.ForecastDate, record.PredictedQuantity, recipes, ingredients)
		if err != nil {
			log.Warn().Err(err).Int64("recipe_id", recipe.ID).Msg("skipping unexpandable recipe")
			continue
		}
		rows = append(rows, row)
	}
	return rows
}

func (s *ForecastService) buildRow(recipe *domain.Recipe, date time.Time, qty int, recipes map[int64]*domain.Recipe, ingredients map[int64]*domain.Ingredient) (domain.Forecast, error) {
	expanded, err := ExpandIngredients(recipe.ID, decimal.NewFromInt(int64(qty)), recipes, ingredients)
	if err != nil {
		return domain.Forecast{}, err
	}
	return domain.Forecast{
		Date:        date.Format(domain.DateFormat),
		RecipeID:    recipe.ID,
		RecipeName:  recipe.Name,
		Quantity:    qty,
		Ingredients: expanded,
		Confidence:  domain.ClassifyConfidence(qty),
	}, nil
}

func inWindow(date, today time.Time, days, includePastDays int) bool {
	offset := int(date.Sub(today).Hours() / 24)
	return offset >= -includePastDays && offset <= days+horizonBuffer
}

func validateWindow(days, includePastDays int) error {
	if days < 1 || days > 30 {
		return domain.Validationf("days must be between 1 and 30")
	}
	if includePastDays < 0 || includePastDays > 30 {
		return domain.Validationf("include_past_days must be between 0 and 30")
	}
	return nil
}

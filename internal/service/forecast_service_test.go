package service

import (
	"context"
	"testing"
	"time"

	"github.com/smartsuschef/backend-go/internal/domain"
	"github.com/smartsuschef/backend-go/pkg/clients/mlservice"
)

var testToday = time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)

func newForecastFixture() (*ForecastService, *fakeForecastRepo, *fakePredictor) {
	stores := &fakeStoreRepo{store: &domain.Store{ID: 1, Name: "Demo", CountryCode: "SG"}}
	recipes := &fakeRecipeRepo{recipes: []domain.Recipe{
		{ID: 10, StoreID: 1, Name: "pizza", Sellable: true, Components: []domain.RecipeComponent{
			{IngredientID: int64Ptr(1), Quantity: dec("500")},
		}},
		{ID: 11, StoreID: 1, Name: "Chicken Rice", Sellable: true, Components: []domain.RecipeComponent{
			{IngredientID: int64Ptr(2), Quantity: dec("100")},
		}},
	}}
	ingredients := &fakeIngredientRepo{ingredients: []domain.Ingredient{
		{ID: 1, StoreID: 1, Name: "Rice", Unit: domain.UnitGram, CarbonFootprint: dec("2.0")},
		{ID: 2, StoreID: 1, Name: "Coconut Milk", Unit: domain.UnitMilliliter, CarbonFootprint: dec("0.5")},
	}}
	forecasts := &fakeForecastRepo{}
	predictor := &fakePredictor{}

	svc := NewForecastService(stores, recipes, ingredients, forecasts, predictor)
	svc.now = func() time.Time { return testToday.Add(9 * time.Hour) }
	return svc, forecasts, predictor
}

func okPrediction(dish string, points ...mlservice.DayPrediction) *mlservice.PredictResult {
	return &mlservice.PredictResult{
		StoreID: 1,
		Status:  mlservice.StatusOK,
		Predictions: map[string]mlservice.DishPrediction{
			dish: {Dish: dish, Points: points},
		},
	}
}

func TestGetForecast_MatchesDishCaseInsensitively(t *testing.T) {
	svc, forecasts, predictor := newForecastFixture()
	predictor.predictions = okPrediction("Pizza",
		mlservice.DayPrediction{Date: testToday, Yhat: 54.6},
	)

	got, err := svc.GetForecast(context.Background(), 1, 7, 0)
	if err != nil {
		t.Fatalf("GetForecast failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 row, got %d", len(got))
	}

	row := got[0]
	if row.RecipeID != 10 || row.RecipeName != "pizza" {
		t.Errorf("matched recipe = %d/%s, want 10/pizza", row.RecipeID, row.RecipeName)
	}
	if row.Quantity != 55 {
		t.Errorf("quantity = %d, want 55 (rounded)", row.Quantity)
	}
	if row.Confidence != domain.ConfidenceHigh {
		t.Errorf("confidence = %s, want High", row.Confidence)
	}
	if len(row.Ingredients) != 1 || !row.Ingredients[0].Quantity.Equal(dec("27500")) {
		t.Errorf("ingredients = %+v, want 27500 rice", row.Ingredients)
	}
	if len(forecasts.replaced) != 1 {
		t.Errorf("persisted %d records, want 1", len(forecasts.replaced))
	}
	if predictor.lastHorizon != 9 {
		t.Errorf("horizon = %d, want 9 (days+2)", predictor.lastHorizon)
	}
}

func TestGetForecast_PersistsWideReturnsNarrow(t *testing.T) {
	svc, forecasts, predictor := newForecastFixture()

	// Ten days of predictions but only a 2-day request: everything is
	// persisted, the response stops at today+days+2.
	var points []mlservice.DayPrediction
	for d := 0; d < 10; d++ {
		points = append(points, mlservice.DayPrediction{Date: testToday.AddDate(0, 0, d), Yhat: 10})
	}
	predictor.predictions = okPrediction("pizza", points...)

	got, err := svc.GetForecast(context.Background(), 1, 2, 0)
	if err != nil {
		t.Fatalf("GetForecast failed: %v", err)
	}

	if len(forecasts.replaced) != 10 {
		t.Errorf("persisted %d records, want all 10", len(forecasts.replaced))
	}
	if len(got) != 5 {
		t.Fatalf("returned %d rows, want 5 (today..today+4)", len(got))
	}
	last := got[len(got)-1].Date
	if want := testToday.AddDate(0, 0, 4).Format(domain.DateFormat); last != want {
		t.Errorf("last returned date = %s, want %s", last, want)
	}
}

func TestGetForecast_NegativePredictionClampsToZero(t *testing.T) {
	svc, _, predictor := newForecastFixture()
	predictor.predictions = okPrediction("pizza",
		mlservice.DayPrediction{Date: testToday, Yhat: -3.4},
		mlservice.DayPrediction{Date: testToday.AddDate(0, 0, 1), Yhat: 12.2},
	)

	got, err := svc.GetForecast(context.Background(), 1, 7, 0)
	if err != nil {
		t.Fatalf("GetForecast failed: %v", err)
	}
	if got[0].Quantity != 0 {
		t.Errorf("quantity = %d, want 0 for negative yhat", got[0].Quantity)
	}
	if got[0].Confidence != domain.ConfidenceLow {
		t.Errorf("confidence = %s, want Low", got[0].Confidence)
	}
}

func TestGetForecast_TrainingFallsBackToCache(t *testing.T) {
	svc, forecasts, predictor := newForecastFixture()
	predictor.predictions = &mlservice.PredictResult{Status: mlservice.StatusTraining}
	forecasts.cached = []domain.ForecastRecord{
		{StoreID: 1, RecipeID: 11, ForecastDate: testToday, PredictedQuantity: 30, UpdatedAt: testToday.Add(8 * time.Hour)},
	}

	got, err := svc.GetForecast(context.Background(), 1, 7, 0)
	if err != nil {
		t.Fatalf("GetForecast failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 cached row, got %d", len(got))
	}
	if got[0].RecipeID != 11 || got[0].Quantity != 30 {
		t.Errorf("cached row = %+v", got[0])
	}
	// Ingredient expansion is recomputed from the catalog, not stored.
	if len(got[0].Ingredients) != 1 || !got[0].Ingredients[0].Quantity.Equal(dec("3000")) {
		t.Errorf("ingredients = %+v, want 3000 coconut milk", got[0].Ingredients)
	}
}

func TestGetForecast_TransportErrorFallsBackToCache(t *testing.T) {
	svc, forecasts, predictor := newForecastFixture()
	predictor.predictErr = context.DeadlineExceeded
	forecasts.cached = []domain.ForecastRecord{
		{StoreID: 1, RecipeID: 10, ForecastDate: testToday.AddDate(0, 0, 1), PredictedQuantity: 25, UpdatedAt: testToday.Add(time.Hour)},
	}

	got, err := svc.GetForecast(context.Background(), 1, 7, 0)
	if err != nil {
		t.Fatalf("GetForecast must not surface transport errors, got %v", err)
	}
	if len(got) != 1 || got[0].Quantity != 25 {
		t.Fatalf("expected the cached row, got %+v", got)
	}
}

func TestGetForecast_StaleCacheRowsAreInvisible(t *testing.T) {
	svc, forecasts, predictor := newForecastFixture()
	predictor.predictErr = context.DeadlineExceeded
	forecasts.cached = []domain.ForecastRecord{
		{StoreID: 1, RecipeID: 10, ForecastDate: testToday, PredictedQuantity: 25, UpdatedAt: testToday.AddDate(0, 0, -3)},
	}

	got, err := svc.GetForecast(context.Background(), 1, 7, 0)
	if err != nil {
		t.Fatalf("GetForecast failed: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("stale rows must be filtered, got %+v", got)
	}
}

func TestGetForecast_EmptyEverywhereReturnsEmptyList(t *testing.T) {
	svc, _, predictor := newForecastFixture()
	predictor.predictions = &mlservice.PredictResult{Status: mlservice.StatusInsufficientData, DaysAvailable: 4}

	got, err := svc.GetForecast(context.Background(), 1, 7, 0)
	if err != nil {
		t.Fatalf("GetForecast failed: %v", err)
	}
	if got == nil {
		t.Fatal("result must be an empty list, not nil")
	}
	if len(got) != 0 {
		t.Fatalf("expected no rows, got %d", len(got))
	}
}

func TestGetForecast_UnmatchedDishesFallThroughToCache(t *testing.T) {
	svc, forecasts, predictor := newForecastFixture()
	predictor.predictions = okPrediction("Mystery Dish",
		mlservice.DayPrediction{Date: testToday, Yhat: 40},
	)
	forecasts.cached = []domain.ForecastRecord{
		{StoreID: 1, RecipeID: 10, ForecastDate: testToday, PredictedQuantity: 12, UpdatedAt: testToday.Add(time.Hour)},
	}

	got, err := svc.GetForecast(context.Background(), 1, 7, 0)
	if err != nil {
		t.Fatalf("GetForecast failed: %v", err)
	}
	if len(got) != 1 || got[0].Quantity != 12 {
		t.Fatalf("expected cache fallback row, got %+v", got)
	}
}

func TestGetForecast_ScopedToRequestedStore(t *testing.T) {
	svc, _, predictor := newForecastFixture()
	predictor.predictions = okPrediction("pizza",
		mlservice.DayPrediction{Date: testToday, Yhat: 20},
	)

	// Store 2 has no catalog, so the same predictions match nothing.
	got, err := svc.GetForecast(context.Background(), 2, 7, 0)
	if err != nil {
		t.Fatalf("GetForecast failed: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("store 2 must not see store 1 rows, got %+v", got)
	}
}

func TestGetForecast_RejectsInvalidWindow(t *testing.T) {
	svc, _, _ := newForecastFixture()

	for _, tc := range []struct{ days, past int }{
		{0, 0}, {31, 0}, {7, -1}, {7, 31},
	} {
		_, err := svc.GetForecast(context.Background(), 1, tc.days, tc.past)
		if !domain.IsValidation(err) {
			t.Errorf("days=%d past=%d: expected validation error, got %v", tc.days, tc.past, err)
		}
	}
}

func TestGetForecastSummary_GroupsByDate(t *testing.T) {
	svc, _, predictor := newForecastFixture()
	predictor.predictions = &mlservice.PredictResult{
		StoreID: 1,
		Status:  mlservice.StatusOK,
		Predictions: map[string]mlservice.DishPrediction{
			"pizza": {Dish: "pizza", Points: []mlservice.DayPrediction{
				{Date: testToday, Yhat: 20},
				{Date: testToday.AddDate(0, 0, 1), Yhat: 30},
			}},
			"chicken rice": {Dish: "chicken rice", Points: []mlservice.DayPrediction{
				{Date: testToday, Yhat: 15},
			}},
		},
	}

	got, err := svc.GetForecastSummary(context.Background(), 1, 7, 0)
	if err != nil {
		t.Fatalf("GetForecastSummary failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 summary days, got %d", len(got))
	}
	if got[0].TotalQuantity != 35 {
		t.Errorf("day 1 total = %d, want 35", got[0].TotalQuantity)
	}
	if got[1].TotalQuantity != 30 {
		t.Errorf("day 2 total = %d, want 30", got[1].TotalQuantity)
	}
	if !got[0].ChangePercent.IsZero() {
		t.Errorf("change percent = %s, want 0", got[0].ChangePercent)
	}
	if got[0].Date >= got[1].Date {
		t.Errorf("summary not sorted: %s then %s", got[0].Date, got[1].Date)
	}
}

package service

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/smartsuschef/backend-go/internal/domain"
	"github.com/smartsuschef/backend-go/pkg/clients/mlservice"
)

// In-memory repository fakes shared by the service tests.

type fakeStoreRepo struct {
	store *domain.Store
}

func (f *fakeStoreRepo) GetByID(ctx context.Context, storeID int64) (*domain.Store, error) {
	if f.store == nil || f.store.ID != storeID {
		return nil, domain.ErrNotFound
	}
	copied := *f.store
	return &copied, nil
}

func (f *fakeStoreRepo) Create(ctx context.Context) (*domain.Store, error) {
	f.store = &domain.Store{ID: 1}
	return f.store, nil
}

func (f *fakeStoreRepo) UpdateProfile(ctx context.Context, store *domain.Store) error {
	if f.store == nil || f.store.ID != store.ID {
		return domain.ErrNotFound
	}
	f.store = store
	return nil
}

type fakeRecipeRepo struct {
	recipes []domain.Recipe
}

func (f *fakeRecipeRepo) GetAllWithComponents(ctx context.Context, storeID int64) ([]domain.Recipe, error) {
	var out []domain.Recipe
	for _, r := range f.recipes {
		if r.StoreID == storeID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRecipeRepo) GetByID(ctx context.Context, storeID, id int64) (*domain.Recipe, error) {
	for i := range f.recipes {
		if f.recipes[i].StoreID == storeID && f.recipes[i].ID == id {
			copied := f.recipes[i]
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeRecipeRepo) ExistsByName(ctx context.Context, storeID int64, name string, excludeID int64) (bool, error) {
	for _, r := range f.recipes {
		if r.StoreID == storeID && r.ID != excludeID && strings.EqualFold(r.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRecipeRepo) Create(ctx context.Context, r *domain.Recipe) error {
	r.ID = int64(len(f.recipes) + 1)
	f.recipes = append(f.recipes, *r)
	return nil
}

func (f *fakeRecipeRepo) Update(ctx context.Context, r *domain.Recipe) error {
	for i := range f.recipes {
		if f.recipes[i].StoreID == r.StoreID && f.recipes[i].ID == r.ID {
			f.recipes[i] = *r
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeRecipeRepo) Delete(ctx context.Context, storeID, id int64) error {
	for i := range f.recipes {
		if f.recipes[i].StoreID == storeID && f.recipes[i].ID == id {
			f.recipes = append(f.recipes[:i], f.recipes[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeRecipeRepo) ReferencedAsChild(ctx context.Context, storeID, id int64) (bool, error) {
	for _, r := range f.recipes {
		if r.StoreID != storeID {
			continue
		}
		for _, c := range r.Components {
			if c.ChildRecipeID != nil && *c.ChildRecipeID == id {
				return true, nil
			}
		}
	}
	return false, nil
}

type fakeIngredientRepo struct {
	ingredients []domain.Ingredient
	inUse       bool
}

func (f *fakeIngredientRepo) GetAll(ctx context.Context, storeID int64) ([]domain.Ingredient, error) {
	var out []domain.Ingredient
	for _, ing := range f.ingredients {
		if ing.StoreID == storeID {
			out = append(out, ing)
		}
	}
	return out, nil
}

func (f *fakeIngredientRepo) GetByID(ctx context.Context, storeID, id int64) (*domain.Ingredient, error) {
	for i := range f.ingredients {
		if f.ingredients[i].StoreID == storeID && f.ingredients[i].ID == id {
			copied := f.ingredients[i]
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeIngredientRepo) ExistsByName(ctx context.Context, storeID int64, name string, excludeID int64) (bool, error) {
	for _, ing := range f.ingredients {
		if ing.StoreID == storeID && ing.ID != excludeID && strings.EqualFold(ing.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeIngredientRepo) Create(ctx context.Context, ing *domain.Ingredient) error {
	ing.ID = int64(len(f.ingredients) + 1)
	f.ingredients = append(f.ingredients, *ing)
	return nil
}

func (f *fakeIngredientRepo) Update(ctx context.Context, ing *domain.Ingredient) error {
	for i := range f.ingredients {
		if f.ingredients[i].StoreID == ing.StoreID && f.ingredients[i].ID == ing.ID {
			f.ingredients[i] = *ing
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeIngredientRepo) Delete(ctx context.Context, storeID, id int64) error {
	for i := range f.ingredients {
		if f.ingredients[i].StoreID == storeID && f.ingredients[i].ID == id {
			f.ingredients = append(f.ingredients[:i], f.ingredients[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeIngredientRepo) InUse(ctx context.Context, storeID, id int64) (bool, error) {
	return f.inUse, nil
}

type fakeForecastRepo struct {
	replaced   []domain.ForecastRecord
	replaceErr error
	cached     []domain.ForecastRecord
	cacheErr   error
}

func (f *fakeForecastRepo) ReplaceRange(ctx context.Context, storeID int64, records []domain.ForecastRecord) error {
	if f.replaceErr != nil {
		return f.replaceErr
	}
	f.replaced = append([]domain.ForecastRecord(nil), records...)
	return nil
}

func (f *fakeForecastRepo) GetCached(ctx context.Context, storeID int64, start, end, cutoff time.Time) ([]domain.ForecastRecord, error) {
	if f.cacheErr != nil {
		return nil, f.cacheErr
	}
	var out []domain.ForecastRecord
	for _, rec := range f.cached {
		if rec.StoreID != storeID || rec.ForecastDate.Before(start) || rec.ForecastDate.After(end) {
			continue
		}
		if rec.UpdatedAt.Before(cutoff) {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

type fakeSalesRepo struct {
	sales []domain.SalesData
}

func (f *fakeSalesRepo) GetRange(ctx context.Context, storeID int64, start, end time.Time) ([]domain.SalesData, error) {
	var out []domain.SalesData
	for _, s := range f.sales {
		if s.StoreID == storeID && !s.Date.Before(start) && !s.Date.After(end) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSalesRepo) GetByID(ctx context.Context, storeID, id int64) (*domain.SalesData, error) {
	for i := range f.sales {
		if f.sales[i].StoreID == storeID && f.sales[i].ID == id {
			copied := f.sales[i]
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeSalesRepo) Create(ctx context.Context, s *domain.SalesData) error {
	s.ID = int64(len(f.sales) + 1)
	f.sales = append(f.sales, *s)
	return nil
}

func (f *fakeSalesRepo) CreateBatch(ctx context.Context, rows []domain.SalesData) error {
	for i := range rows {
		if err := f.Create(ctx, &rows[i]); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeSalesRepo) Update(ctx context.Context, s *domain.SalesData) error {
	for i := range f.sales {
		if f.sales[i].StoreID == s.StoreID && f.sales[i].ID == s.ID {
			f.sales[i] = *s
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeSalesRepo) Delete(ctx context.Context, storeID, id int64) error {
	for i := range f.sales {
		if f.sales[i].StoreID == storeID && f.sales[i].ID == id {
			f.sales = append(f.sales[:i], f.sales[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

type fakeWastageRepo struct {
	wastage []domain.WastageData
}

func (f *fakeWastageRepo) GetRange(ctx context.Context, storeID int64, start, end time.Time) ([]domain.WastageData, error) {
	var out []domain.WastageData
	for _, w := range f.wastage {
		if w.StoreID == storeID && !w.Date.Before(start) && !w.Date.After(end) {
			out = append(out, w)
		}
	}
	return out, nil
}

func (f *fakeWastageRepo) GetByID(ctx context.Context, storeID, id int64) (*domain.WastageData, error) {
	for i := range f.wastage {
		if f.wastage[i].StoreID == storeID && f.wastage[i].ID == id {
			copied := f.wastage[i]
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeWastageRepo) Create(ctx context.Context, w *domain.WastageData) error {
	w.ID = int64(len(f.wastage) + 1)
	f.wastage = append(f.wastage, *w)
	return nil
}

func (f *fakeWastageRepo) Update(ctx context.Context, w *domain.WastageData) error {
	for i := range f.wastage {
		if f.wastage[i].StoreID == w.StoreID && f.wastage[i].ID == w.ID {
			f.wastage[i] = *w
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeWastageRepo) Delete(ctx context.Context, storeID, id int64) error {
	for i := range f.wastage {
		if f.wastage[i].StoreID == storeID && f.wastage[i].ID == id {
			f.wastage = append(f.wastage[:i], f.wastage[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

type fakeSignalRepo struct {
	signals []domain.CalendarSignal
}

func (f *fakeSignalRepo) GetRange(ctx context.Context, start, end time.Time) ([]domain.CalendarSignal, error) {
	var out []domain.CalendarSignal
	for _, s := range f.signals {
		if !s.Date.Before(start) && !s.Date.After(end) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSignalRepo) Get(ctx context.Context, date time.Time) (*domain.CalendarSignal, error) {
	for i := range f.signals {
		if f.signals[i].Date.Equal(date) {
			copied := f.signals[i]
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeSignalRepo) Upsert(ctx context.Context, signals []domain.CalendarSignal) error {
	f.signals = append(f.signals, signals...)
	return nil
}

type fakePredictor struct {
	status      mlservice.Status
	trainResult *mlservice.TrainResult
	trainErr    error
	predictions *mlservice.PredictResult
	predictErr  error

	predictCalls int
	lastHorizon  int
}

func (f *fakePredictor) GetStatus(ctx context.Context, storeID int64) mlservice.Status {
	return f.status
}

func (f *fakePredictor) TriggerTraining(ctx context.Context, storeID int64) (*mlservice.TrainResult, error) {
	return f.trainResult, f.trainErr
}

func (f *fakePredictor) GetPredictions(ctx context.Context, storeID int64, horizonDays int, latitude, longitude *decimal.Decimal, countryCode string) (*mlservice.PredictResult, error) {
	f.predictCalls++
	f.lastHorizon = horizonDays
	return f.predictions, f.predictErr
}

package repository

import (
	"context"
	"time"

	"github.com/smartsuschef/backend-go/internal/domain"
)

// Every query is scoped by storeID; tenant isolation lives at the query
// level, never in shared state.

type StoreRepository interface {
	GetByID(ctx context.Context, storeID int64) (*domain.Store, error)
	Create(ctx context.Context) (*domain.Store, error)
	UpdateProfile(ctx context.Context, store *domain.Store) error
}

type IngredientRepository interface {
	GetAll(ctx context.Context, storeID int64) ([]domain.Ingredient, error)
	GetByID(ctx context.Context, storeID, id int64) (*domain.Ingredient, error)
	ExistsByName(ctx context.Context, storeID int64, name string, excludeID int64) (bool, error)
	Create(ctx context.Context, ing *domain.Ingredient) error
	Update(ctx context.Context, ing *domain.Ingredient) error
	Delete(ctx context.Context, storeID, id int64) error
	InUse(ctx context.Context, storeID, id int64) (bool, error)
}

type RecipeRepository interface {
	// GetAllWithComponents returns every recipe of the store with its
	// ordered component list populated.
	GetAllWithComponents(ctx context.Context, storeID int64) ([]domain.Recipe, error)
	GetByID(ctx context.Context, storeID, id int64) (*domain.Recipe, error)
	ExistsByName(ctx context.Context, storeID int64, name string, excludeID int64) (bool, error)
	Create(ctx context.Context, r *domain.Recipe) error
	Update(ctx context.Context, r *domain.Recipe) error
	Delete(ctx context.Context, storeID, id int64) error
	// ReferencedAsChild reports whether any other recipe uses this one as a
	// component.
	ReferencedAsChild(ctx context.Context, storeID, id int64) (bool, error)
}

type SalesRepository interface {
	GetRange(ctx context.Context, storeID int64, start, end time.Time) ([]domain.SalesData, error)
	GetByID(ctx context.Context, storeID, id int64) (*domain.SalesData, error)
	Create(ctx context.Context, s *domain.SalesData) error
	CreateBatch(ctx context.Context, rows []domain.SalesData) error
	Update(ctx context.Context, s *domain.SalesData) error
	Delete(ctx context.Context, storeID, id int64) error
}

type WastageRepository interface {
	GetRange(ctx context.Context, storeID int64, start, end time.Time) ([]domain.WastageData, error)
	GetByID(ctx context.Context, storeID, id int64) (*domain.WastageData, error)
	Create(ctx context.Context, w *domain.WastageData) error
	Update(ctx context.Context, w *domain.WastageData) error
	Delete(ctx context.Context, storeID, id int64) error
}

// ForecastRepository is the persisted forecast cache.
type ForecastRepository interface {
	// ReplaceRange deletes every record of the store whose date falls within
	// [min, max] of the given records, then inserts them all, in one
	// transaction. A full-range replace, not a per-row merge.
	ReplaceRange(ctx context.Context, storeID int64, records []domain.ForecastRecord) error
	// GetCached returns records in [start, end] updated at or after cutoff.
	// Staler rows are treated as absent, not deleted.
	GetCached(ctx context.Context, storeID int64, start, end, cutoff time.Time) ([]domain.ForecastRecord, error)
}

type SignalRepository interface {
	GetRange(ctx context.Context, start, end time.Time) ([]domain.CalendarSignal, error)
	Get(ctx context.Context, date time.Time) (*domain.CalendarSignal, error)
	Upsert(ctx context.Context, signals []domain.CalendarSignal) error
}

package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Store is the tenant root. Every recipe, ingredient, sales and forecast row
// belongs to exactly one store.
type Store struct {
	ID          int64           `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	Latitude    decimal.Decimal `json:"latitude" db:"latitude"`
	Longitude   decimal.Decimal `json:"longitude" db:"longitude"`
	CountryCode string          `json:"country_code" db:"country_code"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}

// SetupComplete reports whether the store profile has been filled in.
func (s Store) SetupComplete() bool {
	return strings.TrimSpace(s.Name) != ""
}

// Unit is the fixed measurement enumeration for ingredients.
type Unit string

const (
	UnitGram       Unit = "g"
	UnitMilliliter Unit = "ml"
	UnitKilogram   Unit = "kg"
	UnitLiter      Unit = "L"
)

// ParseUnit validates a unit string against the enumeration.
func ParseUnit(s string) (Unit, bool) {
	switch Unit(strings.TrimSpace(s)) {
	case UnitGram:
		return UnitGram, true
	case UnitMilliliter:
		return UnitMilliliter, true
	case UnitKilogram:
		return UnitKilogram, true
	case UnitLiter:
		return UnitLiter, true
	}
	return "", false
}

// Ingredient is a leaf catalog entry. Name is unique per store,
// case-insensitively.
type Ingredient struct {
	ID              int64           `json:"id" db:"id"`
	StoreID         int64           `json:"store_id" db:"store_id"`
	Name            string          `json:"name" db:"name"`
	Unit            Unit            `json:"unit" db:"unit"`
	CarbonFootprint decimal.Decimal `json:"carbon_footprint" db:"carbon_footprint"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at" db:"updated_at"`
}

// Recipe is a producible dish. A recipe flagged as sub-recipe is not sellable
// on its own and may be referenced as a component of other recipes.
type Recipe struct {
	ID          int64     `json:"id" db:"id"`
	StoreID     int64     `json:"store_id" db:"store_id"`
	Name        string    `json:"name" db:"name"`
	Sellable    bool      `json:"sellable" db:"sellable"`
	IsSubRecipe bool      `json:"is_sub_recipe" db:"is_sub_recipe"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`

	Components []RecipeComponent `json:"components" db:"-"`
}

// RecipeComponent links a recipe to either an ingredient or a child recipe.
// Exactly one of IngredientID / ChildRecipeID is set.
type RecipeComponent struct {
	ID            int64           `json:"id" db:"id"`
	RecipeID      int64           `json:"recipe_id" db:"recipe_id"`
	IngredientID  *int64          `json:"ingredient_id,omitempty" db:"ingredient_id"`
	ChildRecipeID *int64          `json:"child_recipe_id,omitempty" db:"child_recipe_id"`
	Quantity      decimal.Decimal `json:"quantity" db:"quantity"`
	Position      int             `json:"position" db:"position"`
}

// SalesData is one recorded sale of a recipe on a day.
type SalesData struct {
	ID         int64     `json:"id" db:"id"`
	StoreID    int64     `json:"store_id" db:"store_id"`
	RecipeID   int64     `json:"recipe_id" db:"recipe_id"`
	RecipeName string    `json:"recipe_name" db:"recipe_name"`
	Date       time.Time `json:"date" db:"date"`
	Quantity   int       `json:"quantity" db:"quantity"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// WastageData is one recorded wastage of an ingredient on a day.
type WastageData struct {
	ID             int64           `json:"id" db:"id"`
	StoreID        int64           `json:"store_id" db:"store_id"`
	IngredientID   int64           `json:"ingredient_id" db:"ingredient_id"`
	IngredientName string          `json:"ingredient_name" db:"ingredient_name"`
	Unit           Unit            `json:"unit" db:"unit"`
	Date           time.Time       `json:"date" db:"date"`
	Quantity       decimal.Decimal `json:"quantity" db:"quantity"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at" db:"updated_at"`
}

// ForecastRecord is the persisted forecast cache entity. At most one
// logically-current row exists per (store, recipe, date); refresh is
// delete-then-insert over the predicted date span.
type ForecastRecord struct {
	ID                int64     `json:"id" db:"id"`
	StoreID           int64     `json:"store_id" db:"store_id"`
	RecipeID          int64     `json:"recipe_id" db:"recipe_id"`
	ForecastDate      time.Time `json:"forecast_date" db:"forecast_date"`
	PredictedQuantity int       `json:"predicted_quantity" db:"predicted_quantity"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" db:"updated_at"`
}

// ForecastFreshness is the window after which a cached forecast row is
// treated as absent by readers.
const ForecastFreshness = 24 * time.Hour

// CalendarSignal carries the external holiday/weather signals for one
// calendar day. Global, not tenant-scoped.
type CalendarSignal struct {
	Date            time.Time       `json:"date" db:"date"`
	IsHoliday       bool            `json:"is_holiday" db:"is_holiday"`
	HolidayName     string          `json:"holiday_name" db:"holiday_name"`
	IsSchoolHoliday bool            `json:"is_school_holiday" db:"is_school_holiday"`
	RainMm          decimal.Decimal `json:"rain_mm" db:"rain_mm"`
	WeatherDesc     string          `json:"weather_desc" db:"weather_desc"`
}

// DateOnly normalizes a timestamp to UTC midnight, the day granularity used
// for sales, forecasts and signals.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DateFormat is the wire format for day-granularity dates.
const DateFormat = "2006-01-02"

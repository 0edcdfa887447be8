package domain

import "github.com/shopspring/decimal"

// Confidence tiers for a predicted quantity.
const (
	ConfidenceHigh   = "High"
	ConfidenceMedium = "Medium"
	ConfidenceLow    = "Low"
)

// ClassifyConfidence buckets a predicted quantity by fixed thresholds.
func ClassifyConfidence(quantity int) string {
	switch {
	case quantity > 50:
		return ConfidenceHigh
	case quantity > 20:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// Forecast is one (recipe, date) row of the reconciled forecast, with the
// recipe expanded into its flattened ingredient requirements.
type Forecast struct {
	Date        string               `json:"date"`
	RecipeID    int64                `json:"recipe_id"`
	RecipeName  string               `json:"recipe_name"`
	Quantity    int                  `json:"quantity"`
	Ingredients []ForecastIngredient `json:"ingredients"`
	Confidence  string               `json:"confidence"`
}

// ForecastIngredient is one flattened ingredient requirement.
type ForecastIngredient struct {
	IngredientID   int64           `json:"ingredient_id"`
	IngredientName string          `json:"ingredient_name"`
	Unit           Unit            `json:"unit"`
	Quantity       decimal.Decimal `json:"quantity"`
}

// ForecastSummary is the per-day aggregate of the forecast.
type ForecastSummary struct {
	Date          string          `json:"date"`
	TotalQuantity int             `json:"total_quantity"`
	ChangePercent decimal.Decimal `json:"change_percent"`
}

// RecipeSales is the per-recipe share of one day's sales.
type RecipeSales struct {
	RecipeID   int64  `json:"recipe_id"`
	RecipeName string `json:"recipe_name"`
	Quantity   int    `json:"quantity"`
}

// SalesWithSignals is one calendar day of the trend view: sales totals
// left-joined with the day's holiday/weather signals. Exactly one row is
// produced per day in the requested range.
type SalesWithSignals struct {
	Date          string          `json:"date"`
	TotalQuantity int             `json:"total_quantity"`
	IsHoliday     bool            `json:"is_holiday"`
	HolidayName   string          `json:"holiday_name"`
	RainMm        decimal.Decimal `json:"rain_mm"`
	WeatherDesc   string          `json:"weather_desc"`
	Recipes       []RecipeSales   `json:"recipes"`
}

// IngredientUsage is the aggregated ingredient consumption implied by a
// day's sales.
type IngredientUsage struct {
	IngredientID   int64           `json:"ingredient_id"`
	IngredientName string          `json:"ingredient_name"`
	Unit           Unit            `json:"unit"`
	Quantity       decimal.Decimal `json:"quantity"`
}

// IngredientWastage is the per-ingredient share of one day's wastage.
type IngredientWastage struct {
	IngredientID   int64           `json:"ingredient_id"`
	IngredientName string          `json:"ingredient_name"`
	Unit           Unit            `json:"unit"`
	Quantity       decimal.Decimal `json:"quantity"`
	CarbonImpact   decimal.Decimal `json:"carbon_impact"`
}

// WastageTrend is one day of the wastage trend with its carbon impact.
type WastageTrend struct {
	Date          string              `json:"date"`
	TotalQuantity decimal.Decimal     `json:"total_quantity"`
	CarbonImpact  decimal.Decimal     `json:"carbon_impact"`
	Ingredients   []IngredientWastage `json:"ingredients"`
}

// Holiday is one public holiday as served by the holiday capability.
type Holiday struct {
	Date string `json:"date"`
	Name string `json:"name"`
}

// Weather is the current-weather value served by the weather capability.
type Weather struct {
	Temperature decimal.Decimal `json:"temperature"`
	Condition   string          `json:"condition"`
	Humidity    int             `json:"humidity"`
	Description string          `json:"description"`
}

/// DashboardSummary is the strategic overview: a 30-day signal-joined sales
// trend plus wastage impact and today's calendar context.
type DashboardSummary struct {
	SalesTrend           []SalesWithSignals `json:"sales_trend"`
	TotalWastageCarbonKg decimal.Decimal    `json:"total_wastage_carbon_kg"`
	IsHolidayToday       bool               `json:"is_holiday_today"`
	CurrentWeather       *Weather           `json:"current_weather"`
	Period               string             `json:"period"`
}

// Package weather wraps an open-meteo-compatible weather API. Failures
// degrade to a local fallback value; weather is an advisory signal.
package weather

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/smartsuschef/backend-go/internal/domain"
)

type Client struct {
	http *resty.Client
}

func NewClient(baseURL string) *Client {
	http := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10 * time.Second)
	return &Client{http: http}
}

var fallback = domain.Weather{
	Temperature: decimal.NewFromInt(28),
	Condition:   "Unknown",
	Humidity:    0,
	Description: "No Data",
}

type currentWire struct {
	Current struct {
		Temperature float64 `json:"temperature_2m"`
		Humidity    int     `json:"relative_humidity_2m"`
		Rain        float64 `json:"rain"`
		WeatherCode int     `json:"weather_code"`
	} `json:"current"`
}

// GetCurrentWeather returns the current conditions at the coordinates, or a
// fallback value if the upstream is unreachable.
func (c *Client) GetCurrentWeather(ctx context.Context, latitude, longitude decimal.Decimal) domain.Weather {
	var wire currentWire
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"latitude":  latitude.String(),
			"longitude": longitude.String(),
			"current":   "temperature_2m,relative_humidity_2m,rain,weather_code",
		}).
		SetResult(&wire).
		Get("")
	if err != nil {
		log.Warn().Err(err).Msg("weather api unavailable")
		return fallback
	}
	if resp.IsError() {
		log.Warn().Int("status", resp.StatusCode()).Msg("weather api error")
		return fallback
	}

	desc := describeWeatherCode(wire.Current.WeatherCode)
	return domain.Weather{
		Temperature: decimal.NewFromFloat(wire.Current.Temperature),
		Condition:   desc,
		Humidity:    wire.Current.Humidity,
		Description: desc,
	}
}

type dailyWire struct {
	Daily struct {
		Time        []string  `json:"time"`
		RainSum     []float64 `json:"rain_sum"`
		WeatherCode []int     `json:"weather_code"`
	} `json:"daily"`
}

// GetDailyRain returns the rainfall sum and weather description for one day,
// or zero/fallback values when unavailable.
func (c *Client) GetDailyRain(ctx context.Context, date time.Time, latitude, longitude decimal.Decimal) (decimal.Decimal, string) {
	dateStr := date.Format(domain.DateFormat)

	var wire dailyWire
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"latitude":   latitude.String(),
			"longitude":  longitude.String(),
			"daily":      "rain_sum,weather_code",
			"start_date": dateStr,
			"end_date":   dateStr,
		}).
		SetResult(&wire).
		Get("")
	if err != nil || resp.IsError() {
		log.Warn().Err(err).Str("date", dateStr).Msg("daily weather lookup failed")
		return decimal.Zero, "No Data"
	}

	for i, t := range wire.Daily.Time {
		if t != dateStr {
			continue
		}
		rain := decimal.Zero
		if i < len(wire.Daily.RainSum) {
			rain = decimal.NewFromFloat(wire.Daily.RainSum[i])
		}
		desc := "No Data"
		if i < len(wire.Daily.WeatherCode) {
			desc = describeWeatherCode(wire.Daily.WeatherCode[i])
		}
		return rain, desc
	}
	return decimal.Zero, "No Data"
}

// describeWeatherCode maps WMO weather codes to coarse descriptions.
func describeWeatherCode(code int) string {
	switch {
	case code == 0:
		return "Clear"
	case code <= 3:
		return "Partly Cloudy"
	case code <= 48:
		return "Fog"
	case code <= 57:
		return "Drizzle"
	case code <= 67:
		return "Rain"
	case code <= 77:
		return "Snow"
	case code <= 82:
		return "Rain Showers"
	case code <= 86:
		return "Snow Showers"
	default:
		return "Thunderstorm"
	}
}

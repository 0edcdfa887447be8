package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/smartsuschef/backend-go/internal/cache"
	"github.com/smartsuschef/backend-go/internal/domain"
	"github.com/smartsuschef/backend-go/internal/repository"
)

// HolidayProvider is the external public-holiday capability. Implementations
// return a local fallback (empty list) instead of failing.
type HolidayProvider interface {
	GetHolidays(ctx context.Context, year int, countryCode string) []domain.Holiday
}

// WeatherProvider is the external weather capability. Implementations return
// a local fallback value instead of failing.
type WeatherProvider interface {
	GetCurrentWeather(ctx context.Context, latitude, longitude decimal.Decimal) domain.Weather
	GetDailyRain(ctx context.Context, date time.Time, latitude, longitude decimal.Decimal) (decimal.Decimal, string)
}

// SignalService maintains the calendar_signals table from the external
// holiday and weather upstreams and serves cached lookups for the dashboard.
type SignalService struct {
	signals  repository.SignalRepository
	stores   repository.StoreRepository
	holidays HolidayProvider
	weather  WeatherProvider
	cache    cache.SignalCache
}

func NewSignalService(signals repository.SignalRepository, stores repository.StoreRepository, holidays HolidayProvider, weather WeatherProvider, signalCache cache.SignalCache) *SignalService {
	return &SignalService{
		signals:  signals,
		stores:   stores,
		holidays: holidays,
		weather:  weather,
		cache:    signalCache,
	}
}

// GetHolidays returns the store country's public holidays for a year,
// memoized in the signal cache.
func (s *SignalService) GetHolidays(ctx context.Context, storeID int64, year int) ([]domain.Holiday, error) {
	countryCode := s.storeCountry(ctx, storeID)

	if cached, hit, err := s.cache.GetHolidays(ctx, countryCode, year); err != nil {
		log.Warn().Err(err).Msg("holiday cache read failed")
	} else if hit {
		return cached, nil
	}

	holidays := s.holidays.GetHolidays(ctx, year, countryCode)
	if len(holidays) > 0 {
		if err := s.cache.SetHolidays(ctx, countryCode, year, holidays); err != nil {
			log.Warn().Err(err).Msg("holiday cache write failed")
		}
	}
	return holidays, nil
}

// IsHolidayToday reports whether today is a public holiday for the store.
func (s *SignalService) IsHolidayToday(ctx context.Context, storeID int64) (bool, string) {
	today := domain.DateOnly(time.Now()).Format(domain.DateFormat)
	holidays, err := s.GetHolidays(ctx, storeID, time.Now().UTC().Year())
	if err != nil {
		return false, ""
	}
	for _, h := range holidays {
		if h.Date == today {
			return true, h.Name
		}
	}
	return false, ""
}

// GetCurrentWeather returns the current conditions at the store's
// coordinates, memoized briefly in the signal cache.
func (s *SignalService) GetCurrentWeather(ctx context.Context, storeID int64) domain.Weather {
	if cached, hit, err := s.cache.GetWeather(ctx, storeID); err != nil {
		log.Warn().Err(err).Msg("weather cache read failed")
	} else if hit {
		return *cached
	}

	latitude, longitude := s.storeCoordinates(ctx, storeID)
	weather := s.weather.GetCurrentWeather(ctx, latitude, longitude)
	if err := s.cache.SetWeather(ctx, storeID, &weather); err != nil {
		log.Warn().Err(err).Msg("weather cache write failed")
	}
	return weather
}

// SyncSignals refreshes calendar_signals for every day in [start, end] from
// the holiday and weather upstreams.
func (s *SignalService) SyncSignals(ctx context.Context, storeID int64, start, end time.Time) (int, error) {
	start, end = domain.DateOnly(start), domain.DateOnly(end)
	if end.Before(start) {
		return 0, domain.Validationf("end date must not be before start date")
	}

	countryCode := s.storeCountry(ctx, storeID)
	latitude, longitude := s.storeCoordinates(ctx, storeID)

	holidayByDate := make(map[string]string)
	for year := start.Year(); year <= end.Year(); year++ {
		for _, h := range s.holidays.GetHolidays(ctx, year, countryCode) {
			holidayByDate[h.Date] = h.Name
		}
	}

	days := int(end.Sub(start).Hours()/24) + 1
	signals := make([]domain.CalendarSignal, 0, days)
	for d := 0; d < days; d++ {
		date := start.AddDate(0, 0, d)
		key := date.Format(domain.DateFormat)

		rain, desc := s.weather.GetDailyRain(ctx, date, latitude, longitude)
		signal := domain.CalendarSignal{
			Date:        date,
			HolidayName: "None",
			RainMm:      rain,
			WeatherDesc: desc,
		}
		if name, ok := holidayByDate[key]; ok {
			signal.IsHoliday = true
			signal.HolidayName = name
		}
		signals = append(signals, signal)
	}

	if err := s.signals.Upsert(ctx, signals); err != nil {
		return 0, err
	}
	return len(signals), nil
}

func (s *SignalService) storeCountry(ctx context.Context, storeID int64) string {
	store, err := s.stores.GetByID(ctx, storeID)
	if err != nil || store.CountryCode == "" {
		return "SG"
	}
	return store.CountryCode
}

func (s *SignalService) storeCoordinates(ctx context.Context, storeID int64) (decimal.Decimal, decimal.Decimal) {
	store, err := s.stores.GetByID(ctx, storeID)
	if err != nil {
		return decimal.Zero, decimal.Zero
	}
	return store.Latitude, store.Longitude
}

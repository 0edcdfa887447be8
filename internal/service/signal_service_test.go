package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/smartsuschef/backend-go/internal/cache"
	"github.com/smartsuschef/backend-go/internal/domain"
)

type fakeHolidayProvider struct {
	holidays map[int][]domain.Holiday
	calls    int
}

func (f *fakeHolidayProvider) GetHolidays(ctx context.Context, year int, countryCode string) []domain.Holiday {
	f.calls++
	return f.holidays[year]
}

type fakeWeatherProvider struct {
	rain decimal.Decimal
	desc string
}

func (f *fakeWeatherProvider) GetCurrentWeather(ctx context.Context, latitude, longitude decimal.Decimal) domain.Weather {
	return domain.Weather{Temperature: dec("30"), Condition: f.desc, Description: f.desc}
}

func (f *fakeWeatherProvider) GetDailyRain(ctx context.Context, date time.Time, latitude, longitude decimal.Decimal) (decimal.Decimal, string) {
	return f.rain, f.desc
}

func TestSyncSignals_UpsertsOneRowPerDay(t *testing.T) {
	repo := &fakeSignalRepo{}
	stores := &fakeStoreRepo{store: &domain.Store{ID: 1, Name: "Demo", CountryCode: "SG"}}
	holidays := &fakeHolidayProvider{holidays: map[int][]domain.Holiday{
		2026: {{Date: "2026-08-09", Name: "National Day"}},
	}}
	weather := &fakeWeatherProvider{rain: dec("4.2"), desc: "Rain"}

	svc := NewSignalService(repo, stores, holidays, weather, cache.NewNoopSignalCache())

	start := time.Date(2026, 8, 8, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)
	synced, err := svc.SyncSignals(context.Background(), 1, start, end)
	if err != nil {
		t.Fatalf("SyncSignals failed: %v", err)
	}
	if synced != 3 {
		t.Fatalf("synced = %d, want 3", synced)
	}
	if len(repo.signals) != 3 {
		t.Fatalf("upserted %d rows, want 3", len(repo.signals))
	}

	holiday := repo.signals[1]
	if !holiday.IsHoliday || holiday.HolidayName != "National Day" {
		t.Errorf("holiday row = %+v", holiday)
	}
	plain := repo.signals[0]
	if plain.IsHoliday || plain.HolidayName != "None" {
		t.Errorf("plain row = %+v", plain)
	}
	if !plain.RainMm.Equal(dec("4.2")) || plain.WeatherDesc != "Rain" {
		t.Errorf("weather fields = %s %q", plain.RainMm, plain.WeatherDesc)
	}
}

func TestSyncSignals_RejectsInvertedRange(t *testing.T) {
	svc := NewSignalService(&fakeSignalRepo{}, &fakeStoreRepo{}, &fakeHolidayProvider{}, &fakeWeatherProvider{}, cache.NewNoopSignalCache())

	start := time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)
	if _, err := svc.SyncSignals(context.Background(), 1, start, start.AddDate(0, 0, -1)); !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestGetHolidays_DefaultsCountryWhenStoreMissing(t *testing.T) {
	holidays := &fakeHolidayProvider{holidays: map[int][]domain.Holiday{
		2026: {{Date: "2026-01-01", Name: "New Year"}},
	}}
	svc := NewSignalService(&fakeSignalRepo{}, &fakeStoreRepo{}, holidays, &fakeWeatherProvider{}, cache.NewNoopSignalCache())

	got, err := svc.GetHolidays(context.Background(), 99, 2026)
	if err != nil {
		t.Fatalf("GetHolidays failed: %v", err)
	}
	if len(got) != 1 || got[0].Name != "New Year" {
		t.Errorf("holidays = %+v", got)
	}
}

package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/smartsuschef/backend-go/internal/domain"
)

type signalRepository struct {
	db *DB
}

func NewSignalRepository(db *DB) *signalRepository {
	return &signalRepository{db: db}
}

func (r *signalRepository) GetRange(ctx context.Context, start, end time.Time) ([]domain.CalendarSignal, error) {
	var signals []domain.CalendarSignal
	err := sqlx.SelectContext(ctx, r.db, &signals, `
		SELECT date, is_holiday, holiday_name, is_school_holiday, rain_mm, weather_desc
		FROM calendar_signals
		WHERE date >= $1 AND date <= $2
		ORDER BY date ASC
	`, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list calendar signals: %w", err)
	}
	return signals, nil
}

func (r *signalRepository) Get(ctx context.Context, date time.Time) (*domain.CalendarSignal, error) {
	var signal domain.CalendarSignal
	err := sqlx.GetContext(ctx, r.db, &signal, `
		SELECT date, is_holiday, holiday_name, is_school_holiday, rain_mm, weather_desc
		FROM calendar_signals
		WHERE date = $1
	`, date)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get calendar signal: %w", err)
	}
	return &signal, nil
}

func (r *signalRepository) Upsert(ctx context.Context, signals []domain.CalendarSignal) error {
	if len(signals) == 0 {
		return nil
	}
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO calendar_signals (date, is_holiday, holiday_name, is_school_holiday, rain_mm, weather_desc)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (date)
			DO UPDATE SET
				is_holiday = EXCLUDED.is_holiday,
				holiday_name = EXCLUDED.holiday_name,
				is_school_holiday = EXCLUDED.is_school_holiday,
				rain_mm = EXCLUDED.rain_mm,
				weather_desc = EXCLUDED.weather_desc
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare signal upsert: %w", err)
		}
		defer stmt.Close()

		for _, s := range signals {
			if _, err := stmt.ExecContext(ctx, s.Date, s.IsHoliday, s.HolidayName, s.IsSchoolHoliday, s.RainMm, s.WeatherDesc); err != nil {
				return fmt.Errorf("failed to upsert calendar signal: %w", err)
			}
		}
		return nil
	})
}

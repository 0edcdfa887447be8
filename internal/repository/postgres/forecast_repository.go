package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/smartsuschef/backend-go/internal/domain"
)

type forecastRepository struct {
	db *DB
}

func NewForecastRepository(db *DB) *forecastRepository {
	return &forecastRepository{db: db}
}

// ReplaceRange deletes every record of the store whose forecast date falls
// within the min/max span of records, then inserts records, atomically.
// External predictions for a horizon supersede any stale same-range rows.
func (r *forecastRepository) ReplaceRange(ctx context.Context, storeID int64, records []domain.ForecastRecord) error {
	if len(records) == 0 {
		return nil
	}

	minDate, maxDate := records[0].ForecastDate, records[0].ForecastDate
	for _, rec := range records[1:] {
		if rec.ForecastDate.Before(minDate) {
			minDate = rec.ForecastDate
		}
		if rec.ForecastDate.After(maxDate) {
			maxDate = rec.ForecastDate
		}
	}

	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			DELETE FROM forecast_records
			WHERE store_id = $1 AND forecast_date >= $2 AND forecast_date <= $3
		`, storeID, minDate, maxDate)
		if err != nil {
			return fmt.Errorf("failed to clear forecast range: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO forecast_records (
				store_id, recipe_id, forecast_date, predicted_quantity, created_at, updated_at
			) VALUES ($1, $2, $3, $4, NOW(), NOW())
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare forecast insert: %w", err)
		}
		defer stmt.Close()

		for _, rec := range records {
			if _, err := stmt.ExecContext(ctx, storeID, rec.RecipeID, rec.ForecastDate, rec.PredictedQuantity); err != nil {
				return fmt.Errorf("failed to insert forecast record: %w", err)
			}
		}
		return nil
	})
}

// GetCached returns records in [start, end] updated at or after cutoff.
// Rows older than the cutoff are filtered out, not deleted.
func (r *forecastRepository) GetCached(ctx context.Context, storeID int64, start, end, cutoff time.Time) ([]domain.ForecastRecord, error) {
	query := `
		SELECT id, store_id, recipe_id, forecast_date, predicted_quantity, created_at, updated_at
		FROM forecast_records
		WHERE store_id = $1
		  AND forecast_date >= $2 AND forecast_date <= $3
		  AND updated_at >= $4
		ORDER BY forecast_date ASC, recipe_id ASC
	`

	var records []domain.ForecastRecord
	if err := sqlx.SelectContext(ctx, r.db, &records, query, storeID, start, end, cutoff); err != nil {
		return nil, fmt.Errorf("failed to get cached forecasts: %w", err)
	}
	return records, nil
}

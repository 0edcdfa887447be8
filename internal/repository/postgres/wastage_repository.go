package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/smartsuschef/backend-go/internal/domain"
)

type wastageRepository struct {
	db *DB
}

func NewWastageRepository(db *DB) *wastageRepository {
	return &wastageRepository{db: db}
}

func (r *wastageRepository) GetRange(ctx context.Context, storeID int64, start, end time.Time) ([]domain.WastageData, error) {
	var rows []domain.WastageData
	err := sqlx.SelectContext(ctx, r.db, &rows, `
		SELECT w.id, w.store_id, w.ingredient_id, i.name AS ingredient_name, i.unit,
		       w.date, w.quantity, w.created_at, w.updated_at
		FROM wastage_data w
		JOIN ingredients i ON i.id = w.ingredient_id
		WHERE w.store_id = $1 AND w.date >= $2 AND w.date <= $3
		ORDER BY w.date ASC
	`, storeID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list wastage: %w", err)
	}
	return rows, nil
}

func (r *wastageRepository) GetByID(ctx context.Context, storeID, id int64) (*domain.WastageData, error) {
	var row domain.WastageData
	err := sqlx.GetContext(ctx, r.db, &row, `
		SELECT w.id, w.store_id, w.ingredient_id, i.name AS ingredient_name, i.unit,
		       w.date, w.quantity, w.created_at, w.updated_at
		FROM wastage_data w
		JOIN ingredients i ON i.id = w.ingredient_id
		WHERE w.store_id = $1 AND w.id = $2
	`, storeID, id)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get wastage record: %w", err)
	}
	return &row, nil
}

func (r *wastageRepository) Create(ctx context.Context, w *domain.WastageData) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO wastage_data (store_id, ingredient_id, date, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING id
	`, w.StoreID, w.IngredientID, w.Date, w.Quantity).Scan(&w.ID)
	if err != nil {
		return fmt.Errorf("failed to insert wastage record: %w", err)
	}
	return nil
}

func (r *wastageRepository) Update(ctx context.Context, w *domain.WastageData) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE wastage_data
		SET ingredient_id = $1, date = $2, quantity = $3, updated_at = NOW()
		WHERE store_id = $4 AND id = $5
	`, w.IngredientID, w.Date, w.Quantity, w.StoreID, w.ID)
	if err != nil {
		return fmt.Errorf("failed to update wastage record: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *wastageRepository) Delete(ctx context.Context, storeID, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM wastage_data WHERE store_id = $1 AND id = $2`, storeID, id)
	if err != nil {
		return fmt.Errorf("failed to delete wastage record: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

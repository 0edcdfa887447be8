package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/smartsuschef/backend-go/internal/domain"
)

type salesRepository struct {
	db *DB
}

func NewSalesRepository(db *DB) *salesRepository {
	return &salesRepository{db: db}
}

func (r *salesRepository) GetRange(ctx context.Context, storeID int64, start, end time.Time) ([]domain.SalesData, error) {
	var rows []domain.SalesData
	err := sqlx.SelectContext(ctx, r.db, &rows, `
		SELECT s.id, s.store_id, s.recipe_id, r.name AS recipe_name,
		       s.date, s.quantity, s.created_at, s.updated_at
		FROM sales_data s
		JOIN recipes r ON r.id = s.recipe_id
		WHERE s.store_id = $1 AND s.date >= $2 AND s.date <= $3
		ORDER BY s.date ASC
	`, storeID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}
	return rows, nil
}

func (r *salesRepository) GetByID(ctx context.Context, storeID, id int64) (*domain.SalesData, error) {
	var row domain.SalesData
	err := sqlx.GetContext(ctx, r.db, &row, `
		SELECT s.id, s.store_id, s.recipe_id, r.name AS recipe_name,
		       s.date, s.quantity, s.created_at, s.updated_at
		FROM sales_data s
		JOIN recipes r ON r.id = s.recipe_id
		WHERE s.store_id = $1 AND s.id = $2
	`, storeID, id)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get sales record: %w", err)
	}
	return &row, nil
}

func (r *salesRepository) Create(ctx context.Context, s *domain.SalesData) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO sales_data (store_id, recipe_id, date, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING id
	`, s.StoreID, s.RecipeID, s.Date, s.Quantity).Scan(&s.ID)
	if err != nil {
		return fmt.Errorf("failed to insert sales record: %w", err)
	}
	return nil
}

func (r *salesRepository) CreateBatch(ctx context.Context, rows []domain.SalesData) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO sales_data (store_id, recipe_id, date, quantity, created_at, updated_at)
			VALUES ($1, $2, $3, $4, NOW(), NOW())
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare sales insert: %w", err)
		}
		defer stmt.Close()

		for _, s := range rows {
			if _, err := stmt.ExecContext(ctx, s.StoreID, s.RecipeID, s.Date, s.Quantity); err != nil {
				return fmt.Errorf("failed to insert sales record: %w", err)
			}
		}
		return nil
	})
}

func (r *salesRepository) Update(ctx context.Context, s *domain.SalesData) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE sales_data
		SET recipe_id = $1, date = $2, quantity = $3, updated_at = NOW()
		WHERE store_id = $4 AND id = $5
	`, s.RecipeID, s.Date, s.Quantity, s.StoreID, s.ID)
	if err != nil {
		return fmt.Errorf("failed to update sales record: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *salesRepository) Delete(ctx context.Context, storeID, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sales_data WHERE store_id = $1 AND id = $2`, storeID, id)
	if err != nil {
		return fmt.Errorf("failed to delete sales record: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

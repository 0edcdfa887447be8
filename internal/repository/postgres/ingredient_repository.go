package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/smartsuschef/backend-go/internal/domain"
)

type ingredientRepository struct {
	db *DB
}

func NewIngredientRepository(db *DB) *ingredientRepository {
	return &ingredientRepository{db: db}
}

func (r *ingredientRepository) GetAll(ctx context.Context, storeID int64) ([]domain.Ingredient, error) {
	var ingredients []domain.Ingredient
	err := sqlx.SelectContext(ctx, r.db, &ingredients, `
		SELECT id, store_id, name, unit, carbon_footprint, created_at, updated_at
		FROM ingredients
		WHERE store_id = $1
		ORDER BY name
	`, storeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}
	return ingredients, nil
}

func (r *ingredientRepository) GetByID(ctx context.Context, storeID, id int64) (*domain.Ingredient, error) {
	var ing domain.Ingredient
	err := sqlx.GetContext(ctx, r.db, &ing, `
		SELECT id, store_id, name, unit, carbon_footprint, created_at, updated_at
		FROM ingredients
		WHERE store_id = $1 AND id = $2
	`, storeID, id)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ingredient: %w", err)
	}
	return &ing, nil
}

func (r *ingredientRepository) ExistsByName(ctx context.Context, storeID int64, name string, excludeID int64) (bool, error) {
	var exists bool
	err := sqlx.GetContext(ctx, r.db, &exists, `
		SELECT EXISTS (
			SELECT 1 FROM ingredients
			WHERE store_id = $1 AND LOWER(name) = LOWER($2) AND id <> $3
		)
	`, storeID, name, excludeID)
	if err != nil {
		return false, fmt.Errorf("failed to check ingredient name: %w", err)
	}
	return exists, nil
}

func (r *ingredientRepository) Create(ctx context.Context, ing *domain.Ingredient) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO ingredients (store_id, name, unit, carbon_footprint, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING id
	`, ing.StoreID, ing.Name, ing.Unit, ing.CarbonFootprint).Scan(&ing.ID)
	if err != nil {
		return fmt.Errorf("failed to insert ingredient: %w", err)
	}
	return nil
}

func (r *ingredientRepository) Update(ctx context.Context, ing *domain.Ingredient) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE ingredients
		SET name = $1, unit = $2, carbon_footprint = $3, updated_at = NOW()
		WHERE store_id = $4 AND id = $5
	`, ing.Name, ing.Unit, ing.CarbonFootprint, ing.StoreID, ing.ID)
	if err != nil {
		return fmt.Errorf("failed to update ingredient: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ingredientRepository) Delete(ctx context.Context, storeID, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM ingredients WHERE store_id = $1 AND id = $2`, storeID, id)
	if err != nil {
		return fmt.Errorf("failed to delete ingredient: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ingredientRepository) InUse(ctx context.Context, storeID, id int64) (bool, error) {
	var inUse bool
	err := sqlx.GetContext(ctx, r.db, &inUse, `
		SELECT EXISTS (
			SELECT 1
			FROM recipe_components c
			JOIN recipes r ON r.id = c.recipe_id
			WHERE r.store_id = $1 AND c.ingredient_id = $2
		)
	`, storeID, id)
	if err != nil {
		return false, fmt.Errorf("failed to check ingredient usage: %w", err)
	}
	return inUse, nil
}

package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/smartsuschef/backend-go/internal/domain"
)

type recipeRepository struct {
	db *DB
}

func NewRecipeRepository(db *DB) *recipeRepository {
	return &recipeRepository{db: db}
}

func (r *recipeRepository) GetAllWithComponents(ctx context.Context, storeID int64) ([]domain.Recipe, error) {
	var recipes []domain.Recipe
	err := sqlx.SelectContext(ctx, r.db, &recipes, `
		SELECT id, store_id, name, sellable, is_sub_recipe, created_at, updated_at
		FROM recipes
		WHERE store_id = $1
		ORDER BY name
	`, storeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	if len(recipes) == 0 {
		return recipes, nil
	}

	var components []domain.RecipeComponent
	err = sqlx.SelectContext(ctx, r.db, &components, `
		SELECT c.id, c.recipe_id, c.ingredient_id, c.child_recipe_id, c.quantity, c.position
		FROM recipe_components c
		JOIN recipes r ON r.id = c.recipe_id
		WHERE r.store_id = $1
		ORDER BY c.recipe_id, c.position
	`, storeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipe components: %w", err)
	}

	byRecipe := make(map[int64][]domain.RecipeComponent, len(recipes))
	for _, c := range components {
		byRecipe[c.RecipeID] = append(byRecipe[c.RecipeID], c)
	}
	for i := range recipes {
		recipes[i].Components = byRecipe[recipes[i].ID]
	}
	return recipes, nil
}

func (r *recipeRepository) GetByID(ctx context.Context, storeID, id int64) (*domain.Recipe, error) {
	var recipe domain.Recipe
	err := sqlx.GetContext(ctx, r.db, &recipe, `
		SELECT id, store_id, name, sellable, is_sub_recipe, created_at, updated_at
		FROM recipes
		WHERE store_id = $1 AND id = $2
	`, storeID, id)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}

	err = sqlx.SelectContext(ctx, r.db, &recipe.Components, `
		SELECT id, recipe_id, ingredient_id, child_recipe_id, quantity, position
		FROM recipe_components
		WHERE recipe_id = $1
		ORDER BY position
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get recipe components: %w", err)
	}
	return &recipe, nil
}

func (r *recipeRepository) ExistsByName(ctx context.Context, storeID int64, name string, excludeID int64) (bool, error) {
	var exists bool
	err := sqlx.GetContext(ctx, r.db, &exists, `
		SELECT EXISTS (
			SELECT 1 FROM recipes
			WHERE store_id = $1 AND LOWER(name) = LOWER($2) AND id <> $3
		)
	`, storeID, name, excludeID)
	if err != nil {
		return false, fmt.Errorf("failed to check recipe name: %w", err)
	}
	return exists, nil
}

func (r *recipeRepository) Create(ctx context.Context, recipe *domain.Recipe) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `
			INSERT INTO recipes (store_id, name, sellable, is_sub_recipe, created_at, updated_at)
			VALUES ($1, $2, $3, $4, NOW(), NOW())
			RETURNING id
		`, recipe.StoreID, recipe.Name, recipe.Sellable, recipe.IsSubRecipe).Scan(&recipe.ID)
		if err != nil {
			return fmt.Errorf("failed to insert recipe: %w", err)
		}
		return insertComponents(ctx, tx, recipe.ID, recipe.Components)
	})
}

func (r *recipeRepository) Update(ctx context.Context, recipe *domain.Recipe) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE recipes
			SET name = $1, sellable = $2, is_sub_recipe = $3, updated_at = NOW()
			WHERE store_id = $4 AND id = $5
		`, recipe.Name, recipe.Sellable, recipe.IsSubRecipe, recipe.StoreID, recipe.ID)
		if err != nil {
			return fmt.Errorf("failed to update recipe: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return domain.ErrNotFound
		}

		// Components are replaced wholesale on update.
		if _, err := tx.ExecContext(ctx, `DELETE FROM recipe_components WHERE recipe_id = $1`, recipe.ID); err != nil {
			return fmt.Errorf("failed to clear recipe components: %w", err)
		}
		return insertComponents(ctx, tx, recipe.ID, recipe.Components)
	})
}

func (r *recipeRepository) Delete(ctx context.Context, storeID, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM recipes WHERE store_id = $1 AND id = $2`, storeID, id)
	if err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *recipeRepository) ReferencedAsChild(ctx context.Context, storeID, id int64) (bool, error) {
	var referenced bool
	err := sqlx.GetContext(ctx, r.db, &referenced, `
		SELECT EXISTS (
			SELECT 1
			FROM recipe_components c
			JOIN recipes parent ON parent.id = c.recipe_id
			WHERE parent.store_id = $1 AND c.child_recipe_id = $2
		)
	`, storeID, id)
	if err != nil {
		return false, fmt.Errorf("failed to check recipe references: %w", err)
	}
	return referenced, nil
}

func insertComponents(ctx context.Context, tx *sql.Tx, recipeID int64, components []domain.RecipeComponent) error {
	if len(components) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO recipe_components (recipe_id, ingredient_id, child_recipe_id, quantity, position)
		VALUES ($1, $2, $3, $4, $5)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare component insert: %w", err)
	}
	defer stmt.Close()

	for i, c := range components {
		if _, err := stmt.ExecContext(ctx, recipeID, c.IngredientID, c.ChildRecipeID, c.Quantity, i); err != nil {
			return fmt.Errorf("failed to insert recipe component: %w", err)
		}
	}
	return nil
}

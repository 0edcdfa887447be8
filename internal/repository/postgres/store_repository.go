package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/smartsuschef/backend-go/internal/domain"
)

type storeRepository struct {
	db *DB
}

func NewStoreRepository(db *DB) *storeRepository {
	return &storeRepository{db: db}
}

func (r *storeRepository) GetByID(ctx context.Context, storeID int64) (*domain.Store, error) {
	var store domain.Store
	err := sqlx.GetContext(ctx, r.db, &store, `
		SELECT id, name, latitude, longitude, country_code, created_at, updated_at
		FROM stores
		WHERE id = $1
	`, storeID)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get store: %w", err)
	}
	return &store, nil
}

// Create registers an empty store; the profile is filled in later via setup.
func (r *storeRepository) Create(ctx context.Context) (*domain.Store, error) {
	var store domain.Store
	err := sqlx.GetContext(ctx, r.db, &store, `
		INSERT INTO stores (name, latitude, longitude, country_code, created_at, updated_at)
		VALUES ('', 0, 0, '', NOW(), NOW())
		RETURNING id, name, latitude, longitude, country_code, created_at, updated_at
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to create store: %w", err)
	}
	return &store, nil
}

func (r *storeRepository) UpdateProfile(ctx context.Context, store *domain.Store) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE stores
		SET name = $1, latitude = $2, longitude = $3, country_code = $4, updated_at = NOW()
		WHERE id = $5
	`, store.Name, store.Latitude, store.Longitude, store.CountryCode, store.ID)
	if err != nil {
		return fmt.Errorf("failed to update store: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

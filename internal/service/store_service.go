package service

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/smartsuschef/backend-go/internal/domain"
	"github.com/smartsuschef/backend-go/internal/repository"
)

var (
	maxLatitude  = decimal.NewFromInt(90)
	maxLongitude = decimal.NewFromInt(180)
)

type StoreService struct {
	stores repository.StoreRepository
}

func NewStoreService(stores repository.StoreRepository) *StoreService {
	return &StoreService{stores: stores}
}

func (s *StoreService) GetStore(ctx context.Context, storeID int64) (*domain.Store, error) {
	return s.stores.GetByID(ctx, storeID)
}

// RegisterStore creates a new store with an empty profile. Setup completes
// the profile later.
func (s *StoreService) RegisterStore(ctx context.Context) (*domain.Store, error) {
	return s.stores.Create(ctx)
}

// SetupStore fills in the store profile.
func (s *StoreService) SetupStore(ctx context.Context, storeID int64, input *domain.Store) (*domain.Store, error) {
	store, err := s.stores.GetByID(ctx, storeID)
	if err != nil {
		return nil, err
	}

	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return nil, domain.Validationf("store name is required")
	}
	if input.Latitude.Abs().GreaterThan(maxLatitude) {
		return nil, domain.Validationf("latitude must be between -90 and 90")
	}
	if input.Longitude.Abs().GreaterThan(maxLongitude) {
		return nil, domain.Validationf("longitude must be between -180 and 180")
	}
	input.CountryCode = strings.ToUpper(strings.TrimSpace(input.CountryCode))
	if input.CountryCode != "" && len(input.CountryCode) != 2 {
		return nil, domain.Validationf("country code must be a two-letter ISO code")
	}

	store.Name = input.Name
	store.Latitude = input.Latitude
	store.Longitude = input.Longitude
	store.CountryCode = input.CountryCode
	if err := s.stores.UpdateProfile(ctx, store); err != nil {
		return nil, err
	}
	return store, nil
}

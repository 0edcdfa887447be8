package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/smartsuschef/backend-go/internal/config"
	"github.com/smartsuschef/backend-go/internal/domain"
)

const (
	holidayKeyPrefix = "signals:holidays"
	weatherKeyPrefix = "signals:weather"

	// Current weather goes stale fast; holiday calendars do not.
	weatherTTL = 15 * time.Minute
)

// SignalCache memoizes the external holiday and weather lookups so trend and
// dashboard reads don't hammer the public APIs.
type SignalCache interface {
	GetHolidays(ctx context.Context, countryCode string, year int) ([]domain.Holiday, bool, error)
	SetHolidays(ctx context.Context, countryCode string, year int, holidays []domain.Holiday) error
	GetWeather(ctx context.Context, storeID int64) (*domain.Weather, bool, error)
	SetWeather(ctx context.Context, storeID int64, weather *domain.Weather) error
}

type redisSignalCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopSignalCache struct{}

func NewSignalCache(cfg config.CacheConfig) (SignalCache, error) {
	if !cfg.Enabled {
		return &noopSignalCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisSignalCache{client: client, ttl: ttl}, nil
}

func NewNoopSignalCache() SignalCache {
	return &noopSignalCache{}
}

func (c *redisSignalCache) GetHolidays(ctx context.Context, countryCode string, year int) ([]domain.Holiday, bool, error) {
	payload, err := c.client.Get(ctx, holidayKey(countryCode, year)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var holidays []domain.Holiday
	if err := json.Unmarshal(payload, &holidays); err != nil {
		return nil, false, fmt.Errorf("decode holiday cache: %w", err)
	}
	return holidays, true, nil
}

func (c *redisSignalCache) SetHolidays(ctx context.Context, countryCode string, year int, holidays []domain.Holiday) error {
	payload, err := json.Marshal(holidays)
	if err != nil {
		return fmt.Errorf("encode holiday cache: %w", err)
	}
	if err := c.client.Set(ctx, holidayKey(countryCode, year), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisSignalCache) GetWeather(ctx context.Context, storeID int64) (*domain.Weather, bool, error) {
	payload, err := c.client.Get(ctx, weatherKey(storeID)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var weather domain.Weather
	if err := json.Unmarshal(payload, &weather); err != nil {
		return nil, false, fmt.Errorf("decode weather cache: %w", err)
	}
	return &weather, true, nil
}

func (c *redisSignalCache) SetWeather(ctx context.Context, storeID int64, weather *domain.Weather) error {
	payload, err := json.Marshal(weather)
	if err != nil {
		return fmt.Errorf("encode weather cache: %w", err)
	}
	if err := c.client.Set(ctx, weatherKey(storeID), payload, weatherTTL).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (n *noopSignalCache) GetHolidays(ctx context.Context, countryCode string, year int) ([]domain.Holiday, bool, error) {
	return nil, false, nil
}

func (n *noopSignalCache) SetHolidays(ctx context.Context, countryCode string, year int, holidays []domain.Holiday) error {
	return nil
}

func (n *noopSignalCache) GetWeather(ctx context.Context, storeID int64) (*domain.Weather, bool, error) {
	return nil, false, nil
}

func (n *noopSignalCache) SetWeather(ctx context.Context, storeID int64, weather *domain.Weather) error {
	return nil
}

func holidayKey(countryCode string, year int) string {
	country := strings.ToUpper(strings.TrimSpace(countryCode))
	if country == "" {
		country = "SG"
	}
	return fmt.Sprintf("%s:%s:%d", holidayKeyPrefix, country, year)
}

func weatherKey(storeID int64) string {
	return fmt.Sprintf("%s:%d", weatherKeyPrefix, storeID)
}

package repository

import (
	"context"
	"time"

	"github.com/route-planner/internal/domain"
)

// GeocodeCacheRepository хранит результаты геокодирования по нормализованному адресу
type GeocodeCacheRepository interface {
	// GetGeocode returns nil, nil on a miss.
	GetGeocode(ctx context.Context, address string) (*domain.GeoPoint, error)

	// GetGeocodeMany returns only the addresses that were found.
	GetGeocodeMany(ctx context.Context, addresses []string) (map[string]domain.GeoPoint, error)

	SetGeocode(ctx context.Context, address string, point domain.GeoPoint) error
}

// CacheRepository определяет методы для работы с кешем
type CacheRepository interface {
	GeocodeCacheRepository

	// Get получает значение из кеша по ключу
	Get(ctx context.Context, key string) ([]byte, error)

	// Set сохраняет значение в кеше с TTL
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/route-planner/internal/domain"
	"github.com/route-planner/internal/domain/repository"
	"go.uber.org/zap"
)

const geocodeKeyPrefix = "geocode:"

type cacheRepository struct {
	client     *redis.Client
	logger     *zap.Logger
	geocodeTTL time.Duration
}

func NewCacheRepository(redis *Redis, geocodeTTL time.Duration) repository.CacheRepository {
	return newCacheRepository(redis.Client(), redis.logger, geocodeTTL)
}

func newCacheRepository(client *redis.Client, logger *zap.Logger, geocodeTTL time.Duration) *cacheRepository {
	return &cacheRepository{
		client:     client,
		logger:     logger,
		geocodeTTL: geocodeTTL,
	}
}

func (r *cacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil // Cache miss
	}
	if err != nil {
		r.logger.Error("Failed to get from cache", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("cache get error: %w", err)
	}

	r.logger.Debug("Cache hit", zap.String("key", key))
	return val, nil
}

func (r *cacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	err := r.client.Set(ctx, key, value, ttl).Err()
	if err != nil {
		r.logger.Error("Failed to set cache", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("cache set error: %w", err)
	}

	r.logger.Debug("Cache set", zap.String("key", key), zap.Duration("ttl", ttl))
	return nil
}

// GetGeocode получает координаты адреса из кеша
func (r *cacheRepository) GetGeocode(ctx context.Context, address string) (*domain.GeoPoint, error) {
	data, err := r.Get(ctx, geocodeKeyPrefix+address)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil // Cache miss
	}

	var point domain.GeoPoint
	if err := json.Unmarshal(data, &point); err != nil {
		r.logger.Error("Failed to unmarshal geocode from cache", zap.String("address", address), zap.Error(err))
		return nil, fmt.Errorf("unmarshal geocode: %w", err)
	}

	return &point, nil
}

// GetGeocodeMany - пакетное чтение из кеша через MGET
func (r *cacheRepository) GetGeocodeMany(ctx context.Context, addresses []string) (map[string]domain.GeoPoint, error) {
	out := make(map[string]domain.GeoPoint, len(addresses))
	if len(addresses) == 0 {
		return out, nil
	}

	keys := make([]string, len(addresses))
	for i, a := range addresses {
		keys[i] = geocodeKeyPrefix + a
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		r.logger.Error("Failed to mget from cache", zap.Int("keys", len(keys)), zap.Error(err))
		return nil, fmt.Errorf("cache mget error: %w", err)
	}

	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue // miss
		}
		var point domain.GeoPoint
		if err := json.Unmarshal([]byte(raw), &point); err != nil {
			r.logger.Warn("Skipping corrupt geocode cache entry", zap.String("key", keys[i]), zap.Error(err))
			continue
		}
		out[addresses[i]] = point
	}

	return out, nil
}

// SetGeocode сохраняет координаты адреса в кеше
func (r *cacheRepository) SetGeocode(ctx context.Context, address string, point domain.GeoPoint) error {
	data, err := json.Marshal(point)
	if err != nil {
		return fmt.Errorf("marshal geocode: %w", err)
	}

	return r.Set(ctx, geocodeKeyPrefix+address, data, r.geocodeTTL)
}

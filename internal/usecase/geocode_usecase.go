package usecase

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/route-planner/internal/domain"
	"github.com/route-planner/internal/domain/repository"
	"github.com/route-planner/internal/pkg/errors"
)

// GeocodeAdapter - преобразование текстового адреса в координаты
type GeocodeAdapter struct {
	geocodeRepo repository.GeocodeRepository
	cacheRepo   repository.GeocodeCacheRepository
	logger      *zap.Logger
}

// NewGeocodeAdapter - cacheRepo may be nil.
func NewGeocodeAdapter(
	geocodeRepo repository.GeocodeRepository,
	cacheRepo repository.GeocodeCacheRepository,
	logger *zap.Logger,
) *GeocodeAdapter {
	return &GeocodeAdapter{
		geocodeRepo: geocodeRepo,
		cacheRepo:   cacheRepo,
		logger:      logger,
	}
}

// Resolve - геокодирование одного адреса, без повторных попыток
func (uc *GeocodeAdapter) Resolve(ctx context.Context, address string) (domain.GeoPoint, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return domain.GeoPoint{}, errors.ErrEmptyAddress
	}

	key := normalizeAddress(address)

	if uc.cacheRepo != nil {
		cached, err := uc.cacheRepo.GetGeocode(ctx, key)
		if err != nil {
			uc.logger.Warn("Geocode cache lookup failed", zap.String("address", key), zap.Error(err))
		} else if cached != nil && cached.Valid() {
			uc.logger.Debug("Geocode cache hit", zap.String("address", key))
			return *cached, nil
		}
	}

	return uc.resolveRemote(ctx, address, key)
}

// ResolveMany resolves every address or fails as a whole. Blank entries are
// rejected before any external call; cached entries are read in one batch.
func (uc *GeocodeAdapter) ResolveMany(ctx context.Context, addresses []string) ([]domain.GeoPoint, error) {
	trimmed := make([]string, len(addresses))
	keys := make([]string, len(addresses))
	for i, a := range addresses {
		trimmed[i] = strings.TrimSpace(a)
		if trimmed[i] == "" {
			return nil, errors.ErrEmptyAddress.WithDetails(map[string]interface{}{"index": i})
		}
		keys[i] = normalizeAddress(trimmed[i])
	}

	resolved := make(map[string]domain.GeoPoint, len(keys))
	if uc.cacheRepo != nil && len(keys) > 0 {
		cached, err := uc.cacheRepo.GetGeocodeMany(ctx, keys)
		if err != nil {
			uc.logger.Warn("Geocode cache batch lookup failed", zap.Int("addresses", len(keys)), zap.Error(err))
		}
		for k, p := range cached {
			if p.Valid() {
				resolved[k] = p
			}
		}
	}

	points := make([]domain.GeoPoint, len(keys))
	for i, key := range keys {
		if p, ok := resolved[key]; ok {
			points[i] = p
			continue
		}

		p, err := uc.resolveRemote(ctx, trimmed[i], key)
		if err != nil {
			return nil, err
		}
		resolved[key] = p
		points[i] = p
	}

	uc.logger.Debug("Batch geocoding finished", zap.Int("addresses", len(points)))
	return points, nil
}

func (uc *GeocodeAdapter) resolveRemote(ctx context.Context, address, key string) (domain.GeoPoint, error) {
	resp, err := uc.geocodeRepo.Geocode(ctx, address)
	if err != nil {
		uc.logger.Error("Geocoding request failed", zap.String("address", address), zap.Error(err))
		return domain.GeoPoint{}, errors.ErrExternalService.WithCause(err)
	}

	if resp == nil || resp.Status != domain.GeocodeStatusOK || resp.Location == nil {
		status := domain.GeocodeStatusError
		if resp != nil {
			status = resp.Status
		}
		uc.logger.Info("Address not resolved",
			zap.String("address", address),
			zap.String("status", string(status)))
		return domain.GeoPoint{}, errors.ErrAddressNotFound.WithDetails(map[string]interface{}{
			"address": address,
			"status":  string(status),
		})
	}

	point := *resp.Location
	if !point.Valid() {
		uc.logger.Error("Geocoder returned out-of-range coordinates",
			zap.String("address", address),
			zap.Float64("lat", point.Lat),
			zap.Float64("lng", point.Lng))
		return domain.GeoPoint{}, errors.ErrExternalService.WithDetails(map[string]interface{}{
			"reason": "coordinates out of range",
		})
	}

	if uc.cacheRepo != nil {
		if err := uc.cacheRepo.SetGeocode(ctx, key, point); err != nil {
			uc.logger.Warn("Failed to cache geocode result", zap.String("address", key), zap.Error(err))
		}
	}

	return point, nil
}

// normalizeAddress lower-cases and collapses whitespace for cache keys.
func normalizeAddress(address string) string {
	return strings.Join(strings.Fields(strings.ToLower(address)), " ")
}

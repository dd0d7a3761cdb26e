package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/route-planner/internal/domain"
	"github.com/route-planner/internal/domain/repository"
)

type geocodeCacheRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
	ttl    time.Duration
}

// geocodeRow - строка таблицы geocode_cache
type geocodeRow struct {
	Address string  `db:"address"`
	Lat     float64 `db:"lat"`
	Lng     float64 `db:"lng"`
}

// NewGeocodeCacheRepository - entries older than ttl are treated as misses.
func NewGeocodeCacheRepository(db *DB, ttl time.Duration) repository.GeocodeCacheRepository {
	return &geocodeCacheRepository{
		db:     db.DB,
		logger: db.logger,
		ttl:    ttl,
	}
}

func (r *geocodeCacheRepository) GetGeocode(ctx context.Context, address string) (*domain.GeoPoint, error) {
	query := `
		SELECT address, lat, lng
		FROM geocode_cache
		WHERE address = $1 AND updated_at > now() - $2::interval
	`

	var row geocodeRow
	err := r.db.GetContext(ctx, &row, query, address, r.interval())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get geocode %q: %w", address, err)
	}

	return &domain.GeoPoint{Lat: row.Lat, Lng: row.Lng}, nil
}

func (r *geocodeCacheRepository) GetGeocodeMany(ctx context.Context, addresses []string) (map[string]domain.GeoPoint, error) {
	result := make(map[string]domain.GeoPoint, len(addresses))
	if len(addresses) == 0 {
		return result, nil
	}

	query := `
		SELECT address, lat, lng
		FROM geocode_cache
		WHERE address = ANY($1::text[]) AND updated_at > now() - $2::interval
	`

	var rows []geocodeRow
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(addresses), r.interval()); err != nil {
		return nil, fmt.Errorf("get geocode batch: %w", err)
	}

	for _, row := range rows {
		result[row.Address] = domain.GeoPoint{Lat: row.Lat, Lng: row.Lng}
	}

	r.logger.Debug("Geocode cache batch read",
		zap.Int("requested", len(addresses)),
		zap.Int("found", len(result)))

	return result, nil
}

func (r *geocodeCacheRepository) SetGeocode(ctx context.Context, address string, point domain.GeoPoint) error {
	query := `
		INSERT INTO geocode_cache (address, lat, lng, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (address) DO UPDATE
		SET lat = EXCLUDED.lat, lng = EXCLUDED.lng, updated_at = EXCLUDED.updated_at
	`

	if _, err := r.db.ExecContext(ctx, query, address, point.Lat, point.Lng); err != nil {
		return fmt.Errorf("set geocode %q: %w", address, err)
	}
	return nil
}

// interval renders ttl as a Postgres interval literal.
func (r *geocodeCacheRepository) interval() string {
	return fmt.Sprintf("%d seconds", int64(r.ttl/time.Second))
}

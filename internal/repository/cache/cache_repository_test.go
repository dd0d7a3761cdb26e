package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/route-planner/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestCacheRepository(t *testing.T, ttl time.Duration) (*cacheRepository, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return newCacheRepository(client, zap.NewNop(), ttl), mr
}

func TestCacheRepository_Geocode(t *testing.T) {
	ctx := context.Background()

	t.Run("miss returns nil without error", func(t *testing.T) {
		repo, _ := newTestCacheRepository(t, time.Hour)

		point, err := repo.GetGeocode(ctx, "law garden")
		require.NoError(t, err)
		assert.Nil(t, point)
	})

	t.Run("round trip with ttl", func(t *testing.T) {
		repo, mr := newTestCacheRepository(t, time.Hour)

		want := domain.GeoPoint{Lat: 23.0262, Lng: 72.557}
		require.NoError(t, repo.SetGeocode(ctx, "law garden", want))

		assert.True(t, mr.Exists("geocode:law garden"))
		assert.Equal(t, time.Hour, mr.TTL("geocode:law garden"))

		got, err := repo.GetGeocode(ctx, "law garden")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, want, *got)
	})

	t.Run("expired entry is a miss", func(t *testing.T) {
		repo, mr := newTestCacheRepository(t, time.Minute)

		require.NoError(t, repo.SetGeocode(ctx, "manek chowk", domain.GeoPoint{Lat: 23.02, Lng: 72.58}))
		mr.FastForward(2 * time.Minute)

		got, err := repo.GetGeocode(ctx, "manek chowk")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("corrupt entry is an error", func(t *testing.T) {
		repo, mr := newTestCacheRepository(t, time.Hour)
		require.NoError(t, mr.Set("geocode:broken", "not-json"))

		_, err := repo.GetGeocode(ctx, "broken")
		assert.Error(t, err)
	})

	t.Run("unavailable redis is an error", func(t *testing.T) {
		repo, mr := newTestCacheRepository(t, time.Hour)
		mr.Close()

		_, err := repo.GetGeocode(ctx, "law garden")
		assert.Error(t, err)
	})
}

func TestCacheRepository_GetGeocodeMany(t *testing.T) {
	ctx := context.Background()
	repo, mr := newTestCacheRepository(t, time.Hour)

	require.NoError(t, repo.SetGeocode(ctx, "law garden", domain.GeoPoint{Lat: 23.0262, Lng: 72.557}))
	require.NoError(t, repo.SetGeocode(ctx, "manek chowk", domain.GeoPoint{Lat: 23.0244, Lng: 72.5883}))
	require.NoError(t, mr.Set("geocode:broken", "{"))

	got, err := repo.GetGeocodeMany(ctx, []string{"law garden", "unknown", "manek chowk", "broken"})
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, 23.0262, got["law garden"].Lat)
	assert.Equal(t, 72.5883, got["manek chowk"].Lng)

	empty, err := repo.GetGeocodeMany(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/route-planner/internal/domain"
	apperrors "github.com/route-planner/internal/pkg/errors"
	"github.com/route-planner/internal/usecase"
)

func TestGeocodeAdapter_Resolve(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()

	t.Run("empty input never reaches the geocoder", func(t *testing.T) {
		mockGeocode := &MockGeocodeRepository{}
		uc := usecase.NewGeocodeAdapter(mockGeocode, nil, logger)

		for _, input := range []string{"", "   ", "\t\n"} {
			_, err := uc.Resolve(ctx, input)
			assert.True(t, errors.Is(err, apperrors.ErrEmptyAddress))
		}
		mockGeocode.AssertNotCalled(t, "Geocode", mock.Anything, mock.Anything)
	})

	t.Run("success", func(t *testing.T) {
		mockGeocode := &MockGeocodeRepository{}
		uc := usecase.NewGeocodeAdapter(mockGeocode, nil, logger)

		mockGeocode.On("Geocode", ctx, "Law Garden, Ahmedabad").Return(&domain.GeocodeResponse{
			Status:   domain.GeocodeStatusOK,
			Location: ptrPoint(23.0262, 72.5570),
		}, nil).Once()

		p, err := uc.Resolve(ctx, "  Law Garden, Ahmedabad ")
		require.NoError(t, err)
		assert.Equal(t, domain.GeoPoint{Lat: 23.0262, Lng: 72.5570}, p)
		mockGeocode.AssertExpectations(t)
	})

	t.Run("zero results is not found", func(t *testing.T) {
		mockGeocode := &MockGeocodeRepository{}
		uc := usecase.NewGeocodeAdapter(mockGeocode, nil, logger)

		mockGeocode.On("Geocode", ctx, "nowhere at all").Return(&domain.GeocodeResponse{
			Status: domain.GeocodeStatusZeroResults,
		}, nil).Once()

		_, err := uc.Resolve(ctx, "nowhere at all")
		assert.True(t, errors.Is(err, apperrors.ErrAddressNotFound))
		mockGeocode.AssertNumberOfCalls(t, "Geocode", 1)
	})

	t.Run("OK without a location is not found", func(t *testing.T) {
		mockGeocode := &MockGeocodeRepository{}
		uc := usecase.NewGeocodeAdapter(mockGeocode, nil, logger)

		mockGeocode.On("Geocode", ctx, "odd").Return(&domain.GeocodeResponse{
			Status: domain.GeocodeStatusOK,
		}, nil).Once()

		_, err := uc.Resolve(ctx, "odd")
		assert.True(t, errors.Is(err, apperrors.ErrAddressNotFound))
	})

	t.Run("transport failure is an external service error, no retry", func(t *testing.T) {
		mockGeocode := &MockGeocodeRepository{}
		uc := usecase.NewGeocodeAdapter(mockGeocode, nil, logger)

		cause := errors.New("connection reset")
		mockGeocode.On("Geocode", ctx, "Manek Chowk").Return(nil, cause).Once()

		_, err := uc.Resolve(ctx, "Manek Chowk")
		assert.True(t, errors.Is(err, apperrors.ErrExternalService))
		assert.True(t, errors.Is(err, cause))
		mockGeocode.AssertNumberOfCalls(t, "Geocode", 1)
	})

	t.Run("out of range response is rejected", func(t *testing.T) {
		mockGeocode := &MockGeocodeRepository{}
		uc := usecase.NewGeocodeAdapter(mockGeocode, nil, logger)

		mockGeocode.On("Geocode", ctx, "broken").Return(&domain.GeocodeResponse{
			Status:   domain.GeocodeStatusOK,
			Location: ptrPoint(123, 72),
		}, nil).Once()

		_, err := uc.Resolve(ctx, "broken")
		assert.True(t, errors.Is(err, apperrors.ErrExternalService))
	})
}

func TestGeocodeAdapter_Cache(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()

	t.Run("cache hit skips the geocoder", func(t *testing.T) {
		mockGeocode := &MockGeocodeRepository{}
		mockCache := &MockGeocodeCacheRepository{}
		uc := usecase.NewGeocodeAdapter(mockGeocode, mockCache, logger)

		mockCache.On("GetGeocode", ctx, "law garden, ahmedabad").Return(ptrPoint(23.0262, 72.557), nil).Once()

		p, err := uc.Resolve(ctx, "Law   Garden,  AHMEDABAD")
		require.NoError(t, err)
		assert.Equal(t, 23.0262, p.Lat)
		mockGeocode.AssertNotCalled(t, "Geocode", mock.Anything, mock.Anything)
		mockCache.AssertExpectations(t)
	})

	t.Run("miss resolves and stores", func(t *testing.T) {
		mockGeocode := &MockGeocodeRepository{}
		mockCache := &MockGeocodeCacheRepository{}
		uc := usecase.NewGeocodeAdapter(mockGeocode, mockCache, logger)

		resolved := domain.GeoPoint{Lat: 23.0258, Lng: 72.5873}
		mockCache.On("GetGeocode", ctx, "manek chowk").Return(nil, nil).Once()
		mockGeocode.On("Geocode", ctx, "Manek Chowk").Return(&domain.GeocodeResponse{
			Status:   domain.GeocodeStatusOK,
			Location: &resolved,
		}, nil).Once()
		mockCache.On("SetGeocode", ctx, "manek chowk", resolved).Return(nil).Once()

		p, err := uc.Resolve(ctx, "Manek Chowk")
		require.NoError(t, err)
		assert.Equal(t, resolved, p)
		mockGeocode.AssertExpectations(t)
		mockCache.AssertExpectations(t)
	})

	t.Run("cache failures do not fail resolution", func(t *testing.T) {
		mockGeocode := &MockGeocodeRepository{}
		mockCache := &MockGeocodeCacheRepository{}
		uc := usecase.NewGeocodeAdapter(mockGeocode, mockCache, logger)

		resolved := domain.GeoPoint{Lat: 23.05, Lng: 72.6}
		mockCache.On("GetGeocode", ctx, "sabarmati").Return(nil, errors.New("redis down")).Once()
		mockGeocode.On("Geocode", ctx, "Sabarmati").Return(&domain.GeocodeResponse{
			Status:   domain.GeocodeStatusOK,
			Location: &resolved,
		}, nil).Once()
		mockCache.On("SetGeocode", ctx, "sabarmati", resolved).Return(errors.New("redis down")).Once()

		p, err := uc.Resolve(ctx, "Sabarmati")
		require.NoError(t, err)
		assert.Equal(t, resolved, p)
	})

	t.Run("not found is not cached", func(t *testing.T) {
		mockGeocode := &MockGeocodeRepository{}
		mockCache := &MockGeocodeCacheRepository{}
		uc := usecase.NewGeocodeAdapter(mockGeocode, mockCache, logger)

		mockCache.On("GetGeocode", ctx, "xyzzy").Return(nil, nil).Once()
		mockGeocode.On("Geocode", ctx, "xyzzy").Return(&domain.GeocodeResponse{
			Status: domain.GeocodeStatusZeroResults,
		}, nil).Once()

		_, err := uc.Resolve(ctx, "xyzzy")
		assert.True(t, errors.Is(err, apperrors.ErrAddressNotFound))
		mockCache.AssertNotCalled(t, "SetGeocode", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestGeocodeAdapter_ResolveMany(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()

	t.Run("blank entry rejects the batch before any call", func(t *testing.T) {
		mockGeocode := &MockGeocodeRepository{}
		mockCache := &MockGeocodeCacheRepository{}
		uc := usecase.NewGeocodeAdapter(mockGeocode, mockCache, logger)

		_, err := uc.ResolveMany(ctx, []string{"Law Garden", " "})
		assert.True(t, errors.Is(err, apperrors.ErrEmptyAddress))
		mockGeocode.AssertNotCalled(t, "Geocode", mock.Anything, mock.Anything)
		mockCache.AssertNotCalled(t, "GetGeocodeMany", mock.Anything, mock.Anything)
	})

	t.Run("mixes cached and remote results in input order", func(t *testing.T) {
		mockGeocode := &MockGeocodeRepository{}
		mockCache := &MockGeocodeCacheRepository{}
		uc := usecase.NewGeocodeAdapter(mockGeocode, mockCache, logger)

		mockCache.On("GetGeocodeMany", ctx, []string{"law garden", "gandhi ashram", "law garden"}).
			Return(map[string]domain.GeoPoint{"law garden": scenarioNear}, nil).Once()
		mockGeocode.On("Geocode", ctx, "Gandhi Ashram").Return(&domain.GeocodeResponse{
			Status: domain.GeocodeStatusOK, Location: &scenarioFar,
		}, nil).Once()
		mockCache.On("SetGeocode", ctx, "gandhi ashram", scenarioFar).Return(nil).Once()

		got, err := uc.ResolveMany(ctx, []string{"Law Garden", "Gandhi Ashram", "law  garden"})
		require.NoError(t, err)
		assert.Equal(t, []domain.GeoPoint{scenarioNear, scenarioFar, scenarioNear}, got)
		mockGeocode.AssertNumberOfCalls(t, "Geocode", 1)
		mockCache.AssertExpectations(t)
	})

	t.Run("first failure fails the batch", func(t *testing.T) {
		mockGeocode := &MockGeocodeRepository{}
		uc := usecase.NewGeocodeAdapter(mockGeocode, nil, logger)

		mockGeocode.On("Geocode", ctx, "Law Garden").Return(&domain.GeocodeResponse{
			Status: domain.GeocodeStatusOK, Location: &scenarioNear,
		}, nil).Once()
		mockGeocode.On("Geocode", ctx, "Atlantis").Return(&domain.GeocodeResponse{
			Status: domain.GeocodeStatusZeroResults,
		}, nil).Once()

		got, err := uc.ResolveMany(ctx, []string{"Law Garden", "Atlantis", "Sabarmati"})
		assert.Nil(t, got)
		assert.True(t, errors.Is(err, apperrors.ErrAddressNotFound))
		mockGeocode.AssertNumberOfCalls(t, "Geocode", 2)
	})
}

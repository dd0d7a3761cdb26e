package usecase_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/route-planner/internal/domain"
)

// MockGeocodeRepository is a mock of GeocodeRepository
type MockGeocodeRepository struct {
	mock.Mock
}

func (m *MockGeocodeRepository) Geocode(ctx context.Context, address string) (*domain.GeocodeResponse, error) {
	args := m.Called(ctx, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GeocodeResponse), args.Error(1)
}

// MockRoutingRepository is a mock of RoutingRepository
type MockRoutingRepository struct {
	mock.Mock
}

func (m *MockRoutingRepository) Route(ctx context.Context, req domain.RouteRequest) (*domain.RouteResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RouteResponse), args.Error(1)
}

// MockGeocodeCacheRepository is a mock of GeocodeCacheRepository
type MockGeocodeCacheRepository struct {
	mock.Mock
}

func (m *MockGeocodeCacheRepository) GetGeocode(ctx context.Context, address string) (*domain.GeoPoint, error) {
	args := m.Called(ctx, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GeoPoint), args.Error(1)
}

func (m *MockGeocodeCacheRepository) GetGeocodeMany(ctx context.Context, addresses []string) (map[string]domain.GeoPoint, error) {
	args := m.Called(ctx, addresses)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.GeoPoint), args.Error(1)
}

func (m *MockGeocodeCacheRepository) SetGeocode(ctx context.Context, address string, point domain.GeoPoint) error {
	args := m.Called(ctx, address, point)
	return args.Error(0)
}

// MockStreamRepository is a mock of StreamRepository
type MockStreamRepository struct {
	mock.Mock
}

func (m *MockStreamRepository) PublishToStream(ctx context.Context, stream string, data interface{}) error {
	args := m.Called(ctx, stream, data)
	return args.Error(0)
}

func ptrPoint(lat, lng float64) *domain.GeoPoint {
	return &domain.GeoPoint{Lat: lat, Lng: lng}
}

// Scenario used throughout: a source in Ahmedabad and three nearby stops.
var (
	scenarioSource = domain.GeoPoint{Lat: 23.0225, Lng: 72.5714}
	scenarioNear   = domain.GeoPoint{Lat: 23.03, Lng: 72.58}
	scenarioMid    = domain.GeoPoint{Lat: 23.01, Lng: 72.55}
	scenarioFar    = domain.GeoPoint{Lat: 23.05, Lng: 72.60}
)

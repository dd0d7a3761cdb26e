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

func newTestRegistry(geocode *MockGeocodeRepository, routing *MockRoutingRepository) *usecase.SessionRegistry {
	logger := zap.NewNop()
	geocoder := usecase.NewGeocodeAdapter(geocode, nil, logger)
	return usecase.NewSessionRegistry(geocoder, routing, nil, usecase.SessionRegistryConfig{
		TravelMode: domain.TravelModeDriving,
	}, logger)
}

func TestPlannerSession_AddressFlow(t *testing.T) {
	ctx := context.Background()
	geocode := &MockGeocodeRepository{}
	routing := &MockRoutingRepository{}
	session := newTestRegistry(geocode, routing).Create()

	geocode.On("Geocode", ctx, "Kankaria Lake").Return(&domain.GeocodeResponse{
		Status: domain.GeocodeStatusOK, Location: &scenarioSource,
	}, nil).Once()
	geocode.On("Geocode", ctx, "Gandhi Ashram").Return(&domain.GeocodeResponse{
		Status: domain.GeocodeStatusOK, Location: &scenarioFar,
	}, nil).Once()
	geocode.On("Geocode", ctx, "Law Garden").Return(&domain.GeocodeResponse{
		Status: domain.GeocodeStatusOK, Location: &scenarioNear,
	}, nil).Once()
	geocode.On("Geocode", ctx, "Atlantis").Return(&domain.GeocodeResponse{
		Status: domain.GeocodeStatusZeroResults,
	}, nil).Once()

	_, err := session.ResolveSource(ctx, "Kankaria Lake")
	require.NoError(t, err)
	_, err = session.AddDestinationAddress(ctx, "Gandhi Ashram")
	require.NoError(t, err)
	_, err = session.AddDestinationAddress(ctx, "Law Garden")
	require.NoError(t, err)

	_, err = session.AddDestinationAddress(ctx, "Atlantis")
	assert.True(t, errors.Is(err, apperrors.ErrAddressNotFound))

	_, err = session.AddDestinationAddress(ctx, "  ")
	assert.True(t, errors.Is(err, apperrors.ErrEmptyAddress))

	view := session.View()
	require.NotNil(t, view.Source)
	assert.Equal(t, scenarioSource, *view.Source)
	require.Len(t, view.Destinations, 2)
	assert.Equal(t, "(23.0300, 72.5800)", view.Destinations[0].Label)
	assert.Equal(t, 0, view.Destinations[0].Index)
	assert.Equal(t, "(23.0500, 72.6000)", view.Destinations[1].Label)
	assert.Nil(t, view.Route)
	geocode.AssertExpectations(t)
}

func TestPlannerSession_DisplayRounding(t *testing.T) {
	session := newTestRegistry(&MockGeocodeRepository{}, &MockRoutingRepository{}).Create()

	require.NoError(t, session.AddDestination(domain.GeoPoint{Lat: 23.030049, Lng: 72.579951}))

	dests := session.Destinations()
	require.Len(t, dests, 1)
	assert.Equal(t, 23.03, dests[0].Lat)
	assert.Equal(t, 72.58, dests[0].Lng)
	assert.Equal(t, "(23.0300, 72.5800)", dests[0].Label)
}

func TestPlannerSession_PlanAndClear(t *testing.T) {
	ctx := context.Background()
	routing := &MockRoutingRepository{}
	session := newTestRegistry(&MockGeocodeRepository{}, routing).Create()

	// nothing to plan yet
	result, err := session.PlanRoute(ctx)
	require.NoError(t, err)
	assert.Nil(t, result)

	require.NoError(t, session.SetSource(scenarioSource))
	require.NoError(t, session.AddDestination(scenarioNear))
	require.NoError(t, session.AddDestination(scenarioMid))
	require.NoError(t, session.AddDestination(scenarioFar))

	routing.On("Route", ctx, mock.Anything).Return(scenarioResponse(), nil).Once()
	result, err = session.PlanRoute(ctx)
	require.NoError(t, err)
	assert.Same(t, result, session.Route())
	assert.Same(t, result, session.View().Route)

	removed, err := session.RemoveDestination(0)
	require.NoError(t, err)
	assert.Equal(t, scenarioNear, removed.Point)
	assert.Nil(t, session.Route())

	session.Clear()
	view := session.View()
	assert.Nil(t, view.Source)
	assert.Empty(t, view.Destinations)
	assert.Nil(t, view.Route)
}

func TestPlannerSession_AddDestinationAddresses(t *testing.T) {
	ctx := context.Background()
	geocode := &MockGeocodeRepository{}
	session := newTestRegistry(geocode, &MockRoutingRepository{}).Create()

	geocode.On("Geocode", ctx, "Law Garden").Return(&domain.GeocodeResponse{
		Status: domain.GeocodeStatusOK, Location: &scenarioNear,
	}, nil)
	geocode.On("Geocode", ctx, "Gandhi Ashram").Return(&domain.GeocodeResponse{
		Status: domain.GeocodeStatusOK, Location: &scenarioFar,
	}, nil)
	geocode.On("Geocode", ctx, "Atlantis").Return(nil, errors.New("timeout"))

	_, err := session.AddDestinationAddresses(ctx, []string{"Law Garden", "Atlantis"})
	assert.True(t, errors.Is(err, apperrors.ErrExternalService))
	assert.Empty(t, session.Destinations())

	added, err := session.AddDestinationAddresses(ctx, []string{"Gandhi Ashram", "Law Garden"})
	require.NoError(t, err)
	assert.Equal(t, []domain.GeoPoint{scenarioFar, scenarioNear}, added)
	assert.Len(t, session.Destinations(), 2)

	// one batch, one version bump
	assert.Equal(t, uint64(1), session.View().Version)
}

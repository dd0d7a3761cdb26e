package repository

import (
	"context"

	"github.com/route-planner/internal/domain"
)

// GeocodeRepository - внешний сервис прямого геокодирования
type GeocodeRepository interface {
	// Geocode resolves free text to at most one location. A response with
	// Status != OK is not an error; transport failures are.
	Geocode(ctx context.Context, address string) (*domain.GeocodeResponse, error)
}

// RoutingRepository - внешний сервис построения и оптимизации маршрутов
type RoutingRepository interface {
	Route(ctx context.Context, req domain.RouteRequest) (*domain.RouteResponse, error)
}

// MapboxRepository определяет методы для работы с Mapbox API
type MapboxRepository interface {
	GeocodeRepository
	RoutingRepository
}

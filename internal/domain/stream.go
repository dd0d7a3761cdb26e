package domain

import (
	"time"

	"github.com/google/uuid"
)

// Stream names
const (
	StreamRoutePlanned = "stream:route:planned"
)

// RoutePlannedEvent - событие о построенном маршруте
type RoutePlannedEvent struct {
	SessionID       uuid.UUID  `json:"session_id"`
	RouteID         uuid.UUID  `json:"route_id"`
	Version         uint64     `json:"version"`
	Source          GeoPoint   `json:"source"`
	Stops           []GeoPoint `json:"stops"`
	TravelMode      TravelMode `json:"travel_mode"`
	DistanceMeters  float64    `json:"distance_meters"`
	DurationSeconds float64    `json:"duration_seconds"`
	PlannedAt       time.Time  `json:"planned_at"`
}

// NewRoutePlannedEvent flattens a result into its stream payload.
func NewRoutePlannedEvent(sessionID uuid.UUID, mode TravelMode, result *RouteResult) RoutePlannedEvent {
	stops := make([]GeoPoint, len(result.Stops))
	for i, s := range result.Stops {
		stops[i] = s.Point
	}

	return RoutePlannedEvent{
		SessionID:       sessionID,
		RouteID:         result.ID,
		Version:         result.Version,
		Source:          result.Source,
		Stops:           stops,
		TravelMode:      mode,
		DistanceMeters:  result.Route.DistanceMeters,
		DurationSeconds: result.Route.DurationSeconds,
		PlannedAt:       result.PlannedAt,
	}
}

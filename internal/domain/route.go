package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TravelMode - способ передвижения для маршрута
type TravelMode string

const (
	TravelModeDriving TravelMode = "DRIVING"
	TravelModeWalking TravelMode = "WALKING"
	TravelModeCycling TravelMode = "CYCLING"
)

// ParseTravelMode maps a config value onto a known mode.
func ParseTravelMode(s string) (TravelMode, error) {
	switch m := TravelMode(s); m {
	case TravelModeDriving, TravelModeWalking, TravelModeCycling:
		return m, nil
	}
	return "", fmt.Errorf("unknown travel mode %q", s)
}

// Waypoint - промежуточная точка маршрута
type Waypoint struct {
	Location GeoPoint `json:"location"`
	Stopover bool     `json:"stopover"`
}

// RouteRequest - запрос к сервису построения маршрута
type RouteRequest struct {
	Origin            GeoPoint   `json:"origin"`
	Destination       GeoPoint   `json:"destination"`
	Waypoints         []Waypoint `json:"waypoints"`
	TravelMode        TravelMode `json:"travel_mode"`
	OptimizeWaypoints bool       `json:"optimize_waypoints"`
}

// RouteLeg - участок маршрута между двумя соседними остановками
type RouteLeg struct {
	DistanceMeters  float64 `json:"distance_meters"`
	DurationSeconds float64 `json:"duration_seconds"`
	Summary         string  `json:"summary,omitempty"`
}

// RouteResponse - ответ сервиса маршрутизации.
// WaypointOrder lists indices into RouteRequest.Waypoints in visiting order.
type RouteResponse struct {
	WaypointOrder   []int           `json:"waypoint_order"`
	Legs            []RouteLeg      `json:"legs"`
	DistanceMeters  float64         `json:"distance_meters"`
	DurationSeconds float64         `json:"duration_seconds"`
	Geometry        json.RawMessage `json:"geometry,omitempty"`
}

// ValidOrder reports whether WaypointOrder is a permutation of 0..n-1.
func (r *RouteResponse) ValidOrder(n int) bool {
	if len(r.WaypointOrder) != n {
		return false
	}
	seen := make([]bool, n)
	for _, idx := range r.WaypointOrder {
		if idx < 0 || idx >= n || seen[idx] {
			return false
		}
		seen[idx] = true
	}
	return true
}

// RouteResult - последний успешно построенный маршрут.
// Version is the LocationStore version the route was computed from.
type RouteResult struct {
	ID        uuid.UUID     `json:"id"`
	Version   uint64        `json:"version"`
	Source    GeoPoint      `json:"source"`
	Stops     []Destination `json:"stops"`
	Route     RouteResponse `json:"route"`
	PlannedAt time.Time     `json:"planned_at"`
}

package domain

import "fmt"

// GeoPoint - географическая точка (градусы WGS84)
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether both components are within WGS84 range.
func (p GeoPoint) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

func (p GeoPoint) String() string {
	return fmt.Sprintf("(%.4f, %.4f)", p.Lat, p.Lng)
}

// Destination - точка назначения с идентичностью, не зависящей от координат.
// Seq is assigned once on insertion and never reused within a store.
type Destination struct {
	Seq   uint64   `json:"seq"`
	Point GeoPoint `json:"point"`
}

// Snapshot - неизменяемая копия состояния LocationStore
type Snapshot struct {
	Source       *GeoPoint     `json:"source,omitempty"`
	Destinations []Destination `json:"destinations"`
	Version      uint64        `json:"version"`
}

// Ready reports whether the snapshot has enough input for a routing request.
func (s Snapshot) Ready() bool {
	return s.Source != nil && len(s.Destinations) > 0
}

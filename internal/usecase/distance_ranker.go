package usecase

import (
	"sort"

	"github.com/route-planner/internal/domain"
	"github.com/route-planner/internal/pkg/utils"
)

// DistanceRanker - упорядочивание точек назначения по удалённости от источника
type DistanceRanker struct{}

func NewDistanceRanker() *DistanceRanker {
	return &DistanceRanker{}
}

// Distance returns the great-circle distance in meters.
func (r *DistanceRanker) Distance(a, b domain.GeoPoint) float64 {
	return utils.HaversineDistance(a.Lat, a.Lng, b.Lat, b.Lng)
}

// Rank returns destinations sorted ascending by distance from source.
// Ties keep insertion order; a nil source yields insertion order.
// The input slice is never modified.
func (r *DistanceRanker) Rank(source *domain.GeoPoint, destinations []domain.Destination) []domain.Destination {
	if source == nil || len(destinations) < 2 {
		out := make([]domain.Destination, len(destinations))
		copy(out, destinations)
		return out
	}

	items := make([]rankedDestination, len(destinations))
	for i, d := range destinations {
		items[i] = rankedDestination{dest: d, distance: r.Distance(*source, d.Point)}
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].distance < items[j].distance
	})

	out := make([]domain.Destination, len(items))
	for i, it := range items {
		out[i] = it.dest
	}
	return out
}

type rankedDestination struct {
	dest     domain.Destination
	distance float64
}

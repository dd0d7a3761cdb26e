package usecase

import (
	"sync"

	"github.com/route-planner/internal/domain"
	"github.com/route-planner/internal/pkg/errors"
)

// LocationStore - источник истины для точки отправления и набора точек назначения.
// Destinations are kept in insertion order; display order is derived on read.
type LocationStore struct {
	mu           sync.Mutex
	ranker       *DistanceRanker
	source       *domain.GeoPoint
	destinations []domain.Destination
	nextSeq      uint64
	version      uint64
	listeners    []func()
}

func NewLocationStore(ranker *DistanceRanker) *LocationStore {
	if ranker == nil {
		ranker = NewDistanceRanker()
	}
	return &LocationStore{
		ranker:       ranker,
		destinations: make([]domain.Destination, 0),
	}
}

// OnChange registers fn to run after every mutation, outside the store lock.
func (s *LocationStore) OnChange(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// SetSource replaces the source point.
func (s *LocationStore) SetSource(p domain.GeoPoint) error {
	if !p.Valid() {
		return errors.ErrInvalidCoordinates.WithDetails(map[string]interface{}{
			"lat": p.Lat,
			"lng": p.Lng,
		})
	}

	s.mutate(func() {
		src := p
		s.source = &src
	})
	return nil
}

// AddDestination appends p. A nil point is ignored.
func (s *LocationStore) AddDestination(p *domain.GeoPoint) error {
	if p == nil {
		return nil
	}
	if !p.Valid() {
		return errors.ErrInvalidCoordinates.WithDetails(map[string]interface{}{
			"lat": p.Lat,
			"lng": p.Lng,
		})
	}

	s.mutate(func() {
		s.nextSeq++
		s.destinations = append(s.destinations, domain.Destination{Seq: s.nextSeq, Point: *p})
	})
	return nil
}

// AddDestinations appends points as one mutation: a single version bump and
// a single notification. Nothing is stored unless every point is valid, and
// an empty batch leaves the store untouched.
func (s *LocationStore) AddDestinations(points []domain.GeoPoint) error {
	if len(points) == 0 {
		return nil
	}
	for i, p := range points {
		if !p.Valid() {
			return errors.ErrInvalidCoordinates.WithDetails(map[string]interface{}{
				"index": i,
				"lat":   p.Lat,
				"lng":   p.Lng,
			})
		}
	}

	s.mutate(func() {
		for _, p := range points {
			s.nextSeq++
			s.destinations = append(s.destinations, domain.Destination{Seq: s.nextSeq, Point: p})
		}
	})
	return nil
}

// RemoveDestination removes the destination shown at displayIndex in the
// distance-ranked view. Out-of-range indices leave the store untouched.
func (s *LocationStore) RemoveDestination(displayIndex int) (domain.Destination, error) {
	s.mu.Lock()
	display := s.ranker.Rank(s.source, s.destinations)
	if displayIndex < 0 || displayIndex >= len(display) {
		s.mu.Unlock()
		return domain.Destination{}, errors.ErrIndexOutOfRange.WithDetails(map[string]interface{}{
			"index": displayIndex,
			"count": len(display),
		})
	}

	target := display[displayIndex]
	kept := make([]domain.Destination, 0, len(s.destinations)-1)
	for _, d := range s.destinations {
		if d.Seq != target.Seq {
			kept = append(kept, d)
		}
	}
	s.destinations = kept
	listeners := s.bump()
	s.mu.Unlock()

	notify(listeners)
	return target, nil
}

// Clear unsets the source and drops all destinations.
func (s *LocationStore) Clear() {
	s.mutate(func() {
		s.source = nil
		s.destinations = make([]domain.Destination, 0)
	})
}

// Snapshot returns an immutable copy of the current state.
func (s *LocationStore) Snapshot() domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := domain.Snapshot{
		Destinations: make([]domain.Destination, len(s.destinations)),
		Version:      s.version,
	}
	copy(snap.Destinations, s.destinations)
	if s.source != nil {
		src := *s.source
		snap.Source = &src
	}
	return snap
}

// Source returns a copy of the source point, or nil if unset.
func (s *LocationStore) Source() *domain.GeoPoint {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.source == nil {
		return nil
	}
	src := *s.source
	return &src
}

// StoredDestinations returns destinations in insertion order.
func (s *LocationStore) StoredDestinations() []domain.Destination {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Destination, len(s.destinations))
	copy(out, s.destinations)
	return out
}

// DisplayDestinations returns destinations ranked by distance from the source.
func (s *LocationStore) DisplayDestinations() []domain.Destination {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ranker.Rank(s.source, s.destinations)
}

func (s *LocationStore) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

func (s *LocationStore) mutate(fn func()) {
	s.mu.Lock()
	fn()
	listeners := s.bump()
	s.mu.Unlock()

	notify(listeners)
}

// bump must be called with mu held.
func (s *LocationStore) bump() []func() {
	s.version++
	listeners := make([]func(), len(s.listeners))
	copy(listeners, s.listeners)
	return listeners
}

func notify(listeners []func()) {
	for _, fn := range listeners {
		fn()
	}
}

package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/route-planner/internal/domain"
	"github.com/route-planner/internal/pkg/utils"
)

// displayPrecision - число знаков после запятой для отображения координат
const displayPrecision = 4

// DisplayDestination - точка назначения в порядке отображения
type DisplayDestination struct {
	Index int     `json:"index"`
	Seq   uint64  `json:"seq"`
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
	Label string  `json:"label"`
}

// SessionView - всё, что нужно слою отображения
type SessionView struct {
	ID           uuid.UUID            `json:"id"`
	Source       *domain.GeoPoint     `json:"source"`
	Destinations []DisplayDestination `json:"destinations"`
	Route        *domain.RouteResult  `json:"route"`
	Version      uint64               `json:"version"`
}

// PlannerSession - сессия планирования одного оператора
type PlannerSession struct {
	id          uuid.UUID
	store       *LocationStore
	coordinator *RouteCoordinator
	geocoder    *GeocodeAdapter
	logger      *zap.Logger

	mu         sync.Mutex
	lastActive time.Time
}

func newPlannerSession(
	id uuid.UUID,
	store *LocationStore,
	coordinator *RouteCoordinator,
	geocoder *GeocodeAdapter,
	logger *zap.Logger,
	now time.Time,
) *PlannerSession {
	return &PlannerSession{
		id:          id,
		store:       store,
		coordinator: coordinator,
		geocoder:    geocoder,
		logger:      logger.With(zap.String("session_id", id.String())),
		lastActive:  now,
	}
}

func (s *PlannerSession) ID() uuid.UUID {
	return s.id
}

// SetSource - установка точки отправления по клику на карте
func (s *PlannerSession) SetSource(p domain.GeoPoint) error {
	return s.store.SetSource(p)
}

// ResolveSource - установка точки отправления по адресу
func (s *PlannerSession) ResolveSource(ctx context.Context, address string) (domain.GeoPoint, error) {
	p, err := s.geocoder.Resolve(ctx, address)
	if err != nil {
		return domain.GeoPoint{}, err
	}
	if err := s.store.SetSource(p); err != nil {
		return domain.GeoPoint{}, err
	}
	s.logger.Debug("Source resolved", zap.String("address", address), zap.Stringer("point", p))
	return p, nil
}

func (s *PlannerSession) AddDestination(p domain.GeoPoint) error {
	return s.store.AddDestination(&p)
}

// AddDestinationAddress geocodes address and appends the result.
// On failure the store is left unchanged.
func (s *PlannerSession) AddDestinationAddress(ctx context.Context, address string) (domain.GeoPoint, error) {
	p, err := s.geocoder.Resolve(ctx, address)
	if err != nil {
		return domain.GeoPoint{}, err
	}
	if err := s.store.AddDestination(&p); err != nil {
		return domain.GeoPoint{}, err
	}
	s.logger.Debug("Destination resolved", zap.String("address", address), zap.Stringer("point", p))
	return p, nil
}

// AddDestinationAddresses resolves all addresses first; the store is only
// touched when every address resolved, and then in a single mutation.
func (s *PlannerSession) AddDestinationAddresses(ctx context.Context, addresses []string) ([]domain.GeoPoint, error) {
	points, err := s.geocoder.ResolveMany(ctx, addresses)
	if err != nil {
		return nil, err
	}
	if err := s.store.AddDestinations(points); err != nil {
		return nil, err
	}
	return points, nil
}

// RemoveDestination - удаление по индексу в порядке отображения
func (s *PlannerSession) RemoveDestination(displayIndex int) (domain.Destination, error) {
	return s.store.RemoveDestination(displayIndex)
}

// Clear resets both the location state and the route.
func (s *PlannerSession) Clear() {
	s.store.Clear()
	s.coordinator.Clear()
}

func (s *PlannerSession) PlanRoute(ctx context.Context) (*domain.RouteResult, error) {
	return s.coordinator.PlanRoute(ctx)
}

func (s *PlannerSession) Route() *domain.RouteResult {
	return s.coordinator.Result()
}

// Destinations returns the display-ordered destinations, rounded for display.
func (s *PlannerSession) Destinations() []DisplayDestination {
	return toDisplay(s.store.DisplayDestinations())
}

// View - состояние сессии для отображения
func (s *PlannerSession) View() SessionView {
	snap := s.store.Snapshot()
	ranked := s.store.ranker.Rank(snap.Source, snap.Destinations)

	return SessionView{
		ID:           s.id,
		Source:       snap.Source,
		Destinations: toDisplay(ranked),
		Route:        s.coordinator.Result(),
		Version:      snap.Version,
	}
}

func (s *PlannerSession) touch(now time.Time) {
	s.mu.Lock()
	s.lastActive = now
	s.mu.Unlock()
}

func (s *PlannerSession) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

func toDisplay(destinations []domain.Destination) []DisplayDestination {
	out := make([]DisplayDestination, len(destinations))
	for i, d := range destinations {
		rounded := domain.GeoPoint{
			Lat: utils.RoundTo(d.Point.Lat, displayPrecision),
			Lng: utils.RoundTo(d.Point.Lng, displayPrecision),
		}
		out[i] = DisplayDestination{
			Index: i,
			Seq:   d.Seq,
			Lat:   rounded.Lat,
			Lng:   rounded.Lng,
			Label: rounded.String(),
		}
	}
	return out
}

package usecase

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/route-planner/internal/domain"
	"github.com/route-planner/internal/domain/repository"
	"github.com/route-planner/internal/pkg/errors"
)

// SessionRegistryConfig - общие параметры для всех сессий
type SessionRegistryConfig struct {
	TravelMode  domain.TravelMode
	EventStream string
}

// SessionRegistry - in-memory реестр сессий планирования
type SessionRegistry struct {
	ranker      *DistanceRanker
	geocoder    *GeocodeAdapter
	routingRepo repository.RoutingRepository
	streamRepo  repository.StreamRepository
	cfg         SessionRegistryConfig
	logger      *zap.Logger
	now         func() time.Time

	mu       sync.RWMutex
	sessions map[uuid.UUID]*PlannerSession
}

// NewSessionRegistry - streamRepo may be nil.
func NewSessionRegistry(
	geocoder *GeocodeAdapter,
	routingRepo repository.RoutingRepository,
	streamRepo repository.StreamRepository,
	cfg SessionRegistryConfig,
	logger *zap.Logger,
) *SessionRegistry {
	return &SessionRegistry{
		ranker:      NewDistanceRanker(),
		geocoder:    geocoder,
		routingRepo: routingRepo,
		streamRepo:  streamRepo,
		cfg:         cfg,
		logger:      logger,
		now:         time.Now,
		sessions:    make(map[uuid.UUID]*PlannerSession),
	}
}

// Create - новая пустая сессия
func (r *SessionRegistry) Create() *PlannerSession {
	id := uuid.New()
	store := NewLocationStore(r.ranker)
	coordinator := NewRouteCoordinator(store, r.routingRepo, r.streamRepo, RouteCoordinatorConfig{
		SessionID:   id,
		TravelMode:  r.cfg.TravelMode,
		EventStream: r.cfg.EventStream,
	}, r.logger)

	session := newPlannerSession(id, store, coordinator, r.geocoder, r.logger, r.now())

	r.mu.Lock()
	r.sessions[id] = session
	r.mu.Unlock()

	r.logger.Info("Planning session created", zap.String("session_id", id.String()))
	return session
}

// Get returns the session and marks it active.
func (r *SessionRegistry) Get(id uuid.UUID) (*PlannerSession, error) {
	r.mu.RLock()
	session, ok := r.sessions[id]
	r.mu.RUnlock()

	if !ok {
		return nil, errors.ErrSessionNotFound.WithDetails(map[string]interface{}{
			"session_id": id.String(),
		})
	}

	session.touch(r.now())
	return session, nil
}

func (r *SessionRegistry) Delete(id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[id]; !ok {
		return errors.ErrSessionNotFound.WithDetails(map[string]interface{}{
			"session_id": id.String(),
		})
	}
	delete(r.sessions, id)

	r.logger.Info("Planning session deleted", zap.String("session_id", id.String()))
	return nil
}

// EvictIdle removes sessions inactive for longer than idleTTL and returns how many were dropped.
func (r *SessionRegistry) EvictIdle(idleTTL time.Duration) int {
	cutoff := r.now().Add(-idleTTL)

	r.mu.Lock()
	defer r.mu.Unlock()

	evicted := 0
	for id, session := range r.sessions {
		if session.LastActive().Before(cutoff) {
			delete(r.sessions, id)
			evicted++
		}
	}

	if evicted > 0 {
		r.logger.Info("Idle planning sessions evicted",
			zap.Int("evicted", evicted),
			zap.Int("remaining", len(r.sessions)))
	}
	return evicted
}

func (r *SessionRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

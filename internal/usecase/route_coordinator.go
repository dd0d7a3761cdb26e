package usecase

import (
	"context"
	stderrors "errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/route-planner/internal/domain"
	"github.com/route-planner/internal/domain/repository"
	"github.com/route-planner/internal/pkg/errors"
)

// RouteCoordinatorConfig - параметры координатора маршрутов
type RouteCoordinatorConfig struct {
	SessionID   uuid.UUID
	TravelMode  domain.TravelMode
	EventStream string
}

// RouteCoordinator - построение маршрута по снимку LocationStore.
// At most one request is in flight; a response is applied only if neither the
// store nor the coordinator changed while it was outstanding.
type RouteCoordinator struct {
	store       *LocationStore
	routingRepo repository.RoutingRepository
	streamRepo  repository.StreamRepository
	cfg         RouteCoordinatorConfig
	logger      *zap.Logger
	now         func() time.Time

	mu         sync.Mutex
	result     *domain.RouteResult
	generation uint64
	inFlight   bool
}

// NewRouteCoordinator binds a coordinator to store and subscribes it to
// store mutations. streamRepo may be nil.
func NewRouteCoordinator(
	store *LocationStore,
	routingRepo repository.RoutingRepository,
	streamRepo repository.StreamRepository,
	cfg RouteCoordinatorConfig,
	logger *zap.Logger,
) *RouteCoordinator {
	if cfg.TravelMode == "" {
		cfg.TravelMode = domain.TravelModeDriving
	}
	if cfg.EventStream == "" {
		cfg.EventStream = domain.StreamRoutePlanned
	}

	c := &RouteCoordinator{
		store:       store,
		routingRepo: routingRepo,
		streamRepo:  streamRepo,
		cfg:         cfg,
		logger:      logger,
		now:         time.Now,
	}
	store.OnChange(c.Invalidate)
	return c
}

// PlanRoute - построить маршрут по текущему состоянию.
// Without a source or destinations it is a no-op returning the current result.
func (c *RouteCoordinator) PlanRoute(ctx context.Context) (*domain.RouteResult, error) {
	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		return nil, errors.ErrRoutePlanningInProgress
	}

	snap := c.store.Snapshot()
	if !snap.Ready() {
		current := c.result
		c.mu.Unlock()
		c.logger.Debug("Route planning skipped, nothing to plan",
			zap.Bool("has_source", snap.Source != nil),
			zap.Int("destinations", len(snap.Destinations)))
		return current, nil
	}

	c.inFlight = true
	generation := c.generation
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.inFlight = false
		c.mu.Unlock()
	}()

	req := c.buildRequest(snap)

	c.logger.Info("Requesting route",
		zap.String("session_id", c.cfg.SessionID.String()),
		zap.Uint64("version", snap.Version),
		zap.Int("waypoints", len(req.Waypoints)))

	resp, err := c.routingRepo.Route(ctx, req)
	if err != nil {
		c.logger.Error("Routing request failed",
			zap.String("session_id", c.cfg.SessionID.String()),
			zap.Error(err))
		return nil, classifyRoutingError(err)
	}

	if resp == nil || !resp.ValidOrder(len(snap.Destinations)) {
		c.logger.Error("Malformed routing response",
			zap.String("session_id", c.cfg.SessionID.String()),
			zap.Int("waypoints", len(snap.Destinations)))
		return nil, errors.ErrExternalService.WithDetails(map[string]interface{}{
			"reason": "malformed waypoint order",
		})
	}

	result := &domain.RouteResult{
		ID:        uuid.New(),
		Version:   snap.Version,
		Source:    *snap.Source,
		Stops:     orderStops(snap.Destinations, resp.WaypointOrder),
		Route:     *resp,
		PlannedAt: c.now().UTC(),
	}

	c.mu.Lock()
	if c.generation != generation || c.store.Version() != snap.Version {
		c.mu.Unlock()
		c.logger.Info("Discarding stale route response",
			zap.String("session_id", c.cfg.SessionID.String()),
			zap.Uint64("snapshot_version", snap.Version))
		return nil, errors.ErrRouteDiscarded
	}
	c.result = result
	c.mu.Unlock()

	c.publish(ctx, result)

	return result, nil
}

// Invalidate drops a stored result computed from an older store version.
// A result planned from the current version survives, so a listener that
// re-plans before the coordinator is notified keeps its route. In-flight
// requests are rejected by the version check in PlanRoute.
func (c *RouteCoordinator) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.result == nil || c.result.Version >= c.store.Version() {
		return
	}
	c.logger.Debug("Route invalidated",
		zap.String("session_id", c.cfg.SessionID.String()),
		zap.Uint64("version", c.result.Version))
	c.result = nil
}

// Clear drops the stored result unconditionally and orphans any in-flight
// request.
func (c *RouteCoordinator) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.generation++
	c.result = nil
}

// Result returns the current route, or nil.
func (c *RouteCoordinator) Result() *domain.RouteResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result
}

func (c *RouteCoordinator) buildRequest(snap domain.Snapshot) domain.RouteRequest {
	waypoints := make([]domain.Waypoint, len(snap.Destinations))
	for i, d := range snap.Destinations {
		waypoints[i] = domain.Waypoint{Location: d.Point, Stopover: true}
	}

	return domain.RouteRequest{
		Origin:            *snap.Source,
		Destination:       *snap.Source,
		Waypoints:         waypoints,
		TravelMode:        c.cfg.TravelMode,
		OptimizeWaypoints: true,
	}
}

func (c *RouteCoordinator) publish(ctx context.Context, result *domain.RouteResult) {
	if c.streamRepo == nil {
		return
	}

	event := domain.NewRoutePlannedEvent(c.cfg.SessionID, c.cfg.TravelMode, result)
	if err := c.streamRepo.PublishToStream(ctx, c.cfg.EventStream, event); err != nil {
		c.logger.Warn("Failed to publish route event",
			zap.String("stream", c.cfg.EventStream),
			zap.String("route_id", result.ID.String()),
			zap.Error(err))
	}
}

func orderStops(destinations []domain.Destination, order []int) []domain.Destination {
	stops := make([]domain.Destination, len(order))
	for i, idx := range order {
		stops[i] = destinations[idx]
	}
	return stops
}

// classifyRoutingError keeps AppErrors from the adapter and wraps the rest.
func classifyRoutingError(err error) error {
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return errors.ErrExternalService.WithCause(err)
}

package session

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/route-planner/internal/worker"
)

// Evictor - реестр, из которого удаляются неактивные сессии
type Evictor interface {
	EvictIdle(idleTTL time.Duration) int
}

// Janitor периодически удаляет сессии, неактивные дольше idleTTL
type Janitor struct {
	*worker.BaseWorker
	registry Evictor
	idleTTL  time.Duration
	interval time.Duration
}

// NewJanitor создает новый Janitor
func NewJanitor(registry Evictor, idleTTL, interval time.Duration, logger *zap.Logger) *Janitor {
	return &Janitor{
		BaseWorker: worker.NewBaseWorker("session-janitor", logger),
		registry:   registry,
		idleTTL:    idleTTL,
		interval:   interval,
	}
}

// Start blocks until ctx is done or Stop is called.
func (j *Janitor) Start(ctx context.Context) error {
	j.Logger().Info("Session janitor started",
		zap.Duration("idle_ttl", j.idleTTL),
		zap.Duration("interval", j.interval))

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			j.Logger().Info("Context cancelled, stopping session janitor")
			return nil
		case <-j.StopChan():
			j.Logger().Info("Stop signal received, stopping session janitor")
			return nil
		case <-ticker.C:
			if evicted := j.registry.EvictIdle(j.idleTTL); evicted > 0 {
				j.Logger().Info("Idle sessions evicted", zap.Int("count", evicted))
			}
		}
	}
}

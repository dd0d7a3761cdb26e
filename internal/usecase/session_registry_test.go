package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/route-planner/internal/domain"
	apperrors "github.com/route-planner/internal/pkg/errors"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newRegistryWithClock(clock *fakeClock) *SessionRegistry {
	r := NewSessionRegistry(nil, nil, nil, SessionRegistryConfig{}, zap.NewNop())
	r.now = clock.Now
	return r
}

func TestSessionRegistry_CreateGetDelete(t *testing.T) {
	r := newRegistryWithClock(&fakeClock{now: time.Unix(1700000000, 0)})

	s := r.Create()
	assert.Equal(t, 1, r.Len())

	got, err := r.Get(s.ID())
	require.NoError(t, err)
	assert.Same(t, s, got)

	_, err = r.Get(uuid.New())
	assert.True(t, errors.Is(err, apperrors.ErrSessionNotFound))

	require.NoError(t, r.Delete(s.ID()))
	assert.Equal(t, 0, r.Len())
	assert.True(t, errors.Is(r.Delete(s.ID()), apperrors.ErrSessionNotFound))
}

func TestSessionRegistry_SessionsAreIsolated(t *testing.T) {
	r := newRegistryWithClock(&fakeClock{now: time.Unix(1700000000, 0)})

	a := r.Create()
	b := r.Create()

	require.NoError(t, a.AddDestination(domain.GeoPoint{Lat: 23.03, Lng: 72.58}))
	assert.Len(t, a.Destinations(), 1)
	assert.Empty(t, b.Destinations())
}

func TestSessionRegistry_EvictIdle(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	r := newRegistryWithClock(clock)

	idle := r.Create()
	clock.Advance(20 * time.Minute)
	active := r.Create()

	clock.Advance(15 * time.Minute)
	// touching refreshes last activity
	_, err := r.Get(active.ID())
	require.NoError(t, err)

	clock.Advance(20 * time.Minute)

	evicted := r.EvictIdle(30 * time.Minute)
	assert.Equal(t, 1, evicted)
	assert.Equal(t, 1, r.Len())

	_, err = r.Get(idle.ID())
	assert.True(t, errors.Is(err, apperrors.ErrSessionNotFound))
	_, err = r.Get(active.ID())
	assert.NoError(t, err)
}

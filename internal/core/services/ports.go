package services

import (
	"context"
	"time"

	"github.com/comitanigiacomo/liftbook/internal/core/aggregate"
	"github.com/comitanigiacomo/liftbook/internal/core/domain"
	"github.com/comitanigiacomo/liftbook/internal/core/session"
)

// ChangeNotifier is told, after the write has been stored, whenever a
// user's lift history changes.
type ChangeNotifier interface {
	LiftsChanged(ctx context.Context, userID string)
}

// RefreshQueue schedules a background summary recomputation.
type RefreshQueue interface {
	Enqueue(userID string)
}

type SessionPublisher interface {
	Publish(e session.Event)
}

// TokenDenylist remembers revoked token IDs until they would have expired.
type TokenDenylist interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// SummaryCache stores the last computed dashboard summary per user.
// Get returns (nil, nil) on a miss.
type SummaryCache interface {
	Get(ctx context.Context, userID string) (*aggregate.Summary, error)
	Set(ctx context.Context, userID string, s *aggregate.Summary) error
	Invalidate(ctx context.Context, userID string) error
}

type noopNotifier struct{}

func (noopNotifier) LiftsChanged(context.Context, string) {}

type noopPublisher struct{}

func (noopPublisher) Publish(session.Event) {}

// Clock returns the current calendar date of the user base.
type Clock func() domain.Date

func LocalClock(loc *time.Location) Clock {
	return func() domain.Date { return domain.Today(loc) }
}

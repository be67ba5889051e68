package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/comitanigiacomo/liftbook/internal/core/aggregate"
	"github.com/comitanigiacomo/liftbook/internal/core/services"
	"github.com/comitanigiacomo/liftbook/internal/core/session"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

var _ services.SummaryCache = (*SummaryCache)(nil)

const DefaultSummaryTTL = 24 * time.Hour

// SummaryCache stores one dashboard summary per user as JSON.
type SummaryCache struct {
	client *redis.Client
	ttl    time.Duration
	log    logrus.FieldLogger
}

func NewSummaryCache(client *redis.Client, ttl time.Duration, log logrus.FieldLogger) *SummaryCache {
	if ttl <= 0 {
		ttl = DefaultSummaryTTL
	}
	return &SummaryCache{
		client: client,
		ttl:    ttl,
		log:    log.WithField("component", "summary_cache"),
	}
}

func summaryKey(userID string) string {
	return fmt.Sprintf("summary:%s", userID)
}

func (c *SummaryCache) Get(ctx context.Context, userID string) (*aggregate.Summary, error) {
	key := summaryKey(userID)

	val, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("summary cache get: %w", err)
	}

	var s aggregate.Summary
	if err := json.Unmarshal(val, &s); err != nil {
		c.log.WithField("user_id", userID).Warn("corrupted summary entry, cleaning up key")
		c.client.Del(ctx, key)
		return nil, nil
	}
	return &s, nil
}

func (c *SummaryCache) Set(ctx context.Context, userID string, s *aggregate.Summary) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("summary cache encode: %w", err)
	}
	if err := c.client.Set(ctx, summaryKey(userID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("summary cache set: %w", err)
	}
	return nil
}

func (c *SummaryCache) Invalidate(ctx context.Context, userID string) error {
	if err := c.client.Del(ctx, summaryKey(userID)).Err(); err != nil {
		return fmt.Errorf("summary cache invalidate: %w", err)
	}
	return nil
}

// Watch drops a user's summary when they sign out. The returned function
// stops watching.
func (c *SummaryCache) Watch(hub *session.Hub) func() {
	return hub.Subscribe(func(e session.Event) {
		if e.Type != session.SignedOut {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := c.Invalidate(ctx, e.UserID); err != nil {
			c.log.WithError(err).WithField("user_id", e.UserID).Warn("failed to drop summary on sign out")
		}
	})
}

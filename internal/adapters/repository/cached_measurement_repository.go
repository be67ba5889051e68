package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/comitanigiacomo/liftbook/internal/core/domain"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

var _ domain.MeasurementRepository = (*CachedMeasurementRepository)(nil)

const (
	measurementCacheTTL = 30 * time.Minute
	// Outlives every entry written under an older generation.
	generationTTL = 24 * time.Hour
)

// CachedMeasurementRepository keeps each user's full history per kind in
// redis. Only unfiltered List calls are served from the cache.
//
// Entries are keyed by a per-user generation that every write bumps, so a
// List that read rows before a write stores them under a generation no
// reader asks for again.
type CachedMeasurementRepository struct {
	next  domain.MeasurementRepository
	cache *redis.Client
	log   logrus.FieldLogger
}

func NewCachedMeasurementRepository(next domain.MeasurementRepository, cache *redis.Client, log logrus.FieldLogger) *CachedMeasurementRepository {
	return &CachedMeasurementRepository{
		next:  next,
		cache: cache,
		log:   log.WithField("component", "measurement_cache"),
	}
}

func (r *CachedMeasurementRepository) generationKey(userID string) string {
	return fmt.Sprintf("measurements:gen:%s", userID)
}

func (r *CachedMeasurementRepository) cacheKey(userID, kind string, gen int64) string {
	return fmt.Sprintf("measurements:%s:%s:%d", kind, userID, gen)
}

// currentKey returns the entry key for the user's current generation.
// ok is false when redis cannot tell which generation is current.
func (r *CachedMeasurementRepository) currentKey(ctx context.Context, userID, kind string) (key string, ok bool) {
	gen, err := r.cache.Get(ctx, r.generationKey(userID)).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		r.log.WithError(err).WithField("user_id", userID).Warn("redis generation read error")
		return "", false
	}
	return r.cacheKey(userID, kind, gen), true
}

func (r *CachedMeasurementRepository) invalidate(ctx context.Context, userID string) {
	pipe := r.cache.TxPipeline()
	pipe.Incr(ctx, r.generationKey(userID))
	pipe.Expire(ctx, r.generationKey(userID), generationTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		r.log.WithError(err).WithField("user_id", userID).Warn("failed to invalidate cache")
	}
}

func (r *CachedMeasurementRepository) List(ctx context.Context, userID, kind string, filter domain.MeasurementFilter) ([]*domain.Measurement, error) {
	if !filter.IsZero() {
		return r.next.List(ctx, userID, kind, filter)
	}

	key, ok := r.currentKey(ctx, userID, kind)
	if !ok {
		return r.next.List(ctx, userID, kind, filter)
	}

	val, err := r.cache.Get(ctx, key).Result()
	if err == nil {
		var ms []*domain.Measurement
		if err := json.Unmarshal([]byte(val), &ms); err == nil {
			return ms, nil
		}

		r.log.WithField("user_id", userID).Warn("corrupted cache entry, cleaning up key")
		r.cache.Del(ctx, key)
	} else if !errors.Is(err, redis.Nil) {
		r.log.WithError(err).Warn("redis read error")
	}

	ms, err := r.next.List(ctx, userID, kind, filter)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(ms); err == nil {
		if setErr := r.cache.Set(ctx, key, data, measurementCacheTTL).Err(); setErr != nil {
			r.log.WithError(setErr).Warn("redis set error")
		}
	}

	return ms, nil
}

func (r *CachedMeasurementRepository) GetByID(ctx context.Context, id string) (*domain.Measurement, error) {
	return r.next.GetByID(ctx, id)
}

func (r *CachedMeasurementRepository) ListSeriesNames(ctx context.Context, userID, kind string) ([]string, error) {
	return r.next.ListSeriesNames(ctx, userID, kind)
}

func (r *CachedMeasurementRepository) Create(ctx context.Context, m *domain.Measurement) error {
	if err := r.next.Create(ctx, m); err != nil {
		return err
	}
	r.invalidate(ctx, m.UserID)
	return nil
}

func (r *CachedMeasurementRepository) CreateBatch(ctx context.Context, ms []*domain.Measurement) error {
	if err := r.next.CreateBatch(ctx, ms); err != nil {
		return err
	}

	seen := make(map[string]bool)
	for _, m := range ms {
		if !seen[m.UserID] {
			seen[m.UserID] = true
			r.invalidate(ctx, m.UserID)
		}
	}
	return nil
}

func (r *CachedMeasurementRepository) Update(ctx context.Context, m *domain.Measurement) error {
	if err := r.next.Update(ctx, m); err != nil {
		return err
	}
	r.invalidate(ctx, m.UserID)
	return nil
}

func (r *CachedMeasurementRepository) Delete(ctx context.Context, id string, userID string) error {
	if err := r.next.Delete(ctx, id, userID); err != nil {
		return err
	}
	r.invalidate(ctx, userID)
	return nil
}

func (r *CachedMeasurementRepository) UpsertByDate(ctx context.Context, m *domain.Measurement) error {
	if err := r.next.UpsertByDate(ctx, m); err != nil {
		return err
	}
	r.invalidate(ctx, m.UserID)
	return nil
}

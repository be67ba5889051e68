package services

import (
	"context"

	"github.com/sirupsen/logrus"
)

// SummaryNotifier keeps the cached dashboard summary in step with lift
// writes. The cached copy is dropped before the write returns, so the next
// Dashboard call recomputes from the stored history even if the queued
// refresh never runs.
type SummaryNotifier struct {
	cache SummaryCache
	queue RefreshQueue
	log   logrus.FieldLogger
}

// NewSummaryNotifier accepts a nil queue; the cache is then only dropped
// and warmed again by the next Dashboard call.
func NewSummaryNotifier(cache SummaryCache, queue RefreshQueue, log logrus.FieldLogger) *SummaryNotifier {
	return &SummaryNotifier{
		cache: cache,
		queue: queue,
		log:   log.WithField("component", "summary_notifier"),
	}
}

func (n *SummaryNotifier) LiftsChanged(ctx context.Context, userID string) {
	if err := n.cache.Invalidate(ctx, userID); err != nil {
		n.log.WithError(err).WithField("user_id", userID).Error("failed to drop cached summary")
	}
	if n.queue != nil {
		n.queue.Enqueue(userID)
	}
}

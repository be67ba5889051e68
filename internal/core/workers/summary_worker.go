package workers

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const summaryQueueSize = 100

// SummaryRefresher recomputes and stores one user's dashboard summary.
type SummaryRefresher interface {
	RefreshSummary(ctx context.Context, userID string) error
}

type SummaryJob struct {
	UserID string
}

// SummaryWorker coalesces bursts of writes per user into a single summary
// recomputation.
type SummaryWorker struct {
	refresher SummaryRefresher
	debouncer *Debouncer
	jobs      chan SummaryJob
	log       logrus.FieldLogger
	done      sync.WaitGroup
}

func NewSummaryWorker(refresher SummaryRefresher, delay time.Duration, log logrus.FieldLogger) *SummaryWorker {
	return &SummaryWorker{
		refresher: refresher,
		debouncer: NewDebouncer(delay),
		jobs:      make(chan SummaryJob, summaryQueueSize),
		log:       log.WithField("worker", "summary"),
	}
}

func (w *SummaryWorker) Start(ctx context.Context) {
	w.done.Add(1)
	go func() {
		defer w.done.Done()
		w.log.Info("summary worker started")
		for {
			select {
			case job := <-w.jobs:
				userID := job.UserID
				w.debouncer.Trigger(userID, func() { w.processJob(ctx, userID) })
			case <-ctx.Done():
				w.debouncer.Stop()
				w.log.Info("summary worker shutting down")
				return
			}
		}
	}()
}

// Enqueue never blocks. When the queue is full the job is dropped; the next
// write for the same user schedules a fresh recomputation anyway.
func (w *SummaryWorker) Enqueue(userID string) {
	select {
	case w.jobs <- SummaryJob{UserID: userID}:
	default:
		w.log.WithField("user_id", userID).Warn("summary queue full, dropping job")
	}
}

// Wait blocks until the worker goroutine has exited after its context was
// cancelled.
func (w *SummaryWorker) Wait() {
	w.done.Wait()
}

func (w *SummaryWorker) processJob(ctx context.Context, userID string) {
	if ctx.Err() != nil {
		return
	}
	start := time.Now()
	if err := w.refresher.RefreshSummary(ctx, userID); err != nil {
		w.log.WithError(err).WithField("user_id", userID).Error("failed to refresh summary")
		return
	}
	w.log.WithFields(logrus.Fields{
		"user_id":  userID,
		"duration": time.Since(start),
	}).Debug("summary refreshed")
}

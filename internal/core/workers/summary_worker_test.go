package workers

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRefresher struct {
	mu    sync.Mutex
	calls map[string]int
	err   error
}

func (r *countingRefresher) RefreshSummary(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.calls == nil {
		r.calls = make(map[string]int)
	}
	r.calls[userID]++
	return r.err
}

func (r *countingRefresher) count(userID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[userID]
}

func TestSummaryWorker(t *testing.T) {
	t.Run("Success: Burst for one user refreshes once", func(t *testing.T) {
		logger, _ := test.NewNullLogger()
		refresher := &countingRefresher{}
		w := NewSummaryWorker(refresher, 20*time.Millisecond, logger)

		ctx, cancel := context.WithCancel(context.Background())
		w.Start(ctx)

		for i := 0; i < 10; i++ {
			w.Enqueue("u1")
		}
		w.Enqueue("u2")

		assert.Eventually(t, func() bool {
			return refresher.count("u1") == 1 && refresher.count("u2") == 1
		}, time.Second, 5*time.Millisecond)

		time.Sleep(50 * time.Millisecond)
		assert.Equal(t, 1, refresher.count("u1"))

		cancel()
		w.Wait()
	})

	t.Run("Fail: Refresh errors are logged", func(t *testing.T) {
		logger, hook := test.NewNullLogger()
		refresher := &countingRefresher{err: errors.New("redis down")}
		w := NewSummaryWorker(refresher, 5*time.Millisecond, logger)

		ctx, cancel := context.WithCancel(context.Background())
		w.Start(ctx)
		w.Enqueue("u1")

		assert.Eventually(t, func() bool {
			for _, e := range hook.AllEntries() {
				if e.Level == logrus.ErrorLevel {
					return true
				}
			}
			return false
		}, time.Second, 5*time.Millisecond)

		cancel()
		w.Wait()
	})

	t.Run("Success: Full queue drops without blocking", func(t *testing.T) {
		logger, hook := test.NewNullLogger()
		w := NewSummaryWorker(&countingRefresher{}, time.Millisecond, logger)

		for i := 0; i < summaryQueueSize+5; i++ {
			w.Enqueue("u1")
		}

		require.NotNil(t, hook.LastEntry())
		assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
		assert.Len(t, w.jobs, summaryQueueSize)
	})

	t.Run("Success: Shutdown cancels pending refreshes", func(t *testing.T) {
		logger, _ := test.NewNullLogger()
		refresher := &countingRefresher{}
		w := NewSummaryWorker(refresher, 200*time.Millisecond, logger)

		ctx, cancel := context.WithCancel(context.Background())
		w.Start(ctx)
		w.Enqueue("u1")
		time.Sleep(20 * time.Millisecond)

		cancel()
		w.Wait()

		time.Sleep(250 * time.Millisecond)
		assert.Zero(t, refresher.count("u1"))
	})
}

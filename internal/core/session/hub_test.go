package session_test

import (
	"sync"
	"testing"

	"github.com/comitanigiacomo/liftbook/internal/core/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub(t *testing.T) {
	t.Run("Success: Delivers in subscription order", func(t *testing.T) {
		hub := session.NewHub()
		var got []string

		hub.Subscribe(func(e session.Event) { got = append(got, "a:"+string(e.Type)) })
		hub.Subscribe(func(e session.Event) { got = append(got, "b:"+e.UserID) })

		hub.Publish(session.Event{Type: session.SignedIn, UserID: "u1"})

		assert.Equal(t, []string{"a:signed_in", "b:u1"}, got)
	})

	t.Run("Success: Unsubscribe stops delivery and is idempotent", func(t *testing.T) {
		hub := session.NewHub()
		calls := 0
		unsubscribe := hub.Subscribe(func(session.Event) { calls++ })

		hub.Publish(session.Event{Type: session.SignedUp, UserID: "u1"})
		unsubscribe()
		unsubscribe()
		hub.Publish(session.Event{Type: session.SignedOut, UserID: "u1"})

		assert.Equal(t, 1, calls)
		assert.Equal(t, 0, hub.Len())
	})

	t.Run("Success: Stamps the event time", func(t *testing.T) {
		hub := session.NewHub()
		var got session.Event
		hub.Subscribe(func(e session.Event) { got = e })

		hub.Publish(session.Event{Type: session.SignedIn, UserID: "u1"})

		assert.False(t, got.At.IsZero())
	})

	t.Run("Success: Closed hub drops events and subscriptions", func(t *testing.T) {
		hub := session.NewHub()
		calls := 0
		hub.Subscribe(func(session.Event) { calls++ })

		hub.Close()
		hub.Publish(session.Event{Type: session.SignedIn})
		hub.Subscribe(func(session.Event) { calls++ })
		hub.Publish(session.Event{Type: session.SignedIn})

		assert.Zero(t, calls)
		assert.Zero(t, hub.Len())
	})

	t.Run("Success: Safe for concurrent use", func(t *testing.T) {
		hub := session.NewHub()
		var mu sync.Mutex
		calls := 0
		hub.Subscribe(func(session.Event) {
			mu.Lock()
			calls++
			mu.Unlock()
		})

		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				unsub := hub.Subscribe(func(session.Event) {})
				hub.Publish(session.Event{Type: session.SignedIn})
				unsub()
			}()
		}
		wg.Wait()

		require.Equal(t, 50, calls)
		assert.Equal(t, 1, hub.Len())
	})
}

// Package session exposes authentication state changes to the rest of the
// process. The hub is created once at startup and injected where needed.
package session

import (
	"sync"
	"time"
)

type EventType string

const (
	SignedUp  EventType = "signed_up"
	SignedIn  EventType = "signed_in"
	SignedOut EventType = "signed_out"
)

type Event struct {
	Type   EventType
	UserID string
	At     time.Time
}

type Listener func(Event)

// Hub is a synchronous publish/subscribe point for session events.
// Listeners run on the publisher's goroutine and must not block.
type Hub struct {
	mu        sync.RWMutex
	nextID    int
	listeners map[int]Listener
	order     []int
	closed    bool
}

func NewHub() *Hub {
	return &Hub{listeners: make(map[int]Listener)}
}

// Subscribe registers fn and returns a function that removes it.
// Calling the returned function more than once is a no-op.
func (h *Hub) Subscribe(fn Listener) (unsubscribe func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return func() {}
	}

	id := h.nextID
	h.nextID++
	h.listeners[id] = fn
	h.order = append(h.order, id)

	var once sync.Once
	return func() {
		once.Do(func() { h.remove(id) })
	}
}

func (h *Hub) remove(id int) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.listeners, id)
	for i, v := range h.order {
		if v == id {
			h.order = append(h.order[:i], h.order[i+1:]...)
			break
		}
	}
}

// Publish delivers e to every listener in subscription order.
// Events published after Close are dropped.
func (h *Hub) Publish(e Event) {
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}

	h.mu.RLock()
	if h.closed {
		h.mu.RUnlock()
		return
	}
	targets := make([]Listener, 0, len(h.order))
	for _, id := range h.order {
		targets = append(targets, h.listeners[id])
	}
	h.mu.RUnlock()

	for _, fn := range targets {
		fn(e)
	}
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.order)
}

// Close drops every listener. The hub cannot be reused.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	h.listeners = make(map[int]Listener)
	h.order = nil
}

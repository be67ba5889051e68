package workers

import (
	"sync"
	"time"
)

const DefaultDebounceDelay = 500 * time.Millisecond

// Debouncer runs a function once a key has been quiet for the delay.
// Every Trigger on a key cancels the pending run and schedules a new one.
type Debouncer struct {
	delay time.Duration

	mu      sync.Mutex
	pending map[string]*pendingRun
	stopped bool
	running sync.WaitGroup
}

type pendingRun struct {
	timer *time.Timer
	gen   uint64
}

func NewDebouncer(delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = DefaultDebounceDelay
	}
	return &Debouncer{
		delay:   delay,
		pending: make(map[string]*pendingRun),
	}
}

// Trigger schedules fn for key, replacing whatever was pending for it.
// It reports false once the debouncer is stopped.
func (d *Debouncer) Trigger(key string, fn func()) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return false
	}

	var gen uint64
	if p, ok := d.pending[key]; ok {
		p.timer.Stop()
		gen = p.gen + 1
	}

	p := &pendingRun{gen: gen}
	p.timer = time.AfterFunc(d.delay, func() { d.fire(key, gen, fn) })
	d.pending[key] = p
	return true
}

func (d *Debouncer) fire(key string, gen uint64, fn func()) {
	d.mu.Lock()
	p, ok := d.pending[key]
	if d.stopped || !ok || p.gen != gen {
		d.mu.Unlock()
		return
	}
	delete(d.pending, key)
	d.running.Add(1)
	d.mu.Unlock()

	defer d.running.Done()
	fn()
}

// Cancel drops the pending run for key, if any.
func (d *Debouncer) Cancel(key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	p, ok := d.pending[key]
	if !ok {
		return false
	}
	p.timer.Stop()
	delete(d.pending, key)
	return true
}

func (d *Debouncer) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}

// Stop cancels everything pending and waits for runs already in progress.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	d.stopped = true
	for key, p := range d.pending {
		p.timer.Stop()
		delete(d.pending, key)
	}
	d.mu.Unlock()

	d.running.Wait()
}

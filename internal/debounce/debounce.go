// Package debounce delays a handler until its input has been quiet for a
// fixed window. Each call replaces the pending one; only the latest survives.
package debounce

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// DefaultWait is the quiet period used by the search box.
const DefaultWait = time.Second

type options struct {
	clock clockwork.Clock
}

// Option configures a Debouncer.
type Option func(*options)

// WithClock sets the time source. Tests pass a clockwork.FakeClock.
func WithClock(c clockwork.Clock) Option {
	return func(o *options) { o.clock = c }
}

// Debouncer runs handler with the argument of the most recent Call once no
// further Call arrives within wait.
type Debouncer[T any] struct {
	wait    time.Duration
	handler func(T)
	clock   clockwork.Clock

	mu      sync.Mutex
	timer   clockwork.Timer
	gen     uint64
	stopped bool
}

// New creates a Debouncer. A non-positive wait falls back to DefaultWait.
func New[T any](wait time.Duration, handler func(T), opts ...Option) *Debouncer[T] {
	if wait <= 0 {
		wait = DefaultWait
	}
	o := options{clock: clockwork.NewRealClock()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Debouncer[T]{
		wait:    wait,
		handler: handler,
		clock:   o.clock,
	}
}

// Call cancels any pending invocation and schedules handler(arg) after the
// quiet window. It is a no-op after Stop.
func (d *Debouncer[T]) Call(arg T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	d.cancelLocked()

	d.gen++
	gen := d.gen
	d.timer = d.clock.AfterFunc(d.wait, func() {
		d.fire(gen, arg)
	})
}

// fire runs the handler unless the invocation was superseded or cancelled
// after its timer had already expired.
func (d *Debouncer[T]) fire(gen uint64, arg T) {
	d.mu.Lock()
	if d.stopped || gen != d.gen || d.timer == nil {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.mu.Unlock()

	d.handler(arg)
}

// Cancel drops the pending invocation, if any. Later calls still work.
func (d *Debouncer[T]) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancelLocked()
}

// Stop cancels the pending invocation and disables the Debouncer.
// Safe to call more than once.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancelLocked()
	d.stopped = true
}

// Pending reports whether an invocation is scheduled.
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

func (d *Debouncer[T]) cancelLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

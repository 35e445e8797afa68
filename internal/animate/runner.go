package animate

import (
	"sync"
	"sync/atomic"
	"time"
)

// DefaultInterval is the animation tick period.
const DefaultInterval = 80 * time.Millisecond

// Runner is the single central clock for a set of animations. Each tick
// it invokes onTick, which is expected to advance the animations and
// schedule a redraw on the UI's own queue — the runner itself never
// touches animation state, so all mutation stays serialized in one place.
// Dropping the runner via Stop is how a session teardown cancels its
// animations; a stopped runner never ticks again.
type Runner struct {
	interval time.Duration
	onTick   func()

	started  atomic.Bool
	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// NewRunner creates a runner. A non-positive interval falls back to
// DefaultInterval.
func NewRunner(interval time.Duration, onTick func()) *Runner {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Runner{
		interval: interval,
		onTick:   onTick,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start begins ticking on a new goroutine. Calling Start twice is a
// no-op.
func (r *Runner) Start() {
	if !r.started.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer close(r.done)
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		for {
			select {
			case <-r.stop:
				return
			case <-ticker.C:
				r.onTick()
			}
		}
	}()
}

// Stop halts the clock and waits for the tick goroutine to exit, so no
// tick can fire after Stop returns. Safe to call more than once.
func (r *Runner) Stop() {
	r.stopOnce.Do(func() { close(r.stop) })
	if r.started.Load() {
		<-r.done
	}
}

package debounce

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// DefaultQuietPeriod is how long the search box must stay untouched before a search goes out
const DefaultQuietPeriod = 500 * time.Millisecond

// Debouncer runs at most one scheduled call, after a quiet period with no new schedules.
type Debouncer struct {
	clock clock.Clock
	wait  time.Duration

	mu         sync.Mutex
	timer      *clock.Timer
	generation uint64
}

func New(clk clock.Clock, wait time.Duration) *Debouncer {
	if clk == nil {
		clk = clock.New()
	}
	if wait <= 0 {
		wait = DefaultQuietPeriod
	}
	return &Debouncer{clock: clk, wait: wait}
}

// Schedule replaces any pending call with fn
func (d *Debouncer) Schedule(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopLocked()
	gen := d.generation
	d.timer = d.clock.AfterFunc(d.wait, func() {
		d.mu.Lock()
		// A timer that lost the race with Stop must not run.
		if gen != d.generation {
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.generation++
		d.mu.Unlock()

		fn()
	})
}

// Cancel drops the pending call, if any. Safe to call repeatedly.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()
}

func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

func (d *Debouncer) Wait() time.Duration {
	return d.wait
}

func (d *Debouncer) stopLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.generation++
}

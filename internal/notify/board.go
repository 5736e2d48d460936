package notify

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// historyLimit bounds how many past notifications a board remembers
const historyLimit = 100

// Board keeps notifications visible for a fixed time to live and then drops them
type Board struct {
	clock clock.Clock
	ttl   time.Duration

	mu       sync.Mutex
	items    []Notification
	history  []Notification
	counts   map[Severity]int
	onChange func()
}

func NewBoard(clk clock.Clock, ttl time.Duration) *Board {
	if clk == nil {
		clk = clock.New()
	}
	return &Board{clock: clk, ttl: ttl, counts: map[Severity]int{}}
}

// OnChange registers fn to be called after a notification is added or dismissed
func (b *Board) OnChange(fn func()) {
	b.mu.Lock()
	b.onChange = fn
	b.mu.Unlock()
}

func (b *Board) Notify(severity Severity, message string) {
	n := newNotification(severity, message, b.clock.Now())

	b.mu.Lock()
	b.items = append(b.items, n)
	b.history = append(b.history, n)
	if len(b.history) > historyLimit {
		b.history = append(b.history[:0:0], b.history[len(b.history)-historyLimit:]...)
	}
	b.counts[severity]++
	fn := b.onChange
	b.mu.Unlock()

	if b.ttl > 0 {
		b.clock.AfterFunc(b.ttl, func() { b.Dismiss(n.ID) })
	}
	if fn != nil {
		fn()
	}
}

// Dismiss removes a notification before its time to live runs out
func (b *Board) Dismiss(id string) {
	b.mu.Lock()
	removed := false
	for i, n := range b.items {
		if n.ID == id {
			b.items = append(b.items[:i], b.items[i+1:]...)
			removed = true
			break
		}
	}
	fn := b.onChange
	b.mu.Unlock()

	if removed && fn != nil {
		fn()
	}
}

// Active returns the notifications still on screen, oldest first
func (b *Board) Active() []Notification {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Notification(nil), b.items...)
}

// History returns the most recent notifications, oldest first
func (b *Board) History() []Notification {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Notification(nil), b.history...)
}

// Count returns how many notifications of the given severity were posted
func (b *Board) Count(severity Severity) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.counts[severity]
}

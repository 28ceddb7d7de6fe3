package server

import (
	"sync"
	"time"
)

// TurnTimer drives turn deadlines for one room. Restart invalidates any
// previously armed deadline: a stale callback that lost the race against a
// restart sees a newer generation and does nothing.
type TurnTimer struct {
	mu    sync.Mutex
	d     time.Duration
	gen   uint64
	timer *time.Timer
	fire  func()
}

// NewTurnTimer creates a timer that calls fire when a turn deadline expires.
// The timer starts disarmed.
func NewTurnTimer(d time.Duration, fire func()) *TurnTimer {
	return &TurnTimer{d: d, fire: fire}
}

// Restart arms a fresh deadline, cancelling any outstanding one.
func (t *TurnTimer) Restart() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.gen++
	gen := t.gen
	if t.timer != nil {
		t.timer.Stop()
	}
	t.timer = time.AfterFunc(t.d, func() {
		t.mu.Lock()
		current := t.gen == gen
		t.mu.Unlock()
		if current {
			t.fire()
		}
	})
}

// Stop disarms the timer. Any in-flight callback becomes a no-op.
func (t *TurnTimer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.gen++
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}

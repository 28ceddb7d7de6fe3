package server

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTurnTimerFires(t *testing.T) {
	fired := make(chan struct{}, 1)
	tm := NewTurnTimer(20*time.Millisecond, func() { fired <- struct{}{} })
	tm.Restart()

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("timer never fired")
	}
}

func TestTurnTimerRestartInvalidatesPrevious(t *testing.T) {
	var count int32
	tm := NewTurnTimer(60*time.Millisecond, func() { atomic.AddInt32(&count, 1) })

	tm.Restart()
	time.Sleep(20 * time.Millisecond)
	tm.Restart()
	time.Sleep(300 * time.Millisecond)

	assert.Equal(t, int32(1), atomic.LoadInt32(&count),
		"only the most recent deadline may fire")
}

func TestTurnTimerStopCancels(t *testing.T) {
	var count int32
	tm := NewTurnTimer(40*time.Millisecond, func() { atomic.AddInt32(&count, 1) })

	tm.Restart()
	tm.Stop()
	time.Sleep(200 * time.Millisecond)

	assert.Equal(t, int32(0), atomic.LoadInt32(&count))

	// Stop on a disarmed timer is a no-op.
	tm.Stop()
}

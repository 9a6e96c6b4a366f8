// ABOUTME: Rest timer: one countdown goroutine per session.
// ABOUTME: Starting a new countdown cancels the previous one and waits for it to exit.
package session

import (
	"context"
	"sync"
	"time"
)

// RestTimer runs at most one countdown at a time.
type RestTimer struct {
	mu       sync.Mutex
	active   bool
	duration time.Duration
	deadline time.Time
	gen      uint64
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewRestTimer returns an idle timer.
func NewRestTimer() *RestTimer {
	done := make(chan struct{})
	close(done)
	return &RestTimer{done: done}
}

// Start begins a countdown of d, cancelling any running one first.
// onFinish runs on the timer goroutine when the countdown expires, but not
// when it is cancelled. onFinish must not call back into the timer.
func (t *RestTimer) Start(d time.Duration, onFinish func()) {
	t.Cancel()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	t.mu.Lock()
	t.gen++
	gen := t.gen
	t.active = true
	t.duration = d
	t.deadline = time.Now().Add(d)
	t.cancel = cancel
	t.done = done
	t.mu.Unlock()

	go func() {
		defer close(done)
		timer := time.NewTimer(d)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		t.mu.Lock()
		current := t.gen == gen
		if current {
			t.active = false
			t.cancel = nil
		}
		t.mu.Unlock()
		cancel()

		if current && onFinish != nil {
			onFinish()
		}
	}()
}

// Cancel stops the running countdown, if any, and waits for its goroutine.
func (t *RestTimer) Cancel() {
	t.mu.Lock()
	cancel := t.cancel
	done := t.done
	t.cancel = nil
	t.active = false
	t.gen++
	t.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	<-done
}

// Active reports whether a countdown is running.
func (t *RestTimer) Active() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}

// Duration is the length of the current or last countdown.
func (t *RestTimer) Duration() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.duration
}

// Remaining is the time left on the running countdown, or zero.
func (t *RestTimer) Remaining() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.active {
		return 0
	}
	return max(time.Until(t.deadline), 0)
}

// Done is closed when the current countdown expires or is cancelled.
func (t *RestTimer) Done() <-chan struct{} {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.done
}

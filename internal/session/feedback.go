// ABOUTME: Terminal feedback sink that rings the bell on notable events.
// ABOUTME: Safe to call from the rest timer goroutine.
package session

import (
	"io"
	"sync"
)

// BellFeedback writes a terminal bell for rest-finished and completion events.
type BellFeedback struct {
	mu sync.Mutex
	w  io.Writer
}

// NewBellFeedback rings on w.
func NewBellFeedback(w io.Writer) *BellFeedback {
	return &BellFeedback{w: w}
}

// Notify rings for events worth interrupting the user for.
func (b *BellFeedback) Notify(ev Event) {
	switch ev {
	case EventRestFinished, EventWorkoutCompleted:
	default:
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	_, _ = io.WriteString(b.w, "\a")
}

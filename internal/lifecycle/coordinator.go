// ABOUTME: Session lifecycle coordinator: remembers whether the last session was discarded.
// ABOUTME: State is mirrored to the key-value store so it survives restarts.
package lifecycle

import (
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harperreed/rpt/internal/kvstore"
	"github.com/harperreed/rpt/internal/logging"
)

// Keys under which the discard state is persisted.
const (
	KeyDiscardedFlag = "workout_discarded_flag"
	KeyDiscardedID   = "workout_discarded_id"
	KeyDiscardedTime = "workout_discarded_time"
)

// State is a snapshot of the discard state.
type State struct {
	Discarded   bool
	WorkoutID   string
	DiscardedAt time.Time
}

// Coordinator tracks the discard flag. Construct one per process and pass
// it to whatever needs it; the session engine is its only writer.
type Coordinator struct {
	kv     kvstore.Store
	logger *log.Logger
	now    func() time.Time

	mu     sync.Mutex
	loaded bool
	state  State
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Coordinator) { c.logger = logging.OrDiscard(l) }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) { c.now = now }
}

// New creates a Coordinator over kv. Nothing is read until first use.
func New(kv kvstore.Store, opts ...Option) *Coordinator {
	c := &Coordinator{kv: kv, logger: logging.Discard(), now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// MarkDiscarded sets the flag, stamps the time and records id when given.
// All three keys are written together.
func (c *Coordinator) MarkDiscarded(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := State{Discarded: true, WorkoutID: id, DiscardedAt: c.now()}
	puts := map[string][]byte{
		KeyDiscardedFlag: []byte(strconv.FormatBool(true)),
		KeyDiscardedTime: []byte(next.DiscardedAt.Format(time.RFC3339Nano)),
	}
	var dels []string
	if id != "" {
		puts[KeyDiscardedID] = []byte(id)
	} else {
		dels = append(dels, KeyDiscardedID)
	}

	// Memory is updated even if the write fails so this process stays consistent.
	c.state = next
	c.loaded = true
	if err := c.kv.Apply(puts, dels); err != nil {
		return fmt.Errorf("persist discard flag: %w", err)
	}
	c.logger.Debug("workout discarded", "id", id)
	return nil
}

// MarkSaved clears the discard state. Saving always clears it.
func (c *Coordinator) MarkSaved(id string) error {
	if err := c.Clear(); err != nil {
		return err
	}
	c.logger.Debug("workout saved", "id", id)
	return nil
}

// Clear resets the state and removes the persisted keys.
func (c *Coordinator) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state = State{}
	c.loaded = true
	if err := c.kv.Apply(nil, []string{KeyDiscardedFlag, KeyDiscardedID, KeyDiscardedTime}); err != nil {
		return fmt.Errorf("clear discard flag: %w", err)
	}
	return nil
}

// WasAnyDiscarded reports the flag, loading it from the store on first use.
// A failed load is logged and treated as not discarded; it is retried on
// the next call.
func (c *Coordinator) WasAnyDiscarded() bool {
	return c.State().Discarded
}

// State returns a snapshot, loading it from the store on first use.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.loaded {
		st, err := c.load()
		if err != nil {
			c.logger.Warn("could not load discard flag", "err", err)
			return State{}
		}
		c.state = st
		c.loaded = true
	}
	return c.state
}

func (c *Coordinator) load() (State, error) {
	var st State

	raw, err := c.kv.Get(KeyDiscardedFlag)
	if errors.Is(err, kvstore.ErrNotFound) {
		return st, nil
	}
	if err != nil {
		return st, err
	}
	st.Discarded, err = strconv.ParseBool(string(raw))
	if err != nil {
		return State{}, fmt.Errorf("parse %s: %w", KeyDiscardedFlag, err)
	}

	if raw, err := c.kv.Get(KeyDiscardedID); err == nil {
		st.WorkoutID = string(raw)
	} else if !errors.Is(err, kvstore.ErrNotFound) {
		return State{}, err
	}
	if raw, err := c.kv.Get(KeyDiscardedTime); err == nil {
		if ts, perr := time.Parse(time.RFC3339Nano, string(raw)); perr == nil {
			st.DiscardedAt = ts
		}
	} else if !errors.Is(err, kvstore.ErrNotFound) {
		return State{}, err
	}
	return st, nil
}

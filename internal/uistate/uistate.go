// ABOUTME: Persists per-session UI flags (completed and expanded exercises) in the kv store.
// ABOUTME: Kept apart from workout data under session:<workout-id>: keys.
package uistate

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/harperreed/rpt/internal/kvstore"
)

// State is the UI state of one session.
type State struct {
	Completed []uuid.UUID
	Expanded  []uuid.UUID
}

// Store reads and writes session UI state.
type Store struct {
	kv kvstore.Store
}

// New creates a Store over kv.
func New(kv kvstore.Store) *Store {
	return &Store{kv: kv}
}

func prefix(workoutID uuid.UUID) string {
	return "session:" + workoutID.String() + ":"
}

func completedKey(workoutID uuid.UUID) string { return prefix(workoutID) + "completed" }
func expandedKey(workoutID uuid.UUID) string  { return prefix(workoutID) + "expanded" }

// Load returns the stored state. A session with nothing stored yields an
// empty State.
func (s *Store) Load(workoutID uuid.UUID) (State, error) {
	var st State
	if err := getIDs(s.kv, completedKey(workoutID), &st.Completed); err != nil {
		return State{}, fmt.Errorf("load completed exercises: %w", err)
	}
	if err := getIDs(s.kv, expandedKey(workoutID), &st.Expanded); err != nil {
		return State{}, fmt.Errorf("load expanded exercises: %w", err)
	}
	return st, nil
}

func getIDs(kv kvstore.Store, key string, out *[]uuid.UUID) error {
	err := kvstore.GetJSON(kv, key, out)
	if errors.Is(err, kvstore.ErrNotFound) {
		return nil
	}
	return err
}

// Save replaces the stored state.
func (s *Store) Save(workoutID uuid.UUID, st State) error {
	if err := kvstore.SetJSON(s.kv, completedKey(workoutID), nonNil(st.Completed)); err != nil {
		return fmt.Errorf("save completed exercises: %w", err)
	}
	if err := kvstore.SetJSON(s.kv, expandedKey(workoutID), nonNil(st.Expanded)); err != nil {
		return fmt.Errorf("save expanded exercises: %w", err)
	}
	return nil
}

func nonNil(ids []uuid.UUID) []uuid.UUID {
	if ids == nil {
		return []uuid.UUID{}
	}
	return ids
}

// Clear removes everything stored for the session.
func (s *Store) Clear(workoutID uuid.UUID) error {
	if err := kvstore.DeletePrefix(s.kv, prefix(workoutID)); err != nil {
		return fmt.Errorf("clear session state: %w", err)
	}
	return nil
}

// ABOUTME: Workout model and its derived values (volume, working sets, best sets).
// ABOUTME: A workout owns its sets in insertion order; slot order follows that order.
package models

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultWorkoutName is used when a workout is started without a name.
const DefaultWorkoutName = "Workout"

// Workout represents a training session.
type Workout struct {
	ID                  uuid.UUID
	Date                time.Time
	Name                string
	Notes               string
	Duration            time.Duration
	IsCompleted         bool
	StartedFromTemplate *string
	Sets                []*ExerciseSet
}

// NewWorkout creates a new Workout with generated UUID and current timestamp.
func NewWorkout(name string) *Workout {
	if strings.TrimSpace(name) == "" {
		name = DefaultWorkoutName
	}
	return &Workout{
		ID:   uuid.New(),
		Date: time.Now(),
		Name: name,
	}
}

// FromTemplate records the template the workout was started from.
func (w *Workout) FromTemplate(name string) *Workout {
	w.StartedFromTemplate = &name
	return w
}

// WithDate sets a custom start timestamp.
func (w *Workout) WithDate(t time.Time) *Workout {
	w.Date = t
	return w
}

// WithNotes sets notes on the workout.
func (w *Workout) WithNotes(notes string) *Workout {
	w.Notes = notes
	return w
}

// AddSet appends a new set for exercise and returns it.
func (w *Workout) AddSet(exercise *Exercise, weight float64, reps int) *ExerciseSet {
	s := NewExerciseSet(exercise, weight, reps)
	w.Sets = append(w.Sets, s)
	return s
}

// RemoveSet removes the set with the given ID. It reports whether a set was removed.
func (w *Workout) RemoveSet(set *ExerciseSet) bool {
	for i, s := range w.Sets {
		if s.ID == set.ID {
			w.Sets = append(w.Sets[:i], w.Sets[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveExercise removes every set for the exercise and returns how many went.
func (w *Workout) RemoveExercise(exerciseID uuid.UUID) int {
	kept := w.Sets[:0]
	removed := 0
	for _, s := range w.Sets {
		if id, ok := s.ExerciseID(); ok && id == exerciseID {
			removed++
			continue
		}
		kept = append(kept, s)
	}
	// Clear the tail so removed sets are not retained by the backing array.
	for i := len(kept); i < len(w.Sets); i++ {
		w.Sets[i] = nil
	}
	w.Sets = kept
	return removed
}

// Complete marks the workout finished, backfilling the duration if unset.
func (w *Workout) Complete(now time.Time) {
	w.IsCompleted = true
	if w.Duration == 0 {
		w.Duration = now.Sub(w.Date)
	}
}

// ExerciseCount is the number of distinct exercises referenced by the sets.
func (w *Workout) ExerciseCount() int {
	seen := make(map[uuid.UUID]struct{})
	for _, s := range w.Sets {
		if id, ok := s.ExerciseID(); ok {
			seen[id] = struct{}{}
		}
	}
	return len(seen)
}

// TotalVolume sums weight*reps over every set, warmups included.
func (w *Workout) TotalVolume() float64 {
	var total float64
	for _, s := range w.Sets {
		total += s.Volume()
	}
	return total
}

// WorkingSetsCount counts the sets that are not warmups.
func (w *Workout) WorkingSetsCount() int {
	n := 0
	for _, s := range w.Sets {
		if !s.IsWarmup {
			n++
		}
	}
	return n
}

// SetsFor returns the sets of one exercise in slot order.
func (w *Workout) SetsFor(exerciseID uuid.UUID) []*ExerciseSet {
	var out []*ExerciseSet
	for _, s := range w.Sets {
		if id, ok := s.ExerciseID(); ok && id == exerciseID {
			out = append(out, s)
		}
	}
	return out
}

// Exercises returns the distinct exercises in order of first appearance.
func (w *Workout) Exercises() []*Exercise {
	seen := make(map[uuid.UUID]struct{})
	var out []*Exercise
	for _, s := range w.Sets {
		if s.Exercise == nil {
			continue
		}
		if _, ok := seen[s.Exercise.ID]; ok {
			continue
		}
		seen[s.Exercise.ID] = struct{}{}
		out = append(out, s.Exercise)
	}
	return out
}

// BestSetPerExercise picks the heaviest set for each exercise. Ties go to
// the set that comes first in slot order.
func (w *Workout) BestSetPerExercise() map[uuid.UUID]*ExerciseSet {
	best := make(map[uuid.UUID]*ExerciseSet)
	for _, s := range w.Sets {
		id, ok := s.ExerciseID()
		if !ok {
			continue
		}
		if cur, ok := best[id]; !ok || s.Weight > cur.Weight {
			best[id] = s
		}
	}
	return best
}

// Summary renders a short plain-text description of the workout.
func (w *Workout) Summary(unit string) string {
	names := make([]string, 0)
	for _, e := range w.Exercises() {
		names = append(names, e.Name)
	}
	sort.Strings(names)

	var b strings.Builder
	fmt.Fprintf(&b, "%s - %s\n", w.Name, w.Date.Format("Jan 2, 2006 3:04 PM"))
	fmt.Fprintf(&b, "Exercises: %s\n", strings.Join(names, ", "))
	fmt.Fprintf(&b, "Sets: %d\n", w.WorkingSetsCount())
	fmt.Fprintf(&b, "Total Volume: %.1f %s\n", w.TotalVolume(), unit)
	if w.Notes != "" {
		fmt.Fprintf(&b, "Notes: %s", w.Notes)
	}
	return b.String()
}

// ABOUTME: Follow-up workout generation for progressive overload.
// ABOUTME: Raises each exercise's top set and keeps the original drop pattern.
package models

import (
	"time"

	"github.com/harperreed/rpt/internal/rpt"
)

// DefaultFollowUpIncrease is the top-set increase used when none is given.
const DefaultFollowUpIncrease = 0.025

// FollowUp builds the next workout for the same exercises. For each exercise
// the first working set is raised by percentageIncrease and rounded to the
// plate increment; later slots keep their original ratio to the first set,
// applied to the new top weight. When the original top set weighed zero the
// later slots are skipped since no ratio can be derived. Warmups are ignored.
func (w *Workout) FollowUp(percentageIncrease float64) *Workout {
	next := NewWorkout("Follow-up: " + w.Name)
	if w.StartedFromTemplate != nil {
		next.FromTemplate(*w.StartedFromTemplate)
	}

	base := time.Now()
	offset := 0
	for _, exercise := range w.Exercises() {
		var working []*ExerciseSet
		for _, s := range w.SetsFor(exercise.ID) {
			if !s.IsWarmup {
				working = append(working, s)
			}
		}
		if len(working) == 0 {
			continue
		}

		first := working[0]
		newFirst := float64(rpt.RoundToNearest5(first.Weight * (1.0 + percentageIncrease)))
		for slot, prev := range working {
			weight := newFirst
			if slot > 0 {
				if first.Weight <= 0 {
					continue
				}
				originalDrop := 1.0 - prev.Weight/first.Weight
				weight = float64(rpt.RoundToNearest5(newFirst * (1.0 - originalDrop)))
			}
			s := next.AddSet(exercise, weight, prev.Reps)
			s.CompletedAt = base.Add(time.Duration(offset) * time.Millisecond)
			offset++
			if prev.RPE != nil {
				s.WithRPE(*prev.RPE)
			}
		}
	}
	return next
}

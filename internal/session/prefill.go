// ABOUTME: Prefills template sessions with the weights used last time.
// ABOUTME: Copies weight, reps (when empty) and RPE slot by slot from history.
package session

import "github.com/harperreed/rpt/internal/models"

// prefillFromHistory runs only for template sessions that still have
// zero-weight sets. For each exercise it takes the most recent other
// workout with a non-zero set and copies its values slot by slot.
func (e *Engine) prefillFromHistory() {
	if e.workout.StartedFromTemplate == nil || !hasEmptySet(e.workout) {
		return
	}

	for _, exercise := range e.order {
		history, err := e.store.WorkoutHistory(exercise.ID)
		if err != nil {
			e.logger.Warn("could not load history for prefill", "exercise", exercise.Name, "err", err)
			continue
		}
		prev := mostRecentLoaded(history, e.workout)
		if prev == nil {
			continue
		}
		prevSets := slotOrder(prev, exercise)
		for i, cur := range e.groups[exercise.ID] {
			if i >= len(prevSets) {
				break
			}
			p := prevSets[i]
			cur.Weight = p.Weight
			if cur.Reps == 0 {
				cur.Reps = p.Reps
			}
			if p.RPE != nil {
				v := *p.RPE
				cur.RPE = &v
			} else {
				cur.RPE = nil
			}
		}
		e.logger.Debug("prefilled from history", "exercise", exercise.Name, "from", prev.Workout.ID)
	}
}

// slotOrder returns the entry's sets in the order they were added to the
// workout, which can differ from completion order once sets are re-stamped.
func slotOrder(h *models.HistoryEntry, exercise *models.Exercise) []*models.ExerciseSet {
	if h.Workout != nil {
		if sets := h.Workout.SetsFor(exercise.ID); len(sets) > 0 {
			return sets
		}
	}
	return h.Sets
}

func hasEmptySet(w *models.Workout) bool {
	for _, s := range w.Sets {
		if s.Weight == 0 {
			return true
		}
	}
	return false
}

func mostRecentLoaded(history []models.HistoryEntry, current *models.Workout) *models.HistoryEntry {
	for i := range history {
		h := &history[i]
		if h.Workout != nil && h.Workout.ID == current.ID {
			continue
		}
		for _, s := range h.Sets {
			if s.Weight > 0 {
				return h
			}
		}
	}
	return nil
}

// ABOUTME: Serializable view of a running session for CLI and MCP output.
// ABOUTME: Exercises appear in display order with their sets in slot order.
package session

import (
	"time"
)

// Snapshot is a point-in-time copy of the session's derived view.
type Snapshot struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Date        time.Time          `json:"date"`
	Template    string             `json:"template,omitempty"`
	IsCompleted bool               `json:"is_completed"`
	TotalVolume float64            `json:"total_volume"`
	AllDone     bool               `json:"all_exercises_completed"`
	Exercises   []ExerciseSnapshot `json:"exercises"`
}

// ExerciseSnapshot is one exercise in a Snapshot.
type ExerciseSnapshot struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Completed bool          `json:"completed"`
	Expanded  bool          `json:"expanded"`
	Sets      []SetSnapshot `json:"sets"`
}

// SetSnapshot is one set in a Snapshot. Slot numbers start at 1.
type SetSnapshot struct {
	ID          string    `json:"id"`
	Slot        int       `json:"slot"`
	Weight      float64   `json:"weight"`
	Reps        int       `json:"reps"`
	RPE         *int      `json:"rpe,omitempty"`
	IsWarmup    bool      `json:"is_warmup,omitempty"`
	CompletedAt time.Time `json:"completed_at"`
}

// Snapshot copies the current view.
func (e *Engine) Snapshot() Snapshot {
	w := e.workout
	snap := Snapshot{
		ID:          w.ID.String(),
		Name:        w.Name,
		Date:        w.Date,
		IsCompleted: w.IsCompleted,
		TotalVolume: w.TotalVolume(),
		AllDone:     e.AllExercisesCompleted(),
		Exercises:   make([]ExerciseSnapshot, 0, len(e.order)),
	}
	if w.StartedFromTemplate != nil {
		snap.Template = *w.StartedFromTemplate
	}
	for _, ex := range e.order {
		es := ExerciseSnapshot{
			ID:        ex.ID.String(),
			Name:      ex.Name,
			Completed: e.completed[ex.ID],
			Expanded:  e.expanded[ex.ID],
		}
		for i, s := range e.groups[ex.ID] {
			ss := SetSnapshot{
				ID:          s.ID.String(),
				Slot:        i + 1,
				Weight:      s.Weight,
				Reps:        s.Reps,
				IsWarmup:    s.IsWarmup,
				CompletedAt: s.CompletedAt,
			}
			if s.RPE != nil {
				v := *s.RPE
				ss.RPE = &v
			}
			es.Sets = append(es.Sets, ss)
		}
		snap.Exercises = append(snap.Exercises, es)
	}
	return snap
}

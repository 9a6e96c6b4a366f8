// ABOUTME: Pure projection of a workout's sets into exercise order and groups.
// ABOUTME: Deterministic for a given input so it can be re-run after every edit.
package session

import (
	"sort"

	"github.com/google/uuid"
	"github.com/harperreed/rpt/internal/models"
)

// Mode selects how exercise order is derived.
type Mode int

const (
	// ModeInitial orders exercises by their earliest set CompletedAt, ties
	// broken by first appearance in the workout.
	ModeInitial Mode = iota
	// ModeMaintain keeps the previous order, drops exercises that no longer
	// have sets and appends new ones in initial order.
	ModeMaintain
)

// Projection is the derived view of a workout's sets.
type Projection struct {
	Order  []*models.Exercise
	Groups map[uuid.UUID][]*models.ExerciseSet
}

// Project groups sets by exercise (slot order is workout insertion order)
// and derives the exercise order. Sets without an exercise are skipped.
func Project(sets []*models.ExerciseSet, prev []*models.Exercise, mode Mode) Projection {
	type firstSeen struct {
		exercise *models.Exercise
		earliest int64
		index    int
	}

	groups := make(map[uuid.UUID][]*models.ExerciseSet)
	seen := make(map[uuid.UUID]*firstSeen)
	var appearance []*firstSeen
	for i, s := range sets {
		if s.Exercise == nil {
			continue
		}
		id := s.Exercise.ID
		groups[id] = append(groups[id], s)
		ts := s.CompletedAt.UnixNano()
		if fs, ok := seen[id]; ok {
			if ts < fs.earliest {
				fs.earliest = ts
			}
			continue
		}
		fs := &firstSeen{exercise: s.Exercise, earliest: ts, index: i}
		seen[id] = fs
		appearance = append(appearance, fs)
	}

	initial := make([]*firstSeen, len(appearance))
	copy(initial, appearance)
	sort.SliceStable(initial, func(i, j int) bool {
		if initial[i].earliest != initial[j].earliest {
			return initial[i].earliest < initial[j].earliest
		}
		return initial[i].index < initial[j].index
	})

	order := make([]*models.Exercise, 0, len(initial))
	if mode == ModeMaintain {
		placed := make(map[uuid.UUID]bool, len(prev))
		for _, e := range prev {
			if e == nil || placed[e.ID] {
				continue
			}
			if fs, ok := seen[e.ID]; ok {
				order = append(order, fs.exercise)
				placed[e.ID] = true
			}
		}
		for _, fs := range initial {
			if !placed[fs.exercise.ID] {
				order = append(order, fs.exercise)
			}
		}
	} else {
		for _, fs := range initial {
			order = append(order, fs.exercise)
		}
	}

	return Projection{Order: order, Groups: groups}
}

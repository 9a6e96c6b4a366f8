// ABOUTME: Workout templates with per-set rep ranges and RPT percentages.
// ABOUTME: Keeps exactly one rep range per set number and instantiates workouts.
package models

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// Rep range synthesis limits.
const (
	maxSynthesizedMinReps = 15
	maxSynthesizedMaxReps = 20
	minSynthesizedPercent = 0.5
)

// WorkoutTemplate is a reusable workout plan.
type WorkoutTemplate struct {
	ID        uuid.UUID          `json:"id" yaml:"id"`
	Name      string             `json:"name" yaml:"name"`
	Exercises []TemplateExercise `json:"exercises" yaml:"exercises"`
	Notes     string             `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// TemplateExercise is one exercise entry in a template.
type TemplateExercise struct {
	ID            uuid.UUID          `json:"id" yaml:"id"`
	ExerciseName  string             `json:"exercise_name" yaml:"exercise_name"`
	SuggestedSets int                `json:"suggested_sets" yaml:"suggested_sets"`
	RepRanges     []TemplateRepRange `json:"rep_ranges" yaml:"rep_ranges"`
	Notes         string             `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// TemplateRepRange is the target for one set number.
type TemplateRepRange struct {
	SetNumber            int      `json:"set_number" yaml:"set_number"`
	MinReps              int      `json:"min_reps" yaml:"min_reps"`
	MaxReps              int      `json:"max_reps" yaml:"max_reps"`
	PercentageOfFirstSet *float64 `json:"percentage_of_first_set,omitempty" yaml:"percentage_of_first_set,omitempty"`
}

// TargetReps is the midpoint of the range.
func (r TemplateRepRange) TargetReps() int {
	return (r.MinReps + r.MaxReps) / 2
}

// NewWorkoutTemplate creates an empty template.
func NewWorkoutTemplate(name string) *WorkoutTemplate {
	return &WorkoutTemplate{ID: uuid.New(), Name: name}
}

// NewTemplateExercise creates a template exercise whose rep ranges are
// normalized to suggestedSets.
func NewTemplateExercise(exerciseName string, suggestedSets int, ranges []TemplateRepRange, notes string) TemplateExercise {
	te := TemplateExercise{
		ID:           uuid.New(),
		ExerciseName: exerciseName,
		RepRanges:    ranges,
		Notes:        notes,
	}
	te.SetSuggestedSets(suggestedSets)
	return te
}

// DefaultRepRange synthesizes the range for a set number: the percentage
// drops ten points per set down to 50%, and the rep range climbs two reps
// per set, capped at 15/20.
func DefaultRepRange(setNumber int) TemplateRepRange {
	pct := 1.0
	if setNumber > 1 {
		pct = max(1.0-float64(setNumber-1)*0.1, minSynthesizedPercent)
	}
	return TemplateRepRange{
		SetNumber:            setNumber,
		MinReps:              min(6+(setNumber-1)*2, maxSynthesizedMinReps),
		MaxReps:              min(8+(setNumber-1)*2, maxSynthesizedMaxReps),
		PercentageOfFirstSet: &pct,
	}
}

// NormalizeRepRanges returns exactly one range per set number 1..sets,
// keeping existing entries and synthesizing the missing ones.
func NormalizeRepRanges(ranges []TemplateRepRange, sets int) []TemplateRepRange {
	if sets < 0 {
		sets = 0
	}
	bySet := make(map[int]TemplateRepRange, sets)
	for _, r := range ranges {
		if r.SetNumber < 1 || r.SetNumber > sets {
			continue
		}
		if _, dup := bySet[r.SetNumber]; dup {
			continue
		}
		bySet[r.SetNumber] = r
	}
	out := make([]TemplateRepRange, 0, sets)
	for n := 1; n <= sets; n++ {
		if r, ok := bySet[n]; ok {
			out = append(out, r)
			continue
		}
		out = append(out, DefaultRepRange(n))
	}
	return out
}

// SetSuggestedSets changes the set count and regenerates the rep ranges.
func (te *TemplateExercise) SetSuggestedSets(sets int) {
	if sets < 0 {
		sets = 0
	}
	te.SuggestedSets = sets
	te.RepRanges = NormalizeRepRanges(te.RepRanges, sets)
}

// DefaultTemplateExercise is the 3-set RPT pattern used when an exercise is
// added to a template without explicit ranges.
func DefaultTemplateExercise(exerciseName string) TemplateExercise {
	return NewTemplateExercise(exerciseName, 3, []TemplateRepRange{
		{SetNumber: 1, MinReps: 6, MaxReps: 8, PercentageOfFirstSet: percent(1.0)},
		{SetNumber: 2, MinReps: 8, MaxReps: 10, PercentageOfFirstSet: percent(0.9)},
		{SetNumber: 3, MinReps: 10, MaxReps: 12, PercentageOfFirstSet: percent(0.8)},
	}, "")
}

// AddExercise appends an exercise with the default RPT pattern.
func (t *WorkoutTemplate) AddExercise(exerciseName string) TemplateExercise {
	te := DefaultTemplateExercise(exerciseName)
	t.Exercises = append(t.Exercises, te)
	return te
}

// UpdateExercise replaces the exercise with a matching ID. Ranges are
// normalized on the way in. It reports whether a match was found.
func (t *WorkoutTemplate) UpdateExercise(updated TemplateExercise) bool {
	for i := range t.Exercises {
		if t.Exercises[i].ID == updated.ID {
			updated.SetSuggestedSets(updated.SuggestedSets)
			t.Exercises[i] = updated
			return true
		}
	}
	return false
}

// RemoveExercise drops the exercise with the given ID.
func (t *WorkoutTemplate) RemoveExercise(id uuid.UUID) bool {
	for i := range t.Exercises {
		if t.Exercises[i].ID == id {
			t.Exercises = append(t.Exercises[:i], t.Exercises[i+1:]...)
			return true
		}
	}
	return false
}

// Normalize re-applies the rep range invariant to every exercise.
func (t *WorkoutTemplate) Normalize() {
	for i := range t.Exercises {
		t.Exercises[i].SetSuggestedSets(t.Exercises[i].SuggestedSets)
	}
}

// Instantiate builds a workout from the template. Sets carry the target reps
// and zero weight; timestamps are staggered by one second per exercise and a
// tenth of a second per set so ordering survives. Exercises that lookup
// cannot resolve are skipped.
func (t *WorkoutTemplate) Instantiate(lookup func(name string) *Exercise, now time.Time) *Workout {
	w := NewWorkout(t.Name).FromTemplate(t.Name).WithDate(now)
	for i, te := range t.Exercises {
		exercise := lookup(te.ExerciseName)
		if exercise == nil {
			continue
		}
		ranges := append([]TemplateRepRange(nil), te.RepRanges...)
		sort.SliceStable(ranges, func(a, b int) bool { return ranges[a].SetNumber < ranges[b].SetNumber })
		for j, r := range ranges {
			s := w.AddSet(exercise, 0, r.TargetReps())
			s.CompletedAt = now.Add(time.Duration(i)*time.Second + time.Duration(j)*100*time.Millisecond)
		}
	}
	return w
}

// ABOUTME: Tests for the workout, set, template and follow-up models.
// ABOUTME: Covers derived values, rep range synthesis and progressive overload.
package models

import (
	"errors"
	"testing"
	"time"
)

func TestNewWorkout(t *testing.T) {
	w := NewWorkout("Push Day")

	if w.ID.String() == "" {
		t.Error("expected UUID to be set")
	}
	if w.Name != "Push Day" {
		t.Errorf("Name = %s, want Push Day", w.Name)
	}
	if w.Date.IsZero() {
		t.Error("expected Date to be set")
	}
	if NewWorkout("  ").Name != DefaultWorkoutName {
		t.Error("blank name should fall back to the default")
	}
}

func TestTotalVolume(t *testing.T) {
	bench := NewExercise("Bench", CategoryCompound, MuscleChest)

	t.Run("without warmups", func(t *testing.T) {
		w := NewWorkout("A")
		w.AddSet(bench, 200, 5)
		w.AddSet(bench, 180, 7)
		if got := w.TotalVolume(); got != 2260 {
			t.Errorf("TotalVolume = %v, want 2260", got)
		}
		if got := w.WorkingSetsCount(); got != 2 {
			t.Errorf("WorkingSetsCount = %d, want 2", got)
		}
	})

	t.Run("warmups count toward volume but not working sets", func(t *testing.T) {
		w := NewWorkout("A")
		w.AddSet(bench, 95, 10).AsWarmup()
		w.AddSet(bench, 200, 5)
		if got := w.TotalVolume(); got != 1950 {
			t.Errorf("TotalVolume = %v, want 1950", got)
		}
		if got := w.WorkingSetsCount(); got != 1 {
			t.Errorf("WorkingSetsCount = %d, want 1", got)
		}
	})

	t.Run("additive", func(t *testing.T) {
		w := NewWorkout("A")
		w.AddSet(bench, 135, 8)
		before := w.TotalVolume()
		w.AddSet(bench, 112.5, 9)
		if got := w.TotalVolume() - before; got != 112.5*9 {
			t.Errorf("volume delta = %v, want %v", got, 112.5*9)
		}
	})
}

func TestExerciseCount(t *testing.T) {
	bench := NewExercise("Bench", CategoryCompound, MuscleChest)
	row := NewExercise("Row", CategoryCompound, MuscleBack)
	w := NewWorkout("A")
	w.AddSet(bench, 100, 5)
	w.AddSet(row, 100, 5)
	w.AddSet(bench, 90, 7)
	w.AddSet(nil, 0, 0)

	if got := w.ExerciseCount(); got != 2 {
		t.Errorf("ExerciseCount = %d, want 2", got)
	}
	if got := len(w.Exercises()); got != 2 || w.Exercises()[0] != bench {
		t.Errorf("Exercises = %v, want bench first", w.Exercises())
	}
}

func TestBestSetPerExercise(t *testing.T) {
	bench := NewExercise("Bench", CategoryCompound, MuscleChest)
	w := NewWorkout("A")
	first := w.AddSet(bench, 200, 5)
	w.AddSet(bench, 180, 7)
	w.AddSet(bench, 200, 3)

	best := w.BestSetPerExercise()
	if best[bench.ID] != first {
		t.Error("expected the first 200 set to win the tie")
	}
}

func TestRemoveExercise(t *testing.T) {
	bench := NewExercise("Bench", CategoryCompound, MuscleChest)
	row := NewExercise("Row", CategoryCompound, MuscleBack)
	w := NewWorkout("A")
	w.AddSet(bench, 100, 5)
	w.AddSet(row, 100, 5)
	w.AddSet(bench, 90, 7)

	if n := w.RemoveExercise(bench.ID); n != 2 {
		t.Errorf("removed %d, want 2", n)
	}
	if len(w.Sets) != 1 || w.Sets[0].Exercise != row {
		t.Error("expected only the row set to remain")
	}
}

func TestComplete(t *testing.T) {
	start := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	w := NewWorkout("A").WithDate(start)
	w.Complete(start.Add(45 * time.Minute))
	if !w.IsCompleted || w.Duration != 45*time.Minute {
		t.Errorf("got completed=%v duration=%v", w.IsCompleted, w.Duration)
	}

	w.Complete(start.Add(2 * time.Hour))
	if w.Duration != 45*time.Minute {
		t.Error("existing duration should not be overwritten")
	}
}

func TestValidateSetValues(t *testing.T) {
	rpe := func(v int) *int { return &v }
	tests := []struct {
		name   string
		weight float64
		reps   int
		rpe    *int
		want   error
	}{
		{"valid", 100, 5, rpe(8), nil},
		{"zero", 0, 0, nil, nil},
		{"negative weight", -5, 5, nil, ErrInvalidWeight},
		{"negative reps", 100, -1, nil, ErrInvalidReps},
		{"rpe low", 100, 5, rpe(0), ErrInvalidRPE},
		{"rpe high", 100, 5, rpe(11), ErrInvalidRPE},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateSetValues(tt.weight, tt.reps, tt.rpe); !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestFollowUp(t *testing.T) {
	bench := NewExercise("Bench", CategoryCompound, MuscleChest)

	t.Run("keeps the drop ratio", func(t *testing.T) {
		w := NewWorkout("Push")
		w.AddSet(bench, 95, 10).AsWarmup()
		w.AddSet(bench, 225, 5).WithRPE(9)
		w.AddSet(bench, 185, 8)

		next := w.FollowUp(0.025)
		if next.Name != "Follow-up: Push" {
			t.Errorf("Name = %s", next.Name)
		}
		sets := next.SetsFor(bench.ID)
		if len(sets) != 2 {
			t.Fatalf("got %d sets, want 2", len(sets))
		}
		if sets[0].Weight != 230 || sets[1].Weight != 190 {
			t.Errorf("weights = %v, %v; want 230, 190", sets[0].Weight, sets[1].Weight)
		}
		if sets[0].Reps != 5 || sets[1].Reps != 8 {
			t.Error("reps should be copied")
		}
		if sets[0].RPE == nil || *sets[0].RPE != 9 {
			t.Error("RPE should be copied")
		}
	})

	t.Run("zero top set skips later slots", func(t *testing.T) {
		w := NewWorkout("Push")
		w.AddSet(bench, 0, 8)
		w.AddSet(bench, 0, 10)

		sets := w.FollowUp(0.025).SetsFor(bench.ID)
		if len(sets) != 1 || sets[0].Weight != 0 {
			t.Errorf("got %d sets, want only slot 1 at 0", len(sets))
		}
	})

	t.Run("keeps template name", func(t *testing.T) {
		w := NewWorkout("Push").FromTemplate("Upper Body RPT")
		next := w.FollowUp(DefaultFollowUpIncrease)
		if next.StartedFromTemplate == nil || *next.StartedFromTemplate != "Upper Body RPT" {
			t.Error("expected template name to carry over")
		}
	})
}

func TestSetSuggestedSets(t *testing.T) {
	te := DefaultTemplateExercise("Bench")
	te.SetSuggestedSets(5)

	if len(te.RepRanges) != 5 {
		t.Fatalf("got %d ranges, want 5", len(te.RepRanges))
	}
	wantRanges := [][2]int{{6, 8}, {8, 10}, {10, 12}, {12, 14}, {14, 16}}
	wantPct := []float64{1.0, 0.9, 0.8, 0.7, 0.6}
	for i, r := range te.RepRanges {
		if r.SetNumber != i+1 {
			t.Errorf("range %d has set number %d", i, r.SetNumber)
		}
		if r.MinReps != wantRanges[i][0] || r.MaxReps != wantRanges[i][1] {
			t.Errorf("set %d reps = %d-%d, want %d-%d", i+1, r.MinReps, r.MaxReps, wantRanges[i][0], wantRanges[i][1])
		}
		if r.PercentageOfFirstSet == nil || !nearly(*r.PercentageOfFirstSet, wantPct[i]) {
			t.Errorf("set %d pct = %v, want %v", i+1, r.PercentageOfFirstSet, wantPct[i])
		}
	}

	te.SetSuggestedSets(2)
	if len(te.RepRanges) != 2 || te.RepRanges[1].MinReps != 8 {
		t.Errorf("shrinking should keep the first two ranges, got %+v", te.RepRanges)
	}
}

func TestSetSuggestedSetsKeepsCustomRanges(t *testing.T) {
	te := NewTemplateExercise("Bench", 3, []TemplateRepRange{
		{SetNumber: 1, MinReps: 3, MaxReps: 5, PercentageOfFirstSet: percent(1.0)},
		{SetNumber: 2, MinReps: 5, MaxReps: 7, PercentageOfFirstSet: percent(0.85)},
		{SetNumber: 3, MinReps: 7, MaxReps: 9, PercentageOfFirstSet: percent(0.75)},
	}, "")
	te.SetSuggestedSets(5)

	if len(te.RepRanges) != 5 {
		t.Fatalf("got %d ranges, want 5", len(te.RepRanges))
	}
	wantRanges := [][2]int{{3, 5}, {5, 7}, {7, 9}, {12, 14}, {14, 16}}
	wantPct := []float64{1.0, 0.85, 0.75, 0.7, 0.6}
	for i, r := range te.RepRanges {
		if r.MinReps != wantRanges[i][0] || r.MaxReps != wantRanges[i][1] {
			t.Errorf("set %d reps = %d-%d, want %d-%d", i+1, r.MinReps, r.MaxReps, wantRanges[i][0], wantRanges[i][1])
		}
		if r.PercentageOfFirstSet == nil || !nearly(*r.PercentageOfFirstSet, wantPct[i]) {
			t.Errorf("set %d pct = %v, want %v", i+1, r.PercentageOfFirstSet, wantPct[i])
		}
	}

	te.SetSuggestedSets(2)
	if len(te.RepRanges) != 2 || te.RepRanges[1].MinReps != 5 || !nearly(*te.RepRanges[1].PercentageOfFirstSet, 0.85) {
		t.Errorf("shrinking should keep the custom first two ranges, got %+v", te.RepRanges)
	}
}

func TestDefaultRepRangeCaps(t *testing.T) {
	r := DefaultRepRange(10)
	if r.MinReps != 15 || r.MaxReps != 20 {
		t.Errorf("reps = %d-%d, want 15-20", r.MinReps, r.MaxReps)
	}
	if *r.PercentageOfFirstSet != 0.5 {
		t.Errorf("pct = %v, want 0.5", *r.PercentageOfFirstSet)
	}
}

func TestInstantiate(t *testing.T) {
	bench := NewExercise("Barbell Bench Press", CategoryCompound, MuscleChest)
	pull := NewExercise("Pull-up", CategoryCompound, MuscleBack)
	lookup := func(name string) *Exercise {
		switch name {
		case bench.Name:
			return bench
		case pull.Name:
			return pull
		}
		return nil
	}

	tmpl := DefaultTemplates()[0]
	tmpl.AddExercise("Unknown Move")
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	w := tmpl.Instantiate(lookup, now)

	if len(w.Sets) != 6 {
		t.Fatalf("got %d sets, want 6", len(w.Sets))
	}
	if w.StartedFromTemplate == nil || *w.StartedFromTemplate != "Upper Body RPT" {
		t.Error("expected template name")
	}
	if w.Sets[0].Reps != 5 || w.Sets[0].Weight != 0 {
		t.Errorf("first set = %v x %d, want 0 x 5", w.Sets[0].Weight, w.Sets[0].Reps)
	}
	if !w.Sets[4].CompletedAt.Equal(now.Add(time.Second + 100*time.Millisecond)) {
		t.Errorf("pull-up set 2 stamped %v", w.Sets[4].CompletedAt)
	}
	for i := 1; i < len(w.Sets); i++ {
		if !w.Sets[i].CompletedAt.After(w.Sets[i-1].CompletedAt) {
			t.Errorf("set %d is not after set %d", i, i-1)
		}
	}
}

func TestSettingsValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Settings)
		want   error
	}{
		{"defaults", func(*Settings) {}, nil},
		{"empty drops", func(s *Settings) { s.RPTPercentageDrops = nil }, ErrEmptyDrops},
		{"first not zero", func(s *Settings) { s.RPTPercentageDrops = []float64{0.1} }, ErrFirstDropNonZero},
		{"drop over one", func(s *Settings) { s.RPTPercentageDrops = []float64{0, 1.5} }, ErrDropOutOfRange},
		{"rest zero", func(s *Settings) { s.RestTimerDuration = 0 }, ErrRestOutOfRange},
		{"rest too long", func(s *Settings) { s.RestTimerDuration = 3601 }, ErrRestOutOfRange},
		{"unit", func(s *Settings) { s.Unit = "stone" }, ErrUnknownUnit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.mutate(&s)
			if err := s.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func nearly(a, b float64) bool {
	d := a - b
	return d < 1e-9 && d > -1e-9
}

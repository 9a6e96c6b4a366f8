// ABOUTME: Builtin exercise catalog seeded on first launch.
// ABOUTME: Also provides the default "Upper Body RPT" template.
package models

type catalogEntry struct {
	name         string
	category     Category
	primary      []MuscleGroup
	secondary    []MuscleGroup
	instructions string
}

var builtinCatalog = []catalogEntry{
	{"Barbell Bench Press", CategoryCompound, []MuscleGroup{MuscleChest}, []MuscleGroup{MuscleTriceps, MuscleShoulders}, "Lie on a bench and press the barbell from chest to full extension."},
	{"Barbell Squat", CategoryCompound, []MuscleGroup{MuscleQuadriceps}, []MuscleGroup{MuscleGlutes, MuscleHamstrings, MuscleLowerBack}, "Place bar on upper back, squat down until thighs are parallel to floor, then stand up."},
	{"Deadlift", CategoryCompound, []MuscleGroup{MuscleBack, MuscleHamstrings}, []MuscleGroup{MuscleGlutes, MuscleQuadriceps, MuscleTraps, MuscleForearms}, "Bend at hips and knees to grab bar, then stand up straight while keeping back flat."},
	{"Overhead Press", CategoryCompound, []MuscleGroup{MuscleShoulders}, []MuscleGroup{MuscleTriceps, MuscleTraps}, "Press barbell from shoulders to overhead with straight arms."},
	{"Pull-up", CategoryCompound, []MuscleGroup{MuscleBack}, []MuscleGroup{MuscleBiceps, MuscleShoulders}, "Hang from bar and pull yourself up until chin is over the bar."},
	{"Barbell Row", CategoryCompound, []MuscleGroup{MuscleBack}, []MuscleGroup{MuscleBiceps, MuscleShoulders, MuscleTraps}, "Bend at hips with back flat, pull barbell to lower chest."},
	{"Dip", CategoryCompound, []MuscleGroup{MuscleChest, MuscleTriceps}, []MuscleGroup{MuscleShoulders}, "Support yourself on parallel bars, lower body until upper arms are parallel to floor, then push up."},
	{"Bicep Curl", CategoryIsolation, []MuscleGroup{MuscleBiceps}, []MuscleGroup{MuscleForearms}, "Curl weight from full extension to full flexion."},
	{"Tricep Extension", CategoryIsolation, []MuscleGroup{MuscleTriceps}, nil, "Extend arms from flexed position to straight position."},
	{"Leg Extension", CategoryIsolation, []MuscleGroup{MuscleQuadriceps}, nil, "Extend knees from 90 degrees to full extension."},
	{"Leg Curl", CategoryIsolation, []MuscleGroup{MuscleHamstrings}, nil, "Curl legs from straight position to full flexion."},
	{"Lateral Raise", CategoryIsolation, []MuscleGroup{MuscleShoulders}, nil, "Raise arms out to sides until parallel with floor."},
	{"Calf Raise", CategoryIsolation, []MuscleGroup{MuscleCalves}, nil, "Raise heels off ground by extending ankles."},
	{"Push-up", CategoryBodyweight, []MuscleGroup{MuscleChest}, []MuscleGroup{MuscleTriceps, MuscleShoulders}, "Lower body to ground and push back up with arms."},
	{"Body Weight Squat", CategoryBodyweight, []MuscleGroup{MuscleQuadriceps}, []MuscleGroup{MuscleGlutes, MuscleHamstrings}, "Squat down until thighs are parallel to floor, then stand up."},
	{"Lunge", CategoryBodyweight, []MuscleGroup{MuscleQuadriceps}, []MuscleGroup{MuscleGlutes, MuscleHamstrings}, "Step forward and lower body until both knees are at 90 degrees, then push back up."},
}

// BuiltinExercises returns fresh copies of the builtin catalog.
func BuiltinExercises() []*Exercise {
	out := make([]*Exercise, 0, len(builtinCatalog))
	for _, c := range builtinCatalog {
		out = append(out, NewExercise(c.name, c.category, c.primary...).
			WithSecondary(c.secondary...).
			WithInstructions(c.instructions))
	}
	return out
}

// DefaultTemplates returns the templates seeded alongside the catalog.
func DefaultTemplates() []*WorkoutTemplate {
	pattern := func(firstMin, firstMax int) []TemplateRepRange {
		return []TemplateRepRange{
			{SetNumber: 1, MinReps: firstMin, MaxReps: firstMax, PercentageOfFirstSet: percent(1.0)},
			{SetNumber: 2, MinReps: firstMin + 2, MaxReps: firstMax + 2, PercentageOfFirstSet: percent(0.9)},
			{SetNumber: 3, MinReps: firstMin + 4, MaxReps: firstMax + 4, PercentageOfFirstSet: percent(0.8)},
		}
	}

	upper := NewWorkoutTemplate("Upper Body RPT")
	upper.Notes = "Rest 2-3 minutes between exercises"
	upper.Exercises = []TemplateExercise{
		NewTemplateExercise("Barbell Bench Press", 3, pattern(4, 6), "Focus on chest contraction"),
		NewTemplateExercise("Pull-up", 3, pattern(6, 8), "Add weight if needed"),
	}
	return []*WorkoutTemplate{upper}
}

func percent(v float64) *float64 {
	return &v
}

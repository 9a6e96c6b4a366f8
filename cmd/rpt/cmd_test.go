// ABOUTME: Tests for CLI helper functions and command execution.
// ABOUTME: Runs commands against a temp XDG data directory and checks stored state.
package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/harperreed/rpt/internal/kvstore"
	"github.com/harperreed/rpt/internal/lifecycle"
	"github.com/harperreed/rpt/internal/models"
	"github.com/harperreed/rpt/internal/settings"
	"github.com/harperreed/rpt/internal/storage"
	"github.com/harperreed/rpt/internal/uistate"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{"shorter than max", "Push", 10, "Push"},
		{"exactly max", "Push Day", 8, "Push Day"},
		{"longer than max", "Upper Body RPT Day", 10, "Upper B..."},
		{"multibyte", "Überkopfdrücken", 8, "Überk..."},
		{"tiny max", "Bench", 2, "Be"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncate(tt.input, tt.maxLen); got != tt.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
			}
		})
	}
}

func TestPadRight(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		length int
		want   string
	}{
		{"pads short", "abc", 6, "abc   "},
		{"exact", "abcdef", 6, "abcdef"},
		{"longer unchanged", "abcdefgh", 6, "abcdefgh"},
		{"counts runes", "→", 3, "→  "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := padRight(tt.input, tt.length); got != tt.want {
				t.Errorf("padRight(%q, %d) = %q, want %q", tt.input, tt.length, got, tt.want)
			}
		})
	}
}

func TestParseDrops(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    []float64
		wantErr bool
	}{
		{"separate args", []string{"0", "10", "15"}, []float64{0, 0.1, 0.15}, false},
		{"comma list", []string{"0,10,20"}, []float64{0, 0.1, 0.2}, false},
		{"percent signs", []string{"0%", "12.5%"}, []float64{0, 0.125}, false},
		{"invalid", []string{"0", "ten"}, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseDrops(tt.args)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseDrops() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if len(got) != len(tt.want) {
				t.Fatalf("parseDrops() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if diff := got[i] - tt.want[i]; diff > 1e-9 || diff < -1e-9 {
					t.Errorf("drop %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestFormatDrops(t *testing.T) {
	if got := formatDrops([]float64{0, 0.1, 0.15}); got != "0%, 10%, 15%" {
		t.Errorf("formatDrops = %q", got)
	}
}

func TestFormatDropChain(t *testing.T) {
	ex := models.NewExercise("Bench", models.CategoryCompound, models.MuscleChest)
	w := models.NewWorkout("Push")
	for _, weight := range []float64{200, 180, 160, 160, 182.5} {
		w.AddSet(ex, weight, 5)
	}
	if got := formatDropChain(w.Sets, "lb"); got != "180 → 160 → 160 → 182.5 lb" {
		t.Errorf("formatDropChain = %q", got)
	}
	if got := formatDropChain(w.Sets[:1], "lb"); got != "no drop sets" {
		t.Errorf("formatDropChain single set = %q", got)
	}
}

func TestRootCmdFlags(t *testing.T) {
	if rootCmd.Use != "rpt" {
		t.Errorf("rootCmd.Use = %q, want %q", rootCmd.Use, "rpt")
	}
	for _, name := range []string{"verbose", "data-dir"} {
		if rootCmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("Expected --%s flag on root command", name)
		}
	}
}

func TestCommandTree(t *testing.T) {
	want := map[*cobra.Command][]string{
		workoutCmd:  {"start", "resume", "show", "list", "complete", "discard", "rename", "followup"},
		setCmd:      {"add-exercise", "add", "update", "delete", "drop"},
		exerciseCmd: {"list", "add", "delete", "done", "expand"},
		templateCmd: {"list", "show", "create", "start", "sets", "import", "export"},
		settingsCmd: {"show", "rest", "drops", "rpe", "unit", "reset", "sync"},
	}
	for parent, names := range want {
		have := make(map[string]bool)
		for _, c := range parent.Commands() {
			have[c.Name()] = true
		}
		for _, name := range names {
			if !have[name] {
				t.Errorf("%s is missing subcommand %q", parent.Name(), name)
			}
		}
	}

	top := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		top[c.Name()] = true
	}
	for _, name := range []string{"workout", "set", "exercise", "template", "settings", "history", "stats", "timer", "export", "import", "mcp", "install-skill"} {
		if !top[name] {
			t.Errorf("Expected %s command to be registered", name)
		}
	}
}

func TestExportCmdValidArgs(t *testing.T) {
	expected := map[string]bool{"json": false, "yaml": false, "markdown": false}
	for _, arg := range exportCmd.ValidArgs {
		expected[arg] = true
	}
	for arg, found := range expected {
		if !found {
			t.Errorf("Expected %q in exportCmd.ValidArgs", arg)
		}
	}
}

// setupTestCLI points XDG_DATA_HOME and XDG_CONFIG_HOME at temp dirs and
// returns the rpt data directory.
func setupTestCLI(t *testing.T) string {
	t.Helper()

	tmpDir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", filepath.Join(tmpDir, "data"))
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "config"))
	t.Setenv("RPT_DATA_DIR", "")
	t.Setenv("RPT_KV_BACKEND", "")
	t.Setenv("RPT_UNIT", "")
	t.Cleanup(func() { _ = closeResources() })

	return filepath.Join(tmpDir, "data", "rpt")
}

// resetFlags clears flag state left over from earlier executions.
func resetFlags(c *cobra.Command) {
	c.Flags().VisitAll(func(f *pflag.Flag) { f.Changed = false })
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
	workoutTemplate, workoutID, workoutShowAll = "", "", false
	setWorkoutID, setRPE, setPropagate, setRest = "", 0, false, false
	exerciseWorkoutID, exerciseLibrary = "", false
	exercisePrimary, exerciseSecondary = nil, nil
	templateExercises, templateNotes, templateStartName = nil, "", ""
	exportOutput, exportSince = "", ""
	dataDir = ""
}

func run(t *testing.T, args ...string) error {
	t.Helper()
	resetFlags(rootCmd)
	rootCmd.SetArgs(args)
	return Execute()
}

func mustRun(t *testing.T, args ...string) {
	t.Helper()
	if err := run(t, args...); err != nil {
		t.Fatalf("rpt %v failed: %v", args, err)
	}
}

func openTestDB(t *testing.T, dir string) *storage.DB {
	t.Helper()
	db, err := storage.Open(filepath.Join(dir, "rpt.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// withKV opens the Badger store between command runs.
func withKV(t *testing.T, dir string, fn func(kv kvstore.Store)) {
	t.Helper()
	store, err := kvstore.OpenBadger(filepath.Join(dir, "kv"))
	if err != nil {
		t.Fatalf("Failed to open kv store: %v", err)
	}
	defer store.Close()
	fn(store)
}

func onlyWorkout(t *testing.T, db *storage.DB) *models.Workout {
	t.Helper()
	workouts, err := db.RecentWorkouts(0)
	if err != nil {
		t.Fatalf("RecentWorkouts failed: %v", err)
	}
	if len(workouts) != 1 {
		t.Fatalf("Expected 1 workout, got %d", len(workouts))
	}
	return workouts[0]
}

func weights(sets []*models.ExerciseSet) []float64 {
	out := make([]float64, len(sets))
	for i, s := range sets {
		out[i] = s.Weight
	}
	return out
}

func equalWeights(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestWorkoutFlow(t *testing.T) {
	dir := setupTestCLI(t)

	mustRun(t, "workout", "start", "Push")
	mustRun(t, "set", "add-exercise", "Barbell Bench Press")
	mustRun(t, "set", "update", "Barbell Bench Press#1", "200", "5", "--rpe", "8")
	mustRun(t, "set", "add", "Barbell Bench Press")
	mustRun(t, "set", "add", "Barbell Bench Press")

	db := openTestDB(t, dir)
	w := onlyWorkout(t, db)
	bench, err := db.GetExerciseByName("Barbell Bench Press")
	if err != nil {
		t.Fatal(err)
	}
	sets := w.SetsFor(bench.ID)
	if got := weights(sets); !equalWeights(got, []float64{200, 180, 170}) {
		t.Errorf("weights = %v, want [200 180 170]", got)
	}
	if sets[0].RPE == nil || *sets[0].RPE != 8 {
		t.Errorf("expected RPE 8 on the top set, got %v", sets[0].RPE)
	}
	if sets[1].Reps != 7 || sets[2].Reps != 9 {
		t.Errorf("reps = %d, %d, want 7, 9", sets[1].Reps, sets[2].Reps)
	}

	mustRun(t, "set", "update", "Barbell Bench Press#1", "220", "5", "--propagate")
	w = onlyWorkout(t, db)
	sets = w.SetsFor(bench.ID)
	if got := weights(sets); !equalWeights(got, []float64{220, 200, 185}) {
		t.Errorf("weights after propagate = %v, want [220 200 185]", got)
	}
	if sets[0].RPE == nil || *sets[0].RPE != 8 {
		t.Error("updating without --rpe should keep the stored RPE")
	}

	mustRun(t, "exercise", "done", "Barbell Bench Press")
	withKV(t, dir, func(kv kvstore.Store) {
		st, err := uistate.New(kv).Load(w.ID)
		if err != nil {
			t.Fatal(err)
		}
		if len(st.Completed) != 1 || st.Completed[0] != bench.ID {
			t.Errorf("expected bench marked done, got %v", st.Completed)
		}
	})

	mustRun(t, "workout", "complete")
	w = onlyWorkout(t, db)
	if !w.IsCompleted {
		t.Error("expected workout to be completed")
	}
	withKV(t, dir, func(kv kvstore.Store) {
		keys, err := kv.Keys("session:")
		if err != nil {
			t.Fatal(err)
		}
		if len(keys) != 0 {
			t.Errorf("expected session state cleared, got %v", keys)
		}
	})

	if err := run(t, "set", "add", "Barbell Bench Press"); !errors.Is(err, errNoActiveWorkout) {
		t.Errorf("expected errNoActiveWorkout after completing, got %v", err)
	}
}

func TestDeleteSetAndExercise(t *testing.T) {
	dir := setupTestCLI(t)

	mustRun(t, "workout", "start")
	mustRun(t, "set", "add-exercise", "Deadlift")
	mustRun(t, "set", "add", "Deadlift")
	mustRun(t, "set", "add-exercise", "Pull-up")
	mustRun(t, "set", "delete", "Deadlift#2")

	db := openTestDB(t, dir)
	w := onlyWorkout(t, db)
	if len(w.Sets) != 2 {
		t.Fatalf("Expected 2 sets, got %d", len(w.Sets))
	}

	if err := run(t, "set", "delete", "Deadlift#5"); err == nil {
		t.Error("expected error for a missing slot")
	}

	mustRun(t, "exercise", "delete", "Pull-up")
	w = onlyWorkout(t, db)
	if len(w.Sets) != 1 || w.Sets[0].Exercise.Name != "Deadlift" {
		t.Errorf("expected only the deadlift set, got %+v", w.Sets)
	}
}

func TestDiscard(t *testing.T) {
	dir := setupTestCLI(t)

	mustRun(t, "workout", "start", "Throwaway")
	mustRun(t, "workout", "discard")

	db := openTestDB(t, dir)
	workouts, err := db.RecentWorkouts(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(workouts) != 0 {
		t.Errorf("expected discarded workout to be deleted, got %d", len(workouts))
	}
	withKV(t, dir, func(kv kvstore.Store) {
		if !lifecycle.New(kv).WasAnyDiscarded() {
			t.Error("expected the discard flag to be set")
		}
	})

	mustRun(t, "workout", "resume")
	if err := run(t, "set", "add-exercise", "Deadlift"); !errors.Is(err, errNoActiveWorkout) {
		t.Errorf("expected errNoActiveWorkout, got %v", err)
	}

	mustRun(t, "workout", "start", "Fresh")
	withKV(t, dir, func(kv kvstore.Store) {
		if lifecycle.New(kv).WasAnyDiscarded() {
			t.Error("starting a workout should clear the discard flag")
		}
	})
}

func TestRename(t *testing.T) {
	dir := setupTestCLI(t)

	mustRun(t, "workout", "start", "Push")
	mustRun(t, "workout", "rename", "Heavy Push")

	w := onlyWorkout(t, openTestDB(t, dir))
	if w.Name != "Heavy Push" {
		t.Errorf("Name = %q, want %q", w.Name, "Heavy Push")
	}
	if err := run(t, "workout", "rename", ""); err == nil {
		t.Error("expected error renaming to an empty name")
	}
}

func TestTemplateCommands(t *testing.T) {
	dir := setupTestCLI(t)
	file := filepath.Join(t.TempDir(), "templates.yaml")

	mustRun(t, "template", "create", "Legs", "--exercise", "Barbell Squat", "--exercise", "Leg Curl")
	mustRun(t, "template", "sets", "Legs", "Barbell Squat", "4")
	mustRun(t, "template", "export", file, "Legs")
	mustRun(t, "template", "delete", "Legs")

	if err := run(t, "template", "show", "Legs"); err == nil {
		t.Error("expected deleted template to be gone")
	}

	mustRun(t, "template", "import", file)
	db := openTestDB(t, dir)
	tmpl, err := db.GetTemplate("Legs")
	if err != nil {
		t.Fatalf("GetTemplate failed: %v", err)
	}
	if len(tmpl.Exercises) != 2 || tmpl.Exercises[0].SuggestedSets != 4 || len(tmpl.Exercises[0].RepRanges) != 4 {
		t.Errorf("unexpected imported template: %+v", tmpl.Exercises)
	}

	mustRun(t, "template", "start", "Legs")
	w := onlyWorkout(t, db)
	if len(w.Sets) != 7 {
		t.Errorf("Expected 7 sets from the template, got %d", len(w.Sets))
	}
	if w.StartedFromTemplate == nil || *w.StartedFromTemplate != "Legs" {
		t.Errorf("expected template name recorded, got %v", w.StartedFromTemplate)
	}
}

func TestFollowUp(t *testing.T) {
	dir := setupTestCLI(t)

	mustRun(t, "workout", "start", "Pull")
	mustRun(t, "set", "add-exercise", "Barbell Row")
	mustRun(t, "set", "update", "Barbell Row#1", "200", "6")
	mustRun(t, "set", "add", "Barbell Row")
	mustRun(t, "workout", "complete")

	db := openTestDB(t, dir)
	prev := onlyWorkout(t, db)
	mustRun(t, "workout", "followup", prev.ID.String()[:8], "--increase", "5")

	workouts, err := db.RecentWorkouts(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(workouts) != 2 {
		t.Fatalf("Expected 2 workouts, got %d", len(workouts))
	}
	var next *models.Workout
	for _, w := range workouts {
		if !w.IsCompleted {
			next = w
		}
	}
	if next == nil {
		t.Fatal("expected an open follow-up workout")
	}
	if got := weights(next.Sets); !equalWeights(got, []float64{210, 190}) {
		t.Errorf("follow-up weights = %v, want [210 190]", got)
	}
}

func TestSettingsCommands(t *testing.T) {
	dir := setupTestCLI(t)

	mustRun(t, "settings", "drops", "0", "10", "20")
	mustRun(t, "settings", "rest", "120")
	mustRun(t, "settings", "rpe", "off")
	mustRun(t, "settings", "show")

	withKV(t, dir, func(kv kvstore.Store) {
		s, err := settings.New(kv, nil).Load()
		if err != nil {
			t.Fatal(err)
		}
		if s.RestTimerDuration != 120 || s.ShowRPE || len(s.RPTPercentageDrops) != 3 {
			t.Errorf("unexpected settings: %+v", s)
		}
	})

	if err := run(t, "settings", "drops", "10", "20"); err == nil {
		t.Error("expected error when the first drop is not 0")
	}
	if err := run(t, "settings", "rest", "0"); err == nil {
		t.Error("expected error for a zero rest timer")
	}
	if err := run(t, "settings", "rpe", "maybe"); err == nil {
		t.Error("expected error for an invalid rpe value")
	}

	// The default badger backend is local-only, so sync is a no-op.
	mustRun(t, "settings", "sync")

	mustRun(t, "settings", "reset")
	withKV(t, dir, func(kv kvstore.Store) {
		s, err := settings.New(kv, nil).Load()
		if err != nil {
			t.Fatal(err)
		}
		if s.RestTimerDuration != models.DefaultRestSeconds {
			t.Errorf("expected defaults after reset, got %+v", s)
		}
	})
}

func TestSettingsDropsApplyToNextSet(t *testing.T) {
	dir := setupTestCLI(t)

	mustRun(t, "settings", "drops", "0", "20")
	mustRun(t, "workout", "start")
	mustRun(t, "set", "add-exercise", "Overhead Press")
	mustRun(t, "set", "update", "Overhead Press#1", "100", "5")
	mustRun(t, "set", "add", "Overhead Press")

	w := onlyWorkout(t, openTestDB(t, dir))
	if got := weights(w.Sets); !equalWeights(got, []float64{100, 80}) {
		t.Errorf("weights = %v, want [100 80]", got)
	}
}

func TestSetDropCoversFallbackSlots(t *testing.T) {
	dir := setupTestCLI(t)

	mustRun(t, "settings", "drops", "0", "10", "20")
	mustRun(t, "workout", "start")
	mustRun(t, "set", "add-exercise", "Overhead Press")
	mustRun(t, "set", "update", "Overhead Press#1", "100", "5")
	for i := 0; i < 4; i++ {
		mustRun(t, "set", "add", "Overhead Press")
	}
	mustRun(t, "set", "drop", "Overhead Press", "200")

	// Slots past the three-entry table use the fallback drops.
	w := onlyWorkout(t, openTestDB(t, dir))
	if got := weights(w.Sets); !equalWeights(got, []float64{100, 180, 160, 160, 180}) {
		t.Errorf("weights = %v, want [100 180 160 160 180]", got)
	}
	if got := formatDropChain(w.Sets, "lb"); got != "180 → 160 → 160 → 180 lb" {
		t.Errorf("drop chain = %q", got)
	}
}

func TestExportImport(t *testing.T) {
	dir := setupTestCLI(t)
	out := filepath.Join(t.TempDir(), "backup.json")

	mustRun(t, "workout", "start", "Push")
	mustRun(t, "set", "add-exercise", "Dip")
	mustRun(t, "set", "update", "Dip#1", "45", "8")
	mustRun(t, "export", "json", "-o", out)
	mustRun(t, "export", "markdown")

	if _, err := os.Stat(out); err != nil {
		t.Fatalf("export file not written: %v", err)
	}
	prev := onlyWorkout(t, openTestDB(t, dir))

	// Import into a fresh data directory.
	other := filepath.Join(t.TempDir(), "other")
	mustRun(t, "--data-dir", other, "import", out)

	w := onlyWorkout(t, openTestDB(t, other))
	if w.ID != prev.ID || len(w.Sets) != 1 || w.Sets[0].Weight != 45 {
		t.Errorf("unexpected imported workout: %+v", w)
	}
}

func TestHistoryAndStats(t *testing.T) {
	setupTestCLI(t)

	mustRun(t, "workout", "start")
	mustRun(t, "set", "add-exercise", "Barbell Squat")
	mustRun(t, "set", "update", "Barbell Squat#1", "300", "5")
	mustRun(t, "workout", "complete")

	mustRun(t, "history", "Barbell Squat")
	mustRun(t, "stats", "--timeframe", "all")
	if err := run(t, "stats", "--timeframe", "decade"); err == nil {
		t.Error("expected error for an unknown timeframe")
	}
	if err := run(t, "history", "Underwater Basket Weaving"); err == nil {
		t.Error("expected error for an unknown exercise")
	}
}

func TestCustomExercise(t *testing.T) {
	dir := setupTestCLI(t)

	mustRun(t, "exercise", "add", "Landmine Press", "--category", "compound", "--primary", "shoulders", "--secondary", "chest,triceps")
	mustRun(t, "exercise", "list", "--custom")

	db := openTestDB(t, dir)
	e, err := db.GetExerciseByName("Landmine Press")
	if err != nil {
		t.Fatalf("custom exercise not created: %v", err)
	}
	if !e.IsCustom || e.Category != models.CategoryCompound || len(e.SecondaryMuscleGroups) != 2 {
		t.Errorf("unexpected exercise: %+v", e)
	}

	if err := run(t, "exercise", "add", "Bad", "--primary", "elbows"); err == nil {
		t.Error("expected error for an unknown muscle group")
	}
	if err := run(t, "exercise", "delete", "Deadlift", "--library"); err == nil {
		t.Error("expected error deleting a builtin exercise")
	}

	mustRun(t, "exercise", "delete", "Landmine Press", "--library")
	if _, err := db.GetExerciseByName("Landmine Press"); err == nil {
		t.Error("expected custom exercise to be deleted")
	}
}

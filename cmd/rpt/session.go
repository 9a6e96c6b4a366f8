// ABOUTME: Helpers that open the active session engine for CLI commands.
// ABOUTME: Resolves workouts, sets and exercises and persists per-session view state.
package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/rpt/internal/lifecycle"
	"github.com/harperreed/rpt/internal/models"
	"github.com/harperreed/rpt/internal/session"
	"github.com/harperreed/rpt/internal/uistate"
)

var errNoActiveWorkout = errors.New("no active workout (start one with 'rpt workout start')")

func engineOptions() []session.Option {
	return []session.Option{
		session.WithLogger(logger),
		session.WithFeedback(session.NewBellFeedback(os.Stdout)),
	}
}

// openSession loads the workout with the given ID prefix, or the resumable
// workout when id is empty, and restores its view state.
func openSession(id string) (*session.Engine, error) {
	var w *models.Workout
	if id == "" {
		r, err := lifecycle.FindResumable(repo, life)
		if err != nil {
			return nil, fmt.Errorf("failed to find active workout: %w", err)
		}
		if r == nil {
			return nil, errNoActiveWorkout
		}
		w = r
	} else {
		found, err := repo.GetWorkout(id)
		if err != nil {
			return nil, fmt.Errorf("workout not found: %s", id)
		}
		w = found
	}
	if w.IsCompleted {
		return nil, fmt.Errorf("workout %s is already completed", w.ID.String()[:8])
	}

	e := session.New(w, repo, prefs, life, engineOptions()...)
	st, err := ui.Load(w.ID)
	if err != nil {
		logger.Warn("could not load session view state", "err", err)
	}
	e.RestoreUIState(st.Completed, st.Expanded)
	return e, nil
}

// saveView persists the engine's completed and expanded exercises.
func saveView(e *session.Engine) {
	st := uistate.State{Completed: e.CompletedExercises(), Expanded: e.ExpandedExercises()}
	if err := ui.Save(e.Workout().ID, st); err != nil {
		color.Yellow("⚠ Could not save view state: %v", err)
	}
}

// clearView drops view state for a session that is finished or gone.
func clearView(e *session.Engine) {
	if err := ui.Clear(e.Workout().ID); err != nil {
		logger.Warn("could not clear session view state", "err", err)
	}
}

// findExercise resolves an exercise by name or ID prefix.
func findExercise(nameOrID string) (*models.Exercise, error) {
	exercise, err := repo.FindExercise(nameOrID)
	if err != nil {
		return nil, fmt.Errorf("exercise not found: %s", nameOrID)
	}
	return exercise, nil
}

// sessionExercise resolves an exercise that must already be in the session.
func sessionExercise(e *session.Engine, nameOrID string) (*models.Exercise, error) {
	exercise, err := findExercise(nameOrID)
	if err != nil {
		return nil, err
	}
	if len(e.SetsFor(exercise.ID)) == 0 {
		return nil, fmt.Errorf("%s is not in this workout", exercise.Name)
	}
	return exercise, nil
}

// findSet resolves a set reference: a set ID prefix, or "<exercise>#<slot>"
// with a 1-based slot.
func findSet(e *session.Engine, ref string) (*models.ExerciseSet, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, errors.New("set reference is required")
	}
	if i := strings.LastIndex(ref, "#"); i > 0 {
		slot, err := strconv.Atoi(ref[i+1:])
		if err != nil {
			return nil, fmt.Errorf("invalid slot in %q", ref)
		}
		exercise, err := sessionExercise(e, ref[:i])
		if err != nil {
			return nil, err
		}
		sets := e.SetsFor(exercise.ID)
		if slot < 1 || slot > len(sets) {
			return nil, fmt.Errorf("%s has %d sets, no set %d", exercise.Name, len(sets), slot)
		}
		return sets[slot-1], nil
	}

	prefix := strings.ToUpper(ref)
	var match *models.ExerciseSet
	for _, set := range e.Workout().Sets {
		if !strings.HasPrefix(set.ID.String(), prefix) {
			continue
		}
		if match != nil {
			return nil, fmt.Errorf("ambiguous set prefix: %s", ref)
		}
		match = set
	}
	if match == nil {
		return nil, fmt.Errorf("set not found: %s", ref)
	}
	return match, nil
}

// lookupExercise resolves template exercise names, skipping unknown ones.
func lookupExercise(name string) *models.Exercise {
	e, err := repo.GetExerciseByName(name)
	if err != nil {
		color.Yellow("⚠ %s is not in the exercise library, skipping", name)
		return nil
	}
	return e
}

// expandAll expands every exercise in the session.
func expandAll(e *session.Engine) {
	for _, ex := range e.ExerciseOrder() {
		if !e.IsExpanded(ex.ID) {
			_, _ = e.ToggleExpansion(ex)
		}
	}
}

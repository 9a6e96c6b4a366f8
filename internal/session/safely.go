// ABOUTME: Best-effort forms of the engine's mutating operations.
// ABOUTME: Each records the failure in LastError and reports success as a bool.
package session

import "github.com/harperreed/rpt/internal/models"

// AddExerciseSafely is AddExercise that reports success instead of an error.
func (e *Engine) AddExerciseSafely(exercise *models.Exercise) bool {
	return e.AddExercise(exercise) == nil
}

// AddSetSafely is AddSet that reports success instead of an error.
func (e *Engine) AddSetSafely(exercise *models.Exercise) bool {
	_, err := e.AddSet(exercise)
	return err == nil
}

// UpdateSetSafely is UpdateSet that reports success instead of an error.
func (e *Engine) UpdateSetSafely(set *models.ExerciseSet, weight float64, reps int, rpe *int) bool {
	return e.UpdateSet(set, weight, reps, rpe) == nil
}

// DeleteSetSafely is DeleteSet that reports success instead of an error.
func (e *Engine) DeleteSetSafely(set *models.ExerciseSet) bool {
	return e.DeleteSet(set) == nil
}

// DeleteExerciseSafely is DeleteExercise that reports success instead of an error.
func (e *Engine) DeleteExerciseSafely(exercise *models.Exercise) bool {
	return e.DeleteExercise(exercise) == nil
}

// PropagateDropSetsSafely is PropagateDropSets that reports success instead of an error.
func (e *Engine) PropagateDropSetsSafely(exercise *models.Exercise, firstSetWeight float64) bool {
	return e.PropagateDropSets(exercise, firstSetWeight) == nil
}

// RenameSafely is Rename that reports success instead of an error.
func (e *Engine) RenameSafely(name string) bool {
	return e.Rename(name) == nil
}

// SaveSafely is Save that reports success instead of an error.
func (e *Engine) SaveSafely() bool {
	return e.Save() == nil
}

// CompleteSafely is Complete that reports success instead of an error.
func (e *Engine) CompleteSafely() bool {
	return e.Complete() == nil
}

// DiscardSafely is Discard that reports success instead of an error.
func (e *Engine) DiscardSafely() bool {
	return e.Discard() == nil
}

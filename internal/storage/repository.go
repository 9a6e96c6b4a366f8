// ABOUTME: Repository interface for workout tracker storage.
// ABOUTME: Defines the contract for exercises, workouts, sets and templates.
package storage

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/rpt/internal/models"
)

var (
	// ErrNotFound is wrapped by every lookup that matches nothing.
	ErrNotFound = errors.New("not found")
	// ErrAmbiguous is wrapped when an ID prefix matches several records.
	ErrAmbiguous = errors.New("ambiguous prefix")
	// ErrBuiltinExercise is returned when editing or deleting a builtin exercise.
	ErrBuiltinExercise = errors.New("builtin exercises cannot be modified")
)

// Repository defines the storage interface for the tracker.
// This interface allows swapping implementations (e.g., for testing).
type Repository interface {
	// Exercise operations
	CreateExercise(e *models.Exercise) error
	GetExercise(idOrPrefix string) (*models.Exercise, error)
	GetExerciseByName(name string) (*models.Exercise, error)
	FindExercise(nameOrID string) (*models.Exercise, error)
	ListExercises(filter ExerciseFilter) ([]*models.Exercise, error)
	UpdateExercise(e *models.Exercise) error
	DeleteExercise(idOrPrefix string) error

	// Workout operations
	CreateWorkout(name string, fromTemplate *string) (*models.Workout, error)
	SaveWorkout(w *models.Workout) error
	GetWorkout(idOrPrefix string) (*models.Workout, error)
	DeleteWorkout(idOrPrefix string) error
	CompleteWorkout(w *models.Workout) error
	RecentWorkouts(limit int) ([]*models.Workout, error)
	IncompleteWorkouts() ([]*models.Workout, error)
	WorkoutsBetween(from, to time.Time) ([]*models.Workout, error)

	// History and progress
	WorkoutHistory(exerciseID uuid.UUID) ([]models.HistoryEntry, error)
	VolumeProgress(exerciseID uuid.UUID, since time.Time) ([]models.VolumePoint, error)
	OneRepMax(exerciseID uuid.UUID) (float64, error)
	Stats(tf models.Timeframe) (models.WorkoutStats, error)

	// Template operations
	SaveTemplate(t *models.WorkoutTemplate) error
	GetTemplate(idOrName string) (*models.WorkoutTemplate, error)
	ListTemplates() ([]*models.WorkoutTemplate, error)
	DeleteTemplate(idOrName string) error

	// Export/Import
	GetAllData() (*ExportData, error)
	ImportData(data *ExportData) error

	// Lifecycle
	Close() error
}

// ExerciseFilter narrows ListExercises. Zero values match everything.
type ExerciseFilter struct {
	Category   models.Category
	Muscle     models.MuscleGroup
	CustomOnly bool
	Search     string
}

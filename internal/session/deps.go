// ABOUTME: Collaborators the session engine depends on.
// ABOUTME: Storage, settings, the lifecycle coordinator and a feedback sink.
package session

import (
	"github.com/google/uuid"
	"github.com/harperreed/rpt/internal/models"
)

// Store is the slice of the repository the engine needs.
type Store interface {
	CreateWorkout(name string, fromTemplate *string) (*models.Workout, error)
	SaveWorkout(w *models.Workout) error
	DeleteWorkout(idOrPrefix string) error
	CompleteWorkout(w *models.Workout) error
	WorkoutHistory(exerciseID uuid.UUID) ([]models.HistoryEntry, error)
}

// Settings supplies user preferences. Values are read at use time.
type Settings interface {
	RestTimerDuration() int
	RPTPercentageDrops() []float64
	ShowRPE() bool
}

// Lifecycle records whether the last session was saved or discarded.
type Lifecycle interface {
	MarkSaved(id string) error
	MarkDiscarded(id string) error
}

// Event is a feedback notification.
type Event int

// Feedback events.
const (
	EventRestStarted Event = iota
	EventRestFinished
	EventSetLogged
	EventWorkoutCompleted
	EventWorkoutDiscarded
	EventError
)

func (e Event) String() string {
	switch e {
	case EventRestStarted:
		return "rest-started"
	case EventRestFinished:
		return "rest-finished"
	case EventSetLogged:
		return "set-logged"
	case EventWorkoutCompleted:
		return "workout-completed"
	case EventWorkoutDiscarded:
		return "workout-discarded"
	case EventError:
		return "error"
	}
	return "unknown"
}

// Feedback is a fire-and-forget sink for sounds, bells or haptics.
// Notify may be called from the rest timer goroutine.
type Feedback interface {
	Notify(Event)
}

// NopFeedback ignores every event.
type NopFeedback struct{}

// Notify does nothing.
func (NopFeedback) Notify(Event) {}

// ABOUTME: Decides whether a resumable workout should be offered.
// ABOUTME: A discarded session suppresses resumption until a new one starts.
package lifecycle

import (
	"fmt"

	"github.com/harperreed/rpt/internal/models"
)

// IncompleteSource lists workouts that are not completed, most recent first.
type IncompleteSource interface {
	IncompleteWorkouts() ([]*models.Workout, error)
}

// ShouldOfferResume is the single transition deciding whether to show the
// resume prompt.
func ShouldOfferResume(hasActive, wasDiscarded bool) bool {
	return hasActive && !wasDiscarded
}

// FindResumable returns the most recent incomplete workout, or nil when
// there is none or the last session was discarded.
func FindResumable(src IncompleteSource, c *Coordinator) (*models.Workout, error) {
	discarded := c.WasAnyDiscarded()
	if discarded {
		return nil, nil
	}
	workouts, err := src.IncompleteWorkouts()
	if err != nil {
		return nil, fmt.Errorf("find resumable workout: %w", err)
	}
	if !ShouldOfferResume(len(workouts) > 0, discarded) {
		return nil, nil
	}
	return workouts[0], nil
}

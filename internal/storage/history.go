// ABOUTME: Exercise history, volume progression, 1RM and timeframe stats queries.
// ABOUTME: Aggregation itself lives in models; this file gathers the rows.
package storage

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/rpt/internal/models"
	"github.com/harperreed/rpt/internal/rpt"
)

// WorkoutHistory returns one entry per workout containing the exercise,
// most recent first, with that exercise's sets ordered by CompletedAt
// (set ID breaks ties).
func (d *DB) WorkoutHistory(exerciseID uuid.UUID) ([]models.HistoryEntry, error) {
	workouts, err := d.queryWorkouts(`
		SELECT `+workoutColumns+` FROM workouts
		WHERE id IN (SELECT DISTINCT workout_id FROM exercise_sets WHERE exercise_id = ?)
		ORDER BY date DESC
	`, exerciseID.String())
	if err != nil {
		return nil, fmt.Errorf("workout history: %w", err)
	}

	history := make([]models.HistoryEntry, 0, len(workouts))
	for _, w := range workouts {
		sets := w.SetsFor(exerciseID)
		if len(sets) == 0 {
			continue
		}
		sort.SliceStable(sets, func(i, j int) bool {
			if !sets[i].CompletedAt.Equal(sets[j].CompletedAt) {
				return sets[i].CompletedAt.Before(sets[j].CompletedAt)
			}
			return sets[i].ID.Compare(sets[j].ID) < 0
		})
		history = append(history, models.HistoryEntry{Workout: w, Sets: sets})
	}
	return history, nil
}

// exerciseSets returns every set for the exercise completed at or after since.
func (d *DB) exerciseSets(exerciseID uuid.UUID, since time.Time) ([]*models.ExerciseSet, error) {
	history, err := d.WorkoutHistory(exerciseID)
	if err != nil {
		return nil, err
	}
	var out []*models.ExerciseSet
	for _, h := range history {
		for _, s := range h.Sets {
			if !since.IsZero() && s.CompletedAt.Before(since) {
				continue
			}
			out = append(out, s)
		}
	}
	return out, nil
}

// VolumeProgress returns the daily volume for an exercise since the given
// time, oldest first. A zero since returns everything.
func (d *DB) VolumeProgress(exerciseID uuid.UUID, since time.Time) ([]models.VolumePoint, error) {
	sets, err := d.exerciseSets(exerciseID, since)
	if err != nil {
		return nil, fmt.Errorf("volume progress: %w", err)
	}
	return models.VolumeByDay(sets), nil
}

// OneRepMax returns the highest estimated one-rep max across every set of
// the exercise, or 0 when there are none.
func (d *DB) OneRepMax(exerciseID uuid.UUID) (float64, error) {
	sets, err := d.exerciseSets(exerciseID, time.Time{})
	if err != nil {
		return 0, fmt.Errorf("one rep max: %w", err)
	}
	best := 0.0
	for _, s := range sets {
		if est := rpt.EstimateOneRepMax(s.Weight, s.Reps); est > best {
			best = est
		}
	}
	return best, nil
}

// Stats aggregates workouts dated within the timeframe.
func (d *DB) Stats(tf models.Timeframe) (models.WorkoutStats, error) {
	now := time.Now()
	workouts, err := d.WorkoutsBetween(tf.Since(now), now)
	if err != nil {
		return models.WorkoutStats{}, fmt.Errorf("workout stats: %w", err)
	}
	return models.ComputeStats(workouts), nil
}

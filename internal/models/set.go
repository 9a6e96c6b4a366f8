// ABOUTME: ExerciseSet model: one planned or performed set within a workout.
// ABOUTME: IDs are ULIDs so equal timestamps still sort in creation order.
package models

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// RPE bounds.
const (
	MinRPE = 1
	MaxRPE = 10
)

var (
	// ErrInvalidWeight is returned for negative or non-finite weights.
	ErrInvalidWeight = errors.New("weight must be a non-negative number")
	// ErrInvalidReps is returned for negative rep counts.
	ErrInvalidReps = errors.New("reps must be non-negative")
	// ErrInvalidRPE is returned for an RPE outside 1..10.
	ErrInvalidRPE = fmt.Errorf("rpe must be between %d and %d", MinRPE, MaxRPE)
)

// ExerciseSet is a single set. Exercise is nil when the referenced exercise
// has been deleted; the set itself survives.
type ExerciseSet struct {
	ID          ulid.ULID
	Weight      float64
	Reps        int
	CompletedAt time.Time
	IsWarmup    bool
	RPE         *int
	Notes       string
	Exercise    *Exercise
}

// NewExerciseSet creates a set stamped with the current time.
func NewExerciseSet(exercise *Exercise, weight float64, reps int) *ExerciseSet {
	return &ExerciseSet{
		ID:          ulid.Make(),
		Weight:      weight,
		Reps:        reps,
		CompletedAt: time.Now(),
		Exercise:    exercise,
	}
}

// WithCompletedAt overrides the completion timestamp.
func (s *ExerciseSet) WithCompletedAt(t time.Time) *ExerciseSet {
	s.CompletedAt = t
	return s
}

// WithRPE sets the rate of perceived exertion.
func (s *ExerciseSet) WithRPE(rpe int) *ExerciseSet {
	s.RPE = &rpe
	return s
}

// AsWarmup marks the set as a warmup.
func (s *ExerciseSet) AsWarmup() *ExerciseSet {
	s.IsWarmup = true
	return s
}

// ExerciseID returns the referenced exercise ID, if any.
func (s *ExerciseSet) ExerciseID() (uuid.UUID, bool) {
	if s.Exercise == nil {
		return uuid.Nil, false
	}
	return s.Exercise.ID, true
}

// Volume is weight times reps.
func (s *ExerciseSet) Volume() float64 {
	return s.Weight * float64(s.Reps)
}

// ValidateSetValues checks weight, reps and an optional RPE.
func ValidateSetValues(weight float64, reps int, rpe *int) error {
	if math.IsNaN(weight) || math.IsInf(weight, 0) || weight < 0 {
		return ErrInvalidWeight
	}
	if reps < 0 {
		return ErrInvalidReps
	}
	if rpe != nil && (*rpe < MinRPE || *rpe > MaxRPE) {
		return ErrInvalidRPE
	}
	return nil
}

// Validate checks the set's own values.
func (s *ExerciseSet) Validate() error {
	return ValidateSetValues(s.Weight, s.Reps, s.RPE)
}

// ABOUTME: Exercise model with category and muscle group enums.
// ABOUTME: Builtin exercises are read-only; custom ones may be edited or deleted.
package models

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Category classifies an exercise.
type Category string

const (
	CategoryCompound   Category = "compound"
	CategoryIsolation  Category = "isolation"
	CategoryBodyweight Category = "bodyweight"
	CategoryCardio     Category = "cardio"
	CategoryOther      Category = "other"
)

// AllCategories returns all valid categories.
var AllCategories = []Category{
	CategoryCompound, CategoryIsolation, CategoryBodyweight, CategoryCardio, CategoryOther,
}

// ParseCategory converts a string into a Category.
func ParseCategory(s string) (Category, error) {
	for _, c := range AllCategories {
		if strings.EqualFold(string(c), s) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category: %q", s)
}

// MuscleGroup tags the muscles an exercise trains.
type MuscleGroup string

const (
	MuscleChest      MuscleGroup = "chest"
	MuscleBack       MuscleGroup = "back"
	MuscleShoulders  MuscleGroup = "shoulders"
	MuscleBiceps     MuscleGroup = "biceps"
	MuscleTriceps    MuscleGroup = "triceps"
	MuscleQuadriceps MuscleGroup = "quadriceps"
	MuscleHamstrings MuscleGroup = "hamstrings"
	MuscleGlutes     MuscleGroup = "glutes"
	MuscleCalves     MuscleGroup = "calves"
	MuscleForearms   MuscleGroup = "forearms"
	MuscleAbs        MuscleGroup = "abs"
	MuscleObliques   MuscleGroup = "obliques"
	MuscleTraps      MuscleGroup = "traps"
	MuscleLowerBack  MuscleGroup = "lowerBack"
	MuscleOther      MuscleGroup = "other"
)

// AllMuscleGroups returns all valid muscle groups.
var AllMuscleGroups = []MuscleGroup{
	MuscleChest, MuscleBack, MuscleShoulders, MuscleBiceps, MuscleTriceps,
	MuscleQuadriceps, MuscleHamstrings, MuscleGlutes, MuscleCalves, MuscleForearms,
	MuscleAbs, MuscleObliques, MuscleTraps, MuscleLowerBack, MuscleOther,
}

// ParseMuscleGroup converts a string into a MuscleGroup.
func ParseMuscleGroup(s string) (MuscleGroup, error) {
	for _, m := range AllMuscleGroups {
		if strings.EqualFold(string(m), s) {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown muscle group: %q", s)
}

// Exercise is a named movement definition.
type Exercise struct {
	ID                    uuid.UUID
	Name                  string
	Category              Category
	PrimaryMuscleGroups   []MuscleGroup
	SecondaryMuscleGroups []MuscleGroup
	Instructions          string
	IsCustom              bool
}

// NewExercise creates a builtin exercise.
func NewExercise(name string, category Category, primary ...MuscleGroup) *Exercise {
	return &Exercise{
		ID:                  uuid.New(),
		Name:                name,
		Category:            category,
		PrimaryMuscleGroups: primary,
	}
}

// NewCustomExercise creates a user-defined exercise.
func NewCustomExercise(name string, category Category, primary ...MuscleGroup) *Exercise {
	e := NewExercise(name, category, primary...)
	e.IsCustom = true
	return e
}

// WithSecondary sets the secondary muscle groups.
func (e *Exercise) WithSecondary(groups ...MuscleGroup) *Exercise {
	e.SecondaryMuscleGroups = groups
	return e
}

// WithInstructions sets the instructions text.
func (e *Exercise) WithInstructions(text string) *Exercise {
	e.Instructions = text
	return e
}

// Trains reports whether the exercise works the given muscle group,
// as a primary or secondary mover.
func (e *Exercise) Trains(group MuscleGroup) bool {
	for _, g := range e.PrimaryMuscleGroups {
		if g == group {
			return true
		}
	}
	for _, g := range e.SecondaryMuscleGroups {
		if g == group {
			return true
		}
	}
	return false
}

// ABOUTME: User settings that drive the session engine (rest timer, RPT drops, RPE).
// ABOUTME: Validation lives here so malformed drop tables never reach the engine.
package models

import (
	"errors"
	"fmt"
	"math"
)

// Rest timer bounds in seconds.
const (
	MinRestSeconds     = 1
	MaxRestSeconds     = 3600
	DefaultRestSeconds = 90
)

// Unit names.
const (
	UnitPounds    = "lb"
	UnitKilograms = "kg"
)

var (
	// ErrEmptyDrops is returned for an empty drop table.
	ErrEmptyDrops = errors.New("drop table must not be empty")
	// ErrFirstDropNonZero is returned when the first drop is not 0.
	ErrFirstDropNonZero = errors.New("first drop must be 0")
	// ErrDropOutOfRange is returned for a drop outside [0,1].
	ErrDropOutOfRange = errors.New("drops must be between 0 and 1")
	// ErrRestOutOfRange is returned for a rest duration outside the bounds.
	ErrRestOutOfRange = fmt.Errorf("rest timer must be between %d and %d seconds", MinRestSeconds, MaxRestSeconds)
	// ErrUnknownUnit is returned for a unit other than lb or kg.
	ErrUnknownUnit = errors.New("unit must be lb or kg")
)

// Settings are the user preferences read by the session engine.
type Settings struct {
	RestTimerDuration  int       `json:"rest_timer_duration"`
	RPTPercentageDrops []float64 `json:"rpt_percentage_drops"`
	ShowRPE            bool      `json:"show_rpe"`
	Unit               string    `json:"unit"`
}

// DefaultSettings returns the factory defaults.
func DefaultSettings() Settings {
	return Settings{
		RestTimerDuration:  DefaultRestSeconds,
		RPTPercentageDrops: []float64{0.0, 0.10, 0.15},
		ShowRPE:            true,
		Unit:               UnitPounds,
	}
}

// ValidateDrops checks a drop table.
func ValidateDrops(drops []float64) error {
	if len(drops) == 0 {
		return ErrEmptyDrops
	}
	if drops[0] != 0 {
		return ErrFirstDropNonZero
	}
	for i, d := range drops {
		if math.IsNaN(d) || d < 0 || d > 1 {
			return fmt.Errorf("drop %d (%v): %w", i+1, d, ErrDropOutOfRange)
		}
	}
	return nil
}

// ValidateRest checks a rest timer duration.
func ValidateRest(seconds int) error {
	if seconds < MinRestSeconds || seconds > MaxRestSeconds {
		return ErrRestOutOfRange
	}
	return nil
}

// ValidateUnit checks a weight unit.
func ValidateUnit(unit string) error {
	if unit != UnitPounds && unit != UnitKilograms {
		return ErrUnknownUnit
	}
	return nil
}

// Validate checks every field.
func (s Settings) Validate() error {
	if err := ValidateRest(s.RestTimerDuration); err != nil {
		return err
	}
	if err := ValidateDrops(s.RPTPercentageDrops); err != nil {
		return err
	}
	return ValidateUnit(s.Unit)
}

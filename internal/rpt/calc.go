// ABOUTME: Reverse pyramid weight math: drop-set weights, rounding, example chains.
// ABOUTME: Pure functions with no side effects; rounding is always an explicit step.
package rpt

import (
	"math"
	"strconv"
	"strings"
)

// DefaultIncrement is the plate increment weights are rounded to.
const DefaultIncrement = 5.0

// FallbackDrops is used when a configured drop table is shorter than the
// number of sets being computed.
var FallbackDrops = []float64{0.0, 0.10, 0.15, 0.20}

// fallbackTail is the drop applied past the end of FallbackDrops.
const fallbackTail = 0.10

// CalculateWeights returns firstSetWeight*(1-p) for every drop p.
// By convention drops[0] is 0 so the first entry is the first set itself.
func CalculateWeights(firstSetWeight float64, drops []float64) []float64 {
	weights := make([]float64, 0, len(drops))
	for _, p := range drops {
		weights = append(weights, firstSetWeight*(1.0-p))
	}
	return weights
}

// RoundToNearestIncrement rounds value to the nearest multiple of increment,
// halves away from zero. A non-positive increment falls back to DefaultIncrement.
func RoundToNearestIncrement(value, increment float64) int {
	if increment <= 0 {
		increment = DefaultIncrement
	}
	return int(math.Round(value/increment) * increment)
}

// RoundToNearest5 rounds value to the nearest 5.
func RoundToNearest5(value float64) int {
	return RoundToNearestIncrement(value, DefaultIncrement)
}

// DropFor returns the drop percentage for a zero-based set index, reading
// the configured table first and FallbackDrops when it is too short.
func DropFor(drops []float64, index int) float64 {
	if index < 0 {
		return 0
	}
	if index < len(drops) {
		return drops[index]
	}
	if index < len(FallbackDrops) {
		return FallbackDrops[index]
	}
	return fallbackTail
}

// FormatExample renders the rounded drop-set chain for a first-set weight,
// e.g. "180 → 160 lb". The first set is implied and omitted.
func FormatExample(firstSetWeight float64, drops []float64, unit string) string {
	if len(drops) <= 1 {
		return unit
	}
	parts := make([]string, 0, len(drops)-1)
	for _, w := range CalculateWeights(firstSetWeight, drops[1:]) {
		parts = append(parts, strconv.Itoa(RoundToNearest5(w)))
	}
	return strings.Join(parts, " → ") + " " + unit
}

// EstimateOneRepMax estimates a one-rep max with the Brzycki formula.
// Reps are clamped to 1..10 where the formula stays reasonable.
func EstimateOneRepMax(weight float64, reps int) float64 {
	if weight <= 0 {
		return 0
	}
	r := min(max(reps, 1), 10)
	return weight * (36.0 / (37.0 - float64(r)))
}

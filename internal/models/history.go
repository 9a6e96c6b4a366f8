// ABOUTME: History, volume progression and timeframe statistics types.
// ABOUTME: Pure aggregation over workouts and sets; storage supplies the rows.
package models

import (
	"fmt"
	"sort"
	"time"
)

// HistoryEntry is one past workout and its sets for a single exercise,
// sets ordered by CompletedAt ascending.
type HistoryEntry struct {
	Workout *Workout
	Sets    []*ExerciseSet
}

// VolumePoint is the volume lifted for an exercise on one day.
type VolumePoint struct {
	Date   time.Time
	Volume float64
}

// Timeframe selects the window for workout statistics.
type Timeframe string

// Timeframes.
const (
	TimeframeWeek  Timeframe = "week"
	TimeframeMonth Timeframe = "month"
	TimeframeYear  Timeframe = "year"
	TimeframeAll   Timeframe = "all"
)

// ParseTimeframe validates a timeframe name.
func ParseTimeframe(s string) (Timeframe, error) {
	switch tf := Timeframe(s); tf {
	case TimeframeWeek, TimeframeMonth, TimeframeYear, TimeframeAll:
		return tf, nil
	}
	return "", fmt.Errorf("unknown timeframe %q (want week, month, year or all)", s)
}

// Since returns the start of the window ending at now. The zero time means
// no lower bound.
func (tf Timeframe) Since(now time.Time) time.Time {
	switch tf {
	case TimeframeWeek:
		return now.AddDate(0, 0, -7)
	case TimeframeMonth:
		return now.AddDate(0, -1, 0)
	case TimeframeYear:
		return now.AddDate(-1, 0, 0)
	default:
		return time.Time{}
	}
}

// WorkoutStats aggregates a set of workouts.
type WorkoutStats struct {
	Count           int
	TotalVolume     float64
	AverageDuration time.Duration
}

// ComputeStats sums volume and averages duration.
func ComputeStats(workouts []*Workout) WorkoutStats {
	var st WorkoutStats
	var total time.Duration
	for _, w := range workouts {
		st.Count++
		st.TotalVolume += w.TotalVolume()
		total += w.Duration
	}
	if st.Count > 0 {
		st.AverageDuration = total / time.Duration(st.Count)
	}
	return st
}

// VolumeByDay groups sets by the local day they were completed and sums
// their volume, oldest day first.
func VolumeByDay(sets []*ExerciseSet) []VolumePoint {
	byDay := make(map[time.Time]float64)
	for _, s := range sets {
		t := s.CompletedAt.Local()
		day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
		byDay[day] += s.Volume()
	}
	out := make([]VolumePoint, 0, len(byDay))
	for day, v := range byDay {
		out = append(out, VolumePoint{Date: day, Volume: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

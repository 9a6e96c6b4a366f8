// ABOUTME: CLI commands for exercise history and workout statistics.
// ABOUTME: Shows past sets, estimated one-rep max, volume progression and timeframe stats.
package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/rpt/internal/models"
	"github.com/harperreed/rpt/internal/rpt"
	"github.com/spf13/cobra"
)

var (
	historyLimit     int
	historyTimeframe string
	statsTimeframe   string
)

var historyCmd = &cobra.Command{
	Use:   "history <exercise>",
	Short: "Show past sets for an exercise",
	Long: `Show the most recent workouts containing an exercise, its estimated
one-rep max (Brzycki) and the daily volume over a timeframe.

Examples:
  rpt history "Bench Press"
  rpt history squat -n 10 --timeframe year`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tf, err := models.ParseTimeframe(historyTimeframe)
		if err != nil {
			return err
		}
		exercise, err := findExercise(args[0])
		if err != nil {
			return err
		}
		entries, err := repo.WorkoutHistory(exercise.ID)
		if err != nil {
			return fmt.Errorf("failed to load history: %w", err)
		}

		unit := displayUnit()
		faint := color.New(color.Faint)
		color.New(color.Bold).Println(exercise.Name)
		if len(entries) == 0 {
			fmt.Println("No history yet.")
			return nil
		}

		for i, h := range entries {
			if historyLimit > 0 && i >= historyLimit {
				break
			}
			faint.Printf("%s  ", h.Workout.Date.Local().Format("2006-01-02"))
			parts := make([]string, 0, len(h.Sets))
			for _, s := range h.Sets {
				parts = append(parts, fmt.Sprintf("%s×%d", strings.TrimSpace(rpt.FormatWeight(s.Weight, "")), s.Reps))
			}
			fmt.Printf("%s  %s\n", padRight(truncate(h.Workout.Name, 20), 20), strings.Join(parts, "  "))
		}

		orm, err := repo.OneRepMax(exercise.ID)
		if err != nil {
			return fmt.Errorf("failed to estimate one-rep max: %w", err)
		}
		fmt.Println()
		fmt.Printf("Estimated 1RM: %s\n", rpt.FormatWeight(float64(rpt.RoundToNearest5(orm)), unit))

		points, err := repo.VolumeProgress(exercise.ID, tf.Since(time.Now()))
		if err != nil {
			return fmt.Errorf("failed to load volume progress: %w", err)
		}
		if len(points) > 0 {
			fmt.Printf("Volume (%s):\n", tf)
			for _, p := range points {
				faint.Printf("  %s  ", p.Date.Local().Format("2006-01-02"))
				fmt.Println(rpt.FormatVolumeLong(p.Volume, unit))
			}
		}
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show workout statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tf, err := models.ParseTimeframe(statsTimeframe)
		if err != nil {
			return err
		}
		st, err := repo.Stats(tf)
		if err != nil {
			return fmt.Errorf("failed to compute stats: %w", err)
		}
		unit := displayUnit()
		fmt.Printf("Workouts (%s):  %d\n", tf, st.Count)
		fmt.Printf("Total volume:    %s\n", rpt.FormatVolumeLong(st.TotalVolume, unit))
		if st.Count > 0 {
			fmt.Printf("Average length:  %s\n", st.AverageDuration.Round(time.Minute))
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 5, "max number of workouts")
	historyCmd.Flags().StringVar(&historyTimeframe, "timeframe", string(models.TimeframeMonth), "volume window: week, month, year or all")
	statsCmd.Flags().StringVar(&statsTimeframe, "timeframe", string(models.TimeframeWeek), "window: week, month, year or all")
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(statsCmd)
}

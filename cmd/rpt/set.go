// ABOUTME: CLI commands for logging sets in the active workout.
// ABOUTME: Supports add-exercise, add, update, delete and drop.
package main

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/harperreed/rpt/internal/rpt"
	"github.com/harperreed/rpt/internal/session"
	"github.com/harperreed/rpt/internal/tui"
	"github.com/spf13/cobra"
)

var (
	setWorkoutID string
	setRPE       int
	setPropagate bool
	setRest      bool
)

var setCmd = &cobra.Command{
	Use:     "set",
	Aliases: []string{"s"},
	Short:   "Log sets in the active workout",
	Long: `Add, edit and remove sets.

Sets are referenced by ID prefix (shown in 'rpt workout show') or by
exercise and slot: "Bench Press#2" is the second set of bench press.

A new set after the first is pre-filled from the top set with the drop
table from settings, and two more reps than the previous set (at most 15).

Examples:
  rpt set add-exercise "Bench Press"
  rpt set update "Bench Press#1" 225 6 --propagate
  rpt set add "Bench Press"
  rpt set update 01JB7 205 8 --rpe 9 --rest
  rpt set delete "Bench Press#3"`,
}

var setAddExerciseCmd = &cobra.Command{
	Use:   "add-exercise <exercise>",
	Short: "Add an exercise with an empty first set",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openSession(setWorkoutID)
		if err != nil {
			return err
		}
		exercise, err := findExercise(args[0])
		if err != nil {
			return err
		}
		if err := e.AddExercise(exercise); err != nil {
			return fmt.Errorf("failed to add exercise: %w", err)
		}
		saveView(e)
		color.Green("✓ Added %s", exercise.Name)
		return nil
	},
}

var setAddCmd = &cobra.Command{
	Use:   "add <exercise>",
	Short: "Add the next RPT set for an exercise",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openSession(setWorkoutID)
		if err != nil {
			return err
		}
		exercise, err := findExercise(args[0])
		if err != nil {
			return err
		}
		set, err := e.AddSet(exercise)
		if err != nil {
			return fmt.Errorf("failed to add set: %w", err)
		}
		saveView(e)
		color.Green("✓ Added %s set: %s × %d", exercise.Name, rpt.FormatWeight(set.Weight, displayUnit()), set.Reps)
		color.New(color.Faint).Printf("  ID: %s\n", set.ID)
		return nil
	},
}

var setUpdateCmd = &cobra.Command{
	Use:   "update <set> <weight> <reps>",
	Short: "Record weight, reps and RPE for a set",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		weight, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid weight: %s", args[1])
		}
		reps, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("invalid reps: %s", args[2])
		}

		e, err := openSession(setWorkoutID)
		if err != nil {
			return err
		}
		set, err := findSet(e, args[0])
		if err != nil {
			return err
		}

		rpe := set.RPE
		if cmd.Flags().Changed("rpe") {
			rpe = &setRPE
		}
		if err := e.UpdateSet(set, weight, reps, rpe); err != nil {
			return fmt.Errorf("failed to update set: %w", err)
		}
		color.Green("✓ Updated set: %s × %d", rpt.FormatWeight(weight, displayUnit()), reps)

		if setPropagate {
			if err := propagate(e, set.ID.String()); err != nil {
				return err
			}
		}
		if setRest {
			return runRest(e)
		}
		return nil
	},
}

// propagate recomputes drop sets when the set is its exercise's top set.
func propagate(e *session.Engine, setID string) error {
	set, err := findSet(e, setID)
	if err != nil {
		return err
	}
	exercise := set.Exercise
	if exercise == nil {
		return nil
	}
	sets := e.SetsFor(exercise.ID)
	if len(sets) < 2 || sets[0] != set || set.Weight <= 0 {
		color.Yellow("⚠ Only a weighted first set updates the drop sets")
		return nil
	}
	if err := e.PropagateDropSets(exercise, set.Weight); err != nil {
		return fmt.Errorf("failed to update drop sets: %w", err)
	}
	color.Green("✓ Updated %d drop sets", len(sets)-1)
	return nil
}

// runRest starts the engine's rest timer and shows the countdown.
func runRest(e *session.Engine) error {
	e.StartRestTimer()
	skipped, err := tui.RunRest(e, "Rest")
	if err != nil {
		e.CancelRestTimer()
		return err
	}
	if skipped {
		fmt.Println("Rest skipped.")
	}
	return nil
}

var setDeleteCmd = &cobra.Command{
	Use:     "delete <set>",
	Aliases: []string{"rm"},
	Short:   "Delete a set",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openSession(setWorkoutID)
		if err != nil {
			return err
		}
		set, err := findSet(e, args[0])
		if err != nil {
			return err
		}
		if err := e.DeleteSet(set); err != nil {
			return fmt.Errorf("failed to delete set: %w", err)
		}
		saveView(e)
		color.Green("✓ Deleted set")
		return nil
	},
}

var setDropCmd = &cobra.Command{
	Use:   "drop <exercise> <first-set-weight>",
	Short: "Recompute drop sets from a top set weight",
	Long: `Recompute every set after the first from the given top set weight and
the drop table. Reps and RPE are kept.

Example:
  rpt set drop "Bench Press" 225`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		weight, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid weight: %s", args[1])
		}
		e, err := openSession(setWorkoutID)
		if err != nil {
			return err
		}
		exercise, err := sessionExercise(e, args[0])
		if err != nil {
			return err
		}
		if err := e.PropagateDropSets(exercise, weight); err != nil {
			return fmt.Errorf("failed to update drop sets: %w", err)
		}
		color.Green("✓ Drop sets for %s: %s", exercise.Name, formatDropChain(e.SetsFor(exercise.ID), displayUnit()))
		return nil
	},
}

func init() {
	setCmd.PersistentFlags().StringVar(&setWorkoutID, "workout", "", "workout ID (default: active workout)")
	setUpdateCmd.Flags().IntVar(&setRPE, "rpe", 0, "rate of perceived exertion (1-10)")
	setUpdateCmd.Flags().BoolVarP(&setPropagate, "propagate", "p", false, "recompute drop sets when updating the first set")
	setUpdateCmd.Flags().BoolVarP(&setRest, "rest", "r", false, "start the rest timer after logging")

	setCmd.AddCommand(setAddExerciseCmd)
	setCmd.AddCommand(setAddCmd)
	setCmd.AddCommand(setUpdateCmd)
	setCmd.AddCommand(setDeleteCmd)
	setCmd.AddCommand(setDropCmd)
	rootCmd.AddCommand(setCmd)
}

// ABOUTME: CLI commands for the workout session lifecycle.
// ABOUTME: Supports start, resume, show, list, complete, discard, rename and followup.
package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/rpt/internal/lifecycle"
	"github.com/harperreed/rpt/internal/models"
	"github.com/harperreed/rpt/internal/rpt"
	"github.com/harperreed/rpt/internal/session"
	"github.com/spf13/cobra"
)

var (
	workoutTemplate string
	workoutLimit    int
	workoutShowAll  bool
	workoutID       string
	followUpPercent float64
)

var workoutCmd = &cobra.Command{
	Use:     "workout",
	Aliases: []string{"w"},
	Short:   "Manage workout sessions",
	Long: `Start, resume and finish workout sessions.

One workout is active at a time: the most recent unfinished one. Set and
exercise commands act on it unless --workout names another.

WORKFLOW:

  1. Start a session:      rpt workout start "Push Day"
  2. Log sets:             rpt set add-exercise "Bench Press"
  3. Check progress:       rpt workout show
  4. Finish or throw away: rpt workout complete | rpt workout discard

A discarded workout is never offered for resumption, even when deleting it
failed.`,
}

var workoutStartCmd = &cobra.Command{
	Use:   "start [name]",
	Short: "Start a new workout",
	Long: `Start a new workout session.

Examples:
  rpt workout start
  rpt workout start "Push Day"
  rpt workout start --template "Upper Body RPT"`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := ""
		if len(args) > 0 {
			name = args[0]
		}

		if prev, err := lifecycle.FindResumable(repo, life); err == nil && prev != nil {
			color.Yellow("⚠ Unfinished workout %s (%s) is still open", prev.Name, prev.ID.String()[:8])
		}

		if workoutTemplate != "" {
			e, err := startFromTemplate(workoutTemplate, name)
			if err != nil {
				return err
			}
			printSession(e, false)
			return nil
		}

		e, err := session.Start(repo, prefs, life, nameOrDefault(name), nil, engineOptions()...)
		if err != nil {
			return fmt.Errorf("failed to start workout: %w", err)
		}
		color.Green("✓ Started %s", e.Workout().Name)
		fmt.Printf("  ID: %s\n", e.Workout().ID.String()[:8])
		return nil
	},
}

func nameOrDefault(name string) string {
	if strings.TrimSpace(name) == "" {
		return models.DefaultWorkoutName
	}
	return name
}

// startFromTemplate instantiates a template as a new session, prefilling
// weights from history, and expands every exercise.
func startFromTemplate(templateName, name string) (*session.Engine, error) {
	tmpl, err := repo.GetTemplate(templateName)
	if err != nil {
		return nil, fmt.Errorf("template not found: %s", templateName)
	}
	w := tmpl.Instantiate(lookupExercise, time.Now())
	if name != "" {
		w.Name = name
	}
	e, err := session.Begin(w, repo, prefs, life, engineOptions()...)
	if err != nil {
		return nil, fmt.Errorf("failed to start workout: %w", err)
	}
	expandAll(e)
	saveView(e)
	color.Green("✓ Started %s from template %s", w.Name, tmpl.Name)
	return e, nil
}

var workoutResumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Show the workout that would be resumed",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := lifecycle.FindResumable(repo, life)
		if err != nil {
			return fmt.Errorf("failed to find active workout: %w", err)
		}
		if w == nil {
			if life.WasAnyDiscarded() {
				fmt.Println("Last workout was discarded. Nothing to resume.")
			} else {
				fmt.Println("Nothing to resume.")
			}
			return nil
		}
		e, err := openSession(w.ID.String())
		if err != nil {
			return err
		}
		color.Green("✓ Resuming %s", w.Name)
		printSession(e, false)
		return nil
	},
}

var workoutShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show a workout",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) > 0 {
			w, err := repo.GetWorkout(args[0])
			if err != nil {
				return fmt.Errorf("workout not found: %s", args[0])
			}
			if w.IsCompleted {
				printSession(session.New(w, repo, prefs, life), true)
				return nil
			}
		}
		e, err := openSession(argOrEmpty(args))
		if err != nil {
			return err
		}
		printSession(e, workoutShowAll)
		return nil
	},
}

func argOrEmpty(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

var workoutListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List recent workouts",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		workouts, err := repo.RecentWorkouts(workoutLimit)
		if err != nil {
			return fmt.Errorf("failed to list workouts: %w", err)
		}
		if len(workouts) == 0 {
			fmt.Println("No workouts yet.")
			return nil
		}

		unit := displayUnit()
		faint := color.New(color.Faint)
		for _, w := range workouts {
			status := color.YellowString("open")
			if w.IsCompleted {
				status = color.GreenString("done")
			}
			faint.Printf("%s  ", w.ID.String()[:8])
			fmt.Printf("%s  %s  %s  %2d sets  %s\n",
				w.Date.Local().Format("2006-01-02"),
				padRight(truncate(w.Name, 24), 24),
				status,
				w.WorkingSetsCount(),
				rpt.FormatVolume(w.TotalVolume(), unit),
			)
		}
		return nil
	},
}

var workoutCompleteCmd = &cobra.Command{
	Use:   "complete [id]",
	Short: "Finish a workout",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openSession(argOrEmpty(args))
		if err != nil {
			return err
		}
		if err := e.Complete(); err != nil {
			return fmt.Errorf("failed to complete workout: %w", err)
		}
		clearView(e)
		color.Green("✓ Completed %s", e.Workout().Name)
		fmt.Print(e.Workout().Summary(displayUnit()))
		return nil
	},
}

var workoutDiscardCmd = &cobra.Command{
	Use:   "discard [id]",
	Short: "Delete an unfinished workout",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openSession(argOrEmpty(args))
		if err != nil {
			return err
		}
		clearView(e)
		if err := e.Discard(); err != nil {
			return fmt.Errorf("failed to discard workout: %w", err)
		}
		color.Green("✓ Discarded %s", e.Workout().Name)
		return nil
	},
}

var workoutRenameCmd = &cobra.Command{
	Use:   "rename <name>",
	Short: "Rename the active workout",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openSession(workoutID)
		if err != nil {
			return err
		}
		if err := e.Rename(args[0]); err != nil {
			return fmt.Errorf("failed to rename workout: %w", err)
		}
		color.Green("✓ Renamed to %s", args[0])
		return nil
	},
}

var workoutFollowUpCmd = &cobra.Command{
	Use:   "followup <id>",
	Short: "Start the next workout from a finished one",
	Long: `Start a follow-up session from a past workout.

Each exercise's top set goes up by --increase percent (rounded to 5) and the
later sets keep their ratio to the top set.

Examples:
  rpt workout followup 3f2a9c1b
  rpt workout followup 3f2a9c1b --increase 5`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		prev, err := repo.GetWorkout(args[0])
		if err != nil {
			return fmt.Errorf("workout not found: %s", args[0])
		}
		next := prev.FollowUp(followUpPercent / 100)
		e, err := session.Begin(next, repo, prefs, life, engineOptions()...)
		if err != nil {
			return fmt.Errorf("failed to start follow-up: %w", err)
		}
		expandAll(e)
		saveView(e)
		color.Green("✓ Started %s", next.Name)
		printSession(e, false)
		return nil
	},
}

func init() {
	workoutStartCmd.Flags().StringVarP(&workoutTemplate, "template", "t", "", "start from a template")
	workoutListCmd.Flags().IntVarP(&workoutLimit, "limit", "n", 10, "max number of results")
	workoutShowCmd.Flags().BoolVarP(&workoutShowAll, "all", "a", false, "show sets of collapsed exercises")
	workoutRenameCmd.Flags().StringVar(&workoutID, "workout", "", "workout ID (default: active workout)")
	workoutFollowUpCmd.Flags().Float64Var(&followUpPercent, "increase", models.DefaultFollowUpIncrease*100, "top set increase in percent")

	workoutCmd.AddCommand(workoutStartCmd)
	workoutCmd.AddCommand(workoutResumeCmd)
	workoutCmd.AddCommand(workoutShowCmd)
	workoutCmd.AddCommand(workoutListCmd)
	workoutCmd.AddCommand(workoutCompleteCmd)
	workoutCmd.AddCommand(workoutDiscardCmd)
	workoutCmd.AddCommand(workoutRenameCmd)
	workoutCmd.AddCommand(workoutFollowUpCmd)
	rootCmd.AddCommand(workoutCmd)
}

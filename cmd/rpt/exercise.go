// ABOUTME: CLI commands for the exercise library and per-session exercise state.
// ABOUTME: Supports list, add, delete, done and expand.
package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/rpt/internal/models"
	"github.com/harperreed/rpt/internal/storage"
	"github.com/spf13/cobra"
)

var (
	exerciseCategory     string
	exerciseAddCategory  string
	exerciseMuscle       string
	exerciseCustomOnly   bool
	exerciseSearch       string
	exercisePrimary      []string
	exerciseSecondary    []string
	exerciseInstructions string
	exerciseLibrary      bool
	exerciseWorkoutID    string
)

var exerciseCmd = &cobra.Command{
	Use:     "exercise",
	Aliases: []string{"ex"},
	Short:   "Manage exercises",
	Long: `Browse the exercise library, add custom exercises, and mark exercises
done or collapsed in the active workout.

Examples:
  rpt exercise list --category compound
  rpt exercise list --muscle chest
  rpt exercise add "Landmine Press" --category compound --primary shoulders
  rpt exercise done "Bench Press"
  rpt exercise delete "Bench Press"            # remove from the workout
  rpt exercise delete "Landmine Press" --library`,
}

var exerciseListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List exercises in the library",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		filter := storage.ExerciseFilter{CustomOnly: exerciseCustomOnly, Search: exerciseSearch}
		if exerciseCategory != "" {
			c, err := models.ParseCategory(exerciseCategory)
			if err != nil {
				return err
			}
			filter.Category = c
		}
		if exerciseMuscle != "" {
			m, err := models.ParseMuscleGroup(exerciseMuscle)
			if err != nil {
				return err
			}
			filter.Muscle = m
		}

		exercises, err := repo.ListExercises(filter)
		if err != nil {
			return fmt.Errorf("failed to list exercises: %w", err)
		}
		if len(exercises) == 0 {
			fmt.Println("No exercises found.")
			return nil
		}

		faint := color.New(color.Faint)
		for _, e := range exercises {
			faint.Printf("%s  ", e.ID.String()[:8])
			fmt.Printf("%s  %s  %s", padRight(truncate(e.Name, 28), 28), padRight(string(e.Category), 10), joinMuscles(e.PrimaryMuscleGroups))
			if e.IsCustom {
				color.New(color.FgCyan).Print("  custom")
			}
			fmt.Println()
		}
		return nil
	},
}

func joinMuscles(groups []models.MuscleGroup) string {
	names := make([]string, len(groups))
	for i, g := range groups {
		names[i] = string(g)
	}
	return strings.Join(names, ", ")
}

func parseMuscles(values []string) ([]models.MuscleGroup, error) {
	out := make([]models.MuscleGroup, 0, len(values))
	for _, v := range values {
		m, err := models.ParseMuscleGroup(v)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

var exerciseAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a custom exercise",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		category, err := models.ParseCategory(exerciseAddCategory)
		if err != nil {
			return err
		}
		primary, err := parseMuscles(exercisePrimary)
		if err != nil {
			return err
		}
		secondary, err := parseMuscles(exerciseSecondary)
		if err != nil {
			return err
		}

		e := models.NewCustomExercise(args[0], category, primary...).
			WithSecondary(secondary...).
			WithInstructions(exerciseInstructions)
		if err := repo.CreateExercise(e); err != nil {
			return fmt.Errorf("failed to add exercise: %w", err)
		}
		color.Green("✓ Added exercise %s", e.Name)
		fmt.Printf("  ID: %s\n", e.ID.String()[:8])
		return nil
	},
}

var exerciseDeleteCmd = &cobra.Command{
	Use:     "delete <exercise>",
	Aliases: []string{"rm"},
	Short:   "Remove an exercise from the workout (or the library with --library)",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if exerciseLibrary {
			exercise, err := findExercise(args[0])
			if err != nil {
				return err
			}
			if err := repo.DeleteExercise(exercise.ID.String()); err != nil {
				return fmt.Errorf("failed to delete exercise: %w", err)
			}
			color.Green("✓ Deleted %s from the library", exercise.Name)
			return nil
		}

		e, err := openSession(exerciseWorkoutID)
		if err != nil {
			return err
		}
		exercise, err := sessionExercise(e, args[0])
		if err != nil {
			return err
		}
		if err := e.DeleteExercise(exercise); err != nil {
			return fmt.Errorf("failed to remove exercise: %w", err)
		}
		saveView(e)
		color.Green("✓ Removed %s from the workout", exercise.Name)
		return nil
	},
}

var exerciseDoneCmd = &cobra.Command{
	Use:   "done <exercise>",
	Short: "Toggle an exercise as done in the active workout",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openSession(exerciseWorkoutID)
		if err != nil {
			return err
		}
		exercise, err := sessionExercise(e, args[0])
		if err != nil {
			return err
		}
		done, err := e.ToggleCompletion(exercise)
		if err != nil {
			return err
		}
		saveView(e)
		if done {
			color.Green("✓ %s done", exercise.Name)
		} else {
			fmt.Printf("%s marked not done\n", exercise.Name)
		}
		if e.AllExercisesCompleted() {
			color.Green("All exercises done. Finish with 'rpt workout complete'.")
		}
		return nil
	},
}

var exerciseExpandCmd = &cobra.Command{
	Use:   "expand <exercise>",
	Short: "Toggle whether an exercise's sets are shown",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openSession(exerciseWorkoutID)
		if err != nil {
			return err
		}
		exercise, err := sessionExercise(e, args[0])
		if err != nil {
			return err
		}
		expanded, err := e.ToggleExpansion(exercise)
		if err != nil {
			return err
		}
		saveView(e)
		if expanded {
			fmt.Printf("%s expanded\n", exercise.Name)
		} else {
			fmt.Printf("%s collapsed\n", exercise.Name)
		}
		return nil
	},
}

func init() {
	exerciseListCmd.Flags().StringVarP(&exerciseCategory, "category", "c", "", "filter by category")
	exerciseListCmd.Flags().StringVarP(&exerciseMuscle, "muscle", "m", "", "filter by muscle group")
	exerciseListCmd.Flags().BoolVar(&exerciseCustomOnly, "custom", false, "only custom exercises")
	exerciseListCmd.Flags().StringVarP(&exerciseSearch, "search", "s", "", "name contains")

	exerciseAddCmd.Flags().StringVarP(&exerciseAddCategory, "category", "c", string(models.CategoryOther), "exercise category")
	exerciseAddCmd.Flags().StringSliceVar(&exercisePrimary, "primary", nil, "primary muscle groups")
	exerciseAddCmd.Flags().StringSliceVar(&exerciseSecondary, "secondary", nil, "secondary muscle groups")
	exerciseAddCmd.Flags().StringVar(&exerciseInstructions, "instructions", "", "how to perform it")

	exerciseDeleteCmd.Flags().BoolVar(&exerciseLibrary, "library", false, "delete a custom exercise from the library")
	exerciseCmd.PersistentFlags().StringVar(&exerciseWorkoutID, "workout", "", "workout ID (default: active workout)")

	exerciseCmd.AddCommand(exerciseListCmd)
	exerciseCmd.AddCommand(exerciseAddCmd)
	exerciseCmd.AddCommand(exerciseDeleteCmd)
	exerciseCmd.AddCommand(exerciseDoneCmd)
	exerciseCmd.AddCommand(exerciseExpandCmd)
	rootCmd.AddCommand(exerciseCmd)
}

// ABOUTME: CLI commands for workout templates.
// ABOUTME: Supports list, show, create, start, sets, add/remove exercise, delete, import and export.
package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/rpt/internal/models"
	"github.com/harperreed/rpt/internal/templatefile"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var (
	templateExercises []string
	templateNotes     string
	templateStartName string
)

// templateFS is the filesystem template files are read from and written to.
var templateFS = afero.NewOsFs()

var templateCmd = &cobra.Command{
	Use:     "template",
	Aliases: []string{"t"},
	Short:   "Manage workout templates",
	Long: `Templates list exercises with a set count and a rep range per set.
Starting a template creates a session with empty weights, filled from the
last time you did each exercise.

Examples:
  rpt template list
  rpt template create "Pull Day" --exercise "Pull-ups" --exercise "Barbell Row"
  rpt template sets "Pull Day" "Barbell Row" 4
  rpt template start "Pull Day"
  rpt template export templates.yaml
  rpt template import templates.yaml`,
}

var templateListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List templates",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		templates, err := repo.ListTemplates()
		if err != nil {
			return fmt.Errorf("failed to list templates: %w", err)
		}
		if len(templates) == 0 {
			fmt.Println("No templates yet.")
			return nil
		}
		faint := color.New(color.Faint)
		for _, t := range templates {
			faint.Printf("%s  ", t.ID.String()[:8])
			fmt.Printf("%s  %d exercises\n", padRight(truncate(t.Name, 28), 28), len(t.Exercises))
		}
		return nil
	},
}

var templateShowCmd = &cobra.Command{
	Use:   "show <template>",
	Short: "Show a template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := repo.GetTemplate(args[0])
		if err != nil {
			return fmt.Errorf("template not found: %s", args[0])
		}
		printTemplate(t)
		return nil
	},
}

func printTemplate(t *models.WorkoutTemplate) {
	faint := color.New(color.Faint)
	color.New(color.Bold).Print(t.Name)
	faint.Printf("  %s\n", t.ID.String()[:8])
	if t.Notes != "" {
		fmt.Println(t.Notes)
	}
	for _, te := range t.Exercises {
		fmt.Printf("\n%s  (%d sets)\n", te.ExerciseName, te.SuggestedSets)
		for _, r := range te.RepRanges {
			line := fmt.Sprintf("   %d  %d-%d reps", r.SetNumber, r.MinReps, r.MaxReps)
			if r.PercentageOfFirstSet != nil {
				line += fmt.Sprintf("  @ %.0f%%", *r.PercentageOfFirstSet*100)
			}
			fmt.Println(line)
		}
		if te.Notes != "" {
			faint.Printf("   %s\n", te.Notes)
		}
	}
}

var templateCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := repo.GetTemplate(args[0]); err == nil {
			return fmt.Errorf("template %q already exists", args[0])
		}
		t := models.NewWorkoutTemplate(args[0])
		t.Notes = templateNotes
		for _, name := range templateExercises {
			exercise, err := findExercise(name)
			if err != nil {
				return err
			}
			t.AddExercise(exercise.Name)
		}
		if err := repo.SaveTemplate(t); err != nil {
			return fmt.Errorf("failed to create template: %w", err)
		}
		color.Green("✓ Created template %s with %d exercises", t.Name, len(t.Exercises))
		return nil
	},
}

var templateStartCmd = &cobra.Command{
	Use:   "start <template>",
	Short: "Start a workout from a template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := startFromTemplate(args[0], templateStartName)
		if err != nil {
			return err
		}
		printSession(e, false)
		return nil
	},
}

// findTemplateExercise returns the index of the named exercise in t.
func findTemplateExercise(t *models.WorkoutTemplate, name string) (int, error) {
	for i, te := range t.Exercises {
		if strings.EqualFold(te.ExerciseName, name) {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%s is not in template %s", name, t.Name)
}

var templateSetsCmd = &cobra.Command{
	Use:   "sets <template> <exercise> <count>",
	Short: "Change the set count for a template exercise",
	Long: `Change how many sets a template exercise suggests. Rep ranges for kept
sets are preserved; new sets get synthesized ranges.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		count, err := strconv.Atoi(args[2])
		if err != nil || count < 1 {
			return fmt.Errorf("invalid set count: %s", args[2])
		}
		t, err := repo.GetTemplate(args[0])
		if err != nil {
			return fmt.Errorf("template not found: %s", args[0])
		}
		i, err := findTemplateExercise(t, args[1])
		if err != nil {
			return err
		}
		te := t.Exercises[i]
		te.SuggestedSets = count
		t.UpdateExercise(te)
		if err := repo.SaveTemplate(t); err != nil {
			return fmt.Errorf("failed to save template: %w", err)
		}
		color.Green("✓ %s now has %d sets", te.ExerciseName, count)
		return nil
	},
}

var templateAddExerciseCmd = &cobra.Command{
	Use:   "add-exercise <template> <exercise>",
	Short: "Add an exercise with the default 3-set pattern",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := repo.GetTemplate(args[0])
		if err != nil {
			return fmt.Errorf("template not found: %s", args[0])
		}
		exercise, err := findExercise(args[1])
		if err != nil {
			return err
		}
		t.AddExercise(exercise.Name)
		if err := repo.SaveTemplate(t); err != nil {
			return fmt.Errorf("failed to save template: %w", err)
		}
		color.Green("✓ Added %s to %s", exercise.Name, t.Name)
		return nil
	},
}

var templateRemoveExerciseCmd = &cobra.Command{
	Use:   "remove-exercise <template> <exercise>",
	Short: "Remove an exercise from a template",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := repo.GetTemplate(args[0])
		if err != nil {
			return fmt.Errorf("template not found: %s", args[0])
		}
		i, err := findTemplateExercise(t, args[1])
		if err != nil {
			return err
		}
		name := t.Exercises[i].ExerciseName
		t.RemoveExercise(t.Exercises[i].ID)
		if err := repo.SaveTemplate(t); err != nil {
			return fmt.Errorf("failed to save template: %w", err)
		}
		color.Green("✓ Removed %s from %s", name, t.Name)
		return nil
	},
}

var templateDeleteCmd = &cobra.Command{
	Use:     "delete <template>",
	Aliases: []string{"rm"},
	Short:   "Delete a template",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := repo.DeleteTemplate(args[0]); err != nil {
			return fmt.Errorf("failed to delete template: %w", err)
		}
		color.Green("✓ Deleted template %s", args[0])
		return nil
	},
}

var templateImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import templates from YAML or JSON",
	Long: `Import templates from a YAML or JSON file (by extension). A template with
the same name as an existing one replaces it.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		templates, err := templatefile.Read(templateFS, args[0])
		if err != nil {
			return err
		}
		for _, t := range templates {
			if existing, err := repo.GetTemplate(t.Name); err == nil {
				t.ID = existing.ID
			}
			if err := repo.SaveTemplate(t); err != nil {
				return fmt.Errorf("failed to import template %s: %w", t.Name, err)
			}
		}
		color.Green("✓ Imported %d templates", len(templates))
		return nil
	},
}

var templateExportCmd = &cobra.Command{
	Use:   "export <file> [template...]",
	Short: "Export templates to YAML or JSON",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var templates []*models.WorkoutTemplate
		if len(args) == 1 {
			all, err := repo.ListTemplates()
			if err != nil {
				return fmt.Errorf("failed to list templates: %w", err)
			}
			templates = all
		} else {
			for _, name := range args[1:] {
				t, err := repo.GetTemplate(name)
				if err != nil {
					return fmt.Errorf("template not found: %s", name)
				}
				templates = append(templates, t)
			}
		}
		if err := templatefile.Write(templateFS, args[0], templates); err != nil {
			return err
		}
		color.Green("✓ Exported %d templates to %s", len(templates), args[0])
		return nil
	},
}

func init() {
	templateCreateCmd.Flags().StringArrayVarP(&templateExercises, "exercise", "e", nil, "exercise to include (repeatable)")
	templateCreateCmd.Flags().StringVar(&templateNotes, "notes", "", "template notes")
	templateStartCmd.Flags().StringVar(&templateStartName, "name", "", "workout name (default: template name)")

	templateCmd.AddCommand(templateListCmd)
	templateCmd.AddCommand(templateShowCmd)
	templateCmd.AddCommand(templateCreateCmd)
	templateCmd.AddCommand(templateStartCmd)
	templateCmd.AddCommand(templateSetsCmd)
	templateCmd.AddCommand(templateAddExerciseCmd)
	templateCmd.AddCommand(templateRemoveExerciseCmd)
	templateCmd.AddCommand(templateDeleteCmd)
	templateCmd.AddCommand(templateImportCmd)
	templateCmd.AddCommand(templateExportCmd)
	rootCmd.AddCommand(templateCmd)
}

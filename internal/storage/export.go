// ABOUTME: Export and import functionality for tracker data.
// ABOUTME: Supports JSON, YAML and Markdown; sets reference exercises by name.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/rpt/internal/models"
	"github.com/harperreed/rpt/internal/rpt"
	"github.com/oklog/ulid/v2"
	"gopkg.in/yaml.v3"
)

const exportVersion = "1.0"

// ExportData represents the full export format.
type ExportData struct {
	Version    string                    `json:"version" yaml:"version"`
	ExportedAt time.Time                 `json:"exported_at" yaml:"exported_at"`
	Tool       string                    `json:"tool" yaml:"tool"`
	Exercises  []ExportExercise          `json:"exercises" yaml:"exercises"`
	Workouts   []ExportWorkout           `json:"workouts" yaml:"workouts"`
	Templates  []*models.WorkoutTemplate `json:"templates" yaml:"templates"`
}

// ExportExercise is an exercise in export form.
type ExportExercise struct {
	ID           string               `json:"id" yaml:"id"`
	Name         string               `json:"name" yaml:"name"`
	Category     models.Category      `json:"category" yaml:"category"`
	Primary      []models.MuscleGroup `json:"primary_muscles" yaml:"primary_muscles"`
	Secondary    []models.MuscleGroup `json:"secondary_muscles,omitempty" yaml:"secondary_muscles,omitempty"`
	Instructions string               `json:"instructions,omitempty" yaml:"instructions,omitempty"`
	IsCustom     bool                 `json:"is_custom" yaml:"is_custom"`
}

// ExportWorkout is a workout in export form.
type ExportWorkout struct {
	ID                  string      `json:"id" yaml:"id"`
	Name                string      `json:"name" yaml:"name"`
	Date                time.Time   `json:"date" yaml:"date"`
	Notes               string      `json:"notes,omitempty" yaml:"notes,omitempty"`
	DurationSeconds     int64       `json:"duration_seconds" yaml:"duration_seconds"`
	IsCompleted         bool        `json:"is_completed" yaml:"is_completed"`
	StartedFromTemplate *string     `json:"started_from_template,omitempty" yaml:"started_from_template,omitempty"`
	Sets                []ExportSet `json:"sets" yaml:"sets"`
}

// ExportSet is a set in export form. Exercise is the exercise name and is
// empty when the exercise was deleted.
type ExportSet struct {
	ID          string    `json:"id" yaml:"id"`
	Exercise    string    `json:"exercise,omitempty" yaml:"exercise,omitempty"`
	Weight      float64   `json:"weight" yaml:"weight"`
	Reps        int       `json:"reps" yaml:"reps"`
	CompletedAt time.Time `json:"completed_at" yaml:"completed_at"`
	IsWarmup    bool      `json:"is_warmup,omitempty" yaml:"is_warmup,omitempty"`
	RPE         *int      `json:"rpe,omitempty" yaml:"rpe,omitempty"`
	Notes       string    `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// GetAllData retrieves all data for export.
func (d *DB) GetAllData() (*ExportData, error) {
	exercises, err := d.ListExercises(ExerciseFilter{})
	if err != nil {
		return nil, fmt.Errorf("list exercises: %w", err)
	}
	workouts, err := d.RecentWorkouts(0)
	if err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}
	templates, err := d.ListTemplates()
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}

	data := &ExportData{
		Version:    exportVersion,
		ExportedAt: time.Now(),
		Tool:       "rpt",
		Exercises:  make([]ExportExercise, 0, len(exercises)),
		Workouts:   make([]ExportWorkout, 0, len(workouts)),
		Templates:  templates,
	}
	for _, e := range exercises {
		data.Exercises = append(data.Exercises, ExportExercise{
			ID:           e.ID.String(),
			Name:         e.Name,
			Category:     e.Category,
			Primary:      e.PrimaryMuscleGroups,
			Secondary:    e.SecondaryMuscleGroups,
			Instructions: e.Instructions,
			IsCustom:     e.IsCustom,
		})
	}
	for _, w := range workouts {
		ew := ExportWorkout{
			ID:                  w.ID.String(),
			Name:                w.Name,
			Date:                w.Date,
			Notes:               w.Notes,
			DurationSeconds:     int64(w.Duration / time.Second),
			IsCompleted:         w.IsCompleted,
			StartedFromTemplate: w.StartedFromTemplate,
			Sets:                make([]ExportSet, 0, len(w.Sets)),
		}
		for _, s := range w.Sets {
			es := ExportSet{
				ID:          s.ID.String(),
				Weight:      s.Weight,
				Reps:        s.Reps,
				CompletedAt: s.CompletedAt,
				IsWarmup:    s.IsWarmup,
				RPE:         s.RPE,
				Notes:       s.Notes,
			}
			if s.Exercise != nil {
				es.Exercise = s.Exercise.Name
			}
			ew.Sets = append(ew.Sets, es)
		}
		data.Workouts = append(data.Workouts, ew)
	}
	return data, nil
}

// ExportJSON exports all data as JSON.
func (d *DB) ExportJSON() ([]byte, error) {
	data, err := d.GetAllData()
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(data, "", "  ")
}

// ExportYAML exports all data as YAML.
func (d *DB) ExportYAML() ([]byte, error) {
	data, err := d.GetAllData()
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(data)
}

// ExportMarkdown renders workouts dated at or after since as Markdown
// tables, newest first. A zero since includes everything.
func (d *DB) ExportMarkdown(since time.Time, unit string) (string, error) {
	workouts, err := d.RecentWorkouts(0)
	if err != nil {
		return "", fmt.Errorf("list workouts: %w", err)
	}

	var b strings.Builder
	b.WriteString("# Workouts\n")
	for _, w := range workouts {
		if !since.IsZero() && w.Date.Before(since) {
			continue
		}
		fmt.Fprintf(&b, "\n## %s (%s)\n\n", w.Name, w.Date.Format("2006-01-02"))
		if w.StartedFromTemplate != nil {
			fmt.Fprintf(&b, "Template: %s\n\n", *w.StartedFromTemplate)
		}
		b.WriteString("| Exercise | Set | Weight | Reps | RPE |\n")
		b.WriteString("|----------|-----|--------|------|-----|\n")
		for _, e := range w.Exercises() {
			for i, s := range w.SetsFor(e.ID) {
				rpe := ""
				if s.RPE != nil {
					rpe = fmt.Sprintf("%d", *s.RPE)
				}
				fmt.Fprintf(&b, "| %s | %d | %s | %d | %s |\n", e.Name, i+1, rpt.FormatWeight(s.Weight, unit), s.Reps, rpe)
			}
		}
		fmt.Fprintf(&b, "\nTotal volume: %s\n", rpt.FormatVolumeLong(w.TotalVolume(), unit))
		if w.Notes != "" {
			fmt.Fprintf(&b, "\n%s\n", w.Notes)
		}
	}
	return b.String(), nil
}

// ParseExport decodes an export produced by ExportJSON or ExportYAML.
func ParseExport(data []byte, asYAML bool) (*ExportData, error) {
	var export ExportData
	var err error
	if asYAML {
		err = yaml.Unmarshal(data, &export)
	} else {
		err = json.Unmarshal(data, &export)
	}
	if err != nil {
		return nil, fmt.Errorf("parse export: %w", err)
	}
	if export.Version == "" {
		return nil, errors.New("parse export: missing version")
	}
	return &export, nil
}

// ImportData merges an export into the database. Exercises are matched by
// name and created when missing; workouts and templates are upserted by ID.
func (d *DB) ImportData(data *ExportData) error {
	for _, ee := range data.Exercises {
		if _, err := d.GetExerciseByName(ee.Name); err == nil {
			continue
		} else if !errors.Is(err, ErrNotFound) {
			return fmt.Errorf("import exercise %s: %w", ee.Name, err)
		}
		e := models.NewCustomExercise(ee.Name, ee.Category, ee.Primary...).
			WithSecondary(ee.Secondary...).
			WithInstructions(ee.Instructions)
		if id, err := uuid.Parse(ee.ID); err == nil {
			e.ID = id
		}
		if err := d.CreateExercise(e); err != nil {
			return fmt.Errorf("import exercise %s: %w", ee.Name, err)
		}
	}

	for _, ew := range data.Workouts {
		w := &models.Workout{
			ID:                  uuid.New(),
			Name:                ew.Name,
			Date:                ew.Date,
			Notes:               ew.Notes,
			Duration:            time.Duration(ew.DurationSeconds) * time.Second,
			IsCompleted:         ew.IsCompleted,
			StartedFromTemplate: ew.StartedFromTemplate,
		}
		if id, err := uuid.Parse(ew.ID); err == nil {
			w.ID = id
		}
		for _, es := range ew.Sets {
			var exercise *models.Exercise
			if es.Exercise != "" {
				e, err := d.GetExerciseByName(es.Exercise)
				if err != nil {
					return fmt.Errorf("import workout %s: %w", ew.Name, err)
				}
				exercise = e
			}
			s := models.NewExerciseSet(exercise, es.Weight, es.Reps).WithCompletedAt(es.CompletedAt)
			if id, err := ulid.Parse(es.ID); err == nil {
				s.ID = id
			}
			s.IsWarmup = es.IsWarmup
			s.RPE = es.RPE
			s.Notes = es.Notes
			if err := s.Validate(); err != nil {
				return fmt.Errorf("import workout %s: %w", ew.Name, err)
			}
			w.Sets = append(w.Sets, s)
		}
		if err := d.SaveWorkout(w); err != nil {
			return fmt.Errorf("import workout %s: %w", ew.Name, err)
		}
	}

	for _, t := range data.Templates {
		if existing, err := d.GetTemplate(t.Name); err == nil {
			t.ID = existing.ID
		}
		if err := d.SaveTemplate(t); err != nil {
			return fmt.Errorf("import template %s: %w", t.Name, err)
		}
	}
	return nil
}

// ABOUTME: Workout template persistence for SQLite storage.
// ABOUTME: Template exercises are stored as a JSON column and normalized on save.
package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/harperreed/rpt/internal/models"
)

const templateColumns = `id, name, exercises, notes`

// SaveTemplate inserts or updates a template. Rep ranges are normalized first.
func (d *DB) SaveTemplate(t *models.WorkoutTemplate) error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("save template: name is required")
	}
	t.Normalize()
	exercises := t.Exercises
	if exercises == nil {
		exercises = []models.TemplateExercise{}
	}
	data, err := json.Marshal(exercises)
	if err != nil {
		return fmt.Errorf("save template: %w", err)
	}

	_, err = d.db.Exec(`
		INSERT INTO templates (`+templateColumns+`)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			exercises = excluded.exercises,
			notes = excluded.notes
	`, t.ID.String(), t.Name, string(data), t.Notes)
	if err != nil {
		return fmt.Errorf("save template: %w", err)
	}
	return nil
}

// GetTemplate retrieves a template by name, ID or ID prefix.
func (d *DB) GetTemplate(idOrName string) (*models.WorkoutTemplate, error) {
	t, err := scanTemplate(d.db.QueryRow(`SELECT `+templateColumns+` FROM templates WHERE name = ? COLLATE NOCASE`, strings.TrimSpace(idOrName)))
	if err == nil {
		return t, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	id, err := d.resolveID("templates", idOrName)
	if err != nil {
		return nil, err
	}
	return scanTemplate(d.db.QueryRow(`SELECT `+templateColumns+` FROM templates WHERE id = ?`, id))
}

// ListTemplates returns all templates ordered by name.
func (d *DB) ListTemplates() ([]*models.WorkoutTemplate, error) {
	rows, err := d.db.Query(`SELECT ` + templateColumns + ` FROM templates ORDER BY name COLLATE NOCASE`)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	var out []*models.WorkoutTemplate
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// DeleteTemplate removes a template by name, ID or ID prefix.
func (d *DB) DeleteTemplate(idOrName string) error {
	t, err := d.GetTemplate(idOrName)
	if err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	if _, err := d.db.Exec("DELETE FROM templates WHERE id = ?", t.ID.String()); err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	return nil
}

func scanTemplate(row rowScanner) (*models.WorkoutTemplate, error) {
	var t models.WorkoutTemplate
	var idStr, exercises string

	if err := row.Scan(&idStr, &t.Name, &exercises, &t.Notes); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("template %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scan template: %w", err)
	}
	t.ID, _ = uuid.Parse(idStr)
	if err := json.Unmarshal([]byte(exercises), &t.Exercises); err != nil {
		return nil, fmt.Errorf("decode template %s: %w", t.Name, err)
	}
	return &t, nil
}

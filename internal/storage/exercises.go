// ABOUTME: Exercise CRUD operations for SQLite storage.
// ABOUTME: Builtin exercises are read-only; deleting a custom one nulls its set references.
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

const exerciseColumns = `id, name, category, primary_muscles, secondary_muscles, instructions, is_custom`

// CreateExercise stores a new exercise.
func (d *DB) CreateExercise(e *models.Exercise) error {
	if strings.TrimSpace(e.Name) == "" {
		return fmt.Errorf("create exercise: name is required")
	}
	primary, secondary, err := encodeMuscles(e)
	if err != nil {
		return fmt.Errorf("create exercise: %w", err)
	}

	query := `
		INSERT INTO exercises (` + exerciseColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err = d.db.Exec(query,
		e.ID.String(),
		e.Name,
		string(e.Category),
		primary,
		secondary,
		e.Instructions,
		e.IsCustom,
	)
	if err != nil {
		return fmt.Errorf("create exercise: %w", err)
	}
	return nil
}

// GetExercise retrieves an exercise by ID or ID prefix.
func (d *DB) GetExercise(idOrPrefix string) (*models.Exercise, error) {
	id, err := d.resolveID("exercises", idOrPrefix)
	if err != nil {
		return nil, err
	}
	row := d.db.QueryRow(`SELECT `+exerciseColumns+` FROM exercises WHERE id = ?`, id)
	return scanExercise(row)
}

// GetExerciseByName retrieves an exercise by case-insensitive name.
func (d *DB) GetExerciseByName(name string) (*models.Exercise, error) {
	row := d.db.QueryRow(`SELECT `+exerciseColumns+` FROM exercises WHERE name = ? COLLATE NOCASE`, strings.TrimSpace(name))
	return scanExercise(row)
}

// FindExercise resolves a name first and falls back to an ID prefix.
func (d *DB) FindExercise(nameOrID string) (*models.Exercise, error) {
	e, err := d.GetExerciseByName(nameOrID)
	if err == nil {
		return e, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	return d.GetExercise(nameOrID)
}

// ListExercises returns exercises ordered by name, filtered in Go for the
// muscle group since muscles are stored as JSON.
func (d *DB) ListExercises(filter ExerciseFilter) ([]*models.Exercise, error) {
	query := `SELECT ` + exerciseColumns + ` FROM exercises WHERE 1=1`
	var args []interface{}
	if filter.Category != "" {
		query += ` AND category = ?`
		args = append(args, string(filter.Category))
	}
	if filter.CustomOnly {
		query += ` AND is_custom = 1`
	}
	if filter.Search != "" {
		query += ` AND name LIKE '%' || ? || '%'`
		args = append(args, filter.Search)
	}
	query += ` ORDER BY name COLLATE NOCASE`

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list exercises: %w", err)
	}
	defer rows.Close()

	var out []*models.Exercise
	for rows.Next() {
		e, err := scanExercise(rows)
		if err != nil {
			return nil, err
		}
		if filter.Muscle != "" && !e.Trains(filter.Muscle) {
			continue
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// UpdateExercise updates a custom exercise.
func (d *DB) UpdateExercise(e *models.Exercise) error {
	cur, err := d.GetExercise(e.ID.String())
	if err != nil {
		return fmt.Errorf("update exercise: %w", err)
	}
	if !cur.IsCustom {
		return fmt.Errorf("update exercise %s: %w", cur.Name, ErrBuiltinExercise)
	}
	primary, secondary, err := encodeMuscles(e)
	if err != nil {
		return fmt.Errorf("update exercise: %w", err)
	}
	_, err = d.db.Exec(`
		UPDATE exercises
		SET name = ?, category = ?, primary_muscles = ?, secondary_muscles = ?, instructions = ?
		WHERE id = ?
	`, e.Name, string(e.Category), primary, secondary, e.Instructions, e.ID.String())
	if err != nil {
		return fmt.Errorf("update exercise: %w", err)
	}
	return nil
}

// DeleteExercise removes a custom exercise. Sets that referenced it keep
// existing with a null exercise reference.
func (d *DB) DeleteExercise(idOrPrefix string) error {
	e, err := d.GetExercise(idOrPrefix)
	if err != nil {
		return fmt.Errorf("delete exercise: %w", err)
	}
	if !e.IsCustom {
		return fmt.Errorf("delete exercise %s: %w", e.Name, ErrBuiltinExercise)
	}
	if _, err := d.db.Exec("DELETE FROM exercises WHERE id = ?", e.ID.String()); err != nil {
		return fmt.Errorf("delete exercise: %w", err)
	}
	d.logger.Debug("deleted custom exercise", "name", e.Name)
	return nil
}

// exercisesByID loads the given exercises into a shared lookup so sets of
// one workout point at the same *Exercise.
func (d *DB) exercisesByID(ids map[string]struct{}) (map[string]*models.Exercise, error) {
	out := make(map[string]*models.Exercise, len(ids))
	for id := range ids {
		row := d.db.QueryRow(`SELECT `+exerciseColumns+` FROM exercises WHERE id = ?`, id)
		e, err := scanExercise(row)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out[id] = e
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExercise(row rowScanner) (*models.Exercise, error) {
	var e models.Exercise
	var idStr, category, primary, secondary string

	err := row.Scan(&idStr, &e.Name, &category, &primary, &secondary, &e.Instructions, &e.IsCustom)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("exercise %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scan exercise: %w", err)
	}

	e.ID, _ = uuid.Parse(idStr)
	e.Category = models.Category(category)
	_ = json.Unmarshal([]byte(primary), &e.PrimaryMuscleGroups)
	_ = json.Unmarshal([]byte(secondary), &e.SecondaryMuscleGroups)
	return &e, nil
}

func encodeMuscles(e *models.Exercise) (string, string, error) {
	primary := e.PrimaryMuscleGroups
	if primary == nil {
		primary = []models.MuscleGroup{}
	}
	secondary := e.SecondaryMuscleGroups
	if secondary == nil {
		secondary = []models.MuscleGroup{}
	}
	p, err := json.Marshal(primary)
	if err != nil {
		return "", "", err
	}
	s, err := json.Marshal(secondary)
	if err != nil {
		return "", "", err
	}
	return string(p), string(s), nil
}

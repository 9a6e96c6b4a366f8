// ABOUTME: Workout and ExerciseSet persistence for SQLite storage.
// ABOUTME: SaveWorkout replaces a workout's sets in one transaction to keep slot order.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/rpt/internal/models"
	"github.com/oklog/ulid/v2"
)

const workoutColumns = `id, name, date, notes, duration_seconds, is_completed, started_from_template`

// CreateWorkout creates and stores a new empty workout.
func (d *DB) CreateWorkout(name string, fromTemplate *string) (*models.Workout, error) {
	w := models.NewWorkout(name)
	if fromTemplate != nil {
		w.FromTemplate(*fromTemplate)
	}
	if err := d.SaveWorkout(w); err != nil {
		return nil, fmt.Errorf("create workout: %w", err)
	}
	d.logger.Debug("created workout", "id", w.ID, "name", w.Name)
	return w, nil
}

// SaveWorkout upserts the workout row and rewrites its sets in slot order.
func (d *DB) SaveWorkout(w *models.Workout) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("save workout: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.Exec(`
		INSERT INTO workouts (`+workoutColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			date = excluded.date,
			notes = excluded.notes,
			duration_seconds = excluded.duration_seconds,
			is_completed = excluded.is_completed,
			started_from_template = excluded.started_from_template
	`,
		w.ID.String(),
		w.Name,
		formatTime(w.Date),
		w.Notes,
		int64(w.Duration/time.Second),
		w.IsCompleted,
		w.StartedFromTemplate,
	)
	if err != nil {
		return fmt.Errorf("save workout: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM exercise_sets WHERE workout_id = ?`, w.ID.String()); err != nil {
		return fmt.Errorf("save workout sets: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO exercise_sets (id, workout_id, exercise_id, position, weight, reps, completed_at, is_warmup, rpe, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("save workout sets: %w", err)
	}
	defer stmt.Close()

	for i, s := range w.Sets {
		var exerciseID *string
		if id, ok := s.ExerciseID(); ok {
			str := id.String()
			exerciseID = &str
		}
		_, err := stmt.Exec(
			s.ID.String(),
			w.ID.String(),
			exerciseID,
			i,
			s.Weight,
			s.Reps,
			formatTime(s.CompletedAt),
			s.IsWarmup,
			s.RPE,
			s.Notes,
		)
		if err != nil {
			return fmt.Errorf("save set %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save workout: %w", err)
	}
	return nil
}

// GetWorkout retrieves a workout with its sets by ID or ID prefix.
func (d *DB) GetWorkout(idOrPrefix string) (*models.Workout, error) {
	id, err := d.resolveID("workouts", idOrPrefix)
	if err != nil {
		return nil, err
	}
	w, err := scanWorkout(d.db.QueryRow(`SELECT `+workoutColumns+` FROM workouts WHERE id = ?`, id))
	if err != nil {
		return nil, err
	}
	if err := d.loadSets([]*models.Workout{w}); err != nil {
		return nil, err
	}
	return w, nil
}

// DeleteWorkout removes a workout and its sets (cascade delete).
func (d *DB) DeleteWorkout(idOrPrefix string) error {
	id, err := d.resolveID("workouts", idOrPrefix)
	if err != nil {
		return fmt.Errorf("delete workout: %w", err)
	}

	// CASCADE is enabled, so deleting the workout deletes its sets
	result, err := d.db.Exec("DELETE FROM workouts WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete workout: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete workout: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("delete workout: %w: %s", ErrNotFound, idOrPrefix)
	}
	return nil
}

// CompleteWorkout marks the workout complete, backfilling its duration,
// and persists it.
func (d *DB) CompleteWorkout(w *models.Workout) error {
	w.Complete(time.Now())
	if err := d.SaveWorkout(w); err != nil {
		return fmt.Errorf("complete workout: %w", err)
	}
	return nil
}

// RecentWorkouts returns workouts by date, most recent first. A limit of 0
// returns all of them.
func (d *DB) RecentWorkouts(limit int) ([]*models.Workout, error) {
	query := `SELECT ` + workoutColumns + ` FROM workouts ORDER BY date DESC`
	var args []interface{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	return d.queryWorkouts(query, args...)
}

// IncompleteWorkouts returns unfinished workouts, most recent first.
func (d *DB) IncompleteWorkouts() ([]*models.Workout, error) {
	return d.queryWorkouts(`SELECT ` + workoutColumns + ` FROM workouts WHERE is_completed = 0 ORDER BY date DESC`)
}

// WorkoutsBetween returns workouts whose date falls in [from, to], most
// recent first. A zero from means no lower bound.
func (d *DB) WorkoutsBetween(from, to time.Time) ([]*models.Workout, error) {
	return d.queryWorkouts(
		`SELECT `+workoutColumns+` FROM workouts WHERE date >= ? AND date <= ? ORDER BY date DESC`,
		formatTime(from), formatTime(to),
	)
}

func (d *DB) queryWorkouts(query string, args ...interface{}) ([]*models.Workout, error) {
	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}
	var workouts []*models.Workout
	for rows.Next() {
		w, err := scanWorkout(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		workouts = append(workouts, w)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	if err := d.loadSets(workouts); err != nil {
		return nil, err
	}
	return workouts, nil
}

// loadSets fills in the sets of each workout in slot order.
func (d *DB) loadSets(workouts []*models.Workout) error {
	if len(workouts) == 0 {
		return nil
	}
	byID := make(map[string]*models.Workout, len(workouts))
	placeholders := make([]string, 0, len(workouts))
	args := make([]interface{}, 0, len(workouts))
	for _, w := range workouts {
		w.Sets = nil
		byID[w.ID.String()] = w
		placeholders = append(placeholders, "?")
		args = append(args, w.ID.String())
	}

	rows, err := d.db.Query(`
		SELECT id, workout_id, exercise_id, weight, reps, completed_at, is_warmup, rpe, notes
		FROM exercise_sets
		WHERE workout_id IN (`+strings.Join(placeholders, ",")+`)
		ORDER BY workout_id, position
	`, args...)
	if err != nil {
		return fmt.Errorf("load sets: %w", err)
	}

	type pending struct {
		workout    *models.Workout
		set        *models.ExerciseSet
		exerciseID string
	}
	var loaded []pending
	exerciseIDs := make(map[string]struct{})
	for rows.Next() {
		var s models.ExerciseSet
		var idStr, workoutID, completedAt string
		var exerciseID sql.NullString
		var rpe sql.NullInt64

		if err := rows.Scan(&idStr, &workoutID, &exerciseID, &s.Weight, &s.Reps, &completedAt, &s.IsWarmup, &rpe, &s.Notes); err != nil {
			rows.Close()
			return fmt.Errorf("scan set: %w", err)
		}
		s.ID, _ = ulid.Parse(idStr)
		s.CompletedAt = parseTime(completedAt)
		if rpe.Valid {
			v := int(rpe.Int64)
			s.RPE = &v
		}
		p := pending{workout: byID[workoutID], set: &s}
		if exerciseID.Valid {
			p.exerciseID = exerciseID.String
			exerciseIDs[exerciseID.String] = struct{}{}
		}
		loaded = append(loaded, p)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	rows.Close()

	exercises, err := d.exercisesByID(exerciseIDs)
	if err != nil {
		return fmt.Errorf("load set exercises: %w", err)
	}
	for _, p := range loaded {
		if p.exerciseID != "" {
			p.set.Exercise = exercises[p.exerciseID]
		}
		p.workout.Sets = append(p.workout.Sets, p.set)
	}
	return nil
}

func scanWorkout(row rowScanner) (*models.Workout, error) {
	var w models.Workout
	var idStr, date string
	var durationSeconds int64
	var template sql.NullString

	err := row.Scan(&idStr, &w.Name, &date, &w.Notes, &durationSeconds, &w.IsCompleted, &template)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("workout %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scan workout: %w", err)
	}

	w.ID, _ = uuid.Parse(idStr)
	w.Date = parseTime(date)
	w.Duration = time.Duration(durationSeconds) * time.Second
	if template.Valid {
		w.StartedFromTemplate = &template.String
	}
	return &w, nil
}

// ABOUTME: SQLite schema definition and initialization.
// ABOUTME: Defines tables for exercises, workouts, exercise sets and templates.
package storage

// initSchema creates or updates the database schema.
func (d *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS exercises (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE COLLATE NOCASE,
		category TEXT NOT NULL,
		primary_muscles TEXT NOT NULL DEFAULT '[]',
		secondary_muscles TEXT NOT NULL DEFAULT '[]',
		instructions TEXT NOT NULL DEFAULT '',
		is_custom INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS workouts (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		date TEXT NOT NULL,
		notes TEXT NOT NULL DEFAULT '',
		duration_seconds INTEGER NOT NULL DEFAULT 0,
		is_completed INTEGER NOT NULL DEFAULT 0,
		started_from_template TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS exercise_sets (
		id TEXT PRIMARY KEY,
		workout_id TEXT NOT NULL,
		exercise_id TEXT,
		position INTEGER NOT NULL,
		weight REAL NOT NULL CHECK (weight >= 0),
		reps INTEGER NOT NULL CHECK (reps >= 0),
		completed_at TEXT NOT NULL,
		is_warmup INTEGER NOT NULL DEFAULT 0,
		rpe INTEGER CHECK (rpe IS NULL OR rpe BETWEEN 1 AND 10),
		notes TEXT NOT NULL DEFAULT '',
		FOREIGN KEY (workout_id) REFERENCES workouts(id) ON DELETE CASCADE,
		FOREIGN KEY (exercise_id) REFERENCES exercises(id) ON DELETE SET NULL
	);

	CREATE TABLE IF NOT EXISTS templates (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE COLLATE NOCASE,
		exercises TEXT NOT NULL DEFAULT '[]',
		notes TEXT NOT NULL DEFAULT '',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_workouts_date ON workouts(date DESC);
	CREATE INDEX IF NOT EXISTS idx_workouts_incomplete ON workouts(is_completed, date DESC);
	CREATE INDEX IF NOT EXISTS idx_sets_workout ON exercise_sets(workout_id, position);
	CREATE INDEX IF NOT EXISTS idx_sets_exercise ON exercise_sets(exercise_id, completed_at);
	`

	_, err := d.db.Exec(schema)
	return err
}

// ABOUTME: First-run seeding of the builtin exercise catalog and default templates.
// ABOUTME: Runs inside Open and does nothing once builtins exist.
package storage

import (
	"fmt"

	"github.com/harperreed/rpt/internal/models"
)

func (d *DB) seed() error {
	var builtins int
	if err := d.db.QueryRow(`SELECT COUNT(*) FROM exercises WHERE is_custom = 0`).Scan(&builtins); err != nil {
		return fmt.Errorf("count builtin exercises: %w", err)
	}
	if builtins > 0 {
		return nil
	}

	catalog := models.BuiltinExercises()
	for _, e := range catalog {
		if err := d.CreateExercise(e); err != nil {
			return fmt.Errorf("seed %s: %w", e.Name, err)
		}
	}

	var templates int
	if err := d.db.QueryRow(`SELECT COUNT(*) FROM templates`).Scan(&templates); err != nil {
		return fmt.Errorf("count templates: %w", err)
	}
	if templates == 0 {
		for _, t := range models.DefaultTemplates() {
			if err := d.SaveTemplate(t); err != nil {
				return fmt.Errorf("seed template %s: %w", t.Name, err)
			}
		}
	}

	d.logger.Info("seeded builtin catalog", "exercises", len(catalog))
	return nil
}

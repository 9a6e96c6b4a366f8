// ABOUTME: Persistent user settings over the key-value store.
// ABOUTME: Every write is validated; reads fall back to defaults.
package settings

import (
	"errors"
	"fmt"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/harperreed/rpt/internal/kvstore"
	"github.com/harperreed/rpt/internal/logging"
	"github.com/harperreed/rpt/internal/models"
)

const key = "settings"

// Store reads and writes settings. It satisfies the session engine's
// settings provider, reading fresh values on every call.
type Store struct {
	kv     kvstore.Store
	logger *log.Logger
}

// New creates a settings store.
func New(kv kvstore.Store, logger *log.Logger) *Store {
	return &Store{kv: kv, logger: logging.OrDiscard(logger)}
}

// Load returns the stored settings, or the defaults when none are stored.
// Stored values that fail validation are replaced by their defaults.
func (s *Store) Load() (models.Settings, error) {
	cur := models.DefaultSettings()
	err := kvstore.GetJSON(s.kv, key, &cur)
	if errors.Is(err, kvstore.ErrNotFound) {
		return models.DefaultSettings(), nil
	}
	if err != nil {
		return models.DefaultSettings(), fmt.Errorf("load settings: %w", err)
	}
	return repair(cur), nil
}

// Current is Load that logs and swallows read failures.
func (s *Store) Current() models.Settings {
	cur, err := s.Load()
	if err != nil {
		s.logger.Warn("using default settings", "err", err)
	}
	return cur
}

// Save validates and persists all settings.
func (s *Store) Save(next models.Settings) error {
	if err := next.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	if err := kvstore.SetJSON(s.kv, key, next); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	s.logger.Debug("settings saved", "rest", next.RestTimerDuration, "drops", next.RPTPercentageDrops, "unit", next.Unit)
	return nil
}

func (s *Store) update(fn func(*models.Settings)) error {
	cur, err := s.Load()
	if err != nil {
		return err
	}
	fn(&cur)
	return s.Save(cur)
}

// SetRestTimer changes the rest timer duration in seconds.
func (s *Store) SetRestTimer(seconds int) error {
	return s.update(func(c *models.Settings) { c.RestTimerDuration = seconds })
}

// SetDrops replaces the RPT drop table.
func (s *Store) SetDrops(drops []float64) error {
	return s.update(func(c *models.Settings) { c.RPTPercentageDrops = slices.Clone(drops) })
}

// SetShowRPE toggles RPE entry.
func (s *Store) SetShowRPE(show bool) error {
	return s.update(func(c *models.Settings) { c.ShowRPE = show })
}

// SetUnit changes the display unit.
func (s *Store) SetUnit(unit string) error {
	return s.update(func(c *models.Settings) { c.Unit = unit })
}

// Reset restores the factory defaults.
func (s *Store) Reset() error {
	if err := s.kv.Delete(key); err != nil {
		return fmt.Errorf("reset settings: %w", err)
	}
	s.logger.Info("settings reset to defaults")
	return nil
}

// RestTimerDuration implements the engine's settings provider.
func (s *Store) RestTimerDuration() int {
	return s.Current().RestTimerDuration
}

// RPTPercentageDrops implements the engine's settings provider.
func (s *Store) RPTPercentageDrops() []float64 {
	return s.Current().RPTPercentageDrops
}

// ShowRPE implements the engine's settings provider.
func (s *Store) ShowRPE() bool {
	return s.Current().ShowRPE
}

// Unit returns the display unit.
func (s *Store) Unit() string {
	return s.Current().Unit
}

func repair(s models.Settings) models.Settings {
	def := models.DefaultSettings()
	if models.ValidateRest(s.RestTimerDuration) != nil {
		s.RestTimerDuration = def.RestTimerDuration
	}
	if models.ValidateDrops(s.RPTPercentageDrops) != nil {
		s.RPTPercentageDrops = def.RPTPercentageDrops
	}
	if models.ValidateUnit(s.Unit) != nil {
		s.Unit = def.Unit
	}
	return s
}

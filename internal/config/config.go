// ABOUTME: RPT configuration management with backend selection.
// ABOUTME: Reads config.json through afero, applies .env overrides, and opens storage.

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/harperreed/rpt/internal/kvstore"
	"github.com/harperreed/rpt/internal/models"
	"github.com/harperreed/rpt/internal/storage"
	"github.com/joho/godotenv"
	"github.com/spf13/afero"
)

// Environment overrides.
const (
	EnvDataDir   = "RPT_DATA_DIR"
	EnvKVBackend = "RPT_KV_BACKEND"
	EnvUnit      = "RPT_UNIT"
)

// Key-value backends.
const (
	KVBadger = "badger"
	KVCharm  = "charm"
	KVMemory = "memory"
)

// charmDBName is the Charm KV database name.
const charmDBName = "rpt"

// Config stores rpt configuration.
type Config struct {
	// Backend selects the workout storage backend. Only "sqlite" exists.
	Backend string `json:"backend,omitempty"`

	// DataDir is the root directory for data storage. rpt.db and the kv/
	// directory live here. Supports ~ expansion. Defaults to ~/.local/share/rpt.
	DataDir string `json:"data_dir,omitempty"`

	// KVBackend selects where settings, the lifecycle flag and session UI
	// state live: "badger" (default), "charm" or "memory".
	KVBackend string `json:"kv_backend,omitempty"`

	// Unit overrides the display unit from settings when set.
	Unit string `json:"unit,omitempty"`
}

// GetBackend returns the configured backend, defaulting to "sqlite".
func (c *Config) GetBackend() string {
	if c.Backend == "" {
		return "sqlite"
	}
	return c.Backend
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return storage.DataDir()
	}
	return ExpandPath(c.DataDir)
}

// GetKVBackend returns the configured key-value backend, defaulting to badger.
func (c *Config) GetKVBackend() string {
	if c.KVBackend == "" {
		return KVBadger
	}
	return c.KVBackend
}

// Validate checks the fields that have a fixed set of values.
func (c *Config) Validate() error {
	if b := c.GetBackend(); b != "sqlite" {
		return fmt.Errorf("unknown backend: %q", b)
	}
	switch c.GetKVBackend() {
	case KVBadger, KVCharm, KVMemory:
	default:
		return fmt.Errorf("unknown kv backend: %q", c.KVBackend)
	}
	if c.Unit != "" {
		if err := models.ValidateUnit(c.Unit); err != nil {
			return fmt.Errorf("unit %q: %w", c.Unit, err)
		}
	}
	return nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// DBPath is the SQLite database path inside the data directory.
func (c *Config) DBPath() string {
	return filepath.Join(c.GetDataDir(), "rpt.db")
}

// KVDir is the Badger directory inside the data directory.
func (c *Config) KVDir() string {
	return filepath.Join(c.GetDataDir(), "kv")
}

// OpenStorage creates a Repository implementation based on the configured backend.
func (c *Config) OpenStorage(opts ...storage.Option) (*storage.DB, error) {
	switch backend := c.GetBackend(); backend {
	case "sqlite":
		return storage.Open(c.DBPath(), opts...)
	default:
		return nil, fmt.Errorf("unknown backend: %q", backend)
	}
}

// OpenKV opens the configured key-value store.
func (c *Config) OpenKV() (kvstore.Store, error) {
	switch backend := c.GetKVBackend(); backend {
	case KVBadger:
		return kvstore.OpenBadger(c.KVDir())
	case KVCharm:
		return kvstore.OpenCharm(charmDBName)
	case KVMemory:
		return kvstore.OpenMemory()
	default:
		return nil, fmt.Errorf("unknown kv backend: %q", backend)
	}
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "rpt", "config.json")
}

// LoadEnvFile loads KEY=value pairs from a .env file into the process
// environment. Variables already set win. A missing file is not an error.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// Load reads config from disk and applies environment overrides.
func Load() (*Config, error) {
	return LoadFS(afero.NewOsFs(), GetConfigPath())
}

// LoadFS reads config from path on fsys and applies environment overrides.
// A missing file yields an empty config.
func LoadFS(fsys afero.Fs, path string) (*Config, error) {
	cfg := &Config{}
	data, err := afero.ReadFile(fsys, path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v, ok := os.LookupEnv(EnvDataDir); ok && v != "" {
		c.DataDir = v
	}
	if v, ok := os.LookupEnv(EnvKVBackend); ok && v != "" {
		c.KVBackend = v
	}
	if v, ok := os.LookupEnv(EnvUnit); ok && v != "" {
		c.Unit = v
	}
}

// Save writes config to disk.
func (c *Config) Save() error {
	return c.SaveFS(afero.NewOsFs(), GetConfigPath())
}

// SaveFS writes config to path on fsys, creating the directory.
func (c *Config) SaveFS(fsys afero.Fs, path string) error {
	if err := fsys.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return afero.WriteFile(fsys, path, data, 0600)
}

// ABOUTME: Root Cobra command for the rpt CLI.
// ABOUTME: Opens storage, the kv store, settings and lifecycle via PersistentPre/PostRunE.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/harperreed/rpt/internal/config"
	"github.com/harperreed/rpt/internal/kvstore"
	"github.com/harperreed/rpt/internal/lifecycle"
	"github.com/harperreed/rpt/internal/logging"
	"github.com/harperreed/rpt/internal/settings"
	"github.com/harperreed/rpt/internal/storage"
	"github.com/harperreed/rpt/internal/uistate"
	"github.com/spf13/cobra"
)

var (
	cfg     *config.Config
	repo    *storage.DB
	kv      kvstore.Store
	prefs   *settings.Store
	life    *lifecycle.Coordinator
	ui      *uistate.Store
	logger  *log.Logger
	verbose bool
	dataDir string
)

var rootCmd = &cobra.Command{
	Use:   "rpt",
	Short: "Reverse pyramid training workout tracker",
	Long: `RPT tracks reverse pyramid training workouts from the terminal.

Each exercise starts with its heaviest set. Every set you add after the first
is pre-filled with a percentage drop from the top set and two more reps, so
a session stays a few keystrokes per set.

QUICK START:

  $ rpt workout start "Push Day"          # Start a session
  $ rpt set add-exercise "Bench Press"    # Add an exercise (first set empty)
  $ rpt set update 01J... 225 6           # Fill in the top set
  $ rpt set add "Bench Press"             # Next set: 205 x 8, pre-filled
  $ rpt workout show                      # See the session
  $ rpt workout complete                  # Finish it

TEMPLATES:

  $ rpt template list
  $ rpt template start "Upper Body RPT"   # Weights come from your last session

SETTINGS:

  $ rpt settings drops 0 10 15            # Drop table in percent
  $ rpt settings rest 120                 # Rest timer in seconds
  $ rpt timer                             # Run the rest countdown

MCP INTEGRATION:

  Run 'rpt mcp' to start the Model Context Protocol server. Add to your
  assistant config:

  {
    "mcpServers": {
      "rpt": { "command": "rpt", "args": ["mcp"] }
    }
  }

DATA STORAGE:

  Workouts live in SQLite at ~/.local/share/rpt/rpt.db. Settings, the
  discard flag and session view state live in a Badger store under
  ~/.local/share/rpt/kv (or Charm KV with kv_backend "charm").`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip storage init for commands that don't need it
		switch cmd.Name() {
		case "version", "help", "install-skill":
			return nil
		}
		return openResources()
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeResources()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "Override the data directory")
}

func openResources() error {
	logger = logging.New(os.Stderr, verbose)

	if err := config.LoadEnvFile(".env"); err != nil {
		return err
	}
	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	repo, err = cfg.OpenStorage(storage.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	kv, err = cfg.OpenKV()
	if err != nil {
		_ = repo.Close()
		repo = nil
		return fmt.Errorf("failed to open kv store: %w", err)
	}

	prefs = settings.New(kv, logger)
	life = lifecycle.New(kv, lifecycle.WithLogger(logger))
	ui = uistate.New(kv)
	logger.Debug("opened storage", "db", cfg.DBPath(), "kv", cfg.GetKVBackend())
	return nil
}

func closeResources() error {
	var errs []error
	if kv != nil {
		errs = append(errs, kv.Close())
		kv = nil
	}
	if repo != nil {
		errs = append(errs, repo.Close())
		repo = nil
	}
	return errors.Join(errs...)
}

// displayUnit is the unit for output: the config override, else settings.
func displayUnit() string {
	if cfg != nil && cfg.Unit != "" {
		return cfg.Unit
	}
	return prefs.Unit()
}

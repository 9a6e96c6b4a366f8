// ABOUTME: CLI commands for settings that drive the session engine.
// ABOUTME: Supports show, rest, drops, rpe, unit, reset and Charm sync.
package main

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/rpt/internal/kvstore"
	"github.com/harperreed/rpt/internal/rpt"
	"github.com/spf13/cobra"
)

// exampleTopSet is the first-set weight used to illustrate the drop table.
const exampleTopSet = 200

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show and change settings",
	Long: `Settings control the rest timer, the RPT drop table and whether RPE is
shown. Changes apply to the next action; sets already logged are not
recomputed.

Examples:
  rpt settings show
  rpt settings rest 120
  rpt settings drops 0 10 15 20
  rpt settings rpe off
  rpt settings unit kg
  rpt settings reset`,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := prefs.Load()
		if err != nil {
			color.Yellow("⚠ %v", err)
		}
		unit := displayUnit()
		faint := color.New(color.Faint)

		fmt.Printf("Rest timer:  %ds\n", s.RestTimerDuration)
		fmt.Printf("Drops:       %s\n", formatDrops(s.RPTPercentageDrops))
		faint.Printf("             %d %s → %s\n", exampleTopSet, unit, rpt.FormatExample(exampleTopSet, s.RPTPercentageDrops, unit))
		fmt.Printf("Show RPE:    %t\n", s.ShowRPE)
		fmt.Printf("Unit:        %s", s.Unit)
		if unit != s.Unit {
			faint.Printf("  (config overrides to %s)", unit)
		}
		fmt.Println()
		return nil
	},
}

func formatDrops(drops []float64) string {
	parts := make([]string, len(drops))
	for i, d := range drops {
		parts[i] = strconv.FormatFloat(math.Round(d*1000)/10, 'f', -1, 64) + "%"
	}
	return strings.Join(parts, ", ")
}

var settingsRestCmd = &cobra.Command{
	Use:   "rest <seconds>",
	Short: "Set the rest timer duration",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		secs, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid seconds: %s", args[0])
		}
		if err := prefs.SetRestTimer(secs); err != nil {
			return err
		}
		color.Green("✓ Rest timer set to %ds", secs)
		return nil
	},
}

var settingsDropsCmd = &cobra.Command{
	Use:   "drops <percent>...",
	Short: "Set the RPT drop table in percent",
	Long: `Set the drop from the first set for each set, in percent. The first
value must be 0. Sets beyond the table use the built-in fallbacks.

Example:
  rpt settings drops 0 10 15`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		drops, err := parseDrops(args)
		if err != nil {
			return err
		}
		if err := prefs.SetDrops(drops); err != nil {
			return err
		}
		color.Green("✓ Drops set to %s", formatDrops(drops))
		return nil
	},
}

// parseDrops reads percentages, accepting "10", "10%" and comma lists.
func parseDrops(args []string) ([]float64, error) {
	var drops []float64
	for _, arg := range args {
		for _, field := range strings.Split(arg, ",") {
			field = strings.TrimSuffix(strings.TrimSpace(field), "%")
			if field == "" {
				continue
			}
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid percentage: %s", field)
			}
			drops = append(drops, v/100)
		}
	}
	return drops, nil
}

var settingsRPECmd = &cobra.Command{
	Use:       "rpe <on|off>",
	Short:     "Show or hide RPE",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"on", "off"},
	RunE: func(cmd *cobra.Command, args []string) error {
		var show bool
		switch strings.ToLower(args[0]) {
		case "on", "true", "yes":
			show = true
		case "off", "false", "no":
		default:
			return fmt.Errorf("expected on or off, got %q", args[0])
		}
		if err := prefs.SetShowRPE(show); err != nil {
			return err
		}
		color.Green("✓ RPE %s", map[bool]string{true: "shown", false: "hidden"}[show])
		return nil
	},
}

var settingsUnitCmd = &cobra.Command{
	Use:       "unit <lb|kg>",
	Short:     "Set the display unit",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"lb", "kg"},
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := prefs.SetUnit(args[0]); err != nil {
			return err
		}
		color.Green("✓ Unit set to %s", args[0])
		return nil
	},
}

var settingsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore default settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := prefs.Reset(); err != nil {
			return err
		}
		color.Green("✓ Settings reset to defaults")
		return nil
	},
}

var settingsSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync settings and session state with Charm Cloud",
	Long: `Pull and push the key-value store when kv_backend is "charm".

Writes already sync as they happen; use this to pick up changes made on
another device.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		syncer, ok := kv.(kvstore.Syncer)
		if !ok {
			fmt.Printf("kv backend %q is local; nothing to sync\n", cfg.GetKVBackend())
			return nil
		}
		if syncer.IsReadOnly() {
			return kvstore.ErrReadOnly
		}
		if err := syncer.Sync(); err != nil {
			return fmt.Errorf("sync: %w", err)
		}
		color.Green("✓ Synced with Charm Cloud")
		return nil
	},
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsRestCmd)
	settingsCmd.AddCommand(settingsDropsCmd)
	settingsCmd.AddCommand(settingsRPECmd)
	settingsCmd.AddCommand(settingsUnitCmd)
	settingsCmd.AddCommand(settingsResetCmd)
	settingsCmd.AddCommand(settingsSyncCmd)
	rootCmd.AddCommand(settingsCmd)
}

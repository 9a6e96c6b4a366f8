// ABOUTME: CLI commands for exporting and importing rpt data.
// ABOUTME: Supports JSON, YAML and Markdown export and JSON/YAML import.
package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/rpt/internal/storage"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var (
	exportOutput string
	exportSince  string
)

// dataFS is the filesystem exports are written to and imports read from.
var dataFS = afero.NewOsFs()

var exportCmd = &cobra.Command{
	Use:   "export <format>",
	Short: "Export rpt data",
	Long: `Export rpt data in various formats.

FORMATS:

  json       Full JSON export (suitable for backup/restore)
  yaml       YAML export (human-readable)
  markdown   Markdown tables per workout (for sharing)

OPTIONS:

  --output, -o   Write to file instead of stdout
  --since        Only include workouts since this date (markdown only, YYYY-MM-DD)

EXAMPLES:

  rpt export json                        # Export all data as JSON
  rpt export json -o backup.json         # Save to file
  rpt export yaml                        # Export as YAML
  rpt export markdown --since 2026-01-01 # Workouts from 2026 onward`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"json", "yaml", "markdown"},
	RunE: func(cmd *cobra.Command, args []string) error {
		format := args[0]

		var data []byte
		var err error

		switch format {
		case "json":
			data, err = repo.ExportJSON()
		case "yaml":
			data, err = repo.ExportYAML()
		case "markdown":
			var since time.Time
			if exportSince != "" {
				since, err = time.ParseInLocation("2006-01-02", exportSince, time.Local)
				if err != nil {
					return fmt.Errorf("invalid date format: %s (use YYYY-MM-DD)", exportSince)
				}
			}
			var md string
			md, err = repo.ExportMarkdown(since, displayUnit())
			data = []byte(md)
		default:
			return fmt.Errorf("unknown format: %s (use json, yaml, or markdown)", format)
		}

		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		if exportOutput != "" {
			if err := afero.WriteFile(dataFS, exportOutput, data, 0600); err != nil {
				return fmt.Errorf("failed to write file: %w", err)
			}
			color.Green("✓ Exported to %s", exportOutput)
		} else {
			fmt.Println(string(data))
		}

		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import rpt data from a JSON or YAML export",
	Long: `Import rpt data from a previously exported file. The format follows the
extension (.yaml/.yml, otherwise JSON).

Exercises are matched by name and created when missing. Workouts and
templates with the same ID or name are replaced, so importing the same file
twice is harmless.

EXAMPLES:

  rpt import backup.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filename := args[0]

		data, err := afero.ReadFile(dataFS, filename)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
		ext := strings.ToLower(filepath.Ext(filename))
		export, err := storage.ParseExport(data, ext == ".yaml" || ext == ".yml")
		if err != nil {
			return err
		}
		if err := repo.ImportData(export); err != nil {
			return fmt.Errorf("import failed: %w", err)
		}

		color.Green("✓ Imported %d workouts and %d templates from %s", len(export.Workouts), len(export.Templates), filename)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: stdout)")
	exportCmd.Flags().StringVar(&exportSince, "since", "", "only include workouts since date (YYYY-MM-DD)")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}

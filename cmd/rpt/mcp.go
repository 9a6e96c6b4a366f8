// ABOUTME: CLI command for starting the MCP server.
// ABOUTME: Runs a stdio MCP server that drives workout sessions.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/harperreed/rpt/internal/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant integration.

The server communicates via stdin/stdout and uses the same database,
settings and discard flag as the CLI.

CONFIGURATION:

  {
    "mcpServers": {
      "rpt": {
        "command": "rpt",
        "args": ["mcp"]
      }
    }
  }

AVAILABLE TOOLS:

  start_workout      Start a session, optionally from a template
  add_exercise       Add an exercise with an empty first set
  add_set            Add the next pre-filled RPT set
  update_set         Record weight, reps and RPE (propagate drop sets)
  delete_set         Delete a set
  complete_workout   Finish the session
  discard_workout    Delete the session and never offer it again
  list_workouts      Recent workouts
  exercise_history   Past sets and estimated 1RM for an exercise
  rpt_example        Drop-set weights for a top set

AVAILABLE RESOURCES:

  rpt://resumable    The workout that would be resumed
  rpt://settings     Current settings
  rpt://templates    Saved templates`,
	RunE: func(cmd *cobra.Command, args []string) error {
		server, err := mcp.NewServer(repo, prefs, life, ui, logger)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Handle shutdown signals
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigChan
			cancel()
		}()

		return server.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

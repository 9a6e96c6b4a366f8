// ABOUTME: CLI command running the rest timer countdown.
// ABOUTME: Shows a bubbletea progress view, or waits plainly with --plain.
package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/harperreed/rpt/internal/rpt"
	"github.com/harperreed/rpt/internal/session"
	"github.com/harperreed/rpt/internal/tui"
	"github.com/spf13/cobra"
)

var timerPlain bool

// restClock adapts a bare RestTimer to the countdown view.
type restClock struct {
	t *session.RestTimer
}

func (c restClock) RestTimerActive() bool        { return c.t.Active() }
func (c restClock) RestDuration() time.Duration  { return c.t.Duration() }
func (c restClock) RestRemaining() time.Duration { return c.t.Remaining() }
func (c restClock) CancelRestTimer()             { c.t.Cancel() }

var timerCmd = &cobra.Command{
	Use:   "timer [seconds]",
	Short: "Run the rest timer",
	Long: `Count down a rest period and ring the terminal bell when it ends.
Defaults to the rest timer setting. Press s, q or enter to skip.

Examples:
  rpt timer
  rpt timer 180
  rpt timer --plain`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		secs := prefs.RestTimerDuration()
		if len(args) > 0 {
			n, err := strconv.Atoi(args[0])
			if err != nil || n <= 0 {
				return fmt.Errorf("invalid seconds: %s", args[0])
			}
			secs = n
		}
		d := time.Duration(secs) * time.Second

		bell := session.NewBellFeedback(os.Stdout)
		clock := restClock{t: session.NewRestTimer()}
		clock.t.Start(d, func() { bell.Notify(session.EventRestFinished) })

		if timerPlain {
			fmt.Printf("Resting %s...\n", rpt.FormatDuration(d))
			select {
			case <-clock.t.Done():
			case <-cmd.Context().Done():
				clock.t.Cancel()
			}
			fmt.Println("Rest over.")
			return nil
		}

		skipped, err := tui.RunRest(clock, "Rest")
		if err != nil {
			clock.t.Cancel()
			return err
		}
		if skipped {
			fmt.Println("Rest skipped.")
		}
		return nil
	},
}

func init() {
	timerCmd.Flags().BoolVar(&timerPlain, "plain", false, "wait without the progress view")
	rootCmd.AddCommand(timerCmd)
}

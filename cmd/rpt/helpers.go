// ABOUTME: Output helpers shared by CLI commands.
// ABOUTME: Renders sessions and pads or truncates table columns.
package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/rpt/internal/models"
	"github.com/harperreed/rpt/internal/rpt"
	"github.com/harperreed/rpt/internal/session"
)

// truncate shortens s to max runes, adding "..." when cut.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}

// padRight pads s with spaces to width runes.
func padRight(s string, width int) string {
	n := len([]rune(s))
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

// formatSet renders "225 lb × 6" with an optional RPE.
func formatSet(s session.SetSnapshot, unit string, showRPE bool) string {
	out := fmt.Sprintf("%s × %d", rpt.FormatWeight(s.Weight, unit), s.Reps)
	if s.Weight == 0 {
		out = fmt.Sprintf("— × %d", s.Reps)
	}
	if showRPE && s.RPE != nil {
		out += fmt.Sprintf("  RPE %d", *s.RPE)
	}
	if s.IsWarmup {
		out += "  (warmup)"
	}
	return out
}

// printSession renders the session. Collapsed exercises show a one-line
// summary unless all is set.
// formatDropChain renders the weights of every set after the first,
// e.g. "180 → 160 lb".
func formatDropChain(sets []*models.ExerciseSet, unit string) string {
	if len(sets) < 2 {
		return "no drop sets"
	}
	parts := make([]string, 0, len(sets)-1)
	for _, s := range sets[1:] {
		parts = append(parts, strings.TrimSpace(rpt.FormatWeight(s.Weight, "")))
	}
	return strings.Join(parts, " → ") + " " + unit
}

func printSession(e *session.Engine, all bool) {
	snap := e.Snapshot()
	unit := displayUnit()
	showRPE := e.ShowRPE()
	faint := color.New(color.Faint)
	bold := color.New(color.Bold)

	bold.Printf("%s", snap.Name)
	faint.Printf("  %s  %s\n", snap.ID[:8], snap.Date.Local().Format("2006-01-02 15:04"))
	if snap.Template != "" {
		faint.Printf("from template: %s\n", snap.Template)
	}
	if len(snap.Exercises) == 0 {
		fmt.Println()
		fmt.Println("No exercises yet. Add one with 'rpt set add-exercise <name>'.")
		return
	}

	for _, ex := range snap.Exercises {
		fmt.Println()
		marker := "▸"
		if ex.Expanded || all {
			marker = "▾"
		}
		name := ex.Name
		if ex.Completed {
			name += " " + color.GreenString("✓")
		}
		fmt.Printf("%s %s\n", marker, name)
		if !ex.Expanded && !all {
			top := ex.Sets[0]
			faint.Printf("    %d sets, top %s\n", len(ex.Sets), formatSet(top, unit, false))
			continue
		}
		for _, s := range ex.Sets {
			fmt.Printf("   %d  %s  ", s.Slot, padRight(formatSet(s, unit, showRPE), 26))
			faint.Println(s.ID)
		}
	}

	fmt.Println()
	fmt.Printf("Total volume: %s\n", rpt.FormatVolumeLong(snap.TotalVolume, unit))
	if snap.AllDone {
		color.Green("All exercises done. Finish with 'rpt workout complete'.")
	}
}

// reportEngineError surfaces a pending storage failure the engine kept.
func reportEngineError(e *session.Engine) {
	if err := e.LastError(); err != nil {
		color.Yellow("⚠ Last save failed: %v", err)
	}
}

// ABOUTME: Full-screen rest timer countdown built on bubbletea.
// ABOUTME: Polls the session's timer and quits when it expires or the user skips.
package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/harperreed/rpt/internal/rpt"
)

const tickInterval = 200 * time.Millisecond

// RestSource is the part of a session the countdown reads.
type RestSource interface {
	RestTimerActive() bool
	RestDuration() time.Duration
	RestRemaining() time.Duration
	CancelRestTimer()
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#5B8DEF"))
	clockStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Padding(1, 0)
	doneStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#4CAF50"))
	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(1, 3)
)

type tickMsg time.Time

// RestModel is the countdown screen.
type RestModel struct {
	src     RestSource
	title   string
	bar     progress.Model
	skipped bool
	done    bool
}

// NewRestModel builds a countdown for src. The timer must already be running.
func NewRestModel(src RestSource, title string) RestModel {
	bar := progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())
	bar.Width = 40
	return RestModel{src: src, title: title, bar: bar}
}

// Skipped reports whether the user ended the rest early.
func (m RestModel) Skipped() bool { return m.skipped }

// Finished reports whether the countdown ran to zero.
func (m RestModel) Finished() bool { return m.done }

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Init starts polling.
func (m RestModel) Init() tea.Cmd {
	return tick()
}

// Update handles ticks and key presses.
func (m RestModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if !m.src.RestTimerActive() {
			m.done = true
			return m, tea.Quit
		}
		return m, tick()
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "s", "esc", "enter", "ctrl+c":
			m.src.CancelRestTimer()
			m.skipped = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.bar.Width = max(20, min(60, msg.Width-10))
	}
	return m, nil
}

// Fraction is the share of the rest already elapsed, in [0, 1].
func Fraction(remaining, total time.Duration) float64 {
	if total <= 0 {
		return 1
	}
	f := 1 - float64(remaining)/float64(total)
	return min(max(f, 0), 1)
}

// View renders the countdown.
func (m RestModel) View() string {
	if m.done {
		return boxStyle.Render(doneStyle.Render("Rest over. Next set!")) + "\n"
	}
	if m.skipped {
		return ""
	}
	remaining := m.src.RestRemaining()
	total := m.src.RestDuration()
	body := lipgloss.JoinVertical(lipgloss.Center,
		titleStyle.Render(m.title),
		clockStyle.Render(rpt.FormatDuration(remaining.Round(time.Second))),
		m.bar.ViewAs(Fraction(remaining, total)),
		"",
		hintStyle.Render(fmt.Sprintf("%s rest · s/q to skip", rpt.FormatDuration(total))),
	)
	return boxStyle.Render(body) + "\n"
}

// RunRest shows the countdown until it expires or is skipped, and reports
// whether it was skipped.
func RunRest(src RestSource, title string, opts ...tea.ProgramOption) (bool, error) {
	final, err := tea.NewProgram(NewRestModel(src, title), opts...).Run()
	if err != nil {
		return false, fmt.Errorf("run rest timer: %w", err)
	}
	m, ok := final.(RestModel)
	return ok && m.skipped, nil
}

// Package tui renders interactive scan progress with bubbletea.
package tui

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"winnow/internal/scan"
)

// Model displays probe progress fed through a scan.Progress channel. The
// channel closing ends the program; ctrl+c cancels the scan through the
// provided cancel func and waits for the channel to drain.
type Model struct {
	updates  <-chan scan.Progress
	cancel   context.CancelFunc
	started  time.Time
	width    int
	total    int
	done     int
	degraded int
	current  string
	quitting bool
}

type doneMsg struct{}

type updateMsg scan.Progress

// NewModel returns a progress model reading from updates. cancel may be nil.
func NewModel(updates <-chan scan.Progress, cancel context.CancelFunc) Model {
	return Model{updates: updates, cancel: cancel, started: time.Now()}
}

func (m Model) Init() tea.Cmd {
	return listenForUpdates(m.updates)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case updateMsg:
		m.total = msg.Total
		m.done = msg.Done
		m.current = msg.Path
		if msg.Degraded {
			m.degraded++
		}
		return m, listenForUpdates(m.updates)
	case doneMsg:
		m.quitting = true
		return m, tea.Quit
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" && m.cancel != nil {
			m.cancel()
		}
		return m, nil
	default:
		return m, nil
	}
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	barWidth := 40
	if m.width > 0 {
		barWidth = int(math.Min(60, float64(m.width-10)))
		if barWidth < 20 {
			barWidth = 20
		}
	}

	ratio := 0.0
	if m.total > 0 {
		ratio = float64(m.done) / float64(m.total)
		if ratio > 1 {
			ratio = 1
		}
	}

	counts := labelStyle.Render(fmt.Sprintf("Probed: %d/%d", m.done, m.total))
	if m.degraded > 0 {
		counts += warnStyle.Render(fmt.Sprintf("  unreadable:%d", m.degraded))
	}

	elapsed := time.Since(m.started).Round(time.Millisecond)
	lines := []string{
		titleStyle.Render("winnow scan"),
		counts,
		dimStyle.Render(truncatePath(m.current, barWidth+2)),
		dimStyle.Render(fmt.Sprintf("Elapsed: %s", elapsed)),
		barStyle.Render(renderBar(barWidth, ratio)),
	}
	return strings.Join(lines, "\n")
}

func listenForUpdates(updates <-chan scan.Progress) tea.Cmd {
	return func() tea.Msg {
		update, ok := <-updates
		if !ok {
			return doneMsg{}
		}
		return updateMsg(update)
	}
}

func renderBar(width int, ratio float64) string {
	filled := int(math.Round(ratio * float64(width)))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return "[" + strings.Repeat("=", filled) + strings.Repeat(" ", width-filled) + "]"
}

func truncatePath(path string, width int) string {
	if width <= 1 || len(path) <= width {
		return path
	}
	return "…" + path[len(path)-width+1:]
}

package tui

import "github.com/charmbracelet/lipgloss"

var (
	ColorInk     = lipgloss.Color("#ECEFF4")
	ColorDim     = lipgloss.Color("#667084")
	ColorAccent  = lipgloss.Color("#8FBCBB")
	ColorSuccess = lipgloss.Color("#A3BE8C")
	ColorWarn    = lipgloss.Color("#EBCB8B")
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
	labelStyle = lipgloss.NewStyle().Foreground(ColorInk)
	warnStyle  = lipgloss.NewStyle().Foreground(ColorWarn)
	dimStyle   = lipgloss.NewStyle().Foreground(ColorDim)
	barStyle   = lipgloss.NewStyle().Foreground(ColorAccent)
)

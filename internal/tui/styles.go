// Package tui renders load progress: plain lines for logs and pipes, plus a
// progress bar and a download spinner when attached to a terminal.
package tui

import "github.com/charmbracelet/lipgloss"

var (
	ColorPrimary = lipgloss.Color("39")  // Blue
	ColorSuccess = lipgloss.Color("34")  // Green
	ColorMuted   = lipgloss.Color("240") // Dark gray
)

var (
	SpinnerStyle = lipgloss.NewStyle().Foreground(ColorPrimary)
	MutedStyle   = lipgloss.NewStyle().Foreground(ColorMuted)
	SuccessStyle = lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true)
)

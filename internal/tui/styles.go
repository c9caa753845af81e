package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorAccent = lipgloss.Color("#7D56F4")
	colorError  = lipgloss.Color("#FF5F87")
	colorMuted  = lipgloss.Color("#666666")
	colorText   = lipgloss.Color("#FAFAFA")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorText).
			Background(colorAccent).
			Padding(0, 1)

	headwordStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent)

	phoneticStyle = lipgloss.NewStyle().
			Italic(true).
			Foreground(colorMuted)

	partOfSpeechStyle = lipgloss.NewStyle().
				Bold(true).
				Underline(true)

	exampleStyle = lipgloss.NewStyle().
			Italic(true).
			Foreground(colorMuted)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorError)

	synonymStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted)

	selectedSynonymStyle = synonymStyle.
				BorderForeground(colorAccent).
				Foreground(colorAccent).
				Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(colorMuted)
)

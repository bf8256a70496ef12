// Package tui is the terminal front of the pharmacy finder.
// It uses the Charm Bubble Tea framework: an address bar, a postal-code
// picker modal and the results cards.
package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Color palette for the TUI
var (
	primaryColor   = lipgloss.Color("#2563EB") // Blue
	secondaryColor = lipgloss.Color("#10B981") // Emerald
	accentColor    = lipgloss.Color("#F59E0B") // Amber
	errorColor     = lipgloss.Color("#EF4444") // Red

	fgColor     = lipgloss.Color("#CDD6F4") // Light foreground
	mutedColor  = lipgloss.Color("#6C7086") // Muted text
	borderColor = lipgloss.Color("#45475A") // Border
	selectedBg  = lipgloss.Color("#313244") // Selected background
	skeletonFg  = lipgloss.Color("#45475A")
)

// headerStyle is the page banner
var headerStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(fgColor).
	Background(primaryColor).
	Padding(0, 2).
	MarginBottom(1)

// subtitleStyle is used for secondary card lines
var subtitleStyle = lipgloss.NewStyle().
	Foreground(mutedColor)

// resultsHeaderStyle is the line above the cards
var resultsHeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(secondaryColor).
	MarginTop(1)

var cardStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(borderColor).
	Padding(0, 1)

var selectedCardStyle = cardStyle.
	BorderForeground(accentColor).
	Background(selectedBg)

var skeletonStyle = cardStyle.
	Foreground(skeletonFg)

// promptStyle renders validation prompts
var promptStyle = lipgloss.NewStyle().
	Foreground(errorColor).
	Bold(true)

var helpStyle = lipgloss.NewStyle().
	Foreground(mutedColor).
	MarginTop(1)

// boxStyle frames the picker modal
var boxStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(primaryColor).
	Padding(1, 2)

var inputLabelStyle = lipgloss.NewStyle().
	Foreground(secondaryColor).
	Bold(true)

var progressStyle = lipgloss.NewStyle().
	Foreground(accentColor)

// GetHeaderStyle returns the header style
func GetHeaderStyle() lipgloss.Style {
	return headerStyle
}

// GetCardStyle returns the card style, highlighted when selected
func GetCardStyle(selected bool) lipgloss.Style {
	if selected {
		return selectedCardStyle
	}
	return cardStyle
}

// GetInputLabelStyle returns the input label style
func GetInputLabelStyle() lipgloss.Style {
	return inputLabelStyle
}

// GetProgressStyle returns the progress style
func GetProgressStyle() lipgloss.Style {
	return progressStyle
}

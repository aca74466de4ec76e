package ui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Color palette for command output
var (
	PrimaryColor = lipgloss.Color("#7D56F4") // Purple - headers, borders
	SuccessColor = lipgloss.Color("#43BF6D") // Green - success, checkmarks
	ErrorColor   = lipgloss.Color("#FF5555") // Red - errors, X marks
	WarningColor = lipgloss.Color("#FFA500") // Orange - warnings
	MutedColor   = lipgloss.Color("#626262") // Gray - secondary info
	TextColor    = lipgloss.Color("#FFFFFF") // White - main content
)

// Layout constants
const (
	MinTerminalWidth = 60  // Minimum supported terminal width
	MaxContentWidth  = 100 // Maximum content width before capping
)

var (
	// HeaderTitleStyle is for the command title (e.g., "SERVER SCAN")
	HeaderTitleStyle = lipgloss.NewStyle().
		Foreground(TextColor).
		Bold(true).
		PaddingLeft(2)

	// HeaderCommandStyle is for the command path (e.g., "slidecast scan")
	HeaderCommandStyle = lipgloss.NewStyle().
		Foreground(MutedColor).
		PaddingLeft(2)

	// FieldKeyStyle is for detail keys (e.g., "Server:")
	FieldKeyStyle = lipgloss.NewStyle().
		Foreground(MutedColor).
		Width(14)

	// FieldValueStyle is for detail values
	FieldValueStyle = lipgloss.NewStyle().
		Foreground(TextColor)

	SuccessTitleStyle = lipgloss.NewStyle().
		Foreground(SuccessColor).
		Bold(true)

	WarningTitleStyle = lipgloss.NewStyle().
		Foreground(WarningColor).
		Bold(true)

	ErrorTitleStyle = lipgloss.NewStyle().
		Foreground(ErrorColor).
		Bold(true)

	ErrorMessageStyle = lipgloss.NewStyle().
		Foreground(ErrorColor)

	// TipStyle is for troubleshooting bullet points
	TipStyle = lipgloss.NewStyle().
		Foreground(MutedColor)

	// ItemTitleStyle is for the first line of a list entry
	ItemTitleStyle = lipgloss.NewStyle().
		Foreground(PrimaryColor).
		Bold(true)
)

// Status markers
const (
	SuccessMarker = "✓"
	WarningMarker = "⚠"
	FailureMarker = "✗"
)

// GetTerminalWidth returns the current terminal width, clamped to the
// supported range
func GetTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width < MinTerminalWidth {
		return MinTerminalWidth
	}
	if width > MaxContentWidth {
		return MaxContentWidth
	}
	return width
}

// boxStyle returns a bordered box in the given color
func boxStyle(width int, color lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Width(width - 2).
		Padding(0, 1)
}

// divider creates a horizontal line of the specified width
func divider(width int) string {
	if width < 10 {
		width = 10
	}
	return lipgloss.NewStyle().
		Foreground(PrimaryColor).
		Render(strings.Repeat("─", width))
}

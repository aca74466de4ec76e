package tui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// AppName is shown in the controls bar.
const AppName = "slidecast"

// Layout constants for responsive terminal width
const (
	MinTerminalWidth  = 40
	MinTerminalHeight = 12
	DefaultWidth      = 80
	DefaultHeight     = 24
)

// Color palette
var (
	PrimaryColor   = lipgloss.Color("#7D56F4") // Purple
	SecondaryColor = lipgloss.Color("#43BF6D") // Green
	AccentColor    = lipgloss.Color("#FF8B94") // Pink
	WarningColor   = lipgloss.Color("#FFA500") // Orange
	ErrorColor     = lipgloss.Color("#FF5555") // Red

	TextColor       = lipgloss.Color("#FFFFFF")
	SubtleColor     = lipgloss.Color("#626262")
	BorderColor     = lipgloss.Color("#7D56F4")
	HighlightColor  = lipgloss.Color("#43BF6D")
	BackgroundColor = lipgloss.Color("#1A1A1A")
)

// Common styles
var (
	// Controls bar across the top row
	ControlsStyle = lipgloss.NewStyle().
			Foreground(TextColor).
			Background(BackgroundColor)

	AppNameStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Background(BackgroundColor).
			Bold(true).
			Padding(0, 1)

	PositionStyle = lipgloss.NewStyle().
			Foreground(TextColor).
			Background(BackgroundColor).
			Bold(true).
			Padding(0, 1)

	RefreshOnStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor).
			Background(BackgroundColor).
			Padding(0, 1)

	RefreshOffStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			Background(BackgroundColor).
			Padding(0, 1)

	// Caption line under the controls bar
	CaptionStyle = lipgloss.NewStyle().
			Foreground(AccentColor).
			Italic(true).
			PaddingLeft(1)

	// Slide body
	BodyStyle = lipgloss.NewStyle().
			Foreground(TextColor).
			Padding(1, 2)

	// Code and image fragments
	CodeStyle = lipgloss.NewStyle().
			Foreground(HighlightColor).
			Padding(1, 2)

	// Empty embedded-view container
	PlaceholderStyle = lipgloss.NewStyle().
				Foreground(SubtleColor).
				Italic(true).
				Border(lipgloss.RoundedBorder()).
				BorderForeground(SubtleColor).
				Padding(1, 2).
				Margin(1, 2)

	// Loaded embedded view
	EmbeddedStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderColor).
			Padding(0, 1).
			Margin(1, 2)

	// Terminal mirror pane title
	TerminalTitleStyle = lipgloss.NewStyle().
				Foreground(SubtleColor).
				Bold(true)

	TerminalStyle = lipgloss.NewStyle().
			Foreground(TextColor)

	// Help text style
	HelpStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			PaddingLeft(1)

	// Spinner style
	SpinnerStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor)

	// Title style for picker screens
	TitleStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true).
			Padding(1, 0).
			MarginBottom(1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			Italic(true)

	SelectedItemStyle = lipgloss.NewStyle().
				Foreground(HighlightColor).
				Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true).
			Padding(1, 2).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ErrorColor)

	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor).
			Bold(true)
)

// streamStyle colours the stream indicator by connection state.
func streamStyle(connected bool) lipgloss.Style {
	color := WarningColor
	if connected {
		color = SecondaryColor
	}
	return lipgloss.NewStyle().
		Foreground(color).
		Background(BackgroundColor).
		Padding(0, 1)
}

// GetTerminalSize returns the current terminal size, with fallback
func GetTerminalSize() (int, int) {
	width, height, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 || height <= 0 {
		return DefaultWidth, DefaultHeight
	}
	return width, height
}

// RenderError renders an error message
func RenderError(text string) string {
	return ErrorStyle.Render("✗ " + text)
}

package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Palette. Adaptive entries pick the light or dark variant from the
// terminal background.
var (
	PrimaryColor = lipgloss.Color("#7D56F4")
	SuccessColor = lipgloss.Color("#43BF6D")
	ErrorColor   = lipgloss.Color("#FF5555")
	WarningColor = lipgloss.AdaptiveColor{Light: "#C77700", Dark: "#FFA500"}
	MutedColor   = lipgloss.AdaptiveColor{Light: "#8A8A8A", Dark: "#626262"}
	TextColor    = lipgloss.AdaptiveColor{Light: "#1A1A1A", Dark: "#FFFFFF"}

	// Icon art, one per weather.IconCategory
	SunColor   = lipgloss.AdaptiveColor{Light: "#C99A00", Dark: "#FFD866"}
	CloudColor = lipgloss.AdaptiveColor{Light: "#5A6272", Dark: "#A0A8B8"}
	RainColor  = lipgloss.AdaptiveColor{Light: "#1F6FBF", Dark: "#5FAFFF"}
	SnowColor  = lipgloss.AdaptiveColor{Light: "#6A8CAF", Dark: "#E0F0FF"}
)

// Layout constants
const (
	MinTerminalWidth = 40  // Minimum supported terminal width
	MaxContentWidth  = 100 // Maximum content width before capping
	DefaultWidth     = 80  // Used when stdout is not a terminal
)

// Shared styles
var (
	// HeaderTitleStyle is the view title, e.g. "WEATHERSYNC"
	HeaderTitleStyle = lipgloss.NewStyle().
				Foreground(TextColor).
				Bold(true).
				PaddingLeft(2)

	// HeaderCommandStyle is for the companion URL under the title
	HeaderCommandStyle = lipgloss.NewStyle().
				Foreground(MutedColor).
				PaddingLeft(2)

	// TemperatureStyle is the large temperature label
	TemperatureStyle = lipgloss.NewStyle().
				Foreground(TextColor).
				Bold(true)

	// CityStyle is the city line
	CityStyle = lipgloss.NewStyle().
			Foreground(TextColor)

	// StatusStyle replaces the city line for LocationDisabled/RequestFailed
	StatusStyle = lipgloss.NewStyle().
			Foreground(WarningColor).
			Bold(true)

	// ForecastDayStyle is the weekday column of a forecast row
	ForecastDayStyle = lipgloss.NewStyle().
				Foreground(MutedColor).
				Width(5)

	// ForecastTempStyle is the min/max column of a forecast row
	ForecastTempStyle = lipgloss.NewStyle().
				Foreground(TextColor)

	// SpinnerStyle colors the awaiting spinner
	SpinnerStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor)

	// SuccessTitleStyle is for the success result title
	SuccessTitleStyle = lipgloss.NewStyle().
				Foreground(SuccessColor).
				Bold(true)

	// ErrorTitleStyle is for the error result title
	ErrorTitleStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	// ResultKeyStyle is for result detail keys; RenderSuccessBox sizes the
	// column to the longest key
	ResultKeyStyle = lipgloss.NewStyle().
			Foreground(MutedColor)

	// ResultValueStyle is for result detail values
	ResultValueStyle = lipgloss.NewStyle().
				Foreground(TextColor)

	// HintStyle is for key hints and troubleshooting lines
	HintStyle = lipgloss.NewStyle().
			Foreground(MutedColor)
)

// Result markers
const (
	SuccessMarker = "✓"
	FailureMarker = "✗"
)

// GetTerminalWidth returns the current terminal width, with fallback
func GetTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return DefaultWidth
	}
	return clampWidth(width)
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func clampWidth(width int) int {
	if width < MinTerminalWidth {
		return MinTerminalWidth
	}
	if width > MaxContentWidth {
		return MaxContentWidth
	}
	return width
}

// PanelBorderStyle returns the border style for the weather panel
func PanelBorderStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(PrimaryColor).
		Width(width-2). // Account for border characters
		Padding(0, 1)
}

// SuccessBoxStyle returns the border style for success result boxes
func SuccessBoxStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(SuccessColor).
		Width(width-2).
		Padding(0, 2)
}

// ErrorBoxStyle returns the border style for error result boxes
func ErrorBoxStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(ErrorColor).
		Width(width-2).
		Padding(0, 2)
}

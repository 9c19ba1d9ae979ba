package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Color palette
var (
	PrimaryColor = lipgloss.Color("#7D56F4") // Purple - headers, borders
	SuccessColor = lipgloss.Color("#43BF6D") // Green - available, success
	ErrorColor   = lipgloss.Color("#FF5555") // Red - errors
	WarningColor = lipgloss.Color("#FFA500") // Orange - read only
	MutedColor   = lipgloss.Color("#626262") // Gray - secondary info
	TextColor    = lipgloss.Color("#FFFFFF") // White - main content
)

// Layout constants
const (
	MinTerminalWidth = 60
	MaxContentWidth  = 100
)

var (
	// TitleStyle is for table and box titles (e.g., "GARAGE")
	TitleStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true)

	// ColumnHeaderStyle is for table column headers
	ColumnHeaderStyle = lipgloss.NewStyle().
				Foreground(MutedColor).
				Bold(true)

	// CellStyle is for regular table cells
	CellStyle = lipgloss.NewStyle().
			Foreground(TextColor)

	// MutedCellStyle is for ids and unavailable values
	MutedCellStyle = lipgloss.NewStyle().
			Foreground(MutedColor)

	// ValueStyle is for available values
	ValueStyle = lipgloss.NewStyle().
			Foreground(SuccessColor).
			Bold(true)

	// SpinnerStyle is for the progress spinner
	SpinnerStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor)

	// ReadOnlyStyle marks read-only resources
	ReadOnlyStyle = lipgloss.NewStyle().
			Foreground(WarningColor)

	// SuccessTitleStyle is for the success result title
	SuccessTitleStyle = lipgloss.NewStyle().
				Foreground(SuccessColor).
				Bold(true)

	// ErrorTitleStyle is for the error result title
	ErrorTitleStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	// ErrorMessageStyle is for error message text
	ErrorMessageStyle = lipgloss.NewStyle().
				Foreground(ErrorColor)

	// ResultKeyStyle is for result detail keys
	ResultKeyStyle = lipgloss.NewStyle().
			Foreground(MutedColor).
			Width(15)

	// ResultValueStyle is for result detail values
	ResultValueStyle = lipgloss.NewStyle().
				Foreground(TextColor)
)

// Markers
const (
	SuccessMarker  = "✓"
	FailureMarker  = "✗"
	ReadOnlyMarker = "RO"
)

// GetTerminalWidth returns the current terminal width, with fallback
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

// clampWidth keeps a requested width within the supported range
func clampWidth(width int) int {
	if width < MinTerminalWidth {
		return MinTerminalWidth
	}
	if width > MaxContentWidth {
		return MaxContentWidth
	}
	return width
}

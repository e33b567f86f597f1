package ui

import "github.com/charmbracelet/lipgloss"

// Colors used in the application.
var (
	colorPrimary   = lipgloss.Color("62")  // Purple
	colorSecondary = lipgloss.Color("241") // Gray
	colorMuted     = lipgloss.Color("240") // Darker gray
	colorHighlight = lipgloss.Color("212") // Pink
	colorSuccess   = lipgloss.Color("78")  // Green
	colorError     = lipgloss.Color("196") // Red
)

// Title style for the series name and panel headings.
var Title = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255")).
	Padding(0, 1)

// FormLabel style for the "TV Series" label beside the input.
var FormLabel = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255")).
	Background(colorPrimary).
	Padding(0, 1).
	MarginRight(1)

// FormBar style for the query input row.
var FormBar = lipgloss.NewStyle().
	Background(lipgloss.Color("236")).
	Padding(0, 1)

// HelperMsg style for explanatory text under a heading.
var HelperMsg = lipgloss.NewStyle().
	Foreground(colorSecondary).
	Padding(0, 1)

// ChartAxis style for the y-axis ticks and x-axis rule.
var ChartAxis = lipgloss.NewStyle().
	Foreground(colorMuted)

// ChartLine style for plotted points.
var ChartLine = lipgloss.NewStyle().
	Foreground(colorHighlight)

// SeasonBox style for one season column in the ratings grid.
var SeasonBox = lipgloss.NewStyle().
	Padding(0, 1, 1, 1)

// SeasonHeader style for the "Season N" heading.
var SeasonHeader = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorPrimary)

// EpisodeNum style for the "E3" label.
var EpisodeNum = lipgloss.NewStyle().
	Bold(true)

// StatusBar style for the bottom status bar.
var StatusBar = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Background(lipgloss.Color("236")).
	Padding(0, 1)

// StatusBarKey style for key hints in status bar.
var StatusBarKey = lipgloss.NewStyle().
	Foreground(colorHighlight).
	Bold(true)

// StatusBarText style for descriptive text in status bar.
var StatusBarText = lipgloss.NewStyle().
	Foreground(colorSecondary)

// ErrorStyle for displaying errors.
var ErrorStyle = lipgloss.NewStyle().
	Foreground(colorError).
	Bold(true).
	Padding(0, 1)

// SpinnerStyle colors the loading spinner.
var SpinnerStyle = lipgloss.NewStyle().
	Foreground(colorSuccess)

// DebugPanel style for the debug overlay container.
var DebugPanel = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorPrimary).
	Padding(1, 2)

// DebugHeaderStyle for section headers inside the debug overlay.
var DebugHeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorHighlight)

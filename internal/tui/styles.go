package tui

import "github.com/charmbracelet/lipgloss"

var (
	ColorPrimary = lipgloss.Color("#347083")
	ColorSuccess = lipgloss.Color("#4CAF50")
	ColorError   = lipgloss.Color("#F44336")
	ColorWarning = lipgloss.Color("#FFC107")
	ColorMuted   = lipgloss.Color("#9E9E9E")
	ColorOddRow  = lipgloss.Color("#2B2B2B")
	ColorEvenRow = lipgloss.Color("#1F1F1F")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(ColorPrimary).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().Bold(true)

	oddRowStyle  = lipgloss.NewStyle().Background(ColorOddRow)
	evenRowStyle = lipgloss.NewStyle().Background(ColorEvenRow)

	selectedRowStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FFFFFF")).
				Background(ColorPrimary)

	statusStyles = map[string]lipgloss.Style{
		"Pending": lipgloss.NewStyle().Foreground(ColorMuted),
		"Success": lipgloss.NewStyle().Foreground(ColorSuccess),
		"Failed":  lipgloss.NewStyle().Foreground(ColorError),
	}

	infoStyle  = lipgloss.NewStyle().Foreground(ColorPrimary)
	warnStyle  = lipgloss.NewStyle().Foreground(ColorWarning)
	errorStyle = lipgloss.NewStyle().Foreground(ColorError).Bold(true)

	helpStyle = lipgloss.NewStyle().Foreground(ColorMuted)

	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPrimary).
			Padding(1, 2)
)

package tui

import "github.com/charmbracelet/lipgloss"

// One Dark palette
var (
	ColorFgPrimary = lipgloss.Color("#ABB2BF")
	ColorFgMuted   = lipgloss.Color("#636B78")
	ColorRed       = lipgloss.Color("#E06C75")
	ColorGreen     = lipgloss.Color("#98C379")
	ColorYellow    = lipgloss.Color("#E5C07B")
	ColorBlue      = lipgloss.Color("#61AFEF")
	ColorMagenta   = lipgloss.Color("#C678DD")
	ColorCyan      = lipgloss.Color("#56B6C2")
	ColorBorder    = lipgloss.Color("#3F4451")
)

var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorMagenta).
			Bold(true).
			PaddingLeft(1)

	StatsStyle = lipgloss.NewStyle().
			Foreground(ColorFgMuted).
			PaddingLeft(1)

	SelectedStyle = lipgloss.NewStyle().
			Foreground(ColorBlue).
			Bold(true)

	OverdueStyle = lipgloss.NewStyle().
			Foreground(ColorRed).
			Bold(true)

	ColumnStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1).
			Width(34)

	ColumnTitleStyle = lipgloss.NewStyle().
				Foreground(ColorMagenta).
				Bold(true)

	HelpStyle = lipgloss.NewStyle().
			Foreground(ColorFgMuted).
			PaddingLeft(1)

	// Toast styles by notification kind
	ToastInfoStyle = lipgloss.NewStyle().
			Foreground(ColorCyan).
			PaddingLeft(1)

	ToastSuccessStyle = lipgloss.NewStyle().
				Foreground(ColorGreen).
				PaddingLeft(1)

	ToastErrorStyle = lipgloss.NewStyle().
			Foreground(ColorRed).
			Bold(true).
			PaddingLeft(1)

	PriorityHighStyle   = lipgloss.NewStyle().Foreground(ColorRed)
	PriorityMediumStyle = lipgloss.NewStyle().Foreground(ColorYellow)
	PriorityLowStyle    = lipgloss.NewStyle().Foreground(ColorBlue)
)

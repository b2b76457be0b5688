package monitor

import "github.com/charmbracelet/lipgloss"

// Colors
var (
	primaryColor = lipgloss.Color("212")
	errorColor   = lipgloss.Color("196")
	infoColor    = lipgloss.Color("45")
	mutedColor   = lipgloss.Color("241")
	borderColor  = lipgloss.Color("240")
)

// Panel frame styles
var (
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(0, 1)

	panelPlainStyle = panelStyle.
			BorderForeground(borderColor)

	panelTitleStyle = lipgloss.NewStyle().Bold(true)

	closeButtonStyle = lipgloss.NewStyle().
				Foreground(mutedColor)

	closeButtonHoverStyle = lipgloss.NewStyle().
				Foreground(errorColor).
				Bold(true)
)

// Text styles
var (
	mutedText  = lipgloss.NewStyle().Foreground(mutedColor)
	errorText  = lipgloss.NewStyle().Foreground(errorColor)
	infoText   = lipgloss.NewStyle().Foreground(infoColor)
	queryStyle = lipgloss.NewStyle().Foreground(primaryColor).Bold(true)
)

// List styles for the panel finder
var (
	listItemNormal = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	listItemSelected = lipgloss.NewStyle().
				Background(lipgloss.Color("237")).
				Foreground(lipgloss.Color("255")).
				Bold(true)

	listCursor = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true)
)

// Footer styles
var (
	footerStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	triggerKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("238")).
			Padding(0, 1)
)

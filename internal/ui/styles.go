// internal/ui/styles.go
package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/vmdang/querypad/internal/config"
)

var (
	textPrimary   lipgloss.Color
	textSecondary lipgloss.Color
	textFaint     lipgloss.Color
	accentColor   lipgloss.Color
	successColor  lipgloss.Color
	errorColor    lipgloss.Color
	warningColor  lipgloss.Color
	borderColor   lipgloss.Color

	StatusBarStyle lipgloss.Style
	ModeStyle      lipgloss.Style
	TitleStyle     lipgloss.Style
	SuccessStyle   lipgloss.Style
	ErrorStyle     lipgloss.Style
	WarningStyle   lipgloss.Style
	FaintStyle     lipgloss.Style
	PaneStyle      lipgloss.Style
	HelpStyle      lipgloss.Style
)

// InitStyles initializes the global styles from the configured theme
func InitStyles(theme config.Theme) {
	textPrimary = lipgloss.Color(theme.TextPrimary)
	textSecondary = lipgloss.Color(theme.TextSecondary)
	textFaint = lipgloss.Color(theme.TextFaint)
	accentColor = lipgloss.Color(theme.Accent)
	successColor = lipgloss.Color(theme.Success)
	errorColor = lipgloss.Color(theme.Error)
	warningColor = lipgloss.Color(theme.Warning)
	borderColor = lipgloss.Color(theme.Border)

	StatusBarStyle = lipgloss.NewStyle().
		Foreground(textPrimary)

	ModeStyle = lipgloss.NewStyle().
		Bold(true).
		Padding(0, 1).
		Foreground(accentColor)

	TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(accentColor)

	SuccessStyle = lipgloss.NewStyle().
		Foreground(successColor)

	ErrorStyle = lipgloss.NewStyle().
		Foreground(errorColor)

	WarningStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(warningColor)

	FaintStyle = lipgloss.NewStyle().
		Foreground(textFaint)

	PaneStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(0, 1)

	HelpStyle = lipgloss.NewStyle().
		Foreground(textFaint)
}

package theme

import "github.com/charmbracelet/lipgloss"

// Styles describes reusable Lip Gloss styles shared across the UI.
type Styles struct {
	Panel         *lipgloss.Style
	KeyPanel      *lipgloss.Style
	PanelIcon     *lipgloss.Style
	KeyPanelIcon  *lipgloss.Style
	PanelLabel    *lipgloss.Style
	KeyPanelLabel *lipgloss.Style
	PanelDetail   *lipgloss.Style
	Shadow        *lipgloss.Style
	Empty         *lipgloss.Style
	Error         *lipgloss.Style
	Info          *lipgloss.Style
	Footer        *lipgloss.Style
	FooterKey     *lipgloss.Style
}

var defaultStyles = Styles{
	Panel: ptr(
		lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Foreground(lipgloss.Color("249")),
	),
	KeyPanel: ptr(
		lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(lipgloss.Color("33")).
			Foreground(lipgloss.Color("255")),
	),
	PanelIcon: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	),
	KeyPanelIcon: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Bold(true),
	),
	PanelLabel: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	KeyPanelLabel: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Bold(true),
	),
	PanelDetail: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	),
	Shadow: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("236")),
	),
	Empty: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),
	),
	Error: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	),
	Info: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	Footer: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	),
	FooterKey: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Bold(true),
	),
}

// Default exposes the standard style set used across the application.
func Default() *Styles {
	return &defaultStyles
}

func ptr(style lipgloss.Style) *lipgloss.Style {
	return &style
}

package tui

import (
	"github.com/charmbracelet/lipgloss"

	"jessica/internal/api"
)

type uiTheme struct {
	root        lipgloss.Style
	header      lipgloss.Style
	tabActive   lipgloss.Style
	tabInactive lipgloss.Style
	panel       lipgloss.Style
	panelTitle  lipgloss.Style
	footer      lipgloss.Style
	status      lipgloss.Style
	errorBanner lipgloss.Style
	inputPanel  lipgloss.Style
	helpText    lipgloss.Style
	userLabel   lipgloss.Style
	jessLabel   lipgloss.Style
	routing     lipgloss.Style
	online      lipgloss.Style
	offline     lipgloss.Style
	checking    lipgloss.Style
	pickActive  lipgloss.Style
	pickIdle    lipgloss.Style
	chip        lipgloss.Style
	provider    map[api.Provider]lipgloss.Style
}

func newTheme() uiTheme {
	red := lipgloss.Color("#dc2626")
	blue := lipgloss.Color("#60a5fa")
	green := lipgloss.Color("#34d399")
	orange := lipgloss.Color("#fb923c")
	purple := lipgloss.Color("#c084fc")
	text := lipgloss.Color("#f4f4f5")
	muted := lipgloss.Color("#71717a")
	panelBg := lipgloss.Color("#18181b")

	return uiTheme{
		root: lipgloss.NewStyle().Padding(0, 1),
		header: lipgloss.NewStyle().
			Background(panelBg).
			Foreground(text).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(red).
			Padding(0, 1),
		tabActive: lipgloss.NewStyle().
			Background(red).
			Foreground(text).
			Bold(true).
			Padding(0, 1),
		tabInactive: lipgloss.NewStyle().
			Background(panelBg).
			Foreground(muted).
			Padding(0, 1),
		panel: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(muted).
			Padding(0, 1),
		panelTitle: lipgloss.NewStyle().Foreground(red).Bold(true),
		footer: lipgloss.NewStyle().
			Background(panelBg).
			Foreground(muted).
			Padding(0, 1),
		status:      lipgloss.NewStyle().Foreground(blue).Bold(true),
		errorBanner: lipgloss.NewStyle().Foreground(red).Bold(true),
		inputPanel: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(red).
			Padding(0, 1),
		helpText:  lipgloss.NewStyle().Foreground(muted),
		userLabel: lipgloss.NewStyle().Foreground(blue).Bold(true),
		jessLabel: lipgloss.NewStyle().Foreground(red).Bold(true),
		routing:   lipgloss.NewStyle().Foreground(muted),
		online:    lipgloss.NewStyle().Foreground(green).Bold(true),
		offline:   lipgloss.NewStyle().Foreground(red).Bold(true),
		checking:  lipgloss.NewStyle().Foreground(muted),
		pickActive: lipgloss.NewStyle().
			Background(red).
			Foreground(text).
			Bold(true).
			Padding(0, 1),
		pickIdle: lipgloss.NewStyle().
			Background(panelBg).
			Foreground(muted).
			Padding(0, 1),
		chip: lipgloss.NewStyle().
			Background(panelBg).
			Foreground(muted).
			Padding(0, 1),
		provider: map[api.Provider]lipgloss.Style{
			api.ProviderLocal:  lipgloss.NewStyle().Foreground(green).Bold(true),
			api.ProviderClaude: lipgloss.NewStyle().Foreground(orange).Bold(true),
			api.ProviderGrok:   lipgloss.NewStyle().Foreground(blue).Bold(true),
			api.ProviderGemini: lipgloss.NewStyle().Foreground(purple).Bold(true),
		},
	}
}

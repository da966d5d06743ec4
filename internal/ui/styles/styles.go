// Package styles contains Lip Gloss style definitions for the dashboard.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Text hierarchy
	TextPrimaryColor   = lipgloss.AdaptiveColor{Light: "#333333", Dark: "#CCCCCC"}
	TextSecondaryColor = lipgloss.AdaptiveColor{Light: "#666666", Dark: "#BBBBBB"}
	TextMutedColor     = lipgloss.AdaptiveColor{Light: "#999999", Dark: "#696969"}

	// Panel borders
	BorderDefaultColor = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#696969"}
	BorderFocusColor   = lipgloss.AdaptiveColor{Light: "#54A0FF", Dark: "#54A0FF"}

	// Update states
	StateRenderedColor = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	StateLoadingColor  = lipgloss.AdaptiveColor{Light: "#FECA57", Dark: "#FECA57"}
	StateErrorColor    = lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF8787"}

	StatusBarStyle = lipgloss.NewStyle().
			Foreground(TextSecondaryColor).
			Padding(0, 1)

	TooltipStyle = lipgloss.NewStyle().
			Foreground(TextPrimaryColor).
			Padding(0, 1)

	LogLineStyle = lipgloss.NewStyle().
			Foreground(TextMutedColor).
			Padding(0, 1)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(StateErrorColor).
			Bold(true)
)

// ApplyAccent overrides the focus border color. Empty strings are ignored.
func ApplyAccent(color string) {
	if color != "" {
		BorderFocusColor = lipgloss.AdaptiveColor{Light: color, Dark: color}
	}
}

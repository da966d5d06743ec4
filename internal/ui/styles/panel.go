package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/reflow/truncate"
)

// Rounded border pieces.
const (
	borderTopLeft     = "╭"
	borderTopRight    = "╮"
	borderBottomLeft  = "╰"
	borderBottomRight = "╯"
	borderHorizontal  = "─"
	borderVertical    = "│"
)

// Panel renders content in a width x height box with the title embedded in
// the top border: ╭─ Title ─────╮. Content is clipped and padded to fit.
func Panel(content, title string, width, height int, focused bool, titleColor lipgloss.TerminalColor) string {
	var borderColor lipgloss.TerminalColor = BorderDefaultColor
	if focused {
		borderColor = BorderFocusColor
	}
	border := lipgloss.NewStyle().Foreground(borderColor)
	titleStyle := lipgloss.NewStyle().Foreground(titleColor)

	inner := max(width-2, 1)
	rows := max(height-2, 1)

	var b strings.Builder
	b.WriteString(topBorder(title, inner, border, titleStyle))
	b.WriteString("\n")

	lines := strings.Split(content, "\n")
	for i := range rows {
		var line string
		if i < len(lines) {
			line = truncate.String(lines[i], uint(inner)) //nolint:gosec // inner is at least 1
		}
		if w := lipgloss.Width(line); w < inner {
			line += strings.Repeat(" ", inner-w)
		}
		b.WriteString(border.Render(borderVertical) + line + border.Render(borderVertical))
		b.WriteString("\n")
	}

	b.WriteString(border.Render(borderBottomLeft + strings.Repeat(borderHorizontal, inner) + borderBottomRight))
	return b.String()
}

func topBorder(title string, inner int, border, titleStyle lipgloss.Style) string {
	// "─ " before the title and " ─" after it.
	if title == "" || inner < 5 {
		return border.Render(borderTopLeft + strings.Repeat(borderHorizontal, inner) + borderTopRight)
	}

	display := ansi.Truncate(title, inner-4, "…")
	rest := max(inner-3-lipgloss.Width(display), 0)

	return border.Render(borderTopLeft+borderHorizontal+" ") +
		titleStyle.Render(display) +
		border.Render(" "+strings.Repeat(borderHorizontal, rest)+borderTopRight)
}

package styles

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"
)

func TestPanel_Dimensions(t *testing.T) {
	out := Panel("a\nb", "Revenue", 20, 6, false, TextPrimaryColor)

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 6)
	for _, line := range lines {
		require.Equal(t, 20, lipgloss.Width(line))
	}
	require.Contains(t, lines[0], "Revenue")
	require.Contains(t, lines[1], "a")
	require.Contains(t, lines[2], "b")
}

func TestPanel_ClipsContent(t *testing.T) {
	content := strings.Repeat("x", 50) + "\n1\n2\n3\n4\n5"
	out := Panel(content, "", 10, 4, true, TextPrimaryColor)

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 4)
	for _, line := range lines {
		require.Equal(t, 10, lipgloss.Width(line))
	}
	require.NotContains(t, out, "2")
}

func TestPanel_TruncatesLongTitle(t *testing.T) {
	out := Panel("", "a very long chart title indeed", 14, 3, false, TextPrimaryColor)

	top := strings.Split(out, "\n")[0]
	require.Equal(t, 14, lipgloss.Width(top))
	require.Contains(t, top, "…")
}

func TestPanel_ExactFitTitleIsNotTruncated(t *testing.T) {
	out := Panel("x", "Revenue", 13, 3, false, TextPrimaryColor)

	top := strings.Split(out, "\n")[0]
	require.Equal(t, 13, lipgloss.Width(top))
	require.Contains(t, top, "Revenue")
	require.NotContains(t, top, "…")
}

func TestPanel_TinyBoxHasNoTitle(t *testing.T) {
	out := Panel("", "Title", 4, 3, false, TextPrimaryColor)
	require.NotContains(t, out, "T")
}

func TestPanel_FocusColorsBorder(t *testing.T) {
	t.Cleanup(func() { lipgloss.SetColorProfile(termenv.Ascii) })
	lipgloss.SetColorProfile(termenv.ANSI256)

	focused := Panel("x", "T", 10, 3, true, TextPrimaryColor)
	require.Contains(t, focused, "\x1b[")
}

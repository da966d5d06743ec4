package chart

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Transparent marks a series or mask color that is not drawn.
const Transparent = "transparent"

var hexColorPattern = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ParseColor converts a CSS-style color ("#rgb", "#rrggbb", "rgb(r, g, b)" or
// "rgba(r, g, b, a)") into a lipgloss color. Alpha is ignored since terminal
// cells are opaque.
func ParseColor(s string) (lipgloss.Color, error) {
	s = strings.TrimSpace(s)
	if hexColorPattern.MatchString(s) {
		return lipgloss.Color(strings.ToLower(s)), nil
	}

	var body string
	switch {
	case strings.HasPrefix(s, "rgba(") && strings.HasSuffix(s, ")"):
		body = s[len("rgba(") : len(s)-1]
	case strings.HasPrefix(s, "rgb(") && strings.HasSuffix(s, ")"):
		body = s[len("rgb(") : len(s)-1]
	default:
		return "", fmt.Errorf("unsupported color %q", s)
	}

	parts := strings.Split(body, ",")
	if len(parts) < 3 || len(parts) > 4 {
		return "", fmt.Errorf("unsupported color %q", s)
	}
	var rgb [3]int
	for i := range rgb {
		n, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil || n < 0 || n > 255 {
			return "", fmt.Errorf("invalid channel %q in color %q", parts[i], s)
		}
		rgb[i] = n
	}
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", rgb[0], rgb[1], rgb[2])), nil
}

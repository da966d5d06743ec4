package chart

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/wordwrap"

	"github.com/zjrosen/chartwell/internal/option"
)

const (
	maxLabelWidth = 16
	barCell       = "█"
	ellipsis      = "…"
	loadingText   = "loading…"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#696969"))
	loadingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#555555"))
)

type seriesView struct {
	name   string
	color  string
	stack  string
	values []float64
}

func (s seriesView) hidden() bool {
	return s.color == Transparent
}

type layout struct {
	categories []string
	series     []seriesView
	groups     [][]int // series indexes per stack group, in first-seen order
}

func buildLayout(opt option.Option) layout {
	palette := option.Strings(opt[option.KeyColor])
	var l layout

	stackIndex := make(map[string]int)
	longest := 0
	for i, s := range opt.Series() {
		view := seriesView{
			name:   s.String(option.KeyName),
			color:  s.Map("itemStyle").String("color"),
			stack:  s.String(option.KeyStack),
			values: option.Floats(s[option.KeyData]),
		}
		if view.color == "" && len(palette) > 0 {
			view.color = palette[i%len(palette)]
		}
		longest = max(longest, len(view.values))
		l.series = append(l.series, view)

		if view.stack == "" {
			l.groups = append(l.groups, []int{i})
			continue
		}
		if g, ok := stackIndex[view.stack]; ok {
			l.groups[g] = append(l.groups[g], i)
			continue
		}
		stackIndex[view.stack] = len(l.groups)
		l.groups = append(l.groups, []int{i})
	}

	l.categories = option.Strings(opt.Map(option.KeyXAxis)[option.KeyData])
	for i := len(l.categories); i < longest; i++ {
		l.categories = append(l.categories, strconv.Itoa(i+1))
	}
	return l
}

func (l layout) value(series, category int) float64 {
	values := l.series[series].values
	if category >= len(values) {
		return 0
	}
	return values[category]
}

// View renders the chart at its layout size.
func (c *Chart) View() string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.loading {
		return lipgloss.NewStyle().
			Width(c.width).
			Height(c.height).
			Background(c.mask).
			Align(lipgloss.Center, lipgloss.Center).
			Render(loadingStyle.Background(c.mask).Render(loadingText))
	}
	return renderBars(c.current, c.width, c.height)
}

func renderBars(opt option.Option, width, height int) string {
	var lines []string

	if text := opt.Map(option.KeyTitle).String("text"); text != "" {
		for _, line := range strings.Split(wordwrap.String(text, width), "\n") {
			lines = append(lines, titleStyle.Width(width).Align(lipgloss.Center).Render(line))
		}
	}

	l := buildLayout(opt)
	if legend := renderLegend(l, width); legend != "" {
		lines = append(lines, legend)
	}
	if len(l.series) == 0 {
		lines = append(lines, mutedStyle.Render("no data"))
		return clip(lines, height)
	}

	labelWidth := 0
	for _, cat := range l.categories {
		labelWidth = max(labelWidth, runewidth.StringWidth(cat))
	}
	labelWidth = min(labelWidth, maxLabelWidth)

	var maxTotal float64
	valueWidth := 0
	for i := range l.categories {
		for _, group := range l.groups {
			var total, shown float64
			for _, s := range group {
				v := math.Max(l.value(s, i), 0)
				total += v
				if !l.series[s].hidden() {
					shown += l.value(s, i)
				}
			}
			maxTotal = math.Max(maxTotal, total)
			valueWidth = max(valueWidth, len(formatValue(shown)))
		}
	}
	barWidth := max(width-labelWidth-valueWidth-2, 1)

	for i, cat := range l.categories {
		label := runewidth.FillRight(ansi.Truncate(cat, labelWidth, ellipsis), labelWidth)
		for g, group := range l.groups {
			if g > 0 {
				label = strings.Repeat(" ", labelWidth)
			}
			var bar strings.Builder
			var shown float64
			for _, s := range group {
				v := math.Max(l.value(s, i), 0)
				cells := 0
				if maxTotal > 0 {
					cells = int(math.Round(v / maxTotal * float64(barWidth)))
				}
				sv := l.series[s]
				if sv.hidden() {
					bar.WriteString(strings.Repeat(" ", cells))
					continue
				}
				shown += l.value(s, i)
				segment := strings.Repeat(barCell, cells)
				if sv.color != "" {
					segment = lipgloss.NewStyle().Foreground(lipgloss.Color(sv.color)).Render(segment)
				}
				bar.WriteString(segment)
			}
			lines = append(lines, fmt.Sprintf("%s %s %s", label, bar.String(), mutedStyle.Render(formatValue(shown))))
		}
	}
	return clip(lines, height)
}

func renderLegend(l layout, width int) string {
	var items []string
	for _, s := range l.series {
		if s.hidden() || s.name == "" {
			continue
		}
		marker := "■"
		if s.color != "" {
			marker = lipgloss.NewStyle().Foreground(lipgloss.Color(s.color)).Render(marker)
		}
		items = append(items, marker+" "+s.name)
	}
	if len(items) == 0 {
		return ""
	}
	return ansi.Truncate(strings.Join(items, "  "), max(width, 1), ellipsis)
}

func clip(lines []string, height int) string {
	if height > 0 && len(lines) > height {
		lines = append(lines[:height-1], mutedStyle.Render(ellipsis))
	}
	return strings.Join(lines, "\n")
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Categories returns the category labels of the current option.
func (c *Chart) Categories() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return buildLayout(c.current).categories
}

// Tooltip describes the category at index the way the configured tooltip
// would. Transparent series and names listed under tooltip.exclude are left
// out. It returns "" when the tooltip is disabled or index is out of range.
func (c *Chart) Tooltip(index int) string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	tooltip := c.current.Map(option.KeyTooltip)
	if show, ok := tooltip["show"]; ok && !option.Truthy(show) {
		return ""
	}

	l := buildLayout(c.current)
	if index < 0 || index >= len(l.categories) {
		return ""
	}

	excluded := make(map[string]bool)
	for _, name := range option.Strings(tooltip["exclude"]) {
		excluded[name] = true
	}

	lines := []string{l.categories[index]}
	for s, sv := range l.series {
		if sv.hidden() || excluded[sv.name] {
			continue
		}
		name := sv.name
		if name == "" {
			name = fmt.Sprintf("series %d", s+1)
		}
		lines = append(lines, fmt.Sprintf("%s: %s", name, formatValue(l.value(s, index))))
	}
	return strings.Join(lines, "\n")
}

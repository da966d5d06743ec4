package chart

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/chartwell/internal/engine"
	"github.com/zjrosen/chartwell/internal/option"
)

func barOption() option.Option {
	return option.Option{
		option.KeyTitle: option.Option{"text": "Weekly sales"},
		option.KeyXAxis: option.Option{option.KeyData: []any{"mon", "tue", "wed"}},
		option.KeySeries: []any{
			option.Option{option.KeyName: "sales", option.KeyType: "bar", option.KeyData: []any{1, 4, 2}},
		},
	}
}

func lineFor(view, label string) string {
	for _, line := range strings.Split(view, "\n") {
		if strings.HasPrefix(line, label) {
			return line
		}
	}
	return ""
}

func TestNew_SeedsThemePalette(t *testing.T) {
	c := New("macarons")
	require.Equal(t, MacaronsTheme.Palette, c.GetOption()[option.KeyColor])

	fallback := New("no-such-theme")
	require.Equal(t, MacaronsTheme.Palette, fallback.GetOption()[option.KeyColor])

	classic := New("default")
	require.Equal(t, "#c23531", option.Strings(classic.GetOption()[option.KeyColor])[0])
}

func TestLookupTheme(t *testing.T) {
	_, err := LookupTheme("vintage")
	require.NoError(t, err)

	_, err = LookupTheme("neon")
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown theme: neon")
	require.Equal(t, []string{"default", "macarons", "vintage"}, ThemeNames())
}

func TestSetOption_Merges(t *testing.T) {
	c := New("macarons")
	c.SetOption(barOption())
	c.SetOption(option.Option{option.KeyTitle: option.Option{"left": "center"}})

	got := c.GetOption()
	require.Equal(t, "Weekly sales", got.Map(option.KeyTitle)["text"])
	require.Equal(t, "center", got.Map(option.KeyTitle)["left"])
	require.Len(t, got.Series(), 1)
	require.NotEmpty(t, got[option.KeyColor])
}

func TestGetOption_ReturnsCopy(t *testing.T) {
	c := New("macarons")
	got := c.GetOption()
	got[option.KeyColor] = []string{"#000000"}

	require.Equal(t, MacaronsTheme.Palette, c.GetOption()[option.KeyColor])
}

func TestResize_UsesSurfaceSize(t *testing.T) {
	c := New("macarons", WithSize(40, 8))
	w, h := c.LayoutSize()
	require.Equal(t, 40, w)
	require.Equal(t, 8, h)

	var dom engine.Surface = c.GetDom()
	dom.SetSize(70, 15)
	w, _ = c.LayoutSize()
	require.Equal(t, 40, w, "layout only changes on Resize")

	c.Resize()
	w, h = c.LayoutSize()
	require.Equal(t, 70, w)
	require.Equal(t, 15, h)
}

func TestWithSurface_SharesSurface(t *testing.T) {
	s := NewSurface(33, 9)
	c := New("macarons", WithSurface(s))
	require.Same(t, s, c.GetDom())

	w, h := c.LayoutSize()
	require.Equal(t, 33, w)
	require.Equal(t, 9, h)
}

func TestLoading_KeepsPreviousContent(t *testing.T) {
	c := New("macarons", WithSize(50, 10))
	c.SetOption(barOption())

	c.ShowLoading(engine.LoadingEffect, engine.LoadingStyle())
	require.True(t, c.Loading())
	view := c.View()
	require.Contains(t, view, loadingText)
	require.NotContains(t, view, "mon")
	require.Equal(t, lipgloss.Color("#ffffff"), c.mask)
	require.Len(t, c.GetOption().Series(), 1)

	c.HideLoading()
	require.False(t, c.Loading())
	require.Contains(t, c.View(), "mon")
}

func TestShowLoading_BadMaskFallsBackToWhite(t *testing.T) {
	c := New("macarons")
	c.ShowLoading("default", option.Option{"maskColor": "hsl(0, 0%, 0%)"})
	require.Equal(t, lipgloss.Color("#ffffff"), c.mask)
}

func TestView_RendersBars(t *testing.T) {
	c := New("macarons", WithSize(40, 10))
	c.SetOption(barOption())

	view := c.View()
	require.Contains(t, view, "Weekly sales")
	require.Contains(t, view, "sales")

	tue := lineFor(view, "tue")
	mon := lineFor(view, "mon")
	require.NotEmpty(t, tue)
	require.NotEmpty(t, mon)
	require.Greater(t, strings.Count(tue, barCell), strings.Count(mon, barCell))
	require.True(t, strings.HasSuffix(tue, "4"))
}

func TestView_ExactFitLabelsKeepFullText(t *testing.T) {
	c := New("macarons", WithSize(40, 10))
	c.SetOption(barOption())

	view := c.View()
	for _, cat := range []string{"mon ", "tue ", "wed "} {
		require.NotEmpty(t, lineFor(view, cat), cat)
	}
	require.NotContains(t, view, ellipsis)
}

func TestRenderLegend_Truncation(t *testing.T) {
	l := buildLayout(option.Option{
		option.KeySeries: []any{option.Option{option.KeyName: "sales", option.KeyData: []any{1}}},
	})

	require.Equal(t, "■ sales", renderLegend(l, 7))
	require.Equal(t, "■ sal…", renderLegend(l, 6))
}

func TestView_TransparentSegmentsAreBlank(t *testing.T) {
	c := New("macarons", WithSize(40, 10))
	c.SetOption(option.Option{
		option.KeyXAxis: option.Option{option.KeyData: []any{"a", "b"}},
		option.KeySeries: []any{
			option.Option{
				option.KeyName:  "base",
				option.KeyStack: "total",
				"itemStyle":     option.Option{"color": Transparent},
				option.KeyData:  []any{0, 6},
			},
			option.Option{
				option.KeyName:  "delta",
				option.KeyStack: "total",
				option.KeyData:  []any{6, 4},
			},
		},
	})

	view := c.View()
	require.NotContains(t, view, "base")

	b := lineFor(view, "b")
	require.NotEmpty(t, b)
	firstBar := strings.Index(b, barCell)
	require.Greater(t, firstBar, len("b ")+1, "placeholder renders as leading spaces")
	require.True(t, strings.HasSuffix(b, "4"))
}

func TestView_UnstackedSeriesGetOwnRows(t *testing.T) {
	c := New("macarons", WithSize(40, 20))
	c.SetOption(option.Option{
		option.KeyXAxis: option.Option{option.KeyData: []any{"q1"}},
		option.KeySeries: []any{
			option.Option{option.KeyName: "east", option.KeyData: []any{3}},
			option.Option{option.KeyName: "west", option.KeyData: []any{5}},
		},
	})

	lines := strings.Split(c.View(), "\n")
	// legend + two group rows
	require.Len(t, lines, 3)
	require.True(t, strings.HasPrefix(lines[1], "q1"))
	require.True(t, strings.HasPrefix(lines[2], "  "))
}

func TestView_ClipsToHeight(t *testing.T) {
	data := make([]any, 30)
	for i := range data {
		data[i] = i + 1
	}
	c := New("macarons", WithSize(40, 5))
	c.SetOption(option.Option{option.KeySeries: []any{option.Option{option.KeyData: data}}})

	lines := strings.Split(c.View(), "\n")
	require.Len(t, lines, 5)
	require.Equal(t, ellipsis, lines[4])
}

func TestView_NoSeries(t *testing.T) {
	require.Contains(t, New("macarons").View(), "no data")
}

func TestCategories_DefaultToPositions(t *testing.T) {
	c := New("macarons")
	c.SetOption(option.Option{option.KeySeries: []any{option.Option{option.KeyData: []any{1, 2, 3}}}})
	require.Equal(t, []string{"1", "2", "3"}, c.Categories())
}

func TestTooltip(t *testing.T) {
	c := New("macarons")
	c.SetOption(barOption())
	c.SetOption(option.Option{option.KeySeries: []any{
		option.Option{option.KeyName: "base", "itemStyle": option.Option{"color": Transparent}, option.KeyData: []any{0, 1, 2}},
		option.Option{option.KeyName: "sales", option.KeyData: []any{1, 4, 2}},
		option.Option{option.KeyName: "target", option.KeyData: []any{2, 2, 2}},
	}})

	require.Equal(t, "tue\nsales: 4\ntarget: 2", c.Tooltip(1))

	c.SetOption(option.Option{option.KeyTooltip: option.Option{"exclude": []any{"target"}}})
	require.Equal(t, "tue\nsales: 4", c.Tooltip(1))

	require.Empty(t, c.Tooltip(7))
	require.Empty(t, c.Tooltip(-1))

	c.SetOption(option.Option{option.KeyTooltip: option.Option{"show": false}})
	require.Empty(t, c.Tooltip(0))
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    lipgloss.Color
		wantErr bool
	}{
		{"rgba(255, 255, 255, 1)", "#ffffff", false},
		{"rgba(255, 255, 255, .5)", "#ffffff", false},
		{"rgb(16,32,48)", "#102030", false},
		{"#2EC7C9", "#2ec7c9", false},
		{"#abc", "#abc", false},
		{"rgba(300, 0, 0, 1)", "", true},
		{"rgb(1, 2)", "", true},
		{"transparent", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

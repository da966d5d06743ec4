package waterfall

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/zjrosen/chartwell/internal/engine/enginetest"
	"github.com/zjrosen/chartwell/internal/globaloption"
	"github.com/zjrosen/chartwell/internal/option"
)

func waterfallRaw() option.Option {
	return option.Option{
		option.KeyDynamic: true,
		option.KeyXAxis:   option.Option{option.KeyData: []any{"open", "sales", "refunds"}},
		option.KeySeries: []any{
			option.Option{option.KeyName: "cash", option.KeyType: SeriesType, option.KeyData: []any{10, 5, -3}},
		},
	}
}

func TestSplit(t *testing.T) {
	base, delta := Split([]float64{10, 5, -3, -20})

	require.Equal(t, []float64{0, 10, 12, -8}, base)
	require.Equal(t, []float64{10, 5, 3, 20}, delta)
}

func TestSplit_BarsSpanRunningTotals(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		steps := rapid.SliceOf(rapid.Float64Range(-1000, 1000)).Draw(t, "steps")
		base, delta := Split(steps)

		var total float64
		for i, step := range steps {
			next := total + step
			lo, hi := min(total, next), max(total, next)
			if base[i] != lo {
				t.Fatalf("base[%d] = %v, want %v", i, base[i], lo)
			}
			if delta[i] < 0 {
				t.Fatalf("delta[%d] negative: %v", i, delta[i])
			}
			if diff := base[i] + delta[i] - hi; diff > 1e-6 || diff < -1e-6 {
				t.Fatalf("bar %d ends at %v, want %v", i, base[i]+delta[i], hi)
			}
			total = next
		}
	})
}

func TestAdaptSeries_FoldsGlobalOption(t *testing.T) {
	global := globaloption.New()
	a := New(global)

	raw := option.Option{
		option.KeyDynamic: false,
		option.KeyTitle:   option.Option{"text": "Plain"},
		option.KeySeries:  []any{option.Option{option.KeyName: "a", option.KeyType: "bar", option.KeyData: []any{1}}},
	}
	derived := a.AdaptSeries(raw)

	require.Equal(t, "Plain", derived.Map(option.KeyTitle)["text"])
	require.Equal(t, "center", derived.Map(option.KeyTitle)["left"])
	require.Equal(t, "axis", derived.Map(option.KeyTooltip)["trigger"])
	require.NotContains(t, derived, option.KeyDynamic)
	require.NotContains(t, derived, globaloption.KeyTheme)
	require.NotContains(t, derived, globaloption.KeyDriftPalette)
	require.Len(t, derived.Series(), 1)

	// The store itself is not modified.
	require.Nil(t, global.Get().Map(option.KeyTitle)["text"])
	require.Contains(t, raw, option.KeyDynamic)
}

func TestAdaptSeries_SeesLaterGlobalMerges(t *testing.T) {
	global := globaloption.New()
	a := New(global)

	global.Merge(option.Option{"grid": option.Option{"top": "30%"}})
	derived := a.AdaptSeries(option.Option{option.KeySeries: []any{}})

	require.Equal(t, "30%", derived.Map("grid")["top"])
}

func TestAdaptSeries_NilAndEmpty(t *testing.T) {
	a := New(globaloption.New())

	require.Nil(t, a.AdaptSeries(nil))
	require.False(t, a.AdaptSeries(option.Option{option.KeyDynamic: true}).HasSeries())
	require.False(t, a.AdaptSeries(option.Option{option.KeySeries: []any{}}).HasSeries())
}

func TestAdaptSeries_ExpandsWaterfall(t *testing.T) {
	a := New(globaloption.New())

	derived := a.AdaptSeries(waterfallRaw())
	series := derived.Series()
	require.Len(t, series, 2)

	placeholder, visible := series[0], series[1]
	require.Equal(t, "cash (base)", placeholder.String(option.KeyName))
	require.Equal(t, "transparent", placeholder.Map("itemStyle")["color"])
	require.Equal(t, []float64{0, 10, 12}, placeholder[option.KeyData])

	require.Equal(t, "cash", visible.String(option.KeyName))
	require.Equal(t, "bar", visible.String(option.KeyType))
	require.Equal(t, []float64{10, 5, 3}, visible[option.KeyData])
	require.Equal(t, placeholder[option.KeyStack], visible[option.KeyStack])
}

func TestAdaptSeries_MixedSeriesKeepOrder(t *testing.T) {
	a := New(globaloption.New())
	raw := option.Option{option.KeySeries: []any{
		option.Option{option.KeyName: "plain", option.KeyType: "bar", option.KeyData: []any{1, 2}},
		option.Option{option.KeyType: SeriesType, option.KeyData: []any{1, 2}},
	}}

	series := a.AdaptSeries(raw).Series()
	require.Len(t, series, 3)
	require.Equal(t, "plain", series[0].String(option.KeyName))
	require.Equal(t, "series-1 (base)", series[1].String(option.KeyName))
	require.Equal(t, "series-1", series[2].String(option.KeyName))
}

func TestAdaptTooltip(t *testing.T) {
	a := New(globaloption.New())

	plain := enginetest.New(nil)
	a.AdaptTooltip(plain, option.Option{option.KeySeries: []any{option.Option{option.KeyType: "bar"}}})
	require.Empty(t, plain.Calls())

	inst := enginetest.New(nil)
	a.AdaptTooltip(inst, waterfallRaw())

	calls := inst.Calls()
	require.Len(t, calls, 1)
	require.Equal(t, enginetest.CallSetOption, calls[0].Name)
	tooltip := calls[0].Option.Map(option.KeyTooltip)
	require.Equal(t, "axis", tooltip["trigger"])
	require.Equal(t, "shadow", tooltip.Map("axisPointer")["type"])
	require.Equal(t, []any{"cash (base)"}, tooltip["exclude"])
}

func TestIsWaterfall(t *testing.T) {
	require.True(t, IsWaterfall(waterfallRaw()))
	require.False(t, IsWaterfall(option.Option{}))
	require.False(t, IsWaterfall(option.Option{option.KeySeries: []any{option.Option{option.KeyType: "line"}}}))
}

// Package waterfall adapts raw chart configs for the engine. It folds the
// global option into each config and expands series of type "waterfall"
// into a transparent base series stacked under the visible deltas.
package waterfall

import (
	"math"
	"strconv"

	"github.com/zjrosen/chartwell/internal/engine"
	"github.com/zjrosen/chartwell/internal/globaloption"
	"github.com/zjrosen/chartwell/internal/option"
)

// SeriesType marks a series for expansion.
const SeriesType = "waterfall"

const (
	placeholderSuffix = " (base)"
	stackPrefix       = "waterfall:"
	transparent       = "transparent"
)

// PlaceholderName returns the name given to the base series of a waterfall
// series called name.
func PlaceholderName(name string) string {
	return name + placeholderSuffix
}

// Adapter implements orchestrator.Adapter.
type Adapter struct {
	global *globaloption.Store
}

// New creates an Adapter reading the base option from global.
func New(global *globaloption.Store) *Adapter {
	return &Adapter{global: global}
}

// IsWaterfall reports whether raw carries at least one waterfall series.
func IsWaterfall(raw option.Option) bool {
	for _, s := range raw.Series() {
		if s.String(option.KeyType) == SeriesType {
			return true
		}
	}
	return false
}

// AdaptTooltip switches waterfall charts to an axis tooltip that leaves the
// base series out. Other charts keep their tooltip.
func (a *Adapter) AdaptTooltip(inst engine.Instance, raw option.Option) {
	if !IsWaterfall(raw) {
		return
	}

	var exclude []any
	for i, s := range raw.Series() {
		if s.String(option.KeyType) == SeriesType {
			exclude = append(exclude, PlaceholderName(seriesName(s, i)))
		}
	}

	inst.SetOption(option.Option{
		option.KeyTooltip: option.Option{
			"trigger":     "axis",
			"axisPointer": option.Option{"type": "shadow"},
			"exclude":     exclude,
		},
	})
}

// AdaptSeries returns the global option merged with raw, minus the keys only
// chartwell reads, with waterfall series expanded. It returns nil when raw is
// nil.
func (a *Adapter) AdaptSeries(raw option.Option) option.Option {
	if raw == nil {
		return nil
	}

	derived := option.Merge(option.Clone(a.global.Get()), raw)
	derived = derived.Without(option.KeyDynamic, globaloption.KeyTheme, globaloption.KeyDriftPalette)

	series := derived.Series()
	if len(series) == 0 {
		return derived
	}

	expanded := make([]any, 0, len(series))
	for i, s := range series {
		if s.String(option.KeyType) != SeriesType {
			expanded = append(expanded, s)
			continue
		}
		base, delta := Split(option.Floats(s[option.KeyData]))
		name := seriesName(s, i)
		stack := stackPrefix + name

		placeholder := option.Option{
			option.KeyName:  PlaceholderName(name),
			option.KeyType:  "bar",
			option.KeyStack: stack,
			"itemStyle":     option.Option{"color": transparent},
			option.KeyData:  base,
		}
		visible := s.Without(option.KeyData)
		visible[option.KeyName] = name
		visible[option.KeyType] = "bar"
		visible[option.KeyStack] = stack
		visible[option.KeyData] = delta

		expanded = append(expanded, placeholder, visible)
	}
	derived[option.KeySeries] = expanded
	return derived
}

// Split turns a list of signed steps into the base offsets and bar lengths
// of a waterfall. A rise sits on the running total before the step; a fall
// hangs from it, so its base is the total after the step.
func Split(steps []float64) (base, delta []float64) {
	base = make([]float64, len(steps))
	delta = make([]float64, len(steps))

	var total float64
	for i, step := range steps {
		next := total + step
		base[i] = math.Min(total, next)
		delta[i] = math.Abs(step)
		total = next
	}
	return base, delta
}

func seriesName(s option.Option, index int) string {
	if name := s.String(option.KeyName); name != "" {
		return name
	}
	return "series-" + strconv.Itoa(index)
}

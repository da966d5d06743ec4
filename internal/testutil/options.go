package testutil

import "github.com/zjrosen/chartwell/internal/option"

// seriesData holds one series to be written.
type seriesData struct {
	name   string
	typ    string
	stack  string
	color  string
	values []float64
}

// SeriesOption configures a series.
type SeriesOption func(*seriesData)

func defaultSeries(name string) seriesData {
	return seriesData{name: name, typ: "bar"}
}

// Type sets the series type.
func Type(typ string) SeriesOption {
	return func(s *seriesData) { s.typ = typ }
}

// Waterfall makes the series a waterfall.
func Waterfall() SeriesOption {
	return Type("waterfall")
}

// Stack puts the series in a stack group.
func Stack(stack string) SeriesOption {
	return func(s *seriesData) { s.stack = stack }
}

// Color sets itemStyle.color.
func Color(color string) SeriesOption {
	return func(s *seriesData) { s.color = color }
}

// Values sets the series data.
func Values(values ...float64) SeriesOption {
	return func(s *seriesData) { s.values = values }
}

func (s seriesData) option() option.Option {
	out := option.Option{
		option.KeyName: s.name,
		option.KeyType: s.typ,
		option.KeyData: toAny(s.values),
	}
	if s.stack != "" {
		out[option.KeyStack] = s.stack
	}
	if s.color != "" {
		out["itemStyle"] = option.Option{"color": s.color}
	}
	return out
}

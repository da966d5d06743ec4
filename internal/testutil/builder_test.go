package testutil

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/chartwell/internal/dataset"
	"github.com/zjrosen/chartwell/internal/option"
)

func TestBuilder_WritesParseableDataset(t *testing.T) {
	path := NewBuilder(t).Budget().Write(t.TempDir(), "budget.yaml")

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	raw, err := dataset.Parse(data)
	require.NoError(t, err)
	require.True(t, raw.Bool(option.KeyDynamic))
	require.Equal(t, "Budget", raw.Map(option.KeyTitle)["text"])

	series := raw.Series()
	require.Len(t, series, 1)
	require.Equal(t, "waterfall", series[0][option.KeyType])
	require.Equal(t, []float64{1200, 800, 150, 90}, option.Floats(series[0][option.KeyData]))
}

func TestBuilder_SeriesOptions(t *testing.T) {
	raw := NewBuilder(t).
		WithSeries("a", Stack("total"), Color("#ff0000"), Values(1)).
		With("tooltip", option.Option{"show": false}).
		Option()

	s := raw.Series()[0]
	require.Equal(t, "total", s[option.KeyStack])
	require.Equal(t, "#ff0000", s.Map("itemStyle")["color"])
	require.Equal(t, "bar", s[option.KeyType])
	require.Equal(t, false, raw.Map("tooltip")["show"])
}

func TestBuilder_EmptySeriesList(t *testing.T) {
	raw := NewBuilder(t).Title("Empty").Option()
	require.False(t, raw.HasSeries())
	_, ok := raw[option.KeySeries]
	require.False(t, ok)
}

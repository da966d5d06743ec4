package dataset

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/chartwell/internal/option"
)

const salesYAML = `title:
  text: Weekly sales
dynamic: true
xAxis:
  data: [mon, tue, wed]
series:
  - name: sales
    type: bar
    data: [1, 4, 2]
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestParse_YAML(t *testing.T) {
	raw, err := Parse([]byte(salesYAML))
	require.NoError(t, err)

	require.True(t, raw.Bool(option.KeyDynamic))
	require.Equal(t, []string{"mon", "tue", "wed"}, option.Strings(raw.Map(option.KeyXAxis)[option.KeyData]))
	series := raw.Series()
	require.Len(t, series, 1)
	require.Equal(t, []float64{1, 4, 2}, option.Floats(series[0][option.KeyData]))
}

func TestParse_JSON(t *testing.T) {
	raw, err := Parse([]byte(`{"dynamic": false, "series": [{"type": "waterfall", "data": [3, -1]}]}`))
	require.NoError(t, err)
	require.False(t, raw.Bool(option.KeyDynamic))
	require.Equal(t, "waterfall", raw.Series()[0].String(option.KeyType))
}

func TestParse_Empty(t *testing.T) {
	raw, err := Parse(nil)
	require.NoError(t, err)
	require.NotNil(t, raw)
	require.False(t, raw.HasSeries())
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		invalid bool
	}{
		{"malformed", "series: [unclosed", false},
		{"series not list", "series: {name: x}", true},
		{"series item not map", "series: [1, 2]", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.content))
			require.Error(t, err)
			require.Equal(t, tt.invalid, errors.Is(err, ErrInvalidDataset))
		})
	}
}

func TestSource_List(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.yml", "{}")
	writeFile(t, dir, "a.yaml", "{}")
	writeFile(t, dir, "c.json", "{}")
	writeFile(t, dir, "notes.txt", "x")
	writeFile(t, dir, ".hidden.yaml", "{}")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.yaml"), 0o700))

	paths, err := NewSource(dir, time.Minute).List()
	require.NoError(t, err)
	require.Equal(t, []string{
		filepath.Join(dir, "a.yaml"),
		filepath.Join(dir, "b.yml"),
		filepath.Join(dir, "c.json"),
	}, paths)
}

func TestSource_ListMissingDir(t *testing.T) {
	_, err := NewSource(filepath.Join(t.TempDir(), "missing"), time.Minute).List()
	require.Error(t, err)
	require.Contains(t, err.Error(), "listing dataset directory")
}

func TestSource_LoadCachesUntilInvalidated(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "sales.yaml", salesYAML)
	src := NewSource(dir, time.Minute)
	ctx := context.Background()

	ds, err := src.Load(ctx, path)
	require.NoError(t, err)
	require.Equal(t, "sales", ds.Name)
	require.Equal(t, "Weekly sales", ds.Title())
	require.False(t, ds.ModTime.IsZero())

	writeFile(t, dir, "sales.yaml", "title: {text: Changed}\n")
	cached, err := src.Load(ctx, path)
	require.NoError(t, err)
	require.Equal(t, "Weekly sales", cached.Title())
	require.Equal(t, uint64(1), src.CacheStats().Hits)

	src.Invalidate(ctx, path)
	fresh, err := src.Load(ctx, path)
	require.NoError(t, err)
	require.Equal(t, "Changed", fresh.Title())
}

func TestSource_ResetReloadsEverything(t *testing.T) {
	dir := t.TempDir()
	sales := writeFile(t, dir, "sales.yaml", salesYAML)
	costs := writeFile(t, dir, "costs.yaml", salesYAML)
	src := NewSource(dir, time.Minute)
	ctx := context.Background()

	for _, path := range []string{sales, costs} {
		_, err := src.Load(ctx, path)
		require.NoError(t, err)
	}
	writeFile(t, dir, "sales.yaml", "title: {text: Sales v2}\n")
	writeFile(t, dir, "costs.yaml", "title: {text: Costs v2}\n")

	src.Reset(ctx)

	ds, err := src.Load(ctx, sales)
	require.NoError(t, err)
	require.Equal(t, "Sales v2", ds.Title())
	ds, err = src.Load(ctx, costs)
	require.NoError(t, err)
	require.Equal(t, "Costs v2", ds.Title())
}

func TestSource_LoadErrors(t *testing.T) {
	dir := t.TempDir()
	src := NewSource(dir, time.Minute)

	_, err := src.Load(context.Background(), filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	require.True(t, errors.Is(err, os.ErrNotExist))

	bad := writeFile(t, dir, "bad.yaml", "series: 3")
	_, err = src.Load(context.Background(), bad)
	require.True(t, errors.Is(err, ErrInvalidDataset))
	require.Contains(t, err.Error(), "parsing dataset")
}

func TestDataset_TitleFallsBackToName(t *testing.T) {
	ds := &Dataset{Name: "revenue", Raw: option.Option{}}
	require.Equal(t, "revenue", ds.Title())
}

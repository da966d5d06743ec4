// Package testutil builds dataset files for tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/zjrosen/chartwell/internal/option"
)

// Builder accumulates one dataset and writes it as YAML.
type Builder struct {
	t          *testing.T
	title      string
	categories []string
	dynamic    bool
	series     []seriesData
	extra      option.Option
}

// NewBuilder creates an empty dataset builder.
func NewBuilder(t *testing.T) *Builder {
	t.Helper()
	return &Builder{t: t, extra: option.Option{}}
}

// Title sets title.text.
func (b *Builder) Title(text string) *Builder {
	b.title = text
	return b
}

// Categories sets xAxis.data.
func (b *Builder) Categories(names ...string) *Builder {
	b.categories = names
	return b
}

// Dynamic marks the chart for automatic height.
func (b *Builder) Dynamic() *Builder {
	b.dynamic = true
	return b
}

// With sets an arbitrary top-level key.
func (b *Builder) With(key string, value any) *Builder {
	b.extra[key] = value
	return b
}

// WithSeries adds a series with optional configuration.
func (b *Builder) WithSeries(name string, opts ...SeriesOption) *Builder {
	s := defaultSeries(name)
	for _, opt := range opts {
		opt(&s)
	}
	b.series = append(b.series, s)
	return b
}

// Option returns the dataset as a raw option.
func (b *Builder) Option() option.Option {
	raw := option.Clone(b.extra)
	if b.title != "" {
		raw[option.KeyTitle] = option.Option{"text": b.title}
	}
	if len(b.categories) > 0 {
		raw[option.KeyXAxis] = option.Option{option.KeyData: toAny(b.categories)}
	}
	if b.dynamic {
		raw[option.KeyDynamic] = true
	}
	if b.series != nil {
		list := make([]any, 0, len(b.series))
		for _, s := range b.series {
			list = append(list, s.option())
		}
		raw[option.KeySeries] = list
	}
	return raw
}

// YAML returns the dataset document.
func (b *Builder) YAML() []byte {
	b.t.Helper()
	data, err := yaml.Marshal(map[string]any(b.Option()))
	require.NoError(b.t, err)
	return data
}

// Write stores the dataset as dir/name and returns the path.
func (b *Builder) Write(dir, name string) string {
	b.t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(b.t, os.WriteFile(path, b.YAML(), 0o600))
	return path
}

func toAny[T any](values []T) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

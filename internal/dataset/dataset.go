// Package dataset loads per-chart raw configs from YAML or JSON files.
package dataset

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/zjrosen/chartwell/internal/cachemanager"
	"github.com/zjrosen/chartwell/internal/log"
	"github.com/zjrosen/chartwell/internal/option"
	"github.com/zjrosen/chartwell/internal/watcher"
)

// ErrInvalidDataset is returned when a file parses but is not a chart config.
var ErrInvalidDataset = errors.New("invalid dataset")

// Dataset is one parsed dataset file.
type Dataset struct {
	Path string
	// Name is the file name without its extension.
	Name    string
	Raw     option.Option
	ModTime time.Time
}

// Title returns the configured title text, or Name.
func (d *Dataset) Title() string {
	if text := d.Raw.Map(option.KeyTitle).String("text"); text != "" {
		return text
	}
	return d.Name
}

// Parse decodes a dataset document. JSON is accepted since it is valid YAML.
func Parse(data []byte) (option.Option, error) {
	var raw option.Option
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding dataset: %w", err)
	}
	if raw == nil {
		raw = option.Option{}
	}

	if series, ok := raw[option.KeySeries]; ok && series != nil {
		list, isList := series.([]any)
		if !isList {
			return nil, fmt.Errorf("%w: series must be a list, got %T", ErrInvalidDataset, series)
		}
		for i, item := range list {
			if _, isMap := option.AsMap(item); !isMap {
				return nil, fmt.Errorf("%w: series[%d] must be a map, got %T", ErrInvalidDataset, i, item)
			}
		}
	}
	return raw, nil
}

// Source reads datasets from a directory through a read-through cache.
type Source struct {
	dir   string
	cache *cachemanager.ReadThroughCache[string, *Dataset]
	stats *cachemanager.InMemoryCacheManager[string, *Dataset]
}

// NewSource creates a Source for dir. Loaded datasets stay cached for ttl or
// until invalidated.
func NewSource(dir string, ttl time.Duration) *Source {
	mem := cachemanager.NewInMemoryCacheManager[string, *Dataset]("datasets", ttl, cachemanager.DefaultCleanupInterval)
	return &Source{
		dir:   dir,
		cache: cachemanager.NewReadThroughCache[string, *Dataset](mem, readFile, ttl, false),
		stats: mem,
	}
}

// Dir returns the watched directory.
func (s *Source) Dir() string {
	return s.dir
}

// List returns the dataset files in the directory, sorted.
func (s *Source) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("listing dataset directory: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") || !watcher.IsDataset(entry.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(s.dir, entry.Name()))
	}
	slices.Sort(paths)
	return paths, nil
}

// Load returns the dataset at path, from cache when possible.
func (s *Source) Load(ctx context.Context, path string) (*Dataset, error) {
	return s.cache.Get(ctx, path)
}

// Invalidate forgets cached copies of paths.
func (s *Source) Invalidate(ctx context.Context, paths ...string) {
	s.cache.Invalidate(ctx, paths...)
	log.Debug(log.CatDataset, "Invalidated datasets", "count", len(paths))
}

// Reset forgets every cached dataset.
func (s *Source) Reset(ctx context.Context) {
	s.cache.Reset(ctx)
	log.Debug(log.CatDataset, "Reset dataset cache")
}

// CacheStats reports cache effectiveness.
func (s *Source) CacheStats() cachemanager.Stats {
	return s.stats.Stats()
}

func readFile(_ context.Context, path string) (*Dataset, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading dataset %s: %w", path, err)
	}
	data, err := os.ReadFile(path) //nolint:gosec // G304: paths come from the dataset directory listing
	if err != nil {
		return nil, fmt.Errorf("reading dataset %s: %w", path, err)
	}

	raw, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing dataset %s: %w", path, err)
	}

	base := filepath.Base(path)
	ds := &Dataset{
		Path:    path,
		Name:    strings.TrimSuffix(base, filepath.Ext(base)),
		Raw:     raw,
		ModTime: info.ModTime(),
	}
	log.Debug(log.CatDataset, "Loaded dataset", "path", path, "series", len(raw.Series()))
	return ds, nil
}

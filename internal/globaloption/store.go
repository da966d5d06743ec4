// Package globaloption holds the base chart option shared by every chart
// instance. A Store is constructed once and injected wherever update
// pipelines are built.
package globaloption

import (
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/zjrosen/chartwell/internal/log"
	"github.com/zjrosen/chartwell/internal/option"
)

// Keys read by chartwell itself rather than by the engine.
const (
	KeyTheme        = "theme"
	KeyDriftPalette = "driftPalette"
)

// Defaults returns the stock base option.
func Defaults() option.Option {
	return option.Option{
		KeyTheme:        "macarons",
		KeyDriftPalette: true,
		"title": option.Option{
			"left":    "center",
			"top":     "top",
			"padding": []any{20, 10, 10, 10},
		},
		"grid": option.Option{
			"top":          "15%",
			"left":         "5%",
			"right":        "5%",
			"bottom":       "5%",
			"containLabel": true,
		},
		"backgroundColor": "rgba(255, 255, 255, .5)",
		"legend": option.Option{
			"left":    "center",
			"top":     "top",
			"padding": []any{20, 10, 10, 10},
		},
		"tooltip": option.Option{
			"trigger": "axis",
			"axisPointer": option.Option{
				"type": "shadow",
			},
		},
	}
}

// Store is the mergeable global option. Merges are visible to every later
// Get; there is no per-instance snapshot. Merges are expected to happen before
// instances read the option for their first render, but nothing enforces it.
// Get hands out the live map, so readers must run on the same goroutine as
// Merge; the lock only orders Merge against Get itself.
type Store struct {
	mu     sync.RWMutex
	global option.Option
}

// New creates a store seeded with Defaults.
func New() *Store {
	return NewWith(Defaults())
}

// NewWith creates a store seeded with a copy of base.
func NewWith(base option.Option) *Store {
	return &Store{global: option.Merge(nil, base)}
}

// Get returns the live global option. Callers must not modify it; use Merge.
func (s *Store) Get() option.Option {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.global
}

// Merge deep-merges partial into the global option. Nested maps merge key by
// key, lists and scalars are replaced. Unknown keys are added as-is.
func (s *Store) Merge(partial option.Option) {
	if len(partial) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.global = option.Merge(s.global, partial)
}

// MergeFile reads a YAML (or JSON) document from path and merges it.
func (s *Store) MergeFile(path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path comes from user configuration
	if err != nil {
		return fmt.Errorf("reading global option file: %w", err)
	}

	var partial option.Option
	if err := yaml.Unmarshal(data, &partial); err != nil {
		return fmt.Errorf("parsing global option file %s: %w", path, err)
	}

	s.Merge(partial)
	log.Info(log.CatConfig, "Merged global option file", "path", path, "keys", partial.Keys())
	return nil
}

// Theme returns the configured engine theme name.
func (s *Store) Theme() string {
	return s.Get().String(KeyTheme)
}

// DriftPalette reports whether palette drift is enabled.
func (s *Store) DriftPalette() bool {
	return s.Get().Bool(KeyDriftPalette)
}

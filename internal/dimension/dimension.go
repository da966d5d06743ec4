// Package dimension sizes chart surfaces for charts whose height should
// follow their data.
package dimension

import (
	"github.com/zjrosen/chartwell/internal/engine"
	"github.com/zjrosen/chartwell/internal/log"
	"github.com/zjrosen/chartwell/internal/option"
)

// Config bounds the computed height. All values are terminal rows.
type Config struct {
	RowHeight int `mapstructure:"row_height"`
	// Chrome is the space reserved for title and legend.
	Chrome    int `mapstructure:"chrome"`
	MinHeight int `mapstructure:"min_height"`
	MaxHeight int `mapstructure:"max_height"`
}

// Defaults returns the stock sizing.
func Defaults() Config {
	return Config{RowHeight: 1, Chrome: 3, MinHeight: 6, MaxHeight: 40}
}

// Helper implements orchestrator.Dimension.
type Helper struct {
	cfg Config
}

// New creates a Helper. Non-positive fields take their default.
func New(cfg Config) *Helper {
	def := Defaults()
	if cfg.RowHeight <= 0 {
		cfg.RowHeight = def.RowHeight
	}
	if cfg.Chrome < 0 {
		cfg.Chrome = def.Chrome
	}
	if cfg.MinHeight <= 0 {
		cfg.MinHeight = def.MinHeight
	}
	if cfg.MaxHeight < cfg.MinHeight {
		cfg.MaxHeight = max(def.MaxHeight, cfg.MinHeight)
	}
	return &Helper{cfg: cfg}
}

// Rows returns how many bar rows series occupy: the longest data list times
// the number of stack groups.
func Rows(series []option.Option) int {
	categories := 0
	groups := 0
	stacks := make(map[string]bool)
	for _, s := range series {
		categories = max(categories, len(option.Floats(s[option.KeyData])))
		stack := s.String(option.KeyStack)
		if stack == "" {
			groups++
			continue
		}
		if !stacks[stack] {
			stacks[stack] = true
			groups++
		}
	}
	return categories * groups
}

// Height returns the surface height for series, clamped to the configured
// bounds.
func (h *Helper) Height(series []option.Option) int {
	height := h.cfg.Chrome + Rows(series)*h.cfg.RowHeight
	return min(max(height, h.cfg.MinHeight), h.cfg.MaxHeight)
}

// ShouldAdjust reports whether the surface should be resized. Only dynamic
// charts with data are adjusted.
func (h *Helper) ShouldAdjust(dynamic bool, series []option.Option) bool {
	return dynamic && Rows(series) > 0
}

// Adjust sets the surface height for series and keeps its width.
func (h *Helper) Adjust(surface engine.Surface, series []option.Option) {
	width, before := surface.Size()
	height := h.Height(series)
	surface.SetSize(width, height)
	log.Debug(log.CatUI, "Adjusted chart height", "from", before, "to", height)
}

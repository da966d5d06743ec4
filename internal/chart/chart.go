// Package chart is a terminal chart engine. A Chart keeps an option tree the
// same way a browser engine would, merging every SetOption into its current
// state, and draws stacked horizontal bars with lipgloss.
package chart

import (
	"slices"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/chartwell/internal/engine"
	"github.com/zjrosen/chartwell/internal/log"
	"github.com/zjrosen/chartwell/internal/option"
)

// Default surface size for charts created without WithSize or WithSurface.
const (
	DefaultWidth  = 60
	DefaultHeight = 12
)

// Surface is the cell box a chart draws into.
type Surface struct {
	mu            sync.Mutex
	width, height int
}

var _ engine.Surface = (*Surface)(nil)

// NewSurface creates a surface of the given size.
func NewSurface(width, height int) *Surface {
	return &Surface{width: width, height: height}
}

// Size returns the surface size in cells.
func (s *Surface) Size() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width, s.height
}

// SetSize changes the surface size. The chart picks it up on its next Resize.
func (s *Surface) SetSize(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width, s.height = max(width, 1), max(height, 1)
}

// Option configures a Chart.
type Option func(*Chart)

// WithSurface draws into an existing surface.
func WithSurface(s *Surface) Option {
	return func(c *Chart) {
		if s != nil {
			c.surface = s
		}
	}
}

// WithSize sets the initial surface size.
func WithSize(width, height int) Option {
	return func(c *Chart) {
		c.surface.SetSize(width, height)
	}
}

// Chart is an engine.Instance rendering to a string.
type Chart struct {
	mu      sync.RWMutex
	current option.Option
	surface *Surface

	// Layout size captured by the last Resize.
	width, height int

	loading bool
	effect  string
	mask    lipgloss.Color
}

var _ engine.Instance = (*Chart)(nil)

// New creates a chart whose palette comes from the named theme. Unknown
// themes fall back to DefaultTheme.
func New(theme string, opts ...Option) *Chart {
	t, err := LookupTheme(theme)
	if err != nil {
		log.Warn(log.CatUI, "Falling back to default theme", "theme", theme, "error", err)
		t = Themes[DefaultTheme]
	}

	c := &Chart{
		current: option.Option{option.KeyColor: slices.Clone(t.Palette)},
		surface: NewSurface(DefaultWidth, DefaultHeight),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.width, c.height = c.surface.Size()
	return c
}

// SetOption merges opts into the current option.
func (c *Chart) SetOption(opts option.Option) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = option.Merge(c.current, opts)
}

// Resize lays the chart out at the surface's current size.
func (c *Chart) Resize() {
	w, h := c.surface.Size()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.width, c.height = w, h
}

// ShowLoading covers the chart with a mask. The current option is kept and
// drawn again once HideLoading is called.
func (c *Chart) ShowLoading(effect string, opts option.Option) {
	mask := lipgloss.Color("#ffffff")
	if raw := opts.String("maskColor"); raw != "" {
		parsed, err := ParseColor(raw)
		if err != nil {
			log.Debug(log.CatUI, "Ignoring loading mask color", "error", err)
		} else {
			mask = parsed
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = true
	c.effect = effect
	c.mask = mask
}

// HideLoading removes the loading mask.
func (c *Chart) HideLoading() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false
}

// GetOption returns a copy of the current option.
func (c *Chart) GetOption() option.Option {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return option.Clone(c.current)
}

// GetDom returns the chart's surface.
func (c *Chart) GetDom() engine.Surface {
	return c.surface
}

// Loading reports whether the loading mask is shown.
func (c *Chart) Loading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loading
}

// LayoutSize returns the size used by View.
func (c *Chart) LayoutSize() (int, int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.width, c.height
}

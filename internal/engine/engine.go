// Package engine defines the capability surface chartwell expects from a
// chart rendering engine. Only these calls are used by the registry, the
// update orchestrator and palette drift.
package engine

import "github.com/zjrosen/chartwell/internal/option"

// Loading indicator defaults used when an instance has no renderable data.
const (
	LoadingEffect    = "default"
	LoadingMaskColor = "rgba(255, 255, 255, 1)"
)

// LoadingStyle returns the fixed loading style options (opaque white mask).
func LoadingStyle() option.Option {
	return option.Option{"maskColor": LoadingMaskColor}
}

// Instance is a live rendering context for one chart. The instance is owned
// by whoever created it; registries only hold references.
type Instance interface {
	// SetOption merges opts into the instance's current option.
	SetOption(opts option.Option)
	// Resize re-lays out the chart to its surface's current size.
	Resize()
	ShowLoading(effect string, opts option.Option)
	HideLoading()
	// GetOption returns the currently applied option.
	GetOption() option.Option
	// GetDom returns the drawing surface backing the instance.
	GetDom() Surface
}

// Surface is the box an instance draws into.
type Surface interface {
	Size() (width, height int)
	SetSize(width, height int)
}

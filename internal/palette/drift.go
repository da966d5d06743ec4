// Package palette rotates chart color palettes so that charts rendered side
// by side start on different colors.
package palette

import (
	"slices"

	"github.com/zjrosen/chartwell/internal/engine"
	"github.com/zjrosen/chartwell/internal/log"
	"github.com/zjrosen/chartwell/internal/option"
	"github.com/zjrosen/chartwell/internal/scheduler"
)

// ComputeDrift returns palette rotated left by offset positions:
// palette[r:] followed by palette[:r], where r is offset wrapped into the
// palette length. The input is never modified. An empty palette yields an
// empty result. Negative offsets rotate right.
func ComputeDrift[T any](palette []T, offset int) []T {
	length := len(palette)
	if length == 0 {
		return slices.Clone(palette)
	}

	relative := offset
	if relative >= length || relative < 0 {
		relative = ((offset % length) + length) % length
	}

	out := make([]T, 0, length)
	out = append(out, palette[relative:]...)
	return append(out, palette[:relative]...)
}

// Counter reports how many chart instances are live.
type Counter interface {
	Size() int
}

// Drifter re-colors instances based on the live-instance count.
type Drifter struct {
	counter Counter
	sched   scheduler.Scheduler
	onApply func()
}

// NewDrifter creates a Drifter. Color changes are applied on sched's next
// turn.
func NewDrifter(counter Counter, sched scheduler.Scheduler) *Drifter {
	return &Drifter{counter: counter, sched: sched}
}

// OnApply registers a hook that runs after each deferred color apply.
func (d *Drifter) OnApply(fn func()) {
	d.onApply = fn
}

// Drift rotates the palette currently applied to inst by the live-instance
// count and schedules the color change. It does nothing when enabled is
// false or when inst has no palette.
func (d *Drifter) Drift(inst engine.Instance, enabled bool) {
	if !enabled || inst == nil {
		return
	}

	current := option.Strings(inst.GetOption()[option.KeyColor])
	if len(current) == 0 {
		log.Debug(log.CatPalette, "Instance has no palette, skipping drift")
		return
	}

	offset := d.counter.Size()
	rotated := ComputeDrift(current, offset)

	d.sched.Defer(func() {
		inst.SetOption(option.Option{option.KeyColor: rotated})
		log.Debug(log.CatPalette, "Applied palette drift", "offset", offset, "first", rotated[0])
		if d.onApply != nil {
			d.onApply()
		}
	})
}

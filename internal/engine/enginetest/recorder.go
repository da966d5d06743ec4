// Package enginetest provides an in-memory engine.Instance that records the
// calls made against it.
package enginetest

import (
	"sync"

	"github.com/zjrosen/chartwell/internal/engine"
	"github.com/zjrosen/chartwell/internal/option"
)

// Call names recorded by Instance.
const (
	CallSetOption   = "setOption"
	CallResize      = "resize"
	CallShowLoading = "showLoading"
	CallHideLoading = "hideLoading"
	CallGetOption   = "getOption"
	CallGetDom      = "getDom"
)

// Call is one recorded invocation.
type Call struct {
	Name   string
	Effect string
	Option option.Option
}

// Surface is a fixed-size engine.Surface.
type Surface struct {
	mu            sync.Mutex
	Width, Height int
}

func (s *Surface) Size() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Width, s.Height
}

func (s *Surface) SetSize(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Width, s.Height = width, height
}

// Instance records calls and keeps a merged option like a real engine.
type Instance struct {
	mu      sync.Mutex
	calls   []Call
	current option.Option
	surface *Surface
}

var _ engine.Instance = (*Instance)(nil)

// New creates an instance whose current option starts as initial.
func New(initial option.Option) *Instance {
	return &Instance{
		current: option.Clone(initial),
		surface: &Surface{Width: 80, Height: 20},
	}
}

func (i *Instance) record(c Call) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.calls = append(i.calls, c)
}

func (i *Instance) SetOption(opts option.Option) {
	i.record(Call{Name: CallSetOption, Option: option.Clone(opts)})
	i.mu.Lock()
	i.current = option.Merge(i.current, opts)
	i.mu.Unlock()
}

func (i *Instance) Resize() { i.record(Call{Name: CallResize}) }

func (i *Instance) ShowLoading(effect string, opts option.Option) {
	i.record(Call{Name: CallShowLoading, Effect: effect, Option: option.Clone(opts)})
}

func (i *Instance) HideLoading() { i.record(Call{Name: CallHideLoading}) }

func (i *Instance) GetOption() option.Option {
	i.record(Call{Name: CallGetOption})
	i.mu.Lock()
	defer i.mu.Unlock()
	return option.Clone(i.current)
}

func (i *Instance) GetDom() engine.Surface {
	i.record(Call{Name: CallGetDom})
	return i.surface
}

// Surface returns the backing surface for assertions.
func (i *Instance) Surface() *Surface { return i.surface }

// Calls returns a copy of the recorded calls.
func (i *Instance) Calls() []Call {
	i.mu.Lock()
	defer i.mu.Unlock()
	return append([]Call(nil), i.calls...)
}

// Names returns the recorded call names, optionally skipping reads
// (getOption/getDom) so tests can focus on mutations.
func (i *Instance) Names(skipReads bool) []string {
	var names []string
	for _, c := range i.Calls() {
		if skipReads && (c.Name == CallGetOption || c.Name == CallGetDom) {
			continue
		}
		names = append(names, c.Name)
	}
	return names
}

// Reset forgets recorded calls.
func (i *Instance) Reset() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.calls = nil
}

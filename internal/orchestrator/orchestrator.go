// Package orchestrator drives chart instances between the Loading and
// Rendered states as raw configurations arrive.
//
// An update runs to completion synchronously: the tooltip is adapted first,
// the surface is optionally resized for dynamic charts, and then the derived
// option is either committed or replaced by a loading mask. Updates for
// identities that are not registered are logged and skipped.
package orchestrator

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/zjrosen/chartwell/internal/engine"
	"github.com/zjrosen/chartwell/internal/log"
	"github.com/zjrosen/chartwell/internal/option"
	"github.com/zjrosen/chartwell/internal/registry"
	"github.com/zjrosen/chartwell/internal/tracing"
)

// State is the per-instance update state.
type State string

const (
	// StateUnknown means the identity is not registered.
	StateUnknown State = "unknown"
	// StateRegistered means the instance has not been updated yet.
	StateRegistered State = "registered"
	StateLoading    State = "loading"
	StateRendered   State = "rendered"
	// StateStale is returned by Update when the identity was not registered.
	StateStale State = "stale"
)

// Adapter shapes raw configs into engine options.
type Adapter interface {
	// AdaptTooltip adjusts the instance's tooltip for raw. It runs before
	// series are committed.
	AdaptTooltip(inst engine.Instance, raw option.Option)
	// AdaptSeries derives the option to commit. A nil result or one without
	// series means there is nothing to render yet.
	AdaptSeries(raw option.Option) option.Option
}

// Dimension decides and applies surface geometry for dynamic charts.
type Dimension interface {
	ShouldAdjust(dynamic bool, series []option.Option) bool
	Adjust(surface engine.Surface, series []option.Option)
}

// Lookup resolves identities synchronously.
type Lookup interface {
	Get(id registry.Identity) (engine.Instance, bool)
}

// Recorder observes update outcomes.
type Recorder interface {
	ObserveUpdate(state State)
}

// Option configures the Orchestrator.
type Option func(*Orchestrator)

// WithTracer sets the tracer used for update spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(o *Orchestrator) {
		if tracer != nil {
			o.tracer = tracer
		}
	}
}

// WithRecorder sets the outcome recorder.
func WithRecorder(rec Recorder) Option {
	return func(o *Orchestrator) {
		o.recorder = rec
	}
}

// Orchestrator applies raw configurations to registered instances.
type Orchestrator struct {
	lookup    Lookup
	adapter   Adapter
	dimension Dimension
	tracer    trace.Tracer
	recorder  Recorder

	mu     sync.Mutex
	states map[registry.Identity]State
}

// New creates an Orchestrator.
func New(lookup Lookup, adapter Adapter, dimension Dimension, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		lookup:    lookup,
		adapter:   adapter,
		dimension: dimension,
		tracer:    noop.NewTracerProvider().Tracer("noop"),
		states:    make(map[registry.Identity]State),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Update adapts raw and applies it to the instance registered under id.
// It returns the state the instance is left in, or StateStale when id is not
// registered.
func (o *Orchestrator) Update(ctx context.Context, id registry.Identity, raw option.Option) State {
	_, span := o.tracer.Start(ctx, tracing.SpanChartUpdate, trace.WithSpanKind(trace.SpanKindInternal))
	defer span.End()

	dynamic := raw.Bool(option.KeyDynamic)
	series := raw.Series()
	span.SetAttributes(
		attribute.String(tracing.AttrChartIdentity, id.String()),
		attribute.Bool(tracing.AttrChartDynamic, dynamic),
		attribute.Int(tracing.AttrSeriesCount, len(series)),
	)

	inst, ok := o.lookup.Get(id)
	if !ok {
		log.Warn(log.CatUpdate, "Update for unregistered instance, skipping", "identity", id)
		span.SetAttributes(attribute.String(tracing.AttrChartState, string(StateStale)))
		span.SetStatus(codes.Ok, "stale update skipped")
		o.observe(StateStale)
		return StateStale
	}

	o.adapter.AdaptTooltip(inst, raw)

	if dynamic && o.dimension.ShouldAdjust(dynamic, series) {
		o.dimension.Adjust(inst.GetDom(), series)
		span.AddEvent("surface adjusted")
	}

	derived := o.adapter.AdaptSeries(raw)

	var state State
	if derived.HasSeries() {
		inst.HideLoading()
		inst.Resize()
		inst.SetOption(derived)
		state = StateRendered
	} else {
		// Previous content stays on screen under the mask.
		inst.ShowLoading(engine.LoadingEffect, engine.LoadingStyle())
		state = StateLoading
	}

	o.mu.Lock()
	o.states[id] = state
	o.mu.Unlock()

	log.Debug(log.CatUpdate, "Updated instance", "identity", id, "state", state, "series", len(series))
	span.SetAttributes(attribute.String(tracing.AttrChartState, string(state)))
	span.SetStatus(codes.Ok, "")
	o.observe(state)
	return state
}

// State reports the last state reached by id.
func (o *Orchestrator) State(id registry.Identity) State {
	if _, ok := o.lookup.Get(id); !ok {
		return StateUnknown
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if s, ok := o.states[id]; ok {
		return s
	}
	return StateRegistered
}

// Forget drops the remembered state for id. Call it on teardown.
func (o *Orchestrator) Forget(id registry.Identity) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.states, id)
}

func (o *Orchestrator) observe(state State) {
	if o.recorder != nil {
		o.recorder.ObserveUpdate(state)
	}
}

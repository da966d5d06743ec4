// Package charts bundles the chart lifecycle operations behind one Service:
// identity generation, registration, asynchronous lookup, updates and
// palette drift.
package charts

import (
	"context"

	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/chartwell/internal/dimension"
	"github.com/zjrosen/chartwell/internal/engine"
	"github.com/zjrosen/chartwell/internal/globaloption"
	"github.com/zjrosen/chartwell/internal/metrics"
	"github.com/zjrosen/chartwell/internal/option"
	"github.com/zjrosen/chartwell/internal/orchestrator"
	"github.com/zjrosen/chartwell/internal/palette"
	"github.com/zjrosen/chartwell/internal/pubsub"
	"github.com/zjrosen/chartwell/internal/registry"
	"github.com/zjrosen/chartwell/internal/scheduler"
	"github.com/zjrosen/chartwell/internal/waterfall"
)

// Option configures a Service.
type Option func(*settings)

type settings struct {
	adapter   orchestrator.Adapter
	dimension orchestrator.Dimension
	tracer    trace.Tracer
	metrics   bool
}

// WithAdapter replaces the waterfall adapter.
func WithAdapter(a orchestrator.Adapter) Option {
	return func(s *settings) { s.adapter = a }
}

// WithDimension replaces the default dimension helper.
func WithDimension(d orchestrator.Dimension) Option {
	return func(s *settings) { s.dimension = d }
}

// WithTracer traces updates with tracer.
func WithTracer(tracer trace.Tracer) Option {
	return func(s *settings) { s.tracer = tracer }
}

// WithMetrics enables the Prometheus collector.
func WithMetrics() Option {
	return func(s *settings) { s.metrics = true }
}

// Service is the chart lifecycle entry point.
type Service struct {
	global       *globaloption.Store
	registry     *registry.Registry
	orchestrator *orchestrator.Orchestrator
	drifter      *palette.Drifter
	metrics      *metrics.Collector
}

// New wires a Service. Deferred work (queries, palette drift) runs on
// sched's turns.
func New(sched scheduler.Scheduler, global *globaloption.Store, opts ...Option) *Service {
	cfg := settings{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.adapter == nil {
		cfg.adapter = waterfall.New(global)
	}
	if cfg.dimension == nil {
		cfg.dimension = dimension.New(dimension.Defaults())
	}

	s := &Service{
		global:   global,
		registry: registry.New(sched),
	}
	s.drifter = palette.NewDrifter(s.registry, sched)

	orchOpts := []orchestrator.Option{orchestrator.WithTracer(cfg.tracer)}
	if cfg.metrics {
		s.metrics = metrics.New(s.registry)
		orchOpts = append(orchOpts, orchestrator.WithRecorder(s.metrics))
		s.drifter.OnApply(s.metrics.ObserveDrift)
	}
	s.orchestrator = orchestrator.New(s.registry, cfg.adapter, cfg.dimension, orchOpts...)
	return s
}

// GenerateIdentity returns a fresh identity.
func (s *Service) GenerateIdentity() registry.Identity {
	return registry.GenerateIdentity()
}

// GlobalOption returns the live global option.
func (s *Service) GlobalOption() option.Option {
	return s.global.Get()
}

// SetGlobalOption deep-merges partial into the global option.
func (s *Service) SetGlobalOption(partial option.Option) {
	s.global.Merge(partial)
}

// Register stores inst under id.
func (s *Service) Register(id registry.Identity, inst engine.Instance) {
	s.registry.Register(id, inst)
}

// Query resolves id on the next turn.
func (s *Service) Query(id registry.Identity) *scheduler.Future[engine.Instance] {
	return s.registry.Query(id)
}

// Remove unregisters id and forgets its update state.
func (s *Service) Remove(id registry.Identity) {
	s.registry.Remove(id)
	s.orchestrator.Forget(id)
}

// Has reports whether id is registered.
func (s *Service) Has(id registry.Identity) bool {
	return s.registry.Has(id)
}

// Size returns the number of registered instances.
func (s *Service) Size() int {
	return s.registry.Size()
}

// Identities returns the registered identities in sorted order.
func (s *Service) Identities() []registry.Identity {
	return s.registry.Identities()
}

// Update applies raw to the instance registered under id.
func (s *Service) Update(ctx context.Context, id registry.Identity, raw option.Option) orchestrator.State {
	return s.orchestrator.Update(ctx, id, raw)
}

// State returns the last update state of id.
func (s *Service) State(id registry.Identity) orchestrator.State {
	return s.orchestrator.State(id)
}

// DriftPalette rotates inst's palette by the number of registered instances.
func (s *Service) DriftPalette(inst engine.Instance, enabled bool) {
	s.drifter.Drift(inst, enabled)
}

// ComputeDrift rotates palette left by offset.
func ComputeDrift[T any](p []T, offset int) []T {
	return palette.ComputeDrift(p, offset)
}

// Events returns the broker carrying registration changes.
func (s *Service) Events() *pubsub.Broker[registry.Change] {
	return s.registry.Events()
}

// Metrics returns the collector, or nil when metrics are disabled.
func (s *Service) Metrics() *metrics.Collector {
	return s.metrics
}

// Close releases the registry's subscribers.
func (s *Service) Close() {
	s.registry.Close()
}

// Package metrics exposes chartwell runtime counters to Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/zjrosen/chartwell/internal/orchestrator"
)

const namespace = "chartwell"

// RegistrySource is the subset of the instance registry read by gauges.
type RegistrySource interface {
	Size() int
	QueryMisses() uint64
	DroppedEvents() uint64
}

// Collector owns chartwell's metrics and the Prometheus registry they are
// registered on.
type Collector struct {
	reg     *prometheus.Registry
	updates *prometheus.CounterVec
	drifts  prometheus.Counter
}

// New creates a Collector reading instance counts from src.
func New(src RegistrySource) *Collector {
	c := &Collector{
		reg: prometheus.NewRegistry(),
		updates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "updates_total",
			Help:      "Chart updates by resulting state.",
		}, []string{"state"}),
		drifts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "palette_drifts_total",
			Help:      "Palette drifts applied to chart instances.",
		}),
	}

	c.reg.MustRegister(
		c.updates,
		c.drifts,
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "registered_instances",
			Help:      "Chart instances currently registered.",
		}, func() float64 { return float64(src.Size()) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "query_failures_total",
			Help:      "Instance queries rejected because the identity was not registered.",
		}, func() float64 { return float64(src.QueryMisses()) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "change_events_dropped_total",
			Help:      "Registry change events not delivered to a full subscriber.",
		}, func() float64 { return float64(src.DroppedEvents()) }),
	)

	return c
}

// ObserveUpdate implements orchestrator.Recorder.
func (c *Collector) ObserveUpdate(state orchestrator.State) {
	c.updates.WithLabelValues(string(state)).Inc()
}

// ObserveDrift counts one applied palette drift.
func (c *Collector) ObserveDrift() {
	c.drifts.Inc()
}

// Registry returns the underlying Prometheus registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.reg
}

// Handler serves the metrics in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{})
}

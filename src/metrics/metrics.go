// Package metrics exposes prometheus counters for the fault pipeline on a
// package-owned registry.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "faultcapture"

// Collector holds every counter the capture and logging packages update.
type Collector struct {
	registry *prometheus.Registry

	FaultsCaptured   *prometheus.CounterVec
	FaultsSuppressed *prometheus.CounterVec
	FatalFaults      prometheus.Counter
	ContextCache     *prometheus.CounterVec
}

var (
	collector   *Collector
	collectorMu sync.Mutex
)

// Default returns the process collector, creating it on first use.
func Default() *Collector {
	collectorMu.Lock()
	defer collectorMu.Unlock()

	if collector == nil {
		collector = NewCollector()
	}
	return collector
}

// NewCollector builds a collector registered on its own registry.
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		FaultsCaptured: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "faults_captured_total",
				Help:      "Faults forwarded to the logging backend",
			},
			[]string{"kind", "level"},
		),
		FaultsSuppressed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "faults_suppressed_total",
				Help:      "Faults dropped because their kind is outside the reporting mask",
			},
			[]string{"kind"},
		),
		FatalFaults: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "fatal_faults_total",
				Help:      "Fatal faults that tore down the capture hooks",
			},
		),
		ContextCache: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "context_cache_total",
				Help:      "Context cache lookups by result",
			},
			[]string{"result"},
		),
	}

	registry.MustRegister(c.FaultsCaptured, c.FaultsSuppressed, c.FatalFaults, c.ContextCache)
	return c
}

// Registry is the registry served on /metrics.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

func (c *Collector) CacheHit()  { c.ContextCache.WithLabelValues("hit").Inc() }
func (c *Collector) CacheMiss() { c.ContextCache.WithLabelValues("miss").Inc() }

// Captured counts a fault handed to the dispatcher.
func (c *Collector) Captured(kind, level string) {
	c.FaultsCaptured.WithLabelValues(kind, level).Inc()
}

// Suppressed counts a fault filtered by the mask.
func (c *Collector) Suppressed(kind string) {
	c.FaultsSuppressed.WithLabelValues(kind).Inc()
}

// ResetForTesting drops the process collector.
func ResetForTesting() {
	collectorMu.Lock()
	defer collectorMu.Unlock()
	collector = nil
}

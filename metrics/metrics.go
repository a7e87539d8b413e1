// Package metrics wires the search engine's lifecycle and move accounting
// into Prometheus counters, histograms and gauges. Attaching a Collector to
// a search is optional; a nil Collector (the zero value's method set) is a
// documented no-op, consistent with the engine's "pluggable, possibly
// no-op" instrumentation bindings.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	stepsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "localsearch_steps_total",
		Help: "Total search steps completed, by search name.",
	}, []string{"search"})

	stepDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "localsearch_step_duration_seconds",
		Help:    "Duration of a single search step.",
		Buckets: prometheus.ExponentialBuckets(0.00001, 2, 16),
	}, []string{"search"})

	acceptedMovesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "localsearch_accepted_moves_total",
		Help: "Total accepted moves, by search name.",
	}, []string{"search"})

	rejectedMovesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "localsearch_rejected_moves_total",
		Help: "Total rejected moves, by search name.",
	}, []string{"search"})

	bestEvaluation = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "localsearch_best_evaluation",
		Help: "Current best-solution evaluation, by search name.",
	}, []string{"search"})

	runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "localsearch_runs_total",
		Help: "Total started Start()/run cycles, by search name.",
	}, []string{"search"})
)

// Collector records search events against a fixed search name label. A nil
// *Collector is a no-op: every method returns without recording. A
// zero-value Collector is not a no-op; it records under an empty search
// label.
type Collector struct {
	name string
}

// NewCollector returns a Collector that labels all observations with name
// (typically the search's configured name).
func NewCollector(name string) *Collector {
	return &Collector{name: name}
}

// RunStarted records the start of a new run.
func (c *Collector) RunStarted() {
	if c == nil {
		return
	}
	runsTotal.WithLabelValues(c.name).Inc()
}

// StepCompleted records one search step's wall-clock duration.
func (c *Collector) StepCompleted(d time.Duration) {
	if c == nil {
		return
	}
	stepsTotal.WithLabelValues(c.name).Inc()
	stepDuration.WithLabelValues(c.name).Observe(d.Seconds())
}

// MoveAccepted records an accepted move.
func (c *Collector) MoveAccepted() {
	if c == nil {
		return
	}
	acceptedMovesTotal.WithLabelValues(c.name).Inc()
}

// MoveRejected records a rejected move.
func (c *Collector) MoveRejected() {
	if c == nil {
		return
	}
	rejectedMovesTotal.WithLabelValues(c.name).Inc()
}

// NewBestSolution records an improved best-solution evaluation.
func (c *Collector) NewBestSolution(value float64) {
	if c == nil {
		return
	}
	bestEvaluation.WithLabelValues(c.name).Set(value)
}

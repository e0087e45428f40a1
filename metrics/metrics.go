// Package metrics exposes solver activity to prometheus.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"hxsim/calculator"
	"hxsim/circuit"
	"hxsim/fluid"
	"hxsim/numeric"
)

// Collector provides solver metrics. A nil *Collector records nothing.
type Collector struct {
	SolvesTotal    *prometheus.CounterVec
	SolveDuration  *prometheus.HistogramVec
	RootIterations *prometheus.HistogramVec
	ErrorsTotal    *prometheus.CounterVec
}

// NewCollector registers the collectors with reg.
func NewCollector(reg prometheus.Registerer, namespace string) *Collector {
	factory := promauto.With(reg)
	return &Collector{
		SolvesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "solves_total",
				Help:      "Total number of solves by kind and status",
			},
			[]string{"kind", "status"},
		),

		SolveDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "solve_duration_seconds",
				Help:      "Solve duration in seconds by kind",
				Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
			},
			[]string{"kind"},
		),

		RootIterations: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "root_iterations",
				Help:      "Brent iterations per bracketed root search",
				Buckets:   []float64{2, 4, 8, 16, 32, 64, 128},
			},
			[]string{"solve"},
		),

		ErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "errors_total",
				Help:      "Total number of solve errors by kind",
			},
			[]string{"kind"},
		),
	}
}

// ErrorKind classifies a solve error for the errors_total label.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, circuit.ErrConfiguration):
		return "configuration"
	case errors.Is(err, fluid.ErrPropertyEvaluation):
		return "property"
	case errors.Is(err, numeric.ErrConvergence):
		return "convergence"
	}
	return "other"
}

// ObserveSolve records one finished solve of kind started at start.
func (c *Collector) ObserveSolve(kind string, start time.Time, err error) {
	if c == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
		c.ErrorsTotal.WithLabelValues(ErrorKind(err)).Inc()
	}
	c.SolvesTotal.WithLabelValues(kind, status).Inc()
	c.SolveDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
}

// ObserveRootSolves records the iteration counts of a coaxial solve.
func (c *Collector) ObserveRootSolves(solves []calculator.RootSolve) {
	if c == nil {
		return
	}
	for _, s := range solves {
		c.RootIterations.WithLabelValues(s.Name).Observe(float64(s.Iterations))
	}
}

// CircuitObserver adapts the collector to the coordinator's per-circuit
// callback.
func (c *Collector) CircuitObserver() circuit.Observer {
	return func(_ int, cc circuit.Circuit, elapsed time.Duration, err error) {
		if c == nil {
			return
		}
		status := "ok"
		if err != nil {
			status = "error"
		}
		c.SolvesTotal.WithLabelValues("circuit", status).Inc()
		c.SolveDuration.WithLabelValues("circuit").Observe(elapsed.Seconds())
		if s, ok := cc.(interface{ Solves() []calculator.RootSolve }); ok {
			c.ObserveRootSolves(s.Solves())
		}
	}
}

// Package circuit solves an evaporator made of parallel refrigerant
// circuits fed by one distributor.
package circuit

import (
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"hxsim/calculator"
	"hxsim/exchanger"
	"hxsim/fluid"
	"hxsim/model"
)

// ErrConfiguration marks a circuit layout that cannot be solved: bad
// distribution vectors, an invalid template or a tube count that does not
// cover the circuits.
var ErrConfiguration = errors.New("invalid circuit configuration")

// Circuit is one independently solved refrigerant circuit.
type Circuit interface {
	Update(a model.Assignment) error
	Calculate() error
	Result() *model.Result
}

// Factory builds the solver of circuit index from its own copy of the
// template.
type Factory func(template model.CoaxialCase, index int) Circuit

// Observer is called once for every circuit that was calculated.
type Observer func(index int, c Circuit, elapsed time.Duration, err error)

// Coordinator distributes the flows of a multi-circuit case, solves the
// circuits on a worker pool and aggregates the results.
type Coordinator struct {
	props   fluid.Provider
	workers int
	factory Factory
	observe Observer
}

func NewCoordinator(props fluid.Provider, cfg calculator.Config) *Coordinator {
	return &Coordinator{
		props:   props,
		workers: cfg.Workers,
		factory: func(template model.CoaxialCase, _ int) Circuit {
			return calculator.NewCoaxial(template, props, cfg)
		},
	}
}

func (co *Coordinator) SetFactory(f Factory) {
	co.factory = f
}

func (co *Coordinator) SetObserver(o Observer) {
	co.observe = o
}

func (co *Coordinator) SetWorkers(n int) {
	co.workers = n
}

// Assign resolves the per-circuit flows, inlet enthalpies and tube counts
// without solving anything.
func (co *Coordinator) Assign(c model.MultiCircuitCase) ([]model.Assignment, error) {
	n := c.Circuits
	if n <= 0 {
		return nil, fmt.Errorf("%w: %d circuits", ErrConfiguration, n)
	}
	t := c.Template
	mdot, err := Distribute("mass flow", c.MassFlow, c.MassFlowCoeffs, t.MassFlow, n)
	if err != nil {
		return nil, err
	}
	sec, err := Distribute("secondary flow", c.SecondaryFlow, c.SecondaryFlowCoeffs, t.SecondaryMassFlow, n)
	if err != nil {
		return nil, err
	}
	hin, err := InletEnthalpies(co.props, t.Refrigerant, t.InletPressure, t.InletEnthalpy, mdot, c.VaporFlowCoeffs)
	if err != nil {
		return nil, err
	}
	tubes, err := PartitionTubes(c.TubesPerBank, n)
	if err != nil {
		return nil, err
	}

	out := make([]model.Assignment, n)
	for i := range out {
		out[i] = model.Assignment{
			Index:         i,
			MassFlow:      mdot[i],
			InletEnthalpy: hin[i],
			SecondaryFlow: sec[i],
			TubesPerBank:  tubes[i],
		}
	}
	return out, nil
}

// Solve calculates every circuit of c. All inputs are checked before the
// first circuit is calculated; any circuit failure fails the whole solve.
func (co *Coordinator) Solve(c model.MultiCircuitCase) (*model.MultiResult, error) {
	assignments, err := co.Assign(c)
	if err != nil {
		return nil, err
	}

	circuits := make([]Circuit, len(assignments))
	for i, a := range assignments {
		// CoaxialCase 只含值类型字段，按值传递即为独立副本
		circuits[i] = co.factory(c.Template, i)
		if err := circuits[i].Update(a); err != nil {
			if errors.Is(err, exchanger.ErrGeometry) || errors.Is(err, calculator.ErrInput) {
				return nil, fmt.Errorf("%w: circuit %d: %w", ErrConfiguration, i, err)
			}
			return nil, fmt.Errorf("circuit %d: %w", i, err)
		}
		log.WithFields(log.Fields{
			"circuit":       i,
			"MassFlow":      a.MassFlow,
			"InletEnthalpy": a.InletEnthalpy,
			"SecondaryFlow": a.SecondaryFlow,
			"TubesPerBank":  a.TubesPerBank,
		}).Info("circuit assigned")
	}

	if _, err := newExecutor(co.workers, len(circuits)).run(circuits, co.observe); err != nil {
		return nil, err
	}

	results := make([]*model.Result, len(circuits))
	for i, cc := range circuits {
		results[i] = cc.Result()
		if results[i] == nil {
			return nil, fmt.Errorf("circuit %d: no result after calculation", i)
		}
	}
	eq, err := Aggregate(co.props, results)
	if err != nil {
		return nil, err
	}
	return &model.MultiResult{Equivalent: *eq, Circuits: results, Assignments: assignments}, nil
}

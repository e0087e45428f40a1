package circuit

import (
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"hxsim/calculator"
	"hxsim/exchanger"
	"hxsim/fluid"
	"hxsim/model"
	"hxsim/numeric"
)

func template(t *testing.T) model.CoaxialCase {
	t.Helper()
	lib := fluid.Default()
	pCond, err := lib.Props(fluid.Pressure, fluid.Temperature, 317.73, fluid.Quality, 1, "R290")
	require.NoError(t, err)
	hin, err := lib.Props(fluid.Enthalpy, fluid.Temperature, 317.73-7, fluid.Pressure, pCond, "R290")
	require.NoError(t, err)
	pEvap, err := lib.Props(fluid.Pressure, fluid.Temperature, 285, fluid.Quality, 1, "R290")
	require.NoError(t, err)
	return model.CoaxialCase{
		Name:              "coaxial",
		Geometry:          *exchanger.NewCoaxial(0.0278, 0.03415, 0.045, 50),
		Refrigerant:       "R290",
		InletPressure:     pEvap,
		InletEnthalpy:     hin,
		MassFlow:          0.040,
		Secondary:         "Water",
		SecondaryInletT:   290.52,
		SecondaryPressure: 300e3,
		SecondaryMassFlow: 0.38,
	}
}

// fakeCircuit produces a two-phase outlet whose duty and pressure drop
// scale with its assigned mass flow.
type fakeCircuit struct {
	c      model.CoaxialCase
	a      model.Assignment
	err    error
	result *model.Result
	calls  *atomic.Int32
}

func (f *fakeCircuit) Update(a model.Assignment) error {
	if !(a.MassFlow > 0) {
		return fmt.Errorf("%w: mass flow %g", calculator.ErrInput, a.MassFlow)
	}
	f.a = a
	return nil
}

func (f *fakeCircuit) Calculate() error {
	if f.calls != nil {
		f.calls.Add(1)
	}
	if f.err != nil {
		return f.err
	}
	lib := fluid.Default()
	p := f.c.InletPressure
	hl, _ := lib.Props(fluid.Enthalpy, fluid.Pressure, p, fluid.Quality, 0, "R290")
	hv, _ := lib.Props(fluid.Enthalpy, fluid.Pressure, p, fluid.Quality, 1, "R290")
	x := 0.5 + 10*f.a.MassFlow
	hout := hl + x*(hv-hl)
	q := f.a.MassFlow * (hout - f.a.InletEnthalpy)
	geo := f.c.Geometry
	geo.Passes = f.a.TubesPerBank
	f.result = &model.Result{
		Geometry:    geo,
		Refrigerant: "R290",
		MassFlow:    f.a.MassFlow,
		Q:           q,
		Charge:      0.1 * f.a.MassFlow,
		DP:          -1e5 * f.a.MassFlow,
		UA:          100,
		Zones: [model.ZoneCount]model.Zone{
			{Kind: model.Superheat},
			{Kind: model.TwoPhase, W: 1, Q: q, HTC: 1e5 * f.a.MassFlow, DP: -1e5 * f.a.MassFlow},
			{Kind: model.Subcool},
		},
		Inlet:  model.State{T: 285, P: p, H: f.a.InletEnthalpy},
		Outlet: model.State{T: 285, P: p, H: hout, X: x},
		Secondary: model.Secondary{
			Fluid:    "Water",
			MassFlow: f.a.SecondaryFlow,
			Tin:      290,
			Tout:     290 - q/(4185*f.a.SecondaryFlow),
			Cp:       4185,
		},
	}
	return nil
}

func (f *fakeCircuit) Result() *model.Result {
	return f.result
}

func fakeCoordinator(workers int, fail map[int]error, calls *atomic.Int32) *Coordinator {
	co := NewCoordinator(fluid.Default(), calculator.DefaultConfig())
	co.SetWorkers(workers)
	co.SetFactory(func(c model.CoaxialCase, i int) Circuit {
		return &fakeCircuit{c: c, err: fail[i], calls: calls}
	})
	return co
}

func fiveCircuits(t *testing.T) model.MultiCircuitCase {
	return model.MultiCircuitCase{
		TestName:            "five circuits",
		Template:            template(t),
		Circuits:            5,
		MassFlow:            []float64{0.1},
		MassFlowCoeffs:      []float64{0.2, 0.2, 0.2, 0.2, 0.2},
		SecondaryFlow:       []float64{1.9},
		SecondaryFlowCoeffs: []float64{0.2, 0.2, 0.2, 0.2, 0.2},
		TubesPerBank:        32,
	}
}

func TestPartitionTubes(t *testing.T) {
	tubes, err := PartitionTubes(32, 5)
	require.NoError(t, err)
	assert.Equal(t, []int{6, 6, 6, 7, 7}, tubes)

	tubes, err = PartitionTubes(30, 5)
	require.NoError(t, err)
	assert.Equal(t, []int{6, 6, 6, 6, 6}, tubes)

	for total := 7; total < 60; total++ {
		tubes, err := PartitionTubes(total, 7)
		require.NoError(t, err)
		sum := 0
		for i, n := range tubes {
			sum += n
			assert.Contains(t, []int{total / 7, (total + 6) / 7}, n)
			if i > 0 {
				assert.GreaterOrEqual(t, n, tubes[i-1])
			}
		}
		assert.Equal(t, total, sum)
	}

	tubes, err = PartitionTubes(0, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 0, 0}, tubes)

	_, err = PartitionTubes(3, 5)
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestDistribute(t *testing.T) {
	flows, err := Distribute("mass flow", []float64{0.1}, []float64{0.2, 0.2, 0.2, 0.2, 0.2}, 0, 5)
	require.NoError(t, err)
	assert.InDelta(t, 0.1, floats.Sum(flows), 1e-12)
	for _, f := range flows {
		assert.InDelta(t, 0.02, f, 1e-15)
	}

	flows, err = Distribute("mass flow", nil, nil, 0.3, 3)
	require.NoError(t, err)
	require.Len(t, flows, 3)
	for _, f := range flows {
		assert.InDelta(t, 0.1, f, 1e-15)
	}

	flows, err = Distribute("mass flow", []float64{0.1, 0.2}, nil, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.1, 0.2}, flows)

	flows, err = Distribute("mass flow", []float64{0.4}, []float64{0.25, 0.75}, 0, 2)
	require.NoError(t, err)
	assert.InDelta(t, 0.1, flows[0], 1e-15)
	assert.InDelta(t, 0.3, flows[1], 1e-15)
}

func TestDistributeErrors(t *testing.T) {
	tests := []struct {
		name   string
		flows  []float64
		coeffs []float64
		n      int
	}{
		{"sum 1.00002", []float64{0.1}, []float64{0.2, 0.2, 0.2, 0.2, 0.20002}, 5},
		{"coefficient length", []float64{0.1}, []float64{0.25, 0.25, 0.25, 0.25}, 5},
		{"flow vector length", []float64{0.1, 0.1, 0.1}, nil, 5},
		{"negative coefficient", []float64{0.1}, []float64{1.5, -0.5}, 2},
		{"zero coefficient", []float64{0.1}, []float64{1, 0}, 2},
		{"no circuits", []float64{0.1}, nil, 0},
		{"negative flow", []float64{0.1, -0.1}, nil, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Distribute("mass flow", tt.flows, tt.coeffs, 0.1, tt.n)
			assert.ErrorIs(t, err, ErrConfiguration)
		})
	}
}

func TestInletEnthalpies(t *testing.T) {
	lib := fluid.Default()
	c := template(t)
	mdot := []float64{0.01, 0.02, 0.03}

	h, err := InletEnthalpies(lib, c.Refrigerant, c.InletPressure, c.InletEnthalpy, mdot, nil)
	require.NoError(t, err)
	assert.Equal(t, []float64{c.InletEnthalpy, c.InletEnthalpy, c.InletEnthalpy}, h)

	// vapor split in proportion to mass flow keeps the inlet quality
	h, err = InletEnthalpies(lib, c.Refrigerant, c.InletPressure, c.InletEnthalpy, mdot, []float64{1.0 / 6, 2.0 / 6, 3.0 / 6})
	require.NoError(t, err)
	for _, hi := range h {
		assert.InEpsilon(t, c.InletEnthalpy, hi, 1e-9)
	}

	// a skewed split still conserves the mixed enthalpy
	h, err = InletEnthalpies(lib, c.Refrigerant, c.InletPressure, c.InletEnthalpy, mdot, []float64{0.5, 0.3, 0.2})
	require.NoError(t, err)
	assert.InEpsilon(t, c.InletEnthalpy*floats.Sum(mdot), floats.Dot(h, mdot), 1e-9)
	assert.Greater(t, h[0], h[2])

	_, err = InletEnthalpies(lib, c.Refrigerant, c.InletPressure, c.InletEnthalpy, mdot, []float64{0.5, 0.5})
	assert.ErrorIs(t, err, ErrConfiguration)

	// all vapor into the smallest circuit exceeds saturated vapor
	_, err = InletEnthalpies(lib, c.Refrigerant, c.InletPressure, c.InletEnthalpy, mdot, []float64{1, 0, 0})
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestCoordinatorFiveCircuits(t *testing.T) {
	c := fiveCircuits(t)
	var calls atomic.Int32
	res, err := fakeCoordinator(3, nil, &calls).Solve(c)
	require.NoError(t, err)
	assert.Equal(t, int32(5), calls.Load())

	require.Len(t, res.Circuits, 5)
	require.Len(t, res.Assignments, 5)
	tubes := 0
	for i, a := range res.Assignments {
		assert.Equal(t, i, a.Index)
		assert.Contains(t, []int{6, 7}, a.TubesPerBank)
		tubes += a.TubesPerBank
	}
	assert.Equal(t, 32, tubes)
	assert.Equal(t, 32, res.Equivalent.Geometry.Passes)

	mdot := column(res.Circuits, func(r *model.Result) float64 { return r.MassFlow })
	assert.InDelta(t, 0.1, floats.Sum(mdot), 1e-12)
	assert.Equal(t, floats.Sum(column(res.Circuits, func(r *model.Result) float64 { return r.Q })), res.Equivalent.Q)
	assert.Equal(t, floats.Sum(column(res.Circuits, func(r *model.Result) float64 { return r.Charge })), res.Equivalent.Charge)
	assert.InDelta(t, 500.0, res.Equivalent.UA, 1e-12)
	assert.InDelta(t, 1.9, res.Equivalent.Secondary.MassFlow, 1e-12)
}

// Pressure drop and heat transfer coefficient are averaged without flow
// weighting. This is a known approximation kept for compatibility.
func TestAggregateUsesUnweightedMeans(t *testing.T) {
	c := fiveCircuits(t)
	c.MassFlowCoeffs = []float64{0.1, 0.1, 0.2, 0.3, 0.3}
	res, err := fakeCoordinator(1, nil, nil).Solve(c)
	require.NoError(t, err)

	dp := column(res.Circuits, func(r *model.Result) float64 { return r.DP })
	mdot := column(res.Circuits, func(r *model.Result) float64 { return r.MassFlow })
	assert.InDelta(t, stat.Mean(dp, nil), res.Equivalent.DP, 1e-9)
	assert.NotEqual(t, stat.Mean(dp, mdot), res.Equivalent.DP)
	htc := column(res.Circuits, func(r *model.Result) float64 { return r.Zones[model.TwoPhase].HTC })
	assert.InDelta(t, stat.Mean(htc, nil), res.Equivalent.Zone(model.TwoPhase).HTC, 1e-9)

	// enthalpy mixes by mass flow
	hout := column(res.Circuits, func(r *model.Result) float64 { return r.Outlet.H })
	assert.InDelta(t, stat.Mean(hout, mdot), res.Equivalent.Outlet.H, 1e-6)
	assert.InDelta(t, res.Equivalent.Inlet.P+res.Equivalent.DP, res.Equivalent.Outlet.P, 1e-9)
	assert.Greater(t, res.Equivalent.Outlet.X, 0.0)
	assert.Less(t, res.Equivalent.Outlet.X, 1.0)
	assert.Less(t, res.Equivalent.Outlet.T, res.Circuits[0].Outlet.T)

	// secondary outlet mixes by secondary flow
	tout := column(res.Circuits, func(r *model.Result) float64 { return r.Secondary.Tout })
	assert.InDelta(t, stat.Mean(tout, nil), res.Equivalent.Secondary.Tout, 1e-9)
}

func TestCoordinatorConfigurationErrors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *model.MultiCircuitCase)
	}{
		{"coefficients sum 1.00002", func(c *model.MultiCircuitCase) {
			c.MassFlowCoeffs = []float64{0.2, 0.2, 0.2, 0.2, 0.20002}
		}},
		{"secondary coefficient length", func(c *model.MultiCircuitCase) {
			c.SecondaryFlowCoeffs = []float64{0.5, 0.5}
		}},
		{"mass flow vector length", func(c *model.MultiCircuitCase) {
			c.MassFlow = []float64{0.1, 0.1}
		}},
		{"vapor coefficient length", func(c *model.MultiCircuitCase) {
			c.VaporFlowCoeffs = []float64{1}
		}},
		{"too few tubes", func(c *model.MultiCircuitCase) { c.TubesPerBank = 4 }},
		{"no circuits", func(c *model.MultiCircuitCase) { c.Circuits = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := fiveCircuits(t)
			tt.modify(&c)
			var calls atomic.Int32
			_, err := fakeCoordinator(2, nil, &calls).Solve(c)
			assert.ErrorIs(t, err, ErrConfiguration)
			assert.Zero(t, calls.Load())
		})
	}
}

func TestCoordinatorInvalidTemplate(t *testing.T) {
	c := fiveCircuits(t)
	c.Template.Geometry.Length = 0
	_, err := NewCoordinator(fluid.Default(), calculator.DefaultConfig()).Solve(c)
	assert.ErrorIs(t, err, ErrConfiguration)
	assert.ErrorIs(t, err, exchanger.ErrGeometry)
}

func TestCoordinatorAbortsOnCircuitError(t *testing.T) {
	c := fiveCircuits(t)
	fail := map[int]error{
		2: fmt.Errorf("outlet quality: %w", numeric.ErrConvergence),
		4: errors.New("boom"),
	}

	var calls atomic.Int32
	var observed []int
	co := fakeCoordinator(1, fail, &calls)
	co.SetObserver(func(i int, _ Circuit, _ time.Duration, _ error) {
		observed = append(observed, i)
	})
	res, err := co.Solve(c)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, numeric.ErrConvergence)
	assert.Contains(t, err.Error(), "circuit 2")
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, []int{0, 1, 2}, observed)

	_, err = fakeCoordinator(4, fail, nil).Solve(c)
	assert.Error(t, err)
}

func TestCoordinatorCoaxialCircuits(t *testing.T) {
	tpl := template(t)
	single := calculator.NewCoaxial(tpl, fluid.Default(), calculator.DefaultConfig())
	require.NoError(t, single.Calculate())
	one := single.Result()

	c := model.MultiCircuitCase{
		Template:        tpl,
		Circuits:        2,
		MassFlow:        []float64{2 * tpl.MassFlow},
		SecondaryFlow:   []float64{2 * tpl.SecondaryMassFlow},
		VaporFlowCoeffs: []float64{0.5, 0.5},
	}
	res, err := NewCoordinator(fluid.Default(), calculator.DefaultConfig()).Solve(c)
	require.NoError(t, err)

	eq := res.Equivalent
	assert.InEpsilon(t, 2*one.Q, eq.Q, 1e-9)
	assert.InEpsilon(t, 2*one.Charge, eq.Charge, 1e-9)
	assert.InEpsilon(t, one.DP, eq.DP, 1e-9)
	assert.InDelta(t, one.Secondary.Tout, eq.Secondary.Tout, 1e-9)
	assert.InEpsilon(t, one.Outlet.H, eq.Outlet.H, 1e-9)
	assert.Less(t, eq.Outlet.P, eq.Inlet.P)
	assert.Greater(t, eq.Outlet.X, 0.0)
	assert.Less(t, eq.Outlet.X, 1.0)
}

func TestCoordinatorFiveCoaxialCircuits(t *testing.T) {
	tpl := template(t)
	c := model.MultiCircuitCase{
		Template:            tpl,
		Circuits:            5,
		MassFlow:            []float64{32 * tpl.MassFlow},
		MassFlowCoeffs:      []float64{0.2, 0.2, 0.2, 0.2, 0.2},
		SecondaryFlow:       []float64{32 * tpl.SecondaryMassFlow},
		SecondaryFlowCoeffs: []float64{0.2, 0.2, 0.2, 0.2, 0.2},
		TubesPerBank:        32,
	}
	res, err := NewCoordinator(fluid.Default(), calculator.DefaultConfig()).Solve(c)
	require.NoError(t, err)

	tubes := 0
	for i, r := range res.Circuits {
		assert.Equal(t, res.Assignments[i].TubesPerBank, r.Geometry.Passes)
		tubes += r.Geometry.Passes
	}
	assert.Equal(t, 32, tubes)
	assert.InEpsilon(t, 32*tpl.MassFlow, res.Equivalent.MassFlow, 1e-12)
	assert.Equal(t, floats.Sum(column(res.Circuits, func(r *model.Result) float64 { return r.Q })), res.Equivalent.Q)
	assert.Greater(t, res.Equivalent.Q, 0.0)
	assert.Less(t, res.Equivalent.Secondary.Tout, res.Equivalent.Secondary.Tin)

	// circuits with fewer tubes carry more flow per tube and evaporate less
	assert.Less(t, res.Circuits[0].Outlet.X, res.Circuits[4].Outlet.X)
}

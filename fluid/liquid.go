package fluid

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/interp"
)

// LiquidRow is one line of an incompressible liquid table.
type LiquidRow struct {
	T   float64 // K
	Rho float64 // kg/m^3
	Cp  float64 // J/kg-K
	Mu  float64 // Pa-s
	K   float64 // W/m-K
}

// Liquid is an incompressible single-phase fluid. Pressure only has to be
// positive; quality queries are rejected.
type Liquid struct {
	tMin, tMax float64

	rho, cp, mu, k interp.PiecewiseLinear
	h, s           interp.PiecewiseLinear
}

// NewLiquid fits the table. Enthalpy and entropy are integrated from the
// specific heat and are zero at the first row.
func NewLiquid(rows []LiquidRow) (*Liquid, error) {
	n := len(rows)
	if n < 2 {
		return nil, fmt.Errorf("liquid table needs at least 2 rows, got %d", n)
	}
	ts := make([]float64, n)
	rho := make([]float64, n)
	cp := make([]float64, n)
	mu := make([]float64, n)
	k := make([]float64, n)
	h := make([]float64, n)
	s := make([]float64, n)
	for i, r := range rows {
		ts[i], rho[i], cp[i], mu[i], k[i] = r.T, r.Rho, r.Cp, r.Mu, r.K
		if i > 0 {
			cpm := (r.Cp + rows[i-1].Cp) / 2
			h[i] = h[i-1] + cpm*(r.T-rows[i-1].T)
			s[i] = s[i-1] + cpm*math.Log(r.T/rows[i-1].T)
		}
	}
	l := &Liquid{tMin: ts[0], tMax: ts[n-1]}
	for _, f := range []struct {
		pl *interp.PiecewiseLinear
		ys []float64
	}{{&l.rho, rho}, {&l.cp, cp}, {&l.mu, mu}, {&l.k, k}, {&l.h, h}, {&l.s, s}} {
		if err := f.pl.Fit(ts, f.ys); err != nil {
			return nil, fmt.Errorf("fitting liquid table: %w", err)
		}
	}
	return l, nil
}

func mustLiquid(rows []LiquidRow) *Liquid {
	l, err := NewLiquid(rows)
	if err != nil {
		panic(err)
	}
	return l
}

func (l *Liquid) State(in1 Param, v1 float64, in2 Param, v2 float64) (State, error) {
	in1, v1, in2, v2 = order(in1, v1, in2, v2)
	if in1 != Temperature || in2 != Pressure {
		return State{}, fmt.Errorf("%w: liquid supports (T, P) inputs only, got (%v, %v)", ErrPropertyEvaluation, in1, in2)
	}
	t, p := v1, v2
	if math.IsNaN(t) || t < l.tMin || t > l.tMax {
		return State{}, fmt.Errorf("%w: temperature %g K outside [%g, %g]", ErrPropertyEvaluation, t, l.tMin, l.tMax)
	}
	if math.IsNaN(p) || p <= 0 {
		return State{}, fmt.Errorf("%w: pressure %g Pa must be positive", ErrPropertyEvaluation, p)
	}
	return State{
		T: t, P: p, Q: -1,
		H: l.h.Predict(t),
		S: l.s.Predict(t),
		D: l.rho.Predict(t),
		C: l.cp.Predict(t),
		V: l.mu.Predict(t),
		L: l.k.Predict(t),
	}, nil
}

package fluid

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/interp"
)

// SaturationRow is one line of a refrigerant saturation table, evaluated
// at the bubble temperature T.
type SaturationRow struct {
	T, P       float64 // K, Pa
	RhoL, RhoV float64 // kg/m^3
	HL, HV     float64 // J/kg
	CpL, CpV   float64 // J/kg-K
	MuL, MuV   float64 // Pa-s
	KL, KV     float64 // W/m-K
}

// Refrigerant is a two-phase fluid described by its saturation table.
// Subcooled liquid is evaluated on the liquid saturation line at the same
// temperature; superheated vapor is extrapolated from the dew point at
// constant specific heat with ideal-gas density scaling.
type Refrigerant struct {
	glide      float64 // dew minus bubble temperature at fixed pressure, K
	tMin, tMax float64
	pMin, pMax float64

	bubbleT interp.PiecewiseLinear // T(ln P)
	lnP     interp.PiecewiseLinear // ln P(T)

	rhoL, rhoV interp.PiecewiseLinear
	hL, hV     interp.PiecewiseLinear
	sL         interp.PiecewiseLinear
	cpL, cpV   interp.PiecewiseLinear
	muL, muV   interp.PiecewiseLinear
	kL, kV     interp.PiecewiseLinear
}

// maxSuperheat bounds the vapor extrapolation above the dew point.
const maxSuperheat = 150.0

// NewRefrigerant fits the saturation table. Rows must be sorted by strictly
// increasing temperature and pressure.
func NewRefrigerant(rows []SaturationRow, glide float64) (*Refrigerant, error) {
	n := len(rows)
	if n < 2 {
		return nil, fmt.Errorf("saturation table needs at least 2 rows, got %d", n)
	}
	col := func(f func(r SaturationRow) float64) []float64 {
		out := make([]float64, n)
		for i, r := range rows {
			out[i] = f(r)
		}
		return out
	}
	ts := col(func(r SaturationRow) float64 { return r.T })
	lnps := col(func(r SaturationRow) float64 { return math.Log(r.P) })

	// Liquid entropy from ds = dh/T along the bubble line, referenced to
	// 1000 J/kg-K at 273.15 K.
	sl := make([]float64, n)
	for i := 1; i < n; i++ {
		tm := (rows[i].T + rows[i-1].T) / 2
		sl[i] = sl[i-1] + (rows[i].HL-rows[i-1].HL)/tm
	}

	ref := &Refrigerant{
		glide: glide,
		tMin:  ts[0],
		tMax:  ts[n-1],
		pMin:  rows[0].P,
		pMax:  rows[n-1].P,
	}
	fits := []struct {
		pl *interp.PiecewiseLinear
		xs []float64
		ys []float64
	}{
		{&ref.bubbleT, lnps, ts},
		{&ref.lnP, ts, lnps},
		{&ref.rhoL, ts, col(func(r SaturationRow) float64 { return r.RhoL })},
		{&ref.rhoV, ts, col(func(r SaturationRow) float64 { return r.RhoV })},
		{&ref.hL, ts, col(func(r SaturationRow) float64 { return r.HL })},
		{&ref.hV, ts, col(func(r SaturationRow) float64 { return r.HV })},
		{&ref.sL, ts, sl},
		{&ref.cpL, ts, col(func(r SaturationRow) float64 { return r.CpL })},
		{&ref.cpV, ts, col(func(r SaturationRow) float64 { return r.CpV })},
		{&ref.muL, ts, col(func(r SaturationRow) float64 { return r.MuL })},
		{&ref.muV, ts, col(func(r SaturationRow) float64 { return r.MuV })},
		{&ref.kL, ts, col(func(r SaturationRow) float64 { return r.KL })},
		{&ref.kV, ts, col(func(r SaturationRow) float64 { return r.KV })},
	}
	for _, f := range fits {
		if err := f.pl.Fit(f.xs, f.ys); err != nil {
			return nil, fmt.Errorf("fitting saturation table: %w", err)
		}
	}

	offset := 1000.0 - ref.sL.Predict(273.15)
	for i := range sl {
		sl[i] += offset
	}
	if err := ref.sL.Fit(ts, sl); err != nil {
		return nil, fmt.Errorf("fitting saturation table: %w", err)
	}
	return ref, nil
}

func mustRefrigerant(rows []SaturationRow, glide float64) *Refrigerant {
	r, err := NewRefrigerant(rows, glide)
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Refrigerant) State(in1 Param, v1 float64, in2 Param, v2 float64) (State, error) {
	in1, v1, in2, v2 = order(in1, v1, in2, v2)
	switch {
	case in1 == Temperature && in2 == Pressure:
		return r.fromTP(v1, v2)
	case in1 == Temperature && in2 == Quality:
		if err := checkQuality(v2); err != nil {
			return State{}, err
		}
		return r.saturated(v1-v2*r.glide, v2)
	case in1 == Pressure && in2 == Quality:
		if err := checkQuality(v2); err != nil {
			return State{}, err
		}
		tb, err := r.bubble(v1)
		if err != nil {
			return State{}, err
		}
		return r.saturated(tb, v2)
	}
	return State{}, fmt.Errorf("%w: unsupported inputs (%v, %v)", ErrPropertyEvaluation, in1, in2)
}

func checkQuality(x float64) error {
	if math.IsNaN(x) || x < 0 || x > 1 {
		return fmt.Errorf("%w: quality %g outside [0, 1]", ErrPropertyEvaluation, x)
	}
	return nil
}

// bubble returns the bubble temperature at pressure p.
func (r *Refrigerant) bubble(p float64) (float64, error) {
	if math.IsNaN(p) || p < r.pMin || p > r.pMax {
		return 0, fmt.Errorf("%w: pressure %g Pa outside [%g, %g]", ErrPropertyEvaluation, p, r.pMin, r.pMax)
	}
	return r.bubbleT.Predict(math.Log(p)), nil
}

func (r *Refrigerant) checkT(t float64) error {
	if math.IsNaN(t) || t < r.tMin || t > r.tMax {
		return fmt.Errorf("%w: saturation temperature %g K outside [%g, %g]", ErrPropertyEvaluation, t, r.tMin, r.tMax)
	}
	return nil
}

// saturated evaluates the two-phase point at bubble temperature tb.
func (r *Refrigerant) saturated(tb, x float64) (State, error) {
	if err := r.checkT(tb); err != nil {
		return State{}, err
	}
	td := tb + r.glide
	hl, hv := r.hL.Predict(tb), r.hV.Predict(tb)
	sl := r.sL.Predict(tb)
	sv := sl + (hv-hl)/((tb+td)/2)
	rl, rv := r.rhoL.Predict(tb), r.rhoV.Predict(tb)
	return State{
		T: tb + x*r.glide,
		P: math.Exp(r.lnP.Predict(tb)),
		Q: x,
		H: hl + x*(hv-hl),
		S: sl + x*(sv-sl),
		D: 1 / (x/rv + (1-x)/rl),
		C: blend(x, r.cpL.Predict(tb), r.cpV.Predict(tb)),
		V: blend(x, r.muL.Predict(tb), r.muV.Predict(tb)),
		L: blend(x, r.kL.Predict(tb), r.kV.Predict(tb)),
	}, nil
}

func blend(x, liquid, vapor float64) float64 {
	return x*vapor + (1-x)*liquid
}

// fromTP evaluates a single-phase point. A temperature equal to the dew
// temperature resolves to saturated vapor.
func (r *Refrigerant) fromTP(t, p float64) (State, error) {
	tb, err := r.bubble(p)
	if err != nil {
		return State{}, err
	}
	td := tb + r.glide
	hl, hv := r.hL.Predict(tb), r.hV.Predict(tb)
	hfg := hv - hl

	switch {
	case t < tb:
		if math.IsNaN(t) || t < r.tMin {
			return State{}, fmt.Errorf("%w: liquid temperature %g K below %g", ErrPropertyEvaluation, t, r.tMin)
		}
		h := r.hL.Predict(t)
		return State{
			T: t, P: p, Q: (h - hl) / hfg,
			H: h,
			S: r.sL.Predict(t),
			D: r.rhoL.Predict(t),
			C: r.cpL.Predict(t),
			V: r.muL.Predict(t),
			L: r.kL.Predict(t),
		}, nil
	case t >= td:
		if t > td+maxSuperheat {
			return State{}, fmt.Errorf("%w: superheat %g K exceeds %g", ErrPropertyEvaluation, t-td, maxSuperheat)
		}
		sat, err := r.saturated(tb, 1)
		if err != nil {
			return State{}, err
		}
		cp := sat.C
		h := hv + cp*(t-td)
		tt := math.Min(t, r.tMax)
		return State{
			T: t, P: p, Q: (h - hl) / hfg,
			H: h,
			S: sat.S + cp*math.Log(t/td),
			D: sat.D * td / t,
			C: cp,
			V: r.muV.Predict(tt),
			L: r.kV.Predict(tt),
		}, nil
	}
	return State{}, fmt.Errorf("%w: T=%g K, P=%g Pa lies inside the two-phase glide", ErrPropertyEvaluation, t, p)
}

package circuit

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"hxsim/fluid"
	"hxsim/model"
	"hxsim/numeric"
)

const (
	outletXTol    = 1e-9
	outletMaxIter = 100
)

func column(results []*model.Result, f func(r *model.Result) float64) []float64 {
	out := make([]float64, len(results))
	for i, r := range results {
		out[i] = f(r)
	}
	return out
}

// Aggregate merges circuit results into one equivalent exchanger.
//
// Duty, charge and UA are summed. Pressure drops, heat transfer
// coefficients, zone fractions and the inlet temperature are plain means
// over the circuits even though the circuits carry unequal flows. The
// outlet enthalpy is mixed by refrigerant mass flow and the secondary
// outlet temperature by secondary mass flow; the mixed outlet state is
// evaluated at the inlet pressure plus the mean pressure change.
func Aggregate(p fluid.Provider, results []*model.Result) (*model.Result, error) {
	if len(results) == 0 {
		return nil, fmt.Errorf("%w: no circuit results", ErrConfiguration)
	}
	first := results[0]
	mdot := column(results, func(r *model.Result) float64 { return r.MassFlow })
	mdotG := column(results, func(r *model.Result) float64 { return r.Secondary.MassFlow })
	sum := func(f func(r *model.Result) float64) float64 { return floats.Sum(column(results, f)) }
	mean := func(f func(r *model.Result) float64) float64 { return stat.Mean(column(results, f), nil) }
	byMass := func(f func(r *model.Result) float64) float64 { return stat.Mean(column(results, f), mdot) }

	eq := &model.Result{
		Geometry:    first.Geometry,
		Refrigerant: first.Refrigerant,
		MassFlow:    floats.Sum(mdot),
		TBubble:     first.TBubble,
		TDew:        first.TDew,
	}
	eq.Geometry.Passes = int(sum(func(r *model.Result) float64 { return float64(r.Geometry.Passes) }))

	for k := range eq.Zones {
		zone := func(f func(z *model.Zone) float64) func(r *model.Result) float64 {
			return func(r *model.Result) float64 { return f(&r.Zones[k]) }
		}
		eq.Zones[k] = model.Zone{
			Kind:   model.ZoneKind(k),
			W:      mean(zone(func(z *model.Zone) float64 { return z.W })),
			Q:      sum(zone(func(z *model.Zone) float64 { return z.Q })),
			DP:     mean(zone(func(z *model.Zone) float64 { return z.DP })),
			Charge: sum(zone(func(z *model.Zone) float64 { return z.Charge })),
			HTC:    mean(zone(func(z *model.Zone) float64 { return z.HTC })),
			UA:     sum(zone(func(z *model.Zone) float64 { return z.UA })),
			Re:     mean(zone(func(z *model.Zone) float64 { return z.Re })),
		}
	}

	eq.Q = sum(func(r *model.Result) float64 { return r.Q })
	eq.Charge = sum(func(r *model.Result) float64 { return r.Charge })
	eq.UA = sum(func(r *model.Result) float64 { return r.UA })
	eq.DP = mean(func(r *model.Result) float64 { return r.DP })

	eq.Inlet = model.State{
		T: mean(func(r *model.Result) float64 { return r.Inlet.T }),
		P: first.Inlet.P,
		H: byMass(func(r *model.Result) float64 { return r.Inlet.H }),
		S: byMass(func(r *model.Result) float64 { return r.Inlet.S }),
		X: byMass(func(r *model.Result) float64 { return r.Inlet.X }),
	}

	eq.Secondary = model.Secondary{
		Fluid:    first.Secondary.Fluid,
		MassFlow: floats.Sum(mdotG),
		P:        first.Secondary.P,
		Tin:      first.Secondary.Tin,
		Tout:     stat.Mean(column(results, func(r *model.Result) float64 { return r.Secondary.Tout }), mdotG),
		HTC:      mean(func(r *model.Result) float64 { return r.Secondary.HTC }),
		Re:       mean(func(r *model.Result) float64 { return r.Secondary.Re }),
		DP:       mean(func(r *model.Result) float64 { return r.Secondary.DP }),
		Cp:       stat.Mean(column(results, func(r *model.Result) float64 { return r.Secondary.Cp }), mdotG),
	}

	hout := byMass(func(r *model.Result) float64 { return r.Outlet.H })
	out, err := mixedOutlet(p, results, eq.Refrigerant, eq.Inlet.P+eq.DP, hout)
	if err != nil {
		return nil, fmt.Errorf("mixed outlet state: %w", err)
	}
	eq.Outlet = out
	return eq, nil
}

// mixedOutlet resolves the state of enthalpy h at pressure p.
func mixedOutlet(props fluid.Provider, results []*model.Result, ref string, p, h float64) (model.State, error) {
	hl, err := props.Props(fluid.Enthalpy, fluid.Pressure, p, fluid.Quality, 0, ref)
	if err != nil {
		return model.State{}, err
	}
	hv, err := props.Props(fluid.Enthalpy, fluid.Pressure, p, fluid.Quality, 1, ref)
	if err != nil {
		return model.State{}, err
	}
	x := (h - hl) / (hv - hl)
	enthalpy := func(t float64) (float64, error) {
		return props.Props(fluid.Enthalpy, fluid.Temperature, t, fluid.Pressure, p, ref)
	}

	var t float64
	switch {
	case x > 1:
		td, err := props.Props(fluid.Temperature, fluid.Pressure, p, fluid.Quality, 1, ref)
		if err != nil {
			return model.State{}, err
		}
		cp, err := props.Props(fluid.SpecificHeat, fluid.Pressure, p, fluid.Quality, 1, ref)
		if err != nil {
			return model.State{}, err
		}
		hi := td + math.Min(2*(h-hv)/cp+1, 150)
		if t, _, err = numeric.Invert(enthalpy, h, td, hi, outletXTol, outletMaxIter); err != nil {
			return model.State{}, err
		}
	case x < 0:
		// the leanest circuit is liquid and bounds the mixture from below
		lo := results[0]
		for _, r := range results[1:] {
			if r.Outlet.H < lo.Outlet.H {
				lo = r
			}
		}
		tb, err := props.Props(fluid.Temperature, fluid.Pressure, p, fluid.Quality, 0, ref)
		if err != nil {
			return model.State{}, err
		}
		if t, _, err = numeric.Invert(enthalpy, h, lo.Outlet.T, tb-1e-9, outletXTol, outletMaxIter); err != nil {
			return model.State{}, err
		}
	default:
		if t, err = props.Props(fluid.Temperature, fluid.Pressure, p, fluid.Quality, x, ref); err != nil {
			return model.State{}, err
		}
		s, err := props.Props(fluid.Entropy, fluid.Pressure, p, fluid.Quality, x, ref)
		if err != nil {
			return model.State{}, err
		}
		return model.State{T: t, P: p, H: h, S: s, X: x}, nil
	}

	s, err := props.Props(fluid.Entropy, fluid.Temperature, t, fluid.Pressure, p, ref)
	if err != nil {
		return model.State{}, err
	}
	return model.State{T: t, P: p, H: h, S: s, X: x}, nil
}

package circuit

import (
	"fmt"
	"math"

	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"

	"hxsim/fluid"
)

// 分配系数之和与 1 的允许偏差
var coeffTolerance = 100 * (math.Nextafter(1, 2) - 1)

// checkCoeffs validates a distribution coefficient vector for n circuits.
func checkCoeffs(name string, coeffs []float64, n int) error {
	if len(coeffs) != n {
		return fmt.Errorf("%w: %s coefficients have %d entries, want %d circuits",
			ErrConfiguration, name, len(coeffs), n)
	}
	for i, c := range coeffs {
		if math.IsNaN(c) || c < 0 {
			return fmt.Errorf("%w: %s coefficient %d is %g", ErrConfiguration, name, i, c)
		}
	}
	if sum := floats.Sum(coeffs); math.Abs(sum-1) >= coeffTolerance {
		return fmt.Errorf("%w: %s coefficients sum to %.17g, want 1", ErrConfiguration, name, sum)
	}
	return nil
}

// Distribute resolves per-circuit flows. flows of length n is taken as is;
// a single entry (or fallback when flows is empty) is the total, split by
// coeffs when given and evenly otherwise.
func Distribute(name string, flows, coeffs []float64, fallback float64, n int) ([]float64, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: %d circuits", ErrConfiguration, n)
	}
	out := make([]float64, n)
	switch {
	case len(flows) == n && n > 1:
		if len(coeffs) > 0 {
			log.WithFields(log.Fields{"flow": name}).Warn("per-circuit flows given, coefficients ignored")
		}
		copy(out, flows)
	case len(flows) <= 1:
		total := fallback
		if len(flows) == 1 {
			total = flows[0]
		}
		if len(coeffs) > 0 {
			if err := checkCoeffs(name, coeffs, n); err != nil {
				return nil, err
			}
			floats.ScaleTo(out, total, coeffs)
		} else {
			for i := range out {
				out[i] = total / float64(n)
			}
		}
	default:
		return nil, fmt.Errorf("%w: %s vector has %d entries, want 1 or %d",
			ErrConfiguration, name, len(flows), n)
	}

	for i, f := range out {
		if !(f > 0) {
			return nil, fmt.Errorf("%w: %s of circuit %d is %g", ErrConfiguration, name, i, f)
		}
	}
	return out, nil
}

// InletEnthalpies spreads the vapor entering the distributor over the
// circuits. The template inlet quality fixes the total vapor flow; circuit
// i carries coeffs[i] of it within its mass flow mdot[i]. Without
// coefficients every circuit keeps the template enthalpy.
func InletEnthalpies(p fluid.Provider, ref string, pin, hin float64, mdot, coeffs []float64) ([]float64, error) {
	n := len(mdot)
	out := make([]float64, n)
	if len(coeffs) == 0 {
		for i := range out {
			out[i] = hin
		}
		return out, nil
	}
	if err := checkCoeffs("vapor flow", coeffs, n); err != nil {
		return nil, err
	}

	hl, err := p.Props(fluid.Enthalpy, fluid.Pressure, pin, fluid.Quality, 0, ref)
	if err != nil {
		return nil, err
	}
	hv, err := p.Props(fluid.Enthalpy, fluid.Pressure, pin, fluid.Quality, 1, ref)
	if err != nil {
		return nil, err
	}
	mv := (hin - hl) / (hv - hl) * floats.Sum(mdot)
	for i := range out {
		x := coeffs[i] * mv / mdot[i]
		if math.IsNaN(x) || x < 0 || x > 1 {
			return nil, fmt.Errorf("%w: vapor share gives circuit %d an inlet quality of %g",
				ErrConfiguration, i, x)
		}
		if out[i], err = p.Props(fluid.Enthalpy, fluid.Pressure, pin, fluid.Quality, x, ref); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// PartitionTubes divides total tubes per bank over n circuits as evenly as
// possible. The first circuits take the smaller share. A zero total leaves
// every circuit unassigned.
func PartitionTubes(total, n int) ([]int, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: %d circuits", ErrConfiguration, n)
	}
	out := make([]int, n)
	if total == 0 {
		return out, nil
	}
	if total < n {
		return nil, fmt.Errorf("%w: %d tubes per bank cannot feed %d circuits", ErrConfiguration, total, n)
	}

	lo := total / n
	hi := lo
	if total%n != 0 {
		hi++
	}
	// total = a*lo + (n-a)*hi
	a := n
	if lo != hi {
		a = (total - n*hi) / (lo - hi)
	}
	for i := range out {
		if i < a {
			out[i] = lo
		} else {
			out[i] = hi
		}
	}
	return out, nil
}

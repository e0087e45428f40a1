// Package numeric holds the bracketed scalar root finder shared by the
// solvers.
package numeric

import (
	"errors"
	"fmt"
	"math"
)

// ErrConvergence is returned when a bracket does not enclose a sign change
// or the iteration budget runs out.
var ErrConvergence = errors.New("root finding did not converge")

// rtol is the relative part of the stopping tolerance.
const rtol = 4 * 2.220446049250313e-16

// Func is a residual. An error aborts the search and is returned as is.
type Func func(x float64) (float64, error)

// Brent finds a zero of f in [a, b] using Brent's method: inverse quadratic
// interpolation or secant steps, falling back to bisection whenever the
// interpolated step leaves the bracket or converges too slowly.
//
// f(a) and f(b) must have opposite signs. The returned count is the number
// of iterations performed.
func Brent(f Func, a, b, xtol float64, maxIter int) (float64, int, error) {
	if maxIter <= 0 {
		return 0, 0, fmt.Errorf("%w: iteration budget %d", ErrConvergence, maxIter)
	}
	xpre, xcur := a, b
	fpre, err := f(xpre)
	if err != nil {
		return 0, 0, err
	}
	fcur, err := f(xcur)
	if err != nil {
		return 0, 0, err
	}
	if math.IsNaN(fpre) || math.IsNaN(fcur) {
		return 0, 0, fmt.Errorf("%w: residual is NaN at the bracket ends", ErrConvergence)
	}
	if fpre == 0 {
		return xpre, 0, nil
	}
	if fcur == 0 {
		return xcur, 0, nil
	}
	if math.Signbit(fpre) == math.Signbit(fcur) {
		return 0, 0, fmt.Errorf("%w: f(%g)=%g and f(%g)=%g do not bracket a root",
			ErrConvergence, xpre, fpre, xcur, fcur)
	}

	var xblk, fblk, spre, scur float64
	for i := 1; i <= maxIter; i++ {
		if fpre != 0 && fcur != 0 && math.Signbit(fpre) != math.Signbit(fcur) {
			xblk, fblk = xpre, fpre
			spre = xcur - xpre
			scur = spre
		}
		if math.Abs(fblk) < math.Abs(fcur) {
			xpre, xcur, xblk = xcur, xblk, xcur
			fpre, fcur, fblk = fcur, fblk, fcur
		}

		delta := (xtol + rtol*math.Abs(xcur)) / 2
		sbis := (xblk - xcur) / 2
		if fcur == 0 || math.Abs(sbis) < delta {
			return xcur, i, nil
		}

		if math.Abs(spre) > delta && math.Abs(fcur) < math.Abs(fpre) {
			var stry float64
			if xpre == xblk {
				// secant
				stry = -fcur * (xcur - xpre) / (fcur - fpre)
			} else {
				// inverse quadratic
				dpre := (fpre - fcur) / (xpre - xcur)
				dblk := (fblk - fcur) / (xblk - xcur)
				stry = -fcur * (fblk*dblk - fpre*dpre) / (dblk * dpre * (fblk - fpre))
			}
			if 2*math.Abs(stry) < math.Min(math.Abs(spre), 3*math.Abs(sbis)-delta) {
				spre, scur = scur, stry
			} else {
				spre, scur = sbis, sbis
			}
		} else {
			spre, scur = sbis, sbis
		}

		xpre, fpre = xcur, fcur
		switch {
		case math.Abs(scur) > delta:
			xcur += scur
		case sbis > 0:
			xcur += delta
		default:
			xcur -= delta
		}
		fcur, err = f(xcur)
		if err != nil {
			return 0, i, err
		}
		if math.IsNaN(fcur) {
			return 0, i, fmt.Errorf("%w: residual is NaN at x=%g", ErrConvergence, xcur)
		}
	}
	return xcur, maxIter, fmt.Errorf("%w: no convergence in [%g, %g] after %d iterations", ErrConvergence, a, b, maxIter)
}

// Invert solves f(x) = target for x in [lo, hi].
func Invert(f Func, target, lo, hi, xtol float64, maxIter int) (float64, int, error) {
	return Brent(func(x float64) (float64, error) {
		y, err := f(x)
		if err != nil {
			return 0, err
		}
		return y - target, nil
	}, lo, hi, xtol, maxIter)
}

// Package correlation holds the friction and heat-transfer correlations used
// by the exchanger solvers. Every function is pure; fluid properties come
// from a fluid.Provider.
package correlation

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/interp"

	"hxsim/fluid"
)

// laminar/turbulent switch for internal flow
const reCritical = 2300.0

// SinglePhase is the result of a single-phase internal-flow correlation.
type SinglePhase struct {
	F  float64 // Darcy friction factor
	H  float64 // heat transfer coefficient, W/m^2-K
	Re float64
}

type transport struct {
	mu, cp, k float64
}

func transportAt(p fluid.Provider, name string, t, pr float64) (transport, error) {
	var tr transport
	var err error
	if tr.mu, err = p.Props(fluid.Viscosity, fluid.Temperature, t, fluid.Pressure, pr, name); err != nil {
		return tr, err
	}
	if tr.cp, err = p.Props(fluid.SpecificHeat, fluid.Temperature, t, fluid.Pressure, pr, name); err != nil {
		return tr, err
	}
	if tr.k, err = p.Props(fluid.Conductivity, fluid.Temperature, t, fluid.Pressure, pr, name); err != nil {
		return tr, err
	}
	return tr, nil
}

func (tr transport) prandtl() float64 {
	return tr.cp * tr.mu / tr.k
}

// Tube evaluates fully developed flow of mdot through a round tube of inner
// diameter id at temperature t and pressure pr.
func Tube(p fluid.Provider, name string, mdot, id, t, pr float64) (SinglePhase, error) {
	if mdot <= 0 || id <= 0 {
		return SinglePhase{}, fmt.Errorf("%w: tube correlation: mass flow %g and diameter %g must be positive", fluid.ErrPropertyEvaluation, mdot, id)
	}
	tr, err := transportAt(p, name, t, pr)
	if err != nil {
		return SinglePhase{}, err
	}
	g := mdot / (math.Pi * id * id / 4)
	re := g * id / tr.mu
	f := Churchill(re)
	nu := gnielinski(re, tr.prandtl(), f, 3.66)
	return SinglePhase{F: f, H: nu * tr.k / id, Re: re}, nil
}

// Laminar Nusselt number on the inner wall of an annulus with the outer wall
// insulated, by inner/outer diameter ratio.
var annulusRatio = []float64{0.05, 0.10, 0.25, 0.50, 1.00}
var annulusNu = []float64{17.46, 11.56, 7.37, 5.74, 4.86}

var annulusLaminar = func() *interp.PiecewiseLinear {
	var pl interp.PiecewiseLinear
	if err := pl.Fit(annulusRatio, annulusNu); err != nil {
		panic(err)
	}
	return &pl
}()

// Annulus evaluates flow of mdot through the gap between a tube of outer
// diameter innerOD and a shell of inner diameter outerID. Correlations are
// applied on the hydraulic diameter outerID-innerOD; the coefficient refers
// to the inner wall.
func Annulus(p fluid.Provider, name string, mdot, outerID, innerOD, t, pr float64) (SinglePhase, error) {
	if mdot <= 0 || innerOD <= 0 || outerID <= innerOD {
		return SinglePhase{}, fmt.Errorf("%w: annulus correlation: invalid flow %g or diameters %g/%g", fluid.ErrPropertyEvaluation, mdot, outerID, innerOD)
	}
	tr, err := transportAt(p, name, t, pr)
	if err != nil {
		return SinglePhase{}, err
	}
	dh := outerID - innerOD
	g := mdot / (math.Pi * (outerID*outerID - innerOD*innerOD) / 4)
	re := g * dh / tr.mu
	f := Churchill(re)
	ratio := math.Min(math.Max(innerOD/outerID, annulusRatio[0]), 1)
	nu := gnielinski(re, tr.prandtl(), f, annulusLaminar.Predict(ratio))
	return SinglePhase{F: f, H: nu * tr.k / dh, Re: re}, nil
}

// Churchill returns the Darcy friction factor of a smooth pipe, valid over
// laminar, transitional and turbulent flow.
func Churchill(re float64) float64 {
	a := math.Pow(2.457*math.Log(1/math.Pow(7/re, 0.9)), 16)
	b := math.Pow(37530/re, 16)
	return 8 * math.Pow(math.Pow(8/re, 12)+1/math.Pow(a+b, 1.5), 1.0/12)
}

// gnielinski returns the turbulent Nusselt number, never below the laminar
// value nuLam.
func gnielinski(re, pr, f, nuLam float64) float64 {
	if re < reCritical {
		return nuLam
	}
	nu := (f / 8) * (re - 1000) * pr / (1 + 12.7*math.Sqrt(f/8)*(math.Pow(pr, 2.0/3)-1))
	return math.Max(nu, nuLam)
}

package correlation

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/integrate"

	"hxsim/fluid"
)

const gravity = 9.81

// samples used for quality averages; odd for Simpson's rule
const samples = 21

// qualities closer than this are treated as a single point
const minSpan = 1e-9

// SlipModel selects the void-fraction model of the two-phase density.
type SlipModel int

const (
	Zivi SlipModel = iota
	Homogeneous
)

func (m SlipModel) String() string {
	switch m {
	case Zivi:
		return "Zivi"
	case Homogeneous:
		return "Homogeneous"
	}
	return fmt.Sprintf("SlipModel(%d)", int(m))
}

// ParseSlipModel is case-insensitive.
func ParseSlipModel(s string) (SlipModel, error) {
	switch strings.ToLower(s) {
	case "zivi":
		return Zivi, nil
	case "homogeneous":
		return Homogeneous, nil
	}
	return 0, fmt.Errorf("unknown slip model %q", s)
}

// Saturation holds the saturated liquid and vapor properties needed by the
// two-phase correlations. Liquid values are taken at the bubble point and
// vapor values at the dew point.
type Saturation struct {
	RhoL, RhoV float64
	MuL, MuV   float64
	KL, CpL    float64
	HL, HV     float64
}

// NewSaturation reads the saturation properties of name.
func NewSaturation(p fluid.Provider, name string, tbubble, tdew float64) (Saturation, error) {
	var s Saturation
	liquid := []struct {
		out fluid.Param
		dst *float64
	}{
		{fluid.Density, &s.RhoL},
		{fluid.Viscosity, &s.MuL},
		{fluid.Conductivity, &s.KL},
		{fluid.SpecificHeat, &s.CpL},
		{fluid.Enthalpy, &s.HL},
	}
	for _, q := range liquid {
		v, err := p.Props(q.out, fluid.Temperature, tbubble, fluid.Quality, 0, name)
		if err != nil {
			return s, err
		}
		*q.dst = v
	}
	vapor := []struct {
		out fluid.Param
		dst *float64
	}{
		{fluid.Density, &s.RhoV},
		{fluid.Viscosity, &s.MuV},
		{fluid.Enthalpy, &s.HV},
	}
	for _, q := range vapor {
		v, err := p.Props(q.out, fluid.Temperature, tdew, fluid.Quality, 1, name)
		if err != nil {
			return s, err
		}
		*q.dst = v
	}
	return s, nil
}

// Latent heat of vaporization, J/kg.
func (s Saturation) Latent() float64 {
	return s.HV - s.HL
}

// average returns the mean of f over [xmin, xmax]. A degenerate range
// returns f(xmin).
func average(f func(x float64) float64, xmin, xmax float64) float64 {
	if math.Abs(xmax-xmin) < minSpan {
		return f(xmin)
	}
	lo, hi := math.Min(xmin, xmax), math.Max(xmin, xmax)
	xs := make([]float64, samples)
	ys := make([]float64, samples)
	for i := range xs {
		xs[i] = lo + (hi-lo)*float64(i)/float64(samples-1)
		ys[i] = f(xs[i])
	}
	return integrate.Simpsons(xs, ys) / (hi - lo)
}

// ShahLocal is the Shah (1982) flow-boiling coefficient at quality x for
// mass flux g, diameter d and heat flux q.
func ShahLocal(s Saturation, x, g, d, q float64) float64 {
	x = math.Min(math.Max(x, 1e-3), 0.999)
	q = math.Abs(q)

	prL := s.CpL * s.MuL / s.KL
	hL := 0.023 * math.Pow(g*(1-x)*d/s.MuL, 0.8) * math.Pow(prL, 0.4) * s.KL / d

	bo := q / (g * s.Latent())
	co := math.Pow(1/x-1, 0.8) * math.Sqrt(s.RhoV/s.RhoL)
	fr := g * g / (s.RhoL * s.RhoL * gravity * d)

	n := co
	if fr < 0.04 {
		n = 0.38 * math.Pow(fr, -0.3) * co
	}
	f := 15.43
	if bo >= 11e-4 {
		f = 14.7
	}

	psiCB := 1.8 / math.Pow(n, 0.8)
	var psi float64
	if n > 1 {
		psiNB := 1 + 46*math.Sqrt(bo)
		if bo > 0.3e-4 {
			psiNB = 230 * math.Sqrt(bo)
		}
		psi = math.Max(psiNB, psiCB)
	} else {
		psiBS := f * math.Sqrt(bo) * math.Exp(2.47*math.Pow(n, -0.15))
		if n > 0.1 {
			psiBS = f * math.Sqrt(bo) * math.Exp(2.74*math.Pow(n, -0.1))
		}
		psi = math.Max(psiBS, psiCB)
	}
	return psi * hL
}

// ShahAverage is the mean Shah coefficient over [xmin, xmax].
func ShahAverage(s Saturation, xmin, xmax, g, d, q float64) float64 {
	return average(func(x float64) float64 {
		return ShahLocal(s, x, g, d, q)
	}, xmin, xmax)
}

func (s Saturation) slip(m SlipModel) float64 {
	if m == Zivi {
		return math.Cbrt(s.RhoL / s.RhoV)
	}
	return 1
}

// VoidFraction is the vapor area fraction at quality x.
func VoidFraction(s Saturation, x float64, m SlipModel) float64 {
	switch {
	case x <= 0:
		return 0
	case x >= 1:
		return 1
	}
	return 1 / (1 + (1-x)/x*s.RhoV/s.RhoL*s.slip(m))
}

// TwoPhaseDensity is the mean in-situ density over [xmin, xmax].
func TwoPhaseDensity(s Saturation, xmin, xmax float64, m SlipModel) float64 {
	return average(func(x float64) float64 {
		a := VoidFraction(s, x, m)
		return a*s.RhoV + (1-a)*s.RhoL
	}, xmin, xmax)
}

// fanning returns the Fanning friction factor and whether the phase flows
// in the viscous regime.
func fanning(re float64) (float64, bool) {
	if re < 1000 {
		return 16 / re, true
	}
	return 0.046 * math.Pow(re, -0.2), false
}

// LockhartMartinelli is the local frictional pressure gradient, Pa/m, with
// the sign of a pressure change along the flow (negative).
func LockhartMartinelli(s Saturation, x, g, d float64) float64 {
	var dpL, dpV float64
	var viscL, viscV bool
	if x < 1 {
		reL := g * (1 - x) * d / s.MuL
		var fL float64
		fL, viscL = fanning(reL)
		dpL = 2 * fL * g * g * (1 - x) * (1 - x) / (d * s.RhoL)
	}
	if x > 0 {
		reV := g * x * d / s.MuV
		var fV float64
		fV, viscV = fanning(reV)
		dpV = 2 * fV * g * g * x * x / (d * s.RhoV)
	}
	var c float64
	switch {
	case !viscL && !viscV:
		c = 20
	case viscL && !viscV:
		c = 12
	case !viscL && viscV:
		c = 10
	default:
		c = 5
	}
	return -(dpL + c*math.Sqrt(dpL*dpV) + dpV)
}

// LockhartMartinelliAverage is the mean frictional gradient over
// [xmin, xmax].
func LockhartMartinelliAverage(s Saturation, xmin, xmax, g, d float64) float64 {
	return average(func(x float64) float64 {
		return LockhartMartinelli(s, x, g, d)
	}, xmin, xmax)
}

// momentum is the specific momentum flux per unit G^2 at quality x.
func momentum(s Saturation, x float64, m SlipModel) float64 {
	a := VoidFraction(s, x, m)
	var out float64
	if x > 0 {
		out += x * x / (s.RhoV * a)
	}
	if x < 1 {
		out += (1 - x) * (1 - x) / (s.RhoL * (1 - a))
	}
	return out
}

// AccelPressureDrop is the pressure change, Pa, caused by the momentum
// change between qualities xin and xout. Evaporation gives a negative value.
func AccelPressureDrop(s Saturation, xin, xout, g float64, m SlipModel) float64 {
	return -g * g * (momentum(s, xout, m) - momentum(s, xin, m))
}

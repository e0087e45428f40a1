// Package fluid evaluates thermodynamic and transport properties of the
// working fluids.
//
// A Provider answers queries of the form Props(output, input1, value1,
// input2, value2, fluid). The built-in Library holds tabulated refrigerants
// (saturation tables) and incompressible liquids. Every Library is
// read-only after construction, so a single instance may be shared by
// concurrently solving circuits.
package fluid

import (
	"errors"
	"fmt"
	"sync"
)

// ErrPropertyEvaluation is returned when a state cannot be resolved: an
// unknown fluid, an unsupported input pair, or a state outside the
// tabulated envelope.
var ErrPropertyEvaluation = errors.New("property evaluation failed")

// Param names a state variable or property.
type Param int

const (
	Temperature  Param = iota // K
	Pressure                  // Pa
	Quality                   // vapor mass fraction
	Enthalpy                  // J/kg
	Entropy                   // J/kg-K
	Density                   // kg/m^3
	SpecificHeat              // J/kg-K, constant pressure
	Viscosity                 // Pa-s
	Conductivity              // W/m-K
)

var paramNames = [...]string{"T", "P", "Q", "H", "S", "D", "C", "V", "L"}

func (p Param) String() string {
	if p < 0 || int(p) >= len(paramNames) {
		return fmt.Sprintf("Param(%d)", int(p))
	}
	return paramNames[p]
}

// Provider is the property service consumed by the solvers.
type Provider interface {
	Props(out Param, in1 Param, v1 float64, in2 Param, v2 float64, name string) (float64, error)
}

// State is a fully evaluated thermodynamic point.
type State struct {
	T, P, Q float64
	H, S, D float64
	C, V, L float64
}

func (s State) get(p Param) (float64, error) {
	switch p {
	case Temperature:
		return s.T, nil
	case Pressure:
		return s.P, nil
	case Quality:
		return s.Q, nil
	case Enthalpy:
		return s.H, nil
	case Entropy:
		return s.S, nil
	case Density:
		return s.D, nil
	case SpecificHeat:
		return s.C, nil
	case Viscosity:
		return s.V, nil
	case Conductivity:
		return s.L, nil
	}
	return 0, fmt.Errorf("%w: unknown output %v", ErrPropertyEvaluation, p)
}

// Substance resolves a state from two independent inputs.
type Substance interface {
	State(in1 Param, v1 float64, in2 Param, v2 float64) (State, error)
}

// Library is a named collection of substances implementing Provider.
type Library struct {
	substances map[string]Substance
}

func NewLibrary() *Library {
	return &Library{substances: make(map[string]Substance)}
}

// Add registers s under name. It is not safe to call Add once the library
// is in use by a solve.
func (l *Library) Add(name string, s Substance) {
	l.substances[name] = s
}

func (l *Library) Props(out Param, in1 Param, v1 float64, in2 Param, v2 float64, name string) (float64, error) {
	s, ok := l.substances[name]
	if !ok {
		return 0, fmt.Errorf("%w: unknown fluid %q", ErrPropertyEvaluation, name)
	}
	st, err := s.State(in1, v1, in2, v2)
	if err != nil {
		return 0, fmt.Errorf("%s(%v=%g, %v=%g) of %s: %w", out, in1, v1, in2, v2, name, err)
	}
	return st.get(out)
}

var (
	defaultOnce sync.Once
	defaultLib  *Library
)

// Default returns the shared built-in library holding R290, R410A and
// Water.
func Default() *Library {
	defaultOnce.Do(func() {
		lib := NewLibrary()
		lib.Add("R290", mustRefrigerant(r290Rows, 0))
		lib.Add("R410A", mustRefrigerant(r410aRows, 0.1))
		lib.Add("Water", mustLiquid(waterRows))
		defaultLib = lib
	})
	return defaultLib
}

// order returns the two inputs sorted so that a (Temperature, Pressure)
// or (x, Quality) pair always comes back in that order.
func order(in1 Param, v1 float64, in2 Param, v2 float64) (Param, float64, Param, float64) {
	if in1 > in2 {
		return in2, v2, in1, v1
	}
	return in1, v1, in2, v2
}

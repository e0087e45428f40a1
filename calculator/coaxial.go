package calculator

import (
	"errors"
	"fmt"
	"math"

	log "github.com/sirupsen/logrus"

	"hxsim/correlation"
	"hxsim/exchanger"
	"hxsim/fluid"
	"hxsim/model"
	"hxsim/numeric"
)

// ErrInput marks flows or pressures that cannot describe a physical
// operating point.
var ErrInput = errors.New("invalid exchanger input")

// RootSolve records one bracketed root search of the last Calculate.
type RootSolve struct {
	Name       string
	Iterations int
}

// Coaxial is the tube-in-tube evaporator: refrigerant evaporates in the
// inner tube, the secondary fluid flows counter-current in the annulus.
//
// The exchanger length splits into up to three zones along the refrigerant
// path: subcooled liquid, two-phase and superheated vapor. Zone boundaries
// are found with Brent's method.
type Coaxial struct {
	cfg   Config
	props fluid.Provider
	c     model.CoaxialCase

	result *model.Result
	solves []RootSolve
}

func NewCoaxial(c model.CoaxialCase, props fluid.Provider, cfg Config) *Coaxial {
	if c.Geometry.Passes == 0 {
		c.Geometry.Passes = 1
	}
	return &Coaxial{cfg: cfg, props: props, c: c}
}

// Case returns a copy of the current inputs.
func (s *Coaxial) Case() model.CoaxialCase {
	return s.c
}

// Update applies the flows, inlet enthalpy and pass count assigned to one
// circuit. A zero TubesPerBank keeps the current pass count.
func (s *Coaxial) Update(a model.Assignment) error {
	s.c.MassFlow = a.MassFlow
	s.c.InletEnthalpy = a.InletEnthalpy
	s.c.SecondaryMassFlow = a.SecondaryFlow
	if a.TubesPerBank > 0 {
		s.c.Geometry.SetPasses(a.TubesPerBank)
	}
	s.result = nil
	log.WithFields(log.Fields{
		"circuit":       a.Index,
		"MassFlow":      a.MassFlow,
		"InletEnthalpy": a.InletEnthalpy,
		"SecondaryFlow": a.SecondaryFlow,
		"TubesPerBank":  a.TubesPerBank,
	}).Debug("circuit assigned")
	return s.validate()
}

func (s *Coaxial) validate() error {
	if err := s.c.Geometry.Validate(); err != nil {
		return err
	}
	if !(s.c.MassFlow > 0) || !(s.c.SecondaryMassFlow > 0) {
		return fmt.Errorf("%w: refrigerant flow %g and secondary flow %g must be positive",
			ErrInput, s.c.MassFlow, s.c.SecondaryMassFlow)
	}
	if !(s.c.InletPressure > 0) || !(s.c.SecondaryPressure > 0) {
		return fmt.Errorf("%w: inlet pressures %g/%g must be positive",
			ErrInput, s.c.InletPressure, s.c.SecondaryPressure)
	}
	return nil
}

// Result is nil until Calculate succeeds.
func (s *Coaxial) Result() *model.Result {
	return s.result
}

func (s *Coaxial) Solves() []RootSolve {
	return s.solves
}

// Calculate solves the zone partition for the current inputs.
func (s *Coaxial) Calculate() error {
	s.result, s.solves = nil, nil
	if err := s.validate(); err != nil {
		return err
	}
	in, err := prepare(s.c, s.props, s.cfg)
	if err != nil {
		return err
	}

	var zones [model.ZoneCount]model.Zone
	var solves []RootSolve
	if in.xin < 0 {
		zones, solves, err = in.threeZone()
	} else {
		var sh, tp model.Zone
		var rs RootSolve
		sh, tp, rs, err = in.twoZone(1, in.xin)
		zones[model.Superheat], zones[model.TwoPhase] = sh, tp
		solves = []RootSolve{rs}
	}
	if err != nil {
		return err
	}
	res, err := in.assemble(zones)
	if err != nil {
		return err
	}
	s.result, s.solves = res, solves

	log.WithFields(log.Fields{
		"Q":           res.Q,
		"w_superheat": zones[model.Superheat].W,
		"w_2phase":    zones[model.TwoPhase].W,
		"w_subcool":   zones[model.Subcool].W,
		"Tout_g":      res.Secondary.Tout,
	}).Debug("coaxial solved")
	return nil
}

// inputs is the read-only state of one solve. Zone models are methods on
// it and return their results by value.
type inputs struct {
	cfg   Config
	props fluid.Provider
	c     model.CoaxialCase
	geo   exchanger.Coaxial

	mdotR, mdotG float64
	pin, hin     float64
	passes       float64

	gR, dhR float64
	aR, aG  float64
	vR      float64

	tBubble, tDew, tSat float64
	sL, sV              float64
	sat                 correlation.Saturation
	xin                 float64
	tinR, sinR          float64

	tinG        float64
	cpG, cG     float64
	hG, reG, fG float64
	dpG         float64
}

func prepare(c model.CoaxialCase, p fluid.Provider, cfg Config) (*inputs, error) {
	geo := c.Geometry
	in := &inputs{
		cfg:    cfg,
		props:  p,
		c:      c,
		geo:    geo,
		mdotR:  c.MassFlow,
		mdotG:  c.SecondaryMassFlow,
		pin:    c.InletPressure,
		hin:    c.InletEnthalpy,
		passes: float64(geo.Passes),
		gR:     c.MassFlow / geo.RefrigerantFlowArea(),
		dhR:    geo.RefrigerantDh(),
		aR:     geo.RefrigerantArea(),
		aG:     geo.SecondaryArea(),
		vR:     geo.RefrigerantVolume(),
		tinG:   c.SecondaryInletT,
	}
	if in.passes <= 0 {
		in.passes = 1
	}
	ref := c.Refrigerant

	var err error
	if in.tBubble, err = p.Props(fluid.Temperature, fluid.Pressure, in.pin, fluid.Quality, 0, ref); err != nil {
		return nil, err
	}
	if in.tDew, err = p.Props(fluid.Temperature, fluid.Pressure, in.pin, fluid.Quality, 1, ref); err != nil {
		return nil, err
	}
	in.tSat = (in.tBubble + in.tDew) / 2
	if in.sat, err = correlation.NewSaturation(p, ref, in.tBubble, in.tDew); err != nil {
		return nil, err
	}
	if in.sL, err = p.Props(fluid.Entropy, fluid.Temperature, in.tBubble, fluid.Quality, 0, ref); err != nil {
		return nil, err
	}
	if in.sV, err = p.Props(fluid.Entropy, fluid.Temperature, in.tDew, fluid.Quality, 1, ref); err != nil {
		return nil, err
	}

	in.xin = (in.hin - in.sat.HL) / in.sat.Latent()
	if in.xin >= 1 {
		return nil, fmt.Errorf("%w: inlet quality %.4f, refrigerant must enter below the dew point",
			fluid.ErrPropertyEvaluation, in.xin)
	}
	if in.xin >= 0 {
		in.tinR = in.xin*in.tDew + (1-in.xin)*in.tBubble
		in.sinR = in.xin*in.sV + (1-in.xin)*in.sL
	} else {
		if in.tinR, err = in.subcooledTemperature(); err != nil {
			return nil, err
		}
		if in.sinR, err = p.Props(fluid.Entropy, fluid.Temperature, in.tinR, fluid.Pressure, in.pin, ref); err != nil {
			return nil, err
		}
	}

	// 载冷剂侧物性取载冷剂进口温度与饱和温度的平均值
	sec := c.Secondary
	tavg := (in.tSat + in.tinG) / 2
	sp, err := correlation.Annulus(p, sec, in.mdotG/in.passes, geo.AnnulusID, geo.TubeOD, tavg, c.SecondaryPressure)
	if err != nil {
		return nil, err
	}
	in.hG, in.reG, in.fG = sp.H, sp.Re, sp.F
	if in.cpG, err = p.Props(fluid.SpecificHeat, fluid.Temperature, tavg, fluid.Pressure, c.SecondaryPressure, sec); err != nil {
		return nil, err
	}
	in.cG = in.cpG * in.mdotG
	rhoG, err := p.Props(fluid.Density, fluid.Temperature, tavg, fluid.Pressure, c.SecondaryPressure, sec)
	if err != nil {
		return nil, err
	}
	gG := in.mdotG / geo.SecondaryFlowArea()
	dpdz := -in.fG / rhoG * gG * gG / (2 * geo.SecondaryDh())
	in.dpG = dpdz * geo.Length
	return in, nil
}

// subcooledTemperature inverts h(T, p_in) below the bubble point.
func (in *inputs) subcooledTemperature() (float64, error) {
	ref := in.c.Refrigerant
	h := func(t float64) (float64, error) {
		return in.props.Props(fluid.Enthalpy, fluid.Temperature, t, fluid.Pressure, in.pin, ref)
	}

	// walk the lower bracket down until it lies below the inlet enthalpy
	lo := in.tBubble - (in.sat.HL-in.hin)/in.sat.CpL
	for i := 0; ; i++ {
		hlo, err := h(lo)
		if err != nil {
			return 0, fmt.Errorf("inlet temperature of subcooled refrigerant: %w", err)
		}
		if hlo <= in.hin {
			break
		}
		if i == in.cfg.MaxIterations {
			return 0, fmt.Errorf("%w: no lower bracket for inlet enthalpy %g", numeric.ErrConvergence, in.hin)
		}
		cp, err := in.props.Props(fluid.SpecificHeat, fluid.Temperature, lo, fluid.Pressure, in.pin, ref)
		if err != nil {
			return 0, err
		}
		lo -= 1.5*(hlo-in.hin)/cp + 0.1
	}

	t, err := in.liquidTemperature(in.hin, lo)
	if err != nil {
		return 0, fmt.Errorf("inlet temperature of subcooled refrigerant: %w", err)
	}
	return t, nil
}

// liquidTemperature inverts h(T, p_in) = h over [lo, T_bubble).
func (in *inputs) liquidTemperature(h, lo float64) (float64, error) {
	ref := in.c.Refrigerant
	f := func(t float64) (float64, error) {
		return in.props.Props(fluid.Enthalpy, fluid.Temperature, t, fluid.Pressure, in.pin, ref)
	}
	t, _, err := numeric.Invert(f, h, lo, in.tBubble-1e-9, in.cfg.XTol, in.cfg.MaxIterations)
	return t, err
}

// conductance is the UA of a zone covering fraction w of the length.
func (in *inputs) conductance(w, hR float64) float64 {
	return w / (1/(in.hG*in.aG) + 1/(hR*in.aR))
}

// counterFlow is the effectiveness of a counter-flow exchanger.
func counterFlow(ntu, cr float64) float64 {
	if math.Abs(1-cr) < 1e-9 {
		return ntu / (1 + ntu)
	}
	e := math.Exp(-ntu * (1 - cr))
	return (1 - e) / (1 - cr*e)
}

// singlePhase runs a sensible-heat zone of fraction w between the
// refrigerant entering at tinR and the secondary fluid entering at tinG.
// tavg is the refrigerant temperature used for the properties.
func (in *inputs) singlePhase(kind model.ZoneKind, w, tinR, tinG, tavg float64) (model.Zone, error) {
	ref := in.c.Refrigerant
	sp, err := correlation.Tube(in.props, ref, in.mdotR/in.passes, in.geo.TubeID, tavg, in.pin)
	if err != nil {
		return model.Zone{}, err
	}
	cp, err := in.props.Props(fluid.SpecificHeat, fluid.Temperature, tavg, fluid.Pressure, in.pin, ref)
	if err != nil {
		return model.Zone{}, err
	}
	rho, err := in.props.Props(fluid.Density, fluid.Temperature, tavg, fluid.Pressure, in.pin, ref)
	if err != nil {
		return model.Zone{}, err
	}

	ua := in.conductance(w, sp.H)
	cR := cp * in.mdotR
	cMin, cMax := math.Min(cR, in.cG), math.Max(cR, in.cG)
	eps := counterFlow(ua/cMin, cMin/cMax)
	q := eps * cMin * (tinG - tinR)

	dpdz := -sp.F / rho * in.gR * in.gR / (2 * in.dhR)
	return model.Zone{
		Kind:   kind,
		W:      w,
		Q:      q,
		DP:     dpdz * in.geo.Length * w,
		Charge: w * in.vR * rho,
		HTC:    sp.H,
		UA:     ua,
		Re:     sp.Re,
		In:     model.State{T: tinR, P: in.pin},
		Out:    model.State{T: tinR + q/cR, P: in.pin},
	}, nil
}

// superheat runs the vapor zone of fraction w from the dew point.
func (in *inputs) superheat(w float64) (model.Zone, error) {
	return in.singlePhase(model.Superheat, w, in.tDew, in.tinG, (in.tDew+in.tinG)/2)
}

// subcool runs the liquid zone of fraction w. tinG is the secondary
// temperature after the two-phase and superheat zones.
func (in *inputs) subcool(w, tinG float64) (model.Zone, error) {
	return in.singlePhase(model.Subcool, w, in.tinR, tinG, (in.tinR+in.tBubble)/2)
}

// twoPhase runs the evaporating zone of fraction w from quality xin to a
// trial outlet quality xout. tgx is the secondary temperature entering the
// zone. The refrigerant side is isothermal, so the effectiveness only
// depends on the secondary capacity rate. The residual is the duty
// predicted by the effectiveness minus the enthalpy rise.
func (in *inputs) twoPhase(w, xin, xout, tgx float64) (model.Zone, float64, error) {
	slip := in.cfg.SlipModel
	q := in.mdotR * (xout - xin) * in.sat.Latent()
	flux := q / (w * in.aR)
	// 沸腾换热系数取 [xin, 1] 区间平均，与出口干度无关
	htc := correlation.ShahAverage(in.sat, xin, 1, in.gR, in.dhR, flux)
	ua := in.conductance(w, htc)
	eps := 1 - math.Exp(-ua/in.cG)
	qNTU := eps * in.cG * (tgx - in.tSat)

	rho := correlation.TwoPhaseDensity(in.sat, xin, xout, slip)
	dpF := correlation.LockhartMartinelliAverage(in.sat, xin, xout, in.gR, in.dhR) * w * in.geo.Length
	dpA := correlation.AccelPressureDrop(in.sat, xin, xout, in.gR, slip)

	z := model.Zone{
		Kind:   model.TwoPhase,
		W:      w,
		Q:      q,
		DP:     dpF + dpA,
		Charge: rho * w * in.vR,
		HTC:    htc,
		UA:     ua,
		In:     model.State{X: xin, P: in.pin},
		Out:    model.State{X: xout, P: in.pin},
	}
	return z, qNTU - q, nil
}

// twoZone partitions a span of the exchanger, beginning at quality xin,
// into two-phase and superheat zones. Fractions returned are of the whole
// exchanger.
func (in *inputs) twoZone(span, xin float64) (model.Zone, model.Zone, RootSolve, error) {
	eps := in.cfg.Epsilon
	_, probe, err := in.twoPhase(span, xin, 1, in.tinG)
	if err != nil {
		return model.Zone{}, model.Zone{}, RootSolve{}, err
	}

	if probe > 0 {
		// more capacity than needed to evaporate: a superheat zone exists
		residual := func(u float64) (float64, error) {
			sh, err := in.superheat(u * span)
			if err != nil {
				return 0, err
			}
			_, r, err := in.twoPhase((1-u)*span, xin, 1, in.tinG-sh.Q/in.cG)
			return r, err
		}
		u, iters, err := numeric.Brent(residual, eps, 1-eps, in.cfg.XTol, in.cfg.MaxIterations)
		if err != nil {
			return model.Zone{}, model.Zone{}, RootSolve{}, fmt.Errorf("superheat zone fraction: %w", err)
		}
		sh, err := in.superheat(u * span)
		if err != nil {
			return model.Zone{}, model.Zone{}, RootSolve{}, err
		}
		tp, _, err := in.twoPhase((1-u)*span, xin, 1, in.tinG-sh.Q/in.cG)
		if err != nil {
			return model.Zone{}, model.Zone{}, RootSolve{}, err
		}
		return sh, tp, RootSolve{Name: "superheat", Iterations: iters}, nil
	}

	residual := func(x float64) (float64, error) {
		_, r, err := in.twoPhase(span, xin, x, in.tinG)
		return r, err
	}
	xout, iters, err := numeric.Brent(residual, xin, 1-eps, in.cfg.XTol, in.cfg.MaxIterations)
	if err != nil {
		return model.Zone{}, model.Zone{}, RootSolve{}, fmt.Errorf("outlet quality: %w", err)
	}
	tp, _, err := in.twoPhase(span, xin, xout, in.tinG)
	if err != nil {
		return model.Zone{}, model.Zone{}, RootSolve{}, err
	}
	return model.Zone{Kind: model.Superheat}, tp, RootSolve{Name: "quality", Iterations: iters}, nil
}

// threeZone handles subcooled inlet refrigerant. The subcool zone fraction
// is chosen so that its duty brings the liquid exactly to the bubble point;
// the remaining length is partitioned by twoZone.
func (in *inputs) threeZone() ([model.ZoneCount]model.Zone, []RootSolve, error) {
	var zones [model.ZoneCount]model.Zone
	eps := in.cfg.Epsilon
	required := in.mdotR * (in.sat.HL - in.hin)

	downstream := func(wsc float64) (model.Zone, model.Zone, RootSolve, model.Zone, error) {
		sh, tp, rs, err := in.twoZone(1-wsc, 0)
		if err != nil {
			return sh, tp, rs, model.Zone{}, err
		}
		sc, err := in.subcool(wsc, in.tinG-(sh.Q+tp.Q)/in.cG)
		return sh, tp, rs, sc, err
	}
	residual := func(wsc float64) (float64, error) {
		_, _, _, sc, err := downstream(wsc)
		if err != nil {
			return 0, err
		}
		return sc.Q - required, nil
	}

	full, err := residual(1 - eps)
	if err != nil {
		return zones, nil, err
	}
	if full <= 0 {
		// the whole length cannot bring the liquid to saturation
		sc, err := in.subcool(1, in.tinG)
		if err != nil {
			return zones, nil, err
		}
		if sc.Q >= required {
			// 全长液相刚好到达泡点
			sc.Q = required
		}
		zones[model.Superheat] = model.Zone{Kind: model.Superheat}
		zones[model.TwoPhase] = model.Zone{Kind: model.TwoPhase}
		zones[model.Subcool] = sc
		return zones, nil, nil
	}

	wsc, iters, err := numeric.Brent(residual, eps, 1-eps, in.cfg.XTol, in.cfg.MaxIterations)
	if err != nil {
		return zones, nil, fmt.Errorf("subcool zone fraction: %w", err)
	}
	sh, tp, rs, sc, err := downstream(wsc)
	if err != nil {
		return zones, nil, err
	}
	zones[model.Superheat], zones[model.TwoPhase], zones[model.Subcool] = sh, tp, sc
	return zones, []RootSolve{{Name: "subcool", Iterations: iters}, rs}, nil
}

// assemble totals the zones and resolves the boundary and outlet states.
func (in *inputs) assemble(zones [model.ZoneCount]model.Zone) (*model.Result, error) {
	ref := in.c.Refrigerant
	res := &model.Result{
		Geometry:    in.geo,
		Refrigerant: ref,
		MassFlow:    in.mdotR,
		TBubble:     in.tBubble,
		TDew:        in.tDew,
		Inlet:       model.State{T: in.tinR, P: in.pin, H: in.hin, S: in.sinR, X: in.xin},
	}

	hv := in.sat.HV
	hl := in.sat.HL
	dew := model.State{T: in.tDew, P: in.pin, H: hv, S: in.sV, X: 1}
	bubble := model.State{T: in.tBubble, P: in.pin, H: hl, S: in.sL, X: 0}

	sh, tp, sc := &zones[model.Superheat], &zones[model.TwoPhase], &zones[model.Subcool]
	if sc.W > 0 {
		sc.In = res.Inlet
		if tp.W > 0 {
			sc.Out = bubble
		}
	}
	if tp.W > 0 {
		tp.In = in.saturatedState(tp.In.X)
		tp.Out = in.saturatedState(tp.Out.X)
	}
	if sh.W > 0 {
		sh.In = dew
	}

	var out model.State
	var err error
	switch {
	case sh.W > 0:
		out, err = in.singlePhaseState(sh.Out.T)
		sh.Out = out
	case tp.W > 0:
		out = tp.Out
	default:
		out, err = in.liquidOutlet(sc.Q)
		sc.Out = out
	}
	if err != nil {
		return nil, err
	}
	res.Outlet = out

	for i := range zones {
		z := zones[i]
		res.Q += z.Q
		res.Charge += z.Charge
		res.DP += z.DP
		res.UA += z.UA
	}
	res.Zones = zones
	res.Secondary = model.Secondary{
		Fluid:    in.c.Secondary,
		MassFlow: in.mdotG,
		P:        in.c.SecondaryPressure,
		Tin:      in.tinG,
		Tout:     in.tinG - res.Q/in.cG,
		HTC:      in.hG,
		Re:       in.reG,
		DP:       in.dpG,
		Cp:       in.cpG,
	}
	return res, nil
}

// liquidOutlet is the liquid state reached from the inlet once duty q is
// added, so that mdot*(h_out-h_in) = q.
func (in *inputs) liquidOutlet(q float64) (model.State, error) {
	hout := in.hin + q/in.mdotR
	if hout >= in.sat.HL {
		return model.State{T: in.tBubble, P: in.pin, H: in.sat.HL, S: in.sL, X: 0}, nil
	}
	t, err := in.liquidTemperature(hout, in.tinR)
	if err != nil {
		return model.State{}, fmt.Errorf("outlet temperature of subcooled refrigerant: %w", err)
	}
	out, err := in.singlePhaseState(t)
	if err != nil {
		return model.State{}, err
	}
	out.H = hout
	out.X = (hout - in.sat.HL) / in.sat.Latent()
	return out, nil
}

// saturatedState blends the bubble and dew states at quality x.
func (in *inputs) saturatedState(x float64) model.State {
	return model.State{
		T: x*in.tDew + (1-x)*in.tBubble,
		P: in.pin,
		H: in.sat.HL + x*in.sat.Latent(),
		S: in.sL + x*(in.sV-in.sL),
		X: x,
	}
}

// singlePhaseState evaluates a liquid or vapor state at the inlet pressure.
func (in *inputs) singlePhaseState(t float64) (model.State, error) {
	ref := in.c.Refrigerant
	h, err := in.props.Props(fluid.Enthalpy, fluid.Temperature, t, fluid.Pressure, in.pin, ref)
	if err != nil {
		return model.State{}, err
	}
	s, err := in.props.Props(fluid.Entropy, fluid.Temperature, t, fluid.Pressure, in.pin, ref)
	if err != nil {
		return model.State{}, err
	}
	return model.State{T: t, P: in.pin, H: h, S: s, X: (h - in.sat.HL) / in.sat.Latent()}, nil
}

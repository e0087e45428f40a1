package model

import (
	"fmt"

	"hxsim/exchanger"
)

// 换热区段
type ZoneKind int

const (
	Superheat ZoneKind = iota // 过热区
	TwoPhase                  // 两相区
	Subcool                   // 过冷区

	ZoneCount = 3
)

var zoneNames = [ZoneCount]string{"Superheat", "Two-Phase", "Subcool"}

func (k ZoneKind) String() string {
	if k < 0 || k >= ZoneCount {
		return fmt.Sprintf("ZoneKind(%d)", int(k))
	}
	return zoneNames[k]
}

// 制冷剂状态点
type State struct {
	T float64 `json:"t"` // K
	P float64 `json:"p"` // Pa
	H float64 `json:"h"` // J/kg
	S float64 `json:"s"` // J/kg-K
	X float64 `json:"x"` // 干度，过冷 < 0，过热 > 1
}

// 区段结果，长度占比 W 为 0 时其余字段全部为 0
type Zone struct {
	Kind   ZoneKind `json:"kind"`
	W      float64  `json:"w"`      // 长度占比
	Q      float64  `json:"q"`      // 换热量 W
	DP     float64  `json:"dp"`     // 制冷剂压力变化 Pa，压降为负
	Charge float64  `json:"charge"` // 充注量 kg
	HTC    float64  `json:"htc"`    // 制冷剂侧平均换热系数 W/m^2-K
	UA     float64  `json:"ua"`     // W/K
	Re     float64  `json:"re"`
	In     State    `json:"in"`
	Out    State    `json:"out"`
}

// 载冷剂侧参数
type Secondary struct {
	Fluid    string  `json:"fluid"`
	MassFlow float64 `json:"mass_flow"` // kg/s
	P        float64 `json:"p"`         // Pa
	Tin      float64 `json:"tin"`       // K
	Tout     float64 `json:"tout"`      // K
	HTC      float64 `json:"htc"`
	Re       float64 `json:"re"`
	DP       float64 `json:"dp"` // Pa，压降为负
	Cp       float64 `json:"cp"`
}

// 单回路计算结果
type Result struct {
	Geometry    exchanger.Coaxial `json:"geometry"`
	Refrigerant string            `json:"refrigerant"`
	MassFlow    float64           `json:"mass_flow"`
	TBubble     float64           `json:"t_bubble"`
	TDew        float64           `json:"t_dew"`

	Zones [ZoneCount]Zone `json:"zones"`

	Q      float64 `json:"q"`
	Charge float64 `json:"charge"`
	DP     float64 `json:"dp"`
	UA     float64 `json:"ua"`

	Inlet     State     `json:"inlet"`
	Outlet    State     `json:"outlet"`
	Secondary Secondary `json:"secondary"`
}

func (r *Result) Zone(k ZoneKind) *Zone {
	return &r.Zones[k]
}

// 出口过热度
func (r *Result) Superheat() float64 {
	return r.Outlet.T - r.TDew
}

// 分配给某一回路的参数
type Assignment struct {
	Index         int     `json:"index"`
	MassFlow      float64 `json:"mass_flow"`
	InletEnthalpy float64 `json:"inlet_enthalpy"`
	SecondaryFlow float64 `json:"secondary_flow"`
	TubesPerBank  int     `json:"tubes_per_bank"`
}

// 多回路等效结果
// 换热量、充注量、UA 为各回路之和；压降、换热系数、长度占比为算术平均
type MultiResult struct {
	Equivalent  Result       `json:"equivalent"`
	Circuits    []*Result    `json:"circuits"`
	Assignments []Assignment `json:"assignments"`
}

// 同轴套管换热器算例
type CoaxialCase struct {
	Name     string            `json:"name" yaml:"name"`
	Geometry exchanger.Coaxial `json:"geometry" yaml:"geometry"`

	Refrigerant   string  `json:"refrigerant" yaml:"refrigerant"`
	InletPressure float64 `json:"inlet_pressure" yaml:"inlet_pressure"`
	InletEnthalpy float64 `json:"inlet_enthalpy" yaml:"inlet_enthalpy"`
	MassFlow      float64 `json:"mass_flow" yaml:"mass_flow"`

	Secondary         string  `json:"secondary" yaml:"secondary"`
	SecondaryInletT   float64 `json:"secondary_inlet_t" yaml:"secondary_inlet_t"`
	SecondaryPressure float64 `json:"secondary_pressure" yaml:"secondary_pressure"`
	SecondaryMassFlow float64 `json:"secondary_mass_flow" yaml:"secondary_mass_flow"`
}

// 多回路算例，Template 中的流量会被分配系数覆盖
type MultiCircuitCase struct {
	TestName        string `json:"test_name" yaml:"test_name"`
	TestDescription string `json:"test_description" yaml:"test_description"`
	TestDetails     string `json:"test_details" yaml:"test_details"`

	Template CoaxialCase `json:"template" yaml:"template"`
	Circuits int         `json:"circuits" yaml:"circuits"`

	MassFlow            []float64 `json:"mass_flow" yaml:"mass_flow"`
	MassFlowCoeffs      []float64 `json:"mass_flow_coeffs" yaml:"mass_flow_coeffs"`
	VaporFlowCoeffs     []float64 `json:"vapor_flow_coeffs" yaml:"vapor_flow_coeffs"`
	SecondaryFlow       []float64 `json:"secondary_flow" yaml:"secondary_flow"`
	SecondaryFlowCoeffs []float64 `json:"secondary_flow_coeffs" yaml:"secondary_flow_coeffs"`
	TubesPerBank        int       `json:"tubes_per_bank" yaml:"tubes_per_bank"`
}

// 前后端通信消息结构
type Msg struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

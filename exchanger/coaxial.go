package exchanger

import (
	"errors"
	"fmt"
	"math"

	log "github.com/sirupsen/logrus"
)

// 同轴套管换热器几何参数
// 1. 制冷剂走内管，载冷剂（水 / 乙二醇）走环形通道
// 2. 所有尺寸单位 m
// 3. Passes 为并联的套管数，面积、容积按套管数放大

var ErrGeometry = errors.New("invalid geometry")

type Coaxial struct {
	TubeID    float64 `json:"tube_id" yaml:"tube_id"`       // 内管内径
	TubeOD    float64 `json:"tube_od" yaml:"tube_od"`       // 内管外径
	AnnulusID float64 `json:"annulus_id" yaml:"annulus_id"` // 外管内径
	Length    float64 `json:"length" yaml:"length"`         // 管长
	Passes    int     `json:"passes" yaml:"passes"`         // 并联套管数
}

func NewCoaxial(tubeID, tubeOD, annulusID, length float64) *Coaxial {
	return &Coaxial{
		TubeID:    tubeID,
		TubeOD:    tubeOD,
		AnnulusID: annulusID,
		Length:    length,
		Passes:    1,
	}
}

// Validate checks that every dimension is positive and that the tube and
// annulus walls nest.
func (c *Coaxial) Validate() error {
	for _, d := range []struct {
		name string
		v    float64
	}{
		{"tube ID", c.TubeID},
		{"tube OD", c.TubeOD},
		{"annulus ID", c.AnnulusID},
		{"length", c.Length},
	} {
		if math.IsNaN(d.v) || d.v <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %g", ErrGeometry, d.name, d.v)
		}
	}
	if c.TubeOD <= c.TubeID {
		return fmt.Errorf("%w: tube OD %g must exceed tube ID %g", ErrGeometry, c.TubeOD, c.TubeID)
	}
	if c.AnnulusID <= c.TubeOD {
		return fmt.Errorf("%w: annulus ID %g must exceed tube OD %g", ErrGeometry, c.AnnulusID, c.TubeOD)
	}
	if c.Passes < 0 {
		return fmt.Errorf("%w: passes must not be negative, got %d", ErrGeometry, c.Passes)
	}
	return nil
}

func (c *Coaxial) passes() float64 {
	if c.Passes <= 0 {
		return 1
	}
	return float64(c.Passes)
}

// 制冷剂侧润湿面积
func (c *Coaxial) RefrigerantArea() float64 {
	return math.Pi * c.TubeID * c.Length * c.passes()
}

// 载冷剂侧润湿面积（不含外管）
func (c *Coaxial) SecondaryArea() float64 {
	return math.Pi * c.TubeOD * c.Length * c.passes()
}

func (c *Coaxial) RefrigerantFlowArea() float64 {
	return math.Pi * c.TubeID * c.TubeID / 4 * c.passes()
}

func (c *Coaxial) SecondaryFlowArea() float64 {
	return math.Pi * (c.AnnulusID*c.AnnulusID - c.TubeOD*c.TubeOD) / 4 * c.passes()
}

func (c *Coaxial) RefrigerantVolume() float64 {
	return c.RefrigerantFlowArea() * c.Length
}

func (c *Coaxial) SecondaryVolume() float64 {
	return c.SecondaryFlowArea() * c.Length
}

func (c *Coaxial) RefrigerantDh() float64 {
	return c.TubeID
}

func (c *Coaxial) SecondaryDh() float64 {
	return c.AnnulusID - c.TubeOD
}

func (c *Coaxial) SetPasses(passes int) {
	c.Passes = passes
	log.WithFields(log.Fields{"Passes": passes}).Debug("set passes")
}

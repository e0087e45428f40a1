package calculator

import (
	"errors"
	"fmt"
	"io/fs"

	log "github.com/sirupsen/logrus"
	"gopkg.in/ini.v1"

	"hxsim/correlation"
)

const DefaultConfigPath = "conf/solver.ini"

// 求解器数值参数
type Config struct {
	Epsilon       float64 // 区段边界的数值保护 ε
	XTol          float64 // Brent 绝对容差
	MaxIterations int
	SlipModel     correlation.SlipModel

	Workers int // 多回路并行计算的 worker 数，1 为顺序计算
}

func DefaultConfig() Config {
	cfg, _ := loadCfg(ini.Empty())
	return cfg
}

// LoadConfig reads the ini file at path. A missing file yields the
// defaults; missing keys fall back to their defaults.
func LoadConfig(path string) (Config, error) {
	file, err := ini.Load(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.WithFields(log.Fields{"path": path}).Warn("solver config not found, using defaults")
			return DefaultConfig(), nil
		}
		return Config{}, fmt.Errorf("reading solver config %s: %w", path, err)
	}
	return loadCfg(file)
}

func loadCfg(file *ini.File) (Config, error) {
	slip, err := correlation.ParseSlipModel(file.Section("solver").Key("SlipModel").MustString("Zivi"))
	if err != nil {
		return Config{}, err
	}
	cfg := Config{
		Epsilon:       file.Section("solver").Key("Epsilon").MustFloat64(1e-5),
		XTol:          file.Section("solver").Key("XTol").MustFloat64(1e-12),
		MaxIterations: file.Section("solver").Key("MaxIterations").MustInt(100),
		SlipModel:     slip,
		Workers:       file.Section("circuit").Key("Workers").MustInt(4),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	log.WithFields(log.Fields{
		"Epsilon":       cfg.Epsilon,
		"XTol":          cfg.XTol,
		"MaxIterations": cfg.MaxIterations,
		"SlipModel":     cfg.SlipModel,
		"Workers":       cfg.Workers,
	}).Debug("solver config loaded")
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Epsilon <= 0 || c.Epsilon >= 0.5 {
		return fmt.Errorf("solver config: Epsilon %g outside (0, 0.5)", c.Epsilon)
	}
	if c.XTol <= 0 {
		return fmt.Errorf("solver config: XTol %g must be positive", c.XTol)
	}
	if c.MaxIterations <= 0 {
		return fmt.Errorf("solver config: MaxIterations %d must be positive", c.MaxIterations)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("solver config: Workers %d must be positive", c.Workers)
	}
	return nil
}

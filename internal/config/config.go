package config

import (
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/cellsim/internal/cell"
	"github.com/san-kum/cellsim/internal/experiment"
	"github.com/san-kum/cellsim/internal/models"
)

const (
	DefaultDt       = 1.0
	DefaultDuration = 3600.0
	DefaultSOC      = 1.0
	DefaultSet      = "chen2020"
	DefaultSolver   = "rk4"
)

type Config struct {
	Model     string             `yaml:"model" validate:"required,oneof=spm spme dfn"`
	Solver    string             `yaml:"solver" validate:"required,oneof=euler rk4 rk45"`
	ParamSet  string             `yaml:"param_set" validate:"required"`
	Current   float64            `yaml:"current"`
	CRate     float64            `yaml:"c_rate"`
	Protocol  string             `yaml:"protocol" validate:"omitempty,oneof=constant pulse sine"`
	PulseOn   float64            `yaml:"pulse_on" validate:"gte=0"`
	PulseRest float64            `yaml:"pulse_rest" validate:"gte=0"`
	SineAmp   float64            `yaml:"sine_amp" validate:"gte=0"`
	SineFreq  float64            `yaml:"sine_freq" validate:"gte=0"`
	Dt        float64            `yaml:"dt" validate:"gt=0"`
	Duration  float64            `yaml:"duration" validate:"gt=0"`
	SOC       float64            `yaml:"soc" validate:"gte=0,lte=1"`
	MinV      float64            `yaml:"min_voltage" validate:"gte=0"`
	MaxV      float64            `yaml:"max_voltage" validate:"gte=0"`
	Adaptive  bool               `yaml:"adaptive"`
	Tolerance float64            `yaml:"tolerance" validate:"gte=0"`
	Thermal   bool               `yaml:"thermal"`
	SEI       bool               `yaml:"sei"`
	Overrides map[string]float64 `yaml:"overrides"`
}

var validate = validator.New()

func DefaultConfig() *Config {
	return &Config{
		Model:     "spm",
		Solver:    DefaultSolver,
		ParamSet:  DefaultSet,
		Current:   5.0,
		Dt:        DefaultDt,
		Duration:  DefaultDuration,
		SOC:       DefaultSOC,
		MinV:      2.5,
		MaxV:      4.3,
		Tolerance: 1e-6,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not read config %s", path)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "could not parse config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "invalid config")
	}
	return nil
}

// Amps resolves the applied current: an explicit current wins, else the
// C-rate is scaled by the nominal capacity.
func (c *Config) Amps(capacityAh float64) float64 {
	if c.Current != 0 {
		return c.Current
	}
	return c.CRate * capacityAh
}

// Experiment maps the file config onto an experiment config.
func (c *Config) Experiment(amps float64) experiment.Config {
	return experiment.Config{
		Model:     c.Model,
		Solver:    c.Solver,
		ParamSet:  c.ParamSet,
		Current:   amps,
		Protocol:  c.Protocol,
		PulseOn:   c.PulseOn,
		PulseRest: c.PulseRest,
		SineAmp:   c.SineAmp,
		SineFreq:  c.SineFreq,
		Overrides: c.Overrides,
		Options:   models.Options{Thermal: c.Thermal, SEI: c.SEI},
		Solve: cell.Config{
			Dt:            c.Dt,
			Duration:      c.Duration,
			InitialSOC:    c.SOC,
			MinVoltage:    c.MinV,
			MaxVoltage:    c.MaxV,
			Adaptive:      c.Adaptive,
			Tolerance:     c.Tolerance,
			MinDt:         1e-4,
			MaxDt:         60,
			ValidateState: true,
		},
	}
}

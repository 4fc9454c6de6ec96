package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultDt       = 0.1
	DefaultDuration = 200.0
	DefaultBeta     = 0.3
	DefaultGamma    = 0.1
	DefaultS0       = 0.99
	DefaultI0       = 0.01
)

type Config struct {
	Model      string          `yaml:"model"`
	Integrator string          `yaml:"integrator"`
	Beta       float64         `yaml:"beta"`
	Gamma      float64         `yaml:"gamma"`
	Dt         float64         `yaml:"dt"`
	Duration   float64         `yaml:"duration"`
	InitState  InitStateConfig `yaml:"init_state"`
}

// InitStateConfig holds raw initial fractions. They are fed through the
// normalizer before simulation, so they need not sum to exactly 1.
type InitStateConfig struct {
	S float64 `yaml:"s"`
	I float64 `yaml:"i"`
	R float64 `yaml:"r"`
}

func DefaultConfig() *Config {
	return &Config{
		Model:      "sir",
		Integrator: "rk4",
		Beta:       DefaultBeta,
		Gamma:      DefaultGamma,
		Dt:         DefaultDt,
		Duration:   DefaultDuration,
		InitState: InitStateConfig{
			S: DefaultS0,
			I: DefaultI0,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
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

// GetInitState returns the raw fractions in model compartment order.
func (c *Config) GetInitState() []float64 {
	switch c.Model {
	case "sir":
		return []float64{c.InitState.S, c.InitState.I, c.InitState.R}
	default:
		return []float64{c.InitState.S, c.InitState.I}
	}
}

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/grayscott/internal/model"
)

const (
	DefaultBoundary      = "periodic"
	DefaultStrategy      = "shift"
	DefaultInit          = "seed"
	DefaultSeed          = 1
	DefaultOnInstability = "abort"
)

// Config is the full run configuration. The model parameters are inlined so
// a YAML file reads as a flat list of keys.
type Config struct {
	model.Params `yaml:",inline"`

	Boundary      string   `yaml:"boundary"`
	Strategy      string   `yaml:"strategy"`
	Init          string   `yaml:"init"`
	Seed          uint64   `yaml:"seed"`
	Workers       int      `yaml:"workers"`
	SnapshotEvery int      `yaml:"snapshot_every"`
	OnInstability string   `yaml:"on_instability"`
	Metrics       []string `yaml:"metrics,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Params:        model.DefaultParams(),
		Boundary:      DefaultBoundary,
		Strategy:      DefaultStrategy,
		Init:          DefaultInit,
		Seed:          DefaultSeed,
		OnInstability: DefaultOnInstability,
	}
}

// Load reads a YAML file over the defaults, so omitted keys keep their
// default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
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

// Validate checks the model parameters and the policy name. Strategy,
// boundary and initializer names are resolved by the experiment registry.
func (c *Config) Validate() error {
	if err := c.Params.Validate(); err != nil {
		return err
	}
	switch c.OnInstability {
	case "abort", "warn":
	default:
		return fmt.Errorf("on_instability must be abort or warn, got %q", c.OnInstability)
	}
	if c.SnapshotEvery < 0 {
		return &model.ParamError{Name: "snapshot_every", Value: float64(c.SnapshotEvery), Reason: "must be non-negative"}
	}
	return nil
}

func (c *Config) Clone() *Config {
	cp := *c
	cp.Metrics = append([]string(nil), c.Metrics...)
	return &cp
}

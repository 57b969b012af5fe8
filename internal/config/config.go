package config

import (
	"fmt"
	"math"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/nchain/internal/dynamo"
	"github.com/san-kum/nchain/internal/integrators"
	"github.com/san-kum/nchain/internal/physics"
	"github.com/san-kum/nchain/internal/sim"
)

const (
	DefaultSolver      = "rk4"
	DefaultDt          = 0.001
	DefaultDuration    = 10.0
	DefaultArmLength   = 1.0
	DefaultFPS         = 60
	DefaultTraceLength = 512
	DefaultMaxFrameDt  = 0.05
)

type Config struct {
	Solver      string          `yaml:"solver"`
	Dt          float64         `yaml:"dt"`
	Duration    float64         `yaml:"duration"`
	Gravity     float64         `yaml:"gravity"`
	ArmLength   float64         `yaml:"arm_length"`
	FPS         int             `yaml:"fps"`
	TraceLength int             `yaml:"trace_length"`
	MaxFrameDt  float64         `yaml:"max_frame_dt"`
	InitState   InitStateConfig `yaml:"init_state"`
}

type InitStateConfig struct {
	Thetas    []float64 `yaml:"thetas"`
	ThetaDots []float64 `yaml:"theta_dots"`
}

func DefaultConfig() *Config {
	return &Config{
		Solver:      DefaultSolver,
		Dt:          DefaultDt,
		Duration:    DefaultDuration,
		Gravity:     physics.StandardGravity,
		ArmLength:   DefaultArmLength,
		FPS:         DefaultFPS,
		TraceLength: DefaultTraceLength,
		MaxFrameDt:  DefaultMaxFrameDt,
		InitState: InitStateConfig{
			Thetas:    []float64{math.Pi / 2, math.Pi / 2},
			ThetaDots: []float64{0, 0},
		},
	}
}

// Load reads a yaml document over the defaults.
func Load(path string) (*Config, error) {
	return LoadInto(path, DefaultConfig())
}

// LoadInto reads a yaml document over a copy of base; base is left as is.
// Fields the document omits keep their base value. New thetas given without
// theta_dots start at rest.
func LoadInto(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := base.Clone()
	cfg.InitState.ThetaDots = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.InitState.ThetaDots == nil {
		if slices.Equal(cfg.InitState.Thetas, base.InitState.Thetas) {
			cfg.InitState.ThetaDots = slices.Clone(base.InitState.ThetaDots)
		} else {
			cfg.InitState.ThetaDots = make([]float64, len(cfg.InitState.Thetas))
		}
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

// Validate rejects configurations a chain or run cannot be built from.
func (c *Config) Validate() error {
	if len(c.InitState.Thetas) == 0 {
		return fmt.Errorf("%w: init_state.thetas is empty", dynamo.ErrInvalidArgument)
	}
	if len(c.InitState.Thetas) != len(c.InitState.ThetaDots) {
		return fmt.Errorf("%w: %d thetas but %d theta_dots",
			dynamo.ErrInvalidArgument, len(c.InitState.Thetas), len(c.InitState.ThetaDots))
	}
	if !(c.Dt > 0) {
		return fmt.Errorf("%w: dt must be positive, got %g", dynamo.ErrInvalidArgument, c.Dt)
	}
	if !(c.Duration > 0) {
		return fmt.Errorf("%w: duration must be positive, got %g", dynamo.ErrInvalidArgument, c.Duration)
	}
	if !(c.ArmLength > 0) {
		return fmt.Errorf("%w: arm_length must be positive, got %g", dynamo.ErrInvalidArgument, c.ArmLength)
	}
	if c.FPS <= 0 {
		return fmt.Errorf("%w: fps must be positive, got %d", dynamo.ErrInvalidArgument, c.FPS)
	}
	if c.TraceLength < 0 {
		return fmt.Errorf("%w: trace_length must not be negative, got %d", dynamo.ErrInvalidArgument, c.TraceLength)
	}
	if !(c.MaxFrameDt > 0) {
		return fmt.Errorf("%w: max_frame_dt must be positive, got %g", dynamo.ErrInvalidArgument, c.MaxFrameDt)
	}
	_, err := c.Kind()
	return err
}

// Kind parses the configured solver name.
func (c *Config) Kind() (integrators.Kind, error) {
	return integrators.ParseKind(c.Solver)
}

// Links returns the number of links in the initial state.
func (c *Config) Links() int { return len(c.InitState.Thetas) }

// ChainOptions returns the construction options for sim.New.
func (c *Config) ChainOptions() []sim.Option {
	return []sim.Option{
		sim.WithGravity(c.Gravity),
		sim.WithArmLength(c.ArmLength),
		sim.WithTraceLength(c.TraceLength),
	}
}

// NewChain validates the configuration and builds a chain from it.
func (c *Config) NewChain() (*sim.Chain, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	kind, err := c.Kind()
	if err != nil {
		return nil, err
	}
	return sim.New(c.InitState.Thetas, c.InitState.ThetaDots, kind, c.ChainOptions()...)
}

// RunConfig returns the headless run parameters.
func (c *Config) RunConfig() sim.Config {
	return sim.Config{
		Dt:            c.Dt,
		Duration:      c.Duration,
		ValidateState: true,
	}
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.InitState.Thetas = append([]float64(nil), c.InitState.Thetas...)
	out.InitState.ThetaDots = append([]float64(nil), c.InitState.ThetaDots...)
	return &out
}

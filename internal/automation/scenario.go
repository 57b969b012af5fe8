package automation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/nchain/internal/config"
	"github.com/san-kum/nchain/internal/dynamo"
	"github.com/san-kum/nchain/internal/metrics"
	"github.com/san-kum/nchain/internal/physics"
	"github.com/san-kum/nchain/internal/sim"
)

// Scenario defines a scripted sequence of headless runs.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is a single run. It starts from the defaults or from Preset
// and applies every field that is set.
type ScenarioStep struct {
	Name        string    `yaml:"name"`
	Preset      string    `yaml:"preset"`
	Solver      string    `yaml:"solver"`
	Dt          float64   `yaml:"dt"`
	Duration    float64   `yaml:"duration"`
	Gravity     *float64  `yaml:"gravity"`
	ArmLength   float64   `yaml:"arm_length"`
	Thetas      []float64 `yaml:"thetas"`
	ThetaDots   []float64 `yaml:"theta_dots"`
	SampleEvery int       `yaml:"sample_every"`
}

// StepResult pairs a step with the run it produced.
type StepResult struct {
	Step   ScenarioStep
	Run    sim.Config
	Result *sim.Result
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("%w: scenario %q has no steps", dynamo.ErrInvalidArgument, scenario.Name)
	}
	return &scenario, nil
}

// Config resolves the step into a validated configuration.
func (s ScenarioStep) Config() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if s.Preset != "" {
		p, err := config.LookupPreset(s.Preset)
		if err != nil {
			return nil, err
		}
		cfg = p
	}

	if s.Solver != "" {
		cfg.Solver = s.Solver
	}
	if s.Dt != 0 {
		cfg.Dt = s.Dt
	}
	if s.Duration != 0 {
		cfg.Duration = s.Duration
	}
	if s.Gravity != nil {
		cfg.Gravity = *s.Gravity
	}
	if s.ArmLength != 0 {
		cfg.ArmLength = s.ArmLength
	}
	if len(s.Thetas) > 0 {
		cfg.InitState.Thetas = append([]float64(nil), s.Thetas...)
		cfg.InitState.ThetaDots = make([]float64, len(s.Thetas))
	}
	if len(s.ThetaDots) > 0 {
		cfg.InitState.ThetaDots = append([]float64(nil), s.ThetaDots...)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (s ScenarioStep) label(i int) string {
	if s.Name != "" {
		return s.Name
	}
	if s.Preset != "" {
		return s.Preset
	}
	return fmt.Sprintf("step-%d", i+1)
}

// RunScenario executes all steps in order, writing progress to w. A step
// that diverges keeps its partial result and the scenario continues; any
// other failure stops it.
func RunScenario(ctx context.Context, scenario *Scenario, w io.Writer) ([]StepResult, error) {
	if w == nil {
		w = io.Discard
	}
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		fmt.Fprintf(w, "running step %d/%d: %s\n", i+1, len(scenario.Steps), step.label(i))

		cfg, err := step.Config()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		rc, res, err := runConfig(ctx, cfg, step.SampleEvery)
		if res == nil || (err != nil && !errors.Is(err, dynamo.ErrInvalidState)) {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		results = append(results, StepResult{Step: step, Run: rc, Result: res})
	}

	return results, nil
}

// runConfig builds a chain from cfg and runs it with the energy drift and
// tip path metrics attached.
func runConfig(ctx context.Context, cfg *config.Config, sampleEvery int) (sim.Config, *sim.Result, error) {
	rc := cfg.RunConfig()
	rc.SampleEvery = sampleEvery

	chain, err := cfg.NewChain()
	if err != nil {
		return rc, nil, err
	}

	s := sim.NewSimulator(chain)
	s.AddMetric(metrics.NewEnergyDrift(physics.Model{Gravity: cfg.Gravity}))
	s.AddMetric(metrics.NewTipPath(chain.LinkLength()))

	res, err := s.Run(ctx, rc)
	return rc, res, err
}

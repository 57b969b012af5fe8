package automation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"slices"

	"github.com/san-kum/nchain/internal/config"
	"github.com/san-kum/nchain/internal/dynamo"
)

var sweepParams = map[string]func(cfg *config.Config, v float64){
	"gravity":    func(cfg *config.Config, v float64) { cfg.Gravity = v },
	"arm_length": func(cfg *config.Config, v float64) { cfg.ArmLength = v },
	"dt":         func(cfg *config.Config, v float64) { cfg.Dt = v },
	"release_angle": func(cfg *config.Config, v float64) {
		for i := range cfg.InitState.Thetas {
			cfg.InitState.Thetas[i] = v
		}
	},
}

// SweepParams lists the parameters RunSweep can vary.
func SweepParams() []string {
	names := make([]string, 0, len(sweepParams))
	for name := range sweepParams {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// ParameterSweep runs Base once per value of Param between Min and Max.
type ParameterSweep struct {
	Base     *config.Config
	Param    string
	Min      float64
	Max      float64
	NumSteps int
}

// SweepResult holds the outcome of one sweep value.
type SweepResult struct {
	ParamValue  float64
	FinalState  dynamo.ChainState
	MinEnergy   float64
	MaxEnergy   float64
	EnergyDrift float64
	TipPath     float64
	Diverged    bool
}

// RunSweep executes a parameter sweep
func RunSweep(ctx context.Context, sweep *ParameterSweep, w io.Writer) ([]SweepResult, error) {
	apply, ok := sweepParams[sweep.Param]
	if !ok {
		return nil, fmt.Errorf("%w: cannot sweep %q (have %v)", dynamo.ErrInvalidArgument, sweep.Param, SweepParams())
	}
	if sweep.Base == nil || sweep.NumSteps < 2 {
		return nil, fmt.Errorf("%w: sweep needs a base config and at least two steps", dynamo.ErrInvalidArgument)
	}
	if w == nil {
		w = io.Discard
	}

	results := make([]SweepResult, 0, sweep.NumSteps)
	paramStep := (sweep.Max - sweep.Min) / float64(sweep.NumSteps-1)

	for i := 0; i < sweep.NumSteps; i++ {
		paramVal := sweep.Min + float64(i)*paramStep

		cfg := sweep.Base.Clone()
		apply(cfg, paramVal)
		if err := cfg.Validate(); err != nil {
			return results, fmt.Errorf("%s=%g: %w", sweep.Param, paramVal, err)
		}

		_, res, err := runConfig(ctx, cfg, 0)
		diverged := errors.Is(err, dynamo.ErrInvalidState)
		if res == nil || (err != nil && !diverged) {
			return results, fmt.Errorf("%s=%g: %w", sweep.Param, paramVal, err)
		}

		minE, maxE := math.Inf(1), math.Inf(-1)
		for _, e := range res.Energies {
			minE = math.Min(minE, e)
			maxE = math.Max(maxE, e)
		}

		results = append(results, SweepResult{
			ParamValue:  paramVal,
			FinalState:  res.FinalState(),
			MinEnergy:   minE,
			MaxEnergy:   maxE,
			EnergyDrift: res.EnergyDrift,
			TipPath:     res.Metrics["tip_path"],
			Diverged:    diverged,
		})

		fmt.Fprintf(w, "sweep %d/%d: %s=%.4f\n", i+1, sweep.NumSteps, sweep.Param, paramVal)
	}

	return results, nil
}

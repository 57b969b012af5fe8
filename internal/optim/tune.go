package optim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/nchain/internal/config"
	"github.com/san-kum/nchain/internal/dynamo"
	"github.com/san-kum/nchain/internal/integrators"
	"github.com/san-kum/nchain/internal/metrics"
	"github.com/san-kum/nchain/internal/physics"
	"github.com/san-kum/nchain/internal/sim"
)

// DefaultStepGrid is the set of step sizes TuneStep tries when none is given.
var DefaultStepGrid = []float64{0.02, 0.01, 0.005, 0.002, 0.001, 0.0005}

// StepTuning is the cheapest solver and step size found by TuneStep.
type StepTuning struct {
	Kind        integrators.Kind
	Dt          float64
	EnergyDrift float64

	// Evaluations counts equation solves over the whole run.
	Evaluations int
}

// TuneStep searches every solver kind and step size for the cheapest run of
// cfg whose relative energy drift stays within tolerance at every step, not
// just at the end. Cost is the number of equation solves the run needs.
func TuneStep(ctx context.Context, cfg *config.Config, dts []float64, tolerance float64) (StepTuning, error) {
	if !(tolerance > 0) {
		return StepTuning{}, fmt.Errorf("%w: tolerance must be positive, got %g", dynamo.ErrInvalidArgument, tolerance)
	}
	if len(dts) == 0 {
		dts = DefaultStepGrid
	}

	kinds := integrators.Kinds()
	kindIndex := make([]float64, len(kinds))
	for i := range kinds {
		kindIndex[i] = float64(i)
	}

	drifts := make(map[[2]float64]float64)
	objective := func(ctx context.Context, params map[string]float64) (float64, error) {
		kind := kinds[int(params["kind"])]
		dt := params["dt"]

		chain, err := sim.New(cfg.InitState.Thetas, cfg.InitState.ThetaDots, kind, cfg.ChainOptions()...)
		if err != nil {
			return 0, err
		}
		drift := metrics.NewEnergyDrift(physics.Model{Gravity: cfg.Gravity})
		s := sim.NewSimulator(chain)
		s.AddMetric(drift)

		rc := sim.Config{Dt: dt, Duration: cfg.Duration, ValidateState: true, SampleEvery: math.MaxInt}
		res, err := s.Run(ctx, rc)
		if err != nil {
			return math.Inf(1), err
		}
		worst := drift.Value()
		drifts[[2]float64{params["kind"], dt}] = worst
		if worst > tolerance {
			return math.Inf(1), nil
		}
		return float64(res.StepsTaken * kind.Evaluations()), nil
	}

	grid := NewGridSearch([]string{"kind", "dt"}, [][]float64{kindIndex, dts})
	best, cost, err := grid.Search(ctx, objective)
	if err != nil {
		return StepTuning{}, err
	}
	if best == nil {
		return StepTuning{}, fmt.Errorf("no solver keeps the energy drift under %g", tolerance)
	}

	return StepTuning{
		Kind:        kinds[int(best["kind"])],
		Dt:          best["dt"],
		EnergyDrift: drifts[[2]float64{best["kind"], best["dt"]}],
		Evaluations: int(cost),
	}, nil
}

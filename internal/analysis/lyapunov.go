package analysis

import (
	"fmt"
	"math"

	"github.com/san-kum/nchain/internal/dynamo"
	"github.com/san-kum/nchain/internal/integrators"
	"github.com/san-kum/nchain/internal/sim"
)

// LyapunovConfig describes a reference trajectory and how long to follow it.
type LyapunovConfig struct {
	Thetas    []float64
	ThetaDots []float64
	Kind      integrators.Kind
	Gravity   float64 // zero means physics.StandardGravity

	Dt       float64
	Duration float64

	// Perturbation is the initial separation. Defaults to 1e-8.
	Perturbation float64
}

func (c LyapunovConfig) validate() error {
	if !(c.Dt > 0) || !(c.Duration > 0) {
		return fmt.Errorf("%w: dt and duration must be positive", dynamo.ErrInvalidArgument)
	}
	if c.Perturbation < 0 {
		return fmt.Errorf("%w: perturbation must not be negative", dynamo.ErrInvalidArgument)
	}
	return nil
}

func (c LyapunovConfig) perturbation() float64 {
	if c.Perturbation == 0 {
		return 1e-8
	}
	return c.Perturbation
}

func (c LyapunovConfig) options() []sim.Option {
	if c.Gravity == 0 {
		return nil
	}
	return []sim.Option{sim.WithGravity(c.Gravity)}
}

// LyapunovExponent estimates the largest Lyapunov exponent by following a
// reference chain and a copy displaced along the first angle, pulling the
// copy back to the initial separation after every step. A positive value
// indicates chaos.
//
// Algorithm:
// 1. Run two nearby trajectories
// 2. Accumulate ln(d/d₀) each step, then rescale the separation to d₀
// 3. λ ≈ Σ ln(d/d₀) / t
func LyapunovExponent(cfg LyapunovConfig) (float64, error) {
	if err := cfg.validate(); err != nil {
		return 0, err
	}
	perturbed, err := dynamo.NewChainState(cfg.Thetas, cfg.ThetaDots)
	if err != nil {
		return 0, err
	}
	perturbed.Thetas[0] += cfg.perturbation()
	return lyapunovForPerturbation(cfg, perturbed)
}

// LyapunovSpectrum repeats the separation estimate once per coordinate,
// angles first and then angular velocities.
func LyapunovSpectrum(cfg LyapunovConfig) ([]float64, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	base, err := dynamo.NewChainState(cfg.Thetas, cfg.ThetaDots)
	if err != nil {
		return nil, err
	}

	n := base.Len()
	spectrum := make([]float64, 2*n)
	for i := range spectrum {
		p := base.Clone()
		if i < n {
			p.Thetas[i] += cfg.perturbation()
		} else {
			p.ThetaDots[i-n] += cfg.perturbation()
		}
		spectrum[i], err = lyapunovForPerturbation(cfg, p)
		if err != nil {
			return nil, err
		}
	}
	return spectrum, nil
}

func lyapunovForPerturbation(cfg LyapunovConfig, perturbed dynamo.ChainState) (float64, error) {
	ref, err := sim.New(cfg.Thetas, cfg.ThetaDots, cfg.Kind, cfg.options()...)
	if err != nil {
		return 0, err
	}
	other, err := sim.New(perturbed.Thetas, perturbed.ThetaDots, cfg.Kind, cfg.options()...)
	if err != nil {
		return 0, err
	}

	d0 := ref.State().Distance(perturbed)
	if d0 == 0 {
		return 0, nil
	}

	steps := int(math.Round(cfg.Duration / cfg.Dt))
	sumLog := 0.0
	count := 0
	var a, b dynamo.ChainState

	for i := 0; i < steps; i++ {
		ref.Update(cfg.Dt)
		other.Update(cfg.Dt)
		if !ref.Valid() || !other.Valid() {
			break
		}

		a, b = ref.State(), other.State()
		sep := a.Distance(b)
		if sep == 0 {
			continue
		}
		sumLog += math.Log(sep / d0)
		count++

		// Renormalize to keep the separation in the linear regime.
		scale := d0 / sep
		for j := range b.Thetas {
			b.Thetas[j] = a.Thetas[j] + (b.Thetas[j]-a.Thetas[j])*scale
			b.ThetaDots[j] = a.ThetaDots[j] + (b.ThetaDots[j]-a.ThetaDots[j])*scale
		}
		if err := other.SetState(b); err != nil {
			return 0, err
		}
	}

	if count == 0 {
		return 0, nil
	}
	return sumLog / (float64(count) * cfg.Dt), nil
}

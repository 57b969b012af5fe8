package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/nchain/internal/dynamo"
)

// Simulator steps a Chain headlessly, feeding metrics and observers.
type Simulator struct {
	chain     *Chain
	origin    dynamo.Point
	metrics   []dynamo.Metric
	observers []dynamo.Observer
}

func NewSimulator(chain *Chain) *Simulator {
	return &Simulator{
		chain:     chain,
		metrics:   make([]dynamo.Metric, 0),
		observers: make([]dynamo.Observer, 0),
	}
}

func (s *Simulator) AddMetric(m dynamo.Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o dynamo.Observer) { s.observers = append(s.observers, o) }

// SetOrigin moves the anchor used when recording tip positions.
func (s *Simulator) SetOrigin(p dynamo.Point) { s.origin = p }

func (s *Simulator) Chain() *Chain { return s.chain }

// Run advances the chain for Duration/Dt steps from its current state. On a
// non-finite state with ValidateState set, Run returns the partial result
// together with a *dynamo.SimulationError wrapping dynamo.ErrInvalidState.
// Cancellation is checked between steps.
func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	steps := int(math.Round(cfg.Duration / cfg.Dt))
	every := max(cfg.SampleEvery, 1)
	samples := steps/every + 2

	result := &Result{
		Kind:     s.chain.Kind(),
		Times:    make([]float64, 0, samples),
		Energies: make([]float64, 0, samples),
		Tips:     make([]dynamo.Point, 0, samples),
		States:   make([]dynamo.ChainState, 0, samples),
		Metrics:  make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	c := s.chain
	c.Project(s.origin)
	initialEnergy := c.Energy()
	s.record(result)
	s.notify()

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			s.finish(result, initialEnergy)
			return result, ctx.Err()
		default:
		}

		c.Update(cfg.Dt)
		c.Project(s.origin)
		result.StepsTaken++

		if cfg.ValidateState && !c.Valid() {
			result.Err = &dynamo.SimulationError{Step: result.StepsTaken, Time: c.Time(), Wrapped: dynamo.ErrInvalidState}
			s.finish(result, initialEnergy)
			return result, result.Err
		}

		s.notify()
		if (i+1)%every == 0 || i == steps-1 {
			s.record(result)
		}
	}

	s.finish(result, initialEnergy)
	return result, nil
}

func (s *Simulator) notify() {
	state, t := s.chain.state, s.chain.time
	for _, m := range s.metrics {
		m.Observe(state, t)
	}
	for _, obs := range s.observers {
		obs.OnStep(state, t)
	}
}

func (s *Simulator) record(r *Result) {
	c := s.chain
	tip, _ := c.Tip()
	r.Times = append(r.Times, c.Time())
	r.Energies = append(r.Energies, c.Energy())
	r.Tips = append(r.Tips, tip)
	r.States = append(r.States, c.State())
}

func (s *Simulator) finish(r *Result, initialEnergy float64) {
	switch {
	case !s.chain.Valid():
		r.EnergyDrift = math.Inf(1)
	case initialEnergy != 0:
		r.EnergyDrift = math.Abs(s.chain.Energy()-initialEnergy) / math.Abs(initialEnergy)
	}
	for _, m := range s.metrics {
		r.Metrics[m.Name()] = m.Value()
	}
}

func validateConfig(cfg Config) error {
	if !(cfg.Dt > 0) {
		return fmt.Errorf("%w: dt must be positive, got %g", dynamo.ErrInvalidArgument, cfg.Dt)
	}
	if !(cfg.Duration > 0) {
		return fmt.Errorf("%w: duration must be positive, got %g", dynamo.ErrInvalidArgument, cfg.Duration)
	}
	if cfg.SampleEvery < 0 {
		return fmt.Errorf("%w: sample interval must not be negative, got %d", dynamo.ErrInvalidArgument, cfg.SampleEvery)
	}
	return nil
}

// RunWithCallback steps the chain until Duration elapses or callback returns
// false. The callback sees the live chain after each step.
func (s *Simulator) RunWithCallback(ctx context.Context, cfg Config, callback func(c *Chain) bool) error {
	if err := validateConfig(cfg); err != nil {
		return err
	}

	end := s.chain.Time() + cfg.Duration
	for taken := 1; s.chain.Time() < end-cfg.Dt/2; taken++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		s.chain.Update(cfg.Dt)
		s.chain.Project(s.origin)

		if cfg.ValidateState && !s.chain.Valid() {
			return &dynamo.SimulationError{Step: taken, Time: s.chain.Time(), Wrapped: dynamo.ErrInvalidState}
		}
		if !callback(s.chain) {
			return nil
		}
	}
	return nil
}

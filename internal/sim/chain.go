package sim

import (
	"fmt"

	"github.com/san-kum/nchain/internal/dynamo"
	"github.com/san-kum/nchain/internal/integrators"
	"github.com/san-kum/nchain/internal/physics"
)

const (
	// DefaultArmLength is the total length of the chain from anchor to tip.
	DefaultArmLength = 1.0

	// DefaultTraceLength is the number of tip positions kept for the trail.
	DefaultTraceLength = 512
)

type options struct {
	gravity     float64
	armLength   float64
	traceLength int
}

// Option configures a Chain.
type Option func(*options)

// WithGravity sets the gravitational acceleration. Positive values make
// θ = 0 (hanging straight down) the stable equilibrium.
func WithGravity(g float64) Option {
	return func(o *options) { o.gravity = g }
}

// WithArmLength sets the total arm length, split evenly across the links.
func WithArmLength(total float64) Option {
	return func(o *options) { o.armLength = total }
}

// WithTraceLength sets how many tip positions the trail keeps.
func WithTraceLength(n int) Option {
	return func(o *options) { o.traceLength = n }
}

// Chain is one simulated N-link pendulum. It owns its state, its integrator
// and every scratch buffer, so a Chain must not be shared between goroutines
// without external locking. Separate chains are independent.
type Chain struct {
	state   dynamo.ChainState
	initial dynamo.ChainState

	kind    integrators.Kind
	solver  dynamo.Integrator
	gravity float64
	arm     float64

	time  float64
	steps int

	positions []dynamo.Point
	projected bool
	trail     *trail
	pending   bool
}

// New builds a chain from its initial angles and angular velocities. The
// slices are copied. Nothing is built when the arguments are rejected.
func New(thetas, thetaDots []float64, kind integrators.Kind, opts ...Option) (*Chain, error) {
	o := options{
		gravity:     physics.StandardGravity,
		armLength:   DefaultArmLength,
		traceLength: DefaultTraceLength,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.armLength <= 0 {
		return nil, fmt.Errorf("%w: arm length must be positive, got %g", dynamo.ErrInvalidArgument, o.armLength)
	}
	if o.traceLength < 0 {
		return nil, fmt.Errorf("%w: trace length must not be negative, got %d", dynamo.ErrInvalidArgument, o.traceLength)
	}

	state, err := dynamo.NewChainState(thetas, thetaDots)
	if err != nil {
		return nil, err
	}
	solver, err := integrators.New(kind, state.Len(), o.gravity)
	if err != nil {
		return nil, err
	}

	return &Chain{
		state:     state,
		initial:   state.Clone(),
		kind:      kind,
		solver:    solver,
		gravity:   o.gravity,
		arm:       o.armLength / float64(state.Len()),
		positions: make([]dynamo.Point, state.Len()+1),
		trail:     newTrail(o.traceLength),
	}, nil
}

// Update advances the chain by dt. It does not validate dt: zero leaves the
// state unchanged and negative values integrate backwards.
func (c *Chain) Update(dt float64) {
	c.solver.Solve(dt, c.state.Thetas, c.state.ThetaDots)
	c.time += dt
	c.steps++
	c.pending = true
}

// Project computes the n+1 joint positions relative to origin. The first
// projection after an Update appends the tip to the trail. The returned
// slice is reused by the next call.
func (c *Chain) Project(origin dynamo.Point) []dynamo.Point {
	c.positions = physics.ProjectInto(c.positions, c.state.Thetas, origin, c.arm)
	c.projected = true
	if c.pending {
		c.trail.push(c.positions[len(c.positions)-1])
		c.pending = false
	}
	return c.positions
}

// Positions returns a copy of the most recent projection, or nil before the
// first call to Project.
func (c *Chain) Positions() []dynamo.Point {
	if !c.projected {
		return nil
	}
	out := make([]dynamo.Point, len(c.positions))
	copy(out, c.positions)
	return out
}

// Tip returns the last projected tip position.
func (c *Chain) Tip() (dynamo.Point, bool) {
	if !c.projected {
		return dynamo.Point{}, false
	}
	return c.positions[len(c.positions)-1], true
}

// Trace returns the recorded tip positions, oldest first.
func (c *Chain) Trace() []dynamo.Point {
	return c.trail.appendTo(make([]dynamo.Point, 0, c.trail.len()))
}

// TraceLen returns the number of recorded tip positions.
func (c *Chain) TraceLen() int { return c.trail.len() }

// ClearPoints empties the trail. The physical state is left alone.
func (c *Chain) ClearPoints() {
	c.trail.reset()
	c.pending = false
}

// Reset restores the initial conditions and clears the trail.
func (c *Chain) Reset() {
	c.state.CopyFrom(c.initial)
	c.time = 0
	c.steps = 0
	c.ClearPoints()
}

// SwitchSolver replaces the integrator, continuing from the current state.
func (c *Chain) SwitchSolver(kind integrators.Kind) error {
	solver, err := integrators.New(kind, c.state.Len(), c.gravity)
	if err != nil {
		return err
	}
	c.kind = kind
	c.solver = solver
	return nil
}

// SetState overwrites the current angles and angular velocities. Time, step
// count and trail are kept.
func (c *Chain) SetState(s dynamo.ChainState) error {
	if s.Len() != c.state.Len() || len(s.ThetaDots) != len(s.Thetas) {
		return fmt.Errorf("%w: state has %d links, chain has %d", dynamo.ErrInvalidArgument, s.Len(), c.state.Len())
	}
	c.state.CopyFrom(s)
	return nil
}

// State returns a copy of the current angles and angular velocities.
func (c *Chain) State() dynamo.ChainState { return c.state.Clone() }

// Energy returns the total mechanical energy of the current state.
func (c *Chain) Energy() float64 { return physics.Energy(c.state, c.gravity) }

func (c *Chain) Time() float64          { return c.time }
func (c *Chain) Steps() int             { return c.steps }
func (c *Chain) Kind() integrators.Kind { return c.kind }
func (c *Chain) Len() int               { return c.state.Len() }
func (c *Chain) Gravity() float64       { return c.gravity }
func (c *Chain) LinkLength() float64    { return c.arm }
func (c *Chain) Valid() bool            { return c.state.IsValid() }

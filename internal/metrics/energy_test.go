package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/nchain/internal/dynamo"
	"github.com/san-kum/nchain/internal/physics"
)

// constEnergy returns the queued energies in order.
type constEnergy struct {
	values []float64
	i      int
}

func (c *constEnergy) Energy(dynamo.ChainState) float64 {
	v := c.values[c.i%len(c.values)]
	c.i++
	return v
}

func state(thetas, dots []float64) dynamo.ChainState {
	return dynamo.ChainState{Thetas: thetas, ThetaDots: dots}
}

func TestEnergyMean(t *testing.T) {
	m := NewEnergy(physics.Model{Gravity: 9.81})

	theta := math.Pi / 4
	x := state([]float64{theta}, []float64{0})
	m.Observe(x, 0)

	expected := -9.81 * math.Cos(theta)
	if math.Abs(m.Value()-expected) > 1e-9 {
		t.Errorf("expected energy %f, got %f", expected, m.Value())
	}
}

func TestEnergyReset(t *testing.T) {
	m := NewEnergy(physics.Model{Gravity: 9.81})

	m.Observe(state([]float64{1.0}, []float64{1.0}), 0)
	if m.Value() == 0 {
		t.Error("expected non-zero energy")
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero energy after reset")
	}
}

func TestEnergyDriftTracksMaximum(t *testing.T) {
	d := NewEnergyDrift(&constEnergy{values: []float64{-10, -10.5, -9.8, -10}})
	s := state([]float64{0}, []float64{0})
	for i := 0; i < 4; i++ {
		d.Observe(s, float64(i))
	}

	if math.Abs(d.Value()-0.05) > 1e-12 {
		t.Errorf("drift = %v, want 0.05", d.Value())
	}
	if d.Current() != -10 {
		t.Errorf("current = %v, want -10", d.Current())
	}

	d.Reset()
	if d.Value() != 0 {
		t.Error("expected zero drift after reset")
	}
}

func TestEnergyDriftFlagsNonFiniteEnergy(t *testing.T) {
	d := NewEnergyDrift(&constEnergy{values: []float64{-10, math.NaN()}})
	s := state([]float64{0}, []float64{0})
	d.Observe(s, 0)
	d.Observe(s, 1)
	if !math.IsInf(d.Value(), 1) {
		t.Errorf("expected +Inf drift, got %v", d.Value())
	}
}

func TestStability(t *testing.T) {
	m := NewStability(10)
	m.Observe(state([]float64{0.1}, []float64{1}), 0)
	m.Observe(state([]float64{0.1}, []float64{20}), 1)
	m.Observe(state([]float64{math.NaN()}, []float64{0}), 2)
	m.Observe(state([]float64{0.1}, []float64{-3}), 3)

	if got := m.Value(); math.Abs(got-0.5) > 1e-12 {
		t.Errorf("stability = %v, want 0.5", got)
	}
	m.Reset()
	if m.Value() != 1 {
		t.Error("an unobserved run should count as stable")
	}
}

func TestTipPathOfQuarterTurn(t *testing.T) {
	p := NewTipPath(1)
	const steps = 1000
	for i := 0; i <= steps; i++ {
		theta := math.Pi / 2 * float64(i) / steps
		p.Observe(state([]float64{theta}, []float64{0}), 0)
	}

	if math.Abs(p.Value()-math.Pi/2) > 1e-6 {
		t.Errorf("path = %v, want π/2", p.Value())
	}
}

func TestTipPathOfRigidChainAtRest(t *testing.T) {
	p := NewTipPath(0.5)
	s := state([]float64{0.3, -0.2, 0.1}, []float64{0, 0, 0})
	for i := 0; i < 10; i++ {
		p.Observe(s, float64(i))
	}
	if p.Value() != 0 {
		t.Errorf("a chain at rest travelled %v", p.Value())
	}
}

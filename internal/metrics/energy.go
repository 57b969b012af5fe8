package metrics

import (
	"math"

	"github.com/san-kum/nchain/internal/dynamo"
)

// Energy reports the mean total energy over the observed samples.
type Energy struct {
	name        string
	model       dynamo.Hamiltonian
	samples     int
	totalEnergy float64
}

func NewEnergy(model dynamo.Hamiltonian) *Energy {
	return &Energy{
		name:  "energy",
		model: model,
	}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(s dynamo.ChainState, t float64) {
	e.totalEnergy += e.model.Energy(s)
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *Energy) Reset() {
	e.totalEnergy = 0
	e.samples = 0
}

// EnergyDrift reports the largest relative deviation from the energy of the
// first observed sample.
type EnergyDrift struct {
	name          string
	initialEnergy float64
	currentEnergy float64
	maxDrift      float64
	samples       int
	model         dynamo.Hamiltonian
}

func NewEnergyDrift(model dynamo.Hamiltonian) *EnergyDrift {
	return &EnergyDrift{
		name:  "energy_drift",
		model: model,
	}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(s dynamo.ChainState, t float64) {
	energy := e.model.Energy(s)

	if e.samples == 0 {
		e.initialEnergy = energy
	}

	e.currentEnergy = energy
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		if math.IsNaN(drift) {
			drift = math.Inf(1)
		}
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

// Current returns the most recently observed energy.
func (e *EnergyDrift) Current() float64 { return e.currentEnergy }

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.currentEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}

package export

import (
	"encoding/json"
	"io"
	"math"

	"github.com/san-kum/nchain/internal/dynamo"
	"github.com/san-kum/nchain/internal/sim"
)

// Report is the JSON summary of a headless run.
type Report struct {
	Solver      string             `json:"solver"`
	Links       int                `json:"links"`
	Dt          float64            `json:"dt"`
	Duration    float64            `json:"duration"`
	Steps       int                `json:"steps"`
	EnergyDrift *float64           `json:"energy_drift"`
	Error       string             `json:"error,omitempty"`
	Times       []float64          `json:"times"`
	Energies    []float64          `json:"energies"`
	Tips        []dynamo.Point     `json:"tips"`
	Metrics     map[string]float64 `json:"metrics"`
}

func NewReport(cfg sim.Config, result *sim.Result) Report {
	r := Report{
		Solver:   result.Kind.String(),
		Dt:       cfg.Dt,
		Duration: cfg.Duration,
		Steps:    result.StepsTaken,
		Times:    result.Times,
		Energies: result.Energies,
		Tips:     result.Tips,
		Metrics:  result.Metrics,
	}
	// JSON has no Inf, so a diverged run reports null.
	if d := result.EnergyDrift; !math.IsInf(d, 0) && !math.IsNaN(d) {
		r.EnergyDrift = &d
	}
	if len(result.States) > 0 {
		r.Links = result.States[0].Len()
	}
	if result.Err != nil {
		r.Error = result.Err.Error()
	}
	return r
}

// WriteJSON encodes the reports as an indented JSON array.
func WriteJSON(w io.Writer, reports ...Report) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(reports)
}

package metrics

import (
	"math"

	"github.com/san-kum/nchain/internal/dynamo"
)

// Stability is the fraction of samples whose state is finite and whose
// angular velocities all stay within threshold.
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(st dynamo.ChainState, t float64) {
	s.samples++
	if !st.IsValid() {
		s.violations++
		return
	}
	for _, v := range st.ThetaDots {
		if math.Abs(v) > s.threshold {
			s.violations++
			break
		}
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}

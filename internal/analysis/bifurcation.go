package analysis

import (
	"fmt"
	"strings"

	"github.com/san-kum/nchain/internal/dynamo"
	"github.com/san-kum/nchain/internal/integrators"
	"github.com/san-kum/nchain/internal/sim"
)

// BifurcationPoint holds the distinct section values found for one release
// angle.
type BifurcationPoint struct {
	Param  float64
	Values []float64
}

// SweepConfig describes an amplitude sweep.
type SweepConfig struct {
	Links    int
	Kind     integrators.Kind
	MinAngle float64
	MaxAngle float64
	Steps    int

	Dt        float64
	Transient float64
	Record    float64
}

// AmplitudeSweep releases the chain from rest with every link at the same
// angle, for Steps angles between MinAngle and MaxAngle. After the transient
// it records the last link's angle each time the first link swings upward
// through zero. Regular motion gives a few distinct values, chaos a smear.
func AmplitudeSweep(cfg SweepConfig) ([]BifurcationPoint, error) {
	if cfg.Links < 1 || !(cfg.Dt > 0) || cfg.Record <= 0 || cfg.Transient < 0 {
		return nil, fmt.Errorf("%w: bad sweep configuration", dynamo.ErrInvalidArgument)
	}
	steps := max(cfg.Steps, 2)
	paramStep := (cfg.MaxAngle - cfg.MinAngle) / float64(steps-1)

	results := make([]BifurcationPoint, 0, steps)
	thetas := make([]float64, cfg.Links)
	dots := make([]float64, cfg.Links)

	for i := 0; i < steps; i++ {
		param := cfg.MinAngle + float64(i)*paramStep
		for j := range thetas {
			thetas[j] = param
		}

		c, err := sim.New(thetas, dots, cfg.Kind)
		if err != nil {
			return nil, err
		}
		for c.Time() < cfg.Transient {
			c.Update(cfg.Dt)
		}

		// Quantize to find distinct values
		values := make([]float64, 0, 100)
		seen := make(map[int]bool)
		prev := c.State().Thetas[0]
		end := cfg.Transient + cfg.Record
		for c.Time() < end && c.Valid() {
			c.Update(cfg.Dt)
			s := c.State()
			if prev < 0 && s.Thetas[0] >= 0 {
				val := s.Thetas[cfg.Links-1]
				key := int(val * 1000)
				if !seen[key] {
					seen[key] = true
					values = append(values, val)
				}
			}
			prev = s.Thetas[0]
		}

		results = append(results, BifurcationPoint{Param: param, Values: values})
	}
	return results, nil
}

// BifurcationToASCII converts sweep data to ASCII art
func BifurcationToASCII(data []BifurcationPoint, width, height int) string {
	if len(data) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	// Find value range - need at least one valid value
	var minVal, maxVal float64
	foundFirst := false
	for _, p := range data {
		for _, v := range p.Values {
			if !foundFirst {
				minVal, maxVal = v, v
				foundFirst = true
				continue
			}
			minVal = min(minVal, v)
			maxVal = max(maxVal, v)
		}
	}
	if !foundFirst {
		return ""
	}
	if maxVal == minVal {
		maxVal = minVal + 1
	}

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	for i, p := range data {
		col := min(i*width/len(data), width-1)
		for _, v := range p.Values {
			row := height - 1 - int((v-minVal)/(maxVal-minVal)*float64(height-1))
			if row >= 0 && row < height {
				canvas[row][col] = '•'
			}
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}

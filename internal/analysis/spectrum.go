package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// Spectrum is the one-sided power spectrum of a uniformly sampled signal.
type Spectrum struct {
	Frequencies []float64
	Power       []float64
}

// PowerSpectrum computes the spectrum of samples taken every dt seconds. The
// mean is removed and the signal is zero padded to a power of two.
func PowerSpectrum(samples []float64, dt float64) Spectrum {
	if len(samples) < 2 || dt <= 0 {
		return Spectrum{}
	}

	mean := 0.0
	for _, v := range samples {
		mean += v
	}
	mean /= float64(len(samples))

	n := nextPow2(len(samples))
	padded := make([]float64, n)
	for i, v := range samples {
		padded[i] = v - mean
	}

	coeffs := fft.FFTReal(padded)
	half := n / 2
	spec := Spectrum{
		Frequencies: make([]float64, half),
		Power:       make([]float64, half),
	}
	df := 1 / (float64(n) * dt)
	for i := 0; i < half; i++ {
		spec.Frequencies[i] = float64(i) * df
		mag := cmplx.Abs(coeffs[i])
		spec.Power[i] = mag * mag / float64(n)
	}
	return spec
}

// DominantFrequency returns the frequency in Hz of the strongest non-DC bin,
// or zero when there is nothing to measure.
func DominantFrequency(samples []float64, dt float64) float64 {
	spec := PowerSpectrum(samples, dt)
	best, bestPower := 0, 0.0
	for i := 1; i < len(spec.Power); i++ {
		if spec.Power[i] > bestPower {
			best, bestPower = i, spec.Power[i]
		}
	}
	if best == 0 {
		return 0
	}
	return spec.Frequencies[best]
}

func nextPow2(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << int(math.Ceil(math.Log2(float64(n))))
}

package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

type Spectrum struct {
	Freqs []float64
	Power []float64
}

// PowerSpectrum removes the mean, applies a Hann window and returns the
// magnitudes of bins 0..n/2 of a series sampled every dt.
func PowerSpectrum(data []float64, dt float64) Spectrum {
	n := len(data)
	if n < 2 || dt <= 0 {
		return Spectrum{}
	}

	x := make([]float64, n)
	copy(x, data)
	floats.AddConst(-stat.Mean(x, nil), x)
	window.Apply(x, window.Hann)

	bins := fft.FFTReal(x)
	half := n/2 + 1
	s := Spectrum{Freqs: make([]float64, half), Power: make([]float64, half)}
	for k := 0; k < half; k++ {
		s.Freqs[k] = float64(k) / (float64(n) * dt)
		s.Power[k] = cmplx.Abs(bins[k])
	}
	return s
}

// Peak returns the strongest bin above DC, or 0 for an empty or flat
// spectrum.
func (s Spectrum) Peak() float64 {
	if len(s.Power) < 2 {
		return 0
	}
	k := floats.MaxIdx(s.Power[1:]) + 1
	if s.Power[k] == 0 {
		return 0
	}
	return s.Freqs[k]
}

func DominantFrequency(data []float64, dt float64) float64 {
	return PowerSpectrum(data, dt).Peak()
}

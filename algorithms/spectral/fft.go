package spectral

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// FFT wraps the mjibson/go-dsp real-input transform
type FFT struct{}

// NewFFT creates a new FFT calculator
func NewFFT() *FFT {
	return &FFT{}
}

// Compute computes the full complex spectrum of a real frame
func (f *FFT) Compute(x []float64) []complex128 {
	if len(x) == 0 {
		return []complex128{}
	}

	return fft.FFTReal(x)
}

// MagnitudeInto writes |X[k]| for the non-negative frequency bins of x into
// dst (len(x)/2+1 values) and returns dst.
func (f *FFT) MagnitudeInto(dst []float64, x []float64) []float64 {
	bins := len(x)/2 + 1
	if cap(dst) < bins {
		dst = make([]float64, bins)
	}
	dst = dst[:bins]

	if len(x) == 0 {
		return dst[:0]
	}

	spectrum := f.Compute(x)
	for k := range bins {
		dst[k] = cmplx.Abs(spectrum[k])
	}
	return dst
}

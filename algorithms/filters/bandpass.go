package filters

import (
	"fmt"
	"math"
)

// BandpassFilter is a constant 0 dB peak gain biquad bandpass.
//
// Coefficients follow Robert Bristow-Johnson's
// "Cookbook formulae for audio EQ biquad filter coefficients"
// Reference: https://webaudio.github.io/Audio-EQ-Cookbook/audio-eq-cookbook.html
type BandpassFilter struct {
	sampleRate int
	centerFreq float64 // Geometric centre in Hz
	qFactor    float64 // centerFreq / bandwidth

	// Coefficients normalised by a0
	b0, b1, b2 float64
	a1, a2     float64

	// Direct form II delay line
	w1, w2 float64
}

// NewBandpassFilter creates a bandpass filter passing lowFreq..highFreq.
// The centre is the geometric mean of the edges and Q is centre/bandwidth.
func NewBandpassFilter(sampleRate int, lowFreq, highFreq float64) (*BandpassFilter, error) {
	nyquist := float64(sampleRate) / 2
	if sampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be positive, got %d", sampleRate)
	}
	if lowFreq <= 0 || highFreq <= lowFreq || highFreq >= nyquist {
		return nil, fmt.Errorf("band %g-%g Hz must satisfy 0 < low < high < %g Hz", lowFreq, highFreq, nyquist)
	}

	center := math.Sqrt(lowFreq * highFreq)
	bf := &BandpassFilter{
		sampleRate: sampleRate,
		centerFreq: center,
		qFactor:    center / (highFreq - lowFreq),
	}

	bf.computeCoefficients()
	return bf, nil
}

func (bf *BandpassFilter) computeCoefficients() {
	w0 := 2.0 * math.Pi * bf.centerFreq / float64(bf.sampleRate)
	cosW0 := math.Cos(w0)
	alpha := math.Sin(w0) / (2.0 * bf.qFactor)

	a0 := 1.0 + alpha
	bf.b0 = alpha / a0
	bf.b1 = 0.0
	bf.b2 = -alpha / a0
	bf.a1 = -2.0 * cosW0 / a0
	bf.a2 = (1.0 - alpha) / a0
}

// Process filters one sample.
//
//	w[n] = x[n] - a1*w[n-1] - a2*w[n-2]
//	y[n] = b0*w[n] + b1*w[n-1] + b2*w[n-2]
func (bf *BandpassFilter) Process(input float64) float64 {
	w := input - bf.a1*bf.w1 - bf.a2*bf.w2
	output := bf.b0*w + bf.b1*bf.w1 + bf.b2*bf.w2

	bf.w2 = bf.w1
	bf.w1 = w

	return output
}

// ProcessBuffer filters a whole buffer into a new slice, continuing from the
// current delay line
func (bf *BandpassFilter) ProcessBuffer(input []float64) []float64 {
	output := make([]float64, len(input))
	for i, sample := range input {
		output[i] = bf.Process(sample)
	}
	return output
}

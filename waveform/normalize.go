// Package waveform prepares caller audio for feature extraction. It downmixes
// channels, peak-normalizes to [-1, 1] and optionally conditions the signal
// with filtering and gain control. The extractor assumes its input already
// went through these steps and never calls them itself.
package waveform

import (
	"fmt"
	"math"
)

// NormalizationType defines normalization method
type NormalizationType int

const (
	// Peak scales by the largest absolute sample
	Peak NormalizationType = iota
	// RMSNorm scales to unit RMS
	RMSNorm
)

// Normalizer rescales signals before extraction
type Normalizer struct {
	method NormalizationType
}

// NewNormalizer creates a new normalizer
func NewNormalizer(method NormalizationType) *Normalizer {
	return &Normalizer{
		method: method,
	}
}

// Normalize returns a rescaled copy of signal. Silent input is copied as is.
func (n *Normalizer) Normalize(signal []float64) []float64 {
	switch n.method {
	case RMSNorm:
		return n.rmsNormalize(signal)
	default:
		return n.peakNormalize(signal)
	}
}

func (n *Normalizer) peakNormalize(signal []float64) []float64 {
	normalized := make([]float64, len(signal))
	copy(normalized, signal)

	peak := 0.0
	for _, val := range signal {
		abs := math.Abs(val)
		if abs > peak {
			peak = abs
		}
	}

	if peak == 0 {
		return normalized
	}

	for i, val := range signal {
		normalized[i] = val / peak
	}

	return normalized
}

func (n *Normalizer) rmsNormalize(signal []float64) []float64 {
	normalized := make([]float64, len(signal))
	copy(normalized, signal)

	sumSquares := 0.0
	for _, val := range signal {
		sumSquares += val * val
	}
	if sumSquares == 0 {
		return normalized
	}

	rms := math.Sqrt(sumSquares / float64(len(signal)))
	for i, val := range signal {
		normalized[i] = val / rms
	}

	return normalized
}

// PeakNormalize is shorthand for NewNormalizer(Peak).Normalize(signal)
func PeakNormalize(signal []float64) []float64 {
	return NewNormalizer(Peak).Normalize(signal)
}

// ToMono averages interleaved frames of the given channel count into one
// channel. A trailing partial frame is dropped.
func ToMono(interleaved []float64, channels int) ([]float64, error) {
	if channels <= 0 {
		return nil, fmt.Errorf("channel count must be positive, got %d", channels)
	}
	if channels == 1 {
		mono := make([]float64, len(interleaved))
		copy(mono, interleaved)
		return mono, nil
	}

	frames := len(interleaved) / channels
	mono := make([]float64, frames)
	for i := range frames {
		sum := 0.0
		for c := range channels {
			sum += interleaved[i*channels+c]
		}
		mono[i] = sum / float64(channels)
	}

	return mono, nil
}

// Prepare downmixes and peak-normalizes in one step, producing the buffer the
// extractor expects.
func Prepare(interleaved []float64, channels int) ([]float64, error) {
	mono, err := ToMono(interleaved, channels)
	if err != nil {
		return nil, err
	}
	return PeakNormalize(mono), nil
}

package spectral

import (
	"math"
)

const flatnessEpsilon = 1e-12

// SpectralFlatness computes the ratio of geometric to arithmetic mean
// (Wiener entropy). Values near 1 indicate noise, near 0 tonal content.
type SpectralFlatness struct{}

// NewSpectralFlatness creates a new spectral flatness calculator
func NewSpectralFlatness() *SpectralFlatness {
	return &SpectralFlatness{}
}

// Compute returns exp(mean(log(S+ε))) / (mean(S) + ε). A spectrum with zero
// arithmetic mean has no defined flatness and yields 0.
func (sf *SpectralFlatness) Compute(spectrum []float64) float64 {
	if len(spectrum) == 0 {
		return 0.0
	}

	logSum := 0.0
	sum := 0.0
	for _, mag := range spectrum {
		logSum += math.Log(mag + flatnessEpsilon)
		sum += mag
	}

	n := float64(len(spectrum))
	arithmeticMean := sum / n
	if arithmeticMean == 0 {
		return 0.0
	}

	geometricMean := math.Exp(logSum / n)
	return geometricMean / (arithmeticMean + flatnessEpsilon)
}

package spectral

import (
	"math"
)

// SpectralBandwidth computes the magnitude-weighted standard deviation of
// frequency around the centroid
type SpectralBandwidth struct{}

// NewSpectralBandwidth creates a new spectral bandwidth calculator
func NewSpectralBandwidth() *SpectralBandwidth {
	return &SpectralBandwidth{}
}

// Compute returns sqrt(Σ S·(f−c)² / (Σ S + ε)) in Hz
func (sb *SpectralBandwidth) Compute(spectrum, freqs []float64, centroid float64) float64 {
	if len(spectrum) == 0 || len(freqs) < len(spectrum) {
		return 0.0
	}

	weighted := 0.0
	total := 0.0
	for i, mag := range spectrum {
		deviation := freqs[i] - centroid
		weighted += mag * deviation * deviation
		total += mag
	}

	return math.Sqrt(weighted / (total + centroidEpsilon))
}

package spectral

import (
	"math"
)

const entropyEpsilon = 1e-12

// SpectralEntropy computes the Shannon entropy of the spectrum treated as a
// distribution over bins, normalised by log2(bins) into [0, 1]
type SpectralEntropy struct{}

// NewSpectralEntropy creates a new spectral entropy calculator
func NewSpectralEntropy() *SpectralEntropy {
	return &SpectralEntropy{}
}

// Compute returns −Σ p·log2(p+ε) / log2(N) with p = S / (ΣS + ε)
func (se *SpectralEntropy) Compute(spectrum []float64) float64 {
	if len(spectrum) < 2 {
		return 0.0
	}

	total := 0.0
	for _, mag := range spectrum {
		total += mag
	}
	denominator := total + entropyEpsilon

	entropy := 0.0
	for _, mag := range spectrum {
		p := mag / denominator
		entropy -= p * math.Log2(p+entropyEpsilon)
	}

	return entropy / math.Log2(float64(len(spectrum)))
}

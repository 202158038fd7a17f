package spectral

// centroidEpsilon guards the magnitude sum in centroid, bandwidth and the
// higher moments.
const centroidEpsilon = 1e-12

// SpectralCentroid computes the magnitude-weighted mean frequency
type SpectralCentroid struct{}

// NewSpectralCentroid creates a new spectral centroid calculator
func NewSpectralCentroid() *SpectralCentroid {
	return &SpectralCentroid{}
}

// Compute returns Σ f·S / (Σ S + ε) in Hz
func (sc *SpectralCentroid) Compute(spectrum, freqs []float64) float64 {
	if len(spectrum) == 0 || len(freqs) < len(spectrum) {
		return 0.0
	}

	numerator := 0.0
	denominator := 0.0

	for i, mag := range spectrum {
		numerator += freqs[i] * mag
		denominator += mag
	}

	return numerator / (denominator + centroidEpsilon)
}

package spectral

const crestEpsilon = 1e-12

// SpectralCrest computes the peak-to-mean ratio of a magnitude spectrum
type SpectralCrest struct{}

// NewSpectralCrest creates a new spectral crest calculator
func NewSpectralCrest() *SpectralCrest {
	return &SpectralCrest{}
}

// Compute returns max(S) / (mean(S) + ε)
func (sc *SpectralCrest) Compute(spectrum []float64) float64 {
	if len(spectrum) == 0 {
		return 0
	}

	maxVal := spectrum[0]
	sum := 0.0
	for _, mag := range spectrum {
		if mag > maxVal {
			maxVal = mag
		}
		sum += mag
	}

	return maxVal / (sum/float64(len(spectrum)) + crestEpsilon)
}

package spectral

// DefaultRolloffThreshold is the cumulative magnitude fraction for rolloff
const DefaultRolloffThreshold = 0.85

// SpectralRolloff finds the frequency below which a fixed fraction of the
// spectrum's magnitude sum lies
type SpectralRolloff struct {
	threshold float64
}

// NewSpectralRolloff creates a rolloff calculator at the 85% point
func NewSpectralRolloff() *SpectralRolloff {
	return &SpectralRolloff{threshold: DefaultRolloffThreshold}
}

// Compute returns the frequency of the first bin whose cumulative magnitude
// reaches threshold·ΣS, or the top bin when none does.
func (sr *SpectralRolloff) Compute(spectrum, freqs []float64) float64 {
	if len(spectrum) == 0 || len(freqs) < len(spectrum) {
		return 0.0
	}

	total := 0.0
	for _, mag := range spectrum {
		total += mag
	}

	target := sr.threshold * total
	cumulative := 0.0
	for i, mag := range spectrum {
		cumulative += mag
		if cumulative >= target {
			return freqs[i]
		}
	}

	return freqs[len(spectrum)-1]
}

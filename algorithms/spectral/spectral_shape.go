package spectral

import (
	"math"
)

// SpectralShape computes the third and fourth magnitude-weighted moments of
// frequency about the centroid, standardised by the bandwidth
type SpectralShape struct{}

// NewSpectralShape creates a new spectral shape calculator
func NewSpectralShape() *SpectralShape {
	return &SpectralShape{}
}

// Skewness returns tanh(m3 / (bw³ + ε)). The result lies in [−1, 1]: tanh
// rounds to exactly ±1 in float64 once its argument passes about 19.1, as a
// pure tone's spectrum does.
func (ss *SpectralShape) Skewness(spectrum, freqs []float64, centroid, bandwidth float64) float64 {
	m3 := ss.centralMoment(spectrum, freqs, centroid, 3)
	return math.Tanh(m3 / (math.Pow(bandwidth, 3) + centroidEpsilon))
}

// Kurtosis returns max(0, m4 / (bw⁴ + ε) / 3); a Gaussian-shaped spectrum
// lands near 1
func (ss *SpectralShape) Kurtosis(spectrum, freqs []float64, centroid, bandwidth float64) float64 {
	m4 := ss.centralMoment(spectrum, freqs, centroid, 4)
	return math.Max(0, (m4/(math.Pow(bandwidth, 4)+centroidEpsilon))/3.0)
}

// centralMoment returns Σ S·(f−c)^order / (ΣS + ε)
func (ss *SpectralShape) centralMoment(spectrum, freqs []float64, centroid float64, order int) float64 {
	if len(spectrum) == 0 || len(freqs) < len(spectrum) {
		return 0.0
	}

	weighted := 0.0
	total := 0.0
	for i, mag := range spectrum {
		weighted += mag * math.Pow(freqs[i]-centroid, float64(order))
		total += mag
	}

	return weighted / (total + centroidEpsilon)
}

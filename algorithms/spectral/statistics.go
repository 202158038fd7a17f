package spectral

import (
	"github.com/RyanBlaney/drone-sonar/algorithms/common"
)

// Statistics holds the shape descriptors of an averaged magnitude spectrum.
// Frequency-valued fields are in Hz until Normalized is applied.
type Statistics struct {
	Centroid          float64 `json:"centroid"`
	Bandwidth         float64 `json:"bandwidth"`
	Rolloff           float64 `json:"rolloff"`
	Flatness          float64 `json:"flatness"`
	Entropy           float64 `json:"entropy"`
	CrestFactor       float64 `json:"crest_factor"`
	DominantFrequency float64 `json:"dominant_frequency"`
	Skewness          float64 `json:"skewness"`
	Kurtosis          float64 `json:"kurtosis"`
	PeakProminence    float64 `json:"peak_prominence"`
}

// Analyzer bundles the individual spectral calculators
type Analyzer struct {
	centroid  *SpectralCentroid
	bandwidth *SpectralBandwidth
	rolloff   *SpectralRolloff
	flatness  *SpectralFlatness
	entropy   *SpectralEntropy
	crest     *SpectralCrest
	shape     *SpectralShape
}

// NewAnalyzer creates an analyzer with the default 85% rolloff
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		centroid:  NewSpectralCentroid(),
		bandwidth: NewSpectralBandwidth(),
		rolloff:   NewSpectralRolloff(),
		flatness:  NewSpectralFlatness(),
		entropy:   NewSpectralEntropy(),
		crest:     NewSpectralCrest(),
		shape:     NewSpectralShape(),
	}
}

// Compute derives every statistic from spectrum and its frequency axis.
// Skewness and kurtosis use the Hz-valued centroid and bandwidth.
func (a *Analyzer) Compute(spectrum, freqs []float64) Statistics {
	centroid := a.centroid.Compute(spectrum, freqs)
	bandwidth := a.bandwidth.Compute(spectrum, freqs, centroid)

	return Statistics{
		Centroid:          centroid,
		Bandwidth:         bandwidth,
		Rolloff:           a.rolloff.Compute(spectrum, freqs),
		Flatness:          a.flatness.Compute(spectrum),
		Entropy:           a.entropy.Compute(spectrum),
		CrestFactor:       a.crest.Compute(spectrum),
		DominantFrequency: DominantFrequency(spectrum, freqs),
		Skewness:          a.shape.Skewness(spectrum, freqs, centroid, bandwidth),
		Kurtosis:          a.shape.Kurtosis(spectrum, freqs, centroid, bandwidth),
		PeakProminence:    PeakProminence(spectrum),
	}
}

// Normalized returns a copy with the frequency-valued fields divided by the
// Nyquist frequency and clamped to [0, 1]. A non-positive sample rate leaves
// them untouched.
func (s Statistics) Normalized(sampleRate int) Statistics {
	nyquist := float64(sampleRate) / 2.0
	if nyquist <= 0 {
		return s
	}

	s.Centroid = common.Clamp01(s.Centroid / nyquist)
	s.Bandwidth = common.Clamp01(s.Bandwidth / nyquist)
	s.Rolloff = common.Clamp01(s.Rolloff / nyquist)
	s.DominantFrequency = common.Clamp01(s.DominantFrequency / nyquist)
	return s
}

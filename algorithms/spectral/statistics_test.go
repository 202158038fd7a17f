package spectral

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCentroidBandwidthAndShape(t *testing.T) {
	spectrum := []float64{0, 1, 0, 1, 0}
	freqs := []float64{0, 1, 2, 3, 4}

	stats := NewAnalyzer().Compute(spectrum, freqs)

	assert.InDelta(t, 2.0, stats.Centroid, 1e-9)
	assert.InDelta(t, 1.0, stats.Bandwidth, 1e-9)
	assert.InDelta(t, 0.0, stats.Skewness, 1e-9)
	assert.InDelta(t, 1.0/3.0, stats.Kurtosis, 1e-9)
	assert.Equal(t, 1.0, stats.DominantFrequency, "first maximum wins ties")
}

func TestSkewnessIsBounded(t *testing.T) {
	spectrum := []float64{10, 0, 0, 0, 0, 0, 0, 0, 0, 1}
	freqs := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}

	shape := NewSpectralShape()
	c := NewSpectralCentroid().Compute(spectrum, freqs)
	bw := NewSpectralBandwidth().Compute(spectrum, freqs, c)

	skew := shape.Skewness(spectrum, freqs, c, bw)
	assert.Greater(t, skew, 0.0, "energy tail towards high frequencies")
	assert.Less(t, skew, 1.0)
	assert.GreaterOrEqual(t, shape.Kurtosis(spectrum, freqs, c, bw), 0.0)
}

func TestSkewnessSaturatesAtOne(t *testing.T) {
	spectrum := make([]float64, 100)
	freqs := make([]float64, 100)
	for i := range freqs {
		freqs[i] = float64(i)
	}
	spectrum[0] = 1000
	spectrum[99] = 1

	shape := NewSpectralShape()
	c := NewSpectralCentroid().Compute(spectrum, freqs)
	bw := NewSpectralBandwidth().Compute(spectrum, freqs, c)

	// tanh of a standardised moment near 30 rounds to exactly 1
	assert.Equal(t, 1.0, shape.Skewness(spectrum, freqs, c, bw))

	mirrored := make([]float64, 100)
	for i, v := range spectrum {
		mirrored[99-i] = v
	}
	mc := NewSpectralCentroid().Compute(mirrored, freqs)
	mbw := NewSpectralBandwidth().Compute(mirrored, freqs, mc)
	assert.Equal(t, -1.0, shape.Skewness(mirrored, freqs, mc, mbw))
}

func TestRolloff(t *testing.T) {
	r := NewSpectralRolloff()
	freqs := []float64{0, 10, 20, 30}

	assert.Equal(t, 30.0, r.Compute([]float64{1, 1, 1, 1}, freqs))
	assert.Equal(t, 10.0, r.Compute([]float64{5, 5, 0, 0.5}, freqs))
	assert.Equal(t, 0.0, r.Compute([]float64{0, 0, 0, 0}, freqs), "zero target is met by the first bin")
	assert.Equal(t, DefaultRolloffThreshold, r.threshold)
}

func TestFlatness(t *testing.T) {
	f := NewSpectralFlatness()

	assert.InDelta(t, 1.0, f.Compute([]float64{0.3, 0.3, 0.3, 0.3}), 1e-9)
	assert.Equal(t, 0.0, f.Compute([]float64{0, 0, 0}))
	assert.Less(t, f.Compute([]float64{1, 0, 0, 0, 0, 0, 0, 0}), 0.01)
	assert.Equal(t, 0.0, f.Compute(nil))
}

func TestEntropy(t *testing.T) {
	e := NewSpectralEntropy()

	assert.InDelta(t, 1.0, e.Compute([]float64{2, 2, 2, 2, 2, 2, 2, 2}), 1e-9)
	assert.InDelta(t, 0.0, e.Compute([]float64{0, 0, 5, 0}), 1e-9)
	assert.Equal(t, 0.0, e.Compute([]float64{0, 0, 0, 0}))
}

func TestCrest(t *testing.T) {
	c := NewSpectralCrest()

	assert.InDelta(t, 1.0, c.Compute([]float64{1, 1, 1, 1}), 1e-9)
	assert.InDelta(t, 4.0, c.Compute([]float64{4, 0, 0, 0}), 1e-9)
	assert.Equal(t, 0.0, c.Compute([]float64{0, 0}))
}

func TestPeakProminence(t *testing.T) {
	assert.Equal(t, 0.0, PeakProminence([]float64{1, 1, 1, 1}))
	assert.Equal(t, 0.0, PeakProminence(make([]float64, 16)))

	spiky := make([]float64, 100)
	spiky[42] = 9
	// top3 = 3, mean = 0.09
	assert.InDelta(t, 2.91/3.09, PeakProminence(spiky), 1e-9)

	assert.InDelta(t, 0.0, PeakProminence([]float64{2, 2}), 1e-12, "fewer than three bins uses all of them")
}

func TestNormalizedClampsToNyquist(t *testing.T) {
	stats := Statistics{
		Centroid:          11025,
		Bandwidth:         30000,
		Rolloff:           22050,
		DominantFrequency: 440,
		CrestFactor:       12,
	}

	n := stats.Normalized(44100)
	assert.Equal(t, 0.5, n.Centroid)
	assert.Equal(t, 1.0, n.Bandwidth)
	assert.Equal(t, 1.0, n.Rolloff)
	assert.InDelta(t, 440.0/22050.0, n.DominantFrequency, 1e-15)
	assert.Equal(t, 12.0, n.CrestFactor, "ratio features are left alone")

	assert.Equal(t, stats, stats.Normalized(0))
}

package waveform

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/drone-sonar/algorithms/common"
)

const testSampleRate = 44100

func tone(freq, amplitude, offset float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = offset + amplitude*math.Sin(2*math.Pi*freq*float64(i)/testSampleRate)
	}
	return out
}

func TestDefaultPreprocessConfig(t *testing.T) {
	cfg := DefaultPreprocessConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 50.0, cfg.HighPassCutoff)
	assert.Equal(t, 100.0, cfg.BandLow)
	assert.Equal(t, 5000.0, cfg.BandHigh)
	assert.Equal(t, 0.3, cfg.TargetRMS)
	assert.False(t, cfg.NoiseReduction)
}

func TestPreprocessHighPassRemovesDC(t *testing.T) {
	input := tone(1000, 0.25, 0.5, testSampleRate)
	cfg := PreprocessConfig{HighPass: true, HighPassCutoff: 50}

	out, err := Preprocess(input, testSampleRate, cfg)
	require.NoError(t, err)
	require.Len(t, out, len(input))

	assert.InDelta(t, 0.0, common.Mean(out[testSampleRate/2:]), 1e-3)
	assert.InDelta(t, 0.5, common.Mean(input), 1e-3, "input must not be modified")
}

func TestPreprocessAGCReachesTarget(t *testing.T) {
	input := tone(440, 0.05, 0, testSampleRate)
	cfg := PreprocessConfig{AGC: true, TargetRMS: 0.3}

	out, err := Preprocess(input, testSampleRate, cfg)
	require.NoError(t, err)

	assert.InDelta(t, 0.3, common.RMS(out), 1e-9)
}

func TestPreprocessAGCSoftLimits(t *testing.T) {
	// A lone spike in 25 samples levels to 5·0.3 = 1.5
	input := make([]float64, 25)
	input[12] = 1

	out, err := Preprocess(input, testSampleRate, PreprocessConfig{AGC: true, TargetRMS: 0.3})
	require.NoError(t, err)

	assert.Greater(t, out[12], agcKnee)
	assert.Less(t, out[12], 1.0)
	assert.Equal(t, 0.0, out[0])

	// Far past the knee tanh rounds to 1, which caps the output
	input = make([]float64, 400)
	input[0] = -1
	out, err = Preprocess(input, testSampleRate, PreprocessConfig{AGC: true, TargetRMS: 0.3})
	require.NoError(t, err)
	assert.Equal(t, -1.0, out[0])
}

func TestPreprocessDefaultPipeline(t *testing.T) {
	input := tone(1000, 0.8, 0.1, testSampleRate)

	out, err := Preprocess(input, testSampleRate, DefaultPreprocessConfig())
	require.NoError(t, err)
	require.Len(t, out, len(input))

	assert.InDelta(t, 0.3, common.RMS(out), 1e-9)
	for _, v := range out {
		require.Less(t, math.Abs(v), 1.0)
	}
}

func TestPreprocessClampsBandBelowNyquist(t *testing.T) {
	input := tone(440, 0.5, 0, 8000)

	out, err := Preprocess(input, 8000, DefaultPreprocessConfig())
	require.NoError(t, err)
	assert.Len(t, out, len(input))
}

func TestPreprocessEdgeCases(t *testing.T) {
	cfg := DefaultPreprocessConfig()

	out, err := Preprocess(nil, testSampleRate, cfg)
	require.NoError(t, err)
	assert.Empty(t, out)

	silent := make([]float64, 2048)
	out, err = Preprocess(silent, testSampleRate, cfg)
	require.NoError(t, err)
	assert.Equal(t, silent, out)

	_, err = Preprocess(silent, 0, cfg)
	assert.Error(t, err)
}

func TestPreprocessConfigValidate(t *testing.T) {
	cases := []struct {
		name   string
		modify func(*PreprocessConfig)
	}{
		{"negative cutoff", func(c *PreprocessConfig) { c.HighPassCutoff = -1 }},
		{"inverted band", func(c *PreprocessConfig) { c.BandLow, c.BandHigh = 5000, 100 }},
		{"zero target", func(c *PreprocessConfig) { c.TargetRMS = 0 }},
		{"target above one", func(c *PreprocessConfig) { c.TargetRMS = 1.5 }},
		{"alpha too large", func(c *PreprocessConfig) { c.NoiseReduction, c.NoiseAlpha = true, 0.5 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultPreprocessConfig()
			tc.modify(&cfg)
			assert.Error(t, cfg.Validate())

			_, err := Preprocess([]float64{0.1, 0.2}, testSampleRate, cfg)
			assert.Error(t, err)
		})
	}

	disabled := PreprocessConfig{HighPassCutoff: -1, TargetRMS: 7}
	assert.NoError(t, disabled.Validate(), "disabled stages are not checked")
}

// withLeadIn prepends lead seconds of noise to a tone and adds noise of the
// given level throughout
func withLeadIn(rng *rand.Rand, lead float64, noiseLevel float64) []float64 {
	leadSamples := int(lead * testSampleRate)
	out := make([]float64, testSampleRate)
	body := tone(1000, 0.5, 0, len(out))
	for i := range out {
		out[i] = noiseLevel * rng.NormFloat64()
		if i >= leadSamples {
			out[i] += body[i]
		}
	}
	return out
}

func TestEstimateSNROrdersCleanAboveNoisy(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))

	clean := EstimateSNR(withLeadIn(rng, 0.1, 0.001))
	noisy := EstimateSNR(withLeadIn(rng, 0.1, 0.1))

	assert.Greater(t, clean, noisy)
	assert.Greater(t, clean, 40.0)
	assert.Less(t, noisy, 20.0)
}

func TestEstimateSNREdgeCases(t *testing.T) {
	assert.Equal(t, 0.0, EstimateSNR(nil))

	silentLead := make([]float64, testSampleRate)
	copy(silentLead[testSampleRate/10:], tone(440, 0.5, 0, testSampleRate))
	assert.Equal(t, noSNRNoise, EstimateSNR(silentLead))

	// Shorter than the minimum noise window: the whole buffer is the window
	short := tone(440, 0.5, 0, 300)
	assert.InDelta(t, 0.0, EstimateSNR(short), 1e-9)
}

func TestPreprocessNoiseReduction(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	input := withLeadIn(rng, 0.1, 0.05)
	lead := testSampleRate / 10

	out, err := Preprocess(input, testSampleRate, PreprocessConfig{NoiseReduction: true, NoiseAlpha: 0.1})
	require.NoError(t, err)

	assert.Less(t, common.RMS(out[:lead]), common.RMS(input[:lead]))
	assert.Greater(t, EstimateSNR(out), EstimateSNR(input))

	short := []float64{0.1, -0.1, 0.2}
	out, err = Preprocess(short, testSampleRate, PreprocessConfig{NoiseReduction: true, NoiseAlpha: 0.1})
	require.NoError(t, err)
	assert.Equal(t, short, out)
}

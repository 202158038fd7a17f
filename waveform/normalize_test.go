package waveform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeakNormalize(t *testing.T) {
	in := []float64{0.25, -0.5, 0.1}
	out := PeakNormalize(in)

	assert.Equal(t, []float64{0.5, -1, 0.2}, out)
	assert.Equal(t, 0.25, in[0], "input must not be mutated")
}

func TestPeakNormalizeSilence(t *testing.T) {
	out := PeakNormalize([]float64{0, 0, 0})
	assert.Equal(t, []float64{0, 0, 0}, out)

	assert.Empty(t, PeakNormalize(nil))
}

func TestRMSNormalize(t *testing.T) {
	out := NewNormalizer(RMSNorm).Normalize([]float64{2, -2, 2, -2})
	assert.Equal(t, []float64{1, -1, 1, -1}, out)
}

func TestToMono(t *testing.T) {
	mono, err := ToMono([]float64{1, 0, 0.5, 0.5, -1, 1, 9}, 2)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, 0.5, 0}, mono)

	_, err = ToMono([]float64{1}, 0)
	assert.Error(t, err)
}

func TestPrepare(t *testing.T) {
	out, err := Prepare([]float64{0.2, 0.2, -0.4, -0.4}, 2)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, -1}, out)
}

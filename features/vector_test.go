package features

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexContract(t *testing.T) {
	names := Names()
	require.Len(t, names, Dimension)

	assert.Equal(t, "rms", names[RMS])
	assert.Equal(t, "zcr", names[ZeroCrossingRate])
	assert.Equal(t, "dominant_frequency", names[DominantFrequency])
	assert.Equal(t, "crest_factor", names[CrestFactor])
	assert.Equal(t, "am_depth", names[AMDepth])
	assert.Equal(t, "harmonic_strength", names[HarmonicStrength])
	assert.Equal(t, Dimension-1, int(HarmonicStrength))

	assert.Equal(t, "spectral_entropy", SpectralEntropy.String())
	assert.Equal(t, "unknown", Index(Dimension).String())
	assert.Equal(t, "unknown", Index(-1).String())

	names[0] = "changed"
	assert.Equal(t, "rms", Names()[0], "Names returns a copy")
}

func TestAssemble(t *testing.T) {
	var raw [Dimension]float64
	raw[RMS] = 3
	raw[Variance] = 4

	v := Assemble(raw)
	assert.Equal(t, 0.6, v[RMS])
	assert.Equal(t, 0.8, v[Variance])
	assert.InDelta(t, 1.0, v.Norm(), 1e-12)
	assert.False(t, v.IsZero())

	zero := Assemble([Dimension]float64{})
	assert.True(t, zero.IsZero())
	assert.Equal(t, 0.0, zero.Norm())
}

func TestAssembleRoundsToSixDecimals(t *testing.T) {
	var raw [Dimension]float64
	raw[RMS] = 1
	raw[ZeroCrossingRate] = 1e-3
	raw[SpectralCentroid] = 3e-7

	v := Assemble(raw)
	for i, x := range v {
		assert.Equal(t, math.Round(x*1e6)/1e6, x, "component %d", i)
	}
	assert.Equal(t, 0.0, v[SpectralCentroid], "3e-7 rounds away")
}

func TestVectorAccessors(t *testing.T) {
	var v Vector
	v[OnsetRate] = 0.25

	s := v.Slice()
	require.Len(t, s, Dimension)
	s[OnsetRate] = 1
	assert.Equal(t, 0.25, v.Get(OnsetRate), "Slice returns a copy")

	m := v.Map()
	assert.Len(t, m, Dimension)
	assert.Equal(t, 0.25, m["onset_rate"])
}

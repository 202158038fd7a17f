package features

import (
	"github.com/RyanBlaney/drone-sonar/algorithms/common"
)

// Dimension is the length of the feature vector
const Dimension = 19

// RoundingDecimals is the number of decimals kept in every component
const RoundingDecimals = 6

// Index identifies a position in the feature vector. The order is shared
// with every consumer of stored vectors and must never change.
type Index int

const (
	RMS Index = iota
	ZeroCrossingRate
	SpectralCentroid
	SpectralBandwidth
	SpectralRolloff
	SpectralFlatness
	DominantFrequency
	CrestFactor
	SpectralEntropy
	Variance
	TemporalCentroid
	OnsetRate
	AMDepth
	Skewness
	Kurtosis
	PeakProminence
	HarmonicRatio
	HarmonicCount
	HarmonicStrength
)

var indexNames = [Dimension]string{
	"rms",
	"zcr",
	"spectral_centroid",
	"spectral_bandwidth",
	"spectral_rolloff",
	"spectral_flatness",
	"dominant_frequency",
	"crest_factor",
	"spectral_entropy",
	"variance",
	"temporal_centroid",
	"onset_rate",
	"am_depth",
	"skewness",
	"kurtosis",
	"peak_prominence",
	"harmonic_ratio",
	"harmonic_count",
	"harmonic_strength",
}

// String returns the feature name, e.g. "spectral_centroid"
func (i Index) String() string {
	if i < 0 || int(i) >= Dimension {
		return "unknown"
	}
	return indexNames[i]
}

// Names returns the feature names in vector order
func Names() []string {
	names := make([]string, Dimension)
	copy(names, indexNames[:])
	return names
}

// Vector is the assembled descriptor: unit L2 norm, or all zero for silent
// input, with every component rounded to six decimals.
type Vector [Dimension]float64

// Slice returns the components as a new slice
func (v Vector) Slice() []float64 {
	out := make([]float64, Dimension)
	copy(out, v[:])
	return out
}

// Get returns the component at i
func (v Vector) Get(i Index) float64 {
	return v[i]
}

// Norm returns the Euclidean norm of v
func (v Vector) Norm() float64 {
	return common.L2Norm(v[:])
}

// IsZero reports whether every component is zero
func (v Vector) IsZero() bool {
	return v == Vector{}
}

// Map returns the components keyed by feature name
func (v Vector) Map() map[string]float64 {
	m := make(map[string]float64, Dimension)
	for i, name := range indexNames {
		m[name] = v[i]
	}
	return m
}

// Assemble turns raw feature values in index order into a Vector: divide by
// the L2 norm when it is positive, then round each component to six decimals
// with ties going to even.
func Assemble(raw [Dimension]float64) Vector {
	v := Vector(raw)
	common.L2Normalize(v[:])
	for i := range v {
		v[i] = common.RoundTo(v[i], RoundingDecimals)
	}
	return v
}

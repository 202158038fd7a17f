package temporal

import (
	"github.com/RyanBlaney/drone-sonar/algorithms/common"
)

const centroidEpsilon = 1e-12

// Energy computes whole-signal energy descriptors
type Energy struct{}

// NewEnergy creates a new energy calculator
func NewEnergy() *Energy {
	return &Energy{}
}

// RMS returns sqrt(mean(x²)), 0 for an empty signal
func (e *Energy) RMS(signal []float64) float64 {
	return common.RMS(signal)
}

// Variance returns the population variance of the samples
func (e *Energy) Variance(signal []float64) float64 {
	return common.PopVariance(signal)
}

// TemporalCentroid returns the energy-weighted mean sample position as a
// fraction of the signal length: Σ(i·x²) / (Σx² + ε) / N
func (e *Energy) TemporalCentroid(signal []float64) float64 {
	if len(signal) == 0 {
		return 0.0
	}

	weighted := 0.0
	total := 0.0
	for i, x := range signal {
		energy := x * x
		weighted += float64(i) * energy
		total += energy
	}

	return weighted / (total + centroidEpsilon) / float64(len(signal))
}

package spectral

import (
	"slices"

	"github.com/RyanBlaney/drone-sonar/algorithms/common"
)

const prominenceEpsilon = 1e-9

// DominantFrequency returns the frequency of the first maximum bin, or 0 for
// an empty spectrum
func DominantFrequency(spectrum, freqs []float64) float64 {
	if len(spectrum) == 0 || len(freqs) < len(spectrum) {
		return 0.0
	}

	return freqs[common.ArgMax(spectrum)]
}

// PeakProminence measures how far the three strongest bins stand above the
// spectrum mean: (top3 − mean) / (top3 + mean + ε), clamped to [0, 1]. With
// fewer than three bins all of them are used.
func PeakProminence(spectrum []float64) float64 {
	if len(spectrum) == 0 {
		return 0.0
	}

	sorted := slices.Clone(spectrum)
	slices.Sort(sorted)

	top := sorted[max(0, len(sorted)-3):]
	topSum := 0.0
	for _, mag := range top {
		topSum += mag
	}
	topAvg := topSum / float64(len(top))

	sum := 0.0
	for _, mag := range spectrum {
		sum += mag
	}
	mean := sum / float64(len(spectrum))

	prominence := (topAvg - mean) / (topAvg + mean + prominenceEpsilon)
	if prominence < 0 {
		return 0
	}
	if prominence > 1 {
		return 1
	}
	return prominence
}

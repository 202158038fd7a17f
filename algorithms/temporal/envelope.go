package temporal

import (
	"math"

	"github.com/RyanBlaney/drone-sonar/algorithms/common"
	"github.com/RyanBlaney/drone-sonar/algorithms/filters"
)

const modulationEpsilon = 1e-9

// Envelope provides amplitude envelope extraction
type Envelope struct {
	preEmphasis *filters.PreEmphasis
}

// NewEnvelope creates a new envelope extractor
func NewEnvelope() *Envelope {
	return &Envelope{
		preEmphasis: filters.NewPreEmphasisDefault(),
	}
}

// ComputeRMS computes the RMS envelope over unpadded frames. Trailing samples
// that do not fill a frame are dropped; a signal shorter than one frame
// yields a single value over the whole signal.
func (e *Envelope) ComputeRMS(signal []float64, frameSize, hopSize int) []float64 {
	if len(signal) == 0 || frameSize <= 0 || hopSize <= 0 {
		return []float64{}
	}

	if len(signal) < frameSize {
		return []float64{common.RMS(signal)}
	}

	numFrames := (len(signal)-frameSize)/hopSize + 1
	envelope := make([]float64, numFrames)

	for i := range numFrames {
		startIdx := i * hopSize
		envelope[i] = common.RMS(signal[startIdx : startIdx+frameSize])
	}

	return envelope
}

// ModulationDepth measures amplitude modulation as the coefficient of
// variation of the rectified pre-emphasised signal:
// min(1, std(|y|) / (mean(|y|) + ε)) with y[n] = x[n] - 0.97*x[n-1].
func (e *Envelope) ModulationDepth(signal []float64) float64 {
	if len(signal) == 0 {
		return 0.0
	}

	rectified := e.preEmphasis.Apply(signal)
	for i, y := range rectified {
		rectified[i] = math.Abs(y)
	}

	mean, std := common.PopMeanStdDev(rectified)
	return math.Min(1.0, std/(mean+modulationEpsilon))
}

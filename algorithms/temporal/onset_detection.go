package temporal

import (
	"math"

	"github.com/RyanBlaney/drone-sonar/algorithms/common"
)

const (
	// DefaultOnsetFrameSize is the RMS envelope frame length
	DefaultOnsetFrameSize = 512
	// DefaultOnsetHopSize is the RMS envelope hop
	DefaultOnsetHopSize = 256
	// DefaultMinOnsetInterval is the minimum spacing between onsets in seconds
	DefaultMinOnsetInterval = 0.05
	// MaxOnsetRate is the rate in onsets/second that maps to 1.0
	MaxOnsetRate = 20.0

	// An onset rise must reach this fraction of the envelope maximum
	relativeRiseFloor = 0.05
)

// OnsetDetection detects energy onsets from the rise of the RMS envelope
type OnsetDetection struct {
	envelopeExtractor *Envelope
	frameSize         int
	hopSize           int
	minInterval       float64
}

// NewOnsetDetection creates a new onset detector with the default envelope
// framing and a 50 ms refractory interval
func NewOnsetDetection() *OnsetDetection {
	return &OnsetDetection{
		envelopeExtractor: NewEnvelope(),
		frameSize:         DefaultOnsetFrameSize,
		hopSize:           DefaultOnsetHopSize,
		minInterval:       DefaultMinOnsetInterval,
	}
}

// DetectOnsetsEnergy returns onset positions in samples. A rise
// r[k] = max(0, e[k+1] - e[k]) of the envelope e is an onset when it is a
// strict local maximum, reaches both mean(r)+std(r) and 5% of max(e), and
// lies at least minInterval after the previous onset.
func (od *OnsetDetection) DetectOnsetsEnergy(signal []float64, sampleRate int) []int {
	if len(signal) == 0 || sampleRate <= 0 {
		return []int{}
	}

	envelope := od.envelopeExtractor.ComputeRMS(signal, od.frameSize, od.hopSize)
	if len(envelope) < 2 {
		return []int{}
	}

	// Only positive changes
	energyDiff := make([]float64, len(envelope)-1)
	for i := range energyDiff {
		energyDiff[i] = math.Max(0, envelope[i+1]-envelope[i])
	}

	mean, std := common.PopMeanStdDev(energyDiff)
	threshold := math.Max(mean+std, relativeRiseFloor*common.Max(envelope))

	onsetFrames := od.findFluxPeaks(energyDiff, threshold, sampleRate)

	onsetSamples := make([]int, len(onsetFrames))
	for i, frameIdx := range onsetFrames {
		onsetSamples[i] = frameIdx * od.hopSize
	}

	return onsetSamples
}

// Rate returns onsets per second normalised by MaxOnsetRate into [0, 1]
func (od *OnsetDetection) Rate(signal []float64, sampleRate int) float64 {
	if len(signal) == 0 || sampleRate <= 0 {
		return 0.0
	}

	onsets := od.DetectOnsetsEnergy(signal, sampleRate)
	duration := float64(len(signal)) / float64(sampleRate)
	rate := float64(len(onsets)) / duration

	return math.Min(1.0, rate/MaxOnsetRate)
}

// findFluxPeaks finds interior strict local maxima at or above threshold,
// spaced at least minInterval apart
func (od *OnsetDetection) findFluxPeaks(flux []float64, threshold float64, sampleRate int) []int {
	if len(flux) < 3 {
		return []int{}
	}

	minIntervalFrames := int(math.Ceil(od.minInterval * float64(sampleRate) / float64(od.hopSize)))

	var peaks []int
	lastPeakFrame := -minIntervalFrames // Allow first peak

	for i := 1; i < len(flux)-1; i++ {
		if flux[i] > flux[i-1] &&
			flux[i] > flux[i+1] &&
			flux[i] >= threshold &&
			i-lastPeakFrame >= minIntervalFrames {
			peaks = append(peaks, i)
			lastPeakFrame = i
		}
	}

	return peaks
}

package temporal

import (
	"math"
)

const (
	// DefaultZCRFrameSize matches the spectral frame length
	DefaultZCRFrameSize = 2048
	// DefaultZCRHopSize matches the spectral hop
	DefaultZCRHopSize = 1024

	// Samples with magnitude at or below this are treated as zero
	zeroThreshold = 1e-10
)

// ZeroCrossingRate computes the framed zero crossing rate. Frames are
// centered: the signal is padded by half a frame on each side by repeating
// its edge samples, giving 1 + len/hop frames.
type ZeroCrossingRate struct {
	frameSize int
	hopSize   int
}

// NewZeroCrossingRate creates a ZCR calculator with the default framing
func NewZeroCrossingRate() *ZeroCrossingRate {
	return NewZeroCrossingRateWithFrames(DefaultZCRFrameSize, DefaultZCRHopSize)
}

// NewZeroCrossingRateWithFrames creates a ZCR calculator with custom framing;
// non-positive sizes fall back to the defaults.
func NewZeroCrossingRateWithFrames(frameSize, hopSize int) *ZeroCrossingRate {
	if frameSize <= 0 {
		frameSize = DefaultZCRFrameSize
	}
	if hopSize <= 0 {
		hopSize = DefaultZCRHopSize
	}
	return &ZeroCrossingRate{frameSize: frameSize, hopSize: hopSize}
}

// Compute returns the mean of the per-frame rates, 0 for an empty signal
func (z *ZeroCrossingRate) Compute(signal []float64) float64 {
	rates := z.ComputeFrames(signal)
	if len(rates) == 0 {
		return 0.0
	}

	sum := 0.0
	for _, r := range rates {
		sum += r
	}
	return sum / float64(len(rates))
}

// ComputeFrames returns crossings/frameSize for every centered frame. A
// crossing is counted between neighbouring samples of a frame whose signs
// differ, with zero counted as positive.
func (z *ZeroCrossingRate) ComputeFrames(signal []float64) []float64 {
	if len(signal) == 0 {
		return []float64{}
	}

	numFrames := 1 + len(signal)/z.hopSize
	rates := make([]float64, numFrames)
	pad := z.frameSize / 2

	for t := range numFrames {
		start := t*z.hopSize - pad

		crossings := 0
		previous := negative(edgeSample(signal, start))
		for i := 1; i < z.frameSize; i++ {
			current := negative(edgeSample(signal, start+i))
			if current != previous {
				crossings++
			}
			previous = current
		}

		rates[t] = float64(crossings) / float64(z.frameSize)
	}

	return rates
}

// edgeSample reads signal[idx], repeating the first and last samples outside
// the signal
func edgeSample(signal []float64, idx int) float64 {
	if idx < 0 {
		return signal[0]
	}
	if idx >= len(signal) {
		return signal[len(signal)-1]
	}
	return signal[idx]
}

func negative(x float64) bool {
	return x < 0 && math.Abs(x) > zeroThreshold
}

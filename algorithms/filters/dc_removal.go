package filters

import (
	"fmt"
	"math"
)

// DCRemoval is a one-pole DC blocker, used as a gentle high-pass ahead of
// extraction.
//
// References:
//   - Julius O. Smith III, "Introduction to Digital Filters with Audio Applications"
//     https://ccrma.stanford.edu/~jos/filters/DC_Blocker.html
type DCRemoval struct {
	poleLocation float64 // R parameter (0 < R < 1)

	x1 float64 // x[n-1]
	y1 float64 // y[n-1]
}

// NewDCRemoval creates a DC blocker whose -3 dB point sits near cutoffFreq.
// The pole follows the small angle approximation R = 1 - 2*pi*fc/fs, clamped
// to [0.001, 0.999].
func NewDCRemoval(sampleRate int, cutoffFreq float64) (*DCRemoval, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be positive, got %d", sampleRate)
	}
	if cutoffFreq <= 0 || cutoffFreq >= float64(sampleRate)/2 {
		return nil, fmt.Errorf("cutoff %g Hz must lie in (0, %g) Hz", cutoffFreq, float64(sampleRate)/2)
	}

	r := 1.0 - 2.0*math.Pi*cutoffFreq/float64(sampleRate)
	r = math.Min(math.Max(r, 0.001), 0.999)

	return &DCRemoval{poleLocation: r}, nil
}

// Process filters one sample: y[n] = x[n] - x[n-1] + R*y[n-1]
func (dc *DCRemoval) Process(input float64) float64 {
	output := input - dc.x1 + dc.poleLocation*dc.y1

	dc.x1 = input
	dc.y1 = output

	return output
}

// ProcessBuffer filters a whole buffer into a new slice, continuing from the
// current state
func (dc *DCRemoval) ProcessBuffer(input []float64) []float64 {
	output := make([]float64, len(input))
	for i, sample := range input {
		output[i] = dc.Process(sample)
	}
	return output
}

package filters

// DefaultPreEmphasis is the coefficient used for envelope analysis
const DefaultPreEmphasis = 0.97

// PreEmphasis implements a first-order high-pass filter with transfer
// function H(z) = 1 - α*z^-1, i.e. the difference equation
//
//	y[n] = x[n] - α*x[n-1]
//
// Batch filtering seeds x[-1] by linear extrapolation (2*x[0] - x[1]) so the
// first output sample carries no artificial step.
//
// References:
//   - L.R. Rabiner, R.W. Schafer, "Digital Processing of Speech Signals",
//     Prentice-Hall, 1978, Chapter 4
type PreEmphasis struct {
	coefficient float64 // Pre-emphasis coefficient α
}

// NewPreEmphasis creates a pre-emphasis filter with the given coefficient.
// Typical values lie in 0.9-0.99.
func NewPreEmphasis(coefficient float64) *PreEmphasis {
	return &PreEmphasis{coefficient: coefficient}
}

// NewPreEmphasisDefault creates a pre-emphasis filter with α = 0.97
func NewPreEmphasisDefault() *PreEmphasis {
	return NewPreEmphasis(DefaultPreEmphasis)
}

// Apply filters a whole signal into a new slice. The input is not modified.
func (pe *PreEmphasis) Apply(signal []float64) []float64 {
	output := make([]float64, len(signal))
	if len(signal) == 0 {
		return output
	}

	previous := signal[0]
	if len(signal) > 1 {
		previous = 2*signal[0] - signal[1]
	}

	for i, x := range signal {
		output[i] = x - pe.coefficient*previous
		previous = x
	}

	return output
}

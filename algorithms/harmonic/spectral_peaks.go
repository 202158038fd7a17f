package harmonic

import (
	"github.com/RyanBlaney/drone-sonar/algorithms/common"
)

// SpectralPeak represents a detected spectral peak
type SpectralPeak struct {
	Frequency float64 `json:"frequency"` // Peak frequency in Hz
	Magnitude float64 `json:"magnitude"` // Peak magnitude
	BinIndex  int     `json:"bin_index"` // Original FFT bin index
	Harmonic  int     `json:"harmonic"`  // Harmonic number (1 = fundamental), 0 if unassigned
}

// SpectralPeaks finds local maxima that stand above the spectrum mean
type SpectralPeaks struct {
	relativeHeight float64 // Minimum height as a multiple of the mean magnitude
}

// NewSpectralPeaks creates a peak detector requiring peaks to exceed
// relativeHeight times the mean magnitude
func NewSpectralPeaks(relativeHeight float64) *SpectralPeaks {
	return &SpectralPeaks{relativeHeight: relativeHeight}
}

// DetectPeaks returns interior bins strictly greater than both neighbours and
// strictly greater than relativeHeight·mean, in bin order. freqs may be nil,
// in which case Frequency is left at 0.
func (sp *SpectralPeaks) DetectPeaks(magnitudeSpectrum, freqs []float64) []SpectralPeak {
	if len(magnitudeSpectrum) < 3 {
		return []SpectralPeak{}
	}

	minHeight := sp.relativeHeight * common.Mean(magnitudeSpectrum)

	var peaks []SpectralPeak
	for i := 1; i < len(magnitudeSpectrum)-1; i++ {
		if magnitudeSpectrum[i] > magnitudeSpectrum[i-1] &&
			magnitudeSpectrum[i] > magnitudeSpectrum[i+1] &&
			magnitudeSpectrum[i] > minHeight {

			peak := SpectralPeak{
				Magnitude: magnitudeSpectrum[i],
				BinIndex:  i,
			}
			if i < len(freqs) {
				peak.Frequency = freqs[i]
			}
			peaks = append(peaks, peak)
		}
	}

	return peaks
}

package harmonic

import (
	"github.com/RyanBlaney/drone-sonar/algorithms/common"
)

const (
	// MaxHarmonics bounds the harmonic search, fundamental included
	MaxHarmonics = 10

	peakRelativeHeight     = 1.2 // peaks must exceed 1.2x the mean magnitude
	harmonicRelativeHeight = 1.5 // harmonics must exceed 1.5x the mean magnitude
	harmonicTolerance      = 0.1 // search half-width as a fraction of f0
	maxSearchWindow        = 10  // bins
)

// Result holds the harmonic descriptors of a spectrum together with the
// confirmed harmonics
type Result struct {
	Ratio     float64        `json:"harmonic_ratio"`    // Energy in confirmed harmonics over total energy
	Count     float64        `json:"harmonic_count"`    // Confirmed harmonics / 10, capped at 1
	Strength  float64        `json:"harmonic_strength"` // Mean confirmed magnitude over the spectrum maximum
	Harmonics []SpectralPeak `json:"harmonics,omitempty"`
}

// Detector measures how much of a magnitude spectrum is explained by the
// harmonic series of a given fundamental. It holds no mutable state.
type Detector struct {
	peaks *SpectralPeaks
}

// NewDetector creates a harmonic detector
func NewDetector() *Detector {
	return &Detector{
		peaks: NewSpectralPeaks(peakRelativeHeight),
	}
}

// Detect returns the harmonic ratio, count and strength of spectrum for the
// fundamental f0. See DetectHarmonics.
func (d *Detector) Detect(spectrum, freqs []float64, f0 float64, sampleRate int) (ratio, count, strength float64) {
	r := d.DetectHarmonics(spectrum, freqs, f0, sampleRate)
	return r.Ratio, r.Count, r.Strength
}

// DetectHarmonics checks harmonics h = 1..10 of f0. For each, the maximum
// magnitude within ±max(1, min(10, 0.1·f0/Δf)) bins of bin ⌊h·f0/Δf⌋ is taken
// and the harmonic is confirmed when it exceeds 1.5x the mean magnitude.
// Δf is sampleRate / (2·bins). The search stops at the Nyquist frequency or
// past the last bin.
//
// A zero Result is returned for an empty spectrum, a non-positive f0 or
// sampleRate, a spectrum with no energy, or one without any local peak above
// 1.2x its mean.
func (d *Detector) DetectHarmonics(spectrum, freqs []float64, f0 float64, sampleRate int) Result {
	if len(spectrum) == 0 || f0 <= 0 || sampleRate <= 0 {
		return Result{}
	}

	totalEnergy := 0.0
	for _, mag := range spectrum {
		totalEnergy += mag * mag
	}
	if totalEnergy == 0 {
		return Result{}
	}

	if len(d.peaks.DetectPeaks(spectrum, freqs)) == 0 {
		return Result{}
	}

	meanMag := common.Mean(spectrum)
	freqResolution := float64(sampleRate) / float64(len(spectrum)*2)
	nyquist := float64(sampleRate) / 2
	searchWindow := max(1, min(maxSearchWindow, int(harmonicTolerance*f0/freqResolution)))

	var (
		harmonicEnergy float64
		harmonics      []SpectralPeak
	)

	for h := 1; h <= MaxHarmonics; h++ {
		targetFreq := f0 * float64(h)
		if targetFreq >= nyquist {
			break
		}

		targetBin := int(targetFreq / freqResolution)
		if targetBin >= len(spectrum) {
			break
		}

		startBin := max(0, targetBin-searchWindow)
		endBin := min(len(spectrum)-1, targetBin+searchWindow)

		bestBin := startBin
		for k := startBin + 1; k <= endBin; k++ {
			if spectrum[k] > spectrum[bestBin] {
				bestBin = k
			}
		}
		maxMag := spectrum[bestBin]

		if maxMag > harmonicRelativeHeight*meanMag {
			harmonicEnergy += maxMag * maxMag

			peak := SpectralPeak{
				Magnitude: maxMag,
				BinIndex:  bestBin,
				Harmonic:  h,
			}
			if bestBin < len(freqs) {
				peak.Frequency = freqs[bestBin]
			}
			harmonics = append(harmonics, peak)
		}
	}

	result := Result{
		Ratio:     harmonicEnergy / totalEnergy,
		Count:     min(1.0, float64(len(harmonics))/float64(MaxHarmonics)),
		Harmonics: harmonics,
	}

	if len(harmonics) > 0 {
		sum := 0.0
		for _, p := range harmonics {
			sum += p.Magnitude
		}
		if maxPossible := common.Max(spectrum); maxPossible > 0 {
			result.Strength = sum / float64(len(harmonics)) / maxPossible
		}
	}

	return result
}

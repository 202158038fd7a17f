package waveform

import (
	"fmt"
	"math"

	"github.com/RyanBlaney/drone-sonar/algorithms/common"
	"github.com/RyanBlaney/drone-sonar/algorithms/filters"
)

const (
	// agcKnee is where the AGC soft limiter starts bending the signal
	agcKnee = 0.95

	// noiseWindowFraction of the buffer, from its start, is taken as the
	// noise estimate for SNR and noise reduction
	noiseWindowFraction = 10
	minNoiseWindow      = 512

	// noSNRNoise is reported when the noise window is digital silence
	noSNRNoise = 100.0
)

// PreprocessConfig selects the conditioning stages run ahead of extraction.
// Stages apply in field order: high-pass, band-pass, AGC, noise reduction.
type PreprocessConfig struct {
	HighPass       bool
	HighPassCutoff float64 // Hz

	BandPass bool
	BandLow  float64 // Hz
	BandHigh float64 // Hz, clamped below Nyquist at run time

	AGC       bool
	TargetRMS float64 // in (0, 1]

	NoiseReduction bool
	NoiseAlpha     float64 // subtraction factor in [0, 0.5)
}

// DefaultPreprocessConfig focuses on the 100-5000 Hz band where rotor and
// motor tones sit, removes rumble below 50 Hz and levels to 0.3 RMS
func DefaultPreprocessConfig() PreprocessConfig {
	return PreprocessConfig{
		HighPass:       true,
		HighPassCutoff: 50,
		BandPass:       true,
		BandLow:        100,
		BandHigh:       5000,
		AGC:            true,
		TargetRMS:      0.3,
		NoiseReduction: false,
		NoiseAlpha:     0.1,
	}
}

// Validate checks the parameters of every enabled stage
func (c PreprocessConfig) Validate() error {
	if c.HighPass && c.HighPassCutoff <= 0 {
		return fmt.Errorf("high-pass cutoff must be positive, got %g", c.HighPassCutoff)
	}
	if c.BandPass && (c.BandLow <= 0 || c.BandHigh <= c.BandLow) {
		return fmt.Errorf("band %g-%g Hz must satisfy 0 < low < high", c.BandLow, c.BandHigh)
	}
	if c.AGC && (c.TargetRMS <= 0 || c.TargetRMS > 1) {
		return fmt.Errorf("AGC target RMS must lie in (0, 1], got %g", c.TargetRMS)
	}
	if c.NoiseReduction && (c.NoiseAlpha < 0 || c.NoiseAlpha >= 0.5) {
		return fmt.Errorf("noise reduction alpha must lie in [0, 0.5), got %g", c.NoiseAlpha)
	}
	return nil
}

// Preprocess conditions a mono buffer for extraction and returns a new slice.
// A high-pass cutoff at or above Nyquist skips that stage. A band whose
// upper edge reaches Nyquist is clamped to 0.45·sampleRate.
func Preprocess(samples []float64, sampleRate int, cfg PreprocessConfig) ([]float64, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be positive, got %d", sampleRate)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	result := make([]float64, len(samples))
	copy(result, samples)
	if len(result) == 0 {
		return result, nil
	}

	nyquist := float64(sampleRate) / 2

	if cfg.HighPass && cfg.HighPassCutoff < nyquist {
		hp, err := filters.NewDCRemoval(sampleRate, cfg.HighPassCutoff)
		if err != nil {
			return nil, err
		}
		result = hp.ProcessBuffer(result)
	}

	if cfg.BandPass {
		high := math.Min(cfg.BandHigh, 0.45*float64(sampleRate))
		bp, err := filters.NewBandpassFilter(sampleRate, cfg.BandLow, high)
		if err != nil {
			return nil, fmt.Errorf("band-pass stage: %w", err)
		}
		result = bp.ProcessBuffer(result)
	}

	if cfg.AGC {
		result = applyAGC(result, cfg.TargetRMS)
	}

	if cfg.NoiseReduction {
		result = reduceNoise(result, cfg.NoiseAlpha)
	}

	return result, nil
}

// applyAGC scales to targetRMS, then bends samples beyond agcKnee so no
// output exceeds 1 in magnitude
func applyAGC(signal []float64, targetRMS float64) []float64 {
	if common.IsSilent(signal) {
		return signal
	}

	leveled := NewNormalizer(RMSNorm).Normalize(signal)
	for i, v := range leveled {
		v *= targetRMS
		if a := math.Abs(v); a > agcKnee {
			v = math.Copysign(agcKnee+(1-agcKnee)*math.Tanh((a-agcKnee)/(1-agcKnee)), v)
		}
		leveled[i] = v
	}
	return leveled
}

// reduceNoise shrinks every sample towards zero by a share of the noise
// floor. Samples under the floor lose 2·alpha of their value.
func reduceNoise(signal []float64, alpha float64) []float64 {
	if len(signal) < 2*minNoiseWindow {
		return signal
	}

	floor := common.RMS(signal[:noiseWindow(len(signal))])
	threshold := floor * (1 + alpha)

	reduced := make([]float64, len(signal))
	for i, s := range signal {
		if math.Abs(s) > threshold {
			reduced[i] = s - math.Copysign(floor*alpha, s)
		} else {
			reduced[i] = s * (1 - 2*alpha)
		}
	}
	return reduced
}

// EstimateSNR returns the ratio in dB of the whole buffer's power to the
// power of its leading tenth (at least 512 samples), which is assumed to be
// background only. Empty input gives 0 and a silent lead-in gives 100.
func EstimateSNR(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}

	noise := common.RMS(samples[:noiseWindow(len(samples))])
	if noise == 0 {
		return noSNRNoise
	}

	signal := common.RMS(samples)
	return 20 * math.Log10(signal/noise)
}

func noiseWindow(n int) int {
	return min(max(n/noiseWindowFraction, minNoiseWindow), n)
}

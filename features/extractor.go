// Package features computes the 19-dimensional acoustic descriptor used to
// match drone recordings against labelled prototypes. Extraction is a pure
// function of the waveform and its sample rate: two runs on the same input
// produce bit-identical vectors.
package features

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/RyanBlaney/drone-sonar/algorithms/common"
	"github.com/RyanBlaney/drone-sonar/algorithms/harmonic"
	"github.com/RyanBlaney/drone-sonar/algorithms/spectral"
	"github.com/RyanBlaney/drone-sonar/algorithms/temporal"
	"github.com/RyanBlaney/drone-sonar/logging"
)

const (
	// FFTSize is the spectral frame length
	FFTSize = 2048
	// HopSize is the spectral hop (50% overlap)
	HopSize = FFTSize / 2
)

var (
	// ErrInvalidSampleRate is returned for a non-positive sample rate
	ErrInvalidSampleRate = errors.New("sample rate must be positive")
	// ErrNonFiniteSample is returned when the waveform contains NaN or ±Inf
	ErrNonFiniteSample = errors.New("waveform contains a non-finite sample")
)

// Features holds the named values behind a Vector before assembly. Spectral
// frequency fields are in Hz.
type Features struct {
	SampleRate int                 `json:"sample_rate"`
	Samples    int                 `json:"samples"`
	Temporal   temporal.Features   `json:"temporal"`
	Spectral   spectral.Statistics `json:"spectral"`
	Harmonic   harmonic.Result     `json:"harmonic"`
}

// Raw returns the unassembled values in vector order, with the frequency
// features divided by the Nyquist frequency
func (f *Features) Raw() [Dimension]float64 {
	s := f.Spectral.Normalized(f.SampleRate)

	var raw [Dimension]float64
	raw[RMS] = f.Temporal.RMS
	raw[ZeroCrossingRate] = f.Temporal.ZeroCrossingRate
	raw[SpectralCentroid] = s.Centroid
	raw[SpectralBandwidth] = s.Bandwidth
	raw[SpectralRolloff] = s.Rolloff
	raw[SpectralFlatness] = s.Flatness
	raw[DominantFrequency] = s.DominantFrequency
	raw[CrestFactor] = s.CrestFactor
	raw[SpectralEntropy] = s.Entropy
	raw[Variance] = f.Temporal.Variance
	raw[TemporalCentroid] = f.Temporal.TemporalCentroid
	raw[OnsetRate] = f.Temporal.OnsetRate
	raw[AMDepth] = f.Temporal.AMDepth
	raw[Skewness] = s.Skewness
	raw[Kurtosis] = s.Kurtosis
	raw[PeakProminence] = s.PeakProminence
	raw[HarmonicRatio] = f.Harmonic.Ratio
	raw[HarmonicCount] = f.Harmonic.Count
	raw[HarmonicStrength] = f.Harmonic.Strength
	return raw
}

// Vector assembles the unit-norm, rounded descriptor
func (f *Features) Vector() Vector {
	return Assemble(f.Raw())
}

// Option configures an Extractor
type Option func(*Extractor)

// WithFrameWorkers bounds the goroutines used to transform the frames of a
// single waveform. Batch callers that already run one waveform per goroutine
// usually want 1.
func WithFrameWorkers(n int) Option {
	return func(e *Extractor) {
		e.stft.SetWorkers(n)
	}
}

// WithLogger replaces the component logger
func WithLogger(logger logging.Logger) Option {
	return func(e *Extractor) {
		e.logger = logger
	}
}

// Extractor runs the full pipeline: STFT, spectral statistics, temporal
// features, harmonic detection and assembly. It holds only read-only state
// after construction and is safe for concurrent use.
type Extractor struct {
	stft     *spectral.STFT
	spectral *spectral.Analyzer
	temporal *temporal.Extractor
	harmonic *harmonic.Detector
	logger   logging.Logger
}

// NewExtractor creates an extractor with the fixed 2048/1024 framing
func NewExtractor(opts ...Option) (*Extractor, error) {
	stft, err := spectral.NewSTFT(FFTSize, HopSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create STFT: %w", err)
	}

	e := &Extractor{
		stft:     stft,
		spectral: spectral.NewAnalyzer(),
		temporal: temporal.NewExtractor(),
		harmonic: harmonic.NewDetector(),
		logger: logging.WithFields(logging.Fields{
			"component": "feature_extractor",
		}),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e, nil
}

var defaultExtractor = sync.OnceValues(func() (*Extractor, error) {
	return NewExtractor()
})

// Extract computes the feature vector of a mono, peak-normalised waveform
// using a shared default Extractor
func Extract(samples []float64, sampleRate int) (Vector, error) {
	e, err := defaultExtractor()
	if err != nil {
		return Vector{}, err
	}
	return e.Extract(samples, sampleRate)
}

// Extract computes the feature vector of samples. Empty or all-zero input
// yields the zero vector. The waveform is never modified.
func (e *Extractor) Extract(samples []float64, sampleRate int) (Vector, error) {
	if err := validate(samples, sampleRate); err != nil {
		return Vector{}, err
	}

	if common.IsSilent(samples) {
		e.logger.Debug("Silent waveform, returning zero vector", logging.Fields{
			"samples": len(samples),
		})
		return Vector{}, nil
	}

	f, err := e.ExtractFeatures(samples, sampleRate)
	if err != nil {
		return Vector{}, err
	}

	return f.Vector(), nil
}

// ExtractFeatures computes the named pre-assembly values of samples
func (e *Extractor) ExtractFeatures(samples []float64, sampleRate int) (*Features, error) {
	if err := validate(samples, sampleRate); err != nil {
		return nil, err
	}

	stftResult, err := e.stft.Compute(samples, sampleRate)
	if err != nil {
		return nil, fmt.Errorf("failed to compute STFT: %w", err)
	}

	spectrum := spectral.AverageSpectrum(stftResult)
	freqs := spectral.FFTFrequencies(sampleRate, FFTSize)

	stats := e.spectral.Compute(spectrum, freqs)

	// The dominant frequency in Hz serves as the fundamental
	harmonics := e.harmonic.DetectHarmonics(spectrum, freqs, stats.DominantFrequency, sampleRate)

	f := &Features{
		SampleRate: sampleRate,
		Samples:    len(samples),
		Temporal:   e.temporal.Compute(samples, sampleRate),
		Spectral:   stats,
		Harmonic:   harmonics,
	}

	e.logger.Debug("Features extracted", logging.Fields{
		"samples":            len(samples),
		"sample_rate":        sampleRate,
		"time_frames":        stftResult.TimeFrames,
		"dominant_frequency": stats.DominantFrequency,
		"harmonics":          len(harmonics.Harmonics),
	})

	return f, nil
}

func validate(samples []float64, sampleRate int) error {
	if sampleRate <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidSampleRate, sampleRate)
	}

	for i, v := range samples {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: sample %d is %v", ErrNonFiniteSample, i, v)
		}
	}

	return nil
}

// Package signals generates deterministic synthetic waveforms. Every
// generator is reproducible bit for bit, including the noise source, so the
// outputs can back golden tests shared with other implementations.
package signals

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Kind names a generator
type Kind string

const (
	KindSine       Kind = "sine"
	KindSquare     Kind = "square"
	KindSilence    Kind = "silence"
	KindAMTone     Kind = "am_tone"
	KindClickTrain Kind = "click_train"
	KindNoise      Kind = "noise"
	KindHarmonics  Kind = "harmonics"
)

// ErrUnknownKind is returned by Generate for an unsupported Kind
var ErrUnknownKind = errors.New("unknown signal kind")

// Spec describes a synthetic waveform
type Spec struct {
	Kind         Kind    `json:"kind" yaml:"kind" mapstructure:"kind"`
	Frequency    float64 `json:"frequency,omitempty" yaml:"frequency,omitempty" mapstructure:"frequency"`             // Carrier or fundamental in Hz
	Amplitude    float64 `json:"amplitude,omitempty" yaml:"amplitude,omitempty" mapstructure:"amplitude"`             // Peak amplitude, 1 when zero
	Duration     float64 `json:"duration" yaml:"duration" mapstructure:"duration"`                                    // Seconds
	ModFrequency float64 `json:"mod_frequency,omitempty" yaml:"mod_frequency,omitempty" mapstructure:"mod_frequency"` // AM rate in Hz
	ModDepth     float64 `json:"mod_depth,omitempty" yaml:"mod_depth,omitempty" mapstructure:"mod_depth"`             // AM depth in [0, 1]
	Interval     float64 `json:"interval,omitempty" yaml:"interval,omitempty" mapstructure:"interval"`                // Seconds between clicks
	Harmonics    int     `json:"harmonics,omitempty" yaml:"harmonics,omitempty" mapstructure:"harmonics"`             // Partials for KindHarmonics
	Seed         uint64  `json:"seed,omitempty" yaml:"seed,omitempty" mapstructure:"seed"`                            // Noise seed
}

// Samples returns the number of samples the spec produces at sampleRate
func (s Spec) Samples(sampleRate int) int {
	return int(math.Round(s.Duration * float64(sampleRate)))
}

// String renders a short label such as "sine 440Hz 1s"
func (s Spec) String() string {
	var b strings.Builder
	b.WriteString(string(s.Kind))
	if s.Frequency > 0 {
		fmt.Fprintf(&b, " %gHz", s.Frequency)
	}
	fmt.Fprintf(&b, " %gs", s.Duration)
	return b.String()
}

// Generate renders spec at sampleRate
func Generate(spec Spec, sampleRate int) ([]float64, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be positive, got %d", sampleRate)
	}
	if spec.Duration < 0 {
		return nil, fmt.Errorf("duration must not be negative, got %g", spec.Duration)
	}

	amplitude := spec.Amplitude
	if amplitude == 0 {
		amplitude = 1
	}
	n := spec.Samples(sampleRate)

	switch spec.Kind {
	case KindSine:
		return Sine(spec.Frequency, amplitude, sampleRate, n), nil
	case KindSquare:
		return Square(spec.Frequency, amplitude, sampleRate, n), nil
	case KindSilence:
		return Silence(n), nil
	case KindAMTone:
		return AMTone(spec.Frequency, spec.ModFrequency, spec.ModDepth, amplitude, sampleRate, n), nil
	case KindClickTrain:
		return ClickTrain(spec.Interval, amplitude, sampleRate, n), nil
	case KindNoise:
		return Noise(spec.Seed, amplitude, n), nil
	case KindHarmonics:
		return HarmonicSeries(spec.Frequency, spec.Harmonics, amplitude, sampleRate, n), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, spec.Kind)
	}
}

// Sine returns amplitude·sin(2π·freq·i/sampleRate)
func Sine(freq, amplitude float64, sampleRate, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = amplitude * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate))
	}
	return out
}

// Square returns a ±amplitude square wave. The phase is tracked in integer
// arithmetic, (i·freq) mod sampleRate, so the sign of every sample is exact;
// freq is rounded to whole Hz.
func Square(freq, amplitude float64, sampleRate, n int) []float64 {
	out := make([]float64, n)
	f := int64(math.Round(freq))
	sr := int64(sampleRate)
	for i := range out {
		phase := (int64(i) * f) % sr
		if 2*phase < sr {
			out[i] = amplitude
		} else {
			out[i] = -amplitude
		}
	}
	return out
}

// Silence returns n zero samples
func Silence(n int) []float64 {
	return make([]float64, n)
}

// AMTone returns a sine carrier whose envelope swings by depth at modFreq,
// scaled so the peak envelope equals amplitude
func AMTone(carrier, modFreq, depth, amplitude float64, sampleRate, n int) []float64 {
	depth = math.Max(0, math.Min(1, depth))
	out := make([]float64, n)
	sr := float64(sampleRate)
	for i := range out {
		t := float64(i) / sr
		envelope := (1 + depth*math.Sin(2*math.Pi*modFreq*t)) / (1 + depth)
		out[i] = amplitude * envelope * math.Sin(2*math.Pi*carrier*t)
	}
	return out
}

// ClickTrain returns single-sample impulses of the given amplitude every
// interval seconds, starting at sample 0
func ClickTrain(interval, amplitude float64, sampleRate, n int) []float64 {
	out := make([]float64, n)
	step := int(math.Round(interval * float64(sampleRate)))
	if step <= 0 {
		return out
	}
	for i := 0; i < n; i += step {
		out[i] = amplitude
	}
	return out
}

// HarmonicSeries returns the sum of partials k = 1..count of freq with
// amplitude 1/k, peak-scaled to amplitude
func HarmonicSeries(freq float64, count int, amplitude float64, sampleRate, n int) []float64 {
	count = max(count, 1)
	out := make([]float64, n)
	sr := float64(sampleRate)
	for i := range out {
		t := float64(i) / sr
		sum := 0.0
		for k := 1; k <= count; k++ {
			sum += math.Sin(2*math.Pi*freq*float64(k)*t) / float64(k)
		}
		out[i] = sum
	}

	peak := 0.0
	for _, v := range out {
		peak = math.Max(peak, math.Abs(v))
	}
	if peak > 0 {
		for i := range out {
			out[i] = amplitude * out[i] / peak
		}
	}
	return out
}

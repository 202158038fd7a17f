// Package golden loads, verifies and regenerates the golden-vector corpus:
// synthetic signals paired with the feature vectors an independent reference
// implementation computed for them.
package golden

import (
	"context"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/RyanBlaney/drone-sonar/features"
	"github.com/RyanBlaney/drone-sonar/internal/signals"
	"github.com/RyanBlaney/drone-sonar/waveform"
)

// DefaultTolerance is the maximum absolute difference allowed per component
const DefaultTolerance = 1e-4

// Corpus is the on-disk golden file
type Corpus struct {
	Tolerance float64  `yaml:"tolerance"`
	Names     []string `yaml:"names,flow"`
	Cases     []Case   `yaml:"cases"`
}

// Case is one signal and its expected vector
type Case struct {
	Name       string       `yaml:"name"`
	SampleRate int          `yaml:"sample_rate"`
	Signal     signals.Spec `yaml:"signal"`
	Vector     []float64    `yaml:"vector,flow"`
}

// Mismatch describes a component outside tolerance
type Mismatch struct {
	Case    string  `json:"case" yaml:"case"`
	Feature string  `json:"feature" yaml:"feature"`
	Want    float64 `json:"want" yaml:"want"`
	Got     float64 `json:"got" yaml:"got"`
}

// Diff returns |Got - Want|
func (m Mismatch) Diff() float64 {
	return math.Abs(m.Got - m.Want)
}

func (m Mismatch) String() string {
	return fmt.Sprintf("%s/%s: want %g, got %g (diff %.2e)", m.Case, m.Feature, m.Want, m.Got, m.Diff())
}

// Load reads and validates a corpus file
func Load(path string) (*Corpus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read golden corpus: %w", err)
	}

	var corpus Corpus
	if err := yaml.Unmarshal(data, &corpus); err != nil {
		return nil, fmt.Errorf("failed to parse golden corpus %s: %w", path, err)
	}

	if corpus.Tolerance <= 0 {
		corpus.Tolerance = DefaultTolerance
	}

	if err := corpus.validate(); err != nil {
		return nil, fmt.Errorf("invalid golden corpus %s: %w", path, err)
	}

	return &corpus, nil
}

// Write stores the corpus as YAML
func Write(path string, corpus *Corpus) error {
	data, err := yaml.Marshal(corpus)
	if err != nil {
		return fmt.Errorf("failed to encode golden corpus: %w", err)
	}

	header := []byte("# Golden feature vectors. Each signal is generated, peak-normalised and then extracted.\n")
	if err := os.WriteFile(path, append(header, data...), 0o644); err != nil {
		return fmt.Errorf("failed to write golden corpus: %w", err)
	}
	return nil
}

func (c *Corpus) validate() error {
	if len(c.Names) > 0 {
		want := features.Names()
		if len(c.Names) != len(want) {
			return fmt.Errorf("corpus lists %d feature names, expected %d", len(c.Names), len(want))
		}
		for i, name := range c.Names {
			if name != want[i] {
				return fmt.Errorf("feature %d is %q, expected %q", i, name, want[i])
			}
		}
	}

	seen := make(map[string]bool, len(c.Cases))
	for i, tc := range c.Cases {
		if tc.Name == "" {
			return fmt.Errorf("case %d has no name", i)
		}
		if seen[tc.Name] {
			return fmt.Errorf("duplicate case %q", tc.Name)
		}
		seen[tc.Name] = true

		if len(tc.Vector) != features.Dimension {
			return fmt.Errorf("case %q has %d components, expected %d", tc.Name, len(tc.Vector), features.Dimension)
		}
	}
	return nil
}

// Waveform renders the case's signal and peak-normalises it
func (tc Case) Waveform() ([]float64, error) {
	samples, err := signals.Generate(tc.Signal, tc.SampleRate)
	if err != nil {
		return nil, fmt.Errorf("case %q: %w", tc.Name, err)
	}
	return waveform.PeakNormalize(samples), nil
}

// Compute extracts every case with up to workers concurrent extractions and
// returns the vectors in case order
func Compute(ctx context.Context, corpus *Corpus, workers int) ([]features.Vector, error) {
	jobs := make([]features.Job, len(corpus.Cases))
	for i, tc := range corpus.Cases {
		samples, err := tc.Waveform()
		if err != nil {
			return nil, err
		}
		jobs[i] = features.Job{ID: tc.Name, Samples: samples, SampleRate: tc.SampleRate}
	}

	results, err := features.ExtractBatch(ctx, jobs, workers)
	if err != nil {
		return nil, err
	}

	vectors := make([]features.Vector, len(results))
	for i, r := range results {
		vectors[i] = r.Vector
	}
	return vectors, nil
}

// Verify recomputes the corpus and reports every component that differs from
// the stored vector by more than the corpus tolerance
func Verify(ctx context.Context, corpus *Corpus, workers int) ([]Mismatch, error) {
	vectors, err := Compute(ctx, corpus, workers)
	if err != nil {
		return nil, err
	}

	var mismatches []Mismatch
	for i, tc := range corpus.Cases {
		for j, want := range tc.Vector {
			got := vectors[i][j]
			if math.Abs(got-want) > corpus.Tolerance {
				mismatches = append(mismatches, Mismatch{
					Case:    tc.Name,
					Feature: features.Index(j).String(),
					Want:    want,
					Got:     got,
				})
			}
		}
	}

	return mismatches, nil
}

// Regenerate returns a copy of corpus whose vectors come from this
// implementation
func Regenerate(ctx context.Context, corpus *Corpus, workers int) (*Corpus, error) {
	vectors, err := Compute(ctx, corpus, workers)
	if err != nil {
		return nil, err
	}

	out := &Corpus{
		Tolerance: corpus.Tolerance,
		Names:     features.Names(),
		Cases:     make([]Case, len(corpus.Cases)),
	}
	for i, tc := range corpus.Cases {
		tc.Vector = vectors[i].Slice()
		out.Cases[i] = tc
	}
	return out, nil
}

package cmd

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/RyanBlaney/drone-sonar/configs"
	"github.com/RyanBlaney/drone-sonar/features"
	"github.com/RyanBlaney/drone-sonar/logging"
)

// ErrNonDeterministic is returned when two runs over the same waveform differ
var ErrNonDeterministic = errors.New("extraction is not deterministic")

var (
	determinismSignal signalOptions
	determinismRuns   int
)

var determinismCmd = &cobra.Command{
	Use:   "determinism",
	Short: "Check that concurrent extractions are bit-identical",
	Long: `Extract the same synthetic waveform many times in parallel and compare every
component of every result bit for bit against the first run.

Examples:
  dronefeat determinism --runs 64
  dronefeat determinism --kind noise --seed 99 -w 8`,
	Args: cobra.NoArgs,
	RunE: runDeterminism,
}

func init() {
	rootCmd.AddCommand(determinismCmd)

	determinismSignal.register(determinismCmd.Flags())
	determinismCmd.Flags().IntVarP(&determinismRuns, "runs", "n", 32,
		"number of extractions to compare")
}

// determinismReport summarises a determinism check
type determinismReport struct {
	Signal       string          `json:"signal" yaml:"signal"`
	SampleRate   int             `json:"sample_rate" yaml:"sample_rate"`
	Preprocessed bool            `json:"preprocessed" yaml:"preprocessed"`
	Runs         int             `json:"runs" yaml:"runs"`
	Workers      int             `json:"workers" yaml:"workers"`
	Identical    bool            `json:"identical" yaml:"identical"`
	Mismatches   []runMismatch   `json:"mismatches,omitempty" yaml:"mismatches,omitempty"`
	Vector       features.Vector `json:"vector" yaml:"vector,flow"`
}

// runMismatch is one component that differs from the first run
type runMismatch struct {
	Run     int     `json:"run" yaml:"run"`
	Feature string  `json:"feature" yaml:"feature"`
	Want    float64 `json:"want" yaml:"want"`
	Got     float64 `json:"got" yaml:"got"`
}

// compareRuns reports every component whose bits differ from results[0]
func compareRuns(results []features.Result) []runMismatch {
	if len(results) == 0 {
		return nil
	}

	var mismatches []runMismatch
	reference := results[0].Vector
	for run, r := range results[1:] {
		for i, got := range r.Vector {
			if math.Float64bits(got) != math.Float64bits(reference[i]) {
				mismatches = append(mismatches, runMismatch{
					Run:     run + 1,
					Feature: features.Index(i).String(),
					Want:    reference[i],
					Got:     got,
				})
			}
		}
	}
	return mismatches
}

func runDeterminism(cmd *cobra.Command, args []string) error {
	if determinismRuns < 2 {
		return fmt.Errorf("at least 2 runs are needed, got %d", determinismRuns)
	}

	sig, err := determinismSignal.render()
	if err != nil {
		return err
	}

	jobs := make([]features.Job, determinismRuns)
	for i := range jobs {
		jobs[i] = features.Job{
			ID:         "run-" + strconv.Itoa(i),
			Samples:    sig.samples,
			SampleRate: sig.sampleRate,
		}
	}

	logging.Debug("Running determinism check", logging.Fields{
		"signal":  sig.spec.String(),
		"runs":    determinismRuns,
		"workers": appConfig.Extraction.Workers,
	})

	results, err := features.ExtractBatch(cmd.Context(), jobs, appConfig.Extraction.Workers)
	if err != nil {
		return fmt.Errorf("failed to extract features: %w", err)
	}

	mismatches := compareRuns(results)
	report := determinismReport{
		Signal:       sig.spec.String(),
		SampleRate:   sig.sampleRate,
		Preprocessed: sig.preprocessed,
		Runs:         determinismRuns,
		Workers:      appConfig.Extraction.Workers,
		Identical:    len(mismatches) == 0,
		Mismatches:   mismatches,
		Vector:       results[0].Vector,
	}

	if err := writeDeterminismReport(cmd.OutOrStdout(), appConfig.Output.Format, report); err != nil {
		return err
	}

	if !report.Identical {
		return fmt.Errorf("%w: %d differing components", ErrNonDeterministic, len(mismatches))
	}
	return nil
}

func writeDeterminismReport(w io.Writer, format string, report determinismReport) error {
	if format != configs.FormatTable {
		return writeStructured(w, format, report)
	}

	st := outputStyles()
	fmt.Fprintln(w, st.Title.Render(fmt.Sprintf("Determinism check: %s @ %d Hz", report.Signal, report.SampleRate)))
	fmt.Fprintf(w, "Runs: %d, workers: %d\n\n", report.Runs, report.Workers)

	if report.Identical {
		fmt.Fprintln(w, st.Pass.Render("All runs bit-identical"))
		return nil
	}

	fmt.Fprintln(w, st.Fail.Render(fmt.Sprintf("%d components differ", len(report.Mismatches))))
	for _, m := range report.Mismatches {
		fmt.Fprintf(w, "  run %d %s: want %v, got %v\n", m.Run, m.Feature, m.Want, m.Got)
	}
	return nil
}

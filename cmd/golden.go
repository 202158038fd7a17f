package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/RyanBlaney/drone-sonar/configs"
	"github.com/RyanBlaney/drone-sonar/internal/golden"
	"github.com/RyanBlaney/drone-sonar/logging"
)

// ErrGoldenMismatch is returned when a recomputed vector leaves tolerance
var ErrGoldenMismatch = errors.New("golden corpus mismatch")

var (
	goldenPath      string
	goldenTolerance float64
	goldenOutPath   string
)

var goldenCmd = &cobra.Command{
	Use:   "golden",
	Short: "Verify or regenerate the golden feature corpus",
	Long: `The golden corpus pairs synthetic signal descriptions with the vectors
scripts/reference_features.py computes for them. Both implementations must agree
within the corpus tolerance.`,
}

var goldenVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Recompute every case and compare it with the stored vector",
	Args:  cobra.NoArgs,
	RunE:  runGoldenVerify,
}

var goldenWriteCmd = &cobra.Command{
	Use:   "write",
	Short: "Recompute every case and write the vectors back",
	Long: `Recompute every case with this implementation and write the corpus to --out
(or back to --path). Use only after an intentional algorithm change that
scripts/reference_features.py has also adopted.`,
	Args: cobra.NoArgs,
	RunE: runGoldenWrite,
}

func init() {
	rootCmd.AddCommand(goldenCmd)
	goldenCmd.AddCommand(goldenVerifyCmd, goldenWriteCmd)

	for _, c := range []*cobra.Command{goldenVerifyCmd, goldenWriteCmd} {
		c.Flags().StringVarP(&goldenPath, "path", "p", "",
			"golden corpus file (default from config)")
	}
	goldenVerifyCmd.Flags().Float64Var(&goldenTolerance, "tolerance", 0,
		"comparison tolerance (default from config)")
	goldenWriteCmd.Flags().StringVar(&goldenOutPath, "out", "",
		"destination file (default is --path)")
}

func loadCorpus() (*golden.Corpus, string, error) {
	path := goldenPath
	if path == "" {
		path = appConfig.Golden.Path
	}

	corpus, err := golden.Load(path)
	if err != nil {
		return nil, path, err
	}
	return corpus, path, nil
}

func runGoldenVerify(cmd *cobra.Command, args []string) error {
	corpus, path, err := loadCorpus()
	if err != nil {
		return err
	}
	if goldenTolerance > 0 {
		corpus.Tolerance = goldenTolerance
	}

	logging.Debug("Verifying golden corpus", logging.Fields{
		"path":      path,
		"cases":     len(corpus.Cases),
		"tolerance": corpus.Tolerance,
	})

	mismatches, err := golden.Verify(cmd.Context(), corpus, appConfig.Extraction.Workers)
	if err != nil {
		return fmt.Errorf("failed to verify golden corpus: %w", err)
	}

	if err := writeGoldenReport(cmd.OutOrStdout(), appConfig.Output.Format, path, corpus, mismatches); err != nil {
		return err
	}

	if len(mismatches) > 0 {
		return fmt.Errorf("%w: %d components outside tolerance %g", ErrGoldenMismatch, len(mismatches), corpus.Tolerance)
	}
	return nil
}

func runGoldenWrite(cmd *cobra.Command, args []string) error {
	corpus, path, err := loadCorpus()
	if err != nil {
		return err
	}

	out := goldenOutPath
	if out == "" {
		out = path
	}

	regenerated, err := golden.Regenerate(cmd.Context(), corpus, appConfig.Extraction.Workers)
	if err != nil {
		return fmt.Errorf("failed to regenerate golden corpus: %w", err)
	}

	if err := golden.Write(out, regenerated); err != nil {
		return err
	}

	logging.Info("Golden corpus written", logging.Fields{
		"path":  out,
		"cases": len(regenerated.Cases),
	})
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d cases to %s\n", len(regenerated.Cases), out)
	return nil
}

// goldenReport is the structured form of a verification run
type goldenReport struct {
	Path       string            `json:"path" yaml:"path"`
	Cases      int               `json:"cases" yaml:"cases"`
	Tolerance  float64           `json:"tolerance" yaml:"tolerance"`
	Passed     bool              `json:"passed" yaml:"passed"`
	Mismatches []golden.Mismatch `json:"mismatches,omitempty" yaml:"mismatches,omitempty"`
}

func writeGoldenReport(w io.Writer, format, path string, corpus *golden.Corpus, mismatches []golden.Mismatch) error {
	if format != configs.FormatTable {
		return writeStructured(w, format, goldenReport{
			Path:       path,
			Cases:      len(corpus.Cases),
			Tolerance:  corpus.Tolerance,
			Passed:     len(mismatches) == 0,
			Mismatches: mismatches,
		})
	}

	st := outputStyles()
	fmt.Fprintf(w, "%s\n\n", st.Title.Render(fmt.Sprintf("Golden corpus: %s (%d cases, tolerance %g)", path, len(corpus.Cases), corpus.Tolerance)))
	if len(mismatches) == 0 {
		fmt.Fprintln(w, st.Pass.Render("All cases within tolerance"))
		return nil
	}

	fmt.Fprintln(w, st.Fail.Render(fmt.Sprintf("%d components outside tolerance", len(mismatches))))
	for _, m := range mismatches {
		fmt.Fprintf(w, "  %s\n", m)
	}
	return nil
}

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/RyanBlaney/drone-sonar/configs"
	"github.com/RyanBlaney/drone-sonar/features"
)

var titleCaser = cases.Title(language.English)

// styles renders table headings and pass/fail lines. lipgloss drops the
// colors by itself when stdout is not a terminal.
type styles struct {
	Title lipgloss.Style
	Pass  lipgloss.Style
	Fail  lipgloss.Style
}

func newStyles(colors bool) styles {
	if !colors {
		plain := lipgloss.NewStyle()
		return styles{Title: plain, Pass: plain, Fail: plain}
	}
	return styles{
		Title: lipgloss.NewStyle().Bold(true),
		Pass:  lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		Fail:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1")),
	}
}

// outputStyles returns the styles selected by the loaded configuration
func outputStyles() styles {
	return newStyles(appConfig != nil && appConfig.Output.Colors)
}

// featureTitle renders a snake_case feature name as a table heading, e.g.
// "spectral_centroid" becomes "Spectral Centroid"
func featureTitle(name string) string {
	return titleCaser.String(strings.ReplaceAll(name, "_", " "))
}

// namedVector is the structured form of a vector for json and yaml output
type namedVector struct {
	Label    string             `json:"label,omitempty" yaml:"label,omitempty"`
	Vector   []float64          `json:"vector" yaml:"vector,flow"`
	Features map[string]float64 `json:"features" yaml:"features"`
	Raw      map[string]float64 `json:"raw,omitempty" yaml:"raw,omitempty"`
}

func newNamedVector(label string, v features.Vector, raw *[features.Dimension]float64) namedVector {
	out := namedVector{
		Label:    label,
		Vector:   v.Slice(),
		Features: v.Map(),
	}
	if raw != nil {
		out.Raw = make(map[string]float64, features.Dimension)
		for i, value := range raw {
			out.Raw[features.Index(i).String()] = value
		}
	}
	return out
}

// writeStructured encodes value as json or yaml
func writeStructured(w io.Writer, format string, value any) error {
	switch format {
	case configs.FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(value)
	case configs.FormatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(value); err != nil {
			return err
		}
		return encoder.Close()
	default:
		return fmt.Errorf("format %q is not structured", format)
	}
}

// writeVector prints one vector in the requested format. raw, when non-nil,
// adds the pre-normalisation values as an extra column.
func writeVector(w io.Writer, format string, precision int, label string, v features.Vector, raw *[features.Dimension]float64) error {
	if format != configs.FormatTable {
		return writeStructured(w, format, newNamedVector(label, v, raw))
	}

	if label != "" {
		fmt.Fprintf(w, "%s\n%s\n\n", outputStyles().Title.Render(label), strings.Repeat("=", len(label)))
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if raw != nil {
		fmt.Fprintln(tw, "#\tFeature\tValue\tRaw")
	} else {
		fmt.Fprintln(tw, "#\tFeature\tValue")
	}

	for i, value := range v {
		name := featureTitle(features.Index(i).String())
		if raw != nil {
			fmt.Fprintf(tw, "%d\t%s\t%.*f\t%.*g\n", i, name, precision, value, precision, raw[i])
		} else {
			fmt.Fprintf(tw, "%d\t%s\t%.*f\n", i, name, precision, value)
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nnorm: %.*f\n", precision, v.Norm())
	return nil
}

// writeNames prints the index contract
func writeNames(w io.Writer, format string) error {
	names := features.Names()
	if format != configs.FormatTable {
		return writeStructured(w, format, map[string][]string{"names": names})
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tName\tFeature")
	for i, name := range names {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", i, name, featureTitle(name))
	}
	return tw.Flush()
}

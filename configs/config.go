package configs

import (
	"fmt"
	"runtime"
	"slices"

	"github.com/spf13/viper"

	"github.com/RyanBlaney/drone-sonar/waveform"
)

// Output formats understood by the CLI
const (
	FormatJSON  = "json"
	FormatYAML  = "yaml"
	FormatTable = "table"
)

// Config represents the application configuration
type Config struct {
	// Application settings
	Verbose  bool   `mapstructure:"verbose"`
	LogLevel string `mapstructure:"log_level"`

	// Extraction runtime settings. The algorithm constants themselves are
	// fixed and live in the features package.
	Extraction ExtractionConfig `mapstructure:"extraction"`

	// Signal conditioning applied by the CLI before extraction
	Preprocess PreprocessConfig `mapstructure:"preprocess"`

	// Output configuration
	Output OutputConfig `mapstructure:"output"`

	// Golden corpus settings
	Golden GoldenConfig `mapstructure:"golden"`
}

// ExtractionConfig controls how extractions are scheduled
type ExtractionConfig struct {
	Workers      int `mapstructure:"workers"`       // Concurrent extractions for batch commands
	FrameWorkers int `mapstructure:"frame_workers"` // Goroutines per STFT, 1 disables the frame pool
	SampleRate   int `mapstructure:"sample_rate"`   // Default sample rate for synthesised signals
}

// PreprocessConfig mirrors waveform.PreprocessConfig with an overall switch
type PreprocessConfig struct {
	Enabled             bool    `mapstructure:"enabled"`
	HighPass            bool    `mapstructure:"highpass"`
	HighPassCutoff      float64 `mapstructure:"highpass_cutoff"`
	BandPass            bool    `mapstructure:"bandpass"`
	BandLow             float64 `mapstructure:"band_low"`
	BandHigh            float64 `mapstructure:"band_high"`
	AGC                 bool    `mapstructure:"agc"`
	TargetRMS           float64 `mapstructure:"target_rms"`
	NoiseReduction      bool    `mapstructure:"noise_reduction"`
	NoiseReductionAlpha float64 `mapstructure:"noise_reduction_alpha"`
}

// Options converts the section to the waveform stage settings
func (p PreprocessConfig) Options() waveform.PreprocessConfig {
	return waveform.PreprocessConfig{
		HighPass:       p.HighPass,
		HighPassCutoff: p.HighPassCutoff,
		BandPass:       p.BandPass,
		BandLow:        p.BandLow,
		BandHigh:       p.BandHigh,
		AGC:            p.AGC,
		TargetRMS:      p.TargetRMS,
		NoiseReduction: p.NoiseReduction,
		NoiseAlpha:     p.NoiseReductionAlpha,
	}
}

// OutputConfig contains output formatting settings
type OutputConfig struct {
	Format    string `mapstructure:"format"`
	Precision int    `mapstructure:"precision"`
	Colors    bool   `mapstructure:"colors"`
}

// GoldenConfig locates the golden corpus
type GoldenConfig struct {
	Path      string  `mapstructure:"path"`
	Tolerance float64 `mapstructure:"tolerance"`
}

// SetDefaults registers default values on v
func SetDefaults(v *viper.Viper) {
	v.SetDefault("verbose", false)
	v.SetDefault("log_level", "info")

	v.SetDefault("extraction.workers", runtime.NumCPU())
	v.SetDefault("extraction.frame_workers", 1)
	v.SetDefault("extraction.sample_rate", 44100)

	pre := waveform.DefaultPreprocessConfig()
	v.SetDefault("preprocess.enabled", false)
	v.SetDefault("preprocess.highpass", pre.HighPass)
	v.SetDefault("preprocess.highpass_cutoff", pre.HighPassCutoff)
	v.SetDefault("preprocess.bandpass", pre.BandPass)
	v.SetDefault("preprocess.band_low", pre.BandLow)
	v.SetDefault("preprocess.band_high", pre.BandHigh)
	v.SetDefault("preprocess.agc", pre.AGC)
	v.SetDefault("preprocess.target_rms", pre.TargetRMS)
	v.SetDefault("preprocess.noise_reduction", pre.NoiseReduction)
	v.SetDefault("preprocess.noise_reduction_alpha", pre.NoiseAlpha)

	v.SetDefault("output.format", FormatTable)
	v.SetDefault("output.precision", 6)
	v.SetDefault("output.colors", true)

	v.SetDefault("golden.path", "features/testdata/golden.yaml")
	v.SetDefault("golden.tolerance", 1e-4)
}

// LoadConfig loads configuration from the global viper instance
func LoadConfig() (*Config, error) {
	return LoadConfigFrom(viper.GetViper())
}

// LoadConfigFrom decodes and validates the configuration held by v
func LoadConfigFrom(v *viper.Viper) (*Config, error) {
	config := &Config{}

	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unable to decode configuration: %w", err)
	}

	if err := ValidateConfig(config); err != nil {
		return nil, err
	}

	return config, nil
}

// ValidateConfig validates the configuration
func ValidateConfig(config *Config) error {
	if config.Extraction.Workers <= 0 {
		return fmt.Errorf("extraction workers must be positive")
	}

	if config.Extraction.FrameWorkers <= 0 {
		return fmt.Errorf("extraction frame workers must be positive")
	}

	if config.Extraction.SampleRate <= 0 {
		return fmt.Errorf("extraction sample rate must be positive")
	}

	if config.Preprocess.Enabled {
		if err := config.Preprocess.Options().Validate(); err != nil {
			return fmt.Errorf("invalid preprocess settings: %w", err)
		}
	}

	if !slices.Contains([]string{FormatJSON, FormatYAML, FormatTable}, config.Output.Format) {
		return fmt.Errorf("unsupported output format %q", config.Output.Format)
	}

	if config.Output.Precision < 0 || config.Output.Precision > 15 {
		return fmt.Errorf("output precision must be between 0 and 15")
	}

	if config.Golden.Tolerance <= 0 {
		return fmt.Errorf("golden tolerance must be positive")
	}

	return nil
}

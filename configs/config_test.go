package configs

import (
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/drone-sonar/waveform"
)

func newViper(t *testing.T) *viper.Viper {
	t.Helper()
	v := viper.New()
	SetDefaults(v)
	return v
}

func TestLoadConfigDefaults(t *testing.T) {
	config, err := LoadConfigFrom(newViper(t))
	require.NoError(t, err)

	assert.Equal(t, "info", config.LogLevel)
	assert.Equal(t, 44100, config.Extraction.SampleRate)
	assert.Equal(t, 1, config.Extraction.FrameWorkers)
	assert.Positive(t, config.Extraction.Workers)
	assert.Equal(t, FormatTable, config.Output.Format)
	assert.Equal(t, 6, config.Output.Precision)
	assert.Equal(t, "features/testdata/golden.yaml", config.Golden.Path)
	assert.InDelta(t, 1e-4, config.Golden.Tolerance, 1e-12)

	assert.False(t, config.Preprocess.Enabled)
	assert.Equal(t, waveform.DefaultPreprocessConfig(), config.Preprocess.Options())
}

func TestLoadConfigFromYAML(t *testing.T) {
	v := newViper(t)
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(`
log_level: debug
extraction:
  workers: 3
  sample_rate: 16000
output:
  format: json
  precision: 4
golden:
  tolerance: 0.001
preprocess:
  enabled: true
  band_high: 4000
  noise_reduction: true
`)))

	config, err := LoadConfigFrom(v)
	require.NoError(t, err)

	assert.Equal(t, "debug", config.LogLevel)
	assert.Equal(t, 3, config.Extraction.Workers)
	assert.Equal(t, 16000, config.Extraction.SampleRate)
	assert.Equal(t, 1, config.Extraction.FrameWorkers)
	assert.Equal(t, FormatJSON, config.Output.Format)
	assert.Equal(t, 4, config.Output.Precision)
	assert.InDelta(t, 0.001, config.Golden.Tolerance, 1e-12)

	assert.True(t, config.Preprocess.Enabled)
	opts := config.Preprocess.Options()
	assert.Equal(t, 4000.0, opts.BandHigh)
	assert.Equal(t, 100.0, opts.BandLow)
	assert.True(t, opts.NoiseReduction)
	assert.InDelta(t, 0.1, opts.NoiseAlpha, 1e-12)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("DRONE_SONAR_EXTRACTION_SAMPLE_RATE", "8000")

	v := newViper(t)
	v.SetEnvPrefix("DRONE_SONAR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	config, err := LoadConfigFrom(v)
	require.NoError(t, err)
	assert.Equal(t, 8000, config.Extraction.SampleRate)
}

func TestValidateConfig(t *testing.T) {
	valid := func() *Config {
		config, err := LoadConfigFrom(newViper(t))
		require.NoError(t, err)
		return config
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"zero workers", func(c *Config) { c.Extraction.Workers = 0 }, "workers"},
		{"zero frame workers", func(c *Config) { c.Extraction.FrameWorkers = 0 }, "frame workers"},
		{"negative sample rate", func(c *Config) { c.Extraction.SampleRate = -1 }, "sample rate"},
		{"unknown format", func(c *Config) { c.Output.Format = "csv" }, "output format"},
		{"precision too large", func(c *Config) { c.Output.Precision = 16 }, "precision"},
		{"zero tolerance", func(c *Config) { c.Golden.Tolerance = 0 }, "tolerance"},
		{"inverted band", func(c *Config) {
			c.Preprocess.Enabled = true
			c.Preprocess.BandLow = 6000
		}, "preprocess"},
		{"agc target too large", func(c *Config) {
			c.Preprocess.Enabled = true
			c.Preprocess.TargetRMS = 2
		}, "target RMS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := valid()
			tt.mutate(config)
			err := ValidateConfig(config)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}

	assert.NoError(t, ValidateConfig(valid()))

	disabled := valid()
	disabled.Preprocess.TargetRMS = 2
	assert.NoError(t, ValidateConfig(disabled), "preprocess settings are only checked when enabled")
}

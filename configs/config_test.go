package configs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfigFrom(viper.New())
	require.NoError(t, err)

	assert.Equal(t, GetDefaultConfig(), cfg)
	assert.Equal(t, 16000, cfg.Audio.SampleRate)
	assert.Equal(t, 0.45, cfg.Risk.Threshold)
	assert.Equal(t, 4, cfg.Output.Precision)
	assert.NoError(t, ValidateConfig(cfg))
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audio-risk.yaml")
	content := `
log_level: debug
output_format: table
audio:
  sample_rate: 22050
  max_duration: 30s
risk:
  threshold: 0.6
  strict_features: true
batch:
  max_concurrency: 2
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg, err := LoadConfigFrom(v)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "table", cfg.OutputFormat)
	assert.Equal(t, 22050, cfg.Audio.SampleRate)
	assert.Equal(t, 30*time.Second, cfg.Audio.MaxDuration)
	assert.Equal(t, "high", cfg.Audio.ResampleQuality, "unset keys keep defaults")
	assert.Equal(t, 0.6, cfg.Risk.Threshold)
	assert.True(t, cfg.Risk.StrictFeatures)
	assert.Equal(t, 2, cfg.Batch.MaxConcurrency)
	assert.NoError(t, ValidateConfig(cfg))
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("AUDIO_RISK_RISK_THRESHOLD", "0.3")
	t.Setenv("AUDIO_RISK_AUDIO_SAMPLE_RATE", "22050")
	t.Setenv("AUDIO_RISK_OUTPUT_PRETTY", "false")

	v := viper.New()
	BindEnv(v)

	cfg, err := LoadConfigFrom(v)
	require.NoError(t, err)
	assert.Equal(t, 0.3, cfg.Risk.Threshold)
	assert.Equal(t, 22050, cfg.Audio.SampleRate)
	assert.False(t, cfg.Output.Pretty)

	// keys without an environment value keep their defaults
	assert.Equal(t, "high", cfg.Audio.ResampleQuality)
	assert.Equal(t, 4, cfg.Batch.MaxConcurrency)
	assert.True(t, cfg.Output.Colors)
	assert.NoError(t, ValidateConfig(cfg))
}

func TestSetDefaultsKeepsEnvKeysInAllKeys(t *testing.T) {
	t.Setenv("AUDIO_RISK_RISK_THRESHOLD", "0.9")

	v := viper.New()
	BindEnv(v)
	SetDefaults(v)

	assert.Contains(t, v.AllKeys(), "risk.threshold")
	assert.Equal(t, 0.9, v.GetFloat64("risk.threshold"))
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero sample rate", func(c *Config) { c.Audio.SampleRate = 0 }},
		{"unknown quality", func(c *Config) { c.Audio.ResampleQuality = "ultra" }},
		{"negative max duration", func(c *Config) { c.Audio.MaxDuration = -time.Second }},
		{"unknown content type", func(c *Config) { c.Decoder.TranscodeContentType = "podcast" }},
		{"threshold above one", func(c *Config) { c.Risk.Threshold = 1.5 }},
		{"negative threshold", func(c *Config) { c.Risk.Threshold = -0.1 }},
		{"negative precision", func(c *Config) { c.Output.Precision = -1 }},
		{"unknown output format", func(c *Config) { c.OutputFormat = "xml" }},
		{"zero concurrency", func(c *Config) { c.Batch.MaxConcurrency = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := GetDefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, ValidateConfig(cfg))
		})
	}
}

package configs

import (
	"fmt"
	"strings"
	"time"

	"github.com/RyanBlaney/audio-risk/pkg/audio"
	"github.com/RyanBlaney/audio-risk/pkg/audio/loader"
	"github.com/RyanBlaney/audio-risk/pkg/output"
	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	// Application settings
	Verbose      bool   `mapstructure:"verbose" yaml:"verbose" json:"verbose"`
	LogLevel     string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	OutputFormat string `mapstructure:"output_format" yaml:"output_format" json:"output_format"`

	// Audio loading
	Audio AudioConfig `mapstructure:"audio" yaml:"audio" json:"audio"`

	// Decoding of non-WAV inputs
	Decoder DecoderConfig `mapstructure:"decoder" yaml:"decoder" json:"decoder"`

	// Risk scoring
	Risk RiskConfig `mapstructure:"risk" yaml:"risk" json:"risk"`

	// Output configuration
	Output OutputConfig `mapstructure:"output" yaml:"output" json:"output"`

	// Batch analysis
	Batch BatchConfig `mapstructure:"batch" yaml:"batch" json:"batch"`
}

// AudioConfig contains audio loading settings
type AudioConfig struct {
	SampleRate      int           `mapstructure:"sample_rate" yaml:"sample_rate" json:"sample_rate"`
	ResampleQuality string        `mapstructure:"resample_quality" yaml:"resample_quality" json:"resample_quality"`
	MaxDuration     time.Duration `mapstructure:"max_duration" yaml:"max_duration" json:"max_duration"` // 0 = unlimited
}

// DecoderConfig contains transcoding settings
type DecoderConfig struct {
	TranscodeContentType string `mapstructure:"transcode_content_type" yaml:"transcode_content_type" json:"transcode_content_type"`
}

// RiskConfig contains scoring settings
type RiskConfig struct {
	Threshold      float64 `mapstructure:"threshold" yaml:"threshold" json:"threshold"`
	StrictFeatures bool    `mapstructure:"strict_features" yaml:"strict_features" json:"strict_features"`
}

// OutputConfig contains output formatting settings
type OutputConfig struct {
	Precision int  `mapstructure:"precision" yaml:"precision" json:"precision"`
	Pretty    bool `mapstructure:"pretty" yaml:"pretty" json:"pretty"` // indent JSON
	Colors    bool `mapstructure:"colors" yaml:"colors" json:"colors"` // colour table output
}

// BatchConfig contains multi-file settings
type BatchConfig struct {
	MaxConcurrency int `mapstructure:"max_concurrency" yaml:"max_concurrency" json:"max_concurrency"`
}

// EnvPrefix is the prefix of environment variable overrides, e.g.
// AUDIO_RISK_RISK_THRESHOLD for risk.threshold
const EnvPrefix = "AUDIO_RISK"

var envKeyReplacer = strings.NewReplacer("-", "_", ".", "_")

// BindEnv enables environment variable overrides on v
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()
}

// LoadConfig loads configuration from the global viper instance
func LoadConfig() (*Config, error) {
	return LoadConfigFrom(viper.GetViper())
}

// LoadConfigFrom loads configuration from v, filling unset keys with defaults
func LoadConfigFrom(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unable to decode configuration: %w", err)
	}

	return config, nil
}

// ValidateConfig validates the configuration
func ValidateConfig(config *Config) error {
	if config.Audio.SampleRate <= 0 {
		return fmt.Errorf("audio sample rate must be positive")
	}

	if !loader.ValidQuality(config.Audio.ResampleQuality) {
		return fmt.Errorf("unknown resample quality %q (expected one of %v)", config.Audio.ResampleQuality, loader.ResampleQualities())
	}

	if config.Audio.MaxDuration < 0 {
		return fmt.Errorf("max duration cannot be negative")
	}

	if audio.ParseContentType(config.Decoder.TranscodeContentType) == audio.ContentUnknown {
		return fmt.Errorf("unknown transcode content type %q", config.Decoder.TranscodeContentType)
	}

	if config.Risk.Threshold < 0 || config.Risk.Threshold > 1 {
		return fmt.Errorf("risk threshold must be between 0 and 1")
	}

	if config.Output.Precision < 0 {
		return fmt.Errorf("output precision cannot be negative")
	}

	if _, err := output.NewFormatter(config.OutputFormat); err != nil {
		return err
	}

	if config.Batch.MaxConcurrency < 1 {
		return fmt.Errorf("batch max concurrency must be at least 1")
	}

	return nil
}

package configs

import (
	"github.com/RyanBlaney/audio-risk/pkg/audio"
	"github.com/RyanBlaney/audio-risk/pkg/risk"
	"github.com/spf13/viper"
)

// SetDefaults registers default configuration values on v. Defaults sit
// below flags, environment and config files.
func SetDefaults(v *viper.Viper) {
	d := GetDefaultConfig()

	// Application defaults
	v.SetDefault("verbose", d.Verbose)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("output_format", d.OutputFormat)

	// Audio defaults
	v.SetDefault("audio.sample_rate", d.Audio.SampleRate)
	v.SetDefault("audio.resample_quality", d.Audio.ResampleQuality)
	v.SetDefault("audio.max_duration", d.Audio.MaxDuration)

	// Decoder defaults
	v.SetDefault("decoder.transcode_content_type", d.Decoder.TranscodeContentType)

	// Risk defaults
	v.SetDefault("risk.threshold", d.Risk.Threshold)
	v.SetDefault("risk.strict_features", d.Risk.StrictFeatures)

	// Output defaults
	v.SetDefault("output.precision", d.Output.Precision)
	v.SetDefault("output.pretty", d.Output.Pretty)
	v.SetDefault("output.colors", d.Output.Colors)

	// Batch defaults
	v.SetDefault("batch.max_concurrency", d.Batch.MaxConcurrency)
}

// GetDefaultConfig returns a Config struct with all default values set
func GetDefaultConfig() *Config {
	return &Config{
		Verbose:      false,
		LogLevel:     "info",
		OutputFormat: "json",
		Audio:        GetDefaultAudioConfig(),
		Decoder:      DecoderConfig{TranscodeContentType: string(audio.ContentMixed)},
		Risk:         GetDefaultRiskConfig(),
		Output:       OutputConfig{Precision: 4, Pretty: true, Colors: true},
		Batch:        BatchConfig{MaxConcurrency: 4},
	}
}

// GetDefaultAudioConfig returns default audio loading settings
func GetDefaultAudioConfig() AudioConfig {
	return AudioConfig{
		SampleRate:      audio.DefaultSampleRate,
		ResampleQuality: "high",
		MaxDuration:     0,
	}
}

// GetDefaultRiskConfig returns default scoring settings
func GetDefaultRiskConfig() RiskConfig {
	return RiskConfig{
		Threshold:      risk.DefaultThreshold,
		StrictFeatures: false,
	}
}

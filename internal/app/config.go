package app

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/RyanBlaney/audio-risk/configs"
	"gopkg.in/yaml.v3"
)

// loadFeatureValues loads a previously computed feature map from a YAML or JSON file
func loadFeatureValues(filePath string) (map[string]any, error) {
	// Check if file exists
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("feature file does not exist: %s", filePath)
	}

	// Determine file format
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".yaml", ".yml":
		return loadFeatureValuesFromYAML(filePath)
	case ".json":
		return loadFeatureValuesFromJSON(filePath)
	default:
		// Try JSON first, then YAML
		if values, err := loadFeatureValuesFromJSON(filePath); err == nil {
			return values, nil
		}
		return loadFeatureValuesFromYAML(filePath)
	}
}

// loadFeatureValuesFromYAML loads from YAML file
func loadFeatureValuesFromYAML(filePath string) (map[string]any, error) {
	data, err := readFile(filePath)
	if err != nil {
		return nil, err
	}

	var values map[string]any
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("failed to parse YAML feature file: %w", err)
	}

	return unwrapFeatures(values), nil
}

// loadFeatureValuesFromJSON loads from JSON file. Numbers are kept as
// json.Number so integers and floats are both accepted.
func loadFeatureValuesFromJSON(filePath string) (map[string]any, error) {
	data, err := readFile(filePath)
	if err != nil {
		return nil, err
	}

	var values map[string]any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&values); err != nil {
		return nil, fmt.Errorf("failed to parse JSON feature file: %w", err)
	}

	return unwrapFeatures(values), nil
}

func readFile(filePath string) ([]byte, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open feature file: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read feature file: %w", err)
	}
	return data, nil
}

// unwrapFeatures accepts either a bare feature map or a previous analysis
// report, whose features sit under "features".
func unwrapFeatures(values map[string]any) map[string]any {
	if nested, ok := values["features"].(map[string]any); ok {
		return nested
	}
	return values
}

// mergeConfig applies CLI flag overrides on top of the loaded configuration
func mergeConfig(baseConfig *configs.Config, ctx *Context) *configs.Config {
	merged := *baseConfig

	if ctx.SampleRate > 0 {
		merged.Audio.SampleRate = ctx.SampleRate
	}
	if ctx.Threshold != nil {
		merged.Risk.Threshold = *ctx.Threshold
	}
	if ctx.MaxConcurrent > 0 {
		merged.Batch.MaxConcurrency = ctx.MaxConcurrent
	}
	if ctx.MaxDuration > 0 {
		merged.Audio.MaxDuration = ctx.MaxDuration
	}
	if ctx.OutputFormat != "" {
		merged.OutputFormat = ctx.OutputFormat
	}
	if ctx.StrictFeatures {
		merged.Risk.StrictFeatures = true
	}
	if ctx.Verbose {
		merged.Verbose = true
	}

	applyDefaults(&merged)
	return &merged
}

// applyDefaults fills zero values a partial config file may leave behind
func applyDefaults(config *configs.Config) {
	defaults := configs.GetDefaultConfig()

	if config.Audio.SampleRate == 0 {
		config.Audio.SampleRate = defaults.Audio.SampleRate
	}
	if config.Audio.ResampleQuality == "" {
		config.Audio.ResampleQuality = defaults.Audio.ResampleQuality
	}
	if config.Decoder.TranscodeContentType == "" {
		config.Decoder.TranscodeContentType = defaults.Decoder.TranscodeContentType
	}
	if config.Batch.MaxConcurrency == 0 {
		config.Batch.MaxConcurrency = defaults.Batch.MaxConcurrency
	}
	if config.OutputFormat == "" {
		config.OutputFormat = defaults.OutputFormat
	}
	if config.LogLevel == "" {
		config.LogLevel = defaults.LogLevel
	}
}

// GenerateExampleConfig writes the default configuration as YAML
func GenerateExampleConfig(outputFile string) error {
	data, err := yaml.Marshal(exampleConfig(configs.GetDefaultConfig()))
	if err != nil {
		return fmt.Errorf("failed to marshal example config: %w", err)
	}

	// Ensure directory exists
	dir := filepath.Dir(outputFile)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(outputFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// exampleConfig renders durations as strings so the file reads back through viper.
func exampleConfig(config *configs.Config) map[string]any {
	return map[string]any{
		"verbose":       config.Verbose,
		"log_level":     config.LogLevel,
		"output_format": config.OutputFormat,
		"audio": map[string]any{
			"sample_rate":      config.Audio.SampleRate,
			"resample_quality": config.Audio.ResampleQuality,
			"max_duration":     config.Audio.MaxDuration.String(),
		},
		"decoder": map[string]any{
			"transcode_content_type": config.Decoder.TranscodeContentType,
		},
		"risk": map[string]any{
			"threshold":       config.Risk.Threshold,
			"strict_features": config.Risk.StrictFeatures,
		},
		"output": map[string]any{
			"precision": config.Output.Precision,
			"pretty":    config.Output.Pretty,
			"colors":    config.Output.Colors,
		},
		"batch": map[string]any{
			"max_concurrency": config.Batch.MaxConcurrency,
		},
	}
}

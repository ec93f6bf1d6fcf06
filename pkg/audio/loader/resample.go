package loader

import (
	"fmt"
	"math"
	"strings"

	resampling "github.com/tphakala/go-audio-resampling"
)

var qualityPresets = map[string]resampling.QualitySpec{
	"quick":     {Preset: resampling.QualityQuick},
	"low":       {Preset: resampling.QualityLow},
	"medium":    {Preset: resampling.QualityMedium},
	"high":      {Preset: resampling.QualityHigh},
	"very_high": {Preset: resampling.QualityVeryHigh},
}

// ResampleQualities lists the accepted quality names.
func ResampleQualities() []string {
	return []string{"quick", "low", "medium", "high", "very_high"}
}

// ValidQuality reports whether name is an accepted quality.
func ValidQuality(name string) bool {
	_, ok := qualityPresets[strings.ToLower(name)]
	return ok
}

// Downmix averages channels sample by sample. The result is as long as the
// shortest channel.
func Downmix(channels [][]float64) []float64 {
	if len(channels) == 0 {
		return nil
	}
	if len(channels) == 1 {
		mono := make([]float64, len(channels[0]))
		copy(mono, channels[0])
		return mono
	}

	n := len(channels[0])
	for _, ch := range channels[1:] {
		n = min(n, len(ch))
	}

	mono := make([]float64, n)
	scale := 1 / float64(len(channels))
	for i := range mono {
		var sum float64
		for _, ch := range channels {
			sum += ch[i]
		}
		mono[i] = sum * scale
	}
	return mono
}

// ResampledLength is the number of samples a signal of n samples has after
// conversion from one rate to another.
func ResampledLength(n, from, to int) int {
	return int(math.Round(float64(n) * float64(to) / float64(from)))
}

// Resample converts mono samples between rates with a polyphase resampler.
// The output is trimmed or zero padded to ResampledLength so duration is
// preserved exactly.
func Resample(samples []float64, from, to int, quality string) ([]float64, error) {
	if from <= 0 || to <= 0 {
		return nil, fmt.Errorf("invalid sample rates %d -> %d", from, to)
	}
	if from == to || len(samples) == 0 {
		out := make([]float64, len(samples))
		copy(out, samples)
		return out, nil
	}

	spec, ok := qualityPresets[strings.ToLower(quality)]
	if !ok {
		return nil, fmt.Errorf("unknown resample quality %q", quality)
	}

	r, err := resampling.New(&resampling.Config{
		InputRate:  float64(from),
		OutputRate: float64(to),
		Channels:   1,
		Quality:    spec,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create resampler: %w", err)
	}

	out, err := r.Process(samples)
	if err != nil {
		return nil, fmt.Errorf("resample: %w", err)
	}
	tail, err := r.Flush()
	if err != nil {
		return nil, fmt.Errorf("resample flush: %w", err)
	}
	out = append(out, tail...)

	want := ResampledLength(len(samples), from, to)
	if len(out) >= want {
		return out[:want], nil
	}
	return append(out, make([]float64, want-len(out))...), nil
}

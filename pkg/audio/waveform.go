// Package audio holds the types shared by the loading, feature extraction and
// scoring stages.
package audio

import (
	"fmt"
	"math"
)

// DefaultSampleRate is the rate every waveform is resampled to before analysis.
const DefaultSampleRate = 16000

// Waveform is a mono signal with samples nominally in [-1, 1].
type Waveform struct {
	Samples    []float64 `json:"-"`
	SampleRate int       `json:"sample_rate"`
}

// NewWaveform wraps samples recorded at sampleRate.
func NewWaveform(samples []float64, sampleRate int) Waveform {
	return Waveform{Samples: samples, SampleRate: sampleRate}
}

// Len returns the number of samples.
func (w Waveform) Len() int {
	return len(w.Samples)
}

// Duration returns the length in seconds. It is 0 for an invalid sample rate.
func (w Waveform) Duration() float64 {
	if w.SampleRate <= 0 {
		return 0
	}
	return float64(len(w.Samples)) / float64(w.SampleRate)
}

// IsEmpty reports whether the waveform has no samples.
func (w Waveform) IsEmpty() bool {
	return len(w.Samples) == 0
}

// Validate checks the sample rate and that every sample is finite.
func (w Waveform) Validate() error {
	if w.SampleRate <= 0 {
		return NewInvalidWaveformError(fmt.Sprintf("sample rate must be positive, got %d", w.SampleRate))
	}
	for i, s := range w.Samples {
		if math.IsNaN(s) || math.IsInf(s, 0) {
			return NewInvalidWaveformError(fmt.Sprintf("sample %d is not finite", i))
		}
	}
	return nil
}

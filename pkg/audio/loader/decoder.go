// Package loader decodes audio files into mono waveforms at the analysis
// sample rate.
package loader

import (
	"context"
	"path/filepath"
	"strings"
)

// PCM is decoded audio before downmixing, one slice per channel.
type PCM struct {
	Data       [][]float64
	SampleRate int
}

// NumChannels returns the channel count.
func (p *PCM) NumChannels() int {
	return len(p.Data)
}

// Frames returns the per-channel length of the shortest channel.
func (p *PCM) Frames() int {
	if len(p.Data) == 0 {
		return 0
	}
	n := len(p.Data[0])
	for _, ch := range p.Data[1:] {
		n = min(n, len(ch))
	}
	return n
}

// Decoder turns encoded audio into PCM, from a file or from memory.
type Decoder interface {
	Decode(ctx context.Context, path string) (*PCM, error)
	DecodeBytes(ctx context.Context, name string, data []byte) (*PCM, error)
	Name() string
}

// Deinterleave splits interleaved samples into channels. A trailing partial
// frame is dropped.
func Deinterleave(interleaved []float64, channels int) [][]float64 {
	if channels <= 1 {
		mono := make([]float64, len(interleaved))
		copy(mono, interleaved)
		return [][]float64{mono}
	}

	frames := len(interleaved) / channels
	out := make([][]float64, channels)
	for ch := range out {
		out[ch] = make([]float64, frames)
	}
	for i := 0; i < frames; i++ {
		for ch := 0; ch < channels; ch++ {
			out[ch][i] = interleaved[i*channels+ch]
		}
	}
	return out
}

func isWAVPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav", ".wave":
		return true
	}
	return false
}

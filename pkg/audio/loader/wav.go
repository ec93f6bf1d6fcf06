package loader

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/RyanBlaney/audio-risk/pkg/audio"
	"github.com/RyanBlaney/audio-risk/pkg/logging"
	"github.com/youpy/go-wav"
)

// WAVDecoder reads integer PCM, 32-bit IEEE float, A-law and mu-law WAV
// files natively. Other WAV encodings are reported as unsupported so the
// Loader can hand them to the transcoder.
type WAVDecoder struct {
	logger logging.Logger
}

// NewWAVDecoder creates a WAV decoder.
func NewWAVDecoder() *WAVDecoder {
	return &WAVDecoder{
		logger: logging.WithFields(logging.Fields{
			"component": "wav_decoder",
		}),
	}
}

func (d *WAVDecoder) Name() string {
	return "wav"
}

// Decode opens and decodes the file at path.
func (d *WAVDecoder) Decode(ctx context.Context, path string) (*PCM, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, audio.NewDecodeError(path, "failed to open file", err)
	}
	defer f.Close()

	pcm, err := d.DecodeReader(ctx, f)
	if err != nil {
		if ae, ok := err.(*audio.AudioError); ok && ae.Path == "" {
			ae.Path = path
		}
		return nil, err
	}
	return pcm, nil
}

// DecodeBytes decodes a WAV file held in memory. name labels errors.
func (d *WAVDecoder) DecodeBytes(ctx context.Context, name string, data []byte) (*PCM, error) {
	pcm, err := d.DecodeReader(ctx, bytes.NewReader(data))
	if err != nil {
		if ae, ok := err.(*audio.AudioError); ok && ae.Path == "" {
			ae.Path = name
		}
		return nil, err
	}
	return pcm, nil
}

// WAVSource is what the WAV reader needs: sequential reads for the sample
// data and random access for the chunk headers.
type WAVSource interface {
	io.Reader
	io.ReaderAt
}

// DecodeReader decodes a WAV stream into samples in [-1, 1].
func (d *WAVDecoder) DecodeReader(ctx context.Context, r WAVSource) (*PCM, error) {
	reader := wav.NewReader(r)

	format, err := reader.Format()
	if err != nil {
		return nil, audio.NewDecodeError("", "failed to read WAV header", err)
	}

	logger := d.logger.WithFields(logging.Fields{
		"function":        "DecodeReader",
		"audio_format":    format.AudioFormat,
		"channels":        format.NumChannels,
		"sample_rate":     format.SampleRate,
		"bits_per_sample": format.BitsPerSample,
	})

	scale, offset, err := sampleScaling(format)
	if err != nil {
		return nil, err
	}
	if format.NumChannels == 0 || format.NumChannels > 2 {
		return nil, audio.NewUnsupportedFormatError("", fmt.Sprintf("unsupported channel count %d", format.NumChannels))
	}
	if format.SampleRate == 0 {
		return nil, audio.NewDecodeError("", "WAV header has zero sample rate", nil)
	}

	channels := int(format.NumChannels)
	data := make([][]float64, channels)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		samples, err := reader.ReadSamples()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, audio.NewDecodeError("", "failed to read WAV samples", err)
		}

		for _, sample := range samples {
			for ch := 0; ch < channels; ch++ {
				v := float64(reader.IntValue(sample, uint(ch)))
				data[ch] = append(data[ch], (v-offset)/scale)
			}
		}
	}

	logger.Debug("WAV decoded", logging.Fields{"frames": len(data[0])})

	return &PCM{Data: data, SampleRate: int(format.SampleRate)}, nil
}

// sampleScaling maps go-wav's integer sample values back to [-1, 1].
// Integer PCM is scaled by 2^(bits-1) with 8-bit data unsigned around 128.
// go-wav widens 32-bit floats to MaxInt32 and expands G.711 to 16-bit.
func sampleScaling(format *wav.WavFormat) (scale, offset float64, err error) {
	bits := format.BitsPerSample
	switch format.AudioFormat {
	case wav.AudioFormatPCM:
		switch bits {
		case 8:
			return 128, 128, nil
		case 16, 24, 32:
			return float64(int64(1) << (bits - 1)), 0, nil
		}
	case wav.AudioFormatIEEEFloat:
		if bits == 32 {
			return math.MaxInt32, 0, nil
		}
	case wav.AudioFormatALaw, wav.AudioFormatMULaw:
		if bits == 8 {
			return 1 << 15, 0, nil
		}
	default:
		return 0, 0, audio.NewUnsupportedFormatError("", fmt.Sprintf("WAV audio format %d is not supported natively", format.AudioFormat))
	}
	return 0, 0, audio.NewUnsupportedFormatError("", fmt.Sprintf("unsupported bit depth %d for WAV audio format %d", bits, format.AudioFormat))
}

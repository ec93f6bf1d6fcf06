package loader

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/RyanBlaney/audio-risk/pkg/audio"
	"github.com/RyanBlaney/audio-risk/pkg/logging"
)

// Loader decodes files, downmixes them to mono and resamples them to a
// fixed rate. A Loader is safe for concurrent use.
type Loader struct {
	sampleRate  int
	quality     string
	maxDuration time.Duration
	wav         Decoder
	transcoder  Decoder
	logger      logging.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithSampleRate sets the output sample rate.
func WithSampleRate(sampleRate int) Option {
	return func(l *Loader) { l.sampleRate = sampleRate }
}

// WithQuality sets the resampler quality preset.
func WithQuality(quality string) Option {
	return func(l *Loader) { l.quality = quality }
}

// WithMaxDuration truncates loaded audio. Zero keeps everything.
func WithMaxDuration(d time.Duration) Option {
	return func(l *Loader) { l.maxDuration = d }
}

// WithContentType tunes the transcoding decoder.
func WithContentType(contentType audio.ContentType) Option {
	return func(l *Loader) { l.transcoder = NewTranscodingDecoder(contentType) }
}

// WithDecoders replaces the WAV and fallback decoders.
func WithDecoders(wav, fallback Decoder) Option {
	return func(l *Loader) {
		if wav != nil {
			l.wav = wav
		}
		if fallback != nil {
			l.transcoder = fallback
		}
	}
}

// New creates a Loader producing DefaultSampleRate audio unless configured otherwise.
func New(opts ...Option) *Loader {
	l := &Loader{
		sampleRate: audio.DefaultSampleRate,
		quality:    "high",
		wav:        NewWAVDecoder(),
		transcoder: NewTranscodingDecoder(audio.ContentMixed),
		logger: logging.WithFields(logging.Fields{
			"component": "audio_loader",
		}),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// SampleRate returns the rate every loaded waveform has.
func (l *Loader) SampleRate() int {
	return l.sampleRate
}

// LoadAudio loads path as mono audio at sampleRate with default settings.
func LoadAudio(ctx context.Context, path string, sampleRate int) (audio.Waveform, error) {
	return New(WithSampleRate(sampleRate)).Load(ctx, path)
}

// Load decodes path and returns a mono waveform at the loader's sample rate.
// WAV files are read natively; everything else, and WAV encodings the native
// reader does not handle, goes through the transcoder.
func (l *Loader) Load(ctx context.Context, path string) (audio.Waveform, error) {
	if l.sampleRate <= 0 {
		return audio.Waveform{}, audio.NewDecodeError(path, fmt.Sprintf("invalid target sample rate %d", l.sampleRate), nil)
	}

	pcm, err := l.decode(path, isWAVPath(path), func(d Decoder) (*PCM, error) {
		return d.Decode(ctx, path)
	})
	if err != nil {
		return audio.Waveform{}, err
	}
	return l.finish(path, pcm)
}

// LoadBytes loads encoded audio held in memory. ext (such as ".wav" or
// "mp3") selects the decoder the same way a file extension does.
func (l *Loader) LoadBytes(ctx context.Context, data []byte, ext string) (audio.Waveform, error) {
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	name := "<memory>" + ext

	if l.sampleRate <= 0 {
		return audio.Waveform{}, audio.NewDecodeError(name, fmt.Sprintf("invalid target sample rate %d", l.sampleRate), nil)
	}

	pcm, err := l.decode(name, isWAVPath(name), func(d Decoder) (*PCM, error) {
		return d.DecodeBytes(ctx, name, data)
	})
	if err != nil {
		return audio.Waveform{}, err
	}
	return l.finish(name, pcm)
}

// decode runs the WAV decoder first for WAV input and falls back to the
// transcoder only when the WAV decoder reports the encoding unsupported.
func (l *Loader) decode(name string, wav bool, run func(Decoder) (*PCM, error)) (*PCM, error) {
	if !wav {
		return run(l.transcoder)
	}

	pcm, err := run(l.wav)
	if err == nil {
		return pcm, nil
	}
	if !audio.IsUnsupported(err) {
		return nil, err
	}

	l.logger.Debug("Falling back to transcoder", logging.Fields{
		"name":   name,
		"reason": err.Error(),
	})
	return run(l.transcoder)
}

// finish downmixes, truncates and resamples decoded audio.
func (l *Loader) finish(name string, pcm *PCM) (audio.Waveform, error) {
	if pcm.NumChannels() == 0 || pcm.SampleRate <= 0 {
		return audio.Waveform{}, audio.NewDecodeError(name,
			fmt.Sprintf("decoded audio has %d channels at %d Hz", pcm.NumChannels(), pcm.SampleRate), nil)
	}

	mono := Downmix(pcm.Data)
	if l.maxDuration > 0 {
		maxSamples := int(l.maxDuration.Seconds() * float64(pcm.SampleRate))
		if len(mono) > maxSamples {
			mono = mono[:maxSamples]
		}
	}

	samples, err := Resample(mono, pcm.SampleRate, l.sampleRate, l.quality)
	if err != nil {
		return audio.Waveform{}, audio.NewDecodeError(name, "failed to resample", err)
	}

	w := audio.NewWaveform(samples, l.sampleRate)
	l.logger.Debug("Audio loaded", logging.Fields{
		"name":            name,
		"source_rate":     pcm.SampleRate,
		"source_channels": pcm.NumChannels(),
		"samples":         w.Len(),
		"duration":        w.Duration(),
	})
	return w, nil
}

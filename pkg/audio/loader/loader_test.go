package loader

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/RyanBlaney/audio-risk/pkg/audio"
	"github.com/RyanBlaney/sonido-sonar/transcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/youpy/go-wav"
)

func encodeWAV(t *testing.T, channels [][]int, sampleRate uint32) []byte {
	t.Helper()
	n := len(channels[0])
	samples := make([]wav.Sample, n)
	for i := range samples {
		for ch := range channels {
			samples[i].Values[ch] = channels[ch][i]
		}
	}

	var buf bytes.Buffer
	w := wav.NewWriter(&buf, uint32(n), uint16(len(channels)), sampleRate, 16)
	require.NoError(t, w.WriteSamples(samples))
	return buf.Bytes()
}

func writeWAV(t *testing.T, channels [][]int, sampleRate uint32) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.wav")
	require.NoError(t, os.WriteFile(path, encodeWAV(t, channels, sampleRate), 0o644))
	return path
}

func ramp(n int, step int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = (i * step) % 32767
	}
	return out
}

func TestWAVDecoderMono(t *testing.T) {
	data := []int{0, 16384, -16384, 32767, -32768}
	pcm, err := NewWAVDecoder().DecodeReader(context.Background(), bytes.NewReader(encodeWAV(t, [][]int{data}, 16000)))
	require.NoError(t, err)

	assert.Equal(t, 16000, pcm.SampleRate)
	require.Equal(t, 1, pcm.NumChannels())
	assert.Equal(t, []float64{0, 0.5, -0.5, 32767.0 / 32768, -1}, pcm.Data[0])
}

func TestWAVDecoderStereo(t *testing.T) {
	left := []int{16384, 16384, 16384}
	right := []int{0, -16384, 16384}
	pcm, err := NewWAVDecoder().DecodeReader(context.Background(), bytes.NewReader(encodeWAV(t, [][]int{left, right}, 44100)))
	require.NoError(t, err)

	require.Equal(t, 2, pcm.NumChannels())
	assert.Equal(t, 3, pcm.Frames())
	assert.Equal(t, []float64{0.25, 0, 0.5}, Downmix(pcm.Data))
}

func TestWAVDecoderRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.wav")
	require.NoError(t, os.WriteFile(path, []byte("definitely not a RIFF file"), 0o644))

	_, err := NewWAVDecoder().Decode(context.Background(), path)
	assert.ErrorIs(t, err, audio.ErrDecode)
}

func TestWAVDecoderMissingFile(t *testing.T) {
	_, err := NewWAVDecoder().Decode(context.Background(), filepath.Join(t.TempDir(), "missing.wav"))
	assert.ErrorIs(t, err, audio.ErrDecode)

	var ae *audio.AudioError
	require.ErrorAs(t, err, &ae)
	assert.Contains(t, ae.Path, "missing.wav")
}

func TestWAVDecoderHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewWAVDecoder().DecodeReader(ctx, bytes.NewReader(encodeWAV(t, [][]int{{1, 2, 3}}, 16000)))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoadKeepsRateAndLength(t *testing.T) {
	path := writeWAV(t, [][]int{ramp(16000, 7)}, 16000)

	w, err := LoadAudio(context.Background(), path, 16000)
	require.NoError(t, err)
	assert.Equal(t, 16000, w.SampleRate)
	assert.Equal(t, 16000, w.Len())
	assert.Equal(t, 1.0, w.Duration())
	assert.InDelta(t, 7.0/32768, w.Samples[1], 1e-12)
}

func TestLoadResamples(t *testing.T) {
	n := 8000
	tone := make([]int, n)
	for i := range tone {
		tone[i] = int(10000 * math.Sin(2*math.Pi*440*float64(i)/8000))
	}
	path := writeWAV(t, [][]int{tone, tone}, 8000)

	w, err := New(WithSampleRate(16000)).Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 16000, w.Len())
	assert.Equal(t, 1.0, w.Duration())
	assert.NoError(t, w.Validate())
}

func TestLoadMaxDuration(t *testing.T) {
	path := writeWAV(t, [][]int{ramp(32000, 3)}, 16000)

	w, err := New(WithMaxDuration(500*time.Millisecond)).Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 8000, w.Len())
}

func TestLoadBytesDecodesInMemory(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("TMPDIR", tmp)

	data := encodeWAV(t, [][]int{ramp(1600, 11)}, 16000)
	w, err := New().LoadBytes(context.Background(), data, "wav")
	require.NoError(t, err)
	assert.Equal(t, 1600, w.Len())

	entries, err := os.ReadDir(tmp)
	require.NoError(t, err)
	assert.Empty(t, entries, "nothing is spilled to disk")
}

func TestLoadBytesRoutesByExtension(t *testing.T) {
	native := &stubDecoder{name: "wav", pcm: &PCM{Data: [][]float64{{0.1, 0.2}}, SampleRate: 16000}}
	fallback := &stubDecoder{name: "transcode", pcm: &PCM{Data: [][]float64{{0.3, 0.4}}, SampleRate: 16000}}
	l := New(WithDecoders(native, fallback))

	w, err := l.LoadBytes(context.Background(), []byte("RIFF"), ".wav")
	require.NoError(t, err)
	assert.Equal(t, []float64{0.1, 0.2}, w.Samples)

	w, err = l.LoadBytes(context.Background(), []byte("ID3"), "mp3")
	require.NoError(t, err)
	assert.Equal(t, []float64{0.3, 0.4}, w.Samples)

	assert.Equal(t, 1, native.bytesCalls)
	assert.Equal(t, 1, fallback.bytesCalls)
	assert.Zero(t, native.calls+fallback.calls)
}

func TestLoadBytesFallsBackForUnsupportedWAV(t *testing.T) {
	native := &stubDecoder{name: "wav", err: audio.NewUnsupportedFormatError("", "64-bit float")}
	fallback := &stubDecoder{name: "transcode", pcm: &PCM{Data: [][]float64{{0.5}}, SampleRate: 16000}}

	w, err := New(WithDecoders(native, fallback)).LoadBytes(context.Background(), []byte("RIFF"), "wav")
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5}, w.Samples)
	assert.Equal(t, 1, fallback.bytesCalls)
}

// encodeFloatWAV writes a mono 32-bit IEEE float WAV, which go-wav's writer
// cannot produce.
func encodeFloatWAV(t *testing.T, samples []float32, sampleRate uint32) []byte {
	t.Helper()
	dataSize := uint32(len(samples) * 4)

	var buf bytes.Buffer
	buf.WriteString("RIFF")
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, 36+dataSize))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint32(16)))
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, wav.WavFormat{
		AudioFormat:   wav.AudioFormatIEEEFloat,
		NumChannels:   1,
		SampleRate:    sampleRate,
		ByteRate:      sampleRate * 4,
		BlockAlign:    4,
		BitsPerSample: 32,
	}))
	buf.WriteString("data")
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, dataSize))
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, samples))
	return buf.Bytes()
}

func TestWAVDecoderIEEEFloat(t *testing.T) {
	data := encodeFloatWAV(t, []float32{0, 0.5, -0.5, 0.25, -1}, 22050)

	pcm, err := NewWAVDecoder().DecodeBytes(context.Background(), "float.wav", data)
	require.NoError(t, err)
	assert.Equal(t, 22050, pcm.SampleRate)
	require.Equal(t, 1, pcm.NumChannels())
	assert.InDeltaSlice(t, []float64{0, 0.5, -0.5, 0.25, -1}, pcm.Data[0], 1e-6)
}

func TestLoadFloatWAVStaysNative(t *testing.T) {
	path := filepath.Join(t.TempDir(), "float.wav")
	require.NoError(t, os.WriteFile(path, encodeFloatWAV(t, []float32{0.5, 0.5, 0.5, 0.5}, 16000), 0o644))

	fallback := &stubDecoder{name: "transcode"}
	w, err := New(WithDecoders(nil, fallback)).Load(context.Background(), path)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.5, 0.5, 0.5, 0.5}, w.Samples, 1e-6)
	assert.Zero(t, fallback.calls)
}

func TestSampleScalingRejectsUnknownEncodings(t *testing.T) {
	tests := []struct {
		name   string
		format wav.WavFormat
	}{
		{"64-bit float", wav.WavFormat{AudioFormat: wav.AudioFormatIEEEFloat, BitsPerSample: 64}},
		{"12-bit PCM", wav.WavFormat{AudioFormat: wav.AudioFormatPCM, BitsPerSample: 12}},
		{"ADPCM", wav.WavFormat{AudioFormat: 2, BitsPerSample: 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := sampleScaling(&tt.format)
			assert.True(t, audio.IsUnsupported(err))
		})
	}
}

func TestTranscoderToPCM(t *testing.T) {
	d := NewTranscodingDecoder(audio.ContentMusic)

	pcm, err := d.toPCM("clip.mp3", &transcode.AudioData{PCM: []float64{1, 2, 3, 4}, SampleRate: 44100, Channels: 2})
	require.NoError(t, err)
	assert.Equal(t, 44100, pcm.SampleRate)
	assert.Equal(t, [][]float64{{1, 3}, {2, 4}}, pcm.Data)

	_, err = d.toPCM("clip.mp3", "not audio")
	assert.ErrorIs(t, err, audio.ErrDecode)

	_, err = d.toPCM("clip.mp3", &transcode.AudioData{PCM: []float64{1}, Channels: 1})
	assert.ErrorIs(t, err, audio.ErrDecode)
}

func TestTranscoderHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewTranscodingDecoder(audio.ContentMixed).DecodeBytes(ctx, "clip.mp3", []byte("x"))
	assert.ErrorIs(t, err, context.Canceled)
}

type stubDecoder struct {
	name       string
	pcm        *PCM
	err        error
	calls      int
	bytesCalls int
}

func (s *stubDecoder) Decode(ctx context.Context, path string) (*PCM, error) {
	s.calls++
	return s.pcm, s.err
}

func (s *stubDecoder) DecodeBytes(ctx context.Context, name string, data []byte) (*PCM, error) {
	s.bytesCalls++
	return s.pcm, s.err
}

func (s *stubDecoder) Name() string { return s.name }

func TestLoadFallsBackForUnsupportedWAV(t *testing.T) {
	native := &stubDecoder{name: "wav", err: audio.NewUnsupportedFormatError("x.wav", "IEEE float")}
	fallback := &stubDecoder{name: "transcode", pcm: &PCM{Data: [][]float64{{0.1, 0.2}}, SampleRate: 16000}}

	w, err := New(WithDecoders(native, fallback)).Load(context.Background(), "x.wav")
	require.NoError(t, err)
	assert.Equal(t, []float64{0.1, 0.2}, w.Samples)
	assert.Equal(t, 1, native.calls)
	assert.Equal(t, 1, fallback.calls)
}

func TestLoadDoesNotFallBackOnCorruptWAV(t *testing.T) {
	native := &stubDecoder{name: "wav", err: audio.NewDecodeError("x.wav", "bad header", errors.New("EOF"))}
	fallback := &stubDecoder{name: "transcode"}

	_, err := New(WithDecoders(native, fallback)).Load(context.Background(), "x.wav")
	assert.ErrorIs(t, err, audio.ErrDecode)
	assert.Equal(t, 0, fallback.calls)
}

func TestLoadRoutesOtherFormatsToTranscoder(t *testing.T) {
	native := &stubDecoder{name: "wav"}
	fallback := &stubDecoder{name: "transcode", pcm: &PCM{Data: [][]float64{{0.5, 0.5}, {0, 0}}, SampleRate: 16000}}

	w, err := New(WithDecoders(native, fallback)).Load(context.Background(), "clip.mp3")
	require.NoError(t, err)
	assert.Equal(t, []float64{0.25, 0.25}, w.Samples)
	assert.Equal(t, 0, native.calls)
}

func TestLoadRejectsChannellessAudio(t *testing.T) {
	fallback := &stubDecoder{name: "transcode", pcm: &PCM{SampleRate: 16000}}

	_, err := New(WithDecoders(nil, fallback)).Load(context.Background(), "clip.ogg")
	assert.ErrorIs(t, err, audio.ErrDecode)
}

func TestDownmix(t *testing.T) {
	assert.Nil(t, Downmix(nil))
	assert.Equal(t, []float64{1, 2}, Downmix([][]float64{{1, 2}}))
	assert.Equal(t, []float64{0.5, 1}, Downmix([][]float64{{1, 2, 3}, {0, 0}}))
}

func TestDeinterleave(t *testing.T) {
	assert.Equal(t, [][]float64{{1, 3}, {2, 4}}, Deinterleave([]float64{1, 2, 3, 4, 5}, 2))
	assert.Equal(t, [][]float64{{1, 2, 3}}, Deinterleave([]float64{1, 2, 3}, 1))
	assert.Equal(t, [][]float64{{1, 2}}, Deinterleave([]float64{1, 2}, 0))
}

func TestResample(t *testing.T) {
	same, err := Resample([]float64{1, 2, 3}, 16000, 16000, "high")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3}, same)

	_, err = Resample([]float64{1}, 0, 16000, "high")
	assert.Error(t, err)

	_, err = Resample([]float64{1, 2}, 8000, 16000, "ultra")
	assert.Error(t, err)

	down, err := Resample(make([]float64, 44100), 44100, 16000, "medium")
	require.NoError(t, err)
	assert.Len(t, down, 16000)

	assert.Equal(t, 16000, ResampledLength(44100, 44100, 16000))
	assert.Equal(t, 363, ResampledLength(1000, 44100, 16000))
}

func TestValidQuality(t *testing.T) {
	for _, q := range ResampleQualities() {
		assert.True(t, ValidQuality(q), q)
	}
	assert.True(t, ValidQuality("HIGH"))
	assert.False(t, ValidQuality("ultra"))
}

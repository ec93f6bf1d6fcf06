package loader

import (
	"context"
	"fmt"

	"github.com/RyanBlaney/audio-risk/pkg/audio"
	"github.com/RyanBlaney/audio-risk/pkg/logging"
	"github.com/RyanBlaney/latency-benchmark-common/stream/common"
	"github.com/RyanBlaney/sonido-sonar/transcode"
)

// TranscodingDecoder decodes any container or codec through sonido-sonar's
// normalizing decoder.
type TranscodingDecoder struct {
	contentType audio.ContentType
	logger      logging.Logger
}

// NewTranscodingDecoder creates a decoder tuned for contentType.
func NewTranscodingDecoder(contentType audio.ContentType) *TranscodingDecoder {
	if contentType == "" || contentType == audio.ContentUnknown {
		contentType = audio.ContentMixed
	}
	return &TranscodingDecoder{
		contentType: contentType,
		logger: logging.WithFields(logging.Fields{
			"component":    "transcoding_decoder",
			"content_type": string(contentType),
		}),
	}
}

func (d *TranscodingDecoder) Name() string {
	return "transcode"
}

// Decode decodes the file at path. The transcoder is not cancellable, so ctx
// is only checked before starting.
func (d *TranscodingDecoder) Decode(ctx context.Context, path string) (*PCM, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.logger.Debug("Decoding file with transcoder", logging.Fields{"path": path})

	decoded, err := transcode.NewNormalizingDecoder(string(d.contentType)).DecodeFile(path)
	if err != nil {
		return nil, audio.NewDecodeError(path, "failed to decode audio file", err)
	}
	return d.toPCM(path, decoded)
}

// DecodeBytes decodes encoded audio held in memory without touching disk.
func (d *TranscodingDecoder) DecodeBytes(ctx context.Context, name string, data []byte) (*PCM, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.logger.Debug("Decoding bytes with transcoder", logging.Fields{
		"name":  name,
		"bytes": len(data),
	})

	decoded, err := transcode.NewNormalizingDecoder(string(d.contentType)).DecodeBytes(data)
	if err != nil {
		return nil, audio.NewDecodeError(name, "failed to decode audio data", err)
	}
	return d.toPCM(name, decoded)
}

// toPCM converts the transcoder's result, which DecodeBytes hands back
// untyped, through the shared stream AudioData shape.
func (d *TranscodingDecoder) toPCM(name string, decoded any) (*PCM, error) {
	data := common.ConvertToAudioData(decoded)
	if data == nil {
		return nil, audio.NewDecodeError(name, fmt.Sprintf("decoder returned unexpected type: %T", decoded), nil)
	}
	if data.SampleRate <= 0 {
		return nil, audio.NewDecodeError(name, fmt.Sprintf("decoder reported sample rate %d", data.SampleRate), nil)
	}

	d.logger.Debug("Transcoder finished", logging.Fields{
		"name":        name,
		"samples":     len(data.PCM),
		"sample_rate": data.SampleRate,
		"channels":    data.Channels,
	})

	return &PCM{
		Data:       Deinterleave(data.PCM, data.Channels),
		SampleRate: data.SampleRate,
	}, nil
}

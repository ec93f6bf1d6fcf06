package audio

import "errors"

// Error codes carried by AudioError.
const (
	ErrCodeDecoding        = "DECODING_FAILED"
	ErrCodeEmptyAudio      = "EMPTY_AUDIO"
	ErrCodeInvalidFeature  = "INVALID_FEATURE"
	ErrCodeInvalidWaveform = "INVALID_WAVEFORM"
	ErrCodeUnsupported     = "UNSUPPORTED_FORMAT"
)

// Sentinels for errors.Is. An AudioError matches the sentinel of its code;
// UNSUPPORTED_FORMAT is a decode failure and matches ErrDecode.
var (
	ErrDecode          = errors.New("audio could not be decoded")
	ErrEmptyAudio      = errors.New("audio contains no samples")
	ErrInvalidFeature  = errors.New("invalid feature value")
	ErrInvalidWaveform = errors.New("invalid waveform")
)

// AudioError represents failures of the analysis pipeline.
type AudioError struct {
	Code    string `json:"code"`
	Path    string `json:"path,omitempty"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

func (e *AudioError) Error() string {
	msg := e.Message
	if e.Path != "" {
		msg = e.Path + ": " + msg
	}
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

func (e *AudioError) Unwrap() error {
	return e.Cause
}

// Is matches the sentinel corresponding to the error code.
func (e *AudioError) Is(target error) bool {
	switch target {
	case ErrDecode:
		return e.Code == ErrCodeDecoding || e.Code == ErrCodeUnsupported
	case ErrEmptyAudio:
		return e.Code == ErrCodeEmptyAudio
	case ErrInvalidFeature:
		return e.Code == ErrCodeInvalidFeature
	case ErrInvalidWaveform:
		return e.Code == ErrCodeInvalidWaveform
	}
	return false
}

// NewAudioError creates a new audio error
func NewAudioError(code, path, message string, cause error) *AudioError {
	return &AudioError{
		Code:    code,
		Path:    path,
		Message: message,
		Cause:   cause,
	}
}

func NewDecodeError(path, message string, cause error) *AudioError {
	return NewAudioError(ErrCodeDecoding, path, message, cause)
}

func NewUnsupportedFormatError(path, message string) *AudioError {
	return NewAudioError(ErrCodeUnsupported, path, message, nil)
}

func NewEmptyAudioError(path string) *AudioError {
	return NewAudioError(ErrCodeEmptyAudio, path, "audio contains no samples", nil)
}

func NewInvalidFeatureError(message string) *AudioError {
	return NewAudioError(ErrCodeInvalidFeature, "", message, nil)
}

func NewInvalidWaveformError(message string) *AudioError {
	return NewAudioError(ErrCodeInvalidWaveform, "", message, nil)
}

// IsUnsupported reports whether err is an AudioError with the UNSUPPORTED_FORMAT code.
func IsUnsupported(err error) bool {
	var ae *AudioError
	return errors.As(err, &ae) && ae.Code == ErrCodeUnsupported
}

package extractors

import "fmt"

// FeatureConfig holds the analysis parameters. The defaults reproduce the
// reference feature values and changing them changes what the risk ranges mean.
type FeatureConfig struct {
	FrameLength int `json:"frame_length"` // RMS / ZCR frame and STFT window for the centroid
	HopLength   int `json:"hop_length"`

	CentroidFFTSize int `json:"centroid_fft_size"`

	MFCCFFTSize int     `json:"mfcc_fft_size"`
	NumMels     int     `json:"num_mels"`
	NumMFCC     int     `json:"num_mfcc"`
	MelFMin     float64 `json:"mel_fmin"`
	MelFMax     float64 `json:"mel_fmax"` // 0 means Nyquist
	TopDB       float64 `json:"top_db"`

	ZeroThreshold float64 `json:"zero_threshold"` // |x| at or below counts as 0 for ZCR
}

// DefaultFeatureConfig returns the standard analysis parameters.
func DefaultFeatureConfig() *FeatureConfig {
	return &FeatureConfig{
		FrameLength:     1024,
		HopLength:       512,
		CentroidFFTSize: 1024,
		MFCCFFTSize:     2048,
		NumMels:         128,
		NumMFCC:         13,
		MelFMin:         0,
		MelFMax:         0,
		TopDB:           80,
		ZeroThreshold:   1e-10,
	}
}

func (c *FeatureConfig) validate() error {
	switch {
	case c.FrameLength <= 0 || c.HopLength <= 0:
		return fmt.Errorf("frame_length and hop_length must be positive")
	case c.CentroidFFTSize <= 0 || c.MFCCFFTSize <= 0:
		return fmt.Errorf("FFT sizes must be positive")
	case c.NumMels <= 0:
		return fmt.Errorf("num_mels must be positive")
	case c.NumMFCC < 3:
		return fmt.Errorf("num_mfcc must be at least 3, got %d", c.NumMFCC)
	case c.NumMFCC > c.NumMels:
		return fmt.Errorf("num_mfcc (%d) cannot exceed num_mels (%d)", c.NumMFCC, c.NumMels)
	}
	return nil
}

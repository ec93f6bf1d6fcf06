package extractors

import (
	"fmt"
	"math"

	"github.com/RyanBlaney/audio-risk/pkg/audio"
)

// Feature keys, in output order.
const (
	KeyRMSMean              = "rms_mean"
	KeyRMSMax               = "rms_max"
	KeySpectralCentroidMean = "spec_centroid_mean"
	KeySpectralCentroidMax  = "spec_centroid_max"
	KeyZCRMean              = "zcr_mean"
	KeyMFCC1Mean            = "mfcc1_mean"
	KeyMFCC2Mean            = "mfcc2_mean"
	KeyMFCC3Mean            = "mfcc3_mean"
	KeyDuration             = "duration"
)

// FeatureMap is the fixed set of summary features for one waveform.
type FeatureMap struct {
	RMSMean              float64 `json:"rms_mean" yaml:"rms_mean"`
	RMSMax               float64 `json:"rms_max" yaml:"rms_max"`
	SpectralCentroidMean float64 `json:"spec_centroid_mean" yaml:"spec_centroid_mean"`
	SpectralCentroidMax  float64 `json:"spec_centroid_max" yaml:"spec_centroid_max"`
	ZCRMean              float64 `json:"zcr_mean" yaml:"zcr_mean"`
	MFCC1Mean            float64 `json:"mfcc1_mean" yaml:"mfcc1_mean"`
	MFCC2Mean            float64 `json:"mfcc2_mean" yaml:"mfcc2_mean"`
	MFCC3Mean            float64 `json:"mfcc3_mean" yaml:"mfcc3_mean"`
	Duration             float64 `json:"duration" yaml:"duration"`
}

// Keys returns the feature names in output order.
func Keys() []string {
	return []string{
		KeyRMSMean, KeyRMSMax,
		KeySpectralCentroidMean, KeySpectralCentroidMax,
		KeyZCRMean,
		KeyMFCC1Mean, KeyMFCC2Mean, KeyMFCC3Mean,
		KeyDuration,
	}
}

// Values returns the features as a flat key/value map.
func (f FeatureMap) Values() map[string]float64 {
	return map[string]float64{
		KeyRMSMean:              f.RMSMean,
		KeyRMSMax:               f.RMSMax,
		KeySpectralCentroidMean: f.SpectralCentroidMean,
		KeySpectralCentroidMax:  f.SpectralCentroidMax,
		KeyZCRMean:              f.ZCRMean,
		KeyMFCC1Mean:            f.MFCC1Mean,
		KeyMFCC2Mean:            f.MFCC2Mean,
		KeyMFCC3Mean:            f.MFCC3Mean,
		KeyDuration:             f.Duration,
	}
}

// Validate rejects NaN and infinite features.
func (f FeatureMap) Validate() error {
	values := f.Values()
	for _, key := range Keys() {
		if v := values[key]; math.IsNaN(v) || math.IsInf(v, 0) {
			return audio.NewInvalidFeatureError(fmt.Sprintf("feature %s is not finite", key))
		}
	}
	return nil
}

// FrameSequences holds the per-frame values the summary features are reduced from.
type FrameSequences struct {
	RMS              []float64   `json:"rms" yaml:"rms"`
	SpectralCentroid []float64   `json:"spectral_centroid" yaml:"spectral_centroid"`
	ZCR              []float64   `json:"zcr" yaml:"zcr"`
	MFCC             [][]float64 `json:"mfcc" yaml:"mfcc"` // [coefficient][frame]
}

// Frames returns the number of analysis frames.
func (s *FrameSequences) Frames() int {
	return len(s.RMS)
}

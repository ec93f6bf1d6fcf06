// Package risk maps extracted audio features to a risk score in [0, 1].
//
// The score is a weighted sum of three normalised features: peak loudness
// (rms_max), peak brightness (spec_centroid_max) and noisiness (zcr_mean).
package risk

import (
	"fmt"
	"math"

	"github.com/RyanBlaney/audio-risk/pkg/audio"
	"github.com/RyanBlaney/audio-risk/pkg/audio/extractors"
)

// DefaultThreshold is the informational decision threshold reported with
// every score. Scoring never uses it.
const DefaultThreshold = 0.45

// Range is the [Low, High] interval a feature is normalised over.
type Range struct {
	Low  float64 `json:"low" yaml:"low"`
	High float64 `json:"high" yaml:"high"`
}

// Normalize maps x into [0, 1] over the range.
func (r Range) Normalize(x float64) float64 {
	return Norm(x, r.Low, r.High)
}

// Weights are the contributions of each normalised feature.
type Weights struct {
	RMS      float64 `json:"rms" yaml:"rms"`
	Spectral float64 `json:"spectral" yaml:"spectral"`
	ZCR      float64 `json:"zcr" yaml:"zcr"`
}

var (
	RMSRange      = Range{Low: 0.02, High: 0.25}
	SpectralRange = Range{Low: 1000, High: 5000}
	ZCRRange      = Range{Low: 0.02, High: 0.2}

	DefaultWeights = Weights{RMS: 0.55, Spectral: 0.35, ZCR: 0.10}
)

// Norm linearly rescales x from [low, high] to [0, 1] and clamps. A
// degenerate range (high <= low) or a NaN result yields 0.
func Norm(x, low, high float64) float64 {
	if !(high > low) {
		return 0
	}
	v := (x - low) / (high - low)
	if math.IsNaN(v) {
		return 0
	}
	return clamp01(v)
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// Round4 rounds a score to 4 decimal places for reporting.
func Round4(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}

// Breakdown is a score together with its normalised components.
type Breakdown struct {
	RMSScore      float64 `json:"rms_score" yaml:"rms_score"`
	SpectralScore float64 `json:"spectral_score" yaml:"spectral_score"`
	ZCRScore      float64 `json:"zcr_score" yaml:"zcr_score"`
	Risk          float64 `json:"risk" yaml:"risk"`
}

// Scorer holds the ranges and weights. It is immutable and safe for
// concurrent use.
type Scorer struct {
	rms      Range
	spectral Range
	zcr      Range
	weights  Weights
}

// NewScorer creates a scorer with custom ranges and weights.
func NewScorer(rms, spectral, zcr Range, weights Weights) *Scorer {
	return &Scorer{rms: rms, spectral: spectral, zcr: zcr, weights: weights}
}

// DefaultScorer returns the standard scorer.
func DefaultScorer() *Scorer {
	return NewScorer(RMSRange, SpectralRange, ZCRRange, DefaultWeights)
}

// Score computes the risk breakdown of a feature map. Non-finite inputs
// fail with ErrInvalidFeature.
func (s *Scorer) Score(features extractors.FeatureMap) (Breakdown, error) {
	return s.score(features.RMSMax, features.SpectralCentroidMax, features.ZCRMean)
}

func (s *Scorer) score(rmsMax, specMax, zcrMean float64) (Breakdown, error) {
	for _, f := range []struct {
		key   string
		value float64
	}{
		{extractors.KeyRMSMax, rmsMax},
		{extractors.KeySpectralCentroidMax, specMax},
		{extractors.KeyZCRMean, zcrMean},
	} {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return Breakdown{}, audio.NewInvalidFeatureError(fmt.Sprintf("feature %s is not finite", f.key))
		}
	}

	b := Breakdown{
		RMSScore:      s.rms.Normalize(rmsMax),
		SpectralScore: s.spectral.Normalize(specMax),
		ZCRScore:      s.zcr.Normalize(zcrMean),
	}
	b.Risk = clamp01(s.weights.RMS*b.RMSScore + s.weights.Spectral*b.SpectralScore + s.weights.ZCR*b.ZCRScore)
	return b, nil
}

// ComputeRisk scores features with the default scorer.
func ComputeRisk(features extractors.FeatureMap) (float64, error) {
	b, err := DefaultScorer().Score(features)
	if err != nil {
		return 0, err
	}
	return b.Risk, nil
}

// Assessment is the reported outcome for one input.
type Assessment struct {
	RiskScore  float64    `json:"risk_score" yaml:"risk_score"`
	Threshold  float64    `json:"threshold" yaml:"threshold"`
	Components *Breakdown `json:"components,omitempty" yaml:"components,omitempty"`
}

// Exceeds reports whether the rounded score is at or above the threshold.
func (a Assessment) Exceeds() bool {
	return a.RiskScore >= a.Threshold
}

// Assess rounds the breakdown's risk for reporting and attaches the threshold.
func Assess(b Breakdown, threshold float64, detailed bool) Assessment {
	a := Assessment{RiskScore: Round4(b.Risk), Threshold: threshold}
	if detailed {
		components := b
		a.Components = &components
	}
	return a
}

package risk

import (
	"encoding/json"
	"fmt"

	"github.com/RyanBlaney/audio-risk/pkg/audio"
	"github.com/RyanBlaney/audio-risk/pkg/audio/extractors"
)

// ScoreValues scores a loosely typed feature map such as one decoded from
// JSON or YAML. Only rms_max, spec_centroid_max and zcr_mean are read; other
// keys are ignored. A missing key counts as 0.0 unless strict is set, in which
// case it is an error. Values must be numeric.
func (s *Scorer) ScoreValues(values map[string]any, strict bool) (Breakdown, error) {
	read := func(key string) (float64, error) {
		raw, ok := values[key]
		if !ok {
			if strict {
				return 0, audio.NewInvalidFeatureError(fmt.Sprintf("feature %s is missing", key))
			}
			return 0, nil
		}
		return toFloat(key, raw)
	}

	rmsMax, err := read(extractors.KeyRMSMax)
	if err != nil {
		return Breakdown{}, err
	}
	specMax, err := read(extractors.KeySpectralCentroidMax)
	if err != nil {
		return Breakdown{}, err
	}
	zcrMean, err := read(extractors.KeyZCRMean)
	if err != nil {
		return Breakdown{}, err
	}

	return s.score(rmsMax, specMax, zcrMean)
}

// ComputeRiskFromValues scores a loosely typed feature map with the default scorer.
func ComputeRiskFromValues(values map[string]any, strict bool) (float64, error) {
	b, err := DefaultScorer().ScoreValues(values, strict)
	if err != nil {
		return 0, err
	}
	return b.Risk, nil
}

func toFloat(key string, raw any) (float64, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int8:
		return float64(v), nil
	case int16:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case uint:
		return float64(v), nil
	case uint8:
		return float64(v), nil
	case uint16:
		return float64(v), nil
	case uint32:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, audio.NewInvalidFeatureError(fmt.Sprintf("feature %s is not numeric: %q", key, v.String()))
		}
		return f, nil
	default:
		return 0, audio.NewInvalidFeatureError(fmt.Sprintf("feature %s is not numeric: %T", key, raw))
	}
}

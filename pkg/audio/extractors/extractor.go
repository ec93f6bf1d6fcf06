// Package extractors turns a mono waveform into the summary features the
// risk scorer consumes.
package extractors

import (
	"fmt"

	"github.com/RyanBlaney/audio-risk/pkg/audio"
	"github.com/RyanBlaney/audio-risk/pkg/audio/analyzers"
	"github.com/RyanBlaney/audio-risk/pkg/logging"
	"github.com/RyanBlaney/sonido-sonar/algorithms/spectral"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// FeatureExtractor computes FeatureMaps. It holds only immutable
// configuration and is safe for concurrent use.
type FeatureExtractor struct {
	config *FeatureConfig
	logger logging.Logger
}

// NewFeatureExtractor creates an extractor. A nil config uses the defaults.
func NewFeatureExtractor(config *FeatureConfig) (*FeatureExtractor, error) {
	if config == nil {
		config = DefaultFeatureConfig()
	}
	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid feature config: %w", err)
	}

	return &FeatureExtractor{
		config: config,
		logger: logging.WithFields(logging.Fields{
			"component": "feature_extractor",
		}),
	}, nil
}

// Config returns the extractor's parameters.
func (e *FeatureExtractor) Config() FeatureConfig {
	return *e.config
}

// ExtractFeatures computes the features of samples recorded at sampleRate
// with the default parameters.
func ExtractFeatures(samples []float64, sampleRate int) (FeatureMap, error) {
	extractor, err := NewFeatureExtractor(nil)
	if err != nil {
		return FeatureMap{}, err
	}
	return extractor.Extract(audio.NewWaveform(samples, sampleRate))
}

// Extract computes the summary features of w.
func (e *FeatureExtractor) Extract(w audio.Waveform) (FeatureMap, error) {
	features, _, err := e.ExtractWithSequences(w)
	return features, err
}

// ExtractWithSequences computes the summary features of w along with the
// per-frame sequences they were reduced from.
func (e *FeatureExtractor) ExtractWithSequences(w audio.Waveform) (FeatureMap, *FrameSequences, error) {
	seq, err := e.ExtractSequences(w)
	if err != nil {
		return FeatureMap{}, nil, err
	}

	features := FeatureMap{
		RMSMean:              stat.Mean(seq.RMS, nil),
		RMSMax:               floats.Max(seq.RMS),
		SpectralCentroidMean: stat.Mean(seq.SpectralCentroid, nil),
		SpectralCentroidMax:  floats.Max(seq.SpectralCentroid),
		ZCRMean:              stat.Mean(seq.ZCR, nil),
		MFCC1Mean:            stat.Mean(seq.MFCC[0], nil),
		MFCC2Mean:            stat.Mean(seq.MFCC[1], nil),
		MFCC3Mean:            stat.Mean(seq.MFCC[2], nil),
		Duration:             w.Duration(),
	}

	if err := features.Validate(); err != nil {
		return FeatureMap{}, nil, err
	}

	e.logger.Debug("Features extracted", logging.Fields{
		"function": "ExtractWithSequences",
		"frames":   seq.Frames(),
		"duration": features.Duration,
	})

	return features, seq, nil
}

// ExtractSequences computes the per-frame RMS, spectral centroid, ZCR and
// MFCC values of w. Every sequence has 1 + len/hop frames.
func (e *FeatureExtractor) ExtractSequences(w audio.Waveform) (*FrameSequences, error) {
	if w.IsEmpty() {
		return nil, audio.NewEmptyAudioError("")
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}

	logger := e.logger.WithFields(logging.Fields{
		"function":    "ExtractSequences",
		"samples":     w.Len(),
		"sample_rate": w.SampleRate,
	})
	logger.Debug("Extracting frame sequences")

	cfg := e.config
	analyzer := analyzers.NewSpectralAnalyzer(w.SampleRate)

	centroid, err := e.spectralCentroidSequence(analyzer, w.Samples)
	if err != nil {
		return nil, fmt.Errorf("spectral centroid: %w", err)
	}

	mfcc, err := e.mfccSequence(analyzer, w.Samples)
	if err != nil {
		return nil, fmt.Errorf("mfcc: %w", err)
	}

	return &FrameSequences{
		RMS:              rmsSequence(w.Samples, w.SampleRate, cfg.FrameLength, cfg.HopLength),
		SpectralCentroid: centroid,
		ZCR:              zcrSequence(w.Samples, w.SampleRate, cfg.FrameLength, cfg.HopLength, cfg.ZeroThreshold),
		MFCC:             mfcc,
	}, nil
}

// spectralCentroidSequence runs sonido's centroid over the magnitude STFT.
// Its bin frequencies are k*sr/nFFT, matching the STFT's bins.
func (e *FeatureExtractor) spectralCentroidSequence(analyzer *analyzers.SpectralAnalyzer, pcm []float64) ([]float64, error) {
	spectrogram, err := analyzer.STFT(pcm, e.config.CentroidFFTSize, e.config.HopLength)
	if err != nil {
		return nil, err
	}
	return spectral.NewSpectralCentroid(analyzer.SampleRate()).ComputeFrames(spectrogram.Magnitude), nil
}

// mfccSequence returns the MFCCs as [coefficient][frame].
func (e *FeatureExtractor) mfccSequence(analyzer *analyzers.SpectralAnalyzer, pcm []float64) ([][]float64, error) {
	cfg := e.config
	spectrogram, err := analyzer.STFT(pcm, cfg.MFCCFFTSize, cfg.HopLength)
	if err != nil {
		return nil, err
	}

	fmax := cfg.MelFMax
	if fmax <= 0 {
		fmax = float64(analyzer.SampleRate()) / 2
	}

	bank := analyzers.MelFilterBank(analyzer.SampleRate(), cfg.MFCCFFTSize, cfg.NumMels, cfg.MelFMin, fmax)
	melSpec := analyzers.ApplyFilterBank(analyzer.PowerSpectrum(spectrogram), bank)
	logMel := analyzers.PowerToDB(melSpec, 1.0, 1e-10, cfg.TopDB)

	dct, err := analyzers.NewDCT(cfg.NumMels, cfg.NumMFCC)
	if err != nil {
		return nil, err
	}
	out := make([][]float64, dct.Outputs)
	for k := range out {
		out[k] = make([]float64, len(logMel))
	}
	for t, frame := range logMel {
		for k, c := range dct.Transform(frame) {
			out[k][t] = c
		}
	}
	return out, nil
}

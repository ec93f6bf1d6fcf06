package analyzers

import (
	"fmt"
	"math/cmplx"

	"github.com/RyanBlaney/audio-risk/pkg/logging"
	"github.com/mjibson/go-dsp/fft"
)

// SpectralAnalyzer provides FFT and STFT functionality for one sample rate
type SpectralAnalyzer struct {
	sampleRate int
	logger     logging.Logger
}

// SpectrogramResult holds the result of STFT analysis
type SpectrogramResult struct {
	Magnitude      [][]float64 `json:"magnitude"`       // Time x Frequency magnitude matrix
	TimeFrames     int         `json:"time_frames"`     // Number of time frames
	FreqBins       int         `json:"freq_bins"`       // Number of frequency bins
	SampleRate     int         `json:"sample_rate"`     // Sample rate
	WindowSize     int         `json:"window_size"`     // FFT window size
	HopSize        int         `json:"hop_size"`        // Hop size between frames
	FreqResolution float64     `json:"freq_resolution"` // Frequency resolution (Hz/bin)
	TimeResolution float64     `json:"time_resolution"` // Time resolution (seconds/frame)
}

// NewSpectralAnalyzer creates a new spectral analyzer
func NewSpectralAnalyzer(sampleRate int) *SpectralAnalyzer {
	return &SpectralAnalyzer{
		sampleRate: sampleRate,
		logger: logging.WithFields(logging.Fields{
			"component":   "spectral_analyzer",
			"sample_rate": sampleRate,
		}),
	}
}

// SampleRate returns the rate the analyzer was built for.
func (sa *SpectralAnalyzer) SampleRate() int {
	return sa.sampleRate
}

// FFT computes the FFT of a real signal using mjibson/go-dsp
func (sa *SpectralAnalyzer) FFT(x []float64) []complex128 {
	if len(x) == 0 {
		return []complex128{}
	}
	return fft.FFTReal(x)
}

// STFT computes the magnitude short-time Fourier transform. The signal is
// centered by nFFT/2 zeros on each side and every frame is weighted by a
// periodic Hann window, so a signal of n samples yields 1 + n/hop frames.
func (sa *SpectralAnalyzer) STFT(signal []float64, nFFT, hop int) (*SpectrogramResult, error) {
	if len(signal) == 0 {
		return nil, fmt.Errorf("empty signal")
	}
	if nFFT <= 0 || hop <= 0 {
		return nil, fmt.Errorf("invalid STFT parameters: n_fft=%d hop=%d", nFFT, hop)
	}

	logger := sa.logger.WithFields(logging.Fields{
		"function":      "STFT",
		"signal_length": len(signal),
		"n_fft":         nFFT,
		"hop":           hop,
	})

	padded := PadCenter(signal, nFFT/2, PadConstant)
	frames := Frame(padded, nFFT, hop)
	win := PeriodicHann(nFFT)
	freqBins := nFFT/2 + 1

	magnitude := make([][]float64, len(frames))
	buf := make([]float64, nFFT)
	for t, frame := range frames {
		ApplyWindow(buf, frame, win)
		spectrum := sa.FFT(buf)

		row := make([]float64, freqBins)
		for k := 0; k < freqBins; k++ {
			row[k] = cmplx.Abs(spectrum[k])
		}
		magnitude[t] = row
	}

	result := &SpectrogramResult{
		Magnitude:      magnitude,
		TimeFrames:     len(frames),
		FreqBins:       freqBins,
		SampleRate:     sa.sampleRate,
		WindowSize:     nFFT,
		HopSize:        hop,
		FreqResolution: float64(sa.sampleRate) / float64(nFFT),
		TimeResolution: float64(hop) / float64(sa.sampleRate),
	}

	logger.Debug("STFT computed", logging.Fields{
		"time_frames": result.TimeFrames,
		"freq_bins":   result.FreqBins,
	})

	return result, nil
}

// PowerSpectrum squares every magnitude of the spectrogram.
func (sa *SpectralAnalyzer) PowerSpectrum(spectrogram *SpectrogramResult) [][]float64 {
	power := make([][]float64, spectrogram.TimeFrames)

	for t := 0; t < spectrogram.TimeFrames; t++ {
		power[t] = make([]float64, spectrogram.FreqBins)
		for f := 0; f < spectrogram.FreqBins; f++ {
			mag := spectrogram.Magnitude[t][f]
			power[t][f] = mag * mag
		}
	}

	return power
}

// FFTFrequencies returns linspace(0, sampleRate/2, nFFT/2+1).
func FFTFrequencies(sampleRate, nFFT int) []float64 {
	bins := nFFT/2 + 1
	freqs := make([]float64, bins)
	for k := range freqs {
		freqs[k] = float64(k) * float64(sampleRate) / float64(nFFT)
	}
	return freqs
}

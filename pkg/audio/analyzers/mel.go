package analyzers

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Slaney mel scale: linear below 1 kHz, logarithmic above.
const (
	slaneyMinLogHz  = 1000.0
	slaneyFSP       = 200.0 / 3
	slaneyMinLogMel = slaneyMinLogHz / slaneyFSP
)

var slaneyLogStep = math.Log(6.4) / 27.0

// HzToMel converts a frequency to the Slaney mel scale.
func HzToMel(hz float64) float64 {
	if hz >= slaneyMinLogHz {
		return slaneyMinLogMel + math.Log(hz/slaneyMinLogHz)/slaneyLogStep
	}
	return hz / slaneyFSP
}

// MelToHz is the inverse of HzToMel.
func MelToHz(mel float64) float64 {
	if mel >= slaneyMinLogMel {
		return slaneyMinLogHz * math.Exp(slaneyLogStep*(mel-slaneyMinLogMel))
	}
	return slaneyFSP * mel
}

// MelFrequencies returns n frequencies evenly spaced on the mel scale
// between fmin and fmax inclusive.
func MelFrequencies(n int, fmin, fmax float64) []float64 {
	if n <= 0 {
		return nil
	}
	minMel, maxMel := HzToMel(fmin), HzToMel(fmax)
	mels := make([]float64, n)
	if n == 1 {
		mels[0] = MelToHz(minMel)
		return mels
	}
	floats.Span(mels, minMel, maxMel)
	for i, m := range mels {
		mels[i] = MelToHz(m)
	}
	return mels
}

// MelFilterBank builds nMels triangular filters over the nFFT/2+1 bins of an
// nFFT-point transform. Each filter is area-normalised (Slaney), so the
// result is [nMels][nFFT/2+1].
func MelFilterBank(sampleRate, nFFT, nMels int, fmin, fmax float64) [][]float64 {
	fftFreqs := FFTFrequencies(sampleRate, nFFT)
	melF := MelFrequencies(nMels+2, fmin, fmax)

	fdiff := make([]float64, len(melF)-1)
	for i := range fdiff {
		fdiff[i] = melF[i+1] - melF[i]
	}

	bank := make([][]float64, nMels)
	for m := 0; m < nMels; m++ {
		filter := make([]float64, len(fftFreqs))
		enorm := 2.0 / (melF[m+2] - melF[m])
		for k, f := range fftFreqs {
			lower := (f - melF[m]) / fdiff[m]
			upper := (melF[m+2] - f) / fdiff[m+1]
			w := math.Max(0, math.Min(lower, upper))
			filter[k] = w * enorm
		}
		bank[m] = filter
	}
	return bank
}

// ApplyFilterBank projects every power spectrum frame onto the filterbank,
// returning [frame][filter].
func ApplyFilterBank(power [][]float64, bank [][]float64) [][]float64 {
	out := make([][]float64, len(power))
	for t, frame := range power {
		row := make([]float64, len(bank))
		for m, filter := range bank {
			row[m] = floats.Dot(filter, frame)
		}
		out[t] = row
	}
	return out
}

// PowerToDB converts a power spectrogram to decibels relative to ref. Values
// below amin are floored, and when topDB is positive everything more than
// topDB below the global peak is raised to that floor.
func PowerToDB(power [][]float64, ref, amin, topDB float64) [][]float64 {
	refDB := 10 * math.Log10(math.Max(amin, math.Abs(ref)))

	out := make([][]float64, len(power))
	peak := math.Inf(-1)
	for t, frame := range power {
		row := make([]float64, len(frame))
		for i, p := range frame {
			row[i] = 10*math.Log10(math.Max(amin, p)) - refDB
			if row[i] > peak {
				peak = row[i]
			}
		}
		out[t] = row
	}

	if topDB > 0 {
		floor := peak - topDB
		for _, row := range out {
			for i, v := range row {
				if v < floor {
					row[i] = floor
				}
			}
		}
	}
	return out
}

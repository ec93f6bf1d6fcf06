package analyzers

import "github.com/mjibson/go-dsp/window"

// PeriodicHann returns the n-point periodic Hann window used for spectral
// analysis: w[i] = 0.5 - 0.5*cos(2*pi*i/n).
func PeriodicHann(n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{1}
	}
	return window.Hann(n + 1)[:n]
}

// ApplyWindow multiplies frame by win into dst. dst must be at least len(frame).
func ApplyWindow(dst, frame, win []float64) {
	for i, v := range frame {
		dst[i] = v * win[i]
	}
}

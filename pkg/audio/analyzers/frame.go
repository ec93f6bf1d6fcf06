// Package analyzers contains the signal processing primitives used by the
// feature extractors: framing, windowing, STFT, mel filterbanks and the DCT.
package analyzers

// PadMode selects how PadCenter fills the samples added at each end.
type PadMode int

const (
	// PadConstant pads with zeros.
	PadConstant PadMode = iota
	// PadEdge repeats the first and last sample.
	PadEdge
)

func (m PadMode) String() string {
	switch m {
	case PadConstant:
		return "constant"
	case PadEdge:
		return "edge"
	default:
		return "unknown"
	}
}

// PadCenter returns a copy of signal with pad samples added at both ends.
func PadCenter(signal []float64, pad int, mode PadMode) []float64 {
	if pad <= 0 {
		out := make([]float64, len(signal))
		copy(out, signal)
		return out
	}

	out := make([]float64, len(signal)+2*pad)
	copy(out[pad:], signal)

	if mode == PadEdge && len(signal) > 0 {
		first, last := signal[0], signal[len(signal)-1]
		for i := 0; i < pad; i++ {
			out[i] = first
			out[len(out)-1-i] = last
		}
	}
	return out
}

// NumFrames returns how many full frames of frameLength fit in n samples.
func NumFrames(n, frameLength, hop int) int {
	if frameLength <= 0 || hop <= 0 || n < frameLength {
		return 0
	}
	return 1 + (n-frameLength)/hop
}

// Frame slices signal into full frames of frameLength samples spaced hop apart.
// Trailing samples that do not fill a frame are dropped. Frames share memory
// with signal.
func Frame(signal []float64, frameLength, hop int) [][]float64 {
	count := NumFrames(len(signal), frameLength, hop)
	frames := make([][]float64, count)
	for i := range frames {
		start := i * hop
		frames[i] = signal[start : start+frameLength : start+frameLength]
	}
	return frames
}

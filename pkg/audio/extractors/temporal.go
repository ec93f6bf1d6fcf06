package extractors

import (
	"math"

	"github.com/RyanBlaney/audio-risk/pkg/audio/analyzers"
	"github.com/RyanBlaney/sonido-sonar/algorithms/spectral"
	"github.com/RyanBlaney/sonido-sonar/algorithms/temporal"
)

// rmsSequence computes the root mean square of every centered frame.
// The signal is zero padded by frameLength/2 on each side, which gives
// 1 + len(pcm)/hop frames.
func rmsSequence(pcm []float64, sampleRate, frameLength, hop int) []float64 {
	padded := analyzers.PadCenter(pcm, frameLength/2, analyzers.PadConstant)
	return temporal.NewEnergy(frameLength, hop, sampleRate).ComputeShortTimeEnergy(padded)
}

// zcrSequence computes the zero crossing rate of every centered frame as
// crossings per sample. The signal is edge padded, samples within
// zeroThreshold of 0 count as 0, and 0 counts as positive.
func zcrSequence(pcm []float64, sampleRate, frameLength, hop int, zeroThreshold float64) []float64 {
	padded := analyzers.PadCenter(pcm, frameLength/2, analyzers.PadEdge)
	for i, s := range padded {
		if math.Abs(s) <= zeroThreshold {
			padded[i] = 0
		}
	}

	zcr := spectral.NewZeroCrossingRate(sampleRate)
	frames := analyzers.Frame(padded, frameLength, hop)
	out := make([]float64, len(frames))
	for i, frame := range frames {
		out[i] = frameZCR(zcr, frame, sampleRate)
	}
	return out
}

// frameZCR converts sonido's crossings per second back to crossings per sample.
func frameZCR(zcr *spectral.ZeroCrossingRate, frame []float64, sampleRate int) float64 {
	return zcr.Compute(frame) / float64(sampleRate)
}

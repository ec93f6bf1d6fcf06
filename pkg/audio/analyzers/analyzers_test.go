package analyzers

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
)

func sine(freq float64, sampleRate, n int, amplitude float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = amplitude * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate))
	}
	return out
}

func TestPadCenter(t *testing.T) {
	signal := []float64{1, 2, 3}

	assert.Equal(t, []float64{0, 0, 1, 2, 3, 0, 0}, PadCenter(signal, 2, PadConstant))
	assert.Equal(t, []float64{1, 1, 1, 2, 3, 3, 3}, PadCenter(signal, 2, PadEdge))
	assert.Equal(t, []float64{1, 2, 3}, PadCenter(signal, 0, PadEdge))

	padded := PadCenter(signal, 0, PadConstant)
	padded[0] = 99
	assert.Equal(t, 1.0, signal[0], "PadCenter must not alias its input")

	assert.Equal(t, "edge", PadEdge.String())
	assert.Equal(t, "constant", PadConstant.String())
}

func TestFrame(t *testing.T) {
	tests := []struct {
		name        string
		length      int
		frameLength int
		hop         int
		want        int
	}{
		{"exact fit", 8, 4, 2, 3},
		{"tail dropped", 9, 4, 2, 3},
		{"shorter than frame", 3, 4, 2, 0},
		{"one frame", 4, 4, 2, 1},
		{"invalid hop", 8, 4, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			signal := make([]float64, tt.length)
			for i := range signal {
				signal[i] = float64(i)
			}
			frames := Frame(signal, tt.frameLength, tt.hop)
			assert.Len(t, frames, tt.want)
			assert.Equal(t, tt.want, NumFrames(tt.length, tt.frameLength, tt.hop))
			for i, f := range frames {
				assert.Len(t, f, tt.frameLength)
				assert.Equal(t, float64(i*tt.hop), f[0])
			}
		})
	}
}

func TestPeriodicHann(t *testing.T) {
	n := 1024
	w := PeriodicHann(n)
	require.Len(t, w, n)

	assert.InDelta(t, 0.0, w[0], 1e-12)
	assert.InDelta(t, 1.0, w[n/2], 1e-12)
	for i := 1; i < n; i++ {
		assert.InDelta(t, w[i], w[n-i], 1e-12, "periodic symmetry at %d", i)
	}
	for i := 0; i < n; i += 97 {
		want := 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n))
		assert.InDelta(t, want, w[i], 1e-12)
	}

	assert.Nil(t, PeriodicHann(0))
	assert.Equal(t, []float64{1}, PeriodicHann(1))
}

func TestSTFT(t *testing.T) {
	sr := 16000
	sa := NewSpectralAnalyzer(sr)
	signal := sine(1000, sr, sr, 0.5)

	result, err := sa.STFT(signal, 1024, 512)
	require.NoError(t, err)

	assert.Equal(t, 1+len(signal)/512, result.TimeFrames)
	assert.Equal(t, 513, result.FreqBins)
	assert.Equal(t, 15.625, result.FreqResolution)
	require.Len(t, result.Magnitude, result.TimeFrames)

	// 1000 Hz sits exactly on bin 64.
	mid := result.Magnitude[result.TimeFrames/2]
	assert.Equal(t, 64, floats.MaxIdx(mid))

	power := sa.PowerSpectrum(result)
	assert.InDelta(t, mid[64]*mid[64], power[result.TimeFrames/2][64], 1e-9)
}

func TestSTFTShortSignalStillYieldsFrame(t *testing.T) {
	sa := NewSpectralAnalyzer(16000)

	result, err := sa.STFT([]float64{0.1, -0.1, 0.2}, 2048, 512)
	require.NoError(t, err)
	assert.Equal(t, 1, result.TimeFrames)
}

func TestSTFTErrors(t *testing.T) {
	sa := NewSpectralAnalyzer(16000)

	_, err := sa.STFT(nil, 1024, 512)
	assert.Error(t, err)

	_, err = sa.STFT([]float64{1}, 0, 512)
	assert.Error(t, err)

	_, err = sa.STFT([]float64{1}, 1024, 0)
	assert.Error(t, err)
}

func TestFFTFrequencies(t *testing.T) {
	freqs := FFTFrequencies(16000, 1024)
	require.Len(t, freqs, 513)
	assert.Equal(t, 0.0, freqs[0])
	assert.Equal(t, 8000.0, freqs[512])
	assert.Equal(t, 15.625, freqs[1])
}

func TestMelScale(t *testing.T) {
	assert.InDelta(t, 15.0, HzToMel(1000), 1e-12)
	assert.InDelta(t, 3.0, HzToMel(200), 1e-12)
	assert.InDelta(t, 1000.0, MelToHz(15), 1e-9)

	for _, hz := range []float64{0, 50, 440, 999, 1000, 4000, 8000} {
		assert.InDelta(t, hz, MelToHz(HzToMel(hz)), 1e-6, "round trip %v Hz", hz)
	}

	mels := MelFrequencies(5, 0, 8000)
	require.Len(t, mels, 5)
	assert.InDelta(t, 0.0, mels[0], 1e-9)
	assert.InDelta(t, 8000.0, mels[4], 1e-6)
	assert.True(t, floats.Sum(mels) > 0)
}

func TestMelFilterBank(t *testing.T) {
	bank := MelFilterBank(16000, 2048, 128, 0, 8000)
	require.Len(t, bank, 128)

	for m, filter := range bank {
		require.Len(t, filter, 1025)
		assert.Greater(t, floats.Sum(filter), 0.0, "filter %d is empty", m)
		assert.GreaterOrEqual(t, floats.Min(filter), 0.0)
	}

	// Higher filters are wider so their area-normalised peaks are lower.
	assert.Greater(t, floats.Max(bank[0]), floats.Max(bank[127]))
}

func TestApplyFilterBank(t *testing.T) {
	bank := [][]float64{{1, 0, 0}, {0, 0.5, 0.5}}
	power := [][]float64{{2, 4, 6}}

	assert.Equal(t, [][]float64{{2, 5}}, ApplyFilterBank(power, bank))
}

func TestPowerToDB(t *testing.T) {
	db := PowerToDB([][]float64{{1, 0}, {100, 1e-3}}, 1.0, 1e-10, 80)

	assert.InDelta(t, 0.0, db[0][0], 1e-9)
	assert.InDelta(t, 20.0, db[1][0], 1e-9)
	assert.InDelta(t, -30.0, db[1][1], 1e-9)
	// 0 floors to amin (-100 dB) and is then clipped to peak - 80.
	assert.InDelta(t, -60.0, db[0][1], 1e-9)

	unclipped := PowerToDB([][]float64{{0}}, 1.0, 1e-10, 0)
	assert.InDelta(t, -100.0, unclipped[0][0], 1e-9)
}

func TestDCT2Ortho(t *testing.T) {
	ones := []float64{1, 1, 1, 1, 1, 1, 1, 1}
	coeffs, err := DCT2Ortho(ones, 4)
	require.NoError(t, err)
	require.Len(t, coeffs, 4)
	assert.InDelta(t, math.Sqrt(8), coeffs[0], 1e-12)
	for _, c := range coeffs[1:] {
		assert.InDelta(t, 0.0, c, 1e-12)
	}

	// Orthonormal: energy is preserved when every coefficient is kept.
	x := []float64{0.3, -1.2, 2.5, 0.0, 4.1, -0.7}
	full, err := DCT2Ortho(x, len(x))
	require.NoError(t, err)
	assert.InDelta(t, floats.Dot(x, x), floats.Dot(full, full), 1e-9)

	d, err := NewDCT(4, 10)
	require.NoError(t, err)
	assert.Equal(t, 4, d.Outputs)

	_, err = NewDCT(0, 13)
	assert.Error(t, err)
}

func TestDCTBasisMatchesOrthonormalDCT2(t *testing.T) {
	const n = 128
	d, err := NewDCT(n, 13)
	require.NoError(t, err)
	require.Len(t, d.basis, 13)

	for k, row := range d.basis {
		require.Len(t, row, n)
		scale := math.Sqrt(2.0 / n)
		if k == 0 {
			scale = math.Sqrt(1.0 / n)
		}
		for i, v := range row {
			want := scale * math.Cos(math.Pi*float64(k)*(2*float64(i)+1)/(2*n))
			assert.InDelta(t, want, v, 1e-12, "k=%d n=%d", k, i)
		}
	}

	// A single cosine at k=3 maps onto coefficient 3 alone.
	x := make([]float64, n)
	copy(x, d.basis[3])
	coeffs := d.Transform(x)
	assert.InDelta(t, 1.0, coeffs[3], 1e-9)
	assert.InDelta(t, 0.0, coeffs[2], 1e-9)
	assert.InDelta(t, 0.0, coeffs[4], 1e-9)
}

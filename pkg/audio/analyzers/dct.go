package analyzers

import (
	"fmt"

	"github.com/RyanBlaney/sonido-sonar/algorithms/spectral"
	"gonum.org/v1/gonum/floats"
)

// DCT is an orthonormal type-II discrete cosine transform that keeps the first
// Outputs coefficients of an Inputs-point input. The basis is computed once.
type DCT struct {
	Inputs  int
	Outputs int
	basis   [][]float64
}

// NewDCT prepares a DCT for inputs points keeping outputs coefficients.
// outputs is capped at inputs. The basis is the DCT matrix of sonido-sonar's
// MFCC, which is orthonormal DCT-II scaled by sqrt(1/N) for k=0 and
// sqrt(2/N) otherwise.
func NewDCT(inputs, outputs int) (*DCT, error) {
	if inputs <= 0 || outputs <= 0 {
		return nil, fmt.Errorf("invalid DCT size %d -> %d", inputs, outputs)
	}
	outputs = min(outputs, inputs)

	mfcc := spectral.NewMFCCWithParams(inputs, spectral.MFCCParams{
		NumCoefficients: outputs,
		NumMelFilters:   inputs,
	})
	// The filter bank is unused here, so the smallest FFT will do.
	if err := mfcc.Initialize(2); err != nil {
		return nil, fmt.Errorf("failed to build DCT basis: %w", err)
	}

	return &DCT{Inputs: inputs, Outputs: outputs, basis: mfcc.GetDCTMatrix()}, nil
}

// Transform returns the leading coefficients of x. len(x) must equal Inputs.
func (d *DCT) Transform(x []float64) []float64 {
	out := make([]float64, d.Outputs)
	for k, row := range d.basis {
		out[k] = floats.Dot(row, x)
	}
	return out
}

// DCT2Ortho is a one-shot orthonormal DCT-II of x keeping n coefficients.
func DCT2Ortho(x []float64, n int) ([]float64, error) {
	d, err := NewDCT(len(x), n)
	if err != nil {
		return nil, err
	}
	return d.Transform(x), nil
}

// Package scaler applies the standardization fitted at training time.
package scaler

import (
	"fmt"
	"math"
	"slices"

	"donorcheck/internal/eligibility"
	"donorcheck/internal/eligibility/features"
)

// Transform standardizes each position: (x - mean) / scale.
type Transform struct {
	mean  []float64
	scale []float64
}

// New validates fitted statistics. Mean and scale must have equal, non-zero
// length and every scale must be finite and non-zero.
func New(mean, scale []float64) (*Transform, error) {
	if len(mean) == 0 {
		return nil, fmt.Errorf("scaler has no fitted features")
	}
	if len(mean) != len(scale) {
		return nil, fmt.Errorf("%w: scaler mean has %d entries, scale has %d",
			eligibility.ErrSchemaMismatch, len(mean), len(scale))
	}
	for i := range scale {
		if scale[i] == 0 || math.IsNaN(scale[i]) || math.IsInf(scale[i], 0) {
			return nil, fmt.Errorf("scaler scale[%d] is %v", i, scale[i])
		}
		if math.IsNaN(mean[i]) || math.IsInf(mean[i], 0) {
			return nil, fmt.Errorf("scaler mean[%d] is %v", i, mean[i])
		}
	}
	return &Transform{mean: slices.Clone(mean), scale: slices.Clone(scale)}, nil
}

// Dim is the fitted dimensionality.
func (t *Transform) Dim() int {
	return len(t.mean)
}

// Scale returns a new standardized vector; the input is not modified.
func (t *Transform) Scale(vec features.Vector) (features.Vector, error) {
	if len(vec) != len(t.mean) {
		return nil, fmt.Errorf("%w: scaler fitted on %d features, got %d",
			eligibility.ErrSchemaMismatch, len(t.mean), len(vec))
	}
	out := make(features.Vector, len(vec))
	for i, x := range vec {
		out[i] = (x - t.mean[i]) / t.scale[i]
	}
	return out, nil
}

// Params returns copies of the fitted mean and scale.
func (t *Transform) Params() (mean, scale []float64) {
	return slices.Clone(t.mean), slices.Clone(t.scale)
}

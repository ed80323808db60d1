package bayesmc

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

// Weights converts deviance-style fit criteria (lower is better) into
// normalized model weights
//
//	w_i = exp(-criteria_i / 2) / sum_j exp(-criteria_j / 2)
//
// the Akaike/DIC weight transform. Weights are strictly positive and
// sum to 1; all-equal criteria give a uniform vector. The criteria are
// shifted by their minimum before exponentiation, which leaves the
// normalized weights unchanged but keeps exp in range for
// deviance-scale magnitudes.
//
// Weights fails with ErrInvalidInput on an empty or non-finite
// criteria sequence.
func Weights(criteria []float64) ([]float64, error) {
	if len(criteria) == 0 {
		return nil, errors.Wrap(ErrInvalidInput, "weights: empty criteria")
	}
	for i, c := range criteria {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return nil, errors.Wrapf(ErrInvalidInput, "weights: criterion %d is %v", i, c)
		}
	}
	min := floats.Min(criteria)
	w := make([]float64, len(criteria))
	for i, c := range criteria {
		w[i] = math.Exp(-(c - min) / 2)
	}
	floats.Scale(1/floats.Sum(w), w)
	return w, nil
}

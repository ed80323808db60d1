package bayesmc

import (
	"math"

	"github.com/pkg/errors"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Selections draws one model index per output row from the categorical
// distribution defined by weights, with replacement. It fails with
// ErrInvalidInput if n is not positive, weights is empty, any weight
// is negative or non-finite, or all weights are zero.
func Selections(n int, weights []float64, src rand.Source) ([]int, error) {
	if n <= 0 {
		return nil, errors.Wrapf(ErrInvalidInput, "mix: %d output draws requested", n)
	}
	if len(weights) == 0 {
		return nil, errors.Wrap(ErrInvalidInput, "mix: empty weights")
	}
	var sum float64
	for i, w := range weights {
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return nil, errors.Wrapf(ErrInvalidInput, "mix: weight %d is %v", i, w)
		}
		sum += w
	}
	if sum == 0 {
		return nil, errors.Wrap(ErrInvalidInput, "mix: all weights are zero")
	}
	cat := distuv.NewCategorical(weights, src)
	sel := make([]int, n)
	for i := range sel {
		sel[i] = int(cat.Rand())
	}
	return sel, nil
}

// Mix produces a model-averaged predictive sample at the covariate
// value x. For each of n = min posterior length output draws, one
// candidate model is selected from the categorical distribution
// defined by weights, and draw i evaluates the selected model's link
// on that model's own joint draw i. Row counts are aligned by
// truncating every posterior to the shortest one.
//
// The returned selection slice records which model produced each
// output draw, so downstream consumers can group quantities belonging
// to the same draw (see MixCurve).
func Mix(models []*Model, weights []float64, x float64, src rand.Source) (vals []float64, sel []int, err error) {
	curve, sel, err := MixCurve(models, weights, []float64{x}, src)
	if err != nil {
		return nil, nil, err
	}
	return mat.Col(nil, 0, curve), sel, nil
}

// MixCurve evaluates the model-averaged predictive mean over a whole
// covariate grid. The model selected for draw i is drawn once and
// reused for every grid value, so each row of the result is a single
// internally consistent curve from one model's joint draw. The result
// has one row per output draw and one column per grid value; the
// selection slice records the model index behind each row.
//
// MixCurve fails with ErrInvalidInput if there are no models or grid
// values, the weight count does not match the model count, any model
// lacks a posterior, or the weights are invalid (see Selections).
func MixCurve(models []*Model, weights []float64, xs []float64, src rand.Source) (*mat.Dense, []int, error) {
	if len(models) == 0 {
		return nil, nil, errors.Wrap(ErrInvalidInput, "mix: no candidate models")
	}
	if len(weights) != len(models) {
		return nil, nil, errors.Wrapf(ErrInvalidInput, "mix: %d weights for %d models", len(weights), len(models))
	}
	if len(xs) == 0 {
		return nil, nil, errors.Wrap(ErrInvalidInput, "mix: empty covariate grid")
	}
	n := math.MaxInt
	for _, m := range models {
		if m == nil || m.Posterior == nil || m.Posterior.Len() == 0 {
			return nil, nil, errors.Wrapf(ErrInvalidInput, "mix: model %q has no posterior sample", modelName(m))
		}
		if m.Link == nil {
			return nil, nil, errors.Wrapf(ErrInvalidInput, "mix: model %q has no link", m.Name)
		}
		if l := m.Posterior.Len(); l < n {
			n = l
		}
	}
	sel, err := Selections(n, weights, src)
	if err != nil {
		return nil, nil, err
	}
	rows := make([][]float64, len(models))
	for k, m := range models {
		rows[k] = make([]float64, m.Posterior.NumParams())
	}
	out := mat.NewDense(n, len(xs), nil)
	for i := 0; i < n; i++ {
		k := sel[i]
		m := models[k]
		m.Posterior.Row(rows[k], i)
		for j, x := range xs {
			out.Set(i, j, m.Link(rows[k], x))
		}
	}
	return out, sel, nil
}

func modelName(m *Model) string {
	if m == nil {
		return "<nil>"
	}
	return m.Name
}

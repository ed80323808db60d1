package bayesmc

import (
	"github.com/pkg/errors"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Propagate pushes every joint draw of s through the link at the fixed
// covariate value x, returning one output draw per posterior draw.
//
// With includeNoise false the output draw is the mean response
// link(row_i, x): the distribution of the output describes uncertainty
// about the model only. With includeNoise true, one residual
// e_i ~ Normal(0, sigma_i) is added per draw, using that draw's own
// noise scale, so the output describes uncertainty about a future
// observation. The noise scale is read from the SigmaParam column.
//
// Randomness comes from src; a nil src uses the global source. With a
// fixed src, repeated calls produce identical output.
//
// Propagate fails with ErrInvalidInput if the sample is empty or lacks
// a SigmaParam column when noise is requested, and with ErrDegenerate
// if any sigma draw is non-positive. Validation runs before any output
// is produced; the result always has exactly s.Len() draws.
func Propagate(s *Sample, link LinkFunc, x float64, includeNoise bool, src rand.Source) ([]float64, error) {
	if s == nil || s.Len() == 0 {
		return nil, errors.Wrap(ErrInvalidInput, "propagate: empty posterior sample")
	}
	if link == nil {
		return nil, errors.Wrap(ErrInvalidInput, "propagate: nil link")
	}
	n := s.Len()
	var sigmas []float64
	if includeNoise {
		if !s.Has(SigmaParam) {
			return nil, errors.Wrapf(ErrInvalidInput, "propagate: posterior has no %q column", SigmaParam)
		}
		sigmas = s.Col(nil, SigmaParam)
		for i, sig := range sigmas {
			if !(sig > 0) {
				return nil, errors.Wrapf(ErrDegenerate, "propagate: sigma draw %d is %v", i, sig)
			}
		}
	}
	norm := distuv.Normal{Mu: 0, Sigma: 1, Src: src}
	out := make([]float64, n)
	row := make([]float64, s.NumParams())
	for i := 0; i < n; i++ {
		s.Row(row, i)
		v := link(row, x)
		if includeNoise {
			norm.Sigma = sigmas[i]
			v += norm.Rand()
		}
		out[i] = v
	}
	return out, nil
}

// DensityCurves makes the split between variability and uncertainty
// explicit: instead of simulating one value per draw, it evaluates the
// full conditional response density Normal(mu_i, sigma_i) for each of
// the selected draws over a fixed grid of response values. The result
// has one row per selected draw and one column per grid point: a
// family of curves whose spread across rows shows the uncertainty
// about the variability itself.
//
// It fails with ErrInvalidInput on an empty grid, an out-of-range draw
// index, or a missing SigmaParam column, and with ErrDegenerate on a
// non-positive sigma draw.
func DensityCurves(s *Sample, link LinkFunc, x float64, draws []int, grid []float64) (*mat.Dense, error) {
	if s == nil || s.Len() == 0 {
		return nil, errors.Wrap(ErrInvalidInput, "density: empty posterior sample")
	}
	if link == nil {
		return nil, errors.Wrap(ErrInvalidInput, "density: nil link")
	}
	if len(draws) == 0 {
		return nil, errors.Wrap(ErrInvalidInput, "density: no draws selected")
	}
	if len(grid) == 0 {
		return nil, errors.Wrap(ErrInvalidInput, "density: empty grid")
	}
	if !s.Has(SigmaParam) {
		return nil, errors.Wrapf(ErrInvalidInput, "density: posterior has no %q column", SigmaParam)
	}
	n := s.Len()
	for _, i := range draws {
		if i < 0 || i >= n {
			return nil, errors.Wrapf(ErrInvalidInput, "density: draw index %d out of range [0,%d)", i, n)
		}
		if sig := s.At(i, SigmaParam); !(sig > 0) {
			return nil, errors.Wrapf(ErrDegenerate, "density: sigma draw %d is %v", i, sig)
		}
	}
	curves := mat.NewDense(len(draws), len(grid), nil)
	row := make([]float64, s.NumParams())
	for k, i := range draws {
		s.Row(row, i)
		norm := distuv.Normal{Mu: link(row, x), Sigma: s.At(i, SigmaParam)}
		for j, g := range grid {
			curves.Set(k, j, norm.Prob(g))
		}
	}
	return curves, nil
}

package bayesmc

import "gonum.org/v1/gonum/floats"

// SigmaParam is the conventional name of the residual noise-scale
// column in a posterior Sample. Model constructors place it last,
// after the link coefficients.
const SigmaParam = "sigma"

// A Basis expands a covariate value into the deterministic regression
// terms of a model, so that the mean response is the dot product of
// the terms with the leading coefficient parameters of a draw.
type Basis interface {
	// NumTerms returns the number of regression terms.
	NumTerms() int
	// Terms computes the terms for the covariate value and stores them
	// in-place into dst, which must have length NumTerms.
	Terms(dst []float64, x float64)
}

// PolyBasis is a polynomial basis in the centered and scaled
// covariate z = (x - Center) / Scale:
//
//	1, z, z^2, ..., z^Order
//
// A zero Scale is treated as 1.
type PolyBasis struct {
	Center float64
	Scale  float64
	Order  int
}

func (p PolyBasis) NumTerms() int { return p.Order + 1 }

func (p PolyBasis) Terms(dst []float64, x float64) {
	if len(dst) != p.NumTerms() {
		panic(errLen)
	}
	scale := p.Scale
	if scale == 0 {
		scale = 1
	}
	z := (x - p.Center) / scale
	dst[0] = 1
	for i := 1; i <= p.Order; i++ {
		dst[i] = dst[i-1] * z
	}
}

// LinkFunc maps one joint parameter draw and a covariate value to the
// predicted mean response. theta is a full row of a posterior Sample
// in column order; a link reads the coefficients it needs from the
// front of the row and ignores the trailing noise scale.
type LinkFunc func(theta []float64, x float64) float64

// BasisLink returns the link of a basis-expansion model: the dot
// product of the basis terms with the first NumTerms entries of the
// draw.
func BasisLink(b Basis) LinkFunc {
	n := b.NumTerms()
	return func(theta []float64, x float64) float64 {
		if len(theta) < n {
			panic(errLen)
		}
		terms := make([]float64, n)
		b.Terms(terms, x)
		return floats.Dot(terms, theta[:n])
	}
}

// Model is a candidate regression model as a plain data value: the
// parameter names define the posterior column order (coefficients
// first, SigmaParam last), Basis and Link give the deterministic mean
// response, and Posterior and Criterion are filled in by a sampler.
// Criterion is a deviance-style fit measure; lower is better.
type Model struct {
	Name      string
	Params    []string
	Basis     Basis
	Link      LinkFunc
	Posterior *Sample
	Criterion float64
}

// Linear returns the two-coefficient model
//
//	y ~ Normal(a + b*z, sigma), z = (x-center)/scale
//
// with parameters a, b, sigma.
func Linear(center, scale float64) *Model {
	b := PolyBasis{Center: center, Scale: scale, Order: 1}
	return &Model{
		Name:   "linear",
		Params: []string{"a", "b", SigmaParam},
		Basis:  b,
		Link:   BasisLink(b),
	}
}

// Quadratic returns the three-coefficient model
//
//	y ~ Normal(a + b*z + c*z^2, sigma), z = (x-center)/scale
//
// with parameters a, b, c, sigma.
func Quadratic(center, scale float64) *Model {
	b := PolyBasis{Center: center, Scale: scale, Order: 2}
	return &Model{
		Name:   "squared",
		Params: []string{"a", "b", "c", SigmaParam},
		Basis:  b,
		Link:   BasisLink(b),
	}
}

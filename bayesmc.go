// Package bayesmc propagates parameter uncertainty from Bayesian
// regression posteriors to derived quantities of interest.
//
// The package consumes posterior draws produced by an external sampler
// (see the sampler subpackage for one provider) and turns them into
// predictive distributions, model-averaged predictions, and quantile
// interval summaries. The central operation is Propagate: push every
// joint posterior draw through a model's link function at a fixed
// covariate value, optionally adding one residual noise draw per
// posterior draw. With noise the result describes uncertainty about a
// future observation; without it, uncertainty about the mean response
// only.
//
// All transformations are pure. A Sample is immutable once built, and
// every derived quantity is freshly allocated from its inputs, so the
// per-draw computations may be evaluated in any order as long as draw i
// always reads row i of every sample it touches.
package bayesmc

import "github.com/pkg/errors"

// Errors returned by the transformations in this package. Callers can
// test for them with errors.Is; the wrapped message names the failing
// component and precondition.
var (
	// ErrInvalidInput reports malformed input: missing or duplicate
	// parameter columns, empty samples or criteria, or mismatched
	// weight and model counts.
	ErrInvalidInput = errors.New("bayesmc: invalid input")

	// ErrDegenerate reports numerically meaningless input, such as a
	// non-positive noise-scale draw reaching a noise-injection step.
	ErrDegenerate = errors.New("bayesmc: numerical degeneracy")
)

const errLen = "bayesmc: length mismatch"

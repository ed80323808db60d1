package sampler

import (
	"math"

	"github.com/pkg/errors"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distmv"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/ullrika/bayesmc"
	"github.com/ullrika/bayesmc/dataset"
)

// Conjugate draws exact independent samples from the posterior of a
// Gaussian linear model under the reference prior
//
//	p(beta, sigma^2) ∝ 1 / sigma^2
//
// for which the posterior is available in closed form: sigma^2 follows
// an inverse gamma with shape (n-p)/2 and scale SS/2 (SS the residual
// sum of squares of the least-squares solution), and the coefficients
// given sigma^2 follow a multivariate normal centered on the
// least-squares solution with covariance sigma^2 (X'X)^-1.
//
// This is direct simulation, not a Markov chain, so Config.Init is
// ignored and there is no convergence concern. Burn-in and thinning
// are still applied as configured, so the returned draw count matches
// what a chain run with the same Config would keep.
type Conjugate struct{}

var _ Sampler = Conjugate{}

// Sample fits the model to the data and returns the merged posterior
// and the model's DIC-style criterion. The model's Params must be its
// basis coefficients followed by bayesmc.SigmaParam; the returned
// sample columns follow that order. It fails with ErrInvalidInput when
// the data cannot identify the coefficients and with ErrDegenerate on
// a singular design or an exactly interpolating fit.
func (Conjugate) Sample(data dataset.Table, m *bayesmc.Model, cfg Config, src rand.Source) (*bayesmc.Sample, float64, error) {
	if err := cfg.valid(); err != nil {
		return nil, 0, err
	}
	if m == nil || m.Basis == nil {
		return nil, 0, errors.Wrap(bayesmc.ErrInvalidInput, "sampler: model without a basis")
	}
	n := data.Len()
	p := m.Basis.NumTerms()
	if len(m.Params) != p+1 {
		return nil, 0, errors.Wrapf(bayesmc.ErrInvalidInput, "sampler: model %q has %d parameter names for %d basis terms", m.Name, len(m.Params), p)
	}
	if m.Params[p] != bayesmc.SigmaParam {
		return nil, 0, errors.Wrapf(bayesmc.ErrInvalidInput, "sampler: model %q last parameter is %q, want %q", m.Name, m.Params[p], bayesmc.SigmaParam)
	}
	if n <= p {
		return nil, 0, errors.Wrapf(bayesmc.ErrInvalidInput, "sampler: %d observations cannot identify %d coefficients", n, p)
	}

	// Design matrix and least-squares solution through the normal
	// equations, factored once and reused for coefficient draws.
	X := mat.NewDense(n, p, nil)
	terms := make([]float64, p)
	for i := 0; i < n; i++ {
		m.Basis.Terms(terms, data.X[i])
		X.SetRow(i, terms)
	}
	y := mat.NewVecDense(n, append([]float64(nil), data.Y...))

	var xtx mat.SymDense
	xtx.SymOuterK(1, X.T())
	var chol mat.Cholesky
	if ok := chol.Factorize(&xtx); !ok {
		return nil, 0, errors.Wrapf(bayesmc.ErrDegenerate, "sampler: singular design matrix for model %q", m.Name)
	}
	var xty mat.VecDense
	xty.MulVec(X.T(), y)
	var betaHat mat.VecDense
	if err := chol.SolveVecTo(&betaHat, &xty); err != nil {
		return nil, 0, errors.Wrapf(bayesmc.ErrDegenerate, "sampler: solving normal equations for model %q", m.Name)
	}
	var resid mat.VecDense
	resid.MulVec(X, &betaHat)
	resid.SubVec(y, &resid)
	ss := mat.Dot(&resid, &resid)
	if !(ss > 0) {
		return nil, 0, errors.Wrapf(bayesmc.ErrDegenerate, "sampler: model %q interpolates the data exactly", m.Name)
	}
	var cov mat.SymDense
	if err := chol.InverseTo(&cov); err != nil {
		return nil, 0, errors.Wrapf(bayesmc.ErrDegenerate, "sampler: inverting normal equations for model %q", m.Name)
	}
	coefNoise, ok := distmv.NewNormal(make([]float64, p), &cov, src)
	if !ok {
		return nil, 0, errors.Wrapf(bayesmc.ErrDegenerate, "sampler: non positive-definite coefficient covariance for model %q", m.Name)
	}
	sigma2 := distuv.InverseGamma{Alpha: float64(n-p) / 2, Beta: ss / 2, Src: src}

	kept := cfg.kept()
	thin := cfg.thin()
	chains := make([]*bayesmc.Sample, cfg.Chains)
	row := make([]float64, p+1)
	z := make([]float64, p)
	for c := range chains {
		draws := mat.NewDense(kept, p+1, nil)
		var r int
		for it := 0; it < cfg.Iterations; it++ {
			s2 := sigma2.Rand()
			coefNoise.Rand(z)
			if it < cfg.BurnIn || (it-cfg.BurnIn)%thin != 0 {
				continue
			}
			sig := math.Sqrt(s2)
			for j := 0; j < p; j++ {
				row[j] = betaHat.AtVec(j) + sig*z[j]
			}
			row[p] = sig
			draws.SetRow(r, row)
			r++
		}
		sample, err := bayesmc.NewSample(m.Params, draws)
		if err != nil {
			return nil, 0, err
		}
		chains[c] = sample
	}
	post, err := bayesmc.MergeChains(chains...)
	if err != nil {
		return nil, 0, err
	}
	return post, dic(data, m.Link, post), nil
}

// dic computes the deviance information criterion from the posterior:
// DIC = 2*Dbar - Dhat, where Dbar is the mean deviance over the draws
// and Dhat the deviance at the posterior parameter means.
func dic(data dataset.Table, link bayesmc.LinkFunc, post *bayesmc.Sample) float64 {
	np := post.NumParams()
	row := make([]float64, np)
	devs := make([]float64, post.Len())
	for i := range devs {
		post.Row(row, i)
		devs[i] = deviance(data, link, row, row[np-1])
	}
	dbar := stat.Mean(devs, nil)

	meanRow := make([]float64, np)
	col := make([]float64, post.Len())
	for j, name := range post.Names() {
		post.Col(col, name)
		meanRow[j] = stat.Mean(col, nil)
	}
	dhat := deviance(data, link, meanRow, meanRow[np-1])
	return 2*dbar - dhat
}

// deviance is -2 times the Gaussian log likelihood of the data under
// one joint parameter draw.
func deviance(data dataset.Table, link bayesmc.LinkFunc, theta []float64, sigma float64) float64 {
	norm := distuv.Normal{Sigma: sigma}
	var ll float64
	for i := range data.X {
		norm.Mu = link(theta, data.X[i])
		ll += norm.LogProb(data.Y[i])
	}
	return -2 * ll
}

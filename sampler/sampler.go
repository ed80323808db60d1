// Package sampler produces posterior samples for the bayesmc core.
//
// The core treats the posterior provider as an opaque collaborator: it
// consumes a draw table and a scalar fit criterion and never looks
// inside the sampling method. This package defines that contract
// (Config, Sampler) and one concrete provider, Conjugate, which draws
// exact independent samples from the conjugate Gaussian linear-model
// posterior rather than running a Markov chain.
package sampler

import (
	"github.com/pkg/errors"
	"golang.org/x/exp/rand"

	"github.com/ullrika/bayesmc"
	"github.com/ullrika/bayesmc/dataset"
)

// Config controls a posterior sampling run.
type Config struct {
	// Chains is the number of independent chains to run.
	Chains int
	// Iterations is the number of iterations per chain, counted before
	// burn-in removal and thinning.
	Iterations int
	// BurnIn is the number of leading iterations to discard per chain.
	BurnIn int
	// Thin keeps every Thin-th post burn-in iteration. Zero means 1.
	Thin int
	// Init generates per-chain initial parameter values. Providers
	// that simulate directly from the posterior may ignore it.
	Init func(chain int, src rand.Source) []float64
}

func (c Config) valid() error {
	if c.Chains < 1 {
		return errors.Wrapf(bayesmc.ErrInvalidInput, "sampler: %d chains", c.Chains)
	}
	if c.Iterations < 1 {
		return errors.Wrapf(bayesmc.ErrInvalidInput, "sampler: %d iterations per chain", c.Iterations)
	}
	if c.BurnIn < 0 || c.BurnIn >= c.Iterations {
		return errors.Wrapf(bayesmc.ErrInvalidInput, "sampler: burn-in %d with %d iterations", c.BurnIn, c.Iterations)
	}
	if c.Thin < 0 {
		return errors.Wrapf(bayesmc.ErrInvalidInput, "sampler: thinning interval %d", c.Thin)
	}
	return nil
}

// thin returns the effective thinning interval.
func (c Config) thin() int {
	if c.Thin == 0 {
		return 1
	}
	return c.Thin
}

// kept returns the number of draws retained per chain.
func (c Config) kept() int {
	t := c.thin()
	return (c.Iterations - c.BurnIn + t - 1) / t
}

// A Sampler fits a candidate model to a dataset and returns its
// posterior sample (burn-in dropped, thinned, chains concatenated)
// together with a deviance-style fit criterion; lower is better.
type Sampler interface {
	Sample(data dataset.Table, m *bayesmc.Model, cfg Config, src rand.Source) (*bayesmc.Sample, float64, error)
}

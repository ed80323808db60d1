// Package dataset loads and simulates the x/y regression tables the
// samplers consume.
package dataset

import (
	"encoding/csv"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/ullrika/bayesmc"
)

// Table is an observed dataset: paired covariate and response values.
type Table struct {
	X []float64
	Y []float64
}

// New validates and builds a Table. It fails with ErrInvalidInput on
// mismatched lengths, an empty table, or non-finite values.
func New(x, y []float64) (Table, error) {
	if len(x) != len(y) {
		return Table{}, errors.Wrapf(bayesmc.ErrInvalidInput, "dataset: %d x values for %d y values", len(x), len(y))
	}
	if len(x) == 0 {
		return Table{}, errors.Wrap(bayesmc.ErrInvalidInput, "dataset: empty table")
	}
	for i := range x {
		if math.IsNaN(x[i]) || math.IsInf(x[i], 0) || math.IsNaN(y[i]) || math.IsInf(y[i], 0) {
			return Table{}, errors.Wrapf(bayesmc.ErrInvalidInput, "dataset: non-finite value in row %d", i)
		}
	}
	return Table{X: x, Y: y}, nil
}

// Len returns the number of observations.
func (t Table) Len() int { return len(t.X) }

// Read loads a Table from delimited text with a header row. The only
// contract is that two of the columns are named x and y (any case,
// any column order); extra columns are ignored.
func Read(r io.Reader) (Table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if err != nil {
		return Table{}, errors.Wrap(err, "dataset: reading header")
	}
	xCol, yCol := -1, -1
	for j, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "x":
			xCol = j
		case "y":
			yCol = j
		}
	}
	if xCol == -1 || yCol == -1 {
		return Table{}, errors.Wrapf(bayesmc.ErrInvalidInput, "dataset: header %v lacks x and y columns", header)
	}
	var x, y []float64
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Table{}, errors.Wrapf(err, "dataset: line %d", line)
		}
		xv, err := strconv.ParseFloat(rec[xCol], 64)
		if err != nil {
			return Table{}, errors.Wrapf(bayesmc.ErrInvalidInput, "dataset: line %d: bad x value %q", line, rec[xCol])
		}
		yv, err := strconv.ParseFloat(rec[yCol], 64)
		if err != nil {
			return Table{}, errors.Wrapf(bayesmc.ErrInvalidInput, "dataset: line %d: bad y value %q", line, rec[yCol])
		}
		x = append(x, xv)
		y = append(y, yv)
	}
	return New(x, y)
}

// Simulate generates a synthetic dataset: n covariates drawn uniformly
// on [xlo, xhi] and responses drawn from Normal(basis·coefs, sigma).
// Randomness comes from src; a nil src uses the global source.
func Simulate(n int, b bayesmc.Basis, coefs []float64, sigma, xlo, xhi float64, src rand.Source) (Table, error) {
	if n <= 0 {
		return Table{}, errors.Wrapf(bayesmc.ErrInvalidInput, "dataset: %d observations requested", n)
	}
	if b == nil {
		return Table{}, errors.Wrap(bayesmc.ErrInvalidInput, "dataset: nil basis")
	}
	if len(coefs) != b.NumTerms() {
		return Table{}, errors.Wrapf(bayesmc.ErrInvalidInput, "dataset: %d coefficients for %d basis terms", len(coefs), b.NumTerms())
	}
	if !(sigma > 0) {
		return Table{}, errors.Wrapf(bayesmc.ErrDegenerate, "dataset: sigma is %v", sigma)
	}
	if xlo >= xhi {
		return Table{}, errors.Wrapf(bayesmc.ErrInvalidInput, "dataset: empty covariate range [%v, %v]", xlo, xhi)
	}
	uni := distuv.Uniform{Min: xlo, Max: xhi, Src: src}
	noise := distuv.Normal{Mu: 0, Sigma: sigma, Src: src}
	link := bayesmc.BasisLink(b)
	x := make([]float64, n)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		x[i] = uni.Rand()
		y[i] = link(coefs, x[i]) + noise.Rand()
	}
	return Table{X: x, Y: y}, nil
}

package bayesmc

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Sample is a table of posterior draws. Rows are independent draws
// (post burn-in, post thinning, chains concatenated) and columns are
// named parameters. Row i across all columns is one joint draw, so
// paired use of parameters must always read whole rows.
//
// A Sample is immutable after construction.
type Sample struct {
	names []string
	index map[string]int
	data  *mat.Dense
}

// NewSample builds a Sample from parameter names and a draw matrix
// whose columns follow the order of names. It fails with
// ErrInvalidInput on empty or duplicate names, a nil or empty matrix,
// or a column-count mismatch.
func NewSample(names []string, data *mat.Dense) (*Sample, error) {
	if len(names) == 0 {
		return nil, errors.Wrap(ErrInvalidInput, "sample: no parameter names")
	}
	if data == nil {
		return nil, errors.Wrap(ErrInvalidInput, "sample: nil draw matrix")
	}
	r, c := data.Dims()
	if r == 0 {
		return nil, errors.Wrap(ErrInvalidInput, "sample: no draws")
	}
	if c != len(names) {
		return nil, errors.Wrapf(ErrInvalidInput, "sample: %d columns for %d parameter names", c, len(names))
	}
	index := make(map[string]int, len(names))
	for i, name := range names {
		if name == "" {
			return nil, errors.Wrap(ErrInvalidInput, "sample: empty parameter name")
		}
		if _, ok := index[name]; ok {
			return nil, errors.Wrapf(ErrInvalidInput, "sample: duplicate parameter %q", name)
		}
		index[name] = i
	}
	cp := append([]string(nil), names...)
	return &Sample{names: cp, index: index, data: data}, nil
}

// Len returns the number of draws.
func (s *Sample) Len() int {
	r, _ := s.data.Dims()
	return r
}

// NumParams returns the number of named parameters.
func (s *Sample) NumParams() int { return len(s.names) }

// Names returns the parameter names in column order.
func (s *Sample) Names() []string { return append([]string(nil), s.names...) }

// Has reports whether the sample has a column for the named parameter.
func (s *Sample) Has(name string) bool {
	_, ok := s.index[name]
	return ok
}

// Col copies the draws of the named parameter into dst, allocating if
// dst is nil. Col panics if the parameter does not exist; use Has to
// validate data-driven names first.
func (s *Sample) Col(dst []float64, name string) []float64 {
	j, ok := s.index[name]
	if !ok {
		panic("bayesmc: no parameter " + name)
	}
	if dst == nil {
		dst = make([]float64, s.Len())
	}
	if len(dst) != s.Len() {
		panic(errLen)
	}
	mat.Col(dst, j, s.data)
	return dst
}

// At returns draw i of the named parameter. It panics on an unknown
// name or an out-of-range index.
func (s *Sample) At(i int, name string) float64 {
	j, ok := s.index[name]
	if !ok {
		panic("bayesmc: no parameter " + name)
	}
	return s.data.At(i, j)
}

// Row copies joint draw i into dst in column order, allocating if dst
// is nil.
func (s *Sample) Row(dst []float64, i int) []float64 {
	if dst == nil {
		dst = make([]float64, len(s.names))
	}
	if len(dst) != len(s.names) {
		panic(errLen)
	}
	mat.Row(dst, i, s.data)
	return dst
}

// MergeChains concatenates the draws of several chains of the same
// model into one Sample. All chains must share the same parameter
// names in the same order; the draws of chain k+1 follow those of
// chain k.
func MergeChains(chains ...*Sample) (*Sample, error) {
	if len(chains) == 0 {
		return nil, errors.Wrap(ErrInvalidInput, "sample: no chains to merge")
	}
	if len(chains) == 1 {
		return chains[0], nil
	}
	names := chains[0].names
	var total int
	for k, c := range chains {
		if len(c.names) != len(names) {
			return nil, errors.Wrapf(ErrInvalidInput, "sample: chain %d has %d parameters, chain 0 has %d", k, len(c.names), len(names))
		}
		for j, name := range c.names {
			if name != names[j] {
				return nil, errors.Wrapf(ErrInvalidInput, "sample: chain %d parameter %d is %q, chain 0 has %q", k, j, name, names[j])
			}
		}
		total += c.Len()
	}
	data := mat.NewDense(total, len(names), nil)
	row := make([]float64, len(names))
	var r int
	for _, c := range chains {
		for i := 0; i < c.Len(); i++ {
			c.Row(row, i)
			data.SetRow(r, row)
			r++
		}
	}
	return NewSample(names, data)
}

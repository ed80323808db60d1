package bayesmc

import (
	"math"
	"sort"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"
)

// Interval is a (lower, upper) pair summarizing a named quantity at
// fixed quantile levels.
type Interval struct {
	Name  string
	Lower float64
	Upper float64
}

// Quantiles returns the empirical quantiles of the sample at
// lowerProb and upperProb, e.g. (0.025, 0.975) for a central 95%
// credible interval. The sample is not modified. It fails with
// ErrInvalidInput on an empty sample, probabilities outside [0,1], or
// lowerProb > upperProb.
func Quantiles(name string, sample []float64, lowerProb, upperProb float64) (Interval, error) {
	if len(sample) == 0 {
		return Interval{}, errors.Wrapf(ErrInvalidInput, "interval: empty sample for %q", name)
	}
	if lowerProb < 0 || lowerProb > 1 || upperProb < 0 || upperProb > 1 {
		return Interval{}, errors.Wrapf(ErrInvalidInput, "interval: probabilities (%v, %v) outside [0,1]", lowerProb, upperProb)
	}
	if lowerProb > upperProb {
		return Interval{}, errors.Wrapf(ErrInvalidInput, "interval: lower probability %v above upper %v", lowerProb, upperProb)
	}
	sorted := append([]float64(nil), sample...)
	sort.Float64s(sorted)
	return Interval{
		Name:  name,
		Lower: stat.Quantile(lowerProb, stat.Empirical, sorted, nil),
		Upper: stat.Quantile(upperProb, stat.Empirical, sorted, nil),
	}, nil
}

// PropagateInterval combines per-parameter intervals through the link
// by interval arithmetic: the link is evaluated at every corner of the
// parameter box spanned by bounds (coefficient intervals in Sample
// column order) and the minimum and maximum are taken, then the noise
// interval endpoints are added to the respective sides. A zero-valued
// noise interval leaves the bounds unchanged.
//
// This is the deliberately conservative worst-case combination kept
// for comparison against full probabilistic propagation. The bound is
// only valid when the link is monotonic in each parameter over the box
// and the parameters are treated as independent; neither condition is
// checked, and the caller is responsible for both.
//
// PropagateInterval fails with ErrInvalidInput on empty or inverted
// bounds. The corner sweep is exponential in len(bounds), which is
// fine for the handful of regression coefficients it is meant for.
func PropagateInterval(name string, bounds []Interval, link LinkFunc, x float64, noise Interval) (Interval, error) {
	if len(bounds) == 0 {
		return Interval{}, errors.Wrapf(ErrInvalidInput, "interval: no parameter bounds for %q", name)
	}
	if link == nil {
		return Interval{}, errors.Wrapf(ErrInvalidInput, "interval: nil link for %q", name)
	}
	for _, b := range bounds {
		if b.Lower > b.Upper {
			return Interval{}, errors.Wrapf(ErrInvalidInput, "interval: inverted bound for %q: (%v, %v)", b.Name, b.Lower, b.Upper)
		}
	}
	if noise.Lower > noise.Upper {
		return Interval{}, errors.Wrapf(ErrInvalidInput, "interval: inverted noise bound (%v, %v)", noise.Lower, noise.Upper)
	}
	theta := make([]float64, len(bounds))
	lo := math.Inf(1)
	hi := math.Inf(-1)
	for c := 0; c < 1<<uint(len(bounds)); c++ {
		for j, b := range bounds {
			if c&(1<<uint(j)) != 0 {
				theta[j] = b.Upper
			} else {
				theta[j] = b.Lower
			}
		}
		v := link(theta, x)
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return Interval{Name: name, Lower: lo + noise.Lower, Upper: hi + noise.Upper}, nil
}

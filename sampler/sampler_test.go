package sampler

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat"

	"github.com/ullrika/bayesmc"
	"github.com/ullrika/bayesmc/dataset"
)

func TestConfigValid(t *testing.T) {
	for _, test := range []struct {
		name string
		cfg  Config
		ok   bool
	}{
		{"Minimal", Config{Chains: 1, Iterations: 1}, true},
		{"Typical", Config{Chains: 2, Iterations: 1000, BurnIn: 100, Thin: 5}, true},
		{"NoChains", Config{Iterations: 100}, false},
		{"NoIterations", Config{Chains: 1}, false},
		{"BurnInEatsAll", Config{Chains: 1, Iterations: 100, BurnIn: 100}, false},
		{"NegativeThin", Config{Chains: 1, Iterations: 100, Thin: -1}, false},
	} {
		err := test.cfg.valid()
		if test.ok && err != nil {
			t.Errorf("Case %s: unexpected error %v", test.name, err)
		}
		if !test.ok && !errors.Is(err, bayesmc.ErrInvalidInput) {
			t.Errorf("Case %s: got %v, want ErrInvalidInput", test.name, err)
		}
	}
}

func TestConfigKept(t *testing.T) {
	for _, test := range []struct {
		name string
		cfg  Config
		want int
	}{
		{"NoThin", Config{Chains: 1, Iterations: 100, BurnIn: 20}, 80},
		{"ThinDivides", Config{Chains: 1, Iterations: 600, BurnIn: 100, Thin: 2}, 250},
		{"ThinRemainder", Config{Chains: 1, Iterations: 105, BurnIn: 0, Thin: 10}, 11},
	} {
		if got := test.cfg.kept(); got != test.want {
			t.Errorf("Case %s: kept = %d, want %d", test.name, got, test.want)
		}
	}
}

func simulated(t *testing.T, b bayesmc.Basis, coefs []float64, sigma float64, n int, seed uint64) dataset.Table {
	t.Helper()
	data, err := dataset.Simulate(n, b, coefs, sigma, 0, 100, rand.NewSource(seed))
	if err != nil {
		t.Fatalf("simulating: %v", err)
	}
	return data
}

func TestConjugateRecoversLinear(t *testing.T) {
	m := bayesmc.Linear(50, 50)
	truth := []float64{2, 1.5}
	data := simulated(t, m.Basis, truth, 0.5, 300, 1)

	cfg := Config{Chains: 2, Iterations: 600, BurnIn: 100, Thin: 2}
	post, crit, err := Conjugate{}.Sample(data, m, cfg, rand.NewSource(2))
	if err != nil {
		t.Fatalf("sampling: %v", err)
	}
	if want := 2 * cfg.kept(); post.Len() != want {
		t.Errorf("draw count: got %d, want %d", post.Len(), want)
	}
	names := post.Names()
	if len(names) != 3 || names[0] != "a" || names[1] != "b" || names[2] != bayesmc.SigmaParam {
		t.Errorf("parameter names: got %v", names)
	}
	if math.IsNaN(crit) || math.IsInf(crit, 0) {
		t.Errorf("criterion is %v", crit)
	}

	for i, test := range []struct {
		param string
		want  float64
		tol   float64
	}{
		{"a", truth[0], 0.3},
		{"b", truth[1], 0.4},
		{bayesmc.SigmaParam, 0.5, 0.15},
	} {
		mean := stat.Mean(post.Col(nil, test.param), nil)
		if math.Abs(mean-test.want) > test.tol {
			t.Errorf("Case %d: posterior mean of %s is %v, want %v within %v", i, test.param, mean, test.want, test.tol)
		}
	}
}

func TestConjugateDeterminism(t *testing.T) {
	m := bayesmc.Linear(50, 50)
	data := simulated(t, m.Basis, []float64{2, 1.5}, 0.5, 100, 3)
	cfg := Config{Chains: 1, Iterations: 200, BurnIn: 50}

	first, critFirst, err := Conjugate{}.Sample(data, m, cfg, rand.NewSource(9))
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, critSecond, err := Conjugate{}.Sample(data, m, cfg, rand.NewSource(9))
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if critFirst != critSecond {
		t.Errorf("criteria differ under the same seed: %v vs %v", critFirst, critSecond)
	}
	row1 := first.Row(nil, 0)
	row2 := second.Row(nil, 0)
	for j := range row1 {
		if row1[j] != row2[j] {
			t.Fatalf("first draw differs under the same seed: %v vs %v", row1, row2)
		}
	}
}

func TestCriterionPrefersTrueModel(t *testing.T) {
	// Strongly quadratic data: the linear fit pays a large deviance
	// penalty, so DIC and the derived weights must favor the quadratic.
	truthBasis := bayesmc.PolyBasis{Center: 50, Scale: 50, Order: 2}
	data := simulated(t, truthBasis, []float64{20, 4, -3}, 1.5, 200, 5)

	cfg := Config{Chains: 2, Iterations: 1100, BurnIn: 100, Thin: 2}
	linear := bayesmc.Linear(50, 50)
	squared := bayesmc.Quadratic(50, 50)
	src := rand.NewSource(6)
	var crits []float64
	for _, m := range []*bayesmc.Model{linear, squared} {
		post, crit, err := Conjugate{}.Sample(data, m, cfg, src)
		if err != nil {
			t.Fatalf("sampling %s: %v", m.Name, err)
		}
		m.Posterior = post
		m.Criterion = crit
		crits = append(crits, crit)
	}
	if crits[1] >= crits[0] {
		t.Fatalf("quadratic criterion %v not below linear %v on quadratic data", crits[1], crits[0])
	}
	w, err := bayesmc.Weights(crits)
	if err != nil {
		t.Fatalf("weights: %v", err)
	}
	if w[1] < 0.99 {
		t.Errorf("quadratic weight %v, want near 1 on strongly quadratic data", w[1])
	}
}

func TestConjugateErrors(t *testing.T) {
	cfg := Config{Chains: 1, Iterations: 100}

	m := bayesmc.Quadratic(50, 50)
	tiny, err := dataset.New([]float64{1, 2, 3}, []float64{1, 2, 3})
	if err != nil {
		t.Fatalf("building table: %v", err)
	}
	if _, _, err := (Conjugate{}).Sample(tiny, m, cfg, nil); !errors.Is(err, bayesmc.ErrInvalidInput) {
		t.Errorf("underdetermined fit: got %v, want ErrInvalidInput", err)
	}

	// Constant covariate makes the design singular for any slope term.
	flat, err := dataset.New([]float64{5, 5, 5, 5, 5}, []float64{1, 2, 3, 4, 5})
	if err != nil {
		t.Fatalf("building table: %v", err)
	}
	lin := bayesmc.Linear(0, 1)
	if _, _, err := (Conjugate{}).Sample(flat, lin, cfg, nil); !errors.Is(err, bayesmc.ErrDegenerate) {
		t.Errorf("singular design: got %v, want ErrDegenerate", err)
	}

	if _, _, err := (Conjugate{}).Sample(tiny, nil, cfg, nil); !errors.Is(err, bayesmc.ErrInvalidInput) {
		t.Errorf("nil model: got %v, want ErrInvalidInput", err)
	}
	bad := Config{Chains: 0, Iterations: 100}
	if _, _, err := (Conjugate{}).Sample(tiny, lin, bad, nil); !errors.Is(err, bayesmc.ErrInvalidInput) {
		t.Errorf("bad config: got %v, want ErrInvalidInput", err)
	}
}

// Package knockoff implements the model-X Gaussian knockoff filter:
// synthetic decoy covariates sampled against the known covariate
// covariance, a lasso coefficient-difference statistic, and the
// knockoff+ threshold at each target-FDR level.
package knockoff

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/mat"

	"knockoffbench/domain/core"
	"knockoffbench/domain/selection"
	"knockoffbench/ports"
)

// DefaultLevels is the ordered target-FDR grid every filter result reports.
var DefaultLevels = []float64{0.01, 0.05, 0.10, 0.25, 0.50}

// Config holds filter parameters.
type Config struct {
	Levels    []float64 // Ordered target-FDR levels
	Folds     int       // CV folds for the statistic's lasso path
	MVRCycles int       // Coordinate-descent cycles for the mvr s-vector
	MVRTol    float64   // Early-stop tolerance for the mvr solver
}

// NewDefaultConfig returns recommended default parameters.
func NewDefaultConfig() *Config {
	return &Config{
		Levels:    DefaultLevels,
		Folds:     5,
		MVRCycles: 20,
		MVRTol:    1e-6,
	}
}

// Filter samples Gaussian knockoffs against a known covariance and
// selects variables whose statistic clears the knockoff+ threshold.
// It satisfies ports.KnockoffFilter.
type Filter struct {
	cfg   *Config
	sigma *mat.SymDense
	lasso ports.LassoSelector
	rng   *rand.Rand
}

var _ ports.KnockoffFilter = (*Filter)(nil)

// NewFilter creates a filter for covariates with covariance sigma. The
// rng drives knockoff sampling; pass a seeded generator for
// reproducible trials.
func NewFilter(cfg *Config, sigma *mat.SymDense, lassoSel ports.LassoSelector, rng *rand.Rand) *Filter {
	if cfg == nil {
		cfg = NewDefaultConfig()
	}
	return &Filter{cfg: cfg, sigma: sigma, lasso: lassoSel, rng: rng}
}

// Filter runs one knockoff pass on (y, X) and returns a selection per
// configured target-FDR level.
func (f *Filter) Filter(ctx context.Context, y []float64, X *mat.Dense, statistic string) (*ports.KnockoffResult, error) {
	n, p := X.Dims()
	if len(y) != n {
		return nil, core.NewDimensionError("response vector", len(y), n)
	}
	if f.sigma.SymmetricDim() != p {
		return nil, core.NewDimensionError("covariance", f.sigma.SymmetricDim(), p)
	}

	s, err := f.solveS(statistic)
	if err != nil {
		return nil, err
	}

	xTilde, err := f.sample(X, s)
	if err != nil {
		return nil, err
	}

	w, err := f.coefficientDifference(ctx, y, X, xTilde)
	if err != nil {
		return nil, fmt.Errorf("knockoff statistic: %w", err)
	}

	result := &ports.KnockoffResult{
		TargetFDR: append([]float64(nil), f.cfg.Levels...),
		Selected:  make([]selection.Result, len(f.cfg.Levels)),
	}
	for i, q := range f.cfg.Levels {
		result.Selected[i] = thresholdSelect(w, q)
	}
	return result, nil
}

func (f *Filter) solveS(statistic string) ([]float64, error) {
	switch statistic {
	case "mvr":
		return solveMVR(f.sigma, f.cfg.MVRCycles, f.cfg.MVRTol)
	case "equi":
		return solveEqui(f.sigma)
	default:
		return nil, core.NewValidationError("statistic", fmt.Sprintf("unknown knockoff construction %q", statistic))
	}
}

// sample draws X̃ | X from the Gaussian knockoff conditional:
// mean X - X·Σ⁻¹D, covariance 2D - D·Σ⁻¹·D with D = diag(s).
func (f *Filter) sample(X *mat.Dense, s []float64) (*mat.Dense, error) {
	n, p := X.Dims()

	var ch mat.Cholesky
	if ok := ch.Factorize(f.sigma); !ok {
		return nil, core.NewFactorizationError("covariance", p)
	}

	// M = Σ⁻¹D, solved column-block rather than inverted.
	D := mat.NewDense(p, p, nil)
	for j := 0; j < p; j++ {
		D.Set(j, j, s[j])
	}
	var m mat.Dense
	if err := ch.SolveTo(&m, D); err != nil {
		return nil, core.NewFactorizationError("covariance solve", p)
	}

	// Conditional mean: X - X·M.
	var mean mat.Dense
	mean.Mul(X, &m)
	mean.Sub(X, &mean)

	// Conditional covariance: V = 2D - D·M, symmetrized before factoring.
	var dm mat.Dense
	dm.Mul(D, &m)
	V := mat.NewSymDense(p, nil)
	for i := 0; i < p; i++ {
		for j := i; j < p; j++ {
			v := -(dm.At(i, j) + dm.At(j, i)) / 2
			if i == j {
				v += 2 * s[i]
			}
			V.SetSym(i, j, v)
		}
	}

	var chV mat.Cholesky
	if ok := chV.Factorize(V); !ok {
		return nil, core.NewFactorizationError("knockoff conditional covariance", p)
	}
	var L mat.TriDense
	chV.LTo(&L)

	z := mat.NewDense(n, p, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < p; j++ {
			z.Set(i, j, f.rng.NormFloat64())
		}
	}

	var noise mat.Dense
	noise.Mul(z, L.T())

	var xTilde mat.Dense
	xTilde.Add(&mean, &noise)
	return &xTilde, nil
}

// coefficientDifference fits the lasso on the augmented design [X X̃]
// at the CV-chosen penalty and returns W_j = |β_j| - |β̃_j|.
func (f *Filter) coefficientDifference(ctx context.Context, y []float64, X, xTilde *mat.Dense) ([]float64, error) {
	n, p := X.Dims()

	aug := mat.NewDense(n, 2*p, nil)
	aug.Slice(0, n, 0, p).(*mat.Dense).Copy(X)
	aug.Slice(0, n, p, 2*p).(*mat.Dense).Copy(xTilde)

	cv, err := f.lasso.CrossValidate(ctx, aug, y, f.cfg.Folds)
	if err != nil {
		return nil, err
	}
	best, err := cv.BestLambda()
	if err != nil {
		return nil, err
	}
	coefs, err := f.lasso.Fit(ctx, aug, y, best)
	if err != nil {
		return nil, err
	}

	w := make([]float64, p)
	for j := 0; j < p; j++ {
		w[j] = math.Abs(coefs[j]) - math.Abs(coefs[p+j])
	}
	return w, nil
}

// thresholdSelect applies the knockoff+ rule for target level q: the
// smallest t among the nonzero |W_j| with
// (1 + #{W_j <= -t}) / max(#{W_j >= t}, 1) <= q. No feasible t means an
// empty selection.
func thresholdSelect(w []float64, q float64) selection.Result {
	candidates := make([]float64, 0, len(w))
	for _, v := range w {
		if a := math.Abs(v); a > 0 {
			candidates = append(candidates, a)
		}
	}
	sort.Float64s(candidates)

	for _, t := range candidates {
		neg, pos := 0, 0
		for _, v := range w {
			if v <= -t {
				neg++
			}
			if v >= t {
				pos++
			}
		}
		denom := pos
		if denom < 1 {
			denom = 1
		}
		if float64(1+neg)/float64(denom) <= q {
			sel := make(selection.Result, 0, pos)
			for j, v := range w {
				if v >= t {
					sel = append(sel, j)
				}
			}
			return sel
		}
	}
	return selection.Result{}
}

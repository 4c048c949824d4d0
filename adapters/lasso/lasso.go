// Package lasso implements the cross-validated Lasso collaborator with
// coordinate descent and soft-thresholding. The objective is the
// glmnet-style per-sample form (1/2n)·RSS + λ·|β|₁, so penalty values
// are comparable across sample sizes.
package lasso

import (
	"context"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"knockoffbench/domain/core"
	"knockoffbench/ports"
)

// Config holds fitting parameters.
type Config struct {
	MaxIter     int     // Maximum full coordinate sweeps per fit
	Tol         float64 // Convergence tolerance on max coefficient change
	Standardize bool    // Center and scale columns before fitting
	GridSize    int     // Number of penalty values on the CV grid
	LambdaRatio float64 // Smallest grid value as a fraction of lambda_max
}

// NewDefaultConfig returns recommended default parameters.
func NewDefaultConfig() *Config {
	return &Config{
		MaxIter:     1000,
		Tol:         1e-4,
		Standardize: true,
		GridSize:    100,
		LambdaRatio: 0.01,
	}
}

// Selector fits Lasso models. It satisfies ports.LassoSelector.
type Selector struct {
	cfg *Config
}

var _ ports.LassoSelector = (*Selector)(nil)

// NewSelector creates a Selector; a nil config uses the defaults.
func NewSelector(cfg *Config) *Selector {
	if cfg == nil {
		cfg = NewDefaultConfig()
	}
	return &Selector{cfg: cfg}
}

// Fit refits on the full dataset at one penalty value and returns
// coefficients on the original column scale.
func (s *Selector) Fit(ctx context.Context, X *mat.Dense, y []float64, lambda float64) ([]float64, error) {
	n, _ := X.Dims()
	if len(y) != n {
		return nil, core.NewDimensionError("response vector", len(y), n)
	}

	scl := newScaler(X, y, s.cfg.Standardize)
	beta := make([]float64, scl.p)
	if err := s.descend(ctx, scl, lambda, beta); err != nil {
		return nil, err
	}
	coefs, _ := scl.original(beta)
	return coefs, nil
}

// descend runs coordinate descent in the standardized space, writing
// the solution into beta (which also serves as the warm start).
func (s *Selector) descend(ctx context.Context, scl *scaler, lambda float64, beta []float64) error {
	n, p := scl.n, scl.p

	// Residuals for the warm start.
	resid := make([]float64, n)
	copy(resid, scl.yc)
	for j := 0; j < p; j++ {
		if beta[j] != 0 {
			addColScaled(scl.Xs, resid, j, -beta[j])
		}
	}

	for iter := 0; iter < s.cfg.MaxIter; iter++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		maxDelta := 0.0
		for j := 0; j < p; j++ {
			xtx := scl.colNorm[j]
			if xtx == 0 {
				continue
			}
			// Partial correlation with coordinate j folded back in.
			rho := dotCol(scl.Xs, resid, j)/float64(n) + xtx*beta[j]
			next := softThreshold(rho, lambda) / xtx

			if delta := next - beta[j]; delta != 0 {
				addColScaled(scl.Xs, resid, j, -delta)
				beta[j] = next
				if d := math.Abs(delta); d > maxDelta {
					maxDelta = d
				}
			}
		}

		if maxDelta < s.cfg.Tol {
			return nil
		}
	}
	return core.ErrNoConvergence
}

// softThreshold applies the soft-thresholding operator.
func softThreshold(z, lambda float64) float64 {
	switch {
	case z > lambda:
		return z - lambda
	case z < -lambda:
		return z + lambda
	default:
		return 0
	}
}

// dotCol computes the dot product of column j of X with v.
func dotCol(X *mat.Dense, v []float64, j int) float64 {
	n, _ := X.Dims()
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += X.At(i, j) * v[i]
	}
	return sum
}

// addColScaled adds scale * column j of X into v.
func addColScaled(X *mat.Dense, v []float64, j int, scale float64) {
	n, _ := X.Dims()
	for i := 0; i < n; i++ {
		v[i] += scale * X.At(i, j)
	}
}

// scaler centers/scales a design matrix and response once, and maps
// standardized-space coefficients back to the original column scale.
type scaler struct {
	Xs      *mat.Dense // standardized working copy
	yc      []float64  // centered response
	colNorm []float64  // (x_j'x_j)/n per standardized column
	means   []float64
	stds    []float64
	yMean   float64
	n, p    int
}

func newScaler(X *mat.Dense, y []float64, standardize bool) *scaler {
	n, p := X.Dims()
	scl := &scaler{
		Xs:      mat.DenseCopyOf(X),
		yc:      make([]float64, n),
		colNorm: make([]float64, p),
		means:   make([]float64, p),
		stds:    make([]float64, p),
		n:       n,
		p:       p,
	}

	copy(scl.yc, y)
	scl.yMean = floats.Sum(scl.yc) / float64(n)
	floats.AddConst(-scl.yMean, scl.yc)

	col := make([]float64, n)
	for j := 0; j < p; j++ {
		mat.Col(col, j, scl.Xs)

		mean := floats.Sum(col) / float64(n)
		variance := 0.0
		for i := range col {
			col[i] -= mean
			variance += col[i] * col[i]
		}
		std := math.Sqrt(variance / float64(n))

		scl.means[j] = mean
		scl.stds[j] = 1.0
		if standardize {
			if std < 1e-10 {
				std = 1.0 // constant column, leave unscaled
			}
			for i := range col {
				col[i] /= std
			}
			scl.stds[j] = std
		}
		scl.Xs.SetCol(j, col)

		norm := 0.0
		for i := range col {
			norm += col[i] * col[i]
		}
		scl.colNorm[j] = norm / float64(n)
	}
	return scl
}

// original maps standardized coefficients back to the input scale and
// returns them with the matching intercept.
func (s *scaler) original(beta []float64) (coefs []float64, intercept float64) {
	coefs = make([]float64, s.p)
	dot := 0.0
	for j := range beta {
		coefs[j] = beta[j] / s.stds[j]
		dot += coefs[j] * s.means[j]
	}
	return coefs, s.yMean - dot
}

// lambdaMax returns the smallest penalty that zeroes every coefficient.
func (s *scaler) lambdaMax() float64 {
	maxAbs := 0.0
	for j := 0; j < s.p; j++ {
		if v := math.Abs(dotCol(s.Xs, s.yc, j)) / float64(s.n); v > maxAbs {
			maxAbs = v
		}
	}
	return maxAbs
}

// Package simdata generates the synthetic regression problem: a design
// matrix with Toeplitz-correlated columns, a sparse coefficient vector
// with randomized support, and a noisy linear response.
package simdata

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"knockoffbench/domain/core"
	"knockoffbench/domain/selection"
)

// Params describes one synthetic problem.
type Params struct {
	N   int     // samples
	P   int     // covariates
	Rho float64 // Toeplitz correlation decay, in (-1, 1)
	K   int     // truly nonzero coefficients
}

// Dataset is one generated problem instance. Immutable after
// generation; both trial runners consume the same instance.
type Dataset struct {
	X       *mat.Dense
	Y       []float64
	Beta    []float64
	Support selection.Support
	Sigma   *mat.SymDense // the exact covariate covariance used
}

// Validate checks the parameters describe a well-posed problem.
func (p Params) Validate() error {
	if p.N <= 0 {
		return core.NewValidationError("n", "sample count must be positive")
	}
	if p.P <= 0 {
		return core.NewValidationError("p", "covariate count must be positive")
	}
	if p.K < 0 || p.K > p.P {
		return core.NewValidationError("k", "signal count must lie in [0, p]")
	}
	if p.Rho <= -1 || p.Rho >= 1 {
		return core.NewValidationError("rho", "correlation must lie in (-1, 1)")
	}
	return nil
}

// Toeplitz builds the correlation matrix with entry (i,j) = rho^|i-j|.
// Positive definite for rho in (-1, 1).
func Toeplitz(p int, rho float64) *mat.SymDense {
	sigma := mat.NewSymDense(p, nil)
	for i := 0; i < p; i++ {
		for j := i; j < p; j++ {
			sigma.SetSym(i, j, math.Pow(rho, float64(j-i)))
		}
	}
	return sigma
}

// Generate builds (X, y, support) from two independent generator
// streams: covariateRNG drives the design matrix draw, coefficientRNG
// drives the coefficient draws, their shuffle, and the response noise.
// Keeping the streams separate means either half can be reproduced or
// varied on its own.
func Generate(params Params, covariateRNG, coefficientRNG *rand.Rand) (*Dataset, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	n, p := params.N, params.P

	sigma := Toeplitz(p, params.Rho)
	var ch mat.Cholesky
	if ok := ch.Factorize(sigma); !ok {
		return nil, core.NewFactorizationError("toeplitz covariance", p)
	}
	var L mat.TriDense
	ch.LTo(&L)

	// X = Z·Lᵀ gives Cov(X) = L·Lᵀ = Σ exactly in expectation.
	z := mat.NewDense(n, p, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < p; j++ {
			z.Set(i, j, covariateRNG.NormFloat64())
		}
	}
	X := mat.NewDense(n, p, nil)
	X.Mul(z, L.T())

	// Sparse coefficients: k standard-normal draws, then a uniform
	// shuffle so the support is not predictable from index order.
	beta := make([]float64, p)
	for j := 0; j < params.K; j++ {
		beta[j] = coefficientRNG.NormFloat64()
	}
	coefficientRNG.Shuffle(p, func(i, j int) {
		beta[i], beta[j] = beta[j], beta[i]
	})

	supportIdx := make([]int, 0, params.K)
	for j, b := range beta {
		if b != 0 {
			supportIdx = append(supportIdx, j)
		}
	}

	y := make([]float64, n)
	for i := 0; i < n; i++ {
		sum := 0.0
		for _, j := range supportIdx {
			sum += X.At(i, j) * beta[j]
		}
		y[i] = sum + coefficientRNG.NormFloat64()
	}

	return &Dataset{
		X:       X,
		Y:       y,
		Beta:    beta,
		Support: selection.NewSupport(supportIdx),
		Sigma:   sigma,
	}, nil
}

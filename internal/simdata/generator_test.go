package simdata

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

func rngs(covSeed, coefSeed int64) (*rand.Rand, *rand.Rand) {
	return rand.New(rand.NewSource(covSeed)), rand.New(rand.NewSource(coefSeed))
}

func TestToeplitz_PositiveDefiniteAcrossRho(t *testing.T) {
	for _, rho := range []float64{0.05, 0.2, 0.4, 0.7, 0.95} {
		sigma := Toeplitz(40, rho)
		var ch mat.Cholesky
		assert.Truef(t, ch.Factorize(sigma), "rho=%.2f must give a positive definite matrix", rho)
	}
}

func TestToeplitz_Symmetry(t *testing.T) {
	sigma := Toeplitz(10, 0.4)
	for i := 0; i < 10; i++ {
		for j := 0; j < 10; j++ {
			assert.Equal(t, sigma.At(i, j), sigma.At(j, i))
		}
	}
	assert.Equal(t, 1.0, sigma.At(3, 3))
	assert.InDelta(t, 0.4, sigma.At(3, 4), 1e-12)
	assert.InDelta(t, 0.16, sigma.At(3, 5), 1e-12)
}

func TestGenerate_SupportHasExactlyKElements(t *testing.T) {
	for _, seed := range []int64{1, 2, 42, 1234, 99999} {
		cov, coef := rngs(seed, seed+7)
		ds, err := Generate(Params{N: 30, P: 100, Rho: 0.4, K: 17}, cov, coef)
		require.NoError(t, err)
		assert.Lenf(t, ds.Support, 17, "seed %d", seed)
	}
}

func TestGenerate_RejectsInvalidParams(t *testing.T) {
	tests := []struct {
		name   string
		params Params
	}{
		{"k above p", Params{N: 10, P: 5, Rho: 0.4, K: 6}},
		{"negative k", Params{N: 10, P: 5, Rho: 0.4, K: -1}},
		{"rho at 1", Params{N: 10, P: 5, Rho: 1.0, K: 2}},
		{"zero samples", Params{N: 0, P: 5, Rho: 0.4, K: 2}},
		{"zero covariates", Params{N: 10, P: 0, Rho: 0.4, K: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cov, coef := rngs(1, 2)
			_, err := Generate(tt.params, cov, coef)
			assert.Error(t, err)
		})
	}
}

func TestGenerate_DeterministicForFixedSeeds(t *testing.T) {
	params := Params{N: 25, P: 40, Rho: 0.4, K: 5}

	cov1, coef1 := rngs(2022, 123)
	a, err := Generate(params, cov1, coef1)
	require.NoError(t, err)

	cov2, coef2 := rngs(2022, 123)
	b, err := Generate(params, cov2, coef2)
	require.NoError(t, err)

	assert.True(t, mat.Equal(a.X, b.X))
	assert.Equal(t, a.Y, b.Y)
	assert.Equal(t, a.Beta, b.Beta)
}

func TestGenerate_SeedStreamsAreIndependent(t *testing.T) {
	// Changing only the coefficient seed must leave the design matrix
	// untouched; that is the point of the two-stream split.
	params := Params{N: 25, P: 40, Rho: 0.4, K: 5}

	cov1, coef1 := rngs(2022, 123)
	a, err := Generate(params, cov1, coef1)
	require.NoError(t, err)

	cov2, coef2 := rngs(2022, 999)
	b, err := Generate(params, cov2, coef2)
	require.NoError(t, err)

	assert.True(t, mat.Equal(a.X, b.X), "design matrix depends only on the covariate stream")
	assert.NotEqual(t, a.Beta, b.Beta, "coefficients follow the coefficient stream")
}

func TestGenerate_NeighborCorrelationNearRho(t *testing.T) {
	cov, coef := rngs(7, 8)
	ds, err := Generate(Params{N: 4000, P: 4, Rho: 0.4, K: 1}, cov, coef)
	require.NoError(t, err)

	col0 := mat.Col(nil, 0, ds.X)
	col1 := mat.Col(nil, 1, ds.X)
	col2 := mat.Col(nil, 2, ds.X)

	assert.InDelta(t, 0.4, stat.Correlation(col0, col1, nil), 0.06)
	assert.InDelta(t, 0.16, stat.Correlation(col0, col2, nil), 0.06)
}

func TestGenerate_ZeroSignalGivesEmptySupport(t *testing.T) {
	cov, coef := rngs(3, 4)
	ds, err := Generate(Params{N: 10, P: 8, Rho: 0.2, K: 0}, cov, coef)
	require.NoError(t, err)
	assert.Empty(t, ds.Support)
}

package lasso

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"knockoffbench/domain/core"
	"knockoffbench/ports"
)

// CrossValidate runs k-fold cross validation over a geometric penalty
// grid and returns the mean held-out squared error per penalty value.
// The grid is built from the full dataset (glmnet convention); within
// each fold the path is fit from the largest penalty down with warm
// starts.
func (s *Selector) CrossValidate(ctx context.Context, X *mat.Dense, y []float64, folds int) (*ports.CVResult, error) {
	n, _ := X.Dims()
	if len(y) != n {
		return nil, core.NewDimensionError("response vector", len(y), n)
	}
	if folds < 2 {
		return nil, core.NewValidationError("folds", "cross validation needs at least 2 folds")
	}
	if folds > n {
		return nil, fmt.Errorf("%w: %d folds over %d samples leaves empty folds", core.ErrInsufficientData, folds, n)
	}

	full := newScaler(X, y, s.cfg.Standardize)
	grid := geometricGrid(full.lambdaMax(), s.cfg.LambdaRatio, s.cfg.GridSize)
	if len(grid) == 0 {
		return nil, core.ErrEmptyLambdaGrid
	}

	sse := make([]float64, len(grid))
	for f := 0; f < folds; f++ {
		lo, hi := foldBounds(n, folds, f)

		trainX, trainY := dropRows(X, y, lo, hi)
		scl := newScaler(trainX, trainY, s.cfg.Standardize)

		beta := make([]float64, scl.p)
		for li, lambda := range grid {
			if err := s.descend(ctx, scl, lambda, beta); err != nil {
				return nil, err
			}
			coefs, intercept := scl.original(beta)
			for i := lo; i < hi; i++ {
				pred := intercept
				for j := range coefs {
					if coefs[j] != 0 {
						pred += coefs[j] * X.At(i, j)
					}
				}
				diff := y[i] - pred
				sse[li] += diff * diff
			}
		}
	}

	meanLoss := make([]float64, len(grid))
	for li := range sse {
		meanLoss[li] = sse[li] / float64(n)
	}
	return &ports.CVResult{Lambdas: grid, MeanLoss: meanLoss}, nil
}

// geometricGrid builds a descending penalty grid from lambdaMax down to
// lambdaMax*ratio, geometrically spaced. Fitting descends the grid so
// warm starts stay close to the next solution.
func geometricGrid(lambdaMax, ratio float64, size int) []float64 {
	if lambdaMax <= 0 || size <= 0 {
		return nil
	}
	if size == 1 {
		return []float64{lambdaMax}
	}
	grid := make([]float64, size)
	step := math.Log(ratio) / float64(size-1)
	for i := range grid {
		grid[i] = lambdaMax * math.Exp(step*float64(i))
	}
	return grid
}

// foldBounds returns the half-open held-out row range for fold f,
// splitting n rows into contiguous near-equal blocks.
func foldBounds(n, folds, f int) (lo, hi int) {
	lo = f * n / folds
	hi = (f + 1) * n / folds
	return lo, hi
}

// dropRows copies X and y without rows [lo, hi).
func dropRows(X *mat.Dense, y []float64, lo, hi int) (*mat.Dense, []float64) {
	n, p := X.Dims()
	kept := n - (hi - lo)

	outX := mat.NewDense(kept, p, nil)
	outY := make([]float64, kept)
	row := 0
	for i := 0; i < n; i++ {
		if i >= lo && i < hi {
			continue
		}
		outX.SetRow(row, X.RawRowView(i))
		outY[row] = y[i]
		row++
	}
	return outX, outY
}

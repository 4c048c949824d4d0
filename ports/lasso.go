// Package ports defines the interfaces the study runners depend on.
// The numerical collaborators (the cross-validated Lasso fitter and the
// knockoff filter) live behind these ports; the runners never see their
// internals.
package ports

import (
	"context"

	"gonum.org/v1/gonum/mat"

	"knockoffbench/domain/core"
)

// CVResult is a cross-validation path: candidate penalty values and the
// mean held-out loss observed at each.
type CVResult struct {
	Lambdas  []float64
	MeanLoss []float64
}

// BestLambda returns the penalty value minimizing the mean CV loss.
func (r *CVResult) BestLambda() (float64, error) {
	if len(r.Lambdas) == 0 || len(r.Lambdas) != len(r.MeanLoss) {
		return 0, core.ErrEmptyLambdaGrid
	}
	best := 0
	for i := range r.MeanLoss {
		if r.MeanLoss[i] < r.MeanLoss[best] {
			best = i
		}
	}
	return r.Lambdas[best], nil
}

// LassoSelector is the cross-validated Lasso collaborator. The penalty
// grid construction and the fitting algorithm are the implementation's
// responsibility.
type LassoSelector interface {
	// CrossValidate runs k-fold cross validation over a candidate
	// penalty grid and returns the full path of mean losses.
	CrossValidate(ctx context.Context, X *mat.Dense, y []float64, folds int) (*CVResult, error)

	// Fit refits on the full dataset at a single penalty value and
	// returns the coefficient vector.
	Fit(ctx context.Context, X *mat.Dense, y []float64, lambda float64) ([]float64, error)
}

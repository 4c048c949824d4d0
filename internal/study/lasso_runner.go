// Package study runs the two selection procedures against one
// generated dataset and aggregates their accounting metrics.
package study

import (
	"context"
	"fmt"

	"knockoffbench/domain/selection"
	"knockoffbench/internal"
	"knockoffbench/internal/errors"
	"knockoffbench/internal/simdata"
	"knockoffbench/ports"
)

// LassoOutcome is the single-shot Lasso result: the CV-chosen penalty
// and the scored selection.
type LassoOutcome struct {
	Lambda   float64
	Selected selection.Result
	Metrics  selection.TrialMetrics
}

// LassoRunner scores one cross-validated Lasso fit. No retry logic:
// a fitting failure is fatal and propagates.
type LassoRunner struct {
	selector ports.LassoSelector
	folds    int
	logger   *internal.Logger
}

// NewLassoRunner creates a runner using k-fold cross validation.
func NewLassoRunner(selector ports.LassoSelector, folds int, logger *internal.Logger) *LassoRunner {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &LassoRunner{selector: selector, folds: folds, logger: logger}
}

// Run cross-validates the penalty, refits on the full dataset, and
// scores the nonzero coefficients against the true support.
func (r *LassoRunner) Run(ctx context.Context, ds *simdata.Dataset) (*LassoOutcome, error) {
	r.logger.Info("lasso: running %d-fold cross validation", r.folds)

	cv, err := r.selector.CrossValidate(ctx, ds.X, ds.Y, r.folds)
	if err != nil {
		return nil, errors.FitError("lasso cross validation", err)
	}
	lambda, err := cv.BestLambda()
	if err != nil {
		return nil, errors.FitError("lasso penalty selection", err)
	}

	r.logger.Info("lasso: refitting at lambda=%.6f", lambda)
	coefs, err := r.selector.Fit(ctx, ds.X, ds.Y, lambda)
	if err != nil {
		return nil, errors.FitError(fmt.Sprintf("lasso refit at lambda=%.6f", lambda), err)
	}

	selected := make(selection.Result, 0)
	for j, c := range coefs {
		if c != 0 {
			selected = append(selected, j)
		}
	}
	if len(selected) == 0 {
		r.logger.Warn("lasso: empty model at lambda=%.6f, every coefficient shrank to zero", lambda)
	}

	return &LassoOutcome{
		Lambda:   lambda,
		Selected: selected,
		Metrics:  selection.Score(selected, ds.Support, len(ds.Support)),
	}, nil
}

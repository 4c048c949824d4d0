// Package run records what a benchmark run was: its identity, its
// parameters, and a fingerprint that makes two runs comparable.
package run

import (
	"fmt"
	"time"

	"knockoffbench/domain/core"
)

// Manifest is the truth source for one benchmark run. It is created
// before any trial executes so a logged run can always be replayed
// from its seeds and parameter fingerprint.
type Manifest struct {
	RunID           core.RunID      `json:"run_id"`
	Samples         int             `json:"n"`
	Covariates      int             `json:"p"`
	Correlation     float64         `json:"rho"`
	SignalCount     int             `json:"k"`
	Trials          int             `json:"trials"`
	Folds           int             `json:"cv_folds"`
	CovariateSeed   int64           `json:"covariate_seed"`
	CoefficientSeed int64           `json:"coefficient_seed"`
	Fingerprint     core.ParamsHash `json:"fingerprint"`
	CreatedAt       time.Time       `json:"created_at"`
}

// NewManifest builds a manifest and fingerprints the parameters that
// determine the run's output.
func NewManifest(n, p int, rho float64, k, trials, folds int, covariateSeed, coefficientSeed int64) *Manifest {
	fingerprint := core.ComputeParamsHash(map[string]interface{}{
		"n":                n,
		"p":                p,
		"rho":              rho,
		"k":                k,
		"trials":           trials,
		"cv_folds":         folds,
		"covariate_seed":   covariateSeed,
		"coefficient_seed": coefficientSeed,
	})

	return &Manifest{
		RunID:           core.RunID(core.NewID()),
		Samples:         n,
		Covariates:      p,
		Correlation:     rho,
		SignalCount:     k,
		Trials:          trials,
		Folds:           folds,
		CovariateSeed:   covariateSeed,
		CoefficientSeed: coefficientSeed,
		Fingerprint:     fingerprint,
		CreatedAt:       time.Now(),
	}
}

// Validate checks the manifest describes a well-posed run.
func (m *Manifest) Validate() error {
	if core.ID(m.RunID).IsEmpty() {
		return core.NewValidationError("run_manifest", "run_id cannot be empty")
	}
	if m.Samples <= 0 {
		return core.NewValidationError("n", "sample count must be positive")
	}
	if m.Covariates <= 0 {
		return core.NewValidationError("p", "covariate count must be positive")
	}
	if m.SignalCount > m.Covariates {
		return core.NewValidationError("k", fmt.Sprintf("signal count %d exceeds covariate count %d", m.SignalCount, m.Covariates))
	}
	if m.Correlation <= -1 || m.Correlation >= 1 {
		return core.NewValidationError("rho", "correlation must lie in (-1, 1)")
	}
	if m.Trials <= 0 {
		return core.ErrNoTrials
	}
	if m.CovariateSeed == m.CoefficientSeed {
		return fmt.Errorf("%w: covariate and coefficient streams share seed %d", core.ErrSeedMismatch, m.CovariateSeed)
	}
	return nil
}

// CheckFingerprint compares the manifest against a fingerprint pinned
// from an earlier run, guarding a replay against silent parameter
// drift. An empty pin skips the check.
func (m *Manifest) CheckFingerprint(pinned core.Hash) error {
	if pinned.IsEmpty() {
		return nil
	}
	if !core.Hash(m.Fingerprint).Equals(pinned) {
		return fmt.Errorf("%w: parameters fingerprint %s, pinned %s", core.ErrHashMismatch, m.Fingerprint, pinned)
	}
	return nil
}

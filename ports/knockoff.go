package ports

import (
	"context"

	"gonum.org/v1/gonum/mat"

	"knockoffbench/domain/selection"
)

// KnockoffResult exposes, for a fixed ordered list of target-FDR
// levels, one selection per level. Selections are weakly monotone in
// the target level; that is the filter's guarantee, not re-verified by
// consumers.
type KnockoffResult struct {
	TargetFDR []float64
	Selected  []selection.Result // Selected[i] corresponds to TargetFDR[i]
}

// KnockoffFilter is the model-free selection collaborator. Knockoff
// construction and threshold selection are the implementation's
// responsibility; the statistic name picks the knockoff construction
// variant (e.g. "mvr", "equi").
type KnockoffFilter interface {
	Filter(ctx context.Context, y []float64, X *mat.Dense, statistic string) (*KnockoffResult, error)
}

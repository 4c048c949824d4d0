package study

import (
	"context"
	"fmt"

	"github.com/montanaflynn/stats"
	"golang.org/x/sync/errgroup"

	"knockoffbench/domain/core"
	"knockoffbench/domain/selection"
	"knockoffbench/internal"
	"knockoffbench/internal/errors"
	"knockoffbench/internal/simdata"
	"knockoffbench/ports"
)

// FilterFactory hands out the knockoff filter for one trial. Each trial
// gets its own instance so a trial's sampling stream is deterministic in
// the trial index and trials stay independent under parallel execution.
type FilterFactory func(trial int) ports.KnockoffFilter

// KnockoffConfig holds the Monte-Carlo parameters.
type KnockoffConfig struct {
	Trials    int    // Monte-Carlo trial count
	Statistic string // knockoff construction variant, e.g. "mvr"
	Parallel  bool   // run trials concurrently
	Workers   int    // concurrent trial limit when Parallel (0 = trial count)
}

// KnockoffOutcome is the per-level aggregate across all trials.
type KnockoffOutcome struct {
	Levels     []float64
	Aggregates []selection.AggregateMetrics // one entry per level
}

// At returns the aggregate for one target-FDR level.
func (o *KnockoffOutcome) At(level float64) (selection.AggregateMetrics, bool) {
	for i, l := range o.Levels {
		if l == level {
			return o.Aggregates[i], true
		}
	}
	return selection.AggregateMetrics{}, false
}

// KnockoffRunner repeats the knockoff filter over independent
// Monte-Carlo trials and averages power and FDP per target level.
type KnockoffRunner struct {
	factory FilterFactory
	cfg     KnockoffConfig
	logger  *internal.Logger
}

// NewKnockoffRunner creates a runner. A trial failure halts the whole
// run; there is no partial-result recovery.
func NewKnockoffRunner(factory FilterFactory, cfg KnockoffConfig, logger *internal.Logger) *KnockoffRunner {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &KnockoffRunner{factory: factory, cfg: cfg, logger: logger}
}

// trialScore is one trial's raw result, scored per level.
type trialScore struct {
	levels  []float64
	metrics []selection.TrialMetrics
}

// Run executes the trials and reduces them into per-level means. The
// reduction is a plain sum-then-divide over commutative terms, so the
// parallel and sequential paths produce identical aggregates.
func (r *KnockoffRunner) Run(ctx context.Context, ds *simdata.Dataset) (*KnockoffOutcome, error) {
	if r.cfg.Trials <= 0 {
		return nil, core.ErrNoTrials
	}

	scores := make([]*trialScore, r.cfg.Trials)
	if r.cfg.Parallel {
		g, gctx := errgroup.WithContext(ctx)
		if r.cfg.Workers > 0 {
			g.SetLimit(r.cfg.Workers)
		}
		for trial := 0; trial < r.cfg.Trials; trial++ {
			trial := trial
			g.Go(func() error {
				score, err := r.runTrial(gctx, trial, ds)
				if err != nil {
					return err
				}
				scores[trial] = score
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for trial := 0; trial < r.cfg.Trials; trial++ {
			score, err := r.runTrial(ctx, trial, ds)
			if err != nil {
				return nil, err
			}
			scores[trial] = score
		}
	}

	return reduce(scores)
}

func (r *KnockoffRunner) runTrial(ctx context.Context, trial int, ds *simdata.Dataset) (*trialScore, error) {
	r.logger.Info("knockoffs: trial %d/%d", trial+1, r.cfg.Trials)

	result, err := r.factory(trial).Filter(ctx, ds.Y, ds.X, r.cfg.Statistic)
	if err != nil {
		switch {
		case core.IsNumericalError(err):
			return nil, errors.NumericalError(fmt.Sprintf("knockoff trial %d", trial+1), err)
		case core.IsFitError(err):
			return nil, errors.FitError(fmt.Sprintf("knockoff trial %d", trial+1), err)
		default:
			return nil, errors.Wrapf(err, "knockoff trial %d", trial+1)
		}
	}
	if len(result.Selected) != len(result.TargetFDR) {
		return nil, core.NewValidationError("knockoff result",
			fmt.Sprintf("trial %d returned %d selections for %d target levels", trial+1, len(result.Selected), len(result.TargetFDR)))
	}

	score := &trialScore{
		levels:  result.TargetFDR,
		metrics: make([]selection.TrialMetrics, len(result.TargetFDR)),
	}
	for i, sel := range result.Selected {
		score.metrics[i] = selection.Score(sel, ds.Support, len(ds.Support))
	}
	if r.logger.GetLevel() >= internal.LogLevelDebug {
		for i, m := range score.metrics {
			r.logger.Debug("trial %d: level %.2f selected %d, power %.3f, fdp %.3f",
				trial+1, score.levels[i], m.Selected, m.Power, m.FDP)
		}
	}
	return score, nil
}

// reduce averages trial metrics per level. Every trial must report the
// same ordered level list; silent misalignment would corrupt the means,
// so a mismatch is a hard error.
func reduce(scores []*trialScore) (*KnockoffOutcome, error) {
	levels := scores[0].levels
	for t, score := range scores {
		if !equalLevels(score.levels, levels) {
			return nil, core.NewLevelMismatchError(t+1, score.levels, levels)
		}
	}

	trials := len(scores)
	out := &KnockoffOutcome{
		Levels:     append([]float64(nil), levels...),
		Aggregates: make([]selection.AggregateMetrics, len(levels)),
	}
	for i, level := range levels {
		power := make([]float64, trials)
		fdp := make([]float64, trials)
		nsel := make([]float64, trials)
		for t, score := range scores {
			power[t] = score.metrics[i].Power
			fdp[t] = score.metrics[i].FDP
			nsel[t] = float64(score.metrics[i].Selected)
		}

		meanPower, err := stats.Mean(power)
		if err != nil {
			return nil, err
		}
		meanFDP, err := stats.Mean(fdp)
		if err != nil {
			return nil, err
		}
		meanSel, err := stats.Mean(nsel)
		if err != nil {
			return nil, err
		}

		out.Aggregates[i] = selection.AggregateMetrics{
			TargetFDR:    level,
			Power:        meanPower,
			EmpiricalFDR: meanFDP,
			MeanSelected: meanSel,
			Trials:       trials,
		}
	}
	return out, nil
}

func equalLevels(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Package testkit provides deterministic fixtures and scripted fakes
// for the study runners.
package testkit

import (
	"context"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/mat"

	"knockoffbench/domain/selection"
	"knockoffbench/internal/simdata"
	"knockoffbench/ports"
)

// TinyDataset generates a small, fully deterministic problem instance
// for runner tests.
func TinyDataset(tb testing.TB) *simdata.Dataset {
	tb.Helper()
	ds, err := simdata.Generate(
		simdata.Params{N: 60, P: 15, Rho: 0.3, K: 3},
		rand.New(rand.NewSource(2022)),
		rand.New(rand.NewSource(123)),
	)
	if err != nil {
		tb.Fatalf("generate tiny dataset: %v", err)
	}
	return ds
}

// ScriptedFilter is a ports.KnockoffFilter that returns one canned
// result (or error) regardless of its inputs.
type ScriptedFilter struct {
	Result *ports.KnockoffResult
	Err    error
}

func (f *ScriptedFilter) Filter(_ context.Context, _ []float64, _ *mat.Dense, _ string) (*ports.KnockoffResult, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Result, nil
}

// ScriptedFactory hands out one canned result per trial index, cycling
// if there are more trials than scripts.
func ScriptedFactory(results ...*ports.KnockoffResult) func(trial int) ports.KnockoffFilter {
	return func(trial int) ports.KnockoffFilter {
		return &ScriptedFilter{Result: results[trial%len(results)]}
	}
}

// CannedResult builds a KnockoffResult from per-level selections.
func CannedResult(levels []float64, selected ...selection.Result) *ports.KnockoffResult {
	return &ports.KnockoffResult{TargetFDR: levels, Selected: selected}
}

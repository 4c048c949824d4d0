package report

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"knockoffbench/domain/selection"
	"knockoffbench/internal/config"
	"knockoffbench/internal/study"
)

func fixtureOutcomes() (*study.LassoOutcome, *study.KnockoffOutcome) {
	lassoOut := &study.LassoOutcome{
		Lambda:   0.042,
		Selected: selection.Result{1, 2, 3, 4},
		Metrics: selection.TrialMetrics{
			TruePositives:  3,
			FalsePositives: 1,
			FalseNegatives: 2,
			Selected:       4,
			Power:          0.6,
			FDP:            0.25,
		},
	}
	levels := []float64{0.01, 0.05, 0.10, 0.25, 0.50}
	koOut := &study.KnockoffOutcome{Levels: levels}
	for _, q := range levels {
		koOut.Aggregates = append(koOut.Aggregates, selection.AggregateMetrics{
			TargetFDR:    q,
			Power:        0.5 + q, // grows with the level
			EmpiricalFDR: q * 0.8, // controlled below target
			MeanSelected: 30 + 40*q,
			Trials:       10,
		})
	}
	return lassoOut, koOut
}

func TestConsole_SectionsContainKeyLines(t *testing.T) {
	lassoOut, koOut := fixtureOutcomes()
	var buf bytes.Buffer
	c := NewConsole(&buf)

	c.Banner("Knockoffs vs Lasso")
	c.DataSection(config.Default().Data, 50)
	c.LassoSection(lassoOut)
	c.KnockoffSection(koOut)
	c.Verdict(lassoOut, koOut, 0.10)

	out := buf.String()
	assert.Contains(t, out, "covariates p         = 1000")
	assert.Contains(t, out, "chosen penalty lambda = 0.042000")
	assert.Contains(t, out, "true positives (TP): 3")
	assert.Contains(t, out, "target FDR = 0.10")
	assert.Contains(t, out, "knockoffs reached higher power")
	assert.Contains(t, out, "at or below the 0.10 target")
}

func TestConsole_VerdictWhenLassoWins(t *testing.T) {
	lassoOut, koOut := fixtureOutcomes()
	lassoOut.Metrics.Power = 0.99
	for i := range koOut.Aggregates {
		koOut.Aggregates[i].EmpiricalFDR = koOut.Aggregates[i].TargetFDR * 2 // violated
	}

	var buf bytes.Buffer
	c := NewConsole(&buf)
	c.Verdict(lassoOut, koOut, 0.10)

	out := buf.String()
	assert.Contains(t, out, "lasso reached higher power")
	assert.Contains(t, out, "exceeded the 0.10 FDR target")
}

func TestSaveFigure_WritesDecodablePNG(t *testing.T) {
	lassoOut, koOut := fixtureOutcomes()
	path := filepath.Join(t.TempDir(), "knockoffs_vs_lasso.png")

	require.NoError(t, SaveFigure(path, lassoOut, koOut, 0.10))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	img, err := png.Decode(f)
	require.NoError(t, err, "figure must be a valid PNG")
	bounds := img.Bounds()
	assert.Greater(t, bounds.Dx(), 0)
	assert.Greater(t, bounds.Dy(), 0)
}

func TestSaveFigure_UnknownLevelFails(t *testing.T) {
	lassoOut, koOut := fixtureOutcomes()
	path := filepath.Join(t.TempDir(), "fig.png")
	assert.Error(t, SaveFigure(path, lassoOut, koOut, 0.33))
}

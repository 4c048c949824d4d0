package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_MatchesReferenceRun(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 500, cfg.Data.Samples)
	assert.Equal(t, 1000, cfg.Data.Covariates)
	assert.Equal(t, 0.4, cfg.Data.Correlation)
	assert.Equal(t, 50, cfg.Data.SignalCount)
	assert.Equal(t, int64(2022), cfg.Data.CovariateSeed)
	assert.Equal(t, int64(123), cfg.Data.CoefficientSeed)
	assert.Equal(t, 10, cfg.Study.Trials)
	assert.Equal(t, 10, cfg.Study.CVFolds)
	assert.Equal(t, "mvr", cfg.Study.Statistic)
	assert.Equal(t, 0.10, cfg.Study.ReportLevel)
	assert.Equal(t, "knockoffs_vs_lasso.png", cfg.Output.FigurePath)

	require.NoError(t, cfg.Validate())
}

func TestLoad_AppliesEnvironmentOverrides(t *testing.T) {
	t.Setenv("FIGURE_PATH", "out/compare.png")
	t.Setenv("PARALLEL_TRIALS", "true")
	t.Setenv("TRIAL_WORKERS", "4")
	t.Setenv("PINNED_FINGERPRINT", "abc123")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "out/compare.png", cfg.Output.FigurePath)
	assert.True(t, cfg.Study.ParallelTrials)
	assert.Equal(t, 4, cfg.Study.TrialWorkers)
	assert.Equal(t, "abc123", cfg.Output.PinnedFingerprint)
}

func TestLoad_IgnoresMalformedOverrides(t *testing.T) {
	t.Setenv("TRIAL_WORKERS", "lots")
	t.Setenv("PARALLEL_TRIALS", "sure")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Study.TrialWorkers)
	assert.False(t, cfg.Study.ParallelTrials)
}

func TestValidate_RejectsIllFormedRuns(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"k above p", func(c *Config) { c.Data.SignalCount = c.Data.Covariates + 1 }},
		{"rho out of range", func(c *Config) { c.Data.Correlation = 1.0 }},
		{"no trials", func(c *Config) { c.Study.Trials = 0 }},
		{"one fold", func(c *Config) { c.Study.CVFolds = 1 }},
		{"empty figure path", func(c *Config) { c.Output.FigurePath = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
